package machine

import (
	"testing"
	"time"
)

func TestIntervalTimerFires(t *testing.T) {
	m := New(Config{})
	defer m.Close()

	select {
	case ev := <-m.Events():
		if ev.Line != LineInterval {
			t.Fatalf("line = %d, want %d", ev.Line, LineInterval)
		}
	case <-time.After(IntervalPeriod + 200*time.Millisecond):
		t.Fatal("timed out waiting for interval tick")
	}
}

func TestArmPLTFires(t *testing.T) {
	m := New(Config{})
	defer m.Close()

	m.ArmPLT(10 * time.Millisecond)
	select {
	case ev := <-m.Events():
		if ev.Line != LinePLT {
			t.Fatalf("line = %d, want %d", ev.Line, LinePLT)
		}
	case <-time.After(500 * time.Millisecond):
		t.Fatal("timed out waiting for PLT")
	}
}

func TestArmPLTReload(t *testing.T) {
	m := New(Config{})
	defer m.Close()

	m.ArmPLT(5 * time.Second)
	m.ArmPLT(5 * time.Millisecond) // reload cancels the first
	select {
	case ev := <-m.Events():
		if ev.Line != LinePLT {
			t.Fatalf("line = %d, want %d", ev.Line, LinePLT)
		}
	case <-time.After(500 * time.Millisecond):
		t.Fatal("timed out waiting for reloaded PLT")
	}
}

func TestCompleteDeviceRaisesLine(t *testing.T) {
	m := New(Config{})
	defer m.Close()

	m.CompleteDevice(LineDisk, 2, StatusReady)
	select {
	case ev := <-m.Events():
		if ev.Line != LineDisk {
			t.Fatalf("line = %d, want %d", ev.Line, LineDisk)
		}
	case <-time.After(500 * time.Millisecond):
		t.Fatal("timed out waiting for device interrupt")
	}

	bm := m.Devices().PendingBitmap(LineDisk)
	if LowestSet(bm) != 2 {
		t.Fatalf("pending device = %d, want 2", LowestSet(bm))
	}
	res := m.Devices().Ack(LineDisk, 2)
	if res.Status != StatusReady {
		t.Fatalf("acked status = %v, want %v", res.Status, StatusReady)
	}
	if LowestSet(m.Devices().PendingBitmap(LineDisk)) != -1 {
		t.Fatal("device still reports pending after ACK")
	}
}

func TestTODMonotonic(t *testing.T) {
	m := New(Config{})
	defer m.Close()

	a := m.TOD()
	time.Sleep(time.Millisecond)
	b := m.TOD()
	if b <= a {
		t.Fatalf("TOD did not advance: a=%d b=%d", a, b)
	}
}
