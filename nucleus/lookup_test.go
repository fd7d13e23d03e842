package nucleus

import (
	"errors"
	"testing"

	"nucleus/machine"
)

func TestCurrentSupportNoSuchProcess(t *testing.T) {
	n, _ := newTestNucleus(t)
	pid, _ := n.Bootstrap(machine.State{}, nil)
	n.schedule()
	n.Dispatch(machine.Exception{State: statePtr(syscallState(SysTerminateProcess, 0, 0, 0))})

	if _, err := n.CurrentSupport(pid); !errors.Is(err, ErrNoSuchProcess) {
		t.Fatalf("CurrentSupport(terminated pid) = %v, want ErrNoSuchProcess", err)
	}
}

func TestCurrentSupportReturnsRegisteredValue(t *testing.T) {
	n, _ := newTestNucleus(t)
	sup := &SupportContext{}
	pid, _ := n.Bootstrap(machine.State{}, sup)

	got, err := n.CurrentSupport(pid)
	if err != nil {
		t.Fatalf("CurrentSupport: %v", err)
	}
	if got != sup {
		t.Fatal("CurrentSupport did not return the registered support structure")
	}
}

func TestBlockedOnNotBlocked(t *testing.T) {
	n, _ := newTestNucleus(t)
	pid, _ := n.Bootstrap(machine.State{}, nil)
	n.schedule()

	if _, err := n.BlockedOn(pid); !errors.Is(err, ErrNotBlocked) {
		t.Fatalf("BlockedOn(running pid) = %v, want ErrNotBlocked", err)
	}
}

func TestBlockedOnReportsSemaphore(t *testing.T) {
	n, _ := newTestNucleus(t)
	waiterPID, _ := n.Bootstrap(machine.State{}, nil)
	n.Bootstrap(machine.State{}, nil) // keep the ready queue non-empty once waiterPID blocks
	sem := n.NewUserSemaphore(0)

	n.schedule()
	if n.CurrentPID() != waiterPID {
		t.Fatalf("current = %v, want %v", n.CurrentPID(), waiterPID)
	}
	n.Dispatch(machine.Exception{State: statePtr(syscallState(SysPasseren, uint32(sem), 0, 0))})

	got, err := n.BlockedOn(waiterPID)
	if err != nil {
		t.Fatalf("BlockedOn: %v", err)
	}
	if got != sem {
		t.Fatalf("BlockedOn = %v, want %v", got, sem)
	}
}

func TestBlockedOnNoSuchProcess(t *testing.T) {
	n, _ := newTestNucleus(t)
	if _, err := n.BlockedOn(PID(99)); !errors.Is(err, ErrNoSuchProcess) {
		t.Fatalf("BlockedOn(never-allocated pid) = %v, want ErrNoSuchProcess", err)
	}
}
