package machine

import (
	"fmt"
	"sync"
	"time"
)

// Config configures a simulated Machine. Zero value is a usable, silent
// machine with the default timings.
type Config struct {
	Logger Logger
}

// Machine is the nucleus's external collaborator: it owns the device
// register file, the quantum and interval timers, and the TOD clock, and
// delivers hardware events (PLT expiry, interval-timer expiry, device
// completion) on a channel. Nothing in this package is part of the
// nucleus's own scope — it exists only so nucleus.Dispatch has something
// real to react to in tests and in the cmd/nucleussim harness.
type Machine struct {
	log     Logger
	clock   TODClock
	devices *DeviceFile

	events chan Exception

	mu       sync.Mutex
	plt      *time.Timer
	interval *time.Ticker
	halted   bool
	panicked string
}

// New returns a running Machine. Call Close when done to stop its timers.
func New(cfg Config) *Machine {
	log := cfg.Logger
	if log == nil {
		log = NopLogger{}
	}
	m := &Machine{
		log:     log,
		clock:   newTODClock(),
		devices: NewDeviceFile(),
		events:  make(chan Exception, 64),
	}
	m.interval = time.NewTicker(IntervalPeriod)
	go m.pumpInterval()
	return m
}

func (m *Machine) pumpInterval() {
	for range m.interval.C {
		select {
		case m.events <- Exception{Line: LineInterval}:
		default:
			m.log.WriteLineString("machine: dropped interval tick, event queue full")
		}
	}
}

// Close stops the machine's background timers.
func (m *Machine) Close() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.interval.Stop()
	if m.plt != nil {
		m.plt.Stop()
	}
}

// Events is the channel the nucleus dispatch loop drains one event at a
// time from — the goroutine boundary between this package and nucleus.
func (m *Machine) Events() <-chan Exception { return m.events }

// TOD returns the current simulated time-of-day value.
func (m *Machine) TOD() uint64 { return m.clock.Now() }

// Devices returns the device register file, for handlers that need to
// read/ACK a device directly (the interrupt handler's lowest-level detail).
func (m *Machine) Devices() *DeviceFile { return m.devices }

// ArmPLT (re)loads the processor local timer with d (any positive
// duration; reloading with the same 5ms quantum is always safe). Firing
// delivers a Line: LinePLT Exception.
func (m *Machine) ArmPLT(d time.Duration) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.plt != nil {
		m.plt.Stop()
	}
	m.plt = time.AfterFunc(d, func() {
		select {
		case m.events <- Exception{Line: LinePLT}:
		default:
			m.log.WriteLineString("machine: dropped PLT tick, event queue full")
		}
	})
}

// CompleteDevice simulates a non-terminal device finishing an operation:
// it latches the status and raises an interrupt on line.
func (m *Machine) CompleteDevice(line uint8, dev uint8, status DeviceStatus) {
	m.devices.Complete(line, dev, status)
	m.raiseLine(line)
}

// CompleteTerminalTransmit simulates a terminal transmit completion.
func (m *Machine) CompleteTerminalTransmit(dev uint8, status DeviceStatus) {
	m.devices.CompleteTerminalTransmit(dev, status)
	m.raiseLine(LineTerminal)
}

// CompleteTerminalRecv simulates a terminal receive completion.
func (m *Machine) CompleteTerminalRecv(dev uint8, status DeviceStatus) {
	m.devices.CompleteTerminalRecv(dev, status)
	m.raiseLine(LineTerminal)
}

func (m *Machine) raiseLine(line uint8) {
	select {
	case m.events <- Exception{Line: line}:
	default:
		m.log.WriteLineString(fmt.Sprintf("machine: dropped device interrupt on line %d, event queue full", line))
	}
}

// Raise delivers a synthetic SYSCALL/TLB/trap exception carrying a fully
// populated State — the stand-in for "a process executed an instruction that
// trapped." It lets a caller drive the dispatcher synchronously without a
// real CPU underneath.
func (m *Machine) Raise(s *State) Exception {
	return Exception{State: s}
}

// Halt reports normal shutdown (processCount has reached 0). Conceptually
// non-returning: callers must not expect further dispatch after this.
func (m *Machine) Halt() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.halted = true
	m.log.WriteLineString("machine: HALT")
}

// Halted reports whether Halt has been called.
func (m *Machine) Halted() bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.halted
}

// Panic reports a fatal nucleus condition (deadlock). Conceptually
// non-returning.
func (m *Machine) Panic(reason string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.panicked = reason
	m.log.WriteLineString("machine: PANIC: " + reason)
}

// Panicked reports whether Panic has been called, and with what reason.
func (m *Machine) Panicked() (bool, string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.panicked != "", m.panicked
}

// Idle enables interrupts and the local timer and reports that the
// processor is waiting for the next one. The simulation has no WAIT
// instruction to execute; the caller (the nucleus's driving loop) is
// expected to simply continue reading Events.
func (m *Machine) Idle() {
	m.log.WriteLineString("machine: idle, waiting for interrupt")
}

// LoadState is the simulation's stand-in for the hardware LDST instruction:
// conceptually non-returning, it hands control to s. This simulation has no
// real code to execute, so it is a no-op observation point (kept so
// nucleus code reads the way the source's scheduler/interrupt handlers do,
// which always end in an explicit LDST call).
func (m *Machine) LoadState(s *State) {
	_ = s
}
