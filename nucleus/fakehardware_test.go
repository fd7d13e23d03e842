package nucleus

import (
	"time"

	"nucleus/machine"
)

// fakeHardware is a minimal, deterministic Hardware for exercising Dispatch
// without a real *machine.Machine goroutine underneath — Dispatch itself is
// synchronous and testable in isolation.
type fakeHardware struct {
	tod      uint64
	devices  *machine.DeviceFile
	loaded   *machine.State
	halted   bool
	panicked string
	idled    int
	armed    []uint64 // recorded ArmPLT durations, in nanoseconds
}

func newFakeHardware() *fakeHardware {
	return &fakeHardware{devices: machine.NewDeviceFile()}
}

func (f *fakeHardware) ArmPLT(d time.Duration)         { f.armed = append(f.armed, uint64(d)) }
func (f *fakeHardware) Halt()                          { f.halted = true }
func (f *fakeHardware) Panic(reason string)            { f.panicked = reason }
func (f *fakeHardware) Idle()                          { f.idled++ }
func (f *fakeHardware) LoadState(s *machine.State)      { f.loaded = s }
func (f *fakeHardware) TOD() uint64                     { return f.tod }
func (f *fakeHardware) Devices() *machine.DeviceFile    { return f.devices }

func (f *fakeHardware) advance(d time.Duration) { f.tod += uint64(d) }
