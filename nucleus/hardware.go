package nucleus

import (
	"time"

	"nucleus/machine"
)

// Hardware is everything the nucleus needs from its external collaborator.
// The hardware abstraction layer itself is out of scope for this module,
// but the nucleus must still drive one. *machine.Machine implements this;
// tests may supply a fake.
type Hardware interface {
	ArmPLT(d time.Duration)
	Halt()
	Panic(reason string)
	Idle()
	LoadState(*machine.State)
	TOD() uint64
	Devices() *machine.DeviceFile
}
