package machine

// Interrupt line numbers. Lines 0 and 1 are reserved (unused / PLT — PLT is
// delivered as LinePLT below); 2 is the interval timer; 3-7 are devices.
const (
	LinePLT      = 1
	LineInterval = 2
	LineDisk     = 3
	LineFlash    = 4
	LineNetwork  = 5
	LinePrinter  = 6
	LineTerminal = 7

	LineFirstDevice = LineDisk
	LineLastDevice  = LineTerminal
)

// DevPerInt is the number of device slots per interrupt line.
const DevPerInt = 8

// DeviceStatus codes, shared by every device register.
type DeviceStatus uint32

const (
	StatusUninstalled DeviceStatus = 0
	StatusReady        DeviceStatus = 1
	StatusBusy         DeviceStatus = 3
)

// DeviceCommand codes.
type DeviceCommand uint32

const (
	CommandReset DeviceCommand = 0
	CommandAck   DeviceCommand = 1
)

// deviceRegs is one non-terminal device's register block.
type deviceRegs struct {
	status  DeviceStatus
	pending bool // latched completion waiting for ACK
}

// termRegs is a terminal's register block: two independent sub-devices,
// receive and transmit, each with its own status/command pair.
type termRegs struct {
	recvStatus  DeviceStatus
	recvPending bool
	transStatus DeviceStatus
	transPending bool
}

// DeviceFile holds every device's registers, including each one's latched,
// unacknowledged completion flag. PendingBitmap derives from those flags,
// per line, the interrupting-devices bitmap the interrupt handler reads to
// find the highest-priority pending device.
type DeviceFile struct {
	nonTerm [4][DevPerInt]deviceRegs // disk, flash, network, printer
	term    [DevPerInt]termRegs
}

// NewDeviceFile returns a device file with every device READY (matching the source's convention that READY==installed-and-idle is
// the simulation's resting state; a real BIOS would report UNINSTALLED for
// devices absent from the configuration, but this simulation always
// "installs" every slot it exposes).
func NewDeviceFile() *DeviceFile {
	df := &DeviceFile{}
	for line := range df.nonTerm {
		for dev := range df.nonTerm[line] {
			df.nonTerm[line][dev].status = StatusReady
		}
	}
	for dev := range df.term {
		df.term[dev].recvStatus = StatusReady
		df.term[dev].transStatus = StatusReady
	}
	return df
}

func nonTermLineIndex(line uint8) int {
	return int(line - LineFirstDevice)
}

// Complete latches a completion status for a non-terminal device and marks
// it pending (interrupting) until ACKed. line must be in [LineDisk,
// LinePrinter].
func (df *DeviceFile) Complete(line uint8, dev uint8, status DeviceStatus) {
	r := &df.nonTerm[nonTermLineIndex(line)][dev]
	r.status = status
	r.pending = true
}

// CompleteTerminalRecv latches a terminal receive completion.
func (df *DeviceFile) CompleteTerminalRecv(dev uint8, status DeviceStatus) {
	r := &df.term[dev]
	r.recvStatus = status
	r.recvPending = true
}

// CompleteTerminalTransmit latches a terminal transmit completion.
func (df *DeviceFile) CompleteTerminalTransmit(dev uint8, status DeviceStatus) {
	r := &df.term[dev]
	r.transStatus = status
	r.transPending = true
}

// PendingBitmap returns, for a device line, a bitmap of device indices with
// a latched, unacknowledged completion.
func (df *DeviceFile) PendingBitmap(line uint8) uint8 {
	var bm uint8
	if line == LineTerminal {
		for dev := range df.term {
			r := &df.term[dev]
			if r.transPending || r.recvPending {
				bm |= 1 << uint(dev)
			}
		}
		return bm
	}
	row := &df.nonTerm[nonTermLineIndex(line)]
	for dev := range row {
		if row[dev].pending {
			bm |= 1 << uint(dev)
		}
	}
	return bm
}

// LowestSet returns the index of the lowest set bit, or -1 if bm is zero.
// Lower device index is higher priority.
func LowestSet(bm uint8) int {
	if bm == 0 {
		return -1
	}
	for i := 0; i < 8; i++ {
		if bm&(1<<uint(i)) != 0 {
			return i
		}
	}
	return -1
}

// AckResult is what an ACK read-and-clear returns: the latched status and,
// for terminals, which sub-device (receive or transmit) was acknowledged.
type AckResult struct {
	Status    DeviceStatus
	IsTransmit bool // meaningful only for terminal lines
}

// Ack reads and clears the latched completion for a non-terminal device.
func (df *DeviceFile) Ack(line uint8, dev uint8) AckResult {
	r := &df.nonTerm[nonTermLineIndex(line)][dev]
	res := AckResult{Status: r.status}
	r.pending = false
	return res
}

// AckTerminal reads and clears a terminal's latched completion, preferring
// transmit over receive when both are pending.
func (df *DeviceFile) AckTerminal(dev uint8) AckResult {
	r := &df.term[dev]
	if r.transPending {
		res := AckResult{Status: r.transStatus, IsTransmit: true}
		r.transPending = false
		return res
	}
	res := AckResult{Status: r.recvStatus, IsTransmit: false}
	r.recvPending = false
	return res
}

// SemIndex computes the device-semaphore array index for a device
// interrupt line and device number. isTransmit selects the transmit
// sub-device on the terminal line; it is ignored for other lines.
func SemIndex(line uint8, dev uint8, isTransmit bool) int {
	if line == LineTerminal {
		r := 0
		if isTransmit {
			r = 1
		}
		return 4*DevPerInt + int(dev)*2 + r
	}
	return int(line-LineFirstDevice)*DevPerInt + int(dev)
}

// NSem is the total number of device semaphores, including the trailing
// pseudo-clock slot: 4 non-terminal lines * 8, plus 2 terminal sub-devices *
// 8, plus 1 pseudo-clock.
const NSem = 4*DevPerInt + 2*DevPerInt + 1

// PseudoClockSem is the index of the pseudo-clock semaphore, the last slot.
const PseudoClockSem = NSem - 1
