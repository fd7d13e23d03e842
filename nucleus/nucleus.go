package nucleus

import "nucleus/machine"

// Nucleus holds every piece of global nucleus state as fields of a single
// value instead of package-level globals. Every method below assumes it is
// the only goroutine touching this value at any given moment.
type Nucleus struct {
	hw   Hardware
	pool *Pool
	asl  *ASL

	ready   procQueue
	current pcbRef

	processCount   int32
	softBlockCount int32

	// deviceSem holds the device-semaphore counters, indexed as computed by
	// machine.SemIndex; the trailing slot is the pseudo-clock semaphore.
	// Array-slot index doubles as the slot's SemAddr identity.
	deviceSem [machine.NSem]int32

	// nextUserSem allocates distinct identities for user-created
	// semaphores, kept disjoint from the device-semaphore index range.
	nextUserSem SemAddr
	userSems    map[SemAddr]int32

	// pending stages CreateProcess arguments (see PrepareCreate).
	pending *pendingCreate
}

// New returns an initialized, idle Nucleus bound to hw.
func New(hw Hardware) *Nucleus {
	return &Nucleus{
		hw:          hw,
		pool:        NewPool(),
		asl:         NewASL(),
		current:     pcbNil,
		nextUserSem: SemAddr(machine.NSem),
	}
}

// NewUserSemaphore allocates a fresh, nucleus-private identity for a
// user-level semaphore with the given initial counter value. It is not a
// SYSCALL in its own right (the spec's syscall table has none for semaphore
// creation) — callers obtain a SemAddr out of band and pass it to P/V.
func (n *Nucleus) NewUserSemaphore(initial int32) SemAddr {
	addr := n.nextUserSem
	n.nextUserSem++
	n.setSemValue(addr, initial)
	return addr
}

// DeviceSemAddr returns the SemAddr identity for device-semaphore array
// index idx; use machine.SemIndex to compute idx, and machine.PseudoClockSem
// for the pseudo-clock.
func DeviceSemAddr(idx int) SemAddr { return SemAddr(idx) }

func isDeviceSem(addr SemAddr) bool {
	return addr >= 0 && int(addr) < machine.NSem
}

// semValue and setSemValue route through the fixed-size deviceSem array or
// the userSems map depending on which range addr falls in.
func (n *Nucleus) semValue(addr SemAddr) int32 {
	if isDeviceSem(addr) {
		return n.deviceSem[addr]
	}
	return n.userSems[addr]
}

func (n *Nucleus) setSemValue(addr SemAddr, v int32) {
	if isDeviceSem(addr) {
		n.deviceSem[addr] = v
		return
	}
	if n.userSems == nil {
		n.userSems = make(map[SemAddr]int32)
	}
	n.userSems[addr] = v
}

// CurrentPID returns the PID of the running process, or 0 if none (the
// processor is idle or halted).
func (n *Nucleus) CurrentPID() PID { return refToPID(n.current) }

// CPUTime returns the accumulated CPU time recorded for pid, or 0 if pid
// does not identify a live process.
func (n *Nucleus) CPUTime(pid PID) uint64 {
	r := pidToRef(pid)
	if r < 0 || r >= MaxProc || !n.pool.get(r).inUse {
		return 0
	}
	return n.pool.get(r).time
}

// ProcessCount returns the number of live (non-free) PCBs.
func (n *Nucleus) ProcessCount() int { return int(n.processCount) }

// SoftBlockCount returns the number of PCBs blocked on a device or
// pseudo-clock semaphore.
func (n *Nucleus) SoftBlockCount() int { return int(n.softBlockCount) }

// Bootstrap creates the very first process, with no parent. A fresh Nucleus
// starts with every PCB free and no current process, so something has to
// seed the tree before any CreateProcess syscall has a parent to link
// under. Returns ErrProcessTableFull if called on an already-full pool,
// which cannot happen in practice on a freshly constructed Nucleus.
func (n *Nucleus) Bootstrap(state machine.State, support any) (PID, error) {
	r := n.pool.allocate()
	if r == pcbNil {
		return 0, ErrProcessTableFull
	}
	p := n.pool.get(r)
	p.state = state
	p.support = support
	p.startTOD = n.hw.TOD()
	n.ready.insertAtTail(n.pool, r)
	n.processCount++
	return refToPID(r), nil
}

// chargeTime adds the elapsed time since the PCB's last dispatch to its
// accumulated CPU time. Must be called before any blocking event, so a
// process never loses CPU time it already used while it waits.
func (n *Nucleus) chargeTime(r pcbRef) {
	p := n.pool.get(r)
	now := n.hw.TOD()
	if now > p.startTOD {
		p.time += now - p.startTOD
	}
}
