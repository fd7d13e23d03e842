package nucleus

import "nucleus/machine"

// Syscall numbers, placed in a0 by the caller.
const (
	SysCreateProcess    = 1
	SysTerminateProcess = 2
	SysPasseren         = 3
	SysVerhogen         = 4
	SysWaitIO           = 5
	SysGetCPUTime       = 6
	SysWaitClock        = 7
	SysGetSupportPTR    = 8
)

// pendingCreate stages the CreateProcess arguments that a real ABI would
// pass by pointer, since this simulation has no memory for a1/a2 to point
// into; PrepareCreate sets it, dispatchSyscall consumes and clears it.
type pendingCreate struct {
	state   machine.State
	support any
}

// PrepareCreate stages the initial state and support structure for the next
// CreateProcess syscall issued by the current process. Must be called
// before raising the syscall 1 exception.
func (n *Nucleus) PrepareCreate(state machine.State, support any) {
	n.pending = &pendingCreate{state: state, support: support}
}

// dispatchSyscall advances the saved PC before routing to one of the eight
// services, so a blocking P or a Terminate leaves the saved state pointing
// at the instruction after the SYSCALL rather than at it.
func (n *Nucleus) dispatchSyscall(s *machine.State) Outcome {
	s.AdvancePC()
	n.pool.get(n.current).state = *s

	num := s.A0()

	// Nucleus syscalls are a kernel-mode-only facility: a user-mode caller
	// invoking 1-8 gets the same treatment as an illegal instruction, not
	// syscall service. Status is the saved pre-exception status register, so
	// StatusKUp here reflects the mode the process was actually running in.
	if num >= SysCreateProcess && num <= SysGetSupportPTR && s.Status&machine.StatusKUp != 0 {
		return n.finishPassUp(n.passUpOrDie(PassUpGeneral, &n.pool.get(n.current).state))
	}

	switch num {
	case SysCreateProcess:
		n.sysCreateProcess()
	case SysTerminateProcess:
		n.sysTerminateProcess()
	case SysPasseren:
		n.sysPasseren(SemAddr(s.A1()))
	case SysVerhogen:
		n.sysVerhogen(SemAddr(s.A1()))
	case SysWaitIO:
		n.sysWaitIO(uint8(s.A1()), uint8(s.A2()), s.A3() != 0)
	case SysGetCPUTime:
		n.sysGetCPUTime()
	case SysWaitClock:
		n.sysWaitClock()
	case SysGetSupportPTR:
		n.sysGetSupportPTR()
	default:
		// Illegal syscall number: escalate as a general-exception trap.
		return n.finishPassUp(n.passUpOrDie(PassUpGeneral, &n.pool.get(n.current).state))
	}

	// Only a syscall that blocked or terminated its caller (P that went
	// negative, WaitIO, WaitClock, TerminateProcess) clears current; every
	// other service returns control to the same process without going
	// through the ready queue.
	if n.current != pcbNil {
		n.hw.LoadState(&n.pool.get(n.current).state)
		return OutcomeScheduled
	}
	return n.schedule()
}

// sysCreateProcess implements syscall 1. It consumes whatever PrepareCreate
// staged; calling it without staging anything creates a process with a
// zeroed initial state.
func (n *Nucleus) sysCreateProcess() {
	parent := n.current
	var pc pendingCreate
	if n.pending != nil {
		pc = *n.pending
		n.pending = nil
	}

	child := n.pool.allocate()
	if child == pcbNil {
		n.pool.get(parent).state.SetV0(^uint32(0))
		return
	}
	cp := n.pool.get(child)
	cp.state = pc.state
	cp.support = pc.support
	cp.startTOD = n.hw.TOD()

	insertChild(n.pool, parent, child)
	n.ready.insertAtTail(n.pool, child)
	n.processCount++

	n.pool.get(parent).state.SetV0(0)
}

// sysTerminateProcess implements syscall 2: recursive kill of the current
// process and every descendant. terminateProcess below does this with an
// explicit worklist rather than native recursion, to avoid unbounded Go
// call-stack growth for a deep tree — though at MaxProc=20 either would be
// safe in practice.
func (n *Nucleus) sysTerminateProcess() {
	victim := n.current
	n.current = pcbNil
	n.terminateProcess(victim)
}

// terminateProcess frees r and its entire subtree. It is also the landing
// spot for processes killed by an undefined exception or a failed
// Pass-Up-or-Die.
func (n *Nucleus) terminateProcess(r pcbRef) {
	if r == pcbNil {
		return
	}
	work := []pcbRef{r}
	for len(work) > 0 {
		cur := work[len(work)-1]
		work = work[:len(work)-1]

		for {
			child := removeFirstChild(n.pool, cur)
			if child == pcbNil {
				break
			}
			work = append(work, child)
		}

		n.detachAndFree(cur)
	}
}

// detachAndFree removes r from whatever queue (ready or ASL) currently
// holds it, from its parent's child list, and returns its PCB to the free
// pool, maintaining processCount and softBlockCount.
func (n *Nucleus) detachAndFree(r pcbRef) {
	p := n.pool.get(r)

	if r == n.current {
		n.current = pcbNil
	} else if p.semAdd != NoSem {
		addr := p.semAdd
		if n.asl.outBlocked(n.pool, r) != pcbNil {
			if isDeviceSem(addr) {
				// Device completions are idempotent to the nucleus: a
				// pending I/O will later find no waiter and its V is
				// simply discarded, so the counter is left as is.
				n.softBlockCount--
			} else {
				// Undo the P that blocked this process.
				n.setSemValue(addr, n.semValue(addr)+1)
			}
		}
	} else {
		n.ready.removeSpecific(n.pool, r)
	}

	detach(n.pool, r)
	n.pool.free(r)
	n.processCount--
}

// sysPasseren implements syscall 3 (P): decrement the semaphore; block the
// caller if the result went negative.
func (n *Nucleus) sysPasseren(addr SemAddr) {
	v := n.semValue(addr) - 1
	n.setSemValue(addr, v)
	if v >= 0 {
		return
	}
	n.blockCurrentOn(addr)
}

// blockCurrentOn charges CPU time and moves the current process, whose state
// dispatchSyscall has already saved, onto addr's ASL wait queue. Resource
// exhaustion (ErrASLExhausted) is surfaced by undoing the P and putting the
// process back on the ready queue with -1 in v0 rather than blocking it,
// since there is no caller above the nucleus to propagate a Go error to.
func (n *Nucleus) blockCurrentOn(addr SemAddr) {
	r := n.current
	n.chargeTime(r)
	if err := n.asl.insertBlocked(n.pool, addr, r); err != nil {
		n.setSemValue(addr, n.semValue(addr)+1)
		n.pool.get(r).state.SetV0(^uint32(0))
		n.ready.insertAtTail(n.pool, r)
		n.current = pcbNil
		return
	}
	n.current = pcbNil
}

// sysVerhogen implements syscall 4 (V): increment the semaphore; if a
// waiter exists, move the head of its wait queue to ready.
func (n *Nucleus) sysVerhogen(addr SemAddr) {
	v := n.semValue(addr) + 1
	n.setSemValue(addr, v)
	if v > 0 {
		return
	}
	n.wakeOne(addr)
}

// wakeOne dequeues addr's head waiter and moves it to ready. A wakeup via
// plain V never carries a device status, so the waiter's saved v0 is left
// untouched. Waking a waiter on any device or pseudo-clock semaphore
// decrements softBlockCount; device-interrupt wakeups go through
// handleDevice's own path instead, since those need to stamp a status.
func (n *Nucleus) wakeOne(addr SemAddr) {
	r := n.asl.removeBlocked(n.pool, addr)
	if r == pcbNil {
		return
	}
	if isDeviceSem(addr) {
		n.softBlockCount--
	}
	n.ready.insertAtTail(n.pool, r)
}

// sysWaitIO implements syscall 5: compute the device-semaphore index, mark
// the caller soft-blocked, and P on it.
func (n *Nucleus) sysWaitIO(line, dev uint8, isTermWrite bool) {
	idx := machine.SemIndex(line, dev, isTermWrite)
	n.softBlockCount++
	n.sysPasseren(DeviceSemAddr(idx))
}

// sysGetCPUTime implements syscall 6: accumulated p_time plus time elapsed
// since the most recent dispatch.
func (n *Nucleus) sysGetCPUTime() {
	r := n.current
	p := n.pool.get(r)
	now := n.hw.TOD()
	elapsed := uint64(0)
	if now > p.startTOD {
		elapsed = now - p.startTOD
	}
	p.state.SetV0(uint32(p.time + elapsed))
}

// sysWaitClock implements syscall 7: mark soft-blocked and P on the
// pseudo-clock semaphore.
func (n *Nucleus) sysWaitClock() {
	n.softBlockCount++
	n.sysPasseren(DeviceSemAddr(machine.PseudoClockSem))
}

// sysGetSupportPTR implements syscall 8. The support structure is an opaque
// `any` — it is never interpreted by the nucleus, only carried and handed to
// a higher level — so it cannot be returned in v0 — callers needing it use
// CurrentSupport instead. v0 is set to 0 when no support structure is
// registered and nonzero otherwise, preserving the "returns a pointer, nil
// if none" shape in the one register SYSCALL gives it.
func (n *Nucleus) sysGetSupportPTR() {
	p := n.pool.get(n.current)
	if p.support == nil {
		p.state.SetV0(0)
	} else {
		p.state.SetV0(1)
	}
}

// CurrentSupport returns the support structure registered for pid — the
// Go-typed companion to syscall 8's v0-only return value. Returns
// ErrNoSuchProcess if pid does not identify a live process.
func (n *Nucleus) CurrentSupport(pid PID) (any, error) {
	r := pidToRef(pid)
	if r < 0 || r >= MaxProc || !n.pool.get(r).inUse {
		return nil, ErrNoSuchProcess
	}
	return n.pool.get(r).support, nil
}

// BlockedOn reports the semaphore address pid is currently blocked on.
// Returns ErrNoSuchProcess if pid does not identify a live process, or
// ErrNotBlocked if it identifies a process that is ready or running.
func (n *Nucleus) BlockedOn(pid PID) (SemAddr, error) {
	r := pidToRef(pid)
	if r < 0 || r >= MaxProc || !n.pool.get(r).inUse {
		return NoSem, ErrNoSuchProcess
	}
	addr := n.pool.get(r).semAdd
	if addr == NoSem {
		return NoSem, ErrNotBlocked
	}
	return addr, nil
}
