package nucleus

import "nucleus/machine"

// Dispatch is the nucleus's single entry point: it routes one hardware
// Exception to the right handler and returns what happened. The caller
// (cmd/nucleussim's loop, or a test) owns the single goroutine that may
// call this; nothing in this package locks internally.
func (n *Nucleus) Dispatch(ev machine.Exception) Outcome {
	if ev.State != nil {
		return n.dispatchTrap(ev.State)
	}
	return n.dispatchInterrupt(ev.Line)
}

func (n *Nucleus) dispatchTrap(s *machine.State) Outcome {
	switch s.Code().Categorize() {
	case machine.CategorySyscall:
		return n.dispatchSyscall(s)
	case machine.CategoryTLB:
		return n.finishPassUp(n.passUpOrDie(PassUpPageFault, s))
	case machine.CategoryTrap:
		return n.finishPassUp(n.passUpOrDie(PassUpGeneral, s))
	default:
		// Undefined exception codes have no defined recovery; the
		// offending process is killed.
		n.terminateProcess(n.current)
		return n.schedule()
	}
}

func (n *Nucleus) dispatchInterrupt(line uint8) Outcome {
	switch line {
	case machine.LinePLT:
		// Quantum expiry always preempts: current is unconditionally
		// cleared and sent through the scheduler.
		n.handlePLT()
		return n.schedule()
	case machine.LineInterval:
		n.handleIntervalTimer()
	default:
		n.handleDevice(line)
	}

	// Interval and device interrupts only ever move blocked processes to
	// ready; the process that was running when the interrupt arrived (if
	// any) keeps running.
	if n.current != pcbNil {
		n.hw.LoadState(&n.pool.get(n.current).state)
		return OutcomeScheduled
	}
	return n.schedule()
}
