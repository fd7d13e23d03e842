package nucleus

import "nucleus/machine"

// Schedule runs the scheduler directly, without a preceding Dispatch. Only
// useful once, to hand control to the first bootstrapped process before any
// hardware event has occurred; every other call into the scheduler happens
// through Dispatch.
func (n *Nucleus) Schedule() Outcome { return n.schedule() }

// schedule dequeues the ready queue's head and dispatches it, or decides
// between idle/halt/deadlock when the ready queue is empty.
func (n *Nucleus) schedule() Outcome {
	r := n.ready.removeHead(n.pool)
	if r != pcbNil {
		n.current = r
		p := n.pool.get(r)
		p.startTOD = n.hw.TOD()
		n.hw.ArmPLT(machine.Quantum)
		n.hw.LoadState(&p.state)
		return OutcomeScheduled
	}

	n.current = pcbNil
	switch {
	case n.processCount == 0:
		n.hw.Halt()
		return OutcomeHalted
	case n.softBlockCount > 0:
		n.hw.Idle()
		return OutcomeIdle
	default:
		n.hw.Panic("deadlock: processes remain but none are ready or soft-blocked")
		return OutcomeDeadlock
	}
}
