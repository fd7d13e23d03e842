package nucleus

import "nucleus/machine"

// PassUpKind distinguishes the two escalation slots a support structure
// provides.
type PassUpKind uint8

const (
	PassUpPageFault PassUpKind = 0
	PassUpGeneral   PassUpKind = 1
)

// ExceptionContext is the continuation a support level registers for one
// PassUpKind: the stack, status, and PC to resume at.
type ExceptionContext struct {
	StackPtr uint32
	Status   uint32
	PC       uint32
}

// SupportContext is the concrete shape the nucleus expects behind a
// process's opaque support reference, which is otherwise never interpreted
// by the nucleus itself. A process registered with any other (or no)
// support value is treated as having none.
type SupportContext struct {
	ExceptState   [2]machine.State
	ExceptContext [2]ExceptionContext
}

// passUpOrDie escalates a TLB or program-trap exception to the process's
// registered support level, or kills it if it has none. It charges CPU time
// and saves s into the current process's PCB first, as every suspension
// point must. It reports whether the process was terminated (true) — false
// means the process survived and is still current, now loaded with its
// support-level continuation, so the caller must not send it through the
// scheduler.
func (n *Nucleus) passUpOrDie(kind PassUpKind, s *machine.State) bool {
	r := n.current
	n.chargeTime(r)
	p := n.pool.get(r)
	p.state = *s

	sup, ok := p.support.(*SupportContext)
	if !ok || sup == nil {
		n.current = pcbNil
		n.terminateProcess(r)
		return true
	}

	sup.ExceptState[kind] = p.state
	ctx := sup.ExceptContext[kind]
	p.state.SP = ctx.StackPtr
	p.state.Status = ctx.Status
	p.state.PC = ctx.PC
	return false
}

// finishPassUp completes a Pass-Up-or-Die dispatch: a terminated process
// re-enters the scheduler, a surviving one resumes its support-level
// continuation directly, without scheduler involvement.
func (n *Nucleus) finishPassUp(terminated bool) Outcome {
	if terminated {
		return n.schedule()
	}
	n.hw.LoadState(&n.pool.get(n.current).state)
	return OutcomeScheduled
}
