package nucleus

import (
	"testing"

	"nucleus/machine"
)

func trapState(code machine.ExcCode) machine.State {
	var s machine.State
	s.SetCode(code)
	return s
}

func TestPassUpOrDieTerminatesWithoutSupport(t *testing.T) {
	n, hw := newTestNucleus(t)
	pid, _ := n.Bootstrap(machine.State{}, nil)
	n.schedule()

	out := n.Dispatch(machine.Exception{State: statePtr(trapState(4))}) // program trap, low range
	if out != OutcomeHalted {
		t.Fatalf("Dispatch(trap, no support) = %v, want halted (only process, no one left)", out)
	}
	if n.ProcessCount() != 0 {
		t.Fatal("process should have been terminated")
	}
	_ = pid
	if !hw.halted {
		t.Fatal("machine should halt once the last process is gone")
	}
}

func TestPassUpOrDieResumesSupportContext(t *testing.T) {
	n, _ := newTestNucleus(t)
	sup := &SupportContext{}
	sup.ExceptContext[PassUpGeneral] = ExceptionContext{StackPtr: 0x2000, Status: 0x42, PC: 0x8000}

	pid, _ := n.Bootstrap(machine.State{}, sup)
	n.schedule()

	out := n.Dispatch(machine.Exception{State: statePtr(trapState(6))}) // program trap
	if out != OutcomeScheduled {
		t.Fatalf("Dispatch(trap, with support) = %v, want scheduled (no termination)", out)
	}
	if n.CurrentPID() != pid {
		t.Fatal("process with a support structure should survive and keep running")
	}
	if n.ProcessCount() != 1 {
		t.Fatal("process should not have been terminated")
	}
	if sup.ExceptContext[PassUpGeneral].PC != 0x8000 {
		t.Fatal("support continuation PC should be unchanged")
	}
}

func TestPassUpOrDieTLBEscalation(t *testing.T) {
	n, _ := newTestNucleus(t)
	sup := &SupportContext{}
	sup.ExceptContext[PassUpPageFault] = ExceptionContext{PC: 0x9000}
	pid, _ := n.Bootstrap(machine.State{}, sup)
	n.schedule()

	faulting := trapState(2) // TLB miss range
	faulting.PC = 0x123
	n.Dispatch(machine.Exception{State: statePtr(faulting)})

	if sup.ExceptState[PassUpPageFault].PC != 0x123 {
		t.Fatalf("saved exception state PC = %#x, want %#x (the faulting PC)", sup.ExceptState[PassUpPageFault].PC, 0x123)
	}
	if n.CurrentPID() != pid {
		t.Fatal("process should continue running at its support-level continuation")
	}
}
