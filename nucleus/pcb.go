// Package nucleus implements the process/semaphore/exception-dispatch core:
// a fixed-capacity PCB allocator and process queues and trees, an Active
// Semaphore List, a preemptive round-robin scheduler, and the
// exception/interrupt/SYSCALL dispatcher plus Pass-Up-or-Die. Every method
// in this package runs on exactly one goroutine at a time — none of it
// takes a lock.
package nucleus

import "nucleus/machine"

// MaxProc is the fixed PCB pool capacity.
const MaxProc = 20

// pcbRef is an index into Pool.table, or pcbNil. Using an index rather than
// a pointer keeps every reference valid-or-nil by construction and makes
// free trivial.
type pcbRef int16

const pcbNil pcbRef = -1

// SemAddr is the opaque identity of a semaphore. Device semaphores use
// their array index; user semaphores use any value distinct from every
// device index and from each other — the nucleus never interprets it, only
// compares it.
type SemAddr int32

// NoSem means "not blocked on any semaphore." It is not SemAddr's zero
// value, which identifies device semaphore 0.
const NoSem SemAddr = -1

// pcb is one process control block.
type pcb struct {
	inUse bool

	// Saved processor state, bit-compatible with the machine's exception
	// save layout so a single LoadState restores execution.
	state machine.State

	time     uint64 // accumulated CPU time, nanoseconds (p_time)
	startTOD uint64 // TOD at last dispatch (p_startTOD)
	semAdd   SemAddr
	support  any // opaque support-structure reference (p_supportStruct)

	next, prev pcbRef // queue links
	prnt       pcbRef
	child      pcbRef
	sibLeft    pcbRef
	sibRight   pcbRef
}

// PID identifies a PCB by its pool slot. PID 0 is never valid.
type PID int32

func refToPID(r pcbRef) PID {
	if r == pcbNil {
		return 0
	}
	return PID(r + 1)
}

func pidToRef(p PID) pcbRef {
	if p == 0 {
		return pcbNil
	}
	return pcbRef(p - 1)
}

// Pool is the fixed-capacity PCB allocator.
type Pool struct {
	table  [MaxProc]pcb
	freeHd pcbRef
}

// NewPool returns a pool with every PCB on the free list.
func NewPool() *Pool {
	p := &Pool{}
	for i := 0; i < MaxProc; i++ {
		p.table[i] = pcb{}
		if i == MaxProc-1 {
			p.table[i].next = pcbNil
		} else {
			p.table[i].next = pcbRef(i + 1)
		}
	}
	p.freeHd = 0
	return p
}

// Allocate returns a zeroed PCB from the free list, or pcbNil if exhausted.
func (p *Pool) allocate() pcbRef {
	if p.freeHd == pcbNil {
		return pcbNil
	}
	r := p.freeHd
	p.freeHd = p.table[r].next
	p.table[r] = pcb{semAdd: NoSem, next: pcbNil, prev: pcbNil, prnt: pcbNil, child: pcbNil, sibLeft: pcbNil, sibRight: pcbNil}
	p.table[r].inUse = true
	return r
}

// Free returns p to the free list head. p must not be referenced again.
func (p *Pool) free(r pcbRef) {
	p.table[r] = pcb{inUse: false, next: p.freeHd}
	p.freeHd = r
}

func (p *Pool) get(r pcbRef) *pcb { return &p.table[r] }
