package nucleus

import "math"

// MaxSemD is the semaphore-descriptor pool size (at least MaxProc, so no
// process ever waits for a descriptor to free up).
const MaxSemD = MaxProc

// semdRef indexes into ASL.table, or semdNil.
type semdRef int16

const semdNil semdRef = -1

// semd is one semaphore descriptor: an address and a wait queue, linked
// into the sorted ASL via next.
type semd struct {
	addr SemAddr
	q    procQueue
	next semdRef
}

// ASL is the Active Semaphore List: a singly-linked list sorted strictly
// ascending by semaphore address, bracketed by two sentinels holding the
// minimum and maximum representable address. This eliminates empty-list and
// insert-at-head special cases.
type ASL struct {
	table  [MaxSemD + 2]semd
	head   semdRef // sentinel, addr = math.MinInt32
	freeHd semdRef
}

const semMinAddr = SemAddr(math.MinInt32)
const semMaxAddr = SemAddr(math.MaxInt32)

// NewASL returns an ASL with both sentinels linked and every real
// descriptor on the free list.
func NewASL() *ASL {
	a := &ASL{}
	head := semdRef(0)
	tail := semdRef(MaxSemD + 1)
	a.table[head] = semd{addr: semMinAddr, next: tail}
	a.table[tail] = semd{addr: semMaxAddr, next: semdNil}
	a.head = head

	for i := 1; i <= MaxSemD; i++ {
		if i == MaxSemD {
			a.table[i].next = semdNil
		} else {
			a.table[i].next = semdRef(i + 1)
		}
	}
	a.freeHd = 1
	return a
}

func (a *ASL) get(r semdRef) *semd { return &a.table[r] }

// find returns the descriptor for addr, or semdNil if not present.
func (a *ASL) find(addr SemAddr) semdRef {
	prev := a.head
	cur := a.get(prev).next
	for a.get(cur).addr < addr {
		prev = cur
		cur = a.get(cur).next
	}
	if a.get(cur).addr == addr {
		return cur
	}
	return semdNil
}

// findWithPrev returns the descriptor for addr and its predecessor in the
// linked list, or (semdNil, predecessor-of-insertion-point) if absent.
func (a *ASL) findWithPrev(addr SemAddr) (prev, cur semdRef) {
	prev = a.head
	cur = a.get(prev).next
	for a.get(cur).addr < addr {
		prev = cur
		cur = a.get(cur).next
	}
	if a.get(cur).addr == addr {
		return prev, cur
	}
	return prev, semdNil
}

// insertBlocked inserts pool-ref r into addr's wait queue, allocating a
// descriptor from the free pool and splicing it into the sorted ASL if
// addr has no descriptor yet. Returns an error ("could not block") if a
// new descriptor is needed but the free pool is exhausted.
func (a *ASL) insertBlocked(pool *Pool, addr SemAddr, r pcbRef) error {
	prev, cur := a.findWithPrev(addr)
	if cur == semdNil {
		if a.freeHd == semdNil {
			return ErrASLExhausted
		}
		newd := a.freeHd
		a.freeHd = a.get(newd).next
		a.table[newd] = semd{addr: addr}

		a.get(newd).next = a.get(prev).next
		a.get(prev).next = newd
		cur = newd
	}
	a.get(cur).q.insertAtTail(pool, r)
	pool.get(r).semAdd = addr
	return nil
}

// removeBlocked dequeues and returns the head PCB blocked on addr, clearing
// its semAdd. Returns pcbNil if addr has no descriptor. Frees the
// descriptor if the wait queue becomes empty.
func (a *ASL) removeBlocked(pool *Pool, addr SemAddr) pcbRef {
	prev, cur := a.findWithPrev(addr)
	if cur == semdNil {
		return pcbNil
	}
	r := a.get(cur).q.removeHead(pool)
	if r == pcbNil {
		return pcbNil
	}
	pool.get(r).semAdd = NoSem
	a.freeIfEmpty(prev, cur)
	return r
}

// outBlocked removes the specific PCB r from the wait queue of its own
// semAdd. Does NOT clear p.semAdd (callers rely on it, e.g. on termination
// of a blocked process). Returns pcbNil if r is not present.
func (a *ASL) outBlocked(pool *Pool, r pcbRef) pcbRef {
	addr := pool.get(r).semAdd
	if addr == NoSem {
		return pcbNil
	}
	prev, cur := a.findWithPrev(addr)
	if cur == semdNil {
		return pcbNil
	}
	removed := a.get(cur).q.removeSpecific(pool, r)
	if removed == pcbNil {
		return pcbNil
	}
	a.freeIfEmpty(prev, cur)
	return removed
}

// headBlocked peeks the head of addr's wait queue without removing it.
func (a *ASL) headBlocked(pool *Pool, addr SemAddr) pcbRef {
	cur := a.find(addr)
	if cur == semdNil {
		return pcbNil
	}
	return a.get(cur).q.peekHead(pool)
}

// freeIfEmpty unlinks cur (whose predecessor in the list is prev) from the
// ASL and returns it to the free pool if its wait queue is now empty.
func (a *ASL) freeIfEmpty(prev, cur semdRef) {
	if !a.get(cur).q.isEmpty() {
		return
	}
	a.get(prev).next = a.get(cur).next
	a.table[cur] = semd{next: a.freeHd}
	a.freeHd = cur
}
