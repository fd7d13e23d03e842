package nucleus

// insertChild prepends r as the first child of parent.
func insertChild(pool *Pool, parent, r pcbRef) {
	p := pool.get(r)
	pr := pool.get(parent)

	firstSib := pr.child
	pr.child = r
	p.prnt = parent
	p.sibRight = firstSib
	p.sibLeft = pcbNil
	if firstSib != pcbNil {
		pool.get(firstSib).sibLeft = r
	}
}

// removeFirstChild detaches and returns parent's first child, or pcbNil.
func removeFirstChild(pool *Pool, parent pcbRef) pcbRef {
	first := pool.get(parent).child
	if first == pcbNil {
		return pcbNil
	}
	return detach(pool, first)
}

// detach removes r from its parent's child list. Returns pcbNil if r has no
// parent.
func detach(pool *Pool, r pcbRef) pcbRef {
	p := pool.get(r)
	if p.prnt == pcbNil {
		return pcbNil
	}
	parent := pool.get(p.prnt)
	if parent.child == r {
		parent.child = p.sibRight
	}
	if p.sibLeft != pcbNil {
		pool.get(p.sibLeft).sibRight = p.sibRight
	}
	if p.sibRight != pcbNil {
		pool.get(p.sibRight).sibLeft = p.sibLeft
	}
	p.prnt, p.sibLeft, p.sibRight = pcbNil, pcbNil, pcbNil
	return r
}

func hasChild(pool *Pool, r pcbRef) bool {
	return pool.get(r).child != pcbNil
}
