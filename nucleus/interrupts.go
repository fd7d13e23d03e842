package nucleus

import "nucleus/machine"

// handlePLT handles the running process's quantum expiring. It is simply
// preempted, not blocked — charged its CPU time and moved to the back of
// the ready queue.
func (n *Nucleus) handlePLT() {
	r := n.current
	if r == pcbNil {
		return
	}
	n.chargeTime(r)
	n.current = pcbNil
	n.ready.insertAtTail(n.pool, r)
}

// handleIntervalTimer broadcasts the pseudo-clock tick: every
// WaitClock-blocked process becomes ready, and the pseudo-clock semaphore
// is reset to 0 rather than incremented one waiter at a time, since an
// interval tick wakes everyone unconditionally regardless of how negative
// the counter had gone.
func (n *Nucleus) handleIntervalTimer() {
	addr := DeviceSemAddr(machine.PseudoClockSem)
	for n.asl.headBlocked(n.pool, addr) != pcbNil {
		n.wakeOne(addr)
	}
	n.setSemValue(addr, 0)
}

// handleDevice runs the device-interrupt ACK/unblock protocol: find the
// lowest-numbered pending device on line, ACK it (transmit before receive
// for terminals), V its semaphore, and if that unblocks a waiter, hand it
// the latched status in v0. A line with nothing pending is a no-op, making
// repeated delivery of the same interrupt idempotent.
func (n *Nucleus) handleDevice(line uint8) {
	df := n.hw.Devices()
	dev := machine.LowestSet(df.PendingBitmap(line))
	if dev < 0 {
		return
	}

	var res machine.AckResult
	if line == machine.LineTerminal {
		res = df.AckTerminal(uint8(dev))
	} else {
		res = df.Ack(line, uint8(dev))
	}

	idx := machine.SemIndex(line, uint8(dev), res.IsTransmit)
	addr := DeviceSemAddr(idx)

	v := n.semValue(addr) + 1
	n.setSemValue(addr, v)
	if v > 0 {
		return
	}

	r := n.asl.removeBlocked(n.pool, addr)
	if r == pcbNil {
		return
	}
	n.pool.get(r).state.SetV0(uint32(res.Status))
	n.softBlockCount--
	n.ready.insertAtTail(n.pool, r)
}
