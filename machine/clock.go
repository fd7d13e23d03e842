package machine

import "time"

// Quantum is the fixed processor-local-timer slice.
const Quantum = 5 * time.Millisecond

// IntervalPeriod is the pseudo-clock broadcast period.
const IntervalPeriod = 100 * time.Millisecond

// TODClock reads a monotonically increasing time-of-day value, the
// simulation's stand-in for the hardware TOD register the source reads via
// its STCK macro.
type TODClock interface {
	Now() uint64 // nanoseconds since an arbitrary epoch
}

// wallClock is the portable fallback TOD clock, used on platforms without a
// golang.org/x/sys/unix clock source.
type wallClock struct{ start time.Time }

func newWallClock() *wallClock { return &wallClock{start: time.Now()} }

func (c *wallClock) Now() uint64 {
	return uint64(time.Since(c.start).Nanoseconds())
}
