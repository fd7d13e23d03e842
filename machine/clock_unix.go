//go:build unix

package machine

import "golang.org/x/sys/unix"

// unixClock reads CLOCK_MONOTONIC directly through the unix syscall wrapper
// rather than through time.Now(), mirroring the source's STCK macro reading
// a literal hardware TOD register instead of a language convenience clock.
type unixClock struct{ startNanos int64 }

func newUnixClock() (*unixClock, bool) {
	var ts unix.Timespec
	if err := unix.ClockGettime(unix.CLOCK_MONOTONIC, &ts); err != nil {
		return nil, false
	}
	return &unixClock{startNanos: ts.Nano()}, true
}

func (c *unixClock) Now() uint64 {
	var ts unix.Timespec
	if err := unix.ClockGettime(unix.CLOCK_MONOTONIC, &ts); err != nil {
		return 0
	}
	return uint64(ts.Nano() - c.startNanos)
}

// newTODClock returns the best available TOD clock source for this platform.
func newTODClock() TODClock {
	if c, ok := newUnixClock(); ok {
		return c
	}
	return newWallClock()
}
