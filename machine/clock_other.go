//go:build !unix

package machine

// newTODClock returns the best available TOD clock source for this platform.
func newTODClock() TODClock {
	return newWallClock()
}
