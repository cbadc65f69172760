package obs

import "github.com/jonboulle/clockwork"

// clock is the time source for Time. Tests swap it with SetClock.
var clock = clockwork.NewRealClock()

// Clock returns the package clock.
func Clock() clockwork.Clock { return clock }

// SetClock swaps the time source. Pass nil to reset to real time.
func SetClock(c clockwork.Clock) {
	if c == nil {
		clock = clockwork.NewRealClock()
		return
	}
	clock = c
}
