package weather

import "github.com/jonboulle/clockwork"

// clock stamps summaries and times refresh cycles. Tests swap it via SetClock.
var clock = clockwork.NewRealClock()

// SetClock replaces the time source. Pass nil to restore the real clock.
func SetClock(c clockwork.Clock) {
	if c == nil {
		clock = clockwork.NewRealClock()
		return
	}
	clock = c
}
