package domain

import (
	"time"

	"github.com/jonboulle/clockwork"
)

// clock supplies request dates and event timestamps.
var clock clockwork.Clock = clockwork.NewRealClock()

// SetClock replaces the time source and returns a func that restores the
// previous one. A nil clock selects real time.
func SetClock(c clockwork.Clock) (restore func()) {
	prev := clock
	if c == nil {
		c = clockwork.NewRealClock()
	}
	clock = c
	return func() { clock = prev }
}

func now() time.Time {
	return clock.Now()
}
