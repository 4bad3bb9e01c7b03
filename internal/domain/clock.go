package domain

import "github.com/jonboulle/clockwork"

// clock stamps ProcessedAt. Tests and the fixture generator freeze it with
// SetClock.
var clock = clockwork.NewRealClock()

// SetClock swaps the time source used by EnrichLocationEvent. Pass nil to
// reset to real time.
func SetClock(c clockwork.Clock) {
	if c == nil {
		clock = clockwork.NewRealClock()
		return
	}
	clock = c
}
