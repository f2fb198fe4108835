package services

import "time"

// Clock abstracts time access so SLA evaluation and the escalation
// sweeper can be tested against fixed instants.
type Clock interface {
	Now() time.Time
}

type systemClock struct{}

func (systemClock) Now() time.Time { return time.Now() }

// NewSystemClock returns the wall-clock implementation
func NewSystemClock() Clock {
	return systemClock{}
}
