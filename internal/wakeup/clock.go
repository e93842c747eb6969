package wakeup

import "time"

// Clock abstracts the wall clock so absolute times can be tested.
type Clock interface {
	Now() time.Time
}

type realClock struct{}

func (c *realClock) Now() time.Time {
	return time.Now()
}

// SystemClock is the default clock implementation.
var SystemClock Clock = &realClock{}
