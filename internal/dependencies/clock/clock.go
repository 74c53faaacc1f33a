package clock

import "time"

// Clock supplies the current time. Match lifecycle timestamps, the
// stale-activity cancellation check, and stats day boundaries all read
// it so tests can control time explicitly.
type Clock interface {
	Now() time.Time
}

// RealClock reads the system clock
type RealClock struct{}

// New creates a new RealClock
func New() *RealClock {
	return &RealClock{}
}

func (c *RealClock) Now() time.Time {
	return time.Now()
}
