package clock

import "time"

// Clock provides the current time.
type Clock interface {
	Now() time.Time
}

// DefaultClock implements Clock using the system clock.
type DefaultClock struct{}

// Now returns the current time.
func (c *DefaultClock) Now() time.Time {
	return time.Now()
}

// Fixed is a Clock stuck at one instant.
type Fixed time.Time

// Now returns the fixed instant.
func (f Fixed) Now() time.Time {
	return time.Time(f)
}
