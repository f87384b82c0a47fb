package raceclock

import "time"

// Clock is the time capability injected into the engine. All race-day
// filtering and "next race" scanning happens against one instant read
// from here, never against repeated ambient time calls.
type Clock interface {
	// Now returns the current instant.
	Now() time.Time

	// Minutes returns the current local time as minutes since midnight.
	Minutes() int

	// Today returns the current calendar date as YYYY-MM-DD.
	Today() string
}

type systemClock struct {
	loc *time.Location
}

// NewSystemClock returns a Clock backed by the wall clock in the given
// location. A nil location means time.Local.
func NewSystemClock(loc *time.Location) Clock {
	if loc == nil {
		loc = time.Local
	}
	return &systemClock{loc: loc}
}

func (c *systemClock) Now() time.Time {
	return time.Now().In(c.loc)
}

func (c *systemClock) Minutes() int {
	now := c.Now()
	return now.Hour()*60 + now.Minute()
}

func (c *systemClock) Today() string {
	return c.Now().Format("2006-01-02")
}

// FixedClock is a Clock pinned to one instant, for deterministic tests
// and for report commands replaying a past date.
type FixedClock struct {
	Instant time.Time
}

// NewFixedClock returns a clock pinned to the given instant.
func NewFixedClock(instant time.Time) *FixedClock {
	return &FixedClock{Instant: instant}
}

func (c *FixedClock) Now() time.Time {
	return c.Instant
}

func (c *FixedClock) Minutes() int {
	return c.Instant.Hour()*60 + c.Instant.Minute()
}

func (c *FixedClock) Today() string {
	return c.Instant.Format("2006-01-02")
}
