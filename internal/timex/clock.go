package timex

import "time"

const day = 24 * time.Hour

// Clock supplies the current time and the elapsed-days computation used by
// the revision tiering rules.
type Clock interface {
	Now() time.Time
	ElapsedDaysSince(t time.Time) int
}

// SystemClock reads the wall clock in UTC.
type SystemClock struct{}

func NewSystemClock() SystemClock {
	return SystemClock{}
}

func (SystemClock) Now() time.Time {
	return time.Now().UTC()
}

func (c SystemClock) ElapsedDaysSince(t time.Time) int {
	return DaysBetween(t, c.Now())
}

// DaysBetween returns the number of whole days from `from` to `to`,
// truncated toward zero. A `from` in the future yields a negative value.
func DaysBetween(from, to time.Time) int {
	return int(to.Sub(from) / day)
}

// FixedClock always reports the same instant. Useful in tests and tools that
// need deterministic timestamps.
type FixedClock struct {
	At time.Time
}

func (c FixedClock) Now() time.Time {
	return c.At
}

func (c FixedClock) ElapsedDaysSince(t time.Time) int {
	return DaysBetween(t, c.At)
}
