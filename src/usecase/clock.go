package usecase

import (
	"time"

	"diary-app/src/domain"
)

// Clock yields "today" in the calendar's time zone
type Clock struct {
	loc *time.Location
	now func() time.Time
}

// NewClock returns a clock reading the system time in loc
func NewClock(loc *time.Location) Clock {
	if loc == nil {
		loc = time.UTC
	}
	return Clock{loc: loc, now: time.Now}
}

// FixedClock always reports t
func FixedClock(t time.Time, loc *time.Location) Clock {
	c := NewClock(loc)
	c.now = func() time.Time { return t }
	return c
}

// Today returns the current calendar date
func (c Clock) Today() domain.Date {
	return domain.DateOf(c.now(), c.loc)
}

// Year returns the current calendar year
func (c Clock) Year() int {
	return c.now().In(c.loc).Year()
}
