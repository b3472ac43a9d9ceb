// Package timegrid places instants onto regular time grids: floor and ceiling
// to a period anchored at a base offset, plus small calendar helpers.
package timegrid

import (
	"time"
)

const dayFormat = "20060102"

// Floor returns the last grid instant at or before t, for a grid of the given
// period with points offset by base past each period boundary. For example
// Floor(12:40, 30m, 15m) is 12:15.
func Floor(t time.Time, period, base time.Duration) time.Time {
	f := t.Truncate(period).Add(base)
	if f.After(t) {
		f = f.Add(-period)
	}
	return f
}

// Ceil returns the first grid instant at or after t. An instant already on
// the grid is returned unchanged.
func Ceil(t time.Time, period, base time.Duration) time.Time {
	f := Floor(t, period, base)
	if f.Equal(t) {
		return f
	}
	return f.Add(period)
}

// Midpoint returns the center of the interval starting at left.
func Midpoint(left time.Time, period time.Duration) time.Time {
	return left.Add(period / 2)
}

func SameDay(t time.Time, t2 time.Time) bool {
	return t.Format(dayFormat) == t2.Format(dayFormat)
}

// TrimClock drops the wall clock component of t, leaving midnight of the same
// calendar day.
func TrimClock(t time.Time) time.Time {
	h, m, s := t.Clock()
	return t.Add(-1 *
		(time.Duration(h)*time.Hour +
			time.Duration(m)*time.Minute +
			time.Duration(s)*time.Second))
}
