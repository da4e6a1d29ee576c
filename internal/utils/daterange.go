package utils

import (
	"fmt"
	"time"
)

// DateRange is a half-open [From, To) interval. Zero values are unbounded.
type DateRange struct {
	From time.Time
	To   time.Time
}

// ParseDateRange parses YYYY-MM-DD bounds in loc. The upper bound is
// inclusive of the whole day.
func ParseDateRange(from, to string, loc *time.Location) (DateRange, error) {
	var r DateRange
	if from != "" {
		t, err := time.ParseInLocation(time.DateOnly, from, loc)
		if err != nil {
			return r, fmt.Errorf("invalid from date %q: %w", from, err)
		}
		r.From = t
	}
	if to != "" {
		t, err := time.ParseInLocation(time.DateOnly, to, loc)
		if err != nil {
			return r, fmt.Errorf("invalid to date %q: %w", to, err)
		}
		r.To = t.AddDate(0, 0, 1)
	}
	if !r.From.IsZero() && !r.To.IsZero() && !r.From.Before(r.To) {
		return r, fmt.Errorf("from date %q is after to date %q", from, to)
	}
	return r, nil
}

// IsZero reports whether the range is unbounded on both sides.
func (r DateRange) IsZero() bool {
	return r.From.IsZero() && r.To.IsZero()
}

// LastDays returns the range covering the given number of whole days in loc,
// ending with the day of now.
func LastDays(now time.Time, days int, loc *time.Location) DateRange {
	local := now.In(loc)
	tomorrow := time.Date(local.Year(), local.Month(), local.Day()+1, 0, 0, 0, 0, loc)
	return DateRange{From: tomorrow.AddDate(0, 0, -days), To: tomorrow}
}
