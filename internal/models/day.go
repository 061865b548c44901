// internal/models/day.go
package models

import (
	"fmt"
	"strings"
	"time"
)

// dayLayout is the only accepted wire format for business dates. The
// original UI compared zero-padded date strings lexicographically; here
// the format is enforced at the boundary and comparisons use real dates.
const dayLayout = "2006-01-02"

// Day is a calendar date without a time component. The zero value is
// "no date".
type Day struct {
	t time.Time
}

// ParseDay parses a strict zero-padded YYYY-MM-DD string.
func ParseDay(s string) (Day, error) {
	t, err := time.Parse(dayLayout, s)
	if err != nil {
		return Day{}, fmt.Errorf("invalid business date %q: %w", s, err)
	}
	return Day{t: t}, nil
}

// DayOf truncates an instant to its calendar date.
func DayOf(t time.Time) Day {
	return Day{t: time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)}
}

// NewDay builds a Day from components without validation beyond
// time.Date normalization.
func NewDay(year int, month time.Month, day int) Day {
	return Day{t: time.Date(year, month, day, 0, 0, 0, 0, time.UTC)}
}

func (d Day) IsZero() bool       { return d.t.IsZero() }
func (d Day) Before(o Day) bool  { return d.t.Before(o.t) }
func (d Day) After(o Day) bool   { return d.t.After(o.t) }
func (d Day) Equal(o Day) bool   { return d.t.Equal(o.t) }
func (d Day) AddDays(n int) Day  { return Day{t: d.t.AddDate(0, 0, n)} }
func (d Day) Year() int          { return d.t.Year() }
func (d Day) Month() time.Month  { return d.t.Month() }
func (d Day) Weekday() time.Weekday { return d.t.Weekday() }

func (d Day) String() string {
	if d.IsZero() {
		return ""
	}
	return d.t.Format(dayLayout)
}

func (d Day) MarshalJSON() ([]byte, error) {
	if d.IsZero() {
		return []byte(`""`), nil
	}
	return []byte(`"` + d.t.Format(dayLayout) + `"`), nil
}

func (d *Day) UnmarshalJSON(data []byte) error {
	s := strings.Trim(string(data), `"`)
	if s == "" || s == "null" {
		*d = Day{}
		return nil
	}
	parsed, err := ParseDay(s)
	if err != nil {
		return err
	}
	*d = parsed
	return nil
}
