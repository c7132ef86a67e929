// Package dates works with calendar days as zero-padded YYYY-MM-DD strings,
// which order lexicographically the same way they order in time.
package dates

import (
	"fmt"
	"time"
)

const Layout = time.DateOnly

func Format(t time.Time) string {
	return t.Format(Layout)
}

// Today returns the local calendar day of now.
func Today(now time.Time) string {
	return Format(now.Local())
}

func Parse(date string) (time.Time, error) {
	t, err := time.ParseInLocation(Layout, date, time.Local)
	if err != nil {
		return time.Time{}, fmt.Errorf("parse date %q: %w", date, err)
	}
	return t, nil
}

// InRange reports whether date lies in the closed range [start, end].
func InRange(date, start, end string) bool {
	return date >= start && date <= end
}

// AddDays shifts date by n calendar days.
func AddDays(date string, n int) (string, error) {
	t, err := Parse(date)
	if err != nil {
		return "", err
	}
	return Format(t.AddDate(0, 0, n)), nil
}

// Normalize returns start and end in ascending order.
func Normalize(start, end string) (string, string) {
	if start > end {
		return end, start
	}
	return start, end
}

// Each lists every day from start to end inclusive.
func Each(start, end string) ([]string, error) {
	from, err := Parse(start)
	if err != nil {
		return nil, err
	}
	to, err := Parse(end)
	if err != nil {
		return nil, err
	}
	var days []string
	for d := from; !d.After(to); d = d.AddDate(0, 0, 1) {
		days = append(days, Format(d))
	}
	return days, nil
}
