// Package history turns completed tasks into per-day series for charts.
package history

import (
	"slices"

	"github.com/sadopc/goalify/internal/dates"
	"github.com/sadopc/goalify/internal/store"
)

// Day is the completion count of one calendar day.
type Day struct {
	Date   string
	Total  int
	ByName map[string]int
}

type Series struct {
	Start  string
	End    string
	Days   []Day
	Names  []string          // sorted, unique
	Colors map[string]string // name -> color
}

// Build buckets completed tasks by day over [start, end]. Every day of the
// range gets an entry, empty or not. Template colors win over the color an
// instance was created with.
func Build(completed []store.Task, defaults []store.DefaultTask, start, end string) (Series, error) {
	start, end = dates.Normalize(start, end)
	days, err := dates.Each(start, end)
	if err != nil {
		return Series{}, err
	}

	s := Series{
		Start:  start,
		End:    end,
		Days:   make([]Day, len(days)),
		Colors: make(map[string]string),
	}
	index := make(map[string]int, len(days))
	for i, d := range days {
		s.Days[i] = Day{Date: d, ByName: make(map[string]int)}
		index[d] = i
	}

	for _, dt := range defaults {
		s.Colors[dt.Name] = dt.Color
	}

	names := make(map[string]bool)
	for _, t := range completed {
		if !t.Completed {
			continue
		}
		i, ok := index[t.Date]
		if !ok {
			continue
		}
		s.Days[i].Total++
		s.Days[i].ByName[t.Name]++
		names[t.Name] = true
		if _, ok := s.Colors[t.Name]; !ok {
			s.Colors[t.Name] = t.Color
		}
	}

	for n := range names {
		s.Names = append(s.Names, n)
	}
	slices.Sort(s.Names)
	return s, nil
}

// Filter returns a copy of s keeping only the counts of name.
func (s Series) Filter(name string) Series {
	out := Series{
		Start:  s.Start,
		End:    s.End,
		Days:   make([]Day, len(s.Days)),
		Colors: map[string]string{},
	}
	for i, d := range s.Days {
		n := d.ByName[name]
		out.Days[i] = Day{Date: d.Date, Total: n, ByName: map[string]int{}}
		if n > 0 {
			out.Days[i].ByName[name] = n
		}
	}
	if slices.Contains(s.Names, name) {
		out.Names = []string{name}
		out.Colors[name] = s.Colors[name]
	}
	return out
}

// Max is the largest daily total, used to scale charts.
func (s Series) Max() int {
	m := 0
	for _, d := range s.Days {
		m = max(m, d.Total)
	}
	return m
}

// Total is the number of completions in the whole range.
func (s Series) Total() int {
	n := 0
	for _, d := range s.Days {
		n += d.Total
	}
	return n
}
