package tasks

import (
	"cmp"
	"slices"
	"strings"

	"github.com/sadopc/goalify/internal/dates"
	"github.com/sadopc/goalify/internal/store"
)

// kindRank puts template instances ahead of ad-hoc ones.
func kindRank(k store.Kind) int {
	if k == store.KindDefault {
		return 0
	}
	return 1
}

func compareTasks(a, b store.Task) int {
	if c := cmp.Compare(kindRank(a.Kind), kindRank(b.Kind)); c != 0 {
		return c
	}
	return cmp.Compare(a.Order, b.Order)
}

// filter copies the cached tasks matching keep.
func (m *Manager) filter(keep func(store.Task) bool) []store.Task {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []store.Task
	for _, t := range m.st.tasks {
		if keep(t) {
			out = append(out, t.Clone())
		}
	}
	return out
}

// DefaultTasks returns the cached templates ordered by order.
func (m *Manager) DefaultTasks() []store.DefaultTask {
	m.mu.Lock()
	dts := slices.Clone(m.st.defaultTasks)
	m.mu.Unlock()
	slices.SortStableFunc(dts, func(a, b store.DefaultTask) int { return cmp.Compare(a.Order, b.Order) })
	return dts
}

// CurrentTask returns the next task to work on today.
func (m *Manager) CurrentTask() (store.Task, bool) {
	today := m.today()
	open := m.filter(func(t store.Task) bool {
		return t.Date == today && !t.Completed && t.Enabled
	})
	if len(open) == 0 {
		return store.Task{}, false
	}
	slices.SortStableFunc(open, compareTasks)
	return open[0], true
}

// IsAllCompleted reports whether today has enabled tasks and all of them are
// done. An empty day is not done.
func (m *Manager) IsAllCompleted() bool {
	today := m.today()
	enabled := m.filter(func(t store.Task) bool { return t.Date == today && t.Enabled })
	if len(enabled) == 0 {
		return false
	}
	for _, t := range enabled {
		if !t.Completed {
			return false
		}
	}
	return true
}

func (m *Manager) TodayTasks() []store.Task {
	return m.TasksByDate(m.today())
}

func (m *Manager) TasksByDate(date string) []store.Task {
	ts := m.filter(func(t store.Task) bool { return t.Date == date })
	slices.SortStableFunc(ts, compareTasks)
	return ts
}

// CompletedTasks returns completed tasks dated in [start, end], most recently
// completed first.
func (m *Manager) CompletedTasks(start, end string) []store.Task {
	return m.completed(func(t store.Task) bool { return dates.InRange(t.Date, start, end) })
}

// CompletedTasksByName is CompletedTasks restricted to one task name.
func (m *Manager) CompletedTasksByName(name, start, end string) []store.Task {
	return m.completed(func(t store.Task) bool {
		return t.Name == name && dates.InRange(t.Date, start, end)
	})
}

func (m *Manager) completed(keep func(store.Task) bool) []store.Task {
	ts := m.filter(func(t store.Task) bool { return t.Completed && keep(t) })
	slices.SortStableFunc(ts, func(a, b store.Task) int { return compareCompletion(b, a) })
	return ts
}

// compareCompletion orders by completion time, or by date string when either
// side has no completion time.
func compareCompletion(a, b store.Task) int {
	if a.CompletedAt != nil && b.CompletedAt != nil {
		return a.CompletedAt.Compare(*b.CompletedAt)
	}
	return strings.Compare(completionKey(a), completionKey(b))
}

func completionKey(t store.Task) string {
	if t.CompletedAt != nil {
		return t.CompletedAt.UTC().Format(store.TimeLayout)
	}
	return t.Date
}

// NextAdhocOrder is one past the highest order among the tasks on date.
func (m *Manager) NextAdhocOrder(date string) int {
	m.mu.Lock()
	defer m.mu.Unlock()
	order := 0
	for _, t := range m.st.tasks {
		if t.Date == date {
			order = max(order, t.Order)
		}
	}
	return order + 1
}

// Progress counts today's enabled tasks and how many are done.
func (m *Manager) Progress() (done, total int) {
	today := m.today()
	for _, t := range m.filter(func(t store.Task) bool { return t.Date == today && t.Enabled }) {
		total++
		if t.Completed {
			done++
		}
	}
	return done, total
}
