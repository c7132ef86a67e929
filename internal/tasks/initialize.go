package tasks

import (
	"context"
	"slices"

	"github.com/sadopc/goalify/internal/dates"
	"github.com/sadopc/goalify/internal/store"
	"github.com/sadopc/goalify/internal/validate"
)

// Initialize loads the signed-in user's templates and recent tasks, seeding
// templates on first use, then materializes today's tasks. It is a no-op once
// it has succeeded and no error is pending; concurrent calls share one run.
func (m *Manager) Initialize(ctx context.Context) error {
	_, err, _ := m.initGroup.Do("initialize", func() (any, error) {
		return nil, m.initialize(ctx)
	})
	return err
}

func (m *Manager) initialize(ctx context.Context) error {
	m.mu.Lock()
	if m.st.initialized && m.st.err == nil {
		m.mu.Unlock()
		return nil
	}
	m.mu.Unlock()

	m.update(func(s *state) { s.loading = true })

	abort := func(err error) error {
		m.logger.Printf("tasks: %v", err)
		m.update(func(s *state) {
			s.loading = false
			s.initialized = false
			s.err = err
		})
		return err
	}

	u, err := m.user(ctx, "initialize")
	if err != nil {
		return abort(err)
	}

	defaults, err := call(ctx, m, func(ctx context.Context) ([]store.DefaultTask, error) {
		return m.store.ListDefaultTasks(ctx, u.ID)
	})
	if err != nil {
		return abort(opError("load default tasks", ErrRemoteRead, err))
	}

	if len(defaults) == 0 {
		defaults, err = call(ctx, m, func(ctx context.Context) ([]store.DefaultTask, error) {
			return m.store.SeedDefaultTasks(ctx, u.ID, Seeds)
		})
		if err != nil {
			return abort(opError("create initial default tasks", ErrRemoteWrite, err))
		}
	}

	since, err := dates.AddDays(m.today(), -m.windowDays)
	if err != nil {
		return abort(opError("initialize", ErrRemoteRead, err))
	}
	tasks, err := call(ctx, m, func(ctx context.Context) ([]store.Task, error) {
		return m.store.ListTasks(ctx, u.ID, store.TaskFilter{From: since})
	})
	if err != nil {
		return abort(opError("load tasks", ErrRemoteRead, err))
	}

	m.update(func(s *state) {
		s.defaultTasks = defaults
		s.tasks = tasks
		s.loading = false
		s.initialized = true
		s.err = nil
	})

	return m.InitializeDailyTasks(ctx)
}

// InitializeDailyTasks creates today's instances from the enabled templates
// unless some instance for today is already cached. The insert ignores rows
// that already exist for (user, name, date), so sessions racing on the same
// day end up with one row per template.
func (m *Manager) InitializeDailyTasks(ctx context.Context) error {
	const op = "create today's tasks"

	u, err := m.user(ctx, op)
	if err != nil {
		return m.fail(err)
	}

	today := m.today()

	m.mu.Lock()
	exists := slices.ContainsFunc(m.st.tasks, func(t store.Task) bool { return t.Date == today })
	var fresh []store.Task
	if !exists {
		for _, dt := range m.st.defaultTasks {
			if !dt.Enabled {
				continue
			}
			fresh = append(fresh, store.Task{
				UserID:  u.ID,
				Name:    dt.Name,
				Date:    today,
				Kind:    store.KindDefault,
				Order:   dt.Order,
				Color:   dt.Color,
				Enabled: true,
			})
		}
	}
	m.mu.Unlock()

	if len(fresh) == 0 {
		return nil
	}

	inserted, err := call(ctx, m, func(ctx context.Context) ([]store.Task, error) {
		return m.store.UpsertTasks(ctx, u.ID, fresh)
	})
	if err != nil {
		return m.fail(opError(op, ErrRemoteWrite, err))
	}

	m.update(func(s *state) {
		s.tasks = mergeTasks(s.tasks, inserted)
		s.err = nil
	})
	return nil
}

// LoadHistoricalTasks fetches completed tasks in [start, end] from the store
// and adds the ones not cached yet. Reversed bounds are swapped.
func (m *Manager) LoadHistoricalTasks(ctx context.Context, start, end string) error {
	const op = "load history"

	if err := validate.Date(start); err != nil {
		return m.fail(err)
	}
	if err := validate.Date(end); err != nil {
		return m.fail(err)
	}
	start, end = dates.Normalize(start, end)

	u, err := m.user(ctx, op)
	if err != nil {
		return m.fail(err)
	}

	m.update(func(s *state) { s.loading = true })

	completed := true
	rows, err := call(ctx, m, func(ctx context.Context) ([]store.Task, error) {
		return m.store.ListTasks(ctx, u.ID, store.TaskFilter{From: start, To: end, Completed: &completed})
	})
	if err != nil {
		err = opError(op, ErrRemoteRead, err)
		m.logger.Printf("tasks: %v", err)
		m.update(func(s *state) {
			s.loading = false
			s.err = err
		})
		return err
	}

	m.update(func(s *state) {
		s.tasks = mergeTasks(s.tasks, rows)
		s.loading = false
		s.err = nil
	})
	return nil
}

// mergeTasks appends the rows whose id is not in tasks yet.
func mergeTasks(tasks, rows []store.Task) []store.Task {
	seen := make(map[string]bool, len(tasks))
	for _, t := range tasks {
		seen[t.ID] = true
	}
	out := slices.Clone(tasks)
	for _, r := range rows {
		if seen[r.ID] {
			continue
		}
		seen[r.ID] = true
		out = append(out, r)
	}
	return out
}
