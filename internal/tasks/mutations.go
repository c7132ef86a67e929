package tasks

import (
	"context"
	"errors"
	"fmt"
	"slices"
	"sync"

	"golang.org/x/sync/errgroup"

	"github.com/sadopc/goalify/internal/store"
	"github.com/sadopc/goalify/internal/validate"
)

const reorderConcurrency = 4

// CompleteTask marks the task id as done with an optional note. The change
// is visible immediately and reverted if the store rejects it. The returned
// bool is true only when the write was confirmed.
func (m *Manager) CompleteTask(ctx context.Context, id string, note *string) (bool, error) {
	const op = "complete task"

	n, err := validate.Note(note)
	if err != nil {
		return false, m.fail(err)
	}
	u, err := m.user(ctx, op)
	if err != nil {
		return false, m.fail(err)
	}

	m.mu.Lock()
	known := slices.ContainsFunc(m.st.tasks, func(t store.Task) bool { return t.ID == id })
	m.mu.Unlock()
	if !known {
		return false, m.fail(opError(op, ErrNotFound, fmt.Errorf("task %s", id)))
	}

	completedAt := m.now().UTC()
	patch := store.TaskPatch{Completed: true, Note: n, CompletedAt: &completedAt}

	err = applyOrRevert(m, taskSlot,
		func(ts []store.Task) []store.Task {
			for i := range ts {
				if ts[i].ID == id {
					ts[i].Completed = true
					ts[i].Note = n
					ts[i].CompletedAt = &completedAt
				}
			}
			return ts
		},
		func() error {
			if err := exec(ctx, m, func(ctx context.Context) error {
				return m.store.UpdateTask(ctx, u.ID, id, patch)
			}); err != nil {
				return opError(op, ErrRemoteWrite, err)
			}
			return nil
		},
	)
	return err == nil, err
}

// AddDefaultTask creates a new enabled template after the last one.
func (m *Manager) AddDefaultTask(ctx context.Context, name, color string) (store.DefaultTask, error) {
	const op = "add default task"

	name, err := validate.TaskName(name)
	if err != nil {
		return store.DefaultTask{}, m.fail(err)
	}
	color, err = validate.Color(color)
	if err != nil {
		return store.DefaultTask{}, m.fail(err)
	}
	u, err := m.user(ctx, op)
	if err != nil {
		return store.DefaultTask{}, m.fail(err)
	}

	m.mu.Lock()
	order := 0
	for _, dt := range m.st.defaultTasks {
		order = max(order, dt.Order)
	}
	m.mu.Unlock()

	created, err := call(ctx, m, func(ctx context.Context) (*store.DefaultTask, error) {
		return m.store.CreateDefaultTask(ctx, u.ID, store.DefaultTask{
			Name:    name,
			Order:   order + 1,
			Color:   color,
			Enabled: true,
		})
	})
	if err != nil {
		return store.DefaultTask{}, m.fail(opError(op, ErrRemoteWrite, err))
	}

	m.update(func(s *state) {
		s.defaultTasks = append(s.defaultTasks, *created)
		s.err = nil
	})
	return *created, nil
}

// RemoveDefaultTask deletes a template. Instances it already produced stay.
func (m *Manager) RemoveDefaultTask(ctx context.Context, id string) error {
	const op = "remove default task"

	u, err := m.user(ctx, op)
	if err != nil {
		return m.fail(err)
	}

	return applyOrRevert(m, defaultTaskSlot,
		func(dts []store.DefaultTask) []store.DefaultTask {
			return slices.DeleteFunc(dts, func(dt store.DefaultTask) bool { return dt.ID == id })
		},
		func() error {
			if err := exec(ctx, m, func(ctx context.Context) error {
				return m.store.DeleteDefaultTask(ctx, u.ID, id)
			}); err != nil {
				return opError(op, ErrRemoteWrite, err)
			}
			return nil
		},
	)
}

// UpdateDefaultTask merges patch into the template id.
func (m *Manager) UpdateDefaultTask(ctx context.Context, id string, patch store.DefaultTaskPatch) error {
	const op = "update default task"

	if patch.Name != nil {
		name, err := validate.TaskName(*patch.Name)
		if err != nil {
			return m.fail(err)
		}
		patch.Name = &name
	}
	if patch.Color != nil {
		color, err := validate.Color(*patch.Color)
		if err != nil {
			return m.fail(err)
		}
		patch.Color = &color
	}
	if patch.Order != nil {
		if err := validate.Order(*patch.Order); err != nil {
			return m.fail(err)
		}
	}
	if patch.Empty() {
		return nil
	}

	u, err := m.user(ctx, op)
	if err != nil {
		return m.fail(err)
	}

	m.mu.Lock()
	known := slices.ContainsFunc(m.st.defaultTasks, func(dt store.DefaultTask) bool { return dt.ID == id })
	m.mu.Unlock()
	if !known {
		return m.fail(opError(op, ErrNotFound, fmt.Errorf("default task %s", id)))
	}

	return applyOrRevert(m, defaultTaskSlot,
		func(dts []store.DefaultTask) []store.DefaultTask {
			for i := range dts {
				if dts[i].ID == id {
					dts[i] = patch.Apply(dts[i])
				}
			}
			return dts
		},
		func() error {
			if err := exec(ctx, m, func(ctx context.Context) error {
				return m.store.UpdateDefaultTask(ctx, u.ID, id, patch)
			}); err != nil {
				return opError(op, ErrRemoteWrite, err)
			}
			return nil
		},
	)
}

// ReorderDefaultTasks replaces the template list with sequence, renumbering
// orders 1..n by position. sequence must hold every cached template exactly
// once. Changed rows are written in parallel; if any write fails the whole
// reorder is rolled back in memory, although the writes that did succeed stay
// in the store until the next Initialize.
func (m *Manager) ReorderDefaultTasks(ctx context.Context, sequence []store.DefaultTask) error {
	const op = "reorder default tasks"

	m.mu.Lock()
	current := make(map[string]int, len(m.st.defaultTasks))
	for _, dt := range m.st.defaultTasks {
		current[dt.ID] = dt.Order
	}
	m.mu.Unlock()

	if !isPermutation(current, sequence) {
		return m.fail(validate.ErrInvalidSequence)
	}

	u, err := m.user(ctx, op)
	if err != nil {
		return m.fail(err)
	}

	reordered := make([]store.DefaultTask, len(sequence))
	for i, dt := range sequence {
		dt.Order = i + 1
		reordered[i] = dt
	}

	var changed []store.DefaultTask
	for _, dt := range reordered {
		if order, ok := current[dt.ID]; !ok || order != dt.Order {
			changed = append(changed, dt)
		}
	}

	return applyOrRevert(m, defaultTaskSlot,
		func([]store.DefaultTask) []store.DefaultTask { return slices.Clone(reordered) },
		func() error {
			if len(changed) == 0 {
				return nil
			}
			if err := exec(ctx, m, func(ctx context.Context) error {
				return m.writeOrders(ctx, u.ID, changed)
			}); err != nil {
				return opError(op, ErrPartialReorder, err)
			}
			return nil
		},
	)
}

// isPermutation reports whether sequence lists exactly the ids in current.
func isPermutation(current map[string]int, sequence []store.DefaultTask) bool {
	if len(sequence) != len(current) {
		return false
	}
	seen := make(map[string]bool, len(sequence))
	for _, dt := range sequence {
		if _, ok := current[dt.ID]; !ok || seen[dt.ID] {
			return false
		}
		seen[dt.ID] = true
	}
	return true
}

// writeOrders updates the order of every task in changed and joins all
// failures into one error.
func (m *Manager) writeOrders(ctx context.Context, userID string, changed []store.DefaultTask) error {
	var (
		mu   sync.Mutex
		errs []error
		g    errgroup.Group
	)
	g.SetLimit(reorderConcurrency)

	for _, dt := range changed {
		g.Go(func() error {
			order := dt.Order
			if err := m.store.UpdateDefaultTask(ctx, userID, dt.ID, store.DefaultTaskPatch{Order: &order}); err != nil {
				mu.Lock()
				errs = append(errs, fmt.Errorf("%s: %w", dt.Name, err))
				mu.Unlock()
			}
			return nil
		})
	}
	_ = g.Wait()

	return errors.Join(errs...)
}

// AddAdhocTask attaches a one-off task to date. A non-positive order is
// replaced with the next free order for that date. When a task with the same
// name already exists on date, the insert is absorbed and the existing row is
// returned.
func (m *Manager) AddAdhocTask(ctx context.Context, date, name, color string, order int) (store.Task, error) {
	const op = "add task"

	if err := validate.Date(date); err != nil {
		return store.Task{}, m.fail(err)
	}
	name, err := validate.TaskName(name)
	if err != nil {
		return store.Task{}, m.fail(err)
	}
	color, err = validate.Color(color)
	if err != nil {
		return store.Task{}, m.fail(err)
	}
	u, err := m.user(ctx, op)
	if err != nil {
		return store.Task{}, m.fail(err)
	}
	if order <= 0 {
		order = m.NextAdhocOrder(date)
	}

	row := store.Task{
		UserID:  u.ID,
		Name:    name,
		Date:    date,
		Kind:    store.KindAdhoc,
		Order:   order,
		Color:   color,
		Enabled: true,
	}

	saved, err := call(ctx, m, func(ctx context.Context) (*store.Task, error) {
		inserted, err := m.store.UpsertTasks(ctx, u.ID, []store.Task{row})
		if err != nil {
			return nil, err
		}
		if len(inserted) > 0 {
			return &inserted[0], nil
		}
		return m.store.GetTaskByKey(ctx, u.ID, name, date)
	})
	if err != nil {
		return store.Task{}, m.fail(opError(op, ErrRemoteWrite, err))
	}

	m.update(func(s *state) {
		s.tasks = mergeTasks(s.tasks, []store.Task{*saved})
		s.err = nil
	})
	return *saved, nil
}
