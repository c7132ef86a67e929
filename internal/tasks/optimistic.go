package tasks

import (
	"slices"

	"github.com/sadopc/goalify/internal/store"
)

func taskSlot(s *state) *[]store.Task               { return &s.tasks }
func defaultTaskSlot(s *state) *[]store.DefaultTask { return &s.defaultTasks }

// applyOrRevert snapshots the collection chosen by slot, replaces it with
// mutate's result, then runs remote. When remote fails the snapshot is put
// back and the error is recorded; otherwise the tentative value stands.
func applyOrRevert[T any](m *Manager, slot func(*state) *[]T, mutate func([]T) []T, remote func() error) error {
	var snapshot []T
	m.update(func(s *state) {
		p := slot(s)
		snapshot = slices.Clone(*p)
		*p = mutate(slices.Clone(*p))
	})

	if err := remote(); err != nil {
		m.logger.Printf("tasks: %v", err)
		m.update(func(s *state) {
			*slot(s) = snapshot
			s.err = err
		})
		return err
	}

	m.succeed()
	return nil
}
