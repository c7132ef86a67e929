package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
)

const defaultTaskColumns = `id, user_id, name, sort_order, color, is_enabled, created_at`

type rowScanner interface {
	Scan(dest ...any) error
}

func scanDefaultTask(r rowScanner) (DefaultTask, error) {
	var dt DefaultTask
	var enabled int
	var createdAt string
	if err := r.Scan(&dt.ID, &dt.UserID, &dt.Name, &dt.Order, &dt.Color, &enabled, &createdAt); err != nil {
		return DefaultTask{}, err
	}
	dt.Enabled = enabled == 1
	dt.CreatedAt = parseTime(createdAt)
	return dt, nil
}

// ListDefaultTasks returns the user's templates ordered by their order value.
func (s *Store) ListDefaultTasks(ctx context.Context, userID string) ([]DefaultTask, error) {
	return listDefaultTasks(ctx, s.db, userID)
}

type queryer interface {
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
}

func listDefaultTasks(ctx context.Context, q queryer, userID string) ([]DefaultTask, error) {
	rows, err := q.QueryContext(ctx,
		`SELECT `+defaultTaskColumns+` FROM default_tasks WHERE user_id = ? ORDER BY sort_order, rowid`,
		userID,
	)
	if err != nil {
		return nil, fmt.Errorf("list default tasks: %w", err)
	}
	defer rows.Close()

	var tasks []DefaultTask
	for rows.Next() {
		dt, err := scanDefaultTask(rows)
		if err != nil {
			return nil, err
		}
		tasks = append(tasks, dt)
	}
	return tasks, rows.Err()
}

func (s *Store) GetDefaultTask(ctx context.Context, userID, id string) (*DefaultTask, error) {
	dt, err := scanDefaultTask(s.db.QueryRowContext(ctx,
		`SELECT `+defaultTaskColumns+` FROM default_tasks WHERE id = ? AND user_id = ?`, id, userID,
	))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("get default task %s: %w", id, ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("get default task %s: %w", id, err)
	}
	return &dt, nil
}

// CreateDefaultTask inserts a template and returns the stored row.
func (s *Store) CreateDefaultTask(ctx context.Context, userID string, dt DefaultTask) (*DefaultTask, error) {
	id := uuid.NewString()
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO default_tasks (id, user_id, name, sort_order, color, is_enabled, created_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?)`,
		id, userID, dt.Name, dt.Order, dt.Color, boolInt(dt.Enabled), nowString(),
	)
	if err != nil {
		return nil, fmt.Errorf("insert default task: %w", err)
	}
	return s.GetDefaultTask(ctx, userID, id)
}

// SeedDefaultTasks inserts seeds for a user that has no templates yet and
// returns the user's templates. The emptiness check and the inserts share one
// transaction, so racing sessions seed at most once.
func (s *Store) SeedDefaultTasks(ctx context.Context, userID string, seeds []DefaultTask) ([]DefaultTask, error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("begin seed: %w", err)
	}
	defer tx.Rollback()

	var count int
	if err := tx.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM default_tasks WHERE user_id = ?`, userID,
	).Scan(&count); err != nil {
		return nil, fmt.Errorf("count default tasks: %w", err)
	}

	if count == 0 {
		now := nowString()
		for _, dt := range seeds {
			_, err := tx.ExecContext(ctx,
				`INSERT INTO default_tasks (id, user_id, name, sort_order, color, is_enabled, created_at)
				 VALUES (?, ?, ?, ?, ?, ?, ?)`,
				uuid.NewString(), userID, dt.Name, dt.Order, dt.Color, boolInt(dt.Enabled), now,
			)
			if err != nil {
				return nil, fmt.Errorf("seed default task %q: %w", dt.Name, err)
			}
		}
	}

	tasks, err := listDefaultTasks(ctx, tx, userID)
	if err != nil {
		return nil, err
	}
	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("commit seed: %w", err)
	}
	return tasks, nil
}

// UpdateDefaultTask writes the non-nil fields of patch.
func (s *Store) UpdateDefaultTask(ctx context.Context, userID, id string, patch DefaultTaskPatch) error {
	if patch.Empty() {
		return nil
	}
	var sets []string
	var args []any
	if patch.Name != nil {
		sets = append(sets, "name = ?")
		args = append(args, *patch.Name)
	}
	if patch.Color != nil {
		sets = append(sets, "color = ?")
		args = append(args, *patch.Color)
	}
	if patch.Order != nil {
		sets = append(sets, "sort_order = ?")
		args = append(args, *patch.Order)
	}
	if patch.Enabled != nil {
		sets = append(sets, "is_enabled = ?")
		args = append(args, boolInt(*patch.Enabled))
	}
	args = append(args, id, userID)

	res, err := s.db.ExecContext(ctx,
		`UPDATE default_tasks SET `+strings.Join(sets, ", ")+` WHERE id = ? AND user_id = ?`,
		args...,
	)
	if err != nil {
		return fmt.Errorf("update default task %s: %w", id, err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return fmt.Errorf("update default task %s: %w", id, ErrNotFound)
	}
	return nil
}

// DeleteDefaultTask removes a template. Instances already materialized from
// it are kept. Deleting a missing row is not an error.
func (s *Store) DeleteDefaultTask(ctx context.Context, userID, id string) error {
	_, err := s.db.ExecContext(ctx,
		`DELETE FROM default_tasks WHERE id = ? AND user_id = ?`, id, userID,
	)
	if err != nil {
		return fmt.Errorf("delete default task %s: %w", id, err)
	}
	return nil
}
