package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/google/uuid"
)

const taskColumns = `id, user_id, name, date, task_type, is_completed, note, completed_at, sort_order, color, is_enabled, created_at`

func scanTask(r rowScanner) (Task, error) {
	var t Task
	var kind, createdAt string
	var completed, enabled int
	var note, completedAt sql.NullString
	err := r.Scan(&t.ID, &t.UserID, &t.Name, &t.Date, &kind, &completed, &note, &completedAt,
		&t.Order, &t.Color, &enabled, &createdAt)
	if err != nil {
		return Task{}, err
	}
	t.Kind = Kind(kind)
	t.Completed = completed == 1
	t.Enabled = enabled == 1
	if note.Valid {
		t.Note = &note.String
	}
	if completedAt.Valid {
		ts := parseTime(completedAt.String)
		t.CompletedAt = &ts
	}
	t.CreatedAt = parseTime(createdAt)
	return t, nil
}

func (s *Store) GetTask(ctx context.Context, userID, id string) (*Task, error) {
	return s.getTask(ctx, `id = ? AND user_id = ?`, id, userID)
}

// GetTaskByKey looks a task up by its uniqueness key.
func (s *Store) GetTaskByKey(ctx context.Context, userID, name, date string) (*Task, error) {
	return s.getTask(ctx, `user_id = ? AND name = ? AND date = ?`, userID, name, date)
}

func (s *Store) getTask(ctx context.Context, where string, args ...any) (*Task, error) {
	t, err := scanTask(s.db.QueryRowContext(ctx, `SELECT `+taskColumns+` FROM tasks WHERE `+where, args...))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("get task: %w", ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("get task: %w", err)
	}
	return &t, nil
}

// ListTasks returns the user's tasks matching f, newest date first.
func (s *Store) ListTasks(ctx context.Context, userID string, f TaskFilter) ([]Task, error) {
	query := `SELECT ` + taskColumns + ` FROM tasks WHERE user_id = ?`
	args := []any{userID}

	if f.Date != "" {
		query += ` AND date = ?`
		args = append(args, f.Date)
	}
	if f.From != "" {
		query += ` AND date >= ?`
		args = append(args, f.From)
	}
	if f.To != "" {
		query += ` AND date <= ?`
		args = append(args, f.To)
	}
	if f.Name != nil {
		query += ` AND name = ?`
		args = append(args, *f.Name)
	}
	if f.Completed != nil {
		query += ` AND is_completed = ?`
		args = append(args, boolInt(*f.Completed))
	}
	query += ` ORDER BY date DESC, sort_order, rowid`
	if f.Limit > 0 {
		query += fmt.Sprintf(` LIMIT %d`, f.Limit)
	}

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list tasks: %w", err)
	}
	defer rows.Close()

	var tasks []Task
	for rows.Next() {
		t, err := scanTask(rows)
		if err != nil {
			return nil, err
		}
		tasks = append(tasks, t)
	}
	return tasks, rows.Err()
}

// UpsertTasks inserts tasks for userID with conflict target (user_id, name,
// date). Rows that collide with an existing one are silently dropped; only the
// rows actually persisted are returned.
func (s *Store) UpsertTasks(ctx context.Context, userID string, tasks []Task) ([]Task, error) {
	if len(tasks) == 0 {
		return nil, nil
	}
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("begin upsert: %w", err)
	}
	defer tx.Rollback()

	now := nowString()
	var inserted []Task
	for _, t := range tasks {
		var completedAt any
		if t.CompletedAt != nil {
			completedAt = t.CompletedAt.UTC().Format(TimeLayout)
		}
		row, err := scanTask(tx.QueryRowContext(ctx,
			`INSERT INTO tasks (id, user_id, name, date, task_type, is_completed, note, completed_at, sort_order, color, is_enabled, created_at)
			 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
			 ON CONFLICT(user_id, name, date) DO NOTHING
			 RETURNING `+taskColumns,
			uuid.NewString(), userID, t.Name, t.Date, string(t.Kind), boolInt(t.Completed), t.Note,
			completedAt, t.Order, t.Color, boolInt(t.Enabled), now,
		))
		if errors.Is(err, sql.ErrNoRows) {
			continue
		}
		if err != nil {
			return nil, fmt.Errorf("upsert task %q on %s: %w", t.Name, t.Date, err)
		}
		inserted = append(inserted, row)
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("commit upsert: %w", err)
	}
	return inserted, nil
}

// UpdateTask applies patch to the task id owned by userID.
func (s *Store) UpdateTask(ctx context.Context, userID, id string, patch TaskPatch) error {
	var completedAt any
	if patch.CompletedAt != nil {
		completedAt = patch.CompletedAt.UTC().Format(TimeLayout)
	}
	res, err := s.db.ExecContext(ctx,
		`UPDATE tasks SET is_completed = ?, note = ?, completed_at = ? WHERE id = ? AND user_id = ?`,
		boolInt(patch.Completed), patch.Note, completedAt, id, userID,
	)
	if err != nil {
		return fmt.Errorf("update task %s: %w", id, err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return fmt.Errorf("update task %s: %w", id, ErrNotFound)
	}
	return nil
}
