package store

import "time"

// Kind distinguishes template-spawned instances from one-off ones.
type Kind string

const (
	KindDefault Kind = "default"
	KindAdhoc   Kind = "adhoc"
)

type User struct {
	ID        string
	Name      string
	CreatedAt time.Time
}

// DefaultTask is a recurring habit template.
type DefaultTask struct {
	ID        string    `json:"id"`
	UserID    string    `json:"user_id"`
	Name      string    `json:"name"`
	Order     int       `json:"order"`
	Color     string    `json:"color"`
	Enabled   bool      `json:"is_enabled"`
	CreatedAt time.Time `json:"created_at"`
}

// Task is one occurrence of a task on one calendar date.
type Task struct {
	ID          string     `json:"id"`
	UserID      string     `json:"user_id"`
	Name        string     `json:"name"`
	Date        string     `json:"date"` // YYYY-MM-DD
	Kind        Kind       `json:"task_type"`
	Completed   bool       `json:"is_completed"`
	Note        *string    `json:"note,omitempty"`
	CompletedAt *time.Time `json:"completed_at,omitempty"`
	Order       int        `json:"order"`
	Color       string     `json:"color"`
	Enabled     bool       `json:"is_enabled"`
	CreatedAt   time.Time  `json:"created_at"`
}

type Setting struct {
	Key   string
	Value string
}

// TaskFilter is used to filter task instances in queries. Dates are inclusive.
type TaskFilter struct {
	From      string
	To        string
	Date      string
	Name      *string
	Completed *bool
	Limit     int
}

// DefaultTaskPatch carries the fields to change; nil fields are left alone.
type DefaultTaskPatch struct {
	Name    *string
	Color   *string
	Order   *int
	Enabled *bool
}

func (p DefaultTaskPatch) Empty() bool {
	return p.Name == nil && p.Color == nil && p.Order == nil && p.Enabled == nil
}

// Apply returns a copy of dt with the patch merged in.
func (p DefaultTaskPatch) Apply(dt DefaultTask) DefaultTask {
	if p.Name != nil {
		dt.Name = *p.Name
	}
	if p.Color != nil {
		dt.Color = *p.Color
	}
	if p.Order != nil {
		dt.Order = *p.Order
	}
	if p.Enabled != nil {
		dt.Enabled = *p.Enabled
	}
	return dt
}

// TaskPatch is the partial update applied to a task instance. Completing a
// task always writes note and completed_at together, so the three fields are
// set as one unit.
type TaskPatch struct {
	Completed   bool
	Note        *string
	CompletedAt *time.Time
}

// Clone returns a deep copy of t.
func (t Task) Clone() Task {
	if t.Note != nil {
		n := *t.Note
		t.Note = &n
	}
	if t.CompletedAt != nil {
		c := *t.CompletedAt
		t.CompletedAt = &c
	}
	return t
}
