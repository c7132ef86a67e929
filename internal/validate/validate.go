// Package validate enforces the field constraints on task names, notes,
// colors and dates before anything is mutated or written.
package validate

import (
	"errors"
	"fmt"
	"slices"
	"strings"
	"time"
	"unicode/utf8"
)

const (
	MaxNameLength = 200
	MaxNoteLength = 1000
)

// Palette is the fixed set of accepted task colors.
var Palette = []string{
	"#ef4444", "#f97316", "#f59e0b", "#eab308", "#84cc16",
	"#22c55e", "#10b981", "#14b8a6", "#06b6d4", "#0ea5e9",
	"#3b82f6", "#6366f1", "#8b5cf6", "#a855f7", "#d946ef",
	"#ec4899", "#f43f5e", "#78716c", "#64748b", "#6b7280",
	"#dc2626", "#ea580c", "#d97706", "#ca8a04", "#65a30d",
}

var (
	ErrValidation      = errors.New("validation failed")
	ErrEmptyName       = fmt.Errorf("%w: task name is empty", ErrValidation)
	ErrNameTooLong     = fmt.Errorf("%w: task name exceeds %d characters", ErrValidation, MaxNameLength)
	ErrNoteTooLong     = fmt.Errorf("%w: note exceeds %d characters", ErrValidation, MaxNoteLength)
	ErrInvalidColor    = fmt.Errorf("%w: color is not in the palette", ErrValidation)
	ErrInvalidDate     = fmt.Errorf("%w: date must be YYYY-MM-DD", ErrValidation)
	ErrInvalidOrder    = fmt.Errorf("%w: order must be positive", ErrValidation)
	ErrInvalidSequence = fmt.Errorf("%w: new order must list every daily task exactly once", ErrValidation)
)

// TaskName trims name and checks its length.
func TaskName(name string) (string, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return "", ErrEmptyName
	}
	if utf8.RuneCountInString(name) > MaxNameLength {
		return "", ErrNameTooLong
	}
	return name, nil
}

// Note trims note. A nil or blank note comes back as nil.
func Note(note *string) (*string, error) {
	if note == nil {
		return nil, nil
	}
	n := strings.TrimSpace(*note)
	if utf8.RuneCountInString(n) > MaxNoteLength {
		return nil, ErrNoteTooLong
	}
	if n == "" {
		return nil, nil
	}
	return &n, nil
}

// Color returns the canonical lower-case form of color if it is in Palette.
func Color(color string) (string, error) {
	c := strings.ToLower(strings.TrimSpace(color))
	if !slices.Contains(Palette, c) {
		return "", ErrInvalidColor
	}
	return c, nil
}

// Date checks that date is a real calendar day in YYYY-MM-DD form.
func Date(date string) error {
	if _, err := time.Parse(time.DateOnly, date); err != nil {
		return ErrInvalidDate
	}
	return nil
}

func Order(order int) error {
	if order < 1 {
		return ErrInvalidOrder
	}
	return nil
}

// IsValidation reports whether err is one of the validation errors.
func IsValidation(err error) bool {
	return errors.Is(err, ErrValidation)
}
