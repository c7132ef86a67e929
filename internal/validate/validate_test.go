package validate

import (
	"errors"
	"strings"
	"testing"
)

func TestTaskName(t *testing.T) {
	tests := []struct {
		name    string
		in      string
		want    string
		wantErr error
	}{
		{"plain", "Run", "Run", nil},
		{"trimmed", "  Run \t", "Run", nil},
		{"empty", "", "", ErrEmptyName},
		{"blank", "   ", "", ErrEmptyName},
		{"at limit", strings.Repeat("x", MaxNameLength), strings.Repeat("x", MaxNameLength), nil},
		{"over limit", strings.Repeat("x", MaxNameLength+1), "", ErrNameTooLong},
		{"multibyte at limit", strings.Repeat("è", MaxNameLength), strings.Repeat("è", MaxNameLength), nil},
		{"padding not counted", "  " + strings.Repeat("x", MaxNameLength) + "  ", strings.Repeat("x", MaxNameLength), nil},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := TaskName(tt.in)
			if !errors.Is(err, tt.wantErr) {
				t.Fatalf("expected error %v, got %v", tt.wantErr, err)
			}
			if got != tt.want {
				t.Fatalf("expected %q, got %q", tt.want, got)
			}
		})
	}
}

func TestNote(t *testing.T) {
	ptr := func(s string) *string { return &s }

	got, err := Note(nil)
	if err != nil || got != nil {
		t.Fatalf("nil note: expected nil, nil; got %v, %v", got, err)
	}

	got, err = Note(ptr("   "))
	if err != nil || got != nil {
		t.Fatalf("blank note should become absent, got %v, %v", got, err)
	}

	got, err = Note(ptr("  slept well  "))
	if err != nil {
		t.Fatal(err)
	}
	if got == nil || *got != "slept well" {
		t.Fatalf("expected trimmed note, got %v", got)
	}

	if _, err := Note(ptr(strings.Repeat("x", MaxNoteLength))); err != nil {
		t.Fatalf("note at limit rejected: %v", err)
	}
	if _, err := Note(ptr(strings.Repeat("x", MaxNoteLength+1))); !errors.Is(err, ErrNoteTooLong) {
		t.Fatalf("expected ErrNoteTooLong, got %v", err)
	}
}

func TestNoteDoesNotAliasInput(t *testing.T) {
	in := "note"
	got, _ := Note(&in)
	*got = "changed"
	if in != "note" {
		t.Fatal("Note returned the caller's pointer")
	}
}

func TestColor(t *testing.T) {
	for _, c := range Palette {
		if _, err := Color(c); err != nil {
			t.Fatalf("palette color %s rejected: %v", c, err)
		}
	}

	got, err := Color(" #3B82F6 ")
	if err != nil {
		t.Fatal(err)
	}
	if got != "#3b82f6" {
		t.Fatalf("expected canonical form, got %q", got)
	}

	for _, c := range []string{"", "#000000", "blue", "3b82f6"} {
		if _, err := Color(c); !errors.Is(err, ErrInvalidColor) {
			t.Fatalf("%q: expected ErrInvalidColor, got %v", c, err)
		}
	}
}

func TestPaletteIsUnique(t *testing.T) {
	seen := map[string]bool{}
	for _, c := range Palette {
		if seen[c] {
			t.Fatalf("duplicate palette color %s", c)
		}
		if c != strings.ToLower(c) {
			t.Fatalf("palette color %s is not lower case", c)
		}
		seen[c] = true
	}
}

func TestDate(t *testing.T) {
	for _, d := range []string{"2025-03-14", "2024-02-29"} {
		if err := Date(d); err != nil {
			t.Fatalf("%s rejected: %v", d, err)
		}
	}
	for _, d := range []string{"", "2025-3-14", "2025-02-29", "14/03/2025", "2025-03-14T10:00:00Z"} {
		if err := Date(d); !errors.Is(err, ErrInvalidDate) {
			t.Fatalf("%q: expected ErrInvalidDate, got %v", d, err)
		}
	}
}

func TestOrder(t *testing.T) {
	if err := Order(1); err != nil {
		t.Fatal(err)
	}
	if err := Order(0); !errors.Is(err, ErrInvalidOrder) {
		t.Fatalf("expected ErrInvalidOrder, got %v", err)
	}
}

func TestIsValidation(t *testing.T) {
	for _, err := range []error{ErrEmptyName, ErrNameTooLong, ErrNoteTooLong, ErrInvalidColor, ErrInvalidDate, ErrInvalidOrder, ErrInvalidSequence} {
		if !IsValidation(err) {
			t.Fatalf("%v should be a validation error", err)
		}
	}
	if IsValidation(errors.New("other")) {
		t.Fatal("unrelated error reported as validation")
	}
}
