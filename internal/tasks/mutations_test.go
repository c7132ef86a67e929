package tasks

import (
	"context"
	"errors"
	"maps"
	"strings"
	"sync"
	"testing"

	"github.com/sadopc/goalify/internal/store"
	"github.com/sadopc/goalify/internal/validate"
)

func ptr[T any](v T) *T { return &v }

// ============================================================
// CompleteTask
// ============================================================

func TestCompleteTask(t *testing.T) {
	h := initialized(t)
	id := h.taskNamed(t, "Peso").ID

	ok, err := h.m.CompleteTask(context.Background(), id, ptr("  72kg  "))
	if err != nil || !ok {
		t.Fatalf("expected success, got ok=%v err=%v", ok, err)
	}

	got := h.taskNamed(t, "Peso")
	if !got.Completed {
		t.Fatal("expected completed")
	}
	if got.Note == nil || *got.Note != "72kg" {
		t.Fatalf("expected trimmed note 72kg, got %v", got.Note)
	}
	if got.CompletedAt == nil || !got.CompletedAt.Equal(testNow) {
		t.Fatalf("expected completed_at %v, got %v", testNow, got.CompletedAt)
	}

	stored, err := h.fs.Store.GetTask(context.Background(), h.user.ID, id)
	if err != nil {
		t.Fatal(err)
	}
	if !stored.Completed || stored.Note == nil || *stored.Note != "72kg" {
		t.Fatalf("expected stored completion with note 72kg, got completed=%v note=%v", stored.Completed, stored.Note)
	}
}

func TestCompleteTaskBlankNoteIsAbsent(t *testing.T) {
	h := initialized(t)
	id := h.taskNamed(t, "Corsa").ID

	if _, err := h.m.CompleteTask(context.Background(), id, ptr("   ")); err != nil {
		t.Fatal(err)
	}
	if note := h.taskNamed(t, "Corsa").Note; note != nil {
		t.Fatalf("expected no note, got %q", *note)
	}
}

func TestCompleteTaskTwice(t *testing.T) {
	h := initialized(t)
	id := h.taskNamed(t, "Corsa").ID

	for i := range 2 {
		ok, err := h.m.CompleteTask(context.Background(), id, nil)
		if err != nil || !ok {
			t.Fatalf("call %d: expected success, got ok=%v err=%v", i+1, ok, err)
		}
	}
	if !h.taskNamed(t, "Corsa").Completed {
		t.Fatal("expected completed")
	}
}

func TestCompleteTaskIsVisibleBeforeWrite(t *testing.T) {
	h := initialized(t)
	g := newGate(false)
	h.fs.hold("UpdateTask", g)
	id := h.taskNamed(t, "Studio").ID

	result := make(chan bool, 1)
	go func() {
		ok, _ := h.m.CompleteTask(context.Background(), id, nil)
		result <- ok
	}()

	<-g.entered
	if !h.taskNamed(t, "Studio").Completed {
		t.Error("optimistic value should be visible while the write is pending")
	}
	close(g.release)
	if !<-result {
		t.Fatal("expected the write to succeed")
	}
	if !h.taskNamed(t, "Studio").Completed {
		t.Fatal("expected completed after the write")
	}
}

func TestCompleteTaskRollsBack(t *testing.T) {
	h := initialized(t)
	h.fs.fail("UpdateTask", errBoom)
	before := h.taskNamed(t, "Peso")

	ok, err := h.m.CompleteTask(context.Background(), before.ID, ptr("note"))
	if ok {
		t.Fatal("expected failure")
	}
	if !errors.Is(err, ErrRemoteWrite) || !errors.Is(err, errBoom) {
		t.Fatalf("expected ErrRemoteWrite wrapping boom, got %v", err)
	}

	after := h.taskNamed(t, "Peso")
	if after.Completed != before.Completed || after.Note != nil || after.CompletedAt != nil {
		t.Fatalf("expected rollback to the open task, got completed=%v note=%v at=%v", after.Completed, after.Note, after.CompletedAt)
	}
	if !errors.Is(h.m.Err(), ErrRemoteWrite) {
		t.Fatalf("expected recorded ErrRemoteWrite, got %v", h.m.Err())
	}
}

func TestCompleteTaskSuccessClearsError(t *testing.T) {
	h := initialized(t)
	h.fs.fail("UpdateTask", errBoom)
	id := h.taskNamed(t, "Peso").ID
	if _, err := h.m.CompleteTask(context.Background(), id, nil); err == nil {
		t.Fatal("expected the first write to fail")
	}

	h.fs.fail("UpdateTask", nil)
	if _, err := h.m.CompleteTask(context.Background(), id, nil); err != nil {
		t.Fatal(err)
	}
	if err := h.m.Err(); err != nil {
		t.Fatalf("expected the error cleared, got %v", err)
	}
}

func TestCompleteTaskNoteTooLong(t *testing.T) {
	h := initialized(t)
	id := h.taskNamed(t, "Peso").ID

	_, err := h.m.CompleteTask(context.Background(), id, ptr(strings.Repeat("x", validate.MaxNoteLength+1)))
	if !errors.Is(err, validate.ErrNoteTooLong) {
		t.Fatalf("expected ErrNoteTooLong, got %v", err)
	}
	if h.taskNamed(t, "Peso").Completed {
		t.Fatal("expected the task to stay open")
	}
	if n := h.fs.count("UpdateTask"); n != 0 {
		t.Fatalf("expected no store write, got %d", n)
	}
	if !errors.Is(h.m.Err(), validate.ErrNoteTooLong) {
		t.Fatalf("expected recorded ErrNoteTooLong, got %v", h.m.Err())
	}
}

func TestCompleteTaskUnknownID(t *testing.T) {
	h := initialized(t)
	if _, err := h.m.CompleteTask(context.Background(), "nope", nil); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
	if n := h.fs.count("UpdateTask"); n != 0 {
		t.Fatalf("expected no store write, got %d", n)
	}
}

func TestCompleteTaskUnauthenticated(t *testing.T) {
	h := initialized(t)
	id := h.taskNamed(t, "Peso").ID
	h.sess.SignOut()

	if _, err := h.m.CompleteTask(context.Background(), id, nil); !errors.Is(err, ErrUnauthenticated) {
		t.Fatalf("expected ErrUnauthenticated, got %v", err)
	}
	if h.taskNamed(t, "Peso").Completed {
		t.Fatal("expected the task to stay open")
	}
}

func TestCompleteTasksConcurrently(t *testing.T) {
	h := initialized(t)

	var wg sync.WaitGroup
	for _, task := range h.m.TodayTasks() {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if _, err := h.m.CompleteTask(context.Background(), task.ID, nil); err != nil {
				t.Errorf("complete %s: %v", task.Name, err)
			}
		}()
	}
	wg.Wait()

	if !h.m.IsAllCompleted() {
		t.Fatal("expected every task completed")
	}
	for _, task := range h.storedTasks(t, testToday) {
		if !task.Completed {
			t.Errorf("stored task %s not completed", task.Name)
		}
	}
}

// ============================================================
// AddDefaultTask
// ============================================================

func TestAddDefaultTask(t *testing.T) {
	h := initialized(t)

	dt, err := h.m.AddDefaultTask(context.Background(), "  Meditate ", "#8B5CF6")
	if err != nil {
		t.Fatal(err)
	}
	if dt.ID == "" || dt.Name != "Meditate" || dt.Color != "#8b5cf6" || !dt.Enabled {
		t.Fatalf("unexpected template %+v", dt)
	}
	if dt.Order != len(Seeds)+1 {
		t.Fatalf("expected order %d, got %d", len(Seeds)+1, dt.Order)
	}

	defaults := h.m.DefaultTasks()
	if len(defaults) != len(Seeds)+1 || defaults[len(defaults)-1].ID != dt.ID {
		t.Fatalf("expected the new template last of %d, got %d templates", len(Seeds)+1, len(defaults))
	}
}

func TestAddDefaultTaskFirstGetsOrderOne(t *testing.T) {
	h := newHarness(t)
	dts := h.withTemplates(t, "Only")
	h.mustInit(t)
	if err := h.m.RemoveDefaultTask(context.Background(), dts[0].ID); err != nil {
		t.Fatal(err)
	}

	dt, err := h.m.AddDefaultTask(context.Background(), "Fresh", "#3b82f6")
	if err != nil {
		t.Fatal(err)
	}
	if dt.Order != 1 {
		t.Fatalf("expected order 1, got %d", dt.Order)
	}
}

func TestAddDefaultTaskValidation(t *testing.T) {
	tests := []struct {
		name    string
		task    string
		color   string
		wantErr error
	}{
		{"empty name", "", "#3b82f6", validate.ErrEmptyName},
		{"blank name", "   ", "#3b82f6", validate.ErrEmptyName},
		{"long name", strings.Repeat("x", 201), "#3b82f6", validate.ErrNameTooLong},
		{"color outside palette", "Run", "#000000", validate.ErrInvalidColor},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h := initialized(t)

			_, err := h.m.AddDefaultTask(context.Background(), tt.task, tt.color)
			if !errors.Is(err, tt.wantErr) || !validate.IsValidation(err) {
				t.Fatalf("expected validation error %v, got %v", tt.wantErr, err)
			}
			if n := h.fs.count("CreateDefaultTask"); n != 0 {
				t.Fatalf("expected no store write, got %d", n)
			}
			if n := len(h.m.DefaultTasks()); n != len(Seeds) {
				t.Fatalf("expected %d templates, got %d", len(Seeds), n)
			}
		})
	}
}

func TestAddDefaultTaskNameAtLimit(t *testing.T) {
	h := initialized(t)
	if _, err := h.m.AddDefaultTask(context.Background(), strings.Repeat("x", 200), "#3b82f6"); err != nil {
		t.Fatal(err)
	}
}

func TestAddDefaultTaskRemoteFailure(t *testing.T) {
	h := initialized(t)
	h.fs.fail("CreateDefaultTask", errBoom)

	if _, err := h.m.AddDefaultTask(context.Background(), "Meditate", "#3b82f6"); !errors.Is(err, ErrRemoteWrite) {
		t.Fatalf("expected ErrRemoteWrite, got %v", err)
	}
	if n := len(h.m.DefaultTasks()); n != len(Seeds) {
		t.Fatalf("expected %d templates, got %d", len(Seeds), n)
	}
	if !errors.Is(h.m.Err(), ErrRemoteWrite) {
		t.Fatalf("expected recorded ErrRemoteWrite, got %v", h.m.Err())
	}
}

// ============================================================
// RemoveDefaultTask
// ============================================================

func TestRemoveDefaultTask(t *testing.T) {
	h := initialized(t)
	dt := h.templateNamed(t, "KCAL")

	if err := h.m.RemoveDefaultTask(context.Background(), dt.ID); err != nil {
		t.Fatal(err)
	}
	defaults := h.m.DefaultTasks()
	if len(defaults) != len(Seeds)-1 {
		t.Fatalf("expected %d templates, got %d", len(Seeds)-1, len(defaults))
	}
	for _, d := range defaults {
		if d.ID == dt.ID {
			t.Fatal("removed template still cached")
		}
	}

	if _, err := h.fs.Store.GetDefaultTask(context.Background(), h.user.ID, dt.ID); !errors.Is(err, store.ErrNotFound) {
		t.Fatalf("expected store.ErrNotFound, got %v", err)
	}

	// Already materialized instances stay.
	h.taskNamed(t, "KCAL")
}

func TestRemoveDefaultTaskRollsBack(t *testing.T) {
	h := initialized(t)
	h.fs.fail("DeleteDefaultTask", errBoom)
	dt := h.templateNamed(t, "KCAL")

	if err := h.m.RemoveDefaultTask(context.Background(), dt.ID); !errors.Is(err, ErrRemoteWrite) {
		t.Fatalf("expected ErrRemoteWrite, got %v", err)
	}
	if n := len(h.m.DefaultTasks()); n != len(Seeds) {
		t.Fatalf("expected %d templates, got %d", len(Seeds), n)
	}
	if got := h.templateNamed(t, "KCAL"); got != dt {
		t.Fatalf("expected %+v restored, got %+v", dt, got)
	}
}

func TestRemoveDefaultTaskUnknownID(t *testing.T) {
	h := initialized(t)
	if err := h.m.RemoveDefaultTask(context.Background(), "nope"); err != nil {
		t.Fatal(err)
	}
	if n := len(h.m.DefaultTasks()); n != len(Seeds) {
		t.Fatalf("expected %d templates, got %d", len(Seeds), n)
	}
}

// ============================================================
// UpdateDefaultTask
// ============================================================

func TestUpdateDefaultTask(t *testing.T) {
	h := initialized(t)
	dt := h.templateNamed(t, "Studio")

	err := h.m.UpdateDefaultTask(context.Background(), dt.ID, store.DefaultTaskPatch{
		Name:    ptr(" Study "),
		Color:   ptr("#F97316"),
		Enabled: ptr(false),
	})
	if err != nil {
		t.Fatal(err)
	}

	got := h.templateNamed(t, "Study")
	if got.Color != "#f97316" || got.Enabled || got.Order != dt.Order {
		t.Fatalf("unexpected cached template %+v", got)
	}

	stored, err := h.fs.Store.GetDefaultTask(context.Background(), h.user.ID, dt.ID)
	if err != nil {
		t.Fatal(err)
	}
	if stored.Name != "Study" || stored.Enabled {
		t.Fatalf("unexpected stored template %+v", stored)
	}
}

func TestUpdateDefaultTaskValidation(t *testing.T) {
	h := initialized(t)
	dt := h.templateNamed(t, "Studio")

	tests := []struct {
		patch   store.DefaultTaskPatch
		wantErr error
	}{
		{store.DefaultTaskPatch{Name: ptr("")}, validate.ErrEmptyName},
		{store.DefaultTaskPatch{Color: ptr("red")}, validate.ErrInvalidColor},
		{store.DefaultTaskPatch{Order: ptr(0)}, validate.ErrInvalidOrder},
	}
	for _, tt := range tests {
		if err := h.m.UpdateDefaultTask(context.Background(), dt.ID, tt.patch); !errors.Is(err, tt.wantErr) {
			t.Errorf("expected %v, got %v", tt.wantErr, err)
		}
	}

	if n := h.fs.count("UpdateDefaultTask"); n != 0 {
		t.Fatalf("expected no store write, got %d", n)
	}
	if got := h.templateNamed(t, "Studio"); got != dt {
		t.Fatalf("expected %+v unchanged, got %+v", dt, got)
	}
}

func TestUpdateDefaultTaskEmptyPatch(t *testing.T) {
	h := initialized(t)
	dt := h.templateNamed(t, "Studio")
	if err := h.m.UpdateDefaultTask(context.Background(), dt.ID, store.DefaultTaskPatch{}); err != nil {
		t.Fatal(err)
	}
	if n := h.fs.count("UpdateDefaultTask"); n != 0 {
		t.Fatalf("expected no store write, got %d", n)
	}
}

func TestUpdateDefaultTaskUnknownID(t *testing.T) {
	h := initialized(t)
	err := h.m.UpdateDefaultTask(context.Background(), "nope", store.DefaultTaskPatch{Name: ptr("x")})
	if !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
	if n := h.fs.count("UpdateDefaultTask"); n != 0 {
		t.Fatalf("expected no store write, got %d", n)
	}
}

func TestUpdateDefaultTaskRollsBack(t *testing.T) {
	h := initialized(t)
	h.fs.fail("UpdateDefaultTask", errBoom)
	dt := h.templateNamed(t, "Studio")

	err := h.m.UpdateDefaultTask(context.Background(), dt.ID, store.DefaultTaskPatch{Name: ptr("Study")})
	if !errors.Is(err, ErrRemoteWrite) {
		t.Fatalf("expected ErrRemoteWrite, got %v", err)
	}
	if got := h.templateNamed(t, "Studio"); got != dt {
		t.Fatalf("expected %+v restored, got %+v", dt, got)
	}
	if h.m.Err() == nil {
		t.Fatal("expected a recorded error")
	}
}

// ============================================================
// ReorderDefaultTasks
// ============================================================

func orders(dts []store.DefaultTask) map[string]int {
	out := make(map[string]int, len(dts))
	for _, dt := range dts {
		out[dt.Name] = dt.Order
	}
	return out
}

func TestReorderDefaultTasks(t *testing.T) {
	h := newHarness(t)
	dts := h.withTemplates(t, "a", "b", "c")
	h.mustInit(t)
	a, b, c := dts[0], dts[1], dts[2]

	if err := h.m.ReorderDefaultTasks(context.Background(), []store.DefaultTask{c, a, b}); err != nil {
		t.Fatal(err)
	}

	want := map[string]int{"c": 1, "a": 2, "b": 3}
	if got := orders(h.m.DefaultTasks()); !maps.Equal(got, want) {
		t.Fatalf("expected cached orders %v, got %v", want, got)
	}

	stored, err := h.fs.Store.ListDefaultTasks(context.Background(), h.user.ID)
	if err != nil {
		t.Fatal(err)
	}
	if got := orders(stored); !maps.Equal(got, want) {
		t.Fatalf("expected stored orders %v, got %v", want, got)
	}
	if n := h.fs.count("UpdateDefaultTask"); n != 3 {
		t.Fatalf("expected 3 writes, got %d", n)
	}
}

func TestReorderDefaultTasksWritesOnlyChangedRows(t *testing.T) {
	h := newHarness(t)
	dts := h.withTemplates(t, "a", "b", "c")
	h.mustInit(t)

	if err := h.m.ReorderDefaultTasks(context.Background(), []store.DefaultTask{dts[0], dts[2], dts[1]}); err != nil {
		t.Fatal(err)
	}
	if n := h.fs.count("UpdateDefaultTask"); n != 2 {
		t.Fatalf("expected 2 writes, got %d", n)
	}

	if err := h.m.ReorderDefaultTasks(context.Background(), h.m.DefaultTasks()); err != nil {
		t.Fatal(err)
	}
	if n := h.fs.count("UpdateDefaultTask"); n != 2 {
		t.Fatalf("unchanged order should not be written, got %d writes", n)
	}
}

func TestReorderDefaultTasksRejectsIncompleteSequence(t *testing.T) {
	h := newHarness(t)
	dts := h.withTemplates(t, "a", "b", "c")
	h.mustInit(t)
	a, b, c := dts[0], dts[1], dts[2]
	stranger := store.DefaultTask{ID: "stranger", Name: "x", Order: 1}

	tests := []struct {
		name     string
		sequence []store.DefaultTask
	}{
		{"subset", []store.DefaultTask{c, a}},
		{"duplicate", []store.DefaultTask{c, a, a}},
		{"unknown id", []store.DefaultTask{c, a, stranger}},
		{"extra", []store.DefaultTask{c, a, b, stranger}},
		{"empty", nil},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := h.m.ReorderDefaultTasks(context.Background(), tt.sequence)
			if !errors.Is(err, validate.ErrInvalidSequence) || !validate.IsValidation(err) {
				t.Fatalf("expected ErrInvalidSequence, got %v", err)
			}
			if got, want := orders(h.m.DefaultTasks()), map[string]int{"a": 1, "b": 2, "c": 3}; !maps.Equal(got, want) {
				t.Fatalf("expected orders %v unchanged, got %v", want, got)
			}
			if n := h.fs.count("UpdateDefaultTask"); n != 0 {
				t.Fatalf("expected no store write, got %d", n)
			}
		})
	}
}

func TestReorderDefaultTasksRollsBackOnPartialFailure(t *testing.T) {
	h := newHarness(t)
	dts := h.withTemplates(t, "a", "b", "c")
	h.mustInit(t)
	a, b, c := dts[0], dts[1], dts[2]

	h.fs.mu.Lock()
	h.fs.failIDs[a.ID] = errBoom
	h.fs.mu.Unlock()

	err := h.m.ReorderDefaultTasks(context.Background(), []store.DefaultTask{c, a, b})
	if !errors.Is(err, ErrPartialReorder) || !errors.Is(err, ErrRemoteWrite) || !errors.Is(err, errBoom) {
		t.Fatalf("expected ErrPartialReorder wrapping boom, got %v", err)
	}

	if got, want := orders(h.m.DefaultTasks()), map[string]int{"a": 1, "b": 2, "c": 3}; !maps.Equal(got, want) {
		t.Fatalf("expected cached orders rolled back to %v, got %v", want, got)
	}
	if !errors.Is(h.m.Err(), ErrPartialReorder) {
		t.Fatalf("expected recorded ErrPartialReorder, got %v", h.m.Err())
	}

	// The writes that went through stay until the next load.
	stored, err := h.fs.Store.ListDefaultTasks(context.Background(), h.user.ID)
	if err != nil {
		t.Fatal(err)
	}
	if got, want := orders(stored), map[string]int{"a": 1, "b": 3, "c": 1}; !maps.Equal(got, want) {
		t.Fatalf("expected stored orders %v, got %v", want, got)
	}
}

// ============================================================
// AddAdhocTask
// ============================================================

func TestAddAdhocTask(t *testing.T) {
	h := initialized(t)

	task, err := h.m.AddAdhocTask(context.Background(), testToday, "Call mom", "#EC4899", 0)
	if err != nil {
		t.Fatal(err)
	}
	if task.Kind != store.KindAdhoc || task.Color != "#ec4899" || task.Completed || !task.Enabled {
		t.Fatalf("unexpected task %+v", task)
	}
	if task.Order != len(Seeds)+1 {
		t.Fatalf("expected order %d, got %d", len(Seeds)+1, task.Order)
	}

	today := h.m.TodayTasks()
	if len(today) != len(Seeds)+1 || today[len(today)-1].Name != "Call mom" {
		t.Fatalf("expected Call mom last of %d, got %v", len(Seeds)+1, names(today))
	}

	current, ok := h.m.CurrentTask()
	if !ok || current.Kind != store.KindDefault {
		t.Fatalf("expected a template instance to stay current, got %+v (ok=%v)", current, ok)
	}
}

func TestAddAdhocTaskExplicitOrder(t *testing.T) {
	h := initialized(t)
	task, err := h.m.AddAdhocTask(context.Background(), "2025-03-20", "Dentist", "#3b82f6", 3)
	if err != nil {
		t.Fatal(err)
	}
	if task.Order != 3 {
		t.Fatalf("expected order 3, got %d", task.Order)
	}
	if n := len(h.m.TasksByDate("2025-03-20")); n != 1 {
		t.Fatalf("expected 1 task on 2025-03-20, got %d", n)
	}
}

func TestAddAdhocTaskDuplicateIsAbsorbed(t *testing.T) {
	h := initialized(t)
	ctx := context.Background()

	first, err := h.m.AddAdhocTask(ctx, "2025-03-20", "Dentist", "#3b82f6", 0)
	if err != nil {
		t.Fatal(err)
	}
	second, err := h.m.AddAdhocTask(ctx, "2025-03-20", "Dentist", "#ef4444", 0)
	if err != nil {
		t.Fatal(err)
	}
	if second.ID != first.ID || second.Color != "#3b82f6" {
		t.Fatalf("expected the existing row back, got %+v", second)
	}
	if n := len(h.m.TasksByDate("2025-03-20")); n != 1 {
		t.Fatalf("expected 1 task on 2025-03-20, got %d", n)
	}

	// Same name as a template instance already on the day.
	existing := h.taskNamed(t, "Peso")
	got, err := h.m.AddAdhocTask(ctx, testToday, "Peso", "#3b82f6", 0)
	if err != nil {
		t.Fatal(err)
	}
	if got.ID != existing.ID {
		t.Fatalf("expected existing id %s, got %s", existing.ID, got.ID)
	}
	if n := len(h.m.TodayTasks()); n != len(Seeds) {
		t.Fatalf("expected %d tasks today, got %d", len(Seeds), n)
	}
}

func TestAddAdhocTaskValidation(t *testing.T) {
	tests := []struct {
		name    string
		date    string
		task    string
		color   string
		wantErr error
	}{
		{"bad date", "2025-02-30", "Dentist", "#3b82f6", validate.ErrInvalidDate},
		{"empty name", testToday, "", "#3b82f6", validate.ErrEmptyName},
		{"bad color", testToday, "Dentist", "#123456", validate.ErrInvalidColor},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h := initialized(t)
			upserts := h.fs.count("UpsertTasks")

			_, err := h.m.AddAdhocTask(context.Background(), tt.date, tt.task, tt.color, 0)
			if !errors.Is(err, tt.wantErr) {
				t.Fatalf("expected %v, got %v", tt.wantErr, err)
			}
			if n := h.fs.count("UpsertTasks"); n != upserts {
				t.Fatalf("expected no store write, got %d more", n-upserts)
			}
			if n := len(h.m.State().Tasks); n != len(Seeds) {
				t.Fatalf("expected %d cached tasks, got %d", len(Seeds), n)
			}
		})
	}
}

func TestAddAdhocTaskRemoteFailure(t *testing.T) {
	h := initialized(t)
	h.fs.fail("UpsertTasks", errBoom)

	_, err := h.m.AddAdhocTask(context.Background(), testToday, "Dentist", "#3b82f6", 0)
	if !errors.Is(err, ErrRemoteWrite) {
		t.Fatalf("expected ErrRemoteWrite, got %v", err)
	}
	if n := len(h.m.TodayTasks()); n != len(Seeds) {
		t.Fatalf("expected %d tasks today, got %d", len(Seeds), n)
	}
}
