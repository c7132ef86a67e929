// Package tasks holds the client-side task state: the cached templates and
// task instances of the signed-in user, daily materialization, and the
// mutations that are applied optimistically and rolled back when the store
// rejects them.
package tasks

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log"
	"slices"
	"sync"
	"time"

	"golang.org/x/sync/singleflight"

	"github.com/sadopc/goalify/internal/auth"
	"github.com/sadopc/goalify/internal/dates"
	"github.com/sadopc/goalify/internal/store"
)

const (
	// DefaultTimeout bounds each store call unless WithTimeout overrides it.
	DefaultTimeout = 10 * time.Second
	// DefaultWindowDays is how many past days Initialize loads by default.
	DefaultWindowDays = 30
)

// Store is the persistence surface the manager needs. Every call is scoped
// to userID.
type Store interface {
	ListDefaultTasks(ctx context.Context, userID string) ([]store.DefaultTask, error)
	SeedDefaultTasks(ctx context.Context, userID string, seeds []store.DefaultTask) ([]store.DefaultTask, error)
	CreateDefaultTask(ctx context.Context, userID string, dt store.DefaultTask) (*store.DefaultTask, error)
	UpdateDefaultTask(ctx context.Context, userID, id string, patch store.DefaultTaskPatch) error
	DeleteDefaultTask(ctx context.Context, userID, id string) error

	ListTasks(ctx context.Context, userID string, f store.TaskFilter) ([]store.Task, error)
	UpsertTasks(ctx context.Context, userID string, tasks []store.Task) ([]store.Task, error)
	GetTaskByKey(ctx context.Context, userID, name, date string) (*store.Task, error)
	UpdateTask(ctx context.Context, userID, id string, patch store.TaskPatch) error
}

// State is a point-in-time copy of the manager state.
type State struct {
	Tasks        []store.Task
	DefaultTasks []store.DefaultTask
	Loading      bool
	Initialized  bool
	Err          error
}

type state struct {
	tasks        []store.Task
	defaultTasks []store.DefaultTask
	loading      bool
	initialized  bool
	err          error
}

type Manager struct {
	store Store
	auth  auth.Provider

	now        func() time.Time
	timeout    time.Duration
	windowDays int
	logger     *log.Logger

	mu        sync.Mutex
	st        state
	listeners map[int]func(State)
	nextID    int

	initGroup singleflight.Group
}

// Option configures a Manager in New.
type Option func(*Manager)

// WithClock overrides time.Now.
func WithClock(now func() time.Time) Option {
	return func(m *Manager) { m.now = now }
}

// WithTimeout bounds every store call.
func WithTimeout(d time.Duration) Option {
	return func(m *Manager) {
		if d > 0 {
			m.timeout = d
		}
	}
}

// WithWindowDays sets how many past days Initialize loads.
func WithWindowDays(n int) Option {
	return func(m *Manager) {
		if n > 0 {
			m.windowDays = n
		}
	}
}

// WithLogger sends failure logs to l instead of discarding them.
func WithLogger(l *log.Logger) Option {
	return func(m *Manager) {
		if l != nil {
			m.logger = l
		}
	}
}

// New returns a Manager over s for the user p signs in. Call Initialize
// before reading state.
func New(s Store, p auth.Provider, opts ...Option) *Manager {
	m := &Manager{
		store:      s,
		auth:       p,
		now:        time.Now,
		timeout:    DefaultTimeout,
		windowDays: DefaultWindowDays,
		logger:     log.New(io.Discard, "", 0),
		listeners:  make(map[int]func(State)),
	}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

// State returns a deep copy of the current state.
func (m *Manager) State() State {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.copyLocked()
}

// Err returns the outcome of the last failed operation, or nil.
func (m *Manager) Err() error {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.st.err
}

func (m *Manager) Loading() bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.st.loading
}

func (m *Manager) Initialized() bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.st.initialized
}

// Subscribe registers fn to be called with a fresh State after every change.
// The returned function removes the listener.
func (m *Manager) Subscribe(fn func(State)) (cancel func()) {
	m.mu.Lock()
	id := m.nextID
	m.nextID++
	m.listeners[id] = fn
	m.mu.Unlock()

	return func() {
		m.mu.Lock()
		delete(m.listeners, id)
		m.mu.Unlock()
	}
}

// Reset drops all cached state, e.g. after the user signs out.
func (m *Manager) Reset() {
	m.update(func(s *state) { *s = state{} })
}

func (m *Manager) copyLocked() State {
	st := State{
		Tasks:        make([]store.Task, len(m.st.tasks)),
		DefaultTasks: slices.Clone(m.st.defaultTasks),
		Loading:      m.st.loading,
		Initialized:  m.st.initialized,
		Err:          m.st.err,
	}
	for i, t := range m.st.tasks {
		st.Tasks[i] = t.Clone()
	}
	return st
}

// update applies fn under the lock and then notifies listeners.
func (m *Manager) update(fn func(s *state)) {
	m.mu.Lock()
	fn(&m.st)
	snap := m.copyLocked()
	listeners := make([]func(State), 0, len(m.listeners))
	for _, l := range m.listeners {
		listeners = append(listeners, l)
	}
	m.mu.Unlock()

	for _, l := range listeners {
		l(snap)
	}
}

// fail records err as the current error and returns it.
func (m *Manager) fail(err error) error {
	m.logger.Printf("tasks: %v", err)
	m.update(func(s *state) { s.err = err })
	return err
}

func (m *Manager) succeed() {
	m.update(func(s *state) { s.err = nil })
}

func (m *Manager) today() string {
	return dates.Today(m.now())
}

// Today is the local calendar day by the manager clock.
func (m *Manager) Today() string {
	return m.today()
}

// user resolves the signed-in user or fails with ErrUnauthenticated.
func (m *Manager) user(ctx context.Context, op string) (*auth.User, error) {
	u, err := m.auth.CurrentUser(ctx)
	if err != nil {
		return nil, opError(op, ErrUnauthenticated, err)
	}
	if u == nil {
		return nil, opError(op, ErrUnauthenticated, nil)
	}
	return u, nil
}

type result[T any] struct {
	val T
	err error
}

// call runs fn under the manager timeout. It returns once the deadline
// passes even if fn ignores its context.
func call[T any](ctx context.Context, m *Manager, fn func(ctx context.Context) (T, error)) (T, error) {
	ctx, cancel := context.WithTimeout(ctx, m.timeout)
	defer cancel()

	done := make(chan result[T], 1)
	go func() {
		v, err := fn(ctx)
		done <- result[T]{v, err}
	}()

	select {
	case r := <-done:
		if r.err != nil && errors.Is(ctx.Err(), context.DeadlineExceeded) {
			return r.val, fmt.Errorf("%w after %s: %w", ErrTimeout, m.timeout, r.err)
		}
		return r.val, r.err
	case <-ctx.Done():
		var zero T
		if errors.Is(ctx.Err(), context.DeadlineExceeded) {
			return zero, fmt.Errorf("%w after %s", ErrTimeout, m.timeout)
		}
		return zero, ctx.Err()
	}
}

// exec is call for store methods that only return an error.
func exec(ctx context.Context, m *Manager, fn func(ctx context.Context) error) error {
	_, err := call(ctx, m, func(ctx context.Context) (struct{}, error) {
		return struct{}{}, fn(ctx)
	})
	return err
}
