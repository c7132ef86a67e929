// Package snapshot keeps a local copy of the last confirmed task state on
// disk, so the CLI can show something useful before the database is reached.
package snapshot

import (
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"time"

	"github.com/peterbourgon/diskv/v3"

	"github.com/sadopc/goalify/internal/store"
)

// Key is the blob the state is stored under.
const Key = "goalify-tasks"

var ErrNoSnapshot = errors.New("no snapshot saved")

// Blob is the persisted shape.
type Blob struct {
	SavedAt      time.Time           `json:"savedAt"`
	Tasks        []store.Task        `json:"tasks"`
	DefaultTasks []store.DefaultTask `json:"defaultTasks"`
}

type Snapshot struct {
	d *diskv.Diskv
}

// Open returns a snapshot store rooted at dir, creating it on first write.
func Open(dir string) *Snapshot {
	return &Snapshot{d: diskv.New(diskv.Options{
		BasePath:     dir,
		Transform:    func(string) []string { return []string{} },
		CacheSizeMax: 1024 * 1024, // 1MB
	})}
}

// DefaultDir returns ~/.config/goalify/snapshot
func DefaultDir() (string, error) {
	cfg, err := os.UserConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(cfg, "goalify", "snapshot"), nil
}

func (s *Snapshot) Save(tasks []store.Task, defaults []store.DefaultTask) error {
	data, err := json.Marshal(Blob{
		SavedAt:      time.Now().UTC(),
		Tasks:        tasks,
		DefaultTasks: defaults,
	})
	if err != nil {
		return fmt.Errorf("marshal snapshot: %w", err)
	}
	if err := s.d.Write(Key, data); err != nil {
		return fmt.Errorf("write snapshot: %w", err)
	}
	return nil
}

func (s *Snapshot) Load() (*Blob, error) {
	data, err := s.d.Read(Key)
	if errors.Is(err, fs.ErrNotExist) {
		return nil, ErrNoSnapshot
	}
	if err != nil {
		return nil, fmt.Errorf("read snapshot: %w", err)
	}
	var b Blob
	if err := json.Unmarshal(data, &b); err != nil {
		return nil, fmt.Errorf("decode snapshot: %w", err)
	}
	return &b, nil
}

// Clear removes the saved blob. Clearing an empty store is not an error.
func (s *Snapshot) Clear() error {
	if !s.d.Has(Key) {
		return nil
	}
	return s.d.Erase(Key)
}
