// Package config loads goalify settings from an optional goalify.yaml, the
// GOALIFY_* environment and command-line flags, in increasing priority.
package config

import (
	"errors"
	"fmt"
	"os"
	"os/user"
	"path/filepath"
	"time"

	"github.com/spf13/viper"

	"github.com/sadopc/goalify/internal/snapshot"
	"github.com/sadopc/goalify/internal/store"
	"github.com/sadopc/goalify/internal/tasks"
)

const (
	KeyDB          = "db"
	KeyUser        = "user"
	KeyTimeout     = "timeout"
	KeyWindowDays  = "window_days"
	KeySnapshotDir = "snapshot_dir"
	KeyDebug       = "debug"
	KeyLogFile     = "log_file"
)

type Config struct {
	DBPath      string
	User        string
	Timeout     time.Duration
	WindowDays  int
	SnapshotDir string
	Debug       bool
	LogFile     string
}

// New returns a viper instance with goalify's defaults and environment
// binding. Flags are bound to it by the caller.
func New() *viper.Viper {
	v := viper.New()
	v.SetEnvPrefix("GOALIFY")
	v.AutomaticEnv()

	if db, err := store.DefaultDBPath(); err == nil {
		v.SetDefault(KeyDB, db)
	}
	if dir, err := snapshot.DefaultDir(); err == nil {
		v.SetDefault(KeySnapshotDir, dir)
	}
	v.SetDefault(KeyUser, currentUsername())
	v.SetDefault(KeyTimeout, tasks.DefaultTimeout)
	v.SetDefault(KeyWindowDays, tasks.DefaultWindowDays)
	v.SetDefault(KeyDebug, false)
	v.SetDefault(KeyLogFile, "")
	return v
}

// Load reads file if given, otherwise goalify.yaml from the working
// directory or the user config dir. A missing default file is fine; a
// missing explicit one is not.
func Load(v *viper.Viper, file string) (*Config, error) {
	if file != "" {
		v.SetConfigFile(file)
	} else {
		v.SetConfigName("goalify") // .yaml is implicit
		v.AddConfigPath("./")
		if dir, err := os.UserConfigDir(); err == nil {
			v.AddConfigPath(filepath.Join(dir, "goalify"))
		}
	}

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if file != "" || !errors.As(err, &notFound) {
			return nil, fmt.Errorf("read config: %w", err)
		}
	}

	cfg := &Config{
		DBPath:      v.GetString(KeyDB),
		User:        v.GetString(KeyUser),
		Timeout:     v.GetDuration(KeyTimeout),
		WindowDays:  v.GetInt(KeyWindowDays),
		SnapshotDir: v.GetString(KeySnapshotDir),
		Debug:       v.GetBool(KeyDebug),
		LogFile:     v.GetString(KeyLogFile),
	}
	if err := cfg.validate(); err != nil {
		return nil, err
	}
	if cfg.Debug && cfg.LogFile == "" {
		cfg.LogFile = filepath.Join(filepath.Dir(cfg.DBPath), "debug.log")
	}
	return cfg, nil
}

func (c *Config) validate() error {
	switch {
	case c.DBPath == "":
		return errors.New("config: db path is empty")
	case c.Timeout <= 0:
		return fmt.Errorf("config: timeout must be positive, got %s", c.Timeout)
	case c.WindowDays <= 0:
		return fmt.Errorf("config: window_days must be positive, got %d", c.WindowDays)
	}
	return nil
}

func currentUsername() string {
	if u, err := user.Current(); err == nil && u.Username != "" {
		return u.Username
	}
	return "me"
}
