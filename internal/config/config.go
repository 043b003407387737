// Package config loads the timelog configuration from a YAML file,
// creating it with defaults on first run. Malformed or missing values
// never block time entry: every field falls back to its default.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/umpire274/timelog/internal/timeutil"
)

// Config is the root configuration, stored in ~/.timelog/timelog.yaml
// (or %APPDATA%\timelog\timelog.yaml on Windows).
type Config struct {
	// Database is the path of the SQLite file.
	Database string `yaml:"database"`
	// DefaultPosition is the location code used when none is given.
	DefaultPosition string `yaml:"default_position"`
	// WorkDuration is the daily quota, e.g. "8h", "7h 36m" or "07:36".
	WorkDuration string `yaml:"work_duration"`
	// LunchWindow is the "HH:MM-HH:MM" interval crossed by a lunch break.
	LunchWindow string `yaml:"lunch_window"`
	// MinLunch and MaxLunch bound the lunch break in minutes.
	MinLunch int `yaml:"min_lunch"`
	MaxLunch int `yaml:"max_lunch"`
	// ShowWeekday controls weekday rendering: none, short, medium, long.
	ShowWeekday string `yaml:"show_weekday"`
}

const (
	DefaultPosition     = "O"
	DefaultWorkDuration = "8h"
	DefaultLunchWindow  = "12:30-14:00"
	DefaultMinLunch     = 30
	DefaultMaxLunch     = 90
)

// Dir returns the configuration directory for the current platform.
func Dir() (string, error) {
	if runtime.GOOS == "windows" {
		if appdata := os.Getenv("APPDATA"); appdata != "" {
			return filepath.Join(appdata, "timelog"), nil
		}
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("cannot determine home directory: %w", err)
	}
	return filepath.Join(home, ".timelog"), nil
}

// FilePath returns the path of the config file.
func FilePath() (string, error) {
	dir, err := Dir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, "timelog.yaml"), nil
}

func defaultConfig() (Config, error) {
	dir, err := Dir()
	if err != nil {
		return Config{}, err
	}
	return Config{
		Database:        filepath.Join(dir, "timelog.sqlite"),
		DefaultPosition: DefaultPosition,
		WorkDuration:    DefaultWorkDuration,
		LunchWindow:     DefaultLunchWindow,
		MinLunch:        DefaultMinLunch,
		MaxLunch:        DefaultMaxLunch,
		ShowWeekday:     "medium",
	}, nil
}

// Load reads the config file, creating it with defaults on first run.
// Unreadable or partially filled files degrade to defaults field by field.
func Load() (Config, error) {
	defaults, err := defaultConfig()
	if err != nil {
		return Config{}, err
	}

	path, err := FilePath()
	if err != nil {
		return defaults, err
	}

	data, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		if writeErr := Save(defaults); writeErr != nil {
			fmt.Fprintf(os.Stderr, "Warning: could not create config file %s: %v\n", path, writeErr)
		}
		return defaults, nil
	}
	if err != nil {
		return defaults, fmt.Errorf("reading config file %s: %w", path, err)
	}

	cfg := defaults
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		fmt.Fprintf(os.Stderr, "Warning: config file %s is malformed (%v), using defaults\n", path, err)
		return defaults, nil
	}

	// Fill zero-value fields so callers always get a usable Config even
	// if the user only partially fills in the file.
	if cfg.Database == "" {
		cfg.Database = defaults.Database
	}
	if cfg.DefaultPosition == "" {
		cfg.DefaultPosition = defaults.DefaultPosition
	}
	if cfg.WorkDuration == "" {
		cfg.WorkDuration = defaults.WorkDuration
	}
	if cfg.LunchWindow == "" {
		cfg.LunchWindow = defaults.LunchWindow
	}
	if cfg.MinLunch == 0 {
		cfg.MinLunch = defaults.MinLunch
	}
	if cfg.MaxLunch == 0 {
		cfg.MaxLunch = defaults.MaxLunch
	}
	if cfg.ShowWeekday == "" {
		cfg.ShowWeekday = defaults.ShowWeekday
	}
	return cfg, nil
}

// Save writes the config file, creating the directory if needed.
func Save(cfg Config) error {
	path, err := FilePath()
	if err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o700); err != nil {
		return fmt.Errorf("creating config directory: %w", err)
	}
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("encoding config: %w", err)
	}
	if err := os.WriteFile(path, data, 0o600); err != nil {
		return fmt.Errorf("writing config: %w", err)
	}
	return nil
}

// LunchWindowEnd returns the end of the configured lunch window in
// minutes since midnight, defaulting to 14:00 when the value is
// malformed.
func (c Config) LunchWindowEnd() int {
	const fallback = 14 * 60
	_, end, ok := strings.Cut(c.LunchWindow, "-")
	if !ok {
		return fallback
	}
	m, err := timeutil.ParseClock(end)
	if err != nil {
		return fallback
	}
	return m
}

// WeekdayStyle maps the config value to the timeutil style code, or ""
// when weekday display is disabled.
func (c Config) WeekdayStyle() string {
	switch strings.ToLower(c.ShowWeekday) {
	case "none":
		return ""
	case "short":
		return "s"
	case "long":
		return "l"
	default:
		return "m"
	}
}
