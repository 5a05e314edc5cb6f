// Package config provides configuration management for deepsplit.
package config

import (
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"

	"github.com/randalmurphal/deepsplit/internal/util"
)

const (
	// ConfigFileName is the default config file name
	ConfigFileName = "config.yaml"
	// DeepDir is the deepsplit configuration directory under $HOME
	DeepDir = ".deepsplit"
)

// Well-known file names inside a planning directory. The detector treats
// these as existence-only checkpoints; their content is owned by the host
// assistant.
const (
	// InterviewFileName marks the interview transcript checkpoint.
	InterviewFileName = "deep_project_interview.md"
	// ManifestFileName is the split manifest written after analysis.
	ManifestFileName = "project-manifest.md"
	// CheckpointFileName holds the minimal persisted session state.
	CheckpointFileName = "deep_project_session.json"
	// SpecFileName marks a split directory as spec-complete.
	SpecFileName = "spec.md"
)

// Config represents the deepsplit tool configuration.
type Config struct {
	// Version is the config file version
	Version int `yaml:"version"`

	// TasksRoot is the root directory of the external task store.
	// Each task list is a subdirectory holding one JSON file per position.
	TasksRoot string `yaml:"tasks_root"`
}

// Default returns the default configuration.
func Default() *Config {
	return &Config{
		Version:   1,
		TasksRoot: defaultTasksRoot(),
	}
}

// defaultTasksRoot returns ~/.claude/tasks, the task store consumed by
// Claude Code. Falls back to a relative path if the home dir is unknown.
func defaultTasksRoot() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return filepath.Join(".claude", "tasks")
	}
	return filepath.Join(home, ".claude", "tasks")
}

// DefaultPath returns the default config file path under $HOME.
func DefaultPath() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return filepath.Join(DeepDir, ConfigFileName)
	}
	return filepath.Join(home, DeepDir, ConfigFileName)
}

// Load loads the config from the default location.
func Load() (*Config, error) {
	return LoadFrom(DefaultPath())
}

// LoadFrom loads the config from a specific path.
func LoadFrom(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			// Return default config if file doesn't exist
			return Default(), nil
		}
		return nil, fmt.Errorf("read config: %w", err)
	}

	cfg := Default() // Start with defaults
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parse config: %w", err)
	}
	if cfg.TasksRoot == "" {
		cfg.TasksRoot = defaultTasksRoot()
	}

	return cfg, nil
}

// Save saves the config to the default location.
func (c *Config) Save() error {
	return c.SaveTo(DefaultPath())
}

// SaveTo saves the config to a specific path using atomic writes.
func (c *Config) SaveTo(path string) error {
	data, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("marshal config: %w", err)
	}

	if err := util.AtomicWriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("write config: %w", err)
	}

	return nil
}
