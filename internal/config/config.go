package config

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/BurntSushi/toml"
)

type Config struct {
	TranscriptsRoot string `toml:"transcripts_root"`
	DBPath          string `toml:"db_path"`

	// Process names that identify a live agent inside a tmux pane.
	AgentNames []string `toml:"agent_names"`

	// Intervals and timeouts, all in milliseconds.
	MapIntervalMs    int `toml:"map_interval_ms"`
	PaneCacheTTLMs   int `toml:"pane_cache_ttl_ms"`
	WatchDebounceMs  int `toml:"watch_debounce_ms"`
	CommandTimeoutMs int `toml:"command_timeout_ms"`

	// Status thresholds, in minutes.
	IdleAfterMins     int `toml:"idle_after_mins"`
	CompleteAfterMins int `toml:"complete_after_mins"`

	// Default listing window: all active sessions plus everything
	// updated in the last N days.
	RecentDays int `toml:"recent_days"`
}

func Load() (*Config, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return nil, err
	}

	cfg := &Config{
		TranscriptsRoot:   filepath.Join(home, ".claude", "projects"),
		DBPath:            filepath.Join(home, ".config", "cctrack", "cctrack.db"),
		AgentNames:        []string{"claude"},
		MapIntervalMs:     30_000,
		PaneCacheTTLMs:    5_000,
		WatchDebounceMs:   500,
		CommandTimeoutMs:  5_000,
		IdleAfterMins:     5,
		CompleteAfterMins: 60,
		RecentDays:        7,
	}

	cfgPath := filepath.Join(home, ".config", "cctrack", "config.toml")
	if _, err := os.Stat(cfgPath); err == nil {
		if _, err := toml.DecodeFile(cfgPath, cfg); err != nil {
			return nil, fmt.Errorf("parse config %s: %w", cfgPath, err)
		}
	}

	cfg.TranscriptsRoot = expandHome(cfg.TranscriptsRoot, home)
	cfg.DBPath = expandHome(cfg.DBPath, home)

	return cfg, nil
}

func (c *Config) MapInterval() time.Duration    { return time.Duration(c.MapIntervalMs) * time.Millisecond }
func (c *Config) PaneCacheTTL() time.Duration   { return time.Duration(c.PaneCacheTTLMs) * time.Millisecond }
func (c *Config) WatchDebounce() time.Duration  { return time.Duration(c.WatchDebounceMs) * time.Millisecond }
func (c *Config) CommandTimeout() time.Duration { return time.Duration(c.CommandTimeoutMs) * time.Millisecond }
func (c *Config) IdleAfter() time.Duration      { return time.Duration(c.IdleAfterMins) * time.Minute }
func (c *Config) CompleteAfter() time.Duration  { return time.Duration(c.CompleteAfterMins) * time.Minute }

func expandHome(path, home string) string {
	if len(path) > 1 && path[0] == '~' && path[1] == '/' {
		return filepath.Join(home, path[2:])
	}
	return path
}
