// Package config provides configuration helpers and TOML parsing.
package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/BurntSushi/toml"
)

// FileConfig represents the TOML configuration file.
type FileConfig struct {
	Practice PracticeConfig `toml:"practice"`
	Audio    AudioConfig    `toml:"audio"`
}

// PracticeConfig maps practice-related settings.
type PracticeConfig struct {
	Mode     *string `toml:"mode"`
	Cards    *int    `toml:"cards"`
	Interval *string `toml:"interval"`
	Type     *string `toml:"type"`
	Seed     *int64  `toml:"seed"`
}

// AudioConfig maps audio playback settings.
type AudioConfig struct {
	Player   *string `toml:"player"`
	CacheDir *string `toml:"cache-dir"`
}

// LoadConfig reads a TOML config from the given path. Missing file is not an error.
func LoadConfig(path string) (FileConfig, error) {
	if path == "" {
		return FileConfig{}, fmt.Errorf("config path is empty")
	}
	if _, err := os.Stat(path); err != nil {
		if os.IsNotExist(err) {
			return FileConfig{}, nil
		}
		return FileConfig{}, fmt.Errorf("failed to stat config: %w", err)
	}
	var cfg FileConfig
	meta, err := toml.DecodeFile(path, &cfg)
	if err != nil {
		return FileConfig{}, fmt.Errorf("failed to decode config: %w", err)
	}
	if undecoded := meta.Undecoded(); len(undecoded) > 0 {
		return FileConfig{}, fmt.Errorf("unknown config key %q", undecoded[0].String())
	}
	if cfg.Practice.Interval != nil {
		if _, err := ParseInterval(*cfg.Practice.Interval); err != nil {
			return FileConfig{}, fmt.Errorf("practice.interval: %w", err)
		}
	}
	return cfg, nil
}

// ParseInterval parses a Go duration ("5s", "1500ms") or a bare number of
// seconds.
func ParseInterval(s string) (time.Duration, error) {
	if d, err := time.ParseDuration(s); err == nil {
		if d <= 0 {
			return 0, fmt.Errorf("interval must be positive")
		}
		return d, nil
	}
	secs, err := strconv.ParseFloat(strings.TrimSpace(s), 64)
	if err != nil {
		return 0, fmt.Errorf("invalid interval %q", s)
	}
	if secs <= 0 {
		return 0, fmt.Errorf("interval must be positive")
	}
	return time.Duration(secs * float64(time.Second)), nil
}
