package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.toml")
	if err := os.WriteFile(path, []byte(body), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}
	return path
}

func TestLoadConfigMissingFile(t *testing.T) {
	cfg, err := LoadConfig(filepath.Join(t.TempDir(), "nope.toml"))
	if err != nil {
		t.Fatalf("missing file must not fail: %v", err)
	}
	if cfg.Practice.Mode != nil || cfg.Audio.Player != nil {
		t.Fatalf("expected empty config, got %+v", cfg)
	}
}

func TestLoadConfig(t *testing.T) {
	path := writeConfig(t, `
[practice]
mode = "auto"
cards = 12
interval = "3s"
type = "reading"
seed = 7

[audio]
player = "mpv --no-video"
`)
	cfg, err := LoadConfig(path)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if *cfg.Practice.Mode != "auto" || *cfg.Practice.Cards != 12 || *cfg.Practice.Seed != 7 {
		t.Fatalf("unexpected practice config: %+v", cfg.Practice)
	}
	if *cfg.Audio.Player != "mpv --no-video" || cfg.Audio.CacheDir != nil {
		t.Fatalf("unexpected audio config: %+v", cfg.Audio)
	}
}

func TestLoadConfigRejectsUnknownKeys(t *testing.T) {
	path := writeConfig(t, "[practice]\nlang = \"en\"\n")
	if _, err := LoadConfig(path); err == nil {
		t.Fatalf("expected unknown key error")
	}
}

func TestLoadConfigRejectsBadInterval(t *testing.T) {
	path := writeConfig(t, "[practice]\ninterval = \"soon\"\n")
	if _, err := LoadConfig(path); err == nil {
		t.Fatalf("expected interval error")
	}
}

func TestParseInterval(t *testing.T) {
	tests := []struct {
		in   string
		want time.Duration
		ok   bool
	}{
		{"5s", 5 * time.Second, true},
		{"1500ms", 1500 * time.Millisecond, true},
		{"2", 2 * time.Second, true},
		{"0.5", 500 * time.Millisecond, true},
		{"0", 0, false},
		{"-1s", 0, false},
		{"later", 0, false},
	}
	for _, tt := range tests {
		got, err := ParseInterval(tt.in)
		if tt.ok != (err == nil) {
			t.Fatalf("ParseInterval(%q) error = %v, want ok=%v", tt.in, err, tt.ok)
		}
		if tt.ok && got != tt.want {
			t.Fatalf("ParseInterval(%q) = %v, want %v", tt.in, got, tt.want)
		}
	}
}

func TestDefaultPathsUseXDG(t *testing.T) {
	t.Setenv("XDG_CONFIG_HOME", "/cfg")
	t.Setenv("XDG_DATA_HOME", "/data")
	t.Setenv("XDG_CACHE_HOME", "/cache")
	if got := DefaultConfigPath(); got != filepath.Join("/cfg", "tango", "config.toml") {
		t.Fatalf("config path: %s", got)
	}
	if got := DefaultDBPath(); got != filepath.Join("/data", "tango", "tango.db") {
		t.Fatalf("db path: %s", got)
	}
	if got := DefaultAudioCacheDir(); got != filepath.Join("/cache", "tango", "audio") {
		t.Fatalf("cache dir: %s", got)
	}
}
