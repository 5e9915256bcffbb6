package config_test

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/pelletier/go-toml/v2"

	"hunt/internal/config"
)

func TestLoadDefaultConfigExpandsPathsAndReadsEnv(t *testing.T) {
	tempHome := t.TempDir()
	t.Setenv("HOME", tempHome)
	t.Setenv("HUNT_OWNER", "avery")
	t.Setenv("HUNT_NTFY_TOPIC", "hunt-reminders")

	cfg, resolved, exists, err := config.Load("")
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}
	if resolved == "" {
		t.Fatal("expected resolved path")
	}
	if exists {
		t.Fatal("expected config file to be absent in temp HOME")
	}

	wantData := filepath.Join(tempHome, ".local", "share", "hunt")
	if cfg.Paths.DataDir != wantData {
		t.Fatalf("unexpected data dir: got %q want %q", cfg.Paths.DataDir, wantData)
	}
	if cfg.Paths.LogDir != filepath.Join(wantData, "logs") {
		t.Fatalf("unexpected log dir: %q", cfg.Paths.LogDir)
	}
	if cfg.Tracker.DefaultOwner != "avery" {
		t.Fatalf("expected owner from env, got %q", cfg.Tracker.DefaultOwner)
	}
	if cfg.Tracker.DefaultSeason != "Summer" {
		t.Fatalf("unexpected default season: %q", cfg.Tracker.DefaultSeason)
	}
	if cfg.Notifications.NtfyTopic != "hunt-reminders" {
		t.Fatalf("expected ntfy topic from env, got %q", cfg.Notifications.NtfyTopic)
	}
	if cfg.Staleness.ThresholdDays != 7 {
		t.Fatalf("unexpected staleness threshold: %d", cfg.Staleness.ThresholdDays)
	}
	if cfg.Dispatcher.PollInterval != 60 {
		t.Fatalf("unexpected poll interval: %d", cfg.Dispatcher.PollInterval)
	}
	if cfg.Dispatcher.ErrorRetryInterval != 10 {
		t.Fatalf("unexpected error retry interval: %d", cfg.Dispatcher.ErrorRetryInterval)
	}
	if cfg.Logging.Format != "console" || cfg.Logging.Level != "info" {
		t.Fatalf("unexpected logging defaults: %+v", cfg.Logging)
	}
	if cfg.DatabasePath() != filepath.Join(wantData, "hunt.db") {
		t.Fatalf("unexpected database path: %q", cfg.DatabasePath())
	}
	if cfg.SocketPath() != filepath.Join(cfg.Paths.LogDir, "hunt.sock") {
		t.Fatalf("unexpected socket path: %q", cfg.SocketPath())
	}

	if err := cfg.EnsureDirectories(); err != nil {
		t.Fatalf("EnsureDirectories failed: %v", err)
	}
	for _, dir := range []string{cfg.Paths.DataDir, cfg.Paths.LogDir} {
		info, err := os.Stat(dir)
		if err != nil {
			t.Fatalf("expected directory %q to exist: %v", dir, err)
		}
		if !info.IsDir() {
			t.Fatalf("expected %q to be directory", dir)
		}
	}
}

func TestLoadCustomPath(t *testing.T) {
	tempDir := t.TempDir()
	configPath := filepath.Join(tempDir, "hunt.toml")

	type payload struct {
		Paths struct {
			DataDir string `toml:"data_dir"`
			LogDir  string `toml:"log_dir"`
		} `toml:"paths"`
		Tracker struct {
			DefaultOwner  string `toml:"default_owner"`
			DefaultSeason string `toml:"default_season"`
		} `toml:"tracker"`
		Staleness struct {
			ThresholdDays int `toml:"threshold_days"`
		} `toml:"staleness"`
		Dispatcher struct {
			PollInterval int `toml:"poll_interval"`
		} `toml:"dispatcher"`
	}
	custom := payload{}
	custom.Paths.DataDir = filepath.Join(tempDir, "data")
	custom.Paths.LogDir = filepath.Join(tempDir, "logs")
	custom.Tracker.DefaultOwner = "casey"
	custom.Tracker.DefaultSeason = "fall"
	custom.Staleness.ThresholdDays = 14
	custom.Dispatcher.PollInterval = 5
	data, err := toml.Marshal(custom)
	if err != nil {
		t.Fatalf("marshal custom config: %v", err)
	}
	if err := os.WriteFile(configPath, data, 0o644); err != nil {
		t.Fatalf("write custom config: %v", err)
	}

	cfg, resolved, exists, err := config.Load(configPath)
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}
	if !exists {
		t.Fatal("expected exists to be true")
	}
	if resolved != configPath {
		t.Fatalf("unexpected resolved path: got %q want %q", resolved, configPath)
	}
	if cfg.Paths.DataDir != custom.Paths.DataDir {
		t.Fatalf("unexpected data dir: %q", cfg.Paths.DataDir)
	}
	if cfg.Tracker.DefaultOwner != "casey" {
		t.Fatalf("unexpected owner: %q", cfg.Tracker.DefaultOwner)
	}
	if cfg.Tracker.DefaultSeason != "fall" {
		t.Fatalf("season should keep file spelling until parsed: %q", cfg.Tracker.DefaultSeason)
	}
	if cfg.Staleness.ThresholdDays != 14 {
		t.Fatalf("unexpected threshold: %d", cfg.Staleness.ThresholdDays)
	}
	if cfg.Dispatcher.PollInterval != 5 {
		t.Fatalf("unexpected poll interval: %d", cfg.Dispatcher.PollInterval)
	}
	if cfg.Dispatcher.ErrorRetryInterval != 10 {
		t.Fatalf("expected default error retry interval, got %d", cfg.Dispatcher.ErrorRetryInterval)
	}
}

func TestLoadRejectsUnknownSeason(t *testing.T) {
	tempDir := t.TempDir()
	configPath := filepath.Join(tempDir, "hunt.toml")
	content := "[tracker]\ndefault_season = \"spring\"\n"
	if err := os.WriteFile(configPath, []byte(content), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}

	_, _, _, err := config.Load(configPath)
	if err == nil {
		t.Fatal("expected error for unknown season")
	}
	if !strings.Contains(err.Error(), "default_season") {
		t.Fatalf("expected season error, got %v", err)
	}
}

func TestLoadRejectsBadLogFormatValue(t *testing.T) {
	tempDir := t.TempDir()
	configPath := filepath.Join(tempDir, "hunt.toml")
	content := "[logging]\nlevel = \"verbose\"\n"
	if err := os.WriteFile(configPath, []byte(content), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}

	_, _, _, err := config.Load(configPath)
	if err == nil {
		t.Fatal("expected error for unknown log level")
	}
	if !strings.Contains(err.Error(), "logging.level") {
		t.Fatalf("expected logging.level error, got %v", err)
	}
}

func TestLoadMissingExplicitPathUsesDefaults(t *testing.T) {
	missing := filepath.Join(t.TempDir(), "absent.toml")

	cfg, resolved, exists, err := config.Load(missing)
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}
	if exists {
		t.Fatal("expected exists to be false for missing file")
	}
	if resolved != missing {
		t.Fatalf("unexpected resolved path: %q", resolved)
	}
	if cfg.Staleness.ThresholdDays != 7 {
		t.Fatalf("expected defaults, got threshold %d", cfg.Staleness.ThresholdDays)
	}
}

func TestCreateSampleWritesFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "config.toml")
	if err := config.CreateSample(path); err != nil {
		t.Fatalf("CreateSample returned error: %v", err)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read sample: %v", err)
	}
	text := string(data)
	for _, section := range []string{"[paths]", "[tracker]", "[staleness]", "[dispatcher]", "[notifications]", "[logging]"} {
		if !strings.Contains(text, section) {
			t.Fatalf("sample missing section %s", section)
		}
	}
}

func TestExpandPathResolvesHome(t *testing.T) {
	tempHome := t.TempDir()
	t.Setenv("HOME", tempHome)

	got, err := config.ExpandPath("~/data")
	if err != nil {
		t.Fatalf("ExpandPath returned error: %v", err)
	}
	if got != filepath.Join(tempHome, "data") {
		t.Fatalf("unexpected expansion: %q", got)
	}
}
