package config_test

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/pelletier/go-toml/v2"

	"recrate/internal/config"
)

func TestLoadDefaultsAndExpandsPaths(t *testing.T) {
	tempHome := t.TempDir()
	t.Setenv("HOME", tempHome)

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

	if !filepath.IsAbs(cfg.Paths.LibraryDB) {
		t.Fatalf("expected library db path to be absolute, got %q", cfg.Paths.LibraryDB)
	}
	wantLogs := filepath.Join(tempHome, ".local", "share", "recrate", "logs")
	if cfg.Paths.LogDir != wantLogs {
		t.Fatalf("unexpected log dir: got %q want %q", cfg.Paths.LogDir, wantLogs)
	}
	if cfg.FFmpegBinary() != "ffmpeg" || cfg.FFprobeBinary() != "ffprobe" {
		t.Fatalf("expected default tool binaries, got %q and %q", cfg.FFmpegBinary(), cfg.FFprobeBinary())
	}
	if len(cfg.HostApp.ProcessNames) != 1 || cfg.HostApp.ProcessNames[0] != "rekordbox" {
		t.Fatalf("unexpected host app processes: %v", cfg.HostApp.ProcessNames)
	}
	if cfg.Logging.Format != "console" || cfg.Logging.Level != "info" {
		t.Fatalf("unexpected logging defaults: %+v", cfg.Logging)
	}
}

func TestLoadReadsFileAndNormalizes(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.toml")
	body := strings.Join([]string{
		"[paths]",
		`library_db = "` + filepath.Join(dir, "library.db") + `"`,
		"[tools]",
		`ffmpeg = " /opt/ffmpeg "`,
		"[host_app]",
		`process_names = ["rekordbox", " ", "rekordboxAgent"]`,
		"[logging]",
		`format = "JSON"`,
		`level = "DEBUG"`,
	}, "\n")
	if err := os.WriteFile(path, []byte(body), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}

	cfg, resolved, exists, err := config.Load(path)
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}
	if !exists || resolved != path {
		t.Fatalf("expected config at %s to be loaded, got %s exists=%v", path, resolved, exists)
	}
	if cfg.FFmpegBinary() != "/opt/ffmpeg" {
		t.Fatalf("expected trimmed ffmpeg override, got %q", cfg.FFmpegBinary())
	}
	if len(cfg.HostApp.ProcessNames) != 2 {
		t.Fatalf("expected blank process names dropped, got %v", cfg.HostApp.ProcessNames)
	}
	if cfg.Logging.Format != "json" || cfg.Logging.Level != "debug" {
		t.Fatalf("expected lowercased logging values, got %+v", cfg.Logging)
	}
}

func TestLoadRejectsInvalidLogFormat(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.toml")
	body := "[paths]\nlibrary_db = \"/tmp/library.db\"\n[logging]\nformat = \"xml\"\n"
	if err := os.WriteFile(path, []byte(body), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}
	if _, _, _, err := config.Load(path); err == nil {
		t.Fatal("expected error for unsupported log format")
	}
}

func TestValidateRequiresLibraryDB(t *testing.T) {
	cfg := config.Default()
	cfg.Paths.LibraryDB = ""
	if err := cfg.Validate(); err == nil {
		t.Fatal("expected error when library_db is empty")
	}
}

func TestCreateSampleWritesParsableTOML(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "nested", "config.toml")
	if err := config.CreateSample(path); err != nil {
		t.Fatalf("CreateSample failed: %v", err)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read sample: %v", err)
	}
	var cfg config.Config
	if err := toml.Unmarshal(data, &cfg); err != nil {
		t.Fatalf("sample config does not parse: %v", err)
	}
	if err := config.CreateSample(path); err == nil {
		t.Fatal("expected error when sample already exists")
	}
}
