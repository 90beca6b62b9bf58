package main

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"recrate/internal/config"
	"recrate/internal/format"
	"recrate/internal/testsupport"
)

type cliTestEnv struct {
	cfg        *config.Config
	configPath string
	musicDir   string
}

// setupCLITestEnv seeds a small library of on-disk files plus a config file
// pointing at it. Track ids are 1..4 in insertion order.
func setupCLITestEnv(t *testing.T) *cliTestEnv {
	t.Helper()

	base := t.TempDir()
	homeDir := filepath.Join(base, "home")
	if err := os.MkdirAll(homeDir, 0o755); err != nil {
		t.Fatalf("mkdir home: %v", err)
	}
	t.Setenv("HOME", homeDir)

	cfg := testsupport.NewConfig(t)
	testsupport.StubBinaries(t, cfg)

	musicDir := filepath.Join(base, "music")
	specs := []testsupport.TrackSpec{
		{Title: "One More Time", Artist: "Daft Punk", Album: "Discovery", Format: format.FLAC, BitRate: 1411, FileSize: 4096, Playlists: []string{"House"}},
		{Title: "Aerodynamic", Artist: "Daft Punk", Album: "Discovery", Format: format.AIFF, BitRate: 1411, FileSize: 4096, Playlists: []string{"House"}},
		{Title: "Windowlicker", Artist: "Aphex Twin", Album: "Windowlicker", Format: format.WAV, BitRate: 1411, FileSize: 4096},
		{Title: "Flim", Artist: "Aphex Twin", Album: "Come to Daddy", Format: format.MP3, BitRate: 320, FileSize: 1024},
	}
	for i := range specs {
		name := strings.ReplaceAll(strings.ToLower(specs[i].Title), " ", "-")
		specs[i].Path = filepath.Join(musicDir, name+format.Extension(specs[i].Format))
		testsupport.WriteFile(t, specs[i].Path, specs[i].FileSize)
	}
	testsupport.SeedLibrary(t, cfg, specs...)

	configPath := filepath.Join(homeDir, ".config", "recrate", "config.toml")
	writeTestConfig(t, configPath, cfg)

	return &cliTestEnv{cfg: cfg, configPath: configPath, musicDir: musicDir}
}

func writeTestConfig(t *testing.T, path string, cfg *config.Config) {
	t.Helper()
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatalf("mkdir config dir: %v", err)
	}
	content := fmt.Sprintf(
		"[paths]\nlibrary_db = %q\nlog_dir = %q\n\n[tools]\nffmpeg = %q\nffprobe = %q\n\n[host_app]\nprocess_names = []\n",
		cfg.Paths.LibraryDB,
		cfg.Paths.LogDir,
		cfg.Tools.FFmpeg,
		cfg.Tools.FFprobe,
	)
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}
}

func runCLI(t *testing.T, env *cliTestEnv, stdin string, args ...string) (string, string, error) {
	t.Helper()
	cmd := newRootCommand()
	var stdout, stderr bytes.Buffer
	cmd.SetOut(&stdout)
	cmd.SetErr(&stderr)
	cmd.SetIn(strings.NewReader(stdin))
	flags := []string{}
	if env != nil {
		flags = append(flags, "--config", env.configPath)
	}
	cmd.SetArgs(append(flags, args...))
	err := cmd.Execute()
	return stdout.String(), stderr.String(), err
}

// forceTerminalStdin makes the prompt gate believe stdin is interactive.
func forceTerminalStdin(t *testing.T) {
	t.Helper()
	prev := stdinIsTerminal
	stdinIsTerminal = func() bool { return true }
	t.Cleanup(func() { stdinIsTerminal = prev })
}

func requireContains(t *testing.T, output, substr string) {
	t.Helper()
	if !strings.Contains(output, substr) {
		t.Fatalf("expected %q to contain %q", output, substr)
	}
}
