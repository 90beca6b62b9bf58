package deps

import (
	"os"
	"path/filepath"
	"testing"
)

func TestCheckBinaries(t *testing.T) {
	binDir := t.TempDir()
	present := filepath.Join(binDir, "present")
	script := []byte("#!/bin/sh\nexit 0\n")
	if err := os.WriteFile(present, script, 0o755); err != nil {
		t.Fatalf("write stub: %v", err)
	}
	reqs := []Requirement{
		{Name: "Present", Command: present},
		{Name: "Missing", Command: "clearly-not-present-binary", InstallHint: "install it"},
	}

	results := CheckBinaries(reqs)
	if len(results) != len(reqs) {
		t.Fatalf("expected %d results, got %d", len(reqs), len(results))
	}

	if !results[0].Available {
		t.Fatalf("expected first requirement to be available, got %#v", results[0])
	}
	if results[0].Detail != "" {
		t.Fatalf("unexpected detail for available dependency: %s", results[0].Detail)
	}

	if results[1].Available {
		t.Fatal("expected missing binary to be unavailable")
	}
	if results[1].Detail == "" {
		t.Fatal("expected detail message for missing binary")
	}
	if results[1].InstallHint != "install it" {
		t.Fatalf("expected install hint to be carried, got %q", results[1].InstallHint)
	}
}

func TestCheckBinariesEmptyCommand(t *testing.T) {
	results := CheckBinaries([]Requirement{{Name: "Unset"}})
	if len(results) != 1 || results[0].Available {
		t.Fatalf("expected unavailable result, got %#v", results)
	}
	if results[0].Detail != "command not configured" {
		t.Fatalf("unexpected detail: %s", results[0].Detail)
	}
}

func TestTranscoderDefaults(t *testing.T) {
	if req := Transcoder(""); req.Command != "ffmpeg" {
		t.Fatalf("expected default ffmpeg command, got %q", req.Command)
	}
	if req := Transcoder("/opt/ffmpeg"); req.Command != "/opt/ffmpeg" {
		t.Fatalf("expected override to be kept, got %q", req.Command)
	}
	if req := Prober(""); req.Command != "ffprobe" {
		t.Fatalf("expected default ffprobe command, got %q", req.Command)
	}
}
