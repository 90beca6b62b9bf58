package fileutil

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestTempSiblingStaysInDirectory(t *testing.T) {
	target := filepath.Join("/library", "music", "track.aiff")
	tmp := TempSibling(target)
	if filepath.Dir(tmp) != filepath.Dir(target) {
		t.Fatalf("expected temp path in %s, got %s", filepath.Dir(target), tmp)
	}
	if !strings.HasSuffix(tmp, ".tmp") {
		t.Fatalf("expected .tmp suffix, got %s", tmp)
	}
	if tmp == TempSibling(target) {
		t.Fatal("expected unique temp paths per call")
	}
}

func TestMoveIntoPlaceReplacesExisting(t *testing.T) {
	dir := t.TempDir()
	src := filepath.Join(dir, "src")
	dst := filepath.Join(dir, "dst")
	if err := os.WriteFile(src, []byte("new"), 0o644); err != nil {
		t.Fatalf("write src: %v", err)
	}
	if err := os.WriteFile(dst, []byte("old"), 0o644); err != nil {
		t.Fatalf("write dst: %v", err)
	}

	if err := MoveIntoPlace(src, dst); err != nil {
		t.Fatalf("MoveIntoPlace failed: %v", err)
	}
	data, err := os.ReadFile(dst)
	if err != nil {
		t.Fatalf("read dst: %v", err)
	}
	if string(data) != "new" {
		t.Fatalf("expected dst to contain replacement, got %q", data)
	}
	if FileExists(src) {
		t.Fatal("expected src to be gone after move")
	}
}

func TestFileExists(t *testing.T) {
	dir := t.TempDir()
	if FileExists(filepath.Join(dir, "missing")) {
		t.Fatal("expected missing file to report false")
	}
	if FileExists(dir) {
		t.Fatal("expected directory to report false")
	}
	path := filepath.Join(dir, "present")
	if err := os.WriteFile(path, nil, 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}
	if !FileExists(path) {
		t.Fatal("expected regular file to report true")
	}
}
