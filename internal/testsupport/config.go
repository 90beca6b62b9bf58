// Package testsupport provides builders shared by package tests: temp
// configs, seeded library databases, and on-disk audio file stand-ins.
package testsupport

import (
	"path/filepath"
	"testing"

	"recrate/internal/config"
)

// NewConfig produces a config seeded with unique temp paths per test.
func NewConfig(t testing.TB) *config.Config {
	t.Helper()

	base := t.TempDir()
	cfg := config.Default()
	cfg.Paths.LibraryDB = filepath.Join(base, "library.db")
	cfg.Paths.LogDir = filepath.Join(base, "logs")
	cfg.HostApp.ProcessNames = nil
	return &cfg
}
