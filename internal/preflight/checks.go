package preflight

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"golang.org/x/sys/unix"

	"recrate/internal/deps"
)

// procRoot is the process table location, overridable in tests.
var procRoot = "/proc"

// CheckLibraryDatabase verifies that the library database file exists and is
// readable and writable.
func CheckLibraryDatabase(path string) Result {
	const name = "Library database"

	if strings.TrimSpace(path) == "" {
		return Result{Name: name, Detail: "no path configured"}
	}
	info, err := os.Stat(path)
	if err != nil {
		if os.IsNotExist(err) {
			return Result{Name: name, Detail: fmt.Sprintf("%s (error: does not exist)", path)}
		}
		return Result{Name: name, Detail: fmt.Sprintf("%s (error: stat: %v)", path, err)}
	}
	if !info.Mode().IsRegular() {
		return Result{Name: name, Detail: fmt.Sprintf("%s (error: is not a regular file)", path)}
	}
	if err := unix.Access(path, unix.R_OK|unix.W_OK); err != nil {
		return Result{Name: name, Detail: fmt.Sprintf("%s (error: insufficient permissions: %v)", path, err)}
	}
	return Result{Name: name, Passed: true, Detail: fmt.Sprintf("%s (read/write ok)", path)}
}

// CheckTranscoder verifies the ffmpeg binary is resolvable.
func CheckTranscoder(binary string) Result {
	return binaryResult(deps.Transcoder(binary))
}

// CheckProber verifies the ffprobe binary is resolvable.
func CheckProber(binary string) Result {
	return binaryResult(deps.Prober(binary))
}

func binaryResult(req deps.Requirement) Result {
	status := deps.CheckBinaries([]deps.Requirement{req})[0]
	if status.Available {
		return Result{Name: status.Name, Passed: true, Detail: status.Command}
	}
	detail := status.Detail
	if status.InstallHint != "" {
		detail = fmt.Sprintf("%s (%s)", detail, status.InstallHint)
	}
	return Result{Name: status.Name, Detail: detail}
}

// CheckHostApplication fails when any of the named processes is running.
// Converting while the library-management application holds the database
// open risks lock contention and corruption.
func CheckHostApplication(ctx context.Context, names []string) Result {
	const name = "Host application"

	for _, proc := range names {
		if ctx.Err() != nil {
			return Result{Name: name, Detail: ctx.Err().Error()}
		}
		running, err := processRunning(proc)
		if err != nil {
			return Result{Name: name, Detail: fmt.Sprintf("scan processes: %v", err)}
		}
		if running {
			return Result{Name: name, Detail: fmt.Sprintf("%s is running; close it before converting", proc)}
		}
	}
	return Result{Name: name, Passed: true, Detail: "not running"}
}

// processRunning scans the process table for a command name match.
func processRunning(name string) (bool, error) {
	entries, err := os.ReadDir(procRoot)
	if err != nil {
		return false, err
	}
	target := strings.ToLower(name)
	for _, entry := range entries {
		if !entry.IsDir() || !isNumeric(entry.Name()) {
			continue
		}
		comm, err := os.ReadFile(filepath.Join(procRoot, entry.Name(), "comm"))
		if err != nil {
			continue
		}
		if strings.ToLower(strings.TrimSpace(string(comm))) == target {
			return true, nil
		}
	}
	return false, nil
}

func isNumeric(s string) bool {
	if s == "" {
		return false
	}
	for _, r := range s {
		if r < '0' || r > '9' {
			return false
		}
	}
	return true
}
