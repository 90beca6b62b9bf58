// Package deps detects the external binaries recrate shells out to.
package deps

import (
	"fmt"
	"os/exec"
	"strings"
)

// Requirement defines an external dependency recrate relies on.
type Requirement struct {
	Name        string
	Command     string
	Description string
	InstallHint string
	Optional    bool
}

// Status reports the availability of a dependency.
type Status struct {
	Name        string
	Command     string
	Description string
	InstallHint string
	Optional    bool
	Available   bool
	Detail      string
}

// CheckBinaries evaluates the provided requirements and reports availability.
func CheckBinaries(requirements []Requirement) []Status {
	results := make([]Status, 0, len(requirements))
	for _, req := range requirements {
		cmd := strings.TrimSpace(req.Command)
		status := Status{
			Name:        req.Name,
			Command:     cmd,
			Description: strings.TrimSpace(req.Description),
			InstallHint: strings.TrimSpace(req.InstallHint),
			Optional:    req.Optional,
		}
		if cmd == "" {
			status.Detail = "command not configured"
			results = append(results, status)
			continue
		}
		if _, err := exec.LookPath(cmd); err != nil {
			status.Detail = fmt.Sprintf("binary %q not found", cmd)
			results = append(results, status)
			continue
		}
		status.Available = true
		results = append(results, status)
	}
	return results
}

// Transcoder describes the ffmpeg requirement for the given binary override.
func Transcoder(binary string) Requirement {
	if strings.TrimSpace(binary) == "" {
		binary = "ffmpeg"
	}
	return Requirement{
		Name:        "FFmpeg",
		Command:     binary,
		Description: "Required for audio conversion",
		InstallHint: "install ffmpeg (e.g. 'brew install ffmpeg' or 'apt install ffmpeg') or set tools.ffmpeg in the config",
	}
}

// Prober describes the ffprobe requirement for the given binary override.
func Prober(binary string) Requirement {
	if strings.TrimSpace(binary) == "" {
		binary = "ffprobe"
	}
	return Requirement{
		Name:        "FFprobe",
		Command:     binary,
		Description: "Required for audio inspection",
		InstallHint: "ffprobe ships with ffmpeg; install ffmpeg or set tools.ffprobe in the config",
	}
}
