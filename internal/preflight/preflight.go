// Package preflight runs the environment checks that must pass before any
// track is touched.
package preflight

import (
	"context"
	"fmt"
	"strings"

	"recrate/internal/config"
	"recrate/internal/services"
)

// Result reports the outcome of a single preflight check.
type Result struct {
	Name   string
	Passed bool
	Detail string
}

// RunAll executes all applicable preflight checks for the given config.
func RunAll(ctx context.Context, cfg *config.Config) []Result {
	if cfg == nil {
		return nil
	}

	results := []Result{
		CheckLibraryDatabase(cfg.Paths.LibraryDB),
		CheckTranscoder(cfg.FFmpegBinary()),
		CheckProber(cfg.FFprobeBinary()),
	}
	if len(cfg.HostApp.ProcessNames) > 0 {
		results = append(results, CheckHostApplication(ctx, cfg.HostApp.ProcessNames))
	}
	return results
}

// Gate wraps RunAll into the check function the conversion orchestrator
// evaluates before planning. Any failed check aborts with a precondition
// error naming every failure.
func Gate(cfg *config.Config) func(context.Context) error {
	return func(ctx context.Context) error {
		var failures []string
		for _, result := range RunAll(ctx, cfg) {
			if !result.Passed {
				failures = append(failures, fmt.Sprintf("%s: %s", result.Name, result.Detail))
			}
		}
		if len(failures) > 0 {
			return services.Wrap(services.ErrPrecondition, "preflight", "", strings.Join(failures, "; "), nil)
		}
		return nil
	}
}
