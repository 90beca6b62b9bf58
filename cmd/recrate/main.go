package main

import (
	"context"
	"errors"
	"fmt"
	"os"

	"recrate/internal/services"
)

func main() {
	cmd := newRootCommand()
	if err := cmd.Execute(); err != nil {
		if !errors.Is(err, context.Canceled) {
			fmt.Fprintln(os.Stderr, err)
		}
		os.Exit(exitCode(err))
	}
}

// exitCode separates fatal preconditions (2) from ordinary command failures
// (1) so scripts can tell a refused run from a failed one.
func exitCode(err error) int {
	if err == nil {
		return 0
	}
	if services.IsFatal(err) {
		return 2
	}
	return 1
}
