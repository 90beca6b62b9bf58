package convert

import (
	"recrate/internal/format"
)

// DeletePolicy is the tri-state delete-originals setting: the format-based
// default, or an explicit per-invocation override.
type DeletePolicy int

const (
	// DeleteDefault keeps originals for MP3 output and deletes them for
	// lossless output.
	DeleteDefault DeletePolicy = iota
	DeleteAlways
	DeleteNever
)

// Options control one conversion invocation.
type Options struct {
	// Overwrite replaces an existing file at the target path.
	Overwrite bool
	// Delete resolves whether source files are removed after commit.
	Delete DeletePolicy
	// Interactive asks for per-file confirmation during Execute.
	Interactive bool
}

// DeleteOriginals resolves the policy for the given target format.
func (o Options) DeleteOriginals(target format.Format) bool {
	switch o.Delete {
	case DeleteAlways:
		return true
	case DeleteNever:
		return false
	default:
		return format.IsLossless(target)
	}
}
