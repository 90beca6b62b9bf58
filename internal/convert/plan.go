package convert

import (
	"recrate/internal/format"
	"recrate/internal/library"
)

// Action classifies the planned or executed outcome for one track.
type Action string

const (
	ActionConvert         Action = "convert"
	ActionSkipExists      Action = "skip-exists"
	ActionSkipUnsupported Action = "skip-unsupported"
	ActionError           Action = "error"
)

// Entry is one track's slot in a batch: the planned action plus, after
// execution, what actually happened.
type Entry struct {
	Track      library.Track
	Action     Action
	TargetPath string
	// Detail carries the skip reason or captured error diagnostic.
	Detail string
	// Converted is set once the transcoded file is in place and the
	// database update is staged.
	Converted bool
	// DeleteOriginal marks a staged deletion of the source file, executed
	// after the database commit.
	DeleteOriginal bool
	// Declined is set when per-file confirmation rejected the track.
	Declined bool
}

// Batch is the ordered outcome of applying one conversion over a resolved
// track set.
type Batch struct {
	Target  format.Format
	Entries []Entry
}

// Counts aggregates batch outcomes for the summary line.
type Counts struct {
	Convert         int
	SkipExists      int
	SkipUnsupported int
	Errors          int
	Declined        int
}

// Counts tallies entries by action. Declined entries are counted apart so
// the summary can distinguish "user said no" from policy skips.
func (b *Batch) Counts() Counts {
	var c Counts
	for _, e := range b.Entries {
		if e.Declined {
			c.Declined++
			continue
		}
		switch e.Action {
		case ActionConvert:
			c.Convert++
		case ActionSkipExists:
			c.SkipExists++
		case ActionSkipUnsupported:
			c.SkipUnsupported++
		case ActionError:
			c.Errors++
		}
	}
	return c
}

// Convertible returns the entries still planned for conversion.
func (b *Batch) Convertible() []*Entry {
	var entries []*Entry
	for i := range b.Entries {
		if b.Entries[i].Action == ActionConvert && !b.Entries[i].Declined {
			entries = append(entries, &b.Entries[i])
		}
	}
	return entries
}

// StagedDeletions lists source paths queued for removal after commit.
func (b *Batch) StagedDeletions() []string {
	var paths []string
	for _, e := range b.Entries {
		if e.Converted && e.DeleteOriginal {
			paths = append(paths, e.Track.FilePath)
		}
	}
	return paths
}
