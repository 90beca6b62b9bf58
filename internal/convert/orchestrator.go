// Package convert plans and executes batch audio conversions: transcode
// files, reconcile the filesystem result, and stage database updates that a
// single commit applies after confirmation.
package convert

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"recrate/internal/fileutil"
	"recrate/internal/format"
	"recrate/internal/library"
	"recrate/internal/media/ffprobe"
	"recrate/internal/services"
	"recrate/internal/services/ffmpeg"
)

// ErrQuit is returned by a per-file confirmer to stop the batch between
// tracks. Completed conversions stay staged.
var ErrQuit = errors.New("quit requested")

// Repository is the slice of the library adapter the orchestrator writes
// through.
type Repository interface {
	UpdateTrack(trackID int64, update library.TrackUpdate)
	Commit(ctx context.Context) error
}

// Prober inspects an audio file. The default wraps ffprobe.
type Prober func(ctx context.Context, path string) (ffprobe.Result, error)

// Confirmer gates one track's conversion in interactive mode. Returning
// ErrQuit stops the batch.
type Confirmer func(track library.Track, targetPath string) (bool, error)

// Orchestrator coordinates the transcoder, filesystem, and repository for a
// batch of tracks.
type Orchestrator struct {
	repo       Repository
	transcoder ffmpeg.Client
	probe      Prober
	check      func(context.Context) error
	confirm    Confirmer
	logger     *slog.Logger
}

// OrchestratorOption configures construction.
type OrchestratorOption func(*Orchestrator)

// WithPreflight injects the precondition check evaluated before planning.
func WithPreflight(check func(context.Context) error) OrchestratorOption {
	return func(o *Orchestrator) {
		o.check = check
	}
}

// WithProber overrides the audio inspector.
func WithProber(probe Prober) OrchestratorOption {
	return func(o *Orchestrator) {
		if probe != nil {
			o.probe = probe
		}
	}
}

// WithConfirmer installs the per-file confirmation prompt.
func WithConfirmer(confirm Confirmer) OrchestratorOption {
	return func(o *Orchestrator) {
		o.confirm = confirm
	}
}

// WithLogger overrides the default logger.
func WithLogger(logger *slog.Logger) OrchestratorOption {
	return func(o *Orchestrator) {
		if logger != nil {
			o.logger = logger
		}
	}
}

// New constructs an orchestrator writing through repo and encoding with
// transcoder.
func New(repo Repository, transcoder ffmpeg.Client, proberBinary string, opts ...OrchestratorOption) *Orchestrator {
	o := &Orchestrator{
		repo:       repo,
		transcoder: transcoder,
		probe: func(ctx context.Context, path string) (ffprobe.Result, error) {
			return ffprobe.Inspect(ctx, proberBinary, path)
		},
		check:  func(context.Context) error { return nil },
		logger: slog.Default(),
	}
	for _, opt := range opts {
		opt(o)
	}
	return o
}

// Plan validates convertibility and target paths for every track without
// touching the transcoder, the filesystem, or the database. Running it twice
// yields identical batches.
func (o *Orchestrator) Plan(ctx context.Context, tracks []library.Track, target format.Format, opts Options) (*Batch, error) {
	if err := o.check(ctx); err != nil {
		return nil, err
	}

	batch := &Batch{Target: target}
	for _, track := range tracks {
		batch.Entries = append(batch.Entries, o.planEntry(track, target, opts))
	}
	return batch, nil
}

func (o *Orchestrator) planEntry(track library.Track, target format.Format, opts Options) Entry {
	entry := Entry{Track: track, Action: ActionConvert}

	src, ok := track.Format()
	if !ok {
		entry.Action = ActionSkipUnsupported
		entry.Detail = fmt.Sprintf("unrecognized file type code %d", track.FileType)
		return entry
	}
	if src == target {
		entry.Action = ActionSkipUnsupported
		entry.Detail = fmt.Sprintf("already %s", target)
		return entry
	}
	if !format.CanConvert(src, target) {
		entry.Action = ActionSkipUnsupported
		entry.Detail = fmt.Sprintf("%s -> %s is not permitted", src, target)
		return entry
	}

	entry.TargetPath = targetPath(track.FilePath, target)
	// A file type code that disagrees with the on-disk extension can make
	// the target collapse onto the source; converting would overwrite and
	// then delete the only copy.
	if entry.TargetPath == track.FilePath {
		entry.Action = ActionSkipUnsupported
		entry.Detail = fmt.Sprintf("target path equals source path: %s", track.FilePath)
		return entry
	}
	if !opts.Overwrite && fileutil.FileExists(entry.TargetPath) {
		entry.Action = ActionSkipExists
		entry.Detail = fmt.Sprintf("target exists: %s", entry.TargetPath)
		return entry
	}
	return entry
}

// targetPath swaps the file extension in place: same directory, new suffix.
func targetPath(sourcePath string, target format.Format) string {
	ext := filepath.Ext(sourcePath)
	return strings.TrimSuffix(sourcePath, ext) + format.Extension(target)
}

// Execute converts every planned entry in order, staging database updates
// and deferred deletions. Per-track failures are recorded on the entry and
// never abort the batch; only a quit from the interactive confirmer stops
// early, leaving completed work staged.
func (o *Orchestrator) Execute(ctx context.Context, batch *Batch, opts Options) error {
	deleteOriginals := opts.DeleteOriginals(batch.Target)

	for _, entry := range batch.Convertible() {
		if ctx.Err() != nil {
			return ctx.Err()
		}
		if opts.Interactive && o.confirm != nil {
			ok, err := o.confirm(entry.Track, entry.TargetPath)
			if errors.Is(err, ErrQuit) {
				o.logger.Info("stopping between tracks", "staged", o.stagedCount(batch))
				return ErrQuit
			}
			if err != nil {
				return err
			}
			if !ok {
				entry.Declined = true
				entry.Detail = "declined"
				continue
			}
		}

		if err := o.convertOne(ctx, entry, batch.Target); err != nil {
			entry.Action = ActionError
			entry.Detail = err.Error()
			o.logger.Warn("conversion failed", "track_id", entry.Track.ID, "error", err)
			continue
		}

		entry.Converted = true
		entry.DeleteOriginal = deleteOriginals
		o.logger.Info("converted", "track_id", entry.Track.ID, "target", entry.TargetPath)
	}
	return nil
}

func (o *Orchestrator) convertOne(ctx context.Context, entry *Entry, target format.Format) error {
	source := entry.Track.FilePath
	if !fileutil.FileExists(source) {
		return services.Wrap(services.ErrValidation, "convert", "source", fmt.Sprintf("file not found: %s", source), nil)
	}

	bitDepth := entry.Track.BitDepth
	if probed, err := o.probe(ctx, source); err == nil {
		bitDepth = probed.BitDepth()
	}

	// Transcode into a scratch sibling, then move into place, so the target
	// path never holds a half-written file.
	scratch := fileutil.TempSibling(entry.TargetPath)
	defer os.Remove(scratch)

	if err := o.transcoder.Transcode(ctx, ffmpeg.Request{
		Input:    source,
		Output:   scratch,
		Target:   target,
		BitDepth: bitDepth,
	}); err != nil {
		return err
	}
	if !fileutil.FileExists(scratch) {
		return services.Wrap(services.ErrExternalTool, "convert", "verify", "transcoder reported success but produced no file", nil)
	}
	if err := fileutil.MoveIntoPlace(scratch, entry.TargetPath); err != nil {
		return services.Wrap(services.ErrValidation, "convert", "move into place", "", err)
	}

	// The converted file must pass inspection before its row is staged; a
	// file ffprobe cannot read is treated as a failed conversion.
	probed, err := o.probe(ctx, entry.TargetPath)
	if err != nil {
		os.Remove(entry.TargetPath)
		return services.Wrap(services.ErrExternalTool, "convert", "verify", "converted file failed inspection", err)
	}

	update := library.TrackUpdate{
		FilePath: entry.TargetPath,
		FileType: format.FileTypeCode(target),
		BitRate:  format.MP3BitrateKbps,
	}
	if target != format.MP3 {
		update.BitRate = probed.BitRateKbps()
	}
	if info, err := os.Stat(entry.TargetPath); err == nil {
		update.FileSize = info.Size()
	}
	o.repo.UpdateTrack(entry.Track.ID, update)
	return nil
}

// Commit applies all staged repository updates, then performs staged source
// deletions. The database write comes first: a failed deletion leaves an
// orphaned file, which is recoverable, while the reverse order could leave
// the database pointing at a deleted file.
func (o *Orchestrator) Commit(ctx context.Context, batch *Batch) error {
	if err := o.repo.Commit(ctx); err != nil {
		return err
	}

	for i := range batch.Entries {
		entry := &batch.Entries[i]
		if !entry.Converted || !entry.DeleteOriginal {
			continue
		}
		if err := os.Remove(entry.Track.FilePath); err != nil {
			entry.Detail = fmt.Sprintf("original not deleted: %v", err)
			o.logger.Warn("failed to delete original", "track_id", entry.Track.ID, "path", entry.Track.FilePath, "error", err)
		}
	}
	return nil
}

// Discard removes the converted files of an unconfirmed batch, leaving both
// the database and the source files untouched.
func (o *Orchestrator) Discard(batch *Batch) {
	for i := range batch.Entries {
		entry := &batch.Entries[i]
		if !entry.Converted {
			continue
		}
		if err := os.Remove(entry.TargetPath); err != nil {
			o.logger.Warn("failed to clean up converted file", "path", entry.TargetPath, "error", err)
		}
		entry.Converted = false
	}
}

func (o *Orchestrator) stagedCount(batch *Batch) int {
	count := 0
	for _, e := range batch.Entries {
		if e.Converted {
			count++
		}
	}
	return count
}
