// Package library is the read/write adapter over the library database.
// Reads enumerate tracks in stable id order; writes are staged in memory and
// flushed in a single transaction by Commit.
package library

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"sort"
	"strings"
	"time"

	_ "modernc.org/sqlite"

	"recrate/internal/services"
)

// Store manages library persistence backed by SQLite.
type Store struct {
	db   *sql.DB
	path string

	staged map[int64]TrackUpdate
	order  []int64
}

const (
	sqliteBusyCode          = 5
	busyRetryAttempts       = 5
	busyRetryInitialBackoff = 10 * time.Millisecond
	busyRetryMaxBackoff     = 200 * time.Millisecond
)

func isSQLiteBusy(err error) bool {
	if err == nil {
		return false
	}
	var coder interface{ Code() int }
	if errors.As(err, &coder) && coder.Code() == sqliteBusyCode {
		return true
	}
	msg := err.Error()
	return strings.Contains(msg, "SQLITE_BUSY") || strings.Contains(msg, "database is locked")
}

func retryOnBusy(ctx context.Context, op func() error) error {
	delay := busyRetryInitialBackoff
	var lastErr error
	for attempt := 0; attempt < busyRetryAttempts; attempt++ {
		lastErr = op()
		if lastErr == nil {
			return nil
		}
		if !isSQLiteBusy(lastErr) || attempt == busyRetryAttempts-1 {
			break
		}
		select {
		case <-time.After(delay):
		case <-ctx.Done():
			return ctx.Err()
		}
		if next := delay * 2; next <= busyRetryMaxBackoff {
			delay = next
		}
	}
	return lastErr
}

// Open connects to an existing library database. A missing or unreadable
// file is a fatal repository error, not a retryable one.
func Open(path string) (*Store, error) {
	if strings.TrimSpace(path) == "" {
		return nil, services.Wrap(services.ErrRepository, "library", "open", "no database path configured", nil)
	}
	if _, err := os.Stat(path); err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, services.Wrap(services.ErrRepository, "library", "open", fmt.Sprintf("database not found at %s", path), nil)
		}
		return nil, services.Wrap(services.ErrRepository, "library", "open", "stat database", err)
	}

	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, services.Wrap(services.ErrRepository, "library", "open", "open sqlite db", err)
	}

	pragmas := []string{
		"PRAGMA foreign_keys = ON",
		"PRAGMA busy_timeout = 5000",
	}
	for _, pragma := range pragmas {
		if _, execErr := db.Exec(pragma); execErr != nil {
			_ = db.Close()
			return nil, services.Wrap(services.ErrRepository, "library", "open", fmt.Sprintf("apply pragma %q", pragma), execErr)
		}
	}

	store := &Store{db: db, path: path, staged: make(map[int64]TrackUpdate)}
	if err := store.verifyReadable(context.Background()); err != nil {
		_ = db.Close()
		return nil, err
	}
	return store, nil
}

// Initialize creates a new, empty library database at path.
func Initialize(ctx context.Context, path string) (*Store, error) {
	if _, err := os.Stat(path); err == nil {
		return nil, services.Wrap(services.ErrRepository, "library", "init", fmt.Sprintf("database already exists at %s", path), nil)
	}
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, services.Wrap(services.ErrRepository, "library", "init", "open sqlite db", err)
	}
	store := &Store{db: db, path: path, staged: make(map[int64]TrackUpdate)}
	if err := store.CreateSchema(ctx); err != nil {
		_ = db.Close()
		_ = os.Remove(path)
		return nil, services.Wrap(services.ErrRepository, "library", "init", "create schema", err)
	}
	return store, nil
}

func (s *Store) verifyReadable(ctx context.Context) error {
	var count int
	err := s.db.QueryRowContext(ctx,
		"SELECT COUNT(1) FROM sqlite_master WHERE type='table' AND name='tracks'",
	).Scan(&count)
	if err != nil {
		return services.Wrap(services.ErrRepository, "library", "open", "database unreadable or locked", err)
	}
	if count == 0 {
		return services.Wrap(services.ErrRepository, "library", "open", fmt.Sprintf("%s has no tracks table", s.path), nil)
	}
	return nil
}

// Close closes the underlying database connection. Staged updates that were
// never committed are discarded.
func (s *Store) Close() error {
	if s == nil || s.db == nil {
		return nil
	}
	return s.db.Close()
}

// Path returns the database file location.
func (s *Store) Path() string {
	return s.path
}

// ListTracks enumerates every track joined with artist, album, and playlist
// memberships, ordered by track id.
func (s *Store) ListTracks(ctx context.Context) ([]Track, error) {
	const query = `
SELECT t.id, t.title, COALESCE(a.name, ''), COALESCE(al.name, ''),
       t.file_path, t.file_type, t.bit_rate, t.bit_depth, t.sample_rate, t.file_size
FROM tracks t
LEFT JOIN artists a ON t.artist_id = a.id
LEFT JOIN albums al ON t.album_id = al.id
ORDER BY t.id`

	rows, err := s.db.QueryContext(ctx, query)
	if err != nil {
		return nil, services.Wrap(services.ErrRepository, "library", "list tracks", "", err)
	}
	defer rows.Close()

	var tracks []Track
	byID := make(map[int64]int)
	for rows.Next() {
		var t Track
		if err := rows.Scan(&t.ID, &t.Title, &t.Artist, &t.Album, &t.FilePath,
			&t.FileType, &t.BitRate, &t.BitDepth, &t.SampleRate, &t.FileSize); err != nil {
			return nil, services.Wrap(services.ErrRepository, "library", "scan track", "", err)
		}
		byID[t.ID] = len(tracks)
		tracks = append(tracks, t)
	}
	if err := rows.Err(); err != nil {
		return nil, services.Wrap(services.ErrRepository, "library", "list tracks", "", err)
	}

	memberships, err := s.playlistMemberships(ctx)
	if err != nil {
		return nil, err
	}
	for id, names := range memberships {
		if idx, ok := byID[id]; ok {
			sort.Strings(names)
			tracks[idx].Playlists = names
		}
	}
	return tracks, nil
}

func (s *Store) playlistMemberships(ctx context.Context) (map[int64][]string, error) {
	const query = `
SELECT pe.track_id, p.name
FROM playlist_entries pe
JOIN playlists p ON pe.playlist_id = p.id`

	rows, err := s.db.QueryContext(ctx, query)
	if err != nil {
		return nil, services.Wrap(services.ErrRepository, "library", "list playlists", "", err)
	}
	defer rows.Close()

	result := make(map[int64][]string)
	for rows.Next() {
		var trackID int64
		var name string
		if err := rows.Scan(&trackID, &name); err != nil {
			return nil, services.Wrap(services.ErrRepository, "library", "scan playlist", "", err)
		}
		result[trackID] = append(result[trackID], name)
	}
	if err := rows.Err(); err != nil {
		return nil, services.Wrap(services.ErrRepository, "library", "list playlists", "", err)
	}
	return result, nil
}

// PlaylistsFor returns the playlist names the given track belongs to.
func (s *Store) PlaylistsFor(ctx context.Context, trackID int64) ([]string, error) {
	const query = `
SELECT p.name
FROM playlist_entries pe
JOIN playlists p ON pe.playlist_id = p.id
WHERE pe.track_id = ?
ORDER BY p.name`

	rows, err := s.db.QueryContext(ctx, query, trackID)
	if err != nil {
		return nil, services.Wrap(services.ErrRepository, "library", "playlists for track", "", err)
	}
	defer rows.Close()

	var names []string
	for rows.Next() {
		var name string
		if err := rows.Scan(&name); err != nil {
			return nil, services.Wrap(services.ErrRepository, "library", "scan playlist name", "", err)
		}
		names = append(names, name)
	}
	return names, rows.Err()
}

// UpdateTrack stages a field update for the given track. Nothing is written
// until Commit; staging the same track twice keeps the latest update.
func (s *Store) UpdateTrack(trackID int64, update TrackUpdate) {
	if _, exists := s.staged[trackID]; !exists {
		s.order = append(s.order, trackID)
	}
	s.staged[trackID] = update
}

// Pending reports how many staged updates await Commit.
func (s *Store) Pending() int {
	return len(s.staged)
}

// Commit flushes all staged updates in one transaction and clears the staged
// set on success.
func (s *Store) Commit(ctx context.Context) error {
	if len(s.staged) == 0 {
		return nil
	}

	err := retryOnBusy(ctx, func() error {
		tx, err := s.db.BeginTx(ctx, nil)
		if err != nil {
			return err
		}
		defer func() { _ = tx.Rollback() }()

		for _, id := range s.order {
			update := s.staged[id]
			res, err := tx.ExecContext(ctx,
				"UPDATE tracks SET file_path = ?, file_type = ?, bit_rate = ?, file_size = ? WHERE id = ?",
				update.FilePath, update.FileType, update.BitRate, update.FileSize, id)
			if err != nil {
				return err
			}
			affected, err := res.RowsAffected()
			if err != nil {
				return err
			}
			if affected == 0 {
				return fmt.Errorf("track %d no longer exists", id)
			}
		}
		return tx.Commit()
	})
	if err != nil {
		return services.Wrap(services.ErrRepository, "library", "commit", fmt.Sprintf("%d staged updates", len(s.staged)), err)
	}

	s.staged = make(map[int64]TrackUpdate)
	s.order = nil
	return nil
}
