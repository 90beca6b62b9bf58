package testsupport

import (
	"context"
	"database/sql"
	"testing"

	_ "modernc.org/sqlite"

	"recrate/internal/config"
	"recrate/internal/format"
	"recrate/internal/library"
)

// TrackSpec seeds one track row plus its artist, album, and playlist rows.
type TrackSpec struct {
	Title      string
	Artist     string
	Album      string
	Path       string
	Format     format.Format
	BitRate    int
	BitDepth   int
	SampleRate int
	FileSize   int64
	Playlists  []string
}

// SeedLibrary initializes a library database at the config's path and fills
// it with the given tracks. Ids are assigned sequentially from 1.
func SeedLibrary(t testing.TB, cfg *config.Config, specs ...TrackSpec) *library.Store {
	t.Helper()

	store, err := library.Initialize(context.Background(), cfg.Paths.LibraryDB)
	if err != nil {
		t.Fatalf("library.Initialize: %v", err)
	}
	t.Cleanup(func() {
		store.Close()
	})

	db, err := sql.Open("sqlite", cfg.Paths.LibraryDB)
	if err != nil {
		t.Fatalf("open seed connection: %v", err)
	}
	defer db.Close()

	seeder := &librarySeeder{
		t:         t,
		db:        db,
		artists:   map[string]int64{},
		albums:    map[string]int64{},
		playlists: map[string]int64{},
	}
	for i, spec := range specs {
		seeder.insert(int64(i+1), spec)
	}
	return store
}

type librarySeeder struct {
	t         testing.TB
	db        *sql.DB
	artists   map[string]int64
	albums    map[string]int64
	playlists map[string]int64
}

func (s *librarySeeder) insert(id int64, spec TrackSpec) {
	s.t.Helper()

	artistID := s.lookup("artists", s.artists, spec.Artist)
	albumID := s.lookup("albums", s.albums, spec.Album)

	bitDepth := spec.BitDepth
	if bitDepth == 0 && format.IsLossless(spec.Format) {
		bitDepth = 16
	}
	sampleRate := spec.SampleRate
	if sampleRate == 0 {
		sampleRate = 44100
	}

	_, err := s.db.Exec(
		"INSERT INTO tracks (id, title, artist_id, album_id, file_path, file_type, bit_rate, bit_depth, sample_rate, file_size) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)",
		id, spec.Title, artistID, albumID, spec.Path, format.FileTypeCode(spec.Format),
		spec.BitRate, bitDepth, sampleRate, spec.FileSize)
	if err != nil {
		s.t.Fatalf("insert track %q: %v", spec.Title, err)
	}

	for pos, name := range spec.Playlists {
		playlistID, ok := s.playlists[name]
		if !ok {
			playlistID = int64(len(s.playlists) + 1)
			if _, err := s.db.Exec("INSERT INTO playlists (id, name) VALUES (?, ?)", playlistID, name); err != nil {
				s.t.Fatalf("insert playlist %q: %v", name, err)
			}
			s.playlists[name] = playlistID
		}
		if _, err := s.db.Exec(
			"INSERT INTO playlist_entries (playlist_id, track_id, position) VALUES (?, ?, ?)",
			playlistID, id, pos); err != nil {
			s.t.Fatalf("insert playlist entry %q: %v", name, err)
		}
	}
}

func (s *librarySeeder) lookup(table string, cache map[string]int64, name string) any {
	s.t.Helper()

	if name == "" {
		return nil
	}
	if id, ok := cache[name]; ok {
		return id
	}
	id := int64(len(cache) + 1)
	if _, err := s.db.Exec("INSERT INTO "+table+" (id, name) VALUES (?, ?)", id, name); err != nil {
		s.t.Fatalf("insert %s %q: %v", table, name, err)
	}
	cache[name] = id
	return id
}
