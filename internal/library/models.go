package library

import (
	"recrate/internal/format"
)

// Track is one audio file's metadata record in the library database.
type Track struct {
	ID         int64
	Title      string
	Artist     string
	Album      string
	FilePath   string
	FileType   int
	BitRate    int
	BitDepth   int
	SampleRate int
	FileSize   int64
	Playlists  []string
}

// Format resolves the track's file type code to a format tag.
func (t Track) Format() (format.Format, bool) {
	return format.FromFileTypeCode(t.FileType)
}

// InPlaylist reports whether the track is a member of the named playlist.
func (t Track) InPlaylist(name string) bool {
	for _, p := range t.Playlists {
		if p == name {
			return true
		}
	}
	return false
}

// TrackUpdate describes the fields rewritten after a successful conversion.
type TrackUpdate struct {
	FilePath string
	FileType int
	BitRate  int
	FileSize int64
}
