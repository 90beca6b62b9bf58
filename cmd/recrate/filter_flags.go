package main

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"recrate/internal/filter"
	"recrate/internal/services"
)

// filterFlags is the selection flag set shared by search and convert.
// Positional arguments are track ids and short-circuit every other filter.
type filterFlags struct {
	trackIDs       []int64
	titles         []string
	exactTitles    []string
	artists        []string
	exactArtists   []string
	albums         []string
	exactAlbums    []string
	playlists      []string
	exactPlaylists []string
	formats        []string
	matchAll       bool
}

func (f *filterFlags) register(cmd *cobra.Command) {
	flags := cmd.Flags()
	flags.Int64SliceVar(&f.trackIDs, "track-id", nil, "Select a track by id (repeatable)")
	flags.StringArrayVar(&f.titles, "title", nil, "Match titles containing the value (repeatable)")
	flags.StringArrayVar(&f.exactTitles, "exact-title", nil, "Match titles equal to the value (repeatable)")
	flags.StringArrayVar(&f.artists, "artist", nil, "Match artist names containing the value (repeatable)")
	flags.StringArrayVar(&f.exactArtists, "exact-artist", nil, "Match artist names equal to the value (repeatable)")
	flags.StringArrayVar(&f.albums, "album", nil, "Match album names containing the value (repeatable)")
	flags.StringArrayVar(&f.exactAlbums, "exact-album", nil, "Match album names equal to the value (repeatable)")
	flags.StringArrayVar(&f.playlists, "playlist", nil, "Match playlist names containing the value (repeatable)")
	flags.StringArrayVar(&f.exactPlaylists, "exact-playlist", nil, "Match playlist names equal to the value; \"\" selects tracks in no playlist")
	flags.StringArrayVar(&f.formats, "format", nil, "Match audio format, e.g. flac or .aiff (repeatable)")
	flags.BoolVar(&f.matchAll, "match-all", false, "Require every filter field to match instead of any")
}

// criteria builds the filter set from flags plus positional track ids.
func (f *filterFlags) criteria(args []string) (filter.Set, error) {
	var criteria []filter.Criterion

	add := func(field filter.Field, match filter.Match, values []string) error {
		for _, value := range values {
			criterion, err := filter.NewCriterion(field, match, value)
			if err != nil {
				return err
			}
			criteria = append(criteria, criterion)
		}
		return nil
	}

	for _, arg := range args {
		id, err := strconv.ParseInt(strings.TrimSpace(arg), 10, 64)
		if err != nil {
			return filter.Set{}, services.Wrap(services.ErrConfiguration, "filter", "parse",
				fmt.Sprintf("track id %q is not a number", arg), nil)
		}
		if err := add(filter.FieldID, filter.MatchExact, []string{strconv.FormatInt(id, 10)}); err != nil {
			return filter.Set{}, err
		}
	}
	for _, id := range f.trackIDs {
		if err := add(filter.FieldID, filter.MatchExact, []string{strconv.FormatInt(id, 10)}); err != nil {
			return filter.Set{}, err
		}
	}

	if err := add(filter.FieldTitle, filter.MatchContains, f.titles); err != nil {
		return filter.Set{}, err
	}
	if err := add(filter.FieldTitle, filter.MatchExact, f.exactTitles); err != nil {
		return filter.Set{}, err
	}
	if err := add(filter.FieldArtist, filter.MatchContains, f.artists); err != nil {
		return filter.Set{}, err
	}
	if err := add(filter.FieldArtist, filter.MatchExact, f.exactArtists); err != nil {
		return filter.Set{}, err
	}
	if err := add(filter.FieldAlbum, filter.MatchContains, f.albums); err != nil {
		return filter.Set{}, err
	}
	if err := add(filter.FieldAlbum, filter.MatchExact, f.exactAlbums); err != nil {
		return filter.Set{}, err
	}
	if err := add(filter.FieldPlaylist, filter.MatchContains, f.playlists); err != nil {
		return filter.Set{}, err
	}
	if err := add(filter.FieldPlaylist, filter.MatchExact, f.exactPlaylists); err != nil {
		return filter.Set{}, err
	}
	if err := add(filter.FieldFormat, filter.MatchExact, f.formats); err != nil {
		return filter.Set{}, err
	}

	combinator := filter.CombineAny
	if f.matchAll {
		combinator = filter.CombineAll
	}
	return filter.NewSet(criteria, combinator)
}
