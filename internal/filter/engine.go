package filter

import (
	"context"
	"strings"

	"golang.org/x/text/cases"

	"recrate/internal/format"
	"recrate/internal/library"
)

// Source enumerates tracks in the repository's natural order.
type Source interface {
	ListTracks(ctx context.Context) ([]library.Track, error)
}

var fold = cases.Fold()

// Resolve evaluates the filter set against the source's track enumeration,
// preserving enumeration order. An empty criteria list matches every track;
// zero matches is a valid empty result. Explicit id criteria short-circuit
// all other fields and are evaluated as plain set membership.
func Resolve(ctx context.Context, src Source, set Set) ([]library.Track, error) {
	tracks, err := src.ListTracks(ctx)
	if err != nil {
		return nil, err
	}

	if ids := set.IDs(); len(ids) > 0 {
		idSet := make(map[int64]struct{}, len(ids))
		for _, id := range ids {
			idSet[id] = struct{}{}
		}
		var result []library.Track
		for _, t := range tracks {
			if _, ok := idSet[t.ID]; ok {
				result = append(result, t)
			}
		}
		return result, nil
	}

	predicates := fieldPredicates(set.Criteria)
	if len(predicates) == 0 {
		return tracks, nil
	}

	var result []library.Track
	for _, t := range tracks {
		if matches(t, predicates, set.Combinator) {
			result = append(result, t)
		}
	}
	return result, nil
}

type predicate func(library.Track) bool

// fieldPredicates groups criteria by field and ORs same-field criteria into
// one acceptance predicate per field.
func fieldPredicates(criteria []Criterion) []predicate {
	grouped := make(map[Field][]Criterion)
	var order []Field
	for _, c := range criteria {
		if c.Field == FieldID {
			continue
		}
		if _, seen := grouped[c.Field]; !seen {
			order = append(order, c.Field)
		}
		grouped[c.Field] = append(grouped[c.Field], c)
	}

	predicates := make([]predicate, 0, len(order))
	for _, field := range order {
		group := grouped[field]
		predicates = append(predicates, func(t library.Track) bool {
			for _, c := range group {
				if matchCriterion(t, c) {
					return true
				}
			}
			return false
		})
	}
	return predicates
}

func matches(t library.Track, predicates []predicate, combinator Combinator) bool {
	if combinator == CombineAll {
		for _, p := range predicates {
			if !p(t) {
				return false
			}
		}
		return true
	}
	for _, p := range predicates {
		if p(t) {
			return true
		}
	}
	return false
}

func matchCriterion(t library.Track, c Criterion) bool {
	switch c.Field {
	case FieldTitle:
		return matchText(t.Title, c)
	case FieldArtist:
		return matchText(t.Artist, c)
	case FieldAlbum:
		return matchText(t.Album, c)
	case FieldPlaylist:
		return matchPlaylist(t, c)
	case FieldFormat:
		return matchFormat(t, c)
	default:
		return false
	}
}

func matchText(value string, c Criterion) bool {
	folded := fold.String(value)
	target := fold.String(c.Value)
	if c.Match == MatchExact {
		return folded == target
	}
	return strings.Contains(folded, target)
}

// matchPlaylist is a membership test against resolved playlist names. The
// exact empty string asserts that the track belongs to no playlist at all.
func matchPlaylist(t library.Track, c Criterion) bool {
	if c.Value == "" && c.Match == MatchExact {
		return len(t.Playlists) == 0
	}
	for _, name := range t.Playlists {
		if matchText(name, c) {
			return true
		}
	}
	return false
}

func matchFormat(t library.Track, c Criterion) bool {
	want, err := format.Parse(c.Value)
	if err != nil {
		return false
	}
	have, ok := t.Format()
	return ok && have == want
}
