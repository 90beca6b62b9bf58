// Package filter turns user-supplied criteria into a predicate over the
// library's track enumeration and evaluates it.
package filter

import (
	"fmt"
	"strconv"
	"strings"

	"recrate/internal/format"
	"recrate/internal/services"
)

// Field enumerates the track attributes a criterion may target. Unknown
// field names are rejected when the criterion is built, not at evaluation.
type Field string

const (
	FieldID       Field = "id"
	FieldTitle    Field = "title"
	FieldArtist   Field = "artist"
	FieldAlbum    Field = "album"
	FieldPlaylist Field = "playlist"
	FieldFormat   Field = "format"
)

var knownFields = map[Field]struct{}{
	FieldID:       {},
	FieldTitle:    {},
	FieldArtist:   {},
	FieldAlbum:    {},
	FieldPlaylist: {},
	FieldFormat:   {},
}

// ParseField resolves a user-supplied field name.
func ParseField(name string) (Field, error) {
	f := Field(strings.ToLower(strings.TrimSpace(name)))
	if _, ok := knownFields[f]; !ok {
		return "", services.Wrap(services.ErrConfiguration, "filter", "parse field", fmt.Sprintf("unknown field %q", name), nil)
	}
	return f, nil
}

// Match selects the comparison a criterion applies.
type Match string

const (
	// MatchContains is a case-insensitive substring comparison.
	MatchContains Match = "contains"
	// MatchExact is a case-insensitive whole-value comparison.
	MatchExact Match = "exact"
)

// Combinator joins per-field predicates across fields.
type Combinator string

const (
	CombineAny Combinator = "any"
	CombineAll Combinator = "all"
)

// Criterion is one (field, match, value) filter triple.
type Criterion struct {
	Field Field
	Match Match
	Value string
}

// NewCriterion validates and builds a criterion. Format values must parse
// through the format policy; id values must be integers.
func NewCriterion(field Field, match Match, value string) (Criterion, error) {
	if _, ok := knownFields[field]; !ok {
		return Criterion{}, services.Wrap(services.ErrConfiguration, "filter", "criterion", fmt.Sprintf("unknown field %q", field), nil)
	}
	switch field {
	case FieldID:
		if _, err := strconv.ParseInt(strings.TrimSpace(value), 10, 64); err != nil {
			return Criterion{}, services.Wrap(services.ErrConfiguration, "filter", "criterion", fmt.Sprintf("invalid track id %q", value), nil)
		}
	case FieldFormat:
		if _, err := format.Parse(value); err != nil {
			return Criterion{}, services.Wrap(services.ErrConfiguration, "filter", "criterion", fmt.Sprintf("invalid format %q", value), err)
		}
	}
	return Criterion{Field: field, Match: match, Value: value}, nil
}

// Set is the full filter configuration for one invocation.
type Set struct {
	Criteria   []Criterion
	Combinator Combinator
}

// NewSet builds a Set, defaulting the combinator to CombineAny.
func NewSet(criteria []Criterion, combinator Combinator) (Set, error) {
	switch combinator {
	case "":
		combinator = CombineAny
	case CombineAny, CombineAll:
	default:
		return Set{}, services.Wrap(services.ErrConfiguration, "filter", "set", fmt.Sprintf("unknown combinator %q", combinator), nil)
	}
	return Set{Criteria: criteria, Combinator: combinator}, nil
}

// IDs returns the explicit track id values, if any id criteria are present.
func (s Set) IDs() []int64 {
	var ids []int64
	for _, c := range s.Criteria {
		if c.Field != FieldID {
			continue
		}
		id, err := strconv.ParseInt(strings.TrimSpace(c.Value), 10, 64)
		if err != nil {
			continue
		}
		ids = append(ids, id)
	}
	return ids
}
