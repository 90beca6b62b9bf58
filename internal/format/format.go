// Package format holds the static audio format policy: which formats are
// lossless, which conversion pairs are allowed, and how format tags map to
// file extensions and to the library database's integer file type codes.
package format

import (
	"fmt"
	"strings"

	"recrate/internal/services"
)

// Format identifies an audio encoding.
type Format string

const (
	FLAC Format = "flac"
	AIFF Format = "aiff"
	WAV  Format = "wav"
	ALAC Format = "alac"
	MP3  Format = "mp3"
)

// MP3BitrateKbps is the fixed constant bitrate applied to every MP3 encode.
const MP3BitrateKbps = 320

// All lists every format the policy knows about.
var All = []Format{FLAC, AIFF, WAV, ALAC, MP3}

var extensions = map[Format]string{
	FLAC: ".flac",
	AIFF: ".aiff",
	WAV:  ".wav",
	ALAC: ".m4a",
	MP3:  ".mp3",
}

// fileTypeCodes mirrors the library database convention. MP3 rows may carry
// either 0 or 1; writes always use the canonical code.
var fileTypeCodes = map[Format]int{
	MP3:  1,
	ALAC: 4,
	FLAC: 5,
	WAV:  11,
	AIFF: 12,
}

var sources = map[Format]struct{}{
	FLAC: {},
	AIFF: {},
	WAV:  {},
}

var outputs = []Format{AIFF, FLAC, WAV, ALAC, MP3}

// Parse resolves a user-supplied tag or extension ("mp3", ".MP3", "mp3")
// to a Format. Unknown values return a configuration error.
func Parse(value string) (Format, error) {
	cleaned := strings.ToLower(strings.TrimSpace(value))
	cleaned = strings.TrimPrefix(cleaned, ".")
	if cleaned == "m4a" {
		return ALAC, nil
	}
	f := Format(cleaned)
	if _, ok := extensions[f]; !ok {
		return "", services.Wrap(services.ErrUnknownFormat, "format", "parse", fmt.Sprintf("unsupported format %q", value), nil)
	}
	return f, nil
}

// IsLossless reports whether the format preserves audio content bit-exactly.
func IsLossless(f Format) bool {
	return f != MP3
}

// IsValidSource reports whether tracks of this format may be converted.
func IsValidSource(f Format) bool {
	_, ok := sources[f]
	return ok
}

// ValidOutputs returns the target formats permitted for the given source.
// Lossy sources have no permitted outputs.
func ValidOutputs(src Format) []Format {
	if !IsValidSource(src) {
		return nil
	}
	out := make([]Format, len(outputs))
	copy(out, outputs)
	return out
}

// CanConvert reports whether a src→dst conversion is allowed by policy.
func CanConvert(src, dst Format) bool {
	if !IsValidSource(src) {
		return false
	}
	for _, f := range outputs {
		if f == dst {
			return true
		}
	}
	return false
}

// Extension returns the canonical file extension, dot included.
func Extension(f Format) string {
	return extensions[f]
}

// FileTypeCode returns the library database code written for this format.
func FileTypeCode(f Format) int {
	return fileTypeCodes[f]
}

// FromFileTypeCode maps a library database file type code back to a Format.
func FromFileTypeCode(code int) (Format, bool) {
	switch code {
	case 0, 1:
		return MP3, true
	case 4:
		return ALAC, true
	case 5:
		return FLAC, true
	case 11:
		return WAV, true
	case 12:
		return AIFF, true
	default:
		return "", false
	}
}
