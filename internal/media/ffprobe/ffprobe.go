// Package ffprobe shells out to ffprobe and interprets its JSON output for
// audio files.
package ffprobe

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os/exec"
	"strconv"
	"strings"
)

var commandContext = exec.CommandContext

// Result represents the parsed output from an ffprobe inspection.
type Result struct {
	Streams []Stream `json:"streams"`
	Format  Format   `json:"format"`
}

// Stream describes a single stream in the media container.
type Stream struct {
	Index            int    `json:"index"`
	CodecName        string `json:"codec_name"`
	CodecType        string `json:"codec_type"`
	SampleFmt        string `json:"sample_fmt"`
	SampleRate       string `json:"sample_rate"`
	Channels         int    `json:"channels"`
	BitsPerSample    int    `json:"bits_per_sample"`
	BitsPerRawSample string `json:"bits_per_raw_sample"`
	BitRate          string `json:"bit_rate"`
}

// Format captures container-level metadata extracted by ffprobe.
type Format struct {
	Filename   string `json:"filename"`
	Duration   string `json:"duration"`
	Size       string `json:"size"`
	BitRate    string `json:"bit_rate"`
	FormatName string `json:"format_name"`
}

// Inspect executes ffprobe against the provided path and decodes the JSON
// response.
func Inspect(ctx context.Context, binary string, path string) (Result, error) {
	binary = strings.TrimSpace(binary)
	if binary == "" {
		binary = "ffprobe"
	}
	path = strings.TrimSpace(path)
	if path == "" {
		return Result{}, errors.New("ffprobe inspect: empty path")
	}

	cmd := commandContext(ctx, binary, "-v", "error", "-hide_banner", "-show_format", "-show_streams", "-of", "json", "--", path)
	output, err := cmd.CombinedOutput()
	if err != nil {
		return Result{}, fmt.Errorf("ffprobe inspect: %w: %s", err, strings.TrimSpace(string(output)))
	}

	var result Result
	if err := json.Unmarshal(output, &result); err != nil {
		return Result{}, fmt.Errorf("ffprobe parse: %w", err)
	}
	return result, nil
}

// AudioStream returns the first audio stream, if any.
func (r Result) AudioStream() (Stream, bool) {
	for _, stream := range r.Streams {
		if strings.EqualFold(stream.CodecType, "audio") {
			return stream, true
		}
	}
	return Stream{}, false
}

// BitDepth resolves the audio bit depth, trying bits_per_sample, then
// bits_per_raw_sample, then the sample format name. Defaults to 16.
func (r Result) BitDepth() int {
	stream, ok := r.AudioStream()
	if !ok {
		return 16
	}
	if stream.BitsPerSample > 0 {
		return stream.BitsPerSample
	}
	if raw := parseInt(stream.BitsPerRawSample); raw > 0 {
		return raw
	}
	switch {
	case strings.Contains(stream.SampleFmt, "32"):
		return 32
	case strings.Contains(stream.SampleFmt, "24"):
		return 24
	default:
		return 16
	}
}

// SampleRate returns the audio sample rate in Hz, defaulting to 44100.
func (r Result) SampleRate() int {
	if stream, ok := r.AudioStream(); ok {
		if rate := parseInt(stream.SampleRate); rate > 0 {
			return rate
		}
	}
	return 44100
}

// Channels returns the audio channel count, defaulting to 2.
func (r Result) Channels() int {
	if stream, ok := r.AudioStream(); ok && stream.Channels > 0 {
		return stream.Channels
	}
	return 2
}

// BitRateKbps returns the audio bitrate in kbps. When neither the stream nor
// the container reports one, it is computed from sample rate, bit depth, and
// channel count (the PCM rate).
func (r Result) BitRateKbps() int {
	if stream, ok := r.AudioStream(); ok {
		if rate := parseInt(stream.BitRate); rate > 0 {
			return rate / 1000
		}
	}
	if rate := parseInt(r.Format.BitRate); rate > 0 {
		return rate / 1000
	}
	return r.SampleRate() * r.BitDepth() * r.Channels() / 1000
}

// SizeBytes returns the reported container size in bytes, or 0.
func (r Result) SizeBytes() int64 {
	size, err := strconv.ParseInt(strings.TrimSpace(r.Format.Size), 10, 64)
	if err != nil || size < 0 {
		return 0
	}
	return size
}

func parseInt(value string) int {
	cleaned := strings.TrimSpace(value)
	if cleaned == "" {
		return 0
	}
	parsed, err := strconv.Atoi(cleaned)
	if err != nil {
		return 0
	}
	return parsed
}
