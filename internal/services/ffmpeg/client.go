// Package ffmpeg wraps the ffmpeg command-line transcoder.
package ffmpeg

import (
	"context"
	"errors"
	"fmt"
	"os/exec"
	"strings"

	"recrate/internal/format"
	"recrate/internal/services"
)

var commandContext = exec.CommandContext

// Request describes one transcode invocation.
type Request struct {
	Input  string
	Output string
	Target format.Format
	// BitDepth of the source audio, used to pick a matching PCM codec for
	// uncompressed targets. Zero means 16.
	BitDepth int
}

// Client defines transcoding behaviour.
type Client interface {
	Transcode(ctx context.Context, req Request) error
}

// Option configures the CLI client.
type Option func(*CLI)

// WithBinary overrides the default binary name.
func WithBinary(binary string) Option {
	return func(c *CLI) {
		if binary != "" {
			c.binary = binary
		}
	}
}

// CLI wraps the ffmpeg command-line encoder.
type CLI struct {
	binary string
}

// NewCLI constructs a CLI client using defaults.
func NewCLI(opts ...Option) *CLI {
	cli := &CLI{binary: "ffmpeg"}
	for _, opt := range opts {
		opt(cli)
	}
	return cli
}

// Transcode runs ffmpeg synchronously. The output path is expected to be a
// scratch location owned by the caller, so overwriting it is safe.
func (c *CLI) Transcode(ctx context.Context, req Request) error {
	if req.Input == "" {
		return errors.New("input path required")
	}
	if req.Output == "" {
		return errors.New("output path required")
	}

	codec, err := codecArgs(req.Target, req.BitDepth)
	if err != nil {
		return err
	}

	args := []string{"-hide_banner", "-loglevel", "error", "-y", "-i", req.Input}
	args = append(args, codec...)
	args = append(args, req.Output)

	cmd := commandContext(ctx, c.binary, args...) //nolint:gosec
	output, err := cmd.CombinedOutput()
	if err != nil {
		diagnostic := strings.TrimSpace(string(output))
		if diagnostic == "" {
			diagnostic = err.Error()
		}
		return services.Wrap(services.ErrExternalTool, "ffmpeg", "transcode",
			fmt.Sprintf("%s -> %s: %s", req.Input, req.Output, diagnostic), err)
	}
	return nil
}

// codecArgs maps the target format (and source bit depth for PCM targets) to
// ffmpeg codec flags. MP3 output is always 320 kbps constant bitrate.
func codecArgs(target format.Format, bitDepth int) ([]string, error) {
	switch target {
	case format.AIFF:
		// AIFF carries big-endian PCM.
		return []string{"-acodec", pcmCodec(bitDepth, "be")}, nil
	case format.WAV:
		return []string{"-acodec", pcmCodec(bitDepth, "le")}, nil
	case format.FLAC:
		return []string{"-acodec", "flac"}, nil
	case format.ALAC:
		return []string{"-acodec", "alac"}, nil
	case format.MP3:
		return []string{"-acodec", "libmp3lame", "-b:a", fmt.Sprintf("%dk", format.MP3BitrateKbps)}, nil
	default:
		return nil, services.Wrap(services.ErrUnknownFormat, "ffmpeg", "codec", fmt.Sprintf("no codec for %q", target), nil)
	}
}

func pcmCodec(bitDepth int, endian string) string {
	switch bitDepth {
	case 24, 32:
		return fmt.Sprintf("pcm_s%d%s", bitDepth, endian)
	default:
		return "pcm_s16" + endian
	}
}

var _ Client = (*CLI)(nil)
