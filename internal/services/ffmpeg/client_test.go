package ffmpeg

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/exec"
	"strings"
	"testing"

	"recrate/internal/format"
	"recrate/internal/services"
)

func TestNewCLIWithBinary(t *testing.T) {
	cli := NewCLI(WithBinary("/opt/ffmpeg"))
	if cli.binary != "/opt/ffmpeg" {
		t.Fatalf("expected binary override to be applied, got %q", cli.binary)
	}
}

func TestTranscodeRequiresPaths(t *testing.T) {
	cli := NewCLI()
	if err := cli.Transcode(context.Background(), Request{Output: "/tmp/out.aiff", Target: format.AIFF}); err == nil {
		t.Fatal("expected error when input path is empty")
	}
	if err := cli.Transcode(context.Background(), Request{Input: "/tmp/in.flac", Target: format.AIFF}); err == nil {
		t.Fatal("expected error when output path is empty")
	}
}

func stubCommand(t *testing.T, mode string, captured *[]string) {
	t.Helper()
	original := commandContext
	commandContext = func(ctx context.Context, name string, args ...string) *exec.Cmd {
		if captured != nil {
			*captured = append([]string(nil), args...)
		}
		cmd := exec.CommandContext(ctx, os.Args[0], "-test.run=TestHelperProcess")
		cmd.Env = append(os.Environ(), "GO_WANT_HELPER_PROCESS=1", "FFMPEG_HELPER_MODE="+mode)
		return cmd
	}
	t.Cleanup(func() {
		commandContext = original
	})
}

func TestTranscodeCodecSelection(t *testing.T) {
	cases := []struct {
		name     string
		target   format.Format
		bitDepth int
		expect   []string
	}{
		{"aiff 16", format.AIFF, 16, []string{"-acodec", "pcm_s16be"}},
		{"aiff 24", format.AIFF, 24, []string{"-acodec", "pcm_s24be"}},
		{"aiff unknown depth", format.AIFF, 0, []string{"-acodec", "pcm_s16be"}},
		{"wav 32", format.WAV, 32, []string{"-acodec", "pcm_s32le"}},
		{"flac", format.FLAC, 24, []string{"-acodec", "flac"}},
		{"alac", format.ALAC, 16, []string{"-acodec", "alac"}},
		{"mp3 fixed cbr", format.MP3, 16, []string{"-acodec", "libmp3lame", "-b:a", "320k"}},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			var captured []string
			stubCommand(t, "success", &captured)

			cli := NewCLI()
			err := cli.Transcode(context.Background(), Request{
				Input:    "/music/in.flac",
				Output:   "/music/.out.tmp",
				Target:   tc.target,
				BitDepth: tc.bitDepth,
			})
			if err != nil {
				t.Fatalf("Transcode returned error: %v", err)
			}
			joined := strings.Join(captured, " ")
			if !strings.Contains(joined, strings.Join(tc.expect, " ")) {
				t.Fatalf("expected args to contain %v, got %v", tc.expect, captured)
			}
			if captured[len(captured)-1] != "/music/.out.tmp" {
				t.Fatalf("expected output path last, got %v", captured)
			}
		})
	}
}

func TestTranscodeFailureCapturesDiagnostic(t *testing.T) {
	stubCommand(t, "fail", nil)

	cli := NewCLI()
	err := cli.Transcode(context.Background(), Request{
		Input:  "/music/in.flac",
		Output: "/music/.out.tmp",
		Target: format.AIFF,
	})
	if err == nil {
		t.Fatal("expected error from failing transcoder")
	}
	if !errors.Is(err, services.ErrExternalTool) {
		t.Fatalf("expected external tool marker, got %v", err)
	}
	if !strings.Contains(err.Error(), "simulated encoder failure") {
		t.Fatalf("expected captured stderr in error, got %v", err)
	}
}

func TestTranscodeRejectsUnknownTarget(t *testing.T) {
	cli := NewCLI()
	err := cli.Transcode(context.Background(), Request{
		Input:  "/music/in.flac",
		Output: "/music/.out.tmp",
		Target: format.Format("ogg"),
	})
	if !errors.Is(err, services.ErrUnknownFormat) {
		t.Fatalf("expected unknown format error, got %v", err)
	}
}

func TestHelperProcess(t *testing.T) {
	if os.Getenv("GO_WANT_HELPER_PROCESS") != "1" {
		return
	}
	switch os.Getenv("FFMPEG_HELPER_MODE") {
	case "fail":
		fmt.Fprintln(os.Stderr, "simulated encoder failure")
		os.Exit(1)
	default:
		os.Exit(0)
	}
}
