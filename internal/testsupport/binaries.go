package testsupport

import (
	"os"
	"path/filepath"
	"testing"

	"recrate/internal/config"
)

// ffmpegStub copies the -i input to the final argument, which is enough to
// satisfy the output verification after a transcode.
const ffmpegStub = `#!/bin/sh
in=""
prev=""
out=""
for a in "$@"; do
  if [ "$prev" = "-i" ]; then in="$a"; fi
  prev="$a"
  out="$a"
done
cp "$in" "$out"
`

// ffprobeStub reports a fixed 16-bit stereo stream for any input.
const ffprobeStub = `#!/bin/sh
cat <<'EOF'
{"streams":[{"codec_type":"audio","bits_per_sample":16,"sample_rate":"44100","channels":2,"bit_rate":"1411000"}],"format":{}}
EOF
`

// StubBinaries installs working shell stand-ins for ffmpeg and ffprobe and
// points the config's tool overrides at them.
func StubBinaries(t testing.TB, cfg *config.Config) {
	t.Helper()

	dir := t.TempDir()
	write := func(name, script string) string {
		path := filepath.Join(dir, name)
		if err := os.WriteFile(path, []byte(script), 0o755); err != nil {
			t.Fatalf("write %s stub: %v", name, err)
		}
		return path
	}
	cfg.Tools.FFmpeg = write("ffmpeg", ffmpegStub)
	cfg.Tools.FFprobe = write("ffprobe", ffprobeStub)
}
