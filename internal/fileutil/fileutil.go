package fileutil

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/google/uuid"
	"github.com/natefinch/atomic"
)

// TempSibling returns a unique scratch path in the same directory as target,
// so the final rename never crosses a filesystem boundary.
func TempSibling(target string) string {
	dir := filepath.Dir(target)
	base := strings.TrimSuffix(filepath.Base(target), filepath.Ext(target))
	return filepath.Join(dir, fmt.Sprintf(".%s.%s.tmp", base, uuid.NewString()))
}

// MoveIntoPlace renames src onto dst, replacing dst if it exists. The move is
// atomic with respect to readers of dst.
func MoveIntoPlace(src, dst string) error {
	return atomic.ReplaceFile(src, dst)
}

// FileExists reports whether path exists and is a regular file.
func FileExists(path string) bool {
	info, err := os.Stat(path)
	return err == nil && info.Mode().IsRegular()
}
