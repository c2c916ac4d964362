package ffmpeg

import (
	"fmt"
	"os"
	"strings"
)

// EscapeConcatPath renders path as a concat demuxer "file" directive.
// Backslashes become forward slashes and embedded single quotes are closed,
// escaped and reopened.
func EscapeConcatPath(path string) string {
	path = strings.ReplaceAll(path, `\`, "/")
	path = strings.ReplaceAll(path, "'", `'\''`)
	return "file '" + path + "'"
}

// WriteConcatList writes the concat manifest for paths in playback order.
func WriteConcatList(manifest string, paths []string) error {
	var b strings.Builder
	for _, p := range paths {
		b.WriteString(EscapeConcatPath(p))
		b.WriteByte('\n')
	}
	if err := os.WriteFile(manifest, []byte(b.String()), 0o644); err != nil {
		return fmt.Errorf("write concat list: %w", err)
	}
	return nil
}
