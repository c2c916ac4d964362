package testsupport

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"dubsync/internal/manifest"
)

// WriteFile creates a placeholder media file of size bytes. A size <= 0
// writes a single byte.
func WriteFile(t testing.TB, path string, size int64) string {
	t.Helper()

	if size <= 0 {
		size = 1
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatalf("mkdir for %s: %v", path, err)
	}
	if err := os.WriteFile(path, bytes.Repeat([]byte{0x42}, int(size)), 0o644); err != nil {
		t.Fatalf("write %s: %v", path, err)
	}
	return path
}

// WriteManifest saves segments at path in the format its extension selects
// and returns path.
func WriteManifest(t testing.TB, path string, segments []manifest.AudioSegment) string {
	t.Helper()

	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatalf("mkdir for %s: %v", path, err)
	}
	if err := manifest.Save(path, segments); err != nil {
		t.Fatalf("save manifest %s: %v", path, err)
	}
	return path
}
