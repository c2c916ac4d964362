// Package fileutil moves rendered artifacts into place and guards outputs
// against concurrent runs.
package fileutil

import (
	"crypto/sha256"
	"errors"
	"fmt"
	"io"
	"os"

	"golang.org/x/sys/unix"
)

var rename = os.Rename

// MoveFile renames src to dst. When they sit on different filesystems it
// copies with a checksum comparison and then removes src.
func MoveFile(src, dst string) error {
	err := rename(src, dst)
	if err == nil || !errors.Is(err, unix.EXDEV) {
		return err
	}
	if err := copyChecked(src, dst); err != nil {
		_ = os.Remove(dst)
		return fmt.Errorf("move %s: %w", src, err)
	}
	return os.Remove(src)
}

// copyChecked copies src to dst and re-reads dst to compare SHA-256 sums.
func copyChecked(src, dst string) error {
	in, err := os.Open(src)
	if err != nil {
		return err
	}
	defer in.Close()

	out, err := os.OpenFile(dst, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, 0o644)
	if err != nil {
		return err
	}
	want := sha256.New()
	if _, err := io.Copy(io.MultiWriter(out, want), in); err != nil {
		_ = out.Close()
		return err
	}
	if err := out.Sync(); err != nil {
		_ = out.Close()
		return err
	}
	if err := out.Close(); err != nil {
		return err
	}

	written, err := os.Open(dst)
	if err != nil {
		return err
	}
	defer written.Close()
	got := sha256.New()
	if _, err := io.Copy(got, written); err != nil {
		return err
	}
	if string(got.Sum(nil)) != string(want.Sum(nil)) {
		return errors.New("checksum mismatch after copy")
	}
	return nil
}
