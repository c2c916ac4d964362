package rife

import (
	"errors"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"dubsync/internal/services"
)

// Executable names and the bundled model directory.
const (
	BinaryName   = "rife-ncnn-vulkan"
	DefaultModel = "rife-v4.6"
)

// Executable is a located interpolator binary and its optional model dir.
type Executable struct {
	Path  string
	Model string
}

var errFound = errors.New("found")

// Locate resolves the interpolator. An explicit path must exist; otherwise
// searchDirs are walked depth-first for the binary. Model is set when a
// directory named model sits beside the binary.
func Locate(explicit, model string, searchDirs []string) (Executable, error) {
	if model == "" {
		model = DefaultModel
	}
	if explicit = strings.TrimSpace(explicit); explicit != "" {
		info, err := os.Stat(explicit)
		if err != nil || info.IsDir() {
			return Executable{}, services.Wrap(services.ErrInterpolation, "rife", "locate",
				"configured interpolator not found: "+explicit, err)
		}
		return Executable{Path: explicit, Model: modelBeside(explicit, model)}, nil
	}

	for _, dir := range searchDirs {
		if strings.TrimSpace(dir) == "" {
			continue
		}
		var found string
		err := filepath.WalkDir(dir, func(path string, d fs.DirEntry, err error) error {
			if err != nil {
				if path == dir {
					return err
				}
				return nil
			}
			if !d.IsDir() && isBinaryName(d.Name()) {
				found = path
				return errFound
			}
			return nil
		})
		if found != "" {
			return Executable{Path: found, Model: modelBeside(found, model)}, nil
		}
		if err != nil && !errors.Is(err, fs.ErrNotExist) {
			return Executable{}, services.Wrap(services.ErrInterpolation, "rife", "locate", "search "+dir, err)
		}
	}
	return Executable{}, services.Wrap(services.ErrInterpolation, "rife", "locate",
		BinaryName+" not found; set tools.rife_binary or DUBSYNC_RIFE_PATH", nil)
}

func isBinaryName(name string) bool {
	name = strings.ToLower(name)
	return name == BinaryName || name == BinaryName+".exe"
}

func modelBeside(binary, model string) string {
	candidate := filepath.Join(filepath.Dir(binary), model)
	if info, err := os.Stat(candidate); err == nil && info.IsDir() {
		return candidate
	}
	return ""
}
