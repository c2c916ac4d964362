package manifest

import (
	"bytes"
	"cmp"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"slices"
	"strings"

	"github.com/goccy/go-yaml"

	"dubsync/internal/services"
)

// AudioSegment is one replacement clip placed on the original timeline.
// Duration is the original slot length, not the clip's measured length.
type AudioSegment struct {
	Start    float64 `json:"start" yaml:"start"`
	End      float64 `json:"end,omitempty" yaml:"end,omitempty"`
	Duration float64 `json:"duration" yaml:"duration"`
	Path     string  `json:"path" yaml:"path"`
}

// SlotEnd returns the end of the original slot.
func (s AudioSegment) SlotEnd() float64 {
	return s.Start + s.Duration
}

type entry struct {
	Start    *float64 `json:"start" yaml:"start"`
	End      *float64 `json:"end" yaml:"end"`
	Duration *float64 `json:"duration" yaml:"duration"`
	Path     string   `json:"path" yaml:"path"`
}

type document struct {
	Segments []entry `json:"segments" yaml:"segments"`
}

// Load reads a JSON or YAML manifest. Relative clip paths resolve against the
// manifest's directory.
func Load(path string) ([]AudioSegment, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, services.Wrap(services.ErrNotFound, "manifest", "read", path, err)
	}
	var segments []AudioSegment
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		segments, err = DecodeYAML(data)
	default:
		segments, err = DecodeJSON(data)
	}
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	base := filepath.Dir(path)
	for i := range segments {
		if !filepath.IsAbs(segments[i].Path) {
			segments[i].Path = filepath.Join(base, segments[i].Path)
		}
	}
	return segments, nil
}

// Save writes segments to path as a {"segments": [...]} document, YAML when
// the extension says so and indented JSON otherwise. Relative clip paths are
// taken from the working directory and rewritten relative to the manifest's
// directory so Load finds them again.
func Save(path string, segments []AudioSegment) error {
	doc := struct {
		Segments []AudioSegment `json:"segments" yaml:"segments"`
	}{Segments: make([]AudioSegment, 0, len(segments))}
	for _, seg := range segments {
		if !filepath.IsAbs(seg.Path) {
			rel, err := relativeTo(filepath.Dir(path), seg.Path)
			if err != nil {
				return fmt.Errorf("resolve clip path %s: %w", seg.Path, err)
			}
			seg.Path = rel
		}
		doc.Segments = append(doc.Segments, seg)
	}

	var (
		data []byte
		err  error
	)
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		data, err = yaml.Marshal(doc)
	default:
		data, err = json.MarshalIndent(doc, "", "  ")
		data = append(data, '\n')
	}
	if err != nil {
		return fmt.Errorf("encode manifest: %w", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("write manifest: %w", err)
	}
	return nil
}

func relativeTo(dir, path string) (string, error) {
	absDir, err := filepath.Abs(dir)
	if err != nil {
		return "", err
	}
	absPath, err := filepath.Abs(path)
	if err != nil {
		return "", err
	}
	return filepath.Rel(absDir, absPath)
}

// DecodeJSON parses a bare array or a {"segments": [...]} object.
func DecodeJSON(data []byte) ([]AudioSegment, error) {
	trimmed := bytes.TrimSpace(data)
	var entries []entry
	if len(trimmed) > 0 && trimmed[0] == '[' {
		if err := json.Unmarshal(trimmed, &entries); err != nil {
			return nil, services.Wrap(services.ErrValidation, "manifest", "parse json", "", err)
		}
	} else {
		var doc document
		if err := json.Unmarshal(trimmed, &doc); err != nil {
			return nil, services.Wrap(services.ErrValidation, "manifest", "parse json", "", err)
		}
		entries = doc.Segments
	}
	return fromEntries(entries)
}

// DecodeYAML parses a sequence or a mapping with a segments key.
func DecodeYAML(data []byte) ([]AudioSegment, error) {
	var entries []entry
	if err := yaml.Unmarshal(data, &entries); err != nil {
		var doc document
		if docErr := yaml.Unmarshal(data, &doc); docErr != nil {
			return nil, services.Wrap(services.ErrValidation, "manifest", "parse yaml", "", docErr)
		}
		entries = doc.Segments
	}
	return fromEntries(entries)
}

func fromEntries(entries []entry) ([]AudioSegment, error) {
	segments := make([]AudioSegment, 0, len(entries))
	for i, e := range entries {
		seg, err := e.resolve()
		if err != nil {
			return nil, services.Wrap(services.ErrValidation, "manifest", fmt.Sprintf("segment %d", i), "", err)
		}
		segments = append(segments, seg)
	}
	return segments, nil
}

func (e entry) resolve() (AudioSegment, error) {
	if strings.TrimSpace(e.Path) == "" {
		return AudioSegment{}, fmt.Errorf("path is required")
	}
	if e.Start == nil {
		return AudioSegment{}, fmt.Errorf("start is required")
	}
	seg := AudioSegment{Start: *e.Start, Path: strings.TrimSpace(e.Path)}
	if seg.Start < 0 {
		return AudioSegment{}, fmt.Errorf("start must be >= 0")
	}
	switch {
	case e.Duration != nil:
		seg.Duration = *e.Duration
		seg.End = seg.Start + seg.Duration
	case e.End != nil:
		seg.End = *e.End
		seg.Duration = seg.End - seg.Start
	default:
		return AudioSegment{}, fmt.Errorf("duration or end is required")
	}
	if seg.Duration < 0 {
		return AudioSegment{}, fmt.Errorf("duration must be >= 0")
	}
	return seg, nil
}

// Sorted returns a copy of segments ordered by start time. Equal starts keep
// their input order.
func Sorted(segments []AudioSegment) []AudioSegment {
	out := slices.Clone(segments)
	slices.SortStableFunc(out, func(a, b AudioSegment) int {
		return cmp.Compare(a.Start, b.Start)
	})
	return out
}
