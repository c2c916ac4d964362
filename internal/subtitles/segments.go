package subtitles

import (
	"bytes"
	"encoding/json"
	"fmt"
	"os"
)

type segmentsPayload struct {
	Segments []Segment `json:"segments"`
}

// LoadSegments reads recogniser output from path. Both a {"segments": [...]}
// document and a bare array are accepted.
func LoadSegments(path string) ([]Segment, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read segments: %w", err)
	}
	return DecodeSegments(data)
}

// DecodeSegments parses recogniser JSON.
func DecodeSegments(data []byte) ([]Segment, error) {
	trimmed := bytes.TrimSpace(data)
	if len(trimmed) == 0 {
		return nil, nil
	}
	if trimmed[0] == '[' {
		var segments []Segment
		if err := json.Unmarshal(trimmed, &segments); err != nil {
			return nil, fmt.Errorf("parse segments: %w", err)
		}
		return segments, nil
	}
	var payload segmentsPayload
	if err := json.Unmarshal(trimmed, &payload); err != nil {
		return nil, fmt.Errorf("parse segments: %w", err)
	}
	return payload.Segments, nil
}
