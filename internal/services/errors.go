package services

import (
	"errors"
	"fmt"
	"strings"
)

var (
	ErrExternalTool  = errors.New("external tool error")
	ErrValidation    = errors.New("validation error")
	ErrConfiguration = errors.New("configuration error")
	ErrNotFound      = errors.New("not found")

	ErrProbe         = errors.New("probe error")
	ErrAlignment     = errors.New("alignment error")
	ErrInterpolation = errors.New("interpolation error")
	ErrConcat        = errors.New("concat error")
	ErrMerge         = errors.New("merge error")
)

// Wrap builds an error message that includes stage context while tagging it with
// the provided marker for later classification. The marker should be one of the
// exported sentinel errors above.
func Wrap(marker error, stage, operation, message string, err error) error {
	detail := buildDetail(stage, operation, message)
	if marker == nil {
		marker = ErrExternalTool
	}
	if err != nil {
		return fmt.Errorf("%w: %s: %w", marker, detail, err)
	}
	return fmt.Errorf("%w: %s", marker, detail)
}

var kindNames = []struct {
	marker error
	name   string
}{
	{ErrProbe, "ProbeError"},
	{ErrAlignment, "AlignmentError"},
	{ErrInterpolation, "InterpolationError"},
	{ErrConcat, "ConcatError"},
	{ErrMerge, "MergeError"},
	{ErrValidation, "ValidationError"},
	{ErrConfiguration, "ValidationError"},
	{ErrNotFound, "NotFoundError"},
	{ErrExternalTool, "ExternalToolError"},
}

// Kind reports the error kind name used in run results and the history ledger.
// The outermost marker wins, so an alignment failure caused by a probe failure
// reports AlignmentError.
func Kind(err error) string {
	if err == nil {
		return ""
	}
	if name, ok := kindOf(err); ok {
		return name
	}
	return "ExternalToolError"
}

func kindOf(err error) (string, bool) {
	if err == nil {
		return "", false
	}
	for _, k := range kindNames {
		if err == k.marker {
			return k.name, true
		}
	}
	switch u := err.(type) {
	case interface{ Unwrap() []error }:
		for _, child := range u.Unwrap() {
			if name, ok := kindOf(child); ok {
				return name, true
			}
		}
	case interface{ Unwrap() error }:
		return kindOf(u.Unwrap())
	}
	return "", false
}

func buildDetail(stage, operation, message string) string {
	parts := make([]string, 0, 3)
	if stage = strings.TrimSpace(stage); stage != "" {
		parts = append(parts, stage)
	}
	if operation = strings.TrimSpace(operation); operation != "" {
		parts = append(parts, operation)
	}
	if message = strings.TrimSpace(message); message != "" {
		parts = append(parts, message)
	}
	if len(parts) == 0 {
		return "service failure"
	}
	return strings.Join(parts, ": ")
}
