package services_test

import (
	"errors"
	"strings"
	"testing"

	"dubsync/internal/services"
)

func TestWrapIncludesContext(t *testing.T) {
	base := errors.New("boom")
	err := services.Wrap(services.ErrConcat, "timeline", "concat", "failed", base)
	if err == nil {
		t.Fatal("expected error")
	}
	if !errors.Is(err, services.ErrConcat) {
		t.Fatalf("expected marker to be retained, got %v", err)
	}
	if !errors.Is(err, base) {
		t.Fatalf("expected wrapped error to contain base error, got %v", err)
	}
	msg := err.Error()
	for _, fragment := range []string{"timeline", "concat", "failed"} {
		if !strings.Contains(msg, fragment) {
			t.Fatalf("expected %q in error string %q", fragment, msg)
		}
	}
}

func TestWrapWithoutCause(t *testing.T) {
	err := services.Wrap(services.ErrAlignment, "", "", "", nil)
	if !strings.Contains(err.Error(), "service failure") {
		t.Fatalf("expected fallback detail, got %q", err.Error())
	}
}

func TestKindMapping(t *testing.T) {
	tests := []struct {
		marker error
		want   string
	}{
		{services.ErrProbe, "ProbeError"},
		{services.ErrAlignment, "AlignmentError"},
		{services.ErrInterpolation, "InterpolationError"},
		{services.ErrConcat, "ConcatError"},
		{services.ErrMerge, "MergeError"},
		{services.ErrValidation, "ValidationError"},
		{services.ErrExternalTool, "ExternalToolError"},
	}
	for _, tt := range tests {
		err := services.Wrap(tt.marker, "stage", "op", "msg", nil)
		if got := services.Kind(err); got != tt.want {
			t.Fatalf("Kind(%v) = %q, want %q", tt.marker, got, tt.want)
		}
	}
	if services.Kind(nil) != "" {
		t.Fatal("expected empty kind for nil error")
	}
}

func TestKindPrefersOutermostMarker(t *testing.T) {
	probeErr := services.Wrap(services.ErrProbe, "probe", "inspect", "clip.wav", nil)
	err := services.Wrap(services.ErrAlignment, "align", "probe", "clip.wav", probeErr)
	if got := services.Kind(err); got != "AlignmentError" {
		t.Fatalf("expected AlignmentError, got %q", got)
	}
	if !errors.Is(err, services.ErrProbe) {
		t.Fatal("cause marker should remain matchable")
	}
	if got := services.Kind(errors.New("plain")); got != "ExternalToolError" {
		t.Fatalf("unmarked errors default to ExternalToolError, got %q", got)
	}
}

func TestFailureResult(t *testing.T) {
	res := services.Failure(services.Wrap(services.ErrMerge, "mixer", "mux", "ffmpeg failed", nil))
	if res.Succeeded() {
		t.Fatal("expected failure result")
	}
	if res.Kind != "MergeError" {
		t.Fatalf("unexpected kind %q", res.Kind)
	}
	if !services.Success("/tmp/out.mp4", "").Succeeded() {
		t.Fatal("expected success result")
	}
}
