package main

import (
	"bytes"
	"io"
	"os"
	"strings"
	"testing"

	"github.com/jedib0t/go-pretty/v6/text"
)

func TestRenderStatusLinePlain(t *testing.T) {
	got := renderStatusLine("Merge", statusError, "probe failed", false)
	want := "  Merge:               [ERROR] probe failed"
	if got != want {
		t.Fatalf("renderStatusLine mismatch\n got: %q\nwant: %q", got, want)
	}
	if got := renderStatusLine("Run", statusInfo, "", false); strings.HasSuffix(got, " ") {
		t.Fatalf("empty message should not leave trailing space: %q", got)
	}
}

func TestRenderStatusLineColor(t *testing.T) {
	got := renderStatusLine("Merge", statusOK, "rendered 3 of 3 chunks", true)
	if !strings.HasPrefix(got, text.Colors{text.FgGreen}.EscapeSeq()) || !strings.HasSuffix(got, text.EscapeReset) {
		t.Fatalf("expected green wrapped line, got %q", got)
	}
}

func TestRenderSectionHeader(t *testing.T) {
	lines := renderSectionHeader(" Dependencies ", false)
	if lines[0] != "== Dependencies ==" || lines[1] != strings.Repeat("-", len(lines[0])) {
		t.Fatalf("unexpected header %q", lines)
	}
}

func TestShouldColorizeNonTerminal(t *testing.T) {
	if shouldColorize(io.Discard) || shouldColorize(&bytes.Buffer{}) {
		t.Fatal("non-file writers must not be colorized")
	}
	f, err := os.CreateTemp(t.TempDir(), "out")
	if err != nil {
		t.Fatal(err)
	}
	defer f.Close()
	if shouldColorize(f) {
		t.Fatal("regular files must not be colorized")
	}
}
