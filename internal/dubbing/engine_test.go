package dubbing

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"dubsync/internal/fileutil"
	"dubsync/internal/history"
	"dubsync/internal/manifest"
	"dubsync/internal/services"
	"dubsync/internal/testsupport"
	"dubsync/internal/timeline"
)

func writeManifest(t *testing.T, dir string) string {
	t.Helper()
	path := filepath.Join(dir, "segments.json")
	body := `{"segments": [
		{"start": 1.0, "end": 2.0, "path": "a.wav"},
		{"start": 2.5, "duration": 1.0, "path": "b.wav"}
	]}`
	if err := os.WriteFile(path, []byte(body), 0o644); err != nil {
		t.Fatalf("write manifest: %v", err)
	}
	return path
}

func newTestEngine(t *testing.T, strategy string, prober fakeProber) (*Engine, *fakeRunner, *history.Store) {
	t.Helper()
	cfg := testsupport.NewConfig(t, testsupport.WithStrategy(strategy))
	store := testsupport.MustOpenStore(t, cfg)
	runner := &fakeRunner{}
	return New(cfg, nil, WithRunner(runner), WithProber(prober), WithHistory(store)), runner, store
}

func TestMergeVideoAutoSpeedupMixes(t *testing.T) {
	engine, runner, store := newTestEngine(t, "auto_speedup", fakeProber{"movie.mp4": 4, "a.wav": 1, "b.wav": 1})
	dir := t.TempDir()
	output := filepath.Join(dir, "out", "final.mp4")

	result := engine.MergeVideo(context.Background(), MergeRequest{
		Video:    "movie.mp4",
		Manifest: writeManifest(t, dir),
		Output:   output,
	})
	if !result.Succeeded() {
		t.Fatalf("expected success, got %+v", result)
	}
	if result.Chunks != 2 || result.FailedChunks != 0 {
		t.Fatalf("expected two mixed clips, got %+v", result)
	}
	if runner.count("0:v:0") != 1 {
		t.Fatalf("expected one mux call, got calls %v", runner.calls)
	}
	if runner.count("concat") != 0 {
		t.Fatal("auto_speedup must not rebuild the timeline")
	}
	unlock, err := fileutil.LockOutput(output)
	if err != nil {
		t.Fatalf("expected output lock released after merge: %v", err)
	}
	unlock()

	run, err := store.Get(context.Background(), result.RunID)
	if err != nil {
		t.Fatalf("history Get: %v", err)
	}
	if run.Kind != history.KindMerge || run.Status != services.StatusSuccess || run.Strategy != "auto_speedup" {
		t.Fatalf("unexpected history row %+v", run)
	}
	if run.Chunks != 2 || run.FinishedAt == nil {
		t.Fatalf("expected finished run with 2 chunks, got %+v", run)
	}
}

func TestMergeVideoPrealignsOverlongClips(t *testing.T) {
	engine, runner, _ := newTestEngine(t, "auto_speedup", fakeProber{"movie.mp4": 4, "a.wav": 2.5, "b.wav": 1})
	dir := t.TempDir()

	result := engine.MergeVideo(context.Background(), MergeRequest{
		Video:    "movie.mp4",
		Manifest: writeManifest(t, dir),
		Output:   filepath.Join(dir, "final.mp4"),
	})
	if !result.Succeeded() {
		t.Fatalf("expected success, got %+v", result)
	}
	if runner.count("atempo=2,atempo=1.25") != 1 {
		t.Fatalf("expected a.wav compressed by 2.5x, got calls %v", runner.calls)
	}
	if runner.count("a_aligned.wav") < 2 {
		t.Fatal("expected the mixer to decode the aligned clip")
	}
}

func TestMergeVideoFrameBlendReconstructs(t *testing.T) {
	engine, runner, _ := newTestEngine(t, "auto_speedup", fakeProber{"movie.mp4": 4, "a.wav": 1.2, "b.wav": 1.2})
	dir := t.TempDir()

	result := engine.MergeVideo(context.Background(), MergeRequest{
		Video:    "movie.mp4",
		Manifest: writeManifest(t, dir),
		Output:   filepath.Join(dir, "final.mp4"),
		Strategy: "frame_blend",
	})
	if !result.Succeeded() {
		t.Fatalf("expected success, got %+v", result)
	}
	// gap, segment, gap, segment, tail
	if result.Chunks != 5 || result.FailedChunks != 0 {
		t.Fatalf("expected five rendered chunks, got %+v", result)
	}
	if runner.count("minterpolate") != 2 {
		t.Fatalf("expected two blended segment chunks, got calls %v", runner.calls)
	}
	if runner.count("concat") != 1 {
		t.Fatal("expected one concat call")
	}
}

func TestMergeVideoRejectsUnknownStrategy(t *testing.T) {
	engine, runner, store := newTestEngine(t, "auto_speedup", fakeProber{})
	dir := t.TempDir()

	result := engine.MergeVideo(context.Background(), MergeRequest{
		Video:    "movie.mp4",
		Manifest: writeManifest(t, dir),
		Output:   filepath.Join(dir, "final.mp4"),
		Strategy: "warp",
	})
	if result.Succeeded() || result.Kind != "ValidationError" {
		t.Fatalf("expected validation failure, got %+v", result)
	}
	if len(runner.calls) != 0 {
		t.Fatal("expected no external commands")
	}
	run, err := store.Get(context.Background(), result.RunID)
	if err != nil {
		t.Fatalf("history Get: %v", err)
	}
	if run.Status != services.StatusError || run.ErrorKind != "ValidationError" {
		t.Fatalf("expected failed run recorded, got %+v", run)
	}
}

func TestMergeVideoLockedOutput(t *testing.T) {
	engine, _, _ := newTestEngine(t, "auto_speedup", fakeProber{"movie.mp4": 4})
	dir := t.TempDir()
	output := filepath.Join(dir, "final.mp4")
	unlock, err := fileutil.LockOutput(output)
	if err != nil {
		t.Fatalf("LockOutput: %v", err)
	}
	defer unlock()

	result := engine.MergeVideo(context.Background(), MergeRequest{
		Video:    "movie.mp4",
		Manifest: writeManifest(t, dir),
		Output:   output,
	})
	if result.Succeeded() || !strings.Contains(result.Message, "another run") {
		t.Fatalf("expected lock failure, got %+v", result)
	}
}

func TestMergeVideoMissingManifest(t *testing.T) {
	engine, _, _ := newTestEngine(t, "auto_speedup", fakeProber{"movie.mp4": 4})
	dir := t.TempDir()

	result := engine.MergeVideo(context.Background(), MergeRequest{
		Video:    "movie.mp4",
		Manifest: filepath.Join(dir, "missing.json"),
		Output:   filepath.Join(dir, "final.mp4"),
	})
	if result.Kind != "NotFoundError" {
		t.Fatalf("expected NotFoundError, got %+v", result)
	}
}

func TestMergeVideoProbeFailure(t *testing.T) {
	engine, _, _ := newTestEngine(t, "frame_blend", fakeProber{"a.wav": 1, "b.wav": 1})
	dir := t.TempDir()

	result := engine.MergeVideo(context.Background(), MergeRequest{
		Video:    "movie.mp4",
		Manifest: writeManifest(t, dir),
		Output:   filepath.Join(dir, "final.mp4"),
	})
	if result.Kind != "ProbeError" {
		t.Fatalf("expected ProbeError, got %+v", result)
	}
}

func TestAlignAudio(t *testing.T) {
	engine, runner, store := newTestEngine(t, "auto_speedup", fakeProber{"in.wav": 5})
	output := filepath.Join(t.TempDir(), "out.wav")

	result := engine.AlignAudio(context.Background(), "in.wav", output, 2)
	if !result.Succeeded() {
		t.Fatalf("expected success, got %+v", result)
	}
	if !strings.Contains(result.Message, "atempo=2,atempo=1.25") {
		t.Fatalf("unexpected message %q", result.Message)
	}
	if runner.count("atempo=2,atempo=1.25") != 1 {
		t.Fatalf("expected one atempo call, got %v", runner.calls)
	}
	run, err := store.Get(context.Background(), result.RunID)
	if err != nil || run.Kind != history.KindAlign {
		t.Fatalf("expected align run recorded, got %+v (%v)", run, err)
	}
}

func TestAlignAudioRejectsBadTarget(t *testing.T) {
	engine, _, _ := newTestEngine(t, "auto_speedup", fakeProber{"in.wav": 5})

	result := engine.AlignAudio(context.Background(), "in.wav", filepath.Join(t.TempDir(), "out.wav"), 0)
	if result.Kind != "AlignmentError" {
		t.Fatalf("expected AlignmentError, got %+v", result)
	}
}

func TestGenerateSubtitles(t *testing.T) {
	engine, _, _ := newTestEngine(t, "auto_speedup", fakeProber{})
	dir := t.TempDir()
	input := filepath.Join(dir, "talk.json")
	body := `{"segments": [{"start": 0, "end": 2, "words": [
		{"word": "Hello", "start": 0.1, "end": 0.5},
		{"word": "world.", "start": 0.6, "end": 1.0},
		{"word": "Again", "start": 1.2, "end": 1.6}
	]}]}`
	if err := os.WriteFile(input, []byte(body), 0o644); err != nil {
		t.Fatal(err)
	}

	result := engine.GenerateSubtitles(context.Background(), input, "")
	if !result.Succeeded() {
		t.Fatalf("expected success, got %+v", result)
	}
	want := filepath.Join(dir, "talk.srt")
	if result.Output != want {
		t.Fatalf("expected output %s, got %s", want, result.Output)
	}
	data, err := os.ReadFile(want)
	if err != nil {
		t.Fatalf("read srt: %v", err)
	}
	if !strings.Contains(string(data), "Hello world.") || !strings.Contains(string(data), "-->") {
		t.Fatalf("unexpected srt:\n%s", data)
	}
	if result.Chunks < 1 {
		t.Fatalf("expected cue count, got %+v", result)
	}
}

func TestGenerateSubtitlesMissingInput(t *testing.T) {
	engine, _, _ := newTestEngine(t, "auto_speedup", fakeProber{})

	result := engine.GenerateSubtitles(context.Background(), filepath.Join(t.TempDir(), "none.json"), "")
	if result.Kind != "NotFoundError" {
		t.Fatalf("expected NotFoundError, got %+v", result)
	}
}

func TestPlanAutoSpeedupOmitsSegmentChunks(t *testing.T) {
	engine, _, _ := newTestEngine(t, "auto_speedup", fakeProber{"movie.mp4": 4})
	segments, err := manifest.Load(writeManifest(t, t.TempDir()))
	if err != nil {
		t.Fatalf("manifest.Load: %v", err)
	}

	report, err := engine.Plan(context.Background(), "movie.mp4", segments, "")
	if err != nil {
		t.Fatalf("Plan: %v", err)
	}
	if report.Strategy != "auto_speedup" || report.Total != 4 {
		t.Fatalf("unexpected report %+v", report)
	}
	for _, chunk := range report.Chunks {
		if chunk.Kind == timeline.KindSegment {
			t.Fatalf("auto_speedup plan must not contain segment chunks: %+v", report.Chunks)
		}
	}
	if len(report.Chunks) != 3 {
		t.Fatalf("expected gap, gap, tail; got %+v", report.Chunks)
	}
}
