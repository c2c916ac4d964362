package dubbing

import (
	"context"
	"errors"
	"math"
	"os"
	"path/filepath"
	"slices"
	"strings"
	"testing"

	"dubsync/internal/history"
	"dubsync/internal/manifest"
	"dubsync/internal/subtitles"
)

type stubTranscriber struct {
	segments []subtitles.Segment
	err      error
}

func (s stubTranscriber) Transcribe(context.Context, string, string, string) ([]subtitles.Segment, error) {
	return s.segments, s.err
}

type stubTranslator struct {
	failOn string
}

func (s stubTranslator) Translate(_ context.Context, text, lang string) (string, error) {
	if text == s.failOn {
		return "", errors.New("model unavailable")
	}
	return "[" + lang + "] " + text, nil
}

type stubSynthesizer struct {
	texts []string
	refs  []string
}

func (s *stubSynthesizer) Synthesize(_ context.Context, text, ref, output string) error {
	s.texts = append(s.texts, text)
	s.refs = append(s.refs, ref)
	return os.WriteFile(output, []byte("voice"), 0o644)
}

func word(text string, start, end float64) subtitles.Word {
	return subtitles.Word{Text: text, Start: &start, End: &end}
}

// dubSegments yields one cue per segment: start at the first word, end at the
// last word plus the 0.2s tail pad.
func dubSegments() []subtitles.Segment {
	return []subtitles.Segment{
		{Start: 0.5, End: 1.5, Words: []subtitles.Word{word("Good", 0.5, 0.8), word("morning", 0.85, 1.3)}},
		{Start: 2.0, End: 3.0, Words: []subtitles.Word{word("Skip", 2.0, 2.3), word("me", 2.35, 2.8)}},
		{Start: 3.5, End: 4.0, Words: []subtitles.Word{word("Goodbye", 3.5, 3.8)}},
	}
}

func sameClips(got, want []manifest.AudioSegment) bool {
	near := func(a, b float64) bool { return math.Abs(a-b) < 1e-9 }
	return slices.EqualFunc(got, want, func(g, w manifest.AudioSegment) bool {
		return g.Path == w.Path && near(g.Start, w.Start) && near(g.End, w.End) && near(g.Duration, w.Duration)
	})
}

func TestDubSkipsFailedLinesAndMerges(t *testing.T) {
	engine, runner, store := newTestEngine(t, "auto_speedup", fakeProber{
		"movie.mp4": 5, "tts_0.wav": 1, "tts_2.wav": 0.5,
	})
	synth := &stubSynthesizer{}
	pipeline := &Pipeline{
		Engine:      engine,
		Transcriber: stubTranscriber{segments: dubSegments()},
		Translator:  stubTranslator{failOn: "Skip me"},
		Synthesizer: synth,
	}
	output := filepath.Join(t.TempDir(), "movie_fr.mp4")

	result := pipeline.Dub(context.Background(), DubRequest{Video: "movie.mp4", Output: output, TargetLanguage: "fr"})
	if !result.Succeeded() {
		t.Fatalf("expected success, got %+v", result)
	}
	if !strings.HasPrefix(result.Message, "dubbed 2 of 3 lines") {
		t.Fatalf("unexpected message %q", result.Message)
	}
	if !slices.Equal(synth.texts, []string{"[French] Good morning", "[French] Goodbye"}) {
		t.Fatalf("unexpected synthesized texts %v", synth.texts)
	}

	segDir := SegmentsDir(output)
	if synth.refs[0] != filepath.Join(segDir, "ref_0.wav") {
		t.Fatalf("unexpected reference path %s", synth.refs[0])
	}
	if _, err := os.Stat(synth.refs[0]); !os.IsNotExist(err) {
		t.Fatal("expected reference clip removed after synthesis")
	}
	if runner.count("24000") != 2 {
		t.Fatalf("expected two reference extractions, got %v", runner.calls)
	}

	clips, err := manifest.Load(filepath.Join(segDir, "segments.json"))
	if err != nil {
		t.Fatalf("load saved manifest: %v", err)
	}
	want := []manifest.AudioSegment{
		{Start: 0.5, End: 1.5, Duration: 1, Path: filepath.Join(segDir, "tts_0.wav")},
		{Start: 3.5, End: 4.0, Duration: 0.5, Path: filepath.Join(segDir, "tts_2.wav")},
	}
	if !sameClips(clips, want) {
		t.Fatalf("saved manifest = %+v, want %+v", clips, want)
	}
	if _, err := os.Stat(filepath.Join(segDir, "movie_fr.srt")); err != nil {
		t.Fatalf("expected source subtitles: %v", err)
	}

	run, err := store.Get(context.Background(), result.RunID)
	if err != nil {
		t.Fatalf("history Get: %v", err)
	}
	if run.Kind != history.KindDub || run.Chunks != 2 || run.Strategy != "auto_speedup" {
		t.Fatalf("unexpected history row %+v", run)
	}
}

func TestDubAlignsOverlongLinesInPlace(t *testing.T) {
	engine, runner, _ := newTestEngine(t, "auto_speedup", fakeProber{"movie.mp4": 5, "tts_0.wav": 2})
	pipeline := &Pipeline{
		Engine:      engine,
		Transcriber: stubTranscriber{segments: dubSegments()[:1]},
		Translator:  stubTranslator{},
		Synthesizer: &stubSynthesizer{},
	}
	output := filepath.Join(t.TempDir(), "movie_de.mp4")

	result := pipeline.Dub(context.Background(), DubRequest{Video: "movie.mp4", Output: output, TargetLanguage: "de"})
	if !result.Succeeded() {
		t.Fatalf("expected success, got %+v", result)
	}
	if runner.count("atempo=2") == 0 {
		t.Fatalf("expected the overlong line to be compressed, got %v", runner.calls)
	}
	data, err := os.ReadFile(filepath.Join(SegmentsDir(output), "tts_0.wav"))
	if err != nil {
		t.Fatalf("read clip: %v", err)
	}
	if string(data) != "data" {
		t.Fatalf("expected aligned clip to replace the synthesized one, got %q", data)
	}
}

func TestDubVoicesEverySubtitleCue(t *testing.T) {
	engine, _, _ := newTestEngine(t, "frame_blend", fakeProber{"movie.mp4": 5, "tts_0.wav": 0.8, "tts_1.wav": 0.8})
	synth := &stubSynthesizer{}
	pipeline := &Pipeline{
		Engine: engine,
		Transcriber: stubTranscriber{segments: []subtitles.Segment{{
			Start: 0, End: 3,
			Words: []subtitles.Word{
				word("Hello", 0.0, 0.4), word("there!", 0.5, 1.0),
				word("How", 1.5, 1.8), word("are", 1.9, 2.1), word("you?", 2.2, 2.6),
			},
		}}},
		Translator:  stubTranslator{},
		Synthesizer: synth,
	}
	output := filepath.Join(t.TempDir(), "movie_fr.mp4")

	result := pipeline.Dub(context.Background(), DubRequest{Video: "movie.mp4", Output: output, TargetLanguage: "fr"})
	if !result.Succeeded() {
		t.Fatalf("expected success, got %+v", result)
	}
	if !slices.Equal(synth.texts, []string{"[French] Hello there", "[French] How are you"}) {
		t.Fatalf("expected one synthesized line per cue, got %v", synth.texts)
	}

	srt, err := subtitles.LoadSRT(filepath.Join(SegmentsDir(output), "movie_fr.srt"))
	if err != nil {
		t.Fatalf("load source subtitles: %v", err)
	}
	clips, err := manifest.Load(filepath.Join(SegmentsDir(output), "segments.json"))
	if err != nil {
		t.Fatalf("load saved manifest: %v", err)
	}
	if len(srt) != 2 || len(clips) != 2 {
		t.Fatalf("expected 2 cues and 2 clips, got %d and %d", len(srt), len(clips))
	}
	for i := range clips {
		if math.Abs(clips[i].Start-srt[i].Start) > 2e-3 || math.Abs(clips[i].End-srt[i].End) > 2e-3 {
			t.Fatalf("clip %d %+v does not follow cue %+v", i, clips[i], srt[i])
		}
	}
}

func TestDubRetimingStrategySkipsAlignment(t *testing.T) {
	engine, runner, _ := newTestEngine(t, "freeze_frame", fakeProber{"movie.mp4": 5, "tts_0.wav": 2})
	pipeline := &Pipeline{
		Engine:      engine,
		Transcriber: stubTranscriber{segments: dubSegments()[:1]},
		Translator:  stubTranslator{},
		Synthesizer: &stubSynthesizer{},
	}

	result := pipeline.Dub(context.Background(), DubRequest{
		Video:          "movie.mp4",
		Output:         filepath.Join(t.TempDir(), "out.mp4"),
		TargetLanguage: "ja",
	})
	if !result.Succeeded() {
		t.Fatalf("expected success, got %+v", result)
	}
	if runner.count("atempo") != 0 {
		t.Fatal("freeze_frame must not time-stretch dubbed lines")
	}
	if runner.count("tpad") != 1 {
		t.Fatalf("expected one frozen segment chunk, got %v", runner.calls)
	}
}

func TestDubFromExistingSubtitles(t *testing.T) {
	engine, _, _ := newTestEngine(t, "auto_speedup", fakeProber{"movie.mp4": 5, "tts_0.wav": 1, "tts_1.wav": 1})
	synth := &stubSynthesizer{}
	pipeline := &Pipeline{Engine: engine, Translator: stubTranslator{}, Synthesizer: synth}

	dir := t.TempDir()
	srt := filepath.Join(dir, "movie.en.srt")
	content := "1\n00:00:00,500 --> 00:00:01,500\nGood morning\n\n2\n00:00:02,000 --> 00:00:03,000\nSee you\n"
	if err := os.WriteFile(srt, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}
	output := filepath.Join(dir, "movie_es.mp4")

	result := pipeline.Dub(context.Background(), DubRequest{Video: "movie.mp4", Output: output, TargetLanguage: "es", Subtitles: srt})
	if !result.Succeeded() {
		t.Fatalf("expected success, got %+v", result)
	}
	if !slices.Equal(synth.texts, []string{"[Spanish] Good morning", "[Spanish] See you"}) {
		t.Fatalf("unexpected synthesized texts %v", synth.texts)
	}
	if _, err := os.Stat(filepath.Join(SegmentsDir(output), "movie_es.srt")); !os.IsNotExist(err) {
		t.Fatal("source subtitles should not be regenerated from an existing SRT")
	}

	missing := pipeline.Dub(context.Background(), DubRequest{Video: "movie.mp4", Output: output, TargetLanguage: "es", Subtitles: filepath.Join(dir, "none.srt")})
	if missing.Succeeded() || missing.Kind != "NotFoundError" {
		t.Fatalf("expected NotFoundError, got %+v", missing)
	}
}

func TestDubFailures(t *testing.T) {
	tests := []struct {
		name     string
		pipeline func(*Engine) *Pipeline
		req      DubRequest
		kind     string
	}{
		{
			name: "missing synthesizer",
			pipeline: func(e *Engine) *Pipeline {
				return &Pipeline{Engine: e, Transcriber: stubTranscriber{}, Translator: stubTranslator{}}
			},
			req:  DubRequest{Video: "movie.mp4", Output: "out.mp4", TargetLanguage: "fr"},
			kind: "ValidationError",
		},
		{
			name: "missing language",
			pipeline: func(e *Engine) *Pipeline {
				return &Pipeline{Engine: e, Transcriber: stubTranscriber{}, Translator: stubTranslator{}, Synthesizer: &stubSynthesizer{}}
			},
			req:  DubRequest{Video: "movie.mp4", Output: "out.mp4"},
			kind: "ValidationError",
		},
		{
			name: "recogniser failure",
			pipeline: func(e *Engine) *Pipeline {
				return &Pipeline{Engine: e, Transcriber: stubTranscriber{err: errors.New("boom")}, Translator: stubTranslator{}, Synthesizer: &stubSynthesizer{}}
			},
			req:  DubRequest{Video: "movie.mp4", Output: "out.mp4", TargetLanguage: "fr"},
			kind: "ExternalToolError",
		},
		{
			name: "no speech",
			pipeline: func(e *Engine) *Pipeline {
				return &Pipeline{Engine: e, Transcriber: stubTranscriber{}, Translator: stubTranslator{}, Synthesizer: &stubSynthesizer{}}
			},
			req:  DubRequest{Video: "movie.mp4", Output: "out.mp4", TargetLanguage: "fr"},
			kind: "ValidationError",
		},
		{
			name: "every line fails",
			pipeline: func(e *Engine) *Pipeline {
				segs := []subtitles.Segment{{Start: 0, End: 1, Words: []subtitles.Word{word("only", 0, 0.8)}}}
				return &Pipeline{Engine: e, Transcriber: stubTranscriber{segments: segs}, Translator: stubTranslator{failOn: "only"}, Synthesizer: &stubSynthesizer{}}
			},
			req:  DubRequest{Video: "movie.mp4", Output: "out.mp4", TargetLanguage: "fr"},
			kind: "MergeError",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			engine, _, _ := newTestEngine(t, "auto_speedup", fakeProber{"movie.mp4": 5})
			req := tt.req
			req.Output = filepath.Join(t.TempDir(), req.Output)
			result := tt.pipeline(engine).Dub(context.Background(), req)
			if result.Succeeded() || result.Kind != tt.kind {
				t.Fatalf("expected %s, got %+v", tt.kind, result)
			}
		})
	}
}

func TestCommandSynthesizerExpandsPlaceholders(t *testing.T) {
	runner := &fakeRunner{}
	synth := CommandSynthesizer{
		Runner:   runner,
		Command:  []string{"indextts", "--text", "{text}", "--ref", "{ref}", "--lang", "{lang}", "--out", "{output}"},
		Language: "fr",
	}
	output := filepath.Join(t.TempDir(), "tts_0.wav")

	if err := synth.Synthesize(context.Background(), "Bonjour", "ref_0.wav", output); err != nil {
		t.Fatalf("Synthesize: %v", err)
	}
	want := []string{"indextts", "--text", "Bonjour", "--ref", "ref_0.wav", "--lang", "fr", "--out", output}
	if !slices.Equal(runner.calls[0], want) {
		t.Fatalf("unexpected command %v", runner.calls[0])
	}
}

func TestCommandSynthesizerErrors(t *testing.T) {
	if err := (CommandSynthesizer{}).Synthesize(context.Background(), "x", "r", "o"); err == nil {
		t.Fatal("expected unconfigured command to fail")
	}

	runner := &fakeRunner{fail: func(string, []string) error { return errors.New("exit 1") }}
	synth := CommandSynthesizer{Runner: runner, Command: []string{"tts", "{text}", "{output}"}}
	if err := synth.Synthesize(context.Background(), "x", "r", filepath.Join(t.TempDir(), "o.wav")); err == nil {
		t.Fatal("expected command failure to propagate")
	}
}
