package dubbing

import (
	"context"
	"os"
	"path/filepath"
	"slices"
	"strings"
	"sync"

	"dubsync/internal/media/ffmpeg"
	"dubsync/internal/mixer"
	"dubsync/internal/services"
)

// fakeProber answers durations keyed by file base name.
type fakeProber map[string]float64

func (f fakeProber) Duration(_ context.Context, path string) (float64, error) {
	if d, ok := f[filepath.Base(path)]; ok {
		return d, nil
	}
	return 0, services.Wrap(services.ErrProbe, "probe", "inspect", path, nil)
}

func (f fakeProber) AudioDuration(ctx context.Context, path string) (float64, error) {
	return f.Duration(ctx, path)
}

// fakeRunner stands in for ffmpeg. Decode steps produce a short stereo WAV;
// every other command writes a placeholder at its output path.
type fakeRunner struct {
	mu    sync.Mutex
	calls [][]string
	fail  func(name string, args []string) error
}

func (r *fakeRunner) Run(_ context.Context, name string, args ...string) (ffmpeg.Output, error) {
	r.mu.Lock()
	r.calls = append(r.calls, append([]string{name}, args...))
	r.mu.Unlock()

	if r.fail != nil {
		if err := r.fail(name, args); err != nil {
			return ffmpeg.Output{}, err
		}
	}
	out := ffmpeg.OutputPath(args)
	if isDecode(args) {
		return ffmpeg.Output{}, mixer.WriteWAV(out, mixer.NewBuffer(0.5, 44100))
	}
	return ffmpeg.Output{}, os.WriteFile(out, []byte("data"), 0o644)
}

func isDecode(args []string) bool {
	return slices.Contains(args, "pcm_s16le") && !slices.Contains(args, "-ss")
}

// count returns how many calls contain needle in any argument.
func (r *fakeRunner) count(needle string) int {
	r.mu.Lock()
	defer r.mu.Unlock()
	n := 0
	for _, call := range r.calls {
		if slices.ContainsFunc(call, func(arg string) bool { return strings.Contains(arg, needle) }) {
			n++
		}
	}
	return n
}
