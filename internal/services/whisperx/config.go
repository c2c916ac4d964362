package whisperx

// Config selects the recogniser model and hardware.
type Config struct {
	Model       string
	CUDAEnabled bool
	// VADMethod is "silero" (default) or "pyannote". pyannote needs HFToken.
	VADMethod string
	HFToken   string
	// Language is the fallback source language when a call passes none.
	Language string
}

const (
	DefaultModel      = "large-v3"
	CUDAIndexURL      = "https://download.pytorch.org/whl/cu128"
	PypiIndexURL      = "https://pypi.org/simple"
	VADMethodSilero   = "silero"
	VADMethodPyannote = "pyannote"

	UVXCommand = "uvx"
)

// decodeFlags tune WhisperX for sentence-level segments with dense word
// timings. They are passed verbatim on every run.
var decodeFlags = [][2]string{
	{"--batch_size", "4"},
	{"--output_format", "all"},
	{"--segment_resolution", "sentence"},
	{"--chunk_size", "15"},
	{"--vad_onset", "0.08"},
	{"--vad_offset", "0.07"},
	{"--beam_size", "10"},
	{"--best_of", "10"},
	{"--temperature", "0.0"},
	{"--patience", "1.0"},
}

func (c Config) model() string {
	if c.Model == "" {
		return DefaultModel
	}
	return c.Model
}

func (c Config) vadMethod() string {
	if c.VADMethod == "" {
		return VADMethodSilero
	}
	return c.VADMethod
}

// indexArgs points uvx at the CUDA wheel index when GPU support is on.
func (c Config) indexArgs() []string {
	if c.CUDAEnabled {
		return []string{"--index-url", CUDAIndexURL, "--extra-index-url", PypiIndexURL}
	}
	return []string{"--index-url", PypiIndexURL}
}

func (c Config) deviceArgs() []string {
	if c.CUDAEnabled {
		return []string{"--device", "cuda"}
	}
	return []string{"--device", "cpu", "--compute_type", "float32"}
}
