package preflight

import (
	"context"
	"errors"
	"fmt"
	"net"
	"os"
	"time"

	"golang.org/x/sys/unix"

	"dubsync/internal/config"
	"dubsync/internal/rife"
	"dubsync/internal/services/llm"
)

// CheckTranslator verifies the translation model answers. It is optional and
// skipped when no API key is configured.
func CheckTranslator(ctx context.Context, cfg config.Translator) Result {
	const name = "Translator"
	if cfg.APIKey == "" {
		return Result{Name: name, Optional: true, Detail: "API key missing (dub command disabled)"}
	}

	checkCtx, cancel := context.WithTimeout(ctx, 30*time.Second)
	defer cancel()

	client := llm.NewClient(llm.Config{
		APIKey:  cfg.APIKey,
		BaseURL: cfg.BaseURL,
		Model:   cfg.Model,
		AppName: "dubsync",
		Timeout: time.Duration(cfg.TimeoutSeconds) * time.Second,
	}, llm.WithAttempts(1))

	if err := client.HealthCheck(checkCtx); err != nil {
		return Result{Name: name, Optional: true, Detail: summarizeLLMError(err)}
	}
	return Result{Name: name, Optional: true, Passed: true, Detail: "API reachable"}
}

func summarizeLLMError(err error) string {
	if errors.Is(err, context.DeadlineExceeded) {
		return "health check timed out (translation API unresponsive)"
	}
	var netErr net.Error
	if errors.As(err, &netErr) && netErr.Timeout() {
		return "health check timed out (translation API unreachable)"
	}
	return err.Error()
}

// CheckDirectoryAccess verifies that the directory exists and is readable/writable.
func CheckDirectoryAccess(name, path string) Result {
	info, err := os.Stat(path)
	if err != nil {
		if os.IsNotExist(err) {
			return Result{Name: name, Detail: fmt.Sprintf("%s (error: does not exist)", path)}
		}
		return Result{Name: name, Detail: fmt.Sprintf("%s (error: stat: %v)", path, err)}
	}
	if !info.IsDir() {
		return Result{Name: name, Detail: fmt.Sprintf("%s (error: is not a directory)", path)}
	}
	if err := unix.Access(path, unix.R_OK|unix.W_OK|unix.X_OK); err != nil {
		return Result{Name: name, Detail: fmt.Sprintf("%s (error: insufficient permissions: %v)", path, err)}
	}
	return Result{Name: name, Passed: true, Detail: fmt.Sprintf("%s (read/write ok)", path)}
}

// CheckRIFE reports whether the frame interpolator can be located. It is
// optional: only the rife strategy needs it, and that strategy falls back to
// plain stretching without it.
func CheckRIFE(cfg *config.Config) Result {
	const name = "RIFE interpolator"
	exe, err := rife.Locate(cfg.Tools.RIFEBinary, cfg.Tools.RIFEModel, cfg.Tools.RIFESearchDirs)
	if err != nil {
		return Result{Name: name, Optional: true, Detail: "not found (rife strategy will stretch frames instead)"}
	}
	detail := exe.Path
	if exe.Model == "" {
		detail += " (model directory missing; interpolator default model used)"
	}
	return Result{Name: name, Optional: true, Passed: true, Detail: detail}
}

// SystemRequirements lists the binaries the engine invokes for cfg.
func SystemRequirements(cfg *config.Config) []Requirement {
	return []Requirement{
		{
			Name:        "FFmpeg",
			Command:     cfg.FFmpegBinary(),
			Description: "Required for chunk rendering, tempo alignment and muxing",
		},
		{
			Name:        "FFprobe",
			Command:     cfg.FFprobeBinary(),
			Description: "Required for media inspection",
		},
		{
			Name:        "uvx",
			Command:     "uvx",
			Description: "Runs WhisperX for the dub pipeline",
			Optional:    true,
		},
	}
}
