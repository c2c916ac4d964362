package preflight

import (
	"context"
	"path/filepath"

	"dubsync/internal/config"
)

// Result reports the outcome of a single preflight check.
type Result struct {
	Name     string `json:"name"`
	Passed   bool   `json:"passed"`
	Optional bool   `json:"optional,omitempty"`
	Detail   string `json:"detail,omitempty"`
	Version  string `json:"version,omitempty"`
}

// RunAll executes all preflight checks for the given config.
func RunAll(ctx context.Context, cfg *config.Config) []Result {
	if cfg == nil {
		return nil
	}

	results := CheckBinaries(SystemRequirements(cfg))
	for i := range results {
		if results[i].Passed && !results[i].Optional {
			results[i].Version = ToolVersion(ctx, results[i].Detail)
		}
	}
	results = append(results, CheckRIFE(cfg))
	results = append(results, CheckTranslator(ctx, cfg.Translator))

	results = append(results, CheckDirectoryAccess("Work directory", cfg.Paths.WorkDir))
	if cfg.Paths.HistoryDB != "" {
		results = append(results, CheckDirectoryAccess("History directory", filepath.Dir(cfg.Paths.HistoryDB)))
	}
	return results
}

// Failed reports whether any required check failed.
func Failed(results []Result) bool {
	for _, r := range results {
		if !r.Passed && !r.Optional {
			return true
		}
	}
	return false
}
