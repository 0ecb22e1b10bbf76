package preflight

import (
	"context"
	"path/filepath"

	"nvdrivers/internal/config"
)

// Result reports the outcome of a single preflight check.
type Result struct {
	Name   string
	Passed bool
	Detail string
}

// RunAll executes all applicable preflight checks for the given config.
// The history check only runs when history is enabled.
func RunAll(ctx context.Context, cfg *config.Config) []Result {
	if cfg == nil {
		return nil
	}

	var results []Result

	// Report directory (always checked)
	results = append(results, CheckDirectoryAccess("Report directory", filepath.Dir(cfg.Report.Path)))

	// Lookup endpoint
	results = append(results, CheckEndpoint(ctx, "Lookup endpoint", cfg.API.BaseURL, cfg.API.UserAgent))

	if cfg.History.Enabled {
		results = append(results, CheckHistory(ctx, cfg.History.Path))
	}

	return results
}

// Failed reports whether any result did not pass.
func Failed(results []Result) bool {
	for _, r := range results {
		if !r.Passed {
			return true
		}
	}
	return false
}
