package preflight

import (
	"context"

	"audiomate/internal/config"
)

// Result reports the outcome of a single preflight check.
type Result struct {
	Name     string
	Passed   bool
	Detail   string
	Optional bool
}

// RunAll executes every preflight check for the given config.
func RunAll(ctx context.Context, cfg *config.Config) []Result {
	if cfg == nil {
		return nil
	}

	results := []Result{
		CheckDirectoryAccess("State directory", cfg.Paths.StateDir),
		CheckDirectoryAccess("Log directory", cfg.Paths.LogDir),
	}

	sounds := CheckDirectoryAccess("Sounds directory", cfg.Paths.SoundsDir)
	if sounds.Passed {
		sounds = CheckCatalog(cfg)
	}
	results = append(results, sounds)

	results = append(results, CheckSceneStore(ctx, cfg))
	results = append(results, CheckReceiverAtom(cfg))
	results = append(results, CheckAudioOutput(cfg))
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
