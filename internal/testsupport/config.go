package testsupport

import (
	"path/filepath"
	"testing"

	"audiomate/internal/config"
)

// NewConfig returns the default config rooted in a fresh temp directory, with
// audio output muted so tests never open a device. Mutators run in order.
func NewConfig(t testing.TB, mutators ...func(*config.Config)) *config.Config {
	t.Helper()
	cfg := config.Default()
	InDir(t.TempDir())(&cfg)
	cfg.Audio.Muted = true
	for _, m := range mutators {
		m(&cfg)
	}
	return &cfg
}

// InDir points the sounds, state, and log directories below dir, letting two
// configs share one library and scene store.
func InDir(dir string) func(*config.Config) {
	return func(cfg *config.Config) {
		cfg.Paths.SoundsDir = filepath.Join(dir, "sounds")
		cfg.Paths.StateDir = filepath.Join(dir, "state")
		cfg.Paths.LogDir = filepath.Join(dir, "logs")
	}
}
