package testsupport

import (
	"testing"

	"audiomate/internal/config"
	"audiomate/internal/scenestore"
)

// MustOpenStore opens a scenestore.Store for tests and registers cleanup.
func MustOpenStore(t testing.TB, cfg *config.Config) *scenestore.Store {
	t.Helper()

	store, err := scenestore.Open(cfg)
	if err != nil {
		t.Fatalf("scenestore.Open: %v", err)
	}
	t.Cleanup(func() {
		store.Close()
	})
	return store
}
