package testsupport

import (
	"testing"

	"framescan/internal/config"
	"framescan/internal/history"
)

// MustOpenHistory opens the configured history store and registers cleanup.
func MustOpenHistory(t testing.TB, cfg *config.Config) *history.Store {
	t.Helper()

	store, err := history.Open(cfg)
	if err != nil {
		t.Fatalf("history.Open: %v", err)
	}
	t.Cleanup(func() {
		_ = store.Close()
	})
	return store
}
