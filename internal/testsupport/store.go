package testsupport

import (
	"testing"

	"winnow/internal/config"
	"winnow/internal/history"
)

// MustOpenStore opens a history store in the config's state directory and
// closes it when the test ends.
func MustOpenStore(t testing.TB, cfg *config.Config) *history.Store {
	t.Helper()

	store, err := history.Open(cfg)
	if err != nil {
		t.Fatalf("open history store: %v", err)
	}
	t.Cleanup(func() {
		if err := store.Close(); err != nil {
			t.Errorf("close history store: %v", err)
		}
	})
	return store
}
