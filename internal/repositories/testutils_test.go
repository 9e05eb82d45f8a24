package repositories_test

import (
	"context"
	"io"
	"testing"

	"github.com/myrjola/roteiros/internal/repositories"
	"github.com/myrjola/roteiros/internal/sqlite"
	"github.com/myrjola/roteiros/internal/testhelpers"
)

// newTestRepositories creates repositories backed by a fresh in-memory database with the default characters.
func newTestRepositories(t *testing.T) *repositories.Repositories {
	t.Helper()
	ctx, cancel := context.WithCancel(context.Background())
	logger := testhelpers.NewLogger(io.Discard)

	db, err := sqlite.NewDatabase(ctx, ":memory:", logger)
	if err != nil {
		cancel()
		t.Fatal(err)
	}

	t.Cleanup(func() {
		cancel()
		if err = db.Close(); err != nil {
			t.Fatal(err)
		}
	})

	return repositories.New(db, logger)
}
