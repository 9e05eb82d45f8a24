package main

import (
	"context"
	"log/slog"
	"os"
	"time"

	"github.com/myrjola/roteiros/internal/errors"
	"github.com/myrjola/roteiros/internal/sqlite"
	"github.com/myrjola/roteiros/internal/testhelpers"
)

func main() {
	logger := testhelpers.NewLogger(os.Stdout)
	var (
		err       error
		start     = time.Now()
		ctx       context.Context
		sqliteURL string
		ok        bool
		cancel    context.CancelFunc
	)
	ctx = context.Background()
	ctx, cancel = context.WithTimeout(ctx, 5*time.Second) //nolint:mnd // 5 seconds

	if sqliteURL, ok = os.LookupEnv("ROTEIROS_SQLITE_URL"); !ok {
		logger.LogAttrs(ctx, slog.LevelError, "ROTEIROS_SQLITE_URL not set")
		os.Exit(1)
	}

	var db *sqlite.Database
	if db, err = sqlite.NewDatabase(ctx, sqliteURL, logger); err != nil {
		logger.LogAttrs(ctx, slog.LevelError, "error creating database",
			slog.String("url", sqliteURL), errors.SlogError(err))
		os.Exit(1)
	}

	// Count the characters and episodes of the migrated copy as a simple smoke test. Characters are seeded, so an
	// empty table means the data didn't survive.
	var characters, episodes int
	if err = db.ReadOnly.GetContext(ctx, &characters, `SELECT COUNT(*) FROM characters`); err != nil {
		logger.LogAttrs(ctx, slog.LevelError, "error fetching character count", errors.SlogError(err))
		os.Exit(1)
	}
	if err = db.ReadOnly.GetContext(ctx, &episodes, `SELECT COUNT(*) FROM episodes`); err != nil {
		logger.LogAttrs(ctx, slog.LevelError, "error fetching episode count", errors.SlogError(err))
		os.Exit(1)
	}
	if characters == 0 {
		logger.LogAttrs(ctx, slog.LevelError, "no characters found, something is likely wrong")
		os.Exit(1)
	}
	logger.LogAttrs(ctx, slog.LevelInfo, "row counts", slog.Int("characters", characters), slog.Int("episodes", episodes))

	if err = db.Close(); err != nil {
		logger.LogAttrs(ctx, slog.LevelError, "error closing database", errors.SlogError(err))
	}
	logger.LogAttrs(ctx, slog.LevelInfo, "Migration test successful 🙌", slog.Duration("duration", time.Since(start)))
	cancel()
	os.Exit(0)
}
