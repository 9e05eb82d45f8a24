// Package repositories reads and writes the records of the script drafting tool.
//
// Every mutable record carries a version. Updates present the version they read and fail with ErrVersionConflict
// when another write happened in between.
package repositories

import (
	"context"
	"database/sql"
	"github.com/jmoiron/sqlx"
	"github.com/myrjola/roteiros/internal/errors"
	"github.com/myrjola/roteiros/internal/sqlite"
	"log/slog"
	"time"
)

var (
	// ErrNotFound is returned when the requested record doesn't exist.
	ErrNotFound = errors.NewSentinel("not found")
	// ErrVersionConflict is returned when an update presents a stale version.
	ErrVersionConflict = errors.NewSentinel("record was modified by another request")
)

// Repositories bundles the repositories that share one database.
type Repositories struct {
	Characters  *CharacterRepository
	Episodes    *EpisodeRepository
	RawContents *RawContentRepository
	db          *sqlite.Database
}

// New creates the repositories backed by db.
func New(db *sqlite.Database, logger *slog.Logger) *Repositories {
	return &Repositories{
		Characters:  NewCharacterRepository(db, logger),
		Episodes:    NewEpisodeRepository(db, logger),
		RawContents: NewRawContentRepository(db, logger),
		db:          db,
	}
}

// Ping checks that both connection pools answer.
func (r *Repositories) Ping(ctx context.Context) error {
	if err := r.db.ReadOnly.PingContext(ctx); err != nil {
		return errors.Wrap(err, "ping read database")
	}
	if err := r.db.ReadWrite.PingContext(ctx); err != nil {
		return errors.Wrap(err, "ping read-write database")
	}
	return nil
}

func now() time.Time {
	return time.Now().UTC()
}

// withTx runs fn inside a read-write transaction and commits when fn succeeds.
func withTx(ctx context.Context, db *sqlite.Database, logger *slog.Logger, fn func(tx *sqlx.Tx) error) error {
	tx, err := db.ReadWrite.BeginTxx(ctx, nil)
	if err != nil {
		return errors.Wrap(err, "begin transaction")
	}
	defer func() {
		if rollbackErr := tx.Rollback(); rollbackErr != nil && !errors.Is(rollbackErr, sql.ErrTxDone) {
			logger.LogAttrs(ctx, slog.LevelError, "failed to roll back transaction",
				errors.SlogError(errors.Wrap(rollbackErr, "rollback")))
		}
	}()
	if err = fn(tx); err != nil {
		return err
	}
	if err = tx.Commit(); err != nil {
		return errors.Wrap(err, "commit transaction")
	}
	return nil
}

// notFoundOr converts sql.ErrNoRows into ErrNotFound.
func notFoundOr(err error, msg string, attrs ...slog.Attr) error {
	if errors.Is(err, sql.ErrNoRows) {
		return errors.Wrap(ErrNotFound, msg, attrs...)
	}
	return errors.Wrap(err, msg, attrs...)
}

// checkUpdated tells a stale version apart from a missing record after an UPDATE ... WHERE version = ? matched
// no rows.
func checkUpdated(ctx context.Context, tx *sqlx.Tx, res sql.Result, table string, id string) error {
	n, err := res.RowsAffected()
	if err != nil {
		return errors.Wrap(err, "rows affected")
	}
	if n > 0 {
		return nil
	}
	var exists bool
	//nolint:gosec // table is one of the package's own constants
	if err = tx.GetContext(ctx, &exists, "SELECT EXISTS (SELECT 1 FROM "+table+" WHERE id = ?)", id); err != nil {
		return errors.Wrap(err, "check existence")
	}
	if !exists {
		return errors.Wrap(ErrNotFound, "update", slog.String("table", table), slog.String("id", id))
	}
	return errors.Wrap(ErrVersionConflict, "update", slog.String("table", table), slog.String("id", id))
}
