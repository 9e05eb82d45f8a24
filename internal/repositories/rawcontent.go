package repositories

import (
	"context"
	"github.com/myrjola/roteiros/internal/errors"
	"github.com/myrjola/roteiros/internal/models"
	"github.com/myrjola/roteiros/internal/sqlite"
	"log/slog"
)

const rawContentColumns = `id, name, type, content, uploaded_at`

type RawContentRepository struct {
	db     *sqlite.Database
	logger *slog.Logger
}

func NewRawContentRepository(db *sqlite.Database, logger *slog.Logger) *RawContentRepository {
	return &RawContentRepository{
		db:     db,
		logger: logger.With("source", "RawContentRepository"),
	}
}

// List returns the imported raw content in upload order.
func (r *RawContentRepository) List(ctx context.Context) ([]models.RawContent, error) {
	contents := []models.RawContent{}
	stmt := `SELECT ` + rawContentColumns + ` FROM raw_contents ORDER BY position`
	if err := r.db.ReadOnly.SelectContext(ctx, &contents, stmt); err != nil {
		return nil, errors.Wrap(err, "select raw contents")
	}
	return contents, nil
}

func (r *RawContentRepository) Get(ctx context.Context, id string) (models.RawContent, error) {
	var content models.RawContent
	stmt := `SELECT ` + rawContentColumns + ` FROM raw_contents WHERE id = ?`
	if err := r.db.ReadOnly.GetContext(ctx, &content, stmt, id); err != nil {
		return models.RawContent{}, notFoundOr(err, "get raw content", slog.String("contentID", id))
	}
	return content, nil
}

// Create validates and stores new raw content. See [models.NewRawContent] for the rules.
func (r *RawContentRepository) Create(
	ctx context.Context,
	name string,
	contentType models.RawContentType,
	content string,
) (models.RawContent, error) {
	rc, err := models.NewRawContent(name, contentType, content, now())
	if err != nil {
		return models.RawContent{}, errors.Wrap(err, "new raw content")
	}
	stmt := `INSERT INTO raw_contents (id, name, type, content, uploaded_at, position)
VALUES (:id, :name, :type, :content, :uploaded_at, (SELECT COALESCE(MAX(position), 0) + 1 FROM raw_contents))`
	if _, err = r.db.ReadWrite.NamedExecContext(ctx, stmt, rc); err != nil {
		return models.RawContent{}, errors.Wrap(err, "insert raw content", slog.String("contentID", rc.ID))
	}
	r.logger.LogAttrs(ctx, slog.LevelInfo, "imported raw content",
		slog.String("contentID", rc.ID), slog.String("type", string(rc.Type)), slog.Int("bytes", len(rc.Content)))
	return rc, nil
}

func (r *RawContentRepository) Delete(ctx context.Context, id string) error {
	res, err := r.db.ReadWrite.ExecContext(ctx, `DELETE FROM raw_contents WHERE id = ?`, id)
	if err != nil {
		return errors.Wrap(err, "delete raw content", slog.String("contentID", id))
	}
	n, err := res.RowsAffected()
	if err != nil {
		return errors.Wrap(err, "rows affected")
	}
	if n == 0 {
		return errors.Wrap(ErrNotFound, "delete raw content", slog.String("contentID", id))
	}
	return nil
}
