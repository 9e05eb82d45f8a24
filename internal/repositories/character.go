package repositories

import (
	"context"
	"github.com/jmoiron/sqlx"
	"github.com/myrjola/roteiros/internal/errors"
	"github.com/myrjola/roteiros/internal/models"
	"github.com/myrjola/roteiros/internal/sqlite"
	"log/slog"
)

const characterColumns = `id, name, description, traits, role, avatar, version`

type CharacterRepository struct {
	db     *sqlite.Database
	logger *slog.Logger
}

func NewCharacterRepository(db *sqlite.Database, logger *slog.Logger) *CharacterRepository {
	return &CharacterRepository{
		db:     db,
		logger: logger.With("source", "CharacterRepository"),
	}
}

// List returns all characters in creation order.
func (r *CharacterRepository) List(ctx context.Context) ([]models.Character, error) {
	characters := []models.Character{}
	stmt := `SELECT ` + characterColumns + ` FROM characters ORDER BY position`
	if err := r.db.ReadOnly.SelectContext(ctx, &characters, stmt); err != nil {
		return nil, errors.Wrap(err, "select characters")
	}
	return characters, nil
}

func (r *CharacterRepository) Get(ctx context.Context, id string) (models.Character, error) {
	var character models.Character
	stmt := `SELECT ` + characterColumns + ` FROM characters WHERE id = ?`
	if err := r.db.ReadOnly.GetContext(ctx, &character, stmt, id); err != nil {
		return models.Character{}, notFoundOr(err, "get character", slog.String("characterID", id))
	}
	return character, nil
}

// Create stores c at the end of the list. An empty ID is replaced with a fresh one.
func (r *CharacterRepository) Create(ctx context.Context, c models.Character) (models.Character, error) {
	if c.ID == "" {
		c.ID = models.NewID("character")
	}
	c.Traits = c.Traits.Compact()
	c.Version = 1
	stmt := `INSERT INTO characters (id, name, description, traits, role, avatar, version, position)
VALUES (:id, :name, :description, :traits, :role, :avatar, :version,
        (SELECT COALESCE(MAX(position), 0) + 1 FROM characters))`
	if _, err := r.db.ReadWrite.NamedExecContext(ctx, stmt, c); err != nil {
		return models.Character{}, errors.Wrap(err, "insert character", slog.String("characterID", c.ID))
	}
	return c, nil
}

// Update overwrites the editable fields of the character. c.Version must match the stored version.
func (r *CharacterRepository) Update(ctx context.Context, c models.Character) (models.Character, error) {
	c.Traits = c.Traits.Compact()
	err := withTx(ctx, r.db, r.logger, func(tx *sqlx.Tx) error {
		stmt := `UPDATE characters
SET name = :name, description = :description, traits = :traits, role = :role, avatar = :avatar,
    version = version + 1
WHERE id = :id AND version = :version`
		res, err := tx.NamedExecContext(ctx, stmt, c)
		if err != nil {
			return errors.Wrap(err, "update character", slog.String("characterID", c.ID))
		}
		return checkUpdated(ctx, tx, res, "characters", c.ID)
	})
	if err != nil {
		return models.Character{}, err
	}
	c.Version++
	return c, nil
}

// Delete removes the character. Episodes keep referencing the ID, which then dangles.
func (r *CharacterRepository) Delete(ctx context.Context, id string) error {
	res, err := r.db.ReadWrite.ExecContext(ctx, `DELETE FROM characters WHERE id = ?`, id)
	if err != nil {
		return errors.Wrap(err, "delete character", slog.String("characterID", id))
	}
	n, err := res.RowsAffected()
	if err != nil {
		return errors.Wrap(err, "rows affected")
	}
	if n == 0 {
		return errors.Wrap(ErrNotFound, "delete character", slog.String("characterID", id))
	}
	return nil
}
