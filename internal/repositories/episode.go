package repositories

import (
	"context"
	"fmt"
	"github.com/jmoiron/sqlx"
	"github.com/myrjola/roteiros/internal/errors"
	"github.com/myrjola/roteiros/internal/models"
	"github.com/myrjola/roteiros/internal/sqlite"
	"log/slog"
	"strings"
)

const episodeColumns = `id, title, description, objectives, theme, characters, conflict, learning_outcome, cliffhanger,
       script, status, created_at, updated_at, version`

// DanglingReferenceError lists the character IDs of an episode that no longer match any character.
type DanglingReferenceError struct {
	EpisodeID string
	Missing   []string
}

func (e *DanglingReferenceError) Error() string {
	return fmt.Sprintf("episode %s references unknown characters: %s", e.EpisodeID, strings.Join(e.Missing, ", "))
}

func (e *DanglingReferenceError) Unwrap() error {
	return models.ErrDanglingReference
}

// Dashboard summarises the episodes for the start page.
type Dashboard struct {
	Total     int              `json:"total"`
	Completed int              `json:"completed"`
	Drafts    int              `json:"drafts"`
	Recent    []models.Episode `json:"recent"`
}

const dashboardRecentLimit = 3

type EpisodeRepository struct {
	db     *sqlite.Database
	logger *slog.Logger
}

func NewEpisodeRepository(db *sqlite.Database, logger *slog.Logger) *EpisodeRepository {
	return &EpisodeRepository{
		db:     db,
		logger: logger.With("source", "EpisodeRepository"),
	}
}

// List returns all episodes in creation order.
func (r *EpisodeRepository) List(ctx context.Context) ([]models.Episode, error) {
	episodes := []models.Episode{}
	stmt := `SELECT ` + episodeColumns + ` FROM episodes ORDER BY position`
	if err := r.db.ReadOnly.SelectContext(ctx, &episodes, stmt); err != nil {
		return nil, errors.Wrap(err, "select episodes")
	}
	return episodes, nil
}

func (r *EpisodeRepository) Get(ctx context.Context, id string) (models.Episode, error) {
	var episode models.Episode
	stmt := `SELECT ` + episodeColumns + ` FROM episodes WHERE id = ?`
	if err := r.db.ReadOnly.GetContext(ctx, &episode, stmt, id); err != nil {
		return models.Episode{}, notFoundOr(err, "get episode", slog.String("episodeID", id))
	}
	return episode, nil
}

// Number returns the 1-based position of the episode in creation order.
func (r *EpisodeRepository) Number(ctx context.Context, id string) (int, error) {
	var number int
	stmt := `SELECT COUNT(*) FROM episodes WHERE position <= (SELECT position FROM episodes WHERE id = ?)`
	if err := r.db.ReadOnly.GetContext(ctx, &number, stmt, id); err != nil {
		return 0, errors.Wrap(err, "count episodes", slog.String("episodeID", id))
	}
	if number == 0 {
		return 0, errors.Wrap(ErrNotFound, "episode number", slog.String("episodeID", id))
	}
	return number, nil
}

// Create stores a new draft episode at the end of the list.
//
// The fields of e are used as the initial content. ID, timestamps, status and version are assigned here.
func (r *EpisodeRepository) Create(ctx context.Context, e models.Episode) (models.Episode, error) {
	fresh := models.NewEpisode(now())
	e.ID = fresh.ID
	e.Status = fresh.Status
	e.CreatedAt = fresh.CreatedAt
	e.UpdatedAt = fresh.UpdatedAt
	e.Version = 1
	if e.Objectives == nil {
		e.Objectives = models.StringList{}
	}
	if e.Characters == nil {
		e.Characters = models.StringList{}
	}
	stmt := `INSERT INTO episodes (id, title, description, objectives, theme, characters, conflict, learning_outcome,
                      cliffhanger, script, status, created_at, updated_at, version, position)
VALUES (:id, :title, :description, :objectives, :theme, :characters, :conflict, :learning_outcome,
        :cliffhanger, :script, :status, :created_at, :updated_at, :version,
        (SELECT COALESCE(MAX(position), 0) + 1 FROM episodes))`
	if _, err := r.db.ReadWrite.NamedExecContext(ctx, stmt, e); err != nil {
		return models.Episode{}, errors.Wrap(err, "insert episode", slog.String("episodeID", e.ID))
	}
	return e, nil
}

// Update overwrites the editable fields of the episode. e.Version must match the stored version.
//
// A completed episode can't return to draft. A changed non-empty script is recorded as a manual revision.
func (r *EpisodeRepository) Update(ctx context.Context, e models.Episode) (models.Episode, error) {
	var updated models.Episode
	err := withTx(ctx, r.db, r.logger, func(tx *sqlx.Tx) error {
		current, err := r.getTx(ctx, tx, e.ID)
		if err != nil {
			return err
		}
		if current.Version != e.Version {
			return errors.Wrap(ErrVersionConflict, "update episode",
				slog.String("episodeID", e.ID),
				slog.Int64("version", e.Version),
				slog.Int64("currentVersion", current.Version))
		}
		if e.Status == "" {
			e.Status = current.Status
		}
		if e.Status, err = current.TransitionTo(e.Status); err != nil {
			return errors.Wrap(err, "update episode")
		}
		e.CreatedAt = current.CreatedAt
		e.UpdatedAt = now()
		if e.Objectives == nil {
			e.Objectives = models.StringList{}
		}
		if e.Characters == nil {
			e.Characters = models.StringList{}
		}
		stmt := `UPDATE episodes
SET title = :title, description = :description, objectives = :objectives, theme = :theme,
    characters = :characters, conflict = :conflict, learning_outcome = :learning_outcome,
    cliffhanger = :cliffhanger, script = :script, status = :status, updated_at = :updated_at,
    version = version + 1
WHERE id = :id AND version = :version`
		res, err := tx.NamedExecContext(ctx, stmt, e)
		if err != nil {
			return errors.Wrap(err, "update episode", slog.String("episodeID", e.ID))
		}
		if err = checkUpdated(ctx, tx, res, "episodes", e.ID); err != nil {
			return err
		}
		if e.Script != current.Script && strings.TrimSpace(e.Script) != "" {
			if _, err = r.addRevisionTx(ctx, tx, e.ID, e.Script, models.ScriptSourceManual); err != nil {
				return err
			}
		}
		e.Version++
		updated = e
		return nil
	})
	if err != nil {
		return models.Episode{}, err
	}
	return updated, nil
}

// Complete marks the episode completed. Completing an already completed episode changes nothing.
func (r *EpisodeRepository) Complete(ctx context.Context, id string) (models.Episode, error) {
	var completed models.Episode
	err := withTx(ctx, r.db, r.logger, func(tx *sqlx.Tx) error {
		episode, err := r.getTx(ctx, tx, id)
		if err != nil {
			return err
		}
		if episode.Status == models.EpisodeStatusCompleted {
			completed = episode
			return nil
		}
		episode.Complete(now())
		stmt := `UPDATE episodes SET status = :status, updated_at = :updated_at, version = version + 1
WHERE id = :id AND version = :version`
		res, err := tx.NamedExecContext(ctx, stmt, episode)
		if err != nil {
			return errors.Wrap(err, "complete episode", slog.String("episodeID", id))
		}
		if err = checkUpdated(ctx, tx, res, "episodes", id); err != nil {
			return err
		}
		episode.Version++
		completed = episode
		return nil
	})
	if err != nil {
		return models.Episode{}, err
	}
	return completed, nil
}

// Delete removes the episode together with its script revisions.
func (r *EpisodeRepository) Delete(ctx context.Context, id string) error {
	res, err := r.db.ReadWrite.ExecContext(ctx, `DELETE FROM episodes WHERE id = ?`, id)
	if err != nil {
		return errors.Wrap(err, "delete episode", slog.String("episodeID", id))
	}
	n, err := res.RowsAffected()
	if err != nil {
		return errors.Wrap(err, "rows affected")
	}
	if n == 0 {
		return errors.Wrap(ErrNotFound, "delete episode", slog.String("episodeID", id))
	}
	return nil
}

// ResolveCharacters returns the characters referenced by the episode in character list order.
//
// When some references dangle, the resolvable characters are returned together with a *DanglingReferenceError.
func (r *EpisodeRepository) ResolveCharacters(ctx context.Context, e models.Episode) ([]models.Character, error) {
	characters := []models.Character{}
	stmt := `SELECT ` + characterColumns + ` FROM characters ORDER BY position`
	if err := r.db.ReadOnly.SelectContext(ctx, &characters, stmt); err != nil {
		return nil, errors.Wrap(err, "select characters")
	}
	selected := models.FilterReferenced(characters, e.Characters)
	if missing := models.MissingReferences(characters, e.Characters); len(missing) > 0 {
		return selected, &DanglingReferenceError{EpisodeID: e.ID, Missing: missing}
	}
	return selected, nil
}

// SaveScript stores a generated script into the episode and records it as a new revision.
//
// version must match the stored version of the episode.
func (r *EpisodeRepository) SaveScript(
	ctx context.Context,
	id string,
	version int64,
	script string,
	source models.ScriptSource,
) (models.Episode, models.ScriptRevision, error) {
	var (
		episode  models.Episode
		revision models.ScriptRevision
	)
	err := withTx(ctx, r.db, r.logger, func(tx *sqlx.Tx) error {
		var err error
		if episode, err = r.getTx(ctx, tx, id); err != nil {
			return err
		}
		if episode.Version != version {
			return errors.Wrap(ErrVersionConflict, "save script",
				slog.String("episodeID", id),
				slog.Int64("version", version),
				slog.Int64("currentVersion", episode.Version))
		}
		episode.Script = script
		episode.UpdatedAt = now()
		stmt := `UPDATE episodes SET script = :script, updated_at = :updated_at, version = version + 1
WHERE id = :id AND version = :version`
		res, err := tx.NamedExecContext(ctx, stmt, episode)
		if err != nil {
			return errors.Wrap(err, "save script", slog.String("episodeID", id))
		}
		if err = checkUpdated(ctx, tx, res, "episodes", id); err != nil {
			return err
		}
		episode.Version++
		revision, err = r.addRevisionTx(ctx, tx, id, script, source)
		return err
	})
	if err != nil {
		return models.Episode{}, models.ScriptRevision{}, err
	}
	return episode, revision, nil
}

// ListRevisions returns the script revisions of the episode, oldest first.
func (r *EpisodeRepository) ListRevisions(ctx context.Context, episodeID string) ([]models.ScriptRevision, error) {
	if _, err := r.Get(ctx, episodeID); err != nil {
		return nil, err
	}
	revisions := []models.ScriptRevision{}
	stmt := `SELECT episode_id, revision, script, source, created_at
FROM script_revisions
WHERE episode_id = ?
ORDER BY revision`
	if err := r.db.ReadOnly.SelectContext(ctx, &revisions, stmt, episodeID); err != nil {
		return nil, errors.Wrap(err, "select revisions", slog.String("episodeID", episodeID))
	}
	return revisions, nil
}

func (r *EpisodeRepository) GetRevision(
	ctx context.Context,
	episodeID string,
	revision int64,
) (models.ScriptRevision, error) {
	var rev models.ScriptRevision
	stmt := `SELECT episode_id, revision, script, source, created_at
FROM script_revisions
WHERE episode_id = ? AND revision = ?`
	if err := r.db.ReadOnly.GetContext(ctx, &rev, stmt, episodeID, revision); err != nil {
		return models.ScriptRevision{}, notFoundOr(err, "get revision",
			slog.String("episodeID", episodeID), slog.Int64("revision", revision))
	}
	return rev, nil
}

func (r *EpisodeRepository) Dashboard(ctx context.Context) (Dashboard, error) {
	dashboard := Dashboard{Total: 0, Completed: 0, Drafts: 0, Recent: []models.Episode{}}
	stmt := `SELECT COUNT(*) AS total,
       COUNT(*) FILTER (WHERE status = 'completed') AS completed,
       COUNT(*) FILTER (WHERE status = 'draft') AS drafts
FROM episodes`
	if err := r.db.ReadOnly.QueryRowxContext(ctx, stmt).Scan(
		&dashboard.Total, &dashboard.Completed, &dashboard.Drafts); err != nil {
		return Dashboard{}, errors.Wrap(err, "count episodes")
	}
	stmt = `SELECT ` + episodeColumns + ` FROM episodes ORDER BY position LIMIT ?`
	if err := r.db.ReadOnly.SelectContext(ctx, &dashboard.Recent, stmt, dashboardRecentLimit); err != nil {
		return Dashboard{}, errors.Wrap(err, "select recent episodes")
	}
	return dashboard, nil
}

func (r *EpisodeRepository) getTx(ctx context.Context, tx *sqlx.Tx, id string) (models.Episode, error) {
	var episode models.Episode
	stmt := `SELECT ` + episodeColumns + ` FROM episodes WHERE id = ?`
	if err := tx.GetContext(ctx, &episode, stmt, id); err != nil {
		return models.Episode{}, notFoundOr(err, "get episode", slog.String("episodeID", id))
	}
	return episode, nil
}

func (r *EpisodeRepository) addRevisionTx(
	ctx context.Context,
	tx *sqlx.Tx,
	episodeID string,
	script string,
	source models.ScriptSource,
) (models.ScriptRevision, error) {
	revision := models.ScriptRevision{
		EpisodeID: episodeID,
		Revision:  0,
		Script:    script,
		Source:    source,
		CreatedAt: now(),
	}
	stmt := `SELECT COALESCE(MAX(revision), 0) + 1 FROM script_revisions WHERE episode_id = ?`
	if err := tx.GetContext(ctx, &revision.Revision, stmt, episodeID); err != nil {
		return models.ScriptRevision{}, errors.Wrap(err, "next revision", slog.String("episodeID", episodeID))
	}
	stmt = `INSERT INTO script_revisions (episode_id, revision, script, source, created_at)
VALUES (:episode_id, :revision, :script, :source, :created_at)`
	if _, err := tx.NamedExecContext(ctx, stmt, revision); err != nil {
		return models.ScriptRevision{}, errors.Wrap(err, "insert revision", slog.String("episodeID", episodeID))
	}
	return revision, nil
}
