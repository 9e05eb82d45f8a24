package repositories_test

import (
	"context"
	"testing"
	"time"

	"github.com/myrjola/roteiros/internal/errors"
	"github.com/myrjola/roteiros/internal/models"
	"github.com/myrjola/roteiros/internal/repositories"
	"github.com/stretchr/testify/require"
)

func createEpisode(t *testing.T, repos *repositories.Repositories, title string) models.Episode {
	t.Helper()
	e := models.NewEpisode(time.Now())
	e.Title = title
	created, err := repos.Episodes.Create(context.Background(), e)
	require.NoError(t, err)
	return created
}

func TestEpisodeRepository_Create(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	repos := newTestRepositories(t)

	first := createEpisode(t, repos, "Primeiro")
	second := createEpisode(t, repos, "Segundo")

	require.Equal(t, models.EpisodeStatusDraft, first.Status)
	require.Equal(t, int64(1), first.Version)
	require.NotEqual(t, first.ID, second.ID)

	episodes, err := repos.Episodes.List(ctx)
	require.NoError(t, err)
	require.Len(t, episodes, 2)
	require.Equal(t, []string{first.ID, second.ID}, []string{episodes[0].ID, episodes[1].ID})
	require.WithinDuration(t, first.CreatedAt, episodes[0].CreatedAt, time.Millisecond)
	require.Equal(t, models.StringList{}, episodes[0].Objectives)

	number, err := repos.Episodes.Number(ctx, second.ID)
	require.NoError(t, err)
	require.Equal(t, 2, number)

	_, err = repos.Episodes.Number(ctx, "episode-missing")
	require.ErrorIs(t, err, repositories.ErrNotFound)
}

func TestEpisodeRepository_Update(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	repos := newTestRepositories(t)
	episode := createEpisode(t, repos, "Rascunho")

	edit := episode
	edit.Title = "Enchente no Feri"
	edit.Objectives = models.StringList{"Reconhecer sinais de risco"}
	edit.Characters = models.StringList{"madalena", "americo"}
	edit.LearningOutcome = "Saber quando evacuar"
	updated, err := repos.Episodes.Update(ctx, edit)
	require.NoError(t, err)
	require.Equal(t, int64(2), updated.Version)
	require.False(t, updated.UpdatedAt.Before(episode.UpdatedAt))

	got, err := repos.Episodes.Get(ctx, episode.ID)
	require.NoError(t, err)
	require.Equal(t, "Enchente no Feri", got.Title)
	require.Equal(t, models.StringList{"madalena", "americo"}, got.Characters)
	require.Equal(t, "Saber quando evacuar", got.LearningOutcome)

	t.Run("stale version", func(t *testing.T) {
		_, err = repos.Episodes.Update(ctx, edit)
		require.ErrorIs(t, err, repositories.ErrVersionConflict)
	})

	t.Run("status regression", func(t *testing.T) {
		completed, err := repos.Episodes.Complete(ctx, episode.ID)
		require.NoError(t, err)
		require.Equal(t, models.EpisodeStatusCompleted, completed.Status)

		again, err := repos.Episodes.Complete(ctx, episode.ID)
		require.NoError(t, err)
		require.Equal(t, completed.Version, again.Version, "completing twice changes nothing")

		completed.Status = models.EpisodeStatusDraft
		_, err = repos.Episodes.Update(ctx, completed)
		require.ErrorIs(t, err, models.ErrStatusRegression)
	})

	t.Run("manual script edit records revision", func(t *testing.T) {
		current, err := repos.Episodes.Get(ctx, episode.ID)
		require.NoError(t, err)
		current.Script = "# Roteiro editado"
		_, err = repos.Episodes.Update(ctx, current)
		require.NoError(t, err)

		revisions, err := repos.Episodes.ListRevisions(ctx, episode.ID)
		require.NoError(t, err)
		require.Len(t, revisions, 1)
		require.Equal(t, models.ScriptSourceManual, revisions[0].Source)
		require.Equal(t, "# Roteiro editado", revisions[0].Script)
	})
}

func TestEpisodeRepository_SaveScript(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	repos := newTestRepositories(t)
	episode := createEpisode(t, repos, "Deslizamento")

	saved, rev1, err := repos.Episodes.SaveScript(ctx, episode.ID, episode.Version, "v1", models.ScriptSourceTemplate)
	require.NoError(t, err)
	require.Equal(t, "v1", saved.Script)
	require.Equal(t, int64(1), rev1.Revision)

	_, _, err = repos.Episodes.SaveScript(ctx, episode.ID, episode.Version, "stale", models.ScriptSourceAI)
	require.ErrorIs(t, err, repositories.ErrVersionConflict)

	_, rev2, err := repos.Episodes.SaveScript(ctx, episode.ID, saved.Version, "v2", models.ScriptSourceAI)
	require.NoError(t, err)
	require.Equal(t, int64(2), rev2.Revision)

	got, err := repos.Episodes.GetRevision(ctx, episode.ID, 1)
	require.NoError(t, err)
	require.Equal(t, "v1", got.Script)
	require.Equal(t, models.ScriptSourceTemplate, got.Source)

	_, err = repos.Episodes.GetRevision(ctx, episode.ID, 3)
	require.ErrorIs(t, err, repositories.ErrNotFound)

	// Revisions go away with the episode.
	require.NoError(t, repos.Episodes.Delete(ctx, episode.ID))
	_, err = repos.Episodes.ListRevisions(ctx, episode.ID)
	require.ErrorIs(t, err, repositories.ErrNotFound)
	_, err = repos.Episodes.GetRevision(ctx, episode.ID, 1)
	require.ErrorIs(t, err, repositories.ErrNotFound)
}

func TestEpisodeRepository_ResolveCharacters(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	repos := newTestRepositories(t)

	episode := models.NewEpisode(time.Now())
	episode.Characters = models.StringList{"rafael", "madalena"}

	characters, err := repos.Episodes.ResolveCharacters(ctx, episode)
	require.NoError(t, err)
	require.Len(t, characters, 2)
	require.Equal(t, "madalena", characters[0].ID, "character list order wins")
	require.Equal(t, "rafael", characters[1].ID)

	require.NoError(t, repos.Characters.Delete(ctx, "rafael"))
	characters, err = repos.Episodes.ResolveCharacters(ctx, episode)
	require.ErrorIs(t, err, models.ErrDanglingReference)
	var dangling *repositories.DanglingReferenceError
	require.True(t, errors.As(err, &dangling))
	require.Equal(t, []string{"rafael"}, dangling.Missing)
	require.Len(t, characters, 1)
	require.Equal(t, "madalena", characters[0].ID)
}

func TestEpisodeRepository_Dashboard(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	repos := newTestRepositories(t)

	dashboard, err := repos.Episodes.Dashboard(ctx)
	require.NoError(t, err)
	require.Equal(t, 0, dashboard.Total)
	require.Empty(t, dashboard.Recent)

	titles := []string{"Um", "Dois", "Três", "Quatro"}
	var ids []string
	for _, title := range titles {
		ids = append(ids, createEpisode(t, repos, title).ID)
	}
	_, err = repos.Episodes.Complete(ctx, ids[1])
	require.NoError(t, err)

	dashboard, err = repos.Episodes.Dashboard(ctx)
	require.NoError(t, err)
	require.Equal(t, 4, dashboard.Total)
	require.Equal(t, 1, dashboard.Completed)
	require.Equal(t, 3, dashboard.Drafts)
	require.Len(t, dashboard.Recent, 3)
	require.Equal(t, "Um", dashboard.Recent[0].Title)
	require.Equal(t, "Três", dashboard.Recent[2].Title)
}
