package models_test

import (
	"github.com/myrjola/roteiros/internal/models"
	"github.com/stretchr/testify/require"
	"strings"
	"testing"
	"time"
)

func TestNewID(t *testing.T) {
	a := models.NewID("episode")
	b := models.NewID("episode")
	require.True(t, strings.HasPrefix(a, "episode-"))
	require.NotEqual(t, a, b)
}

func TestStringList(t *testing.T) {
	var nilList models.StringList
	v, err := nilList.Value()
	require.NoError(t, err)
	require.Equal(t, "[]", v)

	v, err = models.StringList{"Determinada", "Empática"}.Value()
	require.NoError(t, err)
	require.Equal(t, `["Determinada","Empática"]`, v)

	var scanned models.StringList
	require.NoError(t, scanned.Scan([]byte(`["a","b"]`)))
	require.Equal(t, models.StringList{"a", "b"}, scanned)
	require.NoError(t, scanned.Scan(nil))
	require.Equal(t, models.StringList{}, scanned)
	require.NoError(t, scanned.Scan("null"))
	require.Equal(t, models.StringList{}, scanned)
	require.Error(t, scanned.Scan(42))

	require.Equal(t, models.StringList{"um", "dois"}, models.StringList{" um ", "", "  ", "dois"}.Compact())
}

func TestEpisode_TransitionTo(t *testing.T) {
	tests := []struct {
		name    string
		current models.EpisodeStatus
		next    models.EpisodeStatus
		want    models.EpisodeStatus
		wantErr error
	}{
		{name: "draft stays draft", current: models.EpisodeStatusDraft, next: models.EpisodeStatusDraft,
			want: models.EpisodeStatusDraft},
		{name: "draft to completed", current: models.EpisodeStatusDraft, next: models.EpisodeStatusCompleted,
			want: models.EpisodeStatusCompleted},
		{name: "completed stays completed", current: models.EpisodeStatusCompleted,
			next: models.EpisodeStatusCompleted, want: models.EpisodeStatusCompleted},
		{name: "completed back to draft", current: models.EpisodeStatusCompleted, next: models.EpisodeStatusDraft,
			want: models.EpisodeStatusCompleted, wantErr: models.ErrStatusRegression},
		{name: "unknown status", current: models.EpisodeStatusDraft, next: "archived",
			want: models.EpisodeStatusDraft, wantErr: models.ErrValidation},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			episode := models.NewEpisode(time.Now())
			episode.Status = tt.current
			got, err := episode.TransitionTo(tt.next)
			if tt.wantErr != nil {
				require.ErrorIs(t, err, tt.wantErr)
			} else {
				require.NoError(t, err)
			}
			require.Equal(t, tt.want, got)
		})
	}
}

func TestEpisode_CompleteIsIdempotent(t *testing.T) {
	created := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	episode := models.NewEpisode(created)
	require.Equal(t, models.EpisodeStatusDraft, episode.Status)

	first := created.Add(time.Hour)
	episode.Complete(first)
	require.Equal(t, models.EpisodeStatusCompleted, episode.Status)
	require.Equal(t, first, episode.UpdatedAt)

	episode.Complete(first.Add(time.Hour))
	require.Equal(t, models.EpisodeStatusCompleted, episode.Status)
	require.Equal(t, first, episode.UpdatedAt, "second completion must not touch the record")
}

func TestFilterReferenced(t *testing.T) {
	characters := []models.Character{
		{ID: "madalena", Name: "Madalena (Madá)"},
		{ID: "americo", Name: "Américo"},
		{ID: "rafael", Name: "Rafael"},
	}
	selected := models.FilterReferenced(characters, []string{"rafael", "ghost", "madalena"})
	require.Len(t, selected, 2)
	require.Equal(t, "madalena", selected[0].ID, "character list order must be preserved")
	require.Equal(t, "rafael", selected[1].ID)

	require.Empty(t, models.FilterReferenced(characters, nil))
	require.Equal(t, []string{"ghost"}, models.MissingReferences(characters, []string{"rafael", "ghost", "madalena"}))
	require.Empty(t, models.MissingReferences(characters, []string{"americo"}))
}

func TestDetectRawContentType(t *testing.T) {
	tests := []struct {
		filename string
		want     models.RawContentType
	}{
		{filename: "apostila.pdf", want: models.RawContentTypePDF},
		{filename: "APOSTILA.PDF", want: models.RawContentTypePDF},
		{filename: "roteiro.txt", want: models.RawContentTypeScript},
		{filename: "roteiro.doc", want: models.RawContentTypeScript},
		{filename: "roteiro.docx", want: models.RawContentTypeScript},
		{filename: "aula.mp4", want: models.RawContentTypeVideo},
		{filename: "aula.avi", want: models.RawContentTypeVideo},
		{filename: "aula.mov", want: models.RawContentTypeVideo},
		{filename: "notas.md", want: models.RawContentTypeOther},
		{filename: "sem-extensao", want: models.RawContentTypeOther},
	}
	for _, tt := range tests {
		t.Run(tt.filename, func(t *testing.T) {
			require.Equal(t, tt.want, models.DetectRawContentType(tt.filename))
		})
	}
}

func TestNewRawContent(t *testing.T) {
	now := time.Now()

	_, err := models.NewRawContent("  ", models.RawContentTypeOther, "texto", now)
	require.ErrorIs(t, err, models.ErrValidation)
	var validationErr *models.ValidationError
	require.ErrorAs(t, err, &validationErr)
	require.Equal(t, "Preencha o nome e o conteúdo", validationErr.Message)
	_, err = models.NewRawContent("nome", models.RawContentTypeOther, " \n ", now)
	require.ErrorIs(t, err, models.ErrValidation)
	_, err = models.NewRawContent("nome", "audio", "texto", now)
	require.ErrorIs(t, err, models.ErrValidation)

	// "e" followed by a combining acute accent normalises to a single "é".
	content, err := models.NewRawContent("transcricao.txt", "", "Defesa Civil é prevenção", now)
	require.NoError(t, err)
	require.True(t, strings.HasPrefix(content.ID, "content-"))
	require.Equal(t, models.RawContentTypeScript, content.Type)
	require.Equal(t, "Defesa Civil \u00e9 preven\u00e7\u00e3o", content.Content)
	require.Equal(t, now, content.UploadedAt)
	require.Equal(t, "Roteiro", content.Type.Label())
}
