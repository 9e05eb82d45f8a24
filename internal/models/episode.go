package models

import (
	"github.com/myrjola/roteiros/internal/errors"
	"log/slog"
	"strings"
	"time"
)

type EpisodeStatus string

const (
	EpisodeStatusDraft     EpisodeStatus = "draft"
	EpisodeStatusCompleted EpisodeStatus = "completed"
)

// Valid reports whether s is one of the known statuses.
func (s EpisodeStatus) Valid() bool {
	return s == EpisodeStatusDraft || s == EpisodeStatusCompleted
}

// Episode is one unit of scripted content with narrative and pedagogical metadata.
type Episode struct {
	ID              string        `db:"id"               json:"id"`
	Title           string        `db:"title"            json:"title"`
	Description     string        `db:"description"      json:"description"`
	Objectives      StringList    `db:"objectives"       json:"objectives"`
	Theme           string        `db:"theme"            json:"theme"`
	Characters      StringList    `db:"characters"       json:"characters"`
	Conflict        string        `db:"conflict"         json:"conflict"`
	LearningOutcome string        `db:"learning_outcome" json:"learningOutcome"`
	Cliffhanger     string        `db:"cliffhanger"      json:"cliffhanger"`
	Script          string        `db:"script"           json:"script,omitempty"`
	Status          EpisodeStatus `db:"status"           json:"status"`
	CreatedAt       time.Time     `db:"created_at"       json:"createdAt"`
	UpdatedAt       time.Time     `db:"updated_at"       json:"updatedAt"`
	// Version is the optimistic concurrency token. Updates must present the version they read.
	Version int64 `db:"version" json:"version"`
}

// NewEpisode returns a blank draft created at now.
func NewEpisode(now time.Time) Episode {
	return Episode{
		ID:              NewID("episode"),
		Title:           "",
		Description:     "",
		Objectives:      StringList{},
		Theme:           "",
		Characters:      StringList{},
		Conflict:        "",
		LearningOutcome: "",
		Cliffhanger:     "",
		Script:          "",
		Status:          EpisodeStatusDraft,
		CreatedAt:       now,
		UpdatedAt:       now,
		Version:         0,
	}
}

// TransitionTo returns the status the episode ends up in when next is requested.
//
// Draft may move to completed, completed stays completed. Returns ErrStatusRegression when a completed episode would
// move back to draft.
func (e Episode) TransitionTo(next EpisodeStatus) (EpisodeStatus, error) {
	if !next.Valid() {
		return e.Status, errors.Wrap(NewValidationError("Status desconhecido"), "transition status",
			slog.String("status", string(next)))
	}
	if e.Status == EpisodeStatusCompleted && next == EpisodeStatusDraft {
		return e.Status, errors.Wrap(ErrStatusRegression, "transition status", slog.String("episodeID", e.ID))
	}
	return next, nil
}

// Complete marks the episode completed. Calling it on a completed episode is a no-op.
func (e *Episode) Complete(now time.Time) {
	if e.Status == EpisodeStatusCompleted {
		return
	}
	e.Status = EpisodeStatusCompleted
	e.UpdatedAt = now
}

// DisplayTitle returns the title or "Sem título" when the title is blank.
func (e Episode) DisplayTitle() string {
	if strings.TrimSpace(e.Title) == "" {
		return "Sem título"
	}
	return e.Title
}
