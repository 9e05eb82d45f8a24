package main

import (
	"net/http"

	"github.com/myrjola/roteiros/internal/diff"
	"github.com/myrjola/roteiros/internal/models"
)

func (app *application) dashboard(w http.ResponseWriter, r *http.Request) {
	dashboard, err := app.repos.Episodes.Dashboard(r.Context())
	if err != nil {
		app.serverError(w, r, err)
		return
	}
	app.writeJSON(w, r, http.StatusOK, dashboard)
}

func (app *application) listEpisodes(w http.ResponseWriter, r *http.Request) {
	episodes, err := app.repos.Episodes.List(r.Context())
	if err != nil {
		app.serverError(w, r, err)
		return
	}
	app.writeJSON(w, r, http.StatusOK, episodes)
}

func (app *application) getEpisode(w http.ResponseWriter, r *http.Request) {
	episode, err := app.repos.Episodes.Get(r.Context(), r.PathValue("id"))
	if err != nil {
		app.errorResponse(w, r, err)
		return
	}
	app.writeJSON(w, r, http.StatusOK, episode)
}

// createEpisode creates a blank draft. The body may carry initial field values.
func (app *application) createEpisode(w http.ResponseWriter, r *http.Request) {
	episode := models.NewEpisode(app.now())
	if err := app.readJSON(w, r, &episode, true); err != nil {
		app.errorResponse(w, r, err)
		return
	}
	created, err := app.repos.Episodes.Create(r.Context(), episode)
	if err != nil {
		app.errorResponse(w, r, err)
		return
	}
	app.writeJSON(w, r, http.StatusCreated, created)
}

func (app *application) updateEpisode(w http.ResponseWriter, r *http.Request) {
	var episode models.Episode
	if err := app.readJSON(w, r, &episode, false); err != nil {
		app.errorResponse(w, r, err)
		return
	}
	episode.ID = r.PathValue("id")
	updated, err := app.repos.Episodes.Update(r.Context(), episode)
	if err != nil {
		app.errorResponse(w, r, err)
		return
	}
	app.writeJSON(w, r, http.StatusOK, updated)
}

func (app *application) completeEpisode(w http.ResponseWriter, r *http.Request) {
	episode, err := app.repos.Episodes.Complete(r.Context(), r.PathValue("id"))
	if err != nil {
		app.errorResponse(w, r, err)
		return
	}
	app.writeJSON(w, r, http.StatusOK, episode)
}

func (app *application) deleteEpisode(w http.ResponseWriter, r *http.Request) {
	if err := app.repos.Episodes.Delete(r.Context(), r.PathValue("id")); err != nil {
		app.errorResponse(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (app *application) listRevisions(w http.ResponseWriter, r *http.Request) {
	revisions, err := app.repos.Episodes.ListRevisions(r.Context(), r.PathValue("id"))
	if err != nil {
		app.errorResponse(w, r, err)
		return
	}
	app.writeJSON(w, r, http.StatusOK, revisions)
}

func (app *application) getRevision(w http.ResponseWriter, r *http.Request) {
	number, err := parseInt64(r.PathValue("revision"), "revision")
	if err != nil {
		app.errorResponse(w, r, err)
		return
	}
	revision, err := app.repos.Episodes.GetRevision(r.Context(), r.PathValue("id"), number)
	if err != nil {
		app.errorResponse(w, r, err)
		return
	}
	app.writeJSON(w, r, http.StatusOK, revision)
}

type diffResponse struct {
	From    int64  `json:"from"`
	To      int64  `json:"to"`
	Unified string `json:"unified"`
	diff.Result
}

// diffRevisions compares the revisions given in the from and to query parameters.
func (app *application) diffRevisions(w http.ResponseWriter, r *http.Request) {
	var (
		ctx       = r.Context()
		episodeID = r.PathValue("id")
		query     = r.URL.Query()
	)
	from, err := parseInt64(query.Get("from"), "from")
	if err != nil {
		app.errorResponse(w, r, err)
		return
	}
	to, err := parseInt64(query.Get("to"), "to")
	if err != nil {
		app.errorResponse(w, r, err)
		return
	}
	older, err := app.repos.Episodes.GetRevision(ctx, episodeID, from)
	if err != nil {
		app.errorResponse(w, r, err)
		return
	}
	newer, err := app.repos.Episodes.GetRevision(ctx, episodeID, to)
	if err != nil {
		app.errorResponse(w, r, err)
		return
	}
	result := diff.Lines(older.Script, newer.Script)
	app.writeJSON(w, r, http.StatusOK, diffResponse{From: from, To: to, Unified: result.Unified(), Result: result})
}
