package main

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/myrjola/roteiros/internal/errors"
	"github.com/myrjola/roteiros/internal/models"
	"github.com/myrjola/roteiros/internal/repositories"
	"github.com/myrjola/roteiros/internal/script"
)

type generateScriptRequest struct {
	EpisodeData *script.Data `json:"episodeData"`
}

type generateScriptResponse struct {
	Script string `json:"script"`
}

// generateScript is the stateless script endpoint: it forwards the episode data to the completion API. Every
// failure is a 400 with the message in the error field.
func (app *application) generateScript(w http.ResponseWriter, r *http.Request) {
	var req generateScriptRequest
	if err := app.readJSON(w, r, &req, false); err != nil {
		app.clientError(w, r, http.StatusBadRequest, err.Error(), err)
		return
	}
	if req.EpisodeData == nil {
		err := errors.Wrap(errMalformedBody, "episodeData missing")
		app.clientError(w, r, http.StatusBadRequest, err.Error(), err)
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), app.generateTimeout)
	defer cancel()
	generated, err := app.aiClient.GenerateScript(ctx, *req.EpisodeData)
	if err != nil {
		app.clientError(w, r, http.StatusBadRequest, scriptErrorMessage(err), err)
		return
	}
	app.writeJSON(w, r, http.StatusOK, generateScriptResponse{Script: generated})
}

type episodeScriptRequest struct {
	Mode models.ScriptSource `json:"mode"`
	// Version is optional. When set it must match the stored episode version.
	Version int64 `json:"version"`
}

type episodeScriptResponse struct {
	Episode  models.Episode        `json:"episode"`
	Revision models.ScriptRevision `json:"revision"`
}

// generateEpisodeScript generates a script for a stored episode, saves it and records a revision. Only one
// generation per episode runs at a time.
func (app *application) generateEpisodeScript(w http.ResponseWriter, r *http.Request) {
	var (
		ctx       = r.Context()
		episodeID = r.PathValue("id")
		req       = episodeScriptRequest{Mode: models.ScriptSourceTemplate, Version: 0}
	)
	if err := app.readJSON(w, r, &req, true); err != nil {
		app.errorResponse(w, r, err)
		return
	}
	if req.Mode != models.ScriptSourceTemplate && req.Mode != models.ScriptSourceAI {
		app.errorResponse(w, r, errors.Wrap(models.NewValidationError("Modo de geração inválido"), "generate",
			slog.String("mode", string(req.Mode))))
		return
	}

	if !app.generating.TryAcquire(episodeID) {
		app.errorResponse(w, r, errors.Wrap(errGenerationInFlight, "acquire", slog.String("episodeID", episodeID)))
		return
	}
	defer app.generating.Release(episodeID)

	episode, err := app.repos.Episodes.Get(ctx, episodeID)
	if err != nil {
		app.errorResponse(w, r, err)
		return
	}
	if req.Version != 0 && req.Version != episode.Version {
		app.errorResponse(w, r, errors.Wrap(repositories.ErrVersionConflict, "generate",
			slog.String("episodeID", episodeID)))
		return
	}

	characters, err := app.repos.Episodes.ResolveCharacters(ctx, episode)
	if err != nil {
		if !errors.Is(err, models.ErrDanglingReference) {
			app.serverError(w, r, err)
			return
		}
		app.logger.LogAttrs(ctx, slog.LevelWarn, "episode references unknown characters",
			slog.String("episodeID", episodeID), errors.SlogError(err))
	}

	var generated string
	switch req.Mode {
	case models.ScriptSourceAI:
		aiCtx, cancel := context.WithTimeout(ctx, app.generateTimeout)
		defer cancel()
		if generated, err = app.aiClient.GenerateScript(aiCtx, script.ScriptData(episode, characters)); err != nil {
			app.errorResponse(w, r, err)
			return
		}
	case models.ScriptSourceTemplate, models.ScriptSourceManual:
		var number int
		if number, err = app.repos.Episodes.Number(ctx, episodeID); err != nil {
			app.errorResponse(w, r, err)
			return
		}
		generated = script.Generate(number, episode, characters)
	}

	saved, revision, err := app.repos.Episodes.SaveScript(ctx, episodeID, episode.Version, generated, req.Mode)
	if err != nil {
		app.errorResponse(w, r, err)
		return
	}
	app.logger.LogAttrs(ctx, slog.LevelInfo, "generated episode script",
		slog.String("episodeID", episodeID),
		slog.String("mode", string(req.Mode)),
		slog.Int64("revision", revision.Revision))
	app.writeJSON(w, r, http.StatusOK, episodeScriptResponse{Episode: saved, Revision: revision})
}
