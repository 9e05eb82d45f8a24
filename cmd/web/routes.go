package main

import (
	"net/http"

	"github.com/justinas/alice"
)

func (app *application) routes() http.Handler {
	mux := http.NewServeMux()

	api := alice.New(app.timeout(defaultTimeout))
	generate := alice.New(app.timeout(app.generateTimeout + defaultTimeout))

	mux.Handle("GET /api/healthy", api.ThenFunc(app.healthy))
	mux.Handle("GET /api/dashboard", api.ThenFunc(app.dashboard))

	mux.Handle("GET /api/characters", api.ThenFunc(app.listCharacters))
	mux.Handle("POST /api/characters", api.ThenFunc(app.createCharacter))
	mux.Handle("GET /api/characters/{id}", api.ThenFunc(app.getCharacter))
	mux.Handle("PUT /api/characters/{id}", api.ThenFunc(app.updateCharacter))
	mux.Handle("DELETE /api/characters/{id}", api.ThenFunc(app.deleteCharacter))

	mux.Handle("GET /api/episodes", api.ThenFunc(app.listEpisodes))
	mux.Handle("POST /api/episodes", api.ThenFunc(app.createEpisode))
	mux.Handle("GET /api/episodes/{id}", api.ThenFunc(app.getEpisode))
	mux.Handle("PUT /api/episodes/{id}", api.ThenFunc(app.updateEpisode))
	mux.Handle("DELETE /api/episodes/{id}", api.ThenFunc(app.deleteEpisode))
	mux.Handle("POST /api/episodes/{id}/complete", api.ThenFunc(app.completeEpisode))
	mux.Handle("POST /api/episodes/{id}/script", generate.ThenFunc(app.generateEpisodeScript))
	mux.Handle("GET /api/episodes/{id}/revisions", api.ThenFunc(app.listRevisions))
	mux.Handle("GET /api/episodes/{id}/revisions/{revision}", api.ThenFunc(app.getRevision))
	mux.Handle("GET /api/episodes/{id}/diff", api.ThenFunc(app.diffRevisions))

	mux.Handle("GET /api/raw-contents", api.ThenFunc(app.listRawContents))
	mux.Handle("POST /api/raw-contents", api.ThenFunc(app.createRawContent))
	mux.Handle("GET /api/raw-contents/{id}", api.ThenFunc(app.getRawContent))
	mux.Handle("DELETE /api/raw-contents/{id}", api.ThenFunc(app.deleteRawContent))

	mux.Handle("POST /api/generate-script", generate.ThenFunc(app.generateScript))
	mux.Handle("POST /api/export", api.ThenFunc(app.export))

	common := alice.New(app.recoverPanic, app.requestID, app.logRequest, cors, secureHeaders)
	return common.Then(mux)
}
