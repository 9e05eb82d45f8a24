package main

import (
	"net/http"

	"github.com/myrjola/roteiros/internal/models"
)

type rawContentRequest struct {
	Name    string                `json:"name"`
	Type    models.RawContentType `json:"type"`
	Content string                `json:"content"`
}

func (app *application) listRawContents(w http.ResponseWriter, r *http.Request) {
	contents, err := app.repos.RawContents.List(r.Context())
	if err != nil {
		app.serverError(w, r, err)
		return
	}
	app.writeJSON(w, r, http.StatusOK, contents)
}

func (app *application) getRawContent(w http.ResponseWriter, r *http.Request) {
	content, err := app.repos.RawContents.Get(r.Context(), r.PathValue("id"))
	if err != nil {
		app.errorResponse(w, r, err)
		return
	}
	app.writeJSON(w, r, http.StatusOK, content)
}

func (app *application) createRawContent(w http.ResponseWriter, r *http.Request) {
	var req rawContentRequest
	if err := app.readJSON(w, r, &req, false); err != nil {
		app.errorResponse(w, r, err)
		return
	}
	content, err := app.repos.RawContents.Create(r.Context(), req.Name, req.Type, req.Content)
	if err != nil {
		app.errorResponse(w, r, err)
		return
	}
	app.writeJSON(w, r, http.StatusCreated, content)
}

func (app *application) deleteRawContent(w http.ResponseWriter, r *http.Request) {
	if err := app.repos.RawContents.Delete(r.Context(), r.PathValue("id")); err != nil {
		app.errorResponse(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
