package main

import (
	"net/http"

	"github.com/myrjola/roteiros/internal/models"
)

func (app *application) listCharacters(w http.ResponseWriter, r *http.Request) {
	characters, err := app.repos.Characters.List(r.Context())
	if err != nil {
		app.serverError(w, r, err)
		return
	}
	app.writeJSON(w, r, http.StatusOK, characters)
}

func (app *application) getCharacter(w http.ResponseWriter, r *http.Request) {
	character, err := app.repos.Characters.Get(r.Context(), r.PathValue("id"))
	if err != nil {
		app.errorResponse(w, r, err)
		return
	}
	app.writeJSON(w, r, http.StatusOK, character)
}

func (app *application) createCharacter(w http.ResponseWriter, r *http.Request) {
	character := models.NewCharacter()
	if err := app.readJSON(w, r, &character, true); err != nil {
		app.errorResponse(w, r, err)
		return
	}
	character.ID = ""
	created, err := app.repos.Characters.Create(r.Context(), character)
	if err != nil {
		app.errorResponse(w, r, err)
		return
	}
	app.writeJSON(w, r, http.StatusCreated, created)
}

func (app *application) updateCharacter(w http.ResponseWriter, r *http.Request) {
	var character models.Character
	if err := app.readJSON(w, r, &character, false); err != nil {
		app.errorResponse(w, r, err)
		return
	}
	character.ID = r.PathValue("id")
	updated, err := app.repos.Characters.Update(r.Context(), character)
	if err != nil {
		app.errorResponse(w, r, err)
		return
	}
	app.writeJSON(w, r, http.StatusOK, updated)
}

func (app *application) deleteCharacter(w http.ResponseWriter, r *http.Request) {
	if err := app.repos.Characters.Delete(r.Context(), r.PathValue("id")); err != nil {
		app.errorResponse(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
