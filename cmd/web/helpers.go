package main

import (
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/myrjola/roteiros/internal/ai"
	"github.com/myrjola/roteiros/internal/errors"
	"github.com/myrjola/roteiros/internal/export"
	"github.com/myrjola/roteiros/internal/models"
	"github.com/myrjola/roteiros/internal/repositories"
)

const maxBodyBytes = 4 << 20

var (
	errMalformedBody      = errors.NewSentinel("malformed request body")
	errGenerationInFlight = errors.NewSentinel("Já existe uma geração de roteiro em andamento para este episódio")
)

type errorBody struct {
	Error string `json:"error"`
}

func (app *application) writeJSON(w http.ResponseWriter, r *http.Request, status int, v any) {
	body, err := json.Marshal(v)
	if err != nil {
		app.serverError(w, r, errors.Wrap(err, "marshal response"))
		return
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_, _ = w.Write(body)
}

// readJSON decodes the request body into dst. An empty body leaves dst untouched when allowEmpty is set.
func (app *application) readJSON(w http.ResponseWriter, r *http.Request, dst any, allowEmpty bool) error {
	r.Body = http.MaxBytesReader(w, r.Body, maxBodyBytes)
	err := json.NewDecoder(r.Body).Decode(dst)
	switch {
	case err == nil:
		return nil
	case errors.Is(err, io.EOF) && allowEmpty:
		return nil
	default:
		return errors.Wrap(errMalformedBody, err.Error())
	}
}

func (app *application) serverError(w http.ResponseWriter, r *http.Request, err error) {
	app.logger.LogAttrs(r.Context(), slog.LevelError, "server error",
		slog.String("method", r.Method), slog.String("uri", r.URL.RequestURI()), errors.SlogError(err))
	body, _ := json.Marshal(errorBody{Error: http.StatusText(http.StatusInternalServerError)})
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusInternalServerError)
	_, _ = w.Write(body)
}

func (app *application) clientError(w http.ResponseWriter, r *http.Request, status int, msg string, err error) {
	app.logger.LogAttrs(r.Context(), slog.LevelDebug, http.StatusText(status),
		slog.String("method", r.Method), slog.String("uri", r.URL.RequestURI()), errors.SlogError(err))
	app.writeJSON(w, r, status, errorBody{Error: msg})
}

// errorResponse maps err to a status code and a message for the client. Unknown errors are server errors.
func (app *application) errorResponse(w http.ResponseWriter, r *http.Request, err error) {
	var validationErr *models.ValidationError
	switch {
	case errors.Is(err, repositories.ErrNotFound):
		app.clientError(w, r, http.StatusNotFound, repositories.ErrNotFound.Error(), err)
	case errors.Is(err, export.ErrNotFound):
		app.clientError(w, r, http.StatusNotFound, export.ErrNotFound.Error(), err)
	case errors.Is(err, repositories.ErrVersionConflict):
		app.clientError(w, r, http.StatusConflict, repositories.ErrVersionConflict.Error(), err)
	case errors.Is(err, models.ErrStatusRegression):
		app.clientError(w, r, http.StatusConflict, models.ErrStatusRegression.Error(), err)
	case errors.Is(err, errGenerationInFlight):
		app.clientError(w, r, http.StatusConflict, errGenerationInFlight.Error(), err)
	case errors.As(err, &validationErr):
		app.clientError(w, r, http.StatusUnprocessableEntity, validationErr.Message, err)
	case errors.Is(err, models.ErrValidation):
		app.clientError(w, r, http.StatusUnprocessableEntity, models.ErrValidation.Error(), err)
	case errors.Is(err, export.ErrNoEpisodesSelected):
		app.clientError(w, r, http.StatusBadRequest, export.ErrNoEpisodesSelected.Error(), err)
	case errors.Is(err, errMalformedBody):
		app.clientError(w, r, http.StatusBadRequest, err.Error(), err)
	case errors.Is(err, ai.ErrMissingAPIKey), errors.Is(err, ai.ErrUpstream):
		app.clientError(w, r, http.StatusBadRequest, scriptErrorMessage(err), err)
	default:
		app.serverError(w, r, err)
	}
}

// scriptErrorMessage returns the message shown when script generation fails.
func scriptErrorMessage(err error) string {
	var upstream *ai.UpstreamError
	switch {
	case errors.As(err, &upstream):
		return upstream.Message
	case errors.Is(err, ai.ErrMissingAPIKey):
		return ai.ErrMissingAPIKey.Error()
	default:
		return err.Error()
	}
}

func parseInt64(s string, name string) (int64, error) {
	n, err := strconv.ParseInt(s, 10, 64)
	if err != nil || n < 1 {
		return 0, errors.Wrap(models.NewValidationError("Parâmetro inválido: "+name), "parse int",
			slog.String("name", name), slog.String("value", s))
	}
	return n, nil
}
