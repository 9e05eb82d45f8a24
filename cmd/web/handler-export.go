package main

import (
	"crypto/sha256"
	"encoding/base64"
	"fmt"
	"log/slog"
	"net/http"

	"github.com/myrjola/roteiros/internal/export"
)

type exportRequest struct {
	EpisodeIDs []string      `json:"episodeIds"`
	Format     export.Format `json:"format"`
}

// printPageCSP allows the inline styles and the print script of the print page and nothing else.
var printPageCSP = func() string {
	sum := sha256.Sum256([]byte(export.PrintScript))
	return fmt.Sprintf("default-src 'none'; style-src 'unsafe-inline'; script-src 'sha256-%s'",
		base64.StdEncoding.EncodeToString(sum[:]))
}()

// export serves the combined Markdown file as a download or the print page for PDF export.
func (app *application) export(w http.ResponseWriter, r *http.Request) {
	req := exportRequest{EpisodeIDs: nil, Format: export.FormatMarkdown}
	if err := app.readJSON(w, r, &req, false); err != nil {
		app.errorResponse(w, r, err)
		return
	}

	ctx := r.Context()
	episodes, err := app.repos.Episodes.List(ctx)
	if err != nil {
		app.serverError(w, r, err)
		return
	}
	characters, err := app.repos.Characters.List(ctx)
	if err != nil {
		app.serverError(w, r, err)
		return
	}

	doc, err := export.Export(episodes, characters, req.EpisodeIDs, req.Format, app.now())
	if err != nil {
		app.errorResponse(w, r, err)
		return
	}

	w.Header().Set("Content-Type", doc.ContentType)
	if req.Format == export.FormatPDF {
		w.Header().Set("Content-Security-Policy", printPageCSP)
		w.Header().Set("Content-Disposition", fmt.Sprintf("inline; filename=%q", doc.Filename))
	} else {
		w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", doc.Filename))
	}
	app.logger.LogAttrs(ctx, slog.LevelInfo, "exported episodes",
		slog.String("format", string(req.Format)), slog.Int("episodes", doc.Episodes))
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte(doc.Body))
}
