// Package export combines episodes into one Markdown document and renders the print page used for PDF export.
package export

import (
	"fmt"
	"html"
	"log/slog"
	"maps"
	"regexp"
	"slices"
	"strings"
	"time"

	"github.com/myrjola/roteiros/internal/errors"
	"github.com/myrjola/roteiros/internal/models"
)

var (
	// ErrNoEpisodesSelected is returned when an export is requested without episodes. The message is shown to the
	// user as is.
	ErrNoEpisodesSelected = errors.NewSentinel("Selecione pelo menos um episódio para exportar")
	// ErrNotFound is returned when a selected episode doesn't exist.
	ErrNotFound = errors.NewSentinel("episode not found")
)

type Format string

const (
	FormatMarkdown Format = "markdown"
	FormatPDF      Format = "pdf"
)

const documentTitle = "Roteiros das Histórias de Aprendizagem"

// Document is an exported file ready to be written or served.
type Document struct {
	Filename    string
	ContentType string
	Body        string
	// Episodes is the number of episodes in the document.
	Episodes int
}

// Markdown concatenates the episodes into one document, each episode block ending in a horizontal rule.
//
// Characters are looked up by ID. References that match no character are left out.
func Markdown(episodes []models.Episode, characters []models.Character) string {
	byID := make(map[string]models.Character, len(characters))
	for _, c := range characters {
		byID[c.ID] = c
	}

	var b strings.Builder
	fmt.Fprintf(&b, "# %s\n\n", documentTitle)
	for i, e := range episodes {
		fmt.Fprintf(&b, "## Episódio %d: %s\n\n", i+1, e.DisplayTitle())
		if e.Description != "" {
			fmt.Fprintf(&b, "**Descrição:** %s\n\n", e.Description)
		}
		if e.Theme != "" {
			fmt.Fprintf(&b, "**Tema:** %s\n\n", e.Theme)
		}
		if len(e.Objectives) > 0 {
			b.WriteString("### Objetivos de Aprendizagem\n")
			for j, objective := range e.Objectives {
				fmt.Fprintf(&b, "%d. %s\n", j+1, objective)
			}
			b.WriteString("\n")
		}
		if len(e.Characters) > 0 {
			b.WriteString("### Personagens\n")
			for _, id := range e.Characters {
				if c, ok := byID[id]; ok {
					fmt.Fprintf(&b, "- **%s:** %s\n", c.Name, c.Role)
				}
			}
			b.WriteString("\n")
		}
		if e.Conflict != "" {
			fmt.Fprintf(&b, "### Conflito\n%s\n\n", e.Conflict)
		}
		if e.LearningOutcome != "" {
			fmt.Fprintf(&b, "### Resultado de Aprendizagem\n%s\n\n", e.LearningOutcome)
		}
		if e.Cliffhanger != "" {
			fmt.Fprintf(&b, "### Gancho\n%s\n\n", e.Cliffhanger)
		}
		b.WriteString("---\n\n")
	}
	return b.String()
}

var boldPattern = regexp.MustCompile(`\*\*(.*?)\*\*`)

// HTML converts markdown to HTML with a fixed chain of replacements: headings, bold and line breaks.
//
// The replacements run in order over the whole text, so "## " is already rewritten by the "# " step. This is not a
// Markdown parser and nested emphasis isn't handled.
func HTML(markdown string) string {
	out := html.EscapeString(markdown)
	out = strings.ReplaceAll(out, "# ", "<h1>")
	out = strings.ReplaceAll(out, "## ", "<h2>")
	out = strings.ReplaceAll(out, "### ", "<h3>")
	out = boldPattern.ReplaceAllString(out, "<strong>$1</strong>")
	return strings.ReplaceAll(out, "\n", "<br>")
}

// PrintScript is the inline script of the print page.
const PrintScript = "window.print();"

const printPageTemplate = `<html>
  <head>
    <title>%s</title>
    <style>
      body { font-family: Arial, sans-serif; margin: 40px; line-height: 1.6; }
      h1 { color: #333; border-bottom: 2px solid #333; }
      h2 { color: #666; margin-top: 30px; }
      h3 { color: #888; }
      hr { margin: 30px 0; }
    </style>
  </head>
  <body>%s<script>%s</script></body>
</html>
`

// PrintPage wraps the HTML rendition of markdown into a page that opens the print dialog when loaded.
func PrintPage(markdown string) string {
	return fmt.Sprintf(printPageTemplate, documentTitle, HTML(markdown), PrintScript)
}

// Filename returns the dated export file name, e.g. roteiros-2024-05-01.md.
func Filename(now time.Time, format Format) string {
	ext := "md"
	if format == FormatPDF {
		ext = "html"
	}
	return fmt.Sprintf("roteiros-%s.%s", now.UTC().Format(time.DateOnly), ext)
}

// Export builds the document for the selected episode IDs. Episodes appear in the order of episodes, not in the
// order of selection.
func Export(
	episodes []models.Episode,
	characters []models.Character,
	selectedIDs []string,
	format Format,
	now time.Time,
) (Document, error) {
	if len(selectedIDs) == 0 {
		return Document{}, errors.Wrap(ErrNoEpisodesSelected, "export")
	}
	if format != FormatMarkdown && format != FormatPDF {
		return Document{}, errors.Wrap(models.ErrValidation, "unknown export format", slog.String("format", string(format)))
	}

	selected := make(map[string]struct{}, len(selectedIDs))
	for _, id := range selectedIDs {
		selected[id] = struct{}{}
	}
	chosen := make([]models.Episode, 0, len(selected))
	for _, e := range episodes {
		if _, ok := selected[e.ID]; ok {
			chosen = append(chosen, e)
			delete(selected, e.ID)
		}
	}
	if len(selected) > 0 {
		missing := slices.Sorted(maps.Keys(selected))
		return Document{}, errors.Wrap(ErrNotFound, "export", slog.Any("episodeIDs", missing))
	}

	markdown := Markdown(chosen, characters)
	doc := Document{
		Filename:    Filename(now, format),
		ContentType: "text/markdown; charset=utf-8",
		Body:        markdown,
		Episodes:    len(chosen),
	}
	if format == FormatPDF {
		doc.ContentType = "text/html; charset=utf-8"
		doc.Body = PrintPage(markdown)
	}
	return doc, nil
}
