package models

import (
	"github.com/myrjola/roteiros/internal/errors"
	"golang.org/x/text/unicode/norm"
	"log/slog"
	"path/filepath"
	"strings"
	"time"
)

type RawContentType string

const (
	RawContentTypePDF    RawContentType = "pdf"
	RawContentTypeScript RawContentType = "script"
	RawContentTypeVideo  RawContentType = "video"
	RawContentTypeOther  RawContentType = "other"
)

// Valid reports whether t is one of the known content types.
func (t RawContentType) Valid() bool {
	switch t {
	case RawContentTypePDF, RawContentTypeScript, RawContentTypeVideo, RawContentTypeOther:
		return true
	default:
		return false
	}
}

// DetectRawContentType guesses the content type from the file name extension.
func DetectRawContentType(filename string) RawContentType {
	switch strings.ToLower(strings.TrimPrefix(filepath.Ext(filename), ".")) {
	case "pdf":
		return RawContentTypePDF
	case "txt", "doc", "docx":
		return RawContentTypeScript
	case "mp4", "avi", "mov":
		return RawContentTypeVideo
	default:
		return RawContentTypeOther
	}
}

// RawContent is unstructured source material feeding future episode drafts. Content is always plain text.
type RawContent struct {
	ID         string         `db:"id"          json:"id"`
	Name       string         `db:"name"        json:"name"`
	Type       RawContentType `db:"type"        json:"type"`
	Content    string         `db:"content"     json:"content"`
	UploadedAt time.Time      `db:"uploaded_at" json:"uploadedAt"`
}

// NewRawContent validates the input and returns a new record uploaded at now.
//
// An empty contentType is detected from name. Name and content are required. Content is normalised to NFC so that
// accented text pasted from different sources compares equal.
func NewRawContent(name string, contentType RawContentType, content string, now time.Time) (RawContent, error) {
	name = strings.TrimSpace(name)
	if name == "" || strings.TrimSpace(content) == "" {
		return RawContent{}, NewValidationError("Preencha o nome e o conteúdo")
	}
	if contentType == "" {
		contentType = DetectRawContentType(name)
	}
	if !contentType.Valid() {
		return RawContent{}, errors.Wrap(NewValidationError("Tipo de conteúdo desconhecido"), "new raw content",
			slog.String("type", string(contentType)))
	}
	return RawContent{
		ID:         NewID("content"),
		Name:       name,
		Type:       contentType,
		Content:    norm.NFC.String(content),
		UploadedAt: now,
	}, nil
}

// Label returns the Portuguese label shown for the content type.
func (t RawContentType) Label() string {
	switch t {
	case RawContentTypePDF:
		return "PDF"
	case RawContentTypeScript:
		return "Roteiro"
	case RawContentTypeVideo:
		return "Vídeo"
	case RawContentTypeOther:
		return "Outro"
	default:
		return "Outro"
	}
}
