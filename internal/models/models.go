// Package models holds the records of the script drafting tool: characters, episodes, raw source material and the
// revisions of generated scripts.
package models

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"
	"github.com/myrjola/roteiros/internal/errors"
	"github.com/segmentio/ksuid"
	"strings"
)

var (
	// ErrValidation is returned when a record misses a required field.
	ErrValidation = errors.NewSentinel("validation failed")
	// ErrStatusRegression is returned when a completed episode would be moved back to draft.
	ErrStatusRegression = errors.NewSentinel("completed episode cannot return to draft")
	// ErrDanglingReference is returned when an episode references a character that doesn't exist.
	ErrDanglingReference = errors.NewSentinel("dangling character reference")
)

// ValidationError is a validation failure with a message meant for the user.
type ValidationError struct {
	Message string
}

// NewValidationError returns a *ValidationError that matches ErrValidation with errors.Is.
func NewValidationError(msg string) error {
	return &ValidationError{Message: msg}
}

func (e *ValidationError) Error() string {
	return e.Message
}

func (e *ValidationError) Unwrap() error {
	return ErrValidation
}

// NewID returns a new identifier with the given prefix, e.g. episode-2Mc1V0cE2Ka6sS0sYZwNfM7EH4a.
//
// The KSUID part starts with the creation timestamp so identifiers sort in creation order.
func NewID(prefix string) string {
	return fmt.Sprintf("%s-%s", prefix, ksuid.New().String())
}

// StringList is an ordered list of strings stored as a JSON array in a single column.
type StringList []string

// Value implements [driver.Valuer].
func (l StringList) Value() (driver.Value, error) {
	if l == nil {
		return "[]", nil
	}
	b, err := json.Marshal([]string(l))
	if err != nil {
		return nil, errors.Wrap(err, "marshal string list")
	}
	return string(b), nil
}

// Scan implements [sql.Scanner].
func (l *StringList) Scan(src any) error {
	var raw []byte
	switch v := src.(type) {
	case nil:
		*l = StringList{}
		return nil
	case string:
		raw = []byte(v)
	case []byte:
		raw = v
	default:
		return errors.New(fmt.Sprintf("unsupported string list source %T", src))
	}
	var list []string
	if err := json.Unmarshal(raw, &list); err != nil {
		return errors.Wrap(err, "unmarshal string list")
	}
	if list == nil {
		list = []string{}
	}
	*l = list
	return nil
}

// Compact trims every entry and drops the blank ones.
func (l StringList) Compact() StringList {
	out := make(StringList, 0, len(l))
	for _, s := range l {
		if s = strings.TrimSpace(s); s != "" {
			out = append(out, s)
		}
	}
	return out
}
