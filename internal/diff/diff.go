// Package diff compares two script revisions line by line.
package diff

import (
	"strings"

	"github.com/aryann/difflib"
)

type Op string

const (
	OpEqual  Op = "equal"
	OpDelete Op = "delete"
	OpInsert Op = "insert"
)

// Line is one line of a diff.
type Line struct {
	Op   Op     `json:"op"`
	Text string `json:"text"`
}

// Result is a line diff with change counts.
type Result struct {
	Lines    []Line `json:"lines"`
	Inserted int    `json:"inserted"`
	Deleted  int    `json:"deleted"`
}

// Lines diffs a and b line by line.
func Lines(a, b string) Result {
	recs := difflib.Diff(splitLines(a), splitLines(b))
	result := Result{Lines: make([]Line, 0, len(recs)), Inserted: 0, Deleted: 0}
	for _, r := range recs {
		switch r.Delta {
		case difflib.Common:
			result.Lines = append(result.Lines, Line{Op: OpEqual, Text: r.Payload})
		case difflib.LeftOnly:
			result.Deleted++
			result.Lines = append(result.Lines, Line{Op: OpDelete, Text: r.Payload})
		case difflib.RightOnly:
			result.Inserted++
			result.Lines = append(result.Lines, Line{Op: OpInsert, Text: r.Payload})
		}
	}
	return result
}

// Unified renders the diff with " ", "-" and "+" line prefixes.
func (r Result) Unified() string {
	var b strings.Builder
	for _, l := range r.Lines {
		switch l.Op {
		case OpEqual:
			b.WriteString(" ")
		case OpDelete:
			b.WriteString("-")
		case OpInsert:
			b.WriteString("+")
		}
		b.WriteString(l.Text)
		b.WriteString("\n")
	}
	return b.String()
}

func splitLines(s string) []string {
	if s == "" {
		return nil
	}
	return strings.Split(strings.TrimSuffix(s, "\n"), "\n")
}
