package errors

import (
	"fmt"
	"github.com/stretchr/testify/require"
	"log/slog"
	"slices"
	"testing"
)

func TestAnnotatedError(t *testing.T) {
	err := New("test error", slog.String("id", "123"))
	require.Equal(t, "test error", err.Error())

	// Assert that wrapping sentinel errors work as expected.
	sentinel := NewSentinel("test error")
	require.NotErrorIs(t, err, NewSentinel("test error"))
	wrapped := Wrap(sentinel, "load episode", slog.String("episodeID", "episode-1"))
	require.ErrorIs(t, wrapped, sentinel)
	require.Equal(t, "load episode: test error", wrapped.Error())

	// Ensure log values are coming through.
	var annotated *annotatedError
	require.True(t, As(err, &annotated))
	group := annotated.LogValue().Group()
	require.Contains(t, group, slog.String("id", "123"))

	// Assert there's a valid source
	sourceIdx := slices.IndexFunc(group, func(attr slog.Attr) bool {
		return attr.Key == "source"
	})
	require.NotEqual(t, -1, sourceIdx)
	require.Contains(t, group[sourceIdx].Value.String(), "annotatederror_test.go")
}

func TestWrapNil(t *testing.T) {
	require.NoError(t, Wrap(nil, "nothing to wrap"))
}

func TestSlogError(t *testing.T) {
	sentinel := NewSentinel("not found")
	inner := Wrap(sentinel, "query character", slog.String("characterID", "madalena"))
	outer := Wrap(fmt.Errorf("resolve: %w", inner), "generate script", slog.Int("number", 3))

	attr := SlogError(outer)
	require.Equal(t, "error", attr.Key)
	group := attr.Value.Group()
	require.Contains(t, group, slog.String("msg", outer.Error()))
	require.Contains(t, group, slog.String("characterID", "madalena"))
	require.Contains(t, group, slog.Int("number", 3))

	traceIdx := slices.IndexFunc(group, func(attr slog.Attr) bool {
		return attr.Key == "trace"
	})
	require.NotEqual(t, -1, traceIdx)
	trace, ok := group[traceIdx].Value.Any().([]string)
	require.True(t, ok)
	require.Len(t, trace, 2)
}
