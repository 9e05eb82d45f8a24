package logging_test

import (
	"bytes"
	"context"
	"github.com/myrjola/roteiros/internal/logging"
	"github.com/stretchr/testify/require"
	"log/slog"
	"testing"
)

func TestContextHandler(t *testing.T) {
	var buf bytes.Buffer
	logger := logging.NewLogger(&buf, slog.LevelDebug, false).With(slog.String("component", "test"))

	ctx := logging.WithAttrs(context.Background(), slog.String("requestID", "abc"))
	sibling := logging.WithAttrs(ctx, slog.String("episodeID", "episode-1"))
	other := logging.WithAttrs(ctx, slog.String("characterID", "madalena"))

	logger.LogAttrs(sibling, slog.LevelInfo, "saved episode")
	line := buf.String()
	require.Contains(t, line, "requestID=abc")
	require.Contains(t, line, "episodeID=episode-1")
	require.Contains(t, line, "component=test")
	require.NotContains(t, line, "characterID")

	buf.Reset()
	logger.LogAttrs(other, slog.LevelInfo, "saved character")
	line = buf.String()
	require.Contains(t, line, "characterID=madalena")
	require.NotContains(t, line, "episodeID")
}

func TestParseLevel(t *testing.T) {
	tests := []struct {
		in   string
		want slog.Level
	}{
		{in: "debug", want: slog.LevelDebug},
		{in: "INFO", want: slog.LevelInfo},
		{in: " warn ", want: slog.LevelWarn},
		{in: "error", want: slog.LevelError},
		{in: "verbose", want: slog.LevelInfo},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			require.Equal(t, tt.want, logging.ParseLevel(tt.in))
		})
	}
}
