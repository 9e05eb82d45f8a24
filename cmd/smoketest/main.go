package main

import (
	"context"
	"log/slog"
	"net/http"
	"os"
	"time"

	"github.com/myrjola/roteiros/internal/e2etest"
	"github.com/myrjola/roteiros/internal/errors"
	"github.com/myrjola/roteiros/internal/logging"
	"github.com/myrjola/roteiros/internal/models"
)

// TestAPI walks through the read-only endpoints and a template script round trip on a throwaway episode.
func TestAPI(ctx context.Context, client *e2etest.Client) error {
	ctx, cancel := context.WithTimeout(ctx, 10*time.Second) //nolint:mnd // 10 seconds
	defer cancel()

	var characters []models.Character
	status, err := client.JSON(ctx, http.MethodGet, "/api/characters", nil, &characters)
	if err != nil || status != http.StatusOK {
		return errors.Wrap(errors.Join(err, errors.New("unexpected status")), "list characters",
			slog.Int("status", status))
	}
	if len(characters) == 0 {
		return errors.New("no characters found, something is likely wrong")
	}

	var episode models.Episode
	if status, err = client.JSON(ctx, http.MethodPost, "/api/episodes",
		map[string]any{"title": "Smoke test"}, &episode); err != nil || status != http.StatusCreated {
		return errors.Wrap(errors.Join(err, errors.New("unexpected status")), "create episode",
			slog.Int("status", status))
	}
	defer func() {
		_, _ = client.JSON(context.Background(), http.MethodDelete, "/api/episodes/"+episode.ID, nil, nil)
	}()

	if status, err = client.JSON(ctx, http.MethodPost, "/api/episodes/"+episode.ID+"/script", nil,
		nil); err != nil || status != http.StatusOK {
		return errors.Wrap(errors.Join(err, errors.New("unexpected status")), "generate script",
			slog.Int("status", status))
	}
	return nil
}

func main() {
	loggerHandler := logging.NewContextHandler(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{
		AddSource:   false,
		Level:       slog.LevelDebug,
		ReplaceAttr: nil,
	}))
	logger := slog.New(loggerHandler)
	ctx := context.Background()

	if len(os.Args) != 2 { //nolint:mnd // we expect only hostname to be passed as argument.
		logger.LogAttrs(ctx, slog.LevelError, "usage: smoketest <hostname>")
		os.Exit(1)
	}

	var (
		hostname = os.Args[1]
		url      = "https://" + hostname
		client   = e2etest.NewClient(url)
		err      error
	)
	ctx = logging.WithAttrs(ctx, slog.String("hostname", url))

	if err = client.WaitForReady(ctx, "/api/healthy"); err != nil {
		logger.LogAttrs(ctx, slog.LevelError, "server not ready", errors.SlogError(err))
		os.Exit(1)
	}
	if err = TestAPI(ctx, client); err != nil {
		logger.LogAttrs(ctx, slog.LevelError, "error testing API", errors.SlogError(err))
		os.Exit(1)
	}

	logger.LogAttrs(ctx, slog.LevelInfo, "Smoke test successful 🙌")
	os.Exit(0)
}
