// Package workspace opens the script database for the command line tools.
package workspace

import (
	"context"
	"io"
	"log/slog"
	"os"
	"time"

	"github.com/mattn/go-isatty"
	"github.com/myrjola/roteiros/internal/ai"
	"github.com/myrjola/roteiros/internal/envstruct"
	"github.com/myrjola/roteiros/internal/errors"
	"github.com/myrjola/roteiros/internal/logging"
	"github.com/myrjola/roteiros/internal/repositories"
	"github.com/myrjola/roteiros/internal/sqlite"
)

type config struct {
	SqliteURL         string        `env:"ROTEIROS_SQLITE_URL" envDefault:"./roteiros.sqlite3"`
	LogLevel          string        `env:"ROTEIROS_LOG_LEVEL" envDefault:"warn"`
	GenerateTimeout   time.Duration `env:"ROTEIROS_GENERATE_TIMEOUT" envDefault:"2m"`
	OpenAIAPIKey      string        `env:"OPENAI_API_KEY" envDefault:""`
	OpenAIBaseURL     string        `env:"OPENAI_BASE_URL" envDefault:"https://api.openai.com/v1"`
	OpenAIModel       string        `env:"OPENAI_MODEL" envDefault:"gpt-4.1-2025-04-14"`
	OpenAIMaxTokens   int           `env:"OPENAI_MAX_TOKENS" envDefault:"4000"`
	OpenAITemperature float64       `env:"OPENAI_TEMPERATURE" envDefault:"0.7"`
}

// Workspace is an open database with the repositories and the completion client on top of it.
type Workspace struct {
	Repos           *repositories.Repositories
	AI              *ai.Client
	Logger          *slog.Logger
	GenerateTimeout time.Duration
	db              *sqlite.Database
	lock            *sqlite.WriterLock
	cancel          context.CancelFunc
}

// Open opens the database configured in the environment.
//
// Commands that write pass write=true. They take the writer lock and fail with [sqlite.ErrLocked] while the web server
// or another command holds it.
func Open(ctx context.Context, write bool) (*Workspace, error) {
	var (
		cfg  config
		err  error
		lock *sqlite.WriterLock
		db   *sqlite.Database
	)
	if err = envstruct.Populate(&cfg, os.LookupEnv); err != nil {
		return nil, errors.Wrap(err, "populate config")
	}
	logger := logging.NewLogger(os.Stderr, logging.ParseLevel(cfg.LogLevel), false)

	if write {
		if lock, err = sqlite.AcquireWriterLock(cfg.SqliteURL); err != nil {
			return nil, errors.Wrap(err, "acquire writer lock", slog.String("sqliteURL", cfg.SqliteURL))
		}
	}

	ctx, cancel := context.WithCancel(ctx)
	if db, err = sqlite.NewDatabase(ctx, cfg.SqliteURL, logger); err != nil {
		cancel()
		return nil, errors.Join(
			errors.Wrap(err, "open database", slog.String("sqliteURL", cfg.SqliteURL)),
			lock.Release(),
		)
	}

	return &Workspace{
		Repos: repositories.New(db, logger),
		AI: ai.NewClient(ai.Config{
			APIKey:      cfg.OpenAIAPIKey,
			BaseURL:     cfg.OpenAIBaseURL,
			Model:       cfg.OpenAIModel,
			MaxTokens:   cfg.OpenAIMaxTokens,
			Temperature: cfg.OpenAITemperature,
			HTTPClient:  nil,
		}, logger),
		Logger:          logger,
		GenerateTimeout: cfg.GenerateTimeout,
		db:              db,
		lock:            lock,
		cancel:          cancel,
	}, nil
}

// Close closes the database and releases the writer lock.
func (w *Workspace) Close() error {
	w.cancel()
	return errors.Join(
		errors.Wrap(w.db.Close(), "close database"),
		errors.Wrap(w.lock.Release(), "release writer lock"),
	)
}

// IsTerminal reports whether out is an interactive terminal.
func IsTerminal(out io.Writer) bool {
	file, ok := out.(*os.File)
	if !ok {
		return false
	}
	fd := file.Fd()
	return isatty.IsTerminal(fd) || isatty.IsCygwinTerminal(fd)
}
