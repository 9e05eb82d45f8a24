package main

import (
	"context"
	"io/fs"
	"log/slog"
	"os"
	"time"

	"github.com/joho/godotenv"
	"github.com/myrjola/roteiros/internal/ai"
	"github.com/myrjola/roteiros/internal/envstruct"
	"github.com/myrjola/roteiros/internal/errors"
	"github.com/myrjola/roteiros/internal/inflight"
	"github.com/myrjola/roteiros/internal/logging"
	"github.com/myrjola/roteiros/internal/pprofserver"
	"github.com/myrjola/roteiros/internal/repositories"
	"github.com/myrjola/roteiros/internal/sqlite"
)

type application struct {
	logger          *slog.Logger
	repos           *repositories.Repositories
	aiClient        *ai.Client
	generating      *inflight.Guard[string]
	generateTimeout time.Duration
	now             func() time.Time
}

type config struct {
	// Addr is the address to listen on. It's possible to choose the address dynamically with localhost:0.
	Addr string `env:"ROTEIROS_ADDR" envDefault:"localhost:4000"`
	// SqliteURL is the path to the database file or ":memory:".
	SqliteURL string `env:"ROTEIROS_SQLITE_URL" envDefault:"./roteiros.sqlite3"`
	// PprofAddr enables the pprof server when set. Keep it on localhost.
	PprofAddr         string        `env:"ROTEIROS_PPROF_ADDR" envDefault:""`
	GenerateTimeout   time.Duration `env:"ROTEIROS_GENERATE_TIMEOUT" envDefault:"2m"`
	OpenAIAPIKey      string        `env:"OPENAI_API_KEY" envDefault:""`
	OpenAIBaseURL     string        `env:"OPENAI_BASE_URL" envDefault:"https://api.openai.com/v1"`
	OpenAIModel       string        `env:"OPENAI_MODEL" envDefault:"gpt-4.1-2025-04-14"`
	OpenAIMaxTokens   int           `env:"OPENAI_MAX_TOKENS" envDefault:"4000"`
	OpenAITemperature float64       `env:"OPENAI_TEMPERATURE" envDefault:"0.7"`
}

func run(ctx context.Context, logger *slog.Logger, lookupEnv func(string) (string, bool)) error {
	var (
		cfg  config
		err  error
		lock *sqlite.WriterLock
		db   *sqlite.Database
	)
	if err = envstruct.Populate(&cfg, lookupEnv); err != nil {
		return errors.Wrap(err, "populate config")
	}

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	if lock, err = sqlite.AcquireWriterLock(cfg.SqliteURL); err != nil {
		return errors.Wrap(err, "acquire writer lock", slog.String("sqliteURL", cfg.SqliteURL))
	}
	defer func() {
		if releaseErr := lock.Release(); releaseErr != nil {
			logger.LogAttrs(ctx, slog.LevelError, "failed to release writer lock", errors.SlogError(releaseErr))
		}
	}()

	if db, err = sqlite.NewDatabase(ctx, cfg.SqliteURL, logger); err != nil {
		return errors.Wrap(err, "open database", slog.String("sqliteURL", cfg.SqliteURL))
	}
	defer func() {
		if closeErr := db.Close(); closeErr != nil {
			logger.LogAttrs(ctx, slog.LevelError, "failed to close database", errors.SlogError(closeErr))
		}
	}()

	if cfg.PprofAddr != "" {
		pprofserver.Launch(ctx, cfg.PprofAddr, logger)
	}

	generating := inflight.NewGuard[string]()
	go generating.Start()
	defer generating.Stop()

	app := application{
		logger: logger,
		repos:  repositories.New(db, logger),
		aiClient: ai.NewClient(ai.Config{
			APIKey:      cfg.OpenAIAPIKey,
			BaseURL:     cfg.OpenAIBaseURL,
			Model:       cfg.OpenAIModel,
			MaxTokens:   cfg.OpenAIMaxTokens,
			Temperature: cfg.OpenAITemperature,
			HTTPClient:  nil,
		}, logger),
		generating:      generating,
		generateTimeout: cfg.GenerateTimeout,
		now:             time.Now,
	}
	if !app.aiClient.Configured() {
		logger.LogAttrs(ctx, slog.LevelWarn, "OPENAI_API_KEY not set, AI script generation is disabled")
	}

	return app.configureAndStartServer(ctx, cfg.Addr)
}

func main() {
	ctx := context.Background()
	logger := logging.NewLogger(os.Stdout, logging.ParseLevel(os.Getenv("ROTEIROS_LOG_LEVEL")), true)

	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		logger.LogAttrs(ctx, slog.LevelError, "failed to load .env", errors.SlogError(err))
		os.Exit(1)
	}

	if err := run(ctx, logger, os.LookupEnv); err != nil {
		logger.LogAttrs(ctx, slog.LevelError, "failure starting application", errors.SlogError(err))
		os.Exit(1)
	}
}
