package main

import (
	"context"
	"io"
	"testing"

	"github.com/myrjola/roteiros/internal/e2etest"
	"github.com/stretchr/testify/require"
)

// startTestServer boots the application on a random port with an in-memory database. env overrides the defaults.
func startTestServer(t *testing.T, env map[string]string) *e2etest.Server {
	t.Helper()
	ctx, cancel := context.WithCancel(context.Background())
	t.Cleanup(cancel)

	lookupEnv := func(key string) (string, bool) {
		if value, ok := env[key]; ok {
			return value, true
		}
		switch key {
		case "ROTEIROS_ADDR":
			return "localhost:0", true
		case "ROTEIROS_SQLITE_URL":
			return ":memory:", true
		case "OPENAI_API_KEY":
			return "", true
		default:
			return "", false
		}
	}

	server, err := e2etest.StartServer(ctx, io.Discard, lookupEnv, run)
	require.NoError(t, err)
	return server
}
