// Package ai writes episode scripts with an OpenAI compatible chat completion API.
package ai

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/myrjola/roteiros/internal/errors"
	"github.com/myrjola/roteiros/internal/script"
	"github.com/sashabaranov/go-openai"
)

var (
	// ErrMissingAPIKey is returned before any request is made when no API key is configured.
	ErrMissingAPIKey = errors.NewSentinel("OpenAI API key not configured")
	// ErrUpstream is wrapped by every failure reported by the completion API.
	ErrUpstream = errors.NewSentinel("completion API failed")
)

const fallbackUpstreamMessage = "Failed to generate script"

// UpstreamError carries the message of a failed completion request so that it can be shown to the user verbatim.
type UpstreamError struct {
	StatusCode int
	Message    string
}

func (e *UpstreamError) Error() string {
	return e.Message
}

func (e *UpstreamError) Unwrap() error {
	return ErrUpstream
}

type Config struct {
	APIKey      string
	BaseURL     string
	Model       string
	MaxTokens   int
	Temperature float64
	// HTTPClient is optional, http.DefaultClient is used when nil.
	HTTPClient *http.Client
}

type Client struct {
	client *openai.Client
	cfg    Config
	logger *slog.Logger
}

func NewClient(cfg Config, logger *slog.Logger) *Client {
	var client *openai.Client
	if cfg.APIKey != "" {
		clientConfig := openai.DefaultConfig(cfg.APIKey)
		if cfg.BaseURL != "" {
			clientConfig.BaseURL = cfg.BaseURL
		}
		if cfg.HTTPClient != nil {
			clientConfig.HTTPClient = cfg.HTTPClient
		}
		client = openai.NewClientWithConfig(clientConfig)
	}
	return &Client{
		client: client,
		cfg:    cfg,
		logger: logger.With("source", "ai.Client"),
	}
}

// Configured reports whether an API key is available.
func (c *Client) Configured() bool {
	return c.client != nil
}

// GenerateScript asks the model for a complete script of the episode and returns the text of the first choice.
//
// An empty choice list yields an empty script. Failures of the API are returned as *UpstreamError.
func (c *Client) GenerateScript(ctx context.Context, data script.Data) (string, error) {
	if c.client == nil {
		return "", errors.Wrap(ErrMissingAPIKey, "generate script")
	}
	completion, err := c.SyncCompletion(ctx, []openai.ChatCompletionMessage{
		{Role: openai.ChatMessageRoleSystem, Content: SystemMessage},
		{Role: openai.ChatMessageRoleUser, Content: BuildPrompt(data)},
	})
	if err != nil {
		return "", err
	}
	if len(completion.Choices) == 0 {
		c.logger.LogAttrs(ctx, slog.LevelWarn, "completion without choices", slog.String("id", completion.ID))
		return "", nil
	}
	c.logger.LogAttrs(ctx, slog.LevelInfo, "generated script",
		slog.String("model", completion.Model),
		slog.Int("promptTokens", completion.Usage.PromptTokens),
		slog.Int("completionTokens", completion.Usage.CompletionTokens))
	return completion.Choices[0].Message.Content, nil
}

func (c *Client) SyncCompletion(
	ctx context.Context,
	messages []openai.ChatCompletionMessage,
) (openai.ChatCompletionResponse, error) {
	if c.client == nil {
		return openai.ChatCompletionResponse{}, errors.Wrap(ErrMissingAPIKey, "create chat completion")
	}
	completion, err := c.client.CreateChatCompletion(
		ctx,
		openai.ChatCompletionRequest{ //nolint:exhaustruct // this is better for readability
			Model:       c.cfg.Model,
			MaxTokens:   c.cfg.MaxTokens,
			Temperature: float32(c.cfg.Temperature),
			Messages:    messages,
		},
	)
	if err != nil {
		return openai.ChatCompletionResponse{}, errors.Wrap(upstreamError(err), "create chat completion",
			slog.String("model", c.cfg.Model))
	}
	return completion, nil
}

// upstreamError extracts the message the API reported. Context errors are kept as they are.
func upstreamError(err error) error {
	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return err
	}
	var (
		apiErr     *openai.APIError
		requestErr *openai.RequestError
	)
	switch {
	case errors.As(err, &apiErr):
		msg := apiErr.Message
		if msg == "" {
			msg = fallbackUpstreamMessage
		}
		return &UpstreamError{StatusCode: apiErr.HTTPStatusCode, Message: msg}
	case errors.As(err, &requestErr):
		return &UpstreamError{StatusCode: requestErr.HTTPStatusCode, Message: fallbackUpstreamMessage}
	default:
		return &UpstreamError{StatusCode: 0, Message: err.Error()}
	}
}
