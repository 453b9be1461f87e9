package provider

import (
	"context"
	"errors"
	"net/http"
	"strings"
	"time"

	openai "github.com/sashabaranov/go-openai"
	"github.com/smartblog/server/internal/shared/logger"
	"github.com/sony/gobreaker/v2"
)

// Message is one chat turn sent to the provider.
type Message struct {
	Role    string
	Content string
}

// Message roles.
const (
	RoleSystem = "system"
	RoleUser   = "user"
)

// Options overrides per-call request parameters. Zero values fall back
// to the client configuration.
type Options struct {
	Model       string
	MaxTokens   int
	Temperature *float32
}

// Config holds provider client configuration, read once at construction.
type Config struct {
	APIKey      string
	BaseURL     string
	Model       string
	MaxTokens   int
	Temperature float32
	Timeout     time.Duration
}

// ErrNoAPIKey is returned by NewClient when no credential is configured.
var ErrNoAPIKey = errors.New("provider api key not configured")

// defaultModel is the model used when the configuration names none.
const defaultModel = "gpt-4o-mini"

func (c *Config) applyDefaults() {
	if c.Model == "" {
		c.Model = defaultModel
	}
	if c.MaxTokens <= 0 {
		c.MaxTokens = 1000
	}
	if c.Temperature <= 0 {
		c.Temperature = 0.7
	}
	if c.Timeout <= 0 {
		c.Timeout = 60 * time.Second
	}
}

// Client is the minimal surface the feature layer needs from an
// OpenAI-compatible chat backend.
type Client interface {
	Invoke(ctx context.Context, messages []Message, opts *Options) (string, error)
}

// OpenAIClient calls the chat completion API behind a circuit breaker.
type OpenAIClient struct {
	api     *openai.Client
	cfg     Config
	breaker *gobreaker.CircuitBreaker[string]
	logger  *logger.Logger
}

// NewClient creates a provider client. Fails when no API key is
// configured so the caller can fall back to degraded operation.
func NewClient(cfg Config, log *logger.Logger) (*OpenAIClient, error) {
	if cfg.APIKey == "" {
		return nil, ErrNoAPIKey
	}
	cfg.applyDefaults()

	clientCfg := openai.DefaultConfig(cfg.APIKey)
	if cfg.BaseURL != "" {
		clientCfg.BaseURL = cfg.BaseURL
	}
	clientCfg.HTTPClient = &http.Client{Timeout: cfg.Timeout}

	settings := gobreaker.Settings{
		Name:     "openai",
		Interval: 60 * time.Second,
		Timeout:  30 * time.Second,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return counts.ConsecutiveFailures >= 5
		},
	}

	return &OpenAIClient{
		api:     openai.NewClientWithConfig(clientCfg),
		cfg:     cfg,
		breaker: gobreaker.NewCircuitBreaker[string](settings),
		logger:  log,
	}, nil
}

// Invoke issues one chat completion call and returns the trimmed
// response text. Failures come back classified as *Error.
func (c *OpenAIClient) Invoke(ctx context.Context, messages []Message, opts *Options) (string, error) {
	if len(messages) == 0 {
		return "", NewError(KindTransient, errors.New("empty message sequence"))
	}

	req := openai.ChatCompletionRequest{
		Model:       c.cfg.Model,
		MaxTokens:   c.cfg.MaxTokens,
		Temperature: c.cfg.Temperature,
	}
	if opts != nil {
		if opts.Model != "" {
			req.Model = opts.Model
		}
		if opts.MaxTokens > 0 {
			req.MaxTokens = opts.MaxTokens
		}
		if opts.Temperature != nil {
			req.Temperature = *opts.Temperature
		}
	}
	req.Messages = make([]openai.ChatCompletionMessage, len(messages))
	for i, m := range messages {
		req.Messages[i] = openai.ChatCompletionMessage{Role: m.Role, Content: m.Content}
	}

	text, err := c.breaker.Execute(func() (string, error) {
		resp, err := c.api.CreateChatCompletion(ctx, req)
		if err != nil {
			return "", err
		}
		if len(resp.Choices) == 0 {
			return "", errors.New("empty choice list")
		}

		// Token counts are observational only, never persisted.
		c.logger.Info("provider call completed",
			"model", resp.Model,
			"prompt_tokens", resp.Usage.PromptTokens,
			"completion_tokens", resp.Usage.CompletionTokens,
			"total_tokens", resp.Usage.TotalTokens,
		)

		return strings.TrimSpace(resp.Choices[0].Message.Content), nil
	})
	if err != nil {
		classified := Classify(err)
		c.logger.Error("provider call failed",
			"kind", string(classified.Kind),
			logger.Err(err),
		)
		return "", classified
	}

	return text, nil
}
