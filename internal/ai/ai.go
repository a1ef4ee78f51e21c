// Package ai builds the optional Azure OpenAI client behind todo feedback.
//
// A missing API key is the normal "feature off" state: New returns a nil
// *Client and no error, and every method on a nil *Client is safe to call.
package ai

import (
	"context"
	"fmt"
	"net/http"
	"strings"

	"github.com/charmbracelet/log"
	"github.com/openai/openai-go"
	"github.com/openai/openai-go/azure"
	"github.com/openai/openai-go/option"

	"github.com/idilsaglam/tada/internal/logging"
)

// DisabledMessage is the feedback returned when no provider is configured.
const DisabledMessage = "AI feedback is not configured."

const systemPrompt = "You review todo list entries. In one or two sentences, say whether the " +
	"title is clear and actionable and suggest a better wording if it is not."

// Config holds provider settings. Every field is optional; see New.
type Config struct {
	APIKey     string
	APIVersion string
	Deployment string
	Endpoint   string
}

// ConfigError reports a key that was given without the rest of the settings.
type ConfigError struct {
	Missing []string
}

func (e *ConfigError) Error() string {
	return "ai config incomplete: missing " + strings.Join(e.Missing, ", ")
}

// Client asks a chat model for feedback on a todo title.
type Client struct {
	chat       openai.Client
	deployment string
}

type settings struct {
	logger     *log.Logger
	httpClient *http.Client
}

// Option configures New.
type Option func(*settings)

// WithLogger sets the logger that reports the unconfigured state.
func WithLogger(l *log.Logger) Option {
	return func(s *settings) {
		if l != nil {
			s.logger = l
		}
	}
}

// WithHTTPClient overrides the transport used for completions.
func WithHTTPClient(hc *http.Client) Option {
	return func(s *settings) { s.httpClient = hc }
}

// New returns a client for cfg. With no API key it returns (nil, nil).
// Construction never touches the network.
func New(cfg Config, opts ...Option) (*Client, error) {
	s := settings{logger: logging.Discard()}
	for _, opt := range opts {
		opt(&s)
	}

	if strings.TrimSpace(cfg.APIKey) == "" {
		s.logger.Info("CONNECTION_AI_APIKEY is not set, skipping AI functionality")
		return nil, nil
	}

	var missing []string
	if cfg.APIVersion == "" {
		missing = append(missing, "api version")
	}
	if cfg.Deployment == "" {
		missing = append(missing, "deployment")
	}
	if cfg.Endpoint == "" {
		missing = append(missing, "endpoint")
	}
	if len(missing) > 0 {
		return nil, &ConfigError{Missing: missing}
	}

	reqOpts := []option.RequestOption{
		azure.WithEndpoint(cfg.Endpoint, cfg.APIVersion),
		azure.WithAPIKey(cfg.APIKey),
	}
	if s.httpClient != nil {
		reqOpts = append(reqOpts, option.WithHTTPClient(s.httpClient))
	}
	return &Client{
		chat:       openai.NewClient(reqOpts...),
		deployment: cfg.Deployment,
	}, nil
}

// Enabled reports whether a provider is configured.
func (c *Client) Enabled() bool { return c != nil }

// Evaluate returns short feedback on title.
func (c *Client) Evaluate(ctx context.Context, title string) (string, error) {
	if c == nil {
		return DisabledMessage, nil
	}
	resp, err := c.chat.Chat.Completions.New(ctx, openai.ChatCompletionNewParams{
		Model: openai.ChatModel(c.deployment),
		Messages: []openai.ChatCompletionMessageParamUnion{
			openai.SystemMessage(systemPrompt),
			openai.UserMessage(fmt.Sprintf("Todo item title: %q", title)),
		},
	})
	if err != nil {
		return "", fmt.Errorf("chat completion: %w", err)
	}
	if len(resp.Choices) == 0 {
		return "No feedback was returned.", nil
	}
	return strings.TrimSpace(resp.Choices[0].Message.Content), nil
}
