package llm

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"

	"coursegen/internal/backoff"
	"coursegen/internal/logging"
	"coursegen/internal/services"
)

const (
	// DefaultBaseURL is the OpenRouter chat completions endpoint.
	DefaultBaseURL = "https://openrouter.ai/api/v1/chat/completions"
	// DefaultModel is the model requested when none is configured.
	DefaultModel = "openai/gpt-4o"

	defaultHTTPTimeout = 120 * time.Second
	component          = "llm"
)

// Config captures the runtime settings required to talk to OpenRouter.
type Config struct {
	APIKey         string
	BaseURL        string
	Model          string
	Referer        string
	Title          string
	TimeoutSeconds int
}

// DefaultHTTPTimeout returns the default timeout used for completion requests.
func DefaultHTTPTimeout() time.Duration {
	return defaultHTTPTimeout
}

// Request is one logical completion call: a single user message and whether the
// reply is expected to be JSON.
type Request struct {
	Prompt string
	JSON   bool
}

// Client wraps the OpenRouter chat completion API. It is safe for concurrent use.
type Client struct {
	cfg        Config
	httpClient *http.Client
	logger     *slog.Logger

	retryMaxAttempts int
	retryBaseDelay   time.Duration
	sleeper          func(time.Duration)
}

// Option customizes the client.
type Option func(*Client)

// WithHTTPClient overrides the default HTTP client.
func WithHTTPClient(client *http.Client) Option {
	return func(c *Client) {
		if client != nil {
			c.httpClient = client
		}
	}
}

// WithLogger attaches a logger used for retry warnings and request tracing.
func WithLogger(logger *slog.Logger) Option {
	return func(c *Client) {
		if logger != nil {
			c.logger = logger
		}
	}
}

// WithRetryMaxAttempts overrides the attempt budget (defaults to 3).
func WithRetryMaxAttempts(attempts int) Option {
	return func(c *Client) {
		c.retryMaxAttempts = attempts
	}
}

// WithRetryBaseDelay overrides the wait after the first transient failure.
func WithRetryBaseDelay(delay time.Duration) Option {
	return func(c *Client) {
		c.retryBaseDelay = delay
	}
}

// WithSleeper overrides how retry sleeps are performed (useful for tests).
func WithSleeper(sleeper func(time.Duration)) Option {
	return func(c *Client) {
		c.sleeper = sleeper
	}
}

// NewClient constructs a completion client using the supplied configuration.
func NewClient(cfg Config, opts ...Option) *Client {
	timeout := defaultHTTPTimeout
	if cfg.TimeoutSeconds > 0 {
		timeout = time.Duration(cfg.TimeoutSeconds) * time.Second
	}
	client := &Client{
		cfg: Config{
			APIKey:         strings.TrimSpace(cfg.APIKey),
			BaseURL:        strings.TrimSpace(cfg.BaseURL),
			Model:          strings.TrimSpace(cfg.Model),
			Referer:        strings.TrimSpace(cfg.Referer),
			Title:          strings.TrimSpace(cfg.Title),
			TimeoutSeconds: cfg.TimeoutSeconds,
		},
		httpClient:       &http.Client{Timeout: timeout},
		retryMaxAttempts: backoff.DefaultMaxAttempts,
		retryBaseDelay:   backoff.DefaultBaseDelay,
	}
	for _, opt := range opts {
		opt(client)
	}
	if client.cfg.BaseURL == "" {
		client.cfg.BaseURL = DefaultBaseURL
	}
	if client.cfg.Model == "" {
		client.cfg.Model = DefaultModel
	}
	if client.httpClient == nil {
		client.httpClient = &http.Client{Timeout: timeout}
	}
	client.logger = logging.NewComponentLogger(client.logger, component)
	return client
}

// Configured reports whether an API key is present.
func (c *Client) Configured() bool {
	return c != nil && c.cfg.APIKey != ""
}

// Model returns the model identifier sent with every request.
func (c *Client) Model() string {
	if c == nil {
		return ""
	}
	return c.cfg.Model
}

// Complete sends the prompt as a single user message and returns the content of
// the first choice verbatim. A reply without choices yields an empty string.
// Transient provider failures are retried with the identical body.
func (c *Client) Complete(ctx context.Context, req Request) (string, error) {
	if !c.Configured() {
		return "", services.Wrap(services.ErrConfiguration, component, "complete", "OpenRouter API key is not configured", nil)
	}
	if strings.TrimSpace(req.Prompt) == "" {
		return "", services.Wrap(services.ErrValidation, component, "complete", "prompt required", nil)
	}
	if ctx == nil {
		ctx = context.Background()
	}
	if _, ok := services.RequestIDFromContext(ctx); !ok {
		ctx = services.WithRequestID(ctx, uuid.NewString())
	}
	logger := logging.WithContext(ctx, c.logger)

	payload := chatCompletionRequest{
		Model:    c.cfg.Model,
		Messages: []chatMessage{{Role: "user", Content: req.Prompt}},
	}
	encoded, err := json.Marshal(payload)
	if err != nil {
		return "", services.Wrap(services.ErrProvider, component, "complete", "encode request body", err)
	}

	started := time.Now()
	completion, err := backoff.Do(ctx, func(ctx context.Context) (chatCompletionResponse, error) {
		return c.sendOnce(ctx, encoded)
	},
		backoff.WithMaxAttempts(c.retryMaxAttempts),
		backoff.WithBaseDelay(c.retryBaseDelay),
		backoff.WithSleeper(c.sleeper),
		backoff.WithObserver(func(a backoff.Attempt) {
			attrs := []logging.Attr{
				logging.Int("attempt", a.Number),
				logging.Int("max_attempts", c.retryMaxAttempts),
				logging.Duration("delay", a.Delay),
				logging.Error(a.Err),
			}
			var statusErr *StatusError
			if errors.As(a.Err, &statusErr) {
				attrs = append(attrs, logging.Int("status", statusErr.StatusCode))
				if statusErr.RetryAfter > 0 {
					attrs = append(attrs, logging.Duration("retry_after", statusErr.RetryAfter))
				}
			}
			logging.WarnWithContext(logger, "completion attempt failed; retrying", logging.EventLLMRetry, attrs...)
		}),
	)
	if err != nil {
		return "", err
	}

	content := completion.firstContent()
	logger.Debug("completion received",
		logging.String("model", c.cfg.Model),
		logging.Bool("json", req.JSON),
		logging.Int("choices", len(completion.Choices)),
		logging.Int("content_length", len(content)),
		logging.Duration("elapsed", time.Since(started)),
	)
	return content, nil
}

// CompleteJSON sends the prompt and decodes the reply into target using
// ParseStructuredReply. Parse failures are not retried.
func (c *Client) CompleteJSON(ctx context.Context, prompt string, target any) error {
	content, err := c.Complete(ctx, Request{Prompt: prompt, JSON: true})
	if err != nil {
		return err
	}
	return ParseStructuredReply(content, target)
}

// HealthCheck issues a tiny JSON request to verify the API key and model are usable.
func (c *Client) HealthCheck(ctx context.Context) error {
	var parsed struct {
		OK bool `json:"ok"`
	}
	if err := c.CompleteJSON(ctx, "Respond with JSON only: {\"ok\":true}", &parsed); err != nil {
		return err
	}
	if !parsed.OK {
		return services.Wrap(services.ErrProvider, component, "health", "unexpected response", nil)
	}
	return nil
}

type chatCompletionRequest struct {
	Model    string        `json:"model"`
	Messages []chatMessage `json:"messages"`
}

type chatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type chatCompletionResponse struct {
	Choices []struct {
		Message struct {
			Content string `json:"content"`
		} `json:"message"`
		FinishReason string `json:"finish_reason"`
	} `json:"choices"`
	Error *struct {
		Message string `json:"message"`
		Code    any    `json:"code"`
	} `json:"error"`
}

func (r chatCompletionResponse) firstContent() string {
	if len(r.Choices) == 0 {
		return ""
	}
	return r.Choices[0].Message.Content
}

func (c *Client) sendOnce(ctx context.Context, body []byte) (chatCompletionResponse, error) {
	var completion chatCompletionResponse
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.cfg.BaseURL, bytes.NewReader(body))
	if err != nil {
		return completion, services.Wrap(services.ErrProvider, component, "request", "build request", err)
	}
	req.Header.Set("Authorization", "Bearer "+c.cfg.APIKey)
	req.Header.Set("Content-Type", "application/json")
	if c.cfg.Referer != "" {
		req.Header.Set("HTTP-Referer", c.cfg.Referer)
	}
	if c.cfg.Title != "" {
		req.Header.Set("X-Title", c.cfg.Title)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return completion, ctxErr
		}
		return completion, services.Wrap(services.ErrProvider, component, "request",
			fmt.Sprintf("http error (timeout=%s)", c.timeoutDuration()), err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return completion, services.Wrap(services.ErrProvider, component, "request", "read body", err)
	}
	if resp.StatusCode < http.StatusOK || resp.StatusCode >= http.StatusMultipleChoices {
		retryAfter, _ := parseRetryAfter(resp.Header.Get("Retry-After"))
		return completion, &StatusError{
			StatusCode: resp.StatusCode,
			Body:       strings.TrimSpace(string(raw)),
			RetryAfter: retryAfter,
		}
	}
	if err := json.Unmarshal(raw, &completion); err != nil {
		return completion, services.Wrap(services.ErrProvider, component, "request",
			"decode response envelope: "+summarizePayloadSnippet(string(raw)), err)
	}
	if completion.Error != nil {
		return completion, services.Wrap(services.ErrProvider, component, "request",
			"api error: "+strings.TrimSpace(completion.Error.Message), nil)
	}
	return completion, nil
}

func (c *Client) timeoutDuration() time.Duration {
	if c == nil || c.httpClient == nil || c.httpClient.Timeout <= 0 {
		return defaultHTTPTimeout
	}
	return c.httpClient.Timeout
}
