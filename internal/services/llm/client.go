package llm

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"
)

// DefaultBaseURL is the chat completion endpoint used when none is configured.
const DefaultBaseURL = "https://openrouter.ai/api/v1/chat/completions"

const defaultTimeout = 15 * time.Second

// Config describes the translation model endpoint.
type Config struct {
	APIKey  string
	BaseURL string
	Model   string
	// AppName is sent as the X-Title header for OpenRouter attribution.
	AppName string
	Timeout time.Duration
}

// Client sends JSON-mode chat requests to an OpenAI-compatible API.
type Client struct {
	cfg   Config
	http  *http.Client
	retry retryPolicy
}

// Option customizes the client.
type Option func(*Client)

// WithHTTPClient overrides the default HTTP client.
func WithHTTPClient(client *http.Client) Option {
	return func(c *Client) {
		if client != nil {
			c.http = client
		}
	}
}

// WithAttempts caps how many requests one call may issue.
func WithAttempts(n int) Option {
	return func(c *Client) { c.retry.attempts = n }
}

// WithRetry replaces the backoff delays and the function used to wait
// between attempts. A nil sleep keeps the context-aware timer.
func WithRetry(base, ceiling time.Duration, sleep func(time.Duration)) Option {
	return func(c *Client) {
		c.retry.base = base
		c.retry.ceiling = ceiling
		c.retry.sleep = sleep
	}
}

// NewClient builds a client for cfg.
func NewClient(cfg Config, opts ...Option) *Client {
	cfg.APIKey = strings.TrimSpace(cfg.APIKey)
	cfg.Model = strings.TrimSpace(cfg.Model)
	cfg.AppName = strings.TrimSpace(cfg.AppName)
	if cfg.BaseURL = strings.TrimSpace(cfg.BaseURL); cfg.BaseURL == "" {
		cfg.BaseURL = DefaultBaseURL
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = defaultTimeout
	}
	c := &Client{
		cfg:   cfg,
		http:  &http.Client{Timeout: cfg.Timeout},
		retry: defaultRetryPolicy(),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// HealthCheck verifies the key and model with a trivial JSON exchange.
func (c *Client) HealthCheck(ctx context.Context) error {
	var reply struct {
		OK bool `json:"ok"`
	}
	if err := c.ask(ctx, "llm health", "You must respond with JSON only.", `Respond with {"ok":true}`, &reply); err != nil {
		return err
	}
	if !reply.OK {
		return errors.New("llm health: unexpected response")
	}
	return nil
}

// ask runs one prompt pair and decodes the JSON reply into out.
func (c *Client) ask(ctx context.Context, op, system, user string, out any) error {
	content, err := c.chat(ctx, op, []chatMessage{
		{Role: "system", Content: system},
		{Role: "user", Content: user},
	})
	if err != nil {
		return err
	}
	if err := DecodeJSON(content, out); err != nil {
		return fmt.Errorf("%s: parse payload: %w", op, err)
	}
	return nil
}

func (c *Client) chat(ctx context.Context, op string, messages []chatMessage) (string, error) {
	if c.cfg.APIKey == "" {
		return "", fmt.Errorf("%s: api key required", op)
	}
	body, err := json.Marshal(chatRequest{
		Model:          c.cfg.Model,
		Messages:       messages,
		ResponseFormat: map[string]string{"type": "json_object"},
	})
	if err != nil {
		return "", fmt.Errorf("%s: encode body: %w", op, err)
	}

	attempt := 1
	for {
		content, err := c.attempt(ctx, op, body)
		if err == nil {
			return content, nil
		}
		delay, again := c.retry.next(ctx, err, attempt)
		switch {
		case !again && attempt == 1:
			return "", err
		case !again:
			return "", fmt.Errorf("%s: failed after %d attempts: %w", op, attempt, err)
		}
		if err := c.retry.wait(ctx, delay); err != nil {
			return "", err
		}
		attempt++
	}
}

// attempt posts body once and returns the reply text.
func (c *Client) attempt(ctx context.Context, op string, body []byte) (string, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.cfg.BaseURL, bytes.NewReader(body))
	if err != nil {
		return "", fmt.Errorf("%s: new request: %w", op, err)
	}
	c.setHeaders(req.Header)

	resp, err := c.http.Do(req)
	if err != nil {
		return "", fmt.Errorf("%s: request failed after %s: %w", op, c.cfg.Timeout, err)
	}
	defer resp.Body.Close()
	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("%s: read body: %w", op, err)
	}
	if resp.StatusCode >= http.StatusMultipleChoices {
		wait, _ := parseRetryAfter(resp.Header.Get("Retry-After"))
		return "", &httpError{op: op, code: resp.StatusCode, body: strings.TrimSpace(string(raw)), retryAfter: wait}
	}

	var decoded chatResponse
	if err := json.Unmarshal(raw, &decoded); err != nil {
		return "", fmt.Errorf("%s: decode response: %w", op, err)
	}
	if decoded.Error != nil {
		return "", fmt.Errorf("%s: api error: %s", op, strings.TrimSpace(decoded.Error.Message))
	}
	if len(decoded.Choices) == 0 {
		return "", fmt.Errorf("%s: no choices returned", op)
	}
	text, finish, refusal := decoded.content()
	if text == "" {
		return "", &blankReplyError{op: op, finish: finish, refusal: refusal, raw: snippet(string(raw))}
	}
	return text, nil
}

func (c *Client) setHeaders(h http.Header) {
	h.Set("Content-Type", "application/json")
	h.Set("Authorization", "Bearer "+c.cfg.APIKey)
	if c.cfg.AppName != "" {
		h.Set("X-Title", c.cfg.AppName)
	}
}

// httpError is a non-2xx answer from the endpoint.
type httpError struct {
	op         string
	code       int
	body       string
	retryAfter time.Duration
}

func (e *httpError) Error() string {
	return fmt.Sprintf("%s: http %d: %s", e.op, e.code, e.body)
}

// blankReplyError is a 2xx answer that carried no usable text.
type blankReplyError struct {
	op      string
	finish  string
	refusal string
	raw     string
}

func (e *blankReplyError) Error() string {
	return fmt.Sprintf("%s: empty content (finish_reason=%q, refusal=%q, response_snippet=%s)",
		e.op, e.finish, e.refusal, e.raw)
}
