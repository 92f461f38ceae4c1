// Package client talks to the course management REST API.
package client

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/go-resty/resty/v2"

	"github.com/SAP-F-2025/course-authoring-service/internal/utils"
)

const defaultTimeout = 15 * time.Second

// ServerError is returned when the API answered with a non-2xx status or an
// envelope with success=false.
type ServerError struct {
	Status  int
	Message string
}

func (e *ServerError) Error() string {
	return fmt.Sprintf("api error (status %d): %s", e.Status, e.Message)
}

// NetworkError wraps a transport failure; the request may or may not have reached
// the server.
type NetworkError struct {
	Op  string
	Err error
}

func (e *NetworkError) Error() string {
	return fmt.Sprintf("%s: network error: %v", e.Op, e.Err)
}

func (e *NetworkError) Unwrap() error { return e.Err }

type envelope struct {
	Success *bool           `json:"success"`
	Data    json.RawMessage `json:"data"`
	Message string          `json:"message"`
	Error   string          `json:"error"`
}

type Client struct {
	http   *resty.Client
	token  string
	logger utils.Logger
}

type Option func(*Client)

// WithToken sets the token used when the request context carries none.
func WithToken(token string) Option {
	return func(c *Client) { c.token = token }
}

func WithTimeout(d time.Duration) Option {
	return func(c *Client) {
		if d > 0 {
			c.http.SetTimeout(d)
		}
	}
}

func WithLogger(logger utils.Logger) Option {
	return func(c *Client) { c.logger = logger }
}

func New(baseURL string, opts ...Option) *Client {
	c := &Client{
		http: resty.New().
			SetBaseURL(baseURL).
			SetTimeout(defaultTimeout).
			SetHeader("Accept", "application/json"),
		logger: utils.NewDefaultLogger(),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

type tokenKey struct{}

// ContextWithToken attaches the caller's bearer token; requests made with the
// returned context are sent on the caller's behalf.
func ContextWithToken(ctx context.Context, token string) context.Context {
	return context.WithValue(ctx, tokenKey{}, token)
}

func TokenFromContext(ctx context.Context) string {
	token, _ := ctx.Value(tokenKey{}).(string)
	return token
}

func (c *Client) tokenFor(ctx context.Context) string {
	if token := TokenFromContext(ctx); token != "" {
		return token
	}
	return c.token
}

// do sends the request and returns the envelope's data field, or the raw body
// when the API answered without an envelope.
func (c *Client) do(ctx context.Context, method, path string, body any) (json.RawMessage, error) {
	req := c.http.R().SetContext(ctx)
	if token := c.tokenFor(ctx); token != "" {
		req.SetAuthToken(token)
	}
	if body != nil {
		req.SetHeader("Content-Type", "application/json").SetBody(body)
	}

	resp, err := req.Execute(method, path)
	if err != nil {
		c.logger.WarnContext(ctx, "API request failed", "method", method, "path", path, "error", err)
		return nil, &NetworkError{Op: method + " " + path, Err: err}
	}

	data, err := decode(resp.StatusCode(), resp.Body())
	if err != nil {
		c.logger.WarnContext(ctx, "API request rejected", "method", method, "path", path, "status", resp.StatusCode(), "error", err)
		return nil, err
	}
	c.logger.DebugContext(ctx, "API request", "method", method, "path", path, "status", resp.StatusCode(), "duration", resp.Time())
	return data, nil
}

func decode(status int, body []byte) (json.RawMessage, error) {
	trimmed := bytes.TrimSpace(body)

	var env envelope
	isEnvelope := len(trimmed) > 0 && trimmed[0] == '{' && json.Unmarshal(trimmed, &env) == nil

	if status < 200 || status > 299 {
		msg := http.StatusText(status)
		if isEnvelope {
			if env.Message != "" {
				msg = env.Message
			} else if env.Error != "" {
				msg = env.Error
			}
		}
		return nil, &ServerError{Status: status, Message: msg}
	}

	if !isEnvelope || (env.Success == nil && env.Data == nil) {
		return json.RawMessage(trimmed), nil
	}
	if env.Success != nil && !*env.Success {
		msg := env.Message
		if msg == "" {
			msg = "request was not successful"
		}
		return nil, &ServerError{Status: status, Message: msg}
	}
	return env.Data, nil
}

func (c *Client) get(ctx context.Context, path string, out any) error {
	data, err := c.do(ctx, resty.MethodGet, path, nil)
	if err != nil {
		return err
	}
	return unmarshal(data, out)
}

func (c *Client) send(ctx context.Context, method, path string, body, out any) error {
	data, err := c.do(ctx, method, path, body)
	if err != nil || out == nil {
		return err
	}
	return unmarshal(data, out)
}

func unmarshal(data json.RawMessage, out any) error {
	if len(data) == 0 || string(data) == "null" {
		return nil
	}
	if err := json.Unmarshal(data, out); err != nil {
		return fmt.Errorf("failed to decode response: %w", err)
	}
	return nil
}

// NormalizeList accepts the list shapes the API has returned over time: a bare
// array, {"data": [...]}, or {"data": {"data": [...]}}.
func NormalizeList[T any](raw json.RawMessage) ([]T, error) {
	current := bytes.TrimSpace(raw)
	for depth := 0; depth < 3; depth++ {
		if len(current) == 0 || string(current) == "null" {
			return []T{}, nil
		}
		switch current[0] {
		case '[':
			var items []T
			if err := json.Unmarshal(current, &items); err != nil {
				return nil, fmt.Errorf("failed to decode list: %w", err)
			}
			return items, nil
		case '{':
			var wrapper struct {
				Data json.RawMessage `json:"data"`
			}
			if err := json.Unmarshal(current, &wrapper); err != nil {
				return nil, fmt.Errorf("failed to decode list wrapper: %w", err)
			}
			current = bytes.TrimSpace(wrapper.Data)
		default:
			return nil, fmt.Errorf("unexpected list payload")
		}
	}
	return nil, fmt.Errorf("list payload nested too deeply")
}
