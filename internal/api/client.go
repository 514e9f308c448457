package api

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/examcoach/examcoach/internal/log"
)

// Error is the single normalised failure shape of the gateway. Its Error()
// string is the message shown to the user, nothing more.
type Error struct {
	Status  int    // HTTP status, 0 for transport failures
	Message string // human-readable detail
	Err     error  // underlying cause, if any
}

func (e *Error) Error() string { return e.Message }

// Unwrap returns the underlying cause.
func (e *Error) Unwrap() error { return e.Err }

// fallbackMessage is used when neither a detail nor a status phrase exists.
const fallbackMessage = "API error"

// maxErrorBody bounds how much of an error response is read.
const maxErrorBody = 64 * 1024

// Client is the request gateway to the exam-coaching service.
type Client struct {
	baseURL string
	http    *http.Client
	token   string
	logger  *zap.Logger
}

// Option configures a Client.
type Option func(*Client)

// WithHTTPClient replaces the underlying *http.Client.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) { c.http = hc }
}

// WithTimeout sets a per-request timeout. Zero means none.
func WithTimeout(d time.Duration) Option {
	return func(c *Client) { c.http.Timeout = d }
}

// WithToken attaches a bearer token to every request.
func WithToken(token string) Option {
	return func(c *Client) { c.token = token }
}

// WithLogger sets the logger for request events.
func WithLogger(l *zap.Logger) Option {
	return func(c *Client) { c.logger = l }
}

// NewClient creates a gateway for the service rooted at baseURL.
func NewClient(baseURL string, opts ...Option) *Client {
	c := &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		http:    &http.Client{},
		logger:  log.Nop(),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// BaseURL returns the service root the client talks to.
func (c *Client) BaseURL() string { return c.baseURL }

// SetToken replaces the bearer token used for subsequent requests.
func (c *Client) SetToken(token string) { c.token = token }

// Call issues method on path, JSON-encoding body when non-nil and decoding
// a successful response into out when non-nil. Every failure, whether a
// non-2xx status, a transport error or an undecodable body, is returned as
// a *Error carrying exactly one user-facing message.
func (c *Client) Call(ctx context.Context, method, path string, body, out any) error {
	var reader io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return &Error{Message: "could not encode request", Err: err}
		}
		reader = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
	if err != nil {
		return &Error{Message: "invalid request", Err: err}
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")
	requestID := uuid.NewString()
	req.Header.Set("X-Request-ID", requestID)
	if c.token != "" {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}

	fields := []zap.Field{
		zap.String("method", method),
		zap.String("path", path),
		zap.String("request_id", requestID),
	}
	c.logger.Debug("request started", append(fields, log.Event(log.EventRequestStarted))...)
	start := time.Now()

	resp, err := c.http.Do(req)
	if err != nil {
		gwErr := transportError(err)
		c.logger.Warn("request failed",
			append(fields, log.Event(log.EventRequestFinished), zap.Duration("duration", time.Since(start)), zap.Error(err))...)
		return gwErr
	}
	defer resp.Body.Close()

	fields = append(fields, zap.Int("status", resp.StatusCode), zap.Duration("duration", time.Since(start)))

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		data, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))
		gwErr := &Error{Status: resp.StatusCode, Message: errorMessage(resp, data)}
		c.logger.Info("request rejected", append(fields, log.Event(log.EventRequestFinished), zap.String("detail", gwErr.Message))...)
		return gwErr
	}

	c.logger.Debug("request finished", append(fields, log.Event(log.EventRequestFinished))...)

	if out == nil {
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return &Error{Status: resp.StatusCode, Message: "invalid response from server", Err: err}
	}
	return nil
}

// errorMessage extracts the service's "detail" field, falling back to the
// HTTP status phrase.
func errorMessage(resp *http.Response, body []byte) string {
	if msg, ok := detailMessage(body); ok {
		return msg
	}
	return statusPhrase(resp)
}

func detailMessage(body []byte) (string, bool) {
	var envelope struct {
		Detail json.RawMessage `json:"detail"`
	}
	if len(bytes.TrimSpace(body)) == 0 || json.Unmarshal(body, &envelope) != nil || len(envelope.Detail) == 0 {
		return "", false
	}

	var s string
	if err := json.Unmarshal(envelope.Detail, &s); err == nil {
		if strings.TrimSpace(s) == "" {
			return fallbackMessage, true
		}
		return s, true
	}

	// Validation failures carry a list of {loc, msg, type} objects.
	var items []struct {
		Msg string `json:"msg"`
	}
	if err := json.Unmarshal(envelope.Detail, &items); err == nil {
		var msgs []string
		for _, it := range items {
			if it.Msg != "" {
				msgs = append(msgs, it.Msg)
			}
		}
		if len(msgs) > 0 {
			return strings.Join(msgs, "; "), true
		}
	}
	return "", false
}

func statusPhrase(resp *http.Response) string {
	if text := http.StatusText(resp.StatusCode); text != "" {
		return text
	}
	return fallbackMessage
}

func transportError(err error) *Error {
	switch {
	case errors.Is(err, context.Canceled):
		return &Error{Message: "request cancelled", Err: err}
	case errors.Is(err, context.DeadlineExceeded):
		return &Error{Message: "request timed out", Err: err}
	}
	var urlErr *url.Error
	if errors.As(err, &urlErr) {
		if urlErr.Timeout() {
			return &Error{Message: "request timed out", Err: err}
		}
		return &Error{Message: fmt.Sprintf("network error: %v", urlErr.Err), Err: err}
	}
	return &Error{Message: fmt.Sprintf("network error: %v", err), Err: err}
}

// Message returns the user-facing text of err: the gateway message for a
// *Error, err.Error() otherwise.
func Message(err error) string {
	var gwErr *Error
	if errors.As(err, &gwErr) {
		return gwErr.Message
	}
	if err == nil {
		return ""
	}
	return err.Error()
}
