// Package api is the client for the document question-answering backend.
//
// Every call is a plain request/response; nothing here touches the
// conversation store. Failures are classified as KindUnauthorized (the
// session is over, the logout hook has already run) or KindTransport
// (network trouble or a non-auth HTTP failure, safe to retry by hand).
package api

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/google/uuid"
	"github.com/tidwall/gjson"
	pqerrors "github.com/zhubert/pdfqa/internal/errors"
	"github.com/zhubert/pdfqa/internal/logger"
)

const (
	defaultTimeout = 10 * time.Second

	// maxResponseBytes caps how much of a response body is read.
	maxResponseBytes = 8 << 20

	pathConversations = "/api/conversations"
	pathQuestions     = "/api/questions"
	pathFeedback      = "/api/feedback"
	pathPDFs          = "/api/pdfs"
	pathLogin         = "/login"
)

// TokenSource supplies the bearer token for each request.
type TokenSource interface {
	BearerToken() string
}

// StaticToken is a TokenSource for a fixed token.
type StaticToken string

// BearerToken returns the token.
func (t StaticToken) BearerToken() string { return string(t) }

// Client talks to the backend.
type Client struct {
	baseURL        string
	httpClient     *http.Client
	tokens         TokenSource
	onUnauthorized func()
}

// Option configures a Client.
type Option func(*Client)

// WithHTTPClient replaces the default HTTP client (for testing).
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) { c.httpClient = hc }
}

// WithTimeout sets the per-request timeout of the default HTTP client.
func WithTimeout(d time.Duration) Option {
	return func(c *Client) {
		if d > 0 {
			c.httpClient.Timeout = d
		}
	}
}

// OnUnauthorized registers the session-termination hook run on any 401.
func OnUnauthorized(fn func()) Option {
	return func(c *Client) { c.onUnauthorized = fn }
}

// New creates a client for the backend at baseURL.
func New(baseURL string, tokens TokenSource, opts ...Option) *Client {
	c := &Client{
		baseURL:    baseURL,
		httpClient: &http.Client{Timeout: defaultTimeout},
		tokens:     tokens,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// request describes one backend call.
type request struct {
	op          pqerrors.Op
	method      string
	path        string
	body        []byte
	contentType string
	anonymous   bool // no bearer token, no logout on 401
}

// do performs r and returns the response body of a 2xx response.
func (c *Client) do(ctx context.Context, r request) ([]byte, error) {
	requestID := uuid.NewString()
	log := logger.ComponentLogger("api").With("op", string(r.op), "requestID", requestID)

	var body io.Reader
	if r.body != nil {
		body = bytes.NewReader(r.body)
	}
	req, err := http.NewRequestWithContext(ctx, r.method, c.baseURL+r.path, body)
	if err != nil {
		return nil, pqerrors.Transport(r.op, "failed to create request", err)
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set("X-Request-Id", requestID)
	if r.contentType != "" {
		req.Header.Set("Content-Type", r.contentType)
	}
	if !r.anonymous {
		req.Header.Set("Authorization", "Bearer "+c.tokens.BearerToken())
	}

	start := time.Now()
	resp, err := c.httpClient.Do(req)
	if err != nil {
		log.Warn("request failed", "method", r.method, "path", r.path, "error", err)
		return nil, pqerrors.Transport(r.op, fmt.Sprintf("%s %s", r.method, r.path), err)
	}
	defer resp.Body.Close()

	log.Debug("response received",
		"method", r.method,
		"path", r.path,
		"status", resp.StatusCode,
		"elapsed", time.Since(start),
	)

	if resp.StatusCode == http.StatusUnauthorized {
		if !r.anonymous && c.onUnauthorized != nil {
			log.Info("backend rejected credentials, ending session")
			c.onUnauthorized()
		}
		return nil, pqerrors.Unauthorized(r.op)
	}

	data, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseBytes))
	if err != nil {
		return nil, pqerrors.Transport(r.op, "failed to read response", err)
	}
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, pqerrors.Transport(r.op,
			fmt.Sprintf("%s %s", r.method, r.path),
			fmt.Errorf("backend returned status %d", resp.StatusCode))
	}
	return data, nil
}

// parseJSON validates a response body before it is read with gjson.
func parseJSON(op pqerrors.Op, data []byte) (gjson.Result, error) {
	if !gjson.ValidBytes(data) {
		return gjson.Result{}, pqerrors.Transport(op, "failed to parse response", fmt.Errorf("invalid JSON body"))
	}
	return gjson.ParseBytes(data), nil
}
