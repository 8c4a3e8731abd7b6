// Package api is the client for the external verification backend.
//
// The backend owns all analysis. This package only shapes requests and
// applies field defaults to its loosely typed responses, once, at the
// boundary, so nothing downstream has to guess which fields were present.
package api

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"html"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/microcosm-cc/bluemonday"
	"github.com/tidwall/gjson"
	"go.uber.org/zap"
)

// DefaultBaseURL is where the backend listens in a local deployment.
const DefaultBaseURL = "http://127.0.0.1:8000"

const (
	analyzePath   = "/analyze"
	scrapePath    = "/scrape-verify"
	headlinesPath = "/headlines"

	// maxBodyBytes bounds how much of a response body is read.
	maxBodyBytes = 4 << 20
)

// Doer is the subset of *http.Client the backend client needs.
type Doer interface {
	Do(req *http.Request) (*http.Response, error)
}

// Client talks to the verification backend. It holds no per-request state
// and is safe for concurrent use.
type Client struct {
	baseURL   string
	http      Doer
	timeout   time.Duration
	newID     func() string
	now       func() time.Time
	sanitizer *bluemonday.Policy
	logger    *zap.Logger
}

// Option configures a Client.
type Option func(*Client)

// WithHTTPClient replaces the default http.Client.
func WithHTTPClient(d Doer) Option {
	return func(c *Client) { c.http = d }
}

// WithTimeout sets a per-request deadline. Zero leaves requests unbounded,
// so a hung backend keeps its lane busy until it answers.
func WithTimeout(d time.Duration) Option {
	return func(c *Client) { c.timeout = d }
}

// WithIDGenerator replaces the result ID generator (default: random UUIDs).
func WithIDGenerator(fn func() string) Option {
	return func(c *Client) { c.newID = fn }
}

// WithClock replaces the clock used to stamp results.
func WithClock(fn func() time.Time) Option {
	return func(c *Client) { c.now = fn }
}

// WithLogger attaches a logger.
func WithLogger(l *zap.Logger) Option {
	return func(c *Client) { c.logger = l }
}

// New creates a Client for the backend at baseURL.
func New(baseURL string, opts ...Option) *Client {
	if strings.TrimSpace(baseURL) == "" {
		baseURL = DefaultBaseURL
	}
	c := &Client{
		baseURL:   strings.TrimRight(baseURL, "/"),
		http:      &http.Client{},
		newID:     uuid.NewString,
		now:       time.Now,
		sanitizer: bluemonday.StrictPolicy(),
		logger:    zap.NewNop(),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// BaseURL returns the backend base URL.
func (c *Client) BaseURL() string {
	return c.baseURL
}

// response is a fully read backend reply.
type response struct {
	status int
	body   []byte
}

func (r response) ok() bool {
	return r.status >= 200 && r.status < 300
}

// errorText returns the body verbatim as an error message, or fallback when
// the body is empty.
func (r response) errorText(fallback string) string {
	if len(r.body) > 0 {
		return string(r.body)
	}
	return fmt.Sprintf("%s with status %d", fallback, r.status)
}

func (c *Client) withDeadline(ctx context.Context) (context.Context, context.CancelFunc) {
	if c.timeout > 0 {
		return context.WithTimeout(ctx, c.timeout)
	}
	return context.WithCancel(ctx)
}

func (c *Client) do(ctx context.Context, method, path string, payload any) (response, error) {
	var body io.Reader
	if payload != nil {
		data, err := json.Marshal(payload)
		if err != nil {
			return response{}, fmt.Errorf("encode request: %w", err)
		}
		body = bytes.NewReader(data)
	}

	ctx, cancel := c.withDeadline(ctx)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, body)
	if err != nil {
		return response{}, fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	if payload != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	start := time.Now()
	resp, err := c.http.Do(req)
	if err != nil {
		c.logger.Debug("backend request failed",
			zap.String("method", method), zap.String("path", path), zap.Error(err))
		return response{}, err
	}
	defer func() { _ = resp.Body.Close() }()

	data, err := io.ReadAll(io.LimitReader(resp.Body, maxBodyBytes))
	if err != nil {
		return response{}, fmt.Errorf("read response: %w", err)
	}

	c.logger.Debug("backend request",
		zap.String("method", method),
		zap.String("path", path),
		zap.Int("status", resp.StatusCode),
		zap.Duration("elapsed", time.Since(start)))

	return response{status: resp.StatusCode, body: data}, nil
}

// present reports whether a field exists and is not JSON null.
func present(r gjson.Result) bool {
	return r.Exists() && r.Type != gjson.Null
}

func stringOr(r gjson.Result, fallback string) string {
	if !present(r) {
		return fallback
	}
	return r.String()
}

func floatOr(r gjson.Result, fallback float64) float64 {
	if !present(r) {
		return fallback
	}
	return r.Float()
}

// plain strips markup from scraped web text and undoes the entity escaping
// the sanitizer applies, leaving display-ready plain text.
func (c *Client) plain(s string) string {
	if s == "" {
		return ""
	}
	return strings.TrimSpace(html.UnescapeString(c.sanitizer.Sanitize(s)))
}
