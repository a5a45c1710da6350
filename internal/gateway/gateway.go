// Package gateway is the only code that talks to the backend API.
package gateway

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

	"go.uber.org/zap"
)

// maxBodyBytes caps how much of a response body is read.
const maxBodyBytes = 4 << 20

// CredentialSource yields the bearer credential for the current session.
// An empty string means no credential is attached.
type CredentialSource interface {
	Credential() string
}

// StaticCredential is a fixed credential.
type StaticCredential string

// Credential implements CredentialSource.
func (s StaticCredential) Credential() string { return string(s) }

// Client performs requests against the backend API.
type Client struct {
	baseURL *url.URL
	http    *http.Client
	cred    CredentialSource
	metrics *Metrics
	logger  *zap.Logger
}

// Option configures a Client.
type Option func(*Client)

// WithHTTPClient replaces the default HTTP client.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) { c.http = hc }
}

// WithTimeout sets the transport timeout of the default HTTP client.
func WithTimeout(d time.Duration) Option {
	return func(c *Client) { c.http = &http.Client{Timeout: d} }
}

// WithMetrics records every call.
func WithMetrics(m *Metrics) Option {
	return func(c *Client) { c.metrics = m }
}

// WithLogger sets the logger.
func WithLogger(l *zap.Logger) Option {
	return func(c *Client) { c.logger = l }
}

// New creates a client for the backend at baseURL.
func New(baseURL string, opts ...Option) (*Client, error) {
	u, err := url.Parse(strings.TrimRight(baseURL, "/"))
	if err != nil {
		return nil, fmt.Errorf("parsing api base url: %w", err)
	}
	if u.Scheme == "" || u.Host == "" {
		return nil, fmt.Errorf("api base url %q must be absolute", baseURL)
	}

	c := &Client{
		baseURL: u,
		http:    &http.Client{Timeout: 15 * time.Second},
		logger:  zap.NewNop(),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c, nil
}

// WithCredential returns a copy of c that authenticates with src.
func (c *Client) WithCredential(src CredentialSource) *Client {
	cp := *c
	cp.cred = src
	return &cp
}

// request describes one backend call. route is the path template used as a
// metrics label.
type request struct {
	route  string
	method string
	path   string
	query  url.Values
	body   any
}

// Do sends method path with an optional JSON body and decodes a JSON
// response into out when out is non-nil.
func (c *Client) Do(ctx context.Context, method, path string, body, out any) error {
	return c.call(ctx, request{route: path, method: method, path: path, body: body}, out)
}

func (c *Client) call(ctx context.Context, req request, out any) error {
	start := time.Now()
	err := c.send(ctx, req, out)

	outcome := outcomeOK
	var gwErr *Error
	if errors.As(err, &gwErr) {
		if gwErr.Kind == KindServer {
			outcome = outcomeServer
		} else {
			outcome = outcomeTransport
		}
	}
	c.metrics.observe(req.method, req.route, outcome, time.Since(start))

	if err != nil {
		c.logger.Debug("backend call failed",
			zap.String("method", req.method),
			zap.String("route", req.route),
			zap.Error(err),
		)
	}
	return err
}

func (c *Client) send(ctx context.Context, req request, out any) error {
	target := c.resolve(req.path, req.query)

	var reader io.Reader
	if req.body != nil {
		payload, err := json.Marshal(req.body)
		if err != nil {
			return transportError(fmt.Errorf("encoding request body: %w", err))
		}
		reader = bytes.NewReader(payload)
	}

	httpReq, err := http.NewRequestWithContext(ctx, req.method, target, reader)
	if err != nil {
		return transportError(fmt.Errorf("building request: %w", err))
	}
	httpReq.Header.Set("Accept", "application/json")
	if req.body != nil {
		httpReq.Header.Set("Content-Type", "application/json")
	}
	if c.cred != nil {
		if token := c.cred.Credential(); token != "" {
			httpReq.Header.Set("Authorization", "Bearer "+token)
		}
	}

	resp, err := c.http.Do(httpReq)
	if err != nil {
		return transportError(err)
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(io.LimitReader(resp.Body, maxBodyBytes))
	if err != nil {
		return transportError(fmt.Errorf("reading response: %w", err))
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return serverError(resp.StatusCode, data)
	}

	if out == nil || len(bytes.TrimSpace(data)) == 0 {
		return nil
	}
	if err := json.Unmarshal(data, out); err != nil {
		return transportError(fmt.Errorf("decoding response: %w", err))
	}
	return nil
}

// resolve joins path and query onto the base URL.
func (c *Client) resolve(path string, query url.Values) string {
	u := *c.baseURL
	u.Path = strings.TrimRight(u.Path, "/") + "/" + strings.TrimLeft(path, "/")
	if len(query) > 0 {
		u.RawQuery = query.Encode()
	}
	return u.String()
}
