package httpapi

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

	hclog "github.com/hashicorp/go-hclog"
	"golang.org/x/oauth2"

	apperrors "rehab/internal/platform/errors"
	"rehab/internal/platform/id"
	"rehab/internal/platform/logging"
)

const (
	defaultTimeout  = 30 * time.Second
	maxBodyBytes    = 32 << 20
	requestIDHeader = "X-Request-ID"
)

// TokenSource yields the current bearer token, or "" when logged out.
type TokenSource interface {
	Token() string
}

// StatusObserver is told the status of every response that arrived.
type StatusObserver interface {
	ObserveStatus(path string, status int)
}

type Request struct {
	Method string
	Path   string
	JSON   any
	Form   url.Values
}

// Client dispatches one request per call against the backend base URL.
// It never retries.
type Client struct {
	baseURL  string
	http     *http.Client
	tokens   TokenSource
	observer StatusObserver
	ids      id.Generator
	logger   hclog.Logger
}

type Option func(*Client)

func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) { c.http = hc }
}

func WithTimeout(d time.Duration) Option {
	return func(c *Client) {
		if d > 0 {
			c.http.Timeout = d
		}
	}
}

func WithLogger(logger hclog.Logger) Option {
	return func(c *Client) { c.logger = logger }
}

func WithIDs(ids id.Generator) Option {
	return func(c *Client) { c.ids = ids }
}

func New(baseURL string, opts ...Option) *Client {
	c := &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		http:    &http.Client{Timeout: defaultTimeout},
		ids:     id.UUID{},
		logger:  logging.Discard(),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Bind attaches the token source and status observer. Bootstrap calls it once
// the session store exists, before any request is made.
func (c *Client) Bind(tokens TokenSource, observer StatusObserver) {
	c.tokens = tokens
	c.observer = observer
}

func (c *Client) BaseURL() string { return c.baseURL }

// Do sends req and decodes a JSON response into out. A nil out discards the body.
func (c *Client) Do(ctx context.Context, req Request, out any) error {
	resp, reqID, err := c.send(ctx, req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	body, readErr := io.ReadAll(io.LimitReader(resp.Body, maxBodyBytes))
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		apiErr := apperrors.FromStatus(resp.StatusCode, detailOf(body))
		c.logger.Warn("request failed", "request_id", reqID, "method", req.Method, "path", req.Path, "status", resp.StatusCode)
		return apiErr
	}
	if out == nil {
		return nil
	}
	if readErr != nil || len(bytes.TrimSpace(body)) == 0 {
		c.logger.Warn("empty or unreadable response", "request_id", reqID, "path", req.Path)
		return apperrors.NewMalformedError()
	}
	if err := json.Unmarshal(body, out); err != nil {
		c.logger.Warn("malformed response", "request_id", reqID, "path", req.Path, "error", err)
		return apperrors.NewMalformedError()
	}
	return nil
}

// GetBytes fetches a binary resource such as a PDF report.
func (c *Client) GetBytes(ctx context.Context, path string) ([]byte, error) {
	req := Request{Method: http.MethodGet, Path: path}
	resp, reqID, err := c.send(ctx, req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	body, readErr := io.ReadAll(io.LimitReader(resp.Body, maxBodyBytes))
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		c.logger.Warn("download failed", "request_id", reqID, "path", path, "status", resp.StatusCode)
		return nil, apperrors.FromStatus(resp.StatusCode, detailOf(body))
	}
	if readErr != nil {
		return nil, apperrors.NewNetworkError()
	}
	return body, nil
}

func (c *Client) send(ctx context.Context, req Request) (*http.Response, string, error) {
	httpReq, err := c.build(ctx, req)
	if err != nil {
		return nil, "", err
	}
	reqID := httpReq.Header.Get(requestIDHeader)
	c.logger.Debug("request", "request_id", reqID, "method", req.Method, "path", req.Path, "auth", httpReq.Header.Get("Authorization") != "")

	resp, err := c.http.Do(httpReq)
	if err != nil {
		c.logger.Warn("transport failure", "request_id", reqID, "method", req.Method, "path", req.Path, "error", err)
		return nil, reqID, apperrors.NewNetworkError()
	}
	if c.observer != nil {
		c.observer.ObserveStatus(req.Path, resp.StatusCode)
	}
	return resp, reqID, nil
}

func (c *Client) build(ctx context.Context, req Request) (*http.Request, error) {
	method := req.Method
	if method == "" {
		method = http.MethodGet
	}
	var body io.Reader
	contentType := ""
	switch {
	case req.Form != nil:
		body = strings.NewReader(req.Form.Encode())
		contentType = "application/x-www-form-urlencoded"
	case req.JSON != nil:
		payload, err := json.Marshal(req.JSON)
		if err != nil {
			return nil, fmt.Errorf("encode request body: %w", err)
		}
		body = bytes.NewReader(payload)
		contentType = "application/json"
	}

	httpReq, err := http.NewRequestWithContext(ctx, method, c.baseURL+req.Path, body)
	if err != nil {
		return nil, fmt.Errorf("build request: %w", err)
	}
	if contentType != "" {
		httpReq.Header.Set("Content-Type", contentType)
	}
	httpReq.Header.Set("Accept", "application/json")
	httpReq.Header.Set(requestIDHeader, c.ids.New())
	if c.tokens != nil {
		if token := c.tokens.Token(); token != "" {
			(&oauth2.Token{AccessToken: token, TokenType: "Bearer"}).SetAuthHeader(httpReq)
		}
	}
	return httpReq, nil
}

// detailOf extracts a string "detail" field from an error body. Structured
// details such as validation lists yield "".
func detailOf(body []byte) string {
	var payload struct {
		Detail json.RawMessage `json:"detail"`
	}
	if err := json.Unmarshal(body, &payload); err != nil || len(payload.Detail) == 0 {
		return ""
	}
	var detail string
	if err := json.Unmarshal(payload.Detail, &detail); err != nil {
		return ""
	}
	return strings.TrimSpace(detail)
}

// IsAuthRejection reports whether err is a 401/403 from the backend.
func IsAuthRejection(err error) bool {
	return errors.Is(err, apperrors.ErrUnauthorized)
}
