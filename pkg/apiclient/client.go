package apiclient

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"net/http/cookiejar"
	"net/url"
	"strconv"
	"sync"
	"time"
)

// Client is the HTTP client for the remote authentication API. It attaches
// the bearer and anti-forgery headers to every outgoing request and
// normalizes every failure into *Error. Safe for concurrent use.
type Client struct {
	httpClient *http.Client
	baseURL    *url.URL
	config     Config
	userAgent  string
	log        *slog.Logger

	mu    sync.RWMutex
	token string
	jar   http.CookieJar
}

// New creates a client from the provided Config.
func New(cfg Config, opts ...Option) (*Client, error) {
	base, err := url.Parse(cfg.BaseURL)
	if err != nil || base.Scheme == "" || base.Host == "" {
		return nil, errors.Join(ErrInvalidBaseURL, err)
	}

	c := &Client{
		baseURL:   base,
		config:    cfg,
		userAgent: cfg.UserAgent,
		log:       slog.New(slog.DiscardHandler),
	}

	for _, opt := range opts {
		opt(c)
	}

	if c.httpClient == nil {
		c.httpClient = &http.Client{Timeout: cfg.Timeout}
	}
	c.jar = c.httpClient.Jar
	if c.jar == nil {
		// Jar errors only on nil PublicSuffixList option misuse
		jar, _ := cookiejar.New(nil)
		c.jar = jar
	}

	return c, nil
}

// SetToken installs the bearer token attached to all subsequent requests.
func (c *Client) SetToken(token string) {
	c.mu.Lock()
	c.token = token
	c.mu.Unlock()
}

// ClearToken removes the bearer token; subsequent requests rely on cookies alone.
func (c *Client) ClearToken() {
	c.SetToken("")
}

// Token returns the currently installed bearer token, empty when none.
func (c *Client) Token() string {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.token
}

// ResetCookies discards every cookie the client holds, including the session
// and anti-forgery cookies. Used during logout teardown. Requests already in
// flight keep the jar they started with.
func (c *Client) ResetCookies() {
	jar, _ := cookiejar.New(nil)
	c.mu.Lock()
	c.jar = jar
	c.mu.Unlock()
}

// cookieJar returns the jar current requests should bind to.
func (c *Client) cookieJar() http.CookieJar {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.jar
}

// Handshake establishes the anti-forgery cookie. It must precede any
// state-changing request after a fresh start or cookie reset.
func (c *Client) Handshake(ctx context.Context) error {
	return c.do(ctx, http.MethodGet, c.config.HandshakePath, nil, nil)
}

// Get performs a GET request and decodes the JSON response into out (may be nil).
func (c *Client) Get(ctx context.Context, path string, out any) error {
	return c.do(ctx, http.MethodGet, path, nil, out)
}

// Post performs a POST request with a JSON body (may be nil) and decodes the
// JSON response into out (may be nil).
func (c *Client) Post(ctx context.Context, path string, body, out any) error {
	return c.do(ctx, http.MethodPost, path, body, out)
}

// Put performs a PUT request with a JSON body.
func (c *Client) Put(ctx context.Context, path string, body, out any) error {
	return c.do(ctx, http.MethodPut, path, body, out)
}

// Delete performs a DELETE request.
func (c *Client) Delete(ctx context.Context, path string, out any) error {
	return c.do(ctx, http.MethodDelete, path, nil, out)
}

func (c *Client) do(ctx context.Context, method, path string, body, out any) error {
	var reader io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return errors.Join(ErrRequestFailed, err)
		}
		reader = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL.JoinPath(path).String(), reader)
	if err != nil {
		return errors.Join(ErrRequestFailed, err)
	}

	req.Header.Set("Accept", "application/json")
	if c.userAgent != "" {
		req.Header.Set("User-Agent", c.userAgent)
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token := c.Token(); token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	jar := c.cookieJar()
	if xsrf := c.xsrfToken(jar); xsrf != "" {
		req.Header.Set(c.config.XSRFHeaderName, xsrf)
	}

	// Each request runs on a copy of the configured client bound to the jar
	// it started with, so a concurrent cookie reset never mutates a client
	// another goroutine is dispatching through.
	httpClient := *c.httpClient
	httpClient.Jar = jar
	resp, err := httpClient.Do(req)
	if err != nil {
		c.log.DebugContext(ctx, "request failed before response",
			slog.String("method", method), slog.String("path", path))
		return errors.Join(ErrRequestFailed, err)
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return errors.Join(ErrRequestFailed, err)
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		apiErr := newError(resp, data)
		c.log.DebugContext(ctx, "request rejected",
			slog.String("method", method),
			slog.String("path", path),
			slog.Int("status", apiErr.StatusCode))
		return apiErr
	}

	if out != nil && len(data) > 0 {
		if err := json.Unmarshal(data, out); err != nil {
			return errors.Join(ErrDecodeResponse, err)
		}
	}
	return nil
}

// xsrfToken reads the anti-forgery cookie from the jar and percent-decodes
// its value. Returns empty when the cookie is absent or undecodable.
func (c *Client) xsrfToken(jar http.CookieJar) string {
	for _, cookie := range jar.Cookies(c.baseURL) {
		if cookie.Name != c.config.XSRFCookieName {
			continue
		}
		decoded, err := url.QueryUnescape(cookie.Value)
		if err != nil {
			return ""
		}
		return decoded
	}
	return ""
}

// errorBody is the JSON failure envelope the remote API responds with.
type errorBody struct {
	Message string              `json:"message"`
	Errors  map[string][]string `json:"errors"`
}

func newError(resp *http.Response, data []byte) *Error {
	apiErr := &Error{
		StatusCode: resp.StatusCode,
		Message:    http.StatusText(resp.StatusCode),
	}

	var body errorBody
	if len(data) > 0 && json.Unmarshal(data, &body) == nil {
		if body.Message != "" {
			apiErr.Message = body.Message
		}
		if len(body.Errors) > 0 {
			apiErr.FieldErrors = body.Errors
		}
	}

	apiErr.RetryAfterSeconds = parseRetryAfter(resp.Header.Get("Retry-After"))
	return apiErr
}

// parseRetryAfter accepts both forms the header allows: delta seconds and an
// HTTP date. Unparseable values are treated as absent.
func parseRetryAfter(value string) int {
	if value == "" {
		return 0
	}
	if seconds, err := strconv.Atoi(value); err == nil && seconds >= 0 {
		return seconds
	}
	if at, err := http.ParseTime(value); err == nil {
		if delta := time.Until(at); delta > 0 {
			return int(delta.Round(time.Second) / time.Second)
		}
	}
	return 0
}
