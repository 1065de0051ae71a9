package api

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/url"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/pkg/errors"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"golang.org/x/time/rate"
)

const (
	// RequestIDHeader carries a per-request UUID for correlating client and server logs.
	RequestIDHeader = "X-Request-ID"

	contentTypeJSON  = "application/json"
	defaultTimeout   = 30 * time.Second
	defaultUserAgent = "go-social-client/1.0"
)

// RequestHook runs before a request is sent. An error aborts the request.
type RequestHook func(req *http.Request) error

// ResponseHook runs after a response arrives, whatever its status. It returns the
// response the caller should see; a hook that replaces resp must close it.
type ResponseHook func(req *http.Request, resp *http.Response) (*http.Response, error)

type hook[T any] struct {
	id uint64
	fn T
}

// Client talks to the REST API rooted at a base URL.
type Client struct {
	baseURL   string
	http      *http.Client
	limiter   *rate.Limiter
	userAgent string
	log       zerolog.Logger

	mu            sync.RWMutex
	nextHookID    uint64
	requestHooks  []hook[RequestHook]
	responseHooks []hook[ResponseHook]
}

// Option configures a Client.
type Option func(*Client)

// WithHTTPClient replaces the underlying http.Client. A cookie jar is added if it has none.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) {
		if hc.Jar == nil {
			hc.Jar = c.http.Jar
		}
		c.http = hc
	}
}

// WithJar sets the cookie jar that carries the credential.
func WithJar(jar http.CookieJar) Option {
	return func(c *Client) {
		c.http.Jar = jar
	}
}

func WithTimeout(d time.Duration) Option {
	return func(c *Client) {
		c.http.Timeout = d
	}
}

// WithRateLimit caps outgoing requests per second. rps <= 0 disables the limit.
func WithRateLimit(rps float64, burst int) Option {
	return func(c *Client) {
		if rps <= 0 {
			c.limiter = nil
			return
		}
		if burst < 1 {
			burst = 1
		}
		c.limiter = rate.NewLimiter(rate.Limit(rps), burst)
	}
}

func WithLogger(l zerolog.Logger) Option {
	return func(c *Client) {
		c.log = l
	}
}

func WithUserAgent(ua string) Option {
	return func(c *Client) {
		c.userAgent = ua
	}
}

// New creates a Client for baseURL (e.g. "https://api.example.com").
func New(baseURL string, opts ...Option) (*Client, error) {
	u, err := url.Parse(baseURL)
	if err != nil {
		return nil, errors.Wrap(err, "[api.New] invalid base URL")
	}
	if u.Scheme == "" || u.Host == "" {
		return nil, errors.Errorf("[api.New] base URL %q must be absolute", baseURL)
	}

	jar, err := NewJar()
	if err != nil {
		return nil, errors.Wrap(err, "[api.New] cookie jar")
	}

	c := &Client{
		baseURL:   strings.TrimRight(baseURL, "/"),
		http:      &http.Client{Timeout: defaultTimeout, Jar: jar},
		userAgent: defaultUserAgent,
		log:       log.Logger,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c, nil
}

// BaseURL returns the API root.
func (c *Client) BaseURL() string {
	return c.baseURL
}

// Jar returns the cookie jar holding the credential.
func (c *Client) Jar() http.CookieJar {
	return c.http.Jar
}

// URL resolves path against the base URL. Absolute URLs, such as
// pagination cursors returned by the server, are returned unchanged.
func (c *Client) URL(path string) string {
	if strings.HasPrefix(path, "http://") || strings.HasPrefix(path, "https://") {
		return path
	}
	return c.baseURL + "/" + strings.TrimLeft(path, "/")
}

// UseRequestHook registers h and returns the func that removes it again.
func (c *Client) UseRequestHook(h RequestHook) (release func()) {
	c.mu.Lock()
	c.nextHookID++
	id := c.nextHookID
	c.requestHooks = append(c.requestHooks, hook[RequestHook]{id: id, fn: h})
	c.mu.Unlock()

	var once sync.Once
	return func() {
		once.Do(func() {
			c.mu.Lock()
			c.requestHooks = removeHook(c.requestHooks, id)
			c.mu.Unlock()
		})
	}
}

// UseResponseHook registers h and returns the func that removes it again.
func (c *Client) UseResponseHook(h ResponseHook) (release func()) {
	c.mu.Lock()
	c.nextHookID++
	id := c.nextHookID
	c.responseHooks = append(c.responseHooks, hook[ResponseHook]{id: id, fn: h})
	c.mu.Unlock()

	var once sync.Once
	return func() {
		once.Do(func() {
			c.mu.Lock()
			c.responseHooks = removeHook(c.responseHooks, id)
			c.mu.Unlock()
		})
	}
}

// HookCount reports how many hooks are currently registered.
func (c *Client) HookCount() (request, response int) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.requestHooks), len(c.responseHooks)
}

func removeHook[T any](hooks []hook[T], id uint64) []hook[T] {
	out := make([]hook[T], 0, len(hooks))
	for _, h := range hooks {
		if h.id != id {
			out = append(out, h)
		}
	}
	return out
}

func (c *Client) snapshotHooks() ([]RequestHook, []ResponseHook) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	req := make([]RequestHook, 0, len(c.requestHooks))
	for _, h := range c.requestHooks {
		req = append(req, h.fn)
	}
	resp := make([]ResponseHook, 0, len(c.responseHooks))
	for _, h := range c.responseHooks {
		resp = append(resp, h.fn)
	}
	return req, resp
}

// NewRequest builds a request for path with an optional query and raw body.
// The body is held in memory so the request can be re-sent.
func (c *Client) NewRequest(ctx context.Context, method, path string, query url.Values, body []byte, contentType string) (*http.Request, error) {
	target := c.URL(path)
	if len(query) > 0 {
		u, err := url.Parse(target)
		if err != nil {
			return nil, errors.Wrapf(err, "[Client.NewRequest] parse %s", target)
		}
		q := u.Query()
		for key, values := range query {
			for _, v := range values {
				q.Add(key, v)
			}
		}
		u.RawQuery = q.Encode()
		target = u.String()
	}

	var reader io.Reader
	if body != nil {
		reader = bytes.NewReader(body)
	}
	req, err := http.NewRequestWithContext(ctx, method, target, reader)
	if err != nil {
		return nil, errors.Wrap(err, "[Client.NewRequest] create request")
	}

	req.Header.Set("Accept", contentTypeJSON)
	req.Header.Set("User-Agent", c.userAgent)
	if contentType != "" {
		req.Header.Set("Content-Type", contentType)
	}
	return req, nil
}

// Do sends req through the request hooks, the transport and the response hooks.
// Responses with error statuses are returned as-is; see DoJSON for decoding.
func (c *Client) Do(req *http.Request) (*http.Response, error) {
	ctx := req.Context()
	if req.Header.Get(RequestIDHeader) == "" {
		req.Header.Set(RequestIDHeader, uuid.NewString())
	}

	useHooks := !HooksDisabled(ctx)
	requestHooks, responseHooks := c.snapshotHooks()

	if useHooks {
		for _, h := range requestHooks {
			if err := h(req); err != nil {
				return nil, errors.Wrap(err, "[Client.Do] request hook")
			}
		}
	}

	if c.limiter != nil {
		if err := c.limiter.Wait(ctx); err != nil {
			return nil, errors.Wrap(err, "[Client.Do] rate limit")
		}
	}

	start := time.Now()
	resp, err := c.http.Do(req)
	if err != nil {
		c.log.Warn().Err(err).
			Str("method", req.Method).
			Str("url", req.URL.Redacted()).
			Msg("request failed")
		return nil, errors.Wrap(err, "[Client.Do] transport")
	}
	c.log.Debug().
		Str("method", req.Method).
		Str("url", req.URL.Redacted()).
		Str("request_id", req.Header.Get(RequestIDHeader)).
		Int("status", resp.StatusCode).
		Bool("retry", IsRetried(ctx)).
		Dur("elapsed", time.Since(start)).
		Msg("request")

	if useHooks {
		for _, h := range responseHooks {
			if resp, err = h(req, resp); err != nil {
				return nil, err
			}
		}
	}
	return resp, nil
}

// Resend sends a copy of req marked as a retry. Cookies are re-read from the
// jar so a refreshed credential is picked up.
func (c *Client) Resend(req *http.Request) (*http.Response, error) {
	retry := req.Clone(MarkRetried(req.Context()))
	retry.Header.Del("Cookie")
	if req.Body != nil && req.Body != http.NoBody {
		if req.GetBody == nil {
			return nil, errors.New("[Client.Resend] request body cannot be replayed")
		}
		body, err := req.GetBody()
		if err != nil {
			return nil, errors.Wrap(err, "[Client.Resend] replay body")
		}
		retry.Body = body
	}
	return c.Do(retry)
}

// DoJSON sends req and decodes a 2xx JSON body into out (which may be nil).
// Other statuses are returned as *Error.
func (c *Client) DoJSON(req *http.Request, out any) error {
	resp, err := c.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()
	return decodeResponse(resp, out)
}

func decodeResponse(resp *http.Response, out any) error {
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return newError(resp)
	}
	if out == nil || resp.StatusCode == http.StatusNoContent {
		_, _ = io.Copy(io.Discard, resp.Body)
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil && err != io.EOF {
		return errors.Wrap(err, "[api] parse response")
	}
	return nil
}

// Get fetches path (or an absolute cursor URL) and decodes the body into out.
func (c *Client) Get(ctx context.Context, path string, query url.Values, out any) error {
	return c.sendJSON(ctx, http.MethodGet, path, query, nil, out)
}

// Post sends in as JSON (no body when nil) and decodes the reply into out.
func (c *Client) Post(ctx context.Context, path string, in, out any) error {
	return c.sendJSON(ctx, http.MethodPost, path, nil, in, out)
}

func (c *Client) Put(ctx context.Context, path string, in, out any) error {
	return c.sendJSON(ctx, http.MethodPut, path, nil, in, out)
}

func (c *Client) Patch(ctx context.Context, path string, in, out any) error {
	return c.sendJSON(ctx, http.MethodPatch, path, nil, in, out)
}

func (c *Client) Delete(ctx context.Context, path string) error {
	return c.sendJSON(ctx, http.MethodDelete, path, nil, nil, nil)
}

func (c *Client) sendJSON(ctx context.Context, method, path string, query url.Values, in, out any) error {
	var (
		body        []byte
		contentType string
	)
	if in != nil {
		data, err := json.Marshal(in)
		if err != nil {
			return errors.Wrap(err, "[api] marshal body")
		}
		body = data
		contentType = contentTypeJSON
	}

	req, err := c.NewRequest(ctx, method, path, query, body, contentType)
	if err != nil {
		return err
	}
	return c.DoJSON(req, out)
}
