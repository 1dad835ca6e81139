package client

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net"
	"net/url"
	"strings"
	"sync"
	"time"

	"github.com/andrejsstepanovs/collab/apperrors"
	fastshot "github.com/opus-domini/fast-shot"
	"github.com/opus-domini/fast-shot/constant/mime"
	"github.com/rs/zerolog"
)

const DefaultTimeout = 10 * time.Second

// TokenSource provides the bearer token attached to every request.
type TokenSource interface {
	Token(ctx context.Context) (string, error)
}

// Client talks to the Collab backend.
type Client struct {
	// baseURL is split into origin (scheme://host) and prefix (its path,
	// e.g. "/api") so request paths never depend on url joining rules.
	baseURL string
	origin  string
	prefix  string

	api fastshot.ClientHttpMethods
	// files has no client level timeout, uploads are bounded by their context.
	files fastshot.ClientHttpMethods

	tokens TokenSource
	log    zerolog.Logger

	mu             sync.RWMutex
	onUnauthorized func()
}

type Option func(*Client)

// WithTimeout sets the timeout of regular (non upload) requests.
func WithTimeout(timeout time.Duration) Option {
	return func(c *Client) {
		c.api = httpClient(c.origin, timeout)
	}
}

func New(baseURL string, tokens TokenSource, log zerolog.Logger, opts ...Option) *Client {
	baseURL = strings.TrimRight(baseURL, "/")
	origin, prefix := splitBaseURL(baseURL)
	c := &Client{
		baseURL: baseURL,
		origin:  origin,
		prefix:  prefix,
		api:     httpClient(origin, DefaultTimeout),
		files:   httpClient(origin, 0),
		tokens:  tokens,
		log:     log.With().Str("component", "client").Logger(),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

func httpClient(baseURL string, timeout time.Duration) fastshot.ClientHttpMethods {
	b := fastshot.NewClient(baseURL)
	if timeout > 0 {
		b = b.Config().SetTimeout(timeout)
	}

	return b.Config().SetFollowRedirects(true).
		Header().Add("Accept", "application/json").
		Build()
}

func splitBaseURL(baseURL string) (string, string) {
	u, err := url.Parse(baseURL)
	if err != nil || u.Host == "" {
		return baseURL, ""
	}
	prefix := strings.TrimRight(u.Path, "/")
	u.Path, u.RawPath, u.RawQuery, u.Fragment = "", "", "", ""
	return u.String(), prefix
}

// endpoint is the request path relative to the origin.
func (c *Client) endpoint(path string) string {
	return c.prefix + path
}

func (c *Client) BaseURL() string {
	return c.baseURL
}

// ResolveURL joins a server relative path with the base url.
// Absolute urls are returned unchanged.
func (c *Client) ResolveURL(path string) string {
	if path == "" || strings.HasPrefix(path, "http://") || strings.HasPrefix(path, "https://") {
		return path
	}
	if !strings.HasPrefix(path, "/") {
		path = "/" + path
	}
	return c.baseURL + path
}

// OnUnauthorized registers fn to be called whenever any request gets a 401.
func (c *Client) OnUnauthorized(fn func()) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.onUnauthorized = fn
}

func (c *Client) unauthorized() {
	c.mu.RLock()
	fn := c.onUnauthorized
	c.mu.RUnlock()

	if fn != nil {
		fn()
	}
}

// prepare sets the context, the content type and, when a session token is
// stored, the bearer token. A failing token lookup is logged and the request
// goes out without credentials.
func (c *Client) prepare(ctx context.Context, req *fastshot.RequestBuilder, contentType mime.Type) *fastshot.RequestBuilder {
	req = req.Context().Set(ctx)
	if contentType != "" {
		req = req.Header().AddContentType(contentType)
	}
	if c.tokens == nil {
		return req
	}

	token, err := c.tokens.Token(ctx)
	if err != nil {
		c.log.Warn().Err(err).Msg("failed to read session token")
		return req
	}
	if token != "" {
		req = req.Auth().BearerToken(token)
	}
	return req
}

// finish turns the outcome of a fast-shot Send into a decoded result or a typed error.
func finish[T any](ctx context.Context, c *Client, method, path string, resp *fastshot.Response, sendErr error, result *T) error {
	op := method + " " + path
	if sendErr != nil {
		c.log.Debug().Err(sendErr).Str("op", op).Msg("request failed before a response")
		return &apperrors.NetworkError{Op: op, Timeout: isTimeout(ctx, sendErr), Cause: sendErr}
	}
	defer resp.Body().Close()

	c.log.Debug().Str("op", op).Int("status", resp.Status().Code()).Msg("received response")

	err := parseHTTPResponse(method, path, *resp, result)
	if apperrors.IsUnauthorized(err) {
		c.unauthorized()
	}
	return err
}

func parseHTTPResponse[T any](method, path string, resp fastshot.Response, result *T) error {
	if resp.Status().IsError() {
		statusErr := &apperrors.StatusError{
			Method:     method,
			Path:       path,
			StatusCode: resp.Status().Code(),
		}
		msg, err := resp.Body().AsString()
		if err != nil {
			return fmt.Errorf("failed to read error response: %w", err)
		}
		statusErr.Raw = msg

		var body map[string]any
		if json.Unmarshal([]byte(msg), &body) == nil {
			statusErr.Body = body
		}
		return statusErr
	}

	if result == nil {
		return nil
	}

	err := resp.Body().AsJSON(result)
	if err != nil {
		return fmt.Errorf("failed to parse response: %w", err)
	}

	return nil
}

func isTimeout(ctx context.Context, err error) bool {
	if errors.Is(ctx.Err(), context.DeadlineExceeded) || errors.Is(err, context.DeadlineExceeded) {
		return true
	}
	var netErr net.Error
	return errors.As(err, &netErr) && netErr.Timeout()
}
