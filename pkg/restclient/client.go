// Package restclient is the HTTP client that test cases use to talk to the API under test.
//
// A Client either serves requests in-process through an http.Handler,
// or sends them over the network to a BaseURL.
package restclient

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"sync"

	"go.llib.dev/frameless/pkg/errorkit"
	"go.llib.dev/frameless/pkg/logger"
	"go.llib.dev/frameless/pkg/logging"
)

const ErrNoTarget errorkit.Error = "restclient: neither Handler nor BaseURL is configured"

const (
	headerAuthorization = "Authorization"
	headerContentType   = "Content-Type"
	headerAccept        = "Accept"
)

// DefaultBodyReadLimit is the max amount of bytes read from a response body.
const DefaultBodyReadLimit = 16 * 1024 * 1024

type Client struct {
	// Handler [optional] serves the requests in-process.
	// Handler takes priority over BaseURL.
	Handler http.Handler
	// BaseURL [optional] is the address of a running API.
	BaseURL *url.URL
	// HTTPClient [optional] is used when requests go through the network.
	//
	// Default: http.DefaultClient
	HTTPClient *http.Client
	// Header [optional] is added to every request.
	Header http.Header
	// Format is the request body encoding.
	//
	// Default: JSON
	Format Format

	m    sync.RWMutex
	user User
}

// User is an authenticated principal.
type User interface {
	Username() string
}

// ForceAuthenticate makes every following request authenticated as the given user.
// Passing nil removes the authentication.
func (c *Client) ForceAuthenticate(user User) {
	c.m.Lock()
	defer c.m.Unlock()
	c.user = user
}

// AuthenticatedUser returns the user set with ForceAuthenticate.
func (c *Client) AuthenticatedUser() (User, bool) {
	c.m.RLock()
	defer c.m.RUnlock()
	return c.user, c.user != nil
}

// TokenHeader formats the Authorization header value for a user.
func TokenHeader(user User) string {
	return "Token " + user.Username()
}

// ParseTokenHeader is the inverse of TokenHeader.
func ParseTokenHeader(value string) (string, bool) {
	username, ok := strings.CutPrefix(value, "Token ")
	return username, ok && username != ""
}

type RequestOption func(*http.Request)

func WithQuery(query url.Values) RequestOption {
	return func(r *http.Request) {
		q := r.URL.Query()
		for k, vs := range query {
			for _, v := range vs {
				q.Add(k, v)
			}
		}
		r.URL.RawQuery = q.Encode()
	}
}

func WithHeader(key, value string) RequestOption {
	return func(r *http.Request) { r.Header.Set(key, value) }
}

func (c *Client) Get(ctx context.Context, path string, opts ...RequestOption) (*Response, error) {
	return c.Do(ctx, http.MethodGet, path, nil, opts...)
}

func (c *Client) Post(ctx context.Context, path string, body any, opts ...RequestOption) (*Response, error) {
	return c.Do(ctx, http.MethodPost, path, body, opts...)
}

func (c *Client) Put(ctx context.Context, path string, body any, opts ...RequestOption) (*Response, error) {
	return c.Do(ctx, http.MethodPut, path, body, opts...)
}

func (c *Client) Patch(ctx context.Context, path string, body any, opts ...RequestOption) (*Response, error) {
	return c.Do(ctx, http.MethodPatch, path, body, opts...)
}

func (c *Client) Delete(ctx context.Context, path string, opts ...RequestOption) (*Response, error) {
	return c.Do(ctx, http.MethodDelete, path, nil, opts...)
}

// Do sends a request with the given method and body.
// A nil body sends no request body.
func (c *Client) Do(ctx context.Context, method, path string, body any, opts ...RequestOption) (*Response, error) {
	req, err := c.newRequest(ctx, method, path, body)
	if err != nil {
		return nil, err
	}
	for _, opt := range opts {
		opt(req)
	}
	logger.Debug(ctx, "restclient request",
		logging.Field("method", method),
		logging.Field("url", req.URL.String()))

	resp, err := c.do(req)
	if err != nil {
		logger.Debug(ctx, "restclient request failed", logging.ErrField(err))
		return nil, err
	}
	logger.Debug(ctx, "restclient response",
		logging.Field("method", method),
		logging.Field("url", req.URL.String()),
		logging.Field("status", resp.StatusCode))
	return resp, nil
}

func (c *Client) newRequest(ctx context.Context, method, path string, body any) (*http.Request, error) {
	target, err := c.resolve(path)
	if err != nil {
		return nil, err
	}
	var (
		reader      io.Reader
		contentType string
	)
	if body != nil {
		data, ct, err := c.format().encode(body)
		if err != nil {
			return nil, fmt.Errorf("restclient: encoding %s %s body: %w", method, path, err)
		}
		reader, contentType = bytes.NewReader(data), ct
	}
	req, err := http.NewRequestWithContext(ctx, method, target.String(), reader)
	if err != nil {
		return nil, err
	}
	for k, vs := range c.Header {
		for _, v := range vs {
			req.Header.Add(k, v)
		}
	}
	req.Header.Set(headerAccept, mediaTypeJSON)
	if contentType != "" {
		req.Header.Set(headerContentType, contentType)
	}
	if user, ok := c.AuthenticatedUser(); ok {
		req.Header.Set(headerAuthorization, TokenHeader(user))
	}
	return req, nil
}

func (c *Client) resolve(path string) (*url.URL, error) {
	ref, err := url.Parse(path)
	if err != nil {
		return nil, err
	}
	switch {
	case c.Handler != nil:
		base := &url.URL{Scheme: "http", Host: "example.com"}
		return base.ResolveReference(ref), nil
	case c.BaseURL != nil:
		return c.BaseURL.ResolveReference(ref), nil
	default:
		return nil, ErrNoTarget
	}
}

func (c *Client) do(req *http.Request) (*Response, error) {
	if c.Handler != nil {
		if err := req.Context().Err(); err != nil {
			return nil, err
		}
		rr := httptest.NewRecorder()
		c.Handler.ServeHTTP(rr, req)
		return &Response{
			StatusCode: rr.Code,
			Header:     rr.Header(),
			Body:       rr.Body.Bytes(),
		}, nil
	}
	resp, err := c.httpClient().Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()
	body, err := io.ReadAll(io.LimitReader(resp.Body, DefaultBodyReadLimit))
	if err != nil {
		return nil, err
	}
	return &Response{
		StatusCode: resp.StatusCode,
		Header:     resp.Header,
		Body:       body,
	}, nil
}

func (c *Client) httpClient() *http.Client {
	if c.HTTPClient != nil {
		return c.HTTPClient
	}
	return http.DefaultClient
}

func (c *Client) format() Format {
	if c.Format == nil {
		return JSON
	}
	return c.Format
}
