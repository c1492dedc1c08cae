// Package api is the HTTP client wrapper for the portal REST API. It exposes
// verb operations that attach the stored access token to every request and
// drive the silent token-refresh protocol: a 401 response triggers exactly
// one refresh-and-retry; a failed refresh clears the stored credentials and
// fires the session-expired handler.
package api

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/cookiejar"
	"strings"

	"github.com/google/uuid"
	"github.com/pkg/errors"
	"github.com/rs/zerolog"

	"github.com/beritahub/go-portal-client/storage"
)

const refreshPath = "/user/refresh-token"

// Client issues requests against the portal API. The zero value is not
// usable; construct one with New.
type Client struct {
	baseURL string
	http    *http.Client
	storage storage.Storage
	log     zerolog.Logger

	refresh refresher

	// onSessionExpired runs after a failed refresh has cleared the stored
	// state. Hosts use it to force navigation back to the login entry point.
	onSessionExpired func()
}

// Option configures a Client.
type Option func(*Client)

// WithHTTPClient replaces the underlying transport. The client's cookie jar
// carries the refresh credential, so a replacement without a jar gets one.
func WithHTTPClient(h *http.Client) Option {
	return func(c *Client) {
		c.http = h
	}
}

// WithLogger sets the client logger. Defaults to a no-op logger.
func WithLogger(l zerolog.Logger) Option {
	return func(c *Client) {
		c.log = l
	}
}

// WithSessionExpiredHandler registers the hook invoked when a token refresh
// fails terminally.
func WithSessionExpiredHandler(fn func()) Option {
	return func(c *Client) {
		c.onSessionExpired = fn
	}
}

// New creates a Client rooted at baseURL (including the /api prefix), backed
// by store for the access token.
func New(baseURL string, store storage.Storage, options ...Option) (*Client, error) {
	if strings.TrimSpace(baseURL) == "" {
		return nil, errors.New("[api.New] baseURL is required")
	}
	if store == nil {
		return nil, errors.New("[api.New] storage is required")
	}

	c := &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		storage: store,
		log:     zerolog.Nop(),
	}

	for _, opt := range options {
		opt(c)
	}

	if c.http == nil {
		c.http = &http.Client{}
	}
	if c.http.Jar == nil {
		jar, err := cookiejar.New(nil)
		if err != nil {
			return nil, errors.Wrap(err, "[api.New] cookiejar.New")
		}
		c.http.Jar = jar
	}

	return c, nil
}

// BaseURL returns the configured API root.
func (c *Client) BaseURL() string {
	return c.baseURL
}

func (c *Client) Get(ctx context.Context, path string, out any) error {
	req, err := c.newRequest(ctx, http.MethodGet, path, nil)
	if err != nil {
		return err
	}
	return c.do(req, out)
}

func (c *Client) Post(ctx context.Context, path string, body, out any) error {
	req, err := c.newRequest(ctx, http.MethodPost, path, body)
	if err != nil {
		return err
	}
	return c.do(req, out)
}

func (c *Client) Put(ctx context.Context, path string, body, out any) error {
	req, err := c.newRequest(ctx, http.MethodPut, path, body)
	if err != nil {
		return err
	}
	return c.do(req, out)
}

func (c *Client) Delete(ctx context.Context, path string, out any) error {
	req, err := c.newRequest(ctx, http.MethodDelete, path, nil)
	if err != nil {
		return err
	}
	return c.do(req, out)
}

// newRequest builds a JSON request. Bodies are materialized up front so the
// retry path can replay them through GetBody.
func (c *Client) newRequest(ctx context.Context, method, path string, body any) (*http.Request, error) {
	var reader io.Reader
	if body != nil {
		encoded, err := json.Marshal(body)
		if err != nil {
			return nil, errors.Wrap(err, "[Client.newRequest] json.Marshal")
		}
		reader = bytes.NewReader(encoded)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
	if err != nil {
		return nil, errors.Wrap(err, "[Client.newRequest] http.NewRequestWithContext")
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set("X-Request-ID", uuid.NewString())
	return req, nil
}

// attempt carries a request through the retry pipeline together with its
// one-shot retry marker, instead of mutating a shared request object.
type attempt struct {
	req     *http.Request
	retried bool
}

// do dispatches the request and runs the response interception protocol:
// attach bearer token, on 401 refresh once and reissue, otherwise decode or
// categorize the response.
func (c *Client) do(req *http.Request, out any) error {
	a := attempt{req: req}

	for {
		c.authorize(a.req)

		resp, err := c.http.Do(a.req)
		if err != nil {
			return networkError(err)
		}

		body, readErr := io.ReadAll(resp.Body)
		_ = resp.Body.Close()

		if resp.StatusCode == http.StatusUnauthorized && !a.retried {
			a.retried = true
			if _, err := c.refreshAccessToken(a.req.Context()); err != nil {
				return c.expireSession(err)
			}
			retry, err := cloneForRetry(a.req)
			if err != nil {
				return err
			}
			a.req = retry
			continue
		}

		if readErr != nil {
			return networkError(readErr)
		}
		if resp.StatusCode >= http.StatusBadRequest {
			return statusError(resp.StatusCode, body)
		}
		if out == nil || len(body) == 0 {
			return nil
		}
		if err := json.Unmarshal(body, out); err != nil {
			return errors.Wrap(err, "[Client.do] decode response body")
		}
		return nil
	}
}

// authorize attaches the current access token, read from durable storage so
// a refresh performed by a concurrent request is picked up immediately.
func (c *Client) authorize(req *http.Request) {
	token, err := c.storage.AccessToken()
	if err != nil {
		c.log.Warn().Err(err).Msg("reading stored access token failed")
		return
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
}

// expireSession handles a terminal refresh failure: clear everything the
// interceptor and session store share, then hand control to the host for a
// hard navigation to the login entry point.
func (c *Client) expireSession(cause error) error {
	if err := c.storage.Clear(); err != nil {
		c.log.Error().Err(err).Msg("clearing stored credentials failed")
	}
	c.log.Warn().Err(cause).Msg("token refresh failed, session terminated")

	if c.onSessionExpired != nil {
		c.onSessionExpired()
	}
	return &Error{
		Kind:    KindClient,
		Status:  http.StatusUnauthorized,
		Message: "session expired, log in again",
		cause:   errors.Wrap(ErrSessionExpired, cause.Error()),
	}
}

func cloneForRetry(req *http.Request) (*http.Request, error) {
	clone := req.Clone(req.Context())
	if req.GetBody != nil {
		body, err := req.GetBody()
		if err != nil {
			return nil, errors.Wrap(err, "[cloneForRetry] req.GetBody")
		}
		clone.Body = body
	}
	return clone, nil
}
