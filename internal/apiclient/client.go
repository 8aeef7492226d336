// Package apiclient talks to the link-sharing REST API.
//
// The client holds no credentials. Every authenticated call takes the bearer
// token the caller read from its session at the moment of the call, and the
// Authorization header is built per request.
package apiclient

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"github.com/google/uuid"
	"golang.org/x/oauth2"

	"github.com/joestump/linkfolio/internal/build"
	"github.com/joestump/linkfolio/internal/metrics"
)

// maxErrorBody bounds how much of a failed response is kept.
const maxErrorBody = 64 << 10

type Client struct {
	baseURL string
	http    *http.Client
}

type Option func(*Client)

// WithHTTPClient overrides the default http.Client.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) { c.http = hc }
}

// WithTimeout sets the timeout of the default http.Client.
func WithTimeout(d time.Duration) Option {
	return func(c *Client) { c.http = &http.Client{Timeout: d} }
}

// New creates a client for the API rooted at baseURL, e.g.
// "http://localhost:8188/api".
func New(baseURL string, opts ...Option) *Client {
	c := &Client{
		baseURL: baseURL,
		http:    &http.Client{Timeout: 10 * time.Second},
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Login exchanges credentials for a bearer token.
func (c *Client) Login(ctx context.Context, username, password string) (*LoginResponse, error) {
	var resp LoginResponse
	err := c.do(ctx, http.MethodPost, "/v1/users/login", "", LoginRequest{Username: username, Password: password}, &resp)
	if err != nil {
		return nil, err
	}
	return &resp, nil
}

// Signup registers a new account. It does not log the user in.
func (c *Client) Signup(ctx context.Context, req SignupRequest) error {
	return c.do(ctx, http.MethodPost, "/v1/users/signup", "", req, nil)
}

// GetProfile reads the public profile of any user. token may be empty.
func (c *Client) GetProfile(ctx context.Context, token, username string) (*Profile, error) {
	var p Profile
	err := c.do(ctx, http.MethodGet, "/v1/users/"+url.PathEscape(username), token, nil, &p)
	if err != nil {
		return nil, err
	}
	return &p, nil
}

// UpdateProfile updates the profile of the token's owner.
func (c *Client) UpdateProfile(ctx context.Context, token string, req UpdateProfileRequest) error {
	return c.do(ctx, http.MethodPut, "/v1/users", token, req, nil)
}

// DeleteAccount deletes the token owner's account.
func (c *Client) DeleteAccount(ctx context.Context, token string) error {
	return c.do(ctx, http.MethodDelete, "/v1/users", token, nil, nil)
}

func (c *Client) CreateLink(ctx context.Context, token string, req LinkRequest) error {
	return c.do(ctx, http.MethodPost, "/v1/links", token, req, nil)
}

func (c *Client) UpdateLink(ctx context.Context, token string, id uint, req LinkRequest) error {
	return c.do(ctx, http.MethodPut, "/v1/links/"+idPath(id), token, req, nil)
}

func (c *Client) DeleteLink(ctx context.Context, token string, id uint) error {
	return c.do(ctx, http.MethodDelete, "/v1/links/"+idPath(id), token, nil, nil)
}

// TrackClick records one click on a link. Anonymous clicks are allowed.
func (c *Client) TrackClick(ctx context.Context, token string, id uint) error {
	return c.do(ctx, http.MethodPost, "/v1/analytics/"+idPath(id)+"/click", token, nil, nil)
}

func idPath(id uint) string { return strconv.FormatUint(uint64(id), 10) }

// newRequest builds a request with JSON body and, when token is non-empty,
// an "Authorization: Bearer <token>" header.
func (c *Client) newRequest(ctx context.Context, method, path, token string, body any) (*http.Request, error) {
	var r io.Reader
	if body != nil {
		b, err := json.Marshal(body)
		if err != nil {
			return nil, fmt.Errorf("encode %s %s: %w", method, path, err)
		}
		r = bytes.NewReader(b)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, r)
	if err != nil {
		return nil, err
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set("User-Agent", build.UserAgent())
	req.Header.Set("X-Request-ID", uuid.New().String())
	if token != "" {
		(&oauth2.Token{AccessToken: token, TokenType: "Bearer"}).SetAuthHeader(req)
	}
	return req, nil
}

func (c *Client) do(ctx context.Context, method, path, token string, body, out any) error {
	req, err := c.newRequest(ctx, method, path, token, body)
	if err != nil {
		return err
	}

	start := time.Now()
	resp, err := c.http.Do(req)
	if err != nil {
		metrics.APIRequestDuration.WithLabelValues(method, "error").Observe(time.Since(start).Seconds())
		return fmt.Errorf("%s %s: %w", method, path, err)
	}
	defer func() { _ = resp.Body.Close() }()
	metrics.APIRequestDuration.WithLabelValues(method, strconv.Itoa(resp.StatusCode)).Observe(time.Since(start).Seconds())

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return decodeError(resp)
	}
	if out == nil {
		_, _ = io.Copy(io.Discard, resp.Body)
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("decode %s %s: %w", method, path, err)
	}
	return nil
}

func decodeError(resp *http.Response) error {
	body, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))
	re := &ResponseError{StatusCode: resp.StatusCode, Body: body}
	var eb struct {
		Error string `json:"error"`
	}
	if json.Unmarshal(body, &eb) == nil {
		re.Message = eb.Error
	}
	return re
}
