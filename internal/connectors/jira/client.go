package jira

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"sync"
	"time"

	"golang.org/x/oauth2"

	"github.com/custodia-labs/jira-export/internal/core/domain"
	"github.com/custodia-labs/jira-export/internal/core/ports/driven"
	"github.com/custodia-labs/jira-export/internal/logger"
)

const (
	// DefaultTimeout is the default HTTP request timeout.
	DefaultTimeout = 30 * time.Second

	// PageSize is the number of issues requested per search page.
	PageSize = 100

	// apiPrefix is the REST API v2 root. v2 returns bodies as wiki markup.
	apiPrefix = "/rest/api/2"

	// maxErrorBody bounds how much of an error response is read.
	maxErrorBody = 1 << 20
)

// Ensure Client implements the interface.
var _ driven.IssueClient = (*Client)(nil)

// Option customises a Client.
type Option func(*Client)

// WithHTTPClient sets the base HTTP client. Useful for tests and proxies.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) {
		c.base = hc
	}
}

// WithTimeout overrides DefaultTimeout. Zero disables the timeout.
func WithTimeout(d time.Duration) Option {
	return func(c *Client) {
		c.timeout = d
	}
}

// WithPageSize overrides PageSize.
func WithPageSize(n int) Option {
	return func(c *Client) {
		if n > 0 {
			c.pageSize = n
		}
	}
}

// Client talks to the Jira REST API.
// The HTTP session is established on first use, not at construction.
type Client struct {
	settings domain.ConnectionSettings
	base     *http.Client
	timeout  time.Duration
	pageSize int

	mu     sync.Mutex
	hc     *http.Client
	server *ServerInfo
}

// NewClient creates a Jira client. No request is made until the first call.
func NewClient(settings domain.ConnectionSettings, opts ...Option) *Client {
	c := &Client{
		settings: settings,
		timeout:  DefaultTimeout,
		pageSize: PageSize,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// ensureClient initializes the HTTP client and probes the server if not
// already done. A failed probe is not cached, so the next call retries.
func (c *Client) ensureClient(ctx context.Context) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.server != nil {
		return nil
	}
	if c.settings.IsZero() {
		return &domain.ConfigError{Reason: "jira client has no connection settings"}
	}

	if c.hc == nil {
		c.hc = c.newHTTPClient()
	}

	logger.Info("Connecting to Jira at %s", c.settings.BaseURL())
	var info ServerInfo
	if err := c.get(ctx, "/serverInfo", nil, &info); err != nil {
		logger.Error("Failed to connect to Jira: %v", err)
		return &ConnectError{URL: c.settings.BaseURL(), Err: err}
	}
	logger.Info("Connected to Jira version %s", info.Version)

	c.server = &info
	return nil
}

// newHTTPClient builds the transport for the configured auth method.
// Bearer tokens go through an oauth2 static token source; basic auth is
// added per request in newRequest.
func (c *Client) newHTTPClient() *http.Client {
	base := c.base
	if base == nil {
		base = &http.Client{}
	}

	var hc *http.Client
	if c.settings.AuthMethod() == domain.AuthBearer {
		ts := oauth2.StaticTokenSource(&oauth2.Token{AccessToken: c.settings.Secret()})
		ctx := context.WithValue(context.Background(), oauth2.HTTPClient, base)
		hc = oauth2.NewClient(ctx, ts)
	} else {
		clone := *base
		hc = &clone
	}

	hc.Timeout = c.timeout
	return hc
}

// ServerInfo returns the server details captured when the client connected.
func (c *Client) ServerInfo(ctx context.Context) (*ServerInfo, error) {
	if err := c.ensureClient(ctx); err != nil {
		return nil, err
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	info := *c.server
	return &info, nil
}

// TestConnection performs an authenticated probe against /myself.
// It never returns an error; any failure is reported as false.
func (c *Client) TestConnection(ctx context.Context) bool {
	if err := c.ensureClient(ctx); err != nil {
		return false
	}

	var me user
	if err := c.get(ctx, "/myself", nil, &me); err != nil {
		logger.Warn("Jira connection test failed: %v", err)
		return false
	}
	logger.Debug("Authenticated as %s", me.displayName())
	return true
}

// newRequest builds an authenticated GET request against the v2 API.
func (c *Client) newRequest(ctx context.Context, path string, query url.Values) (*http.Request, error) {
	u := c.settings.BaseURL() + apiPrefix + path
	if len(query) > 0 {
		u += "?" + query.Encode()
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return nil, fmt.Errorf("%w: build request: %w", domain.ErrRemote, err)
	}
	req.Header.Set("Accept", "application/json")
	if c.settings.AuthMethod() == domain.AuthBasic {
		req.SetBasicAuth(c.settings.Principal(), c.settings.Secret())
	}
	return req, nil
}

// get issues one request and decodes the JSON response into out.
// Non-2xx responses become *APIError; everything else wraps domain.ErrRemote.
func (c *Client) get(ctx context.Context, path string, query url.Values, out any) error {
	req, err := c.newRequest(ctx, path, query)
	if err != nil {
		return err
	}

	resp, err := c.hc.Do(req)
	if err != nil {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return ctxErr
		}
		return fmt.Errorf("%w: GET %s: %w", domain.ErrRemote, path, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return newAPIError(resp)
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("%w: decode %s: %w", domain.ErrRemote, path, err)
	}
	return nil
}

// newAPIError reads Jira's error payload from a failed response.
func newAPIError(resp *http.Response) *APIError {
	apiErr := &APIError{
		StatusCode: resp.StatusCode,
		URL:        resp.Request.URL.String(),
	}

	data, err := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))
	if err != nil || len(data) == 0 {
		return apiErr
	}

	var body errorBody
	if err := json.Unmarshal(data, &body); err == nil {
		apiErr.Messages = body.messages()
	}
	if len(apiErr.Messages) == 0 {
		apiErr.Messages = []string{string(data)}
	}
	return apiErr
}
