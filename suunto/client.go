package suunto

import (
	"bytes"
	"context"
	"crypto/tls"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"

	"golang.org/x/oauth2"

	"github.com/roessland/syncwich/pkg/output"
)

const (
	// DefaultOAuthURL is the Suunto OAuth server.
	DefaultOAuthURL = "https://cloudapi-oauth.suunto.com"
	// DefaultAPIURL is the Suunto cloud API behind the API gateway.
	DefaultAPIURL = "https://cloudapi.suunto.com"

	subscriptionKeyHeader = "Ocp-Apim-Subscription-Key"
	userAgent             = "syncwich/0.2"
)

// redactedHeaders are never written to the trace log.
var redactedHeaders = map[string]bool{
	"Authorization":       true,
	subscriptionKeyHeader: true,
}

// Config holds the credentials and endpoints of a Client.
type Config struct {
	ClientID        string
	ClientSecret    string
	SubscriptionKey string

	// OAuthURL and APIURL default to the production endpoints.
	OAuthURL string
	APIURL   string

	// HTTPClient defaults to a client enforcing TLS 1.2.
	HTTPClient *http.Client
	Logger     *slog.Logger
}

// Client is a Suunto cloud API client. It keeps no token state of its own;
// every call takes the token it should use.
type Client struct {
	httpClient      *http.Client
	clientID        string
	clientSecret    string
	subscriptionKey string
	oauthURL        string
	apiURL          string
	logger          *slog.Logger
}

// New creates a new Suunto client
func New(cfg Config) *Client {
	httpClient := cfg.HTTPClient
	if httpClient == nil {
		httpClient = &http.Client{
			Transport: &http.Transport{
				Proxy: http.ProxyFromEnvironment,
				TLSClientConfig: &tls.Config{
					MinVersion: tls.VersionTLS12,
				},
			},
		}
	}

	logger := cfg.Logger
	if logger == nil {
		logger = slog.Default()
	}

	oauthURL := cfg.OAuthURL
	if oauthURL == "" {
		oauthURL = DefaultOAuthURL
	}
	apiURL := cfg.APIURL
	if apiURL == "" {
		apiURL = DefaultAPIURL
	}

	return &Client{
		httpClient:      httpClient,
		clientID:        cfg.ClientID,
		clientSecret:    cfg.ClientSecret,
		subscriptionKey: cfg.SubscriptionKey,
		oauthURL:        strings.TrimRight(oauthURL, "/"),
		apiURL:          strings.TrimRight(apiURL, "/"),
		logger:          logger.With("component", "suunto"),
	}
}

// newAPIRequest creates a request against the API gateway with the bearer
// token and subscription key set.
func (c *Client) newAPIRequest(ctx context.Context, path, accessToken string) (*http.Request, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.apiURL+path, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}

	tok := &oauth2.Token{AccessToken: accessToken, TokenType: "Bearer"}
	tok.SetAuthHeader(req)
	req.Header.Set(subscriptionKeyHeader, c.subscriptionKey)
	req.Header.Set("User-Agent", userAgent)

	return req, nil
}

// send performs an HTTP request and logs method, URL and status.
// The response body is left for the caller.
func (c *Client) send(req *http.Request) (*http.Response, error) {
	ctx := req.Context()
	c.logger.Debug("request", "method", req.Method, "url", req.URL.String())
	c.logRequest(ctx, req)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: %s %s: %v", ErrNetwork, req.Method, req.URL.Path, err)
	}

	c.logger.Debug("response", "status", resp.Status, "url", req.URL.String())
	return resp, nil
}

// doRequest performs an HTTP request and reads the whole response body.
// Non-2xx responses are turned into an *APIError.
func (c *Client) doRequest(req *http.Request) (*http.Response, []byte, error) {
	resp, err := c.send(req)
	if err != nil {
		return nil, nil, err
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, nil, fmt.Errorf("%w: failed to read response body: %v", ErrNetwork, err)
	}
	c.logResponse(req.Context(), resp, body)

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return resp, body, newAPIError(resp.StatusCode, resp.Header.Get("Content-Type"), body)
	}

	return resp, body, nil
}

// logRequest logs request headers and body at trace level
func (c *Client) logRequest(ctx context.Context, req *http.Request) {
	if !c.logger.Enabled(ctx, output.LevelTrace) {
		return
	}

	for k, v := range req.Header {
		value := strings.Join(v, ", ")
		if redactedHeaders[k] {
			value = "[redacted]"
		}
		c.logger.Log(ctx, output.LevelTrace, "request header", "name", k, "value", value)
	}

	if req.GetBody == nil {
		return
	}
	body, err := req.GetBody()
	if err != nil {
		return
	}
	defer body.Close()
	data, _ := io.ReadAll(body)
	if len(data) > 0 {
		c.logger.Log(ctx, output.LevelTrace, "request body", "bytes", len(data))
	}
}

// logResponse logs response headers and a body preview at trace level
func (c *Client) logResponse(ctx context.Context, resp *http.Response, body []byte) {
	if !c.logger.Enabled(ctx, output.LevelTrace) {
		return
	}

	for k, v := range resp.Header {
		c.logger.Log(ctx, output.LevelTrace, "response header", "name", k, "value", strings.Join(v, ", "))
	}

	if len(body) > 0 {
		preview := body
		if len(preview) > 512 {
			preview = preview[:512]
		}
		// Token responses must not end up in the log file.
		if bytes.Contains(preview, []byte("_token")) {
			preview = []byte("[redacted]")
		}
		c.logger.Log(ctx, output.LevelTrace, "response body preview", "body", string(preview))
	}
}
