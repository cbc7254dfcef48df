// Package graph implements the Microsoft Graph API client used by the sync
// service. It obtains bearer credentials via the OAuth2 client-credentials
// flow and isolates the remote formats (pagination cursors, report CSV
// quoting) from callers.
package graph

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"golang.org/x/oauth2"
	"golang.org/x/oauth2/clientcredentials"
)

const (
	// DefaultBaseURL is the public cloud Graph API endpoint.
	DefaultBaseURL = "https://graph.microsoft.com/v1.0"

	// tokenURLFormat is the public cloud token endpoint per tenant.
	tokenURLFormat = "https://login.microsoftonline.com/%s/oauth2/v2.0/token"

	// defaultScope requests all application permissions granted to the client.
	defaultScope = "https://graph.microsoft.com/.default"

	defaultTimeout = 30 * time.Second

	// maxErrorBodySize caps how much of a remote error body is kept.
	maxErrorBodySize = 4096
)

// Config holds the connection settings of the Graph API client.
type Config struct {
	TenantID     string
	ClientID     string
	ClientSecret string

	// BaseURL overrides the Graph endpoint, empty selects the public cloud.
	BaseURL string

	// TokenURL overrides the token endpoint, empty derives it from TenantID.
	TokenURL string

	// Timeout bounds every single HTTP request, zero selects 30 seconds.
	Timeout time.Duration
}

// Client is the Microsoft Graph API client.
type Client struct {
	baseURL    string
	creds      *clientcredentials.Config
	httpClient *http.Client
}

// New creates a Graph client from the given settings. All three credential
// values must be present.
func New(cfg Config) (*Client, error) {
	if cfg.TenantID == "" || cfg.ClientID == "" || cfg.ClientSecret == "" {
		return nil, ErrMissingCredentials
	}

	tokenURL := cfg.TokenURL
	if tokenURL == "" {
		tokenURL = fmt.Sprintf(tokenURLFormat, cfg.TenantID)
	}

	baseURL := cfg.BaseURL
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}

	timeout := cfg.Timeout
	if timeout == 0 {
		timeout = defaultTimeout
	}

	creds := &clientcredentials.Config{
		ClientID:     cfg.ClientID,
		ClientSecret: cfg.ClientSecret,
		TokenURL:     tokenURL,
		Scopes:       []string{defaultScope},
		AuthStyle:    oauth2.AuthStyleInParams,
	}

	// bind the timeout-bounded base client into the oauth2 transport
	base := &http.Client{Timeout: timeout}
	ctx := context.WithValue(context.Background(), oauth2.HTTPClient, base)

	httpClient := oauth2.NewClient(ctx, creds.TokenSource(ctx))
	httpClient.Timeout = timeout

	return &Client{
		baseURL:    baseURL,
		creds:      creds,
		httpClient: httpClient,
	}, nil
}

// Authenticate forces a token exchange against the token endpoint. The token
// source caches the credential, so fetch calls after a successful
// Authenticate reuse it until expiry.
func (c *Client) Authenticate(ctx context.Context) error {
	if _, err := c.creds.Token(ctx); err != nil {
		var retrieveErr *oauth2.RetrieveError
		if errors.As(err, &retrieveErr) {
			return &AuthError{
				StatusCode: retrieveErr.Response.StatusCode,
				Body:       string(retrieveErr.Body),
				Err:        err,
			}
		}

		return &AuthError{Err: err}
	}

	return nil
}

// get issues one authenticated request and returns the response. Transport
// failures are converted into FetchError with the timeout flag set when the
// request deadline was exceeded.
func (c *Client) get(ctx context.Context, requestURL string) (*http.Response, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, requestURL, nil)
	if err != nil {
		return nil, &FetchError{Endpoint: requestURL, Err: err}
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		fe := &FetchError{Endpoint: requestURL, Err: err}

		var urlErr *url.Error
		if errors.As(err, &urlErr) && urlErr.Timeout() {
			fe.Timeout = true
		}

		if errors.Is(err, context.DeadlineExceeded) {
			fe.Timeout = true
		}

		return nil, fe
	}

	return resp, nil
}

// readErrorBody drains a bounded part of a failed response body.
func readErrorBody(resp *http.Response) string {
	body, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBodySize))
	return string(body)
}
