package catalog

import (
	"context"
	"io"
	"net/http"
	"net/url"
	"strings"
	"sync"
	"time"
)

// Config controls how the client reaches the remote catalog.
type Config struct {
	BaseURL    string
	APIKey     string
	Season     int
	PerPage    int
	HTTPClient *http.Client
}

// Client fetches paged team and player collections from the remote catalog.
type Client struct {
	baseURL string
	season  int
	perPage int
	client  *http.Client

	mu     sync.RWMutex
	apiKey string
}

// NewClient constructs a catalog client with the provided configuration.
func NewClient(cfg Config) *Client {
	baseURL := cfg.BaseURL
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	season := cfg.Season
	if season == 0 {
		season = DefaultSeason
	}
	perPage := cfg.PerPage
	if perPage == 0 {
		perPage = DefaultPerPage
	}
	client := cfg.HTTPClient
	if client == nil {
		client = &http.Client{Timeout: 30 * time.Second}
	}
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		season:  season,
		perPage: perPage,
		client:  client,
		apiKey:  cfg.APIKey,
	}
}

// SetAPIKey replaces the access credential used on subsequent requests.
func (c *Client) SetAPIKey(key string) {
	c.mu.Lock()
	c.apiKey = key
	c.mu.Unlock()
}

// HasCredential reports whether a credential is configured.
func (c *Client) HasCredential() bool {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.apiKey != ""
}

// getPage performs a single GET against the catalog and maps transport
// failures onto the error taxonomy. The credential check happens locally,
// before any request is sent.
func (c *Client) getPage(ctx context.Context, endpoint string, query url.Values) ([]byte, error) {
	c.mu.RLock()
	key := c.apiKey
	c.mu.RUnlock()
	if key == "" {
		return nil, ErrCredentialMissing
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+endpoint, nil)
	if err != nil {
		return nil, &FetchError{Detail: err.Error()}
	}
	req.URL.RawQuery = query.Encode()
	req.Header.Set(AuthorizationHeader, key)
	req.Header.Set(ContentTypeHeader, ContentTypeJSON)

	resp, err := c.client.Do(req)
	if err != nil {
		return nil, &FetchError{Detail: err.Error()}
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusUnauthorized {
		return nil, ErrCredentialInvalid
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return nil, &FetchError{Status: resp.StatusCode, Detail: strings.TrimSpace(string(body))}
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, &FetchError{Detail: err.Error()}
	}
	return body, nil
}
