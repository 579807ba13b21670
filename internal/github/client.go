package github

import (
	"net/http"
	"net/url"
	"strings"
	"time"

	gogithub "github.com/google/go-github/v66/github"
)

// DefaultBaseURL is the root of the public GitHub REST API.
const DefaultBaseURL = "https://api.github.com"

const (
	defaultTimeout    = 30 * time.Second
	defaultMaxRetries = 3
)

// Client is the slice of the GitHub REST API the sync engine uses,
// backed by go-github. Rate-limited requests are retried by the
// transport.
type Client struct {
	gh *gogithub.Client
}

type clientConfig struct {
	httpClient *http.Client
	maxRetries int
}

// Option customizes a Client or an App.
type Option func(*clientConfig)

// WithHTTPClient sets the *http.Client whose transport and timeout
// requests go through.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *clientConfig) {
		c.httpClient = hc
	}
}

// WithMaxRetries sets how many times a rate-limited request is retried.
func WithMaxRetries(n int) Option {
	return func(c *clientConfig) {
		c.maxRetries = n
	}
}

func newClientConfig(opts []Option) clientConfig {
	cfg := clientConfig{
		httpClient: &http.Client{Timeout: defaultTimeout},
		maxRetries: defaultMaxRetries,
	}
	for _, opt := range opts {
		opt(&cfg)
	}
	return cfg
}

// transport wraps the configured transport with 429 retries.
func (c clientConfig) transport() http.RoundTripper {
	base := c.httpClient.Transport
	if base == nil {
		base = http.DefaultTransport
	}
	return &rateLimitTransport{base: base, maxRetries: c.maxRetries}
}

// NewClient creates a client for the REST API rooted at baseURL
// (DefaultBaseURL for github.com) that authenticates with token, a
// Personal Access Token or an installation token.
func NewClient(baseURL, token string, opts ...Option) *Client {
	cfg := newClientConfig(opts)
	hc := &http.Client{Transport: cfg.transport(), Timeout: cfg.httpClient.Timeout}
	return newClient(baseURL, gogithub.NewClient(hc).WithAuthToken(token))
}

func newClient(baseURL string, gh *gogithub.Client) *Client {
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	// go-github resolves request paths against BaseURL, which must end
	// in a slash.
	if u, err := url.Parse(strings.TrimRight(baseURL, "/") + "/"); err == nil {
		gh.BaseURL = u
	}
	return &Client{gh: gh}
}
