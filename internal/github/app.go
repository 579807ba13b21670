package github

import (
	"context"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/bradleyfalzon/ghinstallation/v2"
	gogithub "github.com/google/go-github/v66/github"
)

// App authenticates as a GitHub App and hands out installation-scoped
// clients. An App is built once at startup and shared; the clients it
// returns are per call.
type App struct {
	transport *ghinstallation.AppsTransport
	baseURL   string
	timeout   time.Duration
}

// NewApp creates an App from its numeric id and PEM-encoded RSA private
// key (PKCS#1 or PKCS#8).
func NewApp(appID int64, privateKeyPEM []byte, baseURL string, opts ...Option) (*App, error) {
	if appID <= 0 {
		return nil, fmt.Errorf("invalid github app id %d", appID)
	}
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}

	cfg := newClientConfig(opts)
	atr, err := ghinstallation.NewAppsTransport(cfg.transport(), appID, privateKeyPEM)
	if err != nil {
		return nil, fmt.Errorf("loading github app %d: %w", appID, err)
	}
	atr.BaseURL = strings.TrimRight(baseURL, "/")

	return &App{
		transport: atr,
		baseURL:   baseURL,
		timeout:   cfg.httpClient.Timeout,
	}, nil
}

// InstallationClient exchanges an installation id for an installation
// token and returns a client authenticated with it. The exchange happens
// here, so a revoked or unknown installation fails now rather than on
// the first issue call.
func (a *App) InstallationClient(ctx context.Context, installationID int64) (*Client, error) {
	itr := ghinstallation.NewFromAppsTransport(a.transport, installationID)
	if _, err := itr.Token(ctx); err != nil {
		path := fmt.Sprintf("/app/installations/%d/access_tokens", installationID)
		return nil, fmt.Errorf("exchanging installation %d token: %w",
			installationID, apiError(http.MethodPost, path, err))
	}

	hc := &http.Client{Transport: itr, Timeout: a.timeout}
	return newClient(a.baseURL, gogithub.NewClient(hc)), nil
}
