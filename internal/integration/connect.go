package integration

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/nhle/kaneo-sync/internal/github"
	"github.com/nhle/kaneo-sync/internal/model"
)

// Encrypter seals a PAT for storage. *credential.Vault implements it.
type Encrypter interface {
	Encrypt(plaintext string) (string, error)
}

// IntegrationWriter persists integrations.
type IntegrationWriter interface {
	UpsertIntegration(ctx context.Context, integration model.Integration) (*model.Integration, error)
	DeactivateIntegration(ctx context.Context, projectID string) error
}

// repositoryGetter verifies a credential can see a repository.
type repositoryGetter interface {
	GetRepository(ctx context.Context, owner, repo string) (*github.Repository, error)
}

// Connector creates, switches, and removes project integrations.
type Connector struct {
	integrations IntegrationWriter
	vault        Encrypter
	app          AppClientFactory
	newPATClient func(token string) repositoryGetter
	logger       *slog.Logger
}

// NewConnector creates a Connector. app may be nil when no GitHub App
// is configured.
func NewConnector(
	integrations IntegrationWriter,
	vault Encrypter,
	app AppClientFactory,
	apiBaseURL string,
	logger *slog.Logger,
) *Connector {
	if logger == nil {
		logger = slog.Default()
	}
	return &Connector{
		integrations: integrations,
		vault:        vault,
		app:          app,
		newPATClient: func(token string) repositoryGetter {
			return github.NewClient(apiBaseURL, token)
		},
		logger: logger,
	}
}

// ConnectPAT verifies that pat can read the repository, encrypts it, and
// stores it as the project's active integration.
func (c *Connector) ConnectPAT(
	ctx context.Context,
	projectID string,
	repositoryURL string,
	pat string,
) (*model.Integration, error) {
	owner, repo, err := ParseRepositoryURL(repositoryURL)
	if err != nil {
		return nil, err
	}
	if pat == "" {
		return nil, fmt.Errorf("personal access token must not be empty")
	}

	if _, err := c.newPATClient(pat).GetRepository(ctx, owner, repo); err != nil {
		return nil, fmt.Errorf("verifying token for %s/%s: %w", owner, repo, err)
	}

	encrypted, err := c.vault.Encrypt(pat)
	if err != nil {
		return nil, fmt.Errorf("encrypting token: %w", err)
	}

	integration, err := c.integrations.UpsertIntegration(ctx, model.Integration{
		ProjectID:       projectID,
		RepositoryOwner: owner,
		RepositoryName:  repo,
		Credential:      model.PATCredential{EncryptedToken: encrypted},
		IsActive:        true,
	})
	if err != nil {
		return nil, err
	}

	c.logger.Info("connected github repository with token",
		"project_id", projectID, "repository", integration.Repository())
	return integration, nil
}

// ConnectApp verifies that the App installation can read the repository
// and stores it as the project's active integration.
func (c *Connector) ConnectApp(
	ctx context.Context,
	projectID string,
	repositoryURL string,
	installationID int64,
) (*model.Integration, error) {
	if c.app == nil {
		return nil, fmt.Errorf("no github app is configured")
	}
	owner, repo, err := ParseRepositoryURL(repositoryURL)
	if err != nil {
		return nil, err
	}

	client, err := c.app.InstallationClient(ctx, installationID)
	if err != nil {
		return nil, err
	}
	if _, err := client.GetRepository(ctx, owner, repo); err != nil {
		return nil, fmt.Errorf("verifying installation %d for %s/%s: %w", installationID, owner, repo, err)
	}

	integration, err := c.integrations.UpsertIntegration(ctx, model.Integration{
		ProjectID:       projectID,
		RepositoryOwner: owner,
		RepositoryName:  repo,
		Credential:      model.AppCredential{InstallationID: installationID},
		IsActive:        true,
	})
	if err != nil {
		return nil, err
	}

	c.logger.Info("connected github repository with app installation",
		"project_id", projectID, "repository", integration.Repository(),
		"installation_id", installationID)
	return integration, nil
}

// Disconnect deactivates the project's integration. Later lifecycle
// events for the project are skipped.
func (c *Connector) Disconnect(ctx context.Context, projectID string) error {
	if err := c.integrations.DeactivateIntegration(ctx, projectID); err != nil {
		return err
	}
	c.logger.Info("disconnected github repository", "project_id", projectID)
	return nil
}
