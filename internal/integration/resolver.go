package integration

import (
	"context"
	"log/slog"

	"github.com/nhle/kaneo-sync/internal/github"
	"github.com/nhle/kaneo-sync/internal/model"
	"github.com/nhle/kaneo-sync/internal/store"
)

// IssueClient is the set of GitHub operations the synchronizer performs.
// *github.Client implements it.
type IssueClient interface {
	CreateIssue(ctx context.Context, owner, repo string, issue github.NewIssue) (*github.Issue, error)
	UpdateIssueState(ctx context.Context, owner, repo string, number int, state string) error
	AddLabels(ctx context.Context, owner, repo string, number int, labels []string) error
	RemoveLabel(ctx context.Context, owner, repo string, number int, label string) error
}

// AppClientFactory exchanges a GitHub App installation id for an
// installation-scoped client. *github.App implements it.
type AppClientFactory interface {
	InstallationClient(ctx context.Context, installationID int64) (*github.Client, error)
}

// Decrypter opens stored PAT envelopes. *credential.Vault implements it.
type Decrypter interface {
	Decrypt(envelope string) (string, error)
}

// IntegrationReader loads the integration of a project.
type IntegrationReader interface {
	GetIntegrationByProjectID(ctx context.Context, projectID string) (*model.Integration, error)
}

// ClientHandle is an authenticated client bound to a repository. It does
// not reveal which credential strategy produced it.
type ClientHandle struct {
	Client IssueClient
	Owner  string
	Repo   string
}

// Resolver turns a project's integration into a ClientHandle.
type Resolver struct {
	integrations IntegrationReader
	vault        Decrypter
	app          AppClientFactory
	newPATClient func(token string) IssueClient
	logger       *slog.Logger
}

// NewResolver creates a Resolver. app may be nil when no GitHub App is
// configured; github_app integrations are then skipped.
func NewResolver(
	integrations IntegrationReader,
	vault Decrypter,
	app AppClientFactory,
	apiBaseURL string,
	logger *slog.Logger,
) *Resolver {
	if logger == nil {
		logger = slog.Default()
	}
	return &Resolver{
		integrations: integrations,
		vault:        vault,
		app:          app,
		newPATClient: func(token string) IssueClient {
			return github.NewClient(apiBaseURL, token)
		},
		logger: logger,
	}
}

// Resolve returns a client for the project's repository, or nil when
// synchronization should be skipped: no integration, an inactive one, an
// unusable credential, or a failed installation exchange. It never
// returns an error; the reason is logged.
func (r *Resolver) Resolve(ctx context.Context, projectID string) *ClientHandle {
	log := r.logger.With("project_id", projectID)

	integration, err := r.integrations.GetIntegrationByProjectID(ctx, projectID)
	if err != nil {
		if store.IsNotFound(err) {
			log.Debug("no github integration for project")
		} else {
			log.Error("loading github integration", "error", err)
		}
		return nil
	}
	if !integration.IsActive {
		log.Debug("github integration is inactive")
		return nil
	}

	log = log.With("repository", integration.Repository())

	switch cred := integration.Credential.(type) {
	case model.PATCredential:
		token, err := r.vault.Decrypt(cred.EncryptedToken)
		if err != nil {
			log.Error("decrypting stored github token", "error", err)
			return nil
		}
		return r.handle(integration, r.newPATClient(token))

	case model.AppCredential:
		if r.app == nil {
			log.Warn("github app integration but no github app is configured")
			return nil
		}
		client, err := r.app.InstallationClient(ctx, cred.InstallationID)
		if err != nil {
			log.Error("getting github app installation client",
				"installation_id", cred.InstallationID, "error", err)
			return nil
		}
		return r.handle(integration, client)

	default:
		log.Warn("github integration has no usable credential")
		return nil
	}
}

func (r *Resolver) handle(integration *model.Integration, client IssueClient) *ClientHandle {
	return &ClientHandle{
		Client: client,
		Owner:  integration.RepositoryOwner,
		Repo:   integration.RepositoryName,
	}
}
