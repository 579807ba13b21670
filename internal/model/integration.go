package model

import (
	"fmt"
	"time"
)

// ConnectionType identifies how an integration authenticates to GitHub.
type ConnectionType string

const (
	ConnectionTypePAT       ConnectionType = "pat"
	ConnectionTypeGitHubApp ConnectionType = "github_app"
)

// Credential is the authentication material of an integration. It is
// either a PATCredential or an AppCredential.
type Credential interface {
	ConnectionType() ConnectionType
}

// PATCredential holds a Personal Access Token encrypted with the vault.
type PATCredential struct {
	EncryptedToken string
}

// ConnectionType implements Credential.
func (PATCredential) ConnectionType() ConnectionType { return ConnectionTypePAT }

// AppCredential references a GitHub App installation.
type AppCredential struct {
	InstallationID int64
}

// ConnectionType implements Credential.
func (AppCredential) ConnectionType() ConnectionType { return ConnectionTypeGitHubApp }

// Integration connects a project to a GitHub repository. There is at
// most one integration per project.
type Integration struct {
	ID              string
	ProjectID       string
	RepositoryOwner string
	RepositoryName  string

	// Credential is nil when the stored row does not describe a usable
	// credential (e.g. a github_app row without an installation id).
	Credential Credential

	IsActive  bool
	CreatedAt time.Time
	UpdatedAt time.Time
}

// Repository returns the "owner/name" form of the target repository.
func (i Integration) Repository() string {
	return i.RepositoryOwner + "/" + i.RepositoryName
}

// CredentialFromColumns rebuilds a Credential from its stored columns.
// Exactly one of encryptedPAT and installationID must be set, as
// selected by connectionType.
func CredentialFromColumns(
	connectionType string,
	encryptedPAT string,
	installationID int64,
) (Credential, error) {
	switch ConnectionType(connectionType) {
	case ConnectionTypePAT:
		if encryptedPAT == "" {
			return nil, fmt.Errorf("pat integration has no stored token")
		}
		if installationID != 0 {
			return nil, fmt.Errorf("pat integration also carries an installation id")
		}
		return PATCredential{EncryptedToken: encryptedPAT}, nil
	case ConnectionTypeGitHubApp:
		if installationID <= 0 {
			return nil, fmt.Errorf("github_app integration has no installation id")
		}
		if encryptedPAT != "" {
			return nil, fmt.Errorf("github_app integration also carries a token")
		}
		return AppCredential{InstallationID: installationID}, nil
	default:
		return nil, fmt.Errorf("unknown connection type %q", connectionType)
	}
}
