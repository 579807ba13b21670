package store

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/nhle/kaneo-sync/internal/model"
)

// integrationRow mirrors the github_integrations table.
type integrationRow struct {
	ID              string         `db:"id"`
	ProjectID       string         `db:"project_id"`
	RepositoryOwner string         `db:"repository_owner"`
	RepositoryName  string         `db:"repository_name"`
	ConnectionType  string         `db:"connection_type"`
	EncryptedPAT    sql.NullString `db:"encrypted_pat"`
	InstallationID  sql.NullInt64  `db:"installation_id"`
	IsActive        int            `db:"is_active"`
	CreatedAt       time.Time      `db:"created_at"`
	UpdatedAt       time.Time      `db:"updated_at"`
}

// toModel converts a row into an Integration. A row whose columns do not
// form a valid credential yields an Integration with a nil Credential.
func (r integrationRow) toModel() *model.Integration {
	integration := &model.Integration{
		ID:              r.ID,
		ProjectID:       r.ProjectID,
		RepositoryOwner: r.RepositoryOwner,
		RepositoryName:  r.RepositoryName,
		IsActive:        r.IsActive != 0,
		CreatedAt:       r.CreatedAt,
		UpdatedAt:       r.UpdatedAt,
	}

	cred, err := model.CredentialFromColumns(
		r.ConnectionType, r.EncryptedPAT.String, r.InstallationID.Int64,
	)
	if err == nil {
		integration.Credential = cred
	}
	return integration
}

// GetIntegrationByProjectID retrieves the integration of a project.
// A missing integration yields an error for which IsNotFound is true.
func (s *SQLiteStore) GetIntegrationByProjectID(
	ctx context.Context,
	projectID string,
) (*model.Integration, error) {
	var row integrationRow
	err := s.db.GetContext(ctx, &row,
		"SELECT * FROM github_integrations WHERE project_id = ?", projectID)
	if err != nil {
		return nil, fmt.Errorf("getting integration for project %s: %w", projectID, err)
	}
	return row.toModel(), nil
}

// UpsertIntegration inserts or replaces the integration of a project.
// The credential columns are written from the Credential variant, so a
// PAT integration never keeps a stale installation id and vice versa.
func (s *SQLiteStore) UpsertIntegration(
	ctx context.Context,
	integration model.Integration,
) (*model.Integration, error) {
	if strings.TrimSpace(integration.ProjectID) == "" {
		return nil, fmt.Errorf("integration project id must not be empty")
	}
	if integration.RepositoryOwner == "" || integration.RepositoryName == "" {
		return nil, fmt.Errorf("integration repository must not be empty")
	}

	var (
		encryptedPAT   sql.NullString
		installationID sql.NullInt64
	)
	switch cred := integration.Credential.(type) {
	case model.PATCredential:
		encryptedPAT = sql.NullString{String: cred.EncryptedToken, Valid: true}
	case model.AppCredential:
		installationID = sql.NullInt64{Int64: cred.InstallationID, Valid: true}
	default:
		return nil, fmt.Errorf("integration for project %s has no credential", integration.ProjectID)
	}

	if integration.ID == "" {
		integration.ID = uuid.New().String()
	}
	now := time.Now().UTC()

	_, err := s.db.ExecContext(ctx, `
		INSERT INTO github_integrations (
			id, project_id, repository_owner, repository_name,
			connection_type, encrypted_pat, installation_id,
			is_active, created_at, updated_at
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(project_id) DO UPDATE SET
			repository_owner = excluded.repository_owner,
			repository_name  = excluded.repository_name,
			connection_type  = excluded.connection_type,
			encrypted_pat    = excluded.encrypted_pat,
			installation_id  = excluded.installation_id,
			is_active        = excluded.is_active,
			updated_at       = excluded.updated_at`,
		integration.ID, integration.ProjectID,
		integration.RepositoryOwner, integration.RepositoryName,
		string(integration.Credential.ConnectionType()), encryptedPAT, installationID,
		boolToInt(integration.IsActive), now, now,
	)
	if err != nil {
		return nil, fmt.Errorf("upserting integration for project %s: %w", integration.ProjectID, err)
	}

	return s.GetIntegrationByProjectID(ctx, integration.ProjectID)
}

// DeactivateIntegration logically deletes the integration of a project.
func (s *SQLiteStore) DeactivateIntegration(ctx context.Context, projectID string) error {
	result, err := s.db.ExecContext(ctx,
		"UPDATE github_integrations SET is_active = 0, updated_at = ? WHERE project_id = ?",
		time.Now().UTC(), projectID)
	if err != nil {
		return fmt.Errorf("deactivating integration for project %s: %w", projectID, err)
	}
	rows, _ := result.RowsAffected()
	if rows == 0 {
		return fmt.Errorf("integration for project %s not found", projectID)
	}
	return nil
}
