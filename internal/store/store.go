package store

import (
	"context"
	"database/sql"
	"errors"

	"github.com/nhle/kaneo-sync/internal/model"
)

// TaskStore is the slice of task storage the sync engine touches.
// The engine only ever rewrites a task's description.
type TaskStore interface {
	CreateTask(ctx context.Context, task model.Task) error
	GetTaskByID(ctx context.Context, id string) (*model.Task, error)
	UpdateTaskDescription(ctx context.Context, id string, description string) error
}

// IntegrationStore persists per-project GitHub integrations.
type IntegrationStore interface {
	GetIntegrationByProjectID(ctx context.Context, projectID string) (*model.Integration, error)
	UpsertIntegration(ctx context.Context, integration model.Integration) (*model.Integration, error)
	DeactivateIntegration(ctx context.Context, projectID string) error
}

// LinkStore persists task to issue links.
type LinkStore interface {
	CreateIssueLink(ctx context.Context, link model.IssueLink) error
	GetIssueLinkForTask(ctx context.Context, taskID string) (*model.IssueLink, error)
}

// Store defines the persistence interface for tasks, integrations,
// and issue links.
type Store interface {
	TaskStore
	IntegrationStore
	LinkStore
}

// IsNotFound reports whether err was caused by a missing row.
func IsNotFound(err error) bool {
	return errors.Is(err, sql.ErrNoRows)
}
