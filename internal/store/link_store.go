package store

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/nhle/kaneo-sync/internal/model"
)

// CreateIssueLink records the GitHub issue a task is linked to. A task
// links to at most one issue.
func (s *SQLiteStore) CreateIssueLink(ctx context.Context, link model.IssueLink) error {
	if link.ID == "" {
		link.ID = uuid.New().String()
	}
	if link.Direction == "" {
		link.Direction = model.LinkDirectionExported
	}
	link.CreatedAt = time.Now().UTC()

	_, err := s.db.NamedExecContext(ctx, `
		INSERT INTO issue_links (id, task_id, issue_url, issue_number, direction, created_at)
		VALUES (:id, :task_id, :issue_url, :issue_number, :direction, :created_at)`,
		link,
	)
	if err != nil {
		return fmt.Errorf("creating issue link for task %s: %w", link.TaskID, err)
	}
	return nil
}

// GetIssueLinkForTask retrieves the issue link of a task. A missing link
// yields an error for which IsNotFound is true.
func (s *SQLiteStore) GetIssueLinkForTask(
	ctx context.Context,
	taskID string,
) (*model.IssueLink, error) {
	var link model.IssueLink
	err := s.db.GetContext(ctx, &link,
		"SELECT * FROM issue_links WHERE task_id = ?", taskID)
	if err != nil {
		return nil, fmt.Errorf("getting issue link for task %s: %w", taskID, err)
	}
	return &link, nil
}
