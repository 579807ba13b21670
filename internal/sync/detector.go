package sync

import (
	"context"
	"log/slog"

	"github.com/nhle/kaneo-sync/internal/crossref"
	"github.com/nhle/kaneo-sync/internal/model"
	"github.com/nhle/kaneo-sync/internal/store"
)

// issueReference finds the GitHub issue a task is linked to. The
// issue_links table is authoritative; descriptions written before it
// existed, and tasks imported from GitHub, fall back to the marker.
func (s *Synchronizer) issueReference(
	ctx context.Context,
	log *slog.Logger,
	task *model.Task,
) *crossref.IssueReference {
	link, err := s.store.GetIssueLinkForTask(ctx, task.ID)
	if err == nil {
		return &crossref.IssueReference{
			Number:    link.IssueNumber,
			URL:       link.IssueURL,
			Direction: link.Direction,
		}
	}
	if !store.IsNotFound(err) {
		log.Warn("loading issue link, falling back to description", "error", err)
	}

	return crossref.ExtractIssueReference(task.Description)
}
