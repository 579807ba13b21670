package sync

import (
	"context"
	"fmt"

	"github.com/nhle/kaneo-sync/internal/github"
	"github.com/nhle/kaneo-sync/internal/integration"
	"github.com/nhle/kaneo-sync/internal/model"
)

// AppLabel marks every issue created by the synchronizer.
const AppLabel = "kaneo"

// StatusLabel returns the label mirroring a task status.
func StatusLabel(status string) string {
	return "status:" + status
}

// PriorityLabel returns the label mirroring a task priority. An unset
// priority is labelled as low.
func PriorityLabel(priority string) string {
	if priority == "" {
		priority = model.PriorityLow
	}
	return "priority:" + priority
}

// AddLabels applies labels to an issue in a single call. Failures are
// returned to the caller.
func AddLabels(
	ctx context.Context,
	client integration.IssueClient,
	owner, repo string,
	number int,
	labels []string,
) error {
	return client.AddLabels(ctx, owner, repo, number, labels)
}

// RemoveLabel removes a label from an issue. It never fails: a label
// that is already gone yields OutcomeLabelAbsent and any other failure
// OutcomeCleanupFailed, both of which are logged only.
func RemoveLabel(
	ctx context.Context,
	client integration.IssueClient,
	owner, repo string,
	number int,
	label string,
) Outcome {
	step := fmt.Sprintf("remove label %s", label)

	err := client.RemoveLabel(ctx, owner, repo, number, label)
	switch {
	case err == nil:
		return Outcome{Step: step, Kind: OutcomeOK}
	case github.IsNotFound(err):
		return Outcome{Step: step, Kind: OutcomeLabelAbsent, Err: err}
	default:
		return Outcome{Step: step, Kind: OutcomeCleanupFailed, Err: err}
	}
}
