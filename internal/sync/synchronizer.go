package sync

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/nhle/kaneo-sync/internal/crossref"
	"github.com/nhle/kaneo-sync/internal/github"
	"github.com/nhle/kaneo-sync/internal/integration"
	"github.com/nhle/kaneo-sync/internal/model"
	"github.com/nhle/kaneo-sync/internal/store"
)

// IssueTitlePrefix prefixes the title of every issue created from a task.
const IssueTitlePrefix = "[Kaneo] "

// defaultRequestTimeout bounds a single GitHub call.
const defaultRequestTimeout = 15 * time.Second

// Store is the storage the synchronizer reads and writes.
type Store interface {
	store.TaskStore
	store.LinkStore
}

// Resolver yields a client for a project's repository, or nil when the
// project is not synchronized. *integration.Resolver implements it.
type Resolver interface {
	Resolve(ctx context.Context, projectID string) *integration.ClientHandle
}

// Options configures a Synchronizer.
type Options struct {
	// RequestTimeout bounds each GitHub call. Defaults to 15s.
	RequestTimeout time.Duration
	Logger         *slog.Logger
}

// Synchronizer mirrors task lifecycle events onto linked GitHub issues.
// Each handler is independent; nothing is shared between invocations.
type Synchronizer struct {
	store          Store
	resolver       Resolver
	requestTimeout time.Duration
	logger         *slog.Logger
}

// New creates a Synchronizer.
func New(s Store, resolver Resolver, opts Options) *Synchronizer {
	if opts.RequestTimeout <= 0 {
		opts.RequestTimeout = defaultRequestTimeout
	}
	if opts.Logger == nil {
		opts.Logger = slog.Default()
	}
	return &Synchronizer{
		store:          s,
		resolver:       resolver,
		requestTimeout: opts.RequestTimeout,
		logger:         opts.Logger,
	}
}

// OnTaskCreated creates a GitHub issue for a new task, labels it, and
// links the task to it. Tasks imported from GitHub are left alone.
func (s *Synchronizer) OnTaskCreated(ctx context.Context, task model.Task) *Report {
	rep := newReport(EventTaskCreated, task.ID)
	log := s.logger.With("event", rep.Event, "task_id", task.ID, "project_id", task.ProjectID)

	if crossref.IsImportedFromGitHub(task.Description) {
		return rep.skip(log, "task was created from a github issue")
	}
	if _, err := s.store.GetIssueLinkForTask(ctx, task.ID); err == nil {
		return rep.skip(log, "task is already linked to an issue")
	} else if !store.IsNotFound(err) {
		log.Error("checking existing issue link", "error", err)
		return rep.skip(log, "could not check existing issue link")
	}

	handle := s.resolver.Resolve(ctx, task.ProjectID)
	if handle == nil {
		return rep.skip(log, "no active github integration")
	}
	log = log.With("repository", handle.Owner+"/"+handle.Repo)

	var issue *github.Issue
	o := s.remote(ctx, rep, log, "create issue", func(ctx context.Context) error {
		created, err := handle.Client.CreateIssue(ctx, handle.Owner, handle.Repo, github.NewIssue{
			Title: IssueTitlePrefix + task.Title,
			Body:  issueBody(task),
		})
		issue = created
		return err
	})
	if o.Kind != OutcomeOK {
		return rep
	}
	log = log.With("issue_number", issue.Number)

	labels := []string{AppLabel, PriorityLabel(task.Priority), StatusLabel(task.Status)}
	s.remote(ctx, rep, log, "add labels", func(ctx context.Context) error {
		return AddLabels(ctx, handle.Client, handle.Owner, handle.Repo, issue.Number, labels)
	})

	s.local(ctx, rep, log, "link task description", func(ctx context.Context) error {
		return s.store.UpdateTaskDescription(ctx, task.ID,
			crossref.AppendLinkedMarker(task.Description, issue.HTMLURL))
	})
	s.local(ctx, rep, log, "record issue link", func(ctx context.Context) error {
		return s.store.CreateIssueLink(ctx, model.IssueLink{
			TaskID:      task.ID,
			IssueURL:    issue.HTMLURL,
			IssueNumber: issue.Number,
			Direction:   model.LinkDirectionExported,
		})
	})

	log.Info("created github issue", "url", issue.HTMLURL)
	return rep
}

// OnTaskStatusChanged swaps the issue's status label and closes or
// reopens it when the task enters or leaves done.
func (s *Synchronizer) OnTaskStatusChanged(
	ctx context.Context,
	taskID string,
	oldStatus string,
	newStatus string,
) *Report {
	rep := newReport(EventStatusChanged, taskID)
	log := s.logger.With("event", rep.Event, "task_id", taskID,
		"old_status", oldStatus, "new_status", newStatus)

	target := s.linkedTarget(ctx, rep, log, taskID)
	if target == nil {
		return rep
	}
	h, number := target.handle, target.ref.Number

	s.removeLabel(ctx, rep, log, h, number, StatusLabel(oldStatus))
	s.remote(ctx, rep, log, "add label "+StatusLabel(newStatus), func(ctx context.Context) error {
		return AddLabels(ctx, h.Client, h.Owner, h.Repo, number, []string{StatusLabel(newStatus)})
	})

	if state, ok := IssueStateTransition(oldStatus, newStatus); ok {
		s.remote(ctx, rep, log, "set issue "+state, func(ctx context.Context) error {
			return h.Client.UpdateIssueState(ctx, h.Owner, h.Repo, number, state)
		})
	}

	log.Info("updated github issue status", "issue_number", number)
	return rep
}

// OnTaskPriorityChanged swaps the issue's priority label.
func (s *Synchronizer) OnTaskPriorityChanged(
	ctx context.Context,
	taskID string,
	oldPriority string,
	newPriority string,
) *Report {
	rep := newReport(EventPriorityChanged, taskID)
	log := s.logger.With("event", rep.Event, "task_id", taskID,
		"old_priority", oldPriority, "new_priority", newPriority)

	target := s.linkedTarget(ctx, rep, log, taskID)
	if target == nil {
		return rep
	}
	h, number := target.handle, target.ref.Number

	s.removeLabel(ctx, rep, log, h, number, PriorityLabel(oldPriority))
	s.remote(ctx, rep, log, "add label "+PriorityLabel(newPriority), func(ctx context.Context) error {
		return AddLabels(ctx, h.Client, h.Owner, h.Repo, number, []string{PriorityLabel(newPriority)})
	})

	log.Info("updated github issue priority", "issue_number", number)
	return rep
}

// IssueStateTransition maps a task status change onto the issue state.
// Entering done closes the issue, leaving done reopens it, and every
// other change leaves the state alone (ok is false).
func IssueStateTransition(oldStatus, newStatus string) (state string, ok bool) {
	switch {
	case newStatus == model.StatusDone:
		return github.StateClosed, true
	case oldStatus == model.StatusDone:
		return github.StateOpen, true
	default:
		return "", false
	}
}

type linkedIssue struct {
	handle *integration.ClientHandle
	ref    *crossref.IssueReference
}

// linkedTarget loads the task, requires an issue link, and resolves the
// project's client. It returns nil when the event must be skipped.
func (s *Synchronizer) linkedTarget(
	ctx context.Context,
	rep *Report,
	log *slog.Logger,
	taskID string,
) *linkedIssue {
	task, err := s.store.GetTaskByID(ctx, taskID)
	if err != nil {
		if !store.IsNotFound(err) {
			log.Error("loading task", "error", err)
		}
		rep.skip(log, "task not found")
		return nil
	}

	// The link is checked before resolving so unlinked tasks never cost
	// an installation token exchange.
	ref := s.issueReference(ctx, log, task)
	if ref == nil {
		rep.skip(log, "task has no github issue link")
		return nil
	}

	handle := s.resolver.Resolve(ctx, task.ProjectID)
	if handle == nil {
		rep.skip(log, "no active github integration")
		return nil
	}

	return &linkedIssue{handle: handle, ref: ref}
}

// removeLabel drops an old label under the per-call timeout. It is
// best-effort: whatever happens, later steps still run.
func (s *Synchronizer) removeLabel(
	ctx context.Context,
	rep *Report,
	log *slog.Logger,
	h *integration.ClientHandle,
	number int,
	label string,
) {
	callCtx, cancel := context.WithTimeout(ctx, s.requestTimeout)
	defer cancel()
	rep.record(ctx, log, RemoveLabel(callCtx, h.Client, h.Owner, h.Repo, number, label))
}

// remote runs one GitHub call under its own timeout and records the
// outcome. Failures are surfaced in the report but never returned.
func (s *Synchronizer) remote(
	ctx context.Context,
	rep *Report,
	log *slog.Logger,
	step string,
	fn func(ctx context.Context) error,
) Outcome {
	return rep.record(ctx, log, s.run(ctx, step, OutcomeRemoteFailed, fn))
}

// local runs one storage write and records the outcome.
func (s *Synchronizer) local(
	ctx context.Context,
	rep *Report,
	log *slog.Logger,
	step string,
	fn func(ctx context.Context) error,
) Outcome {
	return rep.record(ctx, log, s.run(ctx, step, OutcomeStorageFailed, fn))
}

func (s *Synchronizer) run(
	ctx context.Context,
	step string,
	failure OutcomeKind,
	fn func(ctx context.Context) error,
) (o Outcome) {
	ctx, cancel := context.WithTimeout(ctx, s.requestTimeout)
	defer cancel()

	defer func() {
		if r := recover(); r != nil {
			o = Outcome{Step: step, Kind: failure, Err: fmt.Errorf("panic: %v", r)}
		}
	}()

	if err := fn(ctx); err != nil {
		return Outcome{Step: step, Kind: failure, Err: err}
	}
	return Outcome{Step: step, Kind: OutcomeOK}
}

// issueBody renders the body of an issue created from a task.
func issueBody(task model.Task) string {
	description := task.Description
	if description == "" {
		description = "No description provided"
	}
	priority := task.Priority
	if priority == "" {
		priority = "Not set"
	}
	assignee := task.Assignee
	if assignee == "" {
		assignee = "Unassigned"
	}

	return fmt.Sprintf(`**Task created in Kaneo**

**Description:** %s

**Details:**
- Task ID: %s
- Status: %s
- Priority: %s
- Assigned to: %s

---
*This issue was automatically created from Kaneo task management system.*`,
		description, task.ID, task.Status, priority, assignee)
}
