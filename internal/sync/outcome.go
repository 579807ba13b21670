package sync

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
)

// OutcomeKind classifies the result of one synchronizer step.
type OutcomeKind int

const (
	OutcomeOK OutcomeKind = iota
	// OutcomeLabelAbsent: the label to remove was not on the issue.
	OutcomeLabelAbsent
	// OutcomeCleanupFailed: removing an old label failed otherwise.
	OutcomeCleanupFailed
	// OutcomeRemoteFailed: a GitHub call that matters failed.
	OutcomeRemoteFailed
	// OutcomeStorageFailed: writing back to local storage failed.
	OutcomeStorageFailed
)

func (k OutcomeKind) String() string {
	switch k {
	case OutcomeOK:
		return "ok"
	case OutcomeLabelAbsent:
		return "label_absent"
	case OutcomeCleanupFailed:
		return "cleanup_failed"
	case OutcomeRemoteFailed:
		return "remote_failed"
	case OutcomeStorageFailed:
		return "storage_failed"
	default:
		return fmt.Sprintf("outcome(%d)", int(k))
	}
}

// outcomePolicy decides how an outcome is logged and whether it counts
// as a failure of the invocation.
type outcomePolicy struct {
	level    slog.Level
	surfaced bool
}

var outcomePolicies = map[OutcomeKind]outcomePolicy{
	OutcomeOK:            {level: slog.LevelDebug, surfaced: false},
	OutcomeLabelAbsent:   {level: slog.LevelDebug, surfaced: false},
	OutcomeCleanupFailed: {level: slog.LevelWarn, surfaced: false},
	OutcomeRemoteFailed:  {level: slog.LevelError, surfaced: true},
	OutcomeStorageFailed: {level: slog.LevelError, surfaced: true},
}

func policyFor(k OutcomeKind) outcomePolicy {
	if p, ok := outcomePolicies[k]; ok {
		return p
	}
	return outcomePolicy{level: slog.LevelError, surfaced: true}
}

// Outcome is the result of one step of a lifecycle handler.
type Outcome struct {
	Step string
	Kind OutcomeKind
	Err  error
}

// Surfaced reports whether the outcome counts as a failure.
func (o Outcome) Surfaced() bool {
	return policyFor(o.Kind).surfaced
}

// Lifecycle event names.
const (
	EventTaskCreated     = "task_created"
	EventStatusChanged   = "status_changed"
	EventPriorityChanged = "priority_changed"
)

// Report summarizes one handler invocation. Handlers never return
// errors; callers that care inspect the report.
type Report struct {
	Event    string
	TaskID   string
	Skipped  string
	Outcomes []Outcome
}

func newReport(event, taskID string) *Report {
	return &Report{Event: event, TaskID: taskID}
}

// Err joins the errors of all surfaced outcomes, or returns nil.
func (r *Report) Err() error {
	var errs []error
	for _, o := range r.Outcomes {
		if o.Surfaced() && o.Err != nil {
			errs = append(errs, fmt.Errorf("%s: %w", o.Step, o.Err))
		}
	}
	return errors.Join(errs...)
}

// Steps returns the names of the steps that ran, in order.
func (r *Report) Steps() []string {
	steps := make([]string, 0, len(r.Outcomes))
	for _, o := range r.Outcomes {
		steps = append(steps, o.Step)
	}
	return steps
}

func (r *Report) record(ctx context.Context, log *slog.Logger, o Outcome) Outcome {
	r.Outcomes = append(r.Outcomes, o)

	p := policyFor(o.Kind)
	attrs := []any{"step", o.Step, "outcome", o.Kind.String()}
	if o.Err != nil {
		attrs = append(attrs, "error", o.Err)
	}
	log.Log(ctx, p.level, "sync step finished", attrs...)
	return o
}

func (r *Report) skip(log *slog.Logger, reason string) *Report {
	r.Skipped = reason
	log.Debug("skipping github sync", "reason", reason)
	return r
}
