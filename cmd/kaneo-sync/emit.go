package main

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/spf13/cobra"

	"github.com/nhle/kaneo-sync/internal/model"
	"github.com/nhle/kaneo-sync/internal/sync"
)

func newEmitCmd(cfg *model.AppConfig, jsonOutput *bool) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "emit",
		Short: "Fire a task lifecycle event",
		Long: "Fire a task lifecycle event as the task-management system would, " +
			"and wait for the GitHub synchronization to finish.",
	}

	cmd.AddCommand(
		&cobra.Command{
			Use:   "created <task-id>",
			Short: "Create a GitHub issue for a task",
			Args:  cobra.ExactArgs(1),
			RunE: func(cmd *cobra.Command, args []string) error {
				return emit(cmd, cfg, *jsonOutput, func(ctx context.Context, e *engine) error {
					task, err := e.store.GetTaskByID(ctx, args[0])
					if err != nil {
						return err
					}
					e.dispatcher.TaskCreated(*task)
					return nil
				})
			},
		},
		&cobra.Command{
			Use:   "status <task-id> <old-status> <new-status>",
			Short: "Mirror a status change onto the linked issue",
			Args:  cobra.ExactArgs(3),
			RunE: func(cmd *cobra.Command, args []string) error {
				return emit(cmd, cfg, *jsonOutput, func(_ context.Context, e *engine) error {
					e.dispatcher.StatusChanged(args[0], args[1], args[2])
					return nil
				})
			},
		},
		&cobra.Command{
			Use:   "priority <task-id> <old-priority> <new-priority>",
			Short: "Mirror a priority change onto the linked issue",
			Args:  cobra.ExactArgs(3),
			RunE: func(cmd *cobra.Command, args []string) error {
				return emit(cmd, cfg, *jsonOutput, func(_ context.Context, e *engine) error {
					e.dispatcher.PriorityChanged(args[0], args[1], args[2])
					return nil
				})
			},
		},
	)

	return cmd
}

// emit runs events through the dispatcher, prints their reports, and
// fails when a step that matters failed.
func emit(
	cmd *cobra.Command,
	cfg *model.AppConfig,
	jsonOutput bool,
	submit func(ctx context.Context, e *engine) error,
) error {
	reports, err := dispatch(cmd, cfg, jsonOutput, submit)
	if err != nil {
		return err
	}

	for _, rep := range reports {
		if err := rep.Err(); err != nil {
			return fmt.Errorf("%s %s: %w", rep.Event, rep.TaskID, err)
		}
	}
	return nil
}

// dispatch opens the engine, submits events through the dispatcher,
// waits for them to finish, and prints their reports. Sync failures are
// only reported; the returned error covers setup and submission.
func dispatch(
	cmd *cobra.Command,
	cfg *model.AppConfig,
	jsonOutput bool,
	submit func(ctx context.Context, e *engine) error,
) ([]*sync.Report, error) {
	e, err := openEngine(cfg)
	if err != nil {
		return nil, err
	}
	defer e.close()

	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}

	if err := submit(ctx, e); err != nil {
		return nil, err
	}
	if err := e.dispatcher.Stop(ctx); err != nil {
		return nil, err
	}

	reports := drainReports(e.dispatcher)
	for _, st := range e.dispatcher.Statuses() {
		slog.Warn("task left out of sync with github",
			"task_id", st.TaskID, "event", st.LastEvent, "error", st.Error)
	}
	if err := writeReports(cmd.OutOrStdout(), reports, jsonOutput); err != nil {
		return nil, err
	}
	return reports, nil
}

func drainReports(d *sync.Dispatcher) []*sync.Report {
	var reports []*sync.Report
	for {
		select {
		case rep := <-d.Results():
			reports = append(reports, rep)
		default:
			return reports
		}
	}
}
