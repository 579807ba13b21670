package main

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"github.com/nhle/kaneo-sync/internal/model"
)

func newTaskCmd(cfg *model.AppConfig, jsonOutput *bool) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "task",
		Short: "Manage local tasks",
	}

	cmd.AddCommand(newTaskCreateCmd(cfg, jsonOutput))
	return cmd
}

func newTaskCreateCmd(cfg *model.AppConfig, jsonOutput *bool) *cobra.Command {
	var (
		projectID   string
		description string
		status      string
		priority    string
		assignee    string
		noSync      bool
	)

	cmd := &cobra.Command{
		Use:   "create <title>",
		Short: "Create a task and mirror it to GitHub",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if projectID == "" {
				return fmt.Errorf("--project is required")
			}
			task := model.Task{
				ID:          uuid.New().String(),
				ProjectID:   projectID,
				Title:       args[0],
				Description: description,
				Status:      status,
				Priority:    priority,
				Assignee:    assignee,
			}

			if noSync {
				e, err := openEngine(cfg)
				if err != nil {
					return err
				}
				defer e.close()
				if err := e.store.CreateTask(cmd.Context(), task); err != nil {
					return err
				}
				fmt.Fprintln(cmd.OutOrStdout(), task.ID)
				return nil
			}

			// The task is stored once CreateTask returns; GitHub failures
			// show up in the reports and never fail the command.
			_, err := dispatch(cmd, cfg, *jsonOutput, func(ctx context.Context, e *engine) error {
				if err := e.store.CreateTask(ctx, task); err != nil {
					return err
				}
				fmt.Fprintln(cmd.ErrOrStderr(), "created task", task.ID)
				e.dispatcher.TaskCreated(task)
				return nil
			})
			return err
		},
	}

	cmd.Flags().StringVarP(&projectID, "project", "p", "", "project id")
	cmd.Flags().StringVarP(&description, "description", "d", "", "task description")
	cmd.Flags().StringVar(&status, "status", model.StatusToDo, "task status")
	cmd.Flags().StringVar(&priority, "priority", "", "task priority (low, medium, high, urgent)")
	cmd.Flags().StringVar(&assignee, "assignee", "", "assignee")
	cmd.Flags().BoolVar(&noSync, "no-sync", false, "store the task without firing the created event")
	return cmd
}
