package model

import "time"

// Task status values as stored by the task-management subsystem.
const (
	StatusToDo       = "to-do"
	StatusInProgress = "in-progress"
	StatusDone       = "done"
	StatusCanceled   = "canceled"
)

// Task priority values, lowest first.
const (
	PriorityLow    = "low"
	PriorityMedium = "medium"
	PriorityHigh   = "high"
	PriorityUrgent = "urgent"
)

// Task is a work item owned by the task-management subsystem. The sync
// engine reads every field but only ever rewrites Description.
type Task struct {
	// ID is the unique identifier of the task.
	ID string `json:"id" db:"id"`

	// ProjectID identifies the project whose integration governs syncing.
	ProjectID string `json:"project_id" db:"project_id"`

	// Title is the human-readable summary of the task.
	Title string `json:"title" db:"title"`

	// Description is free text that may embed a GitHub issue marker.
	Description string `json:"description" db:"description"`

	// Status is one of the Status* constants.
	Status string `json:"status" db:"status"`

	// Priority is one of the Priority* constants, or empty when unset.
	Priority string `json:"priority" db:"priority"`

	// Assignee is the user the task is assigned to, if any.
	Assignee string `json:"assignee" db:"assignee"`

	CreatedAt time.Time `json:"created_at" db:"created_at"`
	UpdatedAt time.Time `json:"updated_at" db:"updated_at"`
}
