package model

import "time"

// Link direction constants.
const (
	// LinkDirectionExported marks an issue created on GitHub from a local task.
	LinkDirectionExported = "exported"

	// LinkDirectionImported marks a local task created from a GitHub issue.
	LinkDirectionImported = "imported"
)

// IssueLink associates a local task with a GitHub issue.
type IssueLink struct {
	ID          string    `json:"id" db:"id"`
	TaskID      string    `json:"task_id" db:"task_id"`
	IssueURL    string    `json:"issue_url" db:"issue_url"`
	IssueNumber int       `json:"issue_number" db:"issue_number"`
	Direction   string    `json:"direction" db:"direction"`
	CreatedAt   time.Time `json:"created_at" db:"created_at"`
}
