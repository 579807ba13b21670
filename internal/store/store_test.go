package store_test

import (
	"context"
	"testing"

	"github.com/nhle/kaneo-sync/internal/model"
	"github.com/nhle/kaneo-sync/internal/store"
	"github.com/nhle/kaneo-sync/tests/testutil"
)

func TestTaskDescriptionUpdate(t *testing.T) {
	s := testutil.NewTestStore(t)
	ctx := context.Background()

	task := model.Task{
		ID:          "task-1",
		ProjectID:   "proj-1",
		Title:       "Fix login bug",
		Description: "Login fails on Safari",
		Priority:    model.PriorityHigh,
	}
	if err := s.CreateTask(ctx, task); err != nil {
		t.Fatalf("create task: %v", err)
	}

	got, err := s.GetTaskByID(ctx, "task-1")
	if err != nil {
		t.Fatalf("get task: %v", err)
	}
	if got.Status != model.StatusToDo {
		t.Fatalf("expected default status %q, got %q", model.StatusToDo, got.Status)
	}

	if err := s.UpdateTaskDescription(ctx, "task-1", "rewritten"); err != nil {
		t.Fatalf("update description: %v", err)
	}
	got, err = s.GetTaskByID(ctx, "task-1")
	if err != nil {
		t.Fatalf("get task: %v", err)
	}
	if got.Description != "rewritten" || got.Title != "Fix login bug" {
		t.Fatalf("unexpected task %+v", got)
	}

	if err := s.UpdateTaskDescription(ctx, "missing", "x"); err == nil {
		t.Fatal("expected error for missing task")
	}
	if _, err := s.GetTaskByID(ctx, "missing"); !store.IsNotFound(err) {
		t.Fatalf("expected not found, got %v", err)
	}
}

func TestIntegrationUpsert(t *testing.T) {
	s := testutil.NewTestStore(t)
	ctx := context.Background()

	if _, err := s.GetIntegrationByProjectID(ctx, "proj-1"); !store.IsNotFound(err) {
		t.Fatalf("expected not found, got %v", err)
	}

	created, err := s.UpsertIntegration(ctx, model.Integration{
		ProjectID:       "proj-1",
		RepositoryOwner: "acme",
		RepositoryName:  "widgets",
		Credential:      model.PATCredential{EncryptedToken: "iv:ct:tag"},
		IsActive:        true,
	})
	if err != nil {
		t.Fatalf("upsert pat: %v", err)
	}
	if created.ID == "" || !created.IsActive {
		t.Fatalf("unexpected integration %+v", created)
	}
	if cred, ok := created.Credential.(model.PATCredential); !ok || cred.EncryptedToken != "iv:ct:tag" {
		t.Fatalf("unexpected credential %#v", created.Credential)
	}

	// Switching strategy replaces the row and clears the PAT column.
	switched, err := s.UpsertIntegration(ctx, model.Integration{
		ProjectID:       "proj-1",
		RepositoryOwner: "acme",
		RepositoryName:  "gadgets",
		Credential:      model.AppCredential{InstallationID: 77},
		IsActive:        true,
	})
	if err != nil {
		t.Fatalf("upsert app: %v", err)
	}
	if switched.ID != created.ID {
		t.Fatalf("expected upsert to keep id %s, got %s", created.ID, switched.ID)
	}
	if switched.Repository() != "acme/gadgets" {
		t.Fatalf("unexpected repository %q", switched.Repository())
	}
	if cred, ok := switched.Credential.(model.AppCredential); !ok || cred.InstallationID != 77 {
		t.Fatalf("unexpected credential %#v", switched.Credential)
	}

	if err := s.DeactivateIntegration(ctx, "proj-1"); err != nil {
		t.Fatalf("deactivate: %v", err)
	}
	got, err := s.GetIntegrationByProjectID(ctx, "proj-1")
	if err != nil {
		t.Fatalf("get integration: %v", err)
	}
	if got.IsActive {
		t.Fatal("expected integration to be inactive")
	}

	if _, err := s.UpsertIntegration(ctx, model.Integration{
		ProjectID:       "proj-2",
		RepositoryOwner: "acme",
		RepositoryName:  "widgets",
	}); err == nil {
		t.Fatal("expected error for integration without credential")
	}
}

func TestIssueLinks(t *testing.T) {
	s := testutil.NewTestStore(t)
	ctx := context.Background()

	if err := s.CreateTask(ctx, model.Task{ID: "task-1", ProjectID: "proj-1", Title: "t"}); err != nil {
		t.Fatalf("create task: %v", err)
	}

	if _, err := s.GetIssueLinkForTask(ctx, "task-1"); !store.IsNotFound(err) {
		t.Fatalf("expected not found, got %v", err)
	}

	link := model.IssueLink{
		TaskID:      "task-1",
		IssueURL:    "https://github.com/acme/widgets/issues/42",
		IssueNumber: 42,
	}
	if err := s.CreateIssueLink(ctx, link); err != nil {
		t.Fatalf("create link: %v", err)
	}

	got, err := s.GetIssueLinkForTask(ctx, "task-1")
	if err != nil {
		t.Fatalf("get link: %v", err)
	}
	if got.IssueNumber != 42 || got.Direction != model.LinkDirectionExported {
		t.Fatalf("unexpected link %+v", got)
	}

	if err := s.CreateIssueLink(ctx, link); err == nil {
		t.Fatal("expected second link for the same task to be rejected")
	}
}
