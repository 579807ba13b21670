package sync

import (
	"context"
	"fmt"
	"strings"
	gosync "sync"

	"github.com/nhle/kaneo-sync/internal/github"
	"github.com/nhle/kaneo-sync/internal/integration"
)

// fakeClient records every GitHub call as a short string.
type fakeClient struct {
	mu    gosync.Mutex
	calls []string

	issueNumber int
	createErr   error
	addErr      error
	removeErr   error
	updateErr   error
}

func (f *fakeClient) record(format string, args ...any) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls = append(f.calls, fmt.Sprintf(format, args...))
}

func (f *fakeClient) Calls() []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]string(nil), f.calls...)
}

func (f *fakeClient) CreateIssue(_ context.Context, owner, repo string, issue github.NewIssue) (*github.Issue, error) {
	f.record("create %s/%s %s", owner, repo, issue.Title)
	if f.createErr != nil {
		return nil, f.createErr
	}
	n := f.issueNumber
	if n == 0 {
		n = 42
	}
	return &github.Issue{
		Number:  n,
		HTMLURL: fmt.Sprintf("https://github.com/%s/%s/issues/%d", owner, repo, n),
		State:   github.StateOpen,
	}, nil
}

func (f *fakeClient) UpdateIssueState(_ context.Context, _, _ string, number int, state string) error {
	f.record("state %d %s", number, state)
	return f.updateErr
}

func (f *fakeClient) AddLabels(_ context.Context, _, _ string, number int, labels []string) error {
	f.record("labels %d %s", number, strings.Join(labels, ","))
	return f.addErr
}

func (f *fakeClient) RemoveLabel(_ context.Context, _, _ string, number int, label string) error {
	f.record("remove %d %s", number, label)
	return f.removeErr
}

// fakeResolver hands out a fixed client, or nil when client is nil.
type fakeResolver struct {
	client *fakeClient
	calls  int
}

func (r *fakeResolver) Resolve(_ context.Context, _ string) *integration.ClientHandle {
	r.calls++
	if r.client == nil {
		return nil
	}
	return &integration.ClientHandle{Client: r.client, Owner: "acme", Repo: "widgets"}
}

func notFound() error {
	return &github.APIError{Method: "DELETE", Path: "/labels", StatusCode: 404, Message: "Label does not exist"}
}

func serverError() error {
	return &github.APIError{Method: "POST", Path: "/labels", StatusCode: 500, Message: "boom"}
}
