package github

import (
	"context"
	"fmt"
	"net/http"
	"net/url"

	gogithub "github.com/google/go-github/v66/github"
)

// CreateIssue opens a new issue in owner/repo.
func (c *Client) CreateIssue(
	ctx context.Context,
	owner, repo string,
	issue NewIssue,
) (*Issue, error) {
	req := &gogithub.IssueRequest{
		Title: gogithub.String(issue.Title),
		Body:  gogithub.String(issue.Body),
	}
	if len(issue.Labels) > 0 {
		req.Labels = &issue.Labels
	}

	created, _, err := c.gh.Issues.Create(ctx, owner, repo, req)
	if err != nil {
		err = apiError(http.MethodPost, fmt.Sprintf("/repos/%s/%s/issues", owner, repo), err)
		return nil, fmt.Errorf("creating issue in %s/%s: %w", owner, repo, err)
	}
	return issueFromGitHub(created), nil
}

// UpdateIssueState sets an issue's state to StateOpen or StateClosed.
func (c *Client) UpdateIssueState(
	ctx context.Context,
	owner, repo string,
	number int,
	state string,
) error {
	if state != StateOpen && state != StateClosed {
		return fmt.Errorf("invalid issue state %q", state)
	}

	req := &gogithub.IssueRequest{State: gogithub.String(state)}
	if _, _, err := c.gh.Issues.Edit(ctx, owner, repo, number, req); err != nil {
		err = apiError(http.MethodPatch, issuePath(owner, repo, number), err)
		return fmt.Errorf("setting issue %s/%s#%d %s: %w", owner, repo, number, state, err)
	}
	return nil
}

// AddLabels adds labels to an issue. Labels already present are left
// as they are by GitHub.
func (c *Client) AddLabels(
	ctx context.Context,
	owner, repo string,
	number int,
	labels []string,
) error {
	if _, _, err := c.gh.Issues.AddLabelsToIssue(ctx, owner, repo, number, labels); err != nil {
		err = apiError(http.MethodPost, issuePath(owner, repo, number)+"/labels", err)
		return fmt.Errorf("adding labels to %s/%s#%d: %w", owner, repo, number, err)
	}
	return nil
}

// RemoveLabel removes a single label from an issue. GitHub answers 404
// when the label is not on the issue; see IsNotFound.
func (c *Client) RemoveLabel(
	ctx context.Context,
	owner, repo string,
	number int,
	label string,
) error {
	// go-github does not escape the label segment.
	escaped := url.PathEscape(label)
	if _, err := c.gh.Issues.RemoveLabelForIssue(ctx, owner, repo, number, escaped); err != nil {
		err = apiError(http.MethodDelete, issuePath(owner, repo, number)+"/labels/"+escaped, err)
		return fmt.Errorf("removing label %q from %s/%s#%d: %w", label, owner, repo, number, err)
	}
	return nil
}

// GetRepository fetches a repository, verifying the token can see it.
func (c *Client) GetRepository(ctx context.Context, owner, repo string) (*Repository, error) {
	r, _, err := c.gh.Repositories.Get(ctx, owner, repo)
	if err != nil {
		err = apiError(http.MethodGet, fmt.Sprintf("/repos/%s/%s", owner, repo), err)
		return nil, fmt.Errorf("getting repository %s/%s: %w", owner, repo, err)
	}
	return &Repository{
		ID:       r.GetID(),
		Name:     r.GetName(),
		FullName: r.GetFullName(),
		Private:  r.GetPrivate(),
		HTMLURL:  r.GetHTMLURL(),
	}, nil
}

func issuePath(owner, repo string, number int) string {
	return fmt.Sprintf("/repos/%s/%s/issues/%d", owner, repo, number)
}

func issueFromGitHub(i *gogithub.Issue) *Issue {
	issue := &Issue{
		ID:      i.GetID(),
		Number:  i.GetNumber(),
		Title:   i.GetTitle(),
		Body:    i.GetBody(),
		State:   i.GetState(),
		HTMLURL: i.GetHTMLURL(),
	}
	for _, l := range i.Labels {
		issue.Labels = append(issue.Labels, Label{ID: l.GetID(), Name: l.GetName()})
	}
	return issue
}
