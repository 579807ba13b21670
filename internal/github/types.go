package github

// Issue states accepted by UpdateIssueState.
const (
	StateOpen   = "open"
	StateClosed = "closed"
)

// Issue is the subset of a GitHub issue the sync engine consumes.
type Issue struct {
	ID      int64   `json:"id"`
	Number  int     `json:"number"`
	Title   string  `json:"title"`
	Body    string  `json:"body"`
	State   string  `json:"state"`
	HTMLURL string  `json:"html_url"`
	Labels  []Label `json:"labels,omitempty"`
}

// Label is a label attached to an issue.
type Label struct {
	ID   int64  `json:"id"`
	Name string `json:"name"`
}

// Repository is the subset of a GitHub repository used to verify access.
type Repository struct {
	ID       int64  `json:"id"`
	Name     string `json:"name"`
	FullName string `json:"full_name"`
	Private  bool   `json:"private"`
	HTMLURL  string `json:"html_url"`
}

// NewIssue is the request body of POST /repos/{owner}/{repo}/issues.
type NewIssue struct {
	Title  string   `json:"title"`
	Body   string   `json:"body,omitempty"`
	Labels []string `json:"labels,omitempty"`
}
