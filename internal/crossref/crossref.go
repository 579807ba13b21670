package crossref

import (
	"regexp"
	"strconv"
	"strings"

	"github.com/nhle/kaneo-sync/internal/model"
)

// Description markers linking a task to a GitHub issue.
const (
	// LinkedMarker is appended when a GitHub issue is created from a task.
	LinkedMarker = "Linked to GitHub issue:"

	// CreatedFromMarker is written when a task is imported from an issue.
	CreatedFromMarker = "Created from GitHub issue:"
)

// issueURLPattern matches a canonical GitHub issue URL.
const issueURLPattern = `(https://github\.com/[^/\s]+/[^/\s]+/issues/(\d+))`

var (
	linkedPattern      = regexp.MustCompile(regexp.QuoteMeta(LinkedMarker) + ` ` + issueURLPattern)
	createdFromPattern = regexp.MustCompile(regexp.QuoteMeta(CreatedFromMarker) + ` ` + issueURLPattern)
)

// IssueReference identifies the GitHub issue a task description points at.
type IssueReference struct {
	Number    int
	URL       string
	Direction string
}

// ExtractIssueReference finds the GitHub issue embedded in a task
// description. The linked-to marker takes precedence over the
// created-from marker. Returns nil when neither marker is present or
// the issue number is not a positive integer.
func ExtractIssueReference(description string) *IssueReference {
	candidates := []struct {
		pattern   *regexp.Regexp
		direction string
	}{
		{linkedPattern, model.LinkDirectionExported},
		{createdFromPattern, model.LinkDirectionImported},
	}

	for _, c := range candidates {
		m := c.pattern.FindStringSubmatch(description)
		if m == nil {
			continue
		}
		n, err := strconv.Atoi(m[2])
		if err != nil || n <= 0 {
			return nil
		}
		return &IssueReference{Number: n, URL: m[1], Direction: c.direction}
	}
	return nil
}

// IsImportedFromGitHub reports whether the task was created from a
// GitHub issue and must not get an issue of its own.
func IsImportedFromGitHub(description string) bool {
	return strings.Contains(description, CreatedFromMarker)
}

// AppendLinkedMarker returns description with a linked-to marker for
// issueURL appended.
func AppendLinkedMarker(description, issueURL string) string {
	return description + "\n\n---\n\n*" + LinkedMarker + " " + issueURL + "*"
}
