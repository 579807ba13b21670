package integration

import (
	"fmt"
	"net/url"
	"strings"
)

// ParseRepositoryURL extracts owner and repository name from a github.com
// repository URL such as https://github.com/acme/widgets(.git).
func ParseRepositoryURL(raw string) (owner, repo string, err error) {
	u, err := url.Parse(strings.TrimSpace(raw))
	if err != nil {
		return "", "", fmt.Errorf("parsing repository url %q: %w", raw, err)
	}
	if u.Hostname() != "github.com" {
		return "", "", fmt.Errorf("repository url %q is not on github.com", raw)
	}

	var parts []string
	for _, p := range strings.Split(u.Path, "/") {
		if p != "" {
			parts = append(parts, p)
		}
	}
	if len(parts) < 2 {
		return "", "", fmt.Errorf("repository url %q has no owner/name", raw)
	}

	repo = strings.TrimSuffix(parts[1], ".git")
	if repo == "" {
		return "", "", fmt.Errorf("repository url %q has no owner/name", raw)
	}
	return parts[0], repo, nil
}
