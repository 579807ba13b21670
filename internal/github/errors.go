package github

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/bradleyfalzon/ghinstallation/v2"
	gogithub "github.com/google/go-github/v66/github"
)

// APIError is a non-2xx response from the GitHub REST API.
type APIError struct {
	Method     string
	Path       string
	StatusCode int
	Message    string
	Err        error
}

func (e *APIError) Error() string {
	if e.Message == "" {
		return fmt.Sprintf("github API error (%d) on %s %s", e.StatusCode, e.Method, e.Path)
	}
	return fmt.Sprintf("github API error (%d) on %s %s: %s", e.StatusCode, e.Method, e.Path, e.Message)
}

func (e *APIError) Unwrap() error { return e.Err }

// apiError turns errors from go-github and the installation transport
// into an *APIError when they carry an HTTP status. Other errors, such
// as a cancelled context, are returned unchanged.
func apiError(method, path string, err error) error {
	if err == nil {
		return nil
	}

	status, message := statusOf(err)
	if status == 0 {
		return err
	}
	if status == http.StatusUnauthorized && message == "" {
		message = "authentication failed: check the token"
	}
	return &APIError{
		Method:     method,
		Path:       path,
		StatusCode: status,
		Message:    message,
		Err:        err,
	}
}

func statusOf(err error) (int, string) {
	var ghErr *gogithub.ErrorResponse
	if errors.As(err, &ghErr) && ghErr.Response != nil {
		return ghErr.Response.StatusCode, ghErr.Message
	}
	var rateErr *gogithub.RateLimitError
	if errors.As(err, &rateErr) && rateErr.Response != nil {
		return rateErr.Response.StatusCode, rateErr.Message
	}
	var abuseErr *gogithub.AbuseRateLimitError
	if errors.As(err, &abuseErr) && abuseErr.Response != nil {
		return abuseErr.Response.StatusCode, abuseErr.Message
	}
	var tokenErr *ghinstallation.HTTPError
	if errors.As(err, &tokenErr) && tokenErr.Response != nil {
		return tokenErr.Response.StatusCode, tokenErr.Message
	}
	return 0, ""
}

// IsNotFound reports whether err (or any error in its chain) is a 404
// APIError. GitHub answers 404 when removing a label that is not on
// the issue.
func IsNotFound(err error) bool {
	var apiErr *APIError
	return errors.As(err, &apiErr) && apiErr.StatusCode == http.StatusNotFound
}

// IsUnauthorized reports whether err (or any error in its chain) is a
// 401 APIError.
func IsUnauthorized(err error) bool {
	var apiErr *APIError
	return errors.As(err, &apiErr) && apiErr.StatusCode == http.StatusUnauthorized
}
