package github

import (
	"io"
	"net/http"
	"strconv"
	"time"
)

// rateLimitTransport retries requests GitHub answers with 429, waiting
// for Retry-After or an exponential backoff between attempts. The last
// 429 is handed back to the caller without waiting.
type rateLimitTransport struct {
	base       http.RoundTripper
	maxRetries int
}

func (t *rateLimitTransport) RoundTrip(req *http.Request) (*http.Response, error) {
	for attempt := 0; ; attempt++ {
		resp, err := t.base.RoundTrip(req)
		if err != nil || resp.StatusCode != http.StatusTooManyRequests {
			return resp, err
		}
		if attempt >= t.maxRetries {
			return resp, nil
		}

		// A body that cannot be replayed ends the retries.
		hasBody := req.Body != nil && req.Body != http.NoBody
		if hasBody && req.GetBody == nil {
			return resp, nil
		}

		wait := retryAfterDuration(resp, attempt)
		_, _ = io.Copy(io.Discard, resp.Body)
		resp.Body.Close()

		timer := time.NewTimer(wait)
		select {
		case <-req.Context().Done():
			timer.Stop()
			return nil, req.Context().Err()
		case <-timer.C:
		}

		if hasBody {
			body, err := req.GetBody()
			if err != nil {
				return nil, err
			}
			req = req.Clone(req.Context())
			req.Body = body
		}
	}
}

// retryAfterDuration reads the Retry-After header and computes a wait
// duration. Falls back to exponential backoff if the header is missing.
func retryAfterDuration(resp *http.Response, attempt int) time.Duration {
	if header := resp.Header.Get("Retry-After"); header != "" {
		if seconds, err := strconv.Atoi(header); err == nil {
			return time.Duration(seconds) * time.Second
		}
	}

	// Exponential backoff: 1s, 2s, 4s, ...
	backoff := time.Duration(1<<uint(attempt)) * time.Second
	if backoff > 30*time.Second {
		backoff = 30 * time.Second
	}
	return backoff
}
