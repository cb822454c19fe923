// Package update asks GitHub whether a newer bottle release exists.
package update

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net"
	"net/http"
	"strings"
	"time"

	"github.com/conn-castle/bottle/internal/messages"
	"github.com/conn-castle/bottle/internal/version"
)

// Repo is the GitHub repository bottle releases are published from.
const Repo = "conn-castle/bottle"

// ReleasesURL is the page users download releases from.
const ReleasesURL = "https://github.com/" + Repo + "/releases"

const latestReleaseAPI = "https://api.github.com/repos/" + Repo + "/releases/latest"

// Checker looks up the newest bottle release.
type Checker struct {
	// URL is the latest-release endpoint.
	URL    string
	Client *http.Client
	// Retries is the number of extra attempts after a network error or 5xx.
	Retries int
	Backoff time.Duration
}

var defaultChecker = &Checker{
	URL:     latestReleaseAPI,
	Client:  &http.Client{Timeout: 10 * time.Second},
	Retries: 1,
	Backoff: 250 * time.Millisecond,
}

// Result is the outcome of a release check.
type Result struct {
	Current string
	Latest  string
	// Outdated is set when Current orders before Latest. Dev builds are never outdated.
	Outdated bool
	Dev      bool
}

// RateLimitError reports that GitHub refused the request because of API rate limits.
type RateLimitError struct {
	Status string
	// Remaining is the X-RateLimit-Remaining header, or "" when GitHub sent none.
	Remaining string
}

func (e *RateLimitError) Error() string {
	remaining := e.Remaining
	if remaining == "" {
		remaining = "unknown"
	}
	return fmt.Sprintf(messages.UpdateRateLimitFmt, e.Status, remaining)
}

// IsRateLimitError reports whether err is a *RateLimitError.
func IsRateLimitError(err error) bool {
	var rl *RateLimitError
	return errors.As(err, &rl)
}

// Check compares currentVersion with the latest published release.
func Check(ctx context.Context, currentVersion string) (Result, error) {
	return defaultChecker.Check(ctx, currentVersion)
}

// Check compares currentVersion with the release c reports as latest.
func (c *Checker) Check(ctx context.Context, currentVersion string) (Result, error) {
	var result Result
	if version.IsDev(currentVersion) {
		result.Current, result.Dev = "dev", true
	} else {
		current, err := version.Normalize(currentVersion)
		if err != nil {
			return Result{}, fmt.Errorf(messages.UpdateInvalidCurrentVersionFmt, currentVersion, err)
		}
		result.Current = current
	}

	latest, err := c.Latest(ctx)
	if err != nil {
		return Result{}, err
	}
	result.Latest = latest
	result.Outdated = !result.Dev && version.Compare(result.Current, latest) == version.Less
	return result, nil
}

// Latest returns the normalized tag of the newest release.
func (c *Checker) Latest(ctx context.Context) (string, error) {
	if ctx == nil {
		ctx = context.Background()
	}
	resp, err := c.get(ctx)
	if err != nil {
		return "", err
	}
	defer func() { _ = resp.Body.Close() }()

	var release struct {
		TagName string `json:"tag_name"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&release); err != nil {
		return "", fmt.Errorf(messages.UpdateDecodeLatestReleaseErrFmt, err)
	}
	if strings.TrimSpace(release.TagName) == "" {
		return "", errors.New(messages.UpdateLatestReleaseMissingTag)
	}
	latest, err := version.Normalize(release.TagName)
	if err != nil {
		return "", fmt.Errorf(messages.UpdateInvalidLatestReleaseTagFmt, release.TagName, err)
	}
	return latest, nil
}

// get returns the first 200 response. Network errors and 5xx responses are
// retried; rate limits and other statuses are not.
func (c *Checker) get(ctx context.Context) (*http.Response, error) {
	client := c.Client
	if client == nil {
		client = http.DefaultClient
	}
	var lastErr error
	for attempt := 0; attempt <= c.Retries; attempt++ {
		if attempt > 0 {
			select {
			case <-ctx.Done():
				return nil, fmt.Errorf(messages.UpdateFetchLatestReleaseErrFmt, ctx.Err())
			case <-time.After(c.Backoff):
			}
		}
		req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.URL, nil)
		if err != nil {
			return nil, fmt.Errorf(messages.UpdateCreateRequestErrFmt, err)
		}
		req.Header.Set("Accept", "application/vnd.github+json")
		req.Header.Set("User-Agent", "bottle")

		resp, err := client.Do(req)
		if err != nil {
			lastErr = fmt.Errorf(messages.UpdateFetchLatestReleaseErrFmt, err)
			if !retryable(err) {
				return nil, lastErr
			}
			continue
		}
		if resp.StatusCode == http.StatusOK {
			return resp, nil
		}
		_ = resp.Body.Close()
		if rl := rateLimited(resp); rl != nil {
			return nil, rl
		}
		lastErr = fmt.Errorf(messages.UpdateFetchLatestReleaseStatusFmt, resp.Status)
		if resp.StatusCode < 500 {
			return nil, lastErr
		}
	}
	return nil, lastErr
}

func retryable(err error) bool {
	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return false
	}
	var netErr net.Error
	return errors.As(err, &netErr)
}

// rateLimited recognizes GitHub's 429, and the 403 it sends once an
// unauthenticated quota is spent.
func rateLimited(resp *http.Response) *RateLimitError {
	remaining := strings.TrimSpace(resp.Header.Get("X-RateLimit-Remaining"))
	switch {
	case resp.StatusCode == http.StatusTooManyRequests:
	case resp.StatusCode == http.StatusForbidden && remaining == "0":
	default:
		return nil
	}
	return &RateLimitError{Status: resp.Status, Remaining: remaining}
}
