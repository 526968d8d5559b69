// Package github resolves a pull request URL to what it actually points at.
// GitHub redirects /pull/N to /issues/N when N is an issue, so the final
// request URL tells the two apart.
package github

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"
	"strings"
	"time"

	"server-warden/internal/metrics"

	"github.com/hashicorp/go-retryablehttp"
	lru "github.com/hashicorp/golang-lru/v2"
	"golang.org/x/time/rate"
)

// ErrNotFound is returned when the URL does not answer 200 OK.
var ErrNotFound = errors.New("github: not found")

type Kind string

const (
	PullRequest Kind = "Pull Request"
	Issue       Kind = "Issue"
)

const cacheSize = 512

type Client struct {
	http    *http.Client
	limiter *rate.Limiter
	cache   *lru.Cache[string, Kind]
}

type Option func(*Client)

// WithHTTPClient replaces the retrying client, mostly for tests.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) {
		c.http = hc
	}
}

// NewClient builds a client that retries transient failures and performs at
// most perSecond lookups per second.
func NewClient(timeout time.Duration, perSecond float64, opts ...Option) *Client {
	rc := retryablehttp.NewClient()
	rc.RetryMax = 2
	rc.RetryWaitMin = 500 * time.Millisecond
	rc.RetryWaitMax = 3 * time.Second
	rc.Logger = leveledLog{}

	hc := rc.StandardClient()
	hc.Timeout = timeout

	limit := rate.Limit(perSecond)
	if perSecond <= 0 {
		limit = rate.Inf
	}

	cache, _ := lru.New[string, Kind](cacheSize)
	c := &Client{
		http:    hc,
		limiter: rate.NewLimiter(limit, 1),
		cache:   cache,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Classify fetches url and reports whether it resolved to a pull request or
// an issue.
func (c *Client) Classify(ctx context.Context, url string) (Kind, error) {
	if kind, ok := c.cache.Get(url); ok {
		metrics.GitHubLookupsTotal.WithLabelValues("cached").Inc()
		return kind, nil
	}

	if err := c.limiter.Wait(ctx); err != nil {
		return "", err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return "", fmt.Errorf("build request: %w", err)
	}
	resp, err := c.http.Do(req)
	if err != nil {
		metrics.GitHubLookupsTotal.WithLabelValues("error").Inc()
		return "", fmt.Errorf("fetch %s: %w", url, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		metrics.GitHubLookupsTotal.WithLabelValues("not_found").Inc()
		return "", fmt.Errorf("%w: %s answered %d", ErrNotFound, url, resp.StatusCode)
	}

	kind, err := kindFromPath(resp.Request.URL.Path)
	if err != nil {
		metrics.GitHubLookupsTotal.WithLabelValues("error").Inc()
		return "", err
	}

	c.cache.Add(url, kind)
	metrics.GitHubLookupsTotal.WithLabelValues("ok").Inc()
	return kind, nil
}

// kindFromPath reads the third path segment of /<owner>/<repo>/<kind>/<n>.
func kindFromPath(path string) (Kind, error) {
	parts := strings.Split(path, "/")
	if len(parts) < 4 {
		return "", fmt.Errorf("unexpected path %q", path)
	}
	switch parts[3] {
	case "pull":
		return PullRequest, nil
	case "issues":
		return Issue, nil
	default:
		return "", fmt.Errorf("unexpected path %q", path)
	}
}

// leveledLog routes retryablehttp messages into the standard logger. Errors
// are logged as warnings because the request is retried.
type leveledLog struct{}

func (leveledLog) Error(msg string, kv ...any) { log.Printf("[WARN] github: %s %v", msg, kv) }
func (leveledLog) Warn(msg string, kv ...any)  { log.Printf("[WARN] github: %s %v", msg, kv) }
func (leveledLog) Info(msg string, kv ...any)  { log.Printf("[DEBUG] github: %s %v", msg, kv) }
func (leveledLog) Debug(msg string, kv ...any) { log.Printf("[DEBUG] github: %s %v", msg, kv) }
