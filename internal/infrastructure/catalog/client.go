package catalog

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"strings"
	"sync"
	"time"

	"golang.org/x/time/rate"

	"github.com/speclens/backend/internal/domain"
	"github.com/speclens/backend/internal/logging"
	"github.com/speclens/backend/internal/metrics"
)

const (
	maxAttempts = 3

	// maxCatalogBytes bounds the size of a catalog response
	maxCatalogBytes = 16 << 20
	// maxErrorBodyBytes bounds how much of an error body ends up in logs
	maxErrorBodyBytes = 512

	defaultRequestsPerSecond = 1.0
	defaultRefreshInterval   = 5 * time.Minute
)

// Client fetches catalog documents from a remote Catalog Store over HTTP and
// keeps the last good snapshot for refreshInterval.
type Client struct {
	httpClient      *http.Client
	baseURL         string
	rateLimiter     *rate.Limiter
	refreshInterval time.Duration
	debug           bool
	backoff         func(attempt int) time.Duration

	refreshMu sync.Mutex
	mu        sync.RWMutex
	catalog   *domain.Catalog
	fetchedAt time.Time
}

// NewClient creates a new Catalog Store client. Non-positive values fall back
// to one request per second and a five minute refresh interval.
func NewClient(baseURL string, requestsPerSecond float64, refreshInterval time.Duration) *Client {
	if requestsPerSecond <= 0 {
		requestsPerSecond = defaultRequestsPerSecond
	}
	if refreshInterval <= 0 {
		refreshInterval = defaultRefreshInterval
	}

	return &Client{
		httpClient: &http.Client{
			Timeout: 30 * time.Second,
		},
		baseURL:         strings.TrimRight(baseURL, "/"),
		rateLimiter:     rate.NewLimiter(rate.Limit(requestsPerSecond), maxAttempts),
		refreshInterval: refreshInterval,
		backoff:         exponentialBackoff,
	}
}

// SetDebug enables verbose request logging
func (c *Client) SetDebug(debug bool) {
	c.debug = debug
}

func (c *Client) debugLog(format string, args ...interface{}) {
	if c.debug {
		logging.Debug().Str("component", "catalog-client").Msgf(format, args...)
	}
}

// exponentialBackoff returns the wait before retrying after the given attempt: 500ms, 1s, 2s
func exponentialBackoff(attempt int) time.Duration {
	if attempt < 1 {
		attempt = 1
	}
	return time.Duration(500*(1<<(attempt-1))) * time.Millisecond
}

// readLimitedBody reads at most limit bytes
func readLimitedBody(body io.Reader, limit int64) ([]byte, error) {
	return io.ReadAll(io.LimitReader(body, limit))
}

// Snapshot returns the cached catalog while it is fresh and refetches it
// otherwise. When a refetch fails the previous snapshot is served stale.
func (c *Client) Snapshot(ctx context.Context) (*domain.Catalog, error) {
	if catalog, fresh := c.cached(); fresh {
		return catalog, nil
	}

	c.refreshMu.Lock()
	defer c.refreshMu.Unlock()

	// another caller may have refreshed while we waited
	if catalog, fresh := c.cached(); fresh {
		return catalog, nil
	}

	catalog, err := c.Refresh(ctx)
	if err == nil {
		return catalog, nil
	}
	if ctx.Err() != nil {
		return nil, ctx.Err()
	}

	c.mu.RLock()
	stale := c.catalog
	c.mu.RUnlock()
	if stale != nil {
		logging.Warn().Err(err).Str("version", stale.Version).Msg("Catalog refresh failed, serving stale snapshot")
		return stale, nil
	}
	return nil, err
}

func (c *Client) cached() (*domain.Catalog, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	if c.catalog == nil {
		return nil, false
	}
	return c.catalog, time.Since(c.fetchedAt) < c.refreshInterval
}

// Refresh fetches the catalog now and replaces the cached snapshot on success
func (c *Client) Refresh(ctx context.Context) (*domain.Catalog, error) {
	catalog, err := c.fetch(ctx)
	count := 0
	if catalog != nil {
		count = len(catalog.Products)
	}
	metrics.RecordCatalogLoad("remote", count, err)
	if err != nil {
		return nil, err
	}

	c.mu.Lock()
	c.catalog = catalog
	c.fetchedAt = time.Now()
	c.mu.Unlock()

	logging.Info().
		Str("url", c.baseURL).
		Str("version", catalog.Version).
		Int("products", len(catalog.Products)).
		Msg("Catalog fetched")
	return catalog, nil
}

// doRequest executes an HTTP GET request with proper headers and error handling
func (c *Client) doRequest(ctx context.Context, reqURL string) (*http.Response, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("User-Agent", "SpecLens/1.0")
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrCatalogUnavailable, err)
	}
	return resp, nil
}

// fetch retries transport failures, 5xx and 429 up to maxAttempts times.
// Other non-200 statuses fail immediately.
func (c *Client) fetch(ctx context.Context) (*domain.Catalog, error) {
	reqURL := c.baseURL + "/catalog"
	c.debugLog("Fetching catalog from %s", reqURL)

	var lastErr error
	for attempt := 1; attempt <= maxAttempts; attempt++ {
		if err := c.rateLimiter.Wait(ctx); err != nil {
			return nil, fmt.Errorf("%w: rate limiter: %v", domain.ErrCatalogUnavailable, err)
		}

		resp, err := c.doRequest(ctx, reqURL)
		if err != nil {
			if ctx.Err() != nil {
				return nil, err
			}
			c.debugLog("Request error (attempt %d): %v", attempt, err)
			lastErr = err
			if attempt < maxAttempts {
				if werr := c.wait(ctx, attempt); werr != nil {
					return nil, werr
				}
			}
			continue
		}

		if resp.StatusCode == http.StatusOK {
			body, err := readLimitedBody(resp.Body, maxCatalogBytes)
			resp.Body.Close()
			if err != nil {
				return nil, fmt.Errorf("%w: failed to read response: %v", domain.ErrCatalogUnavailable, err)
			}

			doc, err := Decode(body, FormatJSON)
			if err != nil {
				return nil, err
			}
			return MapToCatalog(doc, time.Now().UTC())
		}

		body, _ := readLimitedBody(resp.Body, maxErrorBodyBytes)
		resp.Body.Close()
		c.debugLog("Catalog store error (attempt %d) - Status: %d, Body: %s", attempt, resp.StatusCode, string(body))

		lastErr = fmt.Errorf("%w: status %d", domain.ErrCatalogUnavailable, resp.StatusCode)
		if !retryable(resp.StatusCode) {
			return nil, lastErr
		}
		if attempt < maxAttempts {
			if werr := c.wait(ctx, attempt); werr != nil {
				return nil, werr
			}
		}
	}

	logging.Warn().Err(lastErr).Int("attempts", maxAttempts).Msg("All catalog fetch attempts failed")
	return nil, lastErr
}

func retryable(status int) bool {
	return status == http.StatusTooManyRequests || status >= http.StatusInternalServerError
}

func (c *Client) wait(ctx context.Context, attempt int) error {
	timer := time.NewTimer(c.backoff(attempt))
	defer timer.Stop()

	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}
