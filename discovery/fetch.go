package discovery

import (
	"context"
	"fmt"
	"io"
	"log"
	"net/http"
	"time"
)

// Defaults for PageFetcher.
const (
	DefaultRetries      = 3
	DefaultRetryDelay   = 1 * time.Second
	DefaultFetchTimeout = 10 * time.Second
	DefaultUserAgent    = "catalogsnap/1.0 (catalog listing snapshot)"
)

// PageFetcher retrieves the markup of one listing page, retrying failed
// attempts after a fixed delay.
type PageFetcher struct {
	client     *http.Client
	retryDelay time.Duration
	userAgent  string
	logger     *log.Logger
	sleep      func(time.Duration)
}

// FetcherOption customizes a PageFetcher.
type FetcherOption func(*PageFetcher)

// WithHTTPClient replaces the default HTTP client.
func WithHTTPClient(client *http.Client) FetcherOption {
	return func(f *PageFetcher) { f.client = client }
}

// WithRetryDelay sets the pause between attempts.
func WithRetryDelay(d time.Duration) FetcherOption {
	return func(f *PageFetcher) { f.retryDelay = d }
}

// WithUserAgent sets the User-Agent header sent with each request.
func WithUserAgent(ua string) FetcherOption {
	return func(f *PageFetcher) { f.userAgent = ua }
}

// WithLogger sets the logger used for attempt failures.
func WithLogger(logger *log.Logger) FetcherOption {
	return func(f *PageFetcher) { f.logger = logger }
}

// WithSleeper replaces time.Sleep, mostly for tests.
func WithSleeper(sleep func(time.Duration)) FetcherOption {
	return func(f *PageFetcher) { f.sleep = sleep }
}

// NewPageFetcher creates a fetcher with a 10 second client timeout and a one
// second retry delay unless overridden.
func NewPageFetcher(opts ...FetcherOption) *PageFetcher {
	f := &PageFetcher{
		client: &http.Client{
			Timeout: DefaultFetchTimeout,
		},
		retryDelay: DefaultRetryDelay,
		userAgent:  DefaultUserAgent,
		logger:     log.Default(),
		sleep:      time.Sleep,
	}
	for _, opt := range opts {
		opt(f)
	}
	return f
}

// Fetch issues up to maxRetries GET requests for url and returns the body of
// the first 200 response. Non-200 responses and transport errors are treated
// the same way: logged, then retried after the delay. The second return value
// is false when every attempt failed or ctx was cancelled; a cancelled ctx
// ends the loop without further attempts or delays.
func (f *PageFetcher) Fetch(ctx context.Context, url string, maxRetries int) (string, bool) {
	if maxRetries < 1 {
		maxRetries = 1
	}

	for attempt := 1; attempt <= maxRetries; attempt++ {
		if ctx.Err() != nil {
			return "", false
		}

		body, err := f.get(ctx, url)
		if err == nil {
			return body, true
		}
		if ctx.Err() != nil {
			return "", false
		}

		f.logger.Printf("WARN: Error loading page: %v. Attempt %d of %d.", err, attempt, maxRetries)

		// No pause after the final attempt
		if attempt < maxRetries {
			f.sleep(f.retryDelay)
		}
	}

	return "", false
}

// get performs a single attempt.
func (f *PageFetcher) get(ctx context.Context, url string) (string, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return "", fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("User-Agent", f.userAgent)
	req.Header.Set("Accept", "text/html,application/xhtml+xml,application/xml;q=0.9,*/*;q=0.8")

	resp, err := f.client.Do(req)
	if err != nil {
		return "", fmt.Errorf("failed to fetch URL: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("HTTP error: %d", resp.StatusCode)
	}

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("failed to read body: %w", err)
	}

	return string(data), nil
}
