// Package fetcher downloads the source page with retries for temporary
// failures.
package fetcher

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net"
	"net/http"
	"net/url"
	"time"

	"warstats/internal/limiter"
)

const (
	baseRetryDelay = 100 * time.Millisecond
	maxRetryDelay  = 2 * time.Second
)

var errInvalidRequest = errors.New("invalid request")

// Fetcher performs GET requests with retries and optional pacing.
type Fetcher struct {
	client    *http.Client
	timeout   time.Duration
	userAgent string
	limiter   *limiter.Limiter
	retries   int
	clock     limiter.Timer
}

// New creates a Fetcher. Retries is the number of retries after the first
// attempt; a nil limiter disables pacing.
func New(
	client *http.Client,
	timeout time.Duration,
	userAgent string,
	lim *limiter.Limiter,
	retries int,
	clock limiter.Timer,
) *Fetcher {
	if retries < 0 {
		retries = 0
	}

	return &Fetcher{
		client:    client,
		timeout:   timeout,
		userAgent: userAgent,
		limiter:   lim,
		retries:   retries,
		clock:     clock,
	}
}

// Fetch GETs rawURL and returns the response body. Temporary failures
// (network errors, 429, 5xx) are retried with capped exponential backoff;
// any final status of 400 or above is an error.
func (f *Fetcher) Fetch(ctx context.Context, rawURL string) ([]byte, error) {
	attempts := f.retries + 1

	var lastErr error
	for attempt := 0; attempt < attempts; attempt++ {
		if err := f.limiter.Wait(ctx); err != nil {
			return nil, err
		}

		body, status, err := f.fetchOnce(ctx, rawURL)
		if err == nil && status < http.StatusBadRequest {
			return body, nil
		}

		lastErr = errorForStatus(err, status)

		if !isRetryable(status, err) || attempt == attempts-1 {
			return nil, lastErr
		}

		if err := f.clock.Sleep(ctx, retryDelayFor(attempt+1)); err != nil {
			return nil, err
		}
	}

	return nil, lastErr
}

func (f *Fetcher) fetchOnce(ctx context.Context, rawURL string) ([]byte, int, error) {
	requestCtx := ctx
	if f.timeout > 0 {
		var cancel context.CancelFunc
		requestCtx, cancel = context.WithTimeout(ctx, f.timeout)
		defer cancel()
	}

	request, err := http.NewRequestWithContext(requestCtx, http.MethodGet, rawURL, nil)
	if err != nil {
		return nil, 0, fmt.Errorf("%w: %v", errInvalidRequest, err)
	}

	if f.userAgent != "" {
		request.Header.Set("User-Agent", f.userAgent)
	}

	response, err := f.client.Do(request)
	if err != nil {
		return nil, 0, err
	}
	defer func() {
		_ = response.Body.Close()
	}()

	body, err := io.ReadAll(response.Body)
	if err != nil {
		return nil, response.StatusCode, fmt.Errorf("read body: %w", err)
	}

	return body, response.StatusCode, nil
}

func isRetryable(statusCode int, err error) bool {
	if err != nil {
		return isRetryableError(err)
	}

	if statusCode == http.StatusTooManyRequests {
		return true
	}

	return statusCode >= http.StatusInternalServerError
}

func isRetryableError(err error) bool {
	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return false
	}

	if errors.Is(err, errInvalidRequest) {
		return false
	}

	if errors.Is(err, io.EOF) || errors.Is(err, io.ErrUnexpectedEOF) {
		return true
	}

	var urlErr *url.Error
	if errors.As(err, &urlErr) {
		return isRetryableError(urlErr.Err)
	}

	var netErr net.Error
	return errors.As(err, &netErr)
}

func errorForStatus(err error, statusCode int) error {
	if err != nil {
		return err
	}

	if statusCode >= http.StatusBadRequest {
		return errors.New(statusText(statusCode))
	}

	return nil
}

func statusText(statusCode int) string {
	text := http.StatusText(statusCode)
	if text == "" {
		return fmt.Sprintf("http status %d", statusCode)
	}

	return text
}

func retryDelayFor(attempt int) time.Duration {
	delay := baseRetryDelay
	for i := 1; i < attempt; i++ {
		if delay >= maxRetryDelay {
			return maxRetryDelay
		}

		delay *= 2
	}

	if delay > maxRetryDelay {
		return maxRetryDelay
	}

	return delay
}
