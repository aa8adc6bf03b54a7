package scraper

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/cenkalti/backoff/v4"
)

const (
	// DefaultTimeout bounds every upstream request.
	DefaultTimeout = 30 * time.Second

	userAgent    = "Mozilla/5.0 (Macintosh; Intel Mac OS X 10_15_7) AppleWebKit/537.36"
	maxBodyBytes = 8 << 20
)

// NewHTTPClient builds the connection pool shared by all adapters of a batch.
// Callers release it with CloseIdleConnections when the batch ends.
func NewHTTPClient(timeout time.Duration) *http.Client {
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	return &http.Client{
		Timeout: timeout,
		Transport: &http.Transport{
			Proxy:               http.ProxyFromEnvironment,
			MaxIdleConns:        32,
			MaxIdleConnsPerHost: 4,
			IdleConnTimeout:     90 * time.Second,
			TLSHandshakeTimeout: 10 * time.Second,
		},
	}
}

// StatusError is a non-200 upstream response.
type StatusError struct {
	URL  string
	Code int
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("GET %s returned %d", e.URL, e.Code)
}

// getter performs GETs for the JSON adapters, optionally with retry.
type getter struct {
	client  *http.Client
	retries uint64
}

func newGetter(o Options) getter {
	c := o.Client
	if c == nil {
		c = NewHTTPClient(DefaultTimeout)
	}
	return getter{client: c, retries: o.Retries}
}

// get returns the body of a 200 response. Any other status is a *StatusError.
// With retries enabled, 5xx and transport errors are retried with
// exponential backoff; 4xx responses are not.
func (g getter) get(ctx context.Context, rawURL, accept string) ([]byte, error) {
	if g.retries == 0 {
		return g.once(ctx, rawURL, accept)
	}

	var body []byte
	op := func() error {
		b, err := g.once(ctx, rawURL, accept)
		if err != nil {
			var se *StatusError
			if errors.As(err, &se) && se.Code < http.StatusInternalServerError {
				return backoff.Permanent(err)
			}
			return err
		}
		body = b
		return nil
	}
	policy := backoff.WithContext(
		backoff.WithMaxRetries(backoff.NewExponentialBackOff(), g.retries),
		ctx,
	)
	if err := backoff.Retry(op, policy); err != nil {
		return nil, err
	}
	return body, nil
}

func (g getter) once(ctx context.Context, rawURL, accept string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
	if err != nil {
		return nil, fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("User-Agent", userAgent)
	req.Header.Set("Accept", accept)

	resp, err := g.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("http GET: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxBodyBytes))
	if err != nil {
		return nil, fmt.Errorf("read body: %w", err)
	}
	if resp.StatusCode != http.StatusOK {
		return nil, &StatusError{URL: rawURL, Code: resp.StatusCode}
	}
	return body, nil
}
