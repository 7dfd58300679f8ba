package source

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net"
	"net/http"
	"time"

	"github.com/c360studio/semstreams/pkg/retry"
)

// FetchResult contains the result of fetching an online vocabulary.
type FetchResult struct {
	Body         []byte
	ContentType  string
	LastModified time.Time
	StatusCode   int
}

// StatusError is returned for non-200 responses.
type StatusError struct {
	Code int
	URL  string
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("HTTP %d: %s (fetching [%s])", e.Code, http.StatusText(e.Code), e.URL)
}

// Fetcher fetches vocabularies over HTTP with content negotiation.
type Fetcher struct {
	client         *http.Client
	userAgent      string
	maxContentSize int64
}

// NewFetcher creates a new vocabulary fetcher.
func NewFetcher(timeout time.Duration, userAgent string, maxContentSize int64) *Fetcher {
	dialer := &net.Dialer{
		Timeout:   10 * time.Second,
		KeepAlive: 30 * time.Second,
	}

	transport := &http.Transport{
		Proxy:                 http.ProxyFromEnvironment,
		DialContext:           dialer.DialContext,
		TLSHandshakeTimeout:   10 * time.Second,
		ResponseHeaderTimeout: timeout,
		MaxIdleConns:          10,
		IdleConnTimeout:       90 * time.Second,
	}

	return &Fetcher{
		client: &http.Client{
			Transport: transport,
			Timeout:   timeout,
			CheckRedirect: func(req *http.Request, via []*http.Request) error {
				if len(via) >= 10 {
					return fmt.Errorf("too many redirects (max 10)")
				}
				return nil
			},
		},
		userAgent:      userAgent,
		maxContentSize: maxContentSize,
	}
}

// Fetch retrieves urlStr with the given Accept header. Client errors (4xx)
// are marked non-retryable; server and network errors are left retryable.
func (f *Fetcher) Fetch(ctx context.Context, urlStr, accept string) (*FetchResult, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, urlStr, nil)
	if err != nil {
		return nil, retry.NonRetryable(fmt.Errorf("create request: %w", err))
	}

	req.Header.Set("User-Agent", f.userAgent)
	req.Header.Set("Accept", accept)

	resp, err := f.client.Do(req)
	if err != nil {
		if errors.Is(err, context.Canceled) {
			return nil, retry.NonRetryable(fmt.Errorf("fetch: %w", err))
		}
		return nil, fmt.Errorf("fetch: %w", err)
	}
	defer resp.Body.Close()

	result := &FetchResult{
		ContentType:  resp.Header.Get("Content-Type"),
		StatusCode:   resp.StatusCode,
		LastModified: parseLastModified(resp.Header.Get("Last-Modified")),
	}

	if resp.StatusCode != http.StatusOK {
		statusErr := &StatusError{Code: resp.StatusCode, URL: urlStr}
		if resp.StatusCode >= 400 && resp.StatusCode < 500 {
			return nil, retry.NonRetryable(statusErr)
		}
		return nil, statusErr
	}

	// Read body with size limit
	limitReader := io.LimitReader(resp.Body, f.maxContentSize+1)
	body, err := io.ReadAll(limitReader)
	if err != nil {
		return nil, fmt.Errorf("read body: %w", err)
	}

	if int64(len(body)) > f.maxContentSize {
		return nil, retry.NonRetryable(fmt.Errorf("content too large (exceeds %d bytes)", f.maxContentSize))
	}

	result.Body = body
	return result, nil
}

// LastModified asks the server when urlStr last changed. The body is not
// read. Error responses fail with a StatusError.
func (f *Fetcher) LastModified(ctx context.Context, urlStr string) (time.Time, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, urlStr, nil)
	if err != nil {
		return time.Time{}, fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("User-Agent", f.userAgent)

	resp, err := f.client.Do(req)
	if err != nil {
		return time.Time{}, fmt.Errorf("fetch: %w", err)
	}
	resp.Body.Close()
	if resp.StatusCode >= 400 {
		return time.Time{}, &StatusError{Code: resp.StatusCode, URL: urlStr}
	}
	return parseLastModified(resp.Header.Get("Last-Modified")), nil
}

// parseLastModified returns DefaultModificationDate for missing or
// unparsable headers.
func parseLastModified(header string) time.Time {
	if header == "" {
		return DefaultModificationDate
	}
	t, err := http.ParseTime(header)
	if err != nil {
		return DefaultModificationDate
	}
	return t
}
