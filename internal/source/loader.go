package source

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/rshade/usertable/internal/logging"
)

// DefaultURL is the public endpoint serving the user collection.
const DefaultURL = "https://jsonplaceholder.typicode.com/users"

// maxBodyBytes bounds the response body read into memory.
const maxBodyBytes = 16 << 20

// Loader fetches the full record collection.
type Loader interface {
	Load(ctx context.Context) ([]Record, error)
}

// LoaderFunc adapts a function to the Loader interface.
type LoaderFunc func(ctx context.Context) ([]Record, error)

// Load calls f(ctx).
func (f LoaderFunc) Load(ctx context.Context) ([]Record, error) {
	return f(ctx)
}

// HTTPLoader issues a single GET against a fixed URL. It never retries.
type HTTPLoader struct {
	// URL is the collection endpoint.
	URL string

	// HTTPClient performs the request. Tests swap in httptest clients.
	HTTPClient *http.Client

	// UserAgent is sent when non-empty.
	UserAgent string
}

// NewHTTPLoader creates a loader for url. A zero timeout keeps the
// transport defaults.
func NewHTTPLoader(url string, timeout time.Duration) *HTTPLoader {
	if url == "" {
		url = DefaultURL
	}
	return &HTTPLoader{
		URL:        url,
		HTTPClient: &http.Client{Timeout: timeout},
	}
}

// Load performs the GET and decodes the JSON array body.
func (l *HTTPLoader) Load(ctx context.Context) ([]Record, error) {
	log := logging.FromContext(ctx)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, l.URL, nil)
	if err != nil {
		return nil, &FetchError{URL: l.URL, Err: err}
	}
	req.Header.Set("Accept", "application/json")
	if l.UserAgent != "" {
		req.Header.Set("User-Agent", l.UserAgent)
	}

	client := l.HTTPClient
	if client == nil {
		client = http.DefaultClient
	}

	start := time.Now()
	resp, err := client.Do(req)
	if err != nil {
		log.Warn().Ctx(ctx).Err(err).Str("url", l.URL).Msg("fetch failed")
		return nil, &FetchError{URL: l.URL, Err: err}
	}
	defer resp.Body.Close()

	if resp.StatusCode < http.StatusOK || resp.StatusCode >= http.StatusMultipleChoices {
		log.Warn().Ctx(ctx).Int("status", resp.StatusCode).Str("url", l.URL).Msg("fetch returned non-success status")
		return nil, &FetchError{URL: l.URL, StatusCode: resp.StatusCode}
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxBodyBytes))
	if err != nil {
		return nil, &FetchError{URL: l.URL, StatusCode: resp.StatusCode, Err: fmt.Errorf("reading body: %w", err)}
	}

	records, err := DecodeRecords(body)
	if err != nil {
		return nil, &FetchError{URL: l.URL, StatusCode: resp.StatusCode, Err: fmt.Errorf("decoding body: %w", err)}
	}

	log.Debug().Ctx(ctx).
		Str("url", l.URL).
		Int("records", len(records)).
		Dur("elapsed", time.Since(start)).
		Msg("fetched records")

	return records, nil
}
