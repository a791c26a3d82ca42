// Package fetch retrieves remote or local datasets and decodes them as JSON or CSV.
package fetch

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"strings"
	"time"

	"github.com/huangsam/digger/internal/contract"
	"github.com/huangsam/digger/internal/logger"
	"github.com/huangsam/digger/schema"
)

// userAgent identifies digger to dataset servers.
const userAgent = "digger"

// Client performs single GET requests with a fixed timeout.
// Locations without an http or https scheme are read from disk.
type Client struct {
	http *http.Client
}

var _ contract.Fetcher = &Client{} // Compile-time check

// NewClient returns a Client whose requests give up after timeout.
func NewClient(timeout time.Duration) *Client {
	return &Client{http: &http.Client{Timeout: timeout}}
}

// IsRemote reports whether location is fetched over HTTP.
func IsRemote(location string) bool {
	return strings.HasPrefix(location, "http://") || strings.HasPrefix(location, "https://")
}

// Fetch returns the body behind location. It issues exactly one request and never retries.
func (c *Client) Fetch(ctx context.Context, location string) ([]byte, error) {
	if !IsRemote(location) {
		path := strings.TrimPrefix(location, "file://")
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, &RequestError{URL: location, Err: err}
		}
		return data, nil
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, location, nil)
	if err != nil {
		return nil, &RequestError{URL: location, Err: err}
	}
	req.Header.Set("User-Agent", userAgent)

	start := time.Now()
	resp, err := c.http.Do(req)
	if err != nil {
		return nil, &RequestError{URL: location, Err: err}
	}
	defer func() { _ = resp.Body.Close() }()

	logger.WithField("url", location).
		WithField("status", resp.StatusCode).
		WithField("elapsed", time.Since(start).Round(time.Millisecond)).
		Debug("fetched")

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		_, _ = io.Copy(io.Discard, resp.Body)
		return nil, &RequestError{URL: location, StatusCode: resp.StatusCode}
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, &RequestError{URL: location, Err: fmt.Errorf("read body: %w", err)}
	}
	return body, nil
}

// Fetch retrieves location and decodes it in the given format.
// JSON yields the decoded value; CSV yields []schema.Record.
func Fetch(ctx context.Context, f contract.Fetcher, location string, format schema.DataFormat) (any, error) {
	if _, ok := schema.ValidDataFormats[format]; !ok {
		return nil, fmt.Errorf("unsupported data format %q", format)
	}
	body, err := f.Fetch(ctx, location)
	if err != nil {
		return nil, err
	}
	result, err := Parse(body, format)
	return result, rejectBody(f, location, err)
}

// FetchJSON retrieves location and decodes its JSON body into T.
func FetchJSON[T any](ctx context.Context, f contract.Fetcher, location string) (T, error) {
	var out T
	body, err := f.Fetch(ctx, location)
	if err != nil {
		return out, err
	}
	if err := DecodeJSON(body, &out); err != nil {
		return out, rejectBody(f, location, err)
	}
	return out, nil
}

// FetchCSV retrieves location and parses its CSV body into header-keyed records.
func FetchCSV(ctx context.Context, f contract.Fetcher, location string) ([]schema.Record, error) {
	body, err := f.Fetch(ctx, location)
	if err != nil {
		return nil, err
	}
	records, err := ParseCSV(body)
	if err != nil {
		return nil, rejectBody(f, location, err)
	}
	return records, nil
}

// rejectBody attaches location to a ParseError and evicts the body from
// f when f caches, so a bad response is refetched next time.
func rejectBody(f contract.Fetcher, location string, err error) error {
	var pe *ParseError
	if !errors.As(err, &pe) {
		return err
	}
	if pe.URL == "" {
		pe.URL = location
	}
	if e, ok := f.(contract.Evicter); ok {
		e.Evict(location)
	}
	return err
}
