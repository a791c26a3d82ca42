package fetch

import (
	"fmt"

	"github.com/huangsam/digger/schema"
)

// RequestError reports a request that did not produce a successful response.
// StatusCode is zero when the request never got a response.
type RequestError struct {
	URL        string
	StatusCode int
	Err        error
}

func (e *RequestError) Error() string {
	if e.StatusCode != 0 {
		return fmt.Sprintf("request %s failed with status %d", e.URL, e.StatusCode)
	}
	return fmt.Sprintf("request %s failed: %v", e.URL, e.Err)
}

func (e *RequestError) Unwrap() error { return e.Err }

// ParseError reports a response body that could not be decoded.
type ParseError struct {
	URL    string
	Format schema.DataFormat
	Err    error
}

func (e *ParseError) Error() string {
	if e.URL == "" {
		return fmt.Sprintf("parse %s: %v", e.Format, e.Err)
	}
	return fmt.Sprintf("parse %s from %s: %v", e.Format, e.URL, e.Err)
}

func (e *ParseError) Unwrap() error { return e.Err }
