package hackernews

import "fmt"

// FetchError reports a transport-level failure reaching the listing page.
type FetchError struct {
	URL        string
	StatusCode int // 0 when no response was received
	Err        error
}

func (e *FetchError) Error() string {
	if e.StatusCode != 0 {
		return fmt.Sprintf("hackernews: fetch %s: status %d", e.URL, e.StatusCode)
	}
	return fmt.Sprintf("hackernews: fetch %s: %v", e.URL, e.Err)
}

func (e *FetchError) Unwrap() error { return e.Err }

// ParseError reports a page that could not be read as HTML at all.
type ParseError struct {
	Err error
}

func (e *ParseError) Error() string { return "hackernews: parse page: " + e.Err.Error() }

func (e *ParseError) Unwrap() error { return e.Err }
