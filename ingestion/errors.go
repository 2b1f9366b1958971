package ingestion

import "fmt"

// FetchError indicates the HTTP request for a feed document failed or
// returned a non-2xx status. Terminal for that feed's import attempt only.
type FetchError struct {
	URL string
	Err error
}

func (e *FetchError) Error() string {
	return fmt.Sprintf("failed to fetch feed %s: %v", e.URL, e.Err)
}

func (e *FetchError) Unwrap() error {
	return e.Err
}

// ParseError indicates the response body was not well-formed RSS/Atom XML.
// Terminal for that feed's import attempt only.
type ParseError struct {
	URL string
	Err error
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("failed to parse feed %s: %v", e.URL, e.Err)
}

func (e *ParseError) Unwrap() error {
	return e.Err
}
