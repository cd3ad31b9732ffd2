package dataset

import "fmt"

// FetchError reports a transport-level failure obtaining the bundle.
type FetchError struct {
	URL string
	Err error
}

func (e *FetchError) Error() string {
	return fmt.Sprintf("fetch dataset from %s: %v", e.URL, e.Err)
}

func (e *FetchError) Unwrap() error { return e.Err }

// ParseError reports a malformed bundle.
type ParseError struct {
	Reason string
	Err    error
}

func (e *ParseError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("parse dataset: %s: %v", e.Reason, e.Err)
	}
	return fmt.Sprintf("parse dataset: %s", e.Reason)
}

func (e *ParseError) Unwrap() error { return e.Err }
