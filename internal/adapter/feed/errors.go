package feed

import "fmt"

// Source names the feed a request was made against.
const (
	SourceQuakes = "earthquakes"
	SourcePlates = "plates"
)

// ErrorKind classifies a failed fetch.
type ErrorKind string

const (
	// KindFeed covers transport failures and non-200 responses.
	KindFeed ErrorKind = "feed_error"
	// KindParse covers bodies that are not the expected GeoJSON.
	KindParse ErrorKind = "parse_error"
)

// FetchError reports which feed failed and how.
type FetchError struct {
	Source string
	Kind   ErrorKind
	Err    error
}

func (e *FetchError) Error() string {
	return fmt.Sprintf("%s %s: %v", e.Source, e.Kind, e.Err)
}

func (e *FetchError) Unwrap() error {
	return e.Err
}

func feedError(source string, err error) *FetchError {
	return &FetchError{Source: source, Kind: KindFeed, Err: err}
}

func parseError(source string, err error) *FetchError {
	return &FetchError{Source: source, Kind: KindParse, Err: err}
}
