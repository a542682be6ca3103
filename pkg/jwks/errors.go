package jwks

import "fmt"

// FetchError reports a transport-level failure retrieving a key set:
// connection errors, timeouts and non-2xx responses.
type FetchError struct {
	URL        string
	StatusCode int // 0 when no response was received
	Err        error
}

func (e *FetchError) Error() string {
	if e.StatusCode != 0 {
		return fmt.Sprintf("jwks: fetch %s: status %d", e.URL, e.StatusCode)
	}
	return fmt.Sprintf("jwks: fetch %s: %v", e.URL, e.Err)
}

func (e *FetchError) Unwrap() error { return e.Err }

// ParseError reports a key-set payload that could not be decoded.
type ParseError struct {
	URL string
	Err error
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("jwks: parse %s: %v", e.URL, e.Err)
}

func (e *ParseError) Unwrap() error { return e.Err }
