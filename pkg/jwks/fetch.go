package jwks

import (
	"context"
	"io"
	"net/http"

	"github.com/joeydtaylor/steeze-edge/pkg/codec"
)

// maxDocumentBytes caps the size of a JWKS response body.
const maxDocumentBytes = 1 << 20

// Fetcher retrieves and parses the key set published at url. Failures are
// reported as *FetchError or *ParseError.
type Fetcher interface {
	Fetch(ctx context.Context, url string) (KeySet, error)
}

// FetcherFunc adapts a function to the Fetcher interface.
type FetcherFunc func(ctx context.Context, url string) (KeySet, error)

func (f FetcherFunc) Fetch(ctx context.Context, url string) (KeySet, error) { return f(ctx, url) }

// HTTPFetcher fetches key sets over HTTP(S).
type HTTPFetcher struct {
	client HTTPDoer
}

// NewHTTPFetcher returns a fetcher using c, or DefaultHTTPClient when c is nil.
func NewHTTPFetcher(c HTTPDoer) *HTTPFetcher {
	if c == nil {
		c = DefaultHTTPClient()
	}
	return &HTTPFetcher{client: c}
}

func (f *HTTPFetcher) Fetch(ctx context.Context, url string) (KeySet, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return KeySet{}, &FetchError{URL: url, Err: err}
	}
	req.Header.Set("Accept", codec.JSON.ContentType())

	res, err := f.client.Do(req)
	if err != nil {
		return KeySet{}, &FetchError{URL: url, Err: err}
	}
	defer res.Body.Close()

	if res.StatusCode < 200 || res.StatusCode > 299 {
		return KeySet{}, &FetchError{URL: url, StatusCode: res.StatusCode}
	}

	body, err := io.ReadAll(io.LimitReader(res.Body, maxDocumentBytes))
	if err != nil {
		return KeySet{}, &FetchError{URL: url, Err: err}
	}

	set, err := ParseKeySet(body)
	if err != nil {
		return KeySet{}, &ParseError{URL: url, Err: err}
	}
	return set, nil
}
