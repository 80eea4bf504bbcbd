package fetcher

import (
	"context"
	"errors"
	"fmt"
	"io"
	"time"

	"github.com/go-resty/resty/v2"
)

// MaxBodyBytes caps a single page body.
const MaxBodyBytes = 10 << 20

var ErrBodyTooLarge = errors.New("response body too large")

// HTTPFetcher performs plain GET requests with browser-like headers.
type HTTPFetcher struct {
	client  *resty.Client
	maxBody int64
}

var _ Fetcher = (*HTTPFetcher)(nil)

// NewHTTPFetcher creates an HTTPFetcher whose every request is bounded by timeout.
func NewHTTPFetcher(timeout time.Duration, userAgent string) *HTTPFetcher {
	client := resty.New()
	client.SetTimeout(timeout)
	client.SetHeader("User-Agent", userAgent)
	client.SetHeader("Accept", "text/html,application/xhtml+xml,application/xml;q=0.9,*/*;q=0.8")
	client.SetHeader("Accept-Language", "en-US,en;q=0.5")
	client.SetRedirectPolicy(resty.FlexibleRedirectPolicy(10))

	return &HTTPFetcher{client: client, maxBody: MaxBodyBytes}
}

// Fetch returns the response body. Non-2xx responses and bodies over
// MaxBodyBytes are NetworkErrors; an oversized page is never truncated.
func (f *HTTPFetcher) Fetch(ctx context.Context, url string) ([]byte, error) {
	res, err := f.client.R().
		SetContext(ctx).
		SetDoNotParseResponse(true).
		Get(url)
	if err != nil {
		return nil, &NetworkError{URL: url, Err: err}
	}
	raw := res.RawBody()
	defer raw.Close()

	if !res.IsSuccess() {
		return nil, &NetworkError{URL: url, StatusCode: res.StatusCode()}
	}

	body, err := io.ReadAll(io.LimitReader(raw, f.maxBody+1))
	if err != nil {
		return nil, &NetworkError{URL: url, Err: err}
	}
	if int64(len(body)) > f.maxBody {
		return nil, &NetworkError{URL: url, Err: fmt.Errorf("%w: over %d bytes", ErrBodyTooLarge, f.maxBody)}
	}
	return body, nil
}
