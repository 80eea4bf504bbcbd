// Package fetcher retrieves raw page bodies from the target sites, either
// with a plain HTTP client or through headless Chrome.
package fetcher

import (
	"context"
	"errors"
	"fmt"
	"net"
)

// Fetcher returns the raw body of a page. Every implementation bounds each
// call by its configured timeout.
type Fetcher interface {
	Fetch(ctx context.Context, url string) ([]byte, error)
}

// NetworkError reports a timeout, a connection failure or a non-2xx status.
// StatusCode is zero when no response was received.
type NetworkError struct {
	URL        string
	StatusCode int
	Err        error
}

func (e *NetworkError) Error() string {
	if e.StatusCode != 0 {
		return fmt.Sprintf("fetch %s: HTTP %d", e.URL, e.StatusCode)
	}
	return fmt.Sprintf("fetch %s: %v", e.URL, e.Err)
}

func (e *NetworkError) Unwrap() error { return e.Err }

// Timeout reports whether the request ran out of time.
func (e *NetworkError) Timeout() bool {
	if errors.Is(e.Err, context.DeadlineExceeded) {
		return true
	}
	var netErr net.Error
	return errors.As(e.Err, &netErr) && netErr.Timeout()
}
