package fetcher

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHTTPFetcherReturnsBody(t *testing.T) {
	var gotUA string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotUA = r.Header.Get("User-Agent")
		w.Header().Set("Content-Type", "text/html; charset=utf-8")
		w.Write([]byte("<html><body>RV-8 \xe2\x9c\x88</body></html>"))
	}))
	defer server.Close()

	f := NewHTTPFetcher(time.Second, "test-agent/1.0")
	body, err := f.Fetch(context.Background(), server.URL)

	require.NoError(t, err)
	assert.Equal(t, "<html><body>RV-8 \xe2\x9c\x88</body></html>", string(body))
	assert.Equal(t, "test-agent/1.0", gotUA)
}

func TestHTTPFetcherNon2xxIsNetworkError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "gone", http.StatusNotFound)
	}))
	defer server.Close()

	f := NewHTTPFetcher(time.Second, "test-agent/1.0")
	_, err := f.Fetch(context.Background(), server.URL)

	var netErr *NetworkError
	require.True(t, errors.As(err, &netErr))
	assert.Equal(t, http.StatusNotFound, netErr.StatusCode)
	assert.False(t, netErr.Timeout())
	assert.Contains(t, err.Error(), "HTTP 404")
}

func TestHTTPFetcherRejectsOversizedBody(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("<html><body>0123456789abcdef</body></html>"))
	}))
	defer server.Close()

	f := NewHTTPFetcher(time.Second, "test-agent/1.0")
	f.maxBody = 16
	_, err := f.Fetch(context.Background(), server.URL)

	var netErr *NetworkError
	require.True(t, errors.As(err, &netErr))
	assert.ErrorIs(t, err, ErrBodyTooLarge)
	assert.Zero(t, netErr.StatusCode)
}

func TestHTTPFetcherAcceptsBodyAtLimit(t *testing.T) {
	page := "<html></html>"
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(page))
	}))
	defer server.Close()

	f := NewHTTPFetcher(time.Second, "test-agent/1.0")
	f.maxBody = int64(len(page))
	body, err := f.Fetch(context.Background(), server.URL)

	require.NoError(t, err)
	assert.Equal(t, page, string(body))
}

func TestHTTPFetcherTimeout(t *testing.T) {
	release := make(chan struct{})
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		select {
		case <-release:
		case <-r.Context().Done():
		}
	}))
	defer server.Close()
	defer close(release)

	f := NewHTTPFetcher(50*time.Millisecond, "test-agent/1.0")
	start := time.Now()
	_, err := f.Fetch(context.Background(), server.URL)

	var netErr *NetworkError
	require.True(t, errors.As(err, &netErr))
	assert.True(t, netErr.Timeout(), "got %v", err)
	assert.Less(t, time.Since(start), 2*time.Second)
}

func TestHTTPFetcherConnectionRefused(t *testing.T) {
	server := httptest.NewServer(http.NotFoundHandler())
	url := server.URL
	server.Close()

	f := NewHTTPFetcher(time.Second, "test-agent/1.0")
	_, err := f.Fetch(context.Background(), url)

	var netErr *NetworkError
	require.True(t, errors.As(err, &netErr))
	assert.Zero(t, netErr.StatusCode)
}

func TestNewBrowserFetcherUsesGivenBinary(t *testing.T) {
	missing := filepath.Join(t.TempDir(), "no-chrome")

	_, err := NewBrowserFetcher(time.Second, "test-agent/1.0", missing)
	require.Error(t, err)
	assert.Contains(t, err.Error(), missing)
}

func TestLookupChromeIgnoresEnvironment(t *testing.T) {
	t.Setenv("PATH", t.TempDir())
	t.Setenv("CHROME_BIN", "/opt/custom/chrome")

	assert.NotEqual(t, "/opt/custom/chrome", LookupChrome())
}

func TestBrowserFetcher(t *testing.T) {
	if os.Getenv("BROWSER_TESTS") == "" {
		t.Skip("set BROWSER_TESTS=1 to run against a local Chrome")
	}

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/html")
		w.Write([]byte(`<html><body><div id="x">rendered</div></body></html>`))
	}))
	defer server.Close()

	f, err := NewBrowserFetcher(10*time.Second, "test-agent/1.0", "")
	require.NoError(t, err)
	defer f.Close()

	body, err := f.Fetch(context.Background(), server.URL)
	require.NoError(t, err)
	assert.Contains(t, string(body), "rendered")
}
