package fetcher

import (
	"context"
	"fmt"
	"os/exec"
	"time"

	"github.com/chromedp/chromedp"
)

// BrowserFetcher renders pages in headless Chrome. It is slower than
// HTTPFetcher but gets past sites that refuse non-browser clients.
type BrowserFetcher struct {
	timeout     time.Duration
	browserCtx  context.Context
	cancelAlloc context.CancelFunc
	cancel      context.CancelFunc
}

var _ Fetcher = (*BrowserFetcher)(nil)

// NewBrowserFetcher starts a shared headless browser. An empty chromeBin
// falls back to LookupChrome.
func NewBrowserFetcher(timeout time.Duration, userAgent, chromeBin string) (*BrowserFetcher, error) {
	if chromeBin == "" {
		chromeBin = LookupChrome()
	}
	if chromeBin == "" {
		return nil, fmt.Errorf("browser: no Chrome/Chromium binary found (set CHROME_BIN)")
	}

	opts := append(chromedp.DefaultExecAllocatorOptions[:],
		chromedp.Flag("headless", true),
		chromedp.Flag("disable-gpu", true),
		chromedp.Flag("no-sandbox", true),
		chromedp.Flag("disable-dev-shm-usage", true),
		chromedp.UserAgent(userAgent),
		chromedp.ExecPath(chromeBin),
	)

	allocCtx, cancelAlloc := chromedp.NewExecAllocator(context.Background(), opts...)
	browserCtx, cancel := chromedp.NewContext(allocCtx, chromedp.WithLogf(func(string, ...interface{}) {}))

	// Start the browser now so a broken install fails at startup.
	if err := chromedp.Run(browserCtx); err != nil {
		cancel()
		cancelAlloc()
		return nil, fmt.Errorf("browser: start %s: %w", chromeBin, err)
	}

	return &BrowserFetcher{
		timeout:     timeout,
		browserCtx:  browserCtx,
		cancelAlloc: cancelAlloc,
		cancel:      cancel,
	}, nil
}

// Fetch loads url in a fresh tab and returns the rendered document.
func (f *BrowserFetcher) Fetch(ctx context.Context, url string) ([]byte, error) {
	tabCtx, cancelTab := chromedp.NewContext(f.browserCtx)
	defer cancelTab()

	tabCtx, cancelTimeout := context.WithTimeout(tabCtx, f.timeout)
	defer cancelTimeout()

	stop := context.AfterFunc(ctx, cancelTab)
	defer stop()

	resp, err := chromedp.RunResponse(tabCtx, chromedp.Navigate(url))
	if err != nil {
		return nil, &NetworkError{URL: url, Err: err}
	}
	if resp != nil && (resp.Status < 200 || resp.Status > 299) {
		return nil, &NetworkError{URL: url, StatusCode: int(resp.Status)}
	}

	var html string
	if err := chromedp.Run(tabCtx, chromedp.OuterHTML("html", &html, chromedp.ByQuery)); err != nil {
		return nil, &NetworkError{URL: url, Err: err}
	}
	return []byte(html), nil
}

// Close shuts the browser down.
func (f *BrowserFetcher) Close() error {
	f.cancel()
	f.cancelAlloc()
	return nil
}

// chromeCandidates are tried in order when no binary is configured.
var chromeCandidates = []string{
	"google-chrome-stable",
	"google-chrome",
	"chromium",
	"chromium-browser",
	"/snap/bin/chromium",
	"/opt/google/chrome/google-chrome",
	"/Applications/Google Chrome.app/Contents/MacOS/Google Chrome",
}

// LookupChrome returns the first Chrome/Chromium found on PATH or at a
// well-known install location, or "" if there is none.
func LookupChrome() string {
	for _, c := range chromeCandidates {
		if path, err := exec.LookPath(c); err == nil {
			return path
		}
	}
	return ""
}
