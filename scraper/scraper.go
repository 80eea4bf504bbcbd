package scraper

import (
	"context"
	"errors"

	"aircraft-scraper/models"
)

// ErrUnrecognizedMarkup means a search page carried neither listings nor any
// of the site's known result or empty-state markers. Usually the site changed
// its layout; it is reported apart from a genuine "no listings today".
var ErrUnrecognizedMarkup = errors.New("search results markup not recognised")

// Site is the per-site part of a scraper: how to ask for search results and
// how to read listing references out of them. Everything else is shared and
// lives in Runner.
type Site interface {
	Name() models.Site

	// SearchURL returns the URL of the given 1-based results page for query.
	SearchURL(query string, page int) string

	// ParseSearchResults extracts listing references, in the site's own
	// order, from a search results page fetched from pageURL.
	ParseSearchResults(pageURL string, body []byte) (SearchPage, error)
}

// SearchPage is what one search results page yields.
type SearchPage struct {
	Refs    []models.ListingReference
	HasNext bool
}

// Fetcher is the consumer-side view of the page fetcher.
type Fetcher interface {
	Fetch(ctx context.Context, url string) ([]byte, error)
}
