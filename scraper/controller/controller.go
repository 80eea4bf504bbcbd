package controller

import (
	"net/url"
	"regexp"
	"strconv"
	"strings"

	"github.com/PuerkitoBio/goquery"

	"aircraft-scraper/models"
	"aircraft-scraper/scraper"
)

const defaultBaseURL = "https://www.controller.com"

var (
	// Detail pages are /listings/aircraft/for-sale/<id>/<slug>; the search
	// page itself lives at /listings/aircraft/for-sale/list and never matches.
	detailRegexp = regexp.MustCompile(`/listings/(?:aircraft/)?for-sale/(\d+)(?:/|$)`)

	containerSelector = `[data-listing-id], .listing-card, .aircraft-listing`
	resultMarkers     = `#listings, .list-listing-card-wrapper, .listing-card, .search-results, .no-results, .list-no-results`
)

// Scraper reads Controller.com aircraft search results.
type Scraper struct {
	baseURL string
}

type Option func(*Scraper)

// WithBaseURL points the scraper at another host, e.g. a test server.
func WithBaseURL(u string) Option {
	return func(s *Scraper) { s.baseURL = strings.TrimRight(u, "/") }
}

// New creates a Controller scraper.
func New(opts ...Option) *Scraper {
	s := &Scraper{baseURL: defaultBaseURL}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

func (s *Scraper) Name() models.Site { return models.SiteController }

// SearchURL filters by manufacturer, e.g. Manufacturer=Van%27s+Aircraft.
func (s *Scraper) SearchURL(query string, page int) string {
	params := url.Values{
		"Manufacturer": {scraper.ManufacturerFor(query)},
		"page":         {strconv.Itoa(page)},
	}
	return s.baseURL + "/listings/aircraft/for-sale/list?" + params.Encode()
}

func (s *Scraper) ParseSearchResults(pageURL string, body []byte) (scraper.SearchPage, error) {
	doc, err := scraper.ParseDocument(body)
	if err != nil {
		return scraper.SearchPage{}, err
	}

	c := scraper.NewRefCollector(models.SiteController)

	doc.Find("a[href]").Each(func(_ int, a *goquery.Selection) {
		abs, ok := scraper.ResolveURL(pageURL, a.AttrOr("href", ""))
		if !ok {
			return
		}
		if id := idFromURL(abs); id != "" {
			c.Add(id, abs)
		}
	})

	doc.Find(containerSelector).Each(func(_ int, card *goquery.Selection) {
		link := card.Find(`a[href*="/listings/"]`).First()
		if link.Length() == 0 {
			return
		}
		abs, ok := scraper.ResolveURL(pageURL, link.AttrOr("href", ""))
		if !ok || strings.Contains(abs, "/list?") || strings.Contains(abs, "/list/") {
			return
		}
		id := idFromURL(abs)
		if id == "" {
			id = strings.TrimSpace(card.AttrOr("data-listing-id", ""))
		}
		if id == "" {
			id = scraper.FallbackID(abs)
		}
		c.Add(id, abs)
	})

	if c.Len() == 0 && doc.Find(resultMarkers).Length() == 0 {
		return scraper.SearchPage{}, scraper.ErrUnrecognizedMarkup
	}

	return scraper.SearchPage{Refs: c.Refs(), HasNext: scraper.HasNextPageLink(doc)}, nil
}

func idFromURL(abs string) string {
	u, err := url.Parse(abs)
	if err != nil {
		return ""
	}
	if m := detailRegexp.FindStringSubmatch(u.Path); m != nil {
		return m[1]
	}
	return ""
}
