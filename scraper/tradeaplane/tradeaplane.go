package tradeaplane

import (
	"net/url"
	"regexp"
	"strconv"
	"strings"

	"github.com/PuerkitoBio/goquery"

	"aircraft-scraper/models"
	"aircraft-scraper/scraper"
)

const defaultBaseURL = "https://www.trade-a-plane.com"

var (
	// Detail pages are /listing/<id>, /aircraft/<id>/... or carry ?listing_id=<id>.
	pathIDRegexp = regexp.MustCompile(`/(?:listing|aircraft)/(\d+)`)

	containerSelector = `[data-listing-id], .listing-item, .aircraft-listing`
	resultMarkers     = `#search-results, .search-results, .result_listing, .no-results, .no_results, form[action*="/search"]`
)

// Scraper reads Trade-A-Plane aircraft search results.
type Scraper struct {
	baseURL string
}

type Option func(*Scraper)

// WithBaseURL points the scraper at another host, e.g. a test server.
func WithBaseURL(u string) Option {
	return func(s *Scraper) { s.baseURL = strings.TrimRight(u, "/") }
}

// New creates a Trade-A-Plane scraper.
func New(opts ...Option) *Scraper {
	s := &Scraper{baseURL: defaultBaseURL}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

func (s *Scraper) Name() models.Site { return models.SiteTradeAPlane }

// SearchURL filters by make rather than free text; Trade-A-Plane expects the
// make in lower case ("van's aircraft").
func (s *Scraper) SearchURL(query string, page int) string {
	params := url.Values{
		"category_level": {"1"},
		"category":       {"aircraft"},
		"make":           {strings.ToLower(scraper.ManufacturerFor(query))},
		"page":           {strconv.Itoa(page)},
	}
	return s.baseURL + "/search?" + params.Encode()
}

func (s *Scraper) ParseSearchResults(pageURL string, body []byte) (scraper.SearchPage, error) {
	doc, err := scraper.ParseDocument(body)
	if err != nil {
		return scraper.SearchPage{}, err
	}

	base, err := url.Parse(pageURL)
	if err != nil {
		return scraper.SearchPage{}, err
	}

	c := scraper.NewRefCollector(models.SiteTradeAPlane)

	doc.Find("a[href]").Each(func(_ int, a *goquery.Selection) {
		abs, ok := sameSiteURL(base, a.AttrOr("href", ""))
		if !ok {
			return
		}
		if id := idFromURL(abs); id != "" {
			c.Add(id, abs)
		}
	})

	doc.Find(containerSelector).Each(func(_ int, item *goquery.Selection) {
		link := item.Find("a[href]").First()
		if link.Length() == 0 {
			return
		}
		abs, ok := sameSiteURL(base, link.AttrOr("href", ""))
		if !ok {
			return
		}
		id := idFromURL(abs)
		if id == "" {
			id = strings.TrimSpace(item.AttrOr("data-listing-id", ""))
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

func sameSiteURL(base *url.URL, href string) (string, bool) {
	abs, ok := scraper.ResolveURL(base.String(), href)
	if !ok {
		return "", false
	}
	u, err := url.Parse(abs)
	if err != nil || !strings.EqualFold(u.Host, base.Host) {
		return "", false
	}
	return abs, true
}

func idFromURL(abs string) string {
	u, err := url.Parse(abs)
	if err != nil {
		return ""
	}
	if m := pathIDRegexp.FindStringSubmatch(u.Path); m != nil {
		return m[1]
	}
	if id := u.Query().Get("listing_id"); id != "" {
		if _, err := strconv.ParseUint(id, 10, 64); err == nil {
			return id
		}
	}
	return ""
}
