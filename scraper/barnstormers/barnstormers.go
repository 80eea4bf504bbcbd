package barnstormers

import (
	"net/url"
	"regexp"
	"strconv"
	"strings"

	"github.com/PuerkitoBio/goquery"

	"aircraft-scraper/models"
	"aircraft-scraper/scraper"
)

const (
	defaultBaseURL = "https://www.barnstormers.com"
	aircraftCat    = "1001"
)

// Detail pages look like /classified-1234567-2006-vans-rv-7a.html.
var classifiedRegexp = regexp.MustCompile(`/classified-(\d+)-`)

// resultMarkers are present on any search page, with or without hits.
const resultMarkers = `form[action*="classified_ads.php"], div.classified_single, #classifieds, .no_results, .classified_ads`

// Scraper reads Barnstormers classified search results.
type Scraper struct {
	baseURL string
}

type Option func(*Scraper)

// WithBaseURL points the scraper at another host, e.g. a test server.
func WithBaseURL(u string) Option {
	return func(s *Scraper) { s.baseURL = strings.TrimRight(u, "/") }
}

// New creates a Barnstormers scraper.
func New(opts ...Option) *Scraper {
	s := &Scraper{baseURL: defaultBaseURL}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

func (s *Scraper) Name() models.Site { return models.SiteBarnstormers }

// SearchURL builds e.g. /classified_ads.php?cat=1001&page=1&search=van%27s+rv.
func (s *Scraper) SearchURL(query string, page int) string {
	params := url.Values{
		"cat":    {aircraftCat},
		"search": {query},
		"page":   {strconv.Itoa(page)},
	}
	return s.baseURL + "/classified_ads.php?" + params.Encode()
}

// ParseSearchResults collects classified detail links. Barnstormers has no
// reliable next-page marker, so another page is requested as long as this
// one had listings.
func (s *Scraper) ParseSearchResults(pageURL string, body []byte) (scraper.SearchPage, error) {
	doc, err := scraper.ParseDocument(body)
	if err != nil {
		return scraper.SearchPage{}, err
	}

	c := scraper.NewRefCollector(models.SiteBarnstormers)

	doc.Find("a[href]").Each(func(_ int, a *goquery.Selection) {
		abs, ok := classifiedURL(pageURL, a.AttrOr("href", ""))
		if !ok {
			return
		}
		c.Add(listingID(abs, ""), abs)
	})

	doc.Find("div.classified_single[data-adid]").Each(func(_ int, div *goquery.Selection) {
		link := div.Find("a.listing_header[href]").First()
		if link.Length() == 0 {
			return
		}
		abs, ok := scraper.ResolveURL(pageURL, link.AttrOr("href", ""))
		if !ok {
			return
		}
		c.Add(listingID(abs, div.AttrOr("data-adid", "")), abs)
	})

	if c.Len() == 0 && doc.Find(resultMarkers).Length() == 0 {
		return scraper.SearchPage{}, scraper.ErrUnrecognizedMarkup
	}

	return scraper.SearchPage{Refs: c.Refs(), HasNext: c.Len() > 0}, nil
}

// classifiedURL accepts links to a classified detail page (.html under
// /classified-...).
func classifiedURL(pageURL, href string) (string, bool) {
	if !strings.Contains(href, "/classified-") {
		return "", false
	}
	abs, ok := scraper.ResolveURL(pageURL, href)
	if !ok {
		return "", false
	}
	u, err := url.Parse(abs)
	if err != nil || !strings.HasSuffix(u.Path, ".html") {
		return "", false
	}
	return abs, true
}

func listingID(abs, adID string) string {
	if m := classifiedRegexp.FindStringSubmatch(abs); m != nil {
		return m[1]
	}
	if adID = strings.TrimSpace(adID); adID != "" {
		return adID
	}
	return scraper.FallbackID(abs)
}
