package scraper

import (
	"bytes"
	"fmt"
	"hash/fnv"
	"net/url"
	"regexp"
	"strings"

	"github.com/PuerkitoBio/goquery"

	"aircraft-scraper/models"
	"aircraft-scraper/utils"
)

var nextClassRegexp = regexp.MustCompile(`(?i)next|pagination.*next`)

// ParseDocument parses a raw HTML body.
func ParseDocument(body []byte) (*goquery.Document, error) {
	doc, err := goquery.NewDocumentFromReader(bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("parse html: %w", err)
	}
	return doc, nil
}

// ResolveURL turns href into an absolute http(s) URL relative to pageURL,
// dropping any fragment. ok is false for empty, unparsable or non-web links.
func ResolveURL(pageURL, href string) (resolved string, ok bool) {
	href = strings.TrimSpace(href)
	if href == "" || strings.HasPrefix(href, "#") {
		return "", false
	}
	base, err := url.Parse(pageURL)
	if err != nil {
		return "", false
	}
	u, err := base.Parse(href)
	if err != nil {
		return "", false
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return "", false
	}
	u.Fragment = ""
	return u.String(), true
}

// FallbackID derives a stable identifier from a listing URL for pages whose
// URL carries no site-assigned id.
func FallbackID(listingURL string) string {
	h := fnv.New64a()
	h.Write([]byte(listingURL))
	return fmt.Sprintf("u%016x", h.Sum64())
}

// HasNextPageLink reports whether the document has a pagination "next" link.
func HasNextPageLink(doc *goquery.Document) bool {
	if doc.Find(`a[rel="next"], link[rel="next"]`).Length() > 0 {
		return true
	}
	found := false
	doc.Find("a[class]").EachWithBreak(func(_ int, s *goquery.Selection) bool {
		if nextClassRegexp.MatchString(s.AttrOr("class", "")) {
			found = true
		}
		return !found
	})
	return found
}

// ManufacturerFor maps the free-text query to the manufacturer name used by
// make-filtered searches. Unknown queries pass through unchanged.
func ManufacturerFor(query string) string {
	switch strings.ToLower(strings.TrimSpace(query)) {
	case "van's rv", "vans rv", "van's", "vans", "rv", "van's aircraft", "vans aircraft":
		return "Van's Aircraft"
	}
	return strings.TrimSpace(query)
}

// RefCollector accumulates listing references for one page, keeping first
// occurrence order and dropping repeats of the same listing id.
type RefCollector struct {
	site models.Site
	seen *utils.IDSet
	refs []models.ListingReference
}

// NewRefCollector creates an empty collector for site.
func NewRefCollector(site models.Site) *RefCollector {
	return &RefCollector{site: site, seen: utils.NewIDSet()}
}

// Add records a reference; it returns false if the id was already present.
func (c *RefCollector) Add(listingID, sourceURL string) bool {
	if !c.seen.Add(listingID) {
		return false
	}
	c.refs = append(c.refs, models.ListingReference{
		Site:      c.site,
		ListingID: listingID,
		SourceURL: sourceURL,
	})
	return true
}

// Refs returns the collected references.
func (c *RefCollector) Refs() []models.ListingReference {
	return c.refs
}

// Len returns the number of collected references.
func (c *RefCollector) Len() int {
	return len(c.refs)
}
