package tradeaplane

import (
	"net/url"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"aircraft-scraper/models"
	"aircraft-scraper/scraper"
)

const searchPage = `<html><body>
<div id="search-results">
  <div class="result_listing" data-listing-id="2451234">
    <a class="log_listing_click" href="/search?category_level=1&listing_id=2451234&s-type=aircraft">2012 VANS RV-7</a>
  </div>
  <div class="result_listing">
    <a href="/aircraft/2449876/vans-rv-9a">2015 VANS RV-9A</a>
  </div>
  <div class="aircraft-listing" data-listing-id="2440001">
    <a href="/for-sale/rv-14-kit">RV-14 kit</a>
  </div>
  <a href="/aircraft/">All aircraft</a>
  <a href="/listing/2451234">duplicate of the first</a>
  <a href="https://ads.example.com/listing/999">sponsored</a>
</div>
<div class="pagination"><a class="next_page" href="/search?page=2">Next</a></div>
</body></html>`

func TestSearchURL(t *testing.T) {
	s := New()
	got, err := url.Parse(s.SearchURL("van's rv", 3))
	require.NoError(t, err)

	assert.Equal(t, "www.trade-a-plane.com", got.Host)
	assert.Equal(t, "/search", got.Path)
	q := got.Query()
	assert.Equal(t, "1", q.Get("category_level"))
	assert.Equal(t, "aircraft", q.Get("category"))
	assert.Equal(t, "van's aircraft", q.Get("make"))
	assert.Equal(t, "3", q.Get("page"))
}

func TestSearchURLPassesUnknownQueryThrough(t *testing.T) {
	got, err := url.Parse(New().SearchURL("Piper", 1))
	require.NoError(t, err)
	assert.Equal(t, "piper", got.Query().Get("make"))
}

func TestParseSearchResults(t *testing.T) {
	s := New()
	page, err := s.ParseSearchResults(s.SearchURL("van's rv", 1), []byte(searchPage))
	require.NoError(t, err)

	want := []models.ListingReference{
		{Site: models.SiteTradeAPlane, ListingID: "2451234", SourceURL: "https://www.trade-a-plane.com/search?category_level=1&listing_id=2451234&s-type=aircraft"},
		{Site: models.SiteTradeAPlane, ListingID: "2449876", SourceURL: "https://www.trade-a-plane.com/aircraft/2449876/vans-rv-9a"},
		{Site: models.SiteTradeAPlane, ListingID: "2440001", SourceURL: "https://www.trade-a-plane.com/for-sale/rv-14-kit"},
	}
	assert.Equal(t, want, page.Refs)
	assert.True(t, page.HasNext)
}

func TestParseSearchResultsLastPage(t *testing.T) {
	s := New()
	body := `<html><body><div id="search-results"><a href="/listing/77">RV-6</a></div></body></html>`

	page, err := s.ParseSearchResults(s.SearchURL("rv", 4), []byte(body))
	require.NoError(t, err)
	assert.Len(t, page.Refs, 1)
	assert.False(t, page.HasNext)
}

func TestParseSearchResultsNoHits(t *testing.T) {
	s := New()
	body := `<html><body><div class="no-results">Your search returned no results</div></body></html>`

	page, err := s.ParseSearchResults(s.SearchURL("rv", 1), []byte(body))
	require.NoError(t, err)
	assert.Empty(t, page.Refs)
}

func TestParseSearchResultsUnrecognizedMarkup(t *testing.T) {
	s := New()
	body := `<html><body><div class="captcha">Please verify you are human</div></body></html>`

	_, err := s.ParseSearchResults(s.SearchURL("rv", 1), []byte(body))
	assert.ErrorIs(t, err, scraper.ErrUnrecognizedMarkup)
}
