package barnstormers

import (
	"net/url"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"aircraft-scraper/models"
	"aircraft-scraper/scraper"
)

const searchPage = `<html><body>
<form action="/classified_ads.php" method="get"><input name="search"></form>
<div id="classifieds">
  <div class="classified_single" data-adid="1874512">
    <a class="listing_header" href="/classified-1874512-2008-vans-rv-7a.html">2008 VANS RV-7A</a>
    <a href="/classified-1874512-2008-vans-rv-7a.html"><img src="/img/1.jpg"></a>
  </div>
  <div class="classified_single" data-adid="1880001">
    <a class="listing_header" href="https://www.barnstormers.com/classified-1880001-vans-rv-10.html#photos">VANS RV-10</a>
  </div>
  <div class="classified_single" data-adid="1890000">
    <a class="listing_header" href="/ad.php?id=1890000">RV-12 project</a>
  </div>
  <a href="/classified-category.php">categories</a>
  <a href="/classified-1874999-title.pdf">brochure</a>
  <a href="mailto:sales@example.com">mail</a>
</div>
</body></html>`

func TestSearchURL(t *testing.T) {
	s := New()
	got, err := url.Parse(s.SearchURL("van's rv", 2))
	require.NoError(t, err)

	assert.Equal(t, "www.barnstormers.com", got.Host)
	assert.Equal(t, "/classified_ads.php", got.Path)
	assert.Equal(t, "1001", got.Query().Get("cat"))
	assert.Equal(t, "van's rv", got.Query().Get("search"))
	assert.Equal(t, "2", got.Query().Get("page"))
}

func TestWithBaseURL(t *testing.T) {
	s := New(WithBaseURL("http://127.0.0.1:9999/"))
	assert.Contains(t, s.SearchURL("rv", 1), "http://127.0.0.1:9999/classified_ads.php?")
}

func TestParseSearchResults(t *testing.T) {
	s := New()
	pageURL := s.SearchURL("van's rv", 1)

	page, err := s.ParseSearchResults(pageURL, []byte(searchPage))
	require.NoError(t, err)

	want := []models.ListingReference{
		{Site: models.SiteBarnstormers, ListingID: "1874512", SourceURL: "https://www.barnstormers.com/classified-1874512-2008-vans-rv-7a.html"},
		{Site: models.SiteBarnstormers, ListingID: "1880001", SourceURL: "https://www.barnstormers.com/classified-1880001-vans-rv-10.html"},
		{Site: models.SiteBarnstormers, ListingID: "1890000", SourceURL: "https://www.barnstormers.com/ad.php?id=1890000"},
	}
	assert.Equal(t, want, page.Refs)
	assert.True(t, page.HasNext)
}

func TestParseSearchResultsFallbackID(t *testing.T) {
	s := New()
	body := `<html><body><a href="/classified-vans-rv-4.html">RV-4</a></body></html>`

	page, err := s.ParseSearchResults(s.SearchURL("rv", 1), []byte(body))
	require.NoError(t, err)
	require.Len(t, page.Refs, 1)

	abs := "https://www.barnstormers.com/classified-vans-rv-4.html"
	assert.Equal(t, scraper.FallbackID(abs), page.Refs[0].ListingID)
}

func TestParseSearchResultsNoHits(t *testing.T) {
	s := New()
	body := `<html><body><form action="/classified_ads.php"></form><div class="no_results">No ads found</div></body></html>`

	page, err := s.ParseSearchResults(s.SearchURL("rv", 1), []byte(body))
	require.NoError(t, err)
	assert.Empty(t, page.Refs)
	assert.False(t, page.HasNext)
}

func TestParseSearchResultsUnrecognizedMarkup(t *testing.T) {
	s := New()
	body := `<html><body><h1>Access denied</h1></body></html>`

	_, err := s.ParseSearchResults(s.SearchURL("rv", 1), []byte(body))
	assert.ErrorIs(t, err, scraper.ErrUnrecognizedMarkup)
}
