package scraper

import (
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"aircraft-scraper/models"
)

func TestResolveURL(t *testing.T) {
	const page = "https://www.example.com/search?page=1"

	tests := []struct {
		href   string
		want   string
		wantOK bool
	}{
		{"/listing/1", "https://www.example.com/listing/1", true},
		{"listing/2", "https://www.example.com/listing/2", true},
		{"https://other.example.com/x#frag", "https://other.example.com/x", true},
		{"  /trim  ", "https://www.example.com/trim", true},
		{"", "", false},
		{"#top", "", false},
		{"mailto:a@b.c", "", false},
		{"javascript:void(0)", "", false},
	}
	for _, tt := range tests {
		got, ok := ResolveURL(page, tt.href)
		assert.Equal(t, tt.wantOK, ok, "ResolveURL(%q)", tt.href)
		assert.Equal(t, tt.want, got, "ResolveURL(%q)", tt.href)
	}
}

func TestFallbackIDIsStable(t *testing.T) {
	a := FallbackID("https://www.example.com/classified-rv-4.html")
	b := FallbackID("https://www.example.com/classified-rv-4.html")
	c := FallbackID("https://www.example.com/classified-rv-6.html")

	assert.Equal(t, a, b)
	assert.NotEqual(t, a, c)
	assert.Regexp(t, `^u[0-9a-f]{16}$`, a)
}

func TestHasNextPageLink(t *testing.T) {
	tests := []struct {
		name string
		html string
		want bool
	}{
		{"class next", `<a class="btn next" href="?p=2">»</a>`, true},
		{"class pagination next", `<a class="pagination__link--next" href="?p=2">»</a>`, true},
		{"rel next", `<a rel="next" href="?p=2">2</a>`, true},
		{"head link", `<link rel="next" href="?p=2">`, true},
		{"no pager", `<a class="listing" href="/l/1">1</a>`, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			doc, err := ParseDocument([]byte("<html><head></head><body>" + tt.html + "</body></html>"))
			require.NoError(t, err)
			assert.Equal(t, tt.want, HasNextPageLink(doc))
		})
	}
}

func TestManufacturerFor(t *testing.T) {
	assert.Equal(t, "Van's Aircraft", ManufacturerFor("van's rv"))
	assert.Equal(t, "Van's Aircraft", ManufacturerFor(" Vans RV "))
	assert.Equal(t, "Piper", ManufacturerFor("Piper"))
}

func TestRefCollectorKeepsFirstOccurrence(t *testing.T) {
	c := NewRefCollector(models.SiteBarnstormers)

	assert.True(t, c.Add("1", "https://x/1"))
	assert.True(t, c.Add("2", "https://x/2"))
	assert.False(t, c.Add("1", "https://x/1?again"))

	want := []models.ListingReference{
		{Site: models.SiteBarnstormers, ListingID: "1", SourceURL: "https://x/1"},
		{Site: models.SiteBarnstormers, ListingID: "2", SourceURL: "https://x/2"},
	}
	if diff := cmp.Diff(want, c.Refs()); diff != "" {
		t.Errorf("refs mismatch (-want +got):\n%s", diff)
	}
	assert.Equal(t, 2, c.Len())
}
