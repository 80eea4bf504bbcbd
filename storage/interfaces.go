package storage

import (
	"time"

	"aircraft-scraper/models"
)

// ListingStore is the interface any raw-listing storage backend must satisfy.
// Existence of a stored listing is the only record that it was captured on
// that date.
type ListingStore interface {
	Exists(site models.Site, date time.Time, listingID string) (bool, error)
	Save(site models.Site, date time.Time, listingID string, html []byte) (string, error)
}

var _ ListingStore = (*FileStore)(nil)
