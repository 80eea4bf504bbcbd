package scraper

import (
	"context"
	"errors"
	"fmt"
	"time"

	"aircraft-scraper/models"
	"aircraft-scraper/storage"
	"aircraft-scraper/utils"
)

const markupWarning = "search page markup not recognised; the site layout may have changed"

// RunnerOptions tunes the shared site workflow.
type RunnerOptions struct {
	Query    string
	MaxPages int
	Delay    time.Duration
}

// Runner drives the workflow every site shares: page through the search
// results, then fetch and store each listing not yet captured that day.
type Runner struct {
	fetcher  Fetcher
	store    storage.ListingStore
	pacer    *utils.Pacer
	logger   *utils.Logger
	query    string
	maxPages int
}

// NewRunner creates a Runner. A MaxPages below one is treated as one.
func NewRunner(fetcher Fetcher, store storage.ListingStore, logger *utils.Logger, opts RunnerOptions) *Runner {
	if opts.MaxPages < 1 {
		opts.MaxPages = 1
	}
	return &Runner{
		fetcher:  fetcher,
		store:    store,
		pacer:    utils.NewPacer(opts.Delay),
		logger:   logger,
		query:    opts.Query,
		maxPages: opts.MaxPages,
	}
}

// Run performs one pass over site for the given date partition.
//
// Network and parse failures are recorded in the returned result and never
// returned as an error: a failed search fails the site pass, a failed listing
// only bumps the failed count. The error return is reserved for storage
// failures, which the caller must treat as fatal.
func (r *Runner) Run(ctx context.Context, site Site, date time.Time) (models.SiteResult, error) {
	start := time.Now()
	name := site.Name()
	result := models.SiteResult{Site: name}

	r.logger.Info("[%s] Searching for %q", name, r.query)

	refs, warning, err := r.search(ctx, site)
	if err != nil {
		result.Err = err
		if errors.Is(err, ErrUnrecognizedMarkup) {
			result.Warning = markupWarning
			r.logger.Warn("[%s] %s", name, markupWarning)
		}
		r.logger.Error("[%s] Search failed: %v", name, err)
		result.Duration = time.Since(start)
		return result, nil
	}

	result.Found = len(refs)
	result.Warning = warning
	if len(refs) == 0 {
		r.logger.Info("[%s] No listings found", name)
	} else {
		r.logger.Info("[%s] Found %d listings", name, len(refs))
	}

	for i, ref := range refs {
		if err := ctx.Err(); err != nil {
			result.Err = fmt.Errorf("interrupted after %d of %d listings: %w", i, len(refs), err)
			break
		}

		exists, err := r.store.Exists(name, date, ref.ListingID)
		if err != nil {
			result.Duration = time.Since(start)
			return result, err
		}
		if exists {
			r.logger.Debug("[%s] [%d/%d] Skipping %s (already saved today)", name, i+1, len(refs), ref.ListingID)
			result.Skipped++
			continue
		}

		if err := r.pacer.Wait(ctx); err != nil {
			result.Err = fmt.Errorf("interrupted after %d of %d listings: %w", i, len(refs), err)
			break
		}

		r.logger.Debug("[%s] [%d/%d] Fetching %s", name, i+1, len(refs), ref.SourceURL)
		body, err := r.fetcher.Fetch(ctx, ref.SourceURL)
		if err != nil {
			r.logger.Warn("[%s] [%d/%d] Listing %s failed: %v", name, i+1, len(refs), ref.ListingID, err)
			result.Failed++
			continue
		}

		path, err := r.store.Save(name, date, ref.ListingID, body)
		if err != nil {
			result.Duration = time.Since(start)
			return result, err
		}
		result.Fetched++
		r.logger.Info("[%s] [%d/%d] Saved %s", name, i+1, len(refs), path)
	}

	result.Duration = time.Since(start)
	r.logger.Info("[%s] Done — found: %d | saved: %d | skipped: %d | failed: %d",
		name, result.Found, result.Fetched, result.Skipped, result.Failed)
	return result, nil
}

// search walks the result pages and returns the de-duplicated references in
// site order. Only a failure on the first page fails the search; a failure
// on a later page ends pagination and keeps what was collected.
func (r *Runner) search(ctx context.Context, site Site) ([]models.ListingReference, string, error) {
	name := site.Name()
	seen := utils.NewIDSet()
	var refs []models.ListingReference
	var warning string

	for page := 1; page <= r.maxPages; page++ {
		pageURL := site.SearchURL(r.query, page)

		if err := r.pacer.Wait(ctx); err != nil {
			return nil, "", fmt.Errorf("search page %d: %w", page, err)
		}

		r.logger.Debug("[%s] Search page %d: %s", name, page, pageURL)
		body, err := r.fetcher.Fetch(ctx, pageURL)
		if err != nil {
			if page == 1 {
				return nil, "", fmt.Errorf("search page %d: %w", page, err)
			}
			warning = fmt.Sprintf("search stopped at page %d: %v", page, err)
			r.logger.Warn("[%s] %s", name, warning)
			break
		}

		parsed, err := site.ParseSearchResults(pageURL, body)
		if err != nil {
			if page == 1 {
				return nil, "", fmt.Errorf("search page %d: %w", page, err)
			}
			r.logger.Debug("[%s] Search page %d: %v — treating as end of results", name, page, err)
			break
		}

		added := 0
		for _, ref := range parsed.Refs {
			if seen.Add(ref.ListingID) {
				refs = append(refs, ref)
				added++
			}
		}
		r.logger.Debug("[%s] Search page %d: %d listings (%d new)", name, page, len(parsed.Refs), added)

		if added == 0 || !parsed.HasNext {
			break
		}
		if page == r.maxPages {
			warning = fmt.Sprintf("search truncated at %d pages", r.maxPages)
			r.logger.Warn("[%s] %s", name, warning)
		}
	}

	return refs, warning, nil
}
