package models

import (
	"fmt"
	"time"
)

// Site names a target website. The string value doubles as the site
// partition directory under the storage root.
type Site string

const (
	SiteBarnstormers Site = "barnstormers"
	SiteTradeAPlane  Site = "tradeaplane"
	SiteController   Site = "controller"
)

// ListingReference identifies one discoverable listing page. It is produced
// by parsing a search results page and consumed right away to fetch the
// listing; only the fetched HTML is ever stored.
type ListingReference struct {
	Site      Site
	ListingID string
	SourceURL string
}

// SiteResult holds the counts for one site pass of a run.
type SiteResult struct {
	Site     Site
	Found    int
	Fetched  int
	Skipped  int
	Failed   int
	Warning  string
	Err      error
	Duration time.Duration
}

// OK reports whether the site pass completed without a site-level failure.
// Individual listing failures do not make a pass fail.
func (r SiteResult) OK() bool {
	return r.Err == nil
}

// RunSummary aggregates every site pass of one orchestrator invocation.
type RunSummary struct {
	Date     time.Time
	Started  time.Time
	Finished time.Time
	Sites    []SiteResult
	Aborted  error
}

func (s *RunSummary) TotalFound() int {
	n := 0
	for _, r := range s.Sites {
		n += r.Found
	}
	return n
}

func (s *RunSummary) TotalFetched() int {
	n := 0
	for _, r := range s.Sites {
		n += r.Fetched
	}
	return n
}

func (s *RunSummary) TotalSkipped() int {
	n := 0
	for _, r := range s.Sites {
		n += r.Skipped
	}
	return n
}

// TotalFailed counts failed listings plus one per failed site pass.
func (s *RunSummary) TotalFailed() int {
	n := 0
	for _, r := range s.Sites {
		n += r.Failed
		if !r.OK() {
			n++
		}
	}
	return n
}

// FailedSites returns the sites whose pass failed as a whole.
func (s *RunSummary) FailedSites() []Site {
	var out []Site
	for _, r := range s.Sites {
		if !r.OK() {
			out = append(out, r.Site)
		}
	}
	return out
}

// RunState is the orchestrator lifecycle: IDLE -> RUNNING -> DONE.
type RunState int32

const (
	StateIdle RunState = iota
	StateRunning
	StateDone
)

func (s RunState) String() string {
	switch s {
	case StateIdle:
		return "IDLE"
	case StateRunning:
		return "RUNNING"
	case StateDone:
		return "DONE"
	default:
		return fmt.Sprintf("RunState(%d)", int32(s))
	}
}
