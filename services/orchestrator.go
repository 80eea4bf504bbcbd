package services

import (
	"context"
	"errors"
	"fmt"
	"sync/atomic"
	"time"

	"aircraft-scraper/models"
	"aircraft-scraper/scraper"
	"aircraft-scraper/utils"
)

var ErrAlreadyRunning = errors.New("orchestrator: run already in progress")

// SiteRunner performs one pass over a single site. *scraper.Runner
// satisfies it.
type SiteRunner interface {
	Run(ctx context.Context, site scraper.Site, date time.Time) (models.SiteResult, error)
}

// Orchestrator runs every configured site once, in order, under a single
// run date.
type Orchestrator struct {
	runner SiteRunner
	sites  []scraper.Site
	logger *utils.Logger
	now    func() time.Time
	state  atomic.Int32
}

func NewOrchestrator(runner SiteRunner, sites []scraper.Site, logger *utils.Logger) *Orchestrator {
	return &Orchestrator{
		runner: runner,
		sites:  sites,
		logger: logger,
		now:    time.Now,
	}
}

// SetClock replaces the wall clock used for the run date.
func (o *Orchestrator) SetClock(now func() time.Time) {
	o.now = now
}

func (o *Orchestrator) State() models.RunState {
	return models.RunState(o.state.Load())
}

// Run executes one pass over all sites. A failing site is recorded in the
// summary and the next site still runs. A storage failure stops the run:
// the partial summary is returned with Aborted set, along with the error.
func (o *Orchestrator) Run(ctx context.Context) (*models.RunSummary, error) {
	if !o.state.CompareAndSwap(int32(models.StateIdle), int32(models.StateRunning)) &&
		!o.state.CompareAndSwap(int32(models.StateDone), int32(models.StateRunning)) {
		return nil, ErrAlreadyRunning
	}
	defer o.state.Store(int32(models.StateDone))

	started := o.now()
	summary := &models.RunSummary{Date: started, Started: started}

	o.logger.Info("=== Run %s starting — %d sites ===", started.Format("2006-01-02"), len(o.sites))

	for _, site := range o.sites {
		if err := ctx.Err(); err != nil {
			summary.Aborted = fmt.Errorf("orchestrator: run cancelled before %s: %w", site.Name(), err)
			break
		}

		result, err := o.runSite(ctx, site, started)
		summary.Sites = append(summary.Sites, result)
		if err != nil {
			summary.Aborted = fmt.Errorf("orchestrator: %s: %w", site.Name(), err)
			o.logger.Error("[%s] Storage failure, aborting run: %v", site.Name(), err)
			break
		}
		if !result.OK() {
			o.logger.Warn("[%s] Site pass failed: %v", site.Name(), result.Err)
		}
	}

	// A cancel that lands while the last site is running ends the loop
	// without tripping the check at its top.
	if err := ctx.Err(); err != nil && summary.Aborted == nil {
		summary.Aborted = fmt.Errorf("orchestrator: run cancelled: %w", err)
	}

	summary.Finished = o.now()

	o.logger.Info("=== Run finished in %s — found: %d | saved: %d | skipped: %d | failed: %d ===",
		summary.Finished.Sub(summary.Started).Round(time.Millisecond),
		summary.TotalFound(), summary.TotalFetched(), summary.TotalSkipped(), summary.TotalFailed())
	if failed := summary.FailedSites(); len(failed) > 0 {
		o.logger.Warn("Failed sites: %v", failed)
	}

	return summary, summary.Aborted
}

func (o *Orchestrator) runSite(ctx context.Context, site scraper.Site, date time.Time) (result models.SiteResult, err error) {
	defer func() {
		if p := recover(); p != nil {
			result = models.SiteResult{Site: site.Name(), Err: fmt.Errorf("scraper panicked: %v", p)}
			err = nil
		}
	}()
	return o.runner.Run(ctx, site, date)
}
