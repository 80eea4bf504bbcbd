package metrics

import (
	"context"
	"fmt"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/push"

	"aircraft-scraper/models"
)

// JobName groups the pushed series on the Pushgateway.
const JobName = "aircraft_scraper"

// Recorder holds the gauges describing the latest run. Each run is a
// short-lived process, so the values are pushed rather than scraped.
type Recorder struct {
	registry *prometheus.Registry

	Listings *prometheus.GaugeVec
	SiteUp   *prometheus.GaugeVec
	LastRun  prometheus.Gauge
	Duration *prometheus.GaugeVec
}

func NewRecorder() *Recorder {
	r := &Recorder{
		registry: prometheus.NewRegistry(),
		Listings: prometheus.NewGaugeVec(
			prometheus.GaugeOpts{
				Name: "aircraft_scraper_listings",
				Help: "Listings seen in the last run, by site and outcome.",
			},
			[]string{"site", "outcome"},
		),
		SiteUp: prometheus.NewGaugeVec(
			prometheus.GaugeOpts{
				Name: "aircraft_scraper_site_up",
				Help: "1 if the site pass completed in the last run, 0 if it failed.",
			},
			[]string{"site"},
		),
		LastRun: prometheus.NewGauge(
			prometheus.GaugeOpts{
				Name: "aircraft_scraper_last_run_timestamp_seconds",
				Help: "Unix time the last run finished.",
			},
		),
		Duration: prometheus.NewGaugeVec(
			prometheus.GaugeOpts{
				Name: "aircraft_scraper_site_duration_seconds",
				Help: "Wall time of the last site pass.",
			},
			[]string{"site"},
		),
	}
	r.registry.MustRegister(r.Listings, r.SiteUp, r.LastRun, r.Duration)
	return r
}

// Observe sets the gauges from a run summary.
func (r *Recorder) Observe(s *models.RunSummary) {
	for _, res := range s.Sites {
		site := string(res.Site)
		r.Listings.WithLabelValues(site, "found").Set(float64(res.Found))
		r.Listings.WithLabelValues(site, "fetched").Set(float64(res.Fetched))
		r.Listings.WithLabelValues(site, "skipped").Set(float64(res.Skipped))
		r.Listings.WithLabelValues(site, "failed").Set(float64(res.Failed))

		up := 0.0
		if res.OK() {
			up = 1
		}
		r.SiteUp.WithLabelValues(site).Set(up)
		r.Duration.WithLabelValues(site).Set(res.Duration.Seconds())
	}
	r.LastRun.Set(float64(s.Finished.Unix()))
}

// Push replaces this job's series on the Pushgateway at url.
func (r *Recorder) Push(ctx context.Context, url string) error {
	if err := push.New(url, JobName).Gatherer(r.registry).PushContext(ctx); err != nil {
		return fmt.Errorf("metrics: push to %s: %w", url, err)
	}
	return nil
}
