package commands

import (
	"context"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"aircraft-scraper/config"
	"aircraft-scraper/fetcher"
	"aircraft-scraper/metrics"
	"aircraft-scraper/models"
	"aircraft-scraper/scraper"
	"aircraft-scraper/services"
	"aircraft-scraper/storage"
	"aircraft-scraper/utils"
)

type runOptions struct {
	storageDir string
	timeout    int
	sites      string
	query      string
	browser    bool
	notify     bool
}

var runFlags runOptions

func init() {
	f := rootCmd.Flags()
	f.StringVar(&runFlags.storageDir, "storage-dir", "", "storage root (overrides STORAGE_DIR)")
	f.IntVar(&runFlags.timeout, "timeout", 0, "per-request timeout in seconds (overrides REQUEST_TIMEOUT)")
	f.StringVar(&runFlags.sites, "sites", "", "comma separated sites to run (overrides SITES)")
	f.StringVar(&runFlags.query, "query", "", "search term (overrides SEARCH_TERM)")
	f.BoolVar(&runFlags.browser, "browser", false, "fetch pages with headless Chrome (FETCH_MODE=browser)")
	f.BoolVar(&runFlags.notify, "notify", true, "send the summary mail when EMAIL_TO is configured")
}

// applyFlags copies explicitly set flags over the environment config.
func applyFlags(cmd *cobra.Command, cfg *config.Config) {
	flags := cmd.Flags()
	if flags.Changed("storage-dir") {
		cfg.StorageDir = runFlags.storageDir
	}
	if flags.Changed("timeout") {
		cfg.RequestTimeout = time.Duration(runFlags.timeout) * time.Second
	}
	if flags.Changed("sites") {
		cfg.Sites = config.ParseList(runFlags.sites)
	}
	if flags.Changed("query") {
		cfg.SearchTerm = runFlags.query
	}
	if flags.Changed("browser") && runFlags.browser {
		cfg.FetchMode = config.FetchModeBrowser
	}
}

func runScrape(cmd *cobra.Command, args []string) error {
	cfg := config.Load()
	applyFlags(cmd, cfg)

	logger := utils.NewLoggerWithWriters(cmd.OutOrStdout(), cmd.ErrOrStderr(), utils.ParseLevel(cfg.LogLevel))

	all := services.AllSites()
	if err := cfg.Validate(services.SiteNames(all)); err != nil {
		return err
	}
	sites, err := services.SelectSites(all, cfg.Sites)
	if err != nil {
		return err
	}

	store, err := storage.NewFileStore(cfg.StorageDir)
	if err != nil {
		return fmt.Errorf("storage root %s is not usable: %w", cfg.StorageDir, err)
	}

	f, closeFetcher, err := newFetcher(cfg, logger)
	if err != nil {
		return err
	}
	defer closeFetcher()

	logger.Info("=== Aircraft scraper starting ===")
	logger.Info("Config — root: %s | sites: %v | query: %q | mode: %s | timeout: %s | delay: %s",
		cfg.StorageDir, services.SiteNames(sites), cfg.SearchTerm, cfg.FetchMode, cfg.RequestTimeout, cfg.RequestDelay)

	runner := scraper.NewRunner(f, store, logger, scraper.RunnerOptions{
		Query:    cfg.SearchTerm,
		MaxPages: cfg.MaxSearchPages,
		Delay:    cfg.RequestDelay,
	})
	orchestrator := services.NewOrchestrator(runner, sites, logger)

	summary, runErr := orchestrator.Run(cmd.Context())
	if summary == nil {
		return runErr
	}

	services.PrintSummary(cmd.OutOrStdout(), summary)

	// Reporting uses its own context so that an interrupted run still
	// gets its summary out.
	reportCtx, cancel := context.WithTimeout(context.Background(), cfg.RequestTimeout)
	defer cancel()

	if runFlags.notify {
		notify(reportCtx, cfg, logger, summary)
	}
	if cfg.PushgatewayURL != "" {
		rec := metrics.NewRecorder()
		rec.Observe(summary)
		if err := rec.Push(reportCtx, cfg.PushgatewayURL); err != nil {
			logger.Warn("[metrics] %v", err)
		} else {
			logger.Info("[metrics] Pushed run metrics to %s", cfg.PushgatewayURL)
		}
	}

	return runErr
}

func newFetcher(cfg *config.Config, logger *utils.Logger) (fetcher.Fetcher, func(), error) {
	if cfg.FetchMode == config.FetchModeBrowser {
		logger.Info("[fetcher] Launching headless Chrome")
		bf, err := fetcher.NewBrowserFetcher(cfg.RequestTimeout, cfg.UserAgent, cfg.ChromeBin)
		if err != nil {
			return nil, nil, err
		}
		return bf, func() { _ = bf.Close() }, nil
	}
	return fetcher.NewHTTPFetcher(cfg.RequestTimeout, cfg.UserAgent), func() {}, nil
}

func notify(ctx context.Context, cfg *config.Config, logger *utils.Logger, summary *models.RunSummary) {
	n := services.NewNotifier(cfg)
	if n == nil {
		logger.Debug("[notify] EMAIL_TO or mail transport not configured; skipping")
		return
	}
	if err := n.Notify(ctx, services.Subject(summary), services.FormatText(summary)); err != nil {
		logger.Warn("[notify] %v", err)
		return
	}
	logger.Info("[notify] Summary sent to %s", cfg.EmailTo)
}
