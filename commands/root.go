package commands

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "aircraft-scraper",
	Short: "Saves today's aircraft listings from Barnstormers, Trade-A-Plane and Controller.",
	Long: `aircraft-scraper runs every selected site scraper once. Raw listing HTML is
written to <storage-dir>/<site>/<YYYY-MM-DD>/<site>_<listing_id>.html and
listings already saved today are skipped.

Settings come from the environment (or a .env file); flags override them.`,
	SilenceUsage:  true,
	SilenceErrors: true,
	Args:          cobra.NoArgs,
	RunE:          runScrape,
}

// ExecuteContext runs the CLI and exits 1 on any error.
func ExecuteContext(ctx context.Context) {
	if err := rootCmd.ExecuteContext(ctx); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
