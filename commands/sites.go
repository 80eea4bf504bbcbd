package commands

import (
	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/spf13/cobra"

	"aircraft-scraper/config"
	"aircraft-scraper/services"
)

func init() {
	rootCmd.AddCommand(sitesCmd)
}

var sitesCmd = &cobra.Command{
	Use:   "sites",
	Short: "Lists the registered sites and the first search URL each would request.",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg := config.Load()

		t := table.NewWriter()
		t.SetOutputMirror(cmd.OutOrStdout())
		t.AppendHeader(table.Row{"Site", "Search URL"})
		for _, s := range services.AllSites() {
			t.AppendRow(table.Row{s.Name(), s.SearchURL(cfg.SearchTerm, 1)})
		}
		t.SetStyle(table.StyleRounded)
		t.Render()
		return nil
	},
}
