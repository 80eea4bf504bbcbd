package services

import (
	"fmt"
	"io"
	"strings"

	"github.com/jedib0t/go-pretty/v6/table"

	"aircraft-scraper/models"
)

// Subject is the notification subject line for a run.
func Subject(s *models.RunSummary) string {
	return fmt.Sprintf("Aircraft listings %s: %d new, %d failed",
		s.Date.Format("2006-01-02"), s.TotalFetched(), s.TotalFailed())
}

// PrintSummary writes the per-site table for a run to w.
func PrintSummary(w io.Writer, s *models.RunSummary) {
	sep := strings.Repeat("═", 54)

	fmt.Fprintf(w, "\n%s\n", sep)
	fmt.Fprintf(w, "  AIRCRAFT LISTINGS — %s\n", s.Date.Format("2006-01-02"))
	fmt.Fprintf(w, "%s\n", sep)

	t := summaryTable(s)
	t.SetOutputMirror(w)
	t.SetStyle(table.StyleRounded)
	t.Render()

	if s.Aborted != nil {
		fmt.Fprintf(w, "  Run aborted: %v\n", s.Aborted)
	}
	fmt.Fprintln(w)
}

// FormatText renders the plain-text notification body for a run.
func FormatText(s *models.RunSummary) string {
	var b strings.Builder

	fmt.Fprintf(&b, "Aircraft listing scrape for %s\n", s.Date.Format("2006-01-02"))
	fmt.Fprintf(&b, "Started %s, finished %s\n\n",
		s.Started.Format("15:04:05"), s.Finished.Format("15:04:05"))

	t := summaryTable(s)
	t.SetStyle(table.StyleDefault)
	b.WriteString(t.Render())
	b.WriteString("\n")

	for _, r := range s.Sites {
		if r.Err != nil {
			fmt.Fprintf(&b, "\n%s failed: %v", r.Site, r.Err)
		}
		if r.Warning != "" {
			fmt.Fprintf(&b, "\n%s warning: %s", r.Site, r.Warning)
		}
	}
	if s.Aborted != nil {
		fmt.Fprintf(&b, "\nRun aborted: %v", s.Aborted)
	}
	b.WriteString("\n")
	return b.String()
}

func summaryTable(s *models.RunSummary) table.Writer {
	t := table.NewWriter()
	t.AppendHeader(table.Row{"Site", "Found", "Saved", "Skipped", "Failed", "Status"})
	for _, r := range s.Sites {
		t.AppendRow(table.Row{r.Site, r.Found, r.Fetched, r.Skipped, r.Failed, status(r)})
	}
	t.AppendFooter(table.Row{"Total", s.TotalFound(), s.TotalFetched(), s.TotalSkipped(), s.TotalFailed(), ""})
	return t
}

func status(r models.SiteResult) string {
	switch {
	case r.Err != nil && r.Warning != "":
		return "markup changed?"
	case r.Err != nil:
		return "failed"
	case r.Warning != "":
		return "partial"
	default:
		return "ok"
	}
}
