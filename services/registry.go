package services

import (
	"fmt"

	"aircraft-scraper/scraper"
	"aircraft-scraper/scraper/barnstormers"
	"aircraft-scraper/scraper/controller"
	"aircraft-scraper/scraper/tradeaplane"
)

// AllSites returns every registered site scraper in run order.
func AllSites() []scraper.Site {
	return []scraper.Site{
		barnstormers.New(),
		tradeaplane.New(),
		controller.New(),
	}
}

// SiteNames returns the names of sites, in order.
func SiteNames(sites []scraper.Site) []string {
	names := make([]string, 0, len(sites))
	for _, s := range sites {
		names = append(names, string(s.Name()))
	}
	return names
}

// SelectSites keeps the sites named in names, preserving registry order. An
// empty selection means all sites.
func SelectSites(all []scraper.Site, names []string) ([]scraper.Site, error) {
	if len(names) == 0 {
		return all, nil
	}

	wanted := make(map[string]bool, len(names))
	for _, n := range names {
		wanted[n] = true
	}

	var out []scraper.Site
	for _, s := range all {
		if wanted[string(s.Name())] {
			out = append(out, s)
			delete(wanted, string(s.Name()))
		}
	}
	for n := range wanted {
		return nil, fmt.Errorf("services: unknown site %q", n)
	}
	return out, nil
}
