package models

import "fmt"

// Site enumerates the job platforms the search provider can scrape.
type Site string

const (
	SiteIndeed    Site = "indeed"
	SiteGlassdoor Site = "glassdoor"
	SiteGoogle    Site = "google"
)

func ParseSite(s string) (Site, error) {
	switch Site(s) {
	case SiteIndeed, SiteGlassdoor, SiteGoogle:
		return Site(s), nil
	default:
		return "", fmt.Errorf("unknown site %q", s)
	}
}

// Location is a place to search jobs in.
type Location struct {
	Country string
	Place   string
}

func (l Location) String() string {
	if l.Place == "" {
		return l.Country
	}
	return l.Place + ", " + l.Country
}

// SearchTask is one unit of scraping work: a single combination of site,
// search term and location. Tasks are independent of each other, a failed
// one never affects the rest of the run.
type SearchTask struct {
	Site       Site
	Term       string
	GoogleTerm string // verbose query sent instead of Term when Site is google
	Location   Location
	// CountryCode is the provider-specific country identifier required by
	// indeed searches.
	CountryCode string
}

func (t SearchTask) String() string {
	return fmt.Sprintf("%s %q in %s", t.Site, t.Term, t.Location)
}
