package jobspy

import (
	"fmt"
	"net/url"
	"strconv"

	"github.com/pkg/errors"
)

// ErrRateLimited is returned when the provider refuses a search because the
// underlying platform is throttling it.
var ErrRateLimited = errors.New("provider is rate limited")

const (
	DefaultResultsWanted = 20
	DefaultHoursOld      = 24

	maxResultsWanted = 100
)

// SearchRequest describes one query against the search provider. Site and
// SearchTerm are mandatory, everything else narrows the search down.
type SearchRequest struct {
	Site             string
	SearchTerm       string
	GoogleSearchTerm string
	Location         string
	CountryIndeed    string
	ResultsWanted    int
	HoursOld         int
}

func (s SearchRequest) Validate() error {

	if s.Site == "" {
		return fmt.Errorf("site must not be empty")
	}

	if s.SearchTerm == "" {
		return fmt.Errorf("search term must not be empty")
	}

	if s.ResultsWanted < 1 || s.ResultsWanted > maxResultsWanted {
		return fmt.Errorf("results wanted must be between 1 and %d", maxResultsWanted)
	}

	if s.HoursOld < 0 {
		return fmt.Errorf("hours old must be non-negative")
	}

	return nil
}

func (s SearchRequest) ToUrlParams() url.Values {

	params := url.Values{}
	params.Add("site_name", s.Site)
	params.Add("search_term", s.SearchTerm)

	if s.GoogleSearchTerm != "" {
		params.Add("google_search_term", s.GoogleSearchTerm)
	}

	if s.Location != "" {
		params.Add("location", s.Location)
	}

	if s.CountryIndeed != "" {
		params.Add("country_indeed", s.CountryIndeed)
	}

	params.Add("results_wanted", strconv.Itoa(s.ResultsWanted))

	if s.HoursOld > 0 {
		params.Add("hours_old", strconv.Itoa(s.HoursOld))
	}

	return params
}
