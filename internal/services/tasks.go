package services

import (
	"github.com/jobvault/aggregator/internal/config"
	"github.com/jobvault/aggregator/internal/domain/models"
	"github.com/pkg/errors"
	"github.com/samber/lo"
)

// BuildSearchTasks expands the scraper configuration into the full
// site x term x location cross-product, preserving configured order.
// Google tasks carry the verbose google search term with the same index as
// their regular term; indeed tasks carry the country identifier from the
// configured mapping, falling back to the country name itself.
func BuildSearchTasks(cfg config.ScraperConfig) ([]models.SearchTask, error) {

	locations := lo.Map(cfg.Locations, func(l config.SearchLocation, _ int) models.Location {
		return models.Location{Country: l.Country, Place: l.Place}
	})

	var tasks []models.SearchTask

	for _, rawSite := range cfg.Sites {
		site, err := models.ParseSite(rawSite)
		if err != nil {
			return nil, errors.Wrap(err, "invalid site in scraper configuration")
		}

		for termIdx, term := range cfg.SearchTerms {
			for _, location := range locations {
				task := models.SearchTask{
					Site:     site,
					Term:     term,
					Location: location,
				}

				if site == models.SiteGoogle && termIdx < len(cfg.GoogleSearchTerms) {
					task.GoogleTerm = cfg.GoogleSearchTerms[termIdx]
				}

				if site == models.SiteIndeed {
					task.CountryCode = indeedCountryCode(cfg.IndeedCountryCodes, location.Country)
				}

				tasks = append(tasks, task)
			}
		}
	}

	return tasks, nil
}

func indeedCountryCode(codes map[string]string, country string) string {
	if code, ok := codes[country]; ok {
		return code
	}
	return country
}
