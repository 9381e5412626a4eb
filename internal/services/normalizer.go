package services

import (
	"regexp"
	"strings"

	"github.com/jobvault/aggregator/internal/clients/jobspy"
	"github.com/jobvault/aggregator/internal/domain/models"
)

var (
	titleFields       = []string{"title", "job_title"}
	companyFields     = []string{"company", "company_name", "employer"}
	locationFields    = []string{"location", "location_name", "city"}
	descriptionFields = []string{"description", "job_description"}
)

// nonWordChars matches every rune that is not a letter, digit, underscore,
// whitespace or hyphen.
var nonWordChars = regexp.MustCompile(`[^\p{L}\p{N}_\s-]+`)

var whitespaceRuns = regexp.MustCompile(`\s+`)

// Normalizer converts raw provider records into canonical jobs.
type Normalizer struct{}

func NewNormalizer() *Normalizer {
	return &Normalizer{}
}

// Normalize extracts and sanitizes the canonical fields of a raw record.
// It returns the job on success, or nil and the reason the record was
// rejected. Fields the record carries beyond the canonical ones are ignored.
func (n *Normalizer) Normalize(raw jobspy.RawJob) (*models.Job, models.RejectReason) {

	if len(raw) == 0 {
		return nil, models.RejectMalformedRecord
	}

	title, _ := raw.StringField(titleFields...)
	if title = sanitizeField(title); title == "" {
		return nil, models.RejectMissingTitle
	}

	company, _ := raw.StringField(companyFields...)
	if company = sanitizeField(company); company == "" {
		return nil, models.RejectMissingCompany
	}

	location, _ := raw.StringField(locationFields...)
	if location = sanitizeField(location); location == "" {
		return nil, models.RejectMissingLocation
	}

	description, _ := raw.StringField(descriptionFields...)

	return &models.Job{
		Title:       title,
		Company:     company,
		Location:    location,
		Description: sanitizeField(description),
	}, ""
}

// sanitizeField strips punctuation, collapses whitespace runs into single
// spaces and trims the result.
func sanitizeField(s string) string {
	s = nonWordChars.ReplaceAllString(s, "")
	s = whitespaceRuns.ReplaceAllString(s, " ")
	return strings.TrimSpace(s)
}
