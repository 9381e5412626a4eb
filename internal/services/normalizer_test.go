package services

import (
	"testing"

	"github.com/jobvault/aggregator/internal/clients/jobspy"
	"github.com/jobvault/aggregator/internal/domain/models"
	"github.com/stretchr/testify/assert"
)

func Test_Normalizer_ExtractsCanonicalFields(t *testing.T) {

	assert := assert.New(t)
	normalizer := NewNormalizer()

	job, reason := normalizer.Normalize(jobspy.RawJob{
		"title":       "Senior Data Scientist!!!",
		"company":     "ACME, Inc.",
		"location":    "London,  United Kingdom",
		"description": "Great team. Real impact.",
		"job_url":     "https://example.com/jobs/1",
		"is_remote":   true,
	})

	assert.Empty(reason)
	assert.Equal("Senior Data Scientist", job.Title)
	assert.Equal("ACME Inc", job.Company)
	assert.Equal("London United Kingdom", job.Location)
	assert.Equal("Great team Real impact", job.Description)
}

func Test_Normalizer_ReadsAlternativeFieldNames(t *testing.T) {

	assert := assert.New(t)
	normalizer := NewNormalizer()

	job, reason := normalizer.Normalize(jobspy.RawJob{
		"job_title":     "Backend Engineer",
		"company_name":  "Globex",
		"location_name": "Berlin",
	})

	assert.Empty(reason)
	assert.Equal("Backend Engineer", job.Title)
	assert.Equal("Globex", job.Company)
	assert.Equal("Berlin", job.Location)
	assert.Empty(job.Description)
}

func Test_Normalizer_KeepsLettersDigitsAndHyphens(t *testing.T) {

	normalizer := NewNormalizer()

	job, reason := normalizer.Normalize(jobspy.RawJob{
		"title":    "Développeur C++ (Co-Founder)",
		"company":  "Søren & Partners",
		"location": "Zürich",
	})

	assert.Empty(t, reason)
	assert.Equal(t, "Développeur C Co-Founder", job.Title)
	assert.Equal(t, "Søren Partners", job.Company)
	assert.Equal(t, "Zürich", job.Location)
}

func Test_Normalizer_RejectsIncompleteRecords(t *testing.T) {

	assert := assert.New(t)
	normalizer := NewNormalizer()

	cases := []struct {
		raw    jobspy.RawJob
		reason models.RejectReason
	}{
		{jobspy.RawJob{}, models.RejectMalformedRecord},
		{nil, models.RejectMalformedRecord},
		{jobspy.RawJob{"company": "ACME", "location": "London"}, models.RejectMissingTitle},
		{jobspy.RawJob{"title": "   ", "company": "ACME", "location": "London"}, models.RejectMissingTitle},
		{jobspy.RawJob{"title": "Engineer", "location": "London"}, models.RejectMissingCompany},
		{jobspy.RawJob{"title": "Engineer", "company": nil, "location": "London"}, models.RejectMissingCompany},
		{jobspy.RawJob{"title": "Engineer", "company": "ACME"}, models.RejectMissingLocation},
		{jobspy.RawJob{"title": "!!!", "company": "ACME", "location": "London"}, models.RejectMissingTitle},
	}

	for _, c := range cases {
		job, reason := normalizer.Normalize(c.raw)
		assert.Nil(job)
		assert.Equal(c.reason, reason)
	}
}
