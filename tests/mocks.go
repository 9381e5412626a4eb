package tests

import (
	"context"

	"github.com/jobvault/aggregator/internal/clients/jobspy"
)

type mockProvider struct {
	jobsByTerm map[string][]jobspy.RawJob
	errByTerm  map[string]error
	requests   []jobspy.SearchRequest
}

func (m *mockProvider) Search(_ context.Context, request jobspy.SearchRequest) ([]jobspy.RawJob, error) {
	m.requests = append(m.requests, request)

	if err := m.errByTerm[request.SearchTerm]; err != nil {
		return nil, err
	}
	return m.jobsByTerm[request.SearchTerm], nil
}

func rawJob(title, company, location string) jobspy.RawJob {
	return jobspy.RawJob{
		"title":       title,
		"company":     company,
		"location":    location,
		"description": "role description",
	}
}
