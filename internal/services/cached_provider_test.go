package services

import (
	"context"
	"testing"
	"time"

	"github.com/jobvault/aggregator/internal/clients/jobspy"
	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
)

type countingProvider struct {
	calls   int
	results []jobspy.RawJob
	err     error
}

func (p *countingProvider) Search(_ context.Context, _ jobspy.SearchRequest) ([]jobspy.RawJob, error) {
	p.calls++
	if p.err != nil {
		return nil, p.err
	}
	return p.results, nil
}

func Test_CachedProvider_ServesRepeatedSearchFromCache(t *testing.T) {

	assert := assert.New(t)
	inner := &countingProvider{results: []jobspy.RawJob{{"title": "Data Scientist"}}}
	provider := NewCachedProvider(inner, time.Minute)

	request := jobspy.SearchRequest{Site: "indeed", SearchTerm: "data scientist", ResultsWanted: 20}

	first, err := provider.Search(context.Background(), request)
	assert.NoError(err)

	second, err := provider.Search(context.Background(), request)
	assert.NoError(err)

	assert.Equal(first, second)
	assert.Equal(1, inner.calls)
}

func Test_CachedProvider_DistinguishesRequests(t *testing.T) {

	assert := assert.New(t)
	inner := &countingProvider{}
	provider := NewCachedProvider(inner, time.Minute)

	_, err := provider.Search(context.Background(),
		jobspy.SearchRequest{Site: "indeed", SearchTerm: "data scientist", ResultsWanted: 20})
	assert.NoError(err)

	_, err = provider.Search(context.Background(),
		jobspy.SearchRequest{Site: "indeed", SearchTerm: "ml engineer", ResultsWanted: 20})
	assert.NoError(err)

	assert.Equal(2, inner.calls)
}

func Test_CachedProvider_DoesNotCacheFailures(t *testing.T) {

	assert := assert.New(t)
	inner := &countingProvider{err: errors.New("provider unavailable")}
	provider := NewCachedProvider(inner, time.Minute)

	request := jobspy.SearchRequest{Site: "indeed", SearchTerm: "data scientist", ResultsWanted: 20}

	_, err := provider.Search(context.Background(), request)
	assert.Error(err)

	inner.err = nil
	_, err = provider.Search(context.Background(), request)
	assert.NoError(err)
	assert.Equal(2, inner.calls)
}
