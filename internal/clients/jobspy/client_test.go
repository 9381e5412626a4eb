package jobspy

import (
	"bytes"
	"context"
	"io"
	"net/http"
	"os"
	"testing"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
)

type mockHTTPClient struct {
	mock.Mock
}

func (m *mockHTTPClient) Do(req *http.Request) (*http.Response, error) {
	args := m.Called(req)
	return args.Get(0).(*http.Response), args.Error(1)
}

func searchResultsMock() (*http.Response, error) {
	file, err := os.ReadFile("testdata/search_results.json")

	return &http.Response{
		StatusCode: 200,
		Body:       io.NopCloser(bytes.NewBuffer(file)),
	}, err
}

func textResponseMock(statusCode int, body string) (*http.Response, error) {
	return &http.Response{
		StatusCode: statusCode,
		Body:       io.NopCloser(bytes.NewBufferString(body)),
	}, nil
}

func Test_JobspyClient_Search_ShouldBeSuccessful(t *testing.T) {

	assert := assert.New(t)

	mockClient := &mockHTTPClient{}
	mockClient.On("Do", mock.MatchedBy(func(req *http.Request) bool {
		return req.URL.String() == "http://provider.test/api/v1/search?country_indeed=UK&hours_old=24&"+
			"location=London%2C+United+Kingdom&results_wanted=20&search_term=data+scientist&site_name=indeed"
	})).Return(searchResultsMock())

	client := NewClient("http://provider.test/")
	client.SetHTTPClient(mockClient)

	request := SearchRequest{
		Site:          "indeed",
		SearchTerm:    "data scientist",
		Location:      "London, United Kingdom",
		CountryIndeed: "UK",
		ResultsWanted: DefaultResultsWanted,
		HoursOld:      DefaultHoursOld,
	}
	jobs, err := client.Search(context.Background(), request)
	assert.NoError(err)

	assert.True(len(jobs) == 2)

	title, ok := jobs[0].StringField("title")
	assert.True(ok)
	assert.Equal("Data Scientist", title)

	company, ok := jobs[1].StringField("company")
	assert.True(ok)
	assert.Equal("Globex Ltd", company)
}

func Test_JobspyClient_Search_SendsApiKey(t *testing.T) {

	assert := assert.New(t)

	mockClient := &mockHTTPClient{}
	mockClient.On("Do", mock.MatchedBy(func(req *http.Request) bool {
		return req.Header.Get("x-api-key") == "secret"
	})).Return(searchResultsMock())

	client := NewClient("http://provider.test")
	client.SetHTTPClient(mockClient)
	client.SetAPIKey("secret")

	_, err := client.Search(context.Background(), SearchRequest{
		Site:          "indeed",
		SearchTerm:    "data scientist",
		ResultsWanted: 10,
	})
	assert.NoError(err)
}

func Test_JobspyClient_Search_RateLimitedByProvider(t *testing.T) {

	assert := assert.New(t)

	mockClient := &mockHTTPClient{}
	mockClient.On("Do", mock.Anything).Return(textResponseMock(429, `{"detail":"try again later"}`))

	client := NewClient("http://provider.test")
	client.SetHTTPClient(mockClient)

	_, err := client.Search(context.Background(), SearchRequest{
		Site:          "glassdoor",
		SearchTerm:    "data scientist",
		ResultsWanted: 10,
	})
	assert.True(errors.Is(err, ErrRateLimited))
}

func Test_JobspyClient_Search_ServerErrorIsReported(t *testing.T) {

	assert := assert.New(t)

	mockClient := &mockHTTPClient{}
	mockClient.On("Do", mock.Anything).Return(textResponseMock(500, "internal server error"))

	client := NewClient("http://provider.test")
	client.SetHTTPClient(mockClient)

	_, err := client.Search(context.Background(), SearchRequest{
		Site:          "google",
		SearchTerm:    "data scientist",
		ResultsWanted: 10,
	})
	assert.Error(err)
	assert.Contains(err.Error(), "500")
}

func Test_SearchRequest_Validation(t *testing.T) {

	assert := assert.New(t)

	valid := SearchRequest{Site: "indeed", SearchTerm: "golang", ResultsWanted: 20}
	assert.NoError(valid.Validate())

	noSite := valid
	noSite.Site = ""
	assert.Error(noSite.Validate())

	noTerm := valid
	noTerm.SearchTerm = ""
	assert.Error(noTerm.Validate())

	tooMany := valid
	tooMany.ResultsWanted = 500
	assert.Error(tooMany.Validate())
}

func Test_RawJob_StringField(t *testing.T) {

	assert := assert.New(t)

	raw := RawJob{
		"title":    "Data Scientist",
		"company":  nil,
		"employer": "ACME",
		"id":       12345.0,
	}

	title, ok := raw.StringField("title")
	assert.True(ok)
	assert.Equal("Data Scientist", title)

	company, ok := raw.StringField("company", "company_name", "employer")
	assert.True(ok)
	assert.Equal("ACME", company)

	id, ok := raw.StringField("id")
	assert.True(ok)
	assert.Equal("12345", id)

	_, ok = raw.StringField("location")
	assert.False(ok)
}
