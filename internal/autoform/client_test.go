package autoform

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/slovensko-digital/autoform-mcp-server/internal/metrics"
)

const testToken = "super-secret-token"

func testFilter() SearchFilter {
	return SearchFilter{Field: SearchByName, Value: "Test", Limit: DefaultLimit}
}

func TestClientSearchSuccess(t *testing.T) {
	t.Parallel()
	var gotQuery map[string]string
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotQuery = map[string]string{
			"q":             r.URL.Query().Get("q"),
			"limit":         r.URL.Query().Get("limit"),
			"filter":        r.URL.Query().Get("filter"),
			"private_token": r.URL.Query().Get(SensitiveParam),
		}
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`[
			{
				"cin": "36631124",
				"tin": "2022095624",
				"name": "Slovensko.Digital",
				"formatted_address": "Staré Grunty 12, 841 04 Bratislava",
				"municipality": "Bratislava",
				"country": "Slovensko",
				"unknown_field": "ignored"
			},
			{
				"cin": "00151653",
				"name": "Slovenská pošta, a.s."
			}
		]`))
	}))
	defer ts.Close()

	client := NewClient(ts.URL, 0, nil)
	result, err := client.Search(context.Background(), testFilter(), testToken)
	require.NoError(t, err)

	assert.Equal(t, "name:Test", gotQuery["q"])
	assert.Equal(t, "5", gotQuery["limit"])
	assert.Empty(t, gotQuery["filter"])
	assert.Equal(t, testToken, gotQuery["private_token"])

	assert.Equal(t, 2, result.Count)
	require.Len(t, result.Results, 2)

	first := result.Results[0]
	require.NotNil(t, first.CIN)
	assert.Equal(t, "36631124", *first.CIN)
	require.NotNil(t, first.Name)
	assert.Equal(t, "Slovensko.Digital", *first.Name)
	assert.Nil(t, first.VATIN)
	assert.Nil(t, first.TerminatedOn)

	second := result.Results[1]
	require.NotNil(t, second.CIN)
	assert.Equal(t, "00151653", *second.CIN)
	assert.Nil(t, second.TIN)
}

func TestClientSearchActiveOnly(t *testing.T) {
	t.Parallel()
	var gotFilter string
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotFilter = r.URL.Query().Get("filter")
		_, _ = w.Write([]byte(`[]`))
	}))
	defer ts.Close()

	filter := testFilter()
	filter.ActiveOnly = true

	client := NewClient(ts.URL, 0, nil)
	result, err := client.Search(context.Background(), filter, testToken)
	require.NoError(t, err)

	assert.Equal(t, "active", gotFilter)
	assert.Equal(t, 0, result.Count)
	assert.Empty(t, result.Results)
}

func TestClientSearchHTTPErrorWithJSONMessage(t *testing.T) {
	t.Parallel()
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusBadRequest)
		_, _ = w.Write([]byte(`{"message": "Invalid query format"}`))
	}))
	defer ts.Close()

	client := NewClient(ts.URL, 0, nil)
	_, err := client.Search(context.Background(), testFilter(), testToken)
	require.Error(t, err)

	var httpErr *UpstreamHTTPError
	require.ErrorAs(t, err, &httpErr)
	assert.Equal(t, http.StatusBadRequest, httpErr.StatusCode)

	assert.Contains(t, err.Error(), "HTTP 400")
	assert.Contains(t, err.Error(), "Invalid query format")
	assert.NotContains(t, err.Error(), testToken)
	assert.Contains(t, err.Error(), SensitiveParam+"="+RedactionMarker)
}

func TestClientSearchHTTPErrorWithTextBody(t *testing.T) {
	t.Parallel()
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
		_, _ = w.Write([]byte("Internal Server Error"))
	}))
	defer ts.Close()

	client := NewClient(ts.URL, 0, nil)
	_, err := client.Search(context.Background(), testFilter(), testToken)
	require.Error(t, err)

	var httpErr *UpstreamHTTPError
	require.ErrorAs(t, err, &httpErr)
	assert.Equal(t, http.StatusInternalServerError, httpErr.StatusCode)

	assert.Contains(t, err.Error(), "HTTP 500")
	assert.Contains(t, err.Error(), "Internal Server Error")
	assert.NotContains(t, err.Error(), testToken)
}

func TestClientSearchErrorBodyEchoingRequestURL(t *testing.T) {
	t.Parallel()
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadRequest)
		// Upstream echoes the request URL, token included, back in the body.
		_, _ = w.Write([]byte(`{"message": "bad request for ` + r.URL.String() + `"}`))
	}))
	defer ts.Close()

	client := NewClient(ts.URL, 0, nil)
	_, err := client.Search(context.Background(), testFilter(), testToken)
	require.Error(t, err)
	assert.NotContains(t, err.Error(), testToken)
}

func TestClientSearchTransportError(t *testing.T) {
	t.Parallel()
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte(`[]`))
	}))
	endpoint := ts.URL
	ts.Close()

	client := NewClient(endpoint, 0, nil)
	_, err := client.Search(context.Background(), testFilter(), testToken)
	require.Error(t, err)

	var transportErr *UpstreamTransportError
	require.ErrorAs(t, err, &transportErr)
	assert.NotContains(t, err.Error(), testToken)
}

func TestClientSearchMalformedSuccessBody(t *testing.T) {
	t.Parallel()
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte(`{"not": "an array"}`))
	}))
	defer ts.Close()

	client := NewClient(ts.URL, 0, nil)
	_, err := client.Search(context.Background(), testFilter(), testToken)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to parse autoform API response")
}

// stubHTTPClient satisfies httpclient.Client without a network listener.
type stubHTTPClient struct {
	body []byte
	err  error
}

func (s *stubHTTPClient) Get(context.Context, string) ([]byte, error) {
	return s.body, s.err
}

func TestClientSearchSanitizesRawTransportErrorText(t *testing.T) {
	t.Parallel()
	// A transport error whose text embeds the full request URL, token and all,
	// the way *url.Error does.
	stub := &stubHTTPClient{err: errors.New(
		`Get "https://example.test/search?q=name%3ATest&private_access_token=` +
			testToken + `": connection refused`)}

	client := NewClientWithHTTP("https://example.test/search", stub, nil)
	_, err := client.Search(context.Background(), testFilter(), testToken)
	require.Error(t, err)

	var transportErr *UpstreamTransportError
	require.ErrorAs(t, err, &transportErr)
	assert.NotContains(t, err.Error(), testToken)
	assert.Contains(t, err.Error(), SensitiveParam+"="+RedactionMarker)
}

func upstreamOutcomeCount(t *testing.T, outcome string) float64 {
	t.Helper()
	families, err := prometheus.DefaultGatherer.Gather()
	require.NoError(t, err)
	for _, family := range families {
		if family.GetName() != "autoform_upstream_requests_total" {
			continue
		}
		for _, metric := range family.GetMetric() {
			for _, label := range metric.GetLabel() {
				if label.GetName() == "outcome" && label.GetValue() == outcome {
					return metric.GetCounter().GetValue()
				}
			}
		}
	}
	return 0
}

// Runs serially so parallel tests cannot move the success counter underneath
// the before/after comparison.
func TestClientSearchMalformedBodyNotCountedAsSuccess(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte(`{"not": "an array"}`))
	}))
	defer ts.Close()

	successBefore := upstreamOutcomeCount(t, metrics.OutcomeSuccess)
	decodeBefore := upstreamOutcomeCount(t, metrics.OutcomeDecodeError)

	client := NewClient(ts.URL, 0, nil)
	_, err := client.Search(context.Background(), testFilter(), testToken)
	require.Error(t, err)

	assert.Equal(t, successBefore, upstreamOutcomeCount(t, metrics.OutcomeSuccess))
	assert.Equal(t, decodeBefore+1, upstreamOutcomeCount(t, metrics.OutcomeDecodeError))
}
