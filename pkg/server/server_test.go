package server

import (
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/charmbracelet/log"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/matzehuels/timeweave/pkg/errors"
	"github.com/matzehuels/timeweave/pkg/pipeline"
	"github.com/matzehuels/timeweave/pkg/report"
	"github.com/matzehuels/timeweave/pkg/timeline"
)

const family = `
identities:
  - id: ada
    name: Ada Lovelace
    relations:
      - marriedTo: william
        date: 1835-07-08
      - motherOf: byron
  - id: william
    name: William King
    relations:
      - marriedTo: ada
        date: 1835-07-08
      - fatherOf: byron
  - id: byron
    name: Byron King
    relations:
      - fatherOf: byron-jr
  - id: byron-jr
  - id: london
    kind: location
timelines:
  - title: Ada
    identityRef: ada
    records:
      - at: 1843-09-01
        title: Notes published
  - title: Babbage
    records:
      - at: 1843-09-01
        title: Notes published
`

func newTestServer(t *testing.T) *httptest.Server {
	t.Helper()
	doc, err := timeline.Decode([]byte(family), timeline.FormatYAML)
	require.NoError(t, err)
	timelines, err := doc.Build()
	require.NoError(t, err)

	logger := log.NewWithOptions(io.Discard, log.Options{})
	s := New(pipeline.NewRunner(nil, nil, logger), pipeline.NewInput("test", timelines), nil)
	ts := httptest.NewServer(s.Handler())
	t.Cleanup(ts.Close)
	return ts
}

func get(t *testing.T, ts *httptest.Server, path string, v any) int {
	t.Helper()
	resp, err := http.Get(ts.URL + path)
	require.NoError(t, err)
	defer resp.Body.Close()
	assert.Equal(t, "application/json", resp.Header.Get("Content-Type"))
	if v != nil {
		require.NoError(t, json.NewDecoder(resp.Body).Decode(v))
	}
	return resp.StatusCode
}

func TestHealth(t *testing.T) {
	ts := newTestServer(t)
	var body map[string]any
	require.Equal(t, http.StatusOK, get(t, ts, "/healthz", &body))
	assert.Equal(t, "ok", body["status"])
	assert.Equal(t, "test", body["input"])
}

func TestHops(t *testing.T) {
	ts := newTestServer(t)

	var all HopsResponse
	require.Equal(t, http.StatusOK, get(t, ts, "/v1/hops?origin=ada", &all))
	assert.Equal(t, "ada", all.Origin)
	assert.Empty(t, all.Edges)
	assert.Equal(t, report.Distance(0), all.Hops["ada"])
	assert.Equal(t, report.Distance(1), all.Hops["william"])
	assert.Equal(t, report.Distance(2), all.Hops["byron-jr"])
	assert.True(t, all.Hops["london"].Unreachable())

	var down HopsResponse
	require.Equal(t, http.StatusOK, get(t, ts, "/v1/hops?origin=ada&parent=true&child=0", &down))
	assert.Equal(t, []string{"parent"}, down.Edges)
	assert.Equal(t, report.Distance(1), down.Hops["byron"])
	assert.True(t, down.Hops["william"].Unreachable())

	var none HopsResponse
	require.Equal(t, http.StatusOK, get(t, ts, "/v1/hops?origin=ada&parent=false&child=false&marriage=false&link=false", &none))
	assert.Empty(t, none.Edges)
	assert.Equal(t, report.Distance(0), none.Hops["ada"])
	for _, id := range []string{"william", "byron", "byron-jr", "london"} {
		assert.True(t, none.Hops[id].Unreachable(), id)
	}
}

func TestEdgeParams(t *testing.T) {
	query := func(q map[string]string) func(string) string {
		return func(k string) string { return q[k] }
	}

	edges, err := edgeParams(query(nil))
	require.NoError(t, err)
	assert.Nil(t, edges, "no flags means default edges")

	edges, err = edgeParams(query(map[string]string{"parent": "false", "link": "false"}))
	require.NoError(t, err)
	assert.NotNil(t, edges)
	assert.Empty(t, edges)

	edges, err = edgeParams(query(map[string]string{"child": "1", "marriage": "true"}))
	require.NoError(t, err)
	assert.Equal(t, []string{"child", "marriage"}, edges)

	_, err = edgeParams(query(map[string]string{"link": "maybe"}))
	assert.Error(t, err)
}

func TestTrim(t *testing.T) {
	ts := newTestServer(t)

	var rep report.Report
	require.Equal(t, http.StatusOK, get(t, ts, "/v1/trim?origin=ada&max_hops=1", &rep))
	assert.Equal(t, "ada", rep.Origin)
	assert.Equal(t, 1, rep.MaxHops)

	var trimmed []string
	for _, e := range rep.Trimmed {
		trimmed = append(trimmed, e.Identity)
	}
	assert.ElementsMatch(t, []string{"byron-jr", "london"}, trimmed)
}

func TestWeights(t *testing.T) {
	ts := newTestServer(t)

	var body WeightsResponse
	require.Equal(t, http.StatusOK, get(t, ts, "/v1/weights?origin=ada&at=1800&at=1843-09-01", &body))
	require.Len(t, body.Probes, 2)
	require.NotEmpty(t, body.Timelines)
	for i, tl := range body.Timelines {
		assert.Equal(t, tl.Weight, body.Probes[0].Weights[i], tl.Title)
		if tl.Title == "Babbage" {
			assert.Equal(t, 2.0, body.Probes[1].Weights[i])
		}
	}
}

func TestErrors(t *testing.T) {
	ts := newTestServer(t)

	tests := []struct {
		path   string
		status int
		code   errors.Code
	}{
		{"/v1/hops", http.StatusBadRequest, errors.ErrCodeInvalidInput},
		{"/v1/hops?origin=nobody", http.StatusNotFound, errors.ErrCodeUnknownOrigin},
		{"/v1/hops?origin=ada&parent=maybe", http.StatusBadRequest, errors.ErrCodeInvalidInput},
		{"/v1/trim?origin=ada&max_hops=many", http.StatusBadRequest, errors.ErrCodeInvalidInput},
		{"/v1/trim?origin=ada&min_born=someday", http.StatusBadRequest, errors.ErrCodeInvalidDate},
		{"/v1/trim?origin=nobody", http.StatusNotFound, errors.ErrCodeUnknownOrigin},
		{"/v1/weights?origin=ada", http.StatusBadRequest, errors.ErrCodeInvalidInput},
	}
	for _, tt := range tests {
		t.Run(tt.path, func(t *testing.T) {
			var body errorBody
			assert.Equal(t, tt.status, get(t, ts, tt.path, &body))
			assert.Equal(t, tt.code, body.Code)
			assert.NotEmpty(t, body.Error)
		})
	}
}

func TestStatusFor(t *testing.T) {
	assert.Equal(t, http.StatusUnprocessableEntity, statusFor(errors.New(errors.ErrCodeMissingReciprocal, "x")))
	assert.Equal(t, http.StatusInternalServerError, statusFor(io.EOF))
}
