package report

import (
	"bytes"
	"math"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"

	"github.com/matzehuels/timeweave/pkg/identity"
)

func sample() *Report {
	return &Report{
		RunID:   "run",
		Origin:  "ada",
		MaxHops: 2,
		Hops:    FromHops(identity.Hops{"ada": 0, "byron": 1, "stranger": math.Inf(1)}),
		Retained: []Timeline{
			{Title: "Ada", Identity: "ada", Kind: "person", Solid: true, Hops: 0, Weight: 2},
			{Title: "News", Hops: Distance(math.Inf(1)), Weight: 1},
		},
		Probes: []Probe{{At: 0, Date: "1970-01-01", Weights: []float64{2, 1}}},
	}
}

func TestJSONEncodesUnreachableAsMinusOne(t *testing.T) {
	data, err := Marshal(sample(), FormatJSON)
	require.NoError(t, err)
	assert.Contains(t, string(data), `"stranger": -1`)

	back, err := Unmarshal(data)
	require.NoError(t, err)
	hops := back.Hops.Hops()
	assert.True(t, math.IsInf(hops["stranger"], 1))
	assert.Equal(t, 1.0, hops["byron"])
	assert.True(t, back.Retained[1].Hops.Unreachable())
}

func TestYAML(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, Write(&buf, sample(), FormatYAML))
	assert.True(t, strings.Contains(buf.String(), "stranger: -1"), buf.String())

	var back Report
	require.NoError(t, yaml.Unmarshal(buf.Bytes(), &back))
	assert.True(t, back.Hops["stranger"].Unreachable())
	assert.Equal(t, Distance(0), back.Hops["ada"])
}

func TestUnknownFormat(t *testing.T) {
	_, err := Marshal(sample(), Format("xml"))
	assert.Error(t, err)
}
