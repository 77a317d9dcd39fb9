// Package report defines the serialized result of an analysis run.
//
// Unreachable hop distances are written as -1 in both JSON and YAML, since
// neither format has an infinity.
package report

import (
	"encoding/json"
	"fmt"
	"io"
	"math"

	"gopkg.in/yaml.v3"

	"github.com/matzehuels/timeweave/pkg/identity"
)

// Format is an output encoding.
type Format string

const (
	FormatJSON Format = "json"
	FormatYAML Format = "yaml"
)

// Report summarizes one trim-and-weight run.
type Report struct {
	RunID     string `json:"run_id" yaml:"run_id"`
	InputHash string `json:"input_hash" yaml:"input_hash"`
	Origin    string `json:"origin" yaml:"origin"`
	MaxHops   int    `json:"max_hops" yaml:"max_hops"`
	MinBorn   string `json:"min_born,omitempty" yaml:"min_born,omitempty"`

	Persons         int `json:"persons" yaml:"persons"`
	PersonsRetained int `json:"persons_retained" yaml:"persons_retained"`
	Placeholders    int `json:"placeholders" yaml:"placeholders"`
	Frames          int `json:"frames" yaml:"frames"`

	Hops     Distances  `json:"hops" yaml:"hops"`
	Retained []Timeline `json:"retained" yaml:"retained"`
	Trimmed  []Timeline `json:"trimmed" yaml:"trimmed"`
	Probes   []Probe    `json:"probes,omitempty" yaml:"probes,omitempty"`
}

// Timeline describes one input timeline.
type Timeline struct {
	Title    string   `json:"title" yaml:"title"`
	Identity string   `json:"identity,omitempty" yaml:"identity,omitempty"`
	Kind     string   `json:"kind,omitempty" yaml:"kind,omitempty"`
	Solid    bool     `json:"solid" yaml:"solid"`
	Hops     Distance `json:"hops" yaml:"hops"`
	// Weight is the baseline weight; zero for trimmed timelines.
	Weight float64 `json:"weight,omitempty" yaml:"weight,omitempty"`
}

// Probe holds the cumulative weights in effect at one instant, aligned
// with Report.Retained.
type Probe struct {
	At      int64     `json:"at" yaml:"at"`
	Date    string    `json:"date" yaml:"date"`
	Weights []float64 `json:"weights" yaml:"weights"`
}

// Distance is a hop count that encodes +Inf as -1.
type Distance float64

// Unreachable reports whether d is infinite.
func (d Distance) Unreachable() bool { return math.IsInf(float64(d), 1) }

func (d Distance) encoded() float64 {
	if d.Unreachable() {
		return -1
	}
	return float64(d)
}

func decodeDistance(v float64) Distance {
	if v < 0 {
		return Distance(math.Inf(1))
	}
	return Distance(v)
}

func (d Distance) MarshalJSON() ([]byte, error) { return json.Marshal(d.encoded()) }

func (d *Distance) UnmarshalJSON(b []byte) error {
	var v float64
	if err := json.Unmarshal(b, &v); err != nil {
		return err
	}
	*d = decodeDistance(v)
	return nil
}

func (d Distance) MarshalYAML() (any, error) { return d.encoded(), nil }

func (d *Distance) UnmarshalYAML(n *yaml.Node) error {
	var v float64
	if err := n.Decode(&v); err != nil {
		return err
	}
	*d = decodeDistance(v)
	return nil
}

// Distances maps ids to hop counts.
type Distances map[string]Distance

// FromHops converts a hop map.
func FromHops(h identity.Hops) Distances {
	out := make(Distances, len(h))
	for id, d := range h {
		out[id] = Distance(d)
	}
	return out
}

// Hops converts back to a hop map.
func (ds Distances) Hops() identity.Hops {
	out := make(identity.Hops, len(ds))
	for id, d := range ds {
		out[id] = float64(d)
	}
	return out
}

// Marshal encodes r.
func Marshal(r *Report, format Format) ([]byte, error) {
	switch format {
	case FormatJSON, "":
		return json.MarshalIndent(r, "", "  ")
	case FormatYAML:
		return yaml.Marshal(r)
	}
	return nil, fmt.Errorf("unknown report format %q", format)
}

// Unmarshal decodes a JSON report.
func Unmarshal(data []byte) (*Report, error) {
	var r Report
	if err := json.Unmarshal(data, &r); err != nil {
		return nil, err
	}
	return &r, nil
}

// Write encodes r to w.
func Write(w io.Writer, r *Report, format Format) error {
	data, err := Marshal(r, format)
	if err != nil {
		return err
	}
	_, err = w.Write(data)
	return err
}
