// Package pipeline runs the timeweave analysis shared by the CLI and the
// HTTP server.
//
// # Stages
//
//  1. Load: read timeline documents and hash their bytes
//  2. Build: construct the identity graph
//  3. Trim: measure hop distances from the origin and drop distant timelines
//  4. Weigh: derive baseline weights and walk the weighted frames
//
// Load produces an [Input] that can be analyzed any number of times with
// different origins. Reports are cached by input hash and options.
//
//	runner := pipeline.NewRunner(cache, nil, logger)
//	in, err := runner.Load(ctx, []string{"family.yaml"}, false)
//	if err != nil {
//	    return err
//	}
//	result, err := runner.Analyze(ctx, in, pipeline.Options{Origin: "ada", MaxHops: 3})
package pipeline

import (
	"fmt"
	"io"
	"slices"
	"strings"
	"time"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/timeweave/pkg/cache"
	"github.com/matzehuels/timeweave/pkg/errors"
	"github.com/matzehuels/timeweave/pkg/identity"
	"github.com/matzehuels/timeweave/pkg/report"
	"github.com/matzehuels/timeweave/pkg/timeline"
	"github.com/matzehuels/timeweave/pkg/universe"
)

// DefaultMaxHops is the hop limit used when none is configured.
const DefaultMaxHops = 3

// Edge names accepted in Options.Edges.
const (
	EdgeParent   = "parent"
	EdgeChild    = "child"
	EdgeMarriage = "marriage"
	EdgeLink     = "link"
)

// ValidEdges is the set of supported edge names.
var ValidEdges = map[string]bool{
	EdgeParent:   true,
	EdgeChild:    true,
	EdgeMarriage: true,
	EdgeLink:     true,
}

// Options configures one analysis.
type Options struct {
	Origin string `json:"origin"`
	// MaxHops bounds the hop distance of retained solid timelines.
	// Negative means unlimited.
	MaxHops int `json:"max_hops"`
	// MinBorn is an event string; solid identities born earlier are trimmed.
	MinBorn string `json:"min_born,omitempty"`
	// Edges restricts hop traversal. Empty uses the default for the
	// origin's kind.
	Edges []string `json:"edges,omitempty"`
	// Probes are event strings at which cumulative weights are reported.
	Probes []string `json:"probes,omitempty"`
	// Refresh skips the cache lookup and overwrites the entry.
	Refresh bool `json:"refresh,omitempty"`

	Logger *log.Logger `json:"-"`
}

// Validate checks the options and fills in the logger.
func (o *Options) Validate() error {
	if strings.TrimSpace(o.Origin) == "" {
		return errors.New(errors.ErrCodeInvalidInput, "origin is required")
	}
	if _, err := ParseEdges(o.Edges); err != nil {
		return err
	}
	if _, err := timeline.ParseEvent(o.MinBorn); err != nil {
		return fmt.Errorf("min born: %w", err)
	}
	if _, err := o.probeMillis(); err != nil {
		return err
	}
	if o.Logger == nil {
		o.Logger = log.NewWithOptions(io.Discard, log.Options{})
	}
	return nil
}

// TrimOptions converts the options for universe.TrimUniverse.
func (o *Options) TrimOptions() (universe.TrimOptions, error) {
	minBorn, err := timeline.ParseEvent(o.MinBorn)
	if err != nil {
		return universe.TrimOptions{}, err
	}
	hops, err := ParseEdges(o.Edges)
	if err != nil {
		return universe.TrimOptions{}, err
	}
	return universe.TrimOptions{MaxHops: o.MaxHops, MinIdentityBorn: minBorn, Hops: hops}, nil
}

// ReportKeyOpts returns the cache key options for a report.
func (o *Options) ReportKeyOpts() cache.ReportKeyOpts {
	probes, _ := o.probeMillis()
	edges := slices.Clone(o.Edges)
	slices.Sort(edges)
	hops := strings.Join(edges, ",")
	if o.Edges != nil && len(o.Edges) == 0 {
		hops = "none"
	}
	return cache.ReportKeyOpts{
		Origin:  o.Origin,
		MaxHops: o.MaxHops,
		MinBorn: o.MinBorn,
		Hops:    hops,
		Probes:  probes,
	}
}

func (o *Options) probeMillis() ([]int64, error) {
	out := make([]int64, 0, len(o.Probes))
	for _, p := range o.Probes {
		e, err := timeline.ParseEvent(p)
		if err != nil {
			return nil, fmt.Errorf("probe %q: %w", p, err)
		}
		if !e.Known() {
			return nil, errors.New(errors.ErrCodeInvalidInput, "probe must not be empty")
		}
		out = append(out, e.Millis())
	}
	return out, nil
}

// ParseEdges turns edge names into hop options. A nil list returns nil,
// meaning "use the origin's default"; an empty non-nil list allows no hops.
func ParseEdges(edges []string) (*identity.HopOptions, error) {
	if edges == nil {
		return nil, nil
	}
	var opts identity.HopOptions
	for _, e := range edges {
		switch strings.ToLower(strings.TrimSpace(e)) {
		case EdgeParent:
			opts.AllowParentHop = true
		case EdgeChild:
			opts.AllowChildHop = true
		case EdgeMarriage:
			opts.AllowMarriageHop = true
		case EdgeLink:
			opts.AllowLinkHop = true
		default:
			return nil, errors.New(errors.ErrCodeInvalidInput, "invalid edge %q (must be one of: parent, child, marriage, link)", e)
		}
	}
	return &opts, nil
}

// HopsKeyOpts mirrors hop options for cache keys.
func HopsKeyOpts(o identity.HopOptions) cache.HopsKeyOpts {
	return cache.HopsKeyOpts{
		Parent:   o.AllowParentHop,
		Child:    o.AllowChildHop,
		Marriage: o.AllowMarriageHop,
		Link:     o.AllowLinkHop,
	}
}

// Result is the outcome of [Runner.Analyze].
type Result struct {
	Report *report.Report
	// Trim is nil when the report came from the cache.
	Trim      *universe.Trim
	Stats     Stats
	CacheInfo CacheInfo
}

// Stats holds stage timings.
type Stats struct {
	TrimTime   time.Duration
	FramesTime time.Duration
}

// CacheInfo tells which results came from the cache.
type CacheInfo struct {
	ReportHit bool
}
