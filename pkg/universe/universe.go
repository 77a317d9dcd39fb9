// Package universe narrows a collection of timelines down to the ones close
// enough to an origin identity and weights them by that closeness.
package universe

import (
	"time"

	"github.com/matzehuels/timeweave/pkg/errors"
	"github.com/matzehuels/timeweave/pkg/identity"
	"github.com/matzehuels/timeweave/pkg/timeline"
)

// TrimOptions controls which timelines survive a trim.
type TrimOptions struct {
	// MaxHops is the largest hop distance a solid identity may have.
	// Negative means unlimited.
	MaxHops int
	// MinIdentityBorn drops solid identities born before it. The zero value
	// disables the threshold. Identities with an unknown birth, or only a
	// lower bound ("after ..."), are kept; an upper bound is trimmed when it
	// lies before the threshold.
	MinIdentityBorn timeline.Event
	// Hops overrides the edge kinds used for distances. Nil picks
	// identity.DefaultHopOptions for the origin's kind.
	Hops *identity.HopOptions
}

// Trim is the result of [TrimUniverse]. All timeline slices keep input order.
type Trim struct {
	Graph  *identity.Graph
	Hops   identity.Hops
	Origin string // root id of the origin

	Retained []*timeline.Timeline
	Trimmed  []*timeline.Timeline

	// SolidsRetained holds retained timelines of person, location and period
	// identities; NonSolidsRetained holds the rest of Retained.
	SolidsRetained    []*timeline.Timeline
	NonSolidsRetained []*timeline.Timeline

	PersonsCount         int
	PersonsRetainedCount int
}

// TrimUniverse builds the identity graph of timelines, measures hop
// distances from origin and partitions the timelines.
//
// A timeline is retained when it has no identity, when its identity is not
// solid, or when its identity is reachable within MaxHops and not born
// before MinIdentityBorn. Graph construction errors are returned as is; an
// origin that names no person or alias fails with UNKNOWN_ORIGIN.
func TrimUniverse(timelines []*timeline.Timeline, origin string, opts TrimOptions) (*Trim, error) {
	g, err := identity.Build(timeline.Identities(timelines))
	if err != nil {
		return nil, err
	}

	root, ok := g.Resolve(origin)
	if !ok {
		return nil, errors.New(errors.ErrCodeUnknownOrigin, "origin %q is not a known identity", origin)
	}
	hopOpts := identity.DefaultHopOptions(timeline.KindPerson)
	if opts.Hops != nil {
		hopOpts = *opts.Hops
	} else if ident, ok := g.Identity(root); ok {
		hopOpts = identity.DefaultHopOptions(ident.Kind)
	}

	tr := &Trim{
		Graph:  g,
		Hops:   g.CalculateHopsFrom(root, hopOpts),
		Origin: root,
	}
	for _, t := range timelines {
		ident := t.Identity()
		if ident != nil && ident.IsPerson() {
			tr.PersonsCount++
		}
		if !tr.keep(t, opts) {
			tr.Trimmed = append(tr.Trimmed, t)
			continue
		}

		tr.Retained = append(tr.Retained, t)
		if isSolid(t) {
			tr.SolidsRetained = append(tr.SolidsRetained, t)
		} else {
			tr.NonSolidsRetained = append(tr.NonSolidsRetained, t)
		}
		if ident != nil && ident.IsPerson() {
			tr.PersonsRetainedCount++
		}
	}
	return tr, nil
}

func (tr *Trim) keep(t *timeline.Timeline, opts TrimOptions) bool {
	if !isSolid(t) {
		return true
	}
	ident := t.Identity()
	if !tr.Hops.Finite(ident.ID) {
		return false
	}
	if opts.MaxHops >= 0 && tr.Hops.Distance(ident.ID) > float64(opts.MaxHops) {
		return false
	}
	if opts.MinIdentityBorn.Known() && bornBefore(ident.Born, opts.MinIdentityBorn.At) {
		return false
	}
	return true
}

// bornBefore reports whether born certainly lies before threshold. An exact date
// or an upper bound before threshold qualifies; a lower bound never does.
func bornBefore(born timeline.Event, threshold time.Time) bool {
	switch born.Bound {
	case timeline.Exact, timeline.Before:
		return born.At.Before(threshold)
	default:
		return false
	}
}

// Weights returns the weights of the retained timelines, aligned with
// Retained.
func (tr *Trim) Weights() []float64 {
	return HopsToWeights(tr.Retained, tr.Hops)
}

func isSolid(t *timeline.Timeline) bool {
	ident := t.Identity()
	return ident != nil && ident.Kind.Solid()
}
