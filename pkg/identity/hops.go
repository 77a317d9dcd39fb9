package identity

import (
	"math"

	"github.com/matzehuels/timeweave/pkg/timeline"
)

// HopOptions selects which family edges a distance may cross.
type HopOptions struct {
	// AllowParentHop lets a person inherit its father's or mother's
	// distance plus one.
	AllowParentHop bool
	// AllowChildHop lets a person inherit a child's distance plus one.
	AllowChildHop bool
	// AllowMarriageHop lets a person inherit a spouse's distance plus one.
	AllowMarriageHop bool
	// AllowLinkHop lets an identity inherit the distance of an identity it
	// is linked to, plus one.
	AllowLinkHop bool
}

// AllHops follows every edge kind.
var AllHops = HopOptions{AllowParentHop: true, AllowChildHop: true, AllowMarriageHop: true, AllowLinkHop: true}

// DefaultHopOptions returns the hop options for an origin of the given kind.
// Person origins spread through the whole family; places and periods only
// reach what is explicitly linked to them.
func DefaultHopOptions(kind timeline.Kind) HopOptions {
	switch kind.Normalize() {
	case timeline.KindLocation, timeline.KindPeriod:
		return HopOptions{AllowLinkHop: true}
	}
	return AllHops
}

// Hops maps person and alias ids to their distance from an origin.
// Unreachable ids map to +Inf.
type Hops map[string]float64

// Distance returns the hop distance of id. Unknown ids are unreachable.
func (h Hops) Distance(id string) float64 {
	d, ok := h[id]
	if !ok {
		return math.Inf(1)
	}
	return d
}

// Finite reports whether id is reachable.
func (h Hops) Finite(id string) bool {
	return !math.IsInf(h.Distance(id), 1)
}

// MaxFinite returns the largest finite distance among ids. ok is false when
// none of them is reachable.
func (h Hops) MaxFinite(ids []string) (float64, bool) {
	var top float64
	found := false
	for _, id := range ids {
		d := h.Distance(id)
		if math.IsInf(d, 1) {
			continue
		}
		if !found || d > top {
			top, found = d, true
		}
	}
	return top, found
}

// CalculateHopsFrom computes the hop distance of every person and alias
// from originID, which may name a person or an alias. An unknown origin
// yields a map in which everything is unreachable.
//
// Distances are relaxed over all persons until a full pass changes nothing,
// so the result equals the breadth-first shortest path length over the
// enabled edges. The graph is only read.
func (g *Graph) CalculateHopsFrom(originID string, opts HopOptions) Hops {
	persons := g.Persons()
	hops := make(Hops, g.Len())
	for _, p := range persons {
		hops[p.ID] = math.Inf(1)
	}

	root, found := g.Resolve(originID)
	if found {
		hops[root] = 0
	}

	for changed := found; changed; {
		changed = false
		for _, p := range persons {
			best := hops[p.ID]
			relax := func(id string) {
				if id == "" {
					return
				}
				if d := hops[id] + 1; d < best {
					best = d
				}
			}

			if opts.AllowParentHop {
				relax(p.Father)
				relax(p.Mother)
			}
			if opts.AllowChildHop {
				for _, c := range p.Children {
					relax(c)
				}
			}
			if opts.AllowMarriageHop {
				for _, s := range p.Spouses {
					relax(s)
				}
			}
			if opts.AllowLinkHop {
				for _, l := range p.Links {
					relax(l)
				}
			}

			if best < hops[p.ID] {
				hops[p.ID] = best
				changed = true
			}
		}
	}

	for _, a := range g.Aliases() {
		hops[a.ID] = hops[a.Root]
	}
	return hops
}
