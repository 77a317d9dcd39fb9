package universe

import (
	"github.com/matzehuels/timeweave/pkg/identity"
	"github.com/matzehuels/timeweave/pkg/timeline"
)

// HopsToWeights turns hop distances into one weight per timeline, aligned by
// index. With rangeMax the largest finite distance among the timelines'
// identities, a timeline at distance d weighs rangeMax-d+1. Unreachable
// timelines and timelines without identity weigh 1.
func HopsToWeights(timelines []*timeline.Timeline, hops identity.Hops) []float64 {
	ids := make([]string, 0, len(timelines))
	for _, t := range timelines {
		if id := t.IdentityID(); id != "" {
			ids = append(ids, id)
		}
	}
	rangeMax, _ := hops.MaxFinite(ids)

	weights := make([]float64, len(timelines))
	for i, t := range timelines {
		weights[i] = 1
		if id := t.IdentityID(); id != "" && hops.Finite(id) {
			weights[i] = rangeMax - hops.Distance(id) + 1
		}
	}
	return weights
}
