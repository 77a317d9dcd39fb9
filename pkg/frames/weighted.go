package frames

import (
	"iter"
	"slices"

	"github.com/matzehuels/timeweave/pkg/timeline"
)

// WeightedFrame is a frame together with the cumulative weights in effect
// once it has happened. Weights is aligned with the iterator's timelines
// and owned by the caller.
type WeightedFrame struct {
	At      int64
	Frame   *Frame
	Weights []float64
}

// Weighted walks frames in time order while accumulating weights.
//
// For every frame, each timeline's weight grows by its baseline weight
// times the number of titles it shares with the origin in that frame.
// Weights start at the baseline.
type Weighted struct {
	timelines []*timeline.Timeline
	baseline  []float64
	origin    *timeline.Timeline
	frames    []*Frame
	pos       int
	current   []float64
}

// NewWeighted builds the frames of timelines and returns an iterator over
// them. baseline is aligned with timelines; missing entries count as 1.
// The origin's records always take part in the frames, whether or not the
// origin is one of the weighted timelines. A nil origin shares nothing, so
// weights stay at the baseline.
func NewWeighted(timelines []*timeline.Timeline, baseline []float64, origin *timeline.Timeline) *Weighted {
	sources := timelines
	if origin != nil && !slices.Contains(timelines, origin) {
		sources = append(slices.Clip(timelines), origin)
	}
	return FromFrames(Build(sources), timelines, baseline, origin)
}

// FromFrames is like NewWeighted but reuses frames built earlier.
func FromFrames(frames []*Frame, timelines []*timeline.Timeline, baseline []float64, origin *timeline.Timeline) *Weighted {
	base := make([]float64, len(timelines))
	for i := range base {
		base[i] = 1
		if i < len(baseline) {
			base[i] = baseline[i]
		}
	}
	return &Weighted{
		timelines: timelines,
		baseline:  base,
		origin:    origin,
		frames:    frames,
		current:   slices.Clone(base),
	}
}

// Next advances to the next frame. ok is false once all frames are used.
func (w *Weighted) Next() (WeightedFrame, bool) {
	if w.pos >= len(w.frames) {
		return WeightedFrame{}, false
	}
	f := w.frames[w.pos]
	w.pos++

	for i, t := range w.timelines {
		if co := f.Shared(t, w.origin); co > 0 {
			w.current[i] += float64(co) * w.baseline[i]
		}
	}
	return WeightedFrame{At: f.At, Frame: f, Weights: slices.Clone(w.current)}, true
}

// All returns the remaining frames as a sequence. Breaking out of the loop
// leaves the iterator positioned after the last frame yielded.
func (w *Weighted) All() iter.Seq[WeightedFrame] {
	return func(yield func(WeightedFrame) bool) {
		for {
			wf, ok := w.Next()
			if !ok || !yield(wf) {
				return
			}
		}
	}
}

// Current returns a copy of the weights after the last frame consumed, or
// the baseline if none was.
func (w *Weighted) Current() []float64 { return slices.Clone(w.current) }

// Timelines returns the timelines the weights are aligned with.
func (w *Weighted) Timelines() []*timeline.Timeline { return w.timelines }

// Probe advances w through every frame at or before at and returns the
// weights in effect at that time. Probes must not go back in time: frames
// already consumed are not revisited.
func Probe(w *Weighted, at int64) []float64 {
	for w.pos < len(w.frames) && w.frames[w.pos].At <= at {
		w.Next()
	}
	return w.Current()
}

// ProbeAll probes every timestamp in ats, which need not be sorted. The
// result is aligned with ats.
func ProbeAll(w *Weighted, ats []int64) [][]float64 {
	order := make([]int, len(ats))
	for i := range order {
		order[i] = i
	}
	slices.SortStableFunc(order, func(a, b int) int {
		switch {
		case ats[a] < ats[b]:
			return -1
		case ats[a] > ats[b]:
			return 1
		}
		return 0
	})

	out := make([][]float64, len(ats))
	for _, i := range order {
		out[i] = Probe(w, ats[i])
	}
	return out
}
