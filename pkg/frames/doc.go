// Package frames merges timelines into chronological frames and walks them
// with cumulative per-timeline weights.
//
// A [Frame] gathers every entry, across all timelines, that shares one exact
// timestamp. Entries with identical titles are grouped, which is how the
// same event recorded on several timelines is recognized.
//
// A [Weighted] iterator walks the frames in time order. At each frame, every
// timeline that shares an event title with the origin timeline gains its
// baseline weight once per shared title:
//
//	w := frames.NewWeighted(timelines, baseline, origin)
//	for wf := range w.All() {
//		fmt.Println(wf.At, wf.Weights)
//	}
//
// The iterator only moves forward. Stopping early leaves no trace; to start
// over, create a new one.
package frames
