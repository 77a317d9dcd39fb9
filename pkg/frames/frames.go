package frames

import (
	"maps"
	"slices"

	"github.com/matzehuels/timeweave/pkg/timeline"
)

// Set is a set of timelines.
type Set map[*timeline.Timeline]struct{}

// Add inserts t.
func (s Set) Add(t *timeline.Timeline) { s[t] = struct{}{} }

// Has reports whether t is in the set.
func (s Set) Has(t *timeline.Timeline) bool {
	_, ok := s[t]
	return ok
}

// Frame holds everything that happened at one timestamp.
type Frame struct {
	At int64
	// Events maps an entry title to the timelines that recorded it.
	Events map[string]Set
	// Records holds each contributing timeline's entries, in timeline order.
	Records map[*timeline.Timeline][]timeline.Entry
	// Timelines lists every timeline that contributed to the frame.
	Timelines Set
}

func newFrame(at int64) *Frame {
	return &Frame{
		At:        at,
		Events:    make(map[string]Set),
		Records:   make(map[*timeline.Timeline][]timeline.Entry),
		Timelines: make(Set),
	}
}

func (f *Frame) add(t *timeline.Timeline, e timeline.Entry) {
	set, ok := f.Events[e.Title]
	if !ok {
		set = make(Set)
		f.Events[e.Title] = set
	}
	set.Add(t)
	f.Records[t] = append(f.Records[t], e)
	f.Timelines.Add(t)
}

// Titles returns the event titles of the frame, sorted.
func (f *Frame) Titles() []string {
	return slices.Sorted(maps.Keys(f.Events))
}

// Shared counts the distinct titles that both a and b recorded in the frame.
func (f *Frame) Shared(a, b *timeline.Timeline) int {
	if a == nil || b == nil || !f.Timelines.Has(a) || !f.Timelines.Has(b) {
		return 0
	}
	n := 0
	for _, set := range f.Events {
		if set.Has(a) && set.Has(b) {
			n++
		}
	}
	return n
}

// Build merges the records of all timelines into frames ordered by
// timestamp.
func Build(timelines []*timeline.Timeline) []*Frame {
	byAt := make(map[int64]*Frame)
	for _, t := range timelines {
		for _, r := range t.Records {
			f, ok := byAt[r.At]
			if !ok {
				f = newFrame(r.At)
				byAt[r.At] = f
			}
			f.add(t, r.Entry)
		}
	}

	out := make([]*Frame, 0, len(byAt))
	for _, at := range slices.Sorted(maps.Keys(byAt)) {
		out = append(out, byAt[at])
	}
	return out
}
