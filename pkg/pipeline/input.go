package pipeline

import (
	"sync"

	"github.com/matzehuels/timeweave/pkg/frames"
	"github.com/matzehuels/timeweave/pkg/identity"
	"github.com/matzehuels/timeweave/pkg/timeline"
)

// Input is a loaded, immutable timeline collection. Its identity graph and
// frames are built on first use and shared by all later analyses, so one
// Input may serve concurrent requests.
type Input struct {
	Files     []string
	Hash      string
	Timelines []*timeline.Timeline

	graphOnce sync.Once
	graph     *identity.Graph
	graphErr  error

	framesOnce sync.Once
	frames     []*frames.Frame
}

// NewInput wraps timelines that were not loaded from files.
func NewInput(hash string, timelines []*timeline.Timeline) *Input {
	return &Input{Hash: hash, Timelines: timelines}
}

// Graph returns the identity graph of all timelines.
func (in *Input) Graph() (*identity.Graph, error) {
	in.graphOnce.Do(func() {
		in.graph, in.graphErr = identity.Build(timeline.Identities(in.Timelines))
	})
	return in.graph, in.graphErr
}

// Frames returns the frames of all timelines.
func (in *Input) Frames() []*frames.Frame {
	in.framesOnce.Do(func() {
		in.frames = frames.Build(in.Timelines)
	})
	return in.frames
}

// Timeline returns the first timeline of the identity that id resolves to.
func (in *Input) Timeline(id string) (*timeline.Timeline, bool) {
	g, err := in.Graph()
	if err != nil {
		return nil, false
	}
	root, ok := g.Resolve(id)
	if !ok {
		return nil, false
	}
	return timeline.FindByIdentity(in.Timelines, root)
}
