package frames

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/matzehuels/timeweave/pkg/timeline"
)

func named(title string) *timeline.Timeline {
	return &timeline.Timeline{Meta: timeline.Meta{Title: title}}
}

func TestBuildGroupsByTimestampAndTitle(t *testing.T) {
	a := named("a").Add(10, "X").Add(10, "Y").Add(30, "Z")
	b := named("b").Add(10, "X").Add(20, "X")
	c := named("c")

	frames := Build([]*timeline.Timeline{a, b, c})
	require.Len(t, frames, 3)

	f := frames[0]
	assert.Equal(t, int64(10), f.At)
	assert.Equal(t, []string{"X", "Y"}, f.Titles())
	assert.True(t, f.Events["X"].Has(a))
	assert.True(t, f.Events["X"].Has(b))
	assert.False(t, f.Events["Y"].Has(b))
	assert.Equal(t, []timeline.Entry{{Title: "X"}, {Title: "Y"}}, f.Records[a])
	assert.Len(t, f.Timelines, 2)
	assert.False(t, f.Timelines.Has(c))

	assert.Equal(t, int64(20), frames[1].At)
	assert.Equal(t, int64(30), frames[2].At)
	assert.Equal(t, 1, f.Shared(a, b))
	assert.Equal(t, 2, f.Shared(a, a))
	assert.Zero(t, frames[1].Shared(a, b))
}

func TestBuildSameTitleDifferentTimestamps(t *testing.T) {
	a := named("a").Add(1, "X")
	b := named("b").Add(2, "X")

	frames := Build([]*timeline.Timeline{a, b})
	require.Len(t, frames, 2)
	assert.Zero(t, frames[0].Shared(a, b))
	assert.Zero(t, frames[1].Shared(a, b))
}

func TestBuildEmpty(t *testing.T) {
	assert.Empty(t, Build(nil))
	assert.Empty(t, Build([]*timeline.Timeline{named("empty")}))
}
