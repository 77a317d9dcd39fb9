package universe

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/matzehuels/timeweave/pkg/errors"
	"github.com/matzehuels/timeweave/pkg/identity"
	"github.com/matzehuels/timeweave/pkg/timeline"
)

func tl(id *timeline.Identity) *timeline.Timeline {
	return &timeline.Timeline{Meta: timeline.Meta{Identity: id}}
}

func chain() []*timeline.Timeline {
	return []*timeline.Timeline{
		tl(&timeline.Identity{ID: "A", Born: timeline.MustParseEvent("1800"), Relations: []timeline.Relation{timeline.FatherOf{Child: "B"}}}),
		tl(&timeline.Identity{ID: "B", Born: timeline.MustParseEvent("1830"), Relations: []timeline.Relation{timeline.FatherOf{Child: "C"}}}),
		tl(&timeline.Identity{ID: "C", Born: timeline.MustParseEvent("1860")}),
	}
}

func ids(ts []*timeline.Timeline) []string {
	var out []string
	for _, t := range ts {
		out = append(out, t.Label())
	}
	return out
}

func TestTrimMaxHops(t *testing.T) {
	tr, err := TrimUniverse(chain(), "A", TrimOptions{MaxHops: 1})
	require.NoError(t, err)

	assert.Equal(t, []string{"A", "B"}, ids(tr.Retained))
	assert.Equal(t, []string{"C"}, ids(tr.Trimmed))
	assert.Equal(t, []string{"A", "B"}, ids(tr.SolidsRetained))
	assert.Empty(t, tr.NonSolidsRetained)
	assert.Equal(t, 3, tr.PersonsCount)
	assert.Equal(t, 2, tr.PersonsRetainedCount)
	assert.Equal(t, "A", tr.Origin)
	assert.Equal(t, 2.0, tr.Hops["C"])
}

func TestTrimUnlimited(t *testing.T) {
	tr, err := TrimUniverse(chain(), "C", TrimOptions{MaxHops: -1})
	require.NoError(t, err)
	assert.Len(t, tr.Retained, 3)
	assert.Empty(t, tr.Trimmed)
}

func TestTrimMinBorn(t *testing.T) {
	ts := chain()
	ts = append(ts, tl(&timeline.Identity{ID: "D", Relations: []timeline.Relation{timeline.FatherOf{Child: "A"}}}))

	tr, err := TrimUniverse(ts, "A", TrimOptions{MaxHops: -1, MinIdentityBorn: timeline.MustParseEvent("1830")})
	require.NoError(t, err)

	assert.Equal(t, []string{"B", "C", "D"}, ids(tr.Retained), "unknown births are not trimmed")
	assert.Equal(t, []string{"A"}, ids(tr.Trimmed))
}

func TestTrimMinBornBounds(t *testing.T) {
	tests := []struct {
		name string
		born string
		keep bool
	}{
		{"after bound before threshold", "after 1700", true},
		{"after bound past threshold", "after 1840", true},
		{"before bound before threshold", "before 1700", false},
		{"before bound past threshold", "before 1840", true},
		{"exact past threshold", "1840", true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ts := chain()
			ts = append(ts, tl(&timeline.Identity{
				ID:        "D",
				Born:      timeline.MustParseEvent(tt.born),
				Relations: []timeline.Relation{timeline.FatherOf{Child: "A"}},
			}))

			tr, err := TrimUniverse(ts, "A", TrimOptions{MaxHops: -1, MinIdentityBorn: timeline.MustParseEvent("1830")})
			require.NoError(t, err)

			if tt.keep {
				assert.Equal(t, []string{"B", "C", "D"}, ids(tr.Retained))
				assert.Equal(t, []string{"A"}, ids(tr.Trimmed))
			} else {
				assert.Equal(t, []string{"B", "C"}, ids(tr.Retained))
				assert.Equal(t, []string{"A", "D"}, ids(tr.Trimmed))
			}
		})
	}
}

func TestTrimKeepsNonSolids(t *testing.T) {
	ts := chain()
	news := &timeline.Timeline{Meta: timeline.Meta{Title: "News"}}
	song := tl(&timeline.Identity{ID: "song", Kind: timeline.KindMedia})
	far := tl(&timeline.Identity{ID: "stranger"})
	ts = append(ts, news, song, far)

	tr, err := TrimUniverse(ts, "A", TrimOptions{MaxHops: 0})
	require.NoError(t, err)

	assert.Equal(t, []string{"A", "News", "song"}, ids(tr.Retained))
	assert.Equal(t, []string{"A"}, ids(tr.SolidsRetained))
	assert.Equal(t, []string{"News", "song"}, ids(tr.NonSolidsRetained))
	assert.Equal(t, []string{"B", "C", "stranger"}, ids(tr.Trimmed))
	assert.Equal(t, 4, tr.PersonsCount)
	assert.Equal(t, 1, tr.PersonsRetainedCount)
}

func TestTrimIsIdempotent(t *testing.T) {
	ts := chain()
	first, err := TrimUniverse(ts, "B", TrimOptions{MaxHops: 1})
	require.NoError(t, err)
	second, err := TrimUniverse(ts, "B", TrimOptions{MaxHops: 1})
	require.NoError(t, err)

	assert.Equal(t, first.Retained, second.Retained)
	assert.Equal(t, first.Trimmed, second.Trimmed)
	assert.Equal(t, first.Hops, second.Hops)

	// trimming the retained set again changes nothing
	again, err := TrimUniverse(first.Retained, "B", TrimOptions{MaxHops: 1})
	require.NoError(t, err)
	assert.Equal(t, ids(first.Retained), ids(again.Retained))
}

func TestTrimHopOverride(t *testing.T) {
	only := identity.HopOptions{AllowChildHop: true}
	tr, err := TrimUniverse(chain(), "B", TrimOptions{MaxHops: -1, Hops: &only})
	require.NoError(t, err)
	assert.Equal(t, []string{"A", "B"}, ids(tr.Retained))
}

func TestTrimLocationOrigin(t *testing.T) {
	paris := &timeline.Identity{ID: "paris", Kind: timeline.KindLocation}
	ts := chain()
	ts[1].Meta.Identity.Relations = append(ts[1].Meta.Identity.Relations, timeline.LinkedTo{Other: "paris"})
	ts = append(ts, tl(paris))

	tr, err := TrimUniverse(ts, "paris", TrimOptions{MaxHops: -1})
	require.NoError(t, err)
	assert.Equal(t, []string{"B", "paris"}, ids(tr.Retained))
}

func TestTrimErrors(t *testing.T) {
	_, err := TrimUniverse(chain(), "nobody", TrimOptions{MaxHops: -1})
	assert.True(t, errors.Is(err, errors.ErrCodeUnknownOrigin), err)

	_, err = TrimUniverse(chain(), "", TrimOptions{MaxHops: -1})
	assert.True(t, errors.Is(err, errors.ErrCodeUnknownOrigin), err)

	broken := []*timeline.Timeline{
		tl(&timeline.Identity{ID: "A", Relations: []timeline.Relation{timeline.MarriedTo{Spouse: "B"}}}),
		tl(&timeline.Identity{ID: "B"}),
	}
	_, err = TrimUniverse(broken, "A", TrimOptions{MaxHops: -1})
	assert.True(t, errors.Is(err, errors.ErrCodeMissingReciprocal), err)
}
