package timeline

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGenerateLifeEvents(t *testing.T) {
	wed := MustParseEvent("1835-07-08")
	ada := &Identity{ID: "ada", Name: "Ada", Born: MustParseEvent("1815-12-10"), Died: MustParseEvent("1852-11-27"),
		Relations: []Relation{MarriedTo{Spouse: "william", Date: wed}, MotherOf{Child: "byron"}}}
	william := &Identity{ID: "william", Name: "William",
		Relations: []Relation{MarriedTo{Spouse: "ada", Date: wed}, FatherOf{Child: "byron"}}}
	byron := &Identity{ID: "byron", Name: "Byron", Born: MustParseEvent("1836-05-12")}
	uncertain := &Identity{ID: "u", Born: MustParseEvent("<1800")}

	ta := &Timeline{Meta: Meta{Identity: ada}}
	tw := &Timeline{Meta: Meta{Identity: william}}
	tb := &Timeline{Meta: Meta{Identity: byron}}
	tu := &Timeline{Meta: Meta{Identity: uncertain}}
	plain := &Timeline{Meta: Meta{Title: "News"}}

	GenerateLifeEvents([]*Timeline{ta, tw, tb, tu, plain})

	titles := func(tl *Timeline) []string {
		var out []string
		for _, r := range tl.Records {
			require.True(t, r.Entry.Generated)
			out = append(out, r.Entry.Title)
		}
		return out
	}

	assert.Equal(t, []string{"Birth of Ada", "Marriage of Ada and William", "Birth of Byron", "Death of Ada"}, titles(ta))
	assert.Equal(t, []string{"Marriage of Ada and William", "Birth of Byron"}, titles(tw))
	assert.Equal(t, []string{"Birth of Byron"}, titles(tb))
	assert.Empty(t, tu.Records, "bounded dates generate nothing")
	assert.Empty(t, plain.Records)

	// spouses' marriage entries share a timestamp
	assert.Equal(t, ta.Records[1].At, tw.Records[0].At)
}

func TestGenerateLifeEventsIsIdempotent(t *testing.T) {
	p := &Identity{ID: "p", Born: MustParseEvent("1900")}
	tl := &Timeline{Meta: Meta{Identity: p}}

	GenerateLifeEvents([]*Timeline{tl})
	GenerateLifeEvents([]*Timeline{tl})

	assert.Len(t, tl.Records, 1)
}

func TestIdentitiesAlignment(t *testing.T) {
	a := &Identity{ID: "a"}
	ts := []*Timeline{{Meta: Meta{Identity: a}}, {Meta: Meta{Title: "plain"}}}

	ids := Identities(ts)
	require.Len(t, ids, 2)
	assert.Same(t, a, ids[0])
	assert.Nil(t, ids[1])

	found, ok := FindByIdentity(ts, "a")
	assert.True(t, ok)
	assert.Same(t, ts[0], found)
	assert.Equal(t, 1, Index(ts, ts[1]))
	_, ok = FindByIdentity(ts, "zzz")
	assert.False(t, ok)
}
