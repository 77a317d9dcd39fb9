package timeline

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/matzehuels/timeweave/pkg/errors"
)

func TestParseEvent(t *testing.T) {
	day := func(y int, m time.Month, d int) time.Time { return time.Date(y, m, d, 0, 0, 0, 0, time.UTC) }

	tests := []struct {
		in    string
		bound Bound
		at    time.Time
	}{
		{"", Absent, time.Time{}},
		{"   ", Absent, time.Time{}},
		{"1815", Exact, day(1815, 1, 1)},
		{"1815-12", Exact, day(1815, 12, 1)},
		{"1815-12-10", Exact, day(1815, 12, 10)},
		{"<1900", Before, day(1900, 1, 1)},
		{"> 1900-05", After, day(1900, 5, 1)},
		{"before 1852-11-27", Before, day(1852, 11, 27)},
		{"After 1701", After, day(1701, 1, 1)},
		{"2006-01-02T15:04:05Z", Exact, time.Date(2006, 1, 2, 15, 4, 5, 0, time.UTC)},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			e, err := ParseEvent(tt.in)
			require.NoError(t, err)
			assert.Equal(t, tt.bound, e.Bound)
			assert.True(t, tt.at.Equal(e.At), "at = %v, want %v", e.At, tt.at)
		})
	}
}

func TestParseEventInvalid(t *testing.T) {
	for _, in := range []string{"<", "after ", "??", "1815-13-45"} {
		_, err := ParseEvent(in)
		require.Error(t, err, in)
		assert.True(t, errors.Is(err, errors.ErrCodeInvalidDate), "%q: %v", in, err)
	}
}

func TestEventKey(t *testing.T) {
	assert.Equal(t, "?", Event{}.Key())
	assert.True(t, MustParseEvent("1835-07-08").Equal(MustParseEvent("1835-07-08")))
	assert.False(t, MustParseEvent("1835-07-08").Equal(MustParseEvent("<1835-07-08")))
	assert.False(t, MustParseEvent("1835").Equal(Event{}))
	assert.True(t, Event{}.Equal(Event{}))
}

func TestEventString(t *testing.T) {
	assert.Equal(t, "", Event{}.String())
	assert.Equal(t, "1835-07-08", MustParseEvent("1835-07-08").String())
	assert.Equal(t, "<1900-01-01", MustParseEvent("before 1900").String())
	assert.Equal(t, ">1900-01-01", MustParseEvent(">1900").String())
}

func TestEventMillis(t *testing.T) {
	assert.Equal(t, int64(0), Event{}.Millis())
	assert.Equal(t, int64(0), MustParseEvent("1970-01-01").Millis())
	assert.Equal(t, int64(86400000), MustParseEvent("1970-01-02").Millis())
}

func TestKind(t *testing.T) {
	assert.True(t, Kind("").Valid())
	assert.False(t, Kind("robot").Valid())
	assert.Equal(t, KindPerson, Kind("").Normalize())

	for _, k := range []Kind{"", KindPerson, KindLocation, KindPeriod} {
		assert.True(t, k.Solid(), k)
	}
	for _, k := range []Kind{KindPlain, KindMedia} {
		assert.False(t, k.Solid(), k)
	}
}

func TestIdentityRelations(t *testing.T) {
	id := &Identity{
		ID: "a",
		Relations: []Relation{
			FatherOf{Child: "b"},
			MarriedTo{Spouse: "c", Alias: "a2"},
			LinkedTo{Other: "paris"},
			FatherOf{Child: "d"},
		},
	}

	assert.Equal(t, []string{"b", "d"}, id.Children())
	assert.Len(t, id.Marriages(), 1)
	assert.Equal(t, "c", id.Marriages()[0].Target())
	assert.True(t, id.DeclaresFather())
	assert.False(t, id.DeclaresMother())
	assert.Equal(t, "a", id.DisplayName())
	assert.True(t, id.IsPerson())
}
