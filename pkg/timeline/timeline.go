package timeline

import (
	"slices"
	"time"
)

// Entry is one thing that happened on a timeline.
type Entry struct {
	Title string
	// Generated marks entries derived from identity data (births, deaths,
	// marriages) rather than written by hand.
	Generated bool
}

// Record pairs an entry with its Unix millisecond timestamp.
type Record struct {
	At    int64
	Entry Entry
}

// Time returns the record timestamp as a UTC time.
func (r Record) Time() time.Time { return time.UnixMilli(r.At).UTC() }

// Meta describes a timeline. Identity is nil for timelines that are not
// about a genealogical subject.
type Meta struct {
	Title    string
	Identity *Identity
}

// Timeline is an ordered sequence of records.
type Timeline struct {
	Meta    Meta
	Records []Record
}

// Identity returns the referenced identity, or nil.
func (t *Timeline) Identity() *Identity { return t.Meta.Identity }

// Label returns a human-readable name: the title, else the identity name.
func (t *Timeline) Label() string {
	if t.Meta.Title != "" {
		return t.Meta.Title
	}
	if id := t.Meta.Identity; id != nil {
		return id.DisplayName()
	}
	return "(untitled)"
}

// IdentityID returns the referenced identity id, or "".
func (t *Timeline) IdentityID() string {
	if t.Meta.Identity == nil {
		return ""
	}
	return t.Meta.Identity.ID
}

// Add appends a record. Records stay sorted only if callers append in
// time order; use Sort otherwise.
func (t *Timeline) Add(at int64, title string) *Timeline {
	t.Records = append(t.Records, Record{At: at, Entry: Entry{Title: title}})
	return t
}

// Sort orders records by timestamp, keeping the relative order of records
// that share one.
func (t *Timeline) Sort() {
	slices.SortStableFunc(t.Records, func(a, b Record) int {
		switch {
		case a.At < b.At:
			return -1
		case a.At > b.At:
			return 1
		}
		return 0
	})
}

// Identities returns the identity of every timeline, aligned by index.
// Timelines without identity leave a nil hole.
func Identities(timelines []*Timeline) []*Identity {
	out := make([]*Identity, len(timelines))
	for i, t := range timelines {
		out[i] = t.Meta.Identity
	}
	return out
}

// FindByIdentity returns the first timeline referencing the identity id.
func FindByIdentity(timelines []*Timeline, id string) (*Timeline, bool) {
	for _, t := range timelines {
		if t.IdentityID() == id {
			return t, true
		}
	}
	return nil, false
}

// Index returns the position of t in timelines, or -1.
func Index(timelines []*Timeline, t *Timeline) int {
	return slices.Index(timelines, t)
}
