package timeline

import (
	"slices"
	"strings"
)

// GenerateLifeEvents adds generated entries derived from identity data to
// the timelines: births (on the person's and both parents' timelines),
// deaths, and marriages (on both spouses' timelines). Only exact dates
// produce entries. Marriage titles name both spouses in sorted order so the
// two spouses' entries carry the same title and land in the same frame.
//
// Existing records are kept; the timelines are re-sorted afterwards.
func GenerateLifeEvents(timelines []*Timeline) {
	byIdentity := make(map[string][]*Timeline)
	names := make(map[string]string)
	for _, t := range timelines {
		if id := t.Identity(); id != nil {
			byIdentity[id.ID] = append(byIdentity[id.ID], t)
			names[id.ID] = id.DisplayName()
		}
	}
	nameOf := func(id string) string {
		if n, ok := names[id]; ok {
			return n
		}
		return id
	}

	parents := make(map[string][]string)
	for _, t := range timelines {
		id := t.Identity()
		if id == nil {
			continue
		}
		for _, child := range id.Children() {
			parents[child] = append(parents[child], id.ID)
		}
	}

	touched := make(map[*Timeline]bool)
	add := func(identityID string, at int64, title string) {
		ts := byIdentity[identityID]
		if len(ts) == 0 {
			return
		}
		// one entry per identity, on its first timeline
		t := ts[0]
		for _, r := range t.Records {
			if r.At == at && r.Entry.Title == title {
				return
			}
		}
		t.Records = append(t.Records, Record{At: at, Entry: Entry{Title: title, Generated: true}})
		touched[t] = true
	}

	seen := make(map[string]bool)
	for _, t := range timelines {
		id := t.Identity()
		if id == nil || seen[id.ID] {
			continue
		}
		seen[id.ID] = true

		if id.Born.Bound == Exact {
			title := "Birth of " + id.DisplayName()
			add(id.ID, id.Born.Millis(), title)
			for _, p := range parents[id.ID] {
				add(p, id.Born.Millis(), title)
			}
		}
		if id.Died.Bound == Exact {
			add(id.ID, id.Died.Millis(), "Death of "+id.DisplayName())
		}
		for _, m := range id.Marriages() {
			if m.Date.Bound != Exact {
				continue
			}
			pair := []string{id.DisplayName(), nameOf(m.Spouse)}
			slices.Sort(pair)
			title := "Marriage of " + strings.Join(pair, " and ")
			add(id.ID, m.Date.Millis(), title)
			add(m.Spouse, m.Date.Millis(), title)
		}
	}

	for t := range touched {
		t.Sort()
	}
}
