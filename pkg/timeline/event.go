package timeline

import (
	"regexp"
	"strings"
	"time"

	"github.com/araddon/dateparse"

	"github.com/matzehuels/timeweave/pkg/errors"
)

// Bound qualifies how certain an [Event] date is.
type Bound int

const (
	// Absent means the event is not known at all.
	Absent Bound = iota
	// Exact means the event happened at At.
	Exact
	// Before means the event happened no later than At.
	Before
	// After means the event happened no earlier than At.
	After
)

// String returns the bound name.
func (b Bound) String() string {
	switch b {
	case Exact:
		return "exact"
	case Before:
		return "before"
	case After:
		return "after"
	default:
		return "absent"
	}
}

// Event is an uncertain point in time: an exact date, a bound, or nothing.
// The zero value is an absent event.
type Event struct {
	Bound Bound
	At    time.Time
}

// ExactAt returns an exact event at t.
func ExactAt(t time.Time) Event { return Event{Bound: Exact, At: t.UTC()} }

// Known reports whether the event carries a date.
func (e Event) Known() bool { return e.Bound != Absent }

// Millis returns the event date in Unix milliseconds, or 0 when absent.
func (e Event) Millis() int64 {
	if !e.Known() {
		return 0
	}
	return e.At.UnixMilli()
}

// absentKey is the sentinel used by Key for absent events.
const absentKey = "?"

// Key returns a canonical string for equality checks between events.
// Absent events normalize to "?".
func (e Event) Key() string {
	if !e.Known() {
		return absentKey
	}
	day := e.At.UTC().Format(time.RFC3339)
	switch e.Bound {
	case Before:
		return "<" + day
	case After:
		return ">" + day
	default:
		return day
	}
}

// Equal reports whether two events have the same bound and date.
func (e Event) Equal(o Event) bool { return e.Key() == o.Key() }

// String formats the event the way ParseEvent reads it.
func (e Event) String() string {
	if !e.Known() {
		return ""
	}
	day := e.At.UTC().Format("2006-01-02")
	switch e.Bound {
	case Before:
		return "<" + day
	case After:
		return ">" + day
	default:
		return day
	}
}

var (
	yearRe      = regexp.MustCompile(`^\d{4}$`)
	yearMonthRe = regexp.MustCompile(`^\d{4}-\d{2}$`)
	dayRe       = regexp.MustCompile(`^\d{4}-\d{2}-\d{2}$`)
)

// ParseEvent parses an uncertain date string.
//
// Accepted forms are "YYYY", "YYYY-MM", "YYYY-MM-DD" and anything
// dateparse understands, optionally prefixed with "<" or "before " (upper
// bound) or ">" or "after " (lower bound). The empty string is an absent
// event. All dates are interpreted in UTC.
func ParseEvent(s string) (Event, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return Event{}, nil
	}

	bound := Exact
	lower := strings.ToLower(s)
	switch {
	case strings.HasPrefix(s, "<"):
		bound, s = Before, s[1:]
	case strings.HasPrefix(s, ">"):
		bound, s = After, s[1:]
	case strings.HasPrefix(lower, "before "):
		bound, s = Before, s[len("before "):]
	case strings.HasPrefix(lower, "after "):
		bound, s = After, s[len("after "):]
	}
	s = strings.TrimSpace(s)

	t, err := parseDate(s)
	if err != nil {
		return Event{}, errors.Wrap(errors.ErrCodeInvalidDate, err, "parse date %q", s)
	}
	return Event{Bound: bound, At: t}, nil
}

// MustParseEvent is like ParseEvent but panics on malformed input.
// It is intended for fixtures and tests.
func MustParseEvent(s string) Event {
	e, err := ParseEvent(s)
	if err != nil {
		panic(err)
	}
	return e
}

func parseDate(s string) (time.Time, error) {
	switch {
	case s == "":
		return time.Time{}, errors.New(errors.ErrCodeInvalidDate, "empty date after bound")
	case yearRe.MatchString(s):
		return time.Parse("2006", s)
	case yearMonthRe.MatchString(s):
		return time.Parse("2006-01", s)
	case dayRe.MatchString(s):
		return time.Parse("2006-01-02", s)
	}
	t, err := dateparse.ParseIn(s, time.UTC)
	if err != nil {
		return time.Time{}, err
	}
	return t.UTC(), nil
}
