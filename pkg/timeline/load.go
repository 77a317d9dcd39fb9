package timeline

import (
	"bytes"
	"encoding/json"
	"fmt"
	"math"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/BurntSushi/toml"
	"gopkg.in/yaml.v3"

	"github.com/matzehuels/timeweave/pkg/errors"
)

// Format is a document encoding.
type Format string

const (
	FormatJSON Format = "json"
	FormatYAML Format = "yaml"
	FormatTOML Format = "toml"
)

// FormatFromPath infers the document format from a file extension.
func FormatFromPath(path string) (Format, error) {
	if err := errors.ValidateDocumentPath(path); err != nil {
		return "", err
	}
	switch strings.ToLower(filepath.Ext(path)) {
	case ".json":
		return FormatJSON, nil
	case ".toml":
		return FormatTOML, nil
	default:
		return FormatYAML, nil
	}
}

// Document is the on-disk shape of a timeline collection.
//
// Dates in identity fields (born, died, marriage date) accept strings in any
// form ParseEvent reads, native YAML/TOML dates, or a bare integer year.
// Record timestamps accept the same strings and native dates, or an integer
// number of Unix milliseconds.
type Document struct {
	Identities []IdentityDoc `json:"identities,omitempty" yaml:"identities,omitempty" toml:"identities,omitempty"`
	Timelines  []TimelineDoc `json:"timelines,omitempty" yaml:"timelines,omitempty" toml:"timelines,omitempty"`
}

// IdentityDoc is the serialized form of an Identity.
type IdentityDoc struct {
	ID        string        `json:"id" yaml:"id" toml:"id"`
	Name      string        `json:"name,omitempty" yaml:"name,omitempty" toml:"name,omitempty"`
	Kind      string        `json:"kind,omitempty" yaml:"kind,omitempty" toml:"kind,omitempty"`
	Born      any           `json:"born,omitempty" yaml:"born,omitempty" toml:"born,omitempty"`
	Died      any           `json:"died,omitempty" yaml:"died,omitempty" toml:"died,omitempty"`
	Relations []RelationDoc `json:"relations,omitempty" yaml:"relations,omitempty" toml:"relations,omitempty"`
}

// RelationDoc is the serialized form of a Relation. Exactly one of
// FatherOf, MotherOf, MarriedTo and LinkedTo must be set.
type RelationDoc struct {
	FatherOf  string `json:"fatherOf,omitempty" yaml:"fatherOf,omitempty" toml:"fatherOf,omitempty"`
	MotherOf  string `json:"motherOf,omitempty" yaml:"motherOf,omitempty" toml:"motherOf,omitempty"`
	MarriedTo string `json:"marriedTo,omitempty" yaml:"marriedTo,omitempty" toml:"marriedTo,omitempty"`
	LinkedTo  string `json:"linkedTo,omitempty" yaml:"linkedTo,omitempty" toml:"linkedTo,omitempty"`
	Date      any    `json:"date,omitempty" yaml:"date,omitempty" toml:"date,omitempty"`
	Alias     string `json:"alias,omitempty" yaml:"alias,omitempty" toml:"alias,omitempty"`
}

// TimelineDoc is the serialized form of a Timeline. Identity embeds an
// identity record; IdentityRef points at one declared under "identities".
type TimelineDoc struct {
	Title       string       `json:"title,omitempty" yaml:"title,omitempty" toml:"title,omitempty"`
	Identity    *IdentityDoc `json:"identity,omitempty" yaml:"identity,omitempty" toml:"identity,omitempty"`
	IdentityRef string       `json:"identityRef,omitempty" yaml:"identityRef,omitempty" toml:"identityRef,omitempty"`
	Records     []RecordDoc  `json:"records,omitempty" yaml:"records,omitempty" toml:"records,omitempty"`
}

// RecordDoc is the serialized form of a Record.
type RecordDoc struct {
	At        any    `json:"at" yaml:"at" toml:"at"`
	Title     string `json:"title" yaml:"title" toml:"title"`
	Generated bool   `json:"generated,omitempty" yaml:"generated,omitempty" toml:"generated,omitempty"`
}

// Decode parses a document in the given format.
func Decode(data []byte, format Format) (*Document, error) {
	var doc Document
	var err error
	switch format {
	case FormatJSON:
		dec := json.NewDecoder(bytes.NewReader(data))
		dec.UseNumber()
		err = dec.Decode(&doc)
	case FormatYAML:
		err = yaml.Unmarshal(data, &doc)
	case FormatTOML:
		err = toml.Unmarshal(data, &doc)
	default:
		return nil, errors.New(errors.ErrCodeInvalidDocument, "unknown document format %q", format)
	}
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidDocument, err, "decode %s document", format)
	}
	return &doc, nil
}

// ReadFile reads and decodes one document file.
func ReadFile(path string) (*Document, []byte, error) {
	format, err := FormatFromPath(path)
	if err != nil {
		return nil, nil, err
	}
	data, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return nil, nil, errors.Wrap(errors.ErrCodeFileNotFound, err, "open %s", path)
	}
	if err != nil {
		return nil, nil, fmt.Errorf("read %s: %w", path, err)
	}
	doc, err := Decode(data, format)
	if err != nil {
		return nil, nil, fmt.Errorf("%s: %w", path, err)
	}
	return doc, data, nil
}

// LoadFiles reads every document and builds one timeline collection from
// their union, so identity references may cross files.
func LoadFiles(paths ...string) ([]*Timeline, error) {
	merged := &Document{}
	for _, p := range paths {
		doc, _, err := ReadFile(p)
		if err != nil {
			return nil, err
		}
		merged.Merge(doc)
	}
	return merged.Build()
}

// Merge appends other's identities and timelines to d.
func (d *Document) Merge(other *Document) {
	d.Identities = append(d.Identities, other.Identities...)
	d.Timelines = append(d.Timelines, other.Timelines...)
}

// Build converts the document into timelines.
//
// Identities declared under "identities" that no timeline references get an
// empty timeline of their own, appended after the declared timelines, so
// every identity takes part in graph construction. Records are sorted by
// timestamp.
func (d *Document) Build() ([]*Timeline, error) {
	byID := make(map[string]*Identity, len(d.Identities))
	var order []*Identity

	for i := range d.Identities {
		id, err := d.Identities[i].identity()
		if err != nil {
			return nil, err
		}
		if _, dup := byID[id.ID]; dup {
			return nil, errors.New(errors.ErrCodeDuplicateIdentity, "identity %q declared twice", id.ID)
		}
		byID[id.ID] = id
		order = append(order, id)
	}

	referenced := make(map[string]bool)
	timelines := make([]*Timeline, 0, len(d.Timelines)+len(order))

	for i, td := range d.Timelines {
		t := &Timeline{Meta: Meta{Title: td.Title}}
		switch {
		case td.Identity != nil && td.IdentityRef != "":
			return nil, errors.New(errors.ErrCodeInvalidDocument, "timeline %d sets both identity and identityRef", i)
		case td.Identity != nil:
			id, err := td.Identity.identity()
			if err != nil {
				return nil, err
			}
			if _, dup := byID[id.ID]; dup {
				return nil, errors.New(errors.ErrCodeDuplicateIdentity, "identity %q declared twice", id.ID)
			}
			byID[id.ID] = id
			t.Meta.Identity = id
		case td.IdentityRef != "":
			id, ok := byID[td.IdentityRef]
			if !ok {
				return nil, errors.New(errors.ErrCodeLookupFailed, "timeline %d references unknown identity %q", i, td.IdentityRef)
			}
			t.Meta.Identity = id
		}
		if t.Meta.Identity != nil {
			referenced[t.Meta.Identity.ID] = true
		}

		for j, rd := range td.Records {
			at, err := recordMillis(rd.At)
			if err != nil {
				return nil, fmt.Errorf("timeline %q record %d: %w", t.Label(), j, err)
			}
			t.Records = append(t.Records, Record{At: at, Entry: Entry{Title: rd.Title, Generated: rd.Generated}})
		}
		t.Sort()
		timelines = append(timelines, t)
	}

	for _, id := range order {
		if !referenced[id.ID] {
			timelines = append(timelines, &Timeline{Meta: Meta{Title: id.DisplayName(), Identity: id}})
		}
	}
	return timelines, nil
}

func (d IdentityDoc) identity() (*Identity, error) {
	if err := errors.ValidateIdentityID(d.ID); err != nil {
		return nil, err
	}
	kind := Kind(strings.ToLower(d.Kind))
	if !kind.Valid() {
		return nil, errors.New(errors.ErrCodeInvalidDocument, "identity %q has unknown kind %q", d.ID, d.Kind)
	}

	born, err := eventValue(d.Born)
	if err != nil {
		return nil, fmt.Errorf("identity %q born: %w", d.ID, err)
	}
	died, err := eventValue(d.Died)
	if err != nil {
		return nil, fmt.Errorf("identity %q died: %w", d.ID, err)
	}

	id := &Identity{ID: d.ID, Name: d.Name, Kind: kind.Normalize(), Born: born, Died: died}
	for i, rd := range d.Relations {
		rel, err := rd.relation()
		if err != nil {
			return nil, fmt.Errorf("identity %q relation %d: %w", d.ID, i, err)
		}
		id.Relations = append(id.Relations, rel)
	}
	return id, nil
}

func (d RelationDoc) relation() (Relation, error) {
	set := 0
	for _, v := range []string{d.FatherOf, d.MotherOf, d.MarriedTo, d.LinkedTo} {
		if v != "" {
			set++
		}
	}
	if set != 1 {
		return nil, errors.New(errors.ErrCodeInvalidDocument, "relation must set exactly one of fatherOf, motherOf, marriedTo, linkedTo")
	}

	switch {
	case d.FatherOf != "":
		return FatherOf{Child: d.FatherOf}, nil
	case d.MotherOf != "":
		return MotherOf{Child: d.MotherOf}, nil
	case d.LinkedTo != "":
		return LinkedTo{Other: d.LinkedTo}, nil
	}
	date, err := eventValue(d.Date)
	if err != nil {
		return nil, fmt.Errorf("marriage date: %w", err)
	}
	return MarriedTo{Spouse: d.MarriedTo, Date: date, Alias: d.Alias}, nil
}

// eventValue converts a decoded date field into an Event. Integers are years.
func eventValue(v any) (Event, error) {
	switch v := v.(type) {
	case nil:
		return Event{}, nil
	case string:
		return ParseEvent(v)
	case time.Time:
		return ExactAt(wallUTC(v)), nil
	}
	n, ok, err := integer(v)
	if err != nil {
		return Event{}, err
	}
	if !ok {
		return Event{}, errors.New(errors.ErrCodeInvalidDate, "unsupported date value %v (%T)", v, v)
	}
	return ExactAt(time.Date(int(n), time.January, 1, 0, 0, 0, 0, time.UTC)), nil
}

// recordMillis converts a decoded record timestamp. Integers are Unix
// milliseconds; strings and native dates must carry a date.
func recordMillis(v any) (int64, error) {
	switch v := v.(type) {
	case nil:
		return 0, errors.New(errors.ErrCodeInvalidDate, "record has no timestamp")
	case string:
		e, err := ParseEvent(v)
		if err != nil {
			return 0, err
		}
		if !e.Known() {
			return 0, errors.New(errors.ErrCodeInvalidDate, "record has an empty timestamp")
		}
		return e.Millis(), nil
	case time.Time:
		return wallUTC(v).UnixMilli(), nil
	}
	n, ok, err := integer(v)
	if err != nil {
		return 0, err
	}
	if !ok {
		return 0, errors.New(errors.ErrCodeInvalidDate, "unsupported timestamp %v (%T)", v, v)
	}
	return n, nil
}

// wallUTC reads TOML local dates and datetimes, which carry a "*-local"
// zone set to the machine offset, as UTC wall-clock times.
func wallUTC(t time.Time) time.Time {
	if strings.HasSuffix(t.Location().String(), "-local") {
		return time.Date(t.Year(), t.Month(), t.Day(), t.Hour(), t.Minute(), t.Second(), t.Nanosecond(), time.UTC)
	}
	return t.UTC()
}

func integer(v any) (int64, bool, error) {
	switch v := v.(type) {
	case int:
		return int64(v), true, nil
	case int64:
		return v, true, nil
	case uint64:
		if v > math.MaxInt64 {
			return 0, false, errors.New(errors.ErrCodeInvalidDate, "timestamp %d out of range", v)
		}
		return int64(v), true, nil
	case float64:
		if v != math.Trunc(v) {
			return 0, false, errors.New(errors.ErrCodeInvalidDate, "timestamp %v is not an integer", v)
		}
		return int64(v), true, nil
	case json.Number:
		n, err := v.Int64()
		if err != nil {
			return 0, false, errors.Wrap(errors.ErrCodeInvalidDate, err, "timestamp %s is not an integer", v)
		}
		return n, true, nil
	}
	return 0, false, nil
}
