// Package timeline defines the input data model of timeweave: timelines of
// dated entries, the genealogical identities some of them describe, and the
// uncertain events (exact, before, after, absent) used for births, deaths
// and marriages.
//
// # Timelines
//
// A [Timeline] is an ordered sequence of [Record] values, each an entry
// stamped with a Unix millisecond timestamp. A timeline may reference one
// [Identity] through its [Meta]; several timelines may share the same
// identity pointer.
//
// # Identities and Relations
//
// Relations are a closed set of variants implementing [Relation]:
//
//	timeline.FatherOf{Child: "b"}
//	timeline.MotherOf{Child: "b"}
//	timeline.MarriedTo{Spouse: "c", Date: evt, Alias: "a-married-name"}
//	timeline.LinkedTo{Other: "paris"}
//
// Use a type switch to handle them.
//
// # Loading
//
// [LoadFile] and [Decode] read JSON, YAML and TOML documents:
//
//	identities:
//	  - id: ada
//	    born: 1815-12-10
//	    relations:
//	      - marriedTo: william
//	        date: 1835-07-08
//	timelines:
//	  - title: Ada
//	    identityRef: ada
//	    records:
//	      - at: 1835-07-08
//	        title: Married
//
// Dates are parsed with [ParseEvent]; malformed dates abort loading with an
// INVALID_DATE error.
package timeline
