// Package pkg provides the core libraries of timeweave.
//
// # Overview
//
// Timeweave places timelines of people, places and periods into one
// genealogical universe. Identities are linked through parent, marriage and
// link relations into an identity graph; the universe is then trimmed to what
// is close to a chosen origin, and the survivors are weighted by how close
// they are.
//
// # Architecture
//
//	timeline documents (YAML, JSON, TOML)
//	         ↓
//	    [timeline] (decode, uncertain dates, generated life events)
//	         ↓
//	    [identity] (identity graph, placeholders, hop distances)
//	         ↓
//	    [universe] (trim around an origin, baseline weights)
//	         ↓
//	    [frames] (frames at shared instants, cumulative weights)
//	         ↓
//	    [report] / [render/familydot] / [server]
//
// # Quick Start
//
//	timelines, err := timeline.LoadFiles("family.yaml")
//	if err != nil {
//	    return err
//	}
//	tr, err := universe.TrimUniverse(timelines, "ada", universe.TrimOptions{MaxHops: 2})
//	if err != nil {
//	    return err
//	}
//	origin, _ := timeline.FindByIdentity(timelines, tr.Origin)
//	w := frames.NewWeighted(tr.Retained, tr.Weights(), origin)
//	for wf := range w.All() {
//	    fmt.Println(wf.At, wf.Weights)
//	}
//
// # Main Packages
//
// [timeline] - Timelines, identities, relations and uncertain events, and the
// document decoders that read them.
//
// [identity] - The identity graph: persons, marriage aliases, unions and
// synthesized placeholder parents, plus breadth-first hop distances.
//
// [universe] - Trimming by hop distance and birth date, and the conversion of
// hop distances to baseline weights.
//
// [frames] - Grouping of entries by instant and the weighted frame iterator.
//
// ## Infrastructure
//
// [pipeline] - Load, build, trim and weigh with caching, shared by the CLI and
// the HTTP server.
//
// [cache] - Cache interface with null, file and Redis backends and key
// derivation.
//
// [report] - Serialized analysis results (JSON, YAML).
//
// [server] - HTTP API over one loaded input.
//
// [observability] - Hook registry for pipeline, cache and server events.
//
// [errors] - Structured errors with machine-readable codes.
//
// [timeline]: https://pkg.go.dev/github.com/matzehuels/timeweave/pkg/timeline
// [identity]: https://pkg.go.dev/github.com/matzehuels/timeweave/pkg/identity
// [universe]: https://pkg.go.dev/github.com/matzehuels/timeweave/pkg/universe
// [frames]: https://pkg.go.dev/github.com/matzehuels/timeweave/pkg/frames
// [report]: https://pkg.go.dev/github.com/matzehuels/timeweave/pkg/report
// [render/familydot]: https://pkg.go.dev/github.com/matzehuels/timeweave/pkg/render/familydot
// [server]: https://pkg.go.dev/github.com/matzehuels/timeweave/pkg/server
// [pipeline]: https://pkg.go.dev/github.com/matzehuels/timeweave/pkg/pipeline
// [cache]: https://pkg.go.dev/github.com/matzehuels/timeweave/pkg/cache
// [observability]: https://pkg.go.dev/github.com/matzehuels/timeweave/pkg/observability
// [errors]: https://pkg.go.dev/github.com/matzehuels/timeweave/pkg/errors
package pkg
