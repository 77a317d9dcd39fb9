// Package identity builds the genealogical graph that connects timeline
// identities and measures how far each identity is from a chosen origin.
//
// # Graph
//
// [Build] turns a list of [timeline.Identity] records into a [Graph] holding
// three node kinds:
//
//   - [Person]: one per identity, plus synthesized placeholder parents
//   - [Alias]: a secondary id (a married name) that resolves to a person
//   - [Union]: a marriage declared by both spouses, or the implicit "DNA"
//     union of two people who share a child but never married
//
// Construction is strict. A marriage declared by only one spouse, spouses
// disagreeing on the wedding date, a child with two different fathers and
// similar inconsistencies abort the build with a coded error from
// [github.com/matzehuels/timeweave/pkg/errors].
//
// Every person-kind identity ends up with both parents: missing ones are
// filled in with placeholder persons named unknown-father-N and
// unknown-mother-N. Placeholders do not get parents of their own.
//
// # Hop distances
//
// [Graph.CalculateHopsFrom] returns the smallest number of family edges
// between the origin and every person and alias. Which edges may be
// followed is controlled by [HopOptions]; [DefaultHopOptions] picks the
// usual set for an origin kind.
//
//	g, err := identity.Build(timeline.Identities(timelines))
//	if err != nil {
//		return err
//	}
//	hops := g.CalculateHopsFrom("ada", identity.DefaultHopOptions(timeline.KindPerson))
//
// # Concurrency
//
// A [Builder] is single-goroutine. A built [Graph] is never mutated, so any
// number of goroutines may query it at once.
package identity
