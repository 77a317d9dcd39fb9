// Package familydot draws an identity graph as a Graphviz family tree.
//
// Persons become rounded boxes, unions become small points sitting between
// the two partners, and children hang below the union of their parents.
// Placeholder parents are dashed and grey. Link relations are drawn as
// dotted, undirected edges.
//
//	dot := familydot.ToDOT(g, familydot.Options{Hops: hops})
//	svg, err := familydot.RenderSVG(ctx, dot)
//
// When hop distances are given, each person is labeled with its distance
// and shaded by it; unreachable persons are left white.
//
// SVG rendering runs Graphviz in-process through
// [github.com/goccy/go-graphviz]; no external binary is needed.
package familydot
