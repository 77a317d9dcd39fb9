// Package render groups the visual outputs of timeweave.
//
// # Subpackages
//
//   - [familydot]: the identity graph as a Graphviz family tree, rendered to
//     SVG in-process
//
// [familydot]: https://pkg.go.dev/github.com/matzehuels/timeweave/pkg/render/familydot
package render
