package identity

import (
	"github.com/matzehuels/timeweave/pkg/timeline"
)

// Node is a vertex of the identity graph: a *Person, *Alias or *Union.
type Node interface {
	NodeID() string
	node()
}

// Person is a graph vertex backed by one identity.
//
// Father, Mother, Children, Spouses and Links hold root person ids, never
// alias ids. Father and Mother are empty only for placeholders and for
// identities that are not persons (locations, periods and the like).
type Person struct {
	ID       string
	Identity *timeline.Identity

	Father   string
	Mother   string
	Children []string
	Spouses  []string
	Links    []string

	// Synthetic marks placeholder parents created during the build.
	Synthetic bool
}

// Alias is a secondary id that resolves to a person.
type Alias struct {
	ID   string
	Root string
}

// UnionKind distinguishes declared marriages from implicit unions.
type UnionKind int

const (
	// UnionMarriage is a marriage declared by both spouses.
	UnionMarriage UnionKind = iota
	// UnionDNA joins the father and mother of a child who never married.
	UnionDNA
)

func (k UnionKind) String() string {
	if k == UnionDNA {
		return "dna"
	}
	return "marriage"
}

// Union connects two persons.
type Union struct {
	ID       string
	Kind     UnionKind
	Partners [2]string // sorted root ids
	Aliases  []string  // name-change aliases registered by this marriage
	Date     timeline.Event
}

func (p *Person) NodeID() string { return p.ID }
func (a *Alias) NodeID() string  { return a.ID }
func (u *Union) NodeID() string  { return u.ID }

func (*Person) node() {}
func (*Alias) node()  {}
func (*Union) node()  {}

// slot ties an id to its identity and node. Synthesized entries append one
// slot, so the three can never disagree on an index.
type slot struct {
	id       string
	identity *timeline.Identity // nil for aliases and unions
	node     Node
}

// Graph is the immutable result of [Build].
//
// The zero value is an empty graph.
type Graph struct {
	slots        []slot
	index        map[string]int
	placeholders int
}

func newGraph() *Graph {
	return &Graph{index: make(map[string]int)}
}

func (g *Graph) add(id string, ident *timeline.Identity, n Node) {
	g.index[id] = len(g.slots)
	g.slots = append(g.slots, slot{id: id, identity: ident, node: n})
}

// Len returns the number of nodes, counting persons, aliases and unions.
func (g *Graph) Len() int { return len(g.slots) }

// PlaceholderCount returns how many placeholder parents were synthesized.
func (g *Graph) PlaceholderCount() int { return g.placeholders }

// Node returns the node stored under id.
func (g *Graph) Node(id string) (Node, bool) {
	i, ok := g.index[id]
	if !ok {
		return nil, false
	}
	return g.slots[i].node, true
}

// Resolve maps a person or alias id to the root person id.
func (g *Graph) Resolve(id string) (string, bool) {
	switch n := g.nodeOrNil(id).(type) {
	case *Person:
		return n.ID, true
	case *Alias:
		return n.Root, true
	}
	return "", false
}

// Person returns the person stored under id, following aliases.
func (g *Graph) Person(id string) (*Person, bool) {
	root, ok := g.Resolve(id)
	if !ok {
		return nil, false
	}
	p, ok := g.nodeOrNil(root).(*Person)
	return p, ok
}

// Identity returns the identity behind a person or alias id.
func (g *Graph) Identity(id string) (*timeline.Identity, bool) {
	p, ok := g.Person(id)
	if !ok {
		return nil, false
	}
	return p.Identity, true
}

// Persons returns all persons, placeholders included, in insertion order.
func (g *Graph) Persons() []*Person {
	var out []*Person
	for _, s := range g.slots {
		if p, ok := s.node.(*Person); ok {
			out = append(out, p)
		}
	}
	return out
}

// Unions returns all unions in insertion order.
func (g *Graph) Unions() []*Union {
	var out []*Union
	for _, s := range g.slots {
		if u, ok := s.node.(*Union); ok {
			out = append(out, u)
		}
	}
	return out
}

// Aliases returns all aliases in insertion order.
func (g *Graph) Aliases() []*Alias {
	var out []*Alias
	for _, s := range g.slots {
		if a, ok := s.node.(*Alias); ok {
			out = append(out, a)
		}
	}
	return out
}

func (g *Graph) nodeOrNil(id string) Node {
	n, _ := g.Node(id)
	return n
}

func appendUnique(ids []string, id string) []string {
	for _, x := range ids {
		if x == id {
			return ids
		}
	}
	return append(ids, id)
}
