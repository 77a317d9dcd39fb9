package identity

import (
	"fmt"
	"slices"

	"github.com/matzehuels/timeweave/pkg/errors"
	"github.com/matzehuels/timeweave/pkg/timeline"
)

// Builder assembles a [Graph]. It owns the counter used to number
// placeholder parents, so ids are stable for a given input.
//
// A Builder may be reused; each Build call starts from an empty graph and a
// reset counter. It is not safe for concurrent use.
type Builder struct {
	g        *Graph
	declared []*Person // persons backed by input identities, in input order
	fathers  map[string]string
	mothers  map[string]string
	marriage map[[2]string]bool
	counter  int
}

// NewBuilder returns a ready Builder.
func NewBuilder() *Builder { return &Builder{} }

// Build builds a graph with a fresh [Builder].
func Build(identities []*timeline.Identity) (*Graph, error) {
	return NewBuilder().Build(identities)
}

// Build turns identities into a graph. Nil entries are skipped, and the same
// pointer listed more than once is added once.
//
// The first inconsistency aborts the build; the returned error carries one
// of the data-consistency or lookup codes from pkg/errors.
func (b *Builder) Build(identities []*timeline.Identity) (*Graph, error) {
	b.g = newGraph()
	b.declared = nil
	b.fathers = make(map[string]string)
	b.mothers = make(map[string]string)
	b.marriage = make(map[[2]string]bool)
	b.counter = 0

	steps := []func() error{
		func() error { return b.addPersons(identities) },
		b.addMarriages,
		b.collectParents,
		b.addPlaceholders,
		b.linkFamilies,
		b.addDNAUnions,
	}
	for _, step := range steps {
		if err := step(); err != nil {
			return nil, err
		}
	}
	return b.g, nil
}

func (b *Builder) addPersons(identities []*timeline.Identity) error {
	for _, id := range identities {
		if id == nil {
			continue
		}
		if i, ok := b.g.index[id.ID]; ok {
			if b.g.slots[i].identity == id {
				continue
			}
			return errors.New(errors.ErrCodeDuplicateIdentity, "identity %q is declared by two different records", id.ID)
		}
		if id.DeclaresFather() && id.DeclaresMother() {
			return errors.New(errors.ErrCodeParentConflict, "identity %q declares itself both father and mother", id.ID)
		}
		p := &Person{ID: id.ID, Identity: id}
		b.g.add(id.ID, id, p)
		b.declared = append(b.declared, p)
	}
	return nil
}

func (b *Builder) addMarriages() error {
	// aliases first, so a spouse may be named by a married name declared
	// further down the input
	for _, p := range b.declared {
		for _, m := range p.Identity.Marriages() {
			if m.Alias == "" {
				continue
			}
			if err := b.addAlias(m.Alias, p.ID); err != nil {
				return err
			}
		}
	}
	for _, p := range b.declared {
		for _, m := range p.Identity.Marriages() {
			if err := b.addMarriage(p, m); err != nil {
				return err
			}
		}
	}
	return nil
}

func (b *Builder) addMarriage(p *Person, m timeline.MarriedTo) error {
	spouse, ok := b.g.Person(m.Spouse)
	if !ok {
		return errors.New(errors.ErrCodeLookupFailed, "%q is married to unknown identity %q", p.ID, m.Spouse)
	}
	pair := sortedPair(p.ID, spouse.ID)
	id := unionID(pair, m.Date.Key())

	if n, exists := b.g.Node(id); exists {
		u, same := n.(*Union)
		if !same || u.Kind != UnionMarriage || u.Partners != pair || u.Date.Key() != m.Date.Key() {
			return errors.New(errors.ErrCodeUnionCollision, "marriage of %q and %q collides with existing node %q", p.ID, spouse.ID, id)
		}
		if m.Alias != "" {
			u.Aliases = appendUnique(u.Aliases, m.Alias)
		}
		return nil
	}

	back, err := reciprocal(p, spouse, m)
	if err != nil {
		return err
	}

	u := &Union{ID: id, Kind: UnionMarriage, Partners: pair, Date: m.Date}
	for _, a := range []string{m.Alias, back.Alias} {
		if a != "" {
			u.Aliases = appendUnique(u.Aliases, a)
		}
	}
	b.g.add(id, nil, u)
	b.marriage[pair] = true

	p.Spouses = appendUnique(p.Spouses, spouse.ID)
	spouse.Spouses = appendUnique(spouse.Spouses, p.ID)
	return nil
}

// reciprocal finds the spouse's declaration of the same marriage. Among
// several candidates the one with a matching date wins.
func reciprocal(p, spouse *Person, m timeline.MarriedTo) (timeline.MarriedTo, error) {
	names := map[string]bool{p.ID: true}
	for _, own := range p.Identity.Marriages() {
		if own.Alias != "" {
			names[own.Alias] = true
		}
	}

	var candidates []timeline.MarriedTo
	for _, back := range spouse.Identity.Marriages() {
		if names[back.Spouse] {
			candidates = append(candidates, back)
		}
	}
	if len(candidates) == 0 {
		return timeline.MarriedTo{}, errors.New(errors.ErrCodeMissingReciprocal,
			"%q declares marriage to %q, but %q does not declare it back", p.ID, spouse.ID, spouse.ID)
	}
	for _, c := range candidates {
		if c.Date.Equal(m.Date) {
			return c, nil
		}
	}
	return timeline.MarriedTo{}, errors.New(errors.ErrCodeMarriageDateMismatch,
		"%q and %q disagree on their marriage date (%s vs %s)", p.ID, spouse.ID, m.Date.Key(), candidates[0].Date.Key())
}

func (b *Builder) addAlias(alias, root string) error {
	switch n := b.g.nodeOrNil(alias).(type) {
	case nil:
		b.g.add(alias, nil, &Alias{ID: alias, Root: root})
		return nil
	case *Alias:
		if n.Root == root {
			return nil
		}
		return errors.New(errors.ErrCodeDuplicateIdentity, "alias %q is claimed by both %q and %q", alias, n.Root, root)
	default:
		return errors.New(errors.ErrCodeDuplicateIdentity, "alias %q of %q collides with an existing node", alias, root)
	}
}

func (b *Builder) collectParents() error {
	for _, p := range b.declared {
		for _, rel := range p.Identity.Relations {
			var parents map[string]string
			var role string
			switch rel.(type) {
			case timeline.FatherOf:
				parents, role = b.fathers, "father"
			case timeline.MotherOf:
				parents, role = b.mothers, "mother"
			default:
				continue
			}

			child, err := b.ensurePerson(rel.Target())
			if err != nil {
				return err
			}
			if prev, ok := parents[child.ID]; ok && prev != p.ID {
				return errors.New(errors.ErrCodeParentConflict, "%q has two %ss: %q and %q", child.ID, role, prev, p.ID)
			}
			parents[child.ID] = p.ID
		}
	}
	return nil
}

// ensurePerson returns the person for id, creating a bare one if nothing
// is stored under it yet.
func (b *Builder) ensurePerson(id string) (*Person, error) {
	if p, ok := b.g.Person(id); ok {
		return p, nil
	}
	if _, ok := b.g.Node(id); ok {
		return nil, errors.New(errors.ErrCodeLookupFailed, "%q names a union, not a person", id)
	}
	if err := errors.ValidateIdentityID(id); err != nil {
		return nil, err
	}
	ident := &timeline.Identity{ID: id, Kind: timeline.KindPerson}
	p := &Person{ID: id, Identity: ident}
	b.g.add(id, ident, p)
	return p, nil
}

func (b *Builder) addPlaceholders() error {
	for _, child := range b.g.Persons() {
		if !child.Identity.IsPerson() {
			continue
		}
		if _, ok := b.fathers[child.ID]; !ok {
			b.fathers[child.ID] = b.addPlaceholder("father", child, func(c string) timeline.Relation { return timeline.FatherOf{Child: c} })
		}
		if _, ok := b.mothers[child.ID]; !ok {
			b.mothers[child.ID] = b.addPlaceholder("mother", child, func(c string) timeline.Relation { return timeline.MotherOf{Child: c} })
		}
	}
	return nil
}

func (b *Builder) addPlaceholder(role string, child *Person, rel func(string) timeline.Relation) string {
	var id string
	for {
		b.counter++
		id = fmt.Sprintf("unknown-%s-%d", role, b.counter)
		if _, taken := b.g.index[id]; !taken {
			break
		}
	}
	ident := &timeline.Identity{
		ID:        id,
		Name:      fmt.Sprintf("Unknown %s of %s", role, child.Identity.DisplayName()),
		Kind:      timeline.KindPerson,
		Relations: []timeline.Relation{rel(child.ID)},
	}
	b.g.add(id, ident, &Person{ID: id, Identity: ident, Synthetic: true})
	b.g.placeholders++
	return id
}

func (b *Builder) linkFamilies() error {
	for _, child := range b.g.Persons() {
		if f, ok := b.fathers[child.ID]; ok {
			father, _ := b.g.Person(f)
			child.Father = father.ID
			father.Children = appendUnique(father.Children, child.ID)
		}
		if m, ok := b.mothers[child.ID]; ok {
			mother, _ := b.g.Person(m)
			child.Mother = mother.ID
			mother.Children = appendUnique(mother.Children, child.ID)
		}
	}

	for _, p := range b.declared {
		for _, rel := range p.Identity.Relations {
			link, ok := rel.(timeline.LinkedTo)
			if !ok {
				continue
			}
			other, ok := b.g.Person(link.Other)
			if !ok {
				return errors.New(errors.ErrCodeLookupFailed, "%q is linked to unknown identity %q", p.ID, link.Other)
			}
			if other.ID == p.ID {
				continue
			}
			p.Links = appendUnique(p.Links, other.ID)
			other.Links = appendUnique(other.Links, p.ID)
		}
	}
	return nil
}

func (b *Builder) addDNAUnions() error {
	for _, child := range b.g.Persons() {
		if child.Father == "" || child.Mother == "" {
			continue
		}
		pair := sortedPair(child.Father, child.Mother)
		if b.marriage[pair] {
			continue
		}
		id := unionID(pair, dnaKey)
		if n, exists := b.g.Node(id); exists {
			if u, ok := n.(*Union); ok && u.Kind == UnionDNA && u.Partners == pair {
				continue
			}
			return errors.New(errors.ErrCodeUnionCollision, "union of %q and %q collides with existing node %q", pair[0], pair[1], id)
		}
		b.g.add(id, nil, &Union{ID: id, Kind: UnionDNA, Partners: pair})
	}
	return nil
}

const dnaKey = "dna"

func sortedPair(a, b string) [2]string {
	pair := []string{a, b}
	slices.Sort(pair)
	return [2]string{pair[0], pair[1]}
}

// unionID derives a union id from the partners and a date key: an event key
// for marriages ("?" when the date is unknown) or "dna".
func unionID(pair [2]string, key string) string {
	return fmt.Sprintf("union:%s+%s@%s", pair[0], pair[1], key)
}
