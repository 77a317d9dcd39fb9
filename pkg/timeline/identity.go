package timeline

// Kind classifies what an identity describes.
type Kind string

const (
	KindPerson   Kind = "person"
	KindLocation Kind = "location"
	KindPeriod   Kind = "period"
	KindPlain    Kind = "plain"
	KindMedia    Kind = "media"
)

// Valid reports whether k is a known kind. The empty kind is valid and
// means person.
func (k Kind) Valid() bool {
	switch k {
	case "", KindPerson, KindLocation, KindPeriod, KindPlain, KindMedia:
		return true
	}
	return false
}

// Normalize maps the empty kind to KindPerson.
func (k Kind) Normalize() Kind {
	if k == "" {
		return KindPerson
	}
	return k
}

// Solid reports whether identities of this kind anchor layout.
// Persons, locations and periods are solid; plain and media identities are
// decorative.
func (k Kind) Solid() bool {
	switch k.Normalize() {
	case KindPerson, KindLocation, KindPeriod:
		return true
	}
	return false
}

// Relation is one genealogical statement made by an identity about another.
// It is implemented by FatherOf, MotherOf, MarriedTo and LinkedTo only.
type Relation interface {
	// Target returns the id of the other identity.
	Target() string
	relation()
}

// FatherOf declares the owning identity to be Child's father.
type FatherOf struct{ Child string }

// MotherOf declares the owning identity to be Child's mother.
type MotherOf struct{ Child string }

// MarriedTo declares a marriage. Both spouses must declare it with the same
// date. Alias, when set, is the name the declaring identity took on
// marriage.
type MarriedTo struct {
	Spouse string
	Date   Event
	Alias  string
}

// LinkedTo declares a loose association, e.g. between a person and a place.
type LinkedTo struct{ Other string }

func (r FatherOf) Target() string  { return r.Child }
func (r MotherOf) Target() string  { return r.Child }
func (r MarriedTo) Target() string { return r.Spouse }
func (r LinkedTo) Target() string  { return r.Other }

func (FatherOf) relation()  {}
func (MotherOf) relation()  {}
func (MarriedTo) relation() {}
func (LinkedTo) relation()  {}

// Identity is a genealogical subject: a person, a place, a period or a
// decorative item that timelines can refer to.
type Identity struct {
	ID        string
	Name      string
	Kind      Kind
	Born      Event
	Died      Event
	Relations []Relation
}

// DisplayName returns Name, falling back to ID.
func (i *Identity) DisplayName() string {
	if i.Name != "" {
		return i.Name
	}
	return i.ID
}

// IsPerson reports whether the identity is person-kind.
func (i *Identity) IsPerson() bool { return i.Kind.Normalize() == KindPerson }

// Marriages returns the identity's MarriedTo relations in declaration order.
func (i *Identity) Marriages() []MarriedTo {
	var out []MarriedTo
	for _, r := range i.Relations {
		if m, ok := r.(MarriedTo); ok {
			out = append(out, m)
		}
	}
	return out
}

// Children returns the child ids named by FatherOf and MotherOf relations.
func (i *Identity) Children() []string {
	var out []string
	for _, r := range i.Relations {
		switch r := r.(type) {
		case FatherOf:
			out = append(out, r.Child)
		case MotherOf:
			out = append(out, r.Child)
		}
	}
	return out
}

// DeclaresFather reports whether any relation is a FatherOf.
func (i *Identity) DeclaresFather() bool {
	for _, r := range i.Relations {
		if _, ok := r.(FatherOf); ok {
			return true
		}
	}
	return false
}

// DeclaresMother reports whether any relation is a MotherOf.
func (i *Identity) DeclaresMother() bool {
	for _, r := range i.Relations {
		if _, ok := r.(MotherOf); ok {
			return true
		}
	}
	return false
}
