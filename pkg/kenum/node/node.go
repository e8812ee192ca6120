// Package node holds the trees the enumerator works on. A tree is made
// of Atoms, leaves holding a KSet, and Molecules, typed internal nodes
// with a constructor and named children.
//
// Parents own their children exclusively. Speculative changes are made
// on clones so that sibling branches of a search never see each other.
package node

import (
	"errors"
	"fmt"
	"sort"
	"strings"

	"github.com/khoa-math/kenum/pkg/kenum/kset"
)

// PathSeparator separates roles in a path.
const PathSeparator = "/"

var (
	ErrRedundant    = errors.New("redundant component")
	ErrKindMismatch = errors.New("atom and molecule cannot be unified")
	ErrNoPath       = errors.New("no such path")
)

type Node interface {
	// Role is the name of the node under its parent.
	Role() string
	Clone() Node
	// IsInconsistent reports whether any leaf below the node has an
	// empty possibility set.
	IsInconsistent() bool
	// IsComplete reports whether every leaf below the node is a
	// singleton and every molecule has a settled constructor.
	IsComplete() bool
	// Key is a structural encoding: structurally equal trees have
	// equal keys.
	Key() string
	String() string

	isNode()
}

type Atom struct {
	role   string
	Values kset.KSet
}

var _ Node = &Atom{}

func NewAtom(role string, values kset.KSet) *Atom {
	return &Atom{role: role, Values: values}
}

func (a *Atom) Role() string {
	return a.role
}

func (a *Atom) Clone() Node {
	c := *a
	return &c
}

func (a *Atom) IsInconsistent() bool {
	return a.Values.IsEmpty()
}

func (a *Atom) IsComplete() bool {
	return a.Values.IsSingleton()
}

// Narrow intersects the atom's values with k.
func (a *Atom) Narrow(k kset.KSet) {
	a.Values = a.Values.Intersect(k)
}

// Value returns the value of a resolved atom.
func (a *Atom) Value() (kset.Value, bool) {
	return a.Values.Only()
}

func (a *Atom) Key() string {
	return a.role + "=" + a.Values.Key()
}

func (a *Atom) String() string {
	return a.role + "=" + a.Values.String()
}

func (a *Atom) isNode() {}

type Molecule struct {
	role     string
	Type     string
	Cons     kset.KSet
	formed   bool
	children map[string]Node
}

var _ Node = &Molecule{}

// NewMolecule returns a molecule of type typ whose constructor is not
// yet known.
func NewMolecule(role, typ string, children ...Node) *Molecule {
	m := &Molecule{
		role:     role,
		Type:     typ,
		Cons:     kset.Any,
		children: make(map[string]Node, len(children)),
	}
	for _, c := range children {
		m.children[c.Role()] = c
	}
	return m
}

// WithCons restricts the candidate constructors and returns m.
func (m *Molecule) WithCons(names ...string) *Molecule {
	m.Cons = m.Cons.Intersect(kset.Strs(names...))
	return m
}

func (m *Molecule) Role() string {
	return m.role
}

// Constructor returns the constructor name once it is settled.
func (m *Molecule) Constructor() (string, bool) {
	v, ok := m.Cons.Only()
	if !ok {
		return "", false
	}
	return v.String(), true
}

// Formed reports whether a constructor template has been attached.
func (m *Molecule) Formed() bool {
	return m.formed
}

func (m *Molecule) Child(role string) (Node, bool) {
	c, ok := m.children[role]
	return c, ok
}

// Roles returns the child roles in sorted order.
func (m *Molecule) Roles() []string {
	roles := make([]string, 0, len(m.children))
	for r := range m.children {
		roles = append(roles, r)
	}
	sort.Strings(roles)
	return roles
}

func (m *Molecule) Children() []Node {
	out := make([]Node, 0, len(m.children))
	for _, r := range m.Roles() {
		out = append(out, m.children[r])
	}
	return out
}

// Set replaces the child with the same role, or adds it.
func (m *Molecule) Set(child Node) {
	m.children[child.Role()] = child
}

// Attach adds a copy of child if no child with its role exists.
// Otherwise the two are unified: atoms are intersected, molecules are
// merged recursively. Prior knowledge is never discarded.
func (m *Molecule) Attach(child Node) error {
	existing, ok := m.children[child.Role()]
	if !ok {
		m.children[child.Role()] = child.Clone()
		return nil
	}
	return unify(existing, child)
}

func unify(dst, src Node) error {
	switch d := dst.(type) {
	case *Atom:
		s, ok := src.(*Atom)
		if !ok {
			return fmt.Errorf("%w: %q", ErrKindMismatch, d.role)
		}
		d.Narrow(s.Values)
	case *Molecule:
		s, ok := src.(*Molecule)
		if !ok {
			return fmt.Errorf("%w: %q", ErrKindMismatch, d.role)
		}
		if d.Type != s.Type {
			d.Cons = kset.None
			return nil
		}
		d.Cons = d.Cons.Intersect(s.Cons)
		d.formed = d.formed || s.formed
		for _, r := range s.Roles() {
			if err := d.Attach(s.children[r]); err != nil {
				return err
			}
		}
	}
	return nil
}

// Form settles the constructor to cons and attaches its template slots.
// Every existing child must have a slot in the template; afterwards the
// child roles are exactly the slot roles.
func (m *Molecule) Form(cons string, slots []Node) error {
	allowed := make(map[string]struct{}, len(slots))
	for _, s := range slots {
		allowed[s.Role()] = struct{}{}
	}
	for _, r := range m.Roles() {
		if _, ok := allowed[r]; !ok {
			return fmt.Errorf("%w %q for constructor %s", ErrRedundant, r, cons)
		}
	}
	m.Cons = m.Cons.Intersect(kset.Wrap(kset.Str(cons)))
	for _, s := range slots {
		if err := m.Attach(s); err != nil {
			return err
		}
	}
	if len(m.children) != len(allowed) {
		return fmt.Errorf("%w for constructor %s", ErrRedundant, cons)
	}
	m.formed = true
	return nil
}

func (m *Molecule) Clone() Node {
	c := &Molecule{
		role:     m.role,
		Type:     m.Type,
		Cons:     m.Cons,
		formed:   m.formed,
		children: make(map[string]Node, len(m.children)),
	}
	for r, child := range m.children {
		c.children[r] = child.Clone()
	}
	return c
}

func (m *Molecule) IsInconsistent() bool {
	if m.Cons.IsEmpty() {
		return true
	}
	for _, c := range m.children {
		if c.IsInconsistent() {
			return true
		}
	}
	return false
}

func (m *Molecule) IsComplete() bool {
	if !m.formed || !m.Cons.IsSingleton() {
		return false
	}
	for _, c := range m.children {
		if !c.IsComplete() {
			return false
		}
	}
	return true
}

func (m *Molecule) Key() string {
	var b strings.Builder
	b.WriteString(m.role)
	b.WriteString(":")
	b.WriteString(m.Type)
	b.WriteString(m.Cons.Key())
	if m.formed {
		b.WriteString("!")
	}
	b.WriteString("(")
	for i, c := range m.Children() {
		if i > 0 {
			b.WriteString(";")
		}
		b.WriteString(c.Key())
	}
	b.WriteString(")")
	return b.String()
}

func (m *Molecule) String() string {
	var b strings.Builder
	if m.role != "" {
		b.WriteString(m.role)
		b.WriteString("=")
	}
	b.WriteString(m.Type)
	if cons, ok := m.Constructor(); ok {
		b.WriteString("[" + cons + "]")
	} else {
		b.WriteString("[" + m.Cons.String() + "]")
	}
	b.WriteString("(")
	for i, c := range m.Children() {
		if i > 0 {
			b.WriteString(", ")
		}
		b.WriteString(c.String())
	}
	b.WriteString(")")
	return b.String()
}

func (m *Molecule) isNode() {}
