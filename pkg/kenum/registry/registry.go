// Package registry describes the constructors of each type: the child
// slots a constructor requires and the relations between them. The
// enumerator only reads from a Registry.
package registry

import (
	"errors"
	"fmt"

	"github.com/khoa-math/kenum/pkg/kenum/node"
	"github.com/khoa-math/kenum/pkg/kenum/relation"
)

var (
	ErrUnknownType        = errors.New("type not registered")
	ErrUnknownConstructor = errors.New("constructor not registered")
	ErrDuplicate          = errors.New("already registered")
	ErrInvalid            = errors.New("invalid constructor")
)

// Constructor is a named shape of a type.
type Constructor struct {
	Name      string
	Slots     []node.Node
	Relations []relation.Relation
}

// Template returns fresh copies of the constructor's slots.
func (c *Constructor) Template() []node.Node {
	out := make([]node.Node, len(c.Slots))
	for i, s := range c.Slots {
		out[i] = s.Clone()
	}
	return out
}

// HasMoleculeSlot reports whether any slot needs a further level of
// recursion to resolve.
func (c *Constructor) HasMoleculeSlot() bool {
	for _, s := range c.Slots {
		if _, ok := s.(*node.Molecule); ok {
			return true
		}
	}
	return false
}

type Registry interface {
	// Constructors returns the constructor names of typ in
	// registration order.
	Constructors(typ string) ([]string, error)
	Lookup(typ, cons string) (*Constructor, error)
}

type typeEntry struct {
	order []string
	cons  map[string]*Constructor
}

// MapRegistry is an in-memory Registry. It is populated once and then
// only read.
type MapRegistry struct {
	order []string
	types map[string]*typeEntry
}

var _ Registry = &MapRegistry{}

func New() *MapRegistry {
	return &MapRegistry{types: map[string]*typeEntry{}}
}

// Register adds constructors to typ, creating the type if needed.
func (r *MapRegistry) Register(typ string, constructors ...Constructor) error {
	if typ == "" {
		return fmt.Errorf("%w: empty type name", ErrInvalid)
	}
	entry, ok := r.types[typ]
	if !ok {
		entry = &typeEntry{cons: map[string]*Constructor{}}
		r.types[typ] = entry
		r.order = append(r.order, typ)
	}
	for i := range constructors {
		c := constructors[i]
		if err := validate(&c); err != nil {
			return fmt.Errorf("type %s: %w", typ, err)
		}
		if _, ok := entry.cons[c.Name]; ok {
			return fmt.Errorf("type %s constructor %s: %w", typ, c.Name, ErrDuplicate)
		}
		entry.cons[c.Name] = &c
		entry.order = append(entry.order, c.Name)
	}
	return nil
}

// MustRegister is Register for statically known dictionaries.
func (r *MapRegistry) MustRegister(typ string, constructors ...Constructor) *MapRegistry {
	if err := r.Register(typ, constructors...); err != nil {
		panic(err)
	}
	return r
}

func validate(c *Constructor) error {
	if c.Name == "" {
		return fmt.Errorf("%w: empty constructor name", ErrInvalid)
	}
	roles := make(map[string]struct{}, len(c.Slots))
	for _, s := range c.Slots {
		if s.Role() == "" {
			return fmt.Errorf("constructor %s: %w: slot without role", c.Name, ErrInvalid)
		}
		if _, ok := roles[s.Role()]; ok {
			return fmt.Errorf("constructor %s: %w: slot %q twice", c.Name, ErrInvalid, s.Role())
		}
		roles[s.Role()] = struct{}{}
	}
	for _, rel := range c.Relations {
		if err := relation.Validate(rel); err != nil {
			return fmt.Errorf("constructor %s: %w: %w", c.Name, ErrInvalid, err)
		}
		for _, p := range rel.Paths() {
			if _, ok := roles[node.Head(p)]; !ok {
				return fmt.Errorf("constructor %s: %w: relation %s names unknown slot %q", c.Name, ErrInvalid, rel, node.Head(p))
			}
		}
	}
	return nil
}

// Types returns the registered type names in registration order.
func (r *MapRegistry) Types() []string {
	return append([]string{}, r.order...)
}

func (r *MapRegistry) Constructors(typ string) ([]string, error) {
	entry, ok := r.types[typ]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrUnknownType, typ)
	}
	return append([]string{}, entry.order...), nil
}

func (r *MapRegistry) Lookup(typ, cons string) (*Constructor, error) {
	entry, ok := r.types[typ]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrUnknownType, typ)
	}
	c, ok := entry.cons[cons]
	if !ok {
		return nil, fmt.Errorf("%w: %s.%s", ErrUnknownConstructor, typ, cons)
	}
	return c, nil
}
