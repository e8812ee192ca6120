package enumerator

import (
	"iter"

	"github.com/khoa-math/kenum/pkg/kenum"
	"github.com/khoa-math/kenum/pkg/kenum/kset"
	"github.com/khoa-math/kenum/pkg/kenum/node"
	"github.com/khoa-math/kenum/pkg/kenum/registry"
)

// candidate is a molecule with its constructor template attached and
// its relations still to be applied.
type candidate struct {
	node *node.Molecule
	cons *registry.Constructor
}

// formation tries every registered constructor the molecule still
// admits, in registration order. Constructors that do not fit are
// skipped silently. When the depth budget rules a constructor out, a
// local failure is passed on so that an empty result can be explained.
func (s *search) formation(m *node.Molecule, depth, level int) iter.Seq2[candidate, error] {
	return func(yield func(candidate, error) bool) {
		names, err := s.registry.Constructors(m.Type)
		if err != nil {
			yield(candidate{}, &kenum.ConfigError{Type: m.Type, Err: err})
			return
		}
		admitted := m.Cons.Intersect(kset.Strs(names...))
		for _, name := range names {
			if !admitted.Contains(kset.Str(name)) {
				continue
			}
			c, err := s.registry.Lookup(m.Type, name)
			if err != nil {
				yield(candidate{}, &kenum.ConfigError{Type: m.Type, Constructor: name, Err: err})
				return
			}
			s.trace(kenum.PhaseFormation, kenum.EventConstructor, level, depth, m, name)

			if depth <= 1 && needsRecursion(m, c) {
				s.trace(kenum.PhaseFormation, kenum.EventSkipped, level, depth, m, name)
				if !yield(candidate{}, s.unresolvable(level, depth, m, kenum.ErrDepthExhausted)) {
					return
				}
				continue
			}

			f := m.Clone().(*node.Molecule)
			if err := f.Form(name, c.Template()); err != nil {
				s.trace(kenum.PhaseFormation, kenum.EventRejected, level, depth, f, err.Error())
				continue
			}
			if f.IsInconsistent() {
				s.trace(kenum.PhaseFormation, kenum.EventInconsistent, level, depth, f, name)
				continue
			}
			if !yield(candidate{node: f, cons: c}, nil) {
				return
			}
		}
	}
}

// needsRecursion reports whether forming m with c leaves a molecule
// child that must still be enumerated. Such constructors are only tried
// with a depth budget of two or more.
func needsRecursion(m *node.Molecule, c *registry.Constructor) bool {
	for _, slot := range c.Slots {
		if _, ok := slot.(*node.Molecule); !ok {
			continue
		}
		if existing, ok := m.Child(slot.Role()); ok && existing.IsComplete() {
			continue
		}
		return true
	}
	return false
}
