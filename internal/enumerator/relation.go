package enumerator

import (
	"context"
	"fmt"
	"iter"

	"github.com/khoa-math/kenum/pkg/kenum"
	"github.com/khoa-math/kenum/pkg/kenum/kset"
	"github.com/khoa-math/kenum/pkg/kenum/node"
	"github.com/khoa-math/kenum/pkg/kenum/relation"
)

// relations applies the constructor's relations to a formation
// candidate. A relation that cannot be applied yet is deferred and
// retried once the others have made progress. A branch whose pending
// relations make no progress in a full pass ends with a
// *kenum.RelationError; that error is passed on and its siblings carry
// on.
func (s *search) relations(ctx context.Context, c candidate, depth, level int) iter.Seq2[*node.Molecule, error] {
	return func(yield func(*node.Molecule, error) bool) {
		s.cycle(ctx, c.node, c.cons.Relations, depth, level, yield)
	}
}

func (s *search) cycle(ctx context.Context, n *node.Molecule, pending []relation.Relation, depth, level int, yield func(*node.Molecule, error) bool) bool {
	if len(pending) == 0 {
		return yield(n, nil)
	}
	return s.pass(ctx, n, pending, nil, depth, level, func(r *node.Molecule, deferred []relation.Relation, err error) bool {
		switch {
		case err != nil:
			return yield(nil, err)
		case len(deferred) == 0:
			return yield(r, nil)
		case len(deferred) == len(pending) && r.Key() == n.Key():
			names := make([]string, len(deferred))
			for i, d := range deferred {
				names[i] = d.String()
			}
			s.trace(kenum.PhaseRelation, kenum.EventDeadlock, level, depth, r, fmt.Sprint(names))
			return yield(nil, &kenum.RelationError{Pending: names})
		default:
			return s.cycle(ctx, r, deferred, depth, level, yield)
		}
	})
}

// pass applies rels in order to n. Each relation may branch; for every
// branch the continuation receives the resulting node and the relations
// that had to be deferred on the way. Errors other than "cannot apply
// yet" are handed to the continuation as they are.
func (s *search) pass(ctx context.Context, n *node.Molecule, rels, deferred []relation.Relation, depth, level int, next func(*node.Molecule, []relation.Relation, error) bool) bool {
	if len(rels) == 0 {
		return next(n, deferred, nil)
	}
	if err := interrupted(ctx); err != nil {
		return next(nil, nil, err)
	}
	r := rels[0]
	applied := false
	for a, err := range s.apply(ctx, n, r, depth, level) {
		if err != nil {
			if !isLocal(err) {
				return next(nil, nil, err)
			}
			if applied {
				return next(nil, nil, err)
			}
			s.trace(kenum.PhaseRelation, kenum.EventDeferred, level, depth, n, r.String()+": "+err.Error())
			return s.pass(ctx, n, rels[1:], append(deferred[:len(deferred):len(deferred)], r), depth, level, next)
		}
		applied = true
		s.trace(kenum.PhaseRelation, kenum.EventApplied, level, depth, a, r.String())
		if !s.pass(ctx, a, rels[1:], deferred, depth, level, next) {
			return false
		}
	}
	return true
}

func (s *search) apply(ctx context.Context, n *node.Molecule, r relation.Relation, depth, level int) iter.Seq2[*node.Molecule, error] {
	switch rel := r.(type) {
	case *relation.Fun:
		return s.applyFun(ctx, n, rel, depth, level)
	case *relation.Union:
		return fallback(
			func() iter.Seq2[*node.Molecule, error] { return s.cover(ctx, n, rel, depth, level) },
			func() iter.Seq2[*node.Molecule, error] {
				return s.applyFun(ctx, n, relation.Function(union, rel.Superset, rel.Subsets...), depth, level)
			},
		)
	case *relation.Iso:
		return fallback(
			func() iter.Seq2[*node.Molecule, error] { return s.applyFun(ctx, n, rel.Forward(), depth, level) },
			func() iter.Seq2[*node.Molecule, error] { return s.applyFun(ctx, n, rel.Backward(), depth, level) },
		)
	}
	return func(yield func(*node.Molecule, error) bool) {
		yield(nil, s.configError(n, fmt.Errorf("unsupported relation %s", r)))
	}
}

// applyFun enumerates the children holding the inputs and, for every
// combination, narrows the output to the function's value.
func (s *search) applyFun(ctx context.Context, n *node.Molecule, r *relation.Fun, depth, level int) iter.Seq2[*node.Molecule, error] {
	return func(yield func(*node.Molecule, error) bool) {
		heads := distinctHeads(r.Inputs)
		factors := make([]func() iter.Seq2[node.Node, error], len(heads))
		for i, h := range heads {
			c, ok := n.Child(h)
			if !ok {
				yield(nil, s.configError(n, fmt.Errorf("%s: %w: %s", r, node.ErrNoPath, h)))
				return
			}
			factors[i] = s.child(ctx, c, depth-1, level+1)
		}

		for combo, err := range product(factors) {
			if err != nil {
				yield(nil, err)
				return
			}
			c := n.Clone().(*node.Molecule)
			for _, child := range combo {
				c.Set(child.Clone())
			}
			args := make([]kset.Value, len(r.Inputs))
			for i, p := range r.Inputs {
				v, err := node.ValueAt(c, p)
				if err != nil {
					yield(nil, s.configError(n, fmt.Errorf("%s: %w", r, err)))
					return
				}
				args[i] = v
			}
			out, err := r.Fn(args...)
			if err != nil {
				yield(nil, s.configError(n, fmt.Errorf("%s: %w", r, err)))
				return
			}
			if err := node.NarrowAt(c, r.Output, kset.Wrap(out)); err != nil {
				yield(nil, s.configError(n, fmt.Errorf("%s: %w", r, err)))
				return
			}
			if c.IsInconsistent() {
				s.trace(kenum.PhaseRelation, kenum.EventInconsistent, level, depth, c, r.String())
				continue
			}
			if !yield(c, nil) {
				return
			}
		}
	}
}

// cover enumerates the superset first, then every way to cover it with
// the subsets.
func (s *search) cover(ctx context.Context, n *node.Molecule, r *relation.Union, depth, level int) iter.Seq2[*node.Molecule, error] {
	return func(yield func(*node.Molecule, error) bool) {
		head := node.Head(r.Superset)
		c, ok := n.Child(head)
		if !ok {
			yield(nil, s.configError(n, fmt.Errorf("%s: %w: %s", r, node.ErrNoPath, head)))
			return
		}
		for sc, err := range s.child(ctx, c, depth-1, level+1)() {
			if err != nil {
				yield(nil, err)
				return
			}
			base := n.Clone().(*node.Molecule)
			base.Set(sc.Clone())
			v, err := node.ValueAt(base, r.Superset)
			if err != nil {
				yield(nil, s.configError(n, fmt.Errorf("%s: %w", r, err)))
				return
			}
			super, ok := v.(kset.Set)
			if !ok {
				yield(nil, s.configError(n, fmt.Errorf("%s: superset %s is not a set", r, v)))
				return
			}

			candidates := make([][]kset.Set, len(r.Subsets))
			for i, p := range r.Subsets {
				candidates[i] = subsetCandidates(base, p, super)
			}
			for subsets := range covers(super, candidates) {
				f := base.Clone().(*node.Molecule)
				for i, p := range r.Subsets {
					if err := node.NarrowAt(f, p, kset.Wrap(subsets[i])); err != nil {
						yield(nil, s.configError(n, fmt.Errorf("%s: %w", r, err)))
						return
					}
				}
				if f.IsInconsistent() {
					s.trace(kenum.PhaseRelation, kenum.EventInconsistent, level, depth, f, r.String())
					continue
				}
				if !yield(f, nil) {
					return
				}
			}
		}
	}
}

// subsetCandidates lists the values an explicit atom at path still
// admits that could be part of a cover of super. It returns nil when
// any subset of super is admitted.
func subsetCandidates(n *node.Molecule, path string, super kset.Set) []kset.Set {
	found, ok := node.At(n, path)
	if !ok {
		return nil
	}
	a, ok := found.(*node.Atom)
	if !ok || !a.Values.IsExplicit() {
		return nil
	}
	out := []kset.Set{}
	for v := range a.Values.All() {
		if set, ok := v.(kset.Set); ok && set.IsSubset(super) {
			out = append(out, set)
		}
	}
	return out
}

// union is the function deriving a superset from its subsets.
func union(args ...kset.Value) (kset.Value, error) {
	out := kset.NewSet()
	for _, a := range args {
		set, ok := a.(kset.Set)
		if !ok {
			return nil, fmt.Errorf("subset %s is not a set", a)
		}
		out = out.Union(set)
	}
	return out, nil
}

func distinctHeads(paths []string) []string {
	seen := make(map[string]struct{}, len(paths))
	out := make([]string, 0, len(paths))
	for _, p := range paths {
		h := node.Head(p)
		if _, ok := seen[h]; ok {
			continue
		}
		seen[h] = struct{}{}
		out = append(out, h)
	}
	return out
}
