package enumerator

import (
	"context"
	"errors"
	"fmt"
	"iter"

	"github.com/khoa-math/kenum/pkg/kenum"
	"github.com/khoa-math/kenum/pkg/kenum/kset"
	"github.com/khoa-math/kenum/pkg/kenum/node"
	"github.com/khoa-math/kenum/pkg/kenum/registry"
)

var ErrNoRegistry = errors.New("no registry configured")

// Enumerator produces the concrete, consistent instantiations of
// partially specified trees. It is not safe for concurrent use.
type Enumerator struct {
	registry registry.Registry
	tracer   kenum.Tracer
	memo     *Memo
	budget   *Budget
}

func NewEnumerator(options ...Option) (*Enumerator, error) {
	e := Enumerator{}
	for _, option := range append(options, defaults...) {
		if err := option(&e); err != nil {
			return nil, err
		}
	}
	return &e, nil
}

type Option func(e *Enumerator) error

func WithRegistry(r registry.Registry) Option {
	return func(e *Enumerator) error {
		e.registry = r
		return nil
	}
}

func WithTracer(t kenum.Tracer) Option {
	return func(e *Enumerator) error {
		e.tracer = t
		return nil
	}
}

// WithMemo shares m between every enumeration of e. A nil memo
// disables memoization.
func WithMemo(m *Memo) Option {
	return func(e *Enumerator) error {
		e.memo = m
		return nil
	}
}

// WithBudget bounds the time spent on each child enumeration, see
// Budget.
func WithBudget(b *Budget) Option {
	return func(e *Enumerator) error {
		if b != nil {
			if err := b.validate(); err != nil {
				return err
			}
		}
		e.budget = b
		return nil
	}
}

var defaults = []Option{
	func(e *Enumerator) error {
		if e.registry == nil {
			return ErrNoRegistry
		}
		return nil
	},
	func(e *Enumerator) error {
		if e.tracer == nil {
			e.tracer = DefaultTracer{}
		}
		return nil
	},
}

// Enumerate lazily yields every complete, consistent refinement of n
// reachable within maxDepth levels of molecule nesting. n is not
// modified.
//
// A (nil, err) element is always the last one. Local failures, such as
// an exhausted depth budget, surface as an *kenum.UnresolvableError
// only when n yields nothing at all. Configuration errors, exhausted
// time budgets and context errors end the stream wherever they occur.
func (e *Enumerator) Enumerate(ctx context.Context, run string, n node.Node, maxDepth int) iter.Seq2[node.Node, error] {
	s := &search{Enumerator: e, run: run}
	return s.kenum(ctx, n.Clone(), maxDepth, 0)
}

// search carries what is shared by all levels of one top-level
// enumeration.
type search struct {
	*Enumerator
	run string
}

func (s *search) kenum(ctx context.Context, n node.Node, depth, level int) iter.Seq2[node.Node, error] {
	switch t := n.(type) {
	case *node.Atom:
		return s.atom(t, depth, level)
	case *node.Molecule:
		return s.molecule(ctx, t, depth, level)
	}
	return fail(fmt.Errorf("unknown node %T", n))
}

// atom yields one singleton per value. Atoms need no recursion, so
// the depth budget does not apply to them.
func (s *search) atom(a *node.Atom, depth, level int) iter.Seq2[node.Node, error] {
	return func(yield func(node.Node, error) bool) {
		if !a.Values.IsExplicit() {
			yield(nil, s.unresolvable(level, depth, a, kenum.ErrImplicitAtom))
			return
		}
		for v := range a.Values.All() {
			if !yield(node.NewAtom(a.Role(), kset.Wrap(v)), nil) {
				return
			}
		}
	}
}

func (s *search) molecule(ctx context.Context, m *node.Molecule, depth, level int) iter.Seq2[node.Node, error] {
	return func(yield func(node.Node, error) bool) {
		s.trace(kenum.PhaseEnumerate, kenum.EventEnter, level, depth, m, "")
		if err := interrupted(ctx); err != nil {
			s.trace(kenum.PhaseEnumerate, kenum.EventTimeout, level, depth, m, err.Error())
			yield(nil, err)
			return
		}
		if depth < 0 {
			yield(nil, s.unresolvable(level, depth, m, kenum.ErrDepthExhausted))
			return
		}

		if s.memo != nil {
			if m.IsComplete() && s.memo.done(m, depth) {
				s.trace(kenum.PhaseEnumerate, kenum.EventMemoHit, level, depth, m, "complete")
				yield(m.Clone(), nil)
				return
			}
			if entry, ok := s.memo.results(m, depth); ok {
				s.trace(kenum.PhaseEnumerate, kenum.EventMemoHit, level, depth, m, fmt.Sprintf("%d results", len(entry.Results)))
				for _, r := range entry.Results {
					if !yield(r.Clone(), nil) {
						return
					}
				}
				if len(entry.Results) == 0 && entry.Failure != nil {
					yield(nil, entry.Failure)
				}
				return
			}
		}

		var (
			results []node.Node
			failure error
			seen    = map[string]struct{}{}
		)
		for r, err := range s.resolve(ctx, m, depth, level) {
			if err != nil {
				if !isLocal(err) {
					yield(nil, err)
					return
				}
				if failure == nil {
					failure = err
				}
				continue
			}
			key := r.Key()
			if _, ok := seen[key]; ok {
				continue
			}
			seen[key] = struct{}{}
			s.trace(kenum.PhaseEnumerate, kenum.EventYield, level, depth, r, "")
			if s.memo != nil {
				s.memo.recordDone(r, depth)
				results = append(results, r.Clone())
			}
			if !yield(r, nil) {
				return
			}
		}

		if len(seen) == 0 && failure != nil {
			failure = s.unresolvable(level, depth, m, failure)
		} else {
			failure = nil
		}
		if s.memo != nil {
			s.memo.store(m, depth, results, failure)
		}
		if failure != nil {
			yield(nil, failure)
		}
	}
}

// resolve chains the three phases. Unlike the streams it is built
// from, it passes local failures on as they happen and keeps going;
// only other errors end it.
func (s *search) resolve(ctx context.Context, m *node.Molecule, depth, level int) iter.Seq2[node.Node, error] {
	return func(yield func(node.Node, error) bool) {
		for c, err := range s.formation(m, depth, level) {
			if err != nil {
				if !yield(nil, err) || !isLocal(err) {
					return
				}
				continue
			}
			for r, err := range s.relations(ctx, c, depth, level) {
				if err != nil {
					if !yield(nil, err) || !isLocal(err) {
						return
					}
					continue
				}
				for f, err := range s.finishing(ctx, r, depth, level) {
					if err != nil {
						if !yield(nil, err) || !isLocal(err) {
							return
						}
						break
					}
					if !yield(f, nil) {
						return
					}
				}
			}
		}
	}
}

// child returns a restartable enumeration of a child of the node
// being resolved. Complete children are passed through as they are.
func (s *search) child(ctx context.Context, c node.Node, depth, level int) func() iter.Seq2[node.Node, error] {
	if c.IsComplete() {
		return func() iter.Seq2[node.Node, error] {
			return once(c.Clone())
		}
	}
	if s.budget == nil {
		return func() iter.Seq2[node.Node, error] {
			return s.kenum(ctx, c, depth, level)
		}
	}
	return func() iter.Seq2[node.Node, error] {
		return s.budget.stream(ctx, func(ctx context.Context) iter.Seq2[node.Node, error] {
			return s.kenum(ctx, c, depth, level)
		}, func(limit string) {
			s.trace(kenum.PhaseEnumerate, kenum.EventTimeout, level, depth, c, "retrying, budget was "+limit)
		})
	}
}

func (s *search) unresolvable(level, depth int, n node.Node, reason error) error {
	s.trace(kenum.PhaseEnumerate, kenum.EventUnresolvable, level, depth, n, reason.Error())
	return &kenum.UnresolvableError{Node: n.String(), Reason: reason}
}

func (s *search) configError(m *node.Molecule, err error) error {
	cons, _ := m.Constructor()
	return &kenum.ConfigError{Type: m.Type, Constructor: cons, Err: err}
}

func (s *search) trace(phase kenum.Phase, kind kenum.EventKind, level, depth int, n node.Node, detail string) {
	if _, ok := s.tracer.(DefaultTracer); ok {
		return
	}
	s.tracer.Trace(kenum.Event{
		Run:    s.run,
		Phase:  phase,
		Kind:   kind,
		Level:  level,
		Depth:  depth,
		Node:   n.String(),
		Detail: detail,
	})
}

// isLocal reports whether err only rules out the branch it came from.
func isLocal(err error) bool {
	if kenum.IsTimeout(err) {
		return false
	}
	var (
		u *kenum.UnresolvableError
		r *kenum.RelationError
	)
	return errors.As(err, &u) || errors.As(err, &r)
}

func once(n node.Node) iter.Seq2[node.Node, error] {
	return func(yield func(node.Node, error) bool) {
		yield(n, nil)
	}
}

func fail(err error) iter.Seq2[node.Node, error] {
	return func(yield func(node.Node, error) bool) {
		yield(nil, err)
	}
}
