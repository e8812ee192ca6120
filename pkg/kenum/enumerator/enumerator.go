// Package enumerator is the entry point for enumerating trees: given a
// registry of constructors and a partially specified tree, it yields
// every complete, consistent tree the partial one can be refined to.
package enumerator

import (
	"context"
	"errors"
	"fmt"
	"iter"
	"time"

	"github.com/khoa-math/kenum/internal/enumerator"
	"github.com/khoa-math/kenum/pkg/kenum"
	"github.com/khoa-math/kenum/pkg/kenum/cache"
	"github.com/khoa-math/kenum/pkg/kenum/node"
	"github.com/khoa-math/kenum/pkg/kenum/registry"
)

var (
	ErrNegativeDepth = errors.New("max depth must not be negative")
	ErrNilRoot       = errors.New("root must not be nil")
)

// Enumerator enumerates trees against a fixed registry. Results are
// memoized across calls unless WithoutMemo is given. An Enumerator is
// not safe for concurrent use.
type Enumerator struct {
	registry registry.Registry
	tracer   kenum.Tracer
	runIDs   kenum.RunIDProvider
	memo     cache.Cache[kenum.MemoEntry]
	noMemo   bool
	budget   *enumerator.Budget

	engine *enumerator.Enumerator
}

type Option func(e *Enumerator) error

func WithTracer(t kenum.Tracer) Option {
	return func(e *Enumerator) error {
		e.tracer = t
		return nil
	}
}

// WithMemo stores memoized results in c instead of an unbounded map.
func WithMemo(c cache.Cache[kenum.MemoEntry]) Option {
	return func(e *Enumerator) error {
		e.memo = c
		e.noMemo = false
		return nil
	}
}

func WithoutMemo() Option {
	return func(e *Enumerator) error {
		e.noMemo = true
		return nil
	}
}

// WithBudget gives every child enumeration initial time to produce its
// results. An enumeration running out of time is restarted with its
// budget multiplied by factor, at most attempts times; zero attempts
// means no limit besides the context passed to Enumerate.
func WithBudget(initial time.Duration, factor float64, attempts int) Option {
	return func(e *Enumerator) error {
		e.budget = &enumerator.Budget{Initial: initial, Factor: factor, Attempts: attempts}
		return nil
	}
}

func WithRunIDProvider(p kenum.RunIDProvider) Option {
	return func(e *Enumerator) error {
		e.runIDs = p
		return nil
	}
}

var defaults = []Option{
	func(e *Enumerator) error {
		if e.tracer == nil {
			e.tracer = enumerator.DefaultTracer{}
		}
		return nil
	},
	func(e *Enumerator) error {
		if e.runIDs == nil {
			e.runIDs = kenum.NewUUIDRunIDProvider()
		}
		return nil
	},
	func(e *Enumerator) error {
		if e.memo == nil && !e.noMemo {
			e.memo = cache.NewMapCache[kenum.MemoEntry]()
		}
		return nil
	},
}

func New(r registry.Registry, options ...Option) (*Enumerator, error) {
	e := Enumerator{registry: r}
	for _, option := range append(options, defaults...) {
		if err := option(&e); err != nil {
			return nil, err
		}
	}

	engineOptions := []enumerator.Option{
		enumerator.WithRegistry(e.registry),
		enumerator.WithTracer(e.tracer),
		enumerator.WithBudget(e.budget),
	}
	if !e.noMemo {
		engineOptions = append(engineOptions, enumerator.WithMemo(enumerator.NewMemo(e.memo)))
	}
	engine, err := enumerator.NewEnumerator(engineOptions...)
	if err != nil {
		return nil, err
	}
	e.engine = engine
	return &e, nil
}

// Enumerate lazily yields the complete, consistent refinements of root
// that need at most maxDepth levels of molecule nesting below the root.
// root is not modified and the results do not share structure with it.
//
// Finding nothing is not an error: the sequence is simply empty. An
// error is yielded, as the last element, only when root cannot be
// enumerated at all with the registry, when a time budget is exhausted
// or when ctx is done.
func (e *Enumerator) Enumerate(ctx context.Context, root node.Node, maxDepth int) iter.Seq2[node.Node, error] {
	return func(yield func(node.Node, error) bool) {
		if root == nil {
			yield(nil, ErrNilRoot)
			return
		}
		if maxDepth < 0 {
			yield(nil, fmt.Errorf("%w: %d", ErrNegativeDepth, maxDepth))
			return
		}
		for n, err := range e.engine.Enumerate(ctx, e.runIDs.NextRunID(), root, maxDepth) {
			if err != nil {
				if kenum.IsConfig(err) || kenum.IsTimeout(err) || ctx.Err() != nil {
					yield(nil, err)
				}
				return
			}
			if !yield(n, nil) {
				return
			}
		}
	}
}

// All collects the results of Enumerate.
func (e *Enumerator) All(ctx context.Context, root node.Node, maxDepth int) ([]node.Node, error) {
	var out []node.Node
	for n, err := range e.Enumerate(ctx, root, maxDepth) {
		if err != nil {
			return out, err
		}
		out = append(out, n)
	}
	return out, nil
}
