package enumerator

import (
	"iter"

	"github.com/khoa-math/kenum/pkg/kenum/node"
)

// product lazily walks the Cartesian product of the given streams, the
// last one varying fastest. Each stream is restarted once per
// combination of the streams before it, so only one element per stream
// is held at a time. The combinations share nodes: clone before
// modifying them.
//
// The first error from any stream ends the product.
func product(factors []func() iter.Seq2[node.Node, error]) iter.Seq2[[]node.Node, error] {
	return func(yield func([]node.Node, error) bool) {
		combo := make([]node.Node, len(factors))
		var walk func(i int) bool
		walk = func(i int) bool {
			if i == len(factors) {
				return yield(append([]node.Node(nil), combo...), nil)
			}
			for n, err := range factors[i]() {
				if err != nil {
					yield(nil, err)
					return false
				}
				combo[i] = n
				if !walk(i + 1) {
					return false
				}
			}
			return true
		}
		walk(0)
	}
}

// fallback yields from primary, unless primary fails with a local error
// before yielding anything; then it yields from secondary instead.
func fallback[T any](primary, secondary func() iter.Seq2[T, error]) iter.Seq2[T, error] {
	return func(yield func(T, error) bool) {
		first := true
		for v, err := range primary() {
			if err != nil {
				if first && isLocal(err) {
					for v, err := range secondary() {
						if !yield(v, err) || err != nil {
							return
						}
					}
					return
				}
				yield(v, err)
				return
			}
			first = false
			if !yield(v, nil) {
				return
			}
		}
	}
}
