package enumerator

import (
	"context"
	"iter"

	"github.com/khoa-math/kenum/pkg/kenum"
	"github.com/khoa-math/kenum/pkg/kenum/node"
)

// finishing enumerates every child that is not complete yet and yields
// one node per combination. A node whose children are all complete is
// yielded as it is.
func (s *search) finishing(ctx context.Context, n *node.Molecule, depth, level int) iter.Seq2[node.Node, error] {
	return func(yield func(node.Node, error) bool) {
		var factors []func() iter.Seq2[node.Node, error]
		for _, c := range n.Children() {
			if c.IsComplete() {
				continue
			}
			factors = append(factors, s.child(ctx, c, depth-1, level+1))
		}
		for combo, err := range product(factors) {
			if err != nil {
				yield(nil, err)
				return
			}
			f := n.Clone().(*node.Molecule)
			for _, c := range combo {
				f.Set(c.Clone())
			}
			if f.IsInconsistent() || !f.IsComplete() {
				s.trace(kenum.PhaseFinishing, kenum.EventInconsistent, level, depth, f, "")
				continue
			}
			if !yield(f, nil) {
				return
			}
		}
	}
}
