package enumerator

import (
	"iter"

	"github.com/go-air/gini"
	"github.com/go-air/gini/z"

	"github.com/khoa-math/kenum/pkg/kenum/kset"
)

const satisfiable = 1

// covers enumerates the ways to pick one subset of super per entry of
// candidates such that together they cover super. Subsets may overlap.
// A nil entry admits any subset of super; otherwise the subset must be
// one of the listed ones.
//
// The choices are the models of a CNF over x[i][j], "element j of super
// is in subset i": every element is covered by some subset, and a
// subset with candidates equals one of them. Models are enumerated by
// blocking each one after it has been read.
func covers(super kset.Set, candidates [][]kset.Set) iter.Seq[[]kset.Set] {
	return func(yield func([]kset.Set) bool) {
		for _, cands := range candidates {
			if cands != nil && len(cands) == 0 {
				return
			}
		}
		elems := super.Members()
		if len(elems) == 0 {
			if admitsEmpty(candidates) {
				out := make([]kset.Set, len(candidates))
				for i := range out {
					out[i] = kset.NewSet()
				}
				yield(out)
			}
			return
		}

		g := gini.New()
		next := z.Var(1)
		lit := func() z.Lit {
			m := next.Pos()
			next++
			return m
		}

		x := make([][]z.Lit, len(candidates))
		for i := range x {
			x[i] = make([]z.Lit, len(elems))
			for j := range elems {
				x[i][j] = lit()
			}
		}
		for j := range elems {
			for i := range x {
				g.Add(x[i][j])
			}
			g.Add(z.LitNull)
		}
		for i, cands := range candidates {
			if cands == nil {
				continue
			}
			selectors := make([]z.Lit, len(cands))
			for k, c := range cands {
				selectors[k] = lit()
				for j, e := range elems {
					g.Add(selectors[k].Not())
					if c.Contains(e) {
						g.Add(x[i][j])
					} else {
						g.Add(x[i][j].Not())
					}
					g.Add(z.LitNull)
				}
			}
			for _, m := range selectors {
				g.Add(m)
			}
			g.Add(z.LitNull)
		}

		for g.Solve() == satisfiable {
			out := make([]kset.Set, len(x))
			for i := range x {
				var members []kset.Value
				for j, e := range elems {
					if g.Value(x[i][j]) {
						members = append(members, e)
					}
				}
				out[i] = kset.NewSet(members...)
			}
			for i := range x {
				for j := range elems {
					if g.Value(x[i][j]) {
						g.Add(x[i][j].Not())
					} else {
						g.Add(x[i][j])
					}
				}
			}
			g.Add(z.LitNull)
			if !yield(out) {
				return
			}
		}
	}
}

func admitsEmpty(candidates [][]kset.Set) bool {
	for _, cands := range candidates {
		if cands == nil {
			continue
		}
		found := false
		for _, c := range cands {
			if c.Len() == 0 {
				found = true
				break
			}
		}
		if !found {
			return false
		}
	}
	return true
}
