// Package typedata provides ready-made type dictionaries: well-formed
// formulas of propositional logic and a few small types that exercise
// each kind of relation.
package typedata

import (
	"github.com/khoa-math/kenum/pkg/kenum/kset"
	"github.com/khoa-math/kenum/pkg/kenum/node"
	"github.com/khoa-math/kenum/pkg/kenum/registry"
	"github.com/khoa-math/kenum/pkg/kenum/relation"
)

const (
	WFF     = "WFF"
	WFFTest = "WFF_TEST"
	Uni     = "UNI"
	IsoTest = "ISO_TEST"
	Multi   = "MULTI"
)

var catalog = registry.NewCatalog()

func fn(name string, args ...string) relation.Func {
	f, err := catalog.Resolve(name, args...)
	if err != nil {
		panic(err)
	}
	return f
}

func sets(members ...[]int64) kset.KSet {
	vs := make([]kset.Value, len(members))
	for i, m := range members {
		ints := make([]kset.Value, len(m))
		for j, v := range m {
			ints[j] = kset.Int(v)
		}
		vs[i] = kset.NewSet(ints...)
	}
	return kset.Of(vs...)
}

// Formulas returns the constructors of a formula type whose atoms take
// their text from atoms.
func Formulas(typ string, atoms kset.KSet) []registry.Constructor {
	return []registry.Constructor{
		{
			Name:  "ATOM",
			Slots: []node.Node{node.NewAtom("text", atoms)},
		},
		{
			Name: "NEGATION",
			Slots: []node.Node{
				node.NewAtom("text", kset.STR),
				node.NewMolecule("body", typ),
			},
			Relations: []relation.Relation{
				relation.Function(fn("format", "(~%s)"), "text", "body/text"),
			},
		},
		{
			Name: "CONJUNCTION",
			Slots: []node.Node{
				node.NewAtom("text", kset.STR),
				node.NewMolecule("left_f", typ),
				node.NewMolecule("right_f", typ),
			},
			Relations: []relation.Relation{
				relation.Function(fn("format", "(%s&%s)"), "text", "left_f/text", "right_f/text"),
			},
		},
	}
}

// RegisterFormulas adds WFF, whose atoms may be any string, and
// WFF_TEST, whose atoms are P or Q.
func RegisterFormulas(r *registry.MapRegistry) {
	r.MustRegister(WFF, Formulas(WFF, kset.STR)...)
	r.MustRegister(WFFTest, Formulas(WFFTest, kset.Strs("P", "Q"))...)
}

// RegisterUnions adds UNI. ONE is missing a subset, TWO the superset.
func RegisterUnions(r *registry.MapRegistry) {
	r.MustRegister(Uni,
		registry.Constructor{
			Name: "ONE",
			Slots: []node.Node{
				node.NewAtom("sub0", kset.SET),
				node.NewAtom("sub1", sets([]int64{1, 2}, []int64{3})),
				node.NewAtom("super", sets([]int64{1, 2, 3}, []int64{2, 3, 4})),
			},
			Relations: []relation.Relation{relation.Cover("super", "sub0", "sub1")},
		},
		registry.Constructor{
			Name: "TWO",
			Slots: []node.Node{
				node.NewAtom("sub0", sets([]int64{6, 3, 4})),
				node.NewAtom("sub1", sets([]int64{1, 2}, []int64{3})),
				node.NewAtom("super", kset.SET),
			},
			Relations: []relation.Relation{relation.Cover("super", "sub0", "sub1")},
		},
	)
}

// RegisterIsomorphisms adds ISO_TEST, where y = x + 1. ONE knows only
// y, TWO only x.
func RegisterIsomorphisms(r *registry.MapRegistry) {
	iso := func() relation.Relation {
		return relation.Isomorphism("x", "y", fn("add", "1"), fn("add", "-1"))
	}
	r.MustRegister(IsoTest,
		registry.Constructor{
			Name:      "ONE",
			Slots:     []node.Node{node.NewAtom("x", kset.INT), node.NewAtom("y", kset.Ints(4, 5, 8))},
			Relations: []relation.Relation{iso()},
		},
		registry.Constructor{
			Name:      "TWO",
			Slots:     []node.Node{node.NewAtom("x", kset.Ints(4, 5, 8)), node.NewAtom("y", kset.INT)},
			Relations: []relation.Relation{iso()},
		},
	)
}

// RegisterMulti adds MULTI, where z can only be derived after x.
func RegisterMulti(r *registry.MapRegistry) {
	r.MustRegister(Multi, registry.Constructor{
		Name: "ONE",
		Slots: []node.Node{
			node.NewAtom("x", kset.INT),
			node.NewAtom("y", kset.Ints(4, 5, 8)),
			node.NewAtom("z", kset.INT),
		},
		Relations: []relation.Relation{
			relation.Function(fn("identity"), "z", "x"),
			relation.Isomorphism("x", "y", fn("add", "1"), fn("add", "-1")),
		},
	})
}

// Registry returns a registry holding every dictionary of this package.
func Registry() *registry.MapRegistry {
	r := registry.New()
	RegisterFormulas(r)
	RegisterUnions(r)
	RegisterIsomorphisms(r)
	RegisterMulti(r)
	return r
}
