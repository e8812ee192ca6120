package node_test

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/khoa-math/kenum/pkg/kenum/kset"
	"github.com/khoa-math/kenum/pkg/kenum/node"
)

func negationSlots() []node.Node {
	return []node.Node{
		node.NewAtom("text", kset.STR),
		node.NewMolecule("body", "WFF"),
	}
}

func TestCloneIsDeep(t *testing.T) {
	m := node.NewMolecule("", "WFF", node.NewAtom("text", kset.Strs("P", "Q")))
	c := m.Clone().(*node.Molecule)

	require.NoError(t, node.NarrowAt(c, "text", kset.Strs("P")))

	text, _ := m.Child("text")
	assert.Equal(t, 2, text.(*node.Atom).Values.Len())
	text, _ = c.Child("text")
	assert.Equal(t, 1, text.(*node.Atom).Values.Len())
}

func TestAttach(t *testing.T) {
	type tc struct {
		Name         string
		Start        *node.Molecule
		Child        node.Node
		Error        error
		Inconsistent bool
		Key          string
	}

	for _, tt := range []tc{
		{
			Name:  "missing child is added",
			Start: node.NewMolecule("", "WFF"),
			Child: node.NewAtom("text", kset.Strs("P")),
			Key:   `:WFF<ANY>(text={s"P"})`,
		},
		{
			Name:  "atoms are intersected",
			Start: node.NewMolecule("", "WFF", node.NewAtom("text", kset.Strs("P", "Q"))),
			Child: node.NewAtom("text", kset.STR),
			Key:   `:WFF<ANY>(text={s"P",s"Q"})`,
		},
		{
			Name:         "conflicting atoms become inconsistent",
			Start:        node.NewMolecule("", "WFF", node.NewAtom("text", kset.Strs("P"))),
			Child:        node.NewAtom("text", kset.Strs("Q")),
			Inconsistent: true,
			Key:          `:WFF<ANY>(text={})`,
		},
		{
			Name:  "molecules merge children",
			Start: node.NewMolecule("", "PROOF", node.NewMolecule("formu", "WFF", node.NewAtom("text", kset.Strs("P")))),
			Child: node.NewMolecule("formu", "WFF").WithCons("ATOM"),
			Key:   `:PROOF<ANY>(formu:WFF{s"ATOM"}(text={s"P"}))`,
		},
		{
			Name:         "molecules of different types are inconsistent",
			Start:        node.NewMolecule("", "PROOF", node.NewMolecule("formu", "WFF")),
			Child:        node.NewMolecule("formu", "PROOF"),
			Inconsistent: true,
			Key:          `:PROOF<ANY>(formu:WFF{}())`,
		},
		{
			Name:  "atom cannot unify with molecule",
			Start: node.NewMolecule("", "WFF", node.NewAtom("body", kset.STR)),
			Child: node.NewMolecule("body", "WFF"),
			Error: node.ErrKindMismatch,
		},
	} {
		t.Run(tt.Name, func(t *testing.T) {
			err := tt.Start.Attach(tt.Child)
			if tt.Error != nil {
				assert.True(t, errors.Is(err, tt.Error), "got %v", err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.Inconsistent, tt.Start.IsInconsistent())
			assert.Equal(t, tt.Key, tt.Start.Key())
		})
	}
}

func TestForm(t *testing.T) {
	t.Run("attaches the template", func(t *testing.T) {
		m := node.NewMolecule("", "WFF")
		require.NoError(t, m.Form("NEGATION", negationSlots()))
		assert.Equal(t, []string{"body", "text"}, m.Roles())
		assert.True(t, m.Formed())
		cons, ok := m.Constructor()
		require.True(t, ok)
		assert.Equal(t, "NEGATION", cons)
	})

	t.Run("keeps existing knowledge", func(t *testing.T) {
		m := node.NewMolecule("", "WFF", node.NewAtom("text", kset.Strs("(~P)")))
		require.NoError(t, m.Form("NEGATION", negationSlots()))
		v, err := node.ValueAt(m, "text")
		require.NoError(t, err)
		assert.Equal(t, kset.Str("(~P)"), v)
	})

	t.Run("rejects redundant components", func(t *testing.T) {
		m := node.NewMolecule("", "WFF", node.NewAtom("extra", kset.STR))
		err := m.Form("NEGATION", negationSlots())
		assert.True(t, errors.Is(err, node.ErrRedundant), "got %v", err)
	})

	t.Run("constructor outside candidates is inconsistent", func(t *testing.T) {
		m := node.NewMolecule("", "WFF").WithCons("ATOM")
		require.NoError(t, m.Form("NEGATION", negationSlots()))
		assert.True(t, m.IsInconsistent())
	})
}

func TestIsComplete(t *testing.T) {
	m := node.NewMolecule("", "WFF")
	assert.False(t, m.IsComplete(), "unformed molecule is never complete")

	require.NoError(t, m.Form("ATOM", []node.Node{node.NewAtom("text", kset.Strs("P", "Q"))}))
	assert.False(t, m.IsComplete())

	require.NoError(t, node.NarrowAt(m, "text", kset.Strs("Q")))
	assert.True(t, m.IsComplete())
	assert.False(t, m.IsInconsistent())
}

func TestPaths(t *testing.T) {
	m := node.NewMolecule("", "WFF")
	require.NoError(t, m.Form("NEGATION", negationSlots()))

	assert.Equal(t, "body", node.Head("body/text"))
	assert.Equal(t, "text", node.Head("text"))

	_, ok := node.At(m, "body/text")
	assert.False(t, ok)

	require.NoError(t, node.NarrowAt(m, "body/text", kset.Strs("P")))
	v, err := node.ValueAt(m, "body/text")
	require.NoError(t, err)
	assert.Equal(t, kset.Str("P"), v)

	err = node.NarrowAt(m, "missing/text", kset.Strs("P"))
	assert.True(t, errors.Is(err, node.ErrNoPath))

	_, err = node.ValueAt(m, "text")
	assert.Error(t, err, "unresolved atom has no value")

	_, err = node.ValueAt(m, "body")
	assert.True(t, errors.Is(err, node.ErrKindMismatch))
}

func TestString(t *testing.T) {
	m := node.NewMolecule("", "WFF")
	require.NoError(t, m.Form("NEGATION", negationSlots()))
	require.NoError(t, node.NarrowAt(m, "text", kset.Strs("(~P)")))
	assert.Equal(t, "WFF[NEGATION](body=WFF[ANY](), text={(~P)})", m.String())
}
