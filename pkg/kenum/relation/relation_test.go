package relation_test

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/khoa-math/kenum/pkg/kenum/kset"
	"github.com/khoa-math/kenum/pkg/kenum/relation"
)

func succ(args ...kset.Value) (kset.Value, error) {
	return args[0].(kset.Int) + 1, nil
}

func pred(args ...kset.Value) (kset.Value, error) {
	return args[0].(kset.Int) - 1, nil
}

func TestString(t *testing.T) {
	type tc struct {
		Name     string
		Relation relation.Relation
		Kind     relation.Kind
		String   string
		Paths    []string
	}

	for _, tt := range []tc{
		{
			Name:     "fun",
			Relation: relation.Function(succ, "text", "left_f/text", "right_f/text"),
			Kind:     relation.KindFun,
			String:   "left_f/text right_f/text -> text",
			Paths:    []string{"left_f/text", "right_f/text", "text"},
		},
		{
			Name:     "union",
			Relation: relation.Cover("dep", "left_p/dep", "right_p/dep"),
			Kind:     relation.KindUnion,
			String:   "(U left_p/dep right_p/dep) = dep",
			Paths:    []string{"left_p/dep", "right_p/dep", "dep"},
		},
		{
			Name:     "iso",
			Relation: relation.Isomorphism("x", "y", succ, pred),
			Kind:     relation.KindIso,
			String:   "x <-> y",
			Paths:    []string{"x", "y"},
		},
	} {
		t.Run(tt.Name, func(t *testing.T) {
			assert.Equal(t, tt.Kind, tt.Relation.Kind())
			assert.Equal(t, tt.String, tt.Relation.String())
			assert.Equal(t, tt.Paths, tt.Relation.Paths())
			assert.NoError(t, relation.Validate(tt.Relation))
		})
	}
}

func TestIsoDirections(t *testing.T) {
	iso := relation.Isomorphism("x", "y", succ, pred)

	fwd := iso.Forward()
	assert.Equal(t, []string{"x"}, fwd.Inputs)
	assert.Equal(t, "y", fwd.Output)
	v, err := fwd.Fn(kset.Int(4))
	require.NoError(t, err)
	assert.Equal(t, kset.Int(5), v)

	bwd := iso.Backward()
	assert.Equal(t, []string{"y"}, bwd.Inputs)
	assert.Equal(t, "x", bwd.Output)
	v, err = bwd.Fn(kset.Int(4))
	require.NoError(t, err)
	assert.Equal(t, kset.Int(3), v)
}

func TestValidate(t *testing.T) {
	type tc struct {
		Name     string
		Relation relation.Relation
		Error    error
	}

	for _, tt := range []tc{
		{
			Name:     "fun without inputs",
			Relation: relation.Function(succ, "y"),
			Error:    relation.ErrNoInputs,
		},
		{
			Name:     "fun without function",
			Relation: relation.Function(nil, "y", "x"),
			Error:    relation.ErrNoFunc,
		},
		{
			Name:     "empty output",
			Relation: relation.Function(succ, "", "x"),
			Error:    relation.ErrEmptyPath,
		},
		{
			Name:     "trailing separator",
			Relation: relation.Cover("dep/", "a"),
			Error:    relation.ErrEmptyPath,
		},
		{
			Name:     "union without subsets",
			Relation: relation.Cover("dep"),
			Error:    relation.ErrNoInputs,
		},
		{
			Name:     "iso missing a direction",
			Relation: relation.Isomorphism("x", "y", succ, nil),
			Error:    relation.ErrNoFunc,
		},
	} {
		t.Run(tt.Name, func(t *testing.T) {
			err := relation.Validate(tt.Relation)
			assert.True(t, errors.Is(err, tt.Error), "got %v", err)
		})
	}
}
