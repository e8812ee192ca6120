// Package relation declares the constraints a constructor places
// between positions of a node. Paths are '/'-separated roles rooted at
// the node being resolved.
package relation

import (
	"errors"
	"fmt"
	"strings"

	"github.com/khoa-math/kenum/pkg/kenum/kset"
)

type Kind string

const (
	KindFun   Kind = "FUN"
	KindUnion Kind = "UNION"
	KindIso   Kind = "ISO"
)

// Func is a pure function over resolved values.
type Func func(args ...kset.Value) (kset.Value, error)

type Relation interface {
	Kind() Kind
	// Paths lists every path the relation reads or writes.
	Paths() []string
	String() string

	isRelation()
}

// Fun derives Output deterministically from Inputs.
type Fun struct {
	Inputs []string
	Output string
	Fn     Func
}

// Function returns a functional relation output = fn(inputs...).
func Function(fn Func, output string, inputs ...string) *Fun {
	return &Fun{Inputs: inputs, Output: output, Fn: fn}
}

func (r *Fun) Kind() Kind {
	return KindFun
}

func (r *Fun) Paths() []string {
	return append(append([]string{}, r.Inputs...), r.Output)
}

func (r *Fun) String() string {
	return fmt.Sprintf("%s -> %s", strings.Join(r.Inputs, " "), r.Output)
}

func (r *Fun) isRelation() {}

// Union states that Superset is the union of Subsets. The subsets may
// overlap.
type Union struct {
	Subsets  []string
	Superset string
}

// Cover returns the relation superset = ∪ subsets.
func Cover(superset string, subsets ...string) *Union {
	return &Union{Subsets: subsets, Superset: superset}
}

func (r *Union) Kind() Kind {
	return KindUnion
}

func (r *Union) Paths() []string {
	return append(append([]string{}, r.Subsets...), r.Superset)
}

func (r *Union) String() string {
	return fmt.Sprintf("(U %s) = %s", strings.Join(r.Subsets, " "), r.Superset)
}

func (r *Union) isRelation() {}

// Iso is a bijection between Left and Right; either side determines the
// other.
type Iso struct {
	Left        string
	Right       string
	LeftToRight Func
	RightToLeft Func
}

func Isomorphism(left, right string, leftToRight, rightToLeft Func) *Iso {
	return &Iso{Left: left, Right: right, LeftToRight: leftToRight, RightToLeft: rightToLeft}
}

func (r *Iso) Kind() Kind {
	return KindIso
}

func (r *Iso) Paths() []string {
	return []string{r.Left, r.Right}
}

func (r *Iso) String() string {
	return fmt.Sprintf("%s <-> %s", r.Left, r.Right)
}

// Forward is the left to right direction as a functional relation.
func (r *Iso) Forward() *Fun {
	return Function(r.LeftToRight, r.Right, r.Left)
}

// Backward is the right to left direction as a functional relation.
func (r *Iso) Backward() *Fun {
	return Function(r.RightToLeft, r.Left, r.Right)
}

func (r *Iso) isRelation() {}

var (
	ErrEmptyPath = errors.New("empty path")
	ErrNoFunc    = errors.New("missing function")
	ErrNoInputs  = errors.New("missing inputs")
)

// Validate checks that a relation is well-formed.
func Validate(r Relation) error {
	for _, p := range r.Paths() {
		if p == "" || strings.HasPrefix(p, "/") || strings.HasSuffix(p, "/") {
			return fmt.Errorf("%s: %w %q", r, ErrEmptyPath, p)
		}
	}
	switch rel := r.(type) {
	case *Fun:
		if len(rel.Inputs) == 0 {
			return fmt.Errorf("%s: %w", r, ErrNoInputs)
		}
		if rel.Fn == nil {
			return fmt.Errorf("%s: %w", r, ErrNoFunc)
		}
	case *Union:
		if len(rel.Subsets) == 0 {
			return fmt.Errorf("%s: %w", r, ErrNoInputs)
		}
	case *Iso:
		if rel.LeftToRight == nil || rel.RightToLeft == nil {
			return fmt.Errorf("%s: %w", r, ErrNoFunc)
		}
	}
	return nil
}
