// Package kset implements knowledge sets: the possibility sets held by
// the leaves of a tree. A KSet is either explicit, with enumerable
// content, or implicit, described only by a membership predicate for
// domains that cannot be materialized (any string, any integer).
//
// KSets are values. Operations never modify their operands.
package kset

import (
	"iter"
	"sort"
	"strings"
)

// KSet is a possibility set over literal values. The zero value is the
// implicit universal set.
type KSet struct {
	explicit bool
	members  []Value
	index    map[string]struct{}
	pred     func(Value) bool
	name     string
}

var (
	Any  = Implicit("ANY", nil)
	None = Of()
	STR  = Implicit("STR", func(v Value) bool { _, ok := v.(Str); return ok })
	INT  = Implicit("INT", func(v Value) bool { _, ok := v.(Int); return ok })
	BOOL = Of(Bool(false), Bool(true))
	SET  = Implicit("SET", func(v Value) bool { _, ok := v.(Set); return ok })
)

// Of returns an explicit KSet holding values, deduplicated, in the
// order given.
func Of(values ...Value) KSet {
	k := KSet{
		explicit: true,
		members:  make([]Value, 0, len(values)),
		index:    make(map[string]struct{}, len(values)),
	}
	for _, v := range values {
		key := v.Key()
		if _, ok := k.index[key]; ok {
			continue
		}
		k.index[key] = struct{}{}
		k.members = append(k.members, v)
	}
	return k
}

// Wrap returns the singleton KSet {v}.
func Wrap(v Value) KSet {
	return Of(v)
}

// Strs is shorthand for an explicit set of strings.
func Strs(values ...string) KSet {
	vs := make([]Value, len(values))
	for i, v := range values {
		vs[i] = Str(v)
	}
	return Of(vs...)
}

// Ints is shorthand for an explicit set of integers.
func Ints(values ...int64) KSet {
	vs := make([]Value, len(values))
	for i, v := range values {
		vs[i] = Int(v)
	}
	return Of(vs...)
}

// Implicit returns a KSet described by a predicate. A nil predicate
// admits every value. The name identifies the set in keys and output,
// so two implicit sets with the same name are treated as equal.
func Implicit(name string, pred func(Value) bool) KSet {
	return KSet{name: name, pred: pred}
}

func (k KSet) IsExplicit() bool {
	return k.explicit
}

// IsEmpty reports whether k is explicit and has no members. Implicit
// sets are assumed non-empty.
func (k KSet) IsEmpty() bool {
	return k.explicit && len(k.members) == 0
}

func (k KSet) IsSingleton() bool {
	return k.explicit && len(k.members) == 1
}

// Len returns the number of members, or -1 for an implicit set.
func (k KSet) Len() int {
	if !k.explicit {
		return -1
	}
	return len(k.members)
}

func (k KSet) Contains(v Value) bool {
	if k.explicit {
		_, ok := k.index[v.Key()]
		return ok
	}
	if k.pred == nil {
		return true
	}
	return k.pred(v)
}

// Only returns the single member of a singleton set.
func (k KSet) Only() (Value, bool) {
	if !k.IsSingleton() {
		return nil, false
	}
	return k.members[0], true
}

// Values returns a copy of the members of an explicit set, nil for an
// implicit one.
func (k KSet) Values() []Value {
	if !k.explicit {
		return nil
	}
	out := make([]Value, len(k.members))
	copy(out, k.members)
	return out
}

// All iterates the members of an explicit set in insertion order.
func (k KSet) All() iter.Seq[Value] {
	return func(yield func(Value) bool) {
		for _, v := range k.members {
			if !yield(v) {
				return
			}
		}
	}
}

func (k KSet) filter(keep func(Value) bool) KSet {
	var out []Value
	for _, v := range k.members {
		if keep(v) {
			out = append(out, v)
		}
	}
	return Of(out...)
}

// Intersect returns a ∩ b. The result is explicit whenever either
// operand is; two implicit sets combine their predicates.
func Intersect(a, b KSet) KSet {
	switch {
	case a.explicit:
		return a.filter(b.Contains)
	case b.explicit:
		return b.filter(a.Contains)
	case a.name == b.name:
		return a
	case a.pred == nil:
		return b
	case b.pred == nil:
		return a
	}
	pa, pb := a.pred, b.pred
	return Implicit(a.name+"&"+b.name, func(v Value) bool {
		return pa(v) && pb(v)
	})
}

func (k KSet) Intersect(o KSet) KSet {
	return Intersect(k, o)
}

// Key returns a canonical encoding; explicit sets with the same
// members have the same key regardless of order.
func (k KSet) Key() string {
	if !k.explicit {
		return "<" + k.displayName() + ">"
	}
	keys := make([]string, len(k.members))
	for i, v := range k.members {
		keys[i] = v.Key()
	}
	sort.Strings(keys)
	return "{" + strings.Join(keys, ",") + "}"
}

func (k KSet) Equal(o KSet) bool {
	return k.Key() == o.Key()
}

func (k KSet) displayName() string {
	if k.name == "" {
		return "ANY"
	}
	return k.name
}

func (k KSet) String() string {
	if !k.explicit {
		return k.displayName()
	}
	parts := make([]string, len(k.members))
	for i, v := range k.members {
		parts[i] = v.String()
	}
	return "{" + strings.Join(parts, ", ") + "}"
}
