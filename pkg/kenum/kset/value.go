package kset

import (
	"sort"
	"strconv"
	"strings"
)

// Value is a literal held by an Atom. A KSet never contains trees,
// only values.
type Value interface {
	// Key returns a canonical, type-tagged encoding of the value.
	// Two values are equal iff their keys are equal.
	Key() string
	String() string
}

type Str string

func (s Str) Key() string {
	return "s" + strconv.Quote(string(s))
}

func (s Str) String() string {
	return string(s)
}

type Int int64

func (i Int) Key() string {
	return "i" + strconv.FormatInt(int64(i), 10)
}

func (i Int) String() string {
	return strconv.FormatInt(int64(i), 10)
}

type Bool bool

func (b Bool) Key() string {
	return "b" + strconv.FormatBool(bool(b))
}

func (b Bool) String() string {
	return strconv.FormatBool(bool(b))
}

// Set is an immutable set of values. Members are kept sorted by key so
// that equal sets have equal keys.
type Set struct {
	members []Value
}

func NewSet(values ...Value) Set {
	seen := make(map[string]struct{}, len(values))
	members := make([]Value, 0, len(values))
	for _, v := range values {
		k := v.Key()
		if _, ok := seen[k]; ok {
			continue
		}
		seen[k] = struct{}{}
		members = append(members, v)
	}
	sort.Slice(members, func(i, j int) bool {
		return members[i].Key() < members[j].Key()
	})
	return Set{members: members}
}

func (s Set) Len() int {
	return len(s.members)
}

// Members returns a copy of the members in key order.
func (s Set) Members() []Value {
	out := make([]Value, len(s.members))
	copy(out, s.members)
	return out
}

func (s Set) Contains(v Value) bool {
	k := v.Key()
	i := sort.Search(len(s.members), func(i int) bool {
		return s.members[i].Key() >= k
	})
	return i < len(s.members) && s.members[i].Key() == k
}

func (s Set) Union(o Set) Set {
	return NewSet(append(s.Members(), o.members...)...)
}

func (s Set) Minus(o Set) Set {
	var out []Value
	for _, v := range s.members {
		if !o.Contains(v) {
			out = append(out, v)
		}
	}
	return NewSet(out...)
}

func (s Set) IsSubset(o Set) bool {
	for _, v := range s.members {
		if !o.Contains(v) {
			return false
		}
	}
	return true
}

func (s Set) Key() string {
	keys := make([]string, len(s.members))
	for i, v := range s.members {
		keys[i] = v.Key()
	}
	return "{" + strings.Join(keys, ",") + "}"
}

func (s Set) String() string {
	parts := make([]string, len(s.members))
	for i, v := range s.members {
		parts[i] = v.String()
	}
	return "{" + strings.Join(parts, ", ") + "}"
}
