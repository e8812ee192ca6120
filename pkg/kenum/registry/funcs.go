package registry

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/khoa-math/kenum/pkg/kenum/kset"
	"github.com/khoa-math/kenum/pkg/kenum/relation"
)

var ErrUnknownFunc = errors.New("function not in catalog")

// FuncFactory builds a relation function from the arguments given in a
// declarative registry.
type FuncFactory func(args ...string) (relation.Func, error)

// Catalog names the functions a declarative registry may refer to.
type Catalog struct {
	funcs map[string]FuncFactory
}

// NewCatalog returns a catalog holding the built-in functions:
//
//	format <template>   fmt-style template over the inputs' text
//	concat [separator]  inputs' text joined by separator
//	identity            the single input
//	add <n>             integer input plus n
//	singleton           the one-element set holding the input
//	only                the member of a one-element set
func NewCatalog() *Catalog {
	return &Catalog{funcs: map[string]FuncFactory{
		"format":    formatFunc,
		"concat":    concatFunc,
		"identity":  identityFunc,
		"add":       addFunc,
		"singleton": singletonFunc,
		"only":      onlyFunc,
	}}
}

func (c *Catalog) Register(name string, f FuncFactory) {
	c.funcs[name] = f
}

func (c *Catalog) Resolve(name string, args ...string) (relation.Func, error) {
	f, ok := c.funcs[name]
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnknownFunc, name)
	}
	fn, err := f(args...)
	if err != nil {
		return nil, fmt.Errorf("function %s: %w", name, err)
	}
	return fn, nil
}

func texts(values []kset.Value) []any {
	out := make([]any, len(values))
	for i, v := range values {
		out[i] = v.String()
	}
	return out
}

func formatFunc(args ...string) (relation.Func, error) {
	if len(args) != 1 {
		return nil, fmt.Errorf("expected a template, got %d arguments", len(args))
	}
	template := args[0]
	return func(values ...kset.Value) (kset.Value, error) {
		return kset.Str(fmt.Sprintf(template, texts(values)...)), nil
	}, nil
}

func concatFunc(args ...string) (relation.Func, error) {
	sep := ""
	if len(args) > 0 {
		sep = args[0]
	}
	return func(values ...kset.Value) (kset.Value, error) {
		parts := make([]string, len(values))
		for i, v := range values {
			parts[i] = v.String()
		}
		return kset.Str(strings.Join(parts, sep)), nil
	}, nil
}

func identityFunc(...string) (relation.Func, error) {
	return func(values ...kset.Value) (kset.Value, error) {
		if len(values) != 1 {
			return nil, fmt.Errorf("identity takes one input, got %d", len(values))
		}
		return values[0], nil
	}, nil
}

func addFunc(args ...string) (relation.Func, error) {
	if len(args) != 1 {
		return nil, fmt.Errorf("expected an offset, got %d arguments", len(args))
	}
	n, err := strconv.ParseInt(args[0], 10, 64)
	if err != nil {
		return nil, err
	}
	return func(values ...kset.Value) (kset.Value, error) {
		if len(values) != 1 {
			return nil, fmt.Errorf("add takes one input, got %d", len(values))
		}
		i, ok := values[0].(kset.Int)
		if !ok {
			return nil, fmt.Errorf("add: %s is not an integer", values[0])
		}
		return i + kset.Int(n), nil
	}, nil
}

func singletonFunc(...string) (relation.Func, error) {
	return func(values ...kset.Value) (kset.Value, error) {
		if len(values) != 1 {
			return nil, fmt.Errorf("singleton takes one input, got %d", len(values))
		}
		return kset.NewSet(values[0]), nil
	}, nil
}

func onlyFunc(...string) (relation.Func, error) {
	return func(values ...kset.Value) (kset.Value, error) {
		if len(values) != 1 {
			return nil, fmt.Errorf("only takes one input, got %d", len(values))
		}
		s, ok := values[0].(kset.Set)
		if !ok || s.Len() != 1 {
			return nil, fmt.Errorf("only: %s is not a one-element set", values[0])
		}
		return s.Members()[0], nil
	}, nil
}
