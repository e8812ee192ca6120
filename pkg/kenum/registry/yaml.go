package registry

import (
	"fmt"
	"os"
	"strconv"

	"gopkg.in/yaml.v3"

	"github.com/khoa-math/kenum/pkg/kenum/kset"
	"github.com/khoa-math/kenum/pkg/kenum/node"
	"github.com/khoa-math/kenum/pkg/kenum/relation"
)

type document struct {
	Types []typeSpec `yaml:"types"`
}

type typeSpec struct {
	Name         string     `yaml:"name"`
	Constructors []consSpec `yaml:"constructors"`
}

type consSpec struct {
	Name      string         `yaml:"name"`
	Slots     []slotSpec     `yaml:"slots"`
	Relations []relationSpec `yaml:"relations"`
}

// slotSpec is an atom when Type is empty, a molecule otherwise.
type slotSpec struct {
	Role   string      `yaml:"role"`
	Domain string      `yaml:"domain"`
	Values []yaml.Node `yaml:"values"`
	Type   string      `yaml:"type"`
	Cons   []string    `yaml:"cons"`
	Slots  []slotSpec  `yaml:"slots"`
}

type funcRef struct {
	Func string   `yaml:"func"`
	Args []string `yaml:"args"`
}

type funSpec struct {
	funcRef `yaml:",inline"`
	Inputs  []string `yaml:"inputs"`
	Output  string   `yaml:"output"`
}

type unionSpec struct {
	Subsets  []string `yaml:"subsets"`
	Superset string   `yaml:"superset"`
}

type isoSpec struct {
	Left        string  `yaml:"left"`
	Right       string  `yaml:"right"`
	LeftToRight funcRef `yaml:"left_to_right"`
	RightToLeft funcRef `yaml:"right_to_left"`
}

type relationSpec struct {
	Fun   *funSpec   `yaml:"fun"`
	Union *unionSpec `yaml:"union"`
	Iso   *isoSpec   `yaml:"iso"`
}

var domains = map[string]kset.KSet{
	"ANY":  kset.Any,
	"STR":  kset.STR,
	"INT":  kset.INT,
	"BOOL": kset.BOOL,
	"SET":  kset.SET,
}

// Load reads a registry from a YAML file. Relation functions are
// resolved by name in catalog.
func Load(path string, catalog *Catalog) (*MapRegistry, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("error reading registry file (%s): %w", path, err)
	}
	r, err := Parse(data, catalog)
	if err != nil {
		return nil, fmt.Errorf("error parsing registry file (%s): %w", path, err)
	}
	return r, nil
}

func Parse(data []byte, catalog *Catalog) (*MapRegistry, error) {
	var doc document
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, err
	}
	r := New()
	for _, t := range doc.Types {
		constructors := make([]Constructor, 0, len(t.Constructors))
		for _, cs := range t.Constructors {
			c, err := cs.build(catalog)
			if err != nil {
				return nil, fmt.Errorf("type %s constructor %s: %w", t.Name, cs.Name, err)
			}
			constructors = append(constructors, c)
		}
		if err := r.Register(t.Name, constructors...); err != nil {
			return nil, err
		}
	}
	return r, nil
}

func (cs consSpec) build(catalog *Catalog) (Constructor, error) {
	c := Constructor{Name: cs.Name}
	for _, ss := range cs.Slots {
		slot, err := ss.build()
		if err != nil {
			return c, err
		}
		c.Slots = append(c.Slots, slot)
	}
	for i, rs := range cs.Relations {
		rel, err := rs.build(catalog)
		if err != nil {
			return c, fmt.Errorf("relation %d: %w", i, err)
		}
		c.Relations = append(c.Relations, rel)
	}
	return c, nil
}

func (ss slotSpec) build() (node.Node, error) {
	if ss.Type != "" {
		m := node.NewMolecule(ss.Role, ss.Type)
		if len(ss.Cons) > 0 {
			m.WithCons(ss.Cons...)
		}
		for _, child := range ss.Slots {
			n, err := child.build()
			if err != nil {
				return nil, err
			}
			m.Set(n)
		}
		return m, nil
	}
	values := kset.Any
	if ss.Domain != "" {
		d, ok := domains[ss.Domain]
		if !ok {
			return nil, fmt.Errorf("slot %s: unknown domain %q", ss.Role, ss.Domain)
		}
		values = d
	}
	if ss.Values != nil {
		vs := make([]kset.Value, 0, len(ss.Values))
		for i := range ss.Values {
			v, err := decodeValue(&ss.Values[i])
			if err != nil {
				return nil, fmt.Errorf("slot %s: %w", ss.Role, err)
			}
			vs = append(vs, v)
		}
		values = values.Intersect(kset.Of(vs...))
	}
	return node.NewAtom(ss.Role, values), nil
}

// decodeValue maps scalars to Int, Bool or Str by their resolved tag and
// sequences to Set.
func decodeValue(n *yaml.Node) (kset.Value, error) {
	switch n.Kind {
	case yaml.ScalarNode:
		switch n.ShortTag() {
		case "!!int":
			i, err := strconv.ParseInt(n.Value, 10, 64)
			if err != nil {
				return nil, err
			}
			return kset.Int(i), nil
		case "!!bool":
			b, err := strconv.ParseBool(n.Value)
			if err != nil {
				return nil, err
			}
			return kset.Bool(b), nil
		default:
			return kset.Str(n.Value), nil
		}
	case yaml.SequenceNode:
		members := make([]kset.Value, 0, len(n.Content))
		for _, c := range n.Content {
			v, err := decodeValue(c)
			if err != nil {
				return nil, err
			}
			members = append(members, v)
		}
		return kset.NewSet(members...), nil
	}
	return nil, fmt.Errorf("line %d: unsupported value", n.Line)
}

func (rs relationSpec) build(catalog *Catalog) (relation.Relation, error) {
	set := 0
	for _, present := range []bool{rs.Fun != nil, rs.Union != nil, rs.Iso != nil} {
		if present {
			set++
		}
	}
	if set != 1 {
		return nil, fmt.Errorf("exactly one of fun, union or iso must be given")
	}
	switch {
	case rs.Fun != nil:
		fn, err := catalog.Resolve(rs.Fun.Func, rs.Fun.Args...)
		if err != nil {
			return nil, err
		}
		return relation.Function(fn, rs.Fun.Output, rs.Fun.Inputs...), nil
	case rs.Union != nil:
		return relation.Cover(rs.Union.Superset, rs.Union.Subsets...), nil
	default:
		lr, err := catalog.Resolve(rs.Iso.LeftToRight.Func, rs.Iso.LeftToRight.Args...)
		if err != nil {
			return nil, err
		}
		rl, err := catalog.Resolve(rs.Iso.RightToLeft.Func, rs.Iso.RightToLeft.Args...)
		if err != nil {
			return nil, err
		}
		return relation.Isomorphism(rs.Iso.Left, rs.Iso.Right, lr, rl), nil
	}
}
