package node

import (
	"fmt"
	"strings"

	"github.com/khoa-math/kenum/pkg/kenum/kset"
)

// SplitPath splits a path into its roles.
func SplitPath(path string) []string {
	return strings.Split(path, PathSeparator)
}

// Head returns the first role of path, the child of the current node
// the path descends into.
func Head(path string) string {
	head, _, _ := strings.Cut(path, PathSeparator)
	return head
}

// At returns the node found by walking path from n.
func At(n Node, path string) (Node, bool) {
	cur := n
	for _, role := range SplitPath(path) {
		m, ok := cur.(*Molecule)
		if !ok {
			return nil, false
		}
		if cur, ok = m.children[role]; !ok {
			return nil, false
		}
	}
	return cur, true
}

// ValueAt returns the value of the resolved atom at path.
func ValueAt(n Node, path string) (kset.Value, error) {
	found, ok := At(n, path)
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrNoPath, path)
	}
	a, ok := found.(*Atom)
	if !ok {
		return nil, fmt.Errorf("%w: %s is a molecule", ErrKindMismatch, path)
	}
	v, ok := a.Value()
	if !ok {
		return nil, fmt.Errorf("%s is not resolved: %s", path, a.Values)
	}
	return v, nil
}

// NarrowAt intersects the atom at path with k. A missing leaf under an
// existing molecule is created, so that slots of children that have not
// been formed yet can already carry knowledge.
func NarrowAt(n Node, path string, k kset.KSet) error {
	roles := SplitPath(path)
	parent := n
	if len(roles) > 1 {
		var ok bool
		if parent, ok = At(n, strings.Join(roles[:len(roles)-1], PathSeparator)); !ok {
			return fmt.Errorf("%w: %s", ErrNoPath, path)
		}
	}
	m, ok := parent.(*Molecule)
	if !ok {
		return fmt.Errorf("%w: %s", ErrNoPath, path)
	}
	return m.Attach(NewAtom(roles[len(roles)-1], k))
}
