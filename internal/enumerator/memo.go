package enumerator

import (
	"strconv"

	"github.com/cespare/xxhash/v2"

	"github.com/khoa-math/kenum/pkg/kenum"
	"github.com/khoa-math/kenum/pkg/kenum/cache"
	"github.com/khoa-math/kenum/pkg/kenum/node"
)

// Memo remembers finished nodes and the result lists of enumerations
// that ran to the end. Entries are keyed by a digest of the node's
// structural key and checked against the full key on lookup.
type Memo struct {
	cache cache.Cache[kenum.MemoEntry]
}

func NewMemo(c cache.Cache[kenum.MemoEntry]) *Memo {
	return &Memo{cache: c}
}

func digest(prefix, key string) cache.Key {
	return cache.Key(prefix + strconv.FormatUint(xxhash.Sum64String(key), 16))
}

func doneKey(n node.Node) (cache.Key, string) {
	key := n.Key()
	return digest("done/", key), key
}

func resultsKey(n node.Node, depth int) (cache.Key, string) {
	key := n.Key()
	return digest("results/"+strconv.Itoa(depth)+"/", key), key
}

// done reports whether n was produced as a result with a depth budget
// of at most depth.
func (m *Memo) done(n node.Node, depth int) bool {
	k, full := doneKey(n)
	entry, ok := m.cache.Get(k)
	return ok && entry.Key == full && entry.MinDepth <= depth
}

func (m *Memo) recordDone(n node.Node, depth int) {
	k, full := doneKey(n)
	if entry, ok := m.cache.Get(k); ok && entry.Key == full && entry.MinDepth <= depth {
		return
	}
	m.cache.Set(k, kenum.MemoEntry{Key: full, MinDepth: depth})
}

func (m *Memo) results(n node.Node, depth int) (kenum.MemoEntry, bool) {
	k, full := resultsKey(n, depth)
	entry, ok := m.cache.Get(k)
	if !ok || entry.Key != full {
		return kenum.MemoEntry{}, false
	}
	return entry, true
}

func (m *Memo) store(n node.Node, depth int, results []node.Node, failure error) {
	k, full := resultsKey(n, depth)
	m.cache.Set(k, kenum.MemoEntry{Key: full, Results: results, Failure: failure})
}

// Len returns the number of entries held.
func (m *Memo) Len() int {
	return m.cache.Len()
}
