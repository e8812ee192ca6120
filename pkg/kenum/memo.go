package kenum

import "github.com/khoa-math/kenum/pkg/kenum/node"

// MemoEntry is what an enumerator remembers about a node between
// enumerations. Key is the node's full structural key; entries are
// stored under a digest of it.
type MemoEntry struct {
	Key string
	// MinDepth is the smallest depth budget the node was produced
	// with, for entries recording a finished node.
	MinDepth int
	// Results and Failure are the outcome of an enumeration that ran to
	// the end, for entries recording a result list.
	Results []node.Node
	Failure error
}
