// Package beam implements the layered beam search: state nodes, the
// lock-sharded deduplicating collector, the two-objective diversity
// selector, the fixed worker pool that fans layer expansion out across
// goroutines, and the driver loop that ties them together.
package beam

import (
	"beamsolve/action"
	"beamsolve/board"
)

// Node is one state in the search tree: a board plus the heuristics cached
// at insertion time, a pointer to the parent state it was expanded from,
// and the action list that carries the parent's piece from spawn to its
// resting pose in this node's board. The root node (step 0, empty board)
// has a nil Parent and an empty Actions list.
//
// Node graphs are plain trees held together with ordinary pointers — Go's
// garbage collector retires a node once neither a surviving frontier
// descendant nor the global-best pointer holds a reference to it, which is
// the same lifetime the reference implementation gets from manual
// refcounting.
type Node struct {
	Board          board.Situation
	Quality        int
	OccupiedHeight int
	Parent         *Node
	Actions        []action.Action
}

// NewRoot returns the step-0 node: an empty board, no parent, no actions.
func NewRoot(qw board.QualityWeights) *Node {
	n := &Node{}
	n.Quality = n.Board.Quality(qw)
	n.OccupiedHeight = n.Board.OccupiedHeight()
	return n
}

// NewChild builds a child node from a placed-and-collapsed board, caching
// its heuristics the way every node's must be populated.
func NewChild(parent *Node, b board.Situation, actions []action.Action, qw board.QualityWeights) *Node {
	n := &Node{
		Board:   b,
		Parent:  parent,
		Actions: actions,
	}
	n.Quality = n.Board.Quality(qw)
	n.OccupiedHeight = n.Board.OccupiedHeight()
	return n
}

// Ancestor returns the node's k-th-generation ancestor (k=1 is the
// parent), or nil if the chain is shorter than k.
func (n *Node) Ancestor(k int) *Node {
	cur := n
	for i := 0; i < k && cur != nil; i++ {
		cur = cur.Parent
	}
	return cur
}

// ReconstructActions walks from n up to the root, prepending a New marker
// before each node's own action list, and returns the full solution script
// in forward order: it begins with New (piece 0) and ends with the last
// piece's actions.
func ReconstructActions(n *Node) []action.Action {
	var chain []*Node
	for cur := n; cur != nil && cur.Parent != nil; cur = cur.Parent {
		chain = append(chain, cur)
	}

	var out []action.Action
	for i := len(chain) - 1; i >= 0; i-- {
		out = append(out, action.Action{Type: action.New, By: 1})
		out = append(out, chain[i].Actions...)
	}
	return out
}
