package beam

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"beamsolve/action"
	"beamsolve/board"
)

func TestNewRootHasNoParentOrActions(t *testing.T) {
	root := NewRoot(board.DefaultQualityWeights())
	assert.Nil(t, root.Parent)
	assert.Empty(t, root.Actions)
	assert.Equal(t, 0, root.OccupiedHeight)
}

func TestAncestorWalksChain(t *testing.T) {
	qw := board.DefaultQualityWeights()
	root := NewRoot(qw)
	child1 := NewChild(root, board.Situation{}, nil, qw)
	child2 := NewChild(child1, board.Situation{}, nil, qw)

	assert.Same(t, child1, child2.Ancestor(1))
	assert.Same(t, root, child2.Ancestor(2))
	assert.Nil(t, child2.Ancestor(3))
}

func TestReconstructActionsOrdersFromRootToLeaf(t *testing.T) {
	qw := board.DefaultQualityWeights()
	root := NewRoot(qw)
	step1 := []action.Action{{Type: action.Left, By: 2}}
	step2 := []action.Action{{Type: action.Down, By: 3}}

	n1 := NewChild(root, board.Situation{}, step1, qw)
	n2 := NewChild(n1, board.Situation{}, step2, qw)

	got := ReconstructActions(n2)
	require.Equal(t, []action.Action{
		{Type: action.New, By: 1},
		{Type: action.Left, By: 2},
		{Type: action.New, By: 1},
		{Type: action.Down, By: 3},
	}, got)
}

func TestReconstructActionsOnRootIsEmpty(t *testing.T) {
	qw := board.DefaultQualityWeights()
	root := NewRoot(qw)
	assert.Empty(t, ReconstructActions(root))
}
