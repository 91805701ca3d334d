package beam

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"beamsolve/board"
	"beamsolve/config"
)

func nodeWith(score, height, quality int, row0 uint16) *Node {
	var b board.Situation
	b.SetRow(0, row0)
	b.Score = uint32(score)
	return &Node{Board: b, OccupiedHeight: height, Quality: quality}
}

func TestPrePruneDropsLowScoreAndLowHeight(t *testing.T) {
	nodes := []*Node{
		nodeWith(3000, 20, 0, 0b1),
		nodeWith(3000-2200, 20, 0, 0b10),   // exactly at the margin, kept
		nodeWith(3000-2201, 20, 0, 0b100),  // one below the margin, dropped
		nodeWith(3000, 20-6, 0, 0b1000),    // exactly at the margin, kept
		nodeWith(3000, 20-7, 0, 0b10000),   // one below the margin, dropped
	}
	out := PrePrune(nodes, 2200, 6)
	assert.Len(t, out, 3)
}

func TestMoveTopNSortsDescendingByScore(t *testing.T) {
	nodes := []*Node{
		nodeWith(10, 0, 0, 0b1),
		nodeWith(30, 0, 0, 0b10),
		nodeWith(20, 0, 0, 0b100),
	}
	out := MoveTopN(nodes, qualityKey, 10, [4]int{100, 100, 100, 100}, 100)
	require.Len(t, out, 3)
	assert.Equal(t, uint32(30), out[0].Board.Score)
	assert.Equal(t, uint32(20), out[1].Board.Score)
	assert.Equal(t, uint32(10), out[2].Board.Score)
}

func TestMoveTopNRespectsLimit(t *testing.T) {
	nodes := make([]*Node, 10)
	for i := range nodes {
		nodes[i] = nodeWith(i, 0, 0, uint16(i+1))
	}
	out := MoveTopN(nodes, qualityKey, 3, [4]int{100, 100, 100, 100}, 100)
	assert.Len(t, out, 3)
}

func TestMoveTopNSkipsQuotaFilterWhenPoolWithinLimit(t *testing.T) {
	qw := board.DefaultQualityWeights()
	parent := NewRoot(qw)
	var children []*Node
	for i := 0; i < 5; i++ {
		var b board.Situation
		b.SetRow(0, uint16(i+1))
		b.Score = uint32(10 - i)
		children = append(children, &Node{Board: b, Parent: parent})
	}

	// Pool (5) is within the limit (10), so the ancestor quota (2) is
	// never consulted and every sibling passes through untouched.
	out := MoveTopN(children, scoreKey, 10, [4]int{2, 2, 2, 2}, 100)
	assert.Len(t, out, 5)
}

func TestMoveTopNAncestorQuotaLimitsSiblingCount(t *testing.T) {
	qw := board.DefaultQualityWeights()
	parent := NewRoot(qw)
	var children []*Node
	for i := 0; i < 10; i++ {
		var b board.Situation
		b.SetRow(0, uint16(i+1))
		b.Score = uint32(10 - i)
		children = append(children, &Node{Board: b, Parent: parent})
	}

	// Pool (10) exceeds the limit (5), so the ancestor quota (2) applies
	// and caps how many of these ten siblings survive.
	out := MoveTopN(children, scoreKey, 5, [4]int{2, 2, 2, 2}, 100)
	assert.Len(t, out, 2)
}

func TestMoveTopNZeroLimitReturnsNil(t *testing.T) {
	nodes := []*Node{nodeWith(1, 0, 0, 1)}
	assert.Nil(t, MoveTopN(nodes, qualityKey, 0, [4]int{}, 0))
}

func TestChooseForNextStepConcatenatesBothPasses(t *testing.T) {
	cfg := config.Default()
	cfg.TotalKeep = 10
	cfg.ScoreKeepRatio = 0.5

	var nodes []*Node
	for i := 0; i < 20; i++ {
		nodes = append(nodes, nodeWith(i, 10, i, uint16(i+1)))
	}

	out := ChooseForNextStep(nodes, cfg)
	assert.LessOrEqual(t, len(out), cfg.TotalKeep)
	assert.NotEmpty(t, out)
}
