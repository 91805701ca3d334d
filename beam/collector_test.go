package beam

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"beamsolve/board"
)

func sampleNode(score uint32, collapseCount uint32, row0 uint16) *Node {
	var b board.Situation
	b.SetRow(0, row0)
	b.Score = score
	b.CollapseCount = collapseCount
	return &Node{Board: b}
}

func TestCollectorDeduplicatesByBricks(t *testing.T) {
	c := NewCollector()
	c.Insert(sampleNode(10, 1, 0b101))
	c.Insert(sampleNode(20, 1, 0b101))

	out := c.MoveTo()
	require.Len(t, out, 1)
	assert.Equal(t, uint32(20), out[0].Board.Score)
}

func TestCollectorHigherScoreWins(t *testing.T) {
	c := NewCollector()
	c.Insert(sampleNode(20, 2, 0b1))
	c.Insert(sampleNode(5, 1, 0b1))

	out := c.MoveTo()
	require.Len(t, out, 1)
	assert.Equal(t, uint32(20), out[0].Board.Score)
}

func TestCollectorTiesBreakTowardLowerCollapseCount(t *testing.T) {
	c := NewCollector()
	c.Insert(sampleNode(20, 3, 0b1))
	c.Insert(sampleNode(20, 1, 0b1))

	out := c.MoveTo()
	require.Len(t, out, 1)
	assert.Equal(t, uint32(1), out[0].Board.CollapseCount)
}

func TestCollectorKeepsDistinctShapes(t *testing.T) {
	c := NewCollector()
	c.Insert(sampleNode(10, 1, 0b101))
	c.Insert(sampleNode(10, 1, 0b111))

	out := c.MoveTo()
	assert.Len(t, out, 2)
}

func TestCollectorMoveToDrains(t *testing.T) {
	c := NewCollector()
	c.Insert(sampleNode(10, 1, 0b1))
	require.Len(t, c.MoveTo(), 1)
	assert.Empty(t, c.MoveTo())
}

func TestNewCollectorWithMemoryBudgetZeroFractionBehavesLikeDefault(t *testing.T) {
	c := NewCollectorWithMemoryBudget(0)
	c.Insert(sampleNode(10, 1, 0b101))
	c.Insert(sampleNode(20, 1, 0b101))

	out := c.MoveTo()
	require.Len(t, out, 1)
	assert.Equal(t, uint32(20), out[0].Board.Score)
}

func TestNewCollectorWithMemoryBudgetStillDeduplicates(t *testing.T) {
	c := NewCollectorWithMemoryBudget(0.01)
	c.Insert(sampleNode(10, 1, 0b101))
	c.Insert(sampleNode(20, 1, 0b101))
	c.Insert(sampleNode(10, 1, 0b111))

	out := c.MoveTo()
	assert.Len(t, out, 2)
}

func TestCollectorConcurrentInsertIsSafe(t *testing.T) {
	c := NewCollector()
	var wg sync.WaitGroup
	for i := 0; i < 200; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			c.Insert(sampleNode(uint32(i), 1, uint16(i%64)))
		}(i)
	}
	wg.Wait()

	out := c.MoveTo()
	assert.NotEmpty(t, out)
}
