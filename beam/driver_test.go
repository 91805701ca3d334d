package beam

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"beamsolve/board"
	"beamsolve/config"
	"beamsolve/piece"
)

func TestBetterGlobalPrefersHigherScore(t *testing.T) {
	a := &Node{Board: board.Situation{Score: 10}}
	b := &Node{Board: board.Situation{Score: 20}}
	assert.True(t, betterGlobal(a, b))
	assert.False(t, betterGlobal(b, a))
}

func TestBetterGlobalNilBestAlwaysLoses(t *testing.T) {
	a := &Node{Board: board.Situation{Score: 0}}
	assert.True(t, betterGlobal(nil, a))
}

func TestBetterGlobalTiesBreakOnStepThenQualityThenBricks(t *testing.T) {
	a := &Node{Board: board.Situation{Score: 10, Step: 1}}
	b := &Node{Board: board.Situation{Score: 10, Step: 2}}
	assert.True(t, betterGlobal(a, b))

	c := &Node{Board: board.Situation{Score: 10, Step: 1}, Quality: 5}
	d := &Node{Board: board.Situation{Score: 10, Step: 1}, Quality: 9}
	assert.True(t, betterGlobal(c, d))
}

func TestSolveAbortsEarlyBelowThreshold(t *testing.T) {
	cfg := config.Default()
	cfg.AbortThreshold = make([]int, piece.Steps)
	cfg.AbortThreshold[0] = 1 << 30

	pool := NewPool(2)
	defer pool.Close()

	result := Solve(context.Background(), cfg, pool)
	require.Len(t, result.Trajectory, 1)
	assert.Empty(t, result.Actions)
}

func TestSolveReturnsBestFoundSoFarOnCanceledContext(t *testing.T) {
	cfg := config.Default()
	cfg.AbortThreshold = make([]int, piece.Steps)

	pool := NewPool(2)
	defer pool.Close()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	result := Solve(ctx, cfg, pool)
	assert.Empty(t, result.Trajectory)
	assert.Empty(t, result.Actions)
}
