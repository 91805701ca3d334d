package beam

import (
	"context"

	"github.com/rs/zerolog/log"

	"beamsolve/action"
	"beamsolve/board"
	"beamsolve/config"
	"beamsolve/piece"
)

// Result is everything Solve hands back to its caller: the final board of
// the best state found, the per-step trajectory of the global best score
// (for an external tuning harness to consume), and the full action script
// from piece 0 to the last successful placement.
type Result struct {
	FinalBoard board.Situation
	Trajectory []int
	Actions    []action.Action
}

// betterGlobal reports whether candidate should replace the current
// global best, under key (score, step, quality) with BricksComp as the
// final deterministic tie-break.
func betterGlobal(best, candidate *Node) bool {
	if best == nil {
		return true
	}
	if candidate.Board.Score != best.Board.Score {
		return candidate.Board.Score > best.Board.Score
	}
	if candidate.Board.Step != best.Board.Step {
		return candidate.Board.Step > best.Board.Step
	}
	if candidate.Quality != best.Quality {
		return candidate.Quality > best.Quality
	}
	return candidate.Board.BricksComp(&best.Board) > 0
}

// Solve runs the full layered beam search: kSteps layers of parallel
// SearchFrom expansion into one shared collector, a global-best update, an
// optional abort-threshold check, and a selector pass producing the next
// frontier. It returns once the piece sequence is exhausted, an
// abort-threshold floor is missed, or ctx is canceled. A missed floor
// returns an empty solution (only the trajectory so far); a canceled ctx
// (a Lambda invocation nearing its deadline, or a CLI interrupt) returns
// the best solution found so far.
func Solve(ctx context.Context, cfg config.Config, pool *Pool) Result {
	qw := cfg.QualityWeights()
	frontier := []*Node{NewRoot(qw)}

	var best *Node
	trajectory := make([]int, 0, piece.Steps)

	for step := 0; step < piece.Steps; step++ {
		if len(frontier) == 0 {
			break
		}

		select {
		case <-ctx.Done():
			log.Warn().Err(ctx.Err()).Int("step", step).Msg("beam: context canceled, returning best solution found so far")
			return finalize(best, trajectory)
		default:
		}

		collector := NewCollectorWithMemoryBudget(cfg.CollectorMemoryFraction)
		pool.ParallelFor(len(frontier), func(k int) {
			SearchFrom(frontier[k], cfg, collector)
		})
		children := collector.MoveTo()

		for _, c := range children {
			if betterGlobal(best, c) {
				best = c
			}
		}

		bestScore := 0
		if best != nil {
			bestScore = int(best.Board.Score)
		}
		trajectory = append(trajectory, bestScore)

		log.Debug().
			Int("step", step).
			Int("frontier_size", len(frontier)).
			Int("collector_size", len(children)).
			Int("best_score", bestScore).
			Msg("beam: layer complete")

		if step < len(cfg.AbortThreshold) && cfg.AbortThreshold[step] > 0 && bestScore < cfg.AbortThreshold[step] {
			log.Warn().Int("step", step).Int("score", bestScore).Msg("beam: global best fell below abort threshold, stopping early")
			return Result{Trajectory: trajectory}
		}

		frontier = ChooseForNextStep(children, cfg)
	}

	return finalize(best, trajectory)
}

func finalize(best *Node, trajectory []int) Result {
	if best == nil {
		return Result{Trajectory: trajectory}
	}
	return Result{
		FinalBoard: best.Board,
		Trajectory: trajectory,
		Actions:    ReconstructActions(best),
	}
}
