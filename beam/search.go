package beam

import (
	"github.com/rs/zerolog/log"

	"beamsolve/board"
	"beamsolve/config"
	"beamsolve/movegen"
	"beamsolve/piece"
)

// thresholdHeight and thresholdOccupied gate the late-collapse rule,
// indexed by lines-cleared-1: a clear of c lines is only honored if the
// parent board had already built up at least this much height/occupancy,
// discouraging the planner from cashing in small clears while the stack
// is still short.
var thresholdHeight = [4]int{
	board.Height - 4,
	board.Height - 4,
	board.Height - 3,
	board.Height - 3,
}

var thresholdOccupied = [4]int{
	(board.Height - 6) * (board.Width - 1),
	(board.Height - 6) * (board.Width - 1),
	(board.Height - 5) * (board.Width - 1),
	(board.Height - 5) * (board.Width - 1),
}

// lateCollapseOk reports whether a candidate that cleared `lines` rows may
// be kept, given the parent board's occupancy before the placement.
func lateCollapseOk(parent *board.Situation, lines int) bool {
	if lines == 0 {
		return true
	}
	idx := lines - 1
	return parent.OccupiedHeight() >= thresholdHeight[idx] && parent.TotalOccupied() >= thresholdOccupied[idx]
}

// SearchFrom expands one parent node into every surviving child, inserting
// each into collector. It enumerates every candidate placement of the
// piece at parent's step, applies the late-collapse gate and the IsOk
// admissibility filter, and (inside movegen) self-verifies the route
// before a candidate is ever built — a verification failure there is
// fatal, since it means the candidate's recorded route doesn't actually
// reach the board it claims to.
func SearchFrom(parent *Node, cfg config.Config, collector *Collector) {
	if int(parent.Board.Step) >= len(piece.Sequence) {
		return
	}
	p := piece.Sequence[parent.Board.Step]
	qw := cfg.QualityWeights()

	for _, cand := range movegen.Enumerate(&parent.Board, p.Shape, p.Spawn) {
		linesCleared := int(cand.Board.CollapseLines - parent.Board.CollapseLines)
		if !lateCollapseOk(&parent.Board, linesCleared) {
			continue
		}
		if !cand.Board.IsOk() {
			continue
		}

		child := NewChild(parent, cand.Board, cand.Actions, qw)
		if int(child.Board.Step) != int(parent.Board.Step)+1 {
			log.Fatal().
				Uint32("parent_step", parent.Board.Step).
				Uint32("child_step", child.Board.Step).
				Msg("beam: child step does not follow parent step by exactly one")
		}
		collector.Insert(child)
	}
}
