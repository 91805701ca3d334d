// Package movegen enumerates every distinct legal landing for one piece on
// one board: for each rotation, scans upward from the floor for resting
// poses, rejects top-outs and unreachable poses, and pairs each surviving
// pose with the route.AppendRoute action sequence that reaches it from the
// piece's spawn.
package movegen

import (
	"github.com/rs/zerolog/log"

	"beamsolve/action"
	"beamsolve/board"
	"beamsolve/piece"
	"beamsolve/route"
)

// Candidate is one legal placement: the resting pose, the board after
// placing and collapsing the piece, and the action list that reaches the
// pose from the piece's spawn.
type Candidate struct {
	Pose    piece.Pose
	Board   board.Situation
	Actions []action.Action
}

// columnMask is a Width-bit mask of columns still worth probing for a
// resting pose at the current y, one bit per column.
type columnMask uint32

func fullColumnMask() columnMask {
	return columnMask(1<<uint(board.Width)) - 1
}

// Enumerate returns every Candidate for placing shp (spawned at `spawn`)
// on board s. If the spawn pose itself doesn't fit, the piece can't even
// enter the board — a soft game-over, not an error — so it returns no
// candidates without searching further. Otherwise, for each rotation it
// walks y from the floor upward; a pose rests if it Fits but the same
// pose one row lower does not. Once a column has produced one resting
// pose for a rotation, it's dropped from further consideration for that
// rotation — the reference implementation assumes at most one useful
// landing per column per rotation, which can miss landings above
// overhangs (see spec's open questions).
func Enumerate(s *board.Situation, shp piece.Shape, spawn piece.Pose) []Candidate {
	if !s.Fits(shp, spawn) {
		return nil
	}

	var out []Candidate
	def := &piece.Catalog[shp]

	for rot := uint8(0); rot < def.Cnt; rot++ {
		remaining := fullColumnMask()
		for y := int8(board.Height - 1); remaining != 0 && y >= -int8(board.Height); y-- {
			for x := int8(0); x < int8(board.Width); x++ {
				bit := columnMask(1) << uint(x)
				if remaining&bit == 0 {
					continue
				}
				pose := piece.Pose{X: x, Y: y, Rot: rot}
				if !s.Fits(shp, pose) {
					continue
				}
				below := pose.WithY(y + 1)
				if s.Fits(shp, below) {
					continue
				}

				if cand, ok := buildCandidate(s, shp, spawn, pose); ok {
					remaining &^= bit
					out = append(out, cand)
				}
			}
		}
	}
	return out
}

// buildCandidate places shp at pose, rejects a top-out, finds a route from
// spawn, and self-verifies the route actually reproduces the placed board.
// A route-finding failure is a soft game-over (dropped silently); a
// verification mismatch is a programmer error (fatal).
func buildCandidate(s *board.Situation, shp piece.Shape, spawn, pose piece.Pose) (Candidate, bool) {
	placed := s.PutCopy(shp, pose)
	if placed.Row(0) != 0 {
		return Candidate{}, false
	}

	acts, ok := route.AppendRoute(s, shp, spawn, pose, nil, 0)
	if !ok {
		return Candidate{}, false
	}

	placed.CollapseInPlace()

	replayed, err := route.Replay(s, shp, spawn, acts)
	if err != nil {
		log.Fatal().Err(err).Interface("pose", pose).Msg("movegen: route produced an unreplayable action list")
	}
	if !replayed.BricksEqual(&placed) {
		log.Fatal().Interface("pose", pose).Msg("movegen: replay of accepted candidate diverged from placed board")
	}

	return Candidate{Pose: pose, Board: placed, Actions: acts}, true
}
