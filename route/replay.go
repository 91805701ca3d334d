package route

import (
	"fmt"

	"beamsolve/action"
	"beamsolve/board"
	"beamsolve/piece"
)

// Replay walks a recorded action sequence from a piece's spawn pose on
// board s, verifying every intermediate pose still fits, then places the
// piece and collapses the result. It returns an error describing exactly
// where the route diverges from what the board allows, the same
// diagnostics the reference implementation prints before aborting a run
// whose recorded actions don't actually reproduce its target board.
func Replay(s *board.Situation, shp piece.Shape, spawn piece.Pose, actions []action.Action) (board.Situation, error) {
	st := spawn
	if !s.Fits(shp, st) {
		return board.Situation{}, fmt.Errorf("route: initial pose %+v doesn't fit", st)
	}

	rotCnt := uint8(piece.Catalog[shp].Cnt)

	for _, a := range actions {
		switch a.Type {
		case action.New:
			return board.Situation{}, fmt.Errorf("route: New action not supported in replay")
		case action.Rotate:
			for i := 0; i < a.By; i++ {
				st = st.WithRot((st.Rot + 1) % rotCnt)
				if !s.Fits(shp, st) {
					return board.Situation{}, fmt.Errorf("route: rotation failed at %+v", st)
				}
			}
		case action.Left:
			for i := 0; i < a.By; i++ {
				if st.X == 0 {
					return board.Situation{}, fmt.Errorf("route: x already 0 at Left")
				}
				st = st.WithX(st.X - 1)
				if !s.Fits(shp, st) {
					return board.Situation{}, fmt.Errorf("route: left failed at x=%d", st.X)
				}
			}
		case action.Right:
			for i := 0; i < a.By; i++ {
				if int(st.X) >= board.Width-1 {
					return board.Situation{}, fmt.Errorf("route: x already at %d at Right", board.Width-1)
				}
				st = st.WithX(st.X + 1)
				if !s.Fits(shp, st) {
					return board.Situation{}, fmt.Errorf("route: right failed at x=%d", st.X)
				}
			}
		case action.Down:
			for i := 0; i < a.By; i++ {
				if int(st.Y) >= board.Height-1 {
					return board.Situation{}, fmt.Errorf("route: y already at %d at Down", board.Height-1)
				}
				st = st.WithY(st.Y + 1)
				if !s.Fits(shp, st) {
					return board.Situation{}, fmt.Errorf("route: down failed at x=%d", st.X)
				}
			}
		default:
			return board.Situation{}, fmt.Errorf("route: unknown action type %v", a.Type)
		}
	}

	result := s.PutCopy(shp, st)
	result.CollapseInPlace()
	return result, nil
}
