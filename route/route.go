// Package route finds and appends the primitive action sequence needed
// to steer a piece from one pose to another on a fixed board, backtracking
// through a set of fallback strategies (side detours, lift-then-drop,
// T-spins, initial spins) when the direct route is blocked.
package route

import (
	"github.com/rs/zerolog/log"

	"beamsolve/action"
	"beamsolve/board"
	"beamsolve/piece"
)

// Option flags gate which fallback strategies AppendRoute is still
// allowed to try, preventing infinite recursion between them. Values are
// load-bearing: they're combined with bitwise OR as the recursion
// descends and checked with bitwise AND.
const (
	optBottomLeftRight = 1
	optTopLeftRight    = 2
	optTSpin           = 4
	optInitialSpin     = 8
)

// sideDetourReach is how many columns either side of a blocking pose the
// bottom/top detour strategies are willing to try before giving up.
const sideDetourReach = 5

func xInRange(x int) bool {
	return x >= 0 && x < board.Width
}

// RotateRouteAppend appends a single Rotate run (if any) that turns the
// piece from `from`'s rotation to toRot, checking that every intermediate
// rotation fits. Returns false, leaving res untouched by the caller's
// responsibility to truncate, if no rotation path exists.
func RotateRouteAppend(s *board.Situation, shp piece.Shape, from piece.Pose, toRot uint8, res []action.Action) ([]action.Action, bool) {
	if from.Rot == toRot {
		return res, true
	}
	rotCnt := uint8(piece.Catalog[shp].Cnt)

	var cnt uint8
	rot := from.Rot
	for rot != toRot {
		cnt++
		rot = (rot + 1) % rotCnt
		if !s.Fits(shp, from.WithRot(rot)) {
			return res, false
		}
	}
	if !s.Fits(shp, from.WithRot(toRot)) {
		return res, false
	}
	if cnt > 0 {
		res = append(res, action.Action{Type: action.Rotate, By: int(cnt)})
	}
	return res, true
}

// HorizontalRouteAppend appends a single Left or Right run that slides the
// piece from `from`'s column to toX, checking every intermediate column.
func HorizontalRouteAppend(s *board.Situation, shp piece.Shape, from piece.Pose, toX int8, res []action.Action) ([]action.Action, bool) {
	if from.X == toX {
		return res, true
	}
	delta := int8(1)
	if toX < from.X {
		delta = -1
	}
	for x := from.X; x != toX; x += delta {
		if !s.Fits(shp, from.WithX(x+delta)) {
			return res, false
		}
	}
	if toX > from.X {
		res = append(res, action.Action{Type: action.Right, By: int(toX - from.X)})
	} else {
		res = append(res, action.Action{Type: action.Left, By: int(from.X - toX)})
	}
	return res, true
}

// AppendRouteNaive tries the two direct orderings — rotate then slide, or
// slide then rotate — followed by a straight drop, with no detours.
func AppendRouteNaive(s *board.Situation, shp piece.Shape, from, to piece.Pose, res []action.Action) ([]action.Action, bool) {
	if to.Y < from.Y {
		return res, false
	}
	size := len(res)

	attempt, ok := RotateRouteAppend(s, shp, from, to.Rot, res)
	if ok {
		attempt, ok = HorizontalRouteAppend(s, shp, from.WithRot(to.Rot), to.X, attempt)
	}
	if !ok {
		attempt = attempt[:size]
		attempt, ok = HorizontalRouteAppend(s, shp, from, to.X, attempt)
		if ok {
			attempt, ok = RotateRouteAppend(s, shp, from.WithX(to.X), to.Rot, attempt)
		}
		if !ok {
			return res[:size], false
		}
	}
	res = attempt

	from.X = to.X
	from.Rot = to.Rot

	if to.Y > from.Y {
		for y := from.Y; y != to.Y; y++ {
			if !s.Fits(shp, from.WithY(y+1)) {
				return res[:size], false
			}
		}
		res = append(res, action.Action{Type: action.Down, By: int(to.Y - from.Y)})
	}

	return res, true
}

// AppendRoute is the full route finder: it tries the naive direct route
// first, then in order — bottom-side detour, top-side detour,
// lift-then-drop, T-spin, initial-spin — each gated by an option flag so
// no strategy re-enters itself through the recursive calls the others
// make. The branch order matters: it determines which of several valid
// routes gets recorded, and downstream quality/replay assumes this one.
func AppendRoute(s *board.Situation, shp piece.Shape, from, to piece.Pose, res []action.Action, options int) ([]action.Action, bool) {
	size := len(res)

	if r, ok := AppendRouteNaive(s, shp, from, to, res); ok {
		return r, true
	}

	log.Trace().
		Interface("from", from).
		Interface("to", to).
		Int("options", options).
		Msg("route: naive route blocked, falling back to detour strategies")

	if options&optBottomLeftRight == 0 {
		for dir := 0; dir < 2; dir++ {
			for dx := int8(1); dx <= sideDetourReach; dx++ {
				var x int8
				if dir == 0 {
					x = to.X + dx
				} else {
					x = to.X - dx
				}
				if !xInRange(int(x)) {
					break
				}
				via := to.WithX(x)
				if !s.Fits(shp, via) {
					break
				}
				attempt, ok := AppendRoute(s, shp, from, via, res, options|optBottomLeftRight)
				if ok {
					attempt, ok = HorizontalRouteAppend(s, shp, via, to.X, attempt)
				}
				if ok {
					return attempt, true
				}
				res = res[:size]
			}
		}
	}

	if options&optTopLeftRight == 0 {
		for dir := 0; dir < 2; dir++ {
			for dx := int8(1); dx <= sideDetourReach; dx++ {
				var x int8
				if dir == 0 {
					x = from.X + dx
				} else {
					x = from.X - dx
				}
				if !xInRange(int(x)) {
					break
				}
				via := from.WithX(x)
				if !s.Fits(shp, via) {
					break
				}
				attempt, ok := HorizontalRouteAppend(s, shp, from, x, res)
				if ok {
					attempt, ok = AppendRoute(s, shp, via, to, attempt, options|optTopLeftRight)
				}
				if ok {
					return attempt, true
				}
				res = res[:size]
			}
		}
	}

	if to.Y > 1 {
		via := to.WithY(to.Y - 1)
		if s.Fits(shp, via) {
			attempt, ok := AppendRoute(s, shp, from, via, res, options)
			if ok {
				attempt, ok = AppendRouteNaive(s, shp, via, to, attempt)
			}
			if ok {
				return attempt, true
			}
			res = res[:size]
		}
	}

	if options&optTSpin == 0 {
		rotCnt := uint8(piece.Catalog[shp].Cnt)
		for rot := to.Rot; ; {
			if rot == 0 {
				rot = rotCnt - 1
			} else {
				rot--
			}
			if rot == to.Rot {
				break
			}
			via := to.WithRot(rot)
			if !s.Fits(shp, via) {
				break
			}
			attempt, ok := AppendRoute(s, shp, from, via, res, options|optTSpin)
			if ok {
				attempt, ok = RotateRouteAppend(s, shp, via, to.Rot, attempt)
			}
			if ok {
				return attempt, true
			}
			res = res[:size]
		}
	}

	if options&optInitialSpin == 0 {
		rotCnt := uint8(piece.Catalog[shp].Cnt)
		for rot := from.Rot; ; {
			rot = (rot + 1) % rotCnt
			if rot == from.Rot {
				break
			}
			via := from.WithRot(rot)
			if !s.Fits(shp, via) {
				break
			}
			attempt, ok := RotateRouteAppend(s, shp, from, rot, res)
			if ok {
				attempt, ok = AppendRoute(s, shp, via, to, attempt, options|optInitialSpin)
			}
			if ok {
				return attempt, true
			}
			res = res[:size]
		}
	}

	log.Trace().
		Interface("from", from).
		Interface("to", to).
		Int("options", options).
		Msg("route: no route found, all detour strategies exhausted")
	return res[:size], false
}
