package board

import "beamsolve/bitops"

// QualityWeights tunes Quality's per-row penalties. Defaults mirror the
// reference implementation's tuned constants.
type QualityWeights struct {
	RowTransitionPenalty int
	ColTransitionPenalty int
	EmptyPenalty         int
	EmptyPenalty2        int
}

// DefaultQualityWeights returns the tuned defaults used when no override
// is configured.
func DefaultQualityWeights() QualityWeights {
	return QualityWeights{
		RowTransitionPenalty: 458,
		ColTransitionPenalty: 0,
		EmptyPenalty:         1080,
		EmptyPenalty2:        0,
	}
}

// Quality scores a board for the diversity-quota selector: higher is
// better. It rewards filled rows and penalizes row/column transitions and
// holes (cells left empty beneath filled ones) and overhangs (filled
// cells with an empty cell anywhere below them in the same column).
func (s *Situation) Quality(w QualityWeights) int {
	q := 0
	var lastRow uint16
	var aboveMask uint16

	for y := 0; y < Height; y++ {
		row := s.Row(y)
		q += 600 * bitops.PopCount64(uint64(row))

		rowTrans := (row ^ (row >> 1)) & (RowMask >> 1)
		q -= w.RowTransitionPenalty * bitops.PopCount64(uint64(rowTrans))

		colTrans := row ^ lastRow
		q -= w.ColTransitionPenalty * bitops.PopCount64(uint64(colTrans))

		holes := ^row & RowMask & aboveMask
		q -= (w.EmptyPenalty + w.EmptyPenalty2) * bitops.PopCount64(uint64(holes))

		aboveMask |= row
		lastRow = row
	}

	// Second pass, bottom-up: penalize overhangs (filled cells that have
	// any empty cell below them in the same column, scanned from the
	// floor up). belowMask tracks, per column, whether every row strictly
	// below y is filled there — it starts all-set (vacuously true below
	// the floor) and is AND-accumulated going up, so a single empty row
	// anywhere below is enough to mark the column as having an overhang.
	belowMask := RowMask
	for y := Height - 1; y >= 0; y-- {
		row := s.Row(y)
		overhang := row &^ belowMask
		q -= w.EmptyPenalty2 * bitops.PopCount64(uint64(overhang))
		belowMask &= row
	}

	return q
}

// spikeCheckRows is how many of the topmost occupied rows IsOk inspects
// for the "too spiky to be worth keeping" rejection.
const spikeCheckRows = 5

// spikeMaxPopcount is the max row population allowed across the top
// spikeCheckRows occupied rows before the board is rejected as
// unrecoverable.
const spikeMaxPopcount = 3

// IsOk rejects boards that have piled up into a narrow spike: once the
// occupied height reaches spikeCheckRows, at least one of the top
// spikeCheckRows rows must have more than spikeMaxPopcount cells filled,
// or the board is considered too far gone to keep searching from.
func (s *Situation) IsOk() bool {
	occupied := s.OccupiedHeight()
	if occupied < spikeCheckRows {
		return true
	}

	y := Height - occupied
	max := 0
	for i := 0; i < spikeCheckRows; i++ {
		pc := bitops.PopCount64(uint64(s.Row(y)))
		if pc > max {
			max = pc
		}
		y++
	}
	return max > spikeMaxPopcount
}
