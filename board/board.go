// Package board implements the compact bitboard representation the
// planner searches over: a packed 20x10 grid, the scalar counters that
// travel with it, and the fast bit operations (fit/place/collapse/quality)
// the rest of the planner is built on.
package board

import (
	"strings"

	"github.com/cespare/xxhash"
	"github.com/rs/zerolog/log"

	"beamsolve/bitops"
	"beamsolve/piece"
)

// Height/Width/RowMask mirror the piece catalog's board dimensions; board
// is the package that actually consumes them bit-for-bit, so it re-exports
// them under its own names for callers that only need the board.
const (
	Height  = piece.Height
	Width   = piece.Width
	RowMask = piece.RowMask

	wordsPerBoard = Height / 4
)

// Bricks is the brick-only view of a board: the packed row words without
// the step/score/collapse counters. Two boards with equal Bricks values
// are the same shape for deduplication purposes.
type Bricks [wordsPerBoard]uint64

// Situation is one board state: the packed rows plus the scalar counters
// that describe how it got here.
type Situation struct {
	Rows          Bricks
	Step          uint32
	Score         uint32
	CollapseLines uint32
	CollapseCount uint32
}

// Row returns the 10-bit occupancy mask of row y (0 = top row).
func (s *Situation) Row(y int) uint16 {
	word := s.Rows[y/4]
	shift := uint((y % 4) * 16)
	return uint16((word >> shift) & 0xFFFF)
}

// SetRow overwrites row y with v (only the low Width bits are kept).
func (s *Situation) SetRow(y int, v uint16) {
	wordIdx := y / 4
	shift := uint((y % 4) * 16)
	mask := uint64(0xFFFF) << shift
	s.Rows[wordIdx] = (s.Rows[wordIdx] &^ mask) | (uint64(v&uint16(RowMask)) << shift)
}

// TotalOccupied sums the population count of every row word.
func (s *Situation) TotalOccupied() int {
	total := 0
	for _, w := range s.Rows {
		total += bitops.PopCount64(w)
	}
	return total
}

// OccupiedHeight returns Height - y_min, where y_min is the topmost
// non-empty row, or 0 if the board is entirely empty.
func (s *Situation) OccupiedHeight() int {
	for i, w := range s.Rows {
		if w == 0 {
			continue
		}
		bitIdx := bitops.TrailingZeros64(w)
		subrow := bitIdx / 16
		y := subrow + i*4
		return Height - y
	}
	return 0
}

// CollapsableBitmask returns a Height-bit mask with bit y set iff row y is
// completely full.
func (s *Situation) CollapsableBitmask() uint32 {
	var mask uint32
	for y := 0; y < Height; y++ {
		if s.Row(y) == RowMask {
			mask |= 1 << uint(y)
		}
	}
	return mask
}

// Fits reports whether shape at pose lies in-bounds and collides with no
// occupied on-board cell. Cells with y < 0 (above the visible ceiling) are
// always permitted — that's how a piece spawns before it has dropped into
// view.
func (s *Situation) Fits(shape piece.Shape, pose piece.Pose) bool {
	def := &piece.Catalog[shape]
	b := def.Bound[pose.Rot]

	if int(pose.X)+int(b.MinX) < 0 || int(pose.X)+int(b.MaxX) >= Width {
		return false
	}
	if int(pose.Y)+int(b.MaxY) >= Height || int(pose.Y)+int(b.MaxY) < 0 {
		return false
	}

	for _, c := range def.Cells[pose.Rot] {
		x := int(pose.X) + int(c.DX)
		y := int(pose.Y) + int(c.DY)
		if y >= 0 && s.Row(y)&(1<<uint(x)) != 0 {
			return false
		}
	}
	return true
}

// PutCopy returns a copy of s with shape placed at pose. Cells above the
// ceiling or outside the grid are silently dropped, matching the reference
// behavior for the portion of a spawning piece that hasn't entered the
// visible board yet.
func (s *Situation) PutCopy(shape piece.Shape, pose piece.Pose) Situation {
	res := *s
	def := &piece.Catalog[shape]
	for _, c := range def.Cells[pose.Rot] {
		x := int(pose.X) + int(c.DX)
		y := int(pose.Y) + int(c.DY)
		if x >= 0 && x < Width && y >= 0 && y < Height {
			row := res.Row(y)
			res.SetRow(y, row|(1<<uint(x)))
		}
	}
	return res
}

// collapseMultiplier is the per-lines-cleared score multiplier, indexed by
// lines-1.
var collapseMultiplier = [4]uint32{1, 3, 6, 10}

// CollapseInPlace advances Step by one and, if any rows are now full,
// scores and removes them. Row 0 is never removed by construction — only
// the piece just placed can ever occupy it, and placements that leave
// row 0 occupied are rejected upstream in movegen before collapsing.
func (s *Situation) CollapseInPlace() {
	s.Step++
	if s.Step >= piece.Steps {
		return
	}

	mask := s.CollapsableBitmask()
	if mask == 0 {
		return
	}

	lines := bitops.PopCount64(uint64(mask))
	gain := collapseMultiplier[lines-1] * uint32(s.TotalOccupied())
	s.Score += gain
	s.CollapseLines += uint32(lines)
	s.CollapseCount++

	log.Debug().
		Uint32("step", s.Step).
		Int("lines", lines).
		Uint32("score_gain", gain).
		Uint32("score", s.Score).
		Msg("board: collapsed full rows")

	wy := Height - 1
	for y := Height - 1; y > 0; y-- {
		if mask&(1<<uint(y)) == 0 {
			s.SetRow(wy, s.Row(y))
			wy--
		}
	}
	for wy >= 0 {
		s.SetRow(wy, 0)
		wy--
	}
}

// BricksEqual compares only the packed row words, ignoring step/score/
// collapse counters.
func (s *Situation) BricksEqual(other *Situation) bool {
	return s.Rows == other.Rows
}

// BricksComp produces a deterministic, semantically meaningless total
// order over board shapes, used only to break ties reproducibly. Positive
// means s sorts after other.
func (s *Situation) BricksComp(other *Situation) int {
	for i := range s.Rows {
		if s.Rows[i] != other.Rows[i] {
			if s.Rows[i] > other.Rows[i] {
				return 1
			}
			return -1
		}
	}
	return 0
}

// ShardHash is the fast rolling hash used to pick a collector shard: one
// rotate-and-xor pass over the row words. Cheap enough to run on every
// insert, at the cost of a weaker collision profile than BricksHash.
func (s *Situation) ShardHash() uint64 {
	var h uint64
	for _, w := range s.Rows {
		h = bitops.RotateLeft64(h, Width) ^ w
	}
	return h
}

// BricksHash is the general-purpose hash used inside a shard's map key.
func (s *Situation) BricksHash() uint64 {
	var buf [8 * wordsPerBoard]byte
	for i, w := range s.Rows {
		putUint64(buf[i*8:], w)
	}
	return xxhash.Sum64(buf[:])
}

func putUint64(b []byte, v uint64) {
	for i := 0; i < 8; i++ {
		b[i] = byte(v >> (8 * uint(i)))
	}
}

// DebugString renders the board as an ASCII grid with a step/score
// header, the way the reference implementation's stderr diagnostics do.
func (s *Situation) DebugString() string {
	var b strings.Builder
	b.WriteString("Step: ")
	writeUint(&b, uint64(s.Step))
	b.WriteString(" Score: ")
	writeUint(&b, uint64(s.Score))
	b.WriteByte('\n')

	border := strings.Repeat("-", Width+2)
	b.WriteString(border)
	b.WriteByte('\n')
	for y := 0; y < Height; y++ {
		row := s.Row(y)
		b.WriteByte('|')
		for x := 0; x < Width; x++ {
			if row&(1<<uint(x)) != 0 {
				b.WriteByte('*')
			} else {
				b.WriteByte(' ')
			}
		}
		b.WriteByte('|')
		b.WriteByte('\n')
	}
	b.WriteString(border)
	b.WriteByte('\n')
	return b.String()
}

func writeUint(b *strings.Builder, v uint64) {
	if v == 0 {
		b.WriteByte('0')
		return
	}
	var digits [20]byte
	i := len(digits)
	for v > 0 {
		i--
		digits[i] = byte('0' + v%10)
		v /= 10
	}
	b.Write(digits[i:])
}
