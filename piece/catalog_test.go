package piece

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestRotationCounts(t *testing.T) {
	assert.EqualValues(t, 2, Catalog[ShapeI].Cnt)
	assert.EqualValues(t, 4, Catalog[ShapeL].Cnt)
	assert.EqualValues(t, 4, Catalog[ShapeJ].Cnt)
	assert.EqualValues(t, 4, Catalog[ShapeT].Cnt)
	assert.EqualValues(t, 1, Catalog[ShapeO].Cnt)
	assert.EqualValues(t, 2, Catalog[ShapeS].Cnt)
	assert.EqualValues(t, 2, Catalog[ShapeZ].Cnt)
}

func TestEveryShapeHasFourCellsPerRotation(t *testing.T) {
	for s := Shape(0); s < NumShapes; s++ {
		def := Catalog[s]
		for r := 0; r < int(def.Cnt); r++ {
			seen := map[Cell]bool{}
			for _, c := range def.Cells[r] {
				seen[c] = true
			}
			assert.Len(t, seen, 4, "shape %v rotation %d has duplicate cells", s, r)
		}
	}
}

func TestBoundsMatchCellExtents(t *testing.T) {
	for s := Shape(0); s < NumShapes; s++ {
		def := Catalog[s]
		for r := 0; r < int(def.Cnt); r++ {
			b := def.Bound[r]
			for _, c := range def.Cells[r] {
				assert.GreaterOrEqual(t, c.DX, b.MinX)
				assert.LessOrEqual(t, c.DX, b.MaxX)
				assert.GreaterOrEqual(t, c.DY, b.MinY)
				assert.LessOrEqual(t, c.DY, b.MaxY)
			}
		}
	}
}

func TestShapeStringAlphabet(t *testing.T) {
	assert.Equal(t, "I", ShapeI.String())
	assert.Equal(t, "Z", ShapeZ.String())
}
