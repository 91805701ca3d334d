// Package piece holds the seven-shape catalog and the compile-time piece
// sequence the planner replays against: a fixed board width/height, a
// rotation table per shape, and the length-10000 deterministic sequence of
// (shape, spawn pose) pairs produced by the reference LCG.
package piece

// Board dimensions. Every other package imports these from here rather
// than redeclaring them, since the piece catalog's bounding-box precompute
// is what actually needs them at init time.
const (
	Height = 20
	Width  = 10

	// RowMask is the set of bits representing a completely occupied row.
	RowMask uint16 = (1 << Width) - 1
)

// Shape identifies one of the seven piece shapes.
type Shape uint8

const (
	ShapeI Shape = iota
	ShapeL
	ShapeJ
	ShapeT
	ShapeO
	ShapeS
	ShapeZ

	NumShapes = 7
)

func (s Shape) String() string {
	return string("ILJTOSZ"[s])
}

// Cell is a shape-local offset from the piece's origin cell.
type Cell struct {
	DX, DY int8
}

// Pose locates a piece on the board: the origin cell's column/row and the
// active rotation index (taken mod the shape's rotation count).
type Pose struct {
	X, Y int8
	Rot  uint8
}

// WithX, WithY, WithRot return a copy of the pose with a single field
// replaced — mirrors the reference implementation's ReplaceX/Y/Rot, kept
// as named helpers rather than inline struct literals because the route
// finder builds poses from partial mutations constantly.
func (p Pose) WithX(x int8) Pose     { p.X = x; return p }
func (p Pose) WithY(y int8) Pose     { p.Y = y; return p }
func (p Pose) WithRot(r uint8) Pose  { p.Rot = r; return p }

// Bounds gives the shape-local bounding box for one rotation, precomputed
// so Fits() never has to rescan the four cells.
type Bounds struct {
	MinX, MaxX int8
	MinY, MaxY int8
}

// Def is the catalog entry for one shape: its rotation count and, for each
// rotation under that count, the four cell offsets and their bounds.
type Def struct {
	Cnt   uint8
	Cells [4][4]Cell
	Bound [4]Bounds
}

// Catalog is indexed by Shape. The offsets are load-bearing: the planner's
// spawn coordinates and route finder both assume this exact origin choice
// per shape, not merely "a" valid rotation table for that shape.
var Catalog = [NumShapes]Def{
	ShapeI: {
		Cnt: 2,
		Cells: [4][4]Cell{
			{{0, 0}, {0, -1}, {0, -2}, {0, 1}},
			{{0, 0}, {1, 0}, {2, 0}, {-1, 0}},
		},
	},
	ShapeL: {
		Cnt: 4,
		Cells: [4][4]Cell{
			{{0, 0}, {0, -1}, {0, -2}, {1, 0}},
			{{0, 0}, {1, 0}, {2, 0}, {0, 1}},
			{{0, 0}, {-1, 0}, {0, 1}, {0, 2}},
			{{0, 0}, {0, -1}, {-1, 0}, {-2, 0}},
		},
	},
	ShapeJ: {
		Cnt: 4,
		Cells: [4][4]Cell{
			{{0, 0}, {0, -1}, {0, -2}, {-1, 0}},
			{{0, 0}, {0, -1}, {1, 0}, {2, 0}},
			{{0, 0}, {1, 0}, {0, 1}, {0, 2}},
			{{0, 0}, {-1, 0}, {-2, 0}, {0, 1}},
		},
	},
	ShapeT: {
		Cnt: 4,
		Cells: [4][4]Cell{
			{{0, 0}, {1, 0}, {0, 1}, {-1, 0}},
			{{0, 0}, {0, -1}, {0, 1}, {-1, 0}},
			{{0, 0}, {0, -1}, {1, 0}, {-1, 0}},
			{{0, 0}, {0, -1}, {1, 0}, {0, 1}},
		},
	},
	ShapeO: {
		Cnt: 1,
		Cells: [4][4]Cell{
			{{0, 0}, {0, -1}, {1, -1}, {1, 0}},
		},
	},
	ShapeS: {
		Cnt: 2,
		Cells: [4][4]Cell{
			{{0, 0}, {0, -1}, {1, -1}, {-1, 0}},
			{{0, 0}, {-1, 0}, {-1, -1}, {0, 1}},
		},
	},
	ShapeZ: {
		Cnt: 2,
		Cells: [4][4]Cell{
			{{0, 0}, {0, -1}, {1, 0}, {-1, -1}},
			{{0, 0}, {0, -1}, {-1, 1}, {-1, 0}},
		},
	},
}

func init() {
	for s := range Catalog {
		def := &Catalog[s]
		for r := 0; r < int(def.Cnt); r++ {
			b := Bounds{MinX: 127, MaxX: -128, MinY: 127, MaxY: -128}
			for _, c := range def.Cells[r] {
				if c.DX < b.MinX {
					b.MinX = c.DX
				}
				if c.DX > b.MaxX {
					b.MaxX = c.DX
				}
				if c.DY < b.MinY {
					b.MinY = c.DY
				}
				if c.DY > b.MaxY {
					b.MaxY = c.DY
				}
			}
			def.Bound[r] = b
		}
	}
}
