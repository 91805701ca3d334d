package piece

// Steps is the fixed length of a full play-through.
const Steps = 10000

const (
	lcgSeed = 12358
	lcgA    = 27073
	lcgC    = 17713
	lcgM    = 32749
)

// shapeWeightUpperBound holds the upper-bound (inclusive) of each shape's weight
// bucket in the 0..28 range. Weights are 2,3,3,4,5,6,6, summing to 29.
var shapeWeightUpperBound = [NumShapes]uint32{
	ShapeI: 1,
	ShapeL: 4,
	ShapeJ: 7,
	ShapeT: 11,
	ShapeO: 16,
	ShapeS: 22,
	ShapeZ: 28,
}

func shapeForWeight(w uint32) Shape {
	for s := Shape(0); s < NumShapes; s++ {
		if w <= shapeWeightUpperBound[s] {
			return s
		}
	}
	return ShapeZ
}

// Piece is one entry of the fixed sequence: the shape to place and its
// spawn pose.
type Piece struct {
	Shape Shape
	Spawn Pose
}

// Sequence is the compile-time-equivalent piece sequence, computed once at
// package init in the same way the reference implementation computes it at
// compile time via a constexpr LCG unroll.
var Sequence = genSequence()

func genSequence() [Steps]Piece {
	var res [Steps]Piece
	r := uint32(lcgSeed)
	for i := uint32(0); i < Steps; i++ {
		r = (r*lcgA + lcgC) % lcgM
		shape := shapeForWeight(r % 29)
		rot := uint8(i%4) % Catalog[shape].Cnt
		res[i] = Piece{
			Shape: shape,
			Spawn: Pose{X: 4, Y: 0, Rot: rot},
		}
	}
	return res
}
