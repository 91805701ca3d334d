package bitops

import "testing"

func TestTrailingZeros64(t *testing.T) {
	cases := []struct {
		w    uint64
		want int
	}{
		{0, 64},
		{1, 0},
		{8, 3},
		{1 << 30, 30},
	}
	for _, c := range cases {
		if got := TrailingZeros64(c.w); got != c.want {
			t.Errorf("TrailingZeros64(%d) = %d, want %d", c.w, got, c.want)
		}
	}
}

func TestPopCount64(t *testing.T) {
	if got := PopCount64(0b10110); got != 3 {
		t.Errorf("PopCount64 = %d, want 3", got)
	}
}

func TestEachSetBit(t *testing.T) {
	var idxs []int
	EachSetBit(0b1010, func(idx int) { idxs = append(idxs, idx) })
	if len(idxs) != 2 || idxs[0] != 1 || idxs[1] != 3 {
		t.Errorf("EachSetBit gave %v, want [1 3]", idxs)
	}
}

func TestRotateLeft64(t *testing.T) {
	if got := RotateLeft64(1, 1); got != 2 {
		t.Errorf("RotateLeft64(1,1) = %d, want 2", got)
	}
}
