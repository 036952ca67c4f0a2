package geometry

import "sort"

// Sequenced is a canonical rectangle with its position in the final order.
type Sequenced struct {
	Rect Rectangle
	// Rank is 0-based and contiguous across one Sequence call.
	Rank int
}

// Sequence orders rectangles left to right and assigns ranks.
//
// The sort key is TL.X ascending, then TL.Y ascending. On an exact TL tie the
// TR, BL and BR corners are compared (X then Y); rectangles identical in all
// corners keep their input order. Ordering by TL alone would leave TL ties in
// input order; the extra corner keys go past that so that running Sequence on
// any permutation of the same set yields the same order.
//
// The input slice is not modified. An empty input returns an empty, non-nil
// slice.
func Sequence(rects []Rectangle) []Sequenced {
	sorted := make([]Rectangle, len(rects))
	copy(sorted, rects)

	sort.SliceStable(sorted, func(i, j int) bool {
		return lessRect(sorted[i], sorted[j])
	})

	out := make([]Sequenced, len(sorted))
	for i, r := range sorted {
		out[i] = Sequenced{Rect: r, Rank: i}
	}
	return out
}

func lessRect(a, b Rectangle) bool {
	for k := 0; k < 4; k++ {
		pa, pb := a.corners[k], b.corners[k]
		if pa.X != pb.X {
			return pa.X < pb.X
		}
		if pa.Y != pb.Y {
			return pa.Y < pb.Y
		}
	}
	return false
}
