package geometry

import (
	"fmt"
	"sort"
)

// Rectangle is a rectangle whose corners are in canonical order.
//
// The zero value is a degenerate rectangle at the origin. Values are only
// built by Canonicalize, so the corner order invariant always holds; the
// corners are unexported to keep the value immutable.
type Rectangle struct {
	corners [4]Point
}

// TL returns the top-left corner.
func (r Rectangle) TL() Point { return r.corners[0] }

// TR returns the top-right corner.
func (r Rectangle) TR() Point { return r.corners[1] }

// BL returns the bottom-left corner.
func (r Rectangle) BL() Point { return r.corners[2] }

// BR returns the bottom-right corner.
func (r Rectangle) BR() Point { return r.corners[3] }

// Corners returns a copy of the corners in TL, TR, BL, BR order.
func (r Rectangle) Corners() [4]Point {
	return r.corners
}

func (r Rectangle) String() string {
	return fmt.Sprintf("TL%v TR%v BL%v BR%v", r.corners[0], r.corners[1], r.corners[2], r.corners[3])
}

// Canonicalize labels four unordered corner points as TL, TR, BL, BR.
//
// Parameters:
//   - pts: exactly four points of a rectangle at any rotation, in any order.
//
// Returns:
//   - Rectangle: the same four points in canonical order.
//   - error: wraps ErrInvalidGeometry when len(pts) != 4.
//
// # Algorithm
//
//  1. Sort by (Y, X). The first two points are the top pair.
//  2. Sort the top pair by (X, Y): TL, TR.
//  3. Sort the bottom pair by (X, Y): BL, BR.
//
// Because both sort keys are total over distinct points, the result does not
// depend on the input order. Points equal in both coordinates are
// interchangeable. The input slice is not modified.
//
// Canonicalize is idempotent: Canonicalize(r.Corners()[:]) returns r.
func Canonicalize(pts []Point) (Rectangle, error) {
	if len(pts) != 4 {
		return Rectangle{}, fmt.Errorf("%w: expected 4 corner points, got %d", ErrInvalidGeometry, len(pts))
	}

	var ys [4]Point
	copy(ys[:], pts)
	sort.SliceStable(ys[:], func(i, j int) bool {
		return lessYX(ys[i], ys[j])
	})

	top := ys[:2]
	bottom := ys[2:]
	sort.SliceStable(top, func(i, j int) bool {
		return lessXY(top[i], top[j])
	})
	sort.SliceStable(bottom, func(i, j int) bool {
		return lessXY(bottom[i], bottom[j])
	})

	return Rectangle{corners: [4]Point{top[0], top[1], bottom[0], bottom[1]}}, nil
}
