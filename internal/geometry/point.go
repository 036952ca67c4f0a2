package geometry

import (
	"errors"
	"fmt"
	"math"
)

// ErrInvalidGeometry is returned when a region does not reduce to exactly
// four corner points.
var ErrInvalidGeometry = errors.New("invalid geometry")

// Point is a 2D coordinate in pixel space.
type Point struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

// Pt is shorthand for Point{X: x, Y: y}.
func Pt(x, y float64) Point {
	return Point{X: x, Y: y}
}

// Rounded returns the point with both coordinates rounded half away from zero.
func (p Point) Rounded() [2]int {
	return [2]int{int(math.Round(p.X)), int(math.Round(p.Y))}
}

func (p Point) String() string {
	return fmt.Sprintf("(%g,%g)", p.X, p.Y)
}

// Quad is an unordered set of four corner points as emitted by a region
// provider.
type Quad [4]Point

// Points returns the corners as a slice, in emission order.
func (q Quad) Points() []Point {
	return q[:]
}

// lessYX orders by Y, then X.
func lessYX(a, b Point) bool {
	if a.Y != b.Y {
		return a.Y < b.Y
	}
	return a.X < b.X
}

// lessXY orders by X, then Y.
func lessXY(a, b Point) bool {
	if a.X != b.X {
		return a.X < b.X
	}
	return a.Y < b.Y
}
