package detection

import (
	"image"
	"math"
	"sort"

	"github.com/ironsheep/rect-coords/internal/geometry"
)

// MinAreaRect returns the four corners of the smallest-area rectangle, at any
// rotation, enclosing the given pixel coordinates.
//
// Pixel coordinates are taken as points (pixel centres), so a filled
// axis-aligned block spanning x=10..20 yields corners at x=10 and x=20.
//
// # Algorithm
//
//  1. Convex hull by Andrew's monotone chain (collinear points dropped).
//  2. Rotating calipers: one edge of the optimal rectangle is collinear with
//     a hull edge, so every hull edge direction is tried and the one with the
//     smallest bounding area wins. Earlier edges win exact ties.
//
// Degenerate inputs are not rejected: one point yields four identical
// corners, and collinear points yield a zero-width rectangle whose corners
// are the segment endpoints, each twice. Corner order is unspecified.
func MinAreaRect(pixels []image.Point) geometry.Quad {
	hull := convexHull(pixels)

	switch len(hull) {
	case 0:
		return geometry.Quad{}
	case 1:
		p := toPoint(hull[0])
		return geometry.Quad{p, p, p, p}
	case 2:
		a, b := toPoint(hull[0]), toPoint(hull[1])
		return geometry.Quad{a, b, b, a}
	}

	bestArea := math.Inf(1)
	var best geometry.Quad

	n := len(hull)
	for i := 0; i < n; i++ {
		p0 := toPoint(hull[i])
		p1 := toPoint(hull[(i+1)%n])

		ex, ey := p1.X-p0.X, p1.Y-p0.Y
		length := math.Hypot(ex, ey)
		if length == 0 {
			continue
		}
		// u runs along the edge, v is perpendicular to it.
		ux, uy := ex/length, ey/length
		vx, vy := -uy, ux

		minS, maxS := math.Inf(1), math.Inf(-1)
		minT, maxT := math.Inf(1), math.Inf(-1)
		for _, h := range hull {
			dx := float64(h.X) - p0.X
			dy := float64(h.Y) - p0.Y
			s := dx*ux + dy*uy
			t := dx*vx + dy*vy
			minS = math.Min(minS, s)
			maxS = math.Max(maxS, s)
			minT = math.Min(minT, t)
			maxT = math.Max(maxT, t)
		}

		area := (maxS - minS) * (maxT - minT)
		if area < bestArea {
			bestArea = area
			corner := func(s, t float64) geometry.Point {
				return geometry.Pt(p0.X+s*ux+t*vx, p0.Y+s*uy+t*vy)
			}
			best = geometry.Quad{
				corner(minS, minT),
				corner(maxS, minT),
				corner(maxS, maxT),
				corner(minS, maxT),
			}
		}
	}

	return snapQuad(best)
}

// convexHull computes the convex hull with Andrew's monotone chain.
//
// Returns the hull in counter-clockwise order (in image coordinates) without
// collinear points. Inputs with fewer than three distinct points are
// returned deduplicated.
func convexHull(points []image.Point) []image.Point {
	sorted := make([]image.Point, len(points))
	copy(sorted, points)
	sort.Slice(sorted, func(i, j int) bool {
		if sorted[i].X != sorted[j].X {
			return sorted[i].X < sorted[j].X
		}
		return sorted[i].Y < sorted[j].Y
	})

	unique := sorted[:0]
	for i, p := range sorted {
		if i == 0 || p != sorted[i-1] {
			unique = append(unique, p)
		}
	}
	if len(unique) < 3 {
		return unique
	}

	cross := func(o, a, b image.Point) int {
		return (a.X-o.X)*(b.Y-o.Y) - (a.Y-o.Y)*(b.X-o.X)
	}

	var lower []image.Point
	for _, p := range unique {
		for len(lower) >= 2 && cross(lower[len(lower)-2], lower[len(lower)-1], p) <= 0 {
			lower = lower[:len(lower)-1]
		}
		lower = append(lower, p)
	}

	var upper []image.Point
	for i := len(unique) - 1; i >= 0; i-- {
		p := unique[i]
		for len(upper) >= 2 && cross(upper[len(upper)-2], upper[len(upper)-1], p) <= 0 {
			upper = upper[:len(upper)-1]
		}
		upper = append(upper, p)
	}

	return append(lower[:len(lower)-1], upper[:len(upper)-1]...)
}

// snapEpsilon absorbs floating point noise from the caliper projection.
const snapEpsilon = 1e-9

// snapQuad rounds coordinates that are within snapEpsilon of an integer.
func snapQuad(q geometry.Quad) geometry.Quad {
	for i := range q {
		q[i] = geometry.Pt(snap(q[i].X), snap(q[i].Y))
	}
	return q
}

func snap(v float64) float64 {
	if r := math.Round(v); math.Abs(v-r) < snapEpsilon {
		return r
	}
	return v
}

func toPoint(p image.Point) geometry.Point {
	return geometry.Pt(float64(p.X), float64(p.Y))
}
