// Package geometry orders the corners of detected rectangles and sequences
// rectangles into a reproducible left-to-right order.
//
// Everything in this package is a pure function of its arguments. It knows
// nothing about pixels; the corner sets it consumes come from a region
// provider (see package detection).
//
// # Coordinate System
//
// Image convention: origin (0, 0) at the top-left, X increases rightward,
// Y increases downward. "Top" therefore means smallest Y.
//
// # Canonical Corner Order
//
// A rectangle's four corners are labelled top-left, top-right, bottom-left,
// bottom-right (TL, TR, BL, BR):
//
//  1. The two points with the smallest Y form the top pair, the other two
//     the bottom pair. Y ties are broken by smaller X.
//  2. Within each pair the point with the smaller X comes first. X ties are
//     broken by smaller Y.
//
// The top pair is chosen purely by Y. For steeply rotated rectangles this can
// label what a person would call a side edge as the top edge. That is the
// convention, not a detector of the true upper edge.
//
// # Sequence Order
//
// Rectangles are ordered by TL.X, then TL.Y. When TL is identical the
// remaining corners (TR, BL, BR, each X then Y) decide, and after that the
// input order is kept.
//
// This is an approximate left-to-right order, not a row-grouped reading
// order: a rectangle far down the page with a slightly smaller TL.X sorts
// before one higher up.
package geometry
