// Package detection finds dark regions in a grayscale image and fits each
// with its minimum-area enclosing rectangle.
//
// # Pipeline
//
//  1. Binarize: luminance <= threshold is foreground (dark ink on light paper).
//  2. Label 8-connected foreground components with an iterative flood fill.
//  3. Drop components that sit inside a hole of another component, so only
//     outer boundaries are reported.
//  4. Fit each remaining component with MinAreaRect (convex hull plus
//     rotating calipers).
//
// The result is one unordered four-point corner set per region. Ordering the
// corners and the regions is left to package geometry.
//
// # Coordinate System
//
// Coordinates are pixel centres relative to the image origin: a block filling
// columns 10..20 has corners at x=10 and x=20, not 21.
//
// # Limitations
//
// There is no noise filtering. Every foreground speck becomes a region, and
// anti-aliased edges can split or merge shapes depending on the threshold.
// Shapes that are not rectangles are still reported as their enclosing
// rectangle.
package detection
