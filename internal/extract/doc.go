// Package extract turns raster images into ordered, identified rectangle
// records.
//
// An Extractor chains a detection.RegionProvider, the corner canonicalizer
// and the sequencer from package geometry:
//
//	pixels -> raw corner sets -> canonical rectangles -> sequenced -> records
//
// Each record carries its rank as ID and its corners as integer [x, y]
// pairs in TL, TR, BL, BR order. Single images fail with the first error;
// ExtractBatch isolates failures per item and preserves input order.
//
// Failures are classified by the sentinels in errors.go and by Kind.
package extract
