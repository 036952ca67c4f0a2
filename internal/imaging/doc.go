// Package imaging provides the raster I/O around rectangle extraction.
//
// It covers four concerns:
//   - Format validation and decoding (loader.go). PNG, JPEG and GIF decoders
//     come from the standard library; BMP, TIFF and WebP from
//     golang.org/x/image. Which formats are accepted is configured, not
//     fixed.
//   - Grayscale conversion for binarization (ToGray).
//   - Staging uploaded bytes in a temp directory under a sanitized name
//     (tempstore.go).
//   - Drawing rectangle outlines and ids onto a copy of an image for visual
//     checks (annotate.go).
//
// # Coordinate System
//
// All pixel coordinates are 0-based with (0,0) at the top-left corner, X
// increasing rightward and Y increasing downward. Decoded images may have a
// non-zero bounds origin; ToGray and Annotate both work relative to it.
//
// # Error Handling
//
// Rejections wrap ErrUnsupportedFormat and undecodable data wraps ErrDecode,
// so callers classify failures with errors.Is. File system errors are
// returned wrapped but otherwise unclassified.
//
// # Thread Safety
//
// Every function is safe for concurrent use. TempStore creates a distinct
// file per Stage call.
package imaging
