package extract

import (
	"errors"

	"github.com/ironsheep/rect-coords/internal/geometry"
	"github.com/ironsheep/rect-coords/internal/imaging"
)

// Extraction failure kinds. Each is the same sentinel value its producing
// package defines, so errors.Is matches across package boundaries.
var (
	// ErrImageDecode means the input could not be decoded into pixels.
	ErrImageDecode = imaging.ErrDecode

	// ErrInvalidGeometry means a detected region did not reduce to exactly
	// four corners.
	ErrInvalidGeometry = geometry.ErrInvalidGeometry

	// ErrUnsupportedFormat means the input was rejected before decoding.
	ErrUnsupportedFormat = imaging.ErrUnsupportedFormat
)

// Error kind names reported by Kind.
const (
	KindUnsupportedFormat = "unsupported_format"
	KindImageDecode       = "image_decode"
	KindInvalidGeometry   = "invalid_geometry"
	KindInternal          = "internal"
)

// Kind classifies an extraction error for transports. Errors that match no
// sentinel (I/O failures, staging errors) are "internal". Kind(nil) is "".
func Kind(err error) string {
	switch {
	case err == nil:
		return ""
	case errors.Is(err, ErrUnsupportedFormat):
		return KindUnsupportedFormat
	case errors.Is(err, ErrImageDecode):
		return KindImageDecode
	case errors.Is(err, ErrInvalidGeometry):
		return KindInvalidGeometry
	default:
		return KindInternal
	}
}
