package extract

import (
	"bytes"
	"fmt"
	"image"
	"os"
	"path/filepath"

	"github.com/ironsheep/rect-coords/internal/config"
	"github.com/ironsheep/rect-coords/internal/detection"
	"github.com/ironsheep/rect-coords/internal/geometry"
	"github.com/ironsheep/rect-coords/internal/imaging"
)

// IdentifiedRectangle is one output record.
//
// Coordinates are TL, TR, BL, BR as [x, y] pairs rounded half away from
// zero. ID equals the rectangle's position in the sequenced output.
type IdentifiedRectangle struct {
	ID          int       `json:"id"`
	Coordinates [4][2]int `json:"coordinates"`
}

// Extractor runs the extraction pipeline. It holds no mutable state and is
// safe for concurrent use.
type Extractor struct {
	provider  detection.RegionProvider
	validator imaging.FormatValidator
	store     *imaging.TempStore
	workers   int
	logf      func(format string, args ...interface{})
	debug     bool
}

// Option customises an Extractor.
type Option func(*Extractor)

// WithProvider replaces the default region provider.
func WithProvider(p detection.RegionProvider) Option {
	return func(e *Extractor) {
		e.provider = p
	}
}

// WithLogf sets the logger used for per-item failures. log.Printf fits.
func WithLogf(logf func(format string, args ...interface{})) Option {
	return func(e *Extractor) {
		e.logf = logf
	}
}

// WithDebug also sends a rectangle count per processed image to the logger.
func WithDebug(enabled bool) Option {
	return func(e *Extractor) {
		e.debug = enabled
	}
}

// New creates an Extractor from a validated configuration.
func New(cfg config.Config, opts ...Option) *Extractor {
	workers := cfg.Workers
	if workers < 1 {
		workers = 1
	}

	e := &Extractor{
		provider: detection.NewMinAreaProvider(uint8(cfg.Threshold)),
		validator: imaging.FormatValidator{
			Accepted:      cfg.AcceptedFormats,
			VerifyContent: cfg.VerifyContent,
		},
		store:   imaging.NewTempStore(cfg.TempDir),
		workers: workers,
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

func (e *Extractor) log(format string, args ...interface{}) {
	if e.logf != nil {
		e.logf(format, args...)
	}
}

func (e *Extractor) debugf(format string, args ...interface{}) {
	if e.debug {
		e.log(format, args...)
	}
}

// ExtractRectangles finds every rectangle in a decoded image.
//
// Returns the rectangles ordered by top-left x, then top-left y, with IDs
// 0..n-1. An image with no foreground returns an empty, non-nil slice. Any
// region that does not reduce to four corners fails the whole image with an
// error wrapping ErrInvalidGeometry.
func (e *Extractor) ExtractRectangles(img image.Image) ([]IdentifiedRectangle, error) {
	if img == nil {
		return nil, fmt.Errorf("%w: nil image", ErrImageDecode)
	}

	sets, err := e.provider.Regions(imaging.ToGray(img))
	if err != nil {
		return nil, fmt.Errorf("region detection failed: %w", err)
	}

	rects := make([]geometry.Rectangle, 0, len(sets))
	for i, pts := range sets {
		r, err := geometry.Canonicalize(pts)
		if err != nil {
			return nil, fmt.Errorf("region %d: %w", i, err)
		}
		rects = append(rects, r)
	}

	out := make([]IdentifiedRectangle, 0, len(rects))
	for _, s := range geometry.Sequence(rects) {
		out = append(out, identify(s))
	}
	return out, nil
}

func identify(s geometry.Sequenced) IdentifiedRectangle {
	rec := IdentifiedRectangle{ID: s.Rank}
	for i, c := range s.Rect.Corners() {
		rec.Coordinates[i] = c.Rounded()
	}
	return rec
}

// ExtractBytes validates, stages and decodes an uploaded file, then extracts
// its rectangles.
//
// The staged copy is removed before ExtractBytes returns, on success and on
// every error path.
func (e *Extractor) ExtractBytes(name string, data []byte) ([]IdentifiedRectangle, error) {
	if _, err := e.validator.Validate(name, data); err != nil {
		return nil, err
	}

	path, release, err := e.store.Stage(name, data)
	if err != nil {
		return nil, err
	}
	defer release()

	img, err := imaging.Open(path)
	if err != nil {
		return nil, err
	}

	rects, err := e.ExtractRectangles(img)
	if err != nil {
		return nil, err
	}
	e.debugf("Extracted %d rectangles from %s", len(rects), name)
	return rects, nil
}

// ExtractFile extracts rectangles from an image already on disk. The file
// name must pass the same format validation as an upload.
func (e *Extractor) ExtractFile(path string) ([]IdentifiedRectangle, error) {
	_, rects, err := e.loadAndExtract(path)
	return rects, err
}

// loadAndExtract validates and decodes path and returns the decoded image
// alongside its rectangles.
func (e *Extractor) loadAndExtract(path string) (image.Image, []IdentifiedRectangle, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to read image: %w", err)
	}

	name := filepath.Base(path)
	if _, err := e.validator.Validate(name, data); err != nil {
		return nil, nil, err
	}

	img, err := imaging.Decode(bytes.NewReader(data))
	if err != nil {
		return nil, nil, err
	}

	rects, err := e.ExtractRectangles(img)
	if err != nil {
		return nil, nil, err
	}
	e.debugf("Extracted %d rectangles from %s", len(rects), name)
	return img, rects, nil
}
