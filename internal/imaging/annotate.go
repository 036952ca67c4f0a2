package imaging

import (
	"bytes"
	"encoding/base64"
	"fmt"
	"image"
	"image/color"
	"image/draw"
	"math"

	"github.com/disintegration/imaging"
	colorful "github.com/lucasb-eyer/go-colorful"
	"golang.org/x/image/font"
	"golang.org/x/image/font/basicfont"
	"golang.org/x/image/math/fixed"
)

// Box is one outlined quadrilateral on an annotated image.
type Box struct {
	// Label is drawn next to the first corner.
	Label string

	// Corners in TL, TR, BL, BR order. The outline runs TL-TR-BR-BL.
	Corners [4]image.Point
}

// AnnotateResult contains an annotated image encoded as base64 PNG.
type AnnotateResult struct {
	Width       int    `json:"width"`
	Height      int    `json:"height"`
	Count       int    `json:"count"`
	ImageBase64 string `json:"image_base64,omitempty"`
	OutputPath  string `json:"output_path,omitempty"`
	MimeType    string `json:"mime_type,omitempty"`
}

// goldenAngle spreads consecutive hues far apart on the colour wheel.
const goldenAngle = 137.50776405003785

// BoxColor returns the outline colour for the i-th box.
//
// Hues step by the golden angle so neighbouring ids stay distinguishable;
// the sequence is deterministic.
func BoxColor(i int) color.RGBA {
	hue := math.Mod(float64(i)*goldenAngle, 360)
	r, g, b := colorful.Hsv(hue, 0.85, 0.9).Clamped().RGB255()
	return color.RGBA{R: r, G: g, B: b, A: 255}
}

// Annotate draws box outlines and labels onto a copy of img.
//
// The source image is not modified. Coordinates are relative to the image
// origin, matching the coordinates the extractor reports.
func Annotate(img image.Image, boxes []Box) *image.NRGBA {
	canvas := imaging.Clone(img)

	for i, b := range boxes {
		c := BoxColor(i)
		tl, tr, bl, br := b.Corners[0], b.Corners[1], b.Corners[2], b.Corners[3]
		drawLine(canvas, tl, tr, c)
		drawLine(canvas, tr, br, c)
		drawLine(canvas, br, bl, c)
		drawLine(canvas, bl, tl, c)

		if b.Label != "" {
			drawLabel(canvas, tl.X+2, tl.Y-2, b.Label, c)
		}
	}

	return canvas
}

// EncodeAnnotation encodes an annotated image as base64 PNG.
func EncodeAnnotation(img *image.NRGBA, count int) (*AnnotateResult, error) {
	var buf bytes.Buffer
	if err := imaging.Encode(&buf, img, imaging.PNG); err != nil {
		return nil, fmt.Errorf("failed to encode annotated image: %w", err)
	}

	return &AnnotateResult{
		Width:       img.Bounds().Dx(),
		Height:      img.Bounds().Dy(),
		Count:       count,
		ImageBase64: base64.StdEncoding.EncodeToString(buf.Bytes()),
		MimeType:    "image/png",
	}, nil
}

// SaveAnnotation writes an annotated image to path; the format follows the
// path's extension.
func SaveAnnotation(img *image.NRGBA, count int, path string) (*AnnotateResult, error) {
	if err := imaging.Save(img, path); err != nil {
		return nil, fmt.Errorf("failed to save annotated image: %w", err)
	}

	return &AnnotateResult{
		Width:      img.Bounds().Dx(),
		Height:     img.Bounds().Dy(),
		Count:      count,
		OutputPath: path,
	}, nil
}

// drawLine draws a 1-pixel line with Bresenham's algorithm, clipped to the
// image bounds.
func drawLine(img *image.NRGBA, a, b image.Point, c color.Color) {
	bounds := img.Bounds()
	dx := abs(b.X - a.X)
	dy := -abs(b.Y - a.Y)
	sx, sy := 1, 1
	if a.X > b.X {
		sx = -1
	}
	if a.Y > b.Y {
		sy = -1
	}
	e := dx + dy

	x, y := a.X, a.Y
	for {
		if (image.Point{X: x, Y: y}).In(bounds) {
			img.Set(x, y, c)
		}
		if x == b.X && y == b.Y {
			return
		}
		e2 := 2 * e
		if e2 >= dy {
			e += dy
			x += sx
		}
		if e2 <= dx {
			e += dx
			y += sy
		}
	}
}

// drawLabel renders text with the 7x13 basic font on a dark backing strip so
// it stays readable over any fill. The baseline is at y, clamped into the
// image.
func drawLabel(img *image.NRGBA, x, y int, text string, fg color.Color) {
	face := basicfont.Face7x13
	bounds := img.Bounds()

	width := font.MeasureString(face, text).Ceil()
	height := face.Metrics().Height.Ceil()
	if y-height < bounds.Min.Y {
		y = bounds.Min.Y + height
	}
	if x+width > bounds.Max.X {
		x = bounds.Max.X - width
	}
	if x < bounds.Min.X {
		x = bounds.Min.X
	}

	backing := image.Rect(x-1, y-height+2, x+width+1, y+3).Intersect(bounds)
	draw.Draw(img, backing, image.NewUniform(color.NRGBA{A: 180}), image.Point{}, draw.Over)

	d := &font.Drawer{
		Dst:  img,
		Src:  image.NewUniform(fg),
		Face: face,
		Dot:  fixed.P(x, y),
	}
	d.DrawString(text)
}

func abs(v int) int {
	if v < 0 {
		return -v
	}
	return v
}
