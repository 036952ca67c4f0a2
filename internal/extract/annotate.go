package extract

import (
	"image"
	"strconv"

	"github.com/ironsheep/rect-coords/internal/imaging"
)

// AnnotateFile extracts the rectangles of the image at path and draws them,
// labelled with their IDs, onto a copy of the image.
func (e *Extractor) AnnotateFile(path string) (*image.NRGBA, []IdentifiedRectangle, error) {
	img, rects, err := e.loadAndExtract(path)
	if err != nil {
		return nil, nil, err
	}
	return imaging.Annotate(img, Boxes(rects)), rects, nil
}

// Boxes converts output records to overlay boxes.
func Boxes(rects []IdentifiedRectangle) []imaging.Box {
	boxes := make([]imaging.Box, len(rects))
	for i, r := range rects {
		boxes[i].Label = strconv.Itoa(r.ID)
		for j, c := range r.Coordinates {
			boxes[i].Corners[j] = image.Point{X: c[0], Y: c[1]}
		}
	}
	return boxes
}
