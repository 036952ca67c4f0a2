package detection

import (
	"image"

	"github.com/anthonynsimon/bild/parallel"

	"github.com/ironsheep/rect-coords/internal/geometry"
)

// RegionProvider turns a grayscale pixel grid into one unordered corner set
// per detected region.
//
// Each corner set should hold exactly four points; callers reject any other
// count as invalid geometry. Implementations must be deterministic: the same
// grid yields the same corner sets in the same order.
type RegionProvider interface {
	Regions(gray *image.Gray) ([][]geometry.Point, error)
}

// MinAreaProvider is the default RegionProvider.
//
// It binarizes the grid with inverted polarity (dark pixels are foreground),
// groups foreground pixels into 8-connected components, drops components that
// sit inside a hole of another component, and fits each remaining component
// with its minimum-area enclosing rectangle.
//
// Regions are emitted in raster order of each component's first pixel
// (top-to-bottom, then left-to-right). Nothing is filtered by size: a single
// foreground pixel yields a quad of four identical points.
type MinAreaProvider struct {
	// Threshold is the largest luminance (0-255) still counted as foreground.
	Threshold uint8
}

// NewMinAreaProvider creates a provider with the given foreground threshold.
func NewMinAreaProvider(threshold uint8) *MinAreaProvider {
	return &MinAreaProvider{Threshold: threshold}
}

// Regions implements RegionProvider.
func (p *MinAreaProvider) Regions(gray *image.Gray) ([][]geometry.Point, error) {
	mask := Binarize(gray, p.Threshold)
	components := FindComponents(mask)

	sets := make([][]geometry.Point, 0, len(components))
	for _, c := range components {
		if !c.External {
			continue
		}
		sets = append(sets, MinAreaRect(c.Pixels).Points())
	}
	return sets, nil
}

// Binarize returns the foreground mask of a grayscale image, indexed [y][x]
// relative to the image bounds.
//
// A pixel is foreground when its luminance is <= threshold. With the default
// threshold of 128 this matches an inverted binary threshold at 128: black
// ink on white paper becomes foreground. Rows are split across CPUs.
func Binarize(gray *image.Gray, threshold uint8) [][]bool {
	bounds := gray.Bounds()
	width := bounds.Dx()
	height := bounds.Dy()

	mask := make([][]bool, height)
	parallel.Line(height, func(start, end int) {
		for y := start; y < end; y++ {
			row := gray.Pix[y*gray.Stride : y*gray.Stride+width]
			mask[y] = make([]bool, width)
			for x, v := range row {
				mask[y][x] = v <= threshold
			}
		}
	})
	return mask
}

// Component is a connected group of foreground pixels.
type Component struct {
	// Pixels lists every pixel of the component in discovery order.
	Pixels []image.Point

	// External is false when the component lies inside a hole of another
	// component. Only external components have an outer boundary that is
	// reported as a region.
	External bool
}

// FindComponents labels 8-connected foreground components of a mask.
//
// Components are returned in raster order of their first pixel. The image
// frame counts as background, so a component touching the frame is external.
// Background is traversed with 4-connectivity, the complement of the
// foreground's 8-connectivity, which makes a diagonally closed ring enclose
// its interior.
func FindComponents(mask [][]bool) []Component {
	height := len(mask)
	if height == 0 {
		return []Component{}
	}
	width := len(mask[0])

	outside := markOutside(mask, width, height)

	visited := make([][]bool, height)
	for y := 0; y < height; y++ {
		visited[y] = make([]bool, width)
	}

	components := make([]Component, 0)
	for y := 0; y < height; y++ {
		for x := 0; x < width; x++ {
			if mask[y][x] && !visited[y][x] {
				pixels := make([]image.Point, 0)
				floodFill(mask, visited, x, y, width, height, &pixels)
				components = append(components, Component{
					Pixels:   pixels,
					External: touchesOutside(pixels, outside, width, height),
				})
			}
		}
	}

	return components
}

// floodFill collects one 8-connected foreground component.
//
// Stack-based so large components cannot overflow the goroutine stack.
func floodFill(mask, visited [][]bool, startX, startY, width, height int, pixels *[]image.Point) {
	stack := []image.Point{{X: startX, Y: startY}}

	for len(stack) > 0 {
		p := stack[len(stack)-1]
		stack = stack[:len(stack)-1]

		if p.X < 0 || p.X >= width || p.Y < 0 || p.Y >= height {
			continue
		}
		if visited[p.Y][p.X] || !mask[p.Y][p.X] {
			continue
		}

		visited[p.Y][p.X] = true
		*pixels = append(*pixels, p)

		for dy := -1; dy <= 1; dy++ {
			for dx := -1; dx <= 1; dx++ {
				if dx == 0 && dy == 0 {
					continue
				}
				stack = append(stack, image.Point{X: p.X + dx, Y: p.Y + dy})
			}
		}
	}
}

// markOutside flags background pixels 4-connected to the image frame.
func markOutside(mask [][]bool, width, height int) [][]bool {
	outside := make([][]bool, height)
	for y := 0; y < height; y++ {
		outside[y] = make([]bool, width)
	}

	stack := make([]image.Point, 0)
	for x := 0; x < width; x++ {
		stack = append(stack, image.Point{X: x, Y: 0}, image.Point{X: x, Y: height - 1})
	}
	for y := 0; y < height; y++ {
		stack = append(stack, image.Point{X: 0, Y: y}, image.Point{X: width - 1, Y: y})
	}

	for len(stack) > 0 {
		p := stack[len(stack)-1]
		stack = stack[:len(stack)-1]

		if p.X < 0 || p.X >= width || p.Y < 0 || p.Y >= height {
			continue
		}
		if outside[p.Y][p.X] || mask[p.Y][p.X] {
			continue
		}

		outside[p.Y][p.X] = true
		stack = append(stack,
			image.Point{X: p.X + 1, Y: p.Y},
			image.Point{X: p.X - 1, Y: p.Y},
			image.Point{X: p.X, Y: p.Y + 1},
			image.Point{X: p.X, Y: p.Y - 1},
		)
	}

	return outside
}

// touchesOutside reports whether any pixel lies on the frame or has a
// 4-neighbour in the outside background.
func touchesOutside(pixels []image.Point, outside [][]bool, width, height int) bool {
	for _, p := range pixels {
		if p.X == 0 || p.Y == 0 || p.X == width-1 || p.Y == height-1 {
			return true
		}
		if outside[p.Y][p.X-1] || outside[p.Y][p.X+1] || outside[p.Y-1][p.X] || outside[p.Y+1][p.X] {
			return true
		}
	}
	return false
}
