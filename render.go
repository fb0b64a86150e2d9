// Package aruco generates ArUco fiducial markers as grayscale bitmaps.
//
// A marker is looked up in a [Dictionary], expanded to a [Grid] of cells
// including its black border, and rasterised at the requested pixel size.
// The images agree with the output of OpenCV's generateImageMarker for the
// same dictionary, id, size and border width.
package aruco

//go:generate go run ./testcases/export
//go:generate go run ./testcases/genref

import (
	"errors"
	"fmt"
	"image"

	"seehuhn.de/go/geom/rect"
)

// DefaultPixels is the side length, in pixels, at which markers are
// rendered for printing.
const DefaultPixels = 300

// ErrTooSmall is returned when the requested image is smaller than one
// pixel per cell.
var ErrTooSmall = errors.New("image smaller than marker grid")

// Image renders the grid as a side×side grayscale image.  Black cells are
// 0, white cells are 255.
func (g *Grid) Image(side int) (*image.Gray, error) {
	return g.render(nil, side)
}

func (g *Grid) render(r *rasteriser, side int) (*image.Gray, error) {
	if side < g.N {
		return nil, fmt.Errorf("%w: %d pixels for %d cells", ErrTooSmall, side, g.N)
	}

	img := image.NewGray(image.Rect(0, 0, side, side))
	for i := range img.Pix {
		img.Pix[i] = 255
	}

	clip := rect.Rect{URx: float64(side), URy: float64(side)}
	if r == nil {
		r = newRasteriser(clip)
	} else {
		r.reset(clip)
	}

	err := r.fill(g.Path(side), func(y, xMin int, coverage []float32) {
		row := img.Pix[y*img.Stride+xMin:]
		for i, c := range coverage {
			row[i] = 255 - byte(min(255, int(c*255+0.5)))
		}
	})
	if err != nil {
		return nil, err
	}
	return img, nil
}

// GenerateImage renders marker id as a side×side grayscale image, with a
// black border of borderBits cells.
func (d *Dictionary) GenerateImage(id, side, borderBits int) (*image.Gray, error) {
	g, err := d.Grid(id, borderBits)
	if err != nil {
		return nil, err
	}
	return g.Image(side)
}

// Renderer renders markers from a fixed dictionary, reusing its internal
// buffers between calls.  A Renderer is not safe for concurrent use.
type Renderer struct {
	Dict       *Dictionary
	BorderBits int

	r *rasteriser
}

// NewRenderer returns a Renderer for d with a one cell border.
func NewRenderer(d *Dictionary) *Renderer {
	return &Renderer{Dict: d, BorderBits: 1}
}

// Render renders marker id as a side×side grayscale image.
func (m *Renderer) Render(id, side int) (*image.Gray, error) {
	g, err := m.Dict.Grid(id, m.BorderBits)
	if err != nil {
		return nil, err
	}
	if m.r == nil {
		m.r = newRasteriser(rect.Rect{})
	}
	return g.render(m.r, side)
}
