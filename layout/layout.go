// seehuhn.de/go/aruco - printable ArUco marker sheets
// Copyright (C) 2026  Jochen Voss <voss@seehuhn.de>
//
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
//
// This program is distributed in the hope that it will be useful,
// but WITHOUT ANY WARRANTY; without even the implied warranty of
// MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.  See the
// GNU General Public License for more details.
//
// You should have received a copy of the GNU General Public License
// along with this program.  If not, see <https://www.gnu.org/licenses/>.

// Package layout computes where the four corner markers go on a page.
//
// All coordinates use the PDF convention: the origin is at the bottom-left
// corner of the page and y grows upwards.  Functions in this package work
// in whatever length unit the caller uses, as long as it is used
// consistently.
package layout

import (
	"errors"
	"fmt"

	"seehuhn.de/go/geom/rect"
	"seehuhn.de/go/geom/vec"
)

// Corner identifies one corner of the page.
// The numeric value of a Corner is the id of the marker placed there.
type Corner int

// The corners, in marker id order.
const (
	TopLeft Corner = iota
	TopRight
	BottomRight
	BottomLeft
)

func (c Corner) String() string {
	switch c {
	case TopLeft:
		return "top-left"
	case TopRight:
		return "top-right"
	case BottomRight:
		return "bottom-right"
	case BottomLeft:
		return "bottom-left"
	default:
		return fmt.Sprintf("Corner(%d)", int(c))
	}
}

// Corners returns the bottom-left origins of four size×size squares, each
// placed margin away from two edges of page.  The result is indexed by
// Corner.  No checks are made: invalid margins or sizes give squares
// outside the page or overlapping each other.
func Corners(page rect.Rect, margin, size float64) [4]vec.Vec2 {
	left := page.LLx + margin
	right := page.URx - margin - size
	bottom := page.LLy + margin
	top := page.URy - margin - size

	return [4]vec.Vec2{
		TopLeft:     {X: left, Y: top},
		TopRight:    {X: right, Y: top},
		BottomRight: {X: right, Y: bottom},
		BottomLeft:  {X: left, Y: bottom},
	}
}

// Placement describes one marker on the page.
type Placement struct {
	ID     int
	Corner Corner
	Origin vec.Vec2 // bottom-left corner of the marker
	Size   float64  // side length
}

// Rect returns the area covered by the marker.
func (p Placement) Rect() rect.Rect {
	return rect.Rect{
		LLx: p.Origin.X,
		LLy: p.Origin.Y,
		URx: p.Origin.X + p.Size,
		URy: p.Origin.Y + p.Size,
	}
}

// Place returns the four marker placements for page, in id order.
func Place(page rect.Rect, margin, size float64) []Placement {
	origins := Corners(page, margin, size)
	res := make([]Placement, len(origins))
	for i, o := range origins {
		res[i] = Placement{
			ID:     i,
			Corner: Corner(i),
			Origin: o,
			Size:   size,
		}
	}
	return res
}

var (
	// ErrOffPage indicates a marker which extends beyond the page.
	ErrOffPage = errors.New("marker extends beyond the page")

	// ErrOverlap indicates two markers which overlap.
	ErrOverlap = errors.New("markers overlap")

	// ErrNegativeSize indicates a marker with negative side length.
	ErrNegativeSize = errors.New("negative marker size")
)

// Check verifies that every placement lies within page and that no two
// placements overlap.  Markers which only touch along an edge are fine.
// All problems found are reported, joined into a single error.
func Check(page rect.Rect, placements []Placement) error {
	var errs []error
	for _, p := range placements {
		if p.Size < 0 {
			errs = append(errs, fmt.Errorf("marker %d (%s): %w %g", p.ID, p.Corner, ErrNegativeSize, p.Size))
			continue
		}
		r := p.Rect()
		if r.LLx < page.LLx-slack || r.LLy < page.LLy-slack || r.URx > page.URx+slack || r.URy > page.URy+slack {
			errs = append(errs, fmt.Errorf("marker %d (%s): %w", p.ID, p.Corner, ErrOffPage))
		}
	}
	for i, a := range placements {
		for _, b := range placements[i+1:] {
			if a.Size <= 0 || b.Size <= 0 {
				continue
			}
			if overlaps(a.Rect(), b.Rect()) {
				errs = append(errs, fmt.Errorf("marker %d (%s) and marker %d (%s): %w",
					a.ID, a.Corner, b.ID, b.Corner, ErrOverlap))
			}
		}
	}
	return errors.Join(errs...)
}

// overlaps reports whether a and b share interior points.
func overlaps(a, b rect.Rect) bool {
	return a.LLx < b.URx-slack && b.LLx < a.URx-slack &&
		a.LLy < b.URy-slack && b.LLy < a.URy-slack
}

// slack absorbs rounding errors in the corner computation, so that
// markers touching each other or the page edge pass the checks.
const slack = 1e-9
