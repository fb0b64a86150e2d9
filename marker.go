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

package aruco

import (
	"errors"
	"fmt"

	"seehuhn.de/go/geom/path"
	"seehuhn.de/go/geom/vec"
)

// ErrBorder is returned when a marker is requested without a border.
var ErrBorder = errors.New("border must be at least one cell wide")

// Grid is the cell pattern of a single marker, including its black border.
type Grid struct {
	// N is the number of cells per side.
	N int

	// black holds N*N cells, row by row.
	black []bool
}

// Grid returns the cell pattern of marker id, surrounded by a black
// border of the given width in cells.
func (d *Dictionary) Grid(id, borderBits int) (*Grid, error) {
	if borderBits < 1 {
		return nil, fmt.Errorf("%w (got %d)", ErrBorder, borderBits)
	}
	code, err := d.Code(id)
	if err != nil {
		return nil, err
	}

	n := d.MarkerSize + 2*borderBits
	g := &Grid{
		N:     n,
		black: make([]bool, n*n),
	}
	for row := range n {
		for col := range n {
			r, c := row-borderBits, col-borderBits
			inside := r >= 0 && r < d.MarkerSize && c >= 0 && c < d.MarkerSize
			g.black[row*n+col] = !inside || !d.bit(code, r, c)
		}
	}
	return g, nil
}

// Black reports whether the cell at (row, col) is black.
// Row 0 is the top row.
func (g *Grid) Black(row, col int) bool {
	return g.black[row*g.N+col]
}

// cellStart returns the first pixel column (or row) of cell k, when the
// grid is drawn with the given side length in pixels.  Pixel x belongs to
// cell floor(x*N/side), the same rule as a nearest-neighbour resize of
// the N×N cell image.
func (g *Grid) cellStart(k, side int) int {
	return (k*side + g.N - 1) / g.N
}

// Path returns the black cells of the grid as a path of rectangles, in
// pixel coordinates with the origin at the top-left corner and y growing
// downwards.  Horizontally adjacent black cells are merged into a single
// rectangle.
func (g *Grid) Path(side int) *path.Data {
	p := &path.Data{}
	rect := func(x0, y0, x1, y1 int) {
		p.Cmds = append(p.Cmds,
			path.CmdMoveTo, path.CmdLineTo, path.CmdLineTo, path.CmdLineTo, path.CmdClose)
		p.Coords = append(p.Coords,
			vec.Vec2{X: float64(x0), Y: float64(y0)},
			vec.Vec2{X: float64(x1), Y: float64(y0)},
			vec.Vec2{X: float64(x1), Y: float64(y1)},
			vec.Vec2{X: float64(x0), Y: float64(y1)})
	}

	for row := range g.N {
		y0, y1 := g.cellStart(row, side), g.cellStart(row+1, side)
		if y0 == y1 {
			continue
		}
		col := 0
		for col < g.N {
			if !g.Black(row, col) {
				col++
				continue
			}
			start := col
			for col < g.N && g.Black(row, col) {
				col++
			}
			x0, x1 := g.cellStart(start, side), g.cellStart(col, side)
			if x0 < x1 {
				rect(x0, y0, x1, y1)
			}
		}
	}
	return p
}
