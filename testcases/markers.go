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

// Package testcases lists the marker images used to test the renderer.
//
// The same list drives the reference image generator in ./genref and the
// JSON export in ./export, so that all three agree on file names.
package testcases

// TestCase defines a single marker image.
type TestCase struct {
	Name   string // lowercase a-z, 0-9 and _ only
	ID     int    // marker id in the 4x4_50 dictionary
	Side   int    // image width and height in pixels
	Border int    // border width in cells
}

// All contains all test cases, grouped by category.
// The category name is used as a prefix in reference image filenames.
var All = map[string][]TestCase{
	"sheet": sheetCases,
	"size":  sizeCases,
	"ids":   idCases,
}

// sheetCases are the four markers printed on the sheet, at print size.
var sheetCases = []TestCase{
	{Name: "id0", ID: 0, Side: 300, Border: 1},
	{Name: "id1", ID: 1, Side: 300, Border: 1},
	{Name: "id2", ID: 2, Side: 300, Border: 1},
	{Name: "id3", ID: 3, Side: 300, Border: 1},
}

// sizeCases use sizes which are not multiples of the grid, so that cell
// boundaries fall at uneven pixel positions.
var sizeCases = []TestCase{
	{Name: "tiny", ID: 0, Side: 6, Border: 1},
	{Name: "odd13", ID: 1, Side: 13, Border: 1},
	{Name: "odd97", ID: 2, Side: 97, Border: 1},
	{Name: "odd301", ID: 3, Side: 301, Border: 1},
	{Name: "border2", ID: 0, Side: 200, Border: 2},
	{Name: "border3_odd", ID: 1, Side: 131, Border: 3},
	{Name: "large", ID: 2, Side: 600, Border: 1},
}

// idCases cover the remaining dictionary entries at a small size.
var idCases = []TestCase{
	{Name: "id4", ID: 4, Side: 60, Border: 1},
	{Name: "id5", ID: 5, Side: 60, Border: 1},
	{Name: "id6", ID: 6, Side: 60, Border: 1},
	{Name: "id7", ID: 7, Side: 60, Border: 1},
	{Name: "id8", ID: 8, Side: 60, Border: 1},
	{Name: "id9", ID: 9, Side: 60, Border: 1},
	{Name: "id10", ID: 10, Side: 60, Border: 1},
	{Name: "id11", ID: 11, Side: 60, Border: 1},
	{Name: "id12", ID: 12, Side: 60, Border: 1},
	{Name: "id13", ID: 13, Side: 60, Border: 1},
	{Name: "id14", ID: 14, Side: 60, Border: 1},
	{Name: "id15", ID: 15, Side: 60, Border: 1},
	{Name: "id16", ID: 16, Side: 60, Border: 1},
	{Name: "id17", ID: 17, Side: 60, Border: 1},
	{Name: "id18", ID: 18, Side: 60, Border: 1},
}
