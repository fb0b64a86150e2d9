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
	"math/bits"
)

// Dictionary is a named family of square binary marker patterns.
type Dictionary struct {
	// Name is the conventional name of the family, e.g. "4X4_50".
	Name string

	// MarkerSize is the number of inner cells per side, excluding the
	// black border.
	MarkerSize int

	// MaxCorrectionBits is the number of bit errors a detector may
	// correct for this family.
	MaxCorrectionBits int

	// codes holds one pattern per marker id, in rotation 0.
	// Cells are stored row by row, most significant bit first,
	// with 1 meaning white.
	codes []uint64
}

// Dict4x4_50 is the ArUco 4x4_50 family, as predefined by OpenCV.
//
// Only the leading codes of the family are included.  The complete table
// can be printed with "go run -tags gocv ./tools/gendict".
var Dict4x4_50 = &Dictionary{
	Name:              "4X4_50",
	MarkerSize:        4,
	MaxCorrectionBits: 1,
	codes: []uint64{
		0xb532, 0x0f9a, 0x332d, 0x9946, 0x54f5,
		0x9e2e, 0x2ace, 0x5663, 0x6465, 0x590e,
		0x858a, 0x2580, 0xcbf4, 0xa961, 0xd308,
		0xf077, 0xe85d, 0xabe5, 0xced1,
	},
}

// ErrUnknownID is returned for marker ids outside a dictionary.
var ErrUnknownID = errors.New("unknown marker id")

// Len returns the number of markers available in d.
func (d *Dictionary) Len() int {
	return len(d.codes)
}

// Code returns the rotation 0 pattern of marker id.
func (d *Dictionary) Code(id int) (uint64, error) {
	if id < 0 || id >= len(d.codes) {
		return 0, fmt.Errorf("dictionary %s: %w %d", d.Name, ErrUnknownID, id)
	}
	return d.codes[id], nil
}

// Rotations returns the pattern of marker id in all four orientations.
// Element k is the pattern rotated by k·90° counter-clockwise.
func (d *Dictionary) Rotations(id int) ([4]uint64, error) {
	var res [4]uint64
	code, err := d.Code(id)
	if err != nil {
		return res, err
	}
	res[0] = code
	for k := 1; k < 4; k++ {
		res[k] = d.rotate(res[k-1])
	}
	return res, nil
}

// Distance returns the smallest Hamming distance between marker a and
// any rotation of marker b.  For a == b the identity rotation is skipped,
// so that the result measures the rotational self-similarity of a.
func (d *Dictionary) Distance(a, b int) (int, error) {
	ca, err := d.Code(a)
	if err != nil {
		return 0, err
	}
	rb, err := d.Rotations(b)
	if err != nil {
		return 0, err
	}
	first := 0
	if a == b {
		first = 1
	}
	dist := d.MarkerSize * d.MarkerSize
	for _, r := range rb[first:] {
		dist = min(dist, bits.OnesCount64(ca^r))
	}
	return dist, nil
}

// bit reports whether the inner cell at (row, col) of code is white.
func (d *Dictionary) bit(code uint64, row, col int) bool {
	n := d.MarkerSize
	shift := n*n - 1 - (row*n + col)
	return code>>shift&1 != 0
}

// rotate turns a pattern by 90° counter-clockwise.
func (d *Dictionary) rotate(code uint64) uint64 {
	n := d.MarkerSize
	var out uint64
	for row := range n {
		for col := range n {
			out <<= 1
			if d.bit(code, col, n-1-row) {
				out |= 1
			}
		}
	}
	return out
}
