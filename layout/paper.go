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

package layout

import (
	"errors"
	"fmt"
	"maps"
	"slices"
	"strings"

	"seehuhn.de/go/geom/rect"
)

// MM is the length of one millimetre in PDF points.
const MM = 72 / 25.4

// FromMM converts a length in millimetres to PDF points.
func FromMM(v float64) float64 {
	return v * MM
}

// ToMM converts a length in PDF points to millimetres.
func ToMM(v float64) float64 {
	return v / MM
}

// Paper sizes in PDF points.
var (
	A4     = rect.Rect{URx: 595.276, URy: 841.890}
	A5     = rect.Rect{URx: 420.945, URy: 595.276}
	Letter = rect.Rect{URx: 612, URy: 792}
)

var papers = map[string]rect.Rect{
	"A4":     A4,
	"A5":     A5,
	"Letter": Letter,
}

// ErrUnknownPaper is returned by [Paper] for unsupported paper names.
var ErrUnknownPaper = errors.New("unknown paper size")

// Paper returns the page rectangle for a paper name.
// Names are matched case-insensitively.
func Paper(name string) (rect.Rect, error) {
	for key, r := range papers {
		if strings.EqualFold(key, strings.TrimSpace(name)) {
			return r, nil
		}
	}
	return rect.Rect{}, fmt.Errorf("%w %q (have %s)", ErrUnknownPaper, name,
		strings.Join(PaperNames(), ", "))
}

// PaperNames returns the supported paper names in sorted order.
func PaperNames() []string {
	return slices.Sorted(maps.Keys(papers))
}
