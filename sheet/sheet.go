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

// Package sheet writes a single page PDF file with one ArUco marker in
// each corner.
//
// Marker 0 is placed at the top-left corner, and the ids increase
// clockwise.  Each marker is embedded as a grayscale bitmap and scaled to
// its printed size.
package sheet

import (
	"errors"
	"fmt"
	"image"
	"io"

	"seehuhn.de/go/aruco"
	"seehuhn.de/go/aruco/layout"
	"seehuhn.de/go/geom/matrix"
	"seehuhn.de/go/geom/rect"
	"seehuhn.de/go/pdf"
	"seehuhn.de/go/pdf/document"
	"seehuhn.de/go/pdf/graphics/color"
	pdfimage "seehuhn.de/go/pdf/graphics/image"
)

// Options describes the page to generate.
// All lengths are in PDF points.
type Options struct {
	// Paper is the page rectangle.
	Paper rect.Rect

	// Margin is the distance between each marker and the two nearest
	// page edges.
	Margin float64

	// Size is the printed side length of the markers.
	Size float64

	// Pixels is the side length of the embedded marker bitmaps.
	Pixels int

	// Dict is the marker dictionary.
	Dict *aruco.Dictionary

	// Border is the width of the black marker border, in cells.
	Border int
}

var errNoDict = errors.New("no marker dictionary")

// DefaultOptions returns the options for an A4 page with 15 mm markers,
// 5 mm away from the page edges.
func DefaultOptions() *Options {
	return &Options{
		Paper:  layout.A4,
		Margin: layout.FromMM(5),
		Size:   layout.FromMM(15),
		Pixels: aruco.DefaultPixels,
		Dict:   aruco.Dict4x4_50,
		Border: 1,
	}
}

// Placements returns the marker positions for opt.
func (opt *Options) Placements() []layout.Placement {
	return layout.Place(opt.Paper, opt.Margin, opt.Size)
}

// Create writes the marker sheet to the named file.
// An existing file is overwritten.
func Create(fileName string, opt *Options) error {
	markers, err := render(opt)
	if err != nil {
		return err
	}

	page, err := document.CreateSinglePage(fileName, pageSize(opt), pdf.V1_7, nil)
	if err != nil {
		return err
	}
	err = draw(page, opt, markers)
	if err != nil {
		page.Close()
		return fmt.Errorf("%s: %w", fileName, err)
	}
	err = page.Close()
	if err != nil {
		return fmt.Errorf("%s: %w", fileName, err)
	}
	return nil
}

// Write writes the marker sheet to w.
func Write(w io.Writer, opt *Options) error {
	return write(w, opt, nil)
}

func write(w io.Writer, opt *Options, wopt *pdf.WriterOptions) error {
	markers, err := render(opt)
	if err != nil {
		return err
	}

	page, err := document.WriteSinglePage(w, pageSize(opt), pdf.V1_7, wopt)
	if err != nil {
		return err
	}
	err = draw(page, opt, markers)
	if err != nil {
		page.Close()
		return err
	}
	return page.Close()
}

func pageSize(opt *Options) *pdf.Rectangle {
	return &pdf.Rectangle{
		LLx: opt.Paper.LLx,
		LLy: opt.Paper.LLy,
		URx: opt.Paper.URx,
		URy: opt.Paper.URy,
	}
}

// render returns the marker bitmaps, in id order.
func render(opt *Options) ([]*image.Gray, error) {
	if opt.Dict == nil {
		return nil, errNoDict
	}
	r := aruco.NewRenderer(opt.Dict)
	r.BorderBits = opt.Border

	var res []*image.Gray
	for _, p := range opt.Placements() {
		img, err := r.Render(p.ID, opt.Pixels)
		if err != nil {
			return nil, fmt.Errorf("marker %d: %w", p.ID, err)
		}
		res = append(res, img)
	}
	return res, nil
}

// draw places the markers on the page.  Errors from the content stream
// are recorded in the page builder and reported by page.Close.
func draw(page *document.Page, opt *Options, markers []*image.Gray) error {
	for i, p := range opt.Placements() {
		xobj := pdfimage.FromImage(markers[i], color.DeviceGraySpace, 8)

		// Embed in id order.  Images first seen by DrawXObject would be
		// written in map order when the page is closed.
		if _, err := page.RM.Embed(xobj); err != nil {
			return fmt.Errorf("marker %d: %w", p.ID, err)
		}

		// the image XObject occupies the unit square
		page.PushGraphicsState()
		page.Transform(matrix.Scale(p.Size, p.Size).Mul(matrix.Translate(p.Origin.X, p.Origin.Y)))
		page.DrawXObject(xobj)
		page.PopGraphicsState()
	}
	return nil
}
