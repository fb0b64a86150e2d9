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

//go:build gocv

// Command gendict prints the rotation 0 codes of OpenCV's 4x4_50
// dictionary as a Go slice literal, for the table in dict.go.
// It needs OpenCV and is built with "-tags gocv".
package main

import (
	"fmt"
	"log"

	"gocv.io/x/gocv"
)

func main() {
	log.SetFlags(0)
	log.SetPrefix("gendict: ")

	const (
		markerSize = 4
		numMarkers = 50
		border     = 1
		side       = markerSize + 2*border
	)

	for id := range numMarkers {
		img := gocv.NewMat()
		err := gocv.ArucoGenerateImageMarker(gocv.ArucoDict4x4_50, id, side, &img, border)
		if err != nil {
			log.Fatalf("marker %d: %v", id, err)
		}

		// one pixel per cell, 1 = white
		var code uint64
		for row := range markerSize {
			for col := range markerSize {
				code <<= 1
				if img.GetUCharAt(row+border, col+border) != 0 {
					code |= 1
				}
			}
		}
		img.Close()

		sep := " "
		if id%5 == 0 {
			sep = "\n\t"
		}
		fmt.Printf("%s%#06x,", sep, code)
	}
	fmt.Println()
}
