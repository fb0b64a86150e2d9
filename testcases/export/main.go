// Command export writes the marker test cases to JSON, for cross-checking
// against OpenCV with tools/check_opencv.py.
// Run from the module root directory.
package main

import (
	"encoding/json"
	"maps"
	"os"
	"slices"

	"seehuhn.de/go/aruco"
	"seehuhn.de/go/aruco/testcases"
)

func main() {
	var out struct {
		Dictionary string         `json:"dictionary"`
		TestCases  []jsonTestCase `json:"testcases"`
	}
	out.Dictionary = aruco.Dict4x4_50.Name

	for _, category := range slices.Sorted(maps.Keys(testcases.All)) {
		for _, tc := range testcases.All[category] {
			jtc, err := toJSON(category, tc)
			if err != nil {
				panic(err)
			}
			out.TestCases = append(out.TestCases, jtc)
		}
	}

	if err := os.MkdirAll("testdata", 0755); err != nil {
		panic(err)
	}
	f, err := os.Create("testdata/testcases.json")
	if err != nil {
		panic(err)
	}
	defer f.Close()

	enc := json.NewEncoder(f)
	enc.SetIndent("", "  ")
	if err := enc.Encode(out); err != nil {
		panic(err)
	}
}

type jsonTestCase struct {
	Name   string   `json:"name"`
	ID     int      `json:"id"`
	Side   int      `json:"side"`
	Border int      `json:"border"`
	Code   uint64   `json:"code"`
	Cells  []string `json:"cells"` // one string per row, '#' for black
}

func toJSON(category string, tc testcases.TestCase) (jsonTestCase, error) {
	code, err := aruco.Dict4x4_50.Code(tc.ID)
	if err != nil {
		return jsonTestCase{}, err
	}
	g, err := aruco.Dict4x4_50.Grid(tc.ID, tc.Border)
	if err != nil {
		return jsonTestCase{}, err
	}

	jtc := jsonTestCase{
		Name:   category + "_" + tc.Name,
		ID:     tc.ID,
		Side:   tc.Side,
		Border: tc.Border,
		Code:   code,
	}
	for row := range g.N {
		line := make([]byte, g.N)
		for col := range g.N {
			if g.Black(row, col) {
				line[col] = '#'
			} else {
				line[col] = '.'
			}
		}
		jtc.Cells = append(jtc.Cells, string(line))
	}
	return jtc, nil
}
