package aruco

import (
	"errors"
	"fmt"
	"image"
	"image/color"
	"image/png"
	"maps"
	"os"
	"path/filepath"
	"slices"
	"testing"

	"golang.org/x/image/draw"
	"golang.org/x/image/vector"

	"seehuhn.de/go/aruco/testcases"
	"seehuhn.de/go/geom/matrix"
	"seehuhn.de/go/geom/path"
	"seehuhn.de/go/geom/rect"
	"seehuhn.de/go/geom/vec"
)

// approaches forces the rasteriser to use either 2D buffers or the
// active edge list, independent of the path size.
var approaches = []struct {
	name      string
	threshold int
}{
	{"small", 1 << 30},
	{"large", 0},
}

func TestAgainstReference(t *testing.T) {
	for _, category := range slices.Sorted(maps.Keys(testcases.All)) {
		for _, tc := range testcases.All[category] {
			name := category + "_" + tc.Name
			t.Run(name, func(t *testing.T) {
				refPath := filepath.Join("testdata", "reference", name+".png")
				ref, err := loadGray(refPath)
				if os.IsNotExist(err) {
					t.Skip("no reference image, run go generate")
				} else if err != nil {
					t.Fatalf("loading reference: %v", err)
				}

				g, err := Dict4x4_50.Grid(tc.ID, tc.Border)
				if err != nil {
					t.Fatal(err)
				}
				for _, a := range approaches {
					r := newRasteriser(rect.Rect{})
					r.smallPathThreshold = a.threshold
					img, err := g.render(r, tc.Side)
					if err != nil {
						t.Fatal(err)
					}
					err = compareImages(name+"_"+a.name, ref, img.Pix, tc.Side, tc.Side)
					if err != nil {
						t.Errorf("%s: %v", a.name, err)
					}
				}
			})
		}
	}
}

// TestCellBoundaries checks that pixel (x, y) has the colour of cell
// (y·N/side, x·N/side), the nearest-neighbour rule used by OpenCV.
func TestCellBoundaries(t *testing.T) {
	for _, border := range []int{1, 2} {
		g, err := Dict4x4_50.Grid(3, border)
		if err != nil {
			t.Fatal(err)
		}
		for side := g.N; side <= 120; side++ {
			img, err := g.Image(side)
			if err != nil {
				t.Fatal(err)
			}
			if b := img.Bounds(); b.Dx() != side || b.Dy() != side {
				t.Fatalf("side %d: image bounds %v", side, b)
			}
			for y := range side {
				for x := range side {
					want := uint8(255)
					if g.Black(y*g.N/side, x*g.N/side) {
						want = 0
					}
					if got := img.GrayAt(x, y).Y; got != want {
						t.Fatalf("border %d side %d: pixel (%d,%d) = %d, want %d",
							border, side, x, y, got, want)
					}
				}
			}
		}
	}
}

func TestNearestNeighbour(t *testing.T) {
	for id := range 4 {
		g, err := Dict4x4_50.Grid(id, 1)
		if err != nil {
			t.Fatal(err)
		}
		cells := image.NewGray(image.Rect(0, 0, g.N, g.N))
		for row := range g.N {
			for col := range g.N {
				if !g.Black(row, col) {
					cells.SetGray(col, row, color.Gray{Y: 255})
				}
			}
		}

		for _, side := range []int{6, 60, 120, DefaultPixels} {
			want := image.NewGray(image.Rect(0, 0, side, side))
			draw.NearestNeighbor.Scale(want, want.Bounds(), cells, cells.Bounds(), draw.Src, nil)

			got, err := Dict4x4_50.GenerateImage(id, side, 1)
			if err != nil {
				t.Fatal(err)
			}
			if !slices.Equal(want.Pix, got.Pix) {
				t.Errorf("id %d side %d: image differs from nearest-neighbour scaling", id, side)
			}
		}
	}
}

// TestAgainstVector compares the rasteriser with golang.org/x/image/vector
// on the marker paths.
func TestAgainstVector(t *testing.T) {
	for id := range 4 {
		for _, side := range []int{13, 50, 97, 300} {
			g, err := Dict4x4_50.Grid(id, 1)
			if err != nil {
				t.Fatal(err)
			}
			img, err := g.Image(side)
			if err != nil {
				t.Fatal(err)
			}

			v := vector.NewRasterizer(side, side)
			addPathToVector(v, g.Path(side))
			mask := image.NewAlpha(image.Rect(0, 0, side, side))
			v.Draw(mask, mask.Bounds(), image.Opaque, image.Point{})

			for i, a := range mask.Pix {
				want := 255 - int(a)
				got := int(img.Pix[i])
				if d := got - want; d < -1 || d > 1 {
					t.Fatalf("id %d side %d: pixel %d = %d, vector gives %d", id, side, i, got, want)
				}
			}
		}
	}
}

func TestApproachesAgree(t *testing.T) {
	small := newRasteriser(rect.Rect{})
	small.smallPathThreshold = 1 << 30
	large := newRasteriser(rect.Rect{})
	large.smallPathThreshold = 0

	for id := range Dict4x4_50.Len() {
		g, err := Dict4x4_50.Grid(id, 1)
		if err != nil {
			t.Fatal(err)
		}
		for _, side := range []int{7, 61, 256} {
			a, err := g.render(small, side)
			if err != nil {
				t.Fatal(err)
			}
			b, err := g.render(large, side)
			if err != nil {
				t.Fatal(err)
			}
			if !slices.Equal(a.Pix, b.Pix) {
				t.Errorf("id %d side %d: approaches disagree", id, side)
			}
		}
	}
}

func TestRendererReuse(t *testing.T) {
	m := NewRenderer(Dict4x4_50)
	for _, side := range []int{300, 17, 300, 600, 6} {
		for id := range 4 {
			got, err := m.Render(id, side)
			if err != nil {
				t.Fatal(err)
			}
			want, err := Dict4x4_50.GenerateImage(id, side, 1)
			if err != nil {
				t.Fatal(err)
			}
			if !slices.Equal(got.Pix, want.Pix) {
				t.Errorf("id %d side %d: reused renderer gives different image", id, side)
			}
		}
	}
}

func TestRenderErrors(t *testing.T) {
	if _, err := Dict4x4_50.GenerateImage(0, 5, 1); !errors.Is(err, ErrTooSmall) {
		t.Errorf("expected ErrTooSmall, got %v", err)
	}
	if _, err := Dict4x4_50.GenerateImage(0, 300, 0); !errors.Is(err, ErrBorder) {
		t.Errorf("expected ErrBorder, got %v", err)
	}
	if _, err := NewRenderer(Dict4x4_50).Render(-1, 300); !errors.Is(err, ErrUnknownID) {
		t.Errorf("expected ErrUnknownID, got %v", err)
	}
}

func TestPathBounds(t *testing.T) {
	g, err := Dict4x4_50.Grid(0, 1)
	if err != nil {
		t.Fatal(err)
	}
	for _, side := range []int{6, 50, 97, 300} {
		p := g.Path(side)
		if len(p.Coords) == 0 {
			t.Fatalf("side %d: empty path", side)
		}
		for _, pt := range p.Coords {
			if pt.X < 0 || pt.X > float64(side) || pt.Y < 0 || pt.Y > float64(side) {
				t.Errorf("side %d: point %v outside the image", side, pt)
			}
			if pt.X != float64(int(pt.X)) || pt.Y != float64(int(pt.Y)) {
				t.Errorf("side %d: point %v not on the pixel grid", side, pt)
			}
		}
	}

	// at 300 pixels every cell is 50 pixels wide
	p := g.Path(300)
	for _, pt := range p.Coords {
		if int(pt.X)%50 != 0 || int(pt.Y)%50 != 0 {
			t.Errorf("point %v not on a cell boundary", pt)
		}
	}
}

func TestRasteriserCoverage(t *testing.T) {
	for _, a := range approaches {
		t.Run(a.name, func(t *testing.T) {
			r := newRasteriser(rect.Rect{URx: 4, URy: 2})
			r.smallPathThreshold = a.threshold

			// half pixels at both ends, in a transformed coordinate system
			r.CTM = matrix.Scale(0.5, 1)
			p := &path.Data{
				Cmds: []path.Command{path.CmdMoveTo, path.CmdLineTo, path.CmdLineTo, path.CmdLineTo},
				Coords: []vec.Vec2{
					{X: 1, Y: 0}, {X: 5, Y: 0}, {X: 5, Y: 1}, {X: 1, Y: 1},
				},
			}

			got := make([]float32, 8)
			err := r.fill(p, func(y, xMin int, coverage []float32) {
				copy(got[y*4+xMin:], coverage)
			})
			if err != nil {
				t.Fatal(err)
			}
			want := []float32{0.5, 1, 0.5, 0, 0, 0, 0, 0}
			for i := range want {
				if d := got[i] - want[i]; d < -1e-6 || d > 1e-6 {
					t.Errorf("pixel %d: coverage %g, want %g", i, got[i], want[i])
				}
			}
		})
	}
}

func TestRasteriserCurve(t *testing.T) {
	r := newRasteriser(rect.Rect{URx: 10, URy: 10})
	p := &path.Data{
		Cmds:   []path.Command{path.CmdMoveTo, path.CmdQuadTo, path.CmdClose},
		Coords: []vec.Vec2{{X: 0, Y: 0}, {X: 5, Y: 10}, {X: 10, Y: 0}},
	}
	err := r.fill(p, func(int, int, []float32) {})
	if !errors.Is(err, errCurve) {
		t.Errorf("expected errCurve, got %v", err)
	}
}

func loadGray(path string) ([]byte, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	img, err := png.Decode(f)
	if err != nil {
		return nil, err
	}

	bounds := img.Bounds()
	w, h := bounds.Dx(), bounds.Dy()
	gray := make([]byte, w*h)

	for y := range h {
		for x := range w {
			c := color.GrayModel.Convert(img.At(x+bounds.Min.X, y+bounds.Min.Y)).(color.Gray)
			gray[y*w+x] = c.Y
		}
	}
	return gray, nil
}

func compareImages(name string, expected, actual []byte, w, h int) error {
	const tolerance = 2
	const maxDiffPercent = 10

	if len(expected) != w*h {
		return fmt.Errorf("reference has %d pixels, want %d", len(expected), w*h)
	}

	total := w * h
	diffCount := 0
	hasDiff := false
	for i := range total {
		diff := int(expected[i]) - int(actual[i])
		if diff < 0 {
			diff = -diff
		}
		if diff > 0 {
			hasDiff = true
			if diff > tolerance {
				diffCount++
			}
		}
	}

	maxAllowed := total * maxDiffPercent / 100
	if hasDiff {
		writeDiffImage(name, expected, actual, w, h)
	}
	if diffCount > maxAllowed {
		return fmt.Errorf("%d pixels differ by >%d (max allowed: %d)",
			diffCount, tolerance, maxAllowed)
	}
	return nil
}

// writeDiffImage stores expected (red) and actual (green) pixels
// in debug/<name>.png.
func writeDiffImage(name string, expected, actual []byte, w, h int) {
	os.MkdirAll("debug", 0755)

	img := image.NewRGBA(image.Rect(0, 0, w, h))
	for y := range h {
		for x := range w {
			i := y*w + x
			img.Set(x, y, color.RGBA{R: expected[i], G: actual[i], A: 255})
		}
	}

	f, err := os.Create(filepath.Join("debug", name+".png"))
	if err != nil {
		return
	}
	defer f.Close()
	png.Encode(f, img)
}
