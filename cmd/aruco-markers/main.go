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

// Command aruco-markers writes a printable PDF page with an ArUco marker
// in each corner.
//
// Markers come from the 4x4_50 dictionary: id 0 is placed at the top-left
// corner, 1 at the top-right, 2 at the bottom-right and 3 at the
// bottom-left corner.
package main

import (
	"errors"
	"fmt"
	"io"
	"log"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/pflag"
	"golang.org/x/term"
	"pkt.systems/version"

	"seehuhn.de/go/aruco/layout"
	"seehuhn.de/go/aruco/sheet"
)

const defaultOutput = "aruco-markers-a4.pdf"

func init() {
	version.SetDefaultModule("seehuhn.de/go/aruco")
}

type config struct {
	Margin  float64 // mm
	Size    float64 // mm
	Output  string
	Paper   string
	Strict  bool
	Version bool
}

// errUsage marks errors caused by invalid command line arguments.
var errUsage = errors.New("usage error")

func newFlagSet(cfg *config, handling pflag.ErrorHandling) *pflag.FlagSet {
	flags := pflag.NewFlagSet("aruco-markers", handling)
	flags.Float64Var(&cfg.Margin, "margin", 5, "Margin from the page edges in mm")
	flags.Float64Var(&cfg.Size, "size", 15, "Marker side length in mm")
	flags.StringVarP(&cfg.Output, "output", "o", defaultOutput, "Output PDF file (- for stdout)")
	flags.StringVar(&cfg.Paper, "paper", "A4", "Paper size: "+strings.Join(layout.PaperNames(), ", "))
	flags.BoolVar(&cfg.Strict, "strict", false, "Fail if markers overlap or leave the page")
	flags.BoolVar(&cfg.Version, "version", false, "Print the version and exit")

	flags.Usage = func() {
		out := flags.Output()
		fmt.Fprintln(out, version.Module(), version.Current())
		fmt.Fprintf(out, "Usage: aruco-markers [flags]\n")
		fmt.Fprintln(out, "\nWrites a PDF page with ArUco markers 0-3 in the four corners.")
		fmt.Fprintln(out, "\nFlags:")
		flags.PrintDefaults()
	}
	return flags
}

func main() {
	log.SetFlags(0)
	log.SetPrefix("aruco-markers: ")

	cfg := &config{}
	flags := newFlagSet(cfg, pflag.ExitOnError)
	if err := flags.Parse(os.Args[1:]); err != nil {
		os.Exit(2)
	}
	if flags.NArg() > 0 {
		log.Printf("unexpected arguments: %s", strings.Join(flags.Args(), " "))
		flags.Usage()
		os.Exit(2)
	}

	if cfg.Version {
		fmt.Println(version.Module(), version.Current())
		return
	}

	err := run(cfg, os.Stdout, os.Stderr)
	if errors.Is(err, errUsage) {
		log.Print(err)
		os.Exit(2)
	} else if err != nil {
		log.Fatal(err)
	}
}

// run generates the marker sheet described by cfg.  The PDF is written to
// stdout if cfg.Output is "-".  The confirmation message goes to stdout,
// or to stderr if stdout carries the PDF.
func run(cfg *config, stdout, stderr io.Writer) error {
	paper, err := layout.Paper(cfg.Paper)
	if err != nil {
		return err
	}
	paperName := canonicalPaper(cfg.Paper)

	opt := sheet.DefaultOptions()
	opt.Paper = paper
	opt.Margin = layout.FromMM(cfg.Margin)
	opt.Size = layout.FromMM(cfg.Size)

	if err := layout.Check(opt.Paper, opt.Placements()); err != nil {
		if cfg.Strict {
			return fmt.Errorf("invalid layout: %w", err)
		}
		for _, line := range strings.Split(err.Error(), "\n") {
			log.Printf("warning: %s", line)
		}
	}

	msgOut := stdout
	if cfg.Output == "-" {
		if isTerminal(stdout) {
			return fmt.Errorf("%w: refusing to write PDF data to a terminal", errUsage)
		}
		if err := sheet.Write(stdout, opt); err != nil {
			return err
		}
		msgOut = stderr
	} else {
		fname, err := resolveOutput(cfg.Output)
		if err != nil {
			return err
		}
		if err := sheet.Create(fname, opt); err != nil {
			return err
		}
	}

	fmt.Fprintf(msgOut, "Generated %s: %gmm markers, %gmm margin, %s\n",
		cfg.Output, cfg.Size, cfg.Margin, paperName)
	return nil
}

// resolveOutput checks the output file name and creates missing parent
// directories.
func resolveOutput(path string) (string, error) {
	if strings.TrimSpace(path) == "" {
		return "", fmt.Errorf("%w: empty output file name", errUsage)
	}
	dir := filepath.Dir(path)
	if dir != "" && dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return "", err
		}
	}
	return path, nil
}

func canonicalPaper(name string) string {
	for _, p := range layout.PaperNames() {
		if strings.EqualFold(p, strings.TrimSpace(name)) {
			return p
		}
	}
	return name
}

func isTerminal(w io.Writer) bool {
	f, ok := w.(*os.File)
	if !ok {
		return false
	}
	return term.IsTerminal(int(f.Fd()))
}
