// Command meshinfo builds a half-edge mesh from an STL file and reports
// its topology and geometry: entity counts, Euler characteristic,
// boundary loops, surface area, and bounding box.
package main

import (
	"flag"
	"fmt"
	"log"
	"log/slog"
	"os"

	"github.com/chazu/hemesh/pkg/hemesh"
	"github.com/chazu/hemesh/pkg/soup"
	"github.com/chazu/hemesh/pkg/stlmesh"
)

func main() {
	tol := flag.Float64("tol", soup.DefaultTolerance, "vertex welding tolerance")
	closed := flag.Bool("closed", false, "require a watertight mesh")
	verbose := flag.Bool("v", false, "log build phases")
	flag.Parse()

	if flag.NArg() != 1 {
		fmt.Fprintf(os.Stderr, "usage: meshinfo [flags] model.stl\n")
		flag.PrintDefaults()
		os.Exit(2)
	}
	if *verbose {
		hemesh.SetLogger(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
			Level: slog.LevelDebug,
		})))
	}

	path := flag.Arg(0)
	s, err := stlmesh.Load(path)
	if err != nil {
		log.Fatal(err)
	}

	m, err := hemesh.FromTriangles(s, hemesh.Options{
		Tolerance:     *tol,
		RequireClosed: *closed,
	})
	if err != nil {
		log.Fatal(err)
	}

	loops, err := m.BoundaryLoops()
	if err != nil {
		log.Fatal(err)
	}
	area, err := m.SurfaceArea()
	if err != nil {
		log.Fatal(err)
	}
	bb := s.Bounds()

	fmt.Printf("%s\n", path)
	fmt.Printf("  triangles in:   %d\n", s.TriangleCount())
	fmt.Printf("  vertices:       %d\n", m.NumVertices())
	fmt.Printf("  edges:          %d\n", m.NumEdges())
	fmt.Printf("  faces:          %d\n", m.NumFaces())
	fmt.Printf("  euler char:     %d\n", m.EulerCharacteristic())
	fmt.Printf("  boundary loops: %d\n", len(loops))
	fmt.Printf("  surface area:   %g\n", area)
	fmt.Printf("  bounds min:     (%g, %g, %g)\n", bb.Min.X, bb.Min.Y, bb.Min.Z)
	fmt.Printf("  bounds max:     (%g, %g, %g)\n", bb.Max.X, bb.Max.Y, bb.Max.Z)
}
