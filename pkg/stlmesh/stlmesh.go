// Package stlmesh reads STL files into triangle soup. It is a pure
// producer of the mesh builder's input; half-edge construction stays in
// pkg/hemesh.
package stlmesh

import (
	"fmt"
	"io"

	v3 "github.com/deadsy/sdfx/vec/v3"
	"github.com/hschendel/stl"

	"github.com/chazu/hemesh/pkg/soup"
)

// Load reads a binary or ASCII STL file into a triangle soup.
func Load(path string) (soup.Soup, error) {
	solid, err := stl.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("stlmesh: read %s: %w", path, err)
	}
	return FromSolid(solid), nil
}

// Read reads STL data from r into a triangle soup.
func Read(r io.ReadSeeker) (soup.Soup, error) {
	solid, err := stl.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("stlmesh: read: %w", err)
	}
	return FromSolid(solid), nil
}

// FromSolid converts a parsed STL solid into a triangle soup. Facet
// normals are carried over as given; STL stores float32, so positions
// are widened to float64 here and nowhere downstream mixes precision.
func FromSolid(solid *stl.Solid) soup.Soup {
	s := make(soup.Soup, len(solid.Triangles))
	for i, t := range solid.Triangles {
		s[i] = soup.Triangle{
			A:      vec(t.Vertices[0]),
			B:      vec(t.Vertices[1]),
			C:      vec(t.Vertices[2]),
			Normal: vec(t.Normal),
		}
	}
	return s
}

func vec(v stl.Vec3) v3.Vec {
	return v3.Vec{X: float64(v[0]), Y: float64(v[1]), Z: float64(v[2])}
}
