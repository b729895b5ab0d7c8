// Package soup models unstructured triangle soup, the raw form a mesh
// takes when read from a file format such as STL: three corner positions
// per triangle, optionally a facet normal, and no shared-vertex structure.
// Welding (this package) recovers the shared vertices; building the
// half-edge connectivity on top of them is pkg/hemesh's job.
package soup

import (
	"math"

	v3 "github.com/deadsy/sdfx/vec/v3"
)

// DefaultTolerance is the default vertex welding distance in model units.
// It comfortably absorbs float32 round-off in STL coordinates at unit
// scale without merging genuinely distinct features.
const DefaultTolerance = 1e-6

// Triangle is one input facet. Normal may be the zero vector when the
// source format carries no facet normals.
type Triangle struct {
	A, B, C v3.Vec
	Normal  v3.Vec
}

// Soup is an unordered list of triangles.
type Soup []Triangle

// TriangleCount returns the number of triangles.
func (s Soup) TriangleCount() int {
	return len(s)
}

// IsEmpty returns true if the soup has no triangles.
func (s Soup) IsEmpty() bool {
	return len(s) == 0
}

// BoundingBox is an axis-aligned box.
type BoundingBox struct {
	Min, Max v3.Vec
}

// Bounds returns the axis-aligned bounding box of all corner positions.
// The zero box is returned for an empty soup.
func (s Soup) Bounds() BoundingBox {
	if len(s) == 0 {
		return BoundingBox{}
	}
	bb := BoundingBox{
		Min: v3.Vec{X: math.Inf(1), Y: math.Inf(1), Z: math.Inf(1)},
		Max: v3.Vec{X: math.Inf(-1), Y: math.Inf(-1), Z: math.Inf(-1)},
	}
	for _, t := range s {
		for _, p := range [3]v3.Vec{t.A, t.B, t.C} {
			bb.Min = bb.Min.Min(p)
			bb.Max = bb.Max.Max(p)
		}
	}
	return bb
}

// Size returns the extent of the box along each axis.
func (bb BoundingBox) Size() v3.Vec {
	return bb.Max.Sub(bb.Min)
}
