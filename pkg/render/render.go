// Package render flattens a half-edge mesh into the buffer layout
// rendering pipelines consume: 3 float32 per vertex position and normal,
// 3 uint32 indices per triangle. It is a pure consumer of the mesh's
// read API and owns no connectivity.
package render

import (
	"github.com/chazu/hemesh/pkg/hemesh"
)

// Buffers is a triangle mesh in flat arrays: vertices has 3 floats per
// corner (x,y,z), normals has 3 floats per corner, indices has 3 uint32s
// per triangle.
type Buffers struct {
	Vertices []float32
	Normals  []float32
	Indices  []uint32
}

// VertexCount returns the number of emitted corners.
func (b *Buffers) VertexCount() int {
	return len(b.Vertices) / 3
}

// TriangleCount returns the number of triangles.
func (b *Buffers) TriangleCount() int {
	return len(b.Indices) / 3
}

// IsEmpty returns true if the buffers hold no geometry.
func (b *Buffers) IsEmpty() bool {
	return len(b.Vertices) == 0
}

// Flatten emits one corner per face-vertex incidence with smooth
// per-vertex normals (the average of the real faces around the vertex).
// Faces with more than three sides are fan-triangulated. The mesh must
// carry positions.
func Flatten(m *hemesh.Mesh) (*Buffers, error) {
	if !m.HasPositions() {
		return nil, hemesh.ErrMissingGeometry
	}
	b := &Buffers{
		Vertices: make([]float32, 0, m.NumFaces()*9),
		Normals:  make([]float32, 0, m.NumFaces()*9),
		Indices:  make([]uint32, 0, m.NumFaces()*3),
	}
	for _, f := range m.Faces() {
		corners, err := m.Corners(f)
		if err != nil {
			return nil, err
		}
		base := uint32(b.VertexCount())
		for _, v := range corners {
			p, err := m.Position(v)
			if err != nil {
				return nil, err
			}
			n, err := m.VertexNormal(v)
			if err != nil {
				return nil, err
			}
			b.Vertices = append(b.Vertices, float32(p.X), float32(p.Y), float32(p.Z))
			b.Normals = append(b.Normals, float32(n.X), float32(n.Y), float32(n.Z))
		}
		for i := 1; i+1 < len(corners); i++ {
			b.Indices = append(b.Indices, base, base+uint32(i), base+uint32(i)+1)
		}
	}
	return b, nil
}
