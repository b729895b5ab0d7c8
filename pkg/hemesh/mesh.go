// Package hemesh implements a half-edge (doubly connected edge list)
// representation of a polygonal surface mesh. A validated Mesh supports
// O(1) connectivity lookups, face-loop and vertex-star traversal, and
// geometric queries over an optional per-vertex position/normal payload.
//
// Meshes are built in one pass (see FromTriangles, FromIndexed, FromFaces)
// and are immutable afterwards: every read operation is a pure function of
// frozen state and is safe for concurrent use by any number of readers.
package hemesh

import (
	v3 "github.com/deadsy/sdfx/vec/v3"

	"github.com/chazu/hemesh/pkg/arena"
)

// VertexID identifies one vertex of one mesh.
type VertexID struct{ arena.Handle }

// HalfEdgeID identifies one half-edge of one mesh.
type HalfEdgeID struct{ arena.Handle }

// FaceID identifies one face of one mesh. The zero FaceID is the Boundary
// sentinel: the "face" on the open side of an unmatched edge.
type FaceID struct{ arena.Handle }

// Boundary is the sentinel incident face of half-edges that border a hole
// in an open mesh. It is not a stored face: FaceLoop and the geometric
// queries reject it, and IsBoundary reports it.
var Boundary = FaceID{}

type vertexRec struct {
	outgoing HalfEdgeID // anchor; origin is this vertex
}

type halfEdgeRec struct {
	origin VertexID
	twin   HalfEdgeID
	next   HalfEdgeID
	prev   HalfEdgeID
	face   FaceID // Boundary for hole-loop half-edges
}

type faceRec struct {
	anchor HalfEdgeID
	sides  int // length of the boundary loop
}

// Mesh is a frozen half-edge mesh. The zero value is not useful; use one
// of the constructors.
type Mesh struct {
	verts *arena.Arena[vertexRec]
	edges *arena.Arena[halfEdgeRec]
	faces *arena.Arena[faceRec]

	// Geometric payload, dense by vertex insertion index. Either slice
	// may be nil when the mesh was built without that payload.
	positions []v3.Vec
	normals   []v3.Vec
}

func newMesh() *Mesh {
	return &Mesh{
		verts: arena.New[vertexRec](),
		edges: arena.New[halfEdgeRec](),
		faces: arena.New[faceRec](),
	}
}

// NumVertices returns the vertex count.
func (m *Mesh) NumVertices() int { return m.verts.Len() }

// NumHalfEdges returns the half-edge count, boundary half-edges included.
// Every undirected edge contributes exactly two.
func (m *Mesh) NumHalfEdges() int { return m.edges.Len() }

// NumEdges returns the undirected edge count.
func (m *Mesh) NumEdges() int { return m.edges.Len() / 2 }

// NumFaces returns the face count. The Boundary sentinel is not a face.
func (m *Mesh) NumFaces() int { return m.faces.Len() }

// Vertices returns all vertex IDs in insertion order. For meshes built
// from indexed input, insertion order is input order.
func (m *Mesh) Vertices() []VertexID {
	hs := m.verts.Handles()
	ids := make([]VertexID, len(hs))
	for i, h := range hs {
		ids[i] = VertexID{h}
	}
	return ids
}

// HalfEdges returns all half-edge IDs in insertion order. Interior
// half-edges precede the boundary half-edges synthesized for open meshes.
func (m *Mesh) HalfEdges() []HalfEdgeID {
	hs := m.edges.Handles()
	ids := make([]HalfEdgeID, len(hs))
	for i, h := range hs {
		ids[i] = HalfEdgeID{h}
	}
	return ids
}

// Faces returns all face IDs in insertion order (input face order).
func (m *Mesh) Faces() []FaceID {
	hs := m.faces.Handles()
	ids := make([]FaceID, len(hs))
	for i, h := range hs {
		ids[i] = FaceID{h}
	}
	return ids
}

// IsBoundary reports whether f is the Boundary sentinel.
func (m *Mesh) IsBoundary(f FaceID) bool { return f.IsNil() }

// Twin returns the oppositely oriented half-edge sharing h's undirected
// edge. Every half-edge of a validated mesh has a twin; on open meshes
// the twin of an unmatched interior half-edge is a boundary half-edge.
func (m *Mesh) Twin(h HalfEdgeID) (HalfEdgeID, error) {
	rec, err := m.edges.Get(h.Handle)
	if err != nil {
		return HalfEdgeID{}, err
	}
	return rec.twin, nil
}

// Next returns the half-edge following h around its incident face (or
// hole loop).
func (m *Mesh) Next(h HalfEdgeID) (HalfEdgeID, error) {
	rec, err := m.edges.Get(h.Handle)
	if err != nil {
		return HalfEdgeID{}, err
	}
	return rec.next, nil
}

// Prev returns the half-edge preceding h around its incident face.
func (m *Mesh) Prev(h HalfEdgeID) (HalfEdgeID, error) {
	rec, err := m.edges.Get(h.Handle)
	if err != nil {
		return HalfEdgeID{}, err
	}
	return rec.prev, nil
}

// Origin returns the vertex h points away from.
func (m *Mesh) Origin(h HalfEdgeID) (VertexID, error) {
	rec, err := m.edges.Get(h.Handle)
	if err != nil {
		return VertexID{}, err
	}
	return rec.origin, nil
}

// Head returns the vertex h points to, i.e. the origin of its twin.
func (m *Mesh) Head(h HalfEdgeID) (VertexID, error) {
	rec, err := m.edges.Get(h.Handle)
	if err != nil {
		return VertexID{}, err
	}
	twin, err := m.edges.Get(rec.twin.Handle)
	if err != nil {
		return VertexID{}, err
	}
	return twin.origin, nil
}

// Endpoints returns h's origin and head vertices.
func (m *Mesh) Endpoints(h HalfEdgeID) (from, to VertexID, err error) {
	from, err = m.Origin(h)
	if err != nil {
		return VertexID{}, VertexID{}, err
	}
	to, err = m.Head(h)
	if err != nil {
		return VertexID{}, VertexID{}, err
	}
	return from, to, nil
}

// IncidentFace returns the face h borders, or Boundary for half-edges on
// a hole loop.
func (m *Mesh) IncidentFace(h HalfEdgeID) (FaceID, error) {
	rec, err := m.edges.Get(h.Handle)
	if err != nil {
		return FaceID{}, err
	}
	return rec.face, nil
}

// IsBoundaryEdge reports whether h or its twin lies on a hole loop, i.e.
// the undirected edge has only one real incident face.
func (m *Mesh) IsBoundaryEdge(h HalfEdgeID) (bool, error) {
	rec, err := m.edges.Get(h.Handle)
	if err != nil {
		return false, err
	}
	if rec.face.IsNil() {
		return true, nil
	}
	twin, err := m.edges.Get(rec.twin.Handle)
	if err != nil {
		return false, err
	}
	return twin.face.IsNil(), nil
}

// Outgoing returns the vertex's anchor half-edge, whose origin is v. It
// is the nil HalfEdgeID only for isolated vertices admitted by
// AllowIsolated.
func (m *Mesh) Outgoing(v VertexID) (HalfEdgeID, error) {
	rec, err := m.verts.Get(v.Handle)
	if err != nil {
		return HalfEdgeID{}, err
	}
	return rec.outgoing, nil
}

// Anchor returns the face's anchor half-edge.
func (m *Mesh) Anchor(f FaceID) (HalfEdgeID, error) {
	rec, err := m.faces.Get(f.Handle)
	if err != nil {
		return HalfEdgeID{}, err
	}
	return rec.anchor, nil
}

// Sides returns the number of half-edges bounding f.
func (m *Mesh) Sides(f FaceID) (int, error) {
	rec, err := m.faces.Get(f.Handle)
	if err != nil {
		return 0, err
	}
	return rec.sides, nil
}

// EulerCharacteristic returns V - E + F over the stored entities. It is
// 2 for a closed mesh of genus zero, e.g. a tetrahedron or welded sphere.
func (m *Mesh) EulerCharacteristic() int {
	return m.NumVertices() - m.NumEdges() + m.NumFaces()
}
