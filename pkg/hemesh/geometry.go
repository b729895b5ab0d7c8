package hemesh

import (
	"math"

	v3 "github.com/deadsy/sdfx/vec/v3"
)

// All geometric quantities are float64 end to end; no mixed precision.
// Degenerate (near-zero-area) faces yield the zero vector from normal
// queries rather than NaN, so callers can detect degeneracy with
// IsDegenerate and never need to special-case NaN.

// HasPositions reports whether the mesh carries a position payload.
func (m *Mesh) HasPositions() bool { return m.positions != nil }

// HasNormals reports whether the mesh carries a per-vertex normal payload.
func (m *Mesh) HasNormals() bool { return m.normals != nil }

// Position returns the position of v, or ErrMissingGeometry for a mesh
// built without positions.
func (m *Mesh) Position(v VertexID) (v3.Vec, error) {
	if _, err := m.verts.Get(v.Handle); err != nil {
		return v3.Vec{}, err
	}
	if m.positions == nil {
		return v3.Vec{}, ErrMissingGeometry
	}
	return m.positions[v.Index()], nil
}

// Normal returns the stored per-vertex normal of v, or ErrMissingGeometry
// when the mesh was built without a normal payload. For a derived normal
// see VertexNormal.
func (m *Mesh) Normal(v VertexID) (v3.Vec, error) {
	if _, err := m.verts.Get(v.Handle); err != nil {
		return v3.Vec{}, err
	}
	if m.normals == nil {
		return v3.Vec{}, ErrMissingGeometry
	}
	return m.normals[v.Index()], nil
}

// newellArea returns the polygon area of the index loop, half the Newell
// vector length. Exactly collinear corners give exact zero.
func newellArea(positions []v3.Vec, face []int) float64 {
	return newellVector(positions, face).Length() / 2
}

// newellVector sums cross terms around the loop. Its direction is the
// CCW face normal and its length twice the polygon area. The result does
// not depend on which corner starts the loop.
func newellVector(positions []v3.Vec, face []int) v3.Vec {
	var n v3.Vec
	for i, vi := range face {
		p := positions[vi]
		q := positions[face[(i+1)%len(face)]]
		n.X += (p.Y - q.Y) * (p.Z + q.Z)
		n.Y += (p.Z - q.Z) * (p.X + q.X)
		n.Z += (p.X - q.X) * (p.Y + q.Y)
	}
	return n
}

func (m *Mesh) cornerIndices(f FaceID) ([]int, error) {
	corners, err := m.Corners(f)
	if err != nil {
		return nil, err
	}
	idx := make([]int, len(corners))
	for i, c := range corners {
		idx[i] = c.Index()
	}
	return idx, nil
}

// FaceNormal returns the unit normal of f under the counter-clockwise,
// right-handed convention: the triangle (0,0,0),(1,0,0),(0,1,0) has
// normal (0,0,1). Computed with Newell's method over the boundary loop,
// so the result is independent of the face's anchor half-edge. A
// degenerate face returns the zero vector.
func (m *Mesh) FaceNormal(f FaceID) (v3.Vec, error) {
	if m.positions == nil {
		if _, err := m.faces.Get(f.Handle); err != nil {
			return v3.Vec{}, err
		}
		return v3.Vec{}, ErrMissingGeometry
	}
	idx, err := m.cornerIndices(f)
	if err != nil {
		return v3.Vec{}, err
	}
	n := newellVector(m.positions, idx)
	l := n.Length()
	if l == 0 {
		return v3.Vec{}, nil
	}
	return n.DivScalar(l), nil
}

// IsDegenerate reports whether n is the zero-vector sentinel produced by
// normal queries on degenerate faces.
func IsDegenerate(n v3.Vec) bool {
	return n == v3.Vec{}
}

// FaceArea returns the area of f.
func (m *Mesh) FaceArea(f FaceID) (float64, error) {
	if m.positions == nil {
		if _, err := m.faces.Get(f.Handle); err != nil {
			return 0, err
		}
		return 0, ErrMissingGeometry
	}
	idx, err := m.cornerIndices(f)
	if err != nil {
		return 0, err
	}
	return newellArea(m.positions, idx), nil
}

// FaceCentroid returns the average of f's corner positions. For concave
// faces the centroid can lie outside the face.
func (m *Mesh) FaceCentroid(f FaceID) (v3.Vec, error) {
	if m.positions == nil {
		if _, err := m.faces.Get(f.Handle); err != nil {
			return v3.Vec{}, err
		}
		return v3.Vec{}, ErrMissingGeometry
	}
	idx, err := m.cornerIndices(f)
	if err != nil {
		return v3.Vec{}, err
	}
	var c v3.Vec
	for _, i := range idx {
		c = c.Add(m.positions[i])
	}
	return c.DivScalar(float64(len(idx))), nil
}

// EdgeVector returns head(h) - origin(h).
func (m *Mesh) EdgeVector(h HalfEdgeID) (v3.Vec, error) {
	from, to, err := m.Endpoints(h)
	if err != nil {
		return v3.Vec{}, err
	}
	pf, err := m.Position(from)
	if err != nil {
		return v3.Vec{}, err
	}
	pt, err := m.Position(to)
	if err != nil {
		return v3.Vec{}, err
	}
	return pt.Sub(pf), nil
}

// EdgeLength returns the length of h.
func (m *Mesh) EdgeLength(h HalfEdgeID) (float64, error) {
	v, err := m.EdgeVector(h)
	if err != nil {
		return 0, err
	}
	return v.Length(), nil
}

// EdgeMidpoint returns the midpoint of h.
func (m *Mesh) EdgeMidpoint(h HalfEdgeID) (v3.Vec, error) {
	return m.EdgePoint(h, 0.5)
}

// EdgePoint returns origin(h) + t * vector(h).
func (m *Mesh) EdgePoint(h HalfEdgeID, t float64) (v3.Vec, error) {
	from, err := m.Origin(h)
	if err != nil {
		return v3.Vec{}, err
	}
	p, err := m.Position(from)
	if err != nil {
		return v3.Vec{}, err
	}
	v, err := m.EdgeVector(h)
	if err != nil {
		return v3.Vec{}, err
	}
	return p.Add(v.MulScalar(t)), nil
}

// Distance returns the Euclidean distance between two vertices.
func (m *Mesh) Distance(a, b VertexID) (float64, error) {
	pa, err := m.Position(a)
	if err != nil {
		return 0, err
	}
	pb, err := m.Position(b)
	if err != nil {
		return 0, err
	}
	return pb.Sub(pa).Length(), nil
}

// Angle returns the angle in radians between the direction vectors of
// two half-edges. Zero-length edges yield 0.
func (m *Mesh) Angle(a, b HalfEdgeID) (float64, error) {
	va, err := m.EdgeVector(a)
	if err != nil {
		return 0, err
	}
	vb, err := m.EdgeVector(b)
	if err != nil {
		return 0, err
	}
	return angleBetween(va, vb), nil
}

func angleBetween(a, b v3.Vec) float64 {
	la, lb := a.Length(), b.Length()
	if la == 0 || lb == 0 {
		return 0
	}
	cos := a.Dot(b) / (la * lb)
	// Clamp against float drift before Acos.
	if cos > 1 {
		cos = 1
	} else if cos < -1 {
		cos = -1
	}
	return math.Acos(cos)
}

// AngularDefect returns 2π minus the sum of the corner angles at v. It
// is zero on a flat interior vertex and concentrates the surface's
// Gaussian curvature at v (angular defect theorem).
func (m *Mesh) AngularDefect(v VertexID) (float64, error) {
	star, err := m.VertexStar(v)
	if err != nil {
		return 0, err
	}
	sum := 0.0
	for _, out := range star {
		rec := m.edges.MustGet(out.Handle)
		twin := m.edges.MustGet(rec.twin.Handle)
		// The wedge between out and the following star edge lies in the
		// twin's incident face; a hole wedge spans no surface angle.
		if twin.face.IsNil() {
			continue
		}
		a, err := m.Angle(out, twin.next)
		if err != nil {
			return 0, err
		}
		sum += a
	}
	return 2*math.Pi - sum, nil
}

// VertexNormal returns the normalized average of the normals of the real
// faces around v. Unlike Normal it needs no stored normal payload, only
// positions. All-degenerate neighborhoods return the zero vector.
func (m *Mesh) VertexNormal(v VertexID) (v3.Vec, error) {
	faces, err := m.FacesAround(v)
	if err != nil {
		return v3.Vec{}, err
	}
	var sum v3.Vec
	for _, f := range faces {
		n, err := m.FaceNormal(f)
		if err != nil {
			return v3.Vec{}, err
		}
		sum = sum.Add(n)
	}
	l := sum.Length()
	if l == 0 {
		return v3.Vec{}, nil
	}
	return sum.DivScalar(l), nil
}

// EdgeNormal returns the blend of the two incident face normals at h,
// weighted by offset (0 gives the twin's face, 1 gives h's face). On a
// boundary edge the one real face's normal is returned.
func (m *Mesh) EdgeNormal(h HalfEdgeID, offset float64) (v3.Vec, error) {
	rec, err := m.edges.Get(h.Handle)
	if err != nil {
		return v3.Vec{}, err
	}
	twin := m.edges.MustGet(rec.twin.Handle)
	switch {
	case rec.face.IsNil() && twin.face.IsNil():
		return v3.Vec{}, corruptf("edge %s has no incident face on either side", h)
	case rec.face.IsNil():
		return m.FaceNormal(twin.face)
	case twin.face.IsNil():
		return m.FaceNormal(rec.face)
	}
	nh, err := m.FaceNormal(rec.face)
	if err != nil {
		return v3.Vec{}, err
	}
	nt, err := m.FaceNormal(twin.face)
	if err != nil {
		return v3.Vec{}, err
	}
	blend := nh.MulScalar(offset).Add(nt.MulScalar(1 - offset))
	l := blend.Length()
	if l == 0 {
		return v3.Vec{}, nil
	}
	return blend.DivScalar(l), nil
}

// SurfaceArea returns the sum of all face areas.
func (m *Mesh) SurfaceArea() (float64, error) {
	total := 0.0
	for _, f := range m.Faces() {
		a, err := m.FaceArea(f)
		if err != nil {
			return 0, err
		}
		total += a
	}
	return total, nil
}
