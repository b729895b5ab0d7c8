package hemesh

import "iter"

// FaceLoop returns the half-edges bounding f, starting at the anchor and
// following next. The walk is bounded: if it fails to return to the
// anchor within Sides(f)+1 steps the loop is corrupt and the error is
// ErrCorruptTopology. The Boundary sentinel has no loop and is rejected
// as an invalid ID.
func (m *Mesh) FaceLoop(f FaceID) ([]HalfEdgeID, error) {
	rec, err := m.faces.Get(f.Handle)
	if err != nil {
		return nil, err
	}
	loop := make([]HalfEdgeID, 0, rec.sides)
	h := rec.anchor
	for steps := 0; ; steps++ {
		if steps > rec.sides {
			return nil, corruptf("face %s loop does not close within %d steps", f, rec.sides)
		}
		loop = append(loop, h)
		erec, err := m.edges.Get(h.Handle)
		if err != nil {
			return nil, corruptf("face %s loop reaches dead half-edge %s", f, h)
		}
		if erec.next == rec.anchor {
			return loop, nil
		}
		h = erec.next
	}
}

// Loop iterates the half-edges bounding f lazily. The sequence is
// restartable: each range over it walks from the anchor again. Corrupt
// loops end the sequence at the step bound; use FaceLoop to observe the
// error. Intended for validated meshes, where the bound is never hit.
func (m *Mesh) Loop(f FaceID) iter.Seq[HalfEdgeID] {
	return func(yield func(HalfEdgeID) bool) {
		rec, err := m.faces.Get(f.Handle)
		if err != nil {
			return
		}
		h := rec.anchor
		for steps := 0; steps <= rec.sides; steps++ {
			if !yield(h) {
				return
			}
			erec, err := m.edges.Get(h.Handle)
			if err != nil || erec.next == rec.anchor {
				return
			}
			h = erec.next
		}
	}
}

// VertexStar returns the outgoing half-edges around v, in order, obtained
// by alternating twin and next from the vertex's anchor (the umbrella
// walk). An isolated vertex yields an empty star. The walk is bounded by
// the mesh's half-edge count; failure to close is ErrCorruptTopology.
func (m *Mesh) VertexStar(v VertexID) ([]HalfEdgeID, error) {
	rec, err := m.verts.Get(v.Handle)
	if err != nil {
		return nil, err
	}
	if rec.outgoing.IsNil() {
		return nil, nil
	}
	var star []HalfEdgeID
	bound := m.edges.Len() + 1
	h := rec.outgoing
	for steps := 0; ; steps++ {
		if steps > bound {
			return nil, corruptf("vertex %s star does not close within %d steps", v, bound)
		}
		star = append(star, h)
		erec, err := m.edges.Get(h.Handle)
		if err != nil {
			return nil, corruptf("vertex %s star reaches dead half-edge %s", v, h)
		}
		twin, err := m.edges.Get(erec.twin.Handle)
		if err != nil {
			return nil, corruptf("vertex %s star reaches half-edge %s with dead twin", v, h)
		}
		if twin.next == rec.outgoing {
			return star, nil
		}
		h = twin.next
	}
}

// VertexValence returns the number of edges incident to v: the size of
// its star. Purely topological; works without a geometry payload.
func (m *Mesh) VertexValence(v VertexID) (int, error) {
	star, err := m.VertexStar(v)
	if err != nil {
		return 0, err
	}
	return len(star), nil
}

// Corners returns the vertices of f in loop order.
func (m *Mesh) Corners(f FaceID) ([]VertexID, error) {
	loop, err := m.FaceLoop(f)
	if err != nil {
		return nil, err
	}
	corners := make([]VertexID, len(loop))
	for i, h := range loop {
		corners[i] = m.edges.MustGet(h.Handle).origin
	}
	return corners, nil
}

// FaceNeighbors returns the faces sharing an edge with f, in loop order.
// Edges on the mesh boundary contribute no neighbor.
func (m *Mesh) FaceNeighbors(f FaceID) ([]FaceID, error) {
	loop, err := m.FaceLoop(f)
	if err != nil {
		return nil, err
	}
	var neighbors []FaceID
	for _, h := range loop {
		twin := m.edges.MustGet(h.Handle).twin
		nf := m.edges.MustGet(twin.Handle).face
		if !nf.IsNil() {
			neighbors = append(neighbors, nf)
		}
	}
	return neighbors, nil
}

// FacesAround returns the real faces incident to v, in star order. Hole
// loops around boundary vertices are skipped.
func (m *Mesh) FacesAround(v VertexID) ([]FaceID, error) {
	star, err := m.VertexStar(v)
	if err != nil {
		return nil, err
	}
	var faces []FaceID
	for _, h := range star {
		f := m.edges.MustGet(h.Handle).face
		if !f.IsNil() {
			faces = append(faces, f)
		}
	}
	return faces, nil
}

// BoundaryLoops returns the hole loops of an open mesh, one slice of
// boundary half-edges per hole, in deterministic order. A closed mesh
// returns nil.
func (m *Mesh) BoundaryLoops() ([][]HalfEdgeID, error) {
	visited := make(map[HalfEdgeID]bool)
	var loops [][]HalfEdgeID
	for i := 0; i < m.edges.Len(); i++ {
		h := HalfEdgeID{m.edges.At(i)}
		rec := m.edges.MustGet(h.Handle)
		if !rec.face.IsNil() || visited[h] {
			continue
		}
		var loop []HalfEdgeID
		bound := m.edges.Len() + 1
		for cur := h; ; {
			if len(loop) > bound {
				return nil, corruptf("boundary loop at half-edge %s does not close", h)
			}
			visited[cur] = true
			loop = append(loop, cur)
			next := m.edges.MustGet(cur.Handle).next
			if next == h {
				break
			}
			cur = next
		}
		loops = append(loops, loop)
	}
	return loops, nil
}
