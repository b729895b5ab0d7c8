package hemesh

import (
	"fmt"

	v3 "github.com/deadsy/sdfx/vec/v3"

	"github.com/chazu/hemesh/pkg/soup"
)

// Options configures mesh construction. The zero value gives the default
// behavior: welding at soup.DefaultTolerance, open meshes accepted with
// synthesized boundary loops, isolated vertices rejected, no per-vertex
// normal payload.
type Options struct {
	// Tolerance is the vertex welding distance for FromTriangles. Zero
	// selects soup.DefaultTolerance; a negative value welds only
	// bitwise-identical positions.
	Tolerance float64

	// RequireClosed rejects input containing any unmatched edge instead
	// of synthesizing boundary loops (the watertight policy).
	RequireClosed bool

	// AllowIsolated admits vertices referenced by no face. Such vertices
	// have a nil outgoing anchor and an empty vertex star.
	AllowIsolated bool

	// VertexNormals derives a per-vertex normal payload from the soup's
	// facet normals (normalized sum over incident facets). Ignored when
	// the soup carries no nonzero normals.
	VertexNormals bool
}

func (o Options) tolerance() float64 {
	switch {
	case o.Tolerance == 0:
		return soup.DefaultTolerance
	case o.Tolerance < 0:
		return 0
	default:
		return o.Tolerance
	}
}

// FromTriangles welds a triangle soup and builds a validated half-edge
// mesh with per-vertex positions. On any input defect it returns a
// *BuildError listing every defect found, and no mesh.
func FromTriangles(s soup.Soup, opts Options) (*Mesh, error) {
	tol := opts.tolerance()
	verts, tris, facetNormals := soup.Weld(s, tol)
	if verts == nil {
		// An empty soup still builds a mesh with a position payload.
		verts = []v3.Vec{}
	}
	logger().Debug("welded triangle soup",
		"triangles", len(s),
		"corners", 3*len(s),
		"vertices", len(verts),
		"tolerance", tol)

	faces := make([][]int, len(tris))
	for i, t := range tris {
		faces[i] = []int{t[0], t[1], t[2]}
	}

	m, err := build(verts, len(verts), faces, opts)
	if err != nil {
		return nil, err
	}
	if opts.VertexNormals {
		m.normals = deriveVertexNormals(len(verts), tris, facetNormals)
	}
	return m, nil
}

// FromIndexed builds a validated half-edge mesh from shared vertex
// positions and polygonal faces given as counter-clockwise index loops.
// No welding is performed.
func FromIndexed(positions []v3.Vec, faces [][]int, opts Options) (*Mesh, error) {
	ps := make([]v3.Vec, len(positions))
	copy(ps, positions)
	return build(ps, len(ps), faces, opts)
}

// FromFaces builds a topology-only mesh: vertexCount vertices and the
// given index loops, no geometric payload. Geometric queries on the
// result return ErrMissingGeometry.
func FromFaces(faces [][]int, vertexCount int, opts Options) (*Mesh, error) {
	return build(nil, vertexCount, faces, opts)
}

// deriveVertexNormals averages the facet normals incident to each welded
// vertex. Returns nil when every facet normal is zero.
func deriveVertexNormals(nverts int, tris [][3]int, facetNormals []v3.Vec) []v3.Vec {
	sums := make([]v3.Vec, nverts)
	any := false
	for fi, t := range tris {
		n := facetNormals[fi]
		if n.Length() == 0 {
			continue
		}
		any = true
		for _, vi := range t {
			sums[vi] = sums[vi].Add(n)
		}
	}
	if !any {
		return nil
	}
	for i := range sums {
		if sums[i].Length() > 0 {
			sums[i] = sums[i].Normalize()
		}
	}
	return sums
}

// edgeKey is a directed edge between two input vertex indices.
type edgeKey struct {
	from, to int
}

// build runs the sequential construction phases: defect scan, entity
// creation, twin resolution, boundary-loop synthesis, anchor assignment,
// and whole-structure validation. positions may be nil for topology-only
// meshes.
func build(positions []v3.Vec, nverts int, faces [][]int, opts Options) (*Mesh, error) {
	defects := scanInput(positions, nverts, faces, opts)
	if len(defects) > 0 {
		logger().Warn("mesh construction rejected input",
			"defects", len(defects), "faces", len(faces))
		return nil, &BuildError{Defects: defects}
	}

	m := newMesh()
	m.positions = positions

	// Entity creation: one next-cycle of half-edges per face.
	for i := 0; i < nverts; i++ {
		m.verts.Insert(vertexRec{})
	}
	dir := make(map[edgeKey]HalfEdgeID, 3*len(faces))
	for _, face := range faces {
		n := len(face)
		fid := FaceID{m.faces.Insert(faceRec{sides: n})}
		loop := make([]HalfEdgeID, n)
		for i, vi := range face {
			loop[i] = HalfEdgeID{m.edges.Insert(halfEdgeRec{
				origin: VertexID{m.verts.At(vi)},
				face:   fid,
			})}
		}
		for i := range loop {
			rec := m.edges.MustGet(loop[i].Handle)
			rec.next = loop[(i+1)%n]
			rec.prev = loop[(i+n-1)%n]
			dir[edgeKey{face[i], face[(i+1)%n]}] = loop[i]
		}
		m.faces.MustGet(fid.Handle).anchor = loop[0]
	}

	// Twin resolution: pair each oriented edge with its reverse. The
	// defect scan already ruled out duplicate oriented edges.
	interior := m.edges.Len()
	for i := 0; i < interior; i++ {
		h := HalfEdgeID{m.edges.At(i)}
		rec := m.edges.MustGet(h.Handle)
		if !rec.twin.IsNil() {
			continue
		}
		from := rec.origin.Index()
		to := m.edges.MustGet(rec.next.Handle).origin.Index()
		if opp, ok := dir[edgeKey{to, from}]; ok {
			rec.twin = opp
			m.edges.MustGet(opp.Handle).twin = h
		}
	}

	// Boundary-loop synthesis: each unmatched half-edge gets a twin on
	// the hole side, incident to the Boundary sentinel, and the hole
	// half-edges are chained into closed loops. In a manifold mesh every
	// hole vertex has exactly one outgoing boundary half-edge; a second
	// one means a bowtie fan, which is an input defect.
	ghostAt := make(map[int]HalfEdgeID)
	var fanDefects []Defect
	for i := 0; i < interior; i++ {
		h := HalfEdgeID{m.edges.At(i)}
		rec := m.edges.MustGet(h.Handle)
		if !rec.twin.IsNil() {
			continue
		}
		from := rec.origin.Index()
		to := m.edges.MustGet(rec.next.Handle).origin.Index()
		g := HalfEdgeID{m.edges.Insert(halfEdgeRec{
			origin: VertexID{m.verts.At(to)},
			face:   Boundary,
			twin:   h,
		})}
		m.edges.MustGet(h.Handle).twin = g
		if _, dup := ghostAt[to]; dup {
			fanDefects = append(fanDefects, Defect{
				Kind: NonManifoldEdge, Face: -1, From: to, To: from,
				Message: "vertex borders more than one hole fan",
			})
			continue
		}
		ghostAt[to] = g
	}
	if len(fanDefects) > 0 {
		logger().Warn("mesh construction rejected input", "defects", len(fanDefects))
		return nil, &BuildError{Defects: fanDefects}
	}
	for i := interior; i < m.edges.Len(); i++ {
		g := HalfEdgeID{m.edges.At(i)}
		rec := m.edges.MustGet(g.Handle)
		head := m.edges.MustGet(rec.twin.Handle).origin.Index()
		next, ok := ghostAt[head]
		if !ok {
			return nil, corruptf("boundary loop through vertex %d does not continue", head)
		}
		rec.next = next
		m.edges.MustGet(next.Handle).prev = g
	}

	// Anchor assignment, first-seen in half-edge insertion order, so
	// interior half-edges win over boundary ones.
	for i := 0; i < m.edges.Len(); i++ {
		rec := m.edges.MustGet(m.edges.At(i))
		vrec := m.verts.MustGet(rec.origin.Handle)
		if vrec.outgoing.IsNil() {
			vrec.outgoing = HalfEdgeID{m.edges.At(i)}
		}
	}

	if vs := m.Validate(); len(vs) > 0 {
		// Unreachable for input that passed the defect scan; a violation
		// here is a construction bug, not a data error.
		return nil, corruptf("post-build validation found %d violations, first: %s", len(vs), vs[0])
	}

	logger().Debug("built half-edge mesh",
		"vertices", m.NumVertices(),
		"halfedges", m.NumHalfEdges(),
		"faces", m.NumFaces(),
		"boundary", m.NumHalfEdges()-interior)
	return m, nil
}

// scanInput audits the raw indexed input and reports every defect found,
// not just the first, so malformed input can be diagnosed in one pass.
func scanInput(positions []v3.Vec, nverts int, faces [][]int, opts Options) []Defect {
	var defects []Defect
	badFace := make([]bool, len(faces))

	for fi, face := range faces {
		if len(face) < 3 {
			defects = append(defects, Defect{
				Kind: DegenerateTriangle, Face: fi, From: -1, To: -1,
				Message: "fewer than three sides",
			})
			badFace[fi] = true
			continue
		}
		seen := make(map[int]struct{}, len(face))
		for _, vi := range face {
			if vi < 0 || vi >= nverts {
				defects = append(defects, Defect{
					Kind: InvalidIndex, Face: fi, From: -1, To: -1,
					Message: fmt.Sprintf("vertex index %d out of range [0,%d)", vi, nverts),
				})
				badFace[fi] = true
				continue
			}
			if _, dup := seen[vi]; dup {
				defects = append(defects, Defect{
					Kind: DegenerateTriangle, Face: fi, From: -1, To: -1,
					Message: "repeated vertex within one face",
				})
				badFace[fi] = true
			}
			seen[vi] = struct{}{}
		}
		if badFace[fi] {
			continue
		}
		if positions != nil && newellArea(positions, face) == 0 {
			defects = append(defects, Defect{
				Kind: DegenerateTriangle, Face: fi, From: -1, To: -1,
				Message: "zero area",
			})
			badFace[fi] = true
		}
	}

	// Oriented-edge audit: a directed edge claimed twice is non-manifold.
	claims := make(map[edgeKey][]int)
	for fi, face := range faces {
		if badFace[fi] {
			continue
		}
		n := len(face)
		for i := range face {
			k := edgeKey{face[i], face[(i+1)%n]}
			if prior := claims[k]; len(prior) > 0 {
				defects = append(defects, Defect{
					Kind: NonManifoldEdge, Face: fi, From: k.from, To: k.to,
					Message: fmt.Sprintf("oriented edge already claimed by face %d", prior[0]),
				})
			}
			claims[k] = append(claims[k], fi)
		}
	}
	for fi, face := range faces {
		if badFace[fi] {
			continue
		}
		n := len(face)
		for i := range face {
			k := edgeKey{face[i], face[(i+1)%n]}
			rev := edgeKey{k.to, k.from}
			// A doubly claimed edge with no reverse traversal means the
			// second face is wound backwards relative to the first.
			if len(claims[k]) == 2 && len(claims[rev]) == 0 && fi == claims[k][1] {
				defects = append(defects, Defect{
					Kind: InconsistentOrientation, Face: fi, From: k.from, To: k.to,
					Message: fmt.Sprintf("faces %d and %d traverse the edge in the same direction", claims[k][0], fi),
				})
			}
			if opts.RequireClosed && len(claims[k]) == 1 && len(claims[rev]) == 0 {
				defects = append(defects, Defect{
					Kind: NotClosed, Face: fi, From: k.from, To: k.to,
					Message: "unmatched edge in a mesh required to be closed",
				})
			}
		}
	}

	if !opts.AllowIsolated {
		referenced := make([]bool, nverts)
		for fi, face := range faces {
			if badFace[fi] {
				continue
			}
			for _, vi := range face {
				referenced[vi] = true
			}
		}
		for vi, ok := range referenced {
			if !ok {
				defects = append(defects, Defect{
					Kind: DisconnectedVertex, Face: -1, From: -1, To: -1,
					Message: fmt.Sprintf("vertex %d is referenced by no face", vi),
				})
			}
		}
	}

	return defects
}
