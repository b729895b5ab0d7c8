package hemesh

import (
	"errors"
	"testing"

	v3 "github.com/deadsy/sdfx/vec/v3"

	"github.com/chazu/hemesh/pkg/soup"
)

// tetraFaces is a consistently oriented tetrahedron over vertices 0..3.
var tetraFaces = [][]int{{0, 2, 1}, {0, 1, 3}, {1, 2, 3}, {0, 3, 2}}

// tetraPositions places the tetrahedron's vertices at alternating cube
// corners, making every face an equilateral triangle.
var tetraPositions = []v3.Vec{
	{X: 1, Y: 1, Z: 1},
	{X: 1, Y: -1, Z: -1},
	{X: -1, Y: 1, Z: -1},
	{X: -1, Y: -1, Z: 1},
}

func buildTetra(t *testing.T) *Mesh {
	t.Helper()
	m, err := FromIndexed(tetraPositions, tetraFaces, Options{})
	if err != nil {
		t.Fatalf("FromIndexed(tetra): %v", err)
	}
	return m
}

func TestTetrahedronRoundTrip(t *testing.T) {
	m := buildTetra(t)

	if m.NumVertices() != 4 {
		t.Errorf("vertices = %d, want 4", m.NumVertices())
	}
	if m.NumHalfEdges() != 12 {
		t.Errorf("half-edges = %d, want 12", m.NumHalfEdges())
	}
	if m.NumEdges() != 6 {
		t.Errorf("edges = %d, want 6", m.NumEdges())
	}
	if m.NumFaces() != 4 {
		t.Errorf("faces = %d, want 4", m.NumFaces())
	}
	if x := m.EulerCharacteristic(); x != 2 {
		t.Errorf("euler characteristic = %d, want 2", x)
	}
	if vs := m.Validate(); len(vs) != 0 {
		t.Errorf("Validate reported %d violations: %v", len(vs), vs)
	}

	// Every edge has a real twin on a real face.
	for _, h := range m.HalfEdges() {
		twin, err := m.Twin(h)
		if err != nil {
			t.Fatalf("Twin: %v", err)
		}
		if twin.IsNil() {
			t.Errorf("half-edge %v has no twin in a closed mesh", h)
		}
		boundary, err := m.IsBoundaryEdge(h)
		if err != nil {
			t.Fatalf("IsBoundaryEdge: %v", err)
		}
		if boundary {
			t.Errorf("half-edge %v reported as boundary in a closed mesh", h)
		}
	}

	// Valence 3 at all four vertices.
	for _, v := range m.Vertices() {
		val, err := m.VertexValence(v)
		if err != nil {
			t.Fatalf("VertexValence: %v", err)
		}
		if val != 3 {
			t.Errorf("valence = %d, want 3", val)
		}
	}
}

func TestFromTrianglesWeldsSharedCorners(t *testing.T) {
	// The tetrahedron as raw soup: 4 triangles, 12 corners, no sharing.
	var s soup.Soup
	for _, f := range tetraFaces {
		s = append(s, soup.Triangle{
			A: tetraPositions[f[0]],
			B: tetraPositions[f[1]],
			C: tetraPositions[f[2]],
		})
	}
	m, err := FromTriangles(s, Options{})
	if err != nil {
		t.Fatalf("FromTriangles: %v", err)
	}
	if m.NumVertices() != 4 {
		t.Errorf("welded vertices = %d, want 4", m.NumVertices())
	}
	if m.NumFaces() != 4 {
		t.Errorf("faces = %d, want 4", m.NumFaces())
	}
	if vs := m.Validate(); len(vs) != 0 {
		t.Errorf("Validate reported violations: %v", vs)
	}
}

func TestWeldingIdempotence(t *testing.T) {
	base := soup.Triangle{A: v3.Vec{}, B: v3.Vec{X: 1}, C: v3.Vec{Y: 1}}

	// Second triangle shares the 0-(1,0,0) edge, with its corner
	// positions perturbed by delta.
	perturbed := func(delta float64) soup.Soup {
		d := v3.Vec{X: delta}
		return soup.Soup{base, {
			A: v3.Vec{X: 1}.Add(d),
			B: v3.Vec{}.Add(d),
			C: v3.Vec{Y: -1},
		}}
	}

	const eps = 1e-6

	m, err := FromTriangles(perturbed(eps/4), Options{Tolerance: eps})
	if err != nil {
		t.Fatalf("build with delta < eps: %v", err)
	}
	if m.NumVertices() != 4 {
		t.Errorf("delta < eps: vertices = %d, want 4", m.NumVertices())
	}

	m, err = FromTriangles(perturbed(eps*4), Options{Tolerance: eps})
	if err != nil {
		t.Fatalf("build with delta > eps: %v", err)
	}
	if m.NumVertices() != 6 {
		t.Errorf("delta > eps: vertices = %d, want 6", m.NumVertices())
	}
}

func TestSingleTriangleGetsBoundaryLoop(t *testing.T) {
	s := soup.Soup{{A: v3.Vec{}, B: v3.Vec{X: 1}, C: v3.Vec{Y: 1}}}
	m, err := FromTriangles(s, Options{})
	if err != nil {
		t.Fatalf("an unclosed triangle must build by default, got %v", err)
	}

	// 3 interior + 3 synthesized boundary half-edges.
	if m.NumHalfEdges() != 6 {
		t.Errorf("half-edges = %d, want 6", m.NumHalfEdges())
	}
	for _, h := range m.HalfEdges() {
		twin, err := m.Twin(h)
		if err != nil {
			t.Fatalf("Twin: %v", err)
		}
		if twin.IsNil() {
			t.Fatalf("half-edge %v has no twin; boundary must be explicit", h)
		}
		boundary, err := m.IsBoundaryEdge(h)
		if err != nil {
			t.Fatalf("IsBoundaryEdge: %v", err)
		}
		if !boundary {
			t.Errorf("half-edge %v should be a boundary edge", h)
		}
	}

	loops, err := m.BoundaryLoops()
	if err != nil {
		t.Fatalf("BoundaryLoops: %v", err)
	}
	if len(loops) != 1 || len(loops[0]) != 3 {
		t.Fatalf("boundary loops = %v, want one loop of 3", loops)
	}
	for _, h := range loops[0] {
		f, err := m.IncidentFace(h)
		if err != nil {
			t.Fatalf("IncidentFace: %v", err)
		}
		if !m.IsBoundary(f) {
			t.Errorf("hole-loop half-edge %v has incident face %v, want Boundary", h, f)
		}
	}

	if vs := m.Validate(); len(vs) != 0 {
		t.Errorf("Validate reported violations: %v", vs)
	}
}

func TestEmptySoupKeepsGeometryPayload(t *testing.T) {
	m, err := FromTriangles(soup.Soup{}, Options{})
	if err != nil {
		t.Fatalf("FromTriangles(empty): %v", err)
	}
	if m.NumVertices() != 0 || m.NumFaces() != 0 {
		t.Errorf("counts = %d/%d, want 0/0", m.NumVertices(), m.NumFaces())
	}
	// Same payload policy as FromIndexed with an empty slice.
	if !m.HasPositions() {
		t.Error("mesh built from soup must carry a position payload")
	}
}

func TestDuplicateOrientedEdgeIsNonManifold(t *testing.T) {
	// Faces 0 and 1 both traverse the oriented edge 0->1.
	faces := [][]int{{0, 1, 2}, {0, 1, 3}}
	_, err := FromFaces(faces, 4, Options{})
	if err == nil {
		t.Fatal("duplicate oriented edge must fail construction")
	}

	var be *BuildError
	if !errors.As(err, &be) {
		t.Fatalf("error = %T, want *BuildError", err)
	}
	if !be.Has(NonManifoldEdge) {
		t.Errorf("defects %v do not include NonManifoldEdge", be.Defects)
	}
	if errors.Is(err, ErrCorruptTopology) {
		t.Error("input defect must not surface as corrupt topology")
	}
	found := false
	for _, d := range be.Defects {
		if d.Kind == NonManifoldEdge && d.From == 0 && d.To == 1 {
			found = true
		}
	}
	if !found {
		t.Errorf("NonManifoldEdge defect does not name edge 0->1: %v", be.Defects)
	}

	// Two faces, same direction, no reverse: also flagged as an
	// orientation defect.
	if !be.Has(InconsistentOrientation) {
		t.Errorf("defects %v do not include InconsistentOrientation", be.Defects)
	}
}

func TestDegenerateTriangles(t *testing.T) {
	// Repeated vertex within one face.
	_, err := FromFaces([][]int{{0, 1, 1}}, 2, Options{AllowIsolated: true})
	var be *BuildError
	if !errors.As(err, &be) || !be.Has(DegenerateTriangle) {
		t.Errorf("repeated vertex: error = %v, want DegenerateTriangle", err)
	}

	// Exactly collinear corners: zero area.
	positions := []v3.Vec{{}, {X: 1}, {X: 2}}
	_, err = FromIndexed(positions, [][]int{{0, 1, 2}}, Options{})
	if !errors.As(err, &be) || !be.Has(DegenerateTriangle) {
		t.Errorf("zero area: error = %v, want DegenerateTriangle", err)
	}
}

func TestDefectsAggregatedInOneReport(t *testing.T) {
	// One degenerate face and one non-manifold edge pair in one input.
	faces := [][]int{
		{0, 1, 2},
		{0, 1, 3}, // duplicate oriented edge 0->1
		{4, 4, 5}, // repeated vertex
	}
	_, err := FromFaces(faces, 6, Options{})
	var be *BuildError
	if !errors.As(err, &be) {
		t.Fatalf("error = %T, want *BuildError", err)
	}
	if !be.Has(NonManifoldEdge) || !be.Has(DegenerateTriangle) {
		t.Errorf("report %v must contain both defect kinds", be.Defects)
	}
	if len(be.Defects) < 2 {
		t.Errorf("report has %d defects, want all of them", len(be.Defects))
	}
}

func TestRequireClosedRejectsOpenMesh(t *testing.T) {
	s := soup.Soup{{A: v3.Vec{}, B: v3.Vec{X: 1}, C: v3.Vec{Y: 1}}}
	_, err := FromTriangles(s, Options{RequireClosed: true})
	var be *BuildError
	if !errors.As(err, &be) || !be.Has(NotClosed) {
		t.Errorf("error = %v, want NotClosed defect", err)
	}

	// The tetrahedron is watertight and passes.
	if _, err := FromIndexed(tetraPositions, tetraFaces, Options{RequireClosed: true}); err != nil {
		t.Errorf("closed mesh rejected under RequireClosed: %v", err)
	}
}

func TestIsolatedVertices(t *testing.T) {
	_, err := FromFaces(tetraFaces, 5, Options{})
	var be *BuildError
	if !errors.As(err, &be) || !be.Has(DisconnectedVertex) {
		t.Fatalf("error = %v, want DisconnectedVertex defect", err)
	}

	m, err := FromFaces(tetraFaces, 5, Options{AllowIsolated: true})
	if err != nil {
		t.Fatalf("AllowIsolated build: %v", err)
	}
	if m.NumVertices() != 5 {
		t.Fatalf("vertices = %d, want 5", m.NumVertices())
	}
	lone := m.Vertices()[4]
	out, err := m.Outgoing(lone)
	if err != nil {
		t.Fatalf("Outgoing: %v", err)
	}
	if !out.IsNil() {
		t.Errorf("isolated vertex has outgoing anchor %v", out)
	}
	val, err := m.VertexValence(lone)
	if err != nil {
		t.Fatalf("VertexValence: %v", err)
	}
	if val != 0 {
		t.Errorf("isolated vertex valence = %d, want 0", val)
	}
}

func TestInvalidIndexReported(t *testing.T) {
	_, err := FromIndexed(tetraPositions, [][]int{{0, 1, 9}}, Options{})
	var be *BuildError
	if !errors.As(err, &be) || !be.Has(InvalidIndex) {
		t.Errorf("error = %v, want InvalidIndex defect", err)
	}
}

func TestDerivedVertexNormals(t *testing.T) {
	up := v3.Vec{Z: 1}
	s := soup.Soup{
		{A: v3.Vec{}, B: v3.Vec{X: 1}, C: v3.Vec{Y: 1}, Normal: up},
	}
	m, err := FromTriangles(s, Options{VertexNormals: true})
	if err != nil {
		t.Fatalf("FromTriangles: %v", err)
	}
	if !m.HasNormals() {
		t.Fatal("mesh should carry derived vertex normals")
	}
	for _, v := range m.Vertices() {
		n, err := m.Normal(v)
		if err != nil {
			t.Fatalf("Normal: %v", err)
		}
		if n != up {
			t.Errorf("vertex normal = %v, want %v", n, up)
		}
	}

	// Without the option the payload is absent.
	m, err = FromTriangles(s, Options{})
	if err != nil {
		t.Fatalf("FromTriangles: %v", err)
	}
	if _, err := m.Normal(m.Vertices()[0]); !errors.Is(err, ErrMissingGeometry) {
		t.Errorf("Normal without payload: error = %v, want ErrMissingGeometry", err)
	}
}
