package export_test

import (
	"testing"

	v3 "github.com/deadsy/sdfx/vec/v3"

	"github.com/chazu/hemesh/pkg/export"
	"github.com/chazu/hemesh/pkg/hemesh"
)

var tetraFaces = [][]int{{0, 2, 1}, {0, 1, 3}, {1, 2, 3}, {0, 3, 2}}

var tetraPositions = []v3.Vec{
	{X: 1, Y: 1, Z: 1},
	{X: 1, Y: -1, Z: -1},
	{X: -1, Y: 1, Z: -1},
	{X: -1, Y: -1, Z: 1},
}

func buildTetra(t *testing.T) *hemesh.Mesh {
	t.Helper()
	m, err := hemesh.FromIndexed(tetraPositions, tetraFaces, hemesh.Options{})
	if err != nil {
		t.Fatalf("FromIndexed: %v", err)
	}
	return m
}

func TestVertexGraph(t *testing.T) {
	m := buildTetra(t)
	vg, err := export.Vertices(m)
	if err != nil {
		t.Fatalf("Vertices: %v", err)
	}

	if n := vg.G.Nodes().Len(); n != 4 {
		t.Errorf("nodes = %d, want 4", n)
	}
	// One arc per half-edge.
	if n := vg.G.Edges().Len(); n != 12 {
		t.Errorf("arcs = %d, want 12", n)
	}
	if len(vg.IDs) != 4 {
		t.Errorf("ID table length = %d, want 4", len(vg.IDs))
	}
}

func TestEuclideanGraphWeights(t *testing.T) {
	m := buildTetra(t)
	vg, err := export.Euclidean(m)
	if err != nil {
		t.Fatalf("Euclidean: %v", err)
	}

	edges := vg.G.WeightedEdges()
	count := 0
	for edges.Next() {
		count++
		e := edges.WeightedEdge()
		// All tetrahedron edges have length 2*sqrt(2) ~ 2.828.
		if e.Weight() < 2.8 || e.Weight() > 2.9 {
			t.Errorf("edge weight = %g, want ~2.828", e.Weight())
		}
	}
	if count != 12 {
		t.Errorf("weighted arcs = %d, want 12", count)
	}
}

func TestEuclideanRequiresPositions(t *testing.T) {
	m, err := hemesh.FromFaces(tetraFaces, 4, hemesh.Options{})
	if err != nil {
		t.Fatalf("FromFaces: %v", err)
	}
	if _, err := export.Euclidean(m); err == nil {
		t.Error("Euclidean on a topology-only mesh must fail")
	}
	if _, err := export.Dual(m); err == nil {
		t.Error("Dual on a topology-only mesh must fail")
	}
}

func TestDualGraph(t *testing.T) {
	m := buildTetra(t)
	fg, err := export.Dual(m)
	if err != nil {
		t.Fatalf("Dual: %v", err)
	}

	if n := fg.G.Nodes().Len(); n != 4 {
		t.Errorf("dual nodes = %d, want 4", n)
	}
	// Tetrahedron dual: every face pair is adjacent, 6 undirected edges.
	if n := fg.G.Edges().Len(); n != 6 {
		t.Errorf("dual edges = %d, want 6", n)
	}
	edges := fg.G.WeightedEdges()
	for edges.Next() {
		if edges.WeightedEdge().Weight() <= 0 {
			t.Error("dual edge weight must be positive")
		}
	}
}
