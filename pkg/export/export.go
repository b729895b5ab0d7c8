// Package export maps a half-edge mesh onto gonum graphs for general
// graph analysis: a directed vertex graph (one arc per half-edge), its
// Euclidean-weighted variant, and the face dual graph. The adapters are
// pure consumers of the mesh's read API.
package export

import (
	"gonum.org/v1/gonum/graph/simple"

	"github.com/chazu/hemesh/pkg/hemesh"
)

// VertexGraph is a directed graph over mesh vertices. Node IDs are dense
// indices into IDs, which maps them back to mesh vertex IDs.
type VertexGraph struct {
	G   *simple.DirectedGraph
	IDs []hemesh.VertexID
}

// Vertices builds the directed vertex graph: one node per vertex, one
// arc per half-edge.
func Vertices(m *hemesh.Mesh) (*VertexGraph, error) {
	vg := &VertexGraph{
		G:   simple.NewDirectedGraph(),
		IDs: m.Vertices(),
	}
	node := make(map[hemesh.VertexID]int64, len(vg.IDs))
	for i, id := range vg.IDs {
		node[id] = int64(i)
		vg.G.AddNode(simple.Node(int64(i)))
	}
	for _, h := range m.HalfEdges() {
		from, to, err := m.Endpoints(h)
		if err != nil {
			return nil, err
		}
		vg.G.SetEdge(simple.Edge{
			F: simple.Node(node[from]),
			T: simple.Node(node[to]),
		})
	}
	return vg, nil
}

// WeightedVertexGraph is VertexGraph with arc weights.
type WeightedVertexGraph struct {
	G   *simple.WeightedDirectedGraph
	IDs []hemesh.VertexID
}

// Euclidean builds the directed vertex graph with arcs weighted by edge
// length. The mesh must carry positions.
func Euclidean(m *hemesh.Mesh) (*WeightedVertexGraph, error) {
	if !m.HasPositions() {
		return nil, hemesh.ErrMissingGeometry
	}
	vg := &WeightedVertexGraph{
		G:   simple.NewWeightedDirectedGraph(0, 0),
		IDs: m.Vertices(),
	}
	node := make(map[hemesh.VertexID]int64, len(vg.IDs))
	for i, id := range vg.IDs {
		node[id] = int64(i)
		vg.G.AddNode(simple.Node(int64(i)))
	}
	for _, h := range m.HalfEdges() {
		from, to, err := m.Endpoints(h)
		if err != nil {
			return nil, err
		}
		w, err := m.EdgeLength(h)
		if err != nil {
			return nil, err
		}
		vg.G.SetWeightedEdge(simple.WeightedEdge{
			F: simple.Node(node[from]),
			T: simple.Node(node[to]),
			W: w,
		})
	}
	return vg, nil
}

// FaceGraph is the undirected dual graph: one node per face, one edge
// per shared mesh edge, weighted by centroid distance.
type FaceGraph struct {
	G   *simple.WeightedUndirectedGraph
	IDs []hemesh.FaceID
}

// Dual builds the face dual graph. The mesh must carry positions (for
// the centroid-distance weights).
func Dual(m *hemesh.Mesh) (*FaceGraph, error) {
	if !m.HasPositions() {
		return nil, hemesh.ErrMissingGeometry
	}
	fg := &FaceGraph{
		G:   simple.NewWeightedUndirectedGraph(0, 0),
		IDs: m.Faces(),
	}
	node := make(map[hemesh.FaceID]int64, len(fg.IDs))
	for i, id := range fg.IDs {
		node[id] = int64(i)
		fg.G.AddNode(simple.Node(int64(i)))
	}
	for _, f := range fg.IDs {
		neighbors, err := m.FaceNeighbors(f)
		if err != nil {
			return nil, err
		}
		cf, err := m.FaceCentroid(f)
		if err != nil {
			return nil, err
		}
		for _, n := range neighbors {
			if node[n] <= node[f] {
				continue // one edge per unordered pair
			}
			cn, err := m.FaceCentroid(n)
			if err != nil {
				return nil, err
			}
			fg.G.SetWeightedEdge(simple.WeightedEdge{
				F: simple.Node(node[f]),
				T: simple.Node(node[n]),
				W: cn.Sub(cf).Length(),
			})
		}
	}
	return fg, nil
}
