package hemesh

import "fmt"

// InvariantKind names one connectivity invariant checked by Validate.
type InvariantKind int

const (
	// TwinInvolution: twin(twin(h)) == h and twin(h) != h.
	TwinInvolution InvariantKind = iota
	// NextPrevInverse: next(prev(h)) == h and prev(next(h)) == h.
	NextPrevInverse
	// LoopClosure: following next from a face's anchor returns to the
	// anchor in exactly Sides steps, all on that face.
	LoopClosure
	// TwinEndpoints: origin(next(h)) == origin(twin(h)), i.e. next
	// starts where h ends.
	TwinEndpoints
	// AnchorOrigin: a vertex's outgoing half-edge originates there.
	AnchorOrigin
	// EdgePairing: each undirected vertex pair carries exactly one
	// twin-pair of half-edges.
	EdgePairing
)

func (k InvariantKind) String() string {
	switch k {
	case TwinInvolution:
		return "twin-involution"
	case NextPrevInverse:
		return "next-prev-inverse"
	case LoopClosure:
		return "loop-closure"
	case TwinEndpoints:
		return "twin-endpoints"
	case AnchorOrigin:
		return "anchor-origin"
	case EdgePairing:
		return "edge-pairing"
	default:
		return fmt.Sprintf("InvariantKind(%d)", int(k))
	}
}

// Violation describes a single violated invariant.
type Violation struct {
	Invariant InvariantKind
	Entity    string // "halfedge 3", "face 0", "vertex 7"
	Message   string
}

func (v Violation) String() string {
	return fmt.Sprintf("[%s] %s: %s", v.Invariant, v.Entity, v.Message)
}

// Validate checks every connectivity invariant over the whole structure
// and returns all violations found, or nil for a consistent mesh. It is
// O(entities) and intended for use right after construction and in
// tests, not per-operation. Validate is read-only.
func (m *Mesh) Validate() []Violation {
	var vs []Violation
	vs = append(vs, m.checkTwins()...)
	vs = append(vs, m.checkNextPrev()...)
	vs = append(vs, m.checkFaceLoops()...)
	vs = append(vs, m.checkAnchors()...)
	vs = append(vs, m.checkEdgePairing()...)
	return vs
}

func (m *Mesh) checkTwins() []Violation {
	var vs []Violation
	for i := 0; i < m.edges.Len(); i++ {
		h := HalfEdgeID{m.edges.At(i)}
		rec := m.edges.MustGet(h.Handle)
		if rec.twin.IsNil() {
			vs = append(vs, Violation{TwinInvolution, entity("halfedge", i), "twin is nil"})
			continue
		}
		if rec.twin == h {
			vs = append(vs, Violation{TwinInvolution, entity("halfedge", i), "half-edge is its own twin"})
			continue
		}
		twin, err := m.edges.Get(rec.twin.Handle)
		if err != nil {
			vs = append(vs, Violation{TwinInvolution, entity("halfedge", i), "twin is not a live half-edge"})
			continue
		}
		if twin.twin != h {
			vs = append(vs, Violation{TwinInvolution, entity("halfedge", i), "twin(twin(h)) != h"})
		}
		// next(h) must start where h ends.
		next, err := m.edges.Get(rec.next.Handle)
		if err == nil && next.origin != twin.origin {
			vs = append(vs, Violation{TwinEndpoints, entity("halfedge", i), "origin(next(h)) != origin(twin(h))"})
		}
	}
	return vs
}

func (m *Mesh) checkNextPrev() []Violation {
	var vs []Violation
	for i := 0; i < m.edges.Len(); i++ {
		h := HalfEdgeID{m.edges.At(i)}
		rec := m.edges.MustGet(h.Handle)
		next, err := m.edges.Get(rec.next.Handle)
		if err != nil {
			vs = append(vs, Violation{NextPrevInverse, entity("halfedge", i), "next is not a live half-edge"})
			continue
		}
		if next.prev != h {
			vs = append(vs, Violation{NextPrevInverse, entity("halfedge", i), "prev(next(h)) != h"})
		}
		prev, err := m.edges.Get(rec.prev.Handle)
		if err != nil {
			vs = append(vs, Violation{NextPrevInverse, entity("halfedge", i), "prev is not a live half-edge"})
			continue
		}
		if prev.next != h {
			vs = append(vs, Violation{NextPrevInverse, entity("halfedge", i), "next(prev(h)) != h"})
		}
	}
	return vs
}

func (m *Mesh) checkFaceLoops() []Violation {
	var vs []Violation
	for i := 0; i < m.faces.Len(); i++ {
		f := FaceID{m.faces.At(i)}
		rec := m.faces.MustGet(f.Handle)
		h := rec.anchor
		closed := false
		for steps := 1; steps <= rec.sides; steps++ {
			erec, err := m.edges.Get(h.Handle)
			if err != nil {
				vs = append(vs, Violation{LoopClosure, entity("face", i), "loop reaches dead half-edge"})
				break
			}
			if erec.face != f {
				vs = append(vs, Violation{LoopClosure, entity("face", i),
					fmt.Sprintf("loop half-edge %s has incident face %s", h, erec.face)})
			}
			h = erec.next
			if h == rec.anchor {
				if steps != rec.sides {
					vs = append(vs, Violation{LoopClosure, entity("face", i),
						fmt.Sprintf("loop closes after %d steps, want %d", steps, rec.sides)})
				}
				closed = true
				break
			}
		}
		if !closed {
			vs = append(vs, Violation{LoopClosure, entity("face", i),
				fmt.Sprintf("loop does not close within %d steps", rec.sides)})
		}
	}
	return vs
}

func (m *Mesh) checkAnchors() []Violation {
	var vs []Violation
	for i := 0; i < m.verts.Len(); i++ {
		v := VertexID{m.verts.At(i)}
		rec := m.verts.MustGet(v.Handle)
		if rec.outgoing.IsNil() {
			// Isolated vertex; legal only under AllowIsolated, which the
			// builder enforces at scan time.
			continue
		}
		erec, err := m.edges.Get(rec.outgoing.Handle)
		if err != nil {
			vs = append(vs, Violation{AnchorOrigin, entity("vertex", i), "outgoing is not a live half-edge"})
			continue
		}
		if erec.origin != v {
			vs = append(vs, Violation{AnchorOrigin, entity("vertex", i), "outgoing half-edge does not originate here"})
		}
	}
	return vs
}

func (m *Mesh) checkEdgePairing() []Violation {
	var vs []Violation
	pairs := make(map[edgeKey]int, m.edges.Len())
	for i := 0; i < m.edges.Len(); i++ {
		rec := m.edges.MustGet(m.edges.At(i))
		twin, err := m.edges.Get(rec.twin.Handle)
		if err != nil {
			continue // reported by checkTwins
		}
		a, b := rec.origin.Index(), twin.origin.Index()
		if a > b {
			a, b = b, a
		}
		pairs[edgeKey{a, b}]++
	}
	for k, n := range pairs {
		if n != 2 {
			vs = append(vs, Violation{EdgePairing,
				fmt.Sprintf("edge %d-%d", k.from, k.to),
				fmt.Sprintf("undirected edge carries %d half-edges, want 2", n)})
		}
	}
	return vs
}

func entity(kind string, idx int) string {
	return fmt.Sprintf("%s %d", kind, idx)
}
