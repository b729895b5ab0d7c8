package hemesh

import (
	"errors"
	"fmt"
	"strings"

	"github.com/chazu/hemesh/pkg/arena"
)

// ErrInvalidID is returned when an ID was not issued by the mesh it is
// presented to. This is a programmer error (cross-mesh ID confusion),
// never retried or repaired.
var ErrInvalidID = arena.ErrInvalidHandle

// ErrMissingGeometry is returned by geometric queries on a mesh built
// without the corresponding payload. Callers may recover by taking a
// geometry-free code path.
var ErrMissingGeometry = errors.New("hemesh: mesh has no geometry payload")

// ErrCorruptTopology is returned when traversal discovers a violated
// connectivity invariant. It indicates a builder defect, not bad input;
// construction validates wholesale, so a successfully built mesh never
// produces it.
var ErrCorruptTopology = errors.New("hemesh: corrupt topology")

func corruptf(format string, args ...any) error {
	return fmt.Errorf("%w: "+format, append([]any{ErrCorruptTopology}, args...)...)
}

// DefectKind classifies one construction-time input defect.
type DefectKind int

const (
	// DegenerateTriangle is a face with a repeated vertex (possibly the
	// result of welding) or exactly zero area.
	DegenerateTriangle DefectKind = iota
	// NonManifoldEdge is an oriented edge claimed by more than one face.
	NonManifoldEdge
	// InconsistentOrientation is an undirected edge whose two incident
	// faces traverse it in the same direction, i.e. one face is wound
	// backwards relative to its neighbor.
	InconsistentOrientation
	// DisconnectedVertex is an input vertex referenced by no face, with
	// isolated vertices disallowed.
	DisconnectedVertex
	// NotClosed is an unmatched edge under Options.RequireClosed.
	NotClosed
	// InvalidIndex is an out-of-range vertex index in indexed input.
	InvalidIndex
)

func (k DefectKind) String() string {
	switch k {
	case DegenerateTriangle:
		return "degenerate-triangle"
	case NonManifoldEdge:
		return "non-manifold-edge"
	case InconsistentOrientation:
		return "inconsistent-orientation"
	case DisconnectedVertex:
		return "disconnected-vertex"
	case NotClosed:
		return "not-closed"
	case InvalidIndex:
		return "invalid-index"
	default:
		return fmt.Sprintf("DefectKind(%d)", int(k))
	}
}

// Defect describes a single input defect found during construction.
// Face is the input face index, or -1 for vertex-level defects. From/To
// name the offending directed edge by input vertex index (after welding),
// or are -1 when not edge-related.
type Defect struct {
	Kind     DefectKind
	Face     int
	From, To int
	Message  string
}

func (d Defect) Error() string {
	switch {
	case d.From >= 0 && d.Face >= 0:
		return fmt.Sprintf("[%s] face %d, edge %d->%d: %s", d.Kind, d.Face, d.From, d.To, d.Message)
	case d.From >= 0:
		return fmt.Sprintf("[%s] edge %d->%d: %s", d.Kind, d.From, d.To, d.Message)
	case d.Face >= 0:
		return fmt.Sprintf("[%s] face %d: %s", d.Kind, d.Face, d.Message)
	default:
		return fmt.Sprintf("[%s] %s", d.Kind, d.Message)
	}
}

// BuildError aggregates every defect found in one construction pass, so
// malformed input can be diagnosed in a single round trip. Construction
// never returns a partial mesh alongside it.
type BuildError struct {
	Defects []Defect
}

func (e *BuildError) Error() string {
	if len(e.Defects) == 1 {
		return "hemesh: build failed: " + e.Defects[0].Error()
	}
	var b strings.Builder
	fmt.Fprintf(&b, "hemesh: build failed with %d defects:", len(e.Defects))
	for _, d := range e.Defects {
		b.WriteString("\n\t")
		b.WriteString(d.Error())
	}
	return b.String()
}

// Has reports whether the error contains at least one defect of kind k.
func (e *BuildError) Has(k DefectKind) bool {
	for _, d := range e.Defects {
		if d.Kind == k {
			return true
		}
	}
	return false
}
