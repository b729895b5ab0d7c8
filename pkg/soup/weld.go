package soup

import (
	"math"

	v3 "github.com/deadsy/sdfx/vec/v3"
)

// cellKey addresses one bucket of the welding grid. Coordinates are
// quantized by the grid cell size.
type cellKey struct {
	x, y, z int64
}

// weldGrid is a spatial hash over quantized coordinates. Cell size equals
// the welding tolerance, so any two positions within tolerance of each
// other land in the same cell or in one of its 26 neighbors.
type weldGrid struct {
	cell    float64
	tol     float64
	buckets map[cellKey][]int // welded vertex indices per cell
	verts   []v3.Vec          // welded vertices, first-seen order
}

func newWeldGrid(tol float64) *weldGrid {
	cell := tol
	if cell <= 0 {
		cell = 1 // exact matching; quantization still buckets identical points together
	}
	return &weldGrid{
		cell:    cell,
		tol:     tol,
		buckets: make(map[cellKey][]int),
	}
}

func (g *weldGrid) key(p v3.Vec) cellKey {
	return cellKey{
		x: int64(math.Floor(p.X / g.cell)),
		y: int64(math.Floor(p.Y / g.cell)),
		z: int64(math.Floor(p.Z / g.cell)),
	}
}

// insert returns the index of the welded vertex for p, merging p with the
// first previously seen vertex within tolerance, or appending a new one.
func (g *weldGrid) insert(p v3.Vec) int {
	k := g.key(p)
	best := -1
	for dx := int64(-1); dx <= 1; dx++ {
		for dy := int64(-1); dy <= 1; dy++ {
			for dz := int64(-1); dz <= 1; dz++ {
				nk := cellKey{k.x + dx, k.y + dy, k.z + dz}
				for _, i := range g.buckets[nk] {
					if g.within(g.verts[i], p) && (best == -1 || i < best) {
						best = i
					}
				}
			}
		}
	}
	if best >= 0 {
		return best
	}
	i := len(g.verts)
	g.verts = append(g.verts, p)
	g.buckets[k] = append(g.buckets[k], i)
	return i
}

func (g *weldGrid) within(a, b v3.Vec) bool {
	if g.tol <= 0 {
		return a == b
	}
	return a.Sub(b).Length() <= g.tol
}

// Weld merges soup corner positions that lie within tol of each other and
// returns the welded vertex list, one index triple per input triangle, and
// the input facet normals (parallel to the face list). Two positions merge
// iff their distance is at most tol; ties go to the first-seen vertex, so
// the result is deterministic and input-order-stable. A tol <= 0 welds
// only bitwise-identical positions.
func Weld(s Soup, tol float64) (verts []v3.Vec, faces [][3]int, normals []v3.Vec) {
	g := newWeldGrid(tol)
	faces = make([][3]int, len(s))
	normals = make([]v3.Vec, len(s))
	for i, t := range s {
		faces[i] = [3]int{g.insert(t.A), g.insert(t.B), g.insert(t.C)}
		normals[i] = t.Normal
	}
	return g.verts, faces, normals
}
