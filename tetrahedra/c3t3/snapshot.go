package c3t3

import (
	"github.com/notargets/tetremesh/geometry3D"
	"github.com/notargets/tetremesh/types"
)

// TaggedFacets maps the vertex triple of every facet in the complex to its patch
func (cx *Complex) TaggedFacets() (tags map[[3]int]int) {
	tags = make(map[[3]int]int)
	for _, f := range cx.FacetsInComplex() {
		tags[cx.FacetKey(f)] = cx.SurfacePatchIndex(f)
	}
	return
}

// TaggedEdges maps every edge in the complex to its curve
func (cx *Complex) TaggedEdges() (tags map[types.EdgeKey]int) {
	tags = make(map[types.EdgeKey]int, len(cx.curves))
	for k, v := range cx.curves {
		tags[k] = v
	}
	return
}

/*
Snapshot is a deep copy of the combinatorial state of a complex: vertex records, cell records and
the complex overlay. Cached cell qualities are derived data and are left out.
*/
type Snapshot struct {
	vertices  []vertex
	cells     []cell
	freeCells []int
	curves    map[types.EdgeKey]int
}

func (cx *Complex) Snapshot() (s *Snapshot) {
	s = &Snapshot{
		vertices:  append([]vertex(nil), cx.vertices...),
		cells:     append([]cell(nil), cx.cells...),
		freeCells: append([]int(nil), cx.freeCells...),
		curves:    cx.TaggedEdges(),
	}
	for i := range s.cells {
		s.cells[i].quality = geometry3D.DihedralAngleCosine{}
		s.cells[i].qualityValid = false
	}
	return
}

func (s *Snapshot) Equal(o *Snapshot) bool {
	if len(s.vertices) != len(o.vertices) || len(s.cells) != len(o.cells) ||
		len(s.freeCells) != len(o.freeCells) || len(s.curves) != len(o.curves) {
		return false
	}
	for i := range s.vertices {
		if s.vertices[i] != o.vertices[i] {
			return false
		}
	}
	for i := range s.cells {
		if s.cells[i] != o.cells[i] {
			return false
		}
	}
	for i := range s.freeCells {
		if s.freeCells[i] != o.freeCells[i] {
			return false
		}
	}
	for k, v := range s.curves {
		if ov, ok := o.curves[k]; !ok || ov != v {
			return false
		}
	}
	return true
}
