package c3t3

import (
	"errors"
	"fmt"

	"github.com/notargets/tetremesh/types"
)

var (
	ErrInvalidCell        = errors.New("invalid cell")
	ErrInvalidVertex      = errors.New("invalid vertex")
	ErrInvalidOrientation = errors.New("invalid orientation")
	ErrDuplicateEdge      = errors.New("duplicate edge")
	ErrInvalidComplex     = errors.New("invalid complex tag")
)

// CheckCell verifies the local invariants of a live cell: distinct vertices, reciprocal neighbors sharing
// the facet vertices, symmetric patch tags, live vertex back references and positive orientation
func (tr *Triangulation) CheckCell(c CellHandle) (err error) {
	if !tr.IsAlive(c) {
		return fmt.Errorf("cell %v is not alive: %w", c, ErrInvalidCell)
	}
	cc := &tr.cells[c.Index]
	for i := 0; i < 4; i++ {
		v := cc.verts[i]
		if v.IsNull() || v.Index >= len(tr.vertices) || tr.vertices[v.Index].gen != v.Gen {
			return fmt.Errorf("cell %v slot %d holds an invalid vertex %v: %w", c, i, v, ErrInvalidCell)
		}
		for j := i + 1; j < 4; j++ {
			if cc.verts[j] == v {
				return fmt.Errorf("cell %v repeats vertex %v: %w", c, v, ErrInvalidCell)
			}
		}
	}
	for i := 0; i < 4; i++ {
		n := cc.neighbors[i]
		if !tr.IsAlive(n) {
			return fmt.Errorf("cell %v neighbor %d is %v: %w", c, i, n, ErrInvalidCell)
		}
		nc := &tr.cells[n.Index]
		back := -1
		for j := 0; j < 4; j++ {
			if nc.neighbors[j] == c {
				back = j
			}
		}
		if back < 0 {
			return fmt.Errorf("cell %v is not a neighbor of its neighbor %v: %w", c, n, ErrInvalidCell)
		}
		if tr.FacetKey(Facet{Cell: c, Index: i}) != tr.FacetKey(Facet{Cell: n, Index: back}) {
			return fmt.Errorf("cells %v and %v do not share facet vertices: %w", c, n, ErrInvalidCell)
		}
		if cc.patches[i] != nc.patches[back] {
			return fmt.Errorf("facet %d of cell %v has patch %d, its mirror has %d: %w",
				i, c, cc.patches[i], nc.patches[back], ErrInvalidComplex)
		}
	}
	for _, v := range cc.verts {
		vc := tr.vertices[v.Index].cell
		if !tr.IsAlive(vc) || !tr.HasVertex(vc, v) {
			return fmt.Errorf("vertex %v refers to cell %v: %w", v, vc, ErrInvalidVertex)
		}
	}
	if !tr.IsInfiniteCell(c) && !tr.IsWellOriented(c) {
		return fmt.Errorf("cell %v has volume %.6g: %w", c, tr.SignedVolume(c), ErrInvalidOrientation)
	}
	return
}

// IsValid checks every cell, every vertex back reference and that the cells around every vertex pair
// form a single ring
func (cx *Complex) IsValid() (err error) {
	cells := cx.AllCells()
	for _, c := range cells {
		if err = cx.CheckCell(c); err != nil {
			return
		}
	}
	for i := range cx.vertices {
		vc := cx.vertices[i].cell
		if vc.IsNull() {
			continue
		}
		if v := (VertexHandle{Index: i, Gen: cx.vertices[i].gen}); !cx.IsAlive(vc) || !cx.HasVertex(vc, v) {
			return fmt.Errorf("vertex %v refers to cell %v: %w", v, vc, ErrInvalidVertex)
		}
	}
	pairCount := make(map[types.EdgeKey]int)
	for _, c := range cells {
		verts := cx.Vertices(c)
		for i := 0; i < 3; i++ {
			for j := i + 1; j < 4; j++ {
				pairCount[types.NewEdgeKey([2]int{verts[i].Index, verts[j].Index})]++
			}
		}
	}
	for _, e := range cx.FiniteEdges() {
		u, w := cx.EdgeVertices(e)
		key := types.NewEdgeKey([2]int{u.Index, w.Index})
		if n := cx.Ring(e).Len(); n != pairCount[key] {
			return fmt.Errorf("edge %v-%v has %d cells in its ring and %d cells containing it: %w",
				u, w, n, pairCount[key], ErrDuplicateEdge)
		}
	}
	for key := range cx.curves {
		verts := key.GetVertices(false)
		if pairCount[key] == 0 {
			return fmt.Errorf("feature edge %d-%d is not an edge of the triangulation: %w",
				verts[0], verts[1], ErrInvalidComplex)
		}
	}
	return
}
