package c3t3

import "fmt"

/*
Ring is the cyclic sequence of cells around an edge (U, W).

Cells[k] has vertices {U, W, Opposite[k-1], Opposite[k]} and Facets[k] is the facet {U, W, Opposite[k]},
seen from Cells[k] and shared with Cells[k+1]. All indices are taken modulo Len().
*/
type Ring struct {
	U, W     VertexHandle
	Cells    []CellHandle
	Facets   []Facet
	Opposite []VertexHandle
}

func (r Ring) Len() int { return len(r.Cells) }

// Mod folds a ring position into [0, Len())
func (r Ring) Mod(k int) int {
	n := len(r.Cells)
	return ((k % n) + n) % n
}

// OppositeIndex returns the ring position of v, or -1
func (r Ring) OppositeIndex(v VertexHandle) int {
	for k, o := range r.Opposite {
		if o == v {
			return k
		}
	}
	return -1
}

const maxRingSize = 1 << 12

// Ring circulates around the edge e
func (tr *Triangulation) Ring(e Edge) (r Ring) {
	var (
		c    = e.Cell
		u, w = tr.EdgeVertices(e)
		a    VertexHandle
	)
	r.U, r.W = u, w
	for k := 0; k < 4; k++ {
		if k != e.I && k != e.J {
			a = tr.Vertex(c, k)
			break
		}
	}
	start := c
	for {
		if len(r.Cells) > maxRingSize {
			panic(fmt.Errorf("edge %v-%v: ring does not close after %d cells", u, w, maxRingSize))
		}
		r.Cells = append(r.Cells, c)
		ai := tr.Index(c, a)
		var lv VertexHandle
		for k, v := range tr.Vertices(c) {
			if k != ai && v != u && v != w {
				lv = v
			}
		}
		r.Facets = append(r.Facets, Facet{Cell: c, Index: ai})
		r.Opposite = append(r.Opposite, lv)
		c, a = tr.Neighbor(c, ai), lv
		if c == start {
			break
		}
	}
	return
}
