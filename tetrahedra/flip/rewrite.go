package flip

import (
	"github.com/notargets/tetremesh/geometry3D"
	"github.com/notargets/tetremesh/tetrahedra/c3t3"
	"github.com/notargets/tetremesh/types"
)

// outerFacets returns the facets of the cells outside the ring that face the ring cells across the facets
// opposite u and w. These bound the region a flip rewrites.
func (fl *Flipper) outerFacets(r *c3t3.Ring) (outer []c3t3.Facet) {
	cx := fl.cx
	outer = make([]c3t3.Facet, 0, 2*r.Len())
	for _, c := range r.Cells {
		outer = append(outer,
			cx.MirrorFacet(c3t3.Facet{Cell: c, Index: cx.Index(c, r.U)}),
			cx.MirrorFacet(c3t3.Facet{Cell: c, Index: cx.Index(c, r.W)}))
	}
	return
}

/*
rewire rebuilds the adjacency of the rewritten cells. Facets are matched through a map keyed by their vertex
triple, seeded with the outer facets: a facet of a rewritten cell either matches one of them, matches a facet
of another rewritten cell, or is left unmatched (a bug, caught by CheckCell). Vertex back references are moved
onto the rewritten cells and the cache entries of their vertices are invalidated.
*/
func (fl *Flipper) rewire(cells []c3t3.CellHandle, outer []c3t3.Facet) {
	var (
		cx    = fl.cx
		faces = make(map[types.TriKey]c3t3.Facet, len(outer)+4*len(cells))
	)
	for _, f := range outer {
		key := types.NewTriKey(cx.FacetKey(f))
		if _, ok := faces[key]; !ok {
			faces[key] = f
		}
	}
	for _, c := range cells {
		for i := 0; i < 4; i++ {
			f := c3t3.Facet{Cell: c, Index: i}
			key := types.NewTriKey(cx.FacetKey(f))
			if mf, ok := faces[key]; ok {
				cx.SetNeighbor(mf.Cell, mf.Index, c)
				cx.SetNeighbor(c, i, mf.Cell)
			} else {
				faces[key] = f
			}
			v := cx.Vertex(c, i)
			cx.SetVertexCell(v, c)
			fl.cache.Invalidate(v)
		}
		cx.ResetCacheValidity(c)
	}
}

/*
updateComplexFacets fixes the surface patches of the rewritten cells after rewire. On the border of the rewritten
region the tag held by the outer facet is copied inward, inside the region every tag is cleared.
*/
func (fl *Flipper) updateComplexFacets(cells []c3t3.CellHandle, outer []c3t3.Facet) {
	var (
		cx      = fl.cx
		isOuter = make(map[c3t3.Facet]bool, len(outer))
	)
	for _, f := range outer {
		isOuter[f] = true
	}
	for _, c := range cells {
		for i := 0; i < 4; i++ {
			f := c3t3.Facet{Cell: c, Index: i}
			mf := cx.MirrorFacet(f)
			if isOuter[mf] {
				cx.SetSurfacePatchIndex(f, cx.SurfacePatchIndex(mf))
				continue
			}
			if cx.IsFacetInComplex(f) || cx.IsFacetInComplex(mf) {
				cx.SetSurfacePatchIndex(f, 0)
				cx.SetSurfacePatchIndex(mf, 0)
			}
		}
	}
}

// maxCosWith is the worst dihedral cosine of c with its vertex i replaced by v, the cell is not modified
func (fl *Flipper) maxCosWith(c c3t3.CellHandle, i int, v c3t3.VertexHandle) geometry3D.DihedralAngleCosine {
	p := fl.cx.Points(c)
	p[i] = fl.cx.Point(v)
	return geometry3D.MaxCosDihedralAngle(p[0], p[1], p[2], p[3])
}

func (fl *Flipper) minAngleWith(c c3t3.CellHandle, i int, v c3t3.VertexHandle) float64 {
	p := fl.cx.Points(c)
	p[i] = fl.cx.Point(v)
	return geometry3D.MinDihedralAngle(p[0], p[1], p[2], p[3])
}

// ringMaxCos is the worst dihedral cosine over the cells of the ring, read through the cell cache
func (fl *Flipper) ringMaxCos(r *c3t3.Ring) (worst geometry3D.DihedralAngleCosine) {
	worst = geometry3D.MinusOne()
	for _, c := range r.Cells {
		worst = geometry3D.MaxCosine(worst, fl.cx.MaxCosDihedralAngle(c))
	}
	return
}
