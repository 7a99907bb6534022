package flip

import "github.com/notargets/tetremesh/tetrahedra/c3t3"

/*
FindBestFlip picks and applies the flip of e that improves the worst dihedral angle around it the most.

Edges of the complex and edges on the convex hull are never flipped. The vertices opposite e across a facet that
separates two subdomains are boundary vertices: with more than two the edge is left alone, with two the n-to-m flip
is restricted to them. A ring of three cells with no boundary vertex takes the 3-2 flip. The flip is scored with the criterion of
the flipper options.
*/
func (fl *Flipper) FindBestFlip(e c3t3.Edge) Result { return fl.findBestFlip(e, fl.opts.Criterion) }

func (fl *Flipper) findBestFlip(e c3t3.Edge, crit Criterion) Result {
	cx := fl.cx
	if cx.IsEdgeInComplex(e) {
		return fl.record(NotFlippable)
	}
	var (
		r        = cx.Ring(e)
		boundary []c3t3.VertexHandle
		hull     = cx.IsInfiniteEdge(e)
	)
	for k, f := range r.Facets {
		n := cx.Neighbor(f.Cell, f.Index)
		if cx.Subdomain(f.Cell) != cx.Subdomain(n) && !containsVertex(boundary, r.Opposite[k]) {
			boundary = append(boundary, r.Opposite[k])
		}
		if cx.IsInfiniteCell(f.Cell) != cx.IsInfiniteCell(n) {
			hull = true
		}
	}
	if len(boundary) > 2 {
		return fl.record(NotFlippable)
	}
	if hull {
		fl.Stats.SkippedHullEdges++
		return fl.record(NotFlippable)
	}
	if r.Len() == 3 {
		if len(boundary) != 0 {
			return fl.record(NotFlippable)
		}
		return fl.record(fl.flip32(&r, crit))
	}
	return fl.record(fl.flipNtoM(&r, boundary, crit))
}

func containsVertex(vs []c3t3.VertexHandle, v c3t3.VertexHandle) bool {
	for _, x := range vs {
		if x == v {
			return true
		}
	}
	return false
}
