package flip

import "github.com/notargets/tetremesh/tetrahedra/c3t3"

/*
FlipOnSurface swaps the edge e for the edge v0-v1 where e lies on a tagged surface. v0 and v1 are the third vertices
of the two tagged facets around e.

On a ring of four cells this is a 4-4 flip. With A, B the target vertices and C, D the two others, the ring is
A C B D around e = (u, w). The surface runs through u-w-A and u-w-B and afterwards through A-B-u and A-B-w.
The flip is planar when the target pair is the first and third opposite vertex of the ring, perpendicular otherwise.
Longer rings are handed to the n-to-m flip restricted to v0 and v1.

The candidate cells are evaluated before anything is written, a rejected flip leaves the complex untouched.
*/
func (fl *Flipper) FlipOnSurface(e c3t3.Edge, v0, v1 c3t3.VertexHandle) Result {
	var (
		cx = fl.cx
		r  = cx.Ring(e)
	)
	for _, c := range r.Cells {
		if cx.IsInfiniteCell(c) {
			return fl.record(NotFlippable)
		}
	}
	if cx.IsEdgeInComplex(e) {
		return fl.record(NotFlippable)
	}
	if r.Len() != 4 {
		fl.Stats.SurfaceNMConfigs++
		if r.Len() > 4 {
			return fl.record(fl.flipNtoM(&r, []c3t3.VertexHandle{v0, v1}, MinAngleBased))
		}
		return fl.record(NotFlippable)
	}
	fl.Stats.Surface44Configs++
	return fl.record(fl.flip44(&r, v0, v1))
}

func (fl *Flipper) flip44(r *c3t3.Ring, v0, v1 c3t3.VertexHandle) Result {
	cx := fl.cx
	shift := -1
	for s := 0; s < 2; s++ {
		a, b := r.Opposite[s], r.Opposite[s+2]
		if (a == v0 && b == v1) || (a == v1 && b == v0) {
			shift = s
			break
		}
	}
	if shift < 0 {
		return NotFlippable
	}
	var (
		A, B = r.Opposite[shift], r.Opposite[shift+2]
		D    = r.Opposite[r.Mod(shift+3)]
		X    [4]c3t3.CellHandle
	)
	for i := range X {
		X[i] = r.Cells[r.Mod(shift+i)]
	}
	// X0 = uwDA, X1 = uwAC, X2 = uwCB, X3 = uwBD
	var (
		surf0 = c3t3.Facet{Cell: X[0], Index: cx.Index(X[0], D)} // u w A
		surf1 = c3t3.Facet{Cell: X[3], Index: cx.Index(X[3], D)} // u w B
	)
	if !cx.IsFacetInComplex(surf0) || !cx.IsFacetInComplex(surf1) {
		return NotFlippable
	}
	// the facets u w C and u w D are removed by the flip and must carry no tag
	for s, f := range r.Facets {
		if s != shift && s != shift+2 && cx.IsFacetInComplex(f) {
			return NotFlippable
		}
	}
	var (
		patch0, patch1 = cx.SurfacePatchIndex(surf0), cx.SurfacePatchIndex(surf1)
		slots          [4]int
		apex           = [4]c3t3.VertexHandle{B, B, A, A}
	)
	for i, c := range X {
		if i < 2 {
			slots[i] = cx.Index(c, r.U)
		} else {
			slots[i] = cx.Index(c, r.W)
		}
	}
	for i, c := range X {
		if !cx.IsWellOrientedWith(c, slots[i], apex[i]) {
			return NotFlippable
		}
	}
	curr := fl.ringMaxCos(r)
	for i, c := range X {
		if curr.Less(fl.maxCosWith(c, slots[i], apex[i])) {
			return NoBestConfiguration
		}
	}

	outer := fl.outerFacets(r)
	cx.RemoveFacetFromComplex(surf0)
	cx.RemoveFacetFromComplex(surf1)
	for i, c := range X {
		cx.SetVertex(c, slots[i], apex[i])
	}
	fl.rewire(X[:], outer)
	fl.updateComplexFacets(X[:], outer)
	// the surface now runs through A B w (X0 = ABwD) and A B u (X3 = uABD)
	cx.AddFacetToComplex(c3t3.Facet{Cell: X[0], Index: cx.Index(X[0], D)}, patch0)
	cx.AddFacetToComplex(c3t3.Facet{Cell: X[3], Index: cx.Index(X[3], D)}, patch1)

	fl.Stats.FlipsSurface++
	if shift == 0 {
		fl.Stats.PlanarSurfaceFlips++
	} else {
		fl.Stats.PerpendicularSurfaceFlips++
	}
	return fl.checkCells(X[:])
}

// surfaceCost is the squared deviation of the four valences from their targets
func surfaceCost(vals, targets [4]int) (cost int) {
	for i := range vals {
		d := vals[i] - targets[i]
		cost += d * d
	}
	return
}
