package flip

import (
	"github.com/notargets/tetremesh/geometry3D"
	"github.com/notargets/tetremesh/tetrahedra/c3t3"
)

/*
flip32 replaces the three cells around an edge by two cells sharing the facet of the three opposite vertices.

The first two cells of the ring are kept and rewritten: the first gets the opposite vertex it lacks in place of u,
the second gets the one it lacks in place of w. The third cell is deleted.
*/
func (fl *Flipper) flip32(r *c3t3.Ring, crit Criterion) Result {
	cx := fl.cx
	if r.Len() != 3 {
		return NotFlippable
	}
	var (
		ch0, ch1, rem = r.Cells[0], r.Cells[1], r.Cells[2]
		vh2, vh3      = r.Opposite[1], r.Opposite[2]
	)
	// Structural: the new facet must not exist already
	if _, exists := cx.IsFacet(r.Opposite[0], r.Opposite[1], r.Opposite[2]); exists {
		return NotFlippable
	}
	sd := cx.Subdomain(ch0)
	if sd != cx.Subdomain(ch1) || sd != cx.Subdomain(rem) {
		return NotFlippable
	}
	var (
		u0 = cx.Index(ch0, r.U)
		w1 = cx.Index(ch1, r.W)
	)
	if !cx.IsWellOrientedWith(ch0, u0, vh2) || !cx.IsWellOrientedWith(ch1, w1, vh3) {
		return NotFlippable
	}
	switch crit {
	case MinAngleBased:
		curr := fl.ringMaxCos(r)
		next := geometry3D.MaxCosine(fl.maxCosWith(ch0, u0, vh2), fl.maxCosWith(ch1, w1, vh3))
		if !next.Less(curr) {
			return NoBestConfiguration
		}
	case AverageAngleBased:
		var avg float64
		for _, c := range r.Cells {
			avg += cx.MinDihedralAngle(c)
		}
		avg /= 3
		newAvg := 0.5 * (fl.minAngleWith(ch0, u0, vh2) + fl.minAngleWith(ch1, w1, vh3))
		if avg > newAvg {
			return NoBestConfiguration
		}
	default:
		return NotFlippable
	}

	outer := fl.outerFacets(r)
	fl.visitor.BeforeFlip(rem)
	cx.SetVertex(ch0, u0, vh2)
	cx.SetVertex(ch1, w1, vh3)
	cells := []c3t3.CellHandle{ch0, ch1}
	fl.rewire(cells, outer)
	fl.updateComplexFacets(cells, outer)
	fl.deleteCell(rem)
	fl.Stats.Flips3to2++
	return fl.checkCells(cells)
}
