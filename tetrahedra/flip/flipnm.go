package flip

import (
	"container/heap"

	"github.com/notargets/tetremesh/geometry3D"
	"github.com/notargets/tetremesh/tetrahedra/c3t3"
)

type candidate struct {
	cos   geometry3D.DihedralAngleCosine
	apex  c3t3.VertexHandle
	order int
}

// candidateQueue is a min heap on the resulting worst cosine, ties go to the earlier candidate
type candidateQueue []candidate

func (q candidateQueue) Len() int { return len(q) }

func (q candidateQueue) Less(i, j int) bool {
	if c := q[i].cos.Compare(q[j].cos); c != 0 {
		return c < 0
	}
	return q[i].order < q[j].order
}

func (q candidateQueue) Swap(i, j int) { q[i], q[j] = q[j], q[i] }

func (q *candidateQueue) Push(x interface{}) { *q = append(*q, x.(candidate)) }

func (q *candidateQueue) Pop() interface{} {
	old := *q
	n := len(old)
	c := old[n-1]
	*q = old[:n-1]
	return c
}

// linksRing is true when apex, at ring position k, already has an edge to an opposite vertex other than its
// two ring neighbors. Folding the ring onto apex would duplicate that edge.
func (fl *Flipper) linksRing(r *c3t3.Ring, k int) bool {
	var (
		n    = r.Len()
		apex = r.Opposite[k]
	)
	for j := 0; j < n; j++ {
		if d := r.Mod(j - k); d == 0 || d == 1 || d == n-1 {
			continue
		}
		if _, ok := fl.cache.IsEdgeUV(apex, r.Opposite[j]); ok {
			return true
		}
	}
	return false
}

/*
nmCandidates scores every legal apex of the ring. The cells of the ring not holding the apex are each split in two
by the apex: one copy with the apex in place of w, the cell itself with the apex in place of u. The score is the
worst cosine over those cells, and only apexes that beat curr are queued.

With two boundary vertices only those are tried and only the cells of the complex are scored.
*/
func (fl *Flipper) nmCandidates(r *c3t3.Ring, boundary []c3t3.VertexHandle, curr geometry3D.DihedralAngleCosine) (q *candidateQueue) {
	var (
		cx      = fl.cx
		onlyTwo = len(boundary) == 2
		apexes  []int
	)
	q = &candidateQueue{}
	if r.Len() < 4 {
		return
	}
	for k, vh := range r.Opposite {
		if onlyTwo && vh != boundary[0] && vh != boundary[1] {
			continue
		}
		if cx.IsInfiniteVertex(vh) || fl.linksRing(r, k) {
			continue
		}
		apexes = append(apexes, k)
	}
	for order, k := range apexes {
		var (
			vh    = r.Opposite[k]
			worst = geometry3D.MinusOne()
			keep  = true
		)
	scoring:
		for _, c := range r.Cells {
			if cx.HasVertex(c, vh) || cx.IsInfiniteCell(c) {
				continue
			}
			if onlyTwo && !cx.IsCellInComplex(c) {
				continue
			}
			for _, x := range [2]c3t3.VertexHandle{r.W, r.U} {
				i := cx.Index(c, x)
				if !cx.IsWellOrientedWith(c, i, vh) {
					keep = false
					break scoring
				}
				worst = geometry3D.MaxCosine(worst, fl.maxCosWith(c, i, vh))
				if worst.IsOne() {
					keep = false
					break scoring
				}
			}
		}
		if keep && worst.Less(curr) {
			heap.Push(q, candidate{cos: worst, apex: vh, order: order})
		}
	}
	return
}

// flipNtoM tries the queued apexes best first and commits the first one that passes the commit checks
func (fl *Flipper) flipNtoM(r *c3t3.Ring, boundary []c3t3.VertexHandle, crit Criterion) (result Result) {
	result = NotFlippable
	if crit != MinAngleBased {
		return
	}
	var (
		curr = fl.ringMaxCos(r)
		q    = fl.nmCandidates(r, boundary, curr)
	)
	for q.Len() > 0 {
		c := heap.Pop(q).(candidate)
		if !c.cos.Less(curr) {
			return NoBestConfiguration
		}
		if result = fl.commitNtoM(r, c.apex); result != NotFlippable {
			return
		}
	}
	return
}

/*
commitNtoM folds the ring onto apex. The two cells holding apex are deleted, every other cell c gets a new copy with
apex in place of w and is itself rewritten with apex in place of u. Tagged facets around the edge are dropped with it.
*/
func (fl *Flipper) commitNtoM(r *c3t3.Ring, apex c3t3.VertexHandle) Result {
	cx := fl.cx
	k := r.OppositeIndex(apex)
	if k < 0 || fl.linksRing(r, k) {
		return NotFlippable
	}
	var toRemove, toSplit []c3t3.CellHandle
	for _, c := range r.Cells {
		if cx.HasVertex(c, apex) {
			toRemove = append(toRemove, c)
		} else {
			toSplit = append(toSplit, c)
		}
	}
	for _, c := range toSplit {
		if cx.IsInfiniteCell(c) {
			continue
		}
		if !cx.IsWellOrientedWith(c, cx.Index(c, r.W), apex) || !cx.IsWellOrientedWith(c, cx.Index(c, r.U), apex) {
			return NotFlippable
		}
	}

	outer := fl.outerFacets(r)
	for _, f := range r.Facets {
		if cx.IsFacetInComplex(f) {
			cx.RemoveFacetFromComplex(f)
		}
	}
	for _, c := range toRemove {
		fl.visitor.BeforeFlip(c)
	}
	cells := make([]c3t3.CellHandle, 0, 2*len(toSplit))
	for _, c := range toSplit {
		cells = append(cells, fl.newCellFrom(c, cx.Index(c, r.W), apex))
	}
	for _, c := range toSplit {
		cx.SetVertex(c, cx.Index(c, r.U), apex)
		cells = append(cells, c)
	}
	fl.rewire(cells, outer)
	fl.updateComplexFacets(cells, outer)
	for _, c := range toRemove {
		fl.deleteCell(c)
	}
	fl.Stats.FlipsNtoM++
	return fl.checkCells(cells)
}
