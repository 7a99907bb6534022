package flip

import (
	"fmt"
	"log"

	"github.com/notargets/tetremesh/InputParameters"
	"github.com/notargets/tetremesh/tetrahedra/c3t3"
)

type vertexPair [2]c3t3.VertexHandle

/*
BoundaryValences holds the boundary edges of a complex and, per vertex and surface patch, the number of boundary
edges counted at that vertex. Incident subdomains are gathered lazily per vertex.
*/
type BoundaryValences struct {
	Edges      []c3t3.Edge
	valences   map[c3t3.VertexHandle]map[int]int
	subdomains map[c3t3.VertexHandle][]int
}

func (bv *BoundaryValences) Valence(v c3t3.VertexHandle, patch int) int { return bv.valences[v][patch] }

func (bv *BoundaryValences) add(v c3t3.VertexHandle, patch, delta int) {
	m, ok := bv.valences[v]
	if !ok {
		m = make(map[int]int)
		bv.valences[v] = m
	}
	m[patch] += delta
}

func (fl *Flipper) incidentSubdomains(bv *BoundaryValences, v c3t3.VertexHandle) []int {
	sds, ok := bv.subdomains[v]
	if !ok {
		sds = fl.cx.IncidentSubdomains(v)
		bv.subdomains[v] = sds
	}
	return sds
}

// targetValence is 4 for a vertex where more than two subdomains meet and 6 otherwise
func (fl *Flipper) targetValence(bv *BoundaryValences, v c3t3.VertexHandle) int {
	if len(fl.incidentSubdomains(bv, v)) > 2 {
		return 4
	}
	return 6
}

/*
CollectBoundaryEdges lists the finite edges on a tagged facet or on the border of the selection and counts the
valences of their endpoints. Between two vertices that each see more than two subdomains every tagged facet around
the edge counts once for its patch, otherwise the patch of the endpoint lying on a single interface is used.
*/
func (fl *Flipper) CollectBoundaryEdges() (bv *BoundaryValences) {
	cx := fl.cx
	bv = &BoundaryValences{
		valences:   make(map[c3t3.VertexHandle]map[int]int),
		subdomains: make(map[c3t3.VertexHandle][]int),
	}
	for _, e := range cx.FiniteEdges() {
		if cx.IsBoundaryEdge(e, fl.selector) {
			bv.Edges = append(bv.Edges, e)
		}
	}
	for _, e := range bv.Edges {
		v0, v1 := cx.EdgeVertices(e)
		n0, n1 := len(fl.incidentSubdomains(bv, v0)), len(fl.incidentSubdomains(bv, v1))
		switch {
		case n0 > 2 && n1 > 2:
			r := cx.Ring(e)
			for _, f := range r.Facets {
				if patch := cx.SurfacePatchIndex(f); patch != 0 {
					bv.add(v0, patch, 1)
					bv.add(v1, patch, 1)
				}
			}
		case n0 == 2:
			patch := cx.VertexSurfacePatchIndex(v0)
			bv.add(v0, patch, 1)
			bv.add(v1, patch, 1)
		case n1 == 2:
			patch := cx.VertexSurfacePatchIndex(v1)
			bv.add(v0, patch, 1)
			bv.add(v1, patch, 1)
		}
	}
	return
}

/*
FlipBoundaryEdges runs the surface flips of the boundary pass. An edge qualifies when it is not a feature edge, has
exactly two tagged facets around it, and the third vertices vh2 and vh3 of those facets are not already joined.
The flip is tried only when it strictly lowers the squared deviation of the four valences from their targets.
*/
func (fl *Flipper) FlipBoundaryEdges(bv *BoundaryValences) (nFlips int, err error) {
	cx := fl.cx
	pairs := make([]vertexPair, 0, len(bv.Edges))
	for _, e := range bv.Edges {
		if cx.IsEdgeInComplex(e) {
			continue
		}
		u, w := cx.EdgeVertices(e)
		pairs = append(pairs, vertexPair{u, w})
	}
	for _, vp := range pairs {
		vh0, vh1 := vp[0], vp[1]
		e, ok := fl.cache.IsEdgeUV(vh0, vh1)
		if !ok {
			continue
		}
		var (
			r      = cx.Ring(e)
			tagged []int
			surfi  int
		)
		for k, f := range r.Facets {
			if patch := cx.SurfacePatchIndex(f); patch != 0 {
				tagged = append(tagged, k)
				surfi = patch
			}
		}
		if len(tagged) != 2 {
			continue
		}
		vh2, vh3 := r.Opposite[tagged[0]], r.Opposite[tagged[1]]
		if _, joined := cx.IsEdge(vh2, vh3); joined {
			continue
		}
		fl.Stats.SurfaceFlipCandidates++
		var (
			quad    = [4]c3t3.VertexHandle{vh0, vh1, vh2, vh3}
			delta   = [4]int{-1, -1, 1, 1}
			before  [4]int
			after   [4]int
			targets [4]int
		)
		for i, v := range quad {
			before[i] = bv.Valence(v, surfi)
			after[i] = before[i] + delta[i]
			targets[i] = fl.targetValence(bv, v)
		}
		if surfaceCost(before, targets) <= surfaceCost(after, targets) {
			continue
		}
		res := fl.FlipOnSurface(e, vh2, vh3)
		switch {
		case res == ValidFlip:
			for _, v := range [2]c3t3.VertexHandle{vh0, vh1} {
				f, found := cx.IsFacet(vh2, vh3, v)
				if !found {
					err = fmt.Errorf("surface flip %v-%v to %v-%v left no facet %v-%v-%v: %w",
						vh0, vh1, vh2, vh3, vh2, vh3, v, ErrConsistency)
					return
				}
				cx.AddFacetToComplex(f, surfi)
			}
			for i, v := range quad {
				bv.add(v, surfi, delta[i])
			}
			nFlips++
			fl.Stats.Flips++
			fl.Stats.BoundaryFlips++
			if fl.opts.Verbose {
				log.Printf("surface flip %v-%v to %v-%v on patch %d", vh0, vh1, vh2, vh3, surfi)
			}
		case res.IsFatal():
			err = fmt.Errorf("surface flip of edge %v-%v: %s: %w", vh0, vh1, res, ErrConsistency)
			return
		}
	}
	return
}

// FlipInteriorEdges tries the best min angle flip of every selected edge off the boundary, in the order they are
// listed. The criterion of the options only applies to direct FindBestFlip calls.
func (fl *Flipper) FlipInteriorEdges() (nFlips int, err error) {
	var (
		cx    = fl.cx
		pairs []vertexPair
	)
	for _, e := range cx.FiniteEdges() {
		if cx.IsBoundaryEdge(e, fl.selector) || !cx.IsSelectedEdge(e, fl.selector) {
			continue
		}
		u, w := cx.EdgeVertices(e)
		pairs = append(pairs, vertexPair{u, w})
	}
	fl.Stats.InteriorEdges += len(pairs)
	for _, vp := range pairs {
		e, ok := fl.cache.IsEdgeUV(vp[0], vp[1])
		if !ok {
			continue
		}
		res := fl.findBestFlip(e, MinAngleBased)
		if res.IsFatal() {
			err = fmt.Errorf("flip of edge %v-%v: %s: %w", vp[0], vp[1], res, ErrConsistency)
			return
		}
		if res == ValidFlip {
			nFlips++
			fl.Stats.Flips++
			fl.Stats.InteriorFlips++
			if fl.opts.Verbose && nFlips%1000 == 0 {
				log.Printf("%d interior flips", nFlips)
			}
		}
	}
	return
}

/*
Pass runs the boundary pass, unless boundaries are protected, then the interior pass. Cached cell qualities are
reset at the end. A consistency failure stops the pass at once, the flips done so far are counted in Stats.
*/
func (fl *Flipper) Pass(protectBoundaries bool) (nFlips int, err error) {
	var (
		n              int
		builds0, hits0 = fl.cache.Builds, fl.cache.Hits
	)
	defer func() {
		for _, c := range fl.cx.AllCells() {
			fl.cx.ResetCacheValidity(c)
		}
		fl.Stats.CacheBuilds += fl.cache.Builds - builds0
		fl.Stats.CacheHits += fl.cache.Hits - hits0
	}()
	if !protectBoundaries {
		bv := fl.CollectBoundaryEdges()
		fl.Stats.BoundaryEdges += len(bv.Edges)
		if fl.opts.Verbose {
			log.Printf("Boundary flips: %d boundary edges", len(bv.Edges))
		}
		n, err = fl.FlipBoundaryEdges(bv)
		nFlips += n
		if err != nil {
			return
		}
	}
	if fl.opts.Verbose {
		log.Printf("Interior flips")
	}
	n, err = fl.FlipInteriorEdges()
	nFlips += n
	if fl.opts.Verbose && err == nil {
		log.Printf("Flip pass done, %d flips", nFlips)
	}
	return
}

// FlipEdges runs a single flip pass over the complex
func FlipEdges(cx *c3t3.Complex, protectBoundaries bool, selector CellSelector, visitor Visitor,
	opts ...Option) (stats *Stats, err error) {
	var fl *Flipper
	if fl, err = NewFlipper(cx, selector, visitor, opts...); err != nil {
		return
	}
	_, err = fl.Pass(protectBoundaries)
	fl.Stats.Valence = ComputeValenceStats(cx.Triangulation)
	stats = fl.Stats
	return
}

/*
Run applies the flip parameters to the complex: it tags the subdomain interfaces when asked, then repeats flip passes
until a pass commits no flip or MaxPasses is reached.
*/
func Run(cx *c3t3.Complex, fp *InputParameters.FlipParameters) (stats *Stats, err error) {
	var (
		crit     Criterion
		selector CellSelector = InComplex{}
		fl       *Flipper
	)
	if crit, err = ParseCriterion(fp.Criterion); err != nil {
		return
	}
	if len(fp.SelectedSubdomains) != 0 {
		selector = NewSubdomainSelector(fp.SelectedSubdomains...)
	}
	if fp.TagInterfaces {
		n := cx.TagSubdomainInterfaces()
		if fp.Verbose {
			log.Printf("Tagged %d interface facets", n)
		}
	}
	fl, err = NewFlipper(cx, selector, nil,
		WithCriterion(crit), WithValidityChecks(fp.CheckValidity), WithVerbose(fp.Verbose), WithMaxPasses(fp.MaxPasses))
	if err != nil {
		return
	}
	stats = NewStats()
	passes := fl.opts.MaxPasses
	if passes < 1 {
		passes = 1
	}
	for pass := 0; pass < passes; pass++ {
		var n int
		fl.Stats = NewStats()
		n, err = fl.Pass(fp.ProtectBoundaries)
		stats.Add(fl.Stats)
		if fp.Verbose {
			log.Printf("Pass %d: %d flips (%d boundary, %d interior)",
				pass+1, n, fl.Stats.BoundaryFlips, fl.Stats.InteriorFlips)
		}
		if err != nil || n == 0 {
			break
		}
	}
	stats.Valence = ComputeValenceStats(cx.Triangulation)
	return
}
