package flip

import (
	"fmt"

	"github.com/james-bowman/sparse"
	"github.com/notargets/tetremesh/tetrahedra/c3t3"
	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat"
)

// Stats accumulates the outcome of flip passes
type Stats struct {
	Flips         int
	BoundaryFlips int
	InteriorFlips int
	Flips3to2     int
	FlipsNtoM     int
	FlipsSurface  int

	PlanarSurfaceFlips        int
	PerpendicularSurfaceFlips int
	Surface44Configs          int
	SurfaceNMConfigs          int
	SurfaceFlipCandidates     int

	BoundaryEdges    int
	InteriorEdges    int
	SkippedHullEdges int
	Rejections       map[Result]int

	CacheBuilds int
	CacheHits   int

	Valence ValenceStats
}

// ValenceStats describes the number of edges at each finite vertex
type ValenceStats struct {
	Min, Max     float64
	Mean, StdDev float64
}

func NewStats() *Stats {
	return &Stats{Rejections: make(map[Result]int)}
}

func (s *Stats) reject(r Result) {
	if r != ValidFlip {
		s.Rejections[r]++
	}
}

// Add accumulates the counts of o into s, the valence statistics are taken from o
func (s *Stats) Add(o *Stats) {
	s.Flips += o.Flips
	s.BoundaryFlips += o.BoundaryFlips
	s.InteriorFlips += o.InteriorFlips
	s.Flips3to2 += o.Flips3to2
	s.FlipsNtoM += o.FlipsNtoM
	s.FlipsSurface += o.FlipsSurface
	s.PlanarSurfaceFlips += o.PlanarSurfaceFlips
	s.PerpendicularSurfaceFlips += o.PerpendicularSurfaceFlips
	s.Surface44Configs += o.Surface44Configs
	s.SurfaceNMConfigs += o.SurfaceNMConfigs
	s.SurfaceFlipCandidates += o.SurfaceFlipCandidates
	s.BoundaryEdges += o.BoundaryEdges
	s.InteriorEdges += o.InteriorEdges
	s.SkippedHullEdges += o.SkippedHullEdges
	for r, n := range o.Rejections {
		s.Rejections[r] += n
	}
	s.CacheBuilds += o.CacheBuilds
	s.CacheHits += o.CacheHits
	s.Valence = o.Valence
}

func (s *Stats) Print() {
	fmt.Printf("Flips = %d (boundary %d, interior %d)\n", s.Flips, s.BoundaryFlips, s.InteriorFlips)
	fmt.Printf("\t3-2 = %d, n-m = %d, surface = %d (planar %d, perpendicular %d)\n",
		s.Flips3to2, s.FlipsNtoM, s.FlipsSurface, s.PlanarSurfaceFlips, s.PerpendicularSurfaceFlips)
	fmt.Printf("\tsurface candidates = %d, 4-4 configs = %d, n-m configs = %d\n",
		s.SurfaceFlipCandidates, s.Surface44Configs, s.SurfaceNMConfigs)
	fmt.Printf("Edges: boundary %d, interior %d, hull edges skipped %d\n",
		s.BoundaryEdges, s.InteriorEdges, s.SkippedHullEdges)
	for _, r := range []Result{NotFlippable, NoBestConfiguration, InvalidCell, InvalidVertex, InvalidOrientation} {
		if n := s.Rejections[r]; n > 0 {
			fmt.Printf("\t%-22s %d\n", r.String(), n)
		}
	}
	fmt.Printf("Incident cell cache: %d builds, %d hits\n", s.CacheBuilds, s.CacheHits)
	fmt.Printf("Vertex valence: min %g, max %g, mean %8.4f, stddev %8.4f\n",
		s.Valence.Min, s.Valence.Max, s.Valence.Mean, s.Valence.StdDev)
}

// ComputeValenceStats builds the vertex adjacency matrix of the finite edges and summarizes its row counts
func ComputeValenceStats(tr *c3t3.Triangulation) (vs ValenceStats) {
	nv := tr.NumberOfVertices()
	if nv == 0 {
		return
	}
	adj := sparse.NewDOK(nv, nv)
	for _, e := range tr.FiniteEdges() {
		u, w := tr.EdgeVertices(e)
		adj.Set(u.Index-1, w.Index-1, 1)
		adj.Set(w.Index-1, u.Index-1, 1)
	}
	valence := make([]float64, nv)
	adj.ToCSR().DoNonZero(func(i, j int, v float64) {
		valence[i]++
	})
	vs.Min, vs.Max = floats.Min(valence), floats.Max(valence)
	vs.Mean, vs.StdDev = stat.MeanStdDev(valence, nil)
	return
}
