package c3t3

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gonum.org/v1/gonum/spatial/r3"
)

type finiteCells struct{}

func (finiteCells) Selected(cx *Complex, c CellHandle) bool { return !cx.IsInfiniteCell(c) }

func TestNewComplex(t *testing.T) {
	tm := GetStandardTestMeshes()
	f := tm.SliverRing
	cx, err := f.Build()
	require.NoError(t, err)
	assert.Equal(t, 5, cx.NumberOfVertices())
	assert.Equal(t, 3, cx.NumberOfCells())
	// Three finite cells and one infinite cell per hull facet
	assert.Equal(t, 9, cx.NumberOfAllCells())
	assert.NoError(t, cx.IsValid())
	for _, c := range cx.FiniteCells() {
		assert.True(t, cx.IsWellOriented(c))
		assert.Equal(t, 1, cx.Subdomain(c))
	}
	for _, c := range cx.AllCells() {
		if cx.IsInfiniteCell(c) {
			assert.Equal(t, 0, cx.Subdomain(c))
		}
		for i := 0; i < 4; i++ {
			fc := Facet{Cell: c, Index: i}
			assert.Equal(t, fc, cx.MirrorFacet(cx.MirrorFacet(fc)))
		}
	}
	{ // Ring around the interior edge
		u, w := f.V(cx, "u"), f.V(cx, "w")
		e, ok := cx.IsEdge(u, w)
		require.True(t, ok)
		assert.False(t, cx.IsInfiniteEdge(e))
		r := cx.Ring(e)
		assert.Equal(t, 3, r.Len())
		assert.ElementsMatch(t, []VertexHandle{f.V(cx, "o0"), f.V(cx, "o1"), f.V(cx, "o2")}, r.Opposite)
		for k := 0; k < r.Len(); k++ {
			c := r.Cells[k]
			assert.True(t, cx.HasVertex(c, r.Opposite[k]))
			assert.True(t, cx.HasVertex(c, r.Opposite[r.Mod(k-1)]))
			fv := cx.FacetVertices(r.Facets[k])
			assert.ElementsMatch(t, []VertexHandle{u, w, r.Opposite[k]}, fv[:])
			assert.Equal(t, r.Cells[r.Mod(k+1)], cx.MirrorFacet(r.Facets[k]).Cell)
		}
		assert.Equal(t, 2, r.Mod(-1))
		assert.Equal(t, -1, r.OppositeIndex(u))
	}
	{ // Lookups
		u, w := f.V(cx, "u"), f.V(cx, "w")
		o0, o1, o2 := f.V(cx, "o0"), f.V(cx, "o1"), f.V(cx, "o2")
		assert.Len(t, cx.IncidentCells(u), 6)
		_, ok := cx.IsEdge(u, u)
		assert.False(t, ok)
		_, ok = cx.IsFacet(o0, o1, o2)
		assert.False(t, ok)
		fc, ok := cx.IsFacet(u, w, o0)
		require.True(t, ok)
		fv := cx.FacetVertices(fc)
		assert.ElementsMatch(t, []VertexHandle{u, w, o0}, fv[:])
		e, ok := cx.IsEdge(u, o0)
		require.True(t, ok)
		assert.Equal(t, 4, cx.Ring(e).Len())
		// Every vertex pair is an edge
		assert.Len(t, cx.FiniteEdges(), 10)
		assert.Len(t, cx.FiniteVertices(), 5)
	}
}

func TestNewComplexErrors(t *testing.T) {
	corner := []r3.Vec{{}, {X: 1}, {Y: 1}, {Z: 1}}
	{ // Negatively oriented input is fixed up
		cx, err := NewComplex(corner, [][4]int{{0, 2, 1, 3}}, []int{3})
		require.NoError(t, err)
		assert.NoError(t, cx.IsValid())
		c := cx.FiniteCells()[0]
		assert.True(t, cx.IsWellOriented(c))
		assert.Equal(t, 3, cx.Subdomain(c))
		assert.Equal(t, 5, cx.NumberOfAllCells())
	}
	{
		_, err := NewComplex(corner, [][4]int{{0, 1, 2, 7}}, nil)
		assert.ErrorIs(t, err, ErrBadIndex)
	}
	{
		flat := []r3.Vec{{}, {X: 1}, {Y: 1}, {X: 0.3, Y: 0.3}}
		_, err := NewComplex(flat, [][4]int{{0, 1, 2, 3}}, nil)
		assert.ErrorIs(t, err, ErrFlatCell)
	}
	{ // Three cells on one face
		pts := []r3.Vec{{}, {X: 1}, {Y: 1}, {X: 0.2, Y: 0.2, Z: 1}, {X: 0.2, Y: 0.2, Z: -1}, {X: 0.3, Y: 0.3, Z: 2}}
		_, err := NewComplex(pts, [][4]int{{0, 1, 2, 3}, {0, 1, 2, 4}, {0, 1, 2, 5}}, nil)
		assert.ErrorIs(t, err, ErrNonManifold)
	}
	{
		_, err := NewComplex(corner, [][4]int{{0, 1, 2, 3}}, []int{1, 2})
		assert.Error(t, err)
	}
}

func TestComplexTags(t *testing.T) {
	tm := GetStandardTestMeshes()
	f := tm.SurfaceQuad
	cx, err := f.Build()
	require.NoError(t, err)
	var (
		u, w = f.V(cx, "u"), f.V(cx, "w")
		a, b = f.V(cx, "a"), f.V(cx, "b")
		c    = f.V(cx, "c")
	)
	assert.Equal(t, 2, cx.NumberOfFacetsInComplex())
	fa, ok := cx.IsFacet(u, w, a)
	require.True(t, ok)
	assert.True(t, cx.IsFacetInComplex(fa))
	assert.True(t, cx.IsFacetInComplex(cx.MirrorFacet(fa)))
	assert.Equal(t, 1, cx.SurfacePatchIndex(cx.MirrorFacet(fa)))
	assert.Equal(t, 1, cx.VertexSurfacePatchIndex(a))
	assert.Equal(t, 0, cx.VertexSurfacePatchIndex(c))
	assert.ElementsMatch(t, []int{0, 1, 2}, cx.IncidentSubdomains(u))
	assert.ElementsMatch(t, []int{0, 1}, cx.IncidentSubdomains(c))
	assert.Equal(t, map[[3]int]int{
		{u.Index, w.Index, a.Index}: 1,
		{u.Index, w.Index, b.Index}: 1,
	}, cx.TaggedFacets())

	e, ok := cx.IsEdge(u, w)
	require.True(t, ok)
	assert.True(t, cx.IsBoundaryEdge(e, finiteCells{}))
	assert.True(t, cx.IsSelectedEdge(e, finiteCells{}))

	{ // Surface triangles and feature edges must exist in the triangulation
		assert.ErrorIs(t, cx.AddSurfaceTriangle(f.PointMap["a"], f.PointMap["b"], f.PointMap["u"], 1), ErrNotFound)
		assert.ErrorIs(t, cx.AddSurfaceTriangle(0, 1, 99, 1), ErrBadIndex)
		assert.ErrorIs(t, cx.AddFeatureEdge(f.PointMap["a"], f.PointMap["b"], 1), ErrNotFound)
		assert.ErrorIs(t, cx.AddFeatureEdge(-1, 0, 1), ErrBadIndex)
	}
	{
		require.NoError(t, cx.AddFeatureEdge(f.PointMap["u"], f.PointMap["a"], 3))
		assert.True(t, cx.IsVertexPairInComplex(a, u))
		assert.Equal(t, 3, cx.CurveIndexOf(a, u))
		assert.Equal(t, 1, cx.NumberOfEdgesInComplex())
		ea, ok := cx.IsEdge(a, u)
		require.True(t, ok)
		assert.True(t, cx.IsEdgeInComplex(ea))
		assert.Equal(t, 3, cx.CurveIndex(ea))
		assert.Len(t, cx.EdgesInComplex(), 1)
		cx.RemoveEdgeFromComplex(ea)
		assert.Equal(t, 0, cx.NumberOfEdgesInComplex())
		cx.SetCurveIndexOf(u, a, 2)
		assert.Equal(t, 2, cx.CurveIndexOf(u, a))
		cx.SetCurveIndexOf(u, a, 0)
		assert.Equal(t, 0, cx.NumberOfEdgesInComplex())
	}
	cx.RemoveFacetFromComplex(cx.MirrorFacet(fa))
	assert.False(t, cx.IsFacetInComplex(fa))
	assert.Equal(t, 1, cx.NumberOfFacetsInComplex())
	assert.NoError(t, cx.IsValid())
}

func TestTagSubdomainInterfaces(t *testing.T) {
	tm := GetStandardTestMeshes()
	{
		f := tm.TwoMaterialOctahedron
		cx, err := f.Build()
		require.NoError(t, err)
		// Eight hull facets and the two facets between the materials
		assert.Equal(t, 10, cx.TagSubdomainInterfaces())
		assert.Equal(t, 10, cx.NumberOfFacetsInComplex())
		assert.Equal(t, 0, cx.TagSubdomainInterfaces())
		var (
			u, w   = f.V(cx, "u"), f.V(cx, "w")
			o0, o1 = f.V(cx, "o0"), f.V(cx, "o1")
			o2     = f.V(cx, "o2")
		)
		f0, ok := cx.IsFacet(u, w, o0)
		require.True(t, ok)
		f2, ok := cx.IsFacet(u, w, o2)
		require.True(t, ok)
		fh, ok := cx.IsFacet(u, o0, o1)
		require.True(t, ok)
		assert.NotZero(t, cx.SurfacePatchIndex(f0))
		assert.Equal(t, cx.SurfacePatchIndex(f0), cx.SurfacePatchIndex(f2))
		assert.NotEqual(t, cx.SurfacePatchIndex(f0), cx.SurfacePatchIndex(fh))
		patches := make(map[int]bool)
		for _, p := range cx.TaggedFacets() {
			patches[p] = true
		}
		assert.Len(t, patches, 3)
		assert.NoError(t, cx.IsValid())
	}
	{ // Existing patches are kept and new ones are numbered after them
		cx, err := tm.SurfaceQuad.Build()
		require.NoError(t, err)
		assert.Equal(t, 8, cx.TagSubdomainInterfaces())
		maxPatch := 0
		for _, p := range cx.TaggedFacets() {
			if p > maxPatch {
				maxPatch = p
			}
		}
		assert.Equal(t, 3, maxPatch)
		assert.Equal(t, 10, cx.NumberOfFacetsInComplex())
	}
}

func TestSnapshot(t *testing.T) {
	tm := GetStandardTestMeshes()
	f := tm.SliverRing
	cx, err := f.Build()
	require.NoError(t, err)
	s0 := cx.Snapshot()
	c := cx.FiniteCells()[0]
	// Cached qualities are not part of the state
	cx.MaxCosDihedralAngle(c)
	_, valid := cx.CachedQuality(c)
	assert.True(t, valid)
	assert.True(t, s0.Equal(cx.Snapshot()))
	cx.ResetCacheValidity(c)
	_, valid = cx.CachedQuality(c)
	assert.False(t, valid)

	cx.SetSubdomain(c, 4)
	assert.False(t, s0.Equal(cx.Snapshot()))
	cx.SetSubdomain(c, 1)
	assert.True(t, s0.Equal(cx.Snapshot()))
	cx.SetCurveIndexOf(f.V(cx, "u"), f.V(cx, "w"), 2)
	assert.False(t, s0.Equal(cx.Snapshot()))
}

func TestIsValid(t *testing.T) {
	tm := GetStandardTestMeshes()
	build := func() *Complex {
		cx, err := tm.SliverRing.Build()
		require.NoError(t, err)
		return cx
	}
	{ // A neighbor that does not share the facet
		cx := build()
		c := cx.FiniteCells()[0]
		cx.SetNeighbor(c, 0, cx.Neighbor(c, 1))
		assert.ErrorIs(t, cx.IsValid(), ErrInvalidCell)
	}
	{ // A patch written on one side only
		cx := build()
		c := cx.FiniteCells()[0]
		cx.SetSurfacePatchIndex(Facet{Cell: c, Index: 2}, 4)
		assert.ErrorIs(t, cx.IsValid(), ErrInvalidComplex)
	}
	{ // Swapping two vertices along with their neighbors keeps the combinatorics and inverts the cell
		cx := build()
		c := cx.FiniteCells()[0]
		v0, v1 := cx.Vertex(c, 0), cx.Vertex(c, 1)
		n0, n1 := cx.Neighbor(c, 0), cx.Neighbor(c, 1)
		cx.SetVertex(c, 0, v1)
		cx.SetVertex(c, 1, v0)
		cx.SetNeighbor(c, 0, n1)
		cx.SetNeighbor(c, 1, n0)
		err := cx.IsValid()
		assert.ErrorIs(t, err, ErrInvalidOrientation)
		assert.ErrorContains(t, err, "has volume -")
		assert.Less(t, cx.SignedVolume(c), 0.)
	}
	{ // A feature edge that is not in the triangulation
		f := tm.Octahedron
		cx, err := f.Build()
		require.NoError(t, err)
		cx.SetCurveIndexOf(f.V(cx, "o0"), f.V(cx, "o1"), 1)
		assert.NoError(t, cx.IsValid())
		cx.SetCurveIndexOf(f.V(cx, "o0"), f.V(cx, "o2"), 1)
		assert.ErrorIs(t, cx.IsValid(), ErrInvalidComplex)
	}
}

func TestKuhnLattice(t *testing.T) {
	f := KuhnLattice(2, 0.05, 7)
	assert.Len(t, f.Points, 27)
	assert.Len(t, f.Tets, 48)
	cx, err := f.Build()
	require.NoError(t, err)
	assert.NoError(t, cx.IsValid())
	assert.Equal(t, 48, cx.NumberOfCells())
	assert.Equal(t, 2, cx.NumberOfEdgesInComplex())
	for _, c := range cx.FiniteCells() {
		assert.True(t, cx.IsWellOriented(c))
	}
	// Points on the lattice boundary stay in place
	assert.Equal(t, r3.Vec{X: 2, Y: 2, Z: 2}, f.Points[f.PointMap["p2_2_2"]])
	// so the jitter moves volume between the subdomains but the cube keeps its volume
	vols := cx.SubdomainVolumes()
	assert.Len(t, vols, 2)
	assert.InDelta(t, 8., vols[1]+vols[2], 1.e-12)
	assert.InDelta(t, 4., vols[1], 0.5)
}
