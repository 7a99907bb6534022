package c3t3

import (
	"errors"
	"fmt"
	"sort"

	"github.com/notargets/tetremesh/geometry3D"
	"github.com/notargets/tetremesh/types"
	"gonum.org/v1/gonum/spatial/r3"
)

var (
	ErrNonManifold = errors.New("non manifold input")
	ErrFlatCell    = errors.New("flat tetrahedron")
	ErrBadIndex    = errors.New("vertex index out of range")
	ErrNotFound    = errors.New("not a simplex of the triangulation")
)

type buildConfig struct {
	kernel geometry3D.Kernel
}

type BuildOption func(*buildConfig)

func WithKernel(k geometry3D.Kernel) BuildOption {
	return func(c *buildConfig) { c.kernel = k }
}

// faceSide records the first cell seen on a face and whether a second one has been paired with it
type faceSide struct {
	facet  Facet
	paired bool
}

/*
NewComplex builds a complex from a tetrahedral mesh. Point i of the input becomes vertex i+1, vertex 0 being
the infinite vertex. Tetrahedra with negative orientation are flipped by swapping their first two vertices.
A nil subdomains slice puts every cell in subdomain 1.
*/
func NewComplex(points []r3.Vec, tets [][4]int, subdomains []int, opts ...BuildOption) (cx *Complex, err error) {
	var (
		cfg = buildConfig{kernel: geometry3D.DefaultKernel}
	)
	for _, opt := range opts {
		opt(&cfg)
	}
	if subdomains != nil && len(subdomains) != len(tets) {
		err = fmt.Errorf("have %d subdomain indices for %d tetrahedra", len(subdomains), len(tets))
		return
	}
	tr := NewTriangulation(cfg.kernel)
	for _, p := range points {
		tr.AddVertex(p)
	}
	faceMap := make(map[types.TriKey]*faceSide, 4*len(tets))
	link := func(f Facet) (err error) {
		key := types.NewTriKey(tr.FacetKey(f))
		side, exists := faceMap[key]
		switch {
		case !exists:
			faceMap[key] = &faceSide{facet: f}
		case side.paired:
			err = fmt.Errorf("face %s is shared by more than two cells: %w", key, ErrNonManifold)
		default:
			tr.SetNeighbor(f.Cell, f.Index, side.facet.Cell)
			tr.SetNeighbor(side.facet.Cell, side.facet.Index, f.Cell)
			side.paired = true
		}
		return
	}
	for n, tet := range tets {
		var verts [4]VertexHandle
		for k, vi := range tet {
			if vi < 0 || vi >= len(points) {
				err = fmt.Errorf("tetrahedron %d vertex %d: %w", n, vi, ErrBadIndex)
				return
			}
			verts[k] = tr.VertexByIndex(vi + 1)
		}
		p := [4]r3.Vec{points[tet[0]], points[tet[1]], points[tet[2]], points[tet[3]]}
		switch cfg.kernel.Orientation(p[0], p[1], p[2], p[3]) {
		case geometry3D.Zero:
			err = fmt.Errorf("tetrahedron %d %v: %w", n, tet, ErrFlatCell)
			return
		case geometry3D.Negative:
			verts[0], verts[1] = verts[1], verts[0]
		}
		c := tr.CreateCell(verts)
		sd := 1
		if subdomains != nil {
			sd = subdomains[n]
		}
		tr.SetSubdomain(c, sd)
		for i := 0; i < 4; i++ {
			if err = link(Facet{Cell: c, Index: i}); err != nil {
				return
			}
		}
	}
	// Close the hull: every unpaired face gets an infinite cell, the infinite cells are then paired among themselves
	var (
		hull []Facet
		inf  = tr.InfiniteVertex()
	)
	for _, side := range faceMap {
		if !side.paired {
			hull = append(hull, side.facet)
		}
	}
	sortFacets(hull)
	for _, f := range hull {
		fv := tr.FacetVertices(f)
		ic := tr.CreateCell([4]VertexHandle{inf, fv[0], fv[2], fv[1]})
		tr.SetNeighbor(ic, 0, f.Cell)
		tr.SetNeighbor(f.Cell, f.Index, ic)
		for i := 1; i < 4; i++ {
			if err = link(Facet{Cell: ic, Index: i}); err != nil {
				return
			}
		}
	}
	for _, c := range tr.AllCells() {
		for i := 0; i < 4; i++ {
			if tr.Neighbor(c, i).IsNull() {
				err = fmt.Errorf("boundary of the mesh is not closed at cell %v facet %d: %w", c, i, ErrNonManifold)
				return
			}
		}
		for _, v := range tr.Vertices(c) {
			if tr.VertexCell(v).IsNull() {
				tr.SetVertexCell(v, c)
			}
		}
	}
	cx = NewEmptyComplex(tr)
	return
}

func sortFacets(fs []Facet) {
	sort.Slice(fs, func(i, j int) bool {
		if fs[i].Cell.Index != fs[j].Cell.Index {
			return fs[i].Cell.Index < fs[j].Cell.Index
		}
		return fs[i].Index < fs[j].Index
	})
}

// InputVertex maps the index of an input point to its vertex handle
func (cx *Complex) InputVertex(i int) VertexHandle { return cx.VertexByIndex(i + 1) }

// AddSurfaceTriangle tags the facet with input vertices a, b, c
func (cx *Complex) AddSurfaceTriangle(a, b, c, patch int) (err error) {
	for _, vi := range []int{a, b, c} {
		if vi < 0 || vi >= cx.NumberOfVertices() {
			return fmt.Errorf("surface triangle vertex %d: %w", vi, ErrBadIndex)
		}
	}
	f, ok := cx.IsFacet(cx.InputVertex(a), cx.InputVertex(b), cx.InputVertex(c))
	if !ok {
		return fmt.Errorf("surface triangle %d-%d-%d: %w", a, b, c, ErrNotFound)
	}
	cx.AddFacetToComplex(f, patch)
	return
}

// AddFeatureEdge tags the edge with input vertices a, b
func (cx *Complex) AddFeatureEdge(a, b, curve int) (err error) {
	for _, vi := range []int{a, b} {
		if vi < 0 || vi >= cx.NumberOfVertices() {
			return fmt.Errorf("feature edge vertex %d: %w", vi, ErrBadIndex)
		}
	}
	e, ok := cx.IsEdge(cx.InputVertex(a), cx.InputVertex(b))
	if !ok {
		return fmt.Errorf("feature edge %d-%d: %w", a, b, ErrNotFound)
	}
	cx.AddEdgeToComplex(e, curve)
	return
}

/*
TagSubdomainInterfaces puts every untagged facet separating two different subdomains into the complex.
Each pair of subdomains gets its own patch, numbered after the largest patch already present in the order
the pairs are met. It returns the number of facets tagged.
*/
func (cx *Complex) TagSubdomainInterfaces() (nTagged int) {
	var (
		next    = 1
		pairIDs = make(map[[2]int]int)
		cells   = cx.AllCells()
	)
	for _, c := range cells {
		for i := 0; i < 4; i++ {
			if p := cx.SurfacePatchIndex(Facet{Cell: c, Index: i}); p >= next {
				next = p + 1
			}
		}
	}
	for _, c := range cells {
		for i := 0; i < 4; i++ {
			f := Facet{Cell: c, Index: i}
			mf := cx.MirrorFacet(f)
			if mf.Cell.Index < c.Index || cx.IsFacetInComplex(f) {
				continue
			}
			s0, s1 := cx.Subdomain(c), cx.Subdomain(mf.Cell)
			if s0 == s1 {
				continue
			}
			if s0 > s1 {
				s0, s1 = s1, s0
			}
			patch, ok := pairIDs[[2]int{s0, s1}]
			if !ok {
				patch = next
				next++
				pairIDs[[2]int{s0, s1}] = patch
			}
			cx.AddFacetToComplex(f, patch)
			nTagged++
		}
	}
	return
}
