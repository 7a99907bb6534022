package c3t3

import (
	"fmt"

	"github.com/notargets/tetremesh/geometry3D"
	"gonum.org/v1/gonum/spatial/r3"
)

// VertexHandle references a vertex slot in the arena. The zero value is the null handle.
type VertexHandle struct {
	Index int
	Gen   uint32
}

func (v VertexHandle) IsNull() bool { return v.Gen == 0 }

func (v VertexHandle) String() string { return fmt.Sprintf("v%d", v.Index) }

// CellHandle references a cell slot in the arena. Slots are reused after deletion, the generation
// distinguishes the new occupant from a stale handle.
type CellHandle struct {
	Index int
	Gen   uint32
}

func (c CellHandle) IsNull() bool { return c.Gen == 0 }

func (c CellHandle) String() string { return fmt.Sprintf("c%d.%d", c.Index, c.Gen) }

// Facet is the face of Cell opposite its local vertex Index
type Facet struct {
	Cell  CellHandle
	Index int
}

// Edge is the edge of Cell joining its local vertices I and J
type Edge struct {
	Cell CellHandle
	I, J int
}

// facetIndices[i] lists the local vertices of the facet opposite i, ordered so that
// orientation(p_i, facet...) has the sign of the cell
var facetIndices = [4][3]int{
	{1, 2, 3},
	{0, 3, 2},
	{0, 1, 3},
	{0, 2, 1},
}

type vertex struct {
	point    r3.Vec
	cell     CellHandle
	gen      uint32
	infinite bool
}

type cell struct {
	verts        [4]VertexHandle
	neighbors    [4]CellHandle
	subdomain    int
	patches      [4]int
	quality      geometry3D.DihedralAngleCosine
	qualityValid bool
	gen          uint32
	alive        bool
}

/*
Triangulation is an arena of vertices and tetrahedral cells with full neighbor adjacency.

Vertex 0 is the infinite vertex. Every facet on the convex hull is closed by an infinite cell that
joins the facet to the infinite vertex, so every facet of every cell has exactly one neighbor.
*/
type Triangulation struct {
	kernel    geometry3D.Kernel
	vertices  []vertex
	cells     []cell
	freeCells []int
	nLive     int
}

func NewTriangulation(k geometry3D.Kernel) (tr *Triangulation) {
	if k == nil {
		k = geometry3D.DefaultKernel
	}
	tr = &Triangulation{kernel: k}
	tr.vertices = append(tr.vertices, vertex{gen: 1, infinite: true})
	return
}

func (tr *Triangulation) Kernel() geometry3D.Kernel { return tr.kernel }

func (tr *Triangulation) InfiniteVertex() VertexHandle { return VertexHandle{Index: 0, Gen: 1} }

func (tr *Triangulation) AddVertex(p r3.Vec) VertexHandle {
	tr.vertices = append(tr.vertices, vertex{point: p, gen: 1})
	return VertexHandle{Index: len(tr.vertices) - 1, Gen: 1}
}

// VertexByIndex returns the handle of the finite vertex stored at arena index i
func (tr *Triangulation) VertexByIndex(i int) VertexHandle {
	if i < 1 || i >= len(tr.vertices) {
		panic(fmt.Errorf("vertex index %d out of range [1,%d)", i, len(tr.vertices)))
	}
	return VertexHandle{Index: i, Gen: tr.vertices[i].gen}
}

// NumberOfVertices counts the finite vertices
func (tr *Triangulation) NumberOfVertices() int { return len(tr.vertices) - 1 }

func (tr *Triangulation) FiniteVertices() (vs []VertexHandle) {
	vs = make([]VertexHandle, 0, len(tr.vertices)-1)
	for i := 1; i < len(tr.vertices); i++ {
		vs = append(vs, VertexHandle{Index: i, Gen: tr.vertices[i].gen})
	}
	return
}

func (tr *Triangulation) vtx(v VertexHandle) *vertex {
	if v.Index < 0 || v.Index >= len(tr.vertices) || tr.vertices[v.Index].gen != v.Gen {
		panic(fmt.Errorf("stale or null vertex handle %v", v))
	}
	return &tr.vertices[v.Index]
}

func (tr *Triangulation) cl(c CellHandle) *cell {
	if !tr.IsAlive(c) {
		panic(fmt.Errorf("stale or null cell handle %v", c))
	}
	return &tr.cells[c.Index]
}

// IsAlive is true when the handle references a live cell of the current generation
func (tr *Triangulation) IsAlive(c CellHandle) bool {
	return c.Gen != 0 && c.Index >= 0 && c.Index < len(tr.cells) &&
		tr.cells[c.Index].alive && tr.cells[c.Index].gen == c.Gen
}

func (tr *Triangulation) CreateCell(verts [4]VertexHandle) (c CellHandle) {
	var idx int
	if l := len(tr.freeCells); l > 0 {
		idx = tr.freeCells[l-1]
		tr.freeCells = tr.freeCells[:l-1]
	} else {
		tr.cells = append(tr.cells, cell{})
		idx = len(tr.cells) - 1
	}
	gen := tr.cells[idx].gen + 1
	tr.cells[idx] = cell{verts: verts, gen: gen, alive: true}
	tr.nLive++
	return CellHandle{Index: idx, Gen: gen}
}

func (tr *Triangulation) DeleteCell(c CellHandle) {
	cc := tr.cl(c)
	gen := cc.gen
	*cc = cell{gen: gen}
	tr.freeCells = append(tr.freeCells, c.Index)
	tr.nLive--
}

func (tr *Triangulation) Vertex(c CellHandle, i int) VertexHandle { return tr.cl(c).verts[i] }

func (tr *Triangulation) Vertices(c CellHandle) [4]VertexHandle { return tr.cl(c).verts }

func (tr *Triangulation) SetVertex(c CellHandle, i int, v VertexHandle) {
	tr.vtx(v)
	tr.cl(c).verts[i] = v
}

func (tr *Triangulation) Neighbor(c CellHandle, i int) CellHandle { return tr.cl(c).neighbors[i] }

func (tr *Triangulation) SetNeighbor(c CellHandle, i int, n CellHandle) { tr.cl(c).neighbors[i] = n }

// VertexIndex returns the local index of v in c
func (tr *Triangulation) VertexIndex(c CellHandle, v VertexHandle) (int, bool) {
	for i, cv := range tr.cl(c).verts {
		if cv == v {
			return i, true
		}
	}
	return -1, false
}

// Index is VertexIndex for a vertex known to be in c
func (tr *Triangulation) Index(c CellHandle, v VertexHandle) int {
	i, ok := tr.VertexIndex(c, v)
	if !ok {
		panic(fmt.Errorf("vertex %v is not a vertex of cell %v", v, c))
	}
	return i
}

func (tr *Triangulation) HasVertex(c CellHandle, v VertexHandle) bool {
	_, ok := tr.VertexIndex(c, v)
	return ok
}

// NeighborIndex returns the local index of the facet of c shared with n
func (tr *Triangulation) NeighborIndex(c, n CellHandle) int {
	for i, cn := range tr.cl(c).neighbors {
		if cn == n {
			return i
		}
	}
	panic(fmt.Errorf("cell %v is not a neighbor of cell %v", n, c))
}

func (tr *Triangulation) VertexCell(v VertexHandle) CellHandle { return tr.vtx(v).cell }

func (tr *Triangulation) SetVertexCell(v VertexHandle, c CellHandle) { tr.vtx(v).cell = c }

func (tr *Triangulation) Point(v VertexHandle) r3.Vec { return tr.vtx(v).point }

func (tr *Triangulation) Points(c CellHandle) (p [4]r3.Vec) {
	for i, v := range tr.cl(c).verts {
		p[i] = tr.vtx(v).point
	}
	return
}

// SignedVolume of a finite cell, positive when it is well oriented
func (tr *Triangulation) SignedVolume(c CellHandle) float64 {
	p := tr.Points(c)
	return geometry3D.SignedVolume(p[0], p[1], p[2], p[3])
}

func (tr *Triangulation) IsInfiniteVertex(v VertexHandle) bool { return tr.vtx(v).infinite }

func (tr *Triangulation) IsInfiniteCell(c CellHandle) bool {
	for _, v := range tr.cl(c).verts {
		if tr.vertices[v.Index].infinite {
			return true
		}
	}
	return false
}

func (tr *Triangulation) Subdomain(c CellHandle) int { return tr.cl(c).subdomain }

func (tr *Triangulation) SetSubdomain(c CellHandle, sd int) { tr.cl(c).subdomain = sd }

func (tr *Triangulation) MirrorFacet(f Facet) Facet {
	n := tr.Neighbor(f.Cell, f.Index)
	return Facet{Cell: n, Index: tr.NeighborIndex(n, f.Cell)}
}

// FacetVertices returns the vertices of f in the order of facetIndices
func (tr *Triangulation) FacetVertices(f Facet) (fv [3]VertexHandle) {
	cc := tr.cl(f.Cell)
	for k, li := range facetIndices[f.Index] {
		fv[k] = cc.verts[li]
	}
	return
}

// FacetKey is the order independent key of the facet's vertex triple
func (tr *Triangulation) FacetKey(f Facet) [3]int {
	fv := tr.FacetVertices(f)
	return sortedTriple(fv[0].Index, fv[1].Index, fv[2].Index)
}

func sortedTriple(a, b, c int) [3]int {
	if a > b {
		a, b = b, a
	}
	if b > c {
		b, c = c, b
	}
	if a > b {
		a, b = b, a
	}
	return [3]int{a, b, c}
}

// IsWellOrientedWith tests the orientation of c after replacing its vertex i by v, without modifying c
func (tr *Triangulation) IsWellOrientedWith(c CellHandle, i int, v VertexHandle) bool {
	p := tr.Points(c)
	p[i] = tr.Point(v)
	return geometry3D.IsWellOriented(tr.kernel, p[0], p[1], p[2], p[3])
}

func (tr *Triangulation) IsWellOriented(c CellHandle) bool {
	p := tr.Points(c)
	return geometry3D.IsWellOriented(tr.kernel, p[0], p[1], p[2], p[3])
}

// IncidentCells walks the cells around v starting from its back reference, in breadth first order
func (tr *Triangulation) IncidentCells(v VertexHandle) (cells []CellHandle) {
	start := tr.VertexCell(v)
	if start.IsNull() {
		return
	}
	var (
		visited = map[CellHandle]bool{start: true}
	)
	cells = append(cells, start)
	for k := 0; k < len(cells); k++ {
		c := cells[k]
		vi := tr.Index(c, v)
		for i := 0; i < 4; i++ {
			if i == vi {
				continue
			}
			n := tr.Neighbor(c, i)
			if !visited[n] {
				visited[n] = true
				cells = append(cells, n)
			}
		}
	}
	return
}

// IsEdge looks up the edge uv from the cells incident to u
func (tr *Triangulation) IsEdge(u, v VertexHandle) (e Edge, ok bool) {
	if u == v {
		return
	}
	for _, c := range tr.IncidentCells(u) {
		if j, found := tr.VertexIndex(c, v); found {
			return Edge{Cell: c, I: tr.Index(c, u), J: j}, true
		}
	}
	return
}

// IsFacet looks up the facet with vertices a, b, c
func (tr *Triangulation) IsFacet(a, b, c VertexHandle) (f Facet, ok bool) {
	if a == b || b == c || a == c {
		return
	}
	for _, ch := range tr.IncidentCells(a) {
		ib, hasB := tr.VertexIndex(ch, b)
		ic, hasC := tr.VertexIndex(ch, c)
		if hasB && hasC {
			return Facet{Cell: ch, Index: 6 - tr.Index(ch, a) - ib - ic}, true
		}
	}
	return
}

// EdgeVertices returns the two endpoints of e
func (tr *Triangulation) EdgeVertices(e Edge) (u, w VertexHandle) {
	cc := tr.cl(e.Cell)
	return cc.verts[e.I], cc.verts[e.J]
}

func (tr *Triangulation) IsInfiniteEdge(e Edge) bool {
	u, w := tr.EdgeVertices(e)
	return tr.IsInfiniteVertex(u) || tr.IsInfiniteVertex(w)
}

// NumberOfCells counts the live finite cells
func (tr *Triangulation) NumberOfCells() (n int) {
	for i := range tr.cells {
		if tr.cells[i].alive && !tr.IsInfiniteCell(CellHandle{Index: i, Gen: tr.cells[i].gen}) {
			n++
		}
	}
	return
}

// NumberOfAllCells counts the live cells, infinite ones included
func (tr *Triangulation) NumberOfAllCells() int { return tr.nLive }

func (tr *Triangulation) AllCells() (cells []CellHandle) {
	for i := range tr.cells {
		if tr.cells[i].alive {
			cells = append(cells, CellHandle{Index: i, Gen: tr.cells[i].gen})
		}
	}
	return
}

// FiniteCells lists the live finite cells in arena order
func (tr *Triangulation) FiniteCells() (cells []CellHandle) {
	for _, c := range tr.AllCells() {
		if !tr.IsInfiniteCell(c) {
			cells = append(cells, c)
		}
	}
	return
}

// FiniteEdges lists every edge between two finite vertices once, represented in the first cell of
// arena order that contains it
func (tr *Triangulation) FiniteEdges() (edges []Edge) {
	seen := make(map[[2]int]bool)
	for _, c := range tr.FiniteCells() {
		verts := tr.Vertices(c)
		for i := 0; i < 3; i++ {
			for j := i + 1; j < 4; j++ {
				a, b := verts[i].Index, verts[j].Index
				if a > b {
					a, b = b, a
				}
				if seen[[2]int{a, b}] {
					continue
				}
				seen[[2]int{a, b}] = true
				edges = append(edges, Edge{Cell: c, I: i, J: j})
			}
		}
	}
	return
}

func (tr *Triangulation) CachedQuality(c CellHandle) (q geometry3D.DihedralAngleCosine, valid bool) {
	cc := tr.cl(c)
	return cc.quality, cc.qualityValid
}

func (tr *Triangulation) SetCachedQuality(c CellHandle, q geometry3D.DihedralAngleCosine) {
	cc := tr.cl(c)
	cc.quality, cc.qualityValid = q, true
}

func (tr *Triangulation) ResetCacheValidity(c CellHandle) { tr.cl(c).qualityValid = false }

// MaxCosDihedralAngle returns the worst dihedral cosine of a finite cell, from the cell cache when valid
func (tr *Triangulation) MaxCosDihedralAngle(c CellHandle) geometry3D.DihedralAngleCosine {
	if q, ok := tr.CachedQuality(c); ok {
		return q
	}
	p := tr.Points(c)
	q := geometry3D.MaxCosDihedralAngle(p[0], p[1], p[2], p[3])
	tr.SetCachedQuality(c, q)
	return q
}

func (tr *Triangulation) MinDihedralAngle(c CellHandle) float64 {
	p := tr.Points(c)
	return geometry3D.MinDihedralAngle(p[0], p[1], p[2], p[3])
}
