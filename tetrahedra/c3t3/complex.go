package c3t3

import (
	"sort"

	"github.com/notargets/tetremesh/types"
)

/*
Complex is a triangulation with a complex overlay: cells carry a subdomain index (0 is outside the domain),
facets carry a surface patch index (0 is not in the complex) and edges carry a feature curve index
(0 is not in the complex). Facet patches are stored on both cells sharing the facet.
*/
type Complex struct {
	*Triangulation
	curves map[types.EdgeKey]int
}

func NewEmptyComplex(tr *Triangulation) *Complex {
	return &Complex{Triangulation: tr, curves: make(map[types.EdgeKey]int)}
}

func (cx *Complex) IsCellInComplex(c CellHandle) bool { return cx.Subdomain(c) != 0 }

func (cx *Complex) IsFacetInComplex(f Facet) bool { return cx.cl(f.Cell).patches[f.Index] != 0 }

func (cx *Complex) SurfacePatchIndex(f Facet) int { return cx.cl(f.Cell).patches[f.Index] }

// SetSurfacePatchIndex writes the patch on the given side of the facet only
func (cx *Complex) SetSurfacePatchIndex(f Facet, patch int) { cx.cl(f.Cell).patches[f.Index] = patch }

func (cx *Complex) AddFacetToComplex(f Facet, patch int) {
	cx.SetSurfacePatchIndex(f, patch)
	cx.SetSurfacePatchIndex(cx.MirrorFacet(f), patch)
}

func (cx *Complex) RemoveFacetFromComplex(f Facet) {
	cx.AddFacetToComplex(f, 0)
}

func (cx *Complex) IsEdgeInComplex(e Edge) bool {
	u, w := cx.EdgeVertices(e)
	return cx.IsVertexPairInComplex(u, w)
}

func (cx *Complex) IsVertexPairInComplex(u, w VertexHandle) bool { return cx.CurveIndexOf(u, w) != 0 }

func (cx *Complex) CurveIndex(e Edge) int {
	u, w := cx.EdgeVertices(e)
	return cx.CurveIndexOf(u, w)
}

// CurveIndexOf reads the tag of the vertex pair uv, which stays valid while the cells around uv change
func (cx *Complex) CurveIndexOf(u, w VertexHandle) int {
	return cx.curves[types.NewEdgeKey([2]int{u.Index, w.Index})]
}

// SetCurveIndexOf tags the vertex pair uv, a zero curve removes the tag
func (cx *Complex) SetCurveIndexOf(u, w VertexHandle, curve int) {
	key := types.NewEdgeKey([2]int{u.Index, w.Index})
	if curve == 0 {
		delete(cx.curves, key)
		return
	}
	cx.curves[key] = curve
}

func (cx *Complex) AddEdgeToComplex(e Edge, curve int) {
	u, w := cx.EdgeVertices(e)
	cx.SetCurveIndexOf(u, w, curve)
}

func (cx *Complex) RemoveEdgeFromComplex(e Edge) { cx.AddEdgeToComplex(e, 0) }

// EdgesInComplex returns the tagged vertex pairs in ascending key order
func (cx *Complex) EdgesInComplex() (keys []types.EdgeKey) {
	for k := range cx.curves {
		keys = append(keys, k)
	}
	sort.Slice(keys, func(i, j int) bool { return keys[i] < keys[j] })
	return
}

func (cx *Complex) NumberOfEdgesInComplex() int { return len(cx.curves) }

// FacetsInComplex lists each tagged facet once, seen from the cell with the lower arena index
func (cx *Complex) FacetsInComplex() (facets []Facet) {
	for _, c := range cx.AllCells() {
		for i := 0; i < 4; i++ {
			f := Facet{Cell: c, Index: i}
			if !cx.IsFacetInComplex(f) {
				continue
			}
			if mf := cx.MirrorFacet(f); mf.Cell.Index < c.Index {
				continue
			}
			facets = append(facets, f)
		}
	}
	return
}

func (cx *Complex) NumberOfFacetsInComplex() int { return len(cx.FacetsInComplex()) }

// SubdomainVolumes sums the cell volumes of each subdomain
func (cx *Complex) SubdomainVolumes() (vols map[int]float64) {
	vols = make(map[int]float64)
	for _, c := range cx.FiniteCells() {
		vols[cx.Subdomain(c)] += cx.SignedVolume(c)
	}
	return
}

// IncidentSubdomains returns the distinct subdomain indices of the cells around v, outside (0) included
func (cx *Complex) IncidentSubdomains(v VertexHandle) (sds []int) {
	seen := make(map[int]bool)
	for _, c := range cx.IncidentCells(v) {
		sd := cx.Subdomain(c)
		if !seen[sd] {
			seen[sd] = true
			sds = append(sds, sd)
		}
	}
	return
}

// VertexSurfacePatchIndex returns the patch of the first tagged facet found around v, 0 if none
func (cx *Complex) VertexSurfacePatchIndex(v VertexHandle) int {
	for _, c := range cx.IncidentCells(v) {
		vi := cx.Index(c, v)
		for i := 0; i < 4; i++ {
			if i == vi {
				continue
			}
			if patch := cx.SurfacePatchIndex(Facet{Cell: c, Index: i}); patch != 0 {
				return patch
			}
		}
	}
	return 0
}

// Selector marks the cells taking part in an operation
type Selector interface {
	Selected(cx *Complex, c CellHandle) bool
}

// IsBoundaryFacet is true for tagged facets and for facets separating a selected cell from an unselected one
func (cx *Complex) IsBoundaryFacet(f Facet, sel Selector) bool {
	if cx.IsFacetInComplex(f) {
		return true
	}
	mf := cx.MirrorFacet(f)
	return sel.Selected(cx, f.Cell) != sel.Selected(cx, mf.Cell)
}

func (cx *Complex) IsBoundaryEdge(e Edge, sel Selector) bool {
	r := cx.Ring(e)
	for _, f := range r.Facets {
		if cx.IsBoundaryFacet(f, sel) {
			return true
		}
	}
	return false
}

// IsSelectedEdge is true when at least one cell around e is selected
func (cx *Complex) IsSelectedEdge(e Edge, sel Selector) bool {
	r := cx.Ring(e)
	for _, c := range r.Cells {
		if sel.Selected(cx, c) {
			return true
		}
	}
	return false
}
