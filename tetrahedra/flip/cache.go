package flip

import "github.com/notargets/tetremesh/tetrahedra/c3t3"

type cacheEntry struct {
	built bool
	cells []c3t3.CellHandle
}

/*
IncidentCellCache maps a vertex to the list of its incident cells, built on first use.

A committed flip must Invalidate every vertex whose incident cells changed before the next lookup.
*/
type IncidentCellCache struct {
	tr      *c3t3.Triangulation
	entries map[c3t3.VertexHandle]*cacheEntry
	Builds  int
	Hits    int
}

func NewIncidentCellCache(tr *c3t3.Triangulation) *IncidentCellCache {
	return &IncidentCellCache{tr: tr, entries: make(map[c3t3.VertexHandle]*cacheEntry)}
}

func (ic *IncidentCellCache) GetOrBuild(v c3t3.VertexHandle) []c3t3.CellHandle {
	e, ok := ic.entries[v]
	if !ok {
		e = &cacheEntry{}
		ic.entries[v] = e
	}
	if e.built {
		ic.Hits++
		return e.cells
	}
	e.cells = append(e.cells[:0], ic.tr.IncidentCells(v)...)
	e.built = true
	ic.Builds++
	return e.cells
}

func (ic *IncidentCellCache) IsBuilt(v c3t3.VertexHandle) bool {
	e, ok := ic.entries[v]
	return ok && e.built
}

func (ic *IncidentCellCache) Invalidate(v c3t3.VertexHandle) {
	if e, ok := ic.entries[v]; ok {
		e.built = false
	}
}

func (ic *IncidentCellCache) Reset() {
	for _, e := range ic.entries {
		e.built = false
	}
}

// IsEdgeUV looks for a cell holding both u and v among the cached cells of u
func (ic *IncidentCellCache) IsEdgeUV(u, v c3t3.VertexHandle) (e c3t3.Edge, ok bool) {
	if u == v {
		return
	}
	for _, c := range ic.GetOrBuild(u) {
		if j, found := ic.tr.VertexIndex(c, v); found {
			return c3t3.Edge{Cell: c, I: ic.tr.Index(c, u), J: j}, true
		}
	}
	return
}
