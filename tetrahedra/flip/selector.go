package flip

import "github.com/notargets/tetremesh/tetrahedra/c3t3"

// CellSelector marks the cells that take part in flipping
type CellSelector interface {
	Selected(cx *c3t3.Complex, c c3t3.CellHandle) bool
}

// MutableSelector is a selector that tracks cells created and removed by flips
type MutableSelector interface {
	CellSelector
	Select(c c3t3.CellHandle)
	Unselect(c c3t3.CellHandle)
}

// InComplex selects the finite cells of a nonzero subdomain
type InComplex struct{}

func (InComplex) Selected(cx *c3t3.Complex, c c3t3.CellHandle) bool {
	return !cx.IsInfiniteCell(c) && cx.IsCellInComplex(c)
}

// AllCells selects every finite cell
type AllCells struct{}

func (AllCells) Selected(cx *c3t3.Complex, c c3t3.CellHandle) bool { return !cx.IsInfiniteCell(c) }

// SubdomainSelector selects the finite cells of the listed subdomains
type SubdomainSelector map[int]bool

func NewSubdomainSelector(subdomains ...int) (s SubdomainSelector) {
	s = make(SubdomainSelector, len(subdomains))
	for _, sd := range subdomains {
		s[sd] = true
	}
	return
}

func (s SubdomainSelector) Selected(cx *c3t3.Complex, c c3t3.CellHandle) bool {
	return !cx.IsInfiniteCell(c) && s[cx.Subdomain(c)]
}

// SetSelector holds an explicit set of cells. Cells built by a flip from a selected cell are selected.
type SetSelector map[c3t3.CellHandle]bool

func NewSetSelector(cells ...c3t3.CellHandle) (s SetSelector) {
	s = make(SetSelector, len(cells))
	for _, c := range cells {
		s[c] = true
	}
	return
}

func (s SetSelector) Selected(_ *c3t3.Complex, c c3t3.CellHandle) bool { return s[c] }

func (s SetSelector) Select(c c3t3.CellHandle) { s[c] = true }

func (s SetSelector) Unselect(c c3t3.CellHandle) { delete(s, c) }

// Visitor is notified right after a flip creates a cell and right before a flip deletes one
type Visitor interface {
	BeforeFlip(c c3t3.CellHandle)
	AfterFlip(c c3t3.CellHandle)
}

type NoVisitor struct{}

func (NoVisitor) BeforeFlip(c3t3.CellHandle) {}
func (NoVisitor) AfterFlip(c3t3.CellHandle)  {}

// VisitorFuncs adapts a pair of callbacks, either may be nil
type VisitorFuncs struct {
	Before, After func(c c3t3.CellHandle)
}

func (v VisitorFuncs) BeforeFlip(c c3t3.CellHandle) {
	if v.Before != nil {
		v.Before(c)
	}
}

func (v VisitorFuncs) AfterFlip(c c3t3.CellHandle) {
	if v.After != nil {
		v.After(c)
	}
}
