package flip

import (
	"errors"
	"fmt"

	"github.com/notargets/tetremesh/tetrahedra/c3t3"
)

/*
Flipper applies edge flips to a complex. It owns the incident cell cache, which stays valid across flips
as long as every mesh change goes through the Flipper.
*/
type Flipper struct {
	cx       *c3t3.Complex
	selector CellSelector
	visitor  Visitor
	opts     Options
	cache    *IncidentCellCache
	Stats    *Stats
}

func NewFlipper(cx *c3t3.Complex, selector CellSelector, visitor Visitor, opts ...Option) (fl *Flipper, err error) {
	if cx == nil {
		err = fmt.Errorf("nil complex")
		return
	}
	o := DefaultOptions()
	for _, opt := range opts {
		opt(&o)
	}
	switch o.Criterion {
	case MinAngleBased, AverageAngleBased:
	default:
		err = fmt.Errorf("%s: %w", o.Criterion, ErrCriterionNotImplemented)
		return
	}
	if selector == nil {
		selector = InComplex{}
	}
	if visitor == nil {
		visitor = NoVisitor{}
	}
	fl = &Flipper{
		cx:       cx,
		selector: selector,
		visitor:  visitor,
		opts:     o,
		cache:    NewIncidentCellCache(cx.Triangulation),
		Stats:    NewStats(),
	}
	return
}

func (fl *Flipper) Complex() *c3t3.Complex { return fl.cx }

func (fl *Flipper) Options() Options { return fl.opts }

func (fl *Flipper) Cache() *IncidentCellCache { return fl.cache }

// record counts a committed flip or a rejection
func (fl *Flipper) record(r Result) Result {
	fl.Stats.reject(r)
	return r
}

// checkCells runs the post commit consistency checks on the cells touched by a flip and on their neighbors
func (fl *Flipper) checkCells(cells []c3t3.CellHandle) Result {
	if !fl.opts.CheckValidity {
		return ValidFlip
	}
	for _, c := range cells {
		if err := fl.cx.CheckCell(c); err != nil {
			return resultOf(err)
		}
		for i := 0; i < 4; i++ {
			if err := fl.cx.CheckCell(fl.cx.Neighbor(c, i)); err != nil {
				return resultOf(err)
			}
		}
	}
	return ValidFlip
}

func resultOf(err error) Result {
	switch {
	case err == nil:
		return ValidFlip
	case errors.Is(err, c3t3.ErrInvalidOrientation):
		return InvalidOrientation
	case errors.Is(err, c3t3.ErrInvalidVertex):
		return InvalidVertex
	default:
		return InvalidCell
	}
}

// newCellFrom creates a copy of src with vertex i replaced by v, carrying the subdomain and the selection of src
func (fl *Flipper) newCellFrom(src c3t3.CellHandle, i int, v c3t3.VertexHandle) (c c3t3.CellHandle) {
	verts := fl.cx.Vertices(src)
	verts[i] = v
	selected := fl.selector.Selected(fl.cx, src)
	c = fl.cx.CreateCell(verts)
	fl.cx.SetSubdomain(c, fl.cx.Subdomain(src))
	if ms, ok := fl.selector.(MutableSelector); ok && selected {
		ms.Select(c)
	}
	fl.visitor.AfterFlip(c)
	return
}

func (fl *Flipper) deleteCell(c c3t3.CellHandle) {
	if ms, ok := fl.selector.(MutableSelector); ok {
		ms.Unselect(c)
	}
	fl.cx.DeleteCell(c)
}
