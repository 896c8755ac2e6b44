package hostsim

import (
	"errors"
	"unsafe"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/wippyai/gamebind/bind"
	"github.com/wippyai/gamebind/boundary"
)

type queryElem struct {
	id     bind.ComponentID
	entity bool
}

// query is the host side of one query argument. Its address is the handle the
// module receives.
type query struct {
	system string
	elems  []queryElem
}

func (q *query) match(e *entity) bool {
	for _, el := range q.elems {
		if !el.entity && !e.has(el.id) {
			return false
		}
	}
	return true
}

func (q *query) cell(e *entity, el queryElem) unsafe.Pointer {
	if el.entity {
		return unsafe.Pointer(&e.id)
	}
	return e.comps[el.id]
}

func (q *query) fill(e *entity, row []unsafe.Pointer) {
	for i, el := range q.elems {
		row[i] = q.cell(e, el)
	}
}

// component resolves id on e for a point or first-match lookup. Only
// components named by the query are reachable through it.
func (q *query) component(e *entity, id bind.ComponentID) unsafe.Pointer {
	for _, el := range q.elems {
		if el.id == id {
			return q.cell(e, el)
		}
	}
	return nil
}

var errRowFault = errors.New("row faulted")

func (h *Host) get(handle unsafe.Pointer, id bind.EntityID, component bind.ComponentID) unsafe.Pointer {
	q := (*query)(handle)
	e, ok := h.world.entities[id]
	if !ok || !q.match(e) {
		return nil
	}
	return q.component(e, component)
}

func (h *Host) getFirst(handle unsafe.Pointer, component bind.ComponentID) unsafe.Pointer {
	q := (*query)(handle)
	for _, e := range h.frameEntities {
		if q.match(e) {
			return q.component(e, component)
		}
	}
	return nil
}

func (h *Host) forEach(handle unsafe.Pointer, row bind.RowFunc) {
	q := (*query)(handle)
	cells := make([]unsafe.Pointer, len(q.elems))
	for _, e := range h.frameEntities {
		if !q.match(e) {
			continue
		}
		q.fill(e, cells)
		if row(unsafe.Pointer(&cells[0])) != boundary.StatusOK {
			Logger().Debug("iteration stopped by row fault", zap.String("system", q.system))
			return
		}
	}
}

// parForEach splits the matching rows into one chunk per worker.
func (h *Host) parForEach(handle unsafe.Pointer, row bind.RowFunc) {
	q := (*query)(handle)
	var matched []*entity
	for _, e := range h.frameEntities {
		if q.match(e) {
			matched = append(matched, e)
		}
	}
	if len(matched) == 0 {
		return
	}

	workers := min(h.cfg.Workers, len(matched))
	chunk := (len(matched) + workers - 1) / workers

	var g errgroup.Group
	g.SetLimit(workers)
	for start := 0; start < len(matched); start += chunk {
		part := matched[start:min(start+chunk, len(matched))]
		g.Go(func() error {
			cells := make([]unsafe.Pointer, len(q.elems))
			for _, e := range part {
				q.fill(e, cells)
				if row(unsafe.Pointer(&cells[0])) != boundary.StatusOK {
					return errRowFault
				}
			}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		Logger().Debug("parallel iteration stopped by row fault", zap.String("system", q.system))
	}
}
