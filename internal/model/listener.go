package model

import (
	"fmt"

	"github.com/google/uuid"
	"github.com/hashicorp/go-multierror"
)

// LoadListener is notified after a configuration load completes. Load
// isolates listener failures: every listener runs, and their errors are
// aggregated rather than aborting the remaining notifications.
type LoadListener func(c *Configuration) error

// listenerTable keeps load listeners keyed by registration handle, in
// registration order.
type listenerTable struct {
	handles []uuid.UUID
	fns     map[uuid.UUID]LoadListener
}

func newListenerTable() *listenerTable {
	return &listenerTable{
		fns: make(map[uuid.UUID]LoadListener),
	}
}

func (t *listenerTable) add(fn LoadListener) uuid.UUID {
	handle := uuid.New()
	t.handles = append(t.handles, handle)
	t.fns[handle] = fn
	return handle
}

func (t *listenerTable) remove(handle uuid.UUID) bool {
	if _, ok := t.fns[handle]; !ok {
		return false
	}
	delete(t.fns, handle)
	for i, h := range t.handles {
		if h == handle {
			t.handles = append(t.handles[:i], t.handles[i+1:]...)
			break
		}
	}
	return true
}

func (t *listenerTable) notify(c *Configuration) error {
	var result *multierror.Error
	for _, handle := range t.handles {
		fn := t.fns[handle]
		if fn == nil {
			continue
		}
		if err := fn(c); err != nil {
			result = multierror.Append(result, fmt.Errorf("load listener %s: %w", handle, err))
		}
	}
	return result.ErrorOrNil()
}
