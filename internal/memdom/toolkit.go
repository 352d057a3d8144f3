package memdom

import (
	"fmt"
	"sync"

	"github.com/roach88/stepwright/internal/ui"
)

// Toolkit implements ui.Toolkit over an in-memory document.
type Toolkit struct {
	doc *Document

	mu         sync.Mutex
	afterFlush []func()
}

// NewToolkit creates a toolkit bound to the document.
func NewToolkit(doc *Document) *Toolkit {
	return &Toolkit{doc: doc}
}

// RenderInto mounts a memdom component into the container, replacing any
// previous content.
func (t *Toolkit) RenderInto(c ui.Component, target ui.Container) error {
	comp, ok := c.(*Component)
	if !ok {
		return fmt.Errorf("not a memdom component: %T", c)
	}
	if comp.Root == nil {
		return fmt.Errorf("component %q has no root node", comp.ComponentName())
	}
	ct, ok := target.(*Container)
	if !ok {
		return fmt.Errorf("not a memdom container: %T", target)
	}

	ct.Elem.children = []*Elem{build(t.doc, comp.Root)}
	return nil
}

// FlushUpdates applies all pending updates (updates enqueued by earlier
// updates included), then runs the after-flush callbacks.
func (t *Toolkit) FlushUpdates() {
	for {
		pending := t.doc.takePending()
		if len(pending) == 0 {
			break
		}
		for _, fn := range pending {
			fn()
		}
	}

	t.mu.Lock()
	callbacks := t.afterFlush
	t.afterFlush = nil
	t.mu.Unlock()

	for _, fn := range callbacks {
		fn()
	}
}

// AfterFlush registers fn to run once the next flush completes.
func (t *Toolkit) AfterFlush(fn func()) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.afterFlush = append(t.afterFlush, fn)
}
