package step

import "github.com/roach88/stepwright/internal/ui"

// Context is the key-value state threaded through a step sequence.
//
// Contexts are immutable per step: each step receives the context produced
// by its sole predecessor, and updates go through With, which copies.
// Nothing reads or writes a context concurrently, so no locking is needed.
type Context map[string]any

// Reserved engine keys. The private namespace carries the active rendering
// container and whether the engine created it (and must destroy it).
const (
	ctxContainer     = "stepwright.container"
	ctxOwnsContainer = "stepwright.owns-container"
)

func (c Context) clone() Context {
	out := make(Context, len(c)+1)
	for k, v := range c {
		out[k] = v
	}
	return out
}

// With returns a copy of the context with one key bound.
func (c Context) With(key string, value any) Context {
	out := c.clone()
	out[key] = value
	return out
}

// Container returns the active rendering container, or nil.
func (c Context) Container() ui.Container {
	if v, ok := c[ctxContainer].(ui.Container); ok {
		return v
	}
	return nil
}

// Element returns the ui.Element bound under key (via an expect step's
// `as` binding), if any.
func (c Context) Element(key string) (ui.Element, bool) {
	el, ok := c[key].(ui.Element)
	return el, ok
}

func (c Context) ownsContainer() bool {
	v, ok := c[ctxOwnsContainer].(bool)
	return ok && v
}

func (c Context) withContainer(target ui.Container, owned bool) Context {
	out := c.clone()
	out[ctxContainer] = target
	out[ctxOwnsContainer] = owned
	return out
}

func (c Context) withoutContainer() Context {
	out := c.clone()
	delete(out, ctxContainer)
	delete(out, ctxOwnsContainer)
	return out
}
