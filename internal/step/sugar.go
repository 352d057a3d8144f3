package step

import (
	"time"

	"github.com/roach88/stepwright/internal/ui"
)

// Constructors for the built-in declarative steps. Handler-specific
// fields beyond the common ones are added with WithField.

// Render mounts a component into an engine-created container.
func Render(c ui.Component) Decl {
	return Decl{Type: TypeRender, Fields: Fields{"component": c}}
}

// RenderInto mounts a component into a caller-supplied container.
// The engine never destroys a container it did not create.
func RenderInto(c ui.Component, target ui.Container) Decl {
	return Decl{Type: TypeRender, Fields: Fields{"component": c, "container": target}}
}

// Expect polls for an element matching selector.
func Expect(selector string) Decl {
	return Decl{Type: TypeExpect, Fields: Fields{"selector": selector}}
}

// ExpectNo asserts that no element matches selector.
func ExpectNo(selector string) Decl {
	return Decl{Type: TypeExpectNo, Fields: Fields{"selector": selector}}
}

// ExpectCount asserts that exactly count elements match selector.
func ExpectCount(selector string, count int) Decl {
	return Decl{Type: TypeExpectCount, Fields: Fields{"selector": selector, "count": count}}
}

// Click dispatches a click on the first element matching selector.
func Click(selector string) Decl {
	return Decl{Type: TypeClick, Fields: Fields{"selector": selector}}
}

// TypeText appends text to the field matching selector and dispatches a
// change notification. Add WithField("overwrite", true) to replace the
// value instead.
func TypeText(selector, text string) Decl {
	return Decl{Type: TypeInput, Fields: Fields{"selector": selector, "text": text}}
}

// Wait pauses the sequence for the given delay.
func Wait(d time.Duration) Decl {
	return Decl{Type: TypeWait, Fields: Fields{"ms": d}}
}

// Await suspends the sequence until the awaitable settles, binding the
// resolved value under as (pass "" to discard it).
func Await(aw ui.Awaitable, as string) Decl {
	fields := Fields{"promise": aw}
	if as != "" {
		fields["as"] = as
	}
	return Decl{Type: TypeAwait, Fields: fields}
}

// Check wraps a boolean predicate over the context as a functional step.
func Check(label string, pred func(Context) bool) Func {
	return Func{
		Label: label,
		Run: func(ctx Context) (Context, bool) {
			return nil, pred(ctx)
		},
	}
}

// Update wraps a context mutation as a functional step that always
// succeeds.
func Update(label string, fn func(Context) Context) Func {
	return Func{
		Label: label,
		Run: func(ctx Context) (Context, bool) {
			return fn(ctx), true
		},
	}
}
