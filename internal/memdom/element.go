package memdom

import (
	"errors"
	"strings"

	"github.com/roach88/stepwright/internal/ui"
)

// Elem is an element in the in-memory document tree.
type Elem struct {
	doc      *Document
	tag      string
	id       string
	classes  []string
	attrs    map[string]string
	text     string
	value    string
	disabled bool
	children []*Elem
	onClick  func(self *Elem)

	clicks  int
	changes int
}

// Attribute implements ui.Element.
func (e *Elem) Attribute(name string) (string, bool) {
	v, ok := e.attrs[name]
	return v, ok
}

// Text returns the element's own text followed by all descendant text,
// in document order.
func (e *Elem) Text() string {
	var b strings.Builder
	e.collectText(&b)
	return b.String()
}

func (e *Elem) collectText(b *strings.Builder) {
	b.WriteString(e.text)
	for _, child := range e.children {
		child.collectText(b)
	}
}

// Value implements ui.Element.
func (e *Elem) Value() string {
	return e.value
}

// SetValue implements ui.Element.
func (e *Elem) SetValue(v string) {
	e.value = v
}

// DispatchChange implements ui.Element.
func (e *Elem) DispatchChange() {
	e.changes++
}

// Click dispatches a click. The element's click handler, if any, is
// enqueued as a pending update and takes effect at the next flush.
func (e *Elem) Click() error {
	if e.disabled {
		return errors.New("element is disabled")
	}
	e.clicks++
	if e.onClick != nil {
		handler := e.onClick
		if e.doc != nil {
			e.doc.enqueue(func() { handler(e) })
		} else {
			handler(e)
		}
	}
	return nil
}

// Disabled implements ui.Element.
func (e *Elem) Disabled() bool {
	return e.disabled
}

// Query returns the first descendant matching the selector, or nil.
func (e *Elem) Query(selector string) ui.Element {
	sel := parseSelector(selector)
	for _, child := range e.children {
		if found := child.find(sel); found != nil {
			return found
		}
	}
	return nil
}

// QueryAll returns all descendants matching the selector.
func (e *Elem) QueryAll(selector string) []ui.Element {
	sel := parseSelector(selector)
	var out []ui.Element
	for _, child := range e.children {
		child.findAll(sel, &out)
	}
	return out
}

func (e *Elem) find(sel selector) *Elem {
	if sel.matches(e) {
		return e
	}
	for _, child := range e.children {
		if found := child.find(sel); found != nil {
			return found
		}
	}
	return nil
}

func (e *Elem) findAll(sel selector, out *[]ui.Element) {
	if sel.matches(e) {
		*out = append(*out, e)
	}
	for _, child := range e.children {
		child.findAll(sel, out)
	}
}

// Mutators used by click handlers and tests.

// SetText replaces the element's own text.
func (e *Elem) SetText(s string) {
	e.text = s
}

// SetAttr sets an attribute.
func (e *Elem) SetAttr(name, value string) {
	if e.attrs == nil {
		e.attrs = make(map[string]string, 1)
	}
	e.attrs[name] = value
}

// SetDisabled toggles the disabled state.
func (e *Elem) SetDisabled(disabled bool) {
	e.disabled = disabled
}

// AppendChild builds the node description and appends it, returning the
// built element.
func (e *Elem) AppendChild(n *Node) *Elem {
	child := build(e.doc, n)
	e.children = append(e.children, child)
	return child
}

// RemoveChildren detaches all children.
func (e *Elem) RemoveChildren() {
	e.children = nil
}

// Clicks reports how many clicks the element received.
func (e *Elem) Clicks() int {
	return e.clicks
}

// Changes reports how many change notifications were dispatched.
func (e *Elem) Changes() int {
	return e.changes
}
