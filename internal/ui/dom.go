package ui

// Element is the engine's view of a rendered DOM node.
//
// All methods are synchronous; implementations are expected to be safe for
// use from the single goroutine driving a run.
type Element interface {
	// Attribute returns the named attribute and whether it is present.
	Attribute(name string) (string, bool)

	// Text returns the element's full text content, including descendants.
	Text() string

	// Value returns the element's current input value.
	Value() string

	// SetValue replaces the element's input value.
	SetValue(v string)

	// DispatchChange fires the host toolkit's change notification.
	DispatchChange()

	// Click dispatches a click on the element.
	Click() error

	// Disabled reports whether the element refuses interaction.
	Disabled() bool

	// Query returns the first descendant matching the selector, or nil.
	Query(selector string) Element

	// QueryAll returns all descendants matching the selector.
	QueryAll(selector string) []Element
}

// Container is the mount point a rendered component lives in during a test.
// A container is itself queryable like any element.
type Container interface {
	Element

	// ID identifies the container on the host document.
	ID() string
}

// DOM creates and destroys mount containers on the host document.
type DOM interface {
	// CreateContainer appends a fresh container to the document root.
	CreateContainer(id string) (Container, error)

	// RemoveContainer detaches and destroys a container.
	RemoveContainer(c Container) error
}
