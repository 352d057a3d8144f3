package memdom

// Node is a declarative description of an element subtree.
// Components are built from Node trees; tests and scenario files use the
// same shape.
type Node struct {
	Tag      string
	ID       string
	Class    string
	Text     string
	Value    string
	Disabled bool
	Attrs    map[string]string
	Children []*Node

	// OnClick runs as a pending update when the built element is
	// clicked; its effect becomes visible at the next flush.
	OnClick func(self *Elem)
}

// Component is a renderable description backed by a static node tree.
type Component struct {
	Name string
	Root *Node
}

// ComponentName implements ui.Component.
func (c *Component) ComponentName() string {
	if c.Name != "" {
		return c.Name
	}
	if c.Root != nil {
		return c.Root.Tag
	}
	return "component"
}

// build constructs the element tree for a node description.
func build(doc *Document, n *Node) *Elem {
	e := &Elem{
		doc:      doc,
		tag:      n.Tag,
		id:       n.ID,
		text:     n.Text,
		value:    n.Value,
		disabled: n.Disabled,
		onClick:  n.OnClick,
	}
	e.classes = splitClasses(n.Class)
	if len(n.Attrs) > 0 {
		e.attrs = make(map[string]string, len(n.Attrs))
		for k, v := range n.Attrs {
			e.attrs[k] = v
		}
	}
	for _, child := range n.Children {
		e.children = append(e.children, build(doc, child))
	}
	return e
}
