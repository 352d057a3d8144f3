package memdom

import (
	"fmt"
	"sync"

	"github.com/roach88/stepwright/internal/ui"
)

// Container is a mount point appended to the document root.
type Container struct {
	Elem
	containerID string
}

// ID implements ui.Container.
func (c *Container) ID() string {
	return c.containerID
}

// Document is the in-memory document root. It implements ui.DOM and
// carries the pending-update queue the flush model is built on.
type Document struct {
	mu         sync.Mutex
	containers []*Container
	pending    []func()
}

// NewDocument creates an empty document.
func NewDocument() *Document {
	return &Document{}
}

// CreateContainer appends a fresh container to the document root.
// Container IDs must be unique.
func (d *Document) CreateContainer(id string) (ui.Container, error) {
	d.mu.Lock()
	defer d.mu.Unlock()

	for _, c := range d.containers {
		if c.containerID == id {
			return nil, fmt.Errorf("container %q already exists", id)
		}
	}

	c := &Container{containerID: id}
	c.Elem.doc = d
	c.Elem.tag = "div"
	c.Elem.id = id
	d.containers = append(d.containers, c)
	return c, nil
}

// RemoveContainer detaches a container from the document root.
func (d *Document) RemoveContainer(target ui.Container) error {
	c, ok := target.(*Container)
	if !ok {
		return fmt.Errorf("not a memdom container: %T", target)
	}

	d.mu.Lock()
	defer d.mu.Unlock()

	for i, existing := range d.containers {
		if existing == c {
			d.containers = append(d.containers[:i], d.containers[i+1:]...)
			return nil
		}
	}
	return fmt.Errorf("container %q not attached", c.containerID)
}

// HasContainer reports whether a container with the given ID is attached.
func (d *Document) HasContainer(id string) bool {
	d.mu.Lock()
	defer d.mu.Unlock()
	for _, c := range d.containers {
		if c.containerID == id {
			return true
		}
	}
	return false
}

// ContainerCount returns the number of attached containers.
func (d *Document) ContainerCount() int {
	d.mu.Lock()
	defer d.mu.Unlock()
	return len(d.containers)
}

// enqueue schedules a pending update applied at the next flush.
func (d *Document) enqueue(fn func()) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.pending = append(d.pending, fn)
}

// takePending drains the pending-update queue.
func (d *Document) takePending() []func() {
	d.mu.Lock()
	defer d.mu.Unlock()
	out := d.pending
	d.pending = nil
	return out
}
