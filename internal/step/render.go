package step

import (
	"fmt"

	"github.com/google/uuid"

	"github.com/roach88/stepwright/internal/ui"
)

// handleRender mounts a component into a container. When the caller gives
// no container, the engine creates one on the document root and marks it
// engine-owned; the terminal cleanup step destroys exactly that container.
func handleRender(env *Env, d Decl, ctx Context, ok OnSuccess, fail OnFailure) {
	raw, present := d.Fields["component"]
	comp, isComp := raw.(ui.Component)
	if !present || !isComp {
		fail("render: not a renderable component description", map[string]any{
			"component": fmt.Sprintf("%T", raw),
		})
		return
	}

	target, _ := d.Fields["container"].(ui.Container)
	owned := false
	if target == nil {
		if env.DOM == nil {
			fail("render: no DOM capability to create a container", nil)
			return
		}
		id := "stepwright-" + uuid.Must(uuid.NewV7()).String()
		created, err := env.DOM.CreateContainer(id)
		if err != nil {
			fail(fmt.Sprintf("render: create container: %v", err), map[string]any{
				"container": id,
			})
			return
		}
		target = created
		owned = true
	}

	if err := env.Toolkit.RenderInto(comp, target); err != nil {
		// Don't leak a container the engine just created.
		if owned {
			if rmErr := env.DOM.RemoveContainer(target); rmErr != nil {
				env.logger().Warn("failed to remove container after mount error",
					"container", target.ID(), "error", rmErr)
			}
		}
		fail(fmt.Sprintf("render: mount failed: %v", err), map[string]any{
			"component": comp.ComponentName(),
		})
		return
	}

	ok(ctx.withContainer(target, owned))
}
