package step

import (
	"fmt"

	"github.com/roach88/stepwright/internal/ui"
)

// handleAwait suspends the run until the awaited operation settles.
// The resolved value can be bound into the context via `as`; a rejection
// fails the step with the reason preserved in the diagnostics.
func handleAwait(env *Env, d Decl, ctx Context, ok OnSuccess, fail OnFailure) {
	raw, present := d.Fields["promise"]
	aw, isAwaitable := raw.(ui.Awaitable)
	if !present || !isAwaitable {
		fail("wait-promise: not an awaitable", map[string]any{
			"promise": fmt.Sprintf("%T", raw),
		})
		return
	}

	as, errMsg := optionalString(d.Fields, "as")
	if errMsg != "" {
		fail("wait-promise: "+errMsg, nil)
		return
	}

	go func() {
		value, err := aw.Await(env.context())
		if err != nil {
			fail("wait-promise: operation rejected", map[string]any{
				"reason": err.Error(),
			})
			return
		}
		next := ctx
		if as != "" {
			next = ctx.With(as, value)
		}
		ok(next)
	}()
}
