package step

import (
	"fmt"

	"github.com/roach88/stepwright/internal/ui"
)

// searchRoot returns the element queries run under: the step's explicit
// `in` root if given, else the active rendering container.
func searchRoot(d Decl, ctx Context) ui.Element {
	if root, ok := d.Fields["in"].(ui.Element); ok {
		return root
	}
	if c := ctx.Container(); c != nil {
		return c
	}
	return nil
}

// findTarget resolves the element a click/type step operates on: an
// explicit element handle wins; otherwise a string selector is queried
// under the search root. The absence of both is surfaced as a step
// failure, not an exception. On success the details identify the
// resolved target so failures after resolution can name it.
func findTarget(d Decl, ctx Context) (ui.Element, string, map[string]any) {
	if el, ok := d.Fields["element"].(ui.Element); ok {
		return el, "", nil
	}

	raw, present := d.Fields["selector"]
	if !present {
		return nil, "step requires a selector or element", nil
	}
	sel, ok := raw.(string)
	if !ok {
		return nil, "selector must be a string", map[string]any{
			"selector": fmt.Sprintf("%T", raw),
		}
	}

	root := searchRoot(d, ctx)
	if root == nil {
		return nil, "no active container to search", map[string]any{
			"selector": sel,
		}
	}

	el := root.Query(sel)
	if el == nil {
		return nil, "no element matches selector", map[string]any{
			"selector": sel,
		}
	}
	return el, "", map[string]any{"selector": sel}
}
