package step

import "fmt"

// Resolver computes a descriptor field value from the current context at
// execution time. Plain values pass through unchanged; a Resolver in a
// field position is invoked just before the step's handler runs.
type Resolver func(Context) (any, error)

// Ref resolves to the context value bound under the named key.
// An unbound key is a resolution error, not a nil value.
type Ref string

// resolveValue replaces Resolver and Ref values with their resolved
// results. Panics inside a user-supplied resolver are converted to errors.
func resolveValue(v any, ctx Context) (out any, err error) {
	switch rv := v.(type) {
	case Resolver:
		defer func() {
			if r := recover(); r != nil {
				err = fmt.Errorf("resolver panicked: %v", r)
			}
		}()
		return rv(ctx)
	case Ref:
		bound, ok := ctx[string(rv)]
		if !ok {
			return nil, fmt.Errorf("context key %q not bound", string(rv))
		}
		return bound, nil
	default:
		return v, nil
	}
}

// resolveFields resolves every field of a descriptor against the context.
// Keys on the step type's deny list pass through verbatim so that literal
// payloads are never interpreted.
func (r *Registry) resolveFields(tag string, fields Fields, ctx Context) (Fields, error) {
	if len(fields) == 0 {
		return fields, nil
	}

	r.mu.RLock()
	deny := r.noResolve[tag]
	r.mu.RUnlock()

	out := make(Fields, len(fields))
	for key, v := range fields {
		if deny[key] {
			out[key] = v
			continue
		}
		resolved, err := resolveValue(v, ctx)
		if err != nil {
			return nil, fmt.Errorf("field %q: %w", key, err)
		}
		out[key] = resolved
	}
	return out, nil
}
