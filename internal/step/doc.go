// Package step implements the step-descriptor model and execution engine
// for declarative UI component tests.
//
// A step is one unit of test action. Steps come in two shapes:
//
//   - Decl: a declarative descriptor, a type tag plus handler-specific
//     fields ("render", "expect", "click", ...).
//   - Func: a user-supplied check or mutation function over the current
//     context, carried in a small record with an optional label and flags.
//
// Steps execute against a Context, an accumulating key-value map threaded
// through the sequence. Each step receives the context produced by its
// predecessor and may forward an updated one.
//
// EXECUTION PROTOCOL:
//
// A handler is invoked with (env, descriptor, context, ok, fail) and must
// call exactly one of the two callbacks, exactly once. The executor
// enforces the once-guarantee and converts panics in user-supplied code
// into failures; handler code never throws past its boundary.
//
// Descriptor field values may be literals, Ref context lookups, or
// Resolver functions evaluated lazily against the current context just
// before the handler runs. Resolution is keyed by a per-type deny list so
// literal payloads (the text typed into a field) pass through verbatim.
//
// The dispatch table is open: Register binds new tags to handlers without
// modifying the engine, and RegisterDefaults supplies per-type default
// metadata merged under explicit per-step flags.
package step
