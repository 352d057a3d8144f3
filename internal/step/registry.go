package step

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"sync"

	"github.com/roach88/stepwright/internal/ui"
)

// Built-in step type tags.
const (
	TypeRender      = "render"
	TypeExpect      = "expect"
	TypeExpectNo    = "expect-no"
	TypeExpectCount = "expect-count"
	TypeClick       = "click"
	TypeInput       = "type"
	TypeWait        = "wait"
	TypeAwait       = "wait-promise"

	// TypeCleanup is the reserved synthetic terminal step appended by the
	// runner. It destroys the engine-created container and never fails.
	TypeCleanup = "stepwright.cleanup"
)

// OnSuccess forwards the (possibly updated) context to the runner.
type OnSuccess func(Context)

// OnFailure reports a human-readable message and structured diagnostics.
type OnFailure func(msg string, details map[string]any)

// Handler executes one declarative step. It must call exactly one of
// ok/fail, synchronously or asynchronously, exactly once; the executor
// enforces the once-guarantee.
type Handler func(env *Env, d Decl, ctx Context, ok OnSuccess, fail OnFailure)

// Env gives handlers access to the host capability surfaces for one run.
type Env struct {
	Ctx     context.Context
	Toolkit ui.Toolkit
	DOM     ui.DOM
	Logger  *slog.Logger
}

func (e *Env) context() context.Context {
	if e == nil || e.Ctx == nil {
		return context.Background()
	}
	return e.Ctx
}

func (e *Env) logger() *slog.Logger {
	if e == nil || e.Logger == nil {
		return slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	return e.Logger
}

// Registry maps step type tags to handlers and per-type default metadata.
//
// The table is open for extension: external code registers handlers for
// new tags before any run begins. No mutation happens during a run.
type Registry struct {
	mu        sync.RWMutex
	handlers  map[string]Handler
	defaults  map[string]Flags
	noResolve map[string]map[string]bool
}

// NewRegistry creates a registry populated with the built-in handlers.
func NewRegistry() *Registry {
	r := &Registry{
		handlers:  make(map[string]Handler),
		defaults:  make(map[string]Flags),
		noResolve: make(map[string]map[string]bool),
	}

	r.Register(TypeRender, handleRender)
	r.Register(TypeExpect, handleExpect)
	r.Register(TypeExpectNo, handleExpectNo)
	r.Register(TypeExpectCount, handleExpectCount)
	r.Register(TypeClick, handleClick)
	r.Register(TypeInput, handleInput)
	r.Register(TypeWait, handleWait)
	r.Register(TypeAwait, handleAwait)
	r.Register(TypeCleanup, handleCleanup)

	// Steps that mutate the UI imply a flush wait after success.
	r.RegisterDefaults(TypeRender, Flags{FlushAfter: Bool(true)})
	r.RegisterDefaults(TypeClick, Flags{FlushAfter: Bool(true)})
	r.RegisterDefaults(TypeInput, Flags{FlushAfter: Bool(true)})

	// The typed text payload is a literal, never a resolver.
	r.RegisterNoResolve(TypeInput, "text")

	return r
}

var defaultRegistry = NewRegistry()

// DefaultRegistry returns the shared registry used when a run does not
// supply its own.
func DefaultRegistry() *Registry {
	return defaultRegistry
}

// Register binds a handler to a step type tag, replacing any previous
// binding. Call before any run begins.
func (r *Registry) Register(tag string, h Handler) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.handlers[tag] = h
}

// RegisterDefaults supplies per-type default step metadata, merged under
// explicit per-step flags.
func (r *Registry) RegisterDefaults(tag string, f Flags) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.defaults[tag] = f
}

// RegisterNoResolve excludes the named field keys of a step type from
// context resolution; their values pass through verbatim.
func (r *Registry) RegisterNoResolve(tag string, keys ...string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	deny := r.noResolve[tag]
	if deny == nil {
		deny = make(map[string]bool, len(keys))
		r.noResolve[tag] = deny
	}
	for _, k := range keys {
		deny[k] = true
	}
}

// EffectiveFlags returns the step's metadata with per-type defaults merged
// under explicit per-step overrides.
func (r *Registry) EffectiveFlags(s Step) Flags {
	explicit := FlagsOf(s)
	if d, ok := s.(Decl); ok {
		r.mu.RLock()
		defaults := r.defaults[d.Type]
		r.mu.RUnlock()
		return explicit.mergedUnder(defaults)
	}
	return explicit
}

// Execute dispatches one step to its handler against the given context.
//
// Exactly one of ok/fail is invoked, exactly once, regardless of handler
// behavior. Panics in handlers or user-supplied code become failures.
func (r *Registry) Execute(env *Env, s Step, ctx Context, ok OnSuccess, fail OnFailure) {
	ok, fail = onceCallbacks(ok, fail)

	switch s := s.(type) {
	case Func:
		runFunc(s, ctx, ok, fail)
	case Decl:
		r.executeDecl(env, s, ctx, ok, fail)
	default:
		fail("unrecognized step descriptor", map[string]any{
			"descriptor": fmt.Sprintf("%T", s),
		})
	}
}

func (r *Registry) executeDecl(env *Env, d Decl, ctx Context, ok OnSuccess, fail OnFailure) {
	resolved, err := r.resolveFields(d.Type, d.Fields, ctx)
	if err != nil {
		fail(fmt.Sprintf("%s: %v", d.Type, err), map[string]any{
			"type": d.Type,
		})
		return
	}
	d.Fields = resolved

	r.mu.RLock()
	h, found := r.handlers[d.Type]
	r.mu.RUnlock()
	if !found {
		fail("unrecognized step descriptor", map[string]any{
			"type": d.Type,
		})
		return
	}

	defer func() {
		if rec := recover(); rec != nil {
			fail(fmt.Sprintf("%s: step handler panicked: %v", d.Type, rec), map[string]any{
				"type":  d.Type,
				"panic": fmt.Sprintf("%v", rec),
			})
		}
	}()
	h(env, d, ctx, ok, fail)
}

// runFunc executes a functional step. Returning false fails the run;
// returning a nil context forwards the current one unchanged.
func runFunc(f Func, ctx Context, ok OnSuccess, fail OnFailure) {
	defer func() {
		if rec := recover(); rec != nil {
			fail(fmt.Sprintf("step function panicked: %v", rec), map[string]any{
				"panic": fmt.Sprintf("%v", rec),
			})
		}
	}()

	next, passed := f.Run(ctx)
	if !passed {
		fail("step function returned false", map[string]any{
			"label": f.DisplayLabel(),
		})
		return
	}
	if next == nil {
		next = ctx
	}
	ok(next)
}

// onceCallbacks wraps an ok/fail pair so that only one of the two is ever
// invoked, and exactly once. Later calls are dropped.
func onceCallbacks(ok OnSuccess, fail OnFailure) (OnSuccess, OnFailure) {
	var once sync.Once
	wrappedOK := func(ctx Context) {
		once.Do(func() { ok(ctx) })
	}
	wrappedFail := func(msg string, details map[string]any) {
		once.Do(func() { fail(msg, details) })
	}
	return wrappedOK, wrappedFail
}

// guardPanics runs fn, converting a panic into a failure. Returns false
// if fn panicked. Used where user-influenced mutation can blow up.
func guardPanics(fail OnFailure, what string, fn func()) (completed bool) {
	defer func() {
		if rec := recover(); rec != nil {
			completed = false
			fail(fmt.Sprintf("%s: %v", what, rec), map[string]any{
				"panic": fmt.Sprintf("%v", rec),
			})
		}
	}()
	fn()
	return true
}
