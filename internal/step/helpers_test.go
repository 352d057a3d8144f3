package step

import (
	"context"
	"io"
	"log/slog"
	"testing"

	"github.com/roach88/stepwright/internal/memdom"
)

// testEnv wires the in-memory toolkit into a handler environment.
type testEnv struct {
	doc *memdom.Document
	tk  *memdom.Toolkit
	env *Env
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()
	doc := memdom.NewDocument()
	tk := memdom.NewToolkit(doc)
	return &testEnv{
		doc: doc,
		tk:  tk,
		env: &Env{
			Ctx:     context.Background(),
			Toolkit: tk,
			DOM:     doc,
			Logger:  slog.New(slog.NewTextHandler(io.Discard, nil)),
		},
	}
}

// result is the settled outcome of one executed step.
type result struct {
	ctx     Context
	msg     string
	details map[string]any
	failed  bool
}

// exec runs one step to completion, blocking on async handlers.
func exec(t *testing.T, env *Env, s Step, ctx Context) result {
	t.Helper()
	return execWith(t, DefaultRegistry(), env, s, ctx)
}

func execWith(t *testing.T, reg *Registry, env *Env, s Step, ctx Context) result {
	t.Helper()
	ch := make(chan result, 1)
	reg.Execute(env, s, ctx,
		func(next Context) {
			ch <- result{ctx: next}
		},
		func(msg string, details map[string]any) {
			ch <- result{failed: true, msg: msg, details: details}
		},
	)
	return <-ch
}

// counterComponent is a small fixture with a button, a text field, and a
// message span.
func counterComponent() *memdom.Component {
	return &memdom.Component{
		Name: "Counter",
		Root: &memdom.Node{
			Tag: "div",
			Children: []*memdom.Node{
				{Tag: "span", ID: "msg", Text: "ready", Attrs: map[string]string{"role": "status"}},
				{Tag: "input", ID: "name", Value: ""},
				{Tag: "button", ID: "go", Text: "Go"},
				{Tag: "button", ID: "stop", Text: "Stop", Disabled: true},
			},
		},
	}
}

// mount renders the fixture into an engine-created container and returns
// the resulting context.
func mount(t *testing.T, te *testEnv) Context {
	t.Helper()
	out := exec(t, te.env, Render(counterComponent()), Context{})
	if out.failed {
		t.Fatalf("mount failed: %s", out.msg)
	}
	return out.ctx
}
