package step

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestExecute_UnknownTypeFails(t *testing.T) {
	te := newTestEnv(t)

	out := exec(t, te.env, Decl{Type: "no-such-step"}, Context{})
	require.True(t, out.failed)
	assert.Equal(t, "unrecognized step descriptor", out.msg)
	assert.Equal(t, "no-such-step", out.details["type"])
}

func TestExecute_UnknownStepKindFails(t *testing.T) {
	te := newTestEnv(t)

	out := exec(t, te.env, nil, Context{})
	require.True(t, out.failed)
	assert.Equal(t, "unrecognized step descriptor", out.msg)
}

func TestExecute_FuncForwardsContext(t *testing.T) {
	te := newTestEnv(t)

	out := exec(t, te.env, Func{Run: func(ctx Context) (Context, bool) {
		return ctx.With("seen", true), true
	}}, Context{})
	require.False(t, out.failed)
	assert.Equal(t, true, out.ctx["seen"])
}

func TestExecute_FuncNilContextForwardsUnchanged(t *testing.T) {
	te := newTestEnv(t)
	ctx := Context{"keep": "me"}

	out := exec(t, te.env, Func{Run: func(Context) (Context, bool) {
		return nil, true
	}}, ctx)
	require.False(t, out.failed)
	assert.Equal(t, "me", out.ctx["keep"])
}

func TestExecute_FuncFalseFails(t *testing.T) {
	te := newTestEnv(t)

	out := exec(t, te.env, Func{Label: "verify stock", Run: func(Context) (Context, bool) {
		return nil, false
	}}, Context{})
	require.True(t, out.failed)
	assert.Equal(t, "step function returned false", out.msg)
	assert.Equal(t, "verify stock", out.details["label"])
}

func TestExecute_FuncPanicBecomesFailure(t *testing.T) {
	te := newTestEnv(t)

	out := exec(t, te.env, Func{Run: func(Context) (Context, bool) {
		panic("kaboom")
	}}, Context{})
	require.True(t, out.failed)
	assert.Contains(t, out.msg, "panicked")
}

func TestExecute_HandlerPanicBecomesFailure(t *testing.T) {
	te := newTestEnv(t)
	reg := NewRegistry()
	reg.Register("explode", func(env *Env, d Decl, ctx Context, ok OnSuccess, fail OnFailure) {
		panic("handler bug")
	})

	out := execWith(t, reg, te.env, Decl{Type: "explode"}, Context{})
	require.True(t, out.failed)
	assert.Contains(t, out.msg, "step handler panicked")
}

func TestExecute_CallbacksFireAtMostOnce(t *testing.T) {
	te := newTestEnv(t)
	reg := NewRegistry()
	reg.Register("chatty", func(env *Env, d Decl, ctx Context, ok OnSuccess, fail OnFailure) {
		ok(ctx)
		ok(ctx)
		fail("too late", nil)
	})

	calls := 0
	reg.Execute(te.env, Decl{Type: "chatty"}, Context{},
		func(Context) { calls++ },
		func(string, map[string]any) { calls++ },
	)
	assert.Equal(t, 1, calls)
}

func TestExecute_ResolutionFailureFailsStep(t *testing.T) {
	te := newTestEnv(t)
	ctx := mount(t, te)

	out := exec(t, te.env, Decl{Type: TypeExpect, Fields: Fields{
		"selector": Ref("missing"),
	}}, ctx)
	require.True(t, out.failed)
	assert.Contains(t, out.msg, `"missing" not bound`)
}

func TestRegister_ExtensionType(t *testing.T) {
	te := newTestEnv(t)
	reg := NewRegistry()
	reg.Register("noop", func(env *Env, d Decl, ctx Context, ok OnSuccess, fail OnFailure) {
		ok(ctx)
	})

	out := execWith(t, reg, te.env, Decl{Type: "noop"}, Context{})
	assert.False(t, out.failed)
}
