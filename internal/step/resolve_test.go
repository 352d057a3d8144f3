package step

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestResolveValue_LiteralPassesThrough(t *testing.T) {
	v, err := resolveValue("plain", Context{})
	require.NoError(t, err)
	assert.Equal(t, "plain", v)

	v, err = resolveValue(42, Context{})
	require.NoError(t, err)
	assert.Equal(t, 42, v)
}

func TestResolveValue_Ref(t *testing.T) {
	ctx := Context{"name": "alice"}

	v, err := resolveValue(Ref("name"), ctx)
	require.NoError(t, err)
	assert.Equal(t, "alice", v)
}

func TestResolveValue_UnboundRefFails(t *testing.T) {
	_, err := resolveValue(Ref("missing"), Context{})
	require.Error(t, err)
	assert.Contains(t, err.Error(), `"missing" not bound`)
}

func TestResolveValue_Resolver(t *testing.T) {
	r := Resolver(func(ctx Context) (any, error) {
		return ctx["n"].(int) * 2, nil
	})

	v, err := resolveValue(r, Context{"n": 21})
	require.NoError(t, err)
	assert.Equal(t, 42, v)
}

func TestResolveValue_ResolverError(t *testing.T) {
	r := Resolver(func(Context) (any, error) {
		return nil, errors.New("boom")
	})

	_, err := resolveValue(r, Context{})
	assert.Error(t, err)
}

func TestResolveValue_ResolverPanicBecomesError(t *testing.T) {
	r := Resolver(func(Context) (any, error) {
		panic("blew up")
	})

	_, err := resolveValue(r, Context{})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "resolver panicked")
}

func TestResolveFields_ResolvesEveryKey(t *testing.T) {
	reg := NewRegistry()
	ctx := Context{"sel": "#msg"}

	out, err := reg.resolveFields(TypeExpect, Fields{
		"selector": Ref("sel"),
		"text":     "literal",
	}, ctx)
	require.NoError(t, err)
	assert.Equal(t, "#msg", out["selector"])
	assert.Equal(t, "literal", out["text"])
}

func TestResolveFields_DenyListPassesVerbatim(t *testing.T) {
	reg := NewRegistry()
	ctx := Context{"payload": "resolved"}

	// The typed text of a type step is never interpreted, even when it
	// happens to be a Ref value.
	out, err := reg.resolveFields(TypeInput, Fields{
		"selector": "#name",
		"text":     Ref("payload"),
	}, ctx)
	require.NoError(t, err)
	assert.Equal(t, Ref("payload"), out["text"])
}

func TestResolveFields_ErrorNamesField(t *testing.T) {
	reg := NewRegistry()

	_, err := reg.resolveFields(TypeExpect, Fields{
		"selector": Ref("missing"),
	}, Context{})
	require.Error(t, err)
	assert.Contains(t, err.Error(), `field "selector"`)
}
