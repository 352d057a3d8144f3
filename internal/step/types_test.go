package step

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestDisplayLabel_Fallbacks(t *testing.T) {
	assert.Equal(t, "check stock", Decl{Type: TypeExpect, Label: "check stock"}.DisplayLabel())
	assert.Equal(t, "expect", Decl{Type: TypeExpect}.DisplayLabel())

	assert.Equal(t, "verify", Func{Label: "verify"}.DisplayLabel())
	assert.Equal(t, "function", Func{}.DisplayLabel())
}

func TestLabelOf(t *testing.T) {
	assert.Equal(t, "click", LabelOf(Decl{Type: TypeClick}))
	assert.Equal(t, "function", LabelOf(Func{}))
	assert.Equal(t, "group", LabelOf(Group{}))
}

func TestEffectiveFlags_TypeDefaults(t *testing.T) {
	reg := NewRegistry()

	// Mutating types default to a flush wait.
	for _, tag := range []string{TypeRender, TypeClick, TypeInput} {
		flags := reg.EffectiveFlags(Decl{Type: tag})
		if assert.NotNil(t, flags.FlushAfter, "FlushAfter default for %s", tag) {
			assert.True(t, *flags.FlushAfter)
		}
	}

	// Read-only types have no flush default.
	flags := reg.EffectiveFlags(Decl{Type: TypeExpect})
	assert.Nil(t, flags.FlushAfter)
}

func TestEffectiveFlags_ExplicitOverrideWins(t *testing.T) {
	reg := NewRegistry()

	flags := reg.EffectiveFlags(Decl{Type: TypeClick, Flags: Flags{FlushAfter: Bool(false)}})
	if assert.NotNil(t, flags.FlushAfter) {
		assert.False(t, *flags.FlushAfter)
	}

	flags = reg.EffectiveFlags(Decl{Type: TypeExpect, Flags: Flags{Screenshot: Bool(true)}})
	if assert.NotNil(t, flags.Screenshot) {
		assert.True(t, *flags.Screenshot)
	}
}

func TestWithField_CopiesFields(t *testing.T) {
	base := Expect("#msg")
	derived := base.WithField("text", "hello")

	assert.Contains(t, derived.Fields, "text")
	assert.NotContains(t, base.Fields, "text", "WithField must not mutate the original")
}
