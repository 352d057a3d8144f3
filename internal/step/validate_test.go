package step

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestValidateList_ValidListPasses(t *testing.T) {
	reg := NewRegistry()

	err := reg.ValidateList([]Step{
		Render(counterComponent()),
		Expect("#msg").WithField("text", "ready"),
		Click("#go"),
		TypeText("#name", "alice"),
		Wait(10),
		Func{Run: func(ctx Context) (Context, bool) { return ctx, true }},
		CleanupStep(),
	})
	assert.NoError(t, err)
}

func TestValidateList_RejectsNilStep(t *testing.T) {
	reg := NewRegistry()

	err := reg.ValidateList([]Step{Expect("#a"), nil})
	require.Error(t, err)
	assertUsageCode(t, err, ErrCodeBadDescriptor)
}

func TestValidateList_RejectsFuncWithoutCallable(t *testing.T) {
	reg := NewRegistry()

	err := reg.ValidateList([]Step{Func{Label: "empty"}})
	require.Error(t, err)
	assertUsageCode(t, err, ErrCodeBadDescriptor)
}

func TestValidateList_RejectsMissingTypeTag(t *testing.T) {
	reg := NewRegistry()

	err := reg.ValidateList([]Step{Decl{}})
	require.Error(t, err)
	assertUsageCode(t, err, ErrCodeBadDescriptor)
}

func TestValidateList_RejectsNestedGroup(t *testing.T) {
	reg := NewRegistry()

	// The runner splices one level before validating, so a Group seen
	// here is a group inside a group.
	err := reg.ValidateList([]Step{Group{Expect("#a")}})
	require.Error(t, err)
	assertUsageCode(t, err, ErrCodeBadDescriptor)
}

func TestValidateList_FieldTypeErrors(t *testing.T) {
	reg := NewRegistry()

	tests := []struct {
		name string
		step Step
	}{
		{"expect selector missing", Decl{Type: TypeExpect}},
		{"expect selector not a string", Decl{Type: TypeExpect, Fields: Fields{"selector": 7}}},
		{"expect timeout not numeric", Expect("#a").WithField("timeout", "soon")},
		{"expect text wrong type", Expect("#a").WithField("text", 12)},
		{"expect-count count missing", Decl{Type: TypeExpectCount, Fields: Fields{"selector": "#a"}}},
		{"type text missing", Decl{Type: TypeInput, Fields: Fields{"selector": "#a"}}},
		{"type text not literal", Decl{Type: TypeInput, Fields: Fields{"selector": "#a", "text": Ref("x")}}},
		{"wait ms missing", Decl{Type: TypeWait}},
		{"wait ms not numeric", Decl{Type: TypeWait, Fields: Fields{"ms": "later"}}},
		{"await promise missing", Decl{Type: TypeAwait}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := reg.ValidateList([]Step{tt.step})
			require.Error(t, err)
			assertUsageCode(t, err, ErrCodeBadField)
		})
	}
}

func TestValidateList_ResolvableFieldsSkipLiteralChecks(t *testing.T) {
	reg := NewRegistry()

	err := reg.ValidateList([]Step{
		Decl{Type: TypeExpect, Fields: Fields{
			"selector": Ref("sel"),
			"timeout": Resolver(func(Context) (any, error) {
				return 100, nil
			}),
		}},
	})
	assert.NoError(t, err)
}

func TestValidateList_ErrorReportsStepPosition(t *testing.T) {
	reg := NewRegistry()

	err := reg.ValidateList([]Step{Expect("#a"), Decl{Type: TypeWait}})
	require.Error(t, err)

	var ue *UsageError
	require.True(t, errors.As(err, &ue))
	assert.Equal(t, "2", ue.Details["step"])
}

func assertUsageCode(t *testing.T, err error, code UsageErrorCode) {
	t.Helper()
	var ue *UsageError
	require.True(t, errors.As(err, &ue), "expected UsageError, got %T", err)
	assert.Equal(t, code, ue.Code)
	assert.True(t, IsUsageError(err))
}
