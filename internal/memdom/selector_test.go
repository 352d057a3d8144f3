package memdom

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseSelector_Forms(t *testing.T) {
	tests := []struct {
		input   string
		tag     string
		id      string
		classes []string
	}{
		{"button", "button", "", nil},
		{"#main", "", "main", nil},
		{".primary", "", "", []string{"primary"}},
		{"input.field.primary", "input", "", []string{"field", "primary"}},
		{"div#main", "div", "main", nil},
		{"button#ok.wide", "button", "ok", []string{"wide"}},
	}

	for _, tt := range tests {
		sel := parseSelector(tt.input)
		assert.Equal(t, tt.tag, sel.tag, "tag for %q", tt.input)
		assert.Equal(t, tt.id, sel.id, "id for %q", tt.input)
		assert.Equal(t, tt.classes, sel.classes, "classes for %q", tt.input)
	}
}

func TestSelector_Matches(t *testing.T) {
	e := &Elem{tag: "button", id: "ok", classes: []string{"wide", "primary"}}

	assert.True(t, parseSelector("button").matches(e))
	assert.True(t, parseSelector("#ok").matches(e))
	assert.True(t, parseSelector(".primary").matches(e))
	assert.True(t, parseSelector("button.wide.primary").matches(e))
	assert.False(t, parseSelector("div").matches(e))
	assert.False(t, parseSelector("#cancel").matches(e))
	assert.False(t, parseSelector("button.narrow").matches(e))

	// An empty selector matches nothing.
	assert.False(t, parseSelector("").matches(e))
}

func TestQuery_FindsFirstInDocumentOrder(t *testing.T) {
	root := build(nil, &Node{
		Tag: "div",
		Children: []*Node{
			{Tag: "span", Class: "hit", Text: "first"},
			{Tag: "div", Children: []*Node{
				{Tag: "span", Class: "hit", Text: "second"},
			}},
		},
	})

	found := root.Query(".hit")
	require.NotNil(t, found)
	assert.Equal(t, "first", found.Text())

	all := root.QueryAll(".hit")
	assert.Len(t, all, 2)
}

func TestQuery_NoMatchReturnsNil(t *testing.T) {
	root := build(nil, &Node{Tag: "div"})
	assert.Nil(t, root.Query("#missing"))
	assert.Empty(t, root.QueryAll(".missing"))
}

func TestText_ConcatenatesDescendants(t *testing.T) {
	root := build(nil, &Node{
		Tag:  "p",
		Text: "a",
		Children: []*Node{
			{Tag: "b", Text: "b"},
			{Tag: "i", Text: "c"},
		},
	})
	assert.Equal(t, "abc", root.Text())
}
