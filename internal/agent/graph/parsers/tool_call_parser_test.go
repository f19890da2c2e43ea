package parsers

import (
	"strings"
	"testing"

	"github.com/cloudwego/eino/schema"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseArguments(t *testing.T) {
	args, err := ParseArguments(`{"name": "  Veg Momo ", "quantity": 2, "items": [{"name": " Coffee "}]}`)
	require.NoError(t, err)
	assert.Equal(t, "Veg Momo", args["name"])
	assert.Equal(t, float64(2), args["quantity"])
	assert.Equal(t, "Coffee", args["items"].([]any)[0].(map[string]any)["name"])
}

func TestParseArgumentsEmpty(t *testing.T) {
	for _, raw := range []string{"", "  ", "null", "{}"} {
		args, err := ParseArguments(raw)
		require.NoError(t, err, raw)
		assert.Empty(t, args)
	}
}

func TestParseArgumentsMalformed(t *testing.T) {
	for _, raw := range []string{`{"name": "Veg Momo"`, `["a"]`, `"text"`, `{name: momo}`, "{\"a\":\"\xff\"}"} {
		_, err := ParseArguments(raw)
		assert.ErrorIs(t, err, ErrInvalidArguments, raw)
	}

	_, err := ParseArguments(`{"a":"` + strings.Repeat("x", maxArgumentsLen) + `"}`)
	assert.ErrorIs(t, err, ErrInvalidArguments)
}

func TestParseArgumentsCapsStrings(t *testing.T) {
	args, err := ParseArguments(`{"message":"` + strings.Repeat("é", maxStringLen+10) + `"}`)
	require.NoError(t, err)
	assert.Len(t, []rune(args["message"].(string)), maxStringLen)
}

func TestFirstToolCall(t *testing.T) {
	_, ok := FirstToolCall(schema.AssistantMessage("hi", nil))
	assert.False(t, ok)

	_, ok = FirstToolCall(nil)
	assert.False(t, ok)

	msg := schema.AssistantMessage("", []schema.ToolCall{
		{ID: " call_1 ", Function: schema.FunctionCall{Name: " show_food_menu ", Arguments: "{}"}},
		{ID: "call_2", Function: schema.FunctionCall{Name: "send_text_reply"}},
	})
	tc, ok := FirstToolCall(msg)
	require.True(t, ok)
	assert.Equal(t, ToolCall{ID: "call_1", Name: "show_food_menu", Arguments: "{}"}, tc)
}
