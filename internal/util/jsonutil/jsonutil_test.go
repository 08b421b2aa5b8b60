package jsonutil

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestExtractObject(t *testing.T) {
	cases := map[string]string{
		"plain":       `{"a":1}`,
		"fenced":      "```json\n{\"a\":1}\n```",
		"fenced bare": "```\n{\"a\":1}\n```",
		"with prose":  "Sure! Here it is: {\"a\":1} enjoy",
	}
	for name, in := range cases {
		got, err := ExtractObject(in)
		require.NoError(t, err, name)
		assert.JSONEq(t, `{"a":1}`, string(got), name)
	}

	for _, bad := range []string{"", "no json here", "} {"} {
		_, err := ExtractObject(bad)
		assert.ErrorIs(t, err, ErrNoJSON, bad)
	}
}

func TestUnmarshalFlexUnwrapsQuotedJSON(t *testing.T) {
	var out struct {
		Link string `json:"link"`
	}
	require.NoError(t, UnmarshalFlex([]byte(`"{\"link\":\"https://x.test/?a=1\\u0026b=2\"}"`), &out))
	assert.Equal(t, "https://x.test/?a=1&b=2", out.Link)
}

func TestUnmarshalFlexReturnsOriginalError(t *testing.T) {
	var out map[string]any
	require.Error(t, UnmarshalFlex([]byte(`{"broken"`), &out))
}

func TestMarshalNoEscape(t *testing.T) {
	b, err := MarshalNoEscape(map[string]string{"q": "a&b<c>"})
	require.NoError(t, err)
	assert.Equal(t, `{"q":"a&b<c>"}`, string(b))
}
