package render

import (
	"bytes"
	"testing"

	"github.com/kvpairs"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var testPairs = kvpairs.Pairs{
	"b": {1, -2},
	"a": {},
}

func render(t *testing.T, name string, p kvpairs.Pairs) string {
	var buf bytes.Buffer
	require.NoError(t, Render(&buf, name, p))
	return buf.String()
}

func TestRender_Text(t *testing.T) {
	assert.Equal(t, "a: []\nb: [1, -2]\n", render(t, "text", testPairs))
}

func TestRender_JSON(t *testing.T) {
	assert.JSONEq(t, `{"a": [], "b": [1, -2]}`, render(t, "json", testPairs))
	assert.JSONEq(t, `{}`, render(t, "JSON", nil))
}

func TestRender_YAML(t *testing.T) {
	assert.YAMLEq(t, "a: []\nb: [1, -2]\n", render(t, "yaml", testPairs))
}

func TestRender_Debug(t *testing.T) {
	expected := `{
    "a": [],
    "b": [
        1,
        -2,
    ],
}
`
	assert.Equal(t, expected, render(t, "debug", testPairs))
	assert.Equal(t, "{\n}\n", render(t, "debug", kvpairs.Pairs{}))
}

func TestRender_Unknown(t *testing.T) {
	var buf bytes.Buffer
	err := Render(&buf, "xml", testPairs)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "expected one of: debug, json, text, yaml")
	assert.Empty(t, buf.String())
}

func TestNames(t *testing.T) {
	assert.Equal(t, []string{"debug", "json", "text", "yaml"}, Names())
}
