package styles

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEmbeddedStylesDefineAllNames(t *testing.T) {
	require.NoError(t, LoadStylesFromData(embeddedStyles))
	for _, name := range Names {
		_, ok := StyleRegistry[name]
		assert.True(t, ok, "style %s missing", name)
	}
}

func TestLoadStylesFromData_Invalid(t *testing.T) {
	err := LoadStylesFromData([]byte("colors: [unclosed"))
	assert.Error(t, err)
	require.NoError(t, LoadStylesFromData(embeddedStyles))
}

func TestGetStyle_Unknown(t *testing.T) {
	assert.Equal(t, "plain", GetStyle("NoSuchStyle").Render("plain"))
}

func TestColorEnabled(t *testing.T) {
	assert.False(t, ColorEnabled(&bytes.Buffer{}))

	t.Setenv("NO_COLOR", "1")
	assert.False(t, ColorEnabled(&bytes.Buffer{}))
}

func TestConfigureOutput_NonTerminalIsPlain(t *testing.T) {
	ConfigureOutput(&bytes.Buffer{})
	assert.Equal(t, "text", Render("Error", "text"))
}
