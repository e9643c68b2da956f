package theme

import (
	"testing"

	"github.com/charmbracelet/lipgloss"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestList(t *testing.T) {
	names := List()
	assert.IsIncreasing(t, names)
	assert.Contains(t, names, "default")
	assert.Len(t, names, len(palettes))
}

func TestSet(t *testing.T) {
	t.Cleanup(func() { Set("default") })

	require.True(t, Set("nord"))
	assert.Equal(t, "nord", Current.Name)
	assert.Equal(t, lipgloss.Color("#88C0D0"), Current.Primary)

	assert.False(t, Set("nope"))
	assert.Equal(t, "nord", Current.Name, "unknown names leave the theme unchanged")
}

func TestThemesAreComplete(t *testing.T) {
	for _, name := range List() {
		th, ok := Get(name)
		require.True(t, ok, name)
		assert.NotEmpty(t, th.Glamour, name)
		for role, c := range map[string]lipgloss.Color{
			"text": th.Text, "border": th.Border, "link": th.Link,
			"branch": th.Branch, "here": th.Here, "error": th.Error,
		} {
			assert.NotEmpty(t, string(c), "%s: %s", name, role)
		}
	}

	_, ok := Get("missing")
	assert.False(t, ok)
}
