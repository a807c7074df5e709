package components

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func moduleTree(t *testing.T, dirs ...string) string {
	t.Helper()
	root := t.TempDir()
	for _, d := range dirs {
		require.NoError(t, os.MkdirAll(filepath.Join(root, filepath.FromSlash(d)), 0o755))
	}
	return root
}

func TestPathCompleter_SingleMatch(t *testing.T) {
	root := moduleTree(t, "src/main/ets", "src/ohosTest")

	c := NewPathCompleter(root)
	assert.Equal(t, "src/main/", c.Next("src/m"))
}

func TestPathCompleter_CommonPrefixThenCycle(t *testing.T) {
	root := moduleTree(t, "src/main/ets/pages", "src/main/ets/pagelets", "src/main/ets/common")

	c := NewPathCompleter(root)
	assert.Equal(t, "src/main/ets/page", c.Next("src/main/ets/p"), "first tab completes the shared prefix")

	c.Reset()
	first := c.Next("src/main/ets/")
	second := c.Next("src/main/ets/")
	third := c.Next("src/main/ets/")
	fourth := c.Next("src/main/ets/")

	assert.Equal(t, []string{
		"src/main/ets/common/",
		"src/main/ets/pagelets/",
		"src/main/ets/pages/",
		"src/main/ets/common/",
	}, []string{first, second, third, fourth})
}

func TestPathCompleter_ResetStartsOver(t *testing.T) {
	root := moduleTree(t, "alpha", "beta")

	c := NewPathCompleter(root)
	r1 := c.Next("")
	c.Reset()
	r2 := c.Next("")

	assert.Equal(t, r1, r2)
}

func TestPathCompleter_SkipsFilesAndHiddenDirs(t *testing.T) {
	root := moduleTree(t, ".hvigor", "src")
	require.NoError(t, os.WriteFile(filepath.Join(root, "oh-package.json5"), []byte("{}"), 0o644))

	c := NewPathCompleter(root)
	assert.Equal(t, "src/", c.Next(""))
}

func TestPathCompleter_NoMatches(t *testing.T) {
	root := moduleTree(t)

	c := NewPathCompleter(root)
	assert.Equal(t, "nothing/", c.Next("nothing/"))
	assert.Equal(t, "x", c.Next("x"))
}

func TestSplitPath(t *testing.T) {
	tests := []struct {
		input      string
		wantParent string
		wantPrefix string
	}{
		{"", ".", ""},
		{".", ".", ""},
		{"src", ".", "src"},
		{"src/", "src", ""},
		{"src/main/e", "src/main", "e"},
	}

	for _, tt := range tests {
		parent, prefix := splitPath(tt.input)
		assert.Equal(t, tt.wantParent, parent, tt.input)
		assert.Equal(t, tt.wantPrefix, prefix, tt.input)
	}
}
