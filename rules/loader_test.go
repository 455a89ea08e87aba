package rules

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadLines(t *testing.T) {
	path := filepath.Join(t.TempDir(), "list.txt")
	require.NoError(t, os.WriteFile(path,
		[]byte("! header\n||example.com^\n\n##.ad\n"), 0644))

	lines, err := LoadLines(path)
	require.NoError(t, err)
	assert.Equal(t, []string{"! header", "||example.com^", "", "##.ad"}, lines)
}

func TestLoadLinesMissingFile(t *testing.T) {
	_, err := LoadLines(filepath.Join(t.TempDir(), "missing.txt"))
	assert.Error(t, err)
}
