package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadMissingFileReturnsEmpty(t *testing.T) {
	f, err := Load(filepath.Join(t.TempDir(), "nope.yaml"))
	require.NoError(t, err)
	assert.Nil(t, f.Doc)
}

func TestLoadParsesFields(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, ".scriptrun.yaml")
	require.NoError(t, os.WriteFile(path, []byte("doc: true\ndefault_dir: ./myscript\n"), 0o644))

	f, err := Load(path)
	require.NoError(t, err)
	require.NotNil(t, f.Doc)
	assert.True(t, *f.Doc)
	assert.Equal(t, "./myscript", StringOr(f.DefaultDir, "./script"))
	assert.False(t, BoolOr(f.ASTFile, false))
}
