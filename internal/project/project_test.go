package project

import (
	"path/filepath"
	"testing"

	"github.com/spf13/afero"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestOpen(t *testing.T) {
	fs := afero.NewMemMapFs()
	require.NoError(t, fs.MkdirAll("/chain/src", 0755))
	require.NoError(t, afero.WriteFile(fs, "/chain/Cargo.toml", []byte("[package]\nname = \"chain\"\n"), 0644))

	p, err := Open(fs, "/chain")
	require.NoError(t, err)

	assert.Equal(t, "/chain", p.Root)
	assert.True(t, p.IsCargoProject())
	assert.False(t, p.HasConfig())
	assert.Equal(t, filepath.Join("/chain", "src", "tx.rs"), p.Path("src/tx.rs"))
	assert.Equal(t, "/abs/state.rs", p.Path("/abs/state.rs"))
	assert.Same(t, fs, p.Fs())
}

func TestOpen_Missing(t *testing.T) {
	_, err := Open(afero.NewMemMapFs(), "/nowhere")
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrRootNotFound)
	assert.Contains(t, err.Error(), "Make sure you're in the correct directory")
}

func TestOpen_NotADirectory(t *testing.T) {
	fs := afero.NewMemMapFs()
	require.NoError(t, afero.WriteFile(fs, "/file", []byte("x"), 0644))

	_, err := Open(fs, "/file")
	assert.ErrorIs(t, err, ErrRootNotFound)
}

func TestOpen_RealDirectory(t *testing.T) {
	dir := t.TempDir()

	p, err := Open(nil, dir)
	require.NoError(t, err)
	assert.False(t, p.IsCargoProject())
}
