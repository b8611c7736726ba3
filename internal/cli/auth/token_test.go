package auth

import (
	"os"
	"path/filepath"
	"runtime"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSaveLoadRemoveToken(t *testing.T) {
	p := TokenPath(filepath.Join(t.TempDir(), "nested"))

	_, err := LoadToken(p)
	assert.Error(t, err)

	require.NoError(t, SaveToken(p, "abc.def.ghi"))
	tok, err := LoadToken(p)
	require.NoError(t, err)
	assert.Equal(t, "abc.def.ghi", tok)

	if runtime.GOOS != "windows" {
		st, err := os.Stat(p)
		require.NoError(t, err)
		assert.Equal(t, os.FileMode(0o600), st.Mode().Perm())
	}

	require.NoError(t, RemoveToken(p))
	require.NoError(t, RemoveToken(p))
	_, err = os.Stat(p)
	assert.True(t, os.IsNotExist(err))
}

func TestLoadToken_Empty(t *testing.T) {
	p := filepath.Join(t.TempDir(), TokenFileName)
	require.NoError(t, os.WriteFile(p, []byte(" \n"), 0o600))
	_, err := LoadToken(p)
	assert.Error(t, err)
}
