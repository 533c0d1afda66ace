package prefs

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStoreRoundTrip(t *testing.T) {
	dir := t.TempDir()

	s, err := Open(dir)
	require.NoError(t, err)

	_, ok := s.Get("missing")
	assert.False(t, ok)

	require.NoError(t, s.Set(KeyTheme, ThemeDark))
	require.NoError(t, s.Set(KeyRefreshToken, "rt1"))

	// A fresh Open sees what the previous instance flushed.
	s2, err := Open(dir)
	require.NoError(t, err)
	v, ok := s2.Get(KeyTheme)
	assert.True(t, ok)
	assert.Equal(t, ThemeDark, v)
	v, ok = s2.Get(KeyRefreshToken)
	assert.True(t, ok)
	assert.Equal(t, "rt1", v)

	require.NoError(t, s2.Delete(KeyRefreshToken))
	s3, err := Open(dir)
	require.NoError(t, err)
	_, ok = s3.Get(KeyRefreshToken)
	assert.False(t, ok)
}

func TestTheme(t *testing.T) {
	t.Run("defaults to light", func(t *testing.T) {
		s, err := Open(t.TempDir())
		require.NoError(t, err)
		assert.Equal(t, ThemeLight, s.Theme())
	})

	t.Run("returns the stored preference", func(t *testing.T) {
		s, err := Open(t.TempDir())
		require.NoError(t, err)
		require.NoError(t, s.Set(KeyTheme, ThemeDark))
		assert.Equal(t, ThemeDark, s.Theme())
	})

	t.Run("ignores unknown values", func(t *testing.T) {
		s, err := Open(t.TempDir())
		require.NoError(t, err)
		require.NoError(t, s.Set(KeyTheme, "solarized"))
		assert.Equal(t, ThemeLight, s.Theme())
	})
}

func TestOpenCorruptFile(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, fileName), []byte("{not json"), 0o600))

	s, err := Open(dir)
	require.NoError(t, err)
	_, ok := s.Get(KeyTheme)
	assert.False(t, ok)

	// The store stays usable after discarding the corrupt state.
	require.NoError(t, s.Set(KeyTheme, ThemeDark))
	assert.Equal(t, ThemeDark, s.Theme())
}
