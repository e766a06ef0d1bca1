package storage

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFileStore(t *testing.T) {
	dataFile := filepath.Join(t.TempDir(), "store.json")

	st, err := NewFileStore(dataFile)
	require.NoError(t, err)

	t.Run("SetAndGet", func(t *testing.T) {
		require.NoError(t, st.Set(KeyToken, "abc123"))

		v, err := st.Get(KeyToken)
		assert.NoError(t, err)
		assert.Equal(t, "abc123", v)
	})

	t.Run("GetMissing", func(t *testing.T) {
		_, err := st.Get("nope")
		assert.ErrorIs(t, err, ErrKeyNotFound)
	})

	t.Run("SurvivesReload", func(t *testing.T) {
		require.NoError(t, st.Set(KeyRole, "Collector"))

		reloaded, err := NewFileStore(dataFile)
		require.NoError(t, err)

		v, err := reloaded.Get(KeyRole)
		assert.NoError(t, err)
		assert.Equal(t, "Collector", v)
	})

	t.Run("DeleteMany", func(t *testing.T) {
		require.NoError(t, st.Set(KeyToken, "tok"))
		require.NoError(t, st.Set(KeyRole, "Admin"))

		require.NoError(t, st.Delete(KeyToken, KeyRole))

		_, err := st.Get(KeyToken)
		assert.ErrorIs(t, err, ErrKeyNotFound)
		_, err = st.Get(KeyRole)
		assert.ErrorIs(t, err, ErrKeyNotFound)
	})
}

func TestMemoryStore(t *testing.T) {
	st := NewMemoryStore()

	require.NoError(t, st.Set("k", "v"))

	v, err := st.Get("k")
	assert.NoError(t, err)
	assert.Equal(t, "v", v)

	// Deleting a missing key is not an error.
	assert.NoError(t, st.Delete("k", "missing"))

	_, err = st.Get("k")
	assert.ErrorIs(t, err, ErrKeyNotFound)
}
