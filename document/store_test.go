package document

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewStore(t *testing.T) {
	t.Run("RequiresRoot", func(t *testing.T) {
		_, err := NewStore("")
		assert.ErrorIs(t, err, ErrStorageRootRequired)
	})

	t.Run("CreatesRoot", func(t *testing.T) {
		root := filepath.Join(t.TempDir(), "cv-storage")
		store, err := NewStore(root)
		require.NoError(t, err)
		assert.Equal(t, root, store.Root())
		assert.DirExists(t, root)
	})
}

func TestStoreSaveAndRead(t *testing.T) {
	store, err := NewStore(t.TempDir())
	require.NoError(t, err)

	t.Run("RoundTrip", func(t *testing.T) {
		data := []byte("%PDF-1.4 resume bytes")
		path, err := store.Save("resume.pdf", data)
		require.NoError(t, err)
		assert.Equal(t, filepath.Join(store.Root(), "resume.pdf"), path)

		got, err := store.Read(path)
		require.NoError(t, err)
		assert.Equal(t, data, got)
	})

	t.Run("RejectsEmpty", func(t *testing.T) {
		_, err := store.Save("empty.pdf", nil)
		assert.ErrorIs(t, err, ErrEmptyDocument)
	})

	t.Run("StripsDirectoryComponents", func(t *testing.T) {
		path, err := store.Save("../../escape.pdf", []byte("%PDF-1.4"))
		require.NoError(t, err)
		assert.Equal(t, filepath.Join(store.Root(), "escape.pdf"), path)
	})

	t.Run("OverwritesExistingName", func(t *testing.T) {
		first, err := store.Save("dup.pdf", []byte("%PDF-1.4 first"))
		require.NoError(t, err)
		second, err := store.Save("dup.pdf", []byte("%PDF-1.4 second"))
		require.NoError(t, err)
		assert.Equal(t, first, second)

		got, err := store.Read(second)
		require.NoError(t, err)
		assert.Equal(t, []byte("%PDF-1.4 second"), got)
	})

	t.Run("ReadMissingFile", func(t *testing.T) {
		_, err := store.Read(filepath.Join(store.Root(), "missing.pdf"))
		assert.ErrorIs(t, err, os.ErrNotExist)
	})
}

func TestIsPDF(t *testing.T) {
	assert.True(t, IsPDF([]byte("%PDF-1.7\nrest")))
	assert.False(t, IsPDF([]byte("PK\x03\x04 zip archive")))
	assert.False(t, IsPDF([]byte("%PD")))
	assert.False(t, IsPDF(nil))
}
