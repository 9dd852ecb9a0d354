package kvstore

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFileStore(t *testing.T) {
	ctx := context.Background()

	t.Run("Fail: Missing file is ErrNotFound", func(t *testing.T) {
		store := NewFileStore(filepath.Join(t.TempDir(), "habits.json"))

		_, err := store.Load(ctx)
		assert.ErrorIs(t, err, ErrNotFound)
	})

	t.Run("Success: Save creates directories and overwrites", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "a", "b", "habits.json")
		store := NewFileStore(path)

		require.NoError(t, store.Save(ctx, []byte("first")))
		require.NoError(t, store.Save(ctx, []byte("second")))

		data, err := store.Load(ctx)
		require.NoError(t, err)
		assert.Equal(t, "second", string(data))

		info, err := os.Stat(path)
		require.NoError(t, err)
		assert.Equal(t, os.FileMode(0600), info.Mode().Perm())
	})

	t.Run("Success: No temp files left behind", func(t *testing.T) {
		dir := t.TempDir()
		store := NewFileStore(filepath.Join(dir, "habits.json"))
		require.NoError(t, store.Save(ctx, []byte("{}")))

		entries, err := os.ReadDir(dir)
		require.NoError(t, err)
		require.Len(t, entries, 1)
		assert.Equal(t, "habits.json", entries[0].Name())
	})
}
