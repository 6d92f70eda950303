package blobstore

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLocalStore_Lifecycle(t *testing.T) {
	tmpDir := t.TempDir()
	store, err := NewLocalStore(tmpDir)
	require.NoError(t, err)

	ctx := context.Background()

	// 1. Missing blob
	exists, err := store.Exists(ctx, "manifest.json")
	require.NoError(t, err)
	require.False(t, exists)

	_, err = store.ReadAll(ctx, "manifest.json")
	require.ErrorIs(t, err, ErrNotFound)

	// 2. Put and read back
	data := []byte(`{"version":"0.7"}`)
	err = store.Put(ctx, "manifest.json", data)
	require.NoError(t, err)

	exists, err = store.Exists(ctx, "manifest.json")
	require.NoError(t, err)
	require.True(t, exists)

	got, err := store.ReadAll(ctx, "manifest.json")
	require.NoError(t, err)
	require.Equal(t, data, got)

	// Verify file exists on disk and no temp files leaked
	_, err = os.Stat(filepath.Join(tmpDir, "manifest.json"))
	require.NoError(t, err)

	entries, err := os.ReadDir(tmpDir)
	require.NoError(t, err)
	for _, e := range entries {
		assert.NotContains(t, e.Name(), ".tmp-")
	}

	// 3. Overwrite
	data2 := []byte(`{"version":"0.7","indexes":{}}`)
	err = store.Put(ctx, "manifest.json", data2)
	require.NoError(t, err)

	got, err = store.ReadAll(ctx, "manifest.json")
	require.NoError(t, err)
	require.Equal(t, data2, got)

	// 4. Delete is idempotent
	err = store.Delete(ctx, "manifest.json")
	require.NoError(t, err)

	exists, err = store.Exists(ctx, "manifest.json")
	require.NoError(t, err)
	require.False(t, exists)

	err = store.Delete(ctx, "manifest.json")
	require.NoError(t, err)
}

func TestLocalStore_NestedNames(t *testing.T) {
	store, err := NewLocalStore(t.TempDir())
	require.NoError(t, err)

	ctx := context.Background()

	// Names may contain path separators, e.g. per-index metadata files.
	err = store.Put(ctx, "test-index/metastore.json", []byte("{}"))
	require.NoError(t, err)

	got, err := store.ReadAll(ctx, "test-index/metastore.json")
	require.NoError(t, err)
	require.Equal(t, []byte("{}"), got)
}

func TestLocalStore_URI(t *testing.T) {
	tmpDir := t.TempDir()
	store, err := NewLocalStore(tmpDir)
	require.NoError(t, err)

	uri := store.URI()
	require.True(t, strings.HasPrefix(uri, "file://"), "got %q", uri)
	require.Contains(t, uri, filepath.Base(tmpDir))
}

func TestLocalStore_UnauthorizedMapsToSentinel(t *testing.T) {
	if os.Geteuid() == 0 {
		t.Skip("permission bits are not enforced for root")
	}

	tmpDir := t.TempDir()
	store, err := NewLocalStore(tmpDir)
	require.NoError(t, err)

	ctx := context.Background()

	require.NoError(t, store.Put(ctx, "manifest.json", []byte("{}")))
	require.NoError(t, os.Chmod(filepath.Join(tmpDir, "manifest.json"), 0o000))
	t.Cleanup(func() {
		_ = os.Chmod(filepath.Join(tmpDir, "manifest.json"), 0o644)
	})

	_, err = store.ReadAll(ctx, "manifest.json")
	require.ErrorIs(t, err, ErrUnauthorized)
}
