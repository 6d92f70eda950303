package petrel_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/petrel-search/petrel"
	"github.com/petrel-search/petrel/blobstore"
)

// TestMetastoreLifecycle drives the common path end to end against a local
// file system store.
func TestMetastoreLifecycle(t *testing.T) {
	ctx := context.Background()

	store, err := blobstore.NewLocalStore(t.TempDir())
	require.NoError(t, err)

	// 1. Open an empty store.
	ms, err := petrel.Open(ctx, store)
	require.NoError(t, err)

	// 2. Create an index and a template.
	metadata, err := ms.CreateIndex(ctx, "logs-2026")
	require.NoError(t, err)
	assert.Equal(t, "logs-2026", metadata.IndexID())

	require.NoError(t, ms.CreateIndexTemplate(ctx, petrel.Template{
		TemplateID:      "logs",
		IndexIDPatterns: []string{"logs-*"},
		Priority:        100,
	}, false))

	// 3. Duplicate creation is rejected.
	_, err = ms.CreateIndex(ctx, "logs-2026")
	var alreadyExistsErr *petrel.AlreadyExistsError
	require.ErrorAs(t, err, &alreadyExistsErr)

	// 4. Reopen the same directory and observe the same state.
	require.NoError(t, ms.Close())

	reopened, err := petrel.Open(ctx, store)
	require.NoError(t, err)
	defer reopened.Close()

	assert.True(t, reopened.IndexExists("logs-2026"))
	assert.Equal(t, []string{"logs-2026"}, reopened.ListIndexes(petrel.IndexStatusActive))

	got, err := reopened.IndexMetadata(ctx, "logs-2026")
	require.NoError(t, err)
	assert.Equal(t, metadata.IndexUID, got.IndexUID)

	matches := reopened.FindMatchingTemplates("logs-2026")
	require.Len(t, matches, 1)
	assert.Equal(t, "logs", matches[0].TemplateID)

	// 5. Delete the index and verify it is gone.
	require.NoError(t, reopened.DeleteIndex(ctx, "logs-2026"))
	assert.False(t, reopened.IndexExists("logs-2026"))

	_, err = reopened.IndexMetadata(ctx, "logs-2026")
	var notFoundErr *petrel.NotFoundError
	require.ErrorAs(t, err, &notFoundErr)
}

func TestOpenWithOptions(t *testing.T) {
	ctx := context.Background()
	metrics := &petrel.BasicMetricsCollector{}

	ms, err := petrel.Open(ctx, blobstore.NewMemoryStore(),
		petrel.WithLogger(petrel.NoopLogger().Logger),
		petrel.WithMetricsCollector(metrics),
	)
	require.NoError(t, err)
	defer ms.Close()

	_, err = ms.CreateIndex(ctx, "logs-2026")
	require.NoError(t, err)

	stats := metrics.GetStats()
	assert.Equal(t, int64(1), stats.ManifestLoadCount)
	assert.Equal(t, int64(1), stats.IndexOpCount)
}
