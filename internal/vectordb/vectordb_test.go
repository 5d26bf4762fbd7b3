package vectordb

import (
	"context"
	"errors"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"campus-rag/internal/models"
)

func testDocs() []models.Document {
	return []models.Document{
		{ID: "d1", Content: "Admissions open from June 1 to June 30.", Embedding: []float32{1, 0, 0}, Metadata: map[string]string{"chunk": "1"}},
		{ID: "d2", Content: "The placement cell is in the main block.", Embedding: []float32{0, 1, 0}, Metadata: map[string]string{"chunk": "2"}},
		{ID: "d3", Content: "The library is open until 8 PM.", Embedding: []float32{0, 0, 1}, Metadata: map[string]string{"chunk": "3"}},
	}
}

func TestCreateAddSearch(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "index")

	store, err := Create(path, "campus")
	require.NoError(t, err)
	require.NoError(t, store.Add(ctx, testDocs()))

	results, err := store.Search(ctx, []float32{1, 0, 0}, 2)
	require.NoError(t, err)
	require.Len(t, results, 2)
	assert.Equal(t, "Admissions open from June 1 to June 30.", results[0].Content)
	assert.InDelta(t, 1.0, float64(results[0].Similarity), 1e-4)
	assert.GreaterOrEqual(t, results[0].Similarity, results[1].Similarity)
}

func TestSearch_RoundTripAfterReopen(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "index")

	store, err := Create(path, "campus")
	require.NoError(t, err)
	require.NoError(t, store.Add(ctx, testDocs()))

	fresh, err := store.Search(ctx, []float32{0, 1, 0}, 3)
	require.NoError(t, err)

	reopened, err := Open(path, "campus")
	require.NoError(t, err)
	loaded, err := reopened.Search(ctx, []float32{0, 1, 0}, 3)
	require.NoError(t, err)

	require.Len(t, loaded, len(fresh))
	for i := range fresh {
		assert.Equal(t, fresh[i].Content, loaded[i].Content)
		assert.InDelta(t, float64(fresh[i].Similarity), float64(loaded[i].Similarity), 1e-5)
	}
}

func TestSearch_KLargerThanCount(t *testing.T) {
	ctx := context.Background()
	store, err := Create(filepath.Join(t.TempDir(), "index"), "campus")
	require.NoError(t, err)
	require.NoError(t, store.Add(ctx, testDocs()))

	results, err := store.Search(ctx, []float32{1, 0, 0}, 10)
	require.NoError(t, err)
	assert.Len(t, results, 3)
}

func TestSearch_EmptyIndex(t *testing.T) {
	ctx := context.Background()
	store, err := Create(filepath.Join(t.TempDir(), "index"), "campus")
	require.NoError(t, err)

	results, err := store.Search(ctx, []float32{1, 0, 0}, 3)
	require.NoError(t, err)
	assert.Empty(t, results)
}

func TestOpen_MissingPath(t *testing.T) {
	_, err := Open(filepath.Join(t.TempDir(), "missing"), "campus")
	assert.True(t, errors.Is(err, ErrNotFound))
}

func TestOpen_MissingCollection(t *testing.T) {
	path := filepath.Join(t.TempDir(), "index")
	_, err := Create(path, "campus")
	require.NoError(t, err)

	_, err = Open(path, "other")
	assert.True(t, errors.Is(err, ErrNotFound))
}

func TestCreate_ReplacesExistingIndex(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "index")

	store, err := Create(path, "campus")
	require.NoError(t, err)
	require.NoError(t, store.Add(ctx, testDocs()))

	rebuilt, err := Create(path, "campus")
	require.NoError(t, err)
	n, err := rebuilt.Count(ctx)
	require.NoError(t, err)
	assert.Equal(t, 0, n)
}
