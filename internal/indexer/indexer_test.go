package indexer

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"campus-rag/internal/models"
)

type stubEmbedder struct {
	docCalls int
	err      error
}

func (s *stubEmbedder) EmbedDocuments(_ context.Context, texts []string) ([][]float32, error) {
	s.docCalls++
	if s.err != nil {
		return nil, s.err
	}
	out := make([][]float32, len(texts))
	for i := range texts {
		out[i] = []float32{float32(i), 1}
	}
	return out, nil
}

func (s *stubEmbedder) EmbedQuery(_ context.Context, _ string) ([]float32, error) {
	return []float32{0, 1}, s.err
}

type memoryStore struct {
	docs []models.Document
	err  error
}

func (m *memoryStore) Add(_ context.Context, docs []models.Document) error {
	if m.err != nil {
		return m.err
	}
	m.docs = append(m.docs, docs...)
	return nil
}

func (m *memoryStore) Search(_ context.Context, _ []float32, _ int) ([]models.SearchResult, error) {
	return nil, nil
}

func (m *memoryStore) Count(_ context.Context) (int, error) { return len(m.docs), nil }

func TestBuild(t *testing.T) {
	ctx := context.Background()
	emb := &stubEmbedder{}
	store := &memoryStore{}

	chunks := []string{"first chunk", "second chunk", "third chunk"}
	n, err := Build(ctx, emb, store, chunks, "./data/scraped")
	require.NoError(t, err)
	assert.Equal(t, 3, n)
	assert.Equal(t, 1, emb.docCalls, "chunks are embedded in a single batched call")

	require.Len(t, store.docs, 3)
	for i, doc := range store.docs {
		assert.Equal(t, chunks[i], doc.Content)
		assert.NotEmpty(t, doc.ID)
		assert.NotEmpty(t, doc.Embedding)
		assert.Equal(t, "./data/scraped", doc.Metadata["source"])
	}
	assert.Equal(t, "1", store.docs[0].Metadata["chunk"])
	assert.Equal(t, "3", store.docs[2].Metadata["chunk"])
}

func TestBuild_EmptyChunks(t *testing.T) {
	emb := &stubEmbedder{}
	store := &memoryStore{}

	n, err := Build(context.Background(), emb, store, nil, "src")
	require.NoError(t, err)
	assert.Zero(t, n)
	assert.Zero(t, emb.docCalls)
}

func TestBuild_EmbeddingFailureIsFatal(t *testing.T) {
	emb := &stubEmbedder{err: errors.New("model unreachable")}
	store := &memoryStore{}

	_, err := Build(context.Background(), emb, store, []string{"chunk"}, "src")
	require.Error(t, err)
	assert.Empty(t, store.docs, "no partial index on embedding failure")
}

func TestBuild_StoreFailure(t *testing.T) {
	emb := &stubEmbedder{}
	store := &memoryStore{err: errors.New("disk full")}

	_, err := Build(context.Background(), emb, store, []string{"chunk"}, "src")
	assert.Error(t, err)
}
