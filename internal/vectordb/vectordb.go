package vectordb

import (
	"context"
	"errors"
	"fmt"
	"os"
	"runtime"

	"github.com/philippgille/chromem-go"

	"campus-rag/internal/models"
)

// ErrNotFound signals that no index has been built at the configured
// location yet. It is a detectable "not ready" state, not a corruption.
var ErrNotFound = errors.New("vector index not found")

// Store is the retrieval backend: documents with precomputed embeddings in,
// nearest neighbours out. Similarity is cosine, delegated to the backend.
type Store interface {
	Add(ctx context.Context, docs []models.Document) error
	Search(ctx context.Context, embedding []float32, k int) ([]models.SearchResult, error)
	Count(ctx context.Context) (int, error)
}

const compress = false

// ChromemStore wraps a persistent chromem-go collection.
type ChromemStore struct {
	db         *chromem.DB
	collection *chromem.Collection
}

var _ Store = (*ChromemStore)(nil)

// Create starts a fresh index at path, replacing any prior index entirely.
// There is no incremental update path; content refresh means full rebuild.
func Create(path, collectionName string) (*ChromemStore, error) {
	if err := os.RemoveAll(path); err != nil {
		return nil, fmt.Errorf("failed to clear index at %s: %v", path, err)
	}
	db, err := chromem.NewPersistentDB(path, compress)
	if err != nil {
		return nil, fmt.Errorf("failed to create database: %v", err)
	}
	c, err := db.CreateCollection(collectionName, nil, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create collection: %v", err)
	}
	return &ChromemStore{db: db, collection: c}, nil
}

// Open loads a previously persisted index read-only. Returns ErrNotFound
// when the index directory or the collection does not exist.
func Open(path, collectionName string) (*ChromemStore, error) {
	if _, err := os.Stat(path); errors.Is(err, os.ErrNotExist) {
		return nil, ErrNotFound
	}
	db, err := chromem.NewPersistentDB(path, compress)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %v", err)
	}
	c := db.GetCollection(collectionName, nil)
	if c == nil {
		return nil, ErrNotFound
	}
	return &ChromemStore{db: db, collection: c}, nil
}

func (s *ChromemStore) Add(ctx context.Context, docs []models.Document) error {
	if len(docs) == 0 {
		return nil
	}
	chromemDocs := make([]chromem.Document, len(docs))
	for i, doc := range docs {
		chromemDocs[i] = chromem.Document{
			ID:        doc.ID,
			Content:   doc.Content,
			Metadata:  doc.Metadata,
			Embedding: doc.Embedding,
		}
	}
	if err := s.collection.AddDocuments(ctx, chromemDocs, runtime.NumCPU()); err != nil {
		return fmt.Errorf("failed to add documents: %v", err)
	}
	return nil
}

// Search returns the k most similar documents, fewer if the collection holds
// fewer than k, and an empty slice for an empty collection. Zero results is
// a valid outcome, never an error.
func (s *ChromemStore) Search(ctx context.Context, embedding []float32, k int) ([]models.SearchResult, error) {
	if n := s.collection.Count(); k > n {
		k = n
	}
	if k <= 0 {
		return nil, nil
	}
	results, err := s.collection.QueryWithOptions(ctx, chromem.QueryOptions{
		QueryEmbedding: embedding,
		NResults:       k,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to query by similarity: %v", err)
	}
	out := make([]models.SearchResult, len(results))
	for i, r := range results {
		out[i] = models.SearchResult{
			Content:    r.Content,
			Metadata:   r.Metadata,
			Similarity: r.Similarity,
		}
	}
	return out, nil
}

func (s *ChromemStore) Count(ctx context.Context) (int, error) {
	return s.collection.Count(), nil
}
