package indexer

import (
	"context"
	"fmt"
	"strconv"

	"github.com/rs/zerolog/log"
	"github.com/tmc/langchaingo/embeddings"

	"campus-rag/internal/helper"
	"campus-rag/internal/models"
	"campus-rag/internal/vectordb"
)

// Build embeds every chunk in one batched call and adds the resulting
// documents to the store. Any embedding failure aborts the build; there is
// no partial-index recovery, the caller rebuilds from scratch on retry.
func Build(ctx context.Context, embedder embeddings.Embedder, store vectordb.Store, chunks []string, source string) (int, error) {
	if len(chunks) == 0 {
		log.Info().Msg("No chunks to index")
		return 0, nil
	}

	vectors, err := embedder.EmbedDocuments(ctx, chunks)
	if err != nil {
		return 0, fmt.Errorf("failed to embed chunks: %w", err)
	}
	if len(vectors) != len(chunks) {
		return 0, fmt.Errorf("embedder returned %d vectors for %d chunks", len(vectors), len(chunks))
	}

	docs := make([]models.Document, len(chunks))
	for i, chunk := range chunks {
		id, err := helper.GenerateUUID()
		if err != nil {
			return 0, err
		}
		docs[i] = models.Document{
			ID:        id,
			Content:   chunk,
			Embedding: vectors[i],
			Metadata: map[string]string{
				"source": source,
				"chunk":  strconv.Itoa(i + 1),
			},
		}
	}

	if err := store.Add(ctx, docs); err != nil {
		return 0, fmt.Errorf("failed to store documents: %w", err)
	}
	log.Info().Int("chunks", len(docs)).Msg("Added documents to vector store")
	return len(docs), nil
}
