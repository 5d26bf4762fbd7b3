package rag

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"

	"github.com/rs/zerolog/log"
	"github.com/tmc/langchaingo/embeddings"

	"campus-rag/internal/config"
	"campus-rag/internal/llmservice"
	"campus-rag/internal/models"
	"campus-rag/internal/vectordb"
)

// Assistant answers one question per turn: embed the question, retrieve the
// top-k most similar chunks, assemble the grounding prompt, and hand it to
// the generator. Every serving-time failure is downgraded to a fixed
// user-facing message here; nothing propagates past this boundary.
type Assistant struct {
	cfg       *config.Config
	embedder  embeddings.Embedder
	generator llmservice.Generator
	openStore func() (vectordb.Store, error)

	once    sync.Once
	store   vectordb.Store
	openErr error
}

func NewAssistant(cfg *config.Config, embedder embeddings.Embedder, generator llmservice.Generator, openStore func() (vectordb.Store, error)) *Assistant {
	return &Assistant{
		cfg:       cfg,
		embedder:  embedder,
		generator: generator,
		openStore: openStore,
	}
}

// Answer never returns an error. A blank question is rejected locally before
// any external call, an unbuilt index yields the not-ready message, and any
// embedding, search, or generation failure yields the apology message with
// the cause visible only in logs.
func (a *Assistant) Answer(ctx context.Context, question string) string {
	question = strings.TrimSpace(question)
	if question == "" {
		return models.EmptyQueryMessage
	}

	store, err := a.index()
	if err != nil {
		if errors.Is(err, vectordb.ErrNotFound) {
			return models.NotReadyMessage
		}
		log.Error().Err(err).Msg("Failed to open vector index")
		return models.ApologyMessage
	}

	queryEmbedding, err := a.embedder.EmbedQuery(ctx, question)
	if err != nil {
		log.Error().Err(err).Msg("Failed to embed query")
		return models.ApologyMessage
	}

	results, err := store.Search(ctx, queryEmbedding, a.cfg.RAG.TopK)
	if err != nil {
		if errors.Is(err, vectordb.ErrNotFound) {
			return models.NotReadyMessage
		}
		log.Error().Err(err).Msg("Failed to search vector index")
		return models.ApologyMessage
	}

	chunks := make([]string, len(results))
	for i, r := range results {
		chunks[i] = r.Content
	}
	prompt := BuildPrompt(chunks, question, a.cfg.College)

	answer, err := a.generator.Generate(ctx, prompt)
	if err != nil {
		log.Error().Err(err).Msg("Failed to generate answer")
		return models.ApologyMessage
	}
	return strings.TrimSpace(answer)
}

// index opens the vector store once per process and reuses it for every
// later turn. The store is immutable after load, so no further locking is
// needed.
func (a *Assistant) index() (vectordb.Store, error) {
	a.once.Do(func() {
		a.store, a.openErr = a.openStore()
	})
	return a.store, a.openErr
}

// BuildPrompt joins the retrieved chunks, most similar first, into a single
// context block and substitutes it into the fixed instruction template. The
// template restricts the model to the context and names the exact fallback
// sentence to emit when the answer is not there.
func BuildPrompt(chunks []string, question, college string) string {
	contextBlock := strings.Join(chunks, "\n\n")
	return fmt.Sprintf(models.AnswerPromptTemplate, college, models.NoAnswerSentence, contextBlock, question)
}
