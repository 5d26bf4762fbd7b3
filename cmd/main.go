package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/joho/godotenv"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"campus-rag/internal/chunker"
	"campus-rag/internal/config"
	"campus-rag/internal/corpus"
	"campus-rag/internal/embedding"
	"campus-rag/internal/indexer"
	"campus-rag/internal/llmservice"
	"campus-rag/internal/pgstore"
	"campus-rag/internal/rag"
	"campus-rag/internal/scraper"
	"campus-rag/internal/tui"
	"campus-rag/internal/vectordb"
)

const (
	configFilePath  = "./configs/config.yaml"
	websiteFilename = "website.txt"
)

func main() {
	zerolog.TimeFieldFormat = zerolog.TimeFormatUnix
	zerolog.SetGlobalLevel(zerolog.InfoLevel)
	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stdout, TimeFormat: time.RFC3339}).With().Caller().Logger()

	_ = godotenv.Load()

	configPath := flag.String("config", configFilePath, "Path to the config file")
	scrape := flag.Bool("scrape", false, "Scrape the configured pages into the content directory")
	build := flag.Bool("build", false, "Build the vector index from the content directory")
	query := flag.String("query", "", "Ask a single question and print the answer")
	chat := flag.Bool("chat", false, "Start the interactive chat")
	flag.Parse()

	cfg, err := config.LoadConfig(*configPath)
	if err != nil {
		log.Fatal().Err(err).Msg("Error loading config")
	}
	if err := cfg.Validate(); err != nil {
		log.Fatal().Err(err).Msg("Invalid config")
	}

	ctx := context.Background()
	switch {
	case *scrape:
		runScrape(ctx, cfg)
	case *build:
		runBuild(ctx, cfg)
	case *query != "":
		runQuery(ctx, cfg, *query)
	case *chat:
		runChat(cfg)
	default:
		flag.Usage()
	}
}

func runScrape(ctx context.Context, cfg *config.Config) {
	out := filepath.Join(cfg.ContentDir, websiteFilename)
	if err := scraper.New(&cfg.Scraper).Run(ctx, out); err != nil {
		log.Fatal().Err(err).Msg("Error scraping pages")
	}
}

func runBuild(ctx context.Context, cfg *config.Config) {
	text, err := corpus.New(cfg.ContentDir).LoadAll()
	if err != nil {
		log.Fatal().Err(err).Msg("Error loading content")
	}
	if strings.TrimSpace(text) == "" {
		log.Fatal().Str("dir", cfg.ContentDir).Msg("No content found; run with -scrape first")
	}

	chunks := chunker.New(cfg.RAG.ChunkSize, cfg.RAG.ChunkOverlap).Split(text)
	log.Info().Int("chunks", len(chunks)).Int("chars", len(text)).Msg("Split corpus")

	embedder, err := embedding.NewEmbedder(&cfg.EmbedLLM)
	if err != nil {
		log.Fatal().Err(err).Msg("Error initializing embedder")
	}

	store, err := newBuildStore(ctx, cfg)
	if err != nil {
		log.Fatal().Err(err).Msg("Error creating vector store")
	}

	n, err := indexer.Build(ctx, embedder, store, chunks, cfg.ContentDir)
	if err != nil {
		log.Fatal().Err(err).Msg("Error building index")
	}
	log.Info().Int("chunks", n).Msg("Index built")
}

// newBuildStore starts a fresh store for a full rebuild; any prior index is
// replaced entirely.
func newBuildStore(ctx context.Context, cfg *config.Config) (vectordb.Store, error) {
	switch cfg.Store.Type {
	case config.StorePostgres:
		store := pgstore.Connect(&cfg.Store.Database)
		if err := store.Reset(ctx); err != nil {
			return nil, err
		}
		return store, nil
	default:
		return vectordb.Create(cfg.Store.Path, cfg.Store.Collection)
	}
}

func newAssistant(cfg *config.Config) *rag.Assistant {
	embedder, err := embedding.NewEmbedder(&cfg.EmbedLLM)
	if err != nil {
		log.Fatal().Err(err).Msg("Error initializing embedder")
	}
	generator, err := llmservice.New(&cfg.ChatLLM, *cfg.RAG.Temperature)
	if err != nil {
		log.Fatal().Err(err).Msg("Error initializing generator")
	}
	openStore := func() (vectordb.Store, error) {
		switch cfg.Store.Type {
		case config.StorePostgres:
			return pgstore.Connect(&cfg.Store.Database), nil
		default:
			return vectordb.Open(cfg.Store.Path, cfg.Store.Collection)
		}
	}
	return rag.NewAssistant(cfg, embedder, generator, openStore)
}

func runQuery(ctx context.Context, cfg *config.Config, question string) {
	assistant := newAssistant(cfg)
	answer := assistant.Answer(ctx, question)

	log.Info().Msg("Query: ~~~~~~~~~~~~~~~~~~~~~~~~~>>>>>")
	fmt.Printf("%s\n\n", question)

	log.Info().Msg("Assistant: ~~~~~~~~~~~~~~~~~~~~~~~~~>>>>>")
	fmt.Printf("%s\n\n", answer)
}

func runChat(cfg *config.Config) {
	assistant := newAssistant(cfg)
	m := tui.New(assistant, cfg.College)
	if _, err := tea.NewProgram(m, tea.WithAltScreen()).Run(); err != nil {
		log.Fatal().Err(err).Msg("Error running chat")
	}
}
