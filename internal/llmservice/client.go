package llmservice

import (
	"context"
	"fmt"
	"regexp"
	"strings"
	"time"

	"github.com/tmc/langchaingo/llms"
	"github.com/tmc/langchaingo/llms/ollama"
	"github.com/tmc/langchaingo/llms/openai"

	"campus-rag/internal/config"
	"campus-rag/internal/models"
)

// Generator produces a whole-answer completion for an assembled prompt.
// Implementations are external language-model services.
type Generator interface {
	Generate(ctx context.Context, prompt string) (string, error)
}

// LLM is a Generator backed by a langchaingo chat model.
type LLM struct {
	model       llms.Model
	temperature float64
	timeout     time.Duration
}

var _ Generator = (*LLM)(nil)

func New(cfg *config.LLMConfig, temperature float64) (*LLM, error) {
	model, err := newModel(cfg)
	if err != nil {
		return nil, err
	}
	return &LLM{
		model:       model,
		temperature: temperature,
		timeout:     time.Duration(cfg.TimeoutSecs) * time.Second,
	}, nil
}

func newModel(cfg *config.LLMConfig) (llms.Model, error) {
	switch cfg.Provider {
	case config.ProviderOllama:
		return ollama.New(
			ollama.WithServerURL(cfg.BaseURL),
			ollama.WithModel(cfg.Model),
		)
	case config.ProviderOpenAI:
		opts := []openai.Option{
			openai.WithToken(strings.TrimPrefix(cfg.Key(), "Bearer ")),
			openai.WithModel(cfg.Model),
		}
		if cfg.BaseURL != "" {
			opts = append(opts, openai.WithBaseURL(cfg.BaseURL))
		}
		return openai.New(opts...)
	default:
		return nil, fmt.Errorf("unknown llm provider: %s", cfg.Provider)
	}
}

// Generate sends the prompt and returns the completion text. The call is
// bounded by the configured timeout; a timeout surfaces as an error, not a
// hang.
func (g *LLM) Generate(ctx context.Context, prompt string) (string, error) {
	ctx, cancel := context.WithTimeout(ctx, g.timeout)
	defer cancel()

	messages := []llms.MessageContent{
		{
			Role:  llms.ChatMessageTypeHuman,
			Parts: []llms.ContentPart{llms.TextContent{Text: prompt}},
		},
	}
	res, err := g.model.GenerateContent(ctx, messages, llms.WithTemperature(g.temperature))
	if err != nil {
		return "", err
	}
	if len(res.Choices) == 0 {
		return "", fmt.Errorf("empty response from model")
	}
	return StripThink(res.Choices[0].Content), nil
}

var thinkRe = regexp.MustCompile(models.ThinkTag)

// StripThink removes reasoning-model <think> blocks from a completion.
func StripThink(s string) string {
	return strings.TrimSpace(thinkRe.ReplaceAllString(s, ""))
}
