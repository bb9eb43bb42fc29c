package services

import (
	"context"

	"github.com/tmc/langchaingo/llms"
	"github.com/tmc/langchaingo/llms/openai"

	"github.com/aionlabs/aion-admin/config"
)

const defaultModel = "gpt-4.1-mini"

// TextGenerator produces a completion for a single prompt. The generation
// pipeline depends on this interface so tests can stub the model out.
type TextGenerator interface {
	Generate(ctx context.Context, prompt string) (string, error)
}

type openAIGenerator struct {
	llm         *openai.LLM
	temperature float64
}

// NewTextGenerator builds an OpenAI-backed generator from config. Returns
// an error when OPENAI_API_KEY is missing so the caller can surface a 503
// instead of failing mid-request.
func NewTextGenerator(cfg map[string]string) (TextGenerator, error) {
	llm, err := openai.New(
		openai.WithToken(config.GetString(cfg, "OPENAI_API_KEY", "")),
		openai.WithModel(config.GetString(cfg, "OPENAI_MODEL", defaultModel)),
	)
	if err != nil {
		return nil, err
	}
	return &openAIGenerator{
		llm:         llm,
		temperature: config.GetFloat(cfg, "OPENAI_TEMPERATURE", 0.6),
	}, nil
}

func (g *openAIGenerator) Generate(ctx context.Context, prompt string) (string, error) {
	return llms.GenerateFromSinglePrompt(ctx, g.llm, prompt, llms.WithTemperature(g.temperature))
}
