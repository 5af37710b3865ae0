package enrich

import (
	"context"
	"errors"
	"fmt"

	"github.com/tmc/langchaingo/llms"
	"github.com/tmc/langchaingo/llms/openai"
	"github.com/tmc/langchaingo/schema"

	"github.com/fyrsmithlabs/threadscan/internal/config"
	"github.com/fyrsmithlabs/threadscan/internal/flags"
)

// ErrEmptyResponse indicates the model returned no choices.
var ErrEmptyResponse = errors.New("model returned empty response")

// LLMClassifier is a Classifier backed by an OpenAI-compatible chat model
// via langchaingo. Two instances with different model names form the two
// enrichment tiers; they are otherwise identical in call shape.
type LLMClassifier struct {
	llm       *openai.LLM
	model     string
	maxTokens int
}

// NewLLMClassifier builds a classifier for the given model. The key is
// passed through to the client and never logged.
func NewLLMClassifier(model string, apiKey config.Secret, maxTokens int) (*LLMClassifier, error) {
	llm, err := openai.New(
		openai.WithToken(apiKey.Value()),
		openai.WithModel(model),
	)
	if err != nil {
		return nil, fmt.Errorf("init %s client: %w", model, err)
	}
	return &LLMClassifier{llm: llm, model: model, maxTokens: maxTokens}, nil
}

// Classify performs one call with zero sampling temperature — fully
// deterministic given identical input — and validates the output against
// the fixed response schema.
func (c *LLMClassifier) Classify(ctx context.Context, req Request) (flags.Classification, error) {
	messages := []llms.MessageContent{
		llms.TextParts(schema.ChatMessageTypeSystem, systemDirective),
		llms.TextParts(schema.ChatMessageTypeHuman, userPrompt(req)),
	}

	resp, err := c.llm.GenerateContent(ctx, messages,
		llms.WithTemperature(0),
		llms.WithMaxTokens(c.maxTokens),
	)
	if err != nil {
		return flags.Classification{}, fmt.Errorf("%s call: %w", c.model, err)
	}
	if len(resp.Choices) == 0 {
		return flags.Classification{}, fmt.Errorf("%s: %w", c.model, ErrEmptyResponse)
	}

	return ParseClassification(resp.Choices[0].Content)
}

// Model returns the configured model name.
func (c *LLMClassifier) Model() string { return c.model }

var _ Classifier = (*LLMClassifier)(nil)
