package llm

import (
	"context"
	"fmt"
	"strings"
	"sync"

	"github.com/pkoukk/tiktoken-go"
	"go.uber.org/zap"

	"github.com/harvest7777/personal-brand-intern-project/types"
)

const answerSystemPrompt = "You are a personal brand agent answering questions " +
	"on behalf of the brand owner. Answer using only the facts provided. " +
	"Be concise and speak about the owner in the third person. If the facts " +
	"only partially cover the question, answer what they cover."

// AnswerGeneratorConfig configures prompt construction for grounded answers.
type AnswerGeneratorConfig struct {
	// Model passed through to the provider. Empty uses the provider default.
	Model string
	// Temperature for the completion.
	Temperature float32
	// MaxTokens caps the completion length.
	MaxTokens int
	// FactTokenBudget caps the prompt tokens spent on retrieved facts.
	// Facts are included in retrieval order until the budget is exhausted.
	// Zero disables the budget.
	FactTokenBudget int
}

// AnswerGenerator produces a natural-language answer for a query from a set
// of supporting facts. It never invents an answer without facts; callers are
// expected to short-circuit the empty-facts case before invoking it.
type AnswerGenerator struct {
	provider Provider
	cfg      AnswerGeneratorConfig
	logger   *zap.Logger

	encOnce sync.Once
	enc     *tiktoken.Tiktoken
}

// NewAnswerGenerator creates an answer generator on top of provider.
func NewAnswerGenerator(provider Provider, cfg AnswerGeneratorConfig, logger *zap.Logger) *AnswerGenerator {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &AnswerGenerator{
		provider: provider,
		cfg:      cfg,
		logger:   logger.With(zap.String("component", "answer_generator")),
	}
}

// Generate answers query grounded on facts. facts must be non-empty.
func (g *AnswerGenerator) Generate(ctx context.Context, facts []types.KnowledgeFact, query string) (string, error) {
	if len(facts) == 0 {
		return "", types.NewError(types.ErrInvalidRequest, "generate called with no facts")
	}

	kept := g.budgetFacts(facts)

	var sb strings.Builder
	sb.WriteString("Facts about the owner:\n")
	for i, f := range kept {
		fmt.Fprintf(&sb, "%d. %s\n", i+1, f.Text)
	}
	sb.WriteString("\nQuestion: ")
	sb.WriteString(query)

	resp, err := g.provider.Completion(ctx, &ChatRequest{
		Model:       g.cfg.Model,
		Temperature: g.cfg.Temperature,
		MaxTokens:   g.cfg.MaxTokens,
		Messages: []Message{
			{Role: RoleSystem, Content: answerSystemPrompt},
			{Role: RoleUser, Content: sb.String()},
		},
	})
	if err != nil {
		return "", types.NewError(types.ErrGenerationFailed, "answer generation failed").WithCause(err)
	}

	answer := strings.TrimSpace(resp.Text())
	if answer == "" {
		return "", types.NewError(types.ErrGenerationFailed, "provider returned an empty answer")
	}

	g.logger.Debug("answer generated",
		zap.Int("facts_used", len(kept)),
		zap.Int("facts_retrieved", len(facts)))
	return answer, nil
}

// budgetFacts keeps facts in order until the token budget is exhausted.
// At least one fact is always kept so the generator has something to ground on.
func (g *AnswerGenerator) budgetFacts(facts []types.KnowledgeFact) []types.KnowledgeFact {
	if g.cfg.FactTokenBudget <= 0 {
		return facts
	}

	kept := make([]types.KnowledgeFact, 0, len(facts))
	used := 0
	for _, f := range facts {
		n := g.countTokens(f.Text)
		if len(kept) > 0 && used+n > g.cfg.FactTokenBudget {
			break
		}
		kept = append(kept, f)
		used += n
	}
	return kept
}

func (g *AnswerGenerator) countTokens(text string) int {
	g.encOnce.Do(func() {
		enc, err := tiktoken.GetEncoding("cl100k_base")
		if err != nil {
			g.logger.Warn("tiktoken encoding unavailable, using character estimate", zap.Error(err))
			return
		}
		g.enc = enc
	})
	if g.enc == nil {
		// ~4 characters per token heuristic.
		return len(text) / 4
	}
	return len(g.enc.Encode(text, nil, nil))
}
