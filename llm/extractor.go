package llm

import (
	"context"
	"strings"

	"go.uber.org/zap"

	"github.com/harvest7777/personal-brand-intern-project/types"
)

const extractSystemPrompt = `You extract facts about a person from the text they provide, such as a resume.
Return one fact per line, each a short self-contained statement in the third person.
Do not number the lines, do not add commentary, and do not invent facts that are not in the text.`

// FactExtractor turns free-form text about a person into discrete fact
// statements suitable for the knowledge base.
type FactExtractor struct {
	provider Provider
	model    string
	logger   *zap.Logger
}

// NewFactExtractor creates an extractor on top of provider.
func NewFactExtractor(provider Provider, model string, logger *zap.Logger) *FactExtractor {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &FactExtractor{
		provider: provider,
		model:    model,
		logger:   logger.With(zap.String("component", "fact_extractor")),
	}
}

// Extract returns the fact statements found in text, one per model output
// line. An empty result means the model found nothing to extract.
func (e *FactExtractor) Extract(ctx context.Context, text string) ([]string, error) {
	resp, err := e.provider.Completion(ctx, &ChatRequest{
		Model:       e.model,
		Temperature: 0,
		Messages: []Message{
			{Role: RoleSystem, Content: extractSystemPrompt},
			{Role: RoleUser, Content: text},
		},
	})
	if err != nil {
		return nil, types.NewError(types.ErrGenerationFailed, "fact extraction").WithCause(err)
	}

	var facts []string
	for _, line := range strings.Split(resp.Text(), "\n") {
		line = strings.TrimSpace(strings.TrimLeft(line, "-*• \t"))
		if line == "" {
			continue
		}
		facts = append(facts, line)
	}

	e.logger.Debug("facts extracted", zap.Int("count", len(facts)))
	return facts, nil
}
