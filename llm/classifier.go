package llm

import (
	"context"
	"fmt"
	"strings"

	"go.uber.org/zap"

	"github.com/harvest7777/personal-brand-intern-project/types"
)

// Intent pairs a routable agent with its natural-language description shown
// to the classifier.
type Intent struct {
	Name        types.AgentName
	Description string
}

// IntentClassifier classifies a fresh conversational turn into exactly one
// top-level agent using the completion model as a zero-shot classifier.
// Unparseable or out-of-enumeration output resolves deterministically to the
// fallback agent; ambiguity is never an error.
type IntentClassifier struct {
	provider Provider
	model    string
	logger   *zap.Logger
}

// NewIntentClassifier creates an intent classifier on top of provider.
func NewIntentClassifier(provider Provider, model string, logger *zap.Logger) *IntentClassifier {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &IntentClassifier{
		provider: provider,
		model:    model,
		logger:   logger.With(zap.String("component", "intent_classifier")),
	}
}

// Classify returns the agent whose description best matches query.
// Provider failures propagate; every successful completion resolves to a
// member of intents or to types.AgentFallback.
func (c *IntentClassifier) Classify(ctx context.Context, query string, intents []Intent) (types.AgentName, error) {
	var sb strings.Builder
	sb.WriteString("Classify the user message into exactly one of these intents. ")
	sb.WriteString("Respond with only the intent identifier, nothing else.\n\n")
	for _, intent := range intents {
		fmt.Fprintf(&sb, "- %s: %s\n", intent.Name, intent.Description)
	}
	sb.WriteString("\nUser message: ")
	sb.WriteString(query)

	resp, err := c.provider.Completion(ctx, &ChatRequest{
		Model:       c.model,
		Temperature: 0,
		MaxTokens:   16,
		Messages: []Message{
			{Role: RoleUser, Content: sb.String()},
		},
	})
	if err != nil {
		return types.AgentNone, fmt.Errorf("intent classification: %w", err)
	}

	raw := resp.Text()
	name := parseIntentName(raw, intents)
	if name == types.AgentNone {
		c.logger.Warn("unparseable intent classification, using fallback",
			zap.String("raw", raw))
		return types.AgentFallback, nil
	}

	c.logger.Debug("intent classified", zap.String("agent", string(name)))
	return name, nil
}

// parseIntentName extracts an enum member from model output, tolerating
// quoting, casing, and surrounding prose.
func parseIntentName(raw string, intents []Intent) types.AgentName {
	cleaned := strings.ToLower(strings.Trim(strings.TrimSpace(raw), "\"'`.,"))

	for _, intent := range intents {
		if cleaned == strings.ToLower(string(intent.Name)) {
			return intent.Name
		}
	}
	// Second pass: accept output that merely contains one identifier, as long
	// as it is unambiguous.
	var found types.AgentName
	for _, intent := range intents {
		if strings.Contains(cleaned, strings.ToLower(string(intent.Name))) {
			if found != types.AgentNone {
				return types.AgentNone
			}
			found = intent.Name
		}
	}
	return found
}
