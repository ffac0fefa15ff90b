package workflow

import (
	"context"
	"strings"

	"go.uber.org/zap"

	"github.com/harvest7777/personal-brand-intern-project/llm"
	"github.com/harvest7777/personal-brand-intern-project/types"
)

// Router decides which agent handles the current turn.
type Router interface {
	Route(ctx context.Context, state *types.ConversationState) (types.AgentName, error)
}

// RouterFunc adapts a function to the Router interface.
type RouterFunc func(ctx context.Context, state *types.ConversationState) (types.AgentName, error)

func (f RouterFunc) Route(ctx context.Context, state *types.ConversationState) (types.AgentName, error) {
	return f(ctx, state)
}

// RouterIntents is the fixed enumeration shown to the classifier. The end and
// fallback agents are not members: exit is detected before classification and
// fallback is the resolution of an unparseable result.
func RouterIntents() []llm.Intent {
	return []llm.Intent{
		{Name: types.AgentOnboarding, Description: "Onboard a new user and collect their basic profile."},
		{Name: types.AgentGather, Description: "Ingest facts about the user from their resume or free-form text."},
		{Name: types.AgentDeploy, Description: "Deploy the user's personal brand agent."},
		{Name: types.AgentDelete, Description: "Delete the user's stored data."},
		{Name: types.AgentLinkedIn, Description: "Connect or import the user's LinkedIn profile."},
		{Name: types.AgentAnswerFailed, Description: "The owner wants to answer questions the agent previously could not."},
		{Name: types.AgentQuestionAnswer, Description: "Answer a question about the person this agent represents."},
	}
}

// exitPhrases end the conversation when the latest human turn matches one
// after normalization.
var exitPhrases = []string{
	"bye", "goodbye", "good bye", "exit", "quit", "stop",
	"end", "that's all", "thats all", "we're done", "were done", "i'm done", "im done",
}

// IsExitRequest reports whether text is an explicit request to end the
// conversation. Matching is deterministic so the exit path never depends on
// a model call.
func IsExitRequest(text string) bool {
	normalized := strings.ToLower(strings.TrimSpace(text))
	normalized = strings.Trim(normalized, ".,!?")
	for _, phrase := range exitPhrases {
		if normalized == phrase {
			return true
		}
	}
	return false
}

// IntentRouter implements the routing policy: exit request wins, then a valid
// active agent is passed through unchanged, then the classifier decides.
type IntentRouter struct {
	classifier *llm.IntentClassifier
	intents    []llm.Intent
	logger     *zap.Logger
}

// NewIntentRouter builds the router over classifier.
func NewIntentRouter(classifier *llm.IntentClassifier, logger *zap.Logger) *IntentRouter {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &IntentRouter{
		classifier: classifier,
		intents:    RouterIntents(),
		logger:     logger.With(zap.String("component", "intent_router")),
	}
}

// Route implements Router.
func (r *IntentRouter) Route(ctx context.Context, state *types.ConversationState) (types.AgentName, error) {
	query, ok := state.LastHumanMessage()
	if !ok {
		return types.AgentNone, types.NewError(types.ErrMissingTurnData, "no human message to route")
	}

	if IsExitRequest(query) {
		r.logger.Debug("exit request detected")
		return types.AgentEnd, nil
	}

	// Sticky routing: a conversation in progress with one agent is not
	// reclassified mid-task.
	if state.ActiveAgent != types.AgentNone && types.ValidAgent(state.ActiveAgent) {
		return state.ActiveAgent, nil
	}
	if state.ActiveAgent != types.AgentNone {
		r.logger.Warn("unknown active agent, reclassifying",
			zap.String("active_agent", string(state.ActiveAgent)))
	}

	agent, err := r.classifier.Classify(ctx, query, r.intents)
	if err != nil {
		return types.AgentNone, err
	}
	r.logger.Info("turn routed", zap.String("agent", string(agent)))
	return agent, nil
}
