package agents

import (
	"context"

	"go.uber.org/zap"

	"github.com/harvest7777/personal-brand-intern-project/internal/metrics"
	"github.com/harvest7777/personal-brand-intern-project/review"
	"github.com/harvest7777/personal-brand-intern-project/types"
	"github.com/harvest7777/personal-brand-intern-project/workflow"
)

// FactStore is the owner-scoped knowledge store the agents read and write.
type FactStore interface {
	Search(ctx context.Context, ownerID, query string) ([]types.KnowledgeFact, error)
	Insert(ctx context.Context, facts []types.KnowledgeFact) error
	DeleteOwner(ctx context.Context, ownerID string) (int, error)
}

// QuestionLog deduplicates and records questions that had no answer.
type QuestionLog interface {
	LogIfNew(ctx context.Context, question types.UnansweredQuestion) (bool, error)
}

// ReviewQueue is the relational queue the owner works through to answer
// questions the agent could not.
type ReviewQueue interface {
	Enqueue(ctx context.Context, question types.UnansweredQuestion) error
	NextPending(ctx context.Context, ownerID string) (types.UnansweredQuestion, bool, error)
	CountPending(ctx context.Context, ownerID string) (int64, error)
	MarkAnswered(ctx context.Context, questionID, answer string) (review.AnsweredQuestion, error)
	DeleteOwner(ctx context.Context, ownerID string) error
}

// AnswerGenerator produces a grounded answer from retrieved facts.
type AnswerGenerator interface {
	Generate(ctx context.Context, facts []types.KnowledgeFact, query string) (string, error)
}

// FactExtractor turns free-form text into discrete fact statements.
type FactExtractor interface {
	Extract(ctx context.Context, text string) ([]string, error)
}

// Dependencies carries everything the agents need. All fields except Metrics
// are required.
type Dependencies struct {
	Facts     FactStore
	Questions QuestionLog
	Review    ReviewQueue
	Generator AnswerGenerator
	Extractor FactExtractor
	Metrics   *metrics.Collector
	Logger    *zap.Logger
}

func (d Dependencies) logger() *zap.Logger {
	if d.Logger == nil {
		return zap.NewNop()
	}
	return d.Logger
}

// RegisterAll builds every agent and registers it on graph.
func RegisterAll(graph *workflow.Graph, deps Dependencies) {
	graph.Register(NewQuestionAnswerer(deps))
	graph.Register(NewOnboarding(deps))
	graph.Register(NewGather(deps))
	graph.Register(NewDeploy(deps))
	graph.Register(NewDelete(deps))
	graph.Register(NewLinkedIn(deps))
	graph.Register(NewAnswerFailed(deps))
	graph.Register(NewFallback(deps))
	graph.Register(NewEnd(deps))
}

// clearAgent marks the flow finished so the router classifies the next turn
// fresh.
func clearAgent(state *types.ConversationState) *types.ConversationState {
	out := state.Clone()
	out.ActiveAgent = types.AgentNone
	out.ActiveStep = ""
	return out
}
