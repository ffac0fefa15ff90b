package agents

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/harvest7777/personal-brand-intern-project/types"
	"github.com/harvest7777/personal-brand-intern-project/workflow"
)

// Answer-failed-questions steps.
const (
	StepPresentQuestion = "present_question"
	StepRecordAnswer    = "record_answer"
)

// NewAnswerFailed builds the review agent the owner uses to work through
// questions the assistant could not answer. Each answer becomes a knowledge
// fact, so the same question answers itself next time.
//
// Only the owner answers the queue, so the oldest pending question is stable
// between the presenting turn and the answering turn; no extra scratch state
// is needed.
func NewAnswerFailed(deps Dependencies) *workflow.StepMachine {
	logger := deps.logger().With(zap.String("agent", string(types.AgentAnswerFailed)))

	machine := workflow.NewStepMachine(types.AgentAnswerFailed, StepPresentQuestion, deps.Logger)

	machine.Register(StepPresentQuestion, func(ctx context.Context, state *types.ConversationState) (*types.ConversationState, error) {
		question, ok, err := deps.Review.NextPending(ctx, state.OwnerID)
		if err != nil {
			return nil, err
		}
		if !ok {
			return clearAgent(state.AppendAssistant("Your review queue is empty. Nothing to answer right now.")), nil
		}

		next := state.AppendAssistant(fmt.Sprintf("Someone asked: %q\nHow should I answer that?", question.Text))
		next.ActiveStep = StepRecordAnswer
		return next, nil
	})

	machine.Register(StepRecordAnswer, func(ctx context.Context, state *types.ConversationState) (*types.ConversationState, error) {
		question, ok, err := deps.Review.NextPending(ctx, state.OwnerID)
		if err != nil {
			return nil, err
		}
		if !ok {
			return clearAgent(state.AppendAssistant("Your review queue is empty. Nothing to answer right now.")), nil
		}

		answer, _ := state.LastHumanMessage()
		resolved, err := deps.Review.MarkAnswered(ctx, question.ID, answer)
		if err != nil {
			return nil, err
		}

		fact := types.KnowledgeFact{
			OwnerID:  state.OwnerID,
			Text:     fmt.Sprintf("Q: %s\nA: %s", resolved.Question.Text, resolved.Answer),
			Source:   types.SourceOwner,
			LoggedAt: time.Now().UTC(),
		}
		if err := deps.Facts.Insert(ctx, []types.KnowledgeFact{fact}); err != nil {
			return nil, err
		}

		logger.Info("failed question resolved",
			zap.String("question_id", resolved.Question.ID))

		remaining, err := deps.Review.CountPending(ctx, state.OwnerID)
		if err != nil {
			return nil, err
		}
		if remaining > 0 {
			next, ok, err := deps.Review.NextPending(ctx, state.OwnerID)
			if err != nil {
				return nil, err
			}
			if ok {
				out := state.AppendAssistant(fmt.Sprintf("Saved! Next one: %q\nHow should I answer that?", next.Text))
				out.ActiveStep = StepRecordAnswer
				return out, nil
			}
		}
		return clearAgent(state.AppendAssistant("Saved! That was the last one, your review queue is clear.")), nil
	})

	return machine
}
