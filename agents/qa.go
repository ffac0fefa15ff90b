package agents

import (
	"context"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/harvest7777/personal-brand-intern-project/types"
	"github.com/harvest7777/personal-brand-intern-project/workflow"
)

// StepAnswerQuestion is the question answerer's single step. It is also the
// step recorded after each answered turn, so a fresh question re-enters it.
const StepAnswerQuestion = "answer_question"

// apologyText is the fixed reply when no relevant fact exists. It is never
// generated by the model.
const apologyText = "I don't have enough information in my knowledge base to answer this question. I've stored this question for the personal brand owner to answer later."

// NewQuestionAnswerer builds the question-answering agent.
//
// The step retrieves the owner's nearest facts for the latest human message.
// With no fact inside the relevance cutoff it records the question (once per
// near-duplicate window) and replies with the fixed apology; the generator is
// not invoked on that path. With facts in hand it generates the answer.
func NewQuestionAnswerer(deps Dependencies) *workflow.StepMachine {
	logger := deps.logger().With(zap.String("agent", string(types.AgentQuestionAnswer)))

	machine := workflow.NewStepMachine(types.AgentQuestionAnswer, StepAnswerQuestion, deps.Logger)
	machine.Register(StepAnswerQuestion, func(ctx context.Context, state *types.ConversationState) (*types.ConversationState, error) {
		query, _ := state.LastHumanMessage()

		facts, err := deps.Facts.Search(ctx, state.OwnerID, query)
		if err != nil {
			return nil, err
		}
		deps.Metrics.RecordFactsRetrieved(len(facts))

		if len(facts) == 0 {
			question := types.UnansweredQuestion{
				ID:       uuid.NewString(),
				AskerID:  state.ParticipantID,
				OwnerID:  state.OwnerID,
				Text:     query,
				LoggedAt: time.Now().UTC(),
			}
			created, err := deps.Questions.LogIfNew(ctx, question)
			if err != nil {
				return nil, err
			}
			if created {
				if err := deps.Review.Enqueue(ctx, question); err != nil {
					return nil, err
				}
				deps.Metrics.RecordQuestionLogged()
				logger.Info("question logged for owner review",
					zap.String("question_id", question.ID))
			} else {
				logger.Debug("duplicate question suppressed")
			}
			return state.AppendAssistant(apologyText), nil
		}

		answer, err := deps.Generator.Generate(ctx, facts, query)
		if err != nil {
			return nil, err
		}
		return state.AppendAssistant(answer), nil
	})
	return machine
}
