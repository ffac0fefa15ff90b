package agents

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/harvest7777/personal-brand-intern-project/types"
	"github.com/harvest7777/personal-brand-intern-project/workflow"
)

// Onboarding steps.
const (
	StepAskIntro   = "ask_intro"
	StepStoreIntro = "store_intro"
)

// NewOnboarding builds the onboarding agent: ask the owner to introduce
// themselves, then extract and store the introduction as facts.
func NewOnboarding(deps Dependencies) *workflow.StepMachine {
	logger := deps.logger().With(zap.String("agent", string(types.AgentOnboarding)))

	machine := workflow.NewStepMachine(types.AgentOnboarding, StepAskIntro, deps.Logger)

	machine.Register(StepAskIntro, func(ctx context.Context, state *types.ConversationState) (*types.ConversationState, error) {
		next := state.AppendAssistant("Welcome! Tell me a bit about yourself: your name, what you do, and anything you'd like your personal brand agent to know.")
		next.ActiveStep = StepStoreIntro
		return next, nil
	})

	machine.Register(StepStoreIntro, func(ctx context.Context, state *types.ConversationState) (*types.ConversationState, error) {
		intro, _ := state.LastHumanMessage()

		statements, err := deps.Extractor.Extract(ctx, intro)
		if err != nil {
			return nil, err
		}
		if len(statements) == 0 {
			next := state.AppendAssistant("I couldn't pick out any facts from that. Could you tell me a bit more about yourself?")
			next.ActiveStep = StepStoreIntro
			return next, nil
		}

		facts := make([]types.KnowledgeFact, 0, len(statements))
		now := time.Now().UTC()
		for _, text := range statements {
			facts = append(facts, types.KnowledgeFact{
				OwnerID:  state.OwnerID,
				Text:     text,
				Source:   types.SourceOwner,
				LoggedAt: now,
			})
		}
		if err := deps.Facts.Insert(ctx, facts); err != nil {
			return nil, err
		}

		logger.Info("owner onboarded", zap.Int("facts", len(facts)))
		reply := fmt.Sprintf("You're all set! I stored %d facts about you. You can ingest your resume, connect LinkedIn, or deploy your agent whenever you're ready.", len(facts))
		return clearAgent(state.AppendAssistant(reply)), nil
	})

	return machine
}
