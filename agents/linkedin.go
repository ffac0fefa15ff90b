package agents

import (
	"context"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/harvest7777/personal-brand-intern-project/types"
	"github.com/harvest7777/personal-brand-intern-project/workflow"
)

// LinkedIn steps.
const (
	StepAskLinkedInURL = "ask_linkedin_url"
	StepImportLinkedIn = "import_linkedin"
)

// NewLinkedIn builds the LinkedIn connection agent: collect the profile URL
// and record it as a fact so the answering agent can point people at it.
func NewLinkedIn(deps Dependencies) *workflow.StepMachine {
	logger := deps.logger().With(zap.String("agent", string(types.AgentLinkedIn)))

	machine := workflow.NewStepMachine(types.AgentLinkedIn, StepAskLinkedInURL, deps.Logger)

	machine.Register(StepAskLinkedInURL, func(ctx context.Context, state *types.ConversationState) (*types.ConversationState, error) {
		next := state.AppendAssistant("What's your LinkedIn profile URL?")
		next.ActiveStep = StepImportLinkedIn
		return next, nil
	})

	machine.Register(StepImportLinkedIn, func(ctx context.Context, state *types.ConversationState) (*types.ConversationState, error) {
		url, _ := state.LastHumanMessage()
		url = strings.TrimSpace(url)
		if !strings.Contains(url, "linkedin.com/") {
			next := state.AppendAssistant("That doesn't look like a LinkedIn URL. It should contain linkedin.com. Try again?")
			next.ActiveStep = StepImportLinkedIn
			return next, nil
		}

		fact := types.KnowledgeFact{
			OwnerID:  state.OwnerID,
			Text:     "LinkedIn profile: " + url,
			Source:   types.SourceLinkedIn,
			LoggedAt: time.Now().UTC(),
		}
		if err := deps.Facts.Insert(ctx, []types.KnowledgeFact{fact}); err != nil {
			return nil, err
		}

		logger.Info("linkedin profile connected", zap.String("owner_id", state.OwnerID))
		return clearAgent(state.AppendAssistant("Connected! Your LinkedIn profile is now part of your knowledge base.")), nil
	})

	return machine
}
