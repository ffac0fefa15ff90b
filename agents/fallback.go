package agents

import (
	"context"

	"github.com/harvest7777/personal-brand-intern-project/types"
	"github.com/harvest7777/personal-brand-intern-project/workflow"
)

// StepExplainCapabilities is the fallback agent's single step.
const StepExplainCapabilities = "explain_capabilities"

const fallbackText = `Hm. I can't help you with that. As your personal brand data orchestrator, I can...
- Onboard you as a user
- Deploy your personal brand agent
- Ingest facts from your resume
- Help you manage your data
- Connect your LinkedIn

Let me know what you'd like to do!`

// NewFallback builds the agent that catches unclassifiable requests. It
// lists what the system can do and leaves the conversation unrouted.
func NewFallback(deps Dependencies) *workflow.StepMachine {
	machine := workflow.NewStepMachine(types.AgentFallback, StepExplainCapabilities, deps.Logger)
	machine.Register(StepExplainCapabilities, func(ctx context.Context, state *types.ConversationState) (*types.ConversationState, error) {
		return clearAgent(state.AppendAssistant(fallbackText)), nil
	})
	return machine
}
