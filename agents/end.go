package agents

import (
	"context"

	"github.com/harvest7777/personal-brand-intern-project/types"
	"github.com/harvest7777/personal-brand-intern-project/workflow"
)

// StepGoodbye is the end agent's single step.
const StepGoodbye = "goodbye"

const goodbyeText = "Gotcha, goodbye!"

// NewEnd builds the terminal agent. It says goodbye and clears the active
// agent so the next turn, if any, is routed fresh.
func NewEnd(deps Dependencies) *workflow.StepMachine {
	machine := workflow.NewStepMachine(types.AgentEnd, StepGoodbye, deps.Logger)
	machine.Register(StepGoodbye, func(ctx context.Context, state *types.ConversationState) (*types.ConversationState, error) {
		return clearAgent(state.AppendAssistant(goodbyeText)), nil
	})
	return machine
}
