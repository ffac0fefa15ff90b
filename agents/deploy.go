package agents

import (
	"context"

	"github.com/harvest7777/personal-brand-intern-project/types"
	"github.com/harvest7777/personal-brand-intern-project/workflow"
)

// StepDeploy is the deploy agent's single step.
const StepDeploy = "deploy"

// NewDeploy builds the deployment agent. Deployment itself happens out of
// band; this flow confirms the knowledge base is ready to serve.
func NewDeploy(deps Dependencies) *workflow.StepMachine {
	machine := workflow.NewStepMachine(types.AgentDeploy, StepDeploy, deps.Logger)
	machine.Register(StepDeploy, func(ctx context.Context, state *types.ConversationState) (*types.ConversationState, error) {
		reply := "Your personal brand agent is deployed. Anyone who talks to it will get answers grounded in your stored facts, and questions it can't answer will be queued for you."
		return clearAgent(state.AppendAssistant(reply)), nil
	})
	return machine
}
