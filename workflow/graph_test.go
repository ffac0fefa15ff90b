package workflow

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/harvest7777/personal-brand-intern-project/types"
)

// fixedRouter routes every turn to the same agent.
func fixedRouter(agent types.AgentName) Router {
	return RouterFunc(func(ctx context.Context, state *types.ConversationState) (types.AgentName, error) {
		return agent, nil
	})
}

func newAgent(name types.AgentName, reply string) *StepMachine {
	return NewStepMachine(name, "step", nil).Register("step", echoStep(reply))
}

func TestGraph_RoutesToRegisteredAgent(t *testing.T) {
	graph := NewGraph(fixedRouter(types.AgentGather), nil).
		Register(newAgent(types.AgentGather, "gather reply")).
		Register(newAgent(types.AgentFallback, "fallback reply"))

	state, routed, err := graph.Invoke(context.Background(), machineState(""))
	require.NoError(t, err)

	assert.Equal(t, types.AgentGather, routed)
	assert.Equal(t, "gather reply", state.Messages[len(state.Messages)-1].Content)
}

func TestGraph_UnknownRouteFallsBack(t *testing.T) {
	graph := NewGraph(fixedRouter(types.AgentDeploy), nil).
		Register(newAgent(types.AgentFallback, "fallback reply"))

	state, routed, err := graph.Invoke(context.Background(), machineState(""))
	require.NoError(t, err)

	assert.Equal(t, types.AgentFallback, routed, "an unroutable turn is never dropped")
	assert.Equal(t, "fallback reply", state.Messages[len(state.Messages)-1].Content)
}

func TestGraph_NoFallbackRegisteredIsAnError(t *testing.T) {
	graph := NewGraph(fixedRouter(types.AgentDeploy), nil)

	_, _, err := graph.Invoke(context.Background(), machineState(""))
	require.Error(t, err)
}

func TestGraph_MissingHumanMessage(t *testing.T) {
	graph := NewGraph(fixedRouter(types.AgentGather), nil).
		Register(newAgent(types.AgentGather, "reply"))

	_, _, err := graph.Invoke(context.Background(), types.NewConversationState("owner-1", "asker-1"))
	require.Error(t, err)
	assert.Equal(t, types.ErrMissingTurnData, types.GetErrorCode(err))

	_, _, err = graph.Invoke(context.Background(), nil)
	require.Error(t, err)
	assert.Equal(t, types.ErrMissingTurnData, types.GetErrorCode(err))
}

func TestGraph_SingleAgentStepPerTurn(t *testing.T) {
	calls := 0
	counting := NewStepMachine(types.AgentGather, "step", nil).
		Register("step", func(ctx context.Context, state *types.ConversationState) (*types.ConversationState, error) {
			calls++
			return state.AppendAssistant("reply"), nil
		})

	graph := NewGraph(fixedRouter(types.AgentGather), nil).Register(counting)

	before := machineState("")
	state, _, err := graph.Invoke(context.Background(), before)
	require.NoError(t, err)

	assert.Equal(t, 1, calls)
	assert.Len(t, state.Messages, len(before.Messages)+1, "exactly one assistant message per turn")
}
