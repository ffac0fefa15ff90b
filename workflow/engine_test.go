package workflow

import (
	"context"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/harvest7777/personal-brand-intern-project/convstate"
	"github.com/harvest7777/personal-brand-intern-project/types"
)

func newTestEngine(t *testing.T, graph *Graph) (*Engine, convstate.Store) {
	t.Helper()
	store := convstate.NewMemoryStore()
	return NewEngine(graph, store, "owner-1", nil, nil), store
}

func TestEngine_FreshConversation(t *testing.T) {
	graph := NewGraph(fixedRouter(types.AgentGather), nil).
		Register(newAgent(types.AgentGather, "hello back"))
	engine, store := newTestEngine(t, graph)

	result, err := engine.ProcessTurn(context.Background(), "conv-1", "asker-1", "hi")
	require.NoError(t, err)

	assert.Equal(t, "hello back", result.Reply)
	assert.Equal(t, types.AgentGather, result.Agent)
	assert.Equal(t, "owner-1", result.State.OwnerID, "absent state initializes fresh")
	assert.Equal(t, "asker-1", result.State.ParticipantID)

	persisted, found, err := store.Load(context.Background(), "conv-1")
	require.NoError(t, err)
	require.True(t, found)
	assert.Len(t, persisted.Messages, 2)
}

func TestEngine_DropsTurnWithoutIDOrText(t *testing.T) {
	graph := NewGraph(fixedRouter(types.AgentGather), nil).
		Register(newAgent(types.AgentGather, "reply"))
	engine, store := newTestEngine(t, graph)

	for name, args := range map[string][2]string{
		"missing conversation id": {"", "hi"},
		"empty text":              {"conv-1", "   "},
	} {
		t.Run(name, func(t *testing.T) {
			_, err := engine.ProcessTurn(context.Background(), args[0], args[1], args[1])
			require.Error(t, err)
			assert.Equal(t, types.ErrMissingTurnData, types.GetErrorCode(err))
		})
	}

	_, found, err := store.Load(context.Background(), "conv-1")
	require.NoError(t, err)
	assert.False(t, found, "dropped turns persist nothing")
}

func TestEngine_FailedTurnKeepsPriorState(t *testing.T) {
	failing := NewStepMachine(types.AgentGather, "step", nil).
		Register("step", func(ctx context.Context, state *types.ConversationState) (*types.ConversationState, error) {
			if len(state.Messages) > 1 {
				return nil, fmt.Errorf("upstream unavailable")
			}
			return state.AppendAssistant("first reply"), nil
		})
	graph := NewGraph(fixedRouter(types.AgentGather), nil).Register(failing)
	engine, store := newTestEngine(t, graph)
	ctx := context.Background()

	_, err := engine.ProcessTurn(ctx, "conv-1", "asker-1", "first")
	require.NoError(t, err)

	_, err = engine.ProcessTurn(ctx, "conv-1", "asker-1", "second")
	require.Error(t, err)

	persisted, found, err := store.Load(ctx, "conv-1")
	require.NoError(t, err)
	require.True(t, found)
	assert.Len(t, persisted.Messages, 2, "the failed turn did not persist a partial state")
	assert.Equal(t, "first", persisted.Messages[0].Content)
}

func TestEngine_MultiTurnStatePersists(t *testing.T) {
	graph := NewGraph(fixedRouter(types.AgentGather), nil).
		Register(newAgent(types.AgentGather, "reply"))
	engine, _ := newTestEngine(t, graph)
	ctx := context.Background()

	first, err := engine.ProcessTurn(ctx, "conv-1", "asker-1", "turn one")
	require.NoError(t, err)
	second, err := engine.ProcessTurn(ctx, "conv-1", "asker-1", "turn two")
	require.NoError(t, err)

	assert.Len(t, first.State.Messages, 2)
	assert.Len(t, second.State.Messages, 4, "messages are append-only across turns")
	assert.Equal(t, "turn one", second.State.Messages[0].Content)
}
