package convstate

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/harvest7777/personal-brand-intern-project/types"
)

func sampleState() *types.ConversationState {
	state := types.NewConversationState("owner-1", "asker-1")
	state.ActiveAgent = types.AgentQuestionAnswer
	state.ActiveStep = "answer_question"
	state = state.AppendHuman("what are the skills?")
	state = state.AppendAssistant("Go, mostly.")
	return state
}

func assertRoundTrip(t *testing.T, store Store) {
	t.Helper()
	ctx := context.Background()

	_, ok, err := store.Load(ctx, "conv-1")
	require.NoError(t, err)
	assert.False(t, ok, "absent state is not an error")

	want := sampleState()
	require.NoError(t, store.Save(ctx, "conv-1", want))

	got, ok, err := store.Load(ctx, "conv-1")
	require.NoError(t, err)
	require.True(t, ok)

	assert.Equal(t, want.OwnerID, got.OwnerID)
	assert.Equal(t, want.ParticipantID, got.ParticipantID)
	assert.Equal(t, want.ActiveAgent, got.ActiveAgent)
	assert.Equal(t, want.ActiveStep, got.ActiveStep)
	require.Len(t, got.Messages, len(want.Messages))
	for i := range want.Messages {
		assert.Equal(t, want.Messages[i].Role, got.Messages[i].Role)
		assert.Equal(t, want.Messages[i].Content, got.Messages[i].Content)
	}
}

func TestMemoryStore_RoundTrip(t *testing.T) {
	assertRoundTrip(t, NewMemoryStore())
}

func TestMemoryStore_LoadReturnsCopy(t *testing.T) {
	store := NewMemoryStore()
	ctx := context.Background()
	require.NoError(t, store.Save(ctx, "conv-1", sampleState()))

	first, _, err := store.Load(ctx, "conv-1")
	require.NoError(t, err)
	first.Messages = append(first.Messages, types.NewHumanMessage("mutated"))

	second, _, err := store.Load(ctx, "conv-1")
	require.NoError(t, err)
	assert.Len(t, second.Messages, 2, "stored state is isolated from loaded copies")
}

func TestRedisStore_RoundTrip(t *testing.T) {
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	store := NewRedisStoreWithClient(client, time.Hour, nil)

	assertRoundTrip(t, store)
}

func TestRedisStore_TTLRefreshOnSave(t *testing.T) {
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	store := NewRedisStoreWithClient(client, time.Minute, nil)
	ctx := context.Background()

	require.NoError(t, store.Save(ctx, "conv-1", sampleState()))
	assert.Greater(t, mr.TTL(stateKeyPrefix+"conv-1"), time.Duration(0))
}

func TestRedisStore_ErrorIsPersistenceFailure(t *testing.T) {
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	store := NewRedisStoreWithClient(client, 0, nil)

	mr.Close()

	_, _, err := store.Load(context.Background(), "conv-1")
	require.Error(t, err)
	assert.Equal(t, types.ErrPersistenceFailed, types.GetErrorCode(err))
	assert.True(t, types.IsRetryable(err))
}

func TestLocker_SerializesPerKey(t *testing.T) {
	locker := NewLocker()

	var mu sync.Mutex
	running := map[string]int{}
	maxRunning := map[string]int{}

	var wg sync.WaitGroup
	for _, key := range []string{"a", "a", "a", "b", "b"} {
		wg.Add(1)
		go func(key string) {
			defer wg.Done()
			unlock := locker.Lock(key)
			defer unlock()

			mu.Lock()
			running[key]++
			if running[key] > maxRunning[key] {
				maxRunning[key] = running[key]
			}
			mu.Unlock()

			time.Sleep(5 * time.Millisecond)

			mu.Lock()
			running[key]--
			mu.Unlock()
		}(key)
	}
	wg.Wait()

	assert.Equal(t, 1, maxRunning["a"], "same-key holders must not overlap")
	assert.Equal(t, 1, maxRunning["b"])
}

func TestLocker_EntriesAreReclaimed(t *testing.T) {
	locker := NewLocker()
	unlock := locker.Lock("conv-1")
	unlock()

	locker.mu.Lock()
	defer locker.mu.Unlock()
	assert.Empty(t, locker.locks)
}
