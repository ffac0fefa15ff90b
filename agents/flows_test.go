package agents

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/harvest7777/personal-brand-intern-project/types"
)

func lastMessage(t *testing.T, state *types.ConversationState) types.Message {
	t.Helper()
	require.NotEmpty(t, state.Messages)
	return state.Messages[len(state.Messages)-1]
}

func TestEnd_SaysGoodbyeAndClearsState(t *testing.T) {
	f := newFixture()
	agent := NewEnd(f.deps)

	state, err := agent.Enter(context.Background(), stateWith(types.AgentQuestionAnswer, StepAnswerQuestion, "bye"))
	require.NoError(t, err)

	assert.Equal(t, goodbyeText, lastMessage(t, state).Content)
	assert.Equal(t, types.AgentNone, state.ActiveAgent)
	assert.Empty(t, state.ActiveStep)
}

func TestFallback_ListsCapabilitiesAndClearsState(t *testing.T) {
	f := newFixture()
	agent := NewFallback(f.deps)

	state, err := agent.Enter(context.Background(), stateWith(types.AgentNone, "", "fold my laundry"))
	require.NoError(t, err)

	assert.Equal(t, fallbackText, lastMessage(t, state).Content)
	assert.Contains(t, lastMessage(t, state).Content, "personal brand data orchestrator")
	assert.Equal(t, types.AgentNone, state.ActiveAgent)
}

func TestOnboarding_TwoTurnFlow(t *testing.T) {
	f := newFixture()
	f.extractor.statements = []string{"Alex is a Go engineer.", "Alex lives in Berlin."}
	agent := NewOnboarding(f.deps)
	ctx := context.Background()

	// Turn one asks for an introduction and arms the storing step.
	state, err := agent.Enter(ctx, stateWith(types.AgentNone, "", "onboard me"))
	require.NoError(t, err)
	assert.Equal(t, types.AgentOnboarding, state.ActiveAgent)
	assert.Equal(t, StepStoreIntro, state.ActiveStep)

	// Turn two stores the extracted facts and finishes the flow.
	state = state.AppendHuman("I'm Alex, a Go engineer in Berlin.")
	state, err = agent.Enter(ctx, state)
	require.NoError(t, err)

	require.Len(t, f.facts.inserted, 2)
	assert.Equal(t, types.SourceOwner, f.facts.inserted[0].Source)
	assert.Equal(t, "owner-1", f.facts.inserted[0].OwnerID)
	assert.Equal(t, types.AgentNone, state.ActiveAgent)
}

func TestGather_IngestsResumeFacts(t *testing.T) {
	f := newFixture()
	f.extractor.statements = []string{"Alex worked at Acme for five years."}
	agent := NewGather(f.deps)
	ctx := context.Background()

	state, err := agent.Enter(ctx, stateWith(types.AgentNone, "", "ingest my resume"))
	require.NoError(t, err)
	assert.Equal(t, StepIngestResume, state.ActiveStep)

	state = state.AppendHuman("Alex. Acme Corp, 2019-2024.")
	state, err = agent.Enter(ctx, state)
	require.NoError(t, err)

	require.Len(t, f.facts.inserted, 1)
	assert.Equal(t, types.SourceResume, f.facts.inserted[0].Source)
	assert.Contains(t, lastMessage(t, state).Content, "1 facts")
	assert.Equal(t, types.AgentNone, state.ActiveAgent)
}

func TestGather_EmptyExtractionStaysInStep(t *testing.T) {
	f := newFixture()
	agent := NewGather(f.deps)

	state := stateWith(types.AgentGather, StepIngestResume, "hello?")
	state, err := agent.Enter(context.Background(), state)
	require.NoError(t, err)

	assert.Empty(t, f.facts.inserted)
	assert.Equal(t, StepIngestResume, state.ActiveStep, "flow waits for usable text")
}

func TestDelete_RequiresConfirmation(t *testing.T) {
	f := newFixture()
	agent := NewDelete(f.deps)
	ctx := context.Background()

	state, err := agent.Enter(ctx, stateWith(types.AgentNone, "", "delete my data"))
	require.NoError(t, err)
	assert.Equal(t, StepExecuteDelete, state.ActiveStep)
	assert.Empty(t, f.facts.deletedOwner, "nothing deleted before confirmation")

	state = state.AppendHuman("no")
	state, err = agent.Enter(ctx, state)
	require.NoError(t, err)
	assert.Empty(t, f.facts.deletedOwner)
	assert.Equal(t, types.AgentNone, state.ActiveAgent)
}

func TestDelete_ConfirmedDeletesEverything(t *testing.T) {
	f := newFixture()
	agent := NewDelete(f.deps)
	ctx := context.Background()

	state := stateWith(types.AgentDelete, StepExecuteDelete, "yes")
	state, err := agent.Enter(ctx, state)
	require.NoError(t, err)

	assert.Equal(t, "owner-1", f.facts.deletedOwner)
	assert.Equal(t, "owner-1", f.review.deleted)
	assert.Equal(t, types.AgentNone, state.ActiveAgent)
}

func TestLinkedIn_RejectsNonLinkedInURL(t *testing.T) {
	f := newFixture()
	agent := NewLinkedIn(f.deps)

	state := stateWith(types.AgentLinkedIn, StepImportLinkedIn, "https://example.com/me")
	state, err := agent.Enter(context.Background(), state)
	require.NoError(t, err)

	assert.Empty(t, f.facts.inserted)
	assert.Equal(t, StepImportLinkedIn, state.ActiveStep, "flow re-asks for the URL")
}

func TestLinkedIn_StoresProfileFact(t *testing.T) {
	f := newFixture()
	agent := NewLinkedIn(f.deps)

	state := stateWith(types.AgentLinkedIn, StepImportLinkedIn, "https://www.linkedin.com/in/alex")
	state, err := agent.Enter(context.Background(), state)
	require.NoError(t, err)

	require.Len(t, f.facts.inserted, 1)
	assert.Equal(t, types.SourceLinkedIn, f.facts.inserted[0].Source)
	assert.Contains(t, f.facts.inserted[0].Text, "linkedin.com/in/alex")
	assert.Equal(t, types.AgentNone, state.ActiveAgent)
}

func TestAnswerFailed_EmptyQueue(t *testing.T) {
	f := newFixture()
	agent := NewAnswerFailed(f.deps)

	state, err := agent.Enter(context.Background(), stateWith(types.AgentNone, "", "let me answer failed questions"))
	require.NoError(t, err)

	assert.Equal(t, "Your review queue is empty. Nothing to answer right now.", lastMessage(t, state).Content)
	assert.Equal(t, types.AgentNone, state.ActiveAgent)
}

func TestAnswerFailed_AnswerBecomesFact(t *testing.T) {
	f := newFixture()
	f.review.pending = []types.UnansweredQuestion{
		{ID: "q1", OwnerID: "owner-1", AskerID: "asker-2", Text: "what certifications do you hold?"},
	}
	agent := NewAnswerFailed(f.deps)
	ctx := context.Background()

	state, err := agent.Enter(ctx, stateWith(types.AgentNone, "", "answer my failed questions"))
	require.NoError(t, err)
	assert.Contains(t, lastMessage(t, state).Content, "what certifications do you hold?")
	assert.Equal(t, StepRecordAnswer, state.ActiveStep)

	state = state.AppendHuman("CKA and CKAD.")
	state, err = agent.Enter(ctx, state)
	require.NoError(t, err)

	require.Len(t, f.review.answered, 1)
	assert.Equal(t, "q1", f.review.answered[0].Question.ID)
	require.Len(t, f.facts.inserted, 1)
	assert.Contains(t, f.facts.inserted[0].Text, "CKA and CKAD.")
	assert.Equal(t, types.SourceOwner, f.facts.inserted[0].Source)
	assert.Equal(t, types.AgentNone, state.ActiveAgent, "empty queue ends the flow")
}

func TestAnswerFailed_MovesToNextQuestion(t *testing.T) {
	f := newFixture()
	f.review.pending = []types.UnansweredQuestion{
		{ID: "q1", OwnerID: "owner-1", Text: "first question?"},
		{ID: "q2", OwnerID: "owner-1", Text: "second question?"},
	}
	agent := NewAnswerFailed(f.deps)

	state := stateWith(types.AgentAnswerFailed, StepRecordAnswer, "the first answer")
	state, err := agent.Enter(context.Background(), state)
	require.NoError(t, err)

	assert.Contains(t, lastMessage(t, state).Content, "second question?")
	assert.Equal(t, StepRecordAnswer, state.ActiveStep, "flow continues while questions remain")
	assert.Equal(t, types.AgentAnswerFailed, state.ActiveAgent)
}
