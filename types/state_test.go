package types

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestValidAgent(t *testing.T) {
	tests := []struct {
		name  string
		agent AgentName
		want  bool
	}{
		{"onboarding", AgentOnboarding, true},
		{"question answerer", AgentQuestionAnswer, true},
		{"end", AgentEnd, true},
		{"fallback", AgentFallback, true},
		{"empty is not routable", AgentNone, false},
		{"unknown value", AgentName("turbo_mode"), false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, ValidAgent(tt.agent))
		})
	}
}

func TestConversationState_Clone(t *testing.T) {
	state := NewConversationState("owner-1", "asker-1")
	state.ActiveAgent = AgentQuestionAnswer
	state.ActiveStep = "answer_question"
	state.Messages = append(state.Messages, NewHumanMessage("hello"))

	clone := state.Clone()
	clone.Messages = append(clone.Messages, NewAssistantMessage("hi"))
	clone.ActiveAgent = AgentGather

	// The original must be untouched by writes to the clone.
	assert.Len(t, state.Messages, 1)
	assert.Equal(t, AgentQuestionAnswer, state.ActiveAgent)
	assert.Len(t, clone.Messages, 2)
}

func TestConversationState_LastHumanMessage(t *testing.T) {
	state := NewConversationState("owner-1", "asker-1")

	_, ok := state.LastHumanMessage()
	assert.False(t, ok, "empty conversation has no human turn")

	state = state.AppendHuman("what are the skills?")
	state = state.AppendAssistant("here they are")

	got, ok := state.LastHumanMessage()
	require.True(t, ok)
	assert.Equal(t, "what are the skills?", got)

	state = state.AppendHuman("anything else?")
	got, ok = state.LastHumanMessage()
	require.True(t, ok)
	assert.Equal(t, "anything else?", got)
}

func TestConversationState_AppendIsCopyOnWrite(t *testing.T) {
	base := NewConversationState("owner-1", "asker-1").AppendHuman("one")

	a := base.AppendAssistant("reply a")
	b := base.AppendAssistant("reply b")

	require.Len(t, base.Messages, 1)
	assert.Equal(t, "reply a", a.Messages[1].Content)
	assert.Equal(t, "reply b", b.Messages[1].Content)
}
