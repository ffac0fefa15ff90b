package types

// AgentName identifies a top-level agent in the orchestration graph.
type AgentName string

const (
	// AgentNone means no agent owns the conversation; the router classifies
	// the next turn.
	AgentNone AgentName = ""

	AgentOnboarding     AgentName = "onboarding"
	AgentGather         AgentName = "gather"
	AgentDeploy         AgentName = "deploy"
	AgentDelete         AgentName = "delete"
	AgentLinkedIn       AgentName = "linkedin"
	AgentAnswerFailed   AgentName = "answer_failed_questions"
	AgentQuestionAnswer AgentName = "question_answerer"
	AgentFallback       AgentName = "fallback"

	// AgentEnd is the terminal routing target for an explicit exit request.
	AgentEnd AgentName = "end"
)

// Agents lists every routable agent, in the order the classifier is shown them.
// AgentNone is not a member; it is the absence of a routing decision.
func Agents() []AgentName {
	return []AgentName{
		AgentOnboarding,
		AgentGather,
		AgentDeploy,
		AgentDelete,
		AgentLinkedIn,
		AgentAnswerFailed,
		AgentQuestionAnswer,
		AgentFallback,
		AgentEnd,
	}
}

// ValidAgent reports whether name is a member of the agent enumeration.
// AgentNone is not valid: an empty agent means "route next turn".
func ValidAgent(name AgentName) bool {
	for _, a := range Agents() {
		if a == name {
			return true
		}
	}
	return false
}

// ConversationState is the full per-conversation record. It is loaded at the
// start of a turn, threaded through the router and the active agent, and
// persisted back when the turn completes. Handlers treat it as immutable by
// convention: every transition returns a new value via Clone rather than
// mutating shared memory.
type ConversationState struct {
	// OwnerID is the identity of the knowledge-base owner. It is fixed per
	// deployed agent instance and independent of any single conversation.
	OwnerID string `json:"owner_id"`

	// ParticipantID is the identity speaking to the agent. It may be empty at
	// the orchestration entry point but is required before any knowledge store
	// call.
	ParticipantID string `json:"participant_id"`

	// ActiveAgent is the agent currently owning the conversation. Empty means
	// "no agent active, route the next turn".
	ActiveAgent AgentName `json:"active_agent"`

	// ActiveStep is the step within ActiveAgent. Empty or unknown values are
	// normalized to the agent's default step, never treated as an error.
	ActiveStep string `json:"active_step"`

	// Messages is the append-only conversation timeline. The last entry is the
	// human turn awaiting a response when a turn is processed.
	Messages []Message `json:"messages"`
}

// NewConversationState initializes a fresh state for a conversation between
// participant and the deployed owner instance.
func NewConversationState(ownerID, participantID string) *ConversationState {
	return &ConversationState{
		OwnerID:       ownerID,
		ParticipantID: participantID,
		Messages:      []Message{},
	}
}

// Clone returns a deep copy. The messages slice is copied so appends on the
// clone never alias the original backing array.
func (s *ConversationState) Clone() *ConversationState {
	out := *s
	out.Messages = make([]Message, len(s.Messages))
	copy(out.Messages, s.Messages)
	return &out
}

// LastHumanMessage returns the content of the most recent human turn, which
// is the current query for classification and answering.
func (s *ConversationState) LastHumanMessage() (string, bool) {
	for i := len(s.Messages) - 1; i >= 0; i-- {
		if s.Messages[i].Role == RoleHuman {
			return s.Messages[i].Content, true
		}
	}
	return "", false
}

// AppendHuman returns a clone with a new human turn appended.
func (s *ConversationState) AppendHuman(content string) *ConversationState {
	out := s.Clone()
	out.Messages = append(out.Messages, NewHumanMessage(content))
	return out
}

// AppendAssistant returns a clone with a new assistant turn appended.
func (s *ConversationState) AppendAssistant(content string) *ConversationState {
	out := s.Clone()
	out.Messages = append(out.Messages, NewAssistantMessage(content))
	return out
}
