package workflow

import (
	"context"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/harvest7777/personal-brand-intern-project/convstate"
	"github.com/harvest7777/personal-brand-intern-project/internal/ctxkeys"
	"github.com/harvest7777/personal-brand-intern-project/internal/metrics"
	"github.com/harvest7777/personal-brand-intern-project/types"
)

// TurnResult is the outcome of one processed turn.
type TurnResult struct {
	// State is the persisted post-turn conversation state.
	State *types.ConversationState

	// Reply is the single assistant message produced this turn.
	Reply string

	// Agent is the agent that handled the turn.
	Agent types.AgentName
}

// Engine owns the read-modify-persist cycle around the graph. Turns of the
// same conversation are serialized; distinct conversations proceed
// concurrently.
type Engine struct {
	graph   *Graph
	store   convstate.Store
	locker  *convstate.Locker
	ownerID string
	metrics *metrics.Collector
	logger  *zap.Logger
}

// NewEngine wires the engine. ownerID identifies the knowledge-base owner of
// this deployed instance; collector may be nil.
func NewEngine(graph *Graph, store convstate.Store, ownerID string, collector *metrics.Collector, logger *zap.Logger) *Engine {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Engine{
		graph:   graph,
		store:   store,
		locker:  convstate.NewLocker(),
		ownerID: ownerID,
		metrics: collector,
		logger:  logger.With(zap.String("component", "engine")),
	}
}

// ProcessTurn handles one inbound human message. A missing conversation ID or
// empty text is fatal for the turn: it is logged and dropped with no reply
// attempted. On any downstream failure nothing is persisted, so the prior
// stored state remains authoritative.
func (e *Engine) ProcessTurn(ctx context.Context, conversationID, senderID, text string) (*TurnResult, error) {
	if conversationID == "" || strings.TrimSpace(text) == "" {
		e.logger.Error("turn dropped: missing conversation ID or text",
			zap.String("conversation_id", conversationID),
			zap.Int("text_len", len(text)),
		)
		e.metrics.RecordTurn("", metrics.StatusDropped, 0)
		return nil, types.NewError(types.ErrMissingTurnData, "missing conversation ID or human text")
	}

	unlock := e.locker.Lock(conversationID)
	defer unlock()

	start := time.Now()

	state, found, err := e.store.Load(ctx, conversationID)
	if err != nil {
		e.metrics.RecordTurn("", metrics.StatusError, time.Since(start))
		return nil, err
	}
	if !found {
		state = types.NewConversationState(e.ownerID, senderID)
	}
	if state.ParticipantID == "" {
		state.ParticipantID = senderID
	}

	state = state.AppendHuman(text)

	next, routed, err := e.graph.Invoke(ctx, state)
	if err != nil {
		e.metrics.RecordTurn(string(routed), metrics.StatusError, time.Since(start))
		return nil, err
	}

	if err := e.store.Save(ctx, conversationID, next); err != nil {
		e.metrics.RecordTurn(string(routed), metrics.StatusError, time.Since(start))
		return nil, err
	}

	reply := ""
	if n := len(next.Messages); n > 0 && next.Messages[n-1].Role == types.RoleAssistant {
		reply = next.Messages[n-1].Content
	}

	e.metrics.RecordTurn(string(routed), metrics.StatusOK, time.Since(start))

	fields := []zap.Field{
		zap.String("conversation_id", conversationID),
		zap.String("agent", string(routed)),
		zap.String("step", next.ActiveStep),
		zap.Duration("duration", time.Since(start)),
	}
	if rid, ok := ctxkeys.RequestID(ctx); ok {
		fields = append(fields, zap.String("request_id", rid))
	}
	if mid, ok := ctxkeys.MessageID(ctx); ok {
		fields = append(fields, zap.String("message_id", mid))
	}
	e.logger.Info("turn processed", fields...)

	return &TurnResult{State: next, Reply: reply, Agent: routed}, nil
}
