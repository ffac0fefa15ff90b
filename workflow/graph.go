package workflow

import (
	"context"
	"fmt"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"

	"github.com/harvest7777/personal-brand-intern-project/types"
)

const tracerName = "github.com/harvest7777/personal-brand-intern-project/workflow"

// Graph composes the router with the registered agents. It is built once at
// process start and is stateless with respect to any single conversation.
type Graph struct {
	router Router
	agents map[types.AgentName]Agent
	logger *zap.Logger
	tracer trace.Tracer
}

// NewGraph creates an empty graph over router.
func NewGraph(router Router, logger *zap.Logger) *Graph {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Graph{
		router: router,
		agents: make(map[types.AgentName]Agent),
		logger: logger.With(zap.String("component", "graph")),
		tracer: otel.Tracer(tracerName),
	}
}

// Register adds an agent under its own name. Registration happens at process
// start, before the graph serves any turn.
func (g *Graph) Register(agent Agent) *Graph {
	g.agents[agent.Name()] = agent
	return g
}

// Invoke processes one inbound turn: one routing decision, then exactly one
// step of the selected agent. It returns the updated state, which carries the
// assistant's single reply, and the agent that handled the turn. On error the
// input state is unchanged and the previously persisted state remains
// authoritative.
func (g *Graph) Invoke(ctx context.Context, state *types.ConversationState) (*types.ConversationState, types.AgentName, error) {
	if state == nil {
		return nil, types.AgentNone, types.NewError(types.ErrMissingTurnData, "nil conversation state")
	}
	if _, ok := state.LastHumanMessage(); !ok {
		return nil, types.AgentNone, types.NewError(types.ErrMissingTurnData, "no human message in turn")
	}

	ctx, span := g.tracer.Start(ctx, "workflow.turn")
	defer span.End()

	routed, err := g.router.Route(ctx, state)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "routing failed")
		return nil, types.AgentNone, err
	}

	agent, ok := g.agents[routed]
	if !ok {
		// Unknown agent after routing resolves to fallback, never a dropped
		// turn.
		g.logger.Warn("no agent registered for route, using fallback",
			zap.String("routed", string(routed)))
		agent, ok = g.agents[types.AgentFallback]
		if !ok {
			err := fmt.Errorf("no agent registered for route %q and no fallback agent", routed)
			span.RecordError(err)
			span.SetStatus(codes.Error, "unroutable turn")
			return nil, types.AgentNone, err
		}
		routed = types.AgentFallback
	}

	span.SetAttributes(attribute.String("workflow.agent", string(routed)))

	next, err := agent.Enter(ctx, state)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "agent step failed")
		return nil, routed, err
	}

	span.SetAttributes(attribute.String("workflow.step", next.ActiveStep))
	return next, routed, nil
}
