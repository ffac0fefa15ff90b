package workflow

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/harvest7777/personal-brand-intern-project/types"
)

// Agent is one compiled sub-agent of the orchestration graph. Implementations
// are built once at process start and shared across conversations; all
// per-conversation data lives in the state they are handed.
type Agent interface {
	// Name returns the agent's routing identifier.
	Name() types.AgentName

	// Enter runs exactly one step of the agent for the current turn and
	// returns the updated state with exactly one new assistant message.
	Enter(ctx context.Context, state *types.ConversationState) (*types.ConversationState, error)
}

// StepFunc handles one step of an agent for one turn. It receives the state
// with ActiveAgent and ActiveStep already resolved and returns the next state.
type StepFunc func(ctx context.Context, state *types.ConversationState) (*types.ConversationState, error)

// StepMachine is the generic per-agent step state machine. Each turn executes
// exactly one registered step; multi-step flows span multiple turns through
// the persisted ActiveStep. An empty or unknown ActiveStep is normalized to
// the default step, never treated as an error.
type StepMachine struct {
	agent       types.AgentName
	defaultStep string
	steps       map[string]StepFunc
	logger      *zap.Logger
}

// NewStepMachine creates a machine for agent whose entry step is defaultStep.
func NewStepMachine(agent types.AgentName, defaultStep string, logger *zap.Logger) *StepMachine {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &StepMachine{
		agent:       agent,
		defaultStep: defaultStep,
		steps:       make(map[string]StepFunc),
		logger: logger.With(
			zap.String("component", "step_machine"),
			zap.String("agent", string(agent)),
		),
	}
}

// Register adds a step handler. Registration happens at process start, before
// the machine serves any turn.
func (m *StepMachine) Register(step string, fn StepFunc) *StepMachine {
	m.steps[step] = fn
	return m
}

// Name implements Agent.
func (m *StepMachine) Name() types.AgentName {
	return m.agent
}

// DefaultStep returns the entry step identifier.
func (m *StepMachine) DefaultStep() string {
	return m.defaultStep
}

// Enter implements Agent. The resolved step runs once; the machine stamps
// ActiveAgent on the way in so handlers only manage ActiveStep and messages.
func (m *StepMachine) Enter(ctx context.Context, state *types.ConversationState) (*types.ConversationState, error) {
	step := state.ActiveStep
	if _, ok := m.steps[step]; !ok {
		if step != "" {
			m.logger.Debug("unknown step normalized to default",
				zap.String("active_step", step))
		}
		step = m.defaultStep
	}

	fn, ok := m.steps[step]
	if !ok {
		return nil, fmt.Errorf("agent %s has no handler for default step %q", m.agent, m.defaultStep)
	}

	entered := state.Clone()
	entered.ActiveAgent = m.agent
	entered.ActiveStep = step

	next, err := fn(ctx, entered)
	if err != nil {
		return nil, fmt.Errorf("agent %s step %s: %w", m.agent, step, err)
	}
	return next, nil
}
