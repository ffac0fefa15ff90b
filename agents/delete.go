package agents

import (
	"context"
	"fmt"
	"strings"

	"go.uber.org/zap"

	"github.com/harvest7777/personal-brand-intern-project/types"
	"github.com/harvest7777/personal-brand-intern-project/workflow"
)

// Delete steps.
const (
	StepConfirmDelete = "confirm_delete"
	StepExecuteDelete = "execute_delete"
)

// NewDelete builds the data-deletion agent. Deletion is destructive, so the
// flow always asks for confirmation on one turn and acts on the next.
func NewDelete(deps Dependencies) *workflow.StepMachine {
	logger := deps.logger().With(zap.String("agent", string(types.AgentDelete)))

	machine := workflow.NewStepMachine(types.AgentDelete, StepConfirmDelete, deps.Logger)

	machine.Register(StepConfirmDelete, func(ctx context.Context, state *types.ConversationState) (*types.ConversationState, error) {
		next := state.AppendAssistant("This will permanently delete every stored fact and queued question for your agent. Are you sure? (yes/no)")
		next.ActiveStep = StepExecuteDelete
		return next, nil
	})

	machine.Register(StepExecuteDelete, func(ctx context.Context, state *types.ConversationState) (*types.ConversationState, error) {
		answer, _ := state.LastHumanMessage()
		confirmed := strings.EqualFold(strings.TrimSpace(answer), "yes")
		if !confirmed {
			return clearAgent(state.AppendAssistant("Okay, I kept your data. Nothing was deleted.")), nil
		}

		deleted, err := deps.Facts.DeleteOwner(ctx, state.OwnerID)
		if err != nil {
			return nil, err
		}
		if err := deps.Review.DeleteOwner(ctx, state.OwnerID); err != nil {
			return nil, err
		}

		logger.Info("owner data deleted",
			zap.String("owner_id", state.OwnerID),
			zap.Int("facts_deleted", deleted),
		)
		reply := fmt.Sprintf("Done. I deleted %d facts and cleared your review queue.", deleted)
		return clearAgent(state.AppendAssistant(reply)), nil
	})

	return machine
}
