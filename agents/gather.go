package agents

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/harvest7777/personal-brand-intern-project/types"
	"github.com/harvest7777/personal-brand-intern-project/workflow"
)

// Gather steps.
const (
	StepAskResume    = "ask_resume"
	StepIngestResume = "ingest_resume"
)

// NewGather builds the ingestion agent: ask for resume text, extract fact
// statements from it, and store them under the owner.
func NewGather(deps Dependencies) *workflow.StepMachine {
	logger := deps.logger().With(zap.String("agent", string(types.AgentGather)))

	machine := workflow.NewStepMachine(types.AgentGather, StepAskResume, deps.Logger)

	machine.Register(StepAskResume, func(ctx context.Context, state *types.ConversationState) (*types.ConversationState, error) {
		next := state.AppendAssistant("Paste your resume (or any text about yourself) and I'll pull the facts out of it.")
		next.ActiveStep = StepIngestResume
		return next, nil
	})

	machine.Register(StepIngestResume, func(ctx context.Context, state *types.ConversationState) (*types.ConversationState, error) {
		resume, _ := state.LastHumanMessage()

		statements, err := deps.Extractor.Extract(ctx, resume)
		if err != nil {
			return nil, err
		}
		if len(statements) == 0 {
			next := state.AppendAssistant("I couldn't find any facts in that. Try pasting the resume text itself.")
			next.ActiveStep = StepIngestResume
			return next, nil
		}

		facts := make([]types.KnowledgeFact, 0, len(statements))
		now := time.Now().UTC()
		for _, text := range statements {
			facts = append(facts, types.KnowledgeFact{
				OwnerID:  state.OwnerID,
				Text:     text,
				Source:   types.SourceResume,
				LoggedAt: now,
			})
		}
		if err := deps.Facts.Insert(ctx, facts); err != nil {
			return nil, err
		}

		logger.Info("resume ingested", zap.Int("facts", len(facts)))
		reply := fmt.Sprintf("Done! I ingested %d facts from your resume.", len(facts))
		return clearAgent(state.AppendAssistant(reply)), nil
	})

	return machine
}
