package workflow

import (
	"context"
	"log"

	"golang.org/x/sync/errgroup"

	"github.com/quantalpha/quantalpha/internal/agents"
	"github.com/quantalpha/quantalpha/internal/models"
)

// StageInput is the shared read-only context one pipeline tier runs
// against: the symbol, the cumulative outputs of all prior tiers, the
// captured seat configs and the market-data prompt blob.
type StageInput struct {
	Tier          models.Tier
	Symbol        string
	PriorOutputs  map[models.AgentRole]string
	Configs       map[models.AgentRole]models.AgentConfig
	PromptContext string
}

// StageExecutor runs one tier: one concurrent call per seat, merged into a
// role-keyed map only when every call succeeded. A single failing seat
// aborts the whole stage; nothing partial is ever returned, and the first
// failure propagates unchanged. There is no retry.
type StageExecutor struct {
	caller agents.Caller
}

func NewStageExecutor(caller agents.Caller) *StageExecutor {
	return &StageExecutor{caller: caller}
}

func (e *StageExecutor) RunStage(ctx context.Context, in StageInput) (map[models.AgentRole]string, error) {
	roles := models.TierRoles(in.Tier)
	outputs := make([]string, len(roles))

	g, gctx := errgroup.WithContext(ctx)
	for i, role := range roles {
		g.Go(func() error {
			cfg, ok := in.Configs[role]
			if !ok {
				cfg = models.DefaultAgentConfigs()[role]
			}

			system := agents.SystemPrompt(role)
			user := agents.BuildUserPrompt(in.Tier, in.Symbol, in.PriorOutputs, in.PromptContext, in.Configs)

			text, err := e.caller.Invoke(gctx, cfg, system, user)
			if err != nil {
				return err
			}
			outputs[i] = text
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}

	// Merge is keyed by role, so seat completion order cannot matter.
	merged := make(map[models.AgentRole]string, len(roles))
	for i, role := range roles {
		merged[role] = outputs[i]
	}
	log.Printf("[StageExecutor] tier=%s seats=%d done", in.Tier, len(roles))
	return merged, nil
}
