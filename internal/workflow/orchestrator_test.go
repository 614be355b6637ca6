package workflow

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/quantalpha/quantalpha/config"
	"github.com/quantalpha/quantalpha/internal/models"
)

type fakeProvider struct {
	quote *models.Quote
	err   error
	calls int
}

func (p *fakeProvider) Name() string { return "fake" }

func (p *fakeProvider) FetchQuote(ctx context.Context, symbol string) (*models.Quote, error) {
	p.calls++
	return p.quote, p.err
}

func testConfig() *config.Config {
	return &config.Config{
		VolatilityFactor:       1.8,
		PlausibilityMultiplier: 2.5,
	}
}

func testQuote() *models.Quote {
	return &models.Quote{
		GID:         "sh600519",
		Name:        "贵州茅台",
		NowPrice:    100,
		TodayMax:    102,
		TodayMin:    98,
		TodayOpen:   99,
		YestodayEnd: 99.5,
	}
}

func newTestOrchestrator(caller *fakeCaller, provider *fakeProvider) *Orchestrator {
	return NewOrchestrator(testConfig(), provider, NewStageExecutor(caller))
}

func TestRunCompletesAllTiers(t *testing.T) {
	caller := &fakeCaller{}
	orch := newTestOrchestrator(caller, &fakeProvider{quote: testQuote()})

	if err := orch.Run(context.Background(), "600519"); err != nil {
		t.Fatalf("Run: %v", err)
	}

	state := orch.Snapshot()
	if state.Status != models.StatusCompleted {
		t.Fatalf("status = %s, want completed", state.Status)
	}
	if state.CurrentStep != 5 {
		t.Fatalf("CurrentStep = %d, want 5", state.CurrentStep)
	}
	if len(state.Outputs) != len(models.AllRoles()) {
		t.Fatalf("got %d outputs, want %d", len(state.Outputs), len(models.AllRoles()))
	}
	for _, role := range models.AllRoles() {
		if state.Outputs[role] == "" {
			t.Fatalf("missing output for %s", role)
		}
	}
}

func TestRunStagesExecuteInTierOrder(t *testing.T) {
	caller := &fakeCaller{}
	orch := newTestOrchestrator(caller, &fakeProvider{quote: testQuote()})

	if err := orch.Run(context.Background(), "600519"); err != nil {
		t.Fatalf("Run: %v", err)
	}

	tierOf := make(map[models.AgentRole]models.Tier)
	for _, tier := range models.AllTiers() {
		for _, role := range models.TierRoles(tier) {
			tierOf[role] = tier
		}
	}

	last := models.TierAnalysts
	for _, role := range caller.invoked() {
		tier := tierOf[role]
		if tier < last {
			t.Fatalf("seat %s (tier %s) ran after tier %s", role, tier, last)
		}
		last = tier
	}
}

func TestRunInvalidSymbol(t *testing.T) {
	caller := &fakeCaller{}
	provider := &fakeProvider{quote: testQuote()}
	orch := newTestOrchestrator(caller, provider)

	err := orch.Run(context.Background(), "abc")
	var verr *InputValidationError
	if !errors.As(err, &verr) {
		t.Fatalf("err = %T %v, want InputValidationError", err, err)
	}
	if provider.calls != 0 {
		t.Fatalf("provider should not be called for an invalid symbol")
	}
	if state := orch.Snapshot(); state.Status != models.StatusError || state.Error == "" {
		t.Fatalf("state after invalid symbol: %+v", state)
	}
}

func TestRunQuoteAbsenceFailsWithoutStages(t *testing.T) {
	caller := &fakeCaller{}
	orch := newTestOrchestrator(caller, &fakeProvider{quote: nil, err: nil})

	err := orch.Run(context.Background(), "600519")
	var derr *DataUnavailableError
	if !errors.As(err, &derr) {
		t.Fatalf("err = %T %v, want DataUnavailableError", err, err)
	}
	if len(caller.invoked()) != 0 {
		t.Fatalf("no seat should run without market data")
	}

	state := orch.Snapshot()
	if state.Status != models.StatusError {
		t.Fatalf("status = %s, want error", state.Status)
	}
	if len(state.Outputs) != 0 {
		t.Fatalf("expected no outputs, got %+v", state.Outputs)
	}
}

func TestRunStageFailureKeepsPriorOutputs(t *testing.T) {
	boom := errors.New("upstream model unavailable")
	caller := &fakeCaller{failRole: models.ManagerMomentum, failErr: boom}
	orch := newTestOrchestrator(caller, &fakeProvider{quote: testQuote()})

	err := orch.Run(context.Background(), "600519")
	var serr *StageExecutionError
	if !errors.As(err, &serr) {
		t.Fatalf("err = %T %v, want StageExecutionError", err, err)
	}
	if serr.Error() != boom.Error() {
		t.Fatalf("stage error text = %q, want the seat error verbatim", serr.Error())
	}

	state := orch.Snapshot()
	if state.Status != models.StatusError {
		t.Fatalf("status = %s, want error", state.Status)
	}
	// Analyst outputs from the completed first tier stay visible.
	for _, role := range models.TierRoles(models.TierAnalysts) {
		if state.Outputs[role] == "" {
			t.Fatalf("missing analyst output for %s after manager failure", role)
		}
	}
	// The failed tier contributed nothing.
	if _, ok := state.Outputs[models.ManagerMomentum]; ok {
		t.Fatalf("failed tier must not merge partial outputs")
	}
}

func TestRunAppendsValidationReport(t *testing.T) {
	// Band is [82, 118]: cp=100, amplitude 4% * factor 1.8 * k 2.5.
	caller := &fakeCaller{gmText: "建议买入。目标价区间为¥150-160。"}
	orch := newTestOrchestrator(caller, &fakeProvider{quote: testQuote()})

	if err := orch.Run(context.Background(), "600519"); err != nil {
		t.Fatalf("Run: %v", err)
	}

	gm := orch.Snapshot().Outputs[models.GM]
	if !strings.Contains(gm, reportDelimiter) {
		t.Fatalf("GM output missing report delimiter:\n%s", gm)
	}
	parts := strings.SplitN(gm, reportDelimiter, 2)
	if parts[0] != caller.gmText {
		t.Fatalf("GM prose altered: %q", parts[0])
	}
	if !strings.Contains(parts[1], "数值区间自动校验") {
		t.Fatalf("report section missing:\n%s", parts[1])
	}
	if !strings.Contains(parts[1], "118.00") {
		t.Fatalf("expected clamp to band edge 118.00:\n%s", parts[1])
	}
}

func TestRunCleanGMGetsNoReport(t *testing.T) {
	caller := &fakeCaller{gmText: "建议持有，目标价区间为¥95-105。"}
	orch := newTestOrchestrator(caller, &fakeProvider{quote: testQuote()})

	if err := orch.Run(context.Background(), "600519"); err != nil {
		t.Fatalf("Run: %v", err)
	}
	if gm := orch.Snapshot().Outputs[models.GM]; strings.Contains(gm, reportDelimiter) {
		t.Fatalf("no report expected for in-band intervals:\n%s", gm)
	}
}

func TestRunNotIdleRejected(t *testing.T) {
	caller := &fakeCaller{}
	orch := newTestOrchestrator(caller, &fakeProvider{quote: testQuote()})

	if err := orch.Run(context.Background(), "600519"); err != nil {
		t.Fatalf("first Run: %v", err)
	}
	if err := orch.Run(context.Background(), "000001"); !errors.Is(err, ErrNotIdle) {
		t.Fatalf("second Run err = %v, want ErrNotIdle", err)
	}
}

func TestResetPreservesAgentConfigs(t *testing.T) {
	caller := &fakeCaller{}
	orch := newTestOrchestrator(caller, &fakeProvider{quote: testQuote()})

	custom := models.DefaultAgentConfigs()[models.GM]
	custom.Model = "deepseek-reasoner"
	custom.Temperature = 0.2
	if err := orch.UpdateAgentConfig(models.GM, custom); err != nil {
		t.Fatalf("UpdateAgentConfig: %v", err)
	}

	if err := orch.Run(context.Background(), "600519"); err != nil {
		t.Fatalf("Run: %v", err)
	}

	// Frozen while not idle.
	if err := orch.UpdateAgentConfig(models.GM, custom); err == nil {
		t.Fatal("UpdateAgentConfig should fail after a completed run")
	}

	orch.Reset()

	state := orch.Snapshot()
	if state.Status != models.StatusIdle || state.CurrentStep != 0 {
		t.Fatalf("state after reset: %+v", state)
	}
	if len(state.Outputs) != 0 || state.StockSymbol != "" || state.Error != "" {
		t.Fatalf("reset did not clear run artifacts: %+v", state)
	}
	got := state.AgentConfigs[models.GM]
	if got.Model != "deepseek-reasoner" || got.Temperature != 0.2 {
		t.Fatalf("agent config not preserved across reset: %+v", got)
	}
}

func TestUpdateAgentConfigValidation(t *testing.T) {
	orch := newTestOrchestrator(&fakeCaller{}, &fakeProvider{quote: testQuote()})

	cfg := models.DefaultAgentConfigs()[models.GM]
	cfg.Temperature = 1.5
	if err := orch.UpdateAgentConfig(models.GM, cfg); err == nil {
		t.Fatal("expected temperature range error")
	}
	if err := orch.UpdateAgentConfig("chief_vibes_officer", models.AgentConfig{}); err == nil {
		t.Fatal("expected unknown role error")
	}
}
