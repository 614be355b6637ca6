package models

import "testing"

func TestNewWorkflowStateShape(t *testing.T) {
	state := NewWorkflowState()
	if state.Status != StatusIdle || state.CurrentStep != 0 {
		t.Fatalf("unexpected initial state: %+v", state)
	}
	if len(state.Outputs) != 0 {
		t.Fatalf("expected empty outputs, got %+v", state.Outputs)
	}
	if len(state.AgentConfigs) != len(AllRoles()) {
		t.Fatalf("expected %d seat configs, got %d", len(AllRoles()), len(state.AgentConfigs))
	}
}

func TestCloneIsDeep(t *testing.T) {
	state := NewWorkflowState()
	state.Outputs[GM] = "original"
	state.StockContext = &StockContext{CurrentPrice: 100}

	cp := state.Clone()
	cp.Outputs[GM] = "mutated"
	cp.AgentConfigs[GM] = AgentConfig{Role: GM, Model: "other"}
	cp.StockContext.CurrentPrice = 1

	if state.Outputs[GM] != "original" {
		t.Fatalf("clone shares Outputs map")
	}
	if state.AgentConfigs[GM].Model == "other" {
		t.Fatalf("clone shares AgentConfigs map")
	}
	if state.StockContext.CurrentPrice != 100 {
		t.Fatalf("clone shares StockContext pointer")
	}
}

func TestTierRolesCoverAllSeats(t *testing.T) {
	seen := make(map[AgentRole]bool)
	for _, tier := range AllTiers() {
		for _, role := range TierRoles(tier) {
			if seen[role] {
				t.Fatalf("role %s appears in two tiers", role)
			}
			seen[role] = true
		}
	}
	if len(seen) != len(AllRoles()) {
		t.Fatalf("tiers cover %d roles, want %d", len(seen), len(AllRoles()))
	}
	if got := len(TierRoles(TierAnalysts)); got != 5 {
		t.Fatalf("analyst tier has %d seats, want 5", got)
	}
	if got := len(TierRoles(TierGM)); got != 1 {
		t.Fatalf("gm tier has %d seats, want 1", got)
	}
}

func TestDefaultAgentConfigsComplete(t *testing.T) {
	configs := DefaultAgentConfigs()
	for _, role := range AllRoles() {
		cfg, ok := configs[role]
		if !ok {
			t.Fatalf("missing default config for %s", role)
		}
		if cfg.Role != role {
			t.Fatalf("config role mismatch: %s vs %s", cfg.Role, role)
		}
		if cfg.Name == "" || cfg.Model == "" {
			t.Fatalf("incomplete default config for %s: %+v", role, cfg)
		}
		if cfg.Temperature < 0 || cfg.Temperature > 1 {
			t.Fatalf("default temperature out of range for %s: %v", role, cfg.Temperature)
		}
	}
}
