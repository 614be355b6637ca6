package models

// Status is the workflow session state machine.
type Status string

const (
	StatusIdle         Status = "idle"
	StatusFetchingData Status = "fetching_data"
	StatusRunning      Status = "running"
	StatusCompleted    Status = "completed"
	StatusError        Status = "error"
)

// WorkflowState is the single owned session object. It is created once per
// run, mutated exclusively by the orchestrator, and handed to callers only
// as deep-copied snapshots.
type WorkflowState struct {
	Status           Status                    `json:"status"`
	CurrentStep      int                       `json:"current_step"` // 0..5, monotonically non-decreasing within a run
	StockSymbol      string                    `json:"stock_symbol"`
	StockDataContext string                    `json:"stock_data_context"` // text blob injected into prompts
	StockContext     *StockContext             `json:"stock_context,omitempty"`
	Outputs          map[AgentRole]string      `json:"outputs"`
	AgentConfigs     map[AgentRole]AgentConfig `json:"agent_configs"`
	Error            string                    `json:"error,omitempty"`
}

// NewWorkflowState returns the initial idle state with the default panel.
func NewWorkflowState() *WorkflowState {
	return &WorkflowState{
		Status:       StatusIdle,
		CurrentStep:  0,
		Outputs:      make(map[AgentRole]string),
		AgentConfigs: DefaultAgentConfigs(),
	}
}

// Clone returns a deep copy safe to hand to the presentation layer.
func (s *WorkflowState) Clone() *WorkflowState {
	cp := *s
	cp.Outputs = make(map[AgentRole]string, len(s.Outputs))
	for k, v := range s.Outputs {
		cp.Outputs[k] = v
	}
	cp.AgentConfigs = make(map[AgentRole]AgentConfig, len(s.AgentConfigs))
	for k, v := range s.AgentConfigs {
		cp.AgentConfigs[k] = v
	}
	if s.StockContext != nil {
		ctx := *s.StockContext
		cp.StockContext = &ctx
	}
	return &cp
}
