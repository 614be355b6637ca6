package workflow

import (
	"context"
	"fmt"
	"log"
	"sync"

	"github.com/quantalpha/quantalpha/config"
	"github.com/quantalpha/quantalpha/internal/dataflows"
	"github.com/quantalpha/quantalpha/internal/intervals"
	"github.com/quantalpha/quantalpha/internal/models"
)

// reportDelimiter separates the GM's own text from the appended validation
// report.
const reportDelimiter = "\n\n---\n\n"

// Recorder persists a finished run. Implemented by the sqlite store; nil
// disables persistence.
type Recorder interface {
	RecordRun(ctx context.Context, state *models.WorkflowState) error
}

// Headliner supplies optional news headlines for prompt enrichment.
type Headliner interface {
	FetchHeadlines(ctx context.Context, symbol string, limit int) ([]string, error)
}

// Orchestrator owns the session state machine and drives the four-stage
// panel plus the interval post-processing step. One orchestrator holds at
// most one in-flight run.
type Orchestrator struct {
	cfg       *config.Config
	provider  dataflows.QuoteProvider
	executor  *StageExecutor
	headlines Headliner
	recorder  Recorder

	mu    sync.Mutex
	state *models.WorkflowState
}

func NewOrchestrator(cfg *config.Config, provider dataflows.QuoteProvider, executor *StageExecutor) *Orchestrator {
	return &Orchestrator{
		cfg:      cfg,
		provider: provider,
		executor: executor,
		state:    models.NewWorkflowState(),
	}
}

// WithHeadliner enables headline enrichment of the prompt context.
func (o *Orchestrator) WithHeadliner(h Headliner) *Orchestrator {
	o.headlines = h
	return o
}

// WithRecorder enables best-effort persistence of completed runs.
func (o *Orchestrator) WithRecorder(r Recorder) *Orchestrator {
	o.recorder = r
	return o
}

// Snapshot returns a deep copy of the current session state.
func (o *Orchestrator) Snapshot() *models.WorkflowState {
	o.mu.Lock()
	defer o.mu.Unlock()
	return o.state.Clone()
}

// UpdateAgentConfig replaces one seat's configuration. Valid only while the
// workflow is idle; a run captures its configs at start and never sees
// later edits.
func (o *Orchestrator) UpdateAgentConfig(role models.AgentRole, cfg models.AgentConfig) error {
	o.mu.Lock()
	defer o.mu.Unlock()

	if o.state.Status != models.StatusIdle {
		return fmt.Errorf("agent configs are frozen while status is %s", o.state.Status)
	}
	if _, ok := o.state.AgentConfigs[role]; !ok {
		return fmt.Errorf("unknown agent role %q", role)
	}
	if cfg.Temperature < 0 || cfg.Temperature > 1 {
		return fmt.Errorf("temperature %.2f out of range [0.0, 1.0]", cfg.Temperature)
	}
	cfg.Role = role
	o.state.AgentConfigs[role] = cfg
	return nil
}

// Reset returns the session to the initial idle shape, carrying over only
// the seat configurations. Required after a completed or failed run.
func (o *Orchestrator) Reset() {
	o.mu.Lock()
	defer o.mu.Unlock()

	fresh := models.NewWorkflowState()
	fresh.AgentConfigs = o.state.AgentConfigs
	o.state = fresh
}

// Run executes the full pipeline for a symbol:
// Idle → FetchingData → Running(step 1..4) → Completed, with Error
// reachable from FetchingData or Running. Completed and Error are terminal
// until Reset.
func (o *Orchestrator) Run(ctx context.Context, symbol string) error {
	// Symbol check happens before any state mutation beyond the error sink.
	if v := dataflows.ValidateSymbolFormat(symbol); !v.Valid {
		err := &InputValidationError{Symbol: symbol, Message: v.Message}
		o.mu.Lock()
		if o.state.Status == models.StatusIdle {
			o.state.Status = models.StatusError
			o.state.Error = err.Message
		}
		o.mu.Unlock()
		return err
	}

	// Claim the single in-flight run and capture configs.
	o.mu.Lock()
	if o.state.Status != models.StatusIdle {
		o.mu.Unlock()
		return ErrNotIdle
	}
	o.state.Status = models.StatusFetchingData
	o.state.StockSymbol = symbol
	o.state.CurrentStep = 0
	configs := make(map[models.AgentRole]models.AgentConfig, len(o.state.AgentConfigs))
	for k, v := range o.state.AgentConfigs {
		configs[k] = v
	}
	o.mu.Unlock()

	quote, err := o.provider.FetchQuote(ctx, symbol)
	if err != nil || quote == nil {
		failure := &DataUnavailableError{Symbol: symbol, Cause: err}
		o.fail(failure)
		return failure
	}

	promptContext := dataflows.FormatQuoteForPrompt(quote)
	promptContext += o.headlineContext(ctx, symbol)
	stockContext := dataflows.BuildStockContext(quote, o.cfg.VolatilityFactor)

	o.mu.Lock()
	o.state.Status = models.StatusRunning
	o.state.CurrentStep = 1
	o.state.StockDataContext = promptContext
	o.state.StockContext = &stockContext
	o.mu.Unlock()

	log.Printf("[Workflow] %s (%s) 实时数据就绪, 开始四阶段分析", quote.Name, quote.GID)

	outputs := make(map[models.AgentRole]string)
	for _, tier := range models.AllTiers() {
		merged, err := o.executor.RunStage(ctx, StageInput{
			Tier:          tier,
			Symbol:        symbol,
			PriorOutputs:  outputs,
			Configs:       configs,
			PromptContext: promptContext,
		})
		if err != nil {
			// Prior stages' outputs stay visible; the run itself is dead.
			failure := &StageExecutionError{Tier: tier, Err: err}
			o.fail(failure)
			return failure
		}

		next := make(map[models.AgentRole]string, len(outputs)+len(merged))
		for k, v := range outputs {
			next[k] = v
		}
		for k, v := range merged {
			next[k] = v
		}
		outputs = next

		o.mu.Lock()
		for k, v := range merged {
			o.state.Outputs[k] = v
		}
		o.state.CurrentStep = int(tier) + 1
		o.mu.Unlock()
	}

	// Fifth step: best-effort interval reconciliation of the GM verdict.
	// Whatever happens here, the run completes.
	finalGM := o.postProcessGM(outputs[models.GM], stockContext)

	o.mu.Lock()
	o.state.Outputs[models.GM] = finalGM
	o.state.Status = models.StatusCompleted
	o.state.CurrentStep = 5
	snapshot := o.state.Clone()
	o.mu.Unlock()

	if o.recorder != nil {
		if err := o.recorder.RecordRun(ctx, snapshot); err != nil {
			log.Printf("[Workflow] 会话落库失败: %v", err)
		}
	}
	return nil
}

func (o *Orchestrator) fail(err error) {
	o.mu.Lock()
	o.state.Status = models.StatusError
	o.state.Error = err.Error()
	o.mu.Unlock()
}

func (o *Orchestrator) headlineContext(ctx context.Context, symbol string) string {
	if !o.cfg.EnrichHeadlines || o.headlines == nil {
		return ""
	}
	titles, err := o.headlines.FetchHeadlines(ctx, symbol, 5)
	if err != nil {
		log.Printf("[Workflow] 新闻标题获取失败(忽略): %v", err)
		return ""
	}
	if section := dataflows.FormatHeadlines(titles); section != "" {
		return "\n" + section
	}
	return ""
}

// postProcessGM extracts numeric intervals from the GM text, validates them
// against the market snapshot and appends a report when anything was
// adjusted. Failures are swallowed: the original text always survives.
func (o *Orchestrator) postProcessGM(gmText string, sc models.StockContext) (result string) {
	result = gmText
	defer func() {
		if r := recover(); r != nil {
			log.Printf("[IntervalValidator] 自动校验失败, 保留原始输出: %v", r)
			result = gmText
		}
	}()

	seq := intervals.Extract(gmText)
	outcome := intervals.Validate(seq, sc, models.GM, intervals.Params{
		PlausibilityMultiplier: o.cfg.PlausibilityMultiplier,
		StopLossClampRatio:     0.98,
	})

	if report, ok := intervals.Report(outcome); ok {
		return gmText + reportDelimiter + report
	}
	return gmText
}
