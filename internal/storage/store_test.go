package storage

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/quantalpha/quantalpha/internal/models"
)

func openTestStore(t *testing.T) *Store {
	t.Helper()
	store, err := Open(filepath.Join(t.TempDir(), "runs.db"))
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	t.Cleanup(func() { store.Close() })
	return store
}

func completedState(symbol string) *models.WorkflowState {
	state := models.NewWorkflowState()
	state.Status = models.StatusCompleted
	state.StockSymbol = symbol
	state.CurrentStep = 5
	state.Outputs[models.MacroAnalyst] = "宏观面平稳"
	state.Outputs[models.GM] = "建议持有"
	return state
}

func TestRecordRunRoundTrip(t *testing.T) {
	store := openTestStore(t)
	ctx := context.Background()

	if err := store.RecordRun(ctx, completedState("600519")); err != nil {
		t.Fatalf("RecordRun: %v", err)
	}

	runs, err := store.ListRuns(ctx, 10)
	if err != nil {
		t.Fatalf("ListRuns: %v", err)
	}
	if len(runs) != 1 {
		t.Fatalf("got %d runs, want 1", len(runs))
	}
	run := runs[0]
	if run.Symbol != "600519" || run.Status != string(models.StatusCompleted) {
		t.Fatalf("unexpected run record: %+v", run)
	}

	outputs, err := store.RunOutputs(ctx, run.ID)
	if err != nil {
		t.Fatalf("RunOutputs: %v", err)
	}
	if len(outputs) != 2 {
		t.Fatalf("got %d outputs, want 2", len(outputs))
	}
	if outputs[models.GM] != "建议持有" {
		t.Fatalf("GM output = %q", outputs[models.GM])
	}
}

func TestListRunsNewestFirst(t *testing.T) {
	store := openTestStore(t)
	ctx := context.Background()

	for _, symbol := range []string{"600519", "000001", "300750"} {
		if err := store.RecordRun(ctx, completedState(symbol)); err != nil {
			t.Fatalf("RecordRun %s: %v", symbol, err)
		}
	}

	runs, err := store.ListRuns(ctx, 2)
	if err != nil {
		t.Fatalf("ListRuns: %v", err)
	}
	if len(runs) != 2 {
		t.Fatalf("got %d runs, want 2", len(runs))
	}
	if runs[0].Symbol != "300750" || runs[1].Symbol != "000001" {
		t.Fatalf("unexpected ordering: %+v", runs)
	}
}

func TestRunOutputsUnknownRun(t *testing.T) {
	store := openTestStore(t)

	outputs, err := store.RunOutputs(context.Background(), 424242)
	if err != nil {
		t.Fatalf("RunOutputs: %v", err)
	}
	if len(outputs) != 0 {
		t.Fatalf("expected no outputs, got %+v", outputs)
	}
}

func TestOpenRequiresPath(t *testing.T) {
	if _, err := Open("  "); err == nil {
		t.Fatal("expected error for empty db path")
	}
}
