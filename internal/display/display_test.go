package display

import (
	"strings"
	"testing"

	"github.com/quantalpha/quantalpha/internal/models"
)

func TestRenderShowsAllSeats(t *testing.T) {
	state := models.NewWorkflowState()
	state.Status = models.StatusCompleted
	state.StockSymbol = "sh600519"
	for _, role := range models.AllRoles() {
		state.Outputs[role] = "报告内容 " + string(role)
	}

	out := Render(state)

	if !strings.Contains(out, "SH600519") {
		t.Fatalf("header missing symbol:\n%s", out)
	}
	for _, tier := range models.AllTiers() {
		if !strings.Contains(out, tierTitles[tier]) {
			t.Fatalf("missing tier title %q", tierTitles[tier])
		}
	}
	for _, role := range models.AllRoles() {
		if !strings.Contains(out, state.AgentConfigs[role].Name) {
			t.Fatalf("missing seat %s", role)
		}
	}
}

func TestRenderErrorState(t *testing.T) {
	state := models.NewWorkflowState()
	state.Status = models.StatusError
	state.StockSymbol = "600519"
	state.Error = "无法获取实时数据"

	out := Render(state)
	if !strings.Contains(out, "无法获取实时数据") {
		t.Fatalf("error not rendered:\n%s", out)
	}
}

func TestRenderStatus(t *testing.T) {
	state := models.NewWorkflowState()

	cases := map[models.Status]string{
		models.StatusIdle:         "空闲",
		models.StatusFetchingData: "获取实时行情",
		models.StatusRunning:      "分析进行中",
		models.StatusCompleted:    "分析完成",
		models.StatusError:        "分析失败",
	}
	for status, want := range cases {
		state.Status = status
		if got := RenderStatus(state); !strings.Contains(got, want) {
			t.Fatalf("RenderStatus(%s) = %q, want substring %q", status, got, want)
		}
	}
}
