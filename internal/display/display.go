package display

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/quantalpha/quantalpha/internal/models"
)

var (
	titleStyle = lipgloss.NewStyle().
		Bold(true).
		Foreground(lipgloss.Color("#3B82F6")).
		BorderStyle(lipgloss.RoundedBorder()).
		BorderForeground(lipgloss.Color("#3B82F6")).
		Padding(0, 2)

	tierStyle = lipgloss.NewStyle().
		Bold(true).
		Foreground(lipgloss.Color("#7C3AED")).
		MarginTop(1)

	seatStyle = lipgloss.NewStyle().
		Foreground(lipgloss.Color("#10B981")).
		Bold(true)

	bodyStyle = lipgloss.NewStyle().
		Foreground(lipgloss.Color("#D1D5DB")).
		PaddingLeft(2).
		Width(100)

	errorStyle = lipgloss.NewStyle().
		Foreground(lipgloss.Color("#EF4444")).
		Bold(true)

	pendingStyle = lipgloss.NewStyle().
		Foreground(lipgloss.Color("#6B7280"))
)

var tierTitles = map[models.Tier]string{
	models.TierAnalysts: "第一阶段 · 并行专业分析",
	models.TierManagers: "第二阶段 · 策略整合",
	models.TierRisk:     "第三阶段 · 风控评估",
	models.TierGM:       "第四阶段 · 最终决策",
}

// Render draws the full panel result for a finished (or failed) run.
func Render(state *models.WorkflowState) string {
	var b strings.Builder

	header := fmt.Sprintf("QuantAlpha 多智能体决策委员会 · %s", strings.ToUpper(state.StockSymbol))
	b.WriteString(titleStyle.Render(header))
	b.WriteString("\n")

	if state.Error != "" {
		b.WriteString(errorStyle.Render("✗ " + state.Error))
		b.WriteString("\n")
	}

	for _, tier := range models.AllTiers() {
		b.WriteString(tierStyle.Render(tierTitles[tier]))
		b.WriteString("\n")
		for _, role := range models.TierRoles(tier) {
			name := string(role)
			if cfg, ok := state.AgentConfigs[role]; ok {
				name = fmt.Sprintf("%s (%s/%s)", cfg.Name, cfg.Provider, cfg.Model)
			}
			b.WriteString(seatStyle.Render("● " + name))
			b.WriteString("\n")

			text, ok := state.Outputs[role]
			if !ok {
				b.WriteString(pendingStyle.Render("  （无输出）"))
				b.WriteString("\n")
				continue
			}
			b.WriteString(bodyStyle.Render(text))
			b.WriteString("\n")
		}
	}

	return b.String()
}

// RenderStatus renders a one-line state summary for progress output.
func RenderStatus(state *models.WorkflowState) string {
	switch state.Status {
	case models.StatusFetchingData:
		return pendingStyle.Render("获取实时行情中...")
	case models.StatusRunning:
		return pendingStyle.Render(fmt.Sprintf("分析进行中 · 第 %d 阶段", state.CurrentStep))
	case models.StatusCompleted:
		return seatStyle.Render("✓ 分析完成")
	case models.StatusError:
		return errorStyle.Render("✗ 分析失败")
	}
	return pendingStyle.Render("空闲")
}
