package agents

import (
	"fmt"
	"strings"

	"github.com/quantalpha/quantalpha/internal/models"
)

// systemPrompts defines each seat's standing instructions. Analysts work
// from raw market data only; later tiers reason over the accumulated panel
// output.
var systemPrompts = map[models.AgentRole]string{
	models.MacroAnalyst: `你是一位宏观经济分析师。基于货币政策、财政政策、利率环境和经济周期，
评估当前宏观环境对该股票的影响。给出简明的多空倾向结论。`,
	models.IndustryAnalyst: `你是一位行业分析师。分析该股票所处行业的景气度、竞争格局、
产业政策与上下游变化，评估行业层面的投资机会与风险。`,
	models.TechnicalAnalyst: `你是一位技术分析师。基于提供的实时行情（价格、振幅、成交量），
分析短中期趋势、关键支撑位与压力位。结论需给出具体点位区间。`,
	models.FundsAnalyst: `你是一位资金面分析师。从成交量、成交额与盘口数据推断主力资金动向、
换手情况和筹码结构，评估资金面强弱。`,
	models.FundamentalAnalyst: `你是一位基本面分析师。结合该公司的业务模式、盈利能力、
估值水平与成长性，给出基本面评级与理由。`,
	models.ManagerFundamental: `你是基本面投资总监。阅读五位分析师的报告，从价值投资视角
整合出统一观点，指出分析师之间的分歧并给出你的裁决。`,
	models.ManagerMomentum: `你是动量投资总监。阅读五位分析师的报告，从趋势与动量视角
整合出统一观点，重点评估当前是否存在可交易的趋势。`,
	models.RiskSystem: `你是系统性风险官。审查此前全部报告，识别市场风险、流动性风险与
政策风险，评估最坏情形下的回撤幅度。`,
	models.RiskPortfolio: `你是组合风险官。审查此前全部报告，从仓位管理角度给出建议仓位、
加减仓条件与风险预算。`,
	models.GM: `你是投资决策委员会总经理。综合全部分析师、总监与风控报告，做出最终投资决策。
必须明确给出：操作建议（买入/持有/卖出）、目标价区间（如：目标价 100-120元）、
止损位（如：止损 90-95元），以及核心理由。`,
}

// SystemPrompt returns a seat's standing instructions.
func SystemPrompt(role models.AgentRole) string {
	return systemPrompts[role]
}

// BuildUserPrompt assembles the per-invocation prompt: the symbol, the
// market-data context blob, and, for tiers after the first, every prior
// seat's output in panel order.
func BuildUserPrompt(tier models.Tier, symbol string, priorOutputs map[models.AgentRole]string, promptContext string, configs map[models.AgentRole]models.AgentConfig) string {
	var b strings.Builder

	fmt.Fprintf(&b, "分析标的: %s\n\n", strings.ToUpper(symbol))
	if promptContext != "" {
		b.WriteString(promptContext)
		b.WriteString("\n")
	}

	if tier > models.TierAnalysts {
		b.WriteString("【此前各席位报告】\n\n")
		for _, prior := range models.AllRoles() {
			text, ok := priorOutputs[prior]
			if !ok {
				continue
			}
			name := string(prior)
			if cfg, ok := configs[prior]; ok {
				name = cfg.Name
			}
			fmt.Fprintf(&b, "── %s ──\n%s\n\n", name, text)
		}
	}

	b.WriteString("请基于以上信息完成你的职责，输出简洁、结构化的中文报告。")
	return b.String()
}
