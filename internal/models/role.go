package models

// AgentRole identifies one of the ten panel seats.
type AgentRole string

const (
	MacroAnalyst       AgentRole = "macro_analyst"
	IndustryAnalyst    AgentRole = "industry_analyst"
	TechnicalAnalyst   AgentRole = "technical_analyst"
	FundsAnalyst       AgentRole = "funds_analyst"
	FundamentalAnalyst AgentRole = "fundamental_analyst"

	ManagerFundamental AgentRole = "manager_fundamental"
	ManagerMomentum    AgentRole = "manager_momentum"

	RiskSystem    AgentRole = "risk_system"
	RiskPortfolio AgentRole = "risk_portfolio"

	GM AgentRole = "gm"
)

// Tier is one sequential phase of the pipeline.
type Tier int

const (
	TierAnalysts Tier = iota + 1
	TierManagers
	TierRisk
	TierGM
)

func (t Tier) String() string {
	switch t {
	case TierAnalysts:
		return "analysts"
	case TierManagers:
		return "managers"
	case TierRisk:
		return "risk"
	case TierGM:
		return "gm"
	}
	return "unknown"
}

// TierRoles returns the seats of a tier in display order.
func TierRoles(t Tier) []AgentRole {
	switch t {
	case TierAnalysts:
		return []AgentRole{MacroAnalyst, IndustryAnalyst, TechnicalAnalyst, FundsAnalyst, FundamentalAnalyst}
	case TierManagers:
		return []AgentRole{ManagerFundamental, ManagerMomentum}
	case TierRisk:
		return []AgentRole{RiskSystem, RiskPortfolio}
	case TierGM:
		return []AgentRole{GM}
	}
	return nil
}

// AllTiers lists the pipeline tiers in execution order.
func AllTiers() []Tier {
	return []Tier{TierAnalysts, TierManagers, TierRisk, TierGM}
}

// AllRoles lists every seat, tier by tier.
func AllRoles() []AgentRole {
	var roles []AgentRole
	for _, t := range AllTiers() {
		roles = append(roles, TierRoles(t)...)
	}
	return roles
}

// ModelProvider is the closed set of chat-model backends a seat can use.
type ModelProvider string

const (
	ProviderGemini   ModelProvider = "gemini"
	ProviderDeepSeek ModelProvider = "deepseek"
)

// AgentConfig holds per-seat model settings and display metadata.
// Mutable only while the workflow is idle; a run captures its configs at start.
type AgentConfig struct {
	Role        AgentRole     `json:"role"`
	Name        string        `json:"name"`
	Description string        `json:"description"`
	Provider    ModelProvider `json:"provider"`
	Model       string        `json:"model"`
	Temperature float64       `json:"temperature"` // [0.0, 1.0]
}

// DefaultAgentConfigs returns the fully populated ten-seat panel.
func DefaultAgentConfigs() map[AgentRole]AgentConfig {
	configs := []AgentConfig{
		{Role: MacroAnalyst, Name: "宏观分析师", Description: "宏观经济与政策环境", Provider: ProviderGemini, Model: "gemini-2.5-flash", Temperature: 0.7},
		{Role: IndustryAnalyst, Name: "行业分析师", Description: "行业格局与竞争态势", Provider: ProviderGemini, Model: "gemini-2.5-flash", Temperature: 0.7},
		{Role: TechnicalAnalyst, Name: "技术分析师", Description: "K线形态与技术指标", Provider: ProviderDeepSeek, Model: "deepseek-chat", Temperature: 0.5},
		{Role: FundsAnalyst, Name: "资金面分析师", Description: "资金流向与成交结构", Provider: ProviderDeepSeek, Model: "deepseek-chat", Temperature: 0.5},
		{Role: FundamentalAnalyst, Name: "基本面分析师", Description: "财务质量与估值水平", Provider: ProviderGemini, Model: "gemini-2.5-flash", Temperature: 0.6},
		{Role: ManagerFundamental, Name: "基本面总监", Description: "整合价值视角", Provider: ProviderGemini, Model: "gemini-2.5-pro", Temperature: 0.5},
		{Role: ManagerMomentum, Name: "动量总监", Description: "整合趋势视角", Provider: ProviderDeepSeek, Model: "deepseek-chat", Temperature: 0.5},
		{Role: RiskSystem, Name: "系统性风险官", Description: "市场与流动性风险", Provider: ProviderDeepSeek, Model: "deepseek-reasoner", Temperature: 0.3},
		{Role: RiskPortfolio, Name: "组合风险官", Description: "仓位与回撤控制", Provider: ProviderDeepSeek, Model: "deepseek-reasoner", Temperature: 0.3},
		{Role: GM, Name: "总经理", Description: "最终投资决策", Provider: ProviderGemini, Model: "gemini-2.5-pro", Temperature: 0.4},
	}

	out := make(map[AgentRole]AgentConfig, len(configs))
	for _, c := range configs {
		out[c.Role] = c
	}
	return out
}
