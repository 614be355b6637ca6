package dataflows

import (
	"fmt"
	"strings"

	"github.com/quantalpha/quantalpha/internal/models"
)

// BuildStockContext projects a raw quote into the structured numeric
// snapshot the interval validator works against. Pure function.
//
// The 20-day volatility field is a proxy: daily amplitude scaled by a
// configurable factor, because the quote carries no historical series.
func BuildStockContext(q *models.Quote, volatilityFactor float64) models.StockContext {
	var amplitude float64
	if q.NowPrice > 0 {
		amplitude = (q.TodayMax - q.TodayMin) / q.NowPrice * 100
	}
	if amplitude < 0 {
		amplitude = 0
	}

	return models.StockContext{
		CurrentPrice:      q.NowPrice,
		DailyAmplitudePct: amplitude,
		Volume:            q.TradeNumber,
		Volatility20dPct:  amplitude * volatilityFactor,
	}
}

// FormatQuoteForPrompt renders a quote as the text blob injected into every
// seat's prompt. Deterministic for a given quote.
func FormatQuoteForPrompt(q *models.Quote) string {
	var b strings.Builder

	change := q.NowPrice - q.YestodayEnd
	var changePct float64
	if q.YestodayEnd > 0 {
		changePct = change / q.YestodayEnd * 100
	}

	fmt.Fprintf(&b, "【实时行情数据】\n")
	fmt.Fprintf(&b, "股票名称: %s (%s)\n", q.Name, strings.ToUpper(q.GID))
	fmt.Fprintf(&b, "当前价格: %.2f元\n", q.NowPrice)
	fmt.Fprintf(&b, "涨跌幅: %+.2f元 (%+.2f%%)\n", change, changePct)
	fmt.Fprintf(&b, "今日开盘: %.2f元  昨日收盘: %.2f元\n", q.TodayOpen, q.YestodayEnd)
	fmt.Fprintf(&b, "今日最高: %.2f元  今日最低: %.2f元\n", q.TodayMax, q.TodayMin)
	fmt.Fprintf(&b, "成交量: %.0f手  成交额: %.0f元\n", q.TradeNumber, q.TradeAmount)
	if q.Date != "" {
		fmt.Fprintf(&b, "行情时间: %s %s\n", q.Date, q.Time)
	}

	return b.String()
}
