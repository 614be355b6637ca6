package models

// Quote is a realtime market snapshot as returned by a quote provider.
// Numeric fields are already parsed; providers deal with the wire formats.
type Quote struct {
	GID          string  `json:"gid"`  // market-prefixed code, e.g. sh600519
	Name         string  `json:"name"` // security display name
	NowPrice     float64 `json:"now_price"`
	TodayMax     float64 `json:"today_max"`
	TodayMin     float64 `json:"today_min"`
	TodayOpen    float64 `json:"today_open"`
	YestodayEnd  float64 `json:"yestoday_end"`
	TradeNumber  float64 `json:"trade_number"` // traded volume (hands)
	TradeAmount  float64 `json:"trade_amount"` // traded amount (CNY)
	BuyOnePrice  float64 `json:"buy_one_price"`
	SellOnePrice float64 `json:"sell_one_price"`
	Date         string  `json:"date"`
	Time         string  `json:"time"`
}

// StockContext is the structured numeric snapshot used to validate
// free-text numeric claims against observed market conditions.
type StockContext struct {
	CurrentPrice      float64 `json:"current_price"`
	DailyAmplitudePct float64 `json:"daily_amplitude_pct"`
	Volume            float64 `json:"volume"`
	// Volatility20dPct is a proxy derived from the daily amplitude; no
	// independent 20-day series is available here, so this is an
	// approximation rather than a true historical volatility.
	Volatility20dPct float64 `json:"volatility_20d_pct"`
}
