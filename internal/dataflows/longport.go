package dataflows

import (
	"context"
	"errors"
	"fmt"
	"strings"

	lpconfig "github.com/longportapp/openapi-go/config"
	"github.com/longportapp/openapi-go/quote"

	"github.com/quantalpha/quantalpha/config"
	"github.com/quantalpha/quantalpha/internal/models"
)

// LongportProvider serves realtime SH/SZ quotes through the Longport
// OpenAPI. Selected with QUOTE_PROVIDER=longport.
type LongportProvider struct {
	quoteCtx *quote.QuoteContext
}

func NewLongportProvider(cfg *config.Config) (*LongportProvider, error) {
	if cfg.LongportAppKey == "" || cfg.LongportAppSecret == "" || cfg.LongportAccessToken == "" {
		return nil, errors.New("longport API credentials not configured")
	}

	conf, err := lpconfig.New(lpconfig.WithConfigKey(cfg.LongportAppKey, cfg.LongportAppSecret, cfg.LongportAccessToken))
	if err != nil {
		return nil, err
	}

	quoteContext, err := quote.NewFromCfg(conf)
	if err != nil {
		return nil, err
	}

	return &LongportProvider{quoteCtx: quoteContext}, nil
}

func (lp *LongportProvider) Name() string { return "longport" }

// longportSymbol maps sh600519/600519 style codes to Longport's 600519.SH.
func longportSymbol(symbol string) string {
	gid := NormalizeGID(symbol)
	market := strings.ToUpper(gid[:2])
	return gid[2:] + "." + market
}

func (lp *LongportProvider) FetchQuote(ctx context.Context, symbol string) (*models.Quote, error) {
	if lp.quoteCtx == nil {
		return nil, errors.New("quote context is nil")
	}

	lpSymbol := longportSymbol(symbol)
	quotes, err := lp.quoteCtx.Quote(ctx, []string{lpSymbol})
	if err != nil {
		return nil, fmt.Errorf("longport quote %s: %w", lpSymbol, err)
	}
	if len(quotes) == 0 || quotes[0] == nil {
		return nil, nil
	}

	q := quotes[0]
	out := &models.Quote{
		GID:  NormalizeGID(symbol),
		Name: q.Symbol,
	}
	if q.LastDone != nil {
		out.NowPrice, _ = q.LastDone.Float64()
	}
	if q.High != nil {
		out.TodayMax, _ = q.High.Float64()
	}
	if q.Low != nil {
		out.TodayMin, _ = q.Low.Float64()
	}
	if q.Open != nil {
		out.TodayOpen, _ = q.Open.Float64()
	}
	if q.PrevClose != nil {
		out.YestodayEnd, _ = q.PrevClose.Float64()
	}
	out.TradeNumber = float64(q.Volume)
	if q.Turnover != nil {
		out.TradeAmount, _ = q.Turnover.Float64()
	}
	if out.NowPrice == 0 {
		// A symbol Longport knows nothing about comes back zeroed.
		return nil, nil
	}
	return out, nil
}
