package dataflows

import (
	"context"
	"path/filepath"
	"strings"
	"time"

	"github.com/piquette/finance-go/quote"

	"github.com/quantalpha/quantalpha/config"
	"github.com/quantalpha/quantalpha/internal/models"
)

// YahooProvider serves SH/SZ quotes through Yahoo Finance using the
// 600519.SS / 000001.SZ suffix convention. Selected with
// QUOTE_PROVIDER=yahoo; needs no API key.
type YahooProvider struct {
	cache *CacheManager
}

func NewYahooProvider(cfg *config.Config) *YahooProvider {
	cacheDir := filepath.Join(cfg.DataCacheDir, "yahoo")
	return &YahooProvider{
		cache: NewCacheManager(cacheDir, 1*time.Minute, cfg.CacheEnabled),
	}
}

func (yp *YahooProvider) Name() string { return "yahoo" }

// yahooSymbol maps sh600519/600519 style codes to Yahoo's 600519.SS.
func yahooSymbol(symbol string) string {
	gid := NormalizeGID(symbol)
	code := gid[2:]
	if strings.HasPrefix(gid, "sh") {
		return code + ".SS"
	}
	return code + ".SZ"
}

func (yp *YahooProvider) FetchQuote(ctx context.Context, symbol string) (*models.Quote, error) {
	ySymbol := yahooSymbol(symbol)

	var cached models.Quote
	if yp.cache.Get("yahoo", "quote", ySymbol, &cached) {
		return &cached, nil
	}

	var result *models.Quote
	err := WithRetry(DefaultRetryConfig(), func() error {
		q, err := quote.Get(ySymbol)
		if err != nil {
			return err
		}
		if q == nil || q.RegularMarketPrice == 0 {
			result = nil
			return nil
		}
		result = &models.Quote{
			GID:         NormalizeGID(symbol),
			Name:        q.ShortName,
			NowPrice:    q.RegularMarketPrice,
			TodayMax:    q.RegularMarketDayHigh,
			TodayMin:    q.RegularMarketDayLow,
			TodayOpen:   q.RegularMarketOpen,
			YestodayEnd: q.RegularMarketPreviousClose,
			TradeNumber: float64(q.RegularMarketVolume),
			Date:        time.Now().Format("2006-01-02"),
			Time:        time.Now().Format("15:04:05"),
		}
		return nil
	})
	if err != nil {
		// Yahoo reports unknown symbols as errors; treat them as absence so
		// the orchestrator raises its own diagnostic.
		return nil, nil
	}

	if result != nil {
		yp.cache.Set("yahoo", "quote", ySymbol, result)
	}
	return result, nil
}
