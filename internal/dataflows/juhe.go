package dataflows

import (
	"context"
	"encoding/json"
	"fmt"
	"path/filepath"
	"time"

	"github.com/go-resty/resty/v2"
	"github.com/shopspring/decimal"

	"github.com/quantalpha/quantalpha/config"
	"github.com/quantalpha/quantalpha/internal/models"
)

// JuheClient fetches Shanghai/Shenzhen realtime quotes from the Juhe Data
// API (web.juhe.cn/finance/stock/hs).
type JuheClient struct {
	client *resty.Client
	cache  *CacheManager
	apiKey string
}

// NewJuheClient creates a new Juhe quote client.
func NewJuheClient(cfg *config.Config) *JuheClient {
	cacheDir := filepath.Join(cfg.DataCacheDir, "juhe")
	cache := NewCacheManager(cacheDir, 1*time.Minute, cfg.CacheEnabled) // realtime quotes go stale fast

	client := resty.New()
	client.SetBaseURL("http://web.juhe.cn/finance/stock")
	client.SetTimeout(15 * time.Second)

	return &JuheClient{
		client: client,
		cache:  cache,
		apiKey: cfg.JuheAPIKey,
	}
}

func (jc *JuheClient) Name() string { return "juhe" }

// juheQuoteData mirrors the per-stock "data" object of the hs endpoint.
// All numeric fields arrive as strings.
type juheQuoteData struct {
	GID           string `json:"gid"`
	Name          string `json:"name"`
	NowPri        string `json:"nowPri"`
	TodayMax      string `json:"todayMax"`
	TodayMin      string `json:"todayMin"`
	TodayStartPri string `json:"todayStartPri"`
	YestodEndPri  string `json:"yestodEndPri"`
	TraNumber     string `json:"traNumber"`
	TraAmount     string `json:"traAmount"`
	BuyOnePri     string `json:"buyOne"`
	SellOnePri    string `json:"sellOne"`
	Date          string `json:"date"`
	Time          string `json:"time"`
}

type juheResponse struct {
	ResultCode string `json:"resultcode"`
	Reason     string `json:"reason"`
	ErrorCode  int    `json:"error_code"`
	Result     []struct {
		Data juheQuoteData `json:"data"`
	} `json:"result"`
}

// FetchQuote returns the realtime quote for a 6-digit SH/SZ code, or nil
// when the API has no data for it.
func (jc *JuheClient) FetchQuote(ctx context.Context, symbol string) (*models.Quote, error) {
	gid := NormalizeGID(symbol)

	var cached models.Quote
	if jc.cache.Get("juhe", "quote", gid, &cached) {
		return &cached, nil
	}

	var quote *models.Quote
	err := WithRetry(DefaultRetryConfig(), func() error {
		resp, err := jc.client.R().
			SetContext(ctx).
			SetQueryParams(map[string]string{
				"gid": gid,
				"key": jc.apiKey,
			}).
			Get("/hs")
		if err != nil {
			return fmt.Errorf("failed to fetch quote for %s: %w", gid, err)
		}
		if resp.StatusCode() != 200 {
			return fmt.Errorf("API error %d: %s", resp.StatusCode(), resp.String())
		}

		var parsed juheResponse
		if err := json.Unmarshal(resp.Body(), &parsed); err != nil {
			return fmt.Errorf("failed to parse quote response: %w", err)
		}

		if parsed.ErrorCode != 0 || len(parsed.Result) == 0 {
			// Not found. Absence is the signal, not an error.
			quote = nil
			return nil
		}

		quote = convertJuheQuote(parsed.Result[0].Data)
		return nil
	})
	if err != nil {
		return nil, err
	}

	if quote != nil {
		jc.cache.Set("juhe", "quote", gid, quote)
	}
	return quote, nil
}

func convertJuheQuote(d juheQuoteData) *models.Quote {
	return &models.Quote{
		GID:          d.GID,
		Name:         d.Name,
		NowPrice:     parseDecimalField(d.NowPri),
		TodayMax:     parseDecimalField(d.TodayMax),
		TodayMin:     parseDecimalField(d.TodayMin),
		TodayOpen:    parseDecimalField(d.TodayStartPri),
		YestodayEnd:  parseDecimalField(d.YestodEndPri),
		TradeNumber:  parseDecimalField(d.TraNumber),
		TradeAmount:  parseDecimalField(d.TraAmount),
		BuyOnePrice:  parseDecimalField(d.BuyOnePri),
		SellOnePrice: parseDecimalField(d.SellOnePri),
		Date:         d.Date,
		Time:         d.Time,
	}
}

// parseDecimalField tolerates the API's occasional "--" and empty strings.
func parseDecimalField(s string) float64 {
	dec, err := decimal.NewFromString(s)
	if err != nil {
		return 0
	}
	f, _ := dec.Float64()
	return f
}
