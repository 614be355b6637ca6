package dataflows

import (
	"context"
	"fmt"

	"github.com/quantalpha/quantalpha/config"
	"github.com/quantalpha/quantalpha/internal/models"
)

// QuoteProvider fetches a realtime quote for an A-share symbol. A nil quote
// with a nil error means "not found"; the orchestrator treats that absence
// as fatal for a run.
type QuoteProvider interface {
	Name() string
	FetchQuote(ctx context.Context, symbol string) (*models.Quote, error)
}

// NewQuoteProvider resolves the configured data source. Unknown provider
// names and missing credentials surface as errors, never panics.
func NewQuoteProvider(cfg *config.Config) (QuoteProvider, error) {
	switch cfg.QuoteProvider {
	case "", "juhe":
		if cfg.JuheAPIKey == "" {
			return nil, fmt.Errorf("juhe provider selected but JUHE_API_KEY is not configured")
		}
		return NewJuheClient(cfg), nil
	case "longport":
		return NewLongportProvider(cfg)
	case "yahoo":
		return NewYahooProvider(cfg), nil
	default:
		return nil, fmt.Errorf("unknown quote provider %q (expected juhe, longport or yahoo)", cfg.QuoteProvider)
	}
}
