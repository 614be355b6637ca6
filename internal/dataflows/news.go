package dataflows

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"
	"github.com/go-resty/resty/v2"

	"github.com/quantalpha/quantalpha/config"
)

// HeadlineScraper pulls recent news headlines for a stock from the Sina
// Finance search page. Only titles are kept; the orchestrator appends them
// to the prompt context when headline enrichment is enabled. A failed
// scrape is never fatal to a run.
type HeadlineScraper struct {
	client *resty.Client
	cache  *CacheManager
}

func NewHeadlineScraper(cfg *config.Config) *HeadlineScraper {
	client := resty.New()
	client.SetTimeout(10 * time.Second)
	client.SetHeader("User-Agent", "Mozilla/5.0 (compatible; QuantAlpha/1.0)")

	return &HeadlineScraper{
		client: client,
		cache:  NewCacheManager(cfg.DataCacheDir+"/news", 30*time.Minute, cfg.CacheEnabled),
	}
}

// FetchHeadlines returns up to limit recent headline titles for the symbol.
func (hs *HeadlineScraper) FetchHeadlines(ctx context.Context, symbol string, limit int) ([]string, error) {
	gid := NormalizeGID(symbol)

	var cached []string
	if hs.cache.Get("sina", "headlines", gid, &cached) {
		return cached, nil
	}

	url := fmt.Sprintf("https://search.sina.com.cn/?q=%s&c=news&range=title", gid[2:])
	resp, err := hs.client.R().SetContext(ctx).Get(url)
	if err != nil {
		return nil, fmt.Errorf("fetch headlines for %s: %w", gid, err)
	}
	if resp.StatusCode() != 200 {
		return nil, fmt.Errorf("headline search returned status %d", resp.StatusCode())
	}

	doc, err := goquery.NewDocumentFromReader(strings.NewReader(resp.String()))
	if err != nil {
		return nil, fmt.Errorf("parse headline page: %w", err)
	}

	var headlines []string
	doc.Find("div.box-result h2 a").EachWithBreak(func(i int, s *goquery.Selection) bool {
		title := strings.TrimSpace(s.Text())
		if title != "" {
			headlines = append(headlines, title)
		}
		return len(headlines) < limit
	})

	hs.cache.Set("sina", "headlines", gid, headlines)
	return headlines, nil
}

// FormatHeadlines renders scraped titles as a prompt-context section.
func FormatHeadlines(headlines []string) string {
	if len(headlines) == 0 {
		return ""
	}
	var b strings.Builder
	b.WriteString("【近期新闻标题】\n")
	for _, h := range headlines {
		fmt.Fprintf(&b, "- %s\n", h)
	}
	return b.String()
}
