package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
)

type Config struct {
	ProjectDir   string `json:"project_dir"`
	ResultsDir   string `json:"results_dir"`
	DataDir      string `json:"data_dir"`
	DataCacheDir string `json:"data_cache_dir"`

	// Quote data source: juhe (default), longport or yahoo.
	QuoteProvider string `json:"quote_provider"`
	JuheAPIKey    string `json:"juhe_api_key"`

	// Longport API Configuration
	LongportAppKey      string `json:"longport_app_key"`
	LongportAppSecret   string `json:"longport_app_secret"`
	LongportAccessToken string `json:"longport_access_token"`

	// AI Model API Keys
	DeepSeekAPIKey string `json:"deepseek_api_key"`
	GeminiAPIKey   string `json:"gemini_api_key"`

	// Interval validation heuristics. Both are approximations with no
	// derivation behind them, so they stay configurable instead of baked in.
	VolatilityFactor       float64 `json:"volatility_factor"`       // daily amplitude -> 20d volatility proxy
	PlausibilityMultiplier float64 `json:"plausibility_multiplier"` // max plausible move per horizon, in volatilities

	EnrichHeadlines bool   `json:"enrich_headlines"` // append scraped headlines to the prompt context
	CacheEnabled    bool   `json:"cache_enabled"`
	Debug           bool   `json:"debug"`
	DBPath          string `json:"db_path"` // session recorder sqlite file
}

func DefaultConfig() *Config {
	currentDir, _ := os.Getwd()

	cfg := &Config{
		ProjectDir:   currentDir,
		ResultsDir:   filepath.Join(currentDir, "results"),
		DataDir:      filepath.Join(currentDir, "data"),
		DataCacheDir: filepath.Join(currentDir, "data", "cache"),

		QuoteProvider: "juhe",

		VolatilityFactor:       1.8,
		PlausibilityMultiplier: 2.5,

		EnrichHeadlines: false,
		CacheEnabled:    true,
		Debug:           false,
		DBPath:          filepath.Join(currentDir, "data", "sessions.db"),
	}

	// Load environment variables from .env file
	_ = godotenv.Load()

	cfg.loadFromEnv()

	return cfg
}

func (c *Config) loadFromEnv() {
	if val := os.Getenv("PROJECT_DIR"); val != "" {
		c.ProjectDir = val
	}
	if val := os.Getenv("RESULTS_DIR"); val != "" {
		c.ResultsDir = val
	}
	if val := os.Getenv("DATA_DIR"); val != "" {
		c.DataDir = val
	}
	if val := os.Getenv("DATA_CACHE_DIR"); val != "" {
		c.DataCacheDir = val
	}

	if val := os.Getenv("QUOTE_PROVIDER"); val != "" {
		c.QuoteProvider = strings.ToLower(val)
	}
	if val := os.Getenv("JUHE_API_KEY"); val != "" {
		c.JuheAPIKey = val
	}

	if val := os.Getenv("LONGPORT_APP_KEY"); val != "" {
		c.LongportAppKey = val
	}
	if val := os.Getenv("LONGPORT_APP_SECRET"); val != "" {
		c.LongportAppSecret = val
	}
	if val := os.Getenv("LONGPORT_ACCESS_TOKEN"); val != "" {
		c.LongportAccessToken = val
	}

	if val := os.Getenv("DEEPSEEK_API_KEY"); val != "" {
		c.DeepSeekAPIKey = val
	}
	if val := os.Getenv("GEMINI_API_KEY"); val != "" {
		c.GeminiAPIKey = val
	}

	if val := os.Getenv("VOLATILITY_FACTOR"); val != "" {
		if f, err := strconv.ParseFloat(val, 64); err == nil && f > 0 {
			c.VolatilityFactor = f
		}
	}
	if val := os.Getenv("PLAUSIBILITY_MULTIPLIER"); val != "" {
		if f, err := strconv.ParseFloat(val, 64); err == nil && f > 0 {
			c.PlausibilityMultiplier = f
		}
	}

	if val := os.Getenv("ENRICH_HEADLINES"); val != "" {
		if enabled, err := strconv.ParseBool(val); err == nil {
			c.EnrichHeadlines = enabled
		}
	}
	if val := os.Getenv("CACHE_ENABLED"); val != "" {
		if enabled, err := strconv.ParseBool(val); err == nil {
			c.CacheEnabled = enabled
		}
	}
	if val := os.Getenv("QUANTALPHA_DEBUG"); val != "" {
		if enabled, err := strconv.ParseBool(val); err == nil {
			c.Debug = enabled
		}
	}
	if val := os.Getenv("QUANTALPHA_DB_PATH"); val != "" {
		c.DBPath = val
	}
}

func (c *Config) EnsureDirectories() error {
	dirs := []string{c.ProjectDir, c.ResultsDir, c.DataDir, c.DataCacheDir}
	for _, dir := range dirs {
		path := strings.TrimSpace(dir)
		if path == "" {
			continue
		}
		if err := os.MkdirAll(path, 0o755); err != nil {
			return fmt.Errorf("create directory %s: %w", path, err)
		}
	}
	return nil
}
