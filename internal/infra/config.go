package infra

import (
	"fmt"
	"os"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/acebytes/trader/pkg/quant"
)

// Config holds all application settings. Secrets can be supplied via the
// config file but environment variables take precedence over it.
type Config struct {
	App struct {
		Name    string `yaml:"name"`
		Version string `yaml:"version"`
	} `yaml:"app"`

	Trading struct {
		Mode            string `yaml:"mode"`   // "paper" | "live"
		Symbol          string `yaml:"symbol"` // exchange pair, e.g. "btcusd"
		MinTradeBTC     string `yaml:"min_trade_btc"`
		ZoneWidthUSD    string `yaml:"zone_width_usd"`
		ProfitMargin    string `yaml:"profit_margin"` // fraction, e.g. "0.01"
		PaperBalanceUSD string `yaml:"paper_balance_usd"`
	} `yaml:"trading"`

	API struct {
		Bitfinex struct {
			WSURL   string `yaml:"ws_url"`
			RestURL string `yaml:"rest_url"`
			Key     string `yaml:"key"`
			Secret  string `yaml:"secret"`
		} `yaml:"bitfinex"`
	} `yaml:"api"`

	Telemetry struct {
		WebhookURL  string `yaml:"webhook_url"`
		MetricsAddr string `yaml:"metrics_addr"`
	} `yaml:"telemetry"`

	Logging struct {
		Level  string `yaml:"level"`  // debug|info|warn|error
		Format string `yaml:"format"` // text|json
	} `yaml:"logging"`

	// Parsed money fields, populated by Validate.
	minTradeSats       quant.QtySats
	zoneWidthMicros    quant.PriceMicros
	profitMarginMicros int64
	paperBalanceMicros quant.PriceMicros
}

// LoadConfig reads and parses the configuration file, applies defaults and
// environment overrides, and validates the result.
func LoadConfig(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, err
	}

	cfg.applyDefaults()
	overrideWithEnv(&cfg)

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return &cfg, nil
}

func (c *Config) applyDefaults() {
	if c.App.Name == "" {
		c.App.Name = AppName
	}
	if c.Trading.Mode == "" {
		c.Trading.Mode = "paper"
	}
	if c.Trading.Symbol == "" {
		c.Trading.Symbol = "btcusd"
	}
	if c.Trading.MinTradeBTC == "" {
		c.Trading.MinTradeBTC = "0.01"
	}
	if c.Trading.ZoneWidthUSD == "" {
		c.Trading.ZoneWidthUSD = "1000"
	}
	if c.Trading.ProfitMargin == "" {
		c.Trading.ProfitMargin = "0.01"
	}
	if c.Trading.PaperBalanceUSD == "" {
		c.Trading.PaperBalanceUSD = "1000"
	}
	if c.API.Bitfinex.WSURL == "" {
		c.API.Bitfinex.WSURL = "wss://api-pub.bitfinex.com/ws/2"
	}
	if c.API.Bitfinex.RestURL == "" {
		c.API.Bitfinex.RestURL = "https://api.bitfinex.com"
	}
	if c.Telemetry.MetricsAddr == "" {
		c.Telemetry.MetricsAddr = "localhost:9090"
	}
	if c.Logging.Level == "" {
		c.Logging.Level = "info"
	}
	if c.Logging.Format == "" {
		c.Logging.Format = "text"
	}
}

// Validate checks configuration validity and parses the money fields.
func (c *Config) Validate() error {
	switch strings.ToLower(c.Trading.Mode) {
	case "paper", "live":
	default:
		return fmt.Errorf("unknown trading mode: %q", c.Trading.Mode)
	}

	if !strings.HasPrefix(c.API.Bitfinex.WSURL, "ws://") && !strings.HasPrefix(c.API.Bitfinex.WSURL, "wss://") {
		return fmt.Errorf("invalid Bitfinex WS URL: %s", c.API.Bitfinex.WSURL)
	}
	if !strings.HasPrefix(c.API.Bitfinex.RestURL, "http://") && !strings.HasPrefix(c.API.Bitfinex.RestURL, "https://") {
		return fmt.Errorf("invalid Bitfinex REST URL: %s", c.API.Bitfinex.RestURL)
	}

	var err error
	if c.minTradeSats, err = quant.ParseQtySats(c.Trading.MinTradeBTC); err != nil {
		return fmt.Errorf("min_trade_btc: %w", err)
	}
	if c.minTradeSats <= 0 {
		return fmt.Errorf("min_trade_btc must be positive")
	}

	if c.zoneWidthMicros, err = quant.ParsePriceMicros(c.Trading.ZoneWidthUSD); err != nil {
		return fmt.Errorf("zone_width_usd: %w", err)
	}
	if c.zoneWidthMicros <= 0 {
		return fmt.Errorf("zone_width_usd must be positive")
	}

	margin, err := quant.ParsePriceMicros(c.Trading.ProfitMargin)
	if err != nil {
		return fmt.Errorf("profit_margin: %w", err)
	}
	if margin < 0 {
		return fmt.Errorf("profit_margin must not be negative")
	}
	c.profitMarginMicros = int64(margin)

	if c.paperBalanceMicros, err = quant.ParsePriceMicros(c.Trading.PaperBalanceUSD); err != nil {
		return fmt.Errorf("paper_balance_usd: %w", err)
	}

	if strings.ToLower(c.Trading.Mode) == "live" && (c.API.Bitfinex.Key == "" || c.API.Bitfinex.Secret == "") {
		return fmt.Errorf("live mode requires Bitfinex API credentials (TRADER_BFX_KEY / TRADER_BFX_SECRET)")
	}

	return nil
}

// Parsed accessors, valid after Validate.

func (c *Config) MinTradeSats() quant.QtySats           { return c.minTradeSats }
func (c *Config) ZoneWidthMicros() quant.PriceMicros    { return c.zoneWidthMicros }
func (c *Config) ProfitMarginMicros() int64             { return c.profitMarginMicros }
func (c *Config) PaperBalanceMicros() quant.PriceMicros { return c.paperBalanceMicros }

func (c *Config) IsLive() bool { return strings.ToLower(c.Trading.Mode) == "live" }

// overrideWithEnv applies environment variables on top of the file.
// Secrets belong in the environment, not on disk.
func overrideWithEnv(cfg *Config) {
	if cfg.API.Bitfinex.Key != "" || cfg.API.Bitfinex.Secret != "" {
		fmt.Println("WARNING: API secrets found in config file.")
		fmt.Println("   Recommendation: use TRADER_BFX_KEY / TRADER_BFX_SECRET instead.")
	}

	if key := os.Getenv("TRADER_BFX_KEY"); key != "" {
		cfg.API.Bitfinex.Key = key
	}
	if secret := os.Getenv("TRADER_BFX_SECRET"); secret != "" {
		cfg.API.Bitfinex.Secret = secret
	}
	if url := os.Getenv("TRADER_WEBHOOK_URL"); url != "" {
		cfg.Telemetry.WebhookURL = url
	}
}
