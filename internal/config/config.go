package config

import (
	"fmt"
	"os"
	"strings"

	"cloud.google.com/go/civil"
	"gopkg.in/yaml.v3"
)

const (
	DriverSQLite   = "sqlite"
	DriverPostgres = "postgres"
)

// Config drives both pipelines and the API server. Values are resolved in
// order: defaults, YAML file, environment.
type Config struct {
	Port        string   `yaml:"port"`
	LogLevel    string   `yaml:"log_level"`
	StoreDriver string   `yaml:"store_driver"`
	DBPath      string   `yaml:"db_path"`
	PostgresDSN string   `yaml:"postgres_dsn"`
	Prices      Prices   `yaml:"prices"`
	Symbols     []string `yaml:"symbols"`
}

// Prices configures the price source. Start and End are optional; when
// unset the window is derived from the ledger.
type Prices struct {
	BaseURL string `yaml:"base_url"`
	Start   string `yaml:"start"`
	End     string `yaml:"end"`
}

// Default returns the configuration used when nothing is overridden.
func Default() Config {
	return Config{
		Port:        "8080",
		LogLevel:    "info",
		StoreDriver: DriverSQLite,
		DBPath:      "ledgerprep.db",
		Prices: Prices{
			BaseURL: "https://query1.finance.yahoo.com",
		},
		Symbols: []string{"BTC", "ETH", "LTC", "GUSD", "USDC", "USDP"},
	}
}

// Load builds a Config from defaults, the optional YAML file at path and
// the process environment.
func Load(path string) (Config, error) {
	cfg := Default()

	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return Config{}, fmt.Errorf("read config: %w", err)
		}
		if err := yaml.Unmarshal(data, &cfg); err != nil {
			return Config{}, fmt.Errorf("parse config %s: %w", path, err)
		}
	}

	applyEnv(&cfg)

	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func applyEnv(cfg *Config) {
	overrides := map[string]*string{
		"PORT":           &cfg.Port,
		"LOG_LEVEL":      &cfg.LogLevel,
		"STORE_DRIVER":   &cfg.StoreDriver,
		"DB_PATH":        &cfg.DBPath,
		"POSTGRES_DSN":   &cfg.PostgresDSN,
		"PRICE_BASE_URL": &cfg.Prices.BaseURL,
		"PRICE_START":    &cfg.Prices.Start,
		"PRICE_END":      &cfg.Prices.End,
	}
	for key, dst := range overrides {
		if v := os.Getenv(key); v != "" {
			*dst = v
		}
	}
	if v := os.Getenv("PRICE_SYMBOLS"); v != "" {
		cfg.Symbols = strings.Split(v, ",")
	}
}

// Validate checks driver settings and the explicit price window.
func (c Config) Validate() error {
	switch c.StoreDriver {
	case DriverSQLite:
		if c.DBPath == "" {
			return fmt.Errorf("db_path is required for the sqlite driver")
		}
	case DriverPostgres:
		if c.PostgresDSN == "" {
			return fmt.Errorf("postgres_dsn is required for the postgres driver")
		}
	default:
		return fmt.Errorf("unsupported store driver: %s", c.StoreDriver)
	}

	if len(c.Symbols) == 0 {
		return fmt.Errorf("at least one price symbol is required")
	}

	start, end, err := c.PriceWindow()
	if err != nil {
		return err
	}
	if start != nil && end != nil && !start.Before(*end) {
		return fmt.Errorf("price window start %s must be before end %s", start, end)
	}
	return nil
}

// PriceWindow parses the configured window bounds. A nil bound is unset.
func (c Config) PriceWindow() (start, end *civil.Date, err error) {
	if start, err = parseOptionalDate(c.Prices.Start); err != nil {
		return nil, nil, fmt.Errorf("prices.start: %w", err)
	}
	if end, err = parseOptionalDate(c.Prices.End); err != nil {
		return nil, nil, fmt.Errorf("prices.end: %w", err)
	}
	return start, end, nil
}

func parseOptionalDate(s string) (*civil.Date, error) {
	if s == "" {
		return nil, nil
	}
	d, err := civil.ParseDate(s)
	if err != nil {
		return nil, err
	}
	return &d, nil
}
