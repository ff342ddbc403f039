package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Store backends.
const (
	BackendSheets   = "sheets"
	BackendPostgres = "postgres"
	BackendMemory   = "memory"
)

type Config struct {
	Port string `mapstructure:"PORT"`
	Env  string `mapstructure:"ENV"`

	StoreBackend string `mapstructure:"STORE_BACKEND"`

	// Google Sheets backend
	SpreadsheetID   string `mapstructure:"SPREADSHEET_ID"`
	WorksheetName   string `mapstructure:"WORKSHEET_NAME"`
	CredentialsFile string `mapstructure:"GOOGLE_CREDENTIALS_FILE"`
	CredentialsJSON string `mapstructure:"GOOGLE_CREDENTIALS_JSON"`

	// Postgres backend
	DatabaseURL string `mapstructure:"DATABASE_URL"`
	DBMaxConns  int32  `mapstructure:"DB_MAX_CONNS"`
	DBMinConns  int32  `mapstructure:"DB_MIN_CONNS"`

	CacheTTL       time.Duration `mapstructure:"CACHE_TTL"`
	RequestTimeout time.Duration `mapstructure:"REQUEST_TIMEOUT"`
	CORSOrigins    []string      `mapstructure:"CORS_ORIGINS"`
	RateLimitRPS   float64       `mapstructure:"RATE_LIMIT_RPS"`
	RateLimitBurst int           `mapstructure:"RATE_LIMIT_BURST"`
}

func Load() (*Config, error) {
	v := viper.New()
	v.SetConfigFile(".env")
	v.AutomaticEnv()

	// Defaults
	v.SetDefault("PORT", "8070")
	v.SetDefault("ENV", "development")
	v.SetDefault("STORE_BACKEND", BackendSheets)
	v.SetDefault("WORKSHEET_NAME", "Sheet1")
	v.SetDefault("GOOGLE_CREDENTIALS_FILE", "credentials.json")
	v.SetDefault("DB_MAX_CONNS", 10)
	v.SetDefault("DB_MIN_CONNS", 2)
	v.SetDefault("CACHE_TTL", "60s")
	v.SetDefault("REQUEST_TIMEOUT", "30s")
	v.SetDefault("CORS_ORIGINS", "http://localhost:3000")
	v.SetDefault("RATE_LIMIT_RPS", 50)
	v.SetDefault("RATE_LIMIT_BURST", 100)

	// Bind env vars explicitly so Unmarshal picks them up
	v.BindEnv("PORT")
	v.BindEnv("ENV")
	v.BindEnv("STORE_BACKEND")
	v.BindEnv("SPREADSHEET_ID")
	v.BindEnv("WORKSHEET_NAME")
	v.BindEnv("GOOGLE_CREDENTIALS_FILE")
	v.BindEnv("GOOGLE_CREDENTIALS_JSON")
	v.BindEnv("DATABASE_URL")
	v.BindEnv("DB_MAX_CONNS")
	v.BindEnv("DB_MIN_CONNS")
	v.BindEnv("CACHE_TTL")
	v.BindEnv("REQUEST_TIMEOUT")
	v.BindEnv("CORS_ORIGINS")
	v.BindEnv("RATE_LIMIT_RPS")
	v.BindEnv("RATE_LIMIT_BURST")

	// Try reading .env file, but don't fail if missing
	_ = v.ReadInConfig()

	cfg := &Config{}
	if err := v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("unmarshal config: %w", err)
	}

	if cfg.CORSOrigins == nil {
		origins := v.GetString("CORS_ORIGINS")
		if origins != "" {
			cfg.CORSOrigins = strings.Split(origins, ",")
		}
	}

	return cfg, nil
}

func (c *Config) IsDev() bool {
	return c.Env == "development"
}

// Validate checks the configuration is complete for the selected store
// backend. A failure here is fatal at startup: the server never runs against
// a store it cannot reach.
func (c *Config) Validate() error {
	switch c.StoreBackend {
	case BackendSheets:
		if c.SpreadsheetID == "" {
			return fmt.Errorf("SPREADSHEET_ID is required when STORE_BACKEND is %q", BackendSheets)
		}
		if c.CredentialsFile == "" && c.CredentialsJSON == "" {
			return fmt.Errorf("GOOGLE_CREDENTIALS_FILE or GOOGLE_CREDENTIALS_JSON is required when STORE_BACKEND is %q", BackendSheets)
		}
	case BackendPostgres:
		if c.DatabaseURL == "" {
			return fmt.Errorf("DATABASE_URL is required when STORE_BACKEND is %q", BackendPostgres)
		}
	case BackendMemory:
		// Demo mode: nothing to validate.
	default:
		return fmt.Errorf("STORE_BACKEND must be %q, %q, or %q, got %q",
			BackendSheets, BackendPostgres, BackendMemory, c.StoreBackend)
	}

	if c.CacheTTL < 0 {
		return fmt.Errorf("CACHE_TTL must not be negative, got %s", c.CacheTTL)
	}
	return nil
}
