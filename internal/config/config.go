package config

import (
	"strings"

	"github.com/rotisserie/eris"
	"github.com/shopspring/decimal"
	"github.com/spf13/viper"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/estimaro/estimator/internal/model"
	"github.com/estimaro/estimator/internal/resilience"
)

// Config holds the full application configuration.
type Config struct {
	Estimate EstimateConfig `yaml:"estimate" mapstructure:"estimate"`
	Adapters AdaptersConfig `yaml:"adapters" mapstructure:"adapters"`
	NHTSA    NHTSAConfig    `yaml:"nhtsa" mapstructure:"nhtsa"`
	Scraper  ScraperConfig  `yaml:"scraper" mapstructure:"scraper"`
	Server   ServerConfig   `yaml:"server" mapstructure:"server"`
	Log      LogConfig      `yaml:"log" mapstructure:"log"`
}

// EstimateConfig holds the shop defaults applied to requests that leave a
// field unset.
type EstimateConfig struct {
	LaborRate          float64             `yaml:"labor_rate" mapstructure:"labor_rate"`
	PartsMarkup        float64             `yaml:"parts_markup" mapstructure:"parts_markup"`
	TaxRate            float64             `yaml:"tax_rate" mapstructure:"tax_rate"`
	VendorWeights      model.VendorWeights `yaml:"vendor_weights" mapstructure:"vendor_weights"`
	IncludeCleaningKit bool                `yaml:"include_cleaning_kit" mapstructure:"include_cleaning_kit"`
	AddOnRulesPath     string              `yaml:"addon_rules_path" mapstructure:"addon_rules_path"`
}

// RequestDefaults converts the configured shop defaults to exact decimals.
func (e EstimateConfig) RequestDefaults() model.RequestDefaults {
	return model.RequestDefaults{
		LaborRate:          decimal.NewFromFloat(e.LaborRate),
		PartsMarkup:        decimal.NewFromFloat(e.PartsMarkup),
		TaxRate:            decimal.NewFromFloat(e.TaxRate),
		VendorWeights:      e.VendorWeights,
		IncludeCleaningKit: e.IncludeCleaningKit,
	}
}

// Adapter kinds.
const (
	AdapterMock   = "mock"
	AdapterRemote = "remote"
)

// AdaptersConfig selects the implementation behind each collaborator.
type AdaptersConfig struct {
	VIN     string `yaml:"vin" mapstructure:"vin"`
	Recalls string `yaml:"recalls" mapstructure:"recalls"`
	Labor   string `yaml:"labor" mapstructure:"labor"`
	Parts   string `yaml:"parts" mapstructure:"parts"`
	Vendors string `yaml:"vendors" mapstructure:"vendors"`
}

// RetryConfig configures the retry and breaker policy for one remote
// collaborator.
type RetryConfig struct {
	MaxAttempts      int `yaml:"max_attempts" mapstructure:"max_attempts"`
	InitialBackoffMs int `yaml:"initial_backoff_ms" mapstructure:"initial_backoff_ms"`
	MaxBackoffMs     int `yaml:"max_backoff_ms" mapstructure:"max_backoff_ms"`
	FailureThreshold int `yaml:"failure_threshold" mapstructure:"failure_threshold"`
	CooldownSecs     int `yaml:"cooldown_secs" mapstructure:"cooldown_secs"`
}

// Settings converts to resilience settings.
func (r RetryConfig) Settings() resilience.Settings {
	return resilience.Settings{
		MaxAttempts:      r.MaxAttempts,
		InitialBackoffMs: r.InitialBackoffMs,
		MaxBackoffMs:     r.MaxBackoffMs,
		FailureThreshold: r.FailureThreshold,
		CooldownSecs:     r.CooldownSecs,
	}
}

// NHTSAConfig holds the public NHTSA API endpoints.
type NHTSAConfig struct {
	VPICBaseURL    string      `yaml:"vpic_base_url" mapstructure:"vpic_base_url"`
	RecallsBaseURL string      `yaml:"recalls_base_url" mapstructure:"recalls_base_url"`
	TimeoutSecs    int         `yaml:"timeout_secs" mapstructure:"timeout_secs"`
	RateLimit      float64     `yaml:"rate_limit" mapstructure:"rate_limit"`
	Retry          RetryConfig `yaml:"retry" mapstructure:"retry"`
}

// ScraperConfig holds the scraper service settings used for labor, parts
// and vendor pricing lookups.
type ScraperConfig struct {
	URL         string      `yaml:"url" mapstructure:"url"`
	APIKey      string      `yaml:"api_key" mapstructure:"api_key"`
	TimeoutSecs int         `yaml:"timeout_secs" mapstructure:"timeout_secs"`
	RateLimit   float64     `yaml:"rate_limit" mapstructure:"rate_limit"`
	Retry       RetryConfig `yaml:"retry" mapstructure:"retry"`
}

// ServerConfig configures the HTTP API.
type ServerConfig struct {
	Port           int      `yaml:"port" mapstructure:"port"`
	AllowedOrigins []string `yaml:"allowed_origins" mapstructure:"allowed_origins"`
}

// LogConfig configures logging.
type LogConfig struct {
	Level  string `yaml:"level" mapstructure:"level"`
	Format string `yaml:"format" mapstructure:"format"`
}

// Load reads configuration from ./config.yaml, if present, and environment.
func Load() (*Config, error) {
	return LoadFile("")
}

// LoadFile reads configuration from path and environment. An empty path
// falls back to an optional config.yaml in the working directory; an
// explicit path must exist.
func LoadFile(path string) (*Config, error) {
	v := viper.New()

	if path != "" {
		v.SetConfigFile(path)
	} else {
		v.SetConfigName("config")
		v.AddConfigPath(".")
	}
	v.SetConfigType("yaml")

	v.SetEnvPrefix("ESTIMARO")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	v.SetDefault("estimate.labor_rate", 150.0)
	v.SetDefault("estimate.parts_markup", 30.0)
	v.SetDefault("estimate.tax_rate", 0.0925)
	v.SetDefault("estimate.vendor_weights.brand", 40)
	v.SetDefault("estimate.vendor_weights.price", 35)
	v.SetDefault("estimate.vendor_weights.distance", 25)
	v.SetDefault("estimate.include_cleaning_kit", true)
	v.SetDefault("estimate.addon_rules_path", "")
	v.SetDefault("adapters.vin", AdapterRemote)
	v.SetDefault("adapters.recalls", AdapterRemote)
	v.SetDefault("adapters.labor", AdapterMock)
	v.SetDefault("adapters.parts", AdapterMock)
	v.SetDefault("adapters.vendors", AdapterMock)
	v.SetDefault("nhtsa.vpic_base_url", "https://vpic.nhtsa.dot.gov/api/vehicles")
	v.SetDefault("nhtsa.recalls_base_url", "https://api.nhtsa.gov/recalls")
	v.SetDefault("nhtsa.timeout_secs", 10)
	v.SetDefault("nhtsa.rate_limit", 5.0)
	v.SetDefault("nhtsa.retry.max_attempts", 3)
	v.SetDefault("nhtsa.retry.initial_backoff_ms", 250)
	v.SetDefault("nhtsa.retry.max_backoff_ms", 2000)
	v.SetDefault("nhtsa.retry.failure_threshold", 5)
	v.SetDefault("nhtsa.retry.cooldown_secs", 30)
	v.SetDefault("scraper.url", "http://localhost:8001")
	v.SetDefault("scraper.api_key", "")
	v.SetDefault("scraper.timeout_secs", 60)
	v.SetDefault("scraper.rate_limit", 2.0)
	v.SetDefault("scraper.retry.max_attempts", 2)
	v.SetDefault("scraper.retry.initial_backoff_ms", 500)
	v.SetDefault("scraper.retry.max_backoff_ms", 5000)
	v.SetDefault("scraper.retry.failure_threshold", 3)
	v.SetDefault("scraper.retry.cooldown_secs", 60)
	v.SetDefault("server.port", 8080)
	v.SetDefault("server.allowed_origins", []string{"*"})
	v.SetDefault("log.level", "info")
	v.SetDefault("log.format", "json")

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok || path != "" {
			return nil, eris.Wrap(err, "config: read file")
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, eris.Wrap(err, "config: unmarshal")
	}

	return &cfg, nil
}

// Validate checks the configuration for the given command mode: "run",
// "calc" or "serve".
func (c *Config) Validate(mode string) error {
	var problems []string

	switch mode {
	case "run", "serve":
		problems = append(problems, c.validateEstimate()...)
		problems = append(problems, c.validateAdapters()...)
		if mode == "serve" && c.Server.Port <= 0 {
			problems = append(problems, "server.port must be > 0")
		}
	case "calc":
		problems = append(problems, c.validateEstimate()...)
	default:
		return eris.Errorf("config: unknown mode %q", mode)
	}

	if len(problems) > 0 {
		return eris.Errorf("config: %s", strings.Join(problems, "; "))
	}
	return nil
}

func (c *Config) validateEstimate() []string {
	var out []string
	e := c.Estimate
	if e.LaborRate < 0 {
		out = append(out, "estimate.labor_rate must be >= 0")
	}
	if e.PartsMarkup < 0 || e.PartsMarkup > 100 {
		out = append(out, "estimate.parts_markup must be between 0 and 100")
	}
	if e.TaxRate < 0 || e.TaxRate > 1 {
		out = append(out, "estimate.tax_rate must be between 0 and 1")
	}
	w := e.VendorWeights
	if w.Brand < 0 || w.Price < 0 || w.Distance < 0 || w.Sum() <= 0 {
		out = append(out, "estimate.vendor_weights must be non-negative with a positive sum")
	}
	return out
}

func (c *Config) validateAdapters() []string {
	var out []string
	remote := false
	for _, a := range []struct{ name, kind string }{
		{"vin", c.Adapters.VIN},
		{"recalls", c.Adapters.Recalls},
		{"labor", c.Adapters.Labor},
		{"parts", c.Adapters.Parts},
		{"vendors", c.Adapters.Vendors},
	} {
		name := a.name
		kind := a.kind
		switch kind {
		case AdapterMock:
		case AdapterRemote:
			if name == "labor" || name == "parts" || name == "vendors" {
				remote = true
			}
		default:
			out = append(out, "adapters."+name+" must be mock or remote")
		}
	}
	if remote && c.Scraper.URL == "" {
		out = append(out, "scraper.url is required for remote labor, parts or vendor adapters")
	}
	if remote && c.Scraper.APIKey == "" {
		out = append(out, "scraper.api_key is required for remote labor, parts or vendor adapters")
	}
	return out
}

// ServiceName is attached to JSON log entries.
const ServiceName = "estimaro"

// InitLogger initializes the global zap logger. Console output colors the
// level; JSON output carries the service name.
func InitLogger(cfg LogConfig) error {
	var zapCfg zap.Config
	switch cfg.Format {
	case "console":
		zapCfg = zap.NewDevelopmentConfig()
		zapCfg.EncoderConfig.EncodeLevel = zapcore.CapitalColorLevelEncoder
	case "json", "":
		zapCfg = zap.NewProductionConfig()
		zapCfg.InitialFields = map[string]any{"service": ServiceName}
	default:
		return eris.Errorf("config: unknown log format %q", cfg.Format)
	}

	level, err := zapcore.ParseLevel(cfg.Level)
	if err != nil {
		return eris.Wrap(err, "config: parse log level")
	}
	zapCfg.Level.SetLevel(level)

	logger, err := zapCfg.Build()
	if err != nil {
		return eris.Wrap(err, "config: build logger")
	}
	zap.ReplaceGlobals(logger)

	return nil
}
