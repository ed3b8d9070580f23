package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/estimaro/estimator/internal/model"
)

func chdirTemp(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	origDir, _ := os.Getwd()
	require.NoError(t, os.Chdir(dir))
	t.Cleanup(func() { os.Chdir(origDir) })
	return dir
}

func TestLoadDefaults(t *testing.T) {
	chdirTemp(t)

	cfg, err := Load()
	require.NoError(t, err)

	assert.InDelta(t, 150.0, cfg.Estimate.LaborRate, 0.001)
	assert.InDelta(t, 30.0, cfg.Estimate.PartsMarkup, 0.001)
	assert.InDelta(t, 0.0925, cfg.Estimate.TaxRate, 0.00001)
	assert.Equal(t, model.DefaultVendorWeights(), cfg.Estimate.VendorWeights)
	assert.True(t, cfg.Estimate.IncludeCleaningKit)
	assert.Equal(t, AdapterRemote, cfg.Adapters.VIN)
	assert.Equal(t, AdapterMock, cfg.Adapters.Labor)
	assert.Equal(t, "https://vpic.nhtsa.dot.gov/api/vehicles", cfg.NHTSA.VPICBaseURL)
	assert.Equal(t, "https://api.nhtsa.gov/recalls", cfg.NHTSA.RecallsBaseURL)
	assert.Equal(t, 3, cfg.NHTSA.Retry.MaxAttempts)
	assert.Equal(t, "http://localhost:8001", cfg.Scraper.URL)
	assert.Equal(t, 8080, cfg.Server.Port)
	assert.Equal(t, "info", cfg.Log.Level)
	assert.Equal(t, "json", cfg.Log.Format)

	require.NoError(t, cfg.Validate("serve"))
}

func TestLoadFromYAML(t *testing.T) {
	dir := chdirTemp(t)

	yaml := `
estimate:
  labor_rate: 135.5
  tax_rate: 0.0725
  vendor_weights:
    brand: 50
    price: 50
    distance: 0
adapters:
  vin: mock
log:
  level: debug
  format: console
server:
  port: 9090
`
	require.NoError(t, os.WriteFile(filepath.Join(dir, "config.yaml"), []byte(yaml), 0o644))

	cfg, err := Load()
	require.NoError(t, err)

	assert.InDelta(t, 135.5, cfg.Estimate.LaborRate, 0.001)
	assert.Equal(t, model.VendorWeights{Brand: 50, Price: 50, Distance: 0}, cfg.Estimate.VendorWeights)
	assert.Equal(t, AdapterMock, cfg.Adapters.VIN)
	assert.Equal(t, "debug", cfg.Log.Level)
	assert.Equal(t, 9090, cfg.Server.Port)
	// Defaults still apply for unset values.
	assert.InDelta(t, 30.0, cfg.Estimate.PartsMarkup, 0.001)

	d := cfg.Estimate.RequestDefaults()
	assert.Equal(t, "135.5", d.LaborRate.String())
	assert.Equal(t, "0.0725", d.TaxRate.String())
}

func TestLoadEnvOverridesFile(t *testing.T) {
	dir := chdirTemp(t)

	yaml := `
log:
  level: debug
scraper:
  url: http://scraper:8001
`
	require.NoError(t, os.WriteFile(filepath.Join(dir, "config.yaml"), []byte(yaml), 0o644))

	t.Setenv("ESTIMARO_LOG_LEVEL", "warn")
	t.Setenv("ESTIMARO_SCRAPER_API_KEY", "secret")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "warn", cfg.Log.Level)
	assert.Equal(t, "http://scraper:8001", cfg.Scraper.URL)
	assert.Equal(t, "secret", cfg.Scraper.APIKey)
}

func TestLoadEnvOverridesDefaults(t *testing.T) {
	chdirTemp(t)
	t.Setenv("ESTIMARO_SERVER_PORT", "3000")

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, 3000, cfg.Server.Port)
}

func TestRequestDefaults(t *testing.T) {
	e := EstimateConfig{LaborRate: 150, PartsMarkup: 30, TaxRate: 0.0925, VendorWeights: model.DefaultVendorWeights(), IncludeCleaningKit: true}
	d := e.RequestDefaults()
	want := model.DefaultRequestDefaults()
	assert.True(t, want.LaborRate.Equal(d.LaborRate))
	assert.True(t, want.PartsMarkup.Equal(d.PartsMarkup))
	assert.True(t, want.TaxRate.Equal(d.TaxRate))
	assert.Equal(t, want.VendorWeights, d.VendorWeights)
	assert.True(t, d.IncludeCleaningKit)
}

func TestInitLoggerConsole(t *testing.T) {
	require.NoError(t, InitLogger(LogConfig{Level: "debug", Format: "console"}))
	assert.NotNil(t, zap.L())
}

func TestInitLoggerJSON(t *testing.T) {
	require.NoError(t, InitLogger(LogConfig{Level: "info", Format: "json"}))
	assert.NotNil(t, zap.L())
}

func TestInitLoggerInvalidLevel(t *testing.T) {
	assert.Error(t, InitLogger(LogConfig{Level: "invalid", Format: "json"}))
}

func TestInitLoggerUnknownFormat(t *testing.T) {
	err := InitLogger(LogConfig{Level: "info", Format: "xml"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), `unknown log format "xml"`)
}

func TestLoadFileExplicitPath(t *testing.T) {
	chdirTemp(t)
	path := filepath.Join(t.TempDir(), "shop.yaml")
	require.NoError(t, os.WriteFile(path, []byte("estimate:\n  labor_rate: 120\n"), 0o644))

	cfg, err := LoadFile(path)
	require.NoError(t, err)
	assert.InDelta(t, 120.0, cfg.Estimate.LaborRate, 0.001)
	assert.Equal(t, 8080, cfg.Server.Port)
}

func TestLoadFileMissingPath(t *testing.T) {
	chdirTemp(t)

	_, err := LoadFile(filepath.Join(t.TempDir(), "missing.yaml"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "config: read file")
}

func validDefaults() *Config {
	cfg := &Config{}
	cfg.Estimate = EstimateConfig{LaborRate: 150, PartsMarkup: 30, TaxRate: 0.0925, VendorWeights: model.DefaultVendorWeights()}
	cfg.Adapters = AdaptersConfig{VIN: AdapterMock, Recalls: AdapterMock, Labor: AdapterMock, Parts: AdapterMock, Vendors: AdapterMock}
	cfg.Server.Port = 8080
	return cfg
}

func TestValidate_Modes(t *testing.T) {
	cfg := validDefaults()
	assert.NoError(t, cfg.Validate("run"))
	assert.NoError(t, cfg.Validate("calc"))
	assert.NoError(t, cfg.Validate("serve"))

	err := cfg.Validate("unknown")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unknown mode")
}

func TestValidate_ServePort(t *testing.T) {
	cfg := validDefaults()
	cfg.Server.Port = 0

	assert.NoError(t, cfg.Validate("run"))
	err := cfg.Validate("serve")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "server.port must be > 0")
}

func TestValidate_EstimateRanges(t *testing.T) {
	cfg := validDefaults()
	cfg.Estimate.PartsMarkup = 120
	cfg.Estimate.TaxRate = -0.1
	cfg.Estimate.VendorWeights = model.VendorWeights{}

	err := cfg.Validate("calc")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "estimate.parts_markup must be between 0 and 100")
	assert.Contains(t, err.Error(), "estimate.tax_rate must be between 0 and 1")
	assert.Contains(t, err.Error(), "estimate.vendor_weights")
}

func TestValidate_Adapters(t *testing.T) {
	cfg := validDefaults()
	cfg.Adapters.Parts = "scraper"
	err := cfg.Validate("run")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "adapters.parts must be mock or remote")

	cfg = validDefaults()
	cfg.Adapters.Labor = AdapterRemote
	cfg.Scraper.URL = ""
	err = cfg.Validate("run")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "scraper.url is required")

	cfg.Scraper.URL = "http://localhost:8001"
	err = cfg.Validate("run")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "scraper.api_key is required")

	cfg.Scraper.APIKey = "secret"
	assert.NoError(t, cfg.Validate("run"))
}

func TestLoadScraperAPIKeyFromEnv(t *testing.T) {
	chdirTemp(t)
	t.Setenv("ESTIMARO_SCRAPER_API_KEY", "secret")
	t.Setenv("ESTIMARO_ADAPTERS_PARTS", AdapterRemote)

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, "secret", cfg.Scraper.APIKey)
	assert.Equal(t, AdapterRemote, cfg.Adapters.Parts)
	assert.NoError(t, cfg.Validate("run"))
}
