// Package collab builds the external collaborators the estimate pipeline
// depends on: VIN decoding, recalls, labor times, parts search and vendor
// pricing. Each one is either a remote adapter or a deterministic mock,
// selected by configuration.
package collab

import (
	"net/http"
	"time"

	"github.com/rotisserie/eris"
	"go.uber.org/zap"

	"github.com/estimaro/estimator/internal/config"
	"github.com/estimaro/estimator/internal/pipeline"
	"github.com/estimaro/estimator/pkg/nhtsa"
	"github.com/estimaro/estimator/pkg/scraper"
)

// Set is the collaborators built from one configuration.
type Set struct {
	Deps pipeline.Deps
	// Scraper is non-nil when any collaborator uses the scraper service.
	Scraper scraper.Client
}

// Build selects an implementation for every collaborator. Remote clients are
// created lazily and shared between the collaborators that use them.
func Build(cfg *config.Config) (*Set, error) {
	if cfg == nil {
		return nil, eris.New("collab: nil config")
	}

	var (
		nc nhtsa.Client
		sc scraper.Client
	)
	nhtsaClient := func() nhtsa.Client {
		if nc == nil {
			nc = newNHTSAClient(cfg.NHTSA)
		}
		return nc
	}
	scraperClient := func() scraper.Client {
		if sc == nil {
			sc = newScraperClient(cfg.Scraper)
		}
		return sc
	}

	set := &Set{}
	a := cfg.Adapters

	switch a.VIN {
	case config.AdapterMock:
		set.Deps.Decoder = MockDecoder{}
	case config.AdapterRemote:
		set.Deps.Decoder = NewVINDecoder(nhtsaClient())
	default:
		return nil, eris.Errorf("collab: unknown vin adapter %q", a.VIN)
	}

	switch a.Recalls {
	case config.AdapterMock:
		set.Deps.Recalls = MockRecalls{}
	case config.AdapterRemote:
		set.Deps.Recalls = NewRecallSource(nhtsaClient())
	default:
		return nil, eris.Errorf("collab: unknown recalls adapter %q", a.Recalls)
	}

	switch a.Labor {
	case config.AdapterMock:
		set.Deps.Labor = MockLabor{}
	case config.AdapterRemote:
		set.Deps.Labor = NewScraperLabor(scraperClient())
	default:
		return nil, eris.Errorf("collab: unknown labor adapter %q", a.Labor)
	}

	switch a.Parts {
	case config.AdapterMock:
		set.Deps.Parts = MockParts{}
	case config.AdapterRemote:
		set.Deps.Parts = NewScraperParts(scraperClient())
	default:
		return nil, eris.Errorf("collab: unknown parts adapter %q", a.Parts)
	}

	switch a.Vendors {
	case config.AdapterMock:
		set.Deps.Offers = MockVendors{}
	case config.AdapterRemote:
		set.Deps.Offers = NewScraperVendors(scraperClient())
	default:
		return nil, eris.Errorf("collab: unknown vendors adapter %q", a.Vendors)
	}

	set.Scraper = sc
	zap.L().Debug("collab: collaborators built",
		zap.String("vin", a.VIN),
		zap.String("recalls", a.Recalls),
		zap.String("labor", a.Labor),
		zap.String("parts", a.Parts),
		zap.String("vendors", a.Vendors),
	)
	return set, nil
}

func newNHTSAClient(cfg config.NHTSAConfig) nhtsa.Client {
	opts := []nhtsa.Option{
		nhtsa.WithRateLimit(cfg.RateLimit),
		nhtsa.WithRetry(cfg.Retry.Settings()),
	}
	if cfg.VPICBaseURL != "" {
		opts = append(opts, nhtsa.WithVPICBaseURL(cfg.VPICBaseURL))
	}
	if cfg.RecallsBaseURL != "" {
		opts = append(opts, nhtsa.WithRecallsBaseURL(cfg.RecallsBaseURL))
	}
	if cfg.TimeoutSecs > 0 {
		opts = append(opts, nhtsa.WithHTTPClient(&http.Client{Timeout: time.Duration(cfg.TimeoutSecs) * time.Second}))
	}
	return nhtsa.NewClient(opts...)
}

func newScraperClient(cfg config.ScraperConfig) scraper.Client {
	opts := []scraper.Option{
		scraper.WithRateLimit(cfg.RateLimit),
		scraper.WithRetry(cfg.Retry.Settings()),
	}
	if cfg.TimeoutSecs > 0 {
		opts = append(opts, scraper.WithHTTPClient(&http.Client{Timeout: time.Duration(cfg.TimeoutSecs) * time.Second}))
	}
	return scraper.NewClient(cfg.URL, cfg.APIKey, opts...)
}
