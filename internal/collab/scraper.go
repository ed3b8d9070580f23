package collab

import (
	"context"

	"github.com/rotisserie/eris"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"github.com/estimaro/estimator/internal/model"
	"github.com/estimaro/estimator/pkg/scraper"
)

// manualLookup is the placeholder part number the scraper emits when the
// catalog needs a human.
const manualLookup = "MANUAL-LOOKUP"

// ScraperLabor looks up book labor through the scraper service.
type ScraperLabor struct {
	client scraper.Client
}

// NewScraperLabor wraps a scraper client.
func NewScraperLabor(client scraper.Client) *ScraperLabor {
	return &ScraperLabor{client: client}
}

// GetLaborTime returns model.ErrNoLaborTime when the service answers with
// zero hours.
func (s *ScraperLabor) GetLaborTime(ctx context.Context, vin, serviceRequest string) (*model.LaborTime, error) {
	resp, err := s.client.Labor(ctx, vin, serviceRequest)
	if err != nil {
		return nil, eris.Wrap(err, "collab: labor lookup")
	}
	if !resp.LaborHours.IsPositive() {
		return nil, eris.Wrap(model.ErrNoLaborTime, "collab: labor lookup")
	}

	lt := &model.LaborTime{
		Description: resp.JobDescription,
		Hours:       resp.LaborHours,
		Source:      resp.Source,
		Category:    "Remote Scraped",
		Difficulty:  "Medium",
	}
	if lt.Description == "" {
		lt.Description = serviceRequest
	}
	if lt.Source == "" {
		lt.Source = "ALLDATA"
	}
	return lt, nil
}

// ScraperParts searches the OEM catalog through the scraper service.
type ScraperParts struct {
	client scraper.Client
}

// NewScraperParts wraps a scraper client.
func NewScraperParts(client scraper.Client) *ScraperParts {
	return &ScraperParts{client: client}
}

// SearchParts drops manual-lookup placeholders. Catalog hits carry no price;
// vendor comparison fills it in later.
func (s *ScraperParts) SearchParts(ctx context.Context, vin, serviceRequest string) ([]model.PartCandidate, error) {
	resp, err := s.client.Parts(ctx, vin, serviceRequest)
	if err != nil {
		return nil, eris.Wrap(err, "collab: parts search")
	}

	out := make([]model.PartCandidate, 0, len(resp.Parts))
	for _, p := range resp.Parts {
		if p.PartNumber == manualLookup {
			continue
		}
		c := model.PartCandidate{
			Description:  p.Description,
			PartNumber:   p.PartNumber,
			Manufacturer: p.Manufacturer,
			Price:        decimal.Zero,
			IsOEM:        p.IsOEM,
		}
		if c.Description == "" {
			c.Description = serviceRequest
		}
		if c.Manufacturer == "" {
			c.Manufacturer = "OEM"
		}
		out = append(out, c)
	}
	if len(out) == 0 {
		return nil, eris.New("collab: parts search: scraper returned no parts")
	}
	return out, nil
}

// ScraperVendors prices parts through the scraper service.
type ScraperVendors struct {
	client scraper.Client
}

// NewScraperVendors wraps a scraper client.
func NewScraperVendors(client scraper.Client) *ScraperVendors {
	return &ScraperVendors{client: client}
}

// GetVendorOffers implements vendor.OfferSource. Blank and manual-lookup part
// numbers are never sent.
func (s *ScraperVendors) GetVendorOffers(ctx context.Context, partNumbers []string) ([]model.VendorOffer, error) {
	valid := make([]string, 0, len(partNumbers))
	for _, pn := range partNumbers {
		if pn != "" && pn != manualLookup {
			valid = append(valid, pn)
		}
	}
	if len(valid) == 0 {
		zap.L().Warn("collab: no valid part numbers to price")
		return []model.VendorOffer{}, nil
	}

	resp, err := s.client.Pricing(ctx, valid)
	if err != nil {
		return nil, eris.Wrap(err, "collab: vendor pricing")
	}

	out := make([]model.VendorOffer, 0, len(resp.Prices))
	for _, p := range resp.Prices {
		vendorName := orDefault(p.Vendor, "SSF")
		out = append(out, model.VendorOffer{
			VendorID:          "remote_" + orDefault(p.Vendor, "unknown"),
			VendorName:        vendorName,
			Brand:             orDefault(p.Brand, "Aftermarket"),
			PartNumber:        p.PartNumber,
			Price:             p.Price,
			StockStatus:       orDefault(p.StockStatus, "In Stock"),
			StockQuantity:     1,
			WarehouseLocation: orDefault(p.Warehouse, "Remote"),
			DeliveryOption:    "Standard",
			Warranty:          "Manufacturer",
		})
	}
	return out, nil
}

func orDefault(s, def string) string {
	if s == "" {
		return def
	}
	return s
}
