package model

import "github.com/shopspring/decimal"

// BrandTier classifies a part brand by quality.
type BrandTier string

// Brand tiers, best first.
const (
	BrandTierOEM          BrandTier = "OEM"
	BrandTierPremium      BrandTier = "PREMIUM"
	BrandTierOEEquivalent BrandTier = "OE_EQUIVALENT"
	BrandTierStandard     BrandTier = "STANDARD"
	BrandTierEconomy      BrandTier = "ECONOMY"
	BrandTierUnknown      BrandTier = "UNKNOWN"
)

var brandTierScores = map[BrandTier]float64{
	BrandTierOEM:          10,
	BrandTierPremium:      9,
	BrandTierOEEquivalent: 8,
	BrandTierStandard:     6,
	BrandTierEconomy:      4,
	BrandTierUnknown:      5,
}

// Score returns the 0-10 brand score for the tier. Unrecognized tiers score
// as UNKNOWN.
func (t BrandTier) Score() float64 {
	if s, ok := brandTierScores[t]; ok {
		return s
	}
	return brandTierScores[BrandTierUnknown]
}

// VendorOffer is one vendor's price for one part. Offers only live for the
// duration of a single scoring call.
type VendorOffer struct {
	VendorID          string          `json:"vendor_id"`
	VendorName        string          `json:"vendor_name"`
	Brand             string          `json:"brand"`
	BrandTier         BrandTier       `json:"brand_tier,omitempty"`
	PartNumber        string          `json:"part_number"`
	Price             decimal.Decimal `json:"price"`
	StockStatus       string          `json:"stock_status,omitempty"`
	StockQuantity     int             `json:"stock_quantity,omitempty"`
	WarehouseLocation string          `json:"warehouse_location,omitempty"`
	DistanceMiles     float64         `json:"distance_miles"`
	DeliveryOption    string          `json:"delivery_option,omitempty"`
	Warranty          string          `json:"warranty,omitempty"`
}

// VendorWeights are the shop-configurable scoring weights. Any non-negative
// integers are accepted; they are normalized to percentages before scoring.
type VendorWeights struct {
	Brand    int `json:"brand" yaml:"brand" mapstructure:"brand" validate:"gte=0"`
	Price    int `json:"price" yaml:"price" mapstructure:"price" validate:"gte=0"`
	Distance int `json:"distance" yaml:"distance" mapstructure:"distance" validate:"gte=0"`
}

// DefaultVendorWeights returns the 40/35/25 brand/price/distance split.
func DefaultVendorWeights() VendorWeights {
	return VendorWeights{Brand: 40, Price: 35, Distance: 25}
}

// Sum returns the total of all three weights.
func (w VendorWeights) Sum() int {
	return w.Brand + w.Price + w.Distance
}
