package model

import "github.com/shopspring/decimal"

// LaborLine is a single labor charge. Quantity is implicitly 1.
type LaborLine struct {
	Description string          `json:"description"`
	Hours       decimal.Decimal `json:"hours"`
	Rate        decimal.Decimal `json:"rate"`
	Total       decimal.Decimal `json:"total"`
}

// PartLine is a single parts charge on an estimate.
type PartLine struct {
	Description   string          `json:"description"`
	PartNumber    string          `json:"part_number,omitempty"`
	Quantity      decimal.Decimal `json:"quantity"`
	UnitCost      decimal.Decimal `json:"unit_cost"`
	MarkupPercent decimal.Decimal `json:"markup_percent"`
	Total         decimal.Decimal `json:"total"`
	Vendor        string          `json:"vendor,omitempty"`
	Condition     string          `json:"condition,omitempty"`
	ReasonBadge   string          `json:"reason_badge,omitempty"`
}

// CleaningKit is a fixed-price consumables bundle charged in place of a
// generic shop fee.
type CleaningKit struct {
	Name     string          `json:"name"`
	Includes []string        `json:"includes"`
	Price    decimal.Decimal `json:"price"`
}

// Breakdown is the financial summary of an estimate. Every amount is rounded
// to cents.
type Breakdown struct {
	LaborTotal  decimal.Decimal `json:"labor_total"`
	PartsTotal  decimal.Decimal `json:"parts_total"`
	Subtotal    decimal.Decimal `json:"subtotal"`
	TaxAmount   decimal.Decimal `json:"tax_amount"`
	CleaningKit *CleaningKit    `json:"cleaning_kit,omitempty"`
	Total       decimal.Decimal `json:"total"`
}

// KitPrice returns the cleaning kit price, or zero when no kit is included.
func (b *Breakdown) KitPrice() decimal.Decimal {
	if b == nil || b.CleaningKit == nil {
		return decimal.Zero
	}
	return b.CleaningKit.Price
}
