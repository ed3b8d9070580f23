package collab

import (
	"context"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/estimaro/estimator/internal/model"
)

// Static catalogs used by the mock adapters. Lookups are case-insensitive
// substring matches on the service request, evaluated in slice order.

type laborEntry struct {
	keyword     string
	hours       string
	category    string
	difficulty  string
	description string
}

var laborCatalog = []laborEntry{
	{"brake pad", "1.5", "Brakes", "Medium", "Brake Pad Replacement"},
	{"brake rotor", "2.0", "Brakes", "Medium", "Brake Rotor Replacement"},
	{"brake caliper", "1.8", "Brakes", "Medium", "Brake Caliper Replacement"},
	{"oil change", "0.5", "Maintenance", "Easy", "Oil Change"},
	{"transmission fluid", "1.0", "Maintenance", "Medium", "Transmission Fluid Change"},
	{"coolant flush", "1.2", "Cooling System", "Medium", "Coolant Flush"},
	{"timing belt", "4.5", "Engine", "Hard", "Timing Belt Replacement"},
	{"shock absorber", "2.5", "Suspension", "Medium", "Shock Absorber Replacement"},
	{"strut", "3.0", "Suspension", "Hard", "Strut Replacement"},
	{"battery", "0.3", "Electrical", "Easy", "Battery Replacement"},
	{"alternator", "2.0", "Electrical", "Medium", "Alternator Replacement"},
	{"starter", "1.5", "Electrical", "Medium", "Starter Replacement"},
	{"tire rotation", "0.5", "Tires", "Easy", "Tire Rotation"},
	{"tire replacement", "1.0", "Tires", "Easy", "Tire Replacement (Set of 4)"},
	{"air filter", "0.3", "Maintenance", "Easy", "Engine Air Filter Replacement"},
	{"cabin filter", "0.3", "Maintenance", "Easy", "Cabin Air Filter Replacement"},
}

type partEntry struct {
	keyword string
	parts   []model.PartCandidate
}

func part(number, description, manufacturer, price, category string, oem bool) model.PartCandidate {
	return model.PartCandidate{
		Description:  description,
		PartNumber:   number,
		Manufacturer: manufacturer,
		Price:        decimal.RequireFromString(price),
		IsOEM:        oem,
		Category:     category,
	}
}

var partsCatalog = []partEntry{
	{"brake pad", []model.PartCandidate{
		part("BRK-PAD-001", "Brake Pad Set - Front (OEM)", "OEM", "85.00", "Brakes", true),
		part("BRK-PAD-002", "Brake Pad Set - Front (Aftermarket)", "Wagner", "45.00", "Brakes", false),
	}},
	{"brake rotor", []model.PartCandidate{
		part("BRK-ROT-001", "Brake Rotor - Front (Pair)", "OEM", "120.00", "Brakes", true),
	}},
	{"brake caliper", []model.PartCandidate{
		part("BRK-CAL-001", "Brake Caliper - Front Left", "OEM", "150.00", "Brakes", true),
	}},
	{"oil", []model.PartCandidate{
		part("OIL-001", "Engine Oil 5W-30 (5 Quarts)", "Mobil 1", "28.00", "Fluids", false),
	}},
	{"oil filter", []model.PartCandidate{
		part("OIL-FLT-001", "Oil Filter", "OEM", "8.00", "Filters", true),
	}},
	{"air filter", []model.PartCandidate{
		part("AIR-FLT-001", "Engine Air Filter", "OEM", "18.00", "Filters", true),
	}},
	{"cabin filter", []model.PartCandidate{
		part("CAB-FLT-001", "Cabin Air Filter", "OEM", "15.00", "Filters", true),
	}},
	{"timing belt", []model.PartCandidate{
		part("TIM-BLT-001", "Timing Belt Kit (Belt + Tensioner)", "OEM", "180.00", "Engine", true),
	}},
	{"shock", []model.PartCandidate{
		part("SUS-SHK-001", "Shock Absorber - Front (Each)", "Monroe", "75.00", "Suspension", false),
	}},
	{"strut", []model.PartCandidate{
		part("SUS-STR-001", "Strut Assembly - Front (Each)", "OEM", "220.00", "Suspension", true),
	}},
	{"battery", []model.PartCandidate{
		part("BAT-001", "Battery - Group 24F", "Interstate", "120.00", "Electrical", false),
	}},
	{"alternator", []model.PartCandidate{
		part("ALT-001", "Alternator - Remanufactured", "OEM", "280.00", "Electrical", true),
	}},
	{"starter", []model.PartCandidate{
		part("STR-001", "Starter Motor - Remanufactured", "OEM", "180.00", "Electrical", true),
	}},
	{"coolant", []model.PartCandidate{
		part("CLT-001", "Engine Coolant (1 Gallon)", "OEM", "22.00", "Fluids", true),
	}},
}

const genericPartNumber = "GEN-001"

var genericPartPrice = decimal.RequireFromString("50.00")

// MockLabor serves labor times from a static catalog. Unknown jobs get one
// general hour.
type MockLabor struct{}

// GetLaborTime implements pipeline.LaborGuide.
func (MockLabor) GetLaborTime(_ context.Context, _, serviceRequest string) (*model.LaborTime, error) {
	text := strings.ToLower(serviceRequest)
	for _, e := range laborCatalog {
		if strings.Contains(text, e.keyword) {
			return &model.LaborTime{
				Description: e.description,
				Hours:       decimal.RequireFromString(e.hours),
				Source:      "mock",
				Category:    e.category,
				Difficulty:  e.difficulty,
			}, nil
		}
	}
	return &model.LaborTime{
		Description: serviceRequest,
		Hours:       decimal.NewFromInt(1),
		Source:      "mock",
		Category:    "General",
		Difficulty:  "Unknown",
	}, nil
}

// MockParts serves parts from a static catalog. Every matching keyword
// contributes its parts; with no match a single generic part is returned.
type MockParts struct{}

// SearchParts implements pipeline.PartsCatalog.
func (MockParts) SearchParts(_ context.Context, _, serviceRequest string) ([]model.PartCandidate, error) {
	text := strings.ToLower(serviceRequest)
	var out []model.PartCandidate
	for _, e := range partsCatalog {
		if strings.Contains(text, e.keyword) {
			out = append(out, e.parts...)
		}
	}
	if len(out) == 0 {
		out = append(out, model.PartCandidate{
			Description:  "Generic Part for: " + serviceRequest,
			PartNumber:   genericPartNumber,
			Manufacturer: "Generic",
			Price:        genericPartPrice,
			Category:     "General",
		})
	}
	return out, nil
}

type mockVendor struct {
	id        string
	name      string
	brand     string // empty means the catalog manufacturer
	factor    string
	warehouse string
	miles     float64
	qty       int
	delivery  string
	warranty  string
}

var mockVendors = []mockVendor{
	{"worldpac", "Worldpac", "", "0.90", "Hayward, CA", 12.0, 4, "Same Day", "12 months / 12,000 miles"},
	{"ssf", "SSF", "Bosch", "0.80", "Fremont, CA", 22.5, 10, "Next Day", "24 months / 24,000 miles"},
}

// MockVendors quotes every catalog part from two fixed vendors. Part
// numbers outside the catalog get no offers.
type MockVendors struct{}

// GetVendorOffers implements vendor.OfferSource.
func (MockVendors) GetVendorOffers(_ context.Context, partNumbers []string) ([]model.VendorOffer, error) {
	var out []model.VendorOffer
	for _, pn := range partNumbers {
		p, ok := catalogPart(pn)
		if !ok {
			continue
		}
		for _, v := range mockVendors {
			brand := v.brand
			if brand == "" {
				brand = p.Manufacturer
			}
			out = append(out, model.VendorOffer{
				VendorID:          v.id,
				VendorName:        v.name,
				Brand:             brand,
				PartNumber:        pn,
				Price:             p.Price.Mul(decimal.RequireFromString(v.factor)).Round(2),
				StockStatus:       "In Stock",
				StockQuantity:     v.qty,
				WarehouseLocation: v.warehouse,
				DistanceMiles:     v.miles,
				DeliveryOption:    v.delivery,
				Warranty:          v.warranty,
			})
		}
	}
	return out, nil
}

func catalogPart(partNumber string) (model.PartCandidate, bool) {
	if partNumber == genericPartNumber {
		return model.PartCandidate{PartNumber: genericPartNumber, Manufacturer: "Generic", Price: genericPartPrice}, true
	}
	for _, e := range partsCatalog {
		for _, p := range e.parts {
			if p.PartNumber == partNumber {
				return p, true
			}
		}
	}
	return model.PartCandidate{}, false
}

// wmiMakes maps world manufacturer identifiers to makes for MockDecoder.
var wmiMakes = map[string]string{
	"1HG": "HONDA",
	"2HG": "HONDA",
	"JHM": "HONDA",
	"1FA": "FORD",
	"1FT": "FORD",
	"1G1": "CHEVROLET",
	"JTD": "TOYOTA",
	"4T1": "TOYOTA",
	"5YJ": "TESLA",
	"WBA": "BMW",
	"WAU": "AUDI",
	"KMH": "HYUNDAI",
}

// yearCodes maps the tenth VIN character to a model year.
var yearCodes = map[byte]int{
	'1': 2001, '2': 2002, '3': 2003, '4': 2004, '5': 2005,
	'6': 2006, '7': 2007, '8': 2008, '9': 2009,
	'A': 2010, 'B': 2011, 'C': 2012, 'D': 2013, 'E': 2014,
	'F': 2015, 'G': 2016, 'H': 2017, 'J': 2018, 'K': 2019,
	'L': 2020, 'M': 2021, 'N': 2022, 'P': 2023, 'R': 2024,
	'S': 2025, 'T': 2026, 'V': 2027, 'W': 2028, 'X': 2029,
	'Y': 2030,
}

// MockDecoder derives make and model year from the VIN itself, without a
// network call.
type MockDecoder struct{}

// DecodeVIN implements pipeline.VINDecoder.
func (MockDecoder) DecodeVIN(_ context.Context, vin string) (*model.VehicleInfo, error) {
	vin = strings.ToUpper(strings.TrimSpace(vin))
	if len(vin) != 17 {
		return nil, model.ErrInvalidVIN
	}
	v := &model.VehicleInfo{
		VIN:   vin,
		Make:  wmiMakes[vin[:3]],
		Model: "Unknown",
		Year:  yearCodes[vin[9]],
	}
	if v.Make == "" {
		v.Make = "UNKNOWN"
	}
	return v, nil
}

// MockRecalls reports no open recalls.
type MockRecalls struct{}

// FetchRecallsByVIN implements recall.Source.
func (MockRecalls) FetchRecallsByVIN(context.Context, string) ([]model.Recall, error) {
	return []model.Recall{}, nil
}
