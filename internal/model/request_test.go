package model

import (
	"testing"

	"github.com/rotisserie/eris"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func validRequest() EstimateRequest {
	return EstimateRequest{
		VIN:            "1HGCM82633A004352",
		ServiceRequest: "Replace front brake pads",
		CustomerName:   "Dana Reyes",
		CustomerPhone:  "555-0100",
	}
}

func decPtr(s string) *decimal.Decimal {
	d := decimal.RequireFromString(s)
	return &d
}

func TestValidate_OK(t *testing.T) {
	t.Parallel()

	r := validRequest()
	r.CustomerEmail = "dana@example.com"
	odo := 0
	r.Odometer = &odo
	r.TaxRate = decPtr("0")
	r.PartsMarkup = decPtr("100")

	assert.NoError(t, r.Validate())
}

func TestValidate_Problems(t *testing.T) {
	t.Parallel()

	neg := -5
	tests := []struct {
		name   string
		mutate func(*EstimateRequest)
		want   string
	}{
		{"missing vin", func(r *EstimateRequest) { r.VIN = "" }, "vin is required"},
		{"short vin", func(r *EstimateRequest) { r.VIN = "1HGCM826" }, "vin must be exactly 17 characters"},
		{"punctuated vin", func(r *EstimateRequest) { r.VIN = "1HGCM82633A00435-" }, "vin must be alphanumeric"},
		{"missing request", func(r *EstimateRequest) { r.ServiceRequest = "" }, "service_request is required"},
		{"missing name", func(r *EstimateRequest) { r.CustomerName = "" }, "customer_name is required"},
		{"bad email", func(r *EstimateRequest) { r.CustomerEmail = "not-an-email" }, "customer_email must be a valid email address"},
		{"negative odometer", func(r *EstimateRequest) { r.Odometer = &neg }, "odometer must be >= 0"},
		{"negative labor rate", func(r *EstimateRequest) { r.LaborRate = decPtr("-1") }, "labor_rate must be >= 0"},
		{"markup over 100", func(r *EstimateRequest) { r.PartsMarkup = decPtr("100.01") }, "parts_markup must be between 0 and 100"},
		{"tax over 1", func(r *EstimateRequest) { r.TaxRate = decPtr("9.25") }, "tax_rate must be between 0 and 1"},
		{"zero weights", func(r *EstimateRequest) { r.VendorWeights = &VendorWeights{} }, "vendor_weights must have a positive sum"},
		{"negative weight", func(r *EstimateRequest) {
			r.VendorWeights = &VendorWeights{Brand: -1, Price: 50, Distance: 50}
		}, "vendor_weights.brand must be >= 0"},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			r := validRequest()
			tt.mutate(&r)

			err := r.Validate()
			require.Error(t, err)
			assert.True(t, IsValidationError(err))

			var ve *ValidationError
			require.ErrorAs(t, err, &ve)
			assert.Contains(t, ve.Problems, tt.want)
		})
	}
}

func TestValidate_ReportsEveryProblem(t *testing.T) {
	t.Parallel()

	r := EstimateRequest{TaxRate: decPtr("-0.1")}
	err := r.Validate()

	var ve *ValidationError
	require.ErrorAs(t, err, &ve)
	assert.Len(t, ve.Problems, 5)
	assert.Contains(t, err.Error(), "invalid estimate request: ")
}

func TestIsValidationError_Wrapped(t *testing.T) {
	t.Parallel()

	err := eris.Wrap(&ValidationError{Problems: []string{"vin is required"}}, "api: generate")
	assert.True(t, IsValidationError(err))
	assert.False(t, IsValidationError(eris.New("boom")))
}

func TestResolve_Defaults(t *testing.T) {
	t.Parallel()

	r := validRequest()
	r.VIN = " 1hgcm82633a004352 "
	got := r.Resolve(DefaultRequestDefaults())

	assert.Equal(t, "1HGCM82633A004352", got.VIN)
	assert.Equal(t, 0, got.Mileage)
	assert.Equal(t, "150", got.LaborRate.String())
	assert.Equal(t, "30", got.PartsMarkup.String())
	assert.Equal(t, "0.0925", got.TaxRate.String())
	assert.Equal(t, DefaultVendorWeights(), got.VendorWeights)
	assert.True(t, got.IncludeCleaningKit)
}

func TestResolve_Overrides(t *testing.T) {
	t.Parallel()

	odo := 48000
	noKit := false
	r := validRequest()
	r.Odometer = &odo
	r.LaborRate = decPtr("0")
	r.PartsMarkup = decPtr("15")
	r.TaxRate = decPtr("0.0725")
	r.VendorWeights = &VendorWeights{Brand: 1, Price: 1, Distance: 0}
	r.IncludeCleaningKit = &noKit

	got := r.Resolve(DefaultRequestDefaults())

	assert.Equal(t, 48000, got.Mileage)
	assert.True(t, got.LaborRate.IsZero(), "explicit zero labor rate is kept")
	assert.Equal(t, "15", got.PartsMarkup.String())
	assert.Equal(t, "0.0725", got.TaxRate.String())
	assert.Equal(t, VendorWeights{Brand: 1, Price: 1}, got.VendorWeights)
	assert.False(t, got.IncludeCleaningKit)
}

func TestBrandTierScore(t *testing.T) {
	t.Parallel()

	assert.InDelta(t, 10.0, BrandTierOEM.Score(), 0.001)
	assert.InDelta(t, 4.0, BrandTierEconomy.Score(), 0.001)
	assert.InDelta(t, 5.0, BrandTier("BOGUS").Score(), 0.001)
}

func TestBreakdownKitPrice(t *testing.T) {
	t.Parallel()

	var nilBreakdown *Breakdown
	assert.True(t, nilBreakdown.KitPrice().IsZero())
	assert.True(t, (&Breakdown{}).KitPrice().IsZero())

	b := &Breakdown{CleaningKit: &CleaningKit{Price: decimal.RequireFromString("24.99")}}
	assert.Equal(t, "24.99", b.KitPrice().String())
}
