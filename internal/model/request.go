package model

import (
	"errors"
	"fmt"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/shopspring/decimal"
)

// EstimateRequest is the input to one estimate-generation run.
// Optional numeric fields are pointers so an explicit zero can be told apart
// from "use the shop default".
type EstimateRequest struct {
	VIN                string           `json:"vin" validate:"required,len=17,alphanum"`
	ServiceRequest     string           `json:"service_request" validate:"required,max=2000"`
	CustomerName       string           `json:"customer_name" validate:"required,max=200"`
	CustomerPhone      string           `json:"customer_phone" validate:"required,max=40"`
	CustomerEmail      string           `json:"customer_email,omitempty" validate:"omitempty,email"`
	Odometer           *int             `json:"odometer,omitempty" validate:"omitempty,gte=0"`
	LaborRate          *decimal.Decimal `json:"labor_rate,omitempty" validate:"-"`
	PartsMarkup        *decimal.Decimal `json:"parts_markup,omitempty" validate:"-"`
	TaxRate            *decimal.Decimal `json:"tax_rate,omitempty" validate:"-"`
	VendorWeights      *VendorWeights   `json:"vendor_weights,omitempty" validate:"omitempty"`
	IncludeCleaningKit *bool            `json:"include_cleaning_kit,omitempty"`
}

// RequestDefaults are the shop-level values applied to fields a request
// leaves unset.
type RequestDefaults struct {
	LaborRate          decimal.Decimal
	PartsMarkup        decimal.Decimal
	TaxRate            decimal.Decimal
	VendorWeights      VendorWeights
	IncludeCleaningKit bool
}

// DefaultRequestDefaults returns $150/hr labor, 30% markup, 9.25% tax,
// 40/35/25 vendor weights, and cleaning kits enabled.
func DefaultRequestDefaults() RequestDefaults {
	return RequestDefaults{
		LaborRate:          decimal.NewFromInt(150),
		PartsMarkup:        decimal.NewFromInt(30),
		TaxRate:            decimal.RequireFromString("0.0925"),
		VendorWeights:      DefaultVendorWeights(),
		IncludeCleaningKit: true,
	}
}

// ValidationError reports every problem found with a request. It is returned
// before the pipeline starts.
type ValidationError struct {
	Problems []string `json:"problems"`
}

func (e *ValidationError) Error() string {
	return "invalid estimate request: " + strings.Join(e.Problems, "; ")
}

// IsValidationError reports whether err is (or wraps) a ValidationError.
func IsValidationError(err error) bool {
	var ve *ValidationError
	return errors.As(err, &ve)
}

var validate = newValidator()

// newValidator reports fields by their JSON names.
func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		name, _, _ := strings.Cut(f.Tag.Get("json"), ",")
		if name == "-" {
			return ""
		}
		return name
	})
	return v
}

// Validate checks the request's structural constraints and numeric ranges.
func (r *EstimateRequest) Validate() error {
	var problems []string

	if err := validate.Struct(r); err != nil {
		var verrs validator.ValidationErrors
		if !errors.As(err, &verrs) {
			return &ValidationError{Problems: []string{err.Error()}}
		}
		for _, fe := range verrs {
			problems = append(problems, describeFieldError(fe))
		}
	}

	if r.LaborRate != nil && r.LaborRate.IsNegative() {
		problems = append(problems, "labor_rate must be >= 0")
	}
	if r.PartsMarkup != nil && (r.PartsMarkup.IsNegative() || r.PartsMarkup.GreaterThan(decimal.NewFromInt(100))) {
		problems = append(problems, "parts_markup must be between 0 and 100")
	}
	if r.TaxRate != nil && (r.TaxRate.IsNegative() || r.TaxRate.GreaterThan(decimal.NewFromInt(1))) {
		problems = append(problems, "tax_rate must be between 0 and 1")
	}
	if r.VendorWeights != nil && r.VendorWeights.Sum() <= 0 {
		problems = append(problems, "vendor_weights must have a positive sum")
	}

	if len(problems) > 0 {
		return &ValidationError{Problems: problems}
	}
	return nil
}

func describeFieldError(fe validator.FieldError) string {
	field := strings.ToLower(fe.Namespace())
	if i := strings.Index(field, "."); i >= 0 {
		field = field[i+1:]
	}
	switch fe.Tag() {
	case "required":
		return field + " is required"
	case "len":
		return fmt.Sprintf("%s must be exactly %s characters", field, fe.Param())
	case "alphanum":
		return field + " must be alphanumeric"
	case "email":
		return field + " must be a valid email address"
	case "max":
		return fmt.Sprintf("%s must be at most %s characters", field, fe.Param())
	case "gte":
		return fmt.Sprintf("%s must be >= %s", field, fe.Param())
	default:
		return fmt.Sprintf("%s failed %s", field, fe.Tag())
	}
}

// Resolved is a request with every optional field filled in.
type Resolved struct {
	EstimateRequest
	Mileage            int
	LaborRate          decimal.Decimal
	PartsMarkup        decimal.Decimal
	TaxRate            decimal.Decimal
	VendorWeights      VendorWeights
	IncludeCleaningKit bool
}

// Resolve fills unset optional fields from d. The VIN is upper-cased.
func (r EstimateRequest) Resolve(d RequestDefaults) Resolved {
	out := Resolved{
		EstimateRequest:    r,
		LaborRate:          d.LaborRate,
		PartsMarkup:        d.PartsMarkup,
		TaxRate:            d.TaxRate,
		VendorWeights:      d.VendorWeights,
		IncludeCleaningKit: d.IncludeCleaningKit,
	}
	out.VIN = strings.ToUpper(strings.TrimSpace(r.VIN))
	if r.Odometer != nil {
		out.Mileage = *r.Odometer
	}
	if r.LaborRate != nil {
		out.LaborRate = *r.LaborRate
	}
	if r.PartsMarkup != nil {
		out.PartsMarkup = *r.PartsMarkup
	}
	if r.TaxRate != nil {
		out.TaxRate = *r.TaxRate
	}
	if r.VendorWeights != nil {
		out.VendorWeights = *r.VendorWeights
	}
	if r.IncludeCleaningKit != nil {
		out.IncludeCleaningKit = *r.IncludeCleaningKit
	}
	return out
}
