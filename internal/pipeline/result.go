package pipeline

import (
	"github.com/estimaro/estimator/internal/addon"
	"github.com/estimaro/estimator/internal/condition"
	"github.com/estimaro/estimator/internal/model"
	"github.com/estimaro/estimator/internal/recall"
	"github.com/estimaro/estimator/internal/vendor"
	"github.com/estimaro/estimator/internal/warranty"
)

// Step names in declaration order. Step records, flags and errors in a
// Result always follow this order.
const (
	StepVehicleDecode  = "vehicle_decode"
	StepRecallCheck    = "recall_check"
	StepWarrantyCheck  = "warranty_check"
	StepLaborLookup    = "labor_lookup"
	StepPartsSearch    = "parts_search"
	StepVendorCompare  = "vendor_compare"
	StepPartCondition  = "part_condition"
	StepAddOnDetection = "addon_detection"
	StepCalculation    = "calculation"
)

type stepID int

const (
	vehicleDecode stepID = iota
	recallCheck
	warrantyCheck
	laborLookup
	partsSearch
	vendorCompare
	partCondition
	addOnDetection
	calculation
	numSteps
)

var stepNames = [numSteps]string{
	StepVehicleDecode,
	StepRecallCheck,
	StepWarrantyCheck,
	StepLaborLookup,
	StepPartsSearch,
	StepVendorCompare,
	StepPartCondition,
	StepAddOnDetection,
	StepCalculation,
}

func (id stepID) critical() bool {
	return id == vehicleDecode || id == laborLookup
}

// StepNames returns the pipeline steps in declaration order.
func StepNames() []string {
	out := make([]string, len(stepNames))
	copy(out, stepNames[:])
	return out
}

// Customer is the contact on the estimate.
type Customer struct {
	Name  string `json:"name"`
	Phone string `json:"phone"`
	Email string `json:"email,omitempty"`
}

// Estimate is the assembled estimate payload. Sections whose step failed or
// was skipped are nil.
type Estimate struct {
	Vehicle          *model.VehicleInfo `json:"vehicle,omitempty"`
	LaborItems       []model.LaborLine  `json:"labor_items"`
	PartItems        []model.PartLine   `json:"part_items"`
	VendorComparison *vendor.Comparison `json:"vendor_comparison,omitempty"`
	PartConditions   *condition.Report  `json:"part_conditions,omitempty"`
	AddOns           *addon.Result      `json:"addons,omitempty"`
	Breakdown        *model.Breakdown   `json:"breakdown,omitempty"`
	RecallCheck      *recall.Result     `json:"recall_check,omitempty"`
	WarrantyCheck    *warranty.Result   `json:"warranty_check,omitempty"`
	JobType          string             `json:"job_type"`
}

// Result is the outcome of one estimate run. It is always returned for a
// valid request, even when steps fail.
type Result struct {
	RunID      string             `json:"run_id"`
	Steps      []model.StepResult `json:"steps"`
	Flags      []model.Flag       `json:"flags"`
	Errors     []string           `json:"errors"`
	Customer   Customer           `json:"customer"`
	Estimate   Estimate           `json:"estimate"`
	Confidence Confidence         `json:"confidence"`
	Success    bool               `json:"success"`
	DurationMs int64              `json:"duration_ms"`
}

// Step returns the record for the named step.
func (r *Result) Step(name string) (model.StepResult, bool) {
	for _, s := range r.Steps {
		if s.Name == name {
			return s, true
		}
	}
	return model.StepResult{}, false
}
