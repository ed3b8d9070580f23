// Package warranty estimates whether a vehicle is still under factory
// warranty from its model year, make and mileage.
package warranty

import (
	"fmt"
	"strings"
	"time"

	"golang.org/x/text/language"
	"golang.org/x/text/message"

	"github.com/estimaro/estimator/internal/model"
)

// Term is a warranty duration in years and miles, whichever comes first.
type Term struct {
	Years int `json:"years"`
	Miles int `json:"miles"`
}

// Covers reports whether a vehicle of the given age and mileage is inside
// the term. Both bounds are exclusive.
func (t Term) Covers(age, mileage int) bool {
	return age < t.Years && mileage < t.Miles
}

func (t Term) String() string {
	return printer.Sprintf("%d years / %d miles", t.Years, t.Miles)
}

// Terms pairs the bumper-to-bumper and powertrain terms for a make.
type Terms struct {
	BumperToBumper Term `json:"bumper_to_bumper"`
	Powertrain     Term `json:"powertrain"`
}

var standardTerms = Terms{
	BumperToBumper: Term{Years: 3, Miles: 36000},
	Powertrain:     Term{Years: 5, Miles: 60000},
}

var (
	longPowertrain = Terms{BumperToBumper: Term{Years: 5, Miles: 60000}, Powertrain: Term{Years: 10, Miles: 100000}}
	fourYear       = Terms{BumperToBumper: Term{Years: 4, Miles: 50000}, Powertrain: Term{Years: 4, Miles: 50000}}
)

// manufacturerTerms overrides the standard terms by upper-cased make.
var manufacturerTerms = map[string]Terms{
	"HYUNDAI":       longPowertrain,
	"KIA":           longPowertrain,
	"GENESIS":       longPowertrain,
	"MITSUBISHI":    longPowertrain,
	"BMW":           fourYear,
	"MERCEDES-BENZ": fourYear,
	"MERCEDES":      fourYear,
}

// Makes with an additional 10-year/100k extended powertrain notice.
var extendedPowertrainMakes = map[string]bool{
	"HYUNDAI": true,
	"KIA":     true,
	"GENESIS": true,
}

var extendedPowertrain = Term{Years: 10, Miles: 100000}

var powertrainComponents = []string{
	"engine", "motor", "transmission", "transaxle", "transfer case",
	"drive shaft", "differential", "axle", "turbo", "supercharger",
}

var printer = message.NewPrinter(language.English)

// TermsFor returns the warranty terms for a make.
func TermsFor(vehicleMake string) Terms {
	if t, ok := manufacturerTerms[strings.ToUpper(strings.TrimSpace(vehicleMake))]; ok {
		return t
	}
	return standardTerms
}

// IsPowertrainRelated reports whether the request mentions a powertrain part.
func IsPowertrainRelated(serviceRequest string) bool {
	text := strings.ToLower(serviceRequest)
	for _, c := range powertrainComponents {
		if strings.Contains(text, c) {
			return true
		}
	}
	return false
}

// Coverage types.
const (
	CoverageBumperToBumper     = "Bumper-to-Bumper"
	CoveragePowertrain         = "Powertrain"
	CoverageExtendedPowertrain = "Extended Powertrain"
)

// Alert is one warranty observation for the advisor.
type Alert struct {
	Level    model.FlagType `json:"level"`
	Type     string         `json:"type"`
	Message  string         `json:"message"`
	Action   string         `json:"action"`
	Coverage string         `json:"coverage"`
}

// Result is the outcome of a warranty check.
type Result struct {
	VehicleAgeYears     int         `json:"vehicle_age_years"`
	Mileage             int         `json:"mileage"`
	Make                string      `json:"make"`
	Terms               Terms       `json:"-"`
	TermsSummary        TermSummary `json:"warranty_terms"`
	Alerts              []Alert     `json:"alerts"`
	LikelyUnderWarranty bool        `json:"likely_under_warranty"`
	Flag                *model.Flag `json:"flag,omitempty"`
}

// TermSummary is the human-readable form of Terms.
type TermSummary struct {
	BumperToBumper string `json:"bumper_to_bumper"`
	Powertrain     string `json:"powertrain"`
}

// Checker runs warranty checks. The clock is injectable for tests.
type Checker struct {
	now func() time.Time
}

// Option configures a Checker.
type Option func(*Checker)

// WithClock overrides the clock used to compute vehicle age.
func WithClock(now func() time.Time) Option {
	return func(c *Checker) { c.now = now }
}

// NewChecker returns a Checker using the wall clock unless overridden.
func NewChecker(opts ...Option) *Checker {
	c := &Checker{now: time.Now}
	for _, o := range opts {
		o(c)
	}
	return c
}

// VehicleAge is the calendar-year difference between now and the model
// year. It does not account for the month the vehicle entered service.
func (c *Checker) VehicleAge(modelYear int) int {
	return c.now().Year() - modelYear
}

// Check applies the make's warranty terms to the vehicle's age and mileage.
func (c *Checker) Check(year int, vehicleMake string, mileage int, serviceRequest string) *Result {
	age := c.VehicleAge(year)
	terms := TermsFor(vehicleMake)

	res := &Result{
		VehicleAgeYears: age,
		Mileage:         mileage,
		Make:            vehicleMake,
		Terms:           terms,
		TermsSummary: TermSummary{
			BumperToBumper: terms.BumperToBumper.String(),
			Powertrain:     terms.Powertrain.String(),
		},
	}

	if terms.BumperToBumper.Covers(age, mileage) {
		res.Alerts = append(res.Alerts, Alert{
			Level:    model.FlagWarning,
			Type:     CoverageBumperToBumper,
			Message:  "Vehicle likely under BUMPER-TO-BUMPER warranty",
			Action:   "Verify with customer before proceeding",
			Coverage: terms.BumperToBumper.String(),
		})
		res.LikelyUnderWarranty = true
	}

	if terms.Powertrain.Covers(age, mileage) {
		a := Alert{
			Level:    model.FlagInfo,
			Type:     CoveragePowertrain,
			Message:  "Vehicle may have POWERTRAIN warranty coverage",
			Action:   "Check if repair is powertrain-related",
			Coverage: terms.Powertrain.String(),
		}
		if IsPowertrainRelated(serviceRequest) {
			a.Level = model.FlagWarning
			a.Action = "Powertrain repair - likely covered!"
			res.LikelyUnderWarranty = true
		}
		res.Alerts = append(res.Alerts, a)
	}

	if extendedPowertrainMakes[strings.ToUpper(strings.TrimSpace(vehicleMake))] && extendedPowertrain.Covers(age, mileage) {
		res.Alerts = append(res.Alerts, Alert{
			Level:    model.FlagWarning,
			Type:     CoverageExtendedPowertrain,
			Message:  fmt.Sprintf("%s 10-year/100k powertrain warranty may apply", vehicleMake),
			Action:   "Verify coverage before proceeding",
			Coverage: extendedPowertrain.String(),
		})
	}

	if res.LikelyUnderWarranty {
		res.Flag = &model.Flag{
			Type:    model.FlagWarning,
			Title:   "WARRANTY ALERT",
			Message: fmt.Sprintf("This %d %s with %s miles is likely still under factory warranty", year, vehicleMake, printer.Sprintf("%d", mileage)),
			Action:  "Consider referring customer to dealer for warranty repair",
			Options: []string{"Proceed Anyway", "Refer to Dealer"},
		}
	}
	return res
}
