package calc

import (
	"regexp"
	"sort"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/estimaro/estimator/internal/model"
)

// Job types used to pick a cleaning kit.
const (
	JobBrakeService = "brake_service"
	JobEngineRepair = "engine_repair"
	JobACService    = "ac_service"
	JobTransmission = "transmission"
	JobSuspension   = "suspension"
	JobGeneral      = "general"
)

// cleaningKits replaces a generic shop fee with a transparent, job-specific
// consumables charge. Read-only after init.
var cleaningKits = map[string]model.CleaningKit{
	JobBrakeService: {
		Name:     "Brake Service Cleaning Kit",
		Includes: []string{"Brake cleaner", "Caliper grease", "Disposable gloves"},
		Price:    decimal.RequireFromString("15.00"),
	},
	JobEngineRepair: {
		Name:     "Engine Service Cleaning Kit",
		Includes: []string{"Degreaser", "Shop towels", "Oil absorbent"},
		Price:    decimal.RequireFromString("20.00"),
	},
	JobACService: {
		Name:     "AC Service Cleaning Kit",
		Includes: []string{"UV dye", "Leak sealant", "O-ring lubricant"},
		Price:    decimal.RequireFromString("18.00"),
	},
	JobTransmission: {
		Name:     "Transmission Service Cleaning Kit",
		Includes: []string{"Fluid funnel", "Shop towels", "Spill mat"},
		Price:    decimal.RequireFromString("16.00"),
	},
	JobSuspension: {
		Name:     "Suspension Service Cleaning Kit",
		Includes: []string{"Penetrating oil", "Shop towels", "Grease"},
		Price:    decimal.RequireFromString("14.00"),
	},
	JobGeneral: {
		Name:     "General Service Cleaning Kit",
		Includes: []string{"All-purpose cleaner", "Shop towels"},
		Price:    decimal.RequireFromString("12.00"),
	},
}

// KitFor returns the cleaning kit for a job type, falling back to the
// general kit. The returned Includes slice is a copy.
func KitFor(jobType string) model.CleaningKit {
	kit, ok := cleaningKits[jobType]
	if !ok {
		kit = cleaningKits[JobGeneral]
	}
	kit.Includes = append([]string(nil), kit.Includes...)
	return kit
}

// JobTypes lists every job type with a dedicated kit, sorted.
func JobTypes() []string {
	out := make([]string, 0, len(cleaningKits))
	for k := range cleaningKits {
		out = append(out, k)
	}
	sort.Strings(out)
	return out
}

// jobBuckets are checked in order; the first bucket with a hit wins.
var jobBuckets = []struct {
	jobType  string
	keywords []string
}{
	{JobBrakeService, []string{"brake", "pad", "rotor", "caliper"}},
	{JobEngineRepair, []string{"engine", "motor", "oil", "gasket"}},
	{JobACService, []string{"air condition", "a/c", "compressor", "freon"}},
}

// "ac" is too short for substring matching ("replace", "vacuum").
var acWord = regexp.MustCompile(`\bac\b`)

// DetectJobType infers the cleaning-kit job type from a service request.
func DetectJobType(serviceRequest string) string {
	text := strings.ToLower(serviceRequest)
	for _, b := range jobBuckets {
		for _, kw := range b.keywords {
			if strings.Contains(text, kw) {
				return b.jobType
			}
		}
		if b.jobType == JobACService && acWord.MatchString(text) {
			return JobACService
		}
	}
	return JobGeneral
}
