package main

import (
	"encoding/json"
	"os"

	"github.com/rotisserie/eris"
	"github.com/shopspring/decimal"
	"github.com/spf13/cobra"

	"github.com/estimaro/estimator/internal/calc"
	"github.com/estimaro/estimator/internal/model"
)

var (
	calcFile    string
	calcJobType string
	calcTaxRate float64
	calcNoKit   bool
)

// calcRequest prices a set of hand-entered lines. Unset fields fall back to
// the shop defaults and an empty job_type selects the general kit.
type calcRequest struct {
	LaborItems         []model.LaborLine `json:"labor_items"`
	PartsItems         []model.PartLine  `json:"parts_items"`
	TaxRate            *decimal.Decimal  `json:"tax_rate,omitempty"`
	JobType            string            `json:"job_type,omitempty"`
	IncludeCleaningKit *bool             `json:"include_cleaning_kit,omitempty"`
}

type calcResponse struct {
	LaborItems []model.LaborLine `json:"labor_items"`
	PartsItems []model.PartLine  `json:"parts_items"`
	Breakdown  *model.Breakdown  `json:"breakdown"`
	TaxRate    decimal.Decimal   `json:"tax_rate"`
	JobType    string            `json:"job_type"`
}

// calculate recomputes every line total and the breakdown. Errors wrap
// calc.ErrInvalidInput when the input itself is at fault.
func calculate(req calcRequest, d model.RequestDefaults) (*calcResponse, error) {
	taxRate := d.TaxRate
	if req.TaxRate != nil {
		taxRate = *req.TaxRate
	}
	if taxRate.GreaterThan(decimal.NewFromInt(1)) {
		return nil, eris.Wrapf(calc.ErrInvalidInput, "tax rate %s above 1", taxRate)
	}
	includeKit := d.IncludeCleaningKit
	if req.IncludeCleaningKit != nil {
		includeKit = *req.IncludeCleaningKit
	}
	jobType := req.JobType
	if jobType == "" {
		jobType = calc.JobGeneral
	}

	labor, parts := calc.RecalculateLineTotals(req.LaborItems, req.PartsItems)
	b, err := calc.CalculateEstimate(labor, parts, jobType, taxRate, includeKit)
	if err != nil {
		return nil, err
	}
	return &calcResponse{
		LaborItems: labor,
		PartsItems: parts,
		Breakdown:  b,
		TaxRate:    taxRate,
		JobType:    jobType,
	}, nil
}

var calcCmd = &cobra.Command{
	Use:   "calc",
	Short: "Price estimate lines from a JSON file",
	Long:  "Reads {labor_items, parts_items} from --file and prints the recalculated lines and breakdown.",
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := cfg.Validate("calc"); err != nil {
			return err
		}

		data, err := os.ReadFile(calcFile)
		if err != nil {
			return eris.Wrap(err, "calc: read lines file")
		}
		var req calcRequest
		if err := json.Unmarshal(data, &req); err != nil {
			return eris.Wrap(err, "calc: parse lines file")
		}
		if cmd.Flags().Changed("job-type") {
			req.JobType = calcJobType
		}
		if cmd.Flags().Changed("tax-rate") {
			rate := decimal.NewFromFloat(calcTaxRate)
			req.TaxRate = &rate
		}
		if calcNoKit {
			off := false
			req.IncludeCleaningKit = &off
		}

		resp, err := calculate(req, cfg.Estimate.RequestDefaults())
		if err != nil {
			return eris.Wrap(err, "calc")
		}
		return writeJSON(cmd.OutOrStdout(), resp)
	},
}

func init() {
	calcCmd.Flags().StringVar(&calcFile, "file", "", "JSON file with labor_items and parts_items (required)")
	calcCmd.Flags().StringVar(&calcJobType, "job-type", "", "cleaning kit job type (brake_service, engine_repair, ac_service, transmission, suspension, general)")
	calcCmd.Flags().Float64Var(&calcTaxRate, "tax-rate", 0, "tax rate as a fraction, overrides config")
	calcCmd.Flags().BoolVar(&calcNoKit, "no-kit", false, "omit the cleaning kit")
	_ = calcCmd.MarkFlagRequired("file")
	rootCmd.AddCommand(calcCmd)
}
