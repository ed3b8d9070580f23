package main

import (
	"encoding/json"
	"io"

	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/estimaro/estimator/internal/model"
)

var (
	runVIN      string
	runRequest  string
	runOdometer int
	runName     string
	runPhone    string
	runEmail    string
)

var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Generate an estimate for a single vehicle",
	RunE: func(cmd *cobra.Command, args []string) error {
		env, err := initPipeline(cfg, "run")
		if err != nil {
			return err
		}

		req := buildRunRequest(cmd.Flags().Changed("odometer"))

		result, err := env.Pipeline.Run(cmd.Context(), req)
		if err != nil {
			return eris.Wrap(err, "pipeline run")
		}

		zap.L().Info("estimate generated",
			zap.String("run_id", result.RunID),
			zap.Bool("success", result.Success),
			zap.Int("confidence", result.Confidence.Score),
		)

		return writeJSON(cmd.OutOrStdout(), result)
	},
}

func buildRunRequest(odometerSet bool) model.EstimateRequest {
	req := model.EstimateRequest{
		VIN:            runVIN,
		ServiceRequest: runRequest,
		CustomerName:   runName,
		CustomerPhone:  runPhone,
		CustomerEmail:  runEmail,
	}
	if odometerSet {
		odo := runOdometer
		req.Odometer = &odo
	}
	return req
}

// writeJSON prints v as indented JSON.
func writeJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

func init() {
	runCmd.Flags().StringVar(&runVIN, "vin", "", "17-character vehicle identification number (required)")
	runCmd.Flags().StringVar(&runRequest, "request", "", "customer service request (required)")
	runCmd.Flags().IntVar(&runOdometer, "odometer", 0, "odometer reading in miles")
	runCmd.Flags().StringVar(&runName, "name", "Walk-in Customer", "customer name")
	runCmd.Flags().StringVar(&runPhone, "phone", "000-000-0000", "customer phone")
	runCmd.Flags().StringVar(&runEmail, "email", "", "customer email")
	_ = runCmd.MarkFlagRequired("vin")
	_ = runCmd.MarkFlagRequired("request")
	rootCmd.AddCommand(runCmd)
}
