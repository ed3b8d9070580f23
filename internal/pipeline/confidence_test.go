package pipeline

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/estimaro/estimator/internal/model"
)

func flags(types ...model.FlagType) []model.Flag {
	out := make([]model.Flag, len(types))
	for i, t := range types {
		out[i] = model.Flag{Type: t}
	}
	return out
}

func TestScoreConfidence(t *testing.T) {
	t.Parallel()

	failedCritical := model.StepResult{Status: model.StepStatusFailed, Critical: true}
	failed := model.StepResult{Status: model.StepStatusFailed}
	skipped := model.StepResult{Status: model.StepStatusSkipped}
	complete := model.StepResult{Status: model.StepStatusComplete, Critical: true}

	tests := []struct {
		name      string
		steps     []model.StepResult
		flags     []model.Flag
		score     int
		threshold string
	}{
		{"clean run", []model.StepResult{complete, skipped}, nil, 100, ThresholdHigh},
		{"info flags are free", nil, flags(model.FlagInfo, model.FlagInfo), 100, ThresholdHigh},
		{"one warning", nil, flags(model.FlagWarning), 90, ThresholdHigh},
		{"yellow and warning", nil, flags(model.FlagYellow, model.FlagWarning), 85, ThresholdMedium},
		{"red flag", nil, flags(model.FlagRed), 80, ThresholdMedium},
		{"critical failure", []model.StepResult{failedCritical}, nil, 70, ThresholdMedium},
		{"non-critical failures", []model.StepResult{failed, failed, failed, failed}, nil, 60, ThresholdLow},
		{
			"clamped at zero",
			[]model.StepResult{failedCritical, failedCritical, failed, failed},
			flags(model.FlagRed, model.FlagRed, model.FlagWarning, model.FlagYellow),
			0, ThresholdLow,
		},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			c := ScoreConfidence(tt.steps, tt.flags)
			assert.Equal(t, tt.score, c.Score)
			assert.Equal(t, tt.threshold, c.Threshold)
			assert.GreaterOrEqual(t, c.Score, 0)
			assert.LessOrEqual(t, c.Score, 100)
		})
	}
}

func TestScoreConfidence_Actions(t *testing.T) {
	t.Parallel()

	assert.Equal(t, "Auto-proceed", ScoreConfidence(nil, nil).Action)
	assert.Equal(t, "100%", ScoreConfidence(nil, nil).Percentage)
	assert.Equal(t, "Quick advisor review recommended", ScoreConfidence(nil, flags(model.FlagRed)).Action)
	assert.Equal(t, "Human advisor required", ScoreConfidence(nil, flags(model.FlagRed, model.FlagRed)).Action)
}

func TestStepNamesOrder(t *testing.T) {
	t.Parallel()

	assert.Equal(t, []string{
		"vehicle_decode", "recall_check", "warranty_check", "labor_lookup", "parts_search",
		"vendor_compare", "part_condition", "addon_detection", "calculation",
	}, StepNames())
	assert.True(t, vehicleDecode.critical())
	assert.True(t, laborLookup.critical())
	assert.False(t, calculation.critical())
}
