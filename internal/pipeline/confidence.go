package pipeline

import (
	"fmt"

	"github.com/estimaro/estimator/internal/model"
)

// Confidence thresholds.
const (
	ThresholdHigh   = "HIGH"
	ThresholdMedium = "MEDIUM"
	ThresholdLow    = "LOW"
)

// Deductions applied to the starting score of 100.
const (
	penaltyCriticalStep = 30
	penaltyStep         = 10
	penaltyRed          = 20
	penaltyWarning      = 10
	penaltyYellow       = 5
)

// Confidence says how far an estimate can be trusted without review.
type Confidence struct {
	Score      int    `json:"score"`
	Percentage string `json:"percentage"`
	Threshold  string `json:"threshold"`
	Action     string `json:"action"`
}

// ScoreConfidence scores a run from its step records and flags. Skipped
// steps cost nothing. The score is clamped to [0,100].
func ScoreConfidence(steps []model.StepResult, flags []model.Flag) Confidence {
	score := 100
	for _, s := range steps {
		if !s.Failed() {
			continue
		}
		if s.Critical {
			score -= penaltyCriticalStep
		} else {
			score -= penaltyStep
		}
	}
	for _, f := range flags {
		switch f.Type {
		case model.FlagRed:
			score -= penaltyRed
		case model.FlagWarning:
			score -= penaltyWarning
		case model.FlagYellow:
			score -= penaltyYellow
		}
	}
	score = max(0, min(100, score))

	c := Confidence{Score: score, Percentage: fmt.Sprintf("%d%%", score)}
	switch {
	case score >= 90:
		c.Threshold, c.Action = ThresholdHigh, "Auto-proceed"
	case score >= 70:
		c.Threshold, c.Action = ThresholdMedium, "Quick advisor review recommended"
	default:
		c.Threshold, c.Action = ThresholdLow, "Human advisor required"
	}
	return c
}
