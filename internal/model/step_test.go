package model

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestStepStatusValues(t *testing.T) {
	t.Parallel()

	tests := []struct {
		status StepStatus
		want   string
	}{
		{StepStatusComplete, "complete"},
		{StepStatusFailed, "failed"},
		{StepStatusSkipped, "skipped"},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.want, func(t *testing.T) {
			t.Parallel()
			assert.Equal(t, tt.want, string(tt.status))
		})
	}
}

func TestStepResultFailed(t *testing.T) {
	t.Parallel()

	assert.True(t, StepResult{Status: StepStatusFailed}.Failed())
	assert.False(t, StepResult{Status: StepStatusSkipped}.Failed())
	assert.False(t, StepResult{Status: StepStatusComplete}.Failed())
}
