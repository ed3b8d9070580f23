package model

// StepStatus is the outcome of one pipeline step.
type StepStatus string

const (
	StepStatusComplete StepStatus = "complete"
	StepStatusFailed   StepStatus = "failed"
	StepStatusSkipped  StepStatus = "skipped"
)

// StepResult records one step of an estimate run.
type StepResult struct {
	Name     string         `json:"name"`
	Status   StepStatus     `json:"status"`
	Critical bool           `json:"critical"`
	Duration int64          `json:"duration_ms"`
	Error    string         `json:"error,omitempty"`
	Metadata map[string]any `json:"metadata,omitempty"`
}

// Failed reports whether the step ended in failure.
func (s StepResult) Failed() bool {
	return s.Status == StepStatusFailed
}
