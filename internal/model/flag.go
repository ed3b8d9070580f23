package model

// FlagType is the severity of an advisory flag.
type FlagType string

// Flag severities, most severe first.
const (
	FlagRed     FlagType = "RED"
	FlagWarning FlagType = "WARNING"
	FlagYellow  FlagType = "YELLOW"
	FlagInfo    FlagType = "INFO"
)

// Flag is an advisory annotation raised by a pipeline step. Flags are
// append-only within a run.
type Flag struct {
	Type    FlagType `json:"type"`
	Title   string   `json:"title"`
	Message string   `json:"message"`
	Action  string   `json:"action,omitempty"`
	Details string   `json:"details,omitempty"`
	Options []string `json:"options,omitempty"`
}
