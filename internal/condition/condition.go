// Package condition classifies parts as new or remanufactured from vendor
// text so the condition can be disclosed to the customer.
package condition

import (
	"fmt"
	"strings"

	"github.com/estimaro/estimator/internal/model"
)

// Condition of a part.
type Condition string

// Known conditions.
const (
	New            Condition = "NEW"
	Remanufactured Condition = "REMANUFACTURED"
	Unknown        Condition = "UNKNOWN"
)

// Confidence of a detection.
type Confidence string

// Confidence levels.
const (
	High   Confidence = "HIGH"
	Medium Confidence = "MEDIUM"
	Low    Confidence = "LOW"
)

// Remanufactured keywords win over any new keyword in the same text.
var remanKeywords = []string{
	"REMAN", "RMN", "REBUILT", "REFURB", "REFURBISHED",
	"CORE CHARGE", "EXCHANGE", "RECO", "RECONDITIONED",
	"REMANUFACTURED", "RMFD", "RFB",
}

var newKeywords = []string{
	"100% NEW", "BRAND NEW", "NEW OEM", "NEW AFTERMARKET",
	"FACTORY NEW", "GENUINE NEW",
}

// Result is the detected condition of one part.
type Result struct {
	Condition      Condition  `json:"detected"`
	Confidence     Confidence `json:"confidence"`
	MatchedKeyword string     `json:"matched_keyword,omitempty"`
	DisplayTag     string     `json:"display_tag,omitempty"`
	RequiresManual bool       `json:"requires_manual_selection"`
	FlagColor      string     `json:"flag_color,omitempty"`
}

func unknown() Result {
	return Result{
		Condition:      Unknown,
		Confidence:     Low,
		RequiresManual: true,
		FlagColor:      string(model.FlagYellow),
	}
}

// DetectCondition classifies free text. Remanufactured keywords are checked
// first, then explicit new phrases, then a bare "NEW".
func DetectCondition(text string) Result {
	upper := strings.ToUpper(strings.TrimSpace(text))
	if upper == "" {
		return unknown()
	}

	for _, kw := range remanKeywords {
		if strings.Contains(upper, kw) {
			return Result{Condition: Remanufactured, Confidence: High, MatchedKeyword: kw, DisplayTag: "[REMANUFACTURED]"}
		}
	}
	for _, kw := range newKeywords {
		if strings.Contains(upper, kw) {
			return Result{Condition: New, Confidence: High, MatchedKeyword: kw, DisplayTag: "[NEW]"}
		}
	}
	if strings.Contains(upper, "NEW") {
		return Result{Condition: New, Confidence: Medium, MatchedKeyword: "NEW", DisplayTag: "[NEW]"}
	}
	return unknown()
}

// TaggedPart is a part line with its detected condition.
type TaggedPart struct {
	Line               model.PartLine `json:"line"`
	Condition          Result         `json:"condition"`
	DisplayDescription string         `json:"display_description"`
}

// Summary counts detection outcomes.
type Summary struct {
	TotalParts     int `json:"total_parts"`
	AutoDetected   int `json:"auto_detected"`
	RequiresReview int `json:"requires_review"`
}

// Report is the outcome of ProcessPartsList.
type Report struct {
	Parts   []TaggedPart `json:"parts"`
	Summary Summary      `json:"summary"`
	Flag    *model.Flag  `json:"flag,omitempty"`
}

// HasUnknown reports whether any part still needs a manual condition choice.
func (r *Report) HasUnknown() bool {
	return r.Summary.RequiresReview > 0
}

// ProcessPartsList detects the condition of each part from its description
// and vendor. Input lines are not modified; tagged copies are returned.
func ProcessPartsList(parts []model.PartLine) *Report {
	r := &Report{
		Parts:   make([]TaggedPart, 0, len(parts)),
		Summary: Summary{TotalParts: len(parts)},
	}

	for _, p := range parts {
		res := DetectCondition(p.Description + " " + p.Vendor)

		line := p
		display := p.Description
		if res.Condition != Unknown {
			line.Condition = string(res.Condition)
		}
		if res.DisplayTag != "" {
			display = p.Description + " - " + res.DisplayTag
		}
		r.Parts = append(r.Parts, TaggedPart{Line: line, Condition: res, DisplayDescription: display})

		if res.RequiresManual {
			r.Summary.RequiresReview++
		} else {
			r.Summary.AutoDetected++
		}
	}

	if r.Summary.RequiresReview > 0 {
		r.Flag = &model.Flag{
			Type:    model.FlagYellow,
			Title:   "MANUAL SELECTION REQUIRED",
			Message: fmt.Sprintf("%d part(s) need condition selection (NEW or REMANUFACTURED)", r.Summary.RequiresReview),
			Action:  "Select condition for flagged parts before sending to customer",
		}
	}
	return r
}
