// Package recall matches a customer's complaint against the open safety
// recalls for a vehicle.
package recall

import (
	"context"
	"strings"

	"github.com/rotisserie/eris"
	"go.uber.org/zap"

	"github.com/estimaro/estimator/internal/model"
)

// Source fetches the open recalls for a VIN.
type Source interface {
	FetchRecallsByVIN(ctx context.Context, vin string) ([]model.Recall, error)
}

// Report and flag truncation limits, in runes.
const (
	reportTextLimit = 200
	flagDetailLimit = 150
)

type category struct {
	name     string
	keywords []string
}

// categories are evaluated in this order. A keyword may belong to more than
// one category.
var categories = []category{
	{"brake", []string{"brake", "braking", "abs", "stopping"}},
	{"fuel", []string{"fuel", "gas", "gasoline", "leak", "smell"}},
	{"engine", []string{"engine", "motor", "stall", "power"}},
	{"steering", []string{"steering", "wheel", "turn", "handling"}},
	{"airbag", []string{"airbag", "air bag", "srs", "safety"}},
	{"electrical", []string{"electrical", "battery", "short", "fire"}},
	{"transmission", []string{"transmission", "gear", "shift"}},
	{"suspension", []string{"suspension", "shock", "strut"}},
	{"tire", []string{"tire", "wheel", "tyre"}},
	{"cooling", []string{"coolant", "radiator", "overheat", "temperature"}},
}

// Result is the outcome of a recall check.
type Result struct {
	HasOpenRecalls    bool           `json:"has_open_recalls"`
	HasMatchingRecall bool           `json:"has_matching_recall"`
	OpenCount         int            `json:"open_recalls_count"`
	MatchingCount     int            `json:"matching_recalls_count"`
	Categories        []string       `json:"complaint_categories,omitempty"`
	AllRecalls        []model.Recall `json:"all_recalls"`
	MatchingRecalls   []model.Recall `json:"matching_recalls"`
	Flag              *model.Flag    `json:"flag,omitempty"`
}

// Checker runs recall checks against a Source.
type Checker struct {
	src Source
}

// NewChecker returns a Checker backed by src.
func NewChecker(src Source) *Checker {
	return &Checker{src: src}
}

// Check fetches recalls for vin and matches them against complaint. On a
// fetch failure it returns an empty result alongside the error so the caller
// can continue without recall data.
func (c *Checker) Check(ctx context.Context, vin, complaint string) (*Result, error) {
	res := &Result{}

	recalls, err := c.src.FetchRecallsByVIN(ctx, vin)
	if err != nil {
		return res, eris.Wrap(err, "recall: fetch")
	}

	res.HasOpenRecalls = len(recalls) > 0
	res.OpenCount = len(recalls)
	res.AllRecalls = make([]model.Recall, len(recalls))
	for i, r := range recalls {
		res.AllRecalls[i] = truncated(r)
	}

	res.Categories = ComplaintCategories(complaint)
	matching := Match(res.Categories, recalls)
	if len(matching) == 0 {
		return res, nil
	}

	res.HasMatchingRecall = true
	res.MatchingCount = len(matching)
	res.MatchingRecalls = make([]model.Recall, len(matching))
	for i, r := range matching {
		res.MatchingRecalls[i] = truncated(r)
	}

	first := matching[0]
	res.Flag = &model.Flag{
		Type:    model.FlagRed,
		Title:   "RECALL ALERT",
		Message: "Possible recall match detected! Campaign: " + first.CampaignNumber,
		Action:  "Verify with dealer - customer may get FREE repair under recall",
		Details: truncate(first.Summary, flagDetailLimit),
	}
	zap.L().Info("recall: complaint matches open recall",
		zap.String("vin", vin),
		zap.String("campaign", first.CampaignNumber),
		zap.Int("matching", len(matching)),
	)
	return res, nil
}

// ComplaintCategories returns the component categories the complaint text
// touches, in category order.
func ComplaintCategories(complaint string) []string {
	text := strings.ToLower(complaint)
	if strings.TrimSpace(text) == "" {
		return nil
	}
	var out []string
	for _, cat := range categories {
		if containsAny(text, cat.keywords) {
			out = append(out, cat.name)
		}
	}
	return out
}

// Match returns the recalls whose component or summary mentions any keyword
// of the given categories. Recall order is preserved.
func Match(categoryNames []string, recalls []model.Recall) []model.Recall {
	if len(categoryNames) == 0 || len(recalls) == 0 {
		return nil
	}
	touched := make(map[string]bool, len(categoryNames))
	for _, n := range categoryNames {
		touched[n] = true
	}

	var out []model.Recall
	for _, r := range recalls {
		text := strings.ToLower(r.Component + " " + r.Summary)
		for _, cat := range categories {
			if touched[cat.name] && containsAny(text, cat.keywords) {
				out = append(out, r)
				break
			}
		}
	}
	return out
}

func containsAny(text string, keywords []string) bool {
	for _, kw := range keywords {
		if strings.Contains(text, kw) {
			return true
		}
	}
	return false
}

func truncated(r model.Recall) model.Recall {
	r.Summary = truncate(r.Summary, reportTextLimit)
	r.Consequence = truncate(r.Consequence, reportTextLimit)
	r.Remedy = truncate(r.Remedy, reportTextLimit)
	return r
}

// truncate cuts s to limit runes and appends "..." when it was longer.
func truncate(s string, limit int) string {
	r := []rune(s)
	if len(r) <= limit {
		return s
	}
	return string(r[:limit]) + "..."
}
