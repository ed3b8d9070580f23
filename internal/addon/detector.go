// Package addon expands a service request into the consumable parts a job
// usually needs but an advisor tends to forget.
package addon

import (
	"strings"
	"unicode"

	"github.com/shopspring/decimal"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// shortKeyword is the length at or below which a keyword must match a whole
// word. "ac" and "atf" would otherwise hit inside unrelated words.
const shortKeyword = 3

// AddOn is one detected consumable on an estimate.
type AddOn struct {
	Item
	Quantity    int    `json:"quantity"`
	Rule        string `json:"rule"`
	ReasonBadge string `json:"reason_badge"`
}

// Result is the outcome of Detect.
type Result struct {
	MatchedRules []string        `json:"matched_rules"`
	Items        []AddOn         `json:"addons"`
	TotalPrice   decimal.Decimal `json:"total_price"`
}

// Detector matches job text against a fixed rule table.
type Detector struct {
	rules []Rule
	title cases.Caser
}

// NewDetector returns a detector over rules. A nil or empty table uses
// DefaultRules.
func NewDetector(rules []Rule) *Detector {
	if len(rules) == 0 {
		rules = DefaultRules()
	}
	return &Detector{
		rules: rules,
		title: cases.Title(language.English),
	}
}

// RuleNames lists the detector's rules in evaluation order.
func (d *Detector) RuleNames() []string {
	names := make([]string, len(d.rules))
	for i, r := range d.rules {
		names[i] = r.Name
	}
	return names
}

// Detect returns the add-ons for a service request and the labor procedure
// text. Each part number appears at most once; the first rule to add it wins.
func (d *Detector) Detect(serviceRequest string, laborProcedures []string) *Result {
	text := strings.ToLower(serviceRequest)
	if len(laborProcedures) > 0 {
		text += " " + strings.ToLower(strings.Join(laborProcedures, " "))
	}

	res := &Result{TotalPrice: decimal.Zero}
	seen := make(map[string]bool)

	for _, r := range d.rules {
		if !matchesAny(text, r.Keywords) {
			continue
		}
		res.MatchedRules = append(res.MatchedRules, r.Name)

		label := d.title.String(strings.ReplaceAll(r.Name, "_", " "))
		for _, it := range r.Items {
			if seen[it.PartNumber] {
				continue
			}
			seen[it.PartNumber] = true
			a := AddOn{
				Item:        it,
				Quantity:    1,
				Rule:        r.Name,
				ReasonBadge: label + " → " + it.PartName,
			}
			res.Items = append(res.Items, a)
			res.TotalPrice = res.TotalPrice.Add(it.Price.Mul(decimal.NewFromInt(int64(a.Quantity))))
		}
	}
	return res
}

func matchesAny(text string, keywords []string) bool {
	for _, kw := range keywords {
		kw = strings.ToLower(kw)
		if kw == "" {
			continue
		}
		if len(kw) <= shortKeyword {
			if containsWord(text, kw) {
				return true
			}
			continue
		}
		if strings.Contains(text, kw) {
			return true
		}
	}
	return false
}

// containsWord reports whether word occurs in text bounded by non-alphanumeric
// characters or the ends of the string.
func containsWord(text, word string) bool {
	for start := 0; ; {
		i := strings.Index(text[start:], word)
		if i < 0 {
			return false
		}
		i += start
		end := i + len(word)
		if !isWordByte(text, i-1) && !isWordByte(text, end) {
			return true
		}
		start = i + 1
	}
}

func isWordByte(s string, i int) bool {
	if i < 0 || i >= len(s) {
		return false
	}
	r := rune(s[i])
	return unicode.IsLetter(r) || unicode.IsDigit(r)
}
