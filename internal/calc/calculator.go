// Package calc computes estimate totals with fixed-point currency arithmetic.
package calc

import (
	"github.com/rotisserie/eris"
	"github.com/shopspring/decimal"

	"github.com/estimaro/estimator/internal/model"
)

// ErrInvalidInput is returned when a line item or rate is negative or a
// markup exceeds 100%. Callers validate first, so seeing this means an
// invariant was broken upstream.
var ErrInvalidInput = eris.New("calc: invalid input")

var (
	hundred = decimal.NewFromInt(100)
	one     = decimal.NewFromInt(1)
)

// Cents rounds an amount to two decimal places, half away from zero.
func Cents(d decimal.Decimal) decimal.Decimal {
	return d.Round(2)
}

// LaborLineTotal returns hours × rate, rounded to cents.
func LaborLineTotal(l model.LaborLine) decimal.Decimal {
	return Cents(laborTerm(l))
}

// PartLineTotal returns (cost × quantity) × (1 + markup/100), rounded to cents.
func PartLineTotal(p model.PartLine) decimal.Decimal {
	return Cents(partTerm(p))
}

func laborTerm(l model.LaborLine) decimal.Decimal {
	return l.Hours.Mul(l.Rate)
}

func partTerm(p model.PartLine) decimal.Decimal {
	base := p.UnitCost.Mul(p.Quantity)
	return base.Mul(one.Add(p.MarkupPercent.Div(hundred)))
}

// LaborTotal sums unrounded line terms and rounds the sum once.
func LaborTotal(lines []model.LaborLine) decimal.Decimal {
	total := decimal.Zero
	for _, l := range lines {
		total = total.Add(laborTerm(l))
	}
	return Cents(total)
}

// PartsTotal sums unrounded line terms (markup included) and rounds the sum once.
func PartsTotal(lines []model.PartLine) decimal.Decimal {
	total := decimal.Zero
	for _, p := range lines {
		total = total.Add(partTerm(p))
	}
	return Cents(total)
}

// CalculateEstimate computes the full financial breakdown for an estimate.
// The cleaning kit is selected by jobType and omitted when includeKit is false.
func CalculateEstimate(
	labor []model.LaborLine,
	parts []model.PartLine,
	jobType string,
	taxRate decimal.Decimal,
	includeKit bool,
) (*model.Breakdown, error) {
	if err := checkInputs(labor, parts, taxRate); err != nil {
		return nil, err
	}

	laborTotal := LaborTotal(labor)
	partsTotal := PartsTotal(parts)
	subtotal := laborTotal.Add(partsTotal)
	tax := Cents(subtotal.Mul(taxRate))

	b := &model.Breakdown{
		LaborTotal: laborTotal,
		PartsTotal: partsTotal,
		Subtotal:   subtotal,
		TaxAmount:  tax,
	}
	if includeKit {
		kit := KitFor(jobType)
		b.CleaningKit = &kit
	}
	b.Total = Cents(subtotal.Add(tax).Add(b.KitPrice()))

	return b, nil
}

// RecalculateLineTotals returns copies of the lines with Total recomputed
// from their other fields. Client-supplied totals are discarded.
func RecalculateLineTotals(labor []model.LaborLine, parts []model.PartLine) ([]model.LaborLine, []model.PartLine) {
	outLabor := make([]model.LaborLine, len(labor))
	for i, l := range labor {
		l.Total = LaborLineTotal(l)
		outLabor[i] = l
	}
	outParts := make([]model.PartLine, len(parts))
	for i, p := range parts {
		p.Total = PartLineTotal(p)
		outParts[i] = p
	}
	return outLabor, outParts
}

func checkInputs(labor []model.LaborLine, parts []model.PartLine, taxRate decimal.Decimal) error {
	if taxRate.IsNegative() {
		return eris.Wrapf(ErrInvalidInput, "tax rate %s", taxRate)
	}
	for i, l := range labor {
		if l.Hours.IsNegative() || l.Rate.IsNegative() {
			return eris.Wrapf(ErrInvalidInput, "labor line %d (%q)", i, l.Description)
		}
	}
	for i, p := range parts {
		if p.Quantity.IsNegative() || p.UnitCost.IsNegative() || p.MarkupPercent.IsNegative() {
			return eris.Wrapf(ErrInvalidInput, "part line %d (%q)", i, p.Description)
		}
		if p.MarkupPercent.GreaterThan(hundred) {
			return eris.Wrapf(ErrInvalidInput, "part line %d (%q): markup above 100%%", i, p.Description)
		}
	}
	return nil
}
