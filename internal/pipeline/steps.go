package pipeline

import (
	"context"
	"fmt"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/estimaro/estimator/internal/calc"
	"github.com/estimaro/estimator/internal/condition"
	"github.com/estimaro/estimator/internal/model"
	"github.com/estimaro/estimator/internal/vendor"
)

// Vendor labels for part lines that did not come from a vendor pick.
const (
	VendorUnknown = "Unknown"
	VendorAutoAdd = "Auto-Add"
)

func (p *Pipeline) decodeVehicle(ctx context.Context, r *run) (map[string]any, error) {
	if p.deps.Decoder == nil {
		return nil, notConfigured("VIN decoder")
	}
	v, err := p.deps.Decoder.DecodeVIN(ctx, r.req.VIN)
	if err != nil {
		return nil, err
	}
	if v == nil {
		return nil, model.ErrDecodeFailed
	}
	r.vehicle = v
	return map[string]any{
		"year":  v.Year,
		"make":  v.Make,
		"model": v.Model,
	}, nil
}

func (p *Pipeline) checkRecalls(ctx context.Context, r *run) (map[string]any, error) {
	if p.recalls == nil {
		return nil, notConfigured("recall source")
	}
	// On a fetch failure res is an empty result, reported as no open recalls.
	res, err := p.recalls.Check(ctx, r.req.VIN, r.req.ServiceRequest)
	r.recall = res
	if err != nil {
		return nil, err
	}
	if res.Flag != nil {
		r.flag(recallCheck, *res.Flag)
	}
	return map[string]any{
		"open_recalls":     res.OpenCount,
		"matching_recalls": res.MatchingCount,
	}, nil
}

// checkWarranty runs after decodeVehicle in the same goroutine.
func (p *Pipeline) checkWarranty(r *run) (map[string]any, error) {
	switch {
	case r.req.Mileage <= 0:
		return nil, skip("no odometer reading")
	case r.vehicle == nil:
		return nil, skip("vehicle not decoded")
	case r.vehicle.Year <= 0:
		return nil, skip("vehicle year unknown")
	}

	res := p.warranty.Check(r.vehicle.Year, r.vehicle.Make, r.req.Mileage, r.req.ServiceRequest)
	r.warranty = res
	if res.Flag != nil {
		r.flag(warrantyCheck, *res.Flag)
	}
	return map[string]any{
		"vehicle_age_years":     res.VehicleAgeYears,
		"likely_under_warranty": res.LikelyUnderWarranty,
		"alerts":                len(res.Alerts),
	}, nil
}

func (p *Pipeline) lookupLabor(ctx context.Context, r *run) (map[string]any, error) {
	if p.deps.Labor == nil {
		return nil, notConfigured("labor guide")
	}
	lt, err := p.deps.Labor.GetLaborTime(ctx, r.req.VIN, r.req.ServiceRequest)
	if err != nil {
		return nil, err
	}
	if lt == nil {
		return nil, model.ErrNoLaborTime
	}

	line := model.LaborLine{
		Description: lt.Description,
		Hours:       lt.Hours,
		Rate:        r.req.LaborRate,
	}
	line.Total = calc.LaborLineTotal(line)
	r.labor = []model.LaborLine{line}

	return map[string]any{
		"hours":      lt.Hours.String(),
		"source":     lt.Source,
		"category":   lt.Category,
		"difficulty": lt.Difficulty,
	}, nil
}

func (p *Pipeline) searchParts(ctx context.Context, r *run) (map[string]any, error) {
	if p.deps.Parts == nil {
		return nil, notConfigured("parts catalog")
	}
	found, err := p.deps.Parts.SearchParts(ctx, r.req.VIN, r.req.ServiceRequest)
	if err != nil {
		return nil, err
	}

	r.parts = make([]model.PartLine, 0, len(found))
	for _, c := range found {
		line := model.PartLine{
			Description:   c.Description,
			PartNumber:    c.PartNumber,
			Quantity:      decimal.NewFromInt(1),
			UnitCost:      c.Price,
			MarkupPercent: r.req.PartsMarkup,
			Vendor:        c.Manufacturer,
		}
		if line.Vendor == "" {
			line.Vendor = VendorUnknown
		}
		line.Total = calc.PartLineTotal(line)
		r.parts = append(r.parts, line)
	}
	return map[string]any{"parts_found": len(found)}, nil
}

// compareVendors ranks vendor offers and back-fills the primary pick into
// unpriced lines. Lines still unpriced afterwards raise one flag.
func (p *Pipeline) compareVendors(ctx context.Context, r *run) (map[string]any, error) {
	defer r.flagUnpriced()

	var queries []vendor.PartQuery
	for _, l := range r.parts {
		if l.PartNumber != "" {
			queries = append(queries, vendor.PartQuery{PartNumber: l.PartNumber, Description: l.Description})
		}
	}
	if len(queries) == 0 {
		return nil, skip("no part numbers to compare")
	}
	if p.deps.Offers == nil {
		return nil, notConfigured("vendor offer source")
	}

	cmp, err := vendor.CompareVendors(ctx, p.deps.Offers, queries, r.req.VendorWeights)
	if err != nil {
		return nil, err
	}
	r.comparison = cmp

	backfilled := 0
	for i := range r.parts {
		line := &r.parts[i]
		if !line.UnitCost.IsZero() {
			continue
		}
		pick, ok := cmp.Primary(line.PartNumber)
		if !ok {
			continue
		}
		line.UnitCost = pick.Price
		line.Vendor = pick.Vendor
		line.Total = calc.PartLineTotal(*line)
		backfilled++
	}

	return map[string]any{
		"parts_compared": len(cmp.Parts),
		"unmatched":      len(cmp.Unmatched),
		"backfilled":     backfilled,
	}, nil
}

func (r *run) flagUnpriced() {
	var missing []string
	for _, l := range r.parts {
		if !l.UnitCost.IsZero() {
			continue
		}
		label := l.Description
		if l.PartNumber != "" {
			label += " (" + l.PartNumber + ")"
		}
		missing = append(missing, label)
	}
	if len(missing) == 0 {
		return
	}
	r.flag(vendorCompare, model.Flag{
		Type:    model.FlagYellow,
		Title:   "PRICE REQUIRED",
		Message: fmt.Sprintf("%d part(s) have no price from the catalog or any vendor", len(missing)),
		Action:  "Enter a price before sending the estimate to the customer",
		Details: strings.Join(missing, "; "),
	})
}

// detectConditions tags searched part lines in place.
func (p *Pipeline) detectConditions(r *run) (map[string]any, error) {
	if len(r.parts) == 0 {
		return nil, skip("no parts to check")
	}
	rep := condition.ProcessPartsList(r.parts)
	for i, tp := range rep.Parts {
		r.parts[i] = tp.Line
	}
	r.conditions = rep
	if rep.Flag != nil {
		r.flag(partCondition, *rep.Flag)
	}
	return map[string]any{
		"auto_detected":   rep.Summary.AutoDetected,
		"requires_review": rep.Summary.RequiresReview,
	}, nil
}

func (p *Pipeline) detectAddOns(r *run) (map[string]any, error) {
	procedures := make([]string, len(r.labor))
	for i, l := range r.labor {
		procedures[i] = l.Description
	}

	res := p.addons.Detect(r.req.ServiceRequest, procedures)
	r.addons = res
	for _, a := range res.Items {
		line := model.PartLine{
			Description:   a.PartName,
			PartNumber:    a.PartNumber,
			Quantity:      decimal.NewFromInt(int64(a.Quantity)),
			UnitCost:      a.Price,
			MarkupPercent: decimal.Zero,
			Vendor:        VendorAutoAdd,
			ReasonBadge:   a.ReasonBadge,
		}
		line.Total = calc.PartLineTotal(line)
		r.addonLines = append(r.addonLines, line)

		r.flag(addOnDetection, model.Flag{
			Type:    model.FlagInfo,
			Title:   "AUTO ADD-ON",
			Message: fmt.Sprintf("Added %s: %s", a.PartName, a.Reason),
		})
	}
	return map[string]any{
		"matched_rules": res.MatchedRules,
		"addons":        len(res.Items),
	}, nil
}

func (p *Pipeline) calculate(r *run) (map[string]any, error) {
	parts := make([]model.PartLine, 0, len(r.parts)+len(r.addonLines))
	parts = append(parts, r.parts...)
	parts = append(parts, r.addonLines...)

	b, err := calc.CalculateEstimate(r.labor, parts, r.jobType, r.req.TaxRate, r.req.IncludeCleaningKit)
	if err != nil {
		return nil, err
	}
	r.breakdown = b
	return map[string]any{
		"job_type": r.jobType,
		"total":    b.Total.StringFixed(2),
	}, nil
}
