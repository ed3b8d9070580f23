package pipeline

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/rotisserie/eris"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/estimaro/estimator/internal/addon"
	"github.com/estimaro/estimator/internal/calc"
	"github.com/estimaro/estimator/internal/condition"
	"github.com/estimaro/estimator/internal/config"
	"github.com/estimaro/estimator/internal/model"
	"github.com/estimaro/estimator/internal/recall"
	"github.com/estimaro/estimator/internal/vendor"
	"github.com/estimaro/estimator/internal/warranty"
)

// VINDecoder decodes a VIN into vehicle details.
type VINDecoder interface {
	DecodeVIN(ctx context.Context, vin string) (*model.VehicleInfo, error)
}

// LaborGuide looks up book labor time for a job. A nil result with no error
// means the guide has no entry.
type LaborGuide interface {
	GetLaborTime(ctx context.Context, vin, serviceRequest string) (*model.LaborTime, error)
}

// PartsCatalog searches for the parts a job needs.
type PartsCatalog interface {
	SearchParts(ctx context.Context, vin, serviceRequest string) ([]model.PartCandidate, error)
}

// Deps are the external collaborators. A nil collaborator fails its step.
type Deps struct {
	Decoder VINDecoder
	Recalls recall.Source
	Labor   LaborGuide
	Parts   PartsCatalog
	Offers  vendor.OfferSource
}

// Pipeline generates estimates. It holds no per-run state and is safe for
// concurrent use.
type Pipeline struct {
	deps     Deps
	defaults model.RequestDefaults
	rules    []addon.Rule
	now      func() time.Time

	recalls  *recall.Checker
	warranty *warranty.Checker
	addons   *addon.Detector
}

// Option configures a Pipeline.
type Option func(*Pipeline)

// WithAddOnRules replaces the add-on rule table.
func WithAddOnRules(rules []addon.Rule) Option {
	return func(p *Pipeline) { p.rules = rules }
}

// WithClock sets the clock used for vehicle age.
func WithClock(now func() time.Time) Option {
	return func(p *Pipeline) { p.now = now }
}

// New creates a Pipeline. Shop defaults and the optional add-on rule file
// come from cfg; a nil cfg uses built-in defaults.
func New(cfg *config.Config, deps Deps, opts ...Option) (*Pipeline, error) {
	p := &Pipeline{
		deps:     deps,
		defaults: model.DefaultRequestDefaults(),
		now:      time.Now,
	}
	if cfg != nil {
		p.defaults = cfg.Estimate.RequestDefaults()
		if path := cfg.Estimate.AddOnRulesPath; path != "" {
			rules, err := addon.LoadRules(path)
			if err != nil {
				return nil, eris.Wrap(err, "pipeline: load add-on rules")
			}
			p.rules = rules
		}
	}
	for _, opt := range opts {
		opt(p)
	}

	p.addons = addon.NewDetector(p.rules)
	p.warranty = warranty.NewChecker(warranty.WithClock(p.now))
	if deps.Recalls != nil {
		p.recalls = recall.NewChecker(deps.Recalls)
	}
	return p, nil
}

// run is the state of one in-flight estimate. Every step writes only to its
// own slots, so phase 1 goroutines never share a field.
type run struct {
	req model.Resolved
	log *zap.Logger

	records [numSteps]model.StepResult
	flags   [numSteps][]model.Flag
	errs    [numSteps]string

	vehicle    *model.VehicleInfo
	recall     *recall.Result
	warranty   *warranty.Result
	labor      []model.LaborLine
	parts      []model.PartLine
	comparison *vendor.Comparison
	conditions *condition.Report
	addons     *addon.Result
	addonLines []model.PartLine
	breakdown  *model.Breakdown
	jobType    string
}

// skipError marks a step that did not apply to this run.
type skipError struct{ reason string }

func (e *skipError) Error() string { return e.reason }

func skip(reason string) error { return &skipError{reason: reason} }

func notConfigured(what string) error {
	return eris.Errorf("pipeline: no %s configured", what)
}

// track runs one step and records its outcome in the step's slot.
func (r *run) track(id stepID, fn func() (map[string]any, error)) {
	name := stepNames[id]
	start := time.Now()

	var (
		meta map[string]any
		err  error
	)
	func() {
		defer func() {
			if rec := recover(); rec != nil {
				err = eris.Errorf("pipeline: %s panicked: %v", name, rec)
			}
		}()
		meta, err = fn()
	}()

	duration := time.Since(start).Milliseconds()
	rec := model.StepResult{
		Name:     name,
		Critical: id.critical(),
		Duration: duration,
		Metadata: meta,
	}

	var sk *skipError
	switch {
	case errors.As(err, &sk):
		rec.Status = model.StepStatusSkipped
		if rec.Metadata == nil {
			rec.Metadata = map[string]any{}
		}
		rec.Metadata["reason"] = sk.reason
		r.log.Info("pipeline: step skipped", zap.String("step", name), zap.String("reason", sk.reason))
	case err != nil:
		rec.Status = model.StepStatusFailed
		rec.Error = err.Error()
		switch {
		case id.critical():
			r.errs[id] = fmt.Sprintf("[critical] %s: %s", name, err.Error())
		case id == calculation:
			r.errs[id] = fmt.Sprintf("%s: %s", name, err.Error())
		}
		r.log.Error("pipeline: step failed",
			zap.String("step", name),
			zap.Bool("critical", id.critical()),
			zap.Int64("duration_ms", duration),
			zap.Error(err),
		)
	default:
		rec.Status = model.StepStatusComplete
		r.log.Info("pipeline: step complete",
			zap.String("step", name),
			zap.Int64("duration_ms", duration),
		)
	}
	r.records[id] = rec
}

func (r *run) flag(id stepID, f model.Flag) {
	r.flags[id] = append(r.flags[id], f)
}

// Run generates an estimate. The only error returned is a
// *model.ValidationError for a malformed request; step failures are recorded
// in the Result.
func (p *Pipeline) Run(ctx context.Context, req model.EstimateRequest) (*Result, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}

	start := time.Now()
	runID := uuid.NewString()
	r := &run{
		req:     req.Resolve(p.defaults),
		jobType: calc.DetectJobType(req.ServiceRequest),
	}
	r.log = zap.L().With(zap.String("run_id", runID), zap.String("vin", r.req.VIN))
	r.log.Info("pipeline: starting estimate", zap.String("job_type", r.jobType))

	// Phase 1: collaborator lookups. Warranty waits on the decoded vehicle.
	g, gCtx := errgroup.WithContext(ctx)
	g.Go(func() error {
		r.track(vehicleDecode, func() (map[string]any, error) { return p.decodeVehicle(gCtx, r) })
		r.track(warrantyCheck, func() (map[string]any, error) { return p.checkWarranty(r) })
		return nil
	})
	g.Go(func() error {
		r.track(recallCheck, func() (map[string]any, error) { return p.checkRecalls(gCtx, r) })
		return nil
	})
	g.Go(func() error {
		r.track(laborLookup, func() (map[string]any, error) { return p.lookupLabor(gCtx, r) })
		return nil
	})
	g.Go(func() error {
		r.track(partsSearch, func() (map[string]any, error) { return p.searchParts(gCtx, r) })
		return nil
	})
	_ = g.Wait()

	// Phase 2: decisions over the gathered data, in order.
	r.track(vendorCompare, func() (map[string]any, error) { return p.compareVendors(ctx, r) })
	r.track(partCondition, func() (map[string]any, error) { return p.detectConditions(r) })
	r.track(addOnDetection, func() (map[string]any, error) { return p.detectAddOns(r) })
	r.track(calculation, func() (map[string]any, error) { return p.calculate(r) })

	res := r.assemble(runID)
	res.DurationMs = time.Since(start).Milliseconds()

	r.log.Info("pipeline: estimate complete",
		zap.Bool("success", res.Success),
		zap.Int("confidence", res.Confidence.Score),
		zap.String("threshold", res.Confidence.Threshold),
		zap.Int("flags", len(res.Flags)),
		zap.Int64("duration_ms", res.DurationMs),
	)
	return res, nil
}

func (r *run) assemble(runID string) *Result {
	res := &Result{
		RunID:   runID,
		Steps:   make([]model.StepResult, 0, numSteps),
		Flags:   []model.Flag{},
		Errors:  []string{},
		Success: true,
		Customer: Customer{
			Name:  r.req.CustomerName,
			Phone: r.req.CustomerPhone,
			Email: r.req.CustomerEmail,
		},
	}

	for id := stepID(0); id < numSteps; id++ {
		rec := r.records[id]
		res.Steps = append(res.Steps, rec)
		res.Flags = append(res.Flags, r.flags[id]...)
		if r.errs[id] != "" {
			res.Errors = append(res.Errors, r.errs[id])
		}
		if rec.Critical && rec.Failed() {
			res.Success = false
		}
	}

	parts := make([]model.PartLine, 0, len(r.parts)+len(r.addonLines))
	parts = append(parts, r.parts...)
	parts = append(parts, r.addonLines...)
	labor := r.labor
	if labor == nil {
		labor = []model.LaborLine{}
	}

	res.Estimate = Estimate{
		Vehicle:          r.vehicle,
		LaborItems:       labor,
		PartItems:        parts,
		VendorComparison: r.comparison,
		PartConditions:   r.conditions,
		AddOns:           r.addons,
		Breakdown:        r.breakdown,
		RecallCheck:      r.recall,
		WarrantyCheck:    r.warranty,
		JobType:          r.jobType,
	}
	res.Confidence = ScoreConfidence(res.Steps, res.Flags)
	return res
}
