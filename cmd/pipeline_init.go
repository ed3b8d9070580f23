package main

import (
	"github.com/rotisserie/eris"
	"go.uber.org/zap"

	"github.com/estimaro/estimator/internal/collab"
	"github.com/estimaro/estimator/internal/config"
	"github.com/estimaro/estimator/internal/pipeline"
)

// pipelineEnv holds the pipeline and the collaborators behind it, as needed
// by the run and serve commands.
type pipelineEnv struct {
	Pipeline      *pipeline.Pipeline
	Collaborators *collab.Set
}

// initPipeline validates the configuration for mode, builds every
// collaborator and wires them into a Pipeline.
func initPipeline(c *config.Config, mode string) (*pipelineEnv, error) {
	if err := c.Validate(mode); err != nil {
		return nil, err
	}

	set, err := collab.Build(c)
	if err != nil {
		return nil, eris.Wrap(err, "init collaborators")
	}

	p, err := pipeline.New(c, set.Deps)
	if err != nil {
		return nil, eris.Wrap(err, "init pipeline")
	}

	zap.L().Info("pipeline initialized",
		zap.String("vin_adapter", c.Adapters.VIN),
		zap.String("labor_adapter", c.Adapters.Labor),
		zap.String("parts_adapter", c.Adapters.Parts),
		zap.String("vendor_adapter", c.Adapters.Vendors),
		zap.Bool("scraper", set.Scraper != nil),
	)

	return &pipelineEnv{Pipeline: p, Collaborators: set}, nil
}
