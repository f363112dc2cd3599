package pipeline

import (
	"fmt"

	"github.com/relloyd/airpipe/logger"
	"github.com/rs/xid"
	"golang.org/x/net/context"
)

// Step is one stage of a pipeline. Run funcs are expected to honour ctx
// cancellation and return promptly when it fires.
type Step struct {
	Name        string
	Description string
	Run         func(ctx context.Context) error
}

// Pipeline executes its steps strictly in order and fails fast on the first error.
type Pipeline struct {
	log   logger.Logger
	guid  string
	steps []Step
	stats StatsManager
}

// NewPipeline assigns a fresh GUID so concurrent pipelines are distinguishable in logs.
func NewPipeline(log logger.Logger, s StatsManager, steps ...Step) *Pipeline {
	return &Pipeline{
		log:   log,
		guid:  xid.New().String(),
		steps: steps,
		stats: s,
	}
}

func (p *Pipeline) getPipelineGuid() string {
	return p.guid
}

// Guid returns the id assigned when the pipeline was built.
func (p *Pipeline) Guid() string {
	return p.guid
}

// Run executes the pipeline steps in order. The first step error aborts the
// run and is returned wrapped with the step name. Steps that have not started
// are skipped once ctx is cancelled.
func (p *Pipeline) Run(ctx context.Context) error {
	p.log.Info("Launching pipeline ", p.guid)
	p.stats.StartDumping() // output stats for all pipeline steps.
	defer p.stats.StopDumping()
	for _, step := range p.steps {
		select {
		case <-ctx.Done():
			return ctx.Err()
		default:
		}
		p.log.Info("Executing step ", step.Name)
		if err := step.Run(ctx); err != nil {
			return fmt.Errorf("step %v failed: %w", step.Name, err)
		}
	}
	p.log.Info("Pipeline ", p.guid, " complete")
	return nil
}
