package pipeline

import (
	"github.com/relloyd/airpipe/logger"
	"github.com/relloyd/airpipe/stats"
	"golang.org/x/net/context"
)

// StatsManager abstracts stats capture for pipeline steps.
// TODO: make interfaces for the StepWatcher type in future when this breaks as this sucks!
type StatsManager interface {
	StartDumping()
	StopDumping()
	AddStepWatcher(stepName string) *stats.StepWatcher // TODO: remove dependency on struct in stats package.
}

// PipelineManager exposes a running pipeline to cleanup handlers.
type PipelineManager interface {
	getPipelineGuid() string
}

// CleanupHandlerFunc handles interrupts raised while a pipeline is running.
type CleanupHandlerFunc = func(log logger.Logger, p PipelineManager, s StatsManager, cancelFunc context.CancelFunc)
