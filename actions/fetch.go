package actions

import (
	"fmt"

	"github.com/relloyd/airpipe/components"
	"github.com/relloyd/airpipe/helper"
	"github.com/relloyd/airpipe/logger"
	"github.com/relloyd/airpipe/pipeline"
	"github.com/relloyd/airpipe/stats"
	"golang.org/x/net/context"
)

type FetchConfig struct {
	Dates                     string `errorTxt:"snapshot dates CSV" mandatory:"yes"`
	OutputDirectory           string `errorTxt:"output directory" mandatory:"yes"`
	UrlTemplate               string `errorTxt:"url template" mandatory:"yes"`
	FilePattern               string `errorTxt:"raw file pattern" mandatory:"yes"`
	Output                    string
	LogLevel                  string `errorTxt:"log level" mandatory:"yes"`
	StackDumpOnPanic          bool
	StatsDumpFrequencySeconds int
}

const (
	stepNameFetch    = "fetch"
	descriptionFetch = "download dated listing snapshots over HTTP"
)

// getFetchStep builds the pipeline step that downloads dated snapshot CSVs.
// Snapshots that fail to download are skipped so later steps see the dates
// that really arrived.
func getFetchStep(log logger.Logger, s pipeline.StatsManager, dates []string, directory string, urlTemplate string, filePattern string) pipeline.Step {
	return pipeline.Step{
		Name:        stepNameFetch,
		Description: fmt.Sprintf("download %v dated snapshot CSV files to %v", len(dates), directory),
		Run: func(ctx context.Context) error {
			_, err := components.RunHttpDownload(ctx, &components.HttpDownloadConfig{
				Log:             log,
				Name:            stepNameFetch,
				UrlTemplate:     urlTemplate,
				Dates:           dates,
				OutputDirectory: directory,
				FilePattern:     filePattern,
				StepWatcher:     s.AddStepWatcher(stepNameFetch),
			})
			return err
		},
	}
}

// RunFetch downloads the configured snapshot dates as a one-step pipeline.
func RunFetch(cfg *FetchConfig) error {
	if cfg.Output != "" { // if the user wants the plan on STDOUT...
		cfg.LogLevel = "error"
	}
	log := logger.NewLogger("airpipe", cfg.LogLevel, cfg.StackDumpOnPanic)
	if err := helper.ValidateStructIsPopulated(cfg); err != nil {
		return err
	}
	dates, err := parseSnapshotDates(cfg.Dates)
	if err != nil {
		return err
	}
	s := stats.NewPipelineStats(log, stats.SetStatsDumpFrequency(cfg.StatsDumpFrequencySeconds))
	p := pipeline.NewPipeline(log, s, getFetchStep(log, s, dates, cfg.OutputDirectory, cfg.UrlTemplate, cfg.FilePattern))
	if cfg.Output != "" { // if we should print the plan instead of executing...
		return outputPipelinePlan(log, p.Plan(descriptionFetch), cfg.Output)
	}
	return launchPipeline(log, p, s)
}
