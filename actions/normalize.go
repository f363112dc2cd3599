package actions

import (
	"github.com/relloyd/airpipe/components"
	"github.com/relloyd/airpipe/constants"
	"github.com/relloyd/airpipe/helper"
	"github.com/relloyd/airpipe/logger"
	"github.com/relloyd/airpipe/pipeline"
	"github.com/relloyd/airpipe/stats"
	tabledefinition "github.com/relloyd/airpipe/table-definition"
	"golang.org/x/net/context"
)

type NormalizeConfig struct {
	Dates                     string `errorTxt:"snapshot dates CSV" mandatory:"yes"`
	Directory                 string `errorTxt:"scratch directory" mandatory:"yes"`
	RawPattern                string `errorTxt:"raw file pattern" mandatory:"yes"`
	ProcessedPattern          string `errorTxt:"processed file pattern" mandatory:"yes"`
	Output                    string
	LogLevel                  string `errorTxt:"log level" mandatory:"yes"`
	StackDumpOnPanic          bool
	StatsDumpFrequencySeconds int
}

const (
	stepNameNormalize    = "normalize"
	descriptionNormalize = "rewrite raw snapshots into canonical CSV files ready for COPY"
)

// getNormalizeStep builds the pipeline step that rewrites raw snapshot CSVs into
// the canonical column order used by the listings table, with empty values
// replaced by the null token.
func getNormalizeStep(log logger.Logger, s pipeline.StatsManager, dates []string, directory string, rawPattern string, processedPattern string) pipeline.Step {
	return pipeline.Step{
		Name:        stepNameNormalize,
		Description: descriptionNormalize,
		Run: func(ctx context.Context) error {
			_, err := components.RunCsvNormalize(&components.CsvNormalizeConfig{
				Log:              log,
				Name:             stepNameNormalize,
				Dates:            dates,
				Directory:        directory,
				RawPattern:       rawPattern,
				ProcessedPattern: processedPattern,
				Columns:          tabledefinition.Listings.CopyColumns(),
				NullToken:        constants.DefaultNullToken,
				StepWatcher:      s.AddStepWatcher(stepNameNormalize),
			})
			return err
		},
	}
}

// RunNormalize rewrites the raw snapshot files for the configured dates as a
// one-step pipeline.
func RunNormalize(cfg *NormalizeConfig) error {
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
	p := pipeline.NewPipeline(log, s, getNormalizeStep(log, s, dates, cfg.Directory, cfg.RawPattern, cfg.ProcessedPattern))
	if cfg.Output != "" { // if we should print the plan instead of executing...
		return outputPipelinePlan(log, p.Plan(descriptionNormalize), cfg.Output)
	}
	return launchPipeline(log, p, s)
}
