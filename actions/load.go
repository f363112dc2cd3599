package actions

import (
	"fmt"

	"github.com/relloyd/airpipe/components"
	"github.com/relloyd/airpipe/constants"
	"github.com/relloyd/airpipe/helper"
	"github.com/relloyd/airpipe/logger"
	"github.com/relloyd/airpipe/pipeline"
	"github.com/relloyd/airpipe/rdbms"
	"github.com/relloyd/airpipe/rdbms/shared"
	"github.com/relloyd/airpipe/stats"
	tabledefinition "github.com/relloyd/airpipe/table-definition"
	"golang.org/x/net/context"
)

type LoadConfig struct {
	Connections               ConnectionLoader
	SourceString              ConnectionObject
	SchemaTable               rdbms.SchemaTable
	Dates                     string `errorTxt:"snapshot date(s) CSV" mandatory:"yes"`
	Directory                 string `errorTxt:"data directory" mandatory:"yes"`
	ProcessedPattern          string `errorTxt:"processed file name pattern" mandatory:"yes"`
	Output                    string
	LogLevel                  string `errorTxt:"log level" mandatory:"yes"`
	StackDumpOnPanic          bool
	StatsDumpFrequencySeconds int
}

const (
	stepNameLoad    = "load"
	descriptionLoad = "purge rows for the current load date and COPY the normalized snapshots"
)

// getLoadStep builds the pipeline step that purges today's rows from the table
// and bulk loads the given normalized files.
func getLoadStep(log logger.Logger, s pipeline.StatsManager, db shared.Connector, tableName string, files []string) pipeline.Step {
	return pipeline.Step{
		Name:        stepNameLoad,
		Description: descriptionLoad,
		Run: func(ctx context.Context) error {
			_, err := components.RunCopyIntoTable(ctx, &components.CopyIntoTableConfig{
				Log:         log,
				Name:        stepNameLoad,
				OutputDb:    db,
				TableName:   tableName,
				Columns:     tabledefinition.Listings.CopyColumns(),
				Files:       files,
				NullToken:   constants.DefaultNullToken,
				StepWatcher: s.AddStepWatcher(stepNameLoad),
			})
			return err
		},
	}
}

// RunLoad bulk loads the normalized snapshot files for the given dates into the
// listings table. Rows from an earlier run on the same calendar day are purged
// first so a rerun replaces its own output.
func RunLoad(cfg *LoadConfig) error {
	if cfg.Output != "" { // if the user wants the plan on STDOUT...
		cfg.LogLevel = "error"
	}
	log := logger.NewLogger("airpipe", cfg.LogLevel, cfg.StackDumpOnPanic)
	if tmp := cfg.SourceString.GetObject(); tmp != "" { // if the connection argument carries a table name...
		cfg.SchemaTable.SchemaTable = tmp
	}
	if err := helper.ValidateStructIsPopulated(cfg); err != nil {
		return err
	}
	dates, err := parseSnapshotDates(cfg.Dates)
	if err != nil {
		return err
	}
	files := getProcessedFileNames(cfg.Directory, cfg.ProcessedPattern, dates)
	s := stats.NewPipelineStats(log, stats.SetStatsDumpFrequency(cfg.StatsDumpFrequencySeconds))
	if cfg.Output != "" { // if we should print the plan instead of executing...
		p := pipeline.NewPipeline(log, s, getLoadStep(log, s, nil, cfg.SchemaTable.String(), files))
		return outputPipelinePlan(log, p.Plan(fmt.Sprintf("load %v file(s) into table %v", len(files), cfg.SchemaTable.String())), cfg.Output)
	}
	// Connect to the database.
	conn, err := cfg.Connections.LoadConnection(cfg.SourceString.GetConnectionName())
	if err != nil {
		return err
	}
	db, err := rdbms.OpenDbConnection(log, conn)
	if err != nil {
		return err
	}
	defer db.Close()
	p := pipeline.NewPipeline(log, s, getLoadStep(log, s, db, cfg.SchemaTable.String(), files))
	return launchPipeline(log, p, s)
}
