package actions

import (
	"fmt"

	"github.com/relloyd/airpipe/components"
	"github.com/relloyd/airpipe/helper"
	"github.com/relloyd/airpipe/logger"
	"github.com/relloyd/airpipe/pipeline"
	"github.com/relloyd/airpipe/rdbms"
	"github.com/relloyd/airpipe/rdbms/shared"
	"github.com/relloyd/airpipe/stats"
	tabledefinition "github.com/relloyd/airpipe/table-definition"
	"golang.org/x/net/context"
)

type TableRecreateConfig struct {
	Connections               ConnectionLoader
	SourceString              ConnectionObject
	SchemaTable               rdbms.SchemaTable
	Output                    string
	LogLevel                  string `errorTxt:"log level" mandatory:"yes"`
	StackDumpOnPanic          bool
	StatsDumpFrequencySeconds int
}

const (
	stepNameTableRecreate    = "table-recreate"
	descriptionTableRecreate = "drop and recreate the listings table from its fixed definition"
)

// getTableRecreateStep builds the pipeline step that executes the supplied DDL
// statements in order.
func getTableRecreateStep(log logger.Logger, s pipeline.StatsManager, db shared.Connector, sqltext []string) pipeline.Step {
	return pipeline.Step{
		Name:        stepNameTableRecreate,
		Description: descriptionTableRecreate,
		Run: func(ctx context.Context) error {
			return components.ExecSql(ctx, &components.SqlExecConfig{
				Log:         log,
				Name:        stepNameTableRecreate,
				OutputDb:    db,
				Sqltext:     sqltext,
				StepWatcher: s.AddStepWatcher(stepNameTableRecreate),
			})
		},
	}
}

// RunTableRecreate drops and recreates the listings table on the configured
// connection. The table name defaults from flags and may be overridden by the
// object part of the connection argument.
func RunTableRecreate(cfg *TableRecreateConfig) error {
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
	sqltext := tabledefinition.Listings.RecreateDDL(cfg.SchemaTable)
	s := stats.NewPipelineStats(log, stats.SetStatsDumpFrequency(cfg.StatsDumpFrequencySeconds))
	if cfg.Output != "" { // if we should print the plan instead of executing...
		p := pipeline.NewPipeline(log, s, getTableRecreateStep(log, s, nil, sqltext))
		return outputPipelinePlan(log, p.Plan(fmt.Sprintf("recreate table %v", cfg.SchemaTable.String())), cfg.Output)
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
	p := pipeline.NewPipeline(log, s, getTableRecreateStep(log, s, db, sqltext))
	return launchPipeline(log, p, s)
}
