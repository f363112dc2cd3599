package actions

import (
	"github.com/relloyd/airpipe/aws/s3"
	"github.com/relloyd/airpipe/helper"
	"github.com/relloyd/airpipe/logger"
	"github.com/relloyd/airpipe/pipeline"
	"github.com/relloyd/airpipe/rdbms"
	"github.com/relloyd/airpipe/stats"
	tabledefinition "github.com/relloyd/airpipe/table-definition"
)

type RunConfig struct {
	Connections               ConnectionLoader
	SourceString              ConnectionObject
	TargetString              ConnectionObject
	SchemaTable               rdbms.SchemaTable
	Dates                     string `errorTxt:"snapshot date(s) CSV" mandatory:"yes"`
	Directory                 string `errorTxt:"data directory" mandatory:"yes"`
	UrlTemplate               string `errorTxt:"url template" mandatory:"yes"`
	RawPattern                string `errorTxt:"raw file name pattern" mandatory:"yes"`
	ProcessedPattern          string `errorTxt:"processed file name pattern" mandatory:"yes"`
	Sqltext                   string `errorTxt:"SQL text" mandatory:"yes"`
	KeyName                   string `errorTxt:"S3 key name" mandatory:"yes"`
	RunDate                   string
	S3Client                  s3.BufferPutter
	Output                    string
	LogLevel                  string `errorTxt:"log level" mandatory:"yes"`
	StackDumpOnPanic          bool
	StatsDumpFrequencySeconds int
}

const descriptionRun = "daily listings pipeline"

// RunDailyPipeline executes the full daily chain in order: fetch the dated
// snapshots, normalize them, recreate the listings table, load the normalized
// files and export the query results to S3. The steps share one database
// connection and the chain stops at the first step that fails.
func RunDailyPipeline(cfg *RunConfig) error {
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
	runDate, err := resolveRunDate(cfg.RunDate)
	if err != nil {
		return err
	}
	keyName := cfg.KeyName
	mustReplaceInStringUsingMapKeyVals(&keyName, map[string]string{"${ds}": runDate})
	sqltext := tabledefinition.Listings.RecreateDDL(cfg.SchemaTable)
	s := stats.NewPipelineStats(log, stats.SetStatsDumpFrequency(cfg.StatsDumpFrequencySeconds))
	if cfg.Output != "" { // if we should print the plan instead of executing...
		p := pipeline.NewPipeline(log, s,
			getFetchStep(log, s, dates, cfg.Directory, cfg.UrlTemplate, cfg.RawPattern),
			getNormalizeStep(log, s, dates, cfg.Directory, cfg.RawPattern, cfg.ProcessedPattern),
			getTableRecreateStep(log, s, nil, sqltext),
			getLoadStep(log, s, nil, cfg.SchemaTable.String(), files),
			getExportStep(log, s, nil, &s3.AwsS3Bucket{}, keyName, cfg.Sqltext, nil))
		return outputPipelinePlan(log, p.Plan(descriptionRun), cfg.Output)
	}
	// Connect to the database once; table-recreate, load and export share it.
	conn, err := cfg.Connections.LoadConnection(cfg.SourceString.GetConnectionName())
	if err != nil {
		return err
	}
	db, err := rdbms.OpenDbConnection(log, conn)
	if err != nil {
		return err
	}
	defer db.Close()
	// Fetch the target bucket details.
	connTarget, err := cfg.Connections.LoadConnection(cfg.TargetString.GetConnectionName())
	if err != nil {
		return err
	}
	bucket := s3.NewAwsBucket(&connTarget)
	if tmp := cfg.TargetString.GetObject(); tmp != "" { // if the connection argument carries a prefix...
		bucket.Prefix = tmp
	}
	p := pipeline.NewPipeline(log, s,
		getFetchStep(log, s, dates, cfg.Directory, cfg.UrlTemplate, cfg.RawPattern),
		getNormalizeStep(log, s, dates, cfg.Directory, cfg.RawPattern, cfg.ProcessedPattern),
		getTableRecreateStep(log, s, db, sqltext),
		getLoadStep(log, s, db, cfg.SchemaTable.String(), files),
		getExportStep(log, s, db, bucket, keyName, cfg.Sqltext, cfg.S3Client))
	return launchPipeline(log, p, s)
}
