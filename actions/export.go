package actions

import (
	"fmt"

	"github.com/relloyd/airpipe/aws/s3"
	"github.com/relloyd/airpipe/components"
	"github.com/relloyd/airpipe/helper"
	"github.com/relloyd/airpipe/logger"
	"github.com/relloyd/airpipe/pipeline"
	"github.com/relloyd/airpipe/rdbms"
	"github.com/relloyd/airpipe/rdbms/shared"
	"github.com/relloyd/airpipe/stats"
	"golang.org/x/net/context"
)

type ExportConfig struct {
	Connections               ConnectionLoader
	SourceString              ConnectionObject
	TargetString              ConnectionObject
	Sqltext                   string `errorTxt:"SQL text" mandatory:"yes"`
	KeyName                   string `errorTxt:"S3 key name" mandatory:"yes"`
	RunDate                   string
	S3Client                  s3.BufferPutter
	Output                    string
	LogLevel                  string `errorTxt:"log level" mandatory:"yes"`
	StackDumpOnPanic          bool
	StatsDumpFrequencySeconds int
}

const (
	stepNameExport    = "export"
	descriptionExport = "run the export query and upload the result set to S3 as CSV"
)

// getExportStep builds the pipeline step that runs the query against db and
// uploads the result set to the bucket key, replacing any existing object.
func getExportStep(log logger.Logger, s pipeline.StatsManager, db shared.Connector, bucket *s3.AwsS3Bucket, keyName string, sqltext string, client s3.BufferPutter) pipeline.Step {
	return pipeline.Step{
		Name:        stepNameExport,
		Description: descriptionExport,
		Run: func(ctx context.Context) error {
			_, err := components.RunQueryToS3(ctx, &components.QueryToS3Config{
				Log:          log,
				Name:         stepNameExport,
				Db:           db,
				Sqltext:      sqltext,
				BucketName:   bucket.Name,
				BucketPrefix: bucket.Prefix,
				Region:       bucket.Region,
				KeyName:      keyName,
				S3Client:     client,
				StepWatcher:  s.AddStepWatcher(stepNameExport),
			})
			return err
		},
	}
}

// RunExport executes the export query on the source connection and writes the
// full result set to the target bucket as a single CSV object. Tokens ${ds} in
// the key name are replaced with the run date so reruns overwrite the same key.
func RunExport(cfg *ExportConfig) error {
	if cfg.Output != "" { // if the user wants the plan on STDOUT...
		cfg.LogLevel = "error"
	}
	log := logger.NewLogger("airpipe", cfg.LogLevel, cfg.StackDumpOnPanic)
	if err := helper.ValidateStructIsPopulated(cfg); err != nil {
		return err
	}
	runDate, err := resolveRunDate(cfg.RunDate)
	if err != nil {
		return err
	}
	keyName := cfg.KeyName
	mustReplaceInStringUsingMapKeyVals(&keyName, map[string]string{"${ds}": runDate})
	s := stats.NewPipelineStats(log, stats.SetStatsDumpFrequency(cfg.StatsDumpFrequencySeconds))
	if cfg.Output != "" { // if we should print the plan instead of executing...
		p := pipeline.NewPipeline(log, s, getExportStep(log, s, nil, &s3.AwsS3Bucket{}, keyName, cfg.Sqltext, nil))
		return outputPipelinePlan(log, p.Plan(fmt.Sprintf("export query results to S3 key %v", keyName)), cfg.Output)
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
	// Fetch the target bucket details.
	connTarget, err := cfg.Connections.LoadConnection(cfg.TargetString.GetConnectionName())
	if err != nil {
		return err
	}
	bucket := s3.NewAwsBucket(&connTarget)
	if tmp := cfg.TargetString.GetObject(); tmp != "" { // if the connection argument carries a prefix...
		bucket.Prefix = tmp
	}
	p := pipeline.NewPipeline(log, s, getExportStep(log, s, db, bucket, keyName, cfg.Sqltext, cfg.S3Client))
	return launchPipeline(log, p, s)
}
