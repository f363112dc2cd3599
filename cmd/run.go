package cmd

import (
	"github.com/relloyd/airpipe/actions"
	"github.com/relloyd/airpipe/constants"
	"github.com/spf13/cobra"
)

var runCfg = actions.RunConfig{}

var runCmd = &cobra.Command{
	Use:   "run " + argsDefinitionTxt,
	Short: "Run the daily listings pipeline end to end",
	Long: `Run the five pipeline steps in order against the supplied connections:

  1. fetch           download a dated snapshot per configured date
  2. normalize       rewrite the raw snapshots into canonical CSV files
  3. table-recreate  drop and recreate the listings table
  4. load            purge today's rows and COPY the normalized files
  5. export          run the export query and upload the results to S3

Steps run one at a time and the first error aborts the remainder, except that
failed downloads are logged and skipped so a missing snapshot never stops the
run. The optional object parts of the connection arguments override the table
name and the bucket prefix.`,
	Args: getConnectionsArgsFunc(&runCfg.SourceString, &runCfg.TargetString, ""),
	RunE: func(cmd *cobra.Command, args []string) error {
		return runDailyPipeline()
	},
}

func runDailyPipeline() error {
	runCfg.Connections = getConnectionLoader()
	runCfg.StackDumpOnPanic = stackDumpOnPanic
	return actions.RunDailyPipeline(&runCfg)
}

func init() {
	rootCmd.AddCommand(runCmd)
	runCmd.Flags().SortFlags = false
	switches.addFlag(runCmd, &runCfg.Dates, "dates", constants.DefaultSnapshotDates, false, "")
	switches.addFlag(runCmd, &runCfg.Directory, "dir", constants.DefaultScratchDir, false, "")
	switches.addFlag(runCmd, &runCfg.UrlTemplate, "url-template", constants.DefaultUrlTemplate, false, "")
	switches.addFlag(runCmd, &runCfg.RawPattern, "raw-pattern", constants.DefaultRawFilePattern, false, "")
	switches.addFlag(runCmd, &runCfg.ProcessedPattern, "processed-pattern", constants.DefaultProcessedPattern, false, "")
	switches.addFlag(runCmd, &runCfg.SchemaTable.SchemaTable, "table", constants.DefaultTableName, false, "")
	switches.addFlag(runCmd, &runCfg.Sqltext, "query", constants.DefaultExportQuery, false, "")
	switches.addFlag(runCmd, &runCfg.KeyName, "s3-key", constants.DefaultExportKeyTemplate, false, "")
	switches.addFlag(runCmd, &runCfg.RunDate, "run-date", "", false, "")
	switches.addFlag(runCmd, &runCfg.LogLevel, "log-level", "info", false, "")
	switches.addFlag(runCmd, &runCfg.Output, "output", "", false, "")
	switches.addFlag(runCmd, &runCfg.StatsDumpFrequencySeconds, "stats", "5", false, "")
}
