package cmd

import (
	"github.com/relloyd/airpipe/actions"
	"github.com/relloyd/airpipe/constants"
	"github.com/spf13/cobra"
)

var exportCfg = actions.ExportConfig{}

var exportCmd = &cobra.Command{
	Use:   "export " + argsDefinitionTxt,
	Short: "Run the export query and upload the result set to S3 as CSV",
	Long: `Execute the export query against the database connection and upload the full
result set to the bucket connection as one CSV object.

- The header row comes from the query result metadata and NULLs become empty fields.
- ${ds} in the S3 key is replaced by the run date so a rerun on the same day
  overwrites the same object.
- The optional object part of the bucket connection argument overrides its prefix.`,
	Args: getConnectionsArgsFunc(&exportCfg.SourceString, &exportCfg.TargetString, ""),
	RunE: func(cmd *cobra.Command, args []string) error {
		return runExport()
	},
}

func runExport() error {
	exportCfg.Connections = getConnectionLoader()
	exportCfg.StackDumpOnPanic = stackDumpOnPanic
	return actions.RunExport(&exportCfg)
}

func init() {
	rootCmd.AddCommand(exportCmd)
	exportCmd.Flags().SortFlags = false
	switches.addFlag(exportCmd, &exportCfg.Sqltext, "query", constants.DefaultExportQuery, false, "")
	switches.addFlag(exportCmd, &exportCfg.KeyName, "s3-key", constants.DefaultExportKeyTemplate, false, "")
	switches.addFlag(exportCmd, &exportCfg.RunDate, "run-date", "", false, "")
	switches.addFlag(exportCmd, &exportCfg.LogLevel, "log-level", "info", false, "")
	switches.addFlag(exportCmd, &exportCfg.Output, "output", "", false, "")
	switches.addFlag(exportCmd, &exportCfg.StatsDumpFrequencySeconds, "stats", "5", false, "")
}
