package cmd

import (
	"github.com/relloyd/airpipe/actions"
	"github.com/relloyd/airpipe/constants"
	"github.com/spf13/cobra"
)

var loadCfg = actions.LoadConfig{}

var loadCmd = &cobra.Command{
	Use:   "load " + dbArgsDefinitionTxt,
	Short: "Bulk load the normalized snapshots into Postgres",
	Long: `Bulk load the normalized snapshot file for each date into the listings table
using COPY.

- Rows loaded earlier on the same calendar day are purged first and the purge
  commits on its own, so a rerun replaces its own output.
- All files then load in one transaction; any failure rolls the whole load back.
- Same-day runs against the same table queue behind an advisory lock.`,
	Args: getConnectionArgsFunc(&loadCfg.SourceString, ""),
	RunE: func(cmd *cobra.Command, args []string) error {
		return runLoad()
	},
}

func runLoad() error {
	loadCfg.Connections = getConnectionLoader()
	loadCfg.StackDumpOnPanic = stackDumpOnPanic
	return actions.RunLoad(&loadCfg)
}

func init() {
	rootCmd.AddCommand(loadCmd)
	loadCmd.Flags().SortFlags = false
	switches.addFlag(loadCmd, &loadCfg.Dates, "dates", constants.DefaultSnapshotDates, false, "")
	switches.addFlag(loadCmd, &loadCfg.Directory, "dir", constants.DefaultScratchDir, false, "")
	switches.addFlag(loadCmd, &loadCfg.ProcessedPattern, "processed-pattern", constants.DefaultProcessedPattern, false, "")
	switches.addFlag(loadCmd, &loadCfg.SchemaTable.SchemaTable, "table", constants.DefaultTableName, false, "")
	switches.addFlag(loadCmd, &loadCfg.LogLevel, "log-level", "info", false, "")
	switches.addFlag(loadCmd, &loadCfg.Output, "output", "", false, "")
	switches.addFlag(loadCmd, &loadCfg.StatsDumpFrequencySeconds, "stats", "5", false, "")
}
