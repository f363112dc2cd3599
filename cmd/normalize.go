package cmd

import (
	"github.com/relloyd/airpipe/actions"
	"github.com/relloyd/airpipe/constants"
	"github.com/spf13/cobra"
)

var normalizeCmd = &cobra.Command{
	Use:   "normalize",
	Short: "Rewrite raw snapshots into canonical CSV files ready for COPY",
	Long: `Rewrite the raw snapshot for each date into a canonical CSV file.

- Columns are matched by header name and written in the fixed table order.
- Empty fields become the Postgres NULL token and quoting is minimal.
- A missing raw file fails the step so upstream download skips are surfaced here.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		return runNormalize()
	},
}

var normalizeCfg = actions.NormalizeConfig{}

func runNormalize() error {
	normalizeCfg.StackDumpOnPanic = stackDumpOnPanic
	return actions.RunNormalize(&normalizeCfg)
}

func init() {
	rootCmd.AddCommand(normalizeCmd)
	normalizeCmd.Flags().SortFlags = false
	switches.addFlag(normalizeCmd, &normalizeCfg.Dates, "dates", constants.DefaultSnapshotDates, false, "")
	switches.addFlag(normalizeCmd, &normalizeCfg.Directory, "dir", constants.DefaultScratchDir, false, "")
	switches.addFlag(normalizeCmd, &normalizeCfg.RawPattern, "raw-pattern", constants.DefaultRawFilePattern, false, "")
	switches.addFlag(normalizeCmd, &normalizeCfg.ProcessedPattern, "processed-pattern", constants.DefaultProcessedPattern, false, "")
	switches.addFlag(normalizeCmd, &normalizeCfg.LogLevel, "log-level", "info", false, "")
	switches.addFlag(normalizeCmd, &normalizeCfg.Output, "output", "", false, "")
	switches.addFlag(normalizeCmd, &normalizeCfg.StatsDumpFrequencySeconds, "stats", "5", false, "")
}
