package cmd

import (
	"github.com/relloyd/airpipe/actions"
	"github.com/relloyd/airpipe/constants"
	"github.com/spf13/cobra"
)

var fetchCmd = &cobra.Command{
	Use:   "fetch",
	Short: "Download dated listing snapshots over HTTP",
	Long: `Download the CSV listing snapshot for each date in the dates CSV.

- The URL template is expanded once per date by replacing ${date}.
- A failed download logs a warning, skips that date and carries on.
- Raw files are written to the data directory using the raw file name pattern.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		return runFetch()
	},
}

var fetchCfg = actions.FetchConfig{}

func runFetch() error {
	fetchCfg.StackDumpOnPanic = stackDumpOnPanic
	return actions.RunFetch(&fetchCfg)
}

func init() {
	rootCmd.AddCommand(fetchCmd)
	fetchCmd.Flags().SortFlags = false
	switches.addFlag(fetchCmd, &fetchCfg.Dates, "dates", constants.DefaultSnapshotDates, false, "")
	switches.addFlag(fetchCmd, &fetchCfg.OutputDirectory, "dir", constants.DefaultScratchDir, false, "")
	switches.addFlag(fetchCmd, &fetchCfg.UrlTemplate, "url-template", constants.DefaultUrlTemplate, false, "")
	switches.addFlag(fetchCmd, &fetchCfg.FilePattern, "raw-pattern", constants.DefaultRawFilePattern, false, "")
	switches.addFlag(fetchCmd, &fetchCfg.LogLevel, "log-level", "info", false, "")
	switches.addFlag(fetchCmd, &fetchCfg.Output, "output", "", false, "")
	switches.addFlag(fetchCmd, &fetchCfg.StatsDumpFrequencySeconds, "stats", "5", false, "")
}
