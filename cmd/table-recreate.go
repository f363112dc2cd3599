package cmd

import (
	"github.com/relloyd/airpipe/actions"
	"github.com/relloyd/airpipe/constants"
	"github.com/spf13/cobra"
)

var tableRecreateCfg = actions.TableRecreateConfig{}

var tableRecreateCmd = &cobra.Command{
	Use:   "recreate " + dbArgsDefinitionTxt,
	Short: "Drop and recreate the listings table",
	Long: `Drop and recreate the listings table from its fixed column definition.

All rows in the table are lost. The optional object part of the connection
argument overrides the table flag.`,
	Args: getConnectionArgsFunc(&tableRecreateCfg.SourceString, ""),
	RunE: func(cmd *cobra.Command, args []string) error {
		return runTableRecreate()
	},
}

func runTableRecreate() error {
	tableRecreateCfg.Connections = getConnectionLoader()
	tableRecreateCfg.StackDumpOnPanic = stackDumpOnPanic
	return actions.RunTableRecreate(&tableRecreateCfg)
}

func initTableRecreate() {
	tableCmd.AddCommand(tableRecreateCmd)
	tableRecreateCmd.Flags().SortFlags = false
	switches.addFlag(tableRecreateCmd, &tableRecreateCfg.SchemaTable.SchemaTable, "table", constants.DefaultTableName, false, "")
	switches.addFlag(tableRecreateCmd, &tableRecreateCfg.LogLevel, "log-level", "info", false, "")
	switches.addFlag(tableRecreateCmd, &tableRecreateCfg.Output, "output", "", false, "")
	switches.addFlag(tableRecreateCmd, &tableRecreateCfg.StatsDumpFrequencySeconds, "stats", "5", false, "")
}
