package cmd

import (
	"github.com/spf13/cobra"
)

var tableCmd = &cobra.Command{
	Use:   "table",
	Short: "Manage the listings destination table",
	Long:  `Manage the fixed listings destination table in Postgres.`,
}

func init() {
	rootCmd.AddCommand(tableCmd)
	initTableRecreate()
}
