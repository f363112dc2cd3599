package cmd

import (
	"os"

	"github.com/aws/aws-lambda-go/lambda"
	"github.com/spf13/cobra"
)

var (
	// Default values may be set at compile time.
	version          = "0.1.0"
	buildDate        = "2021-01-02T03:04+0000"
	stackDumpOnPanic bool
)

var rootCmd = &cobra.Command{
	Use: "ap",
	Long: `
   _   _       ___ _
  /_\ (_)_ _  | _ (_)_ __  ___
 / _ \| | '_| |  _/ | '_ \/ -_)
/_/ \_\_|_|   |_| |_| .__/\___|
                    |_|

AirPipe is a DataOps utility for the daily listings feed. It downloads dated CSV
snapshots over HTTP, rewrites them into a canonical form, bulk loads Postgres via
COPY and exports query results to S3. Run the steps individually or chain them all
with the "run" command. Schedule it from cron, or set environment variables to
drive everything 12-factor style in containers and Lambda. Happy munging! 😄`,
}

func init() {
	// General setup.
	cobra.EnableCommandSorting = false
	// Global flags.
	rootCmd.PersistentFlags().BoolVar(&stackDumpOnPanic, "print-stack", false, "Print a stack dump if there is a panic")
	_ = rootCmd.PersistentFlags().MarkHidden("print-stack")
}

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called by main.main(). It only needs to happen once to the rootCmd.
func Execute() {
	if twelveFactorMode { // if we are running based on environment variables...
		if lambdaMode { // if we should handle lambda execution...
			lambda.Start(func() error { return execute12FactorMode(twelveFactorActions) })
		} else {
			if err := execute12FactorMode(twelveFactorActions); err != nil {
				// execute12FactorMode prints the error.
				os.Exit(1)
			}
		}
	} else { // else we're using CLI args and flags via Cobra...
		if err := rootCmd.Execute(); err != nil {
			// Execute() prints the error.
			os.Exit(1)
		}
	}
}
