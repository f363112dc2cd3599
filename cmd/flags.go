package cmd

import (
	"errors"
	"fmt"
	"os"
	"reflect"
	"strconv"
	"strings"

	"github.com/relloyd/airpipe/actions"
	"github.com/relloyd/airpipe/config"
	"github.com/relloyd/airpipe/constants"
	"github.com/relloyd/airpipe/helper"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
)

const (
	argsDefinitionTxt   = "<db-connection>[.<table>] <bucket-connection>[.<prefix>]"
	dbArgsDefinitionTxt = "<db-connection>[.<table>]"
)

type cliFlag struct {
	name      string // name of flag
	val       string // default value
	shortHand string // single character name for the flag
	desc      string // description of the flag; the long text
}

type cliFlags map[string]cliFlag

var switches = cliFlags{
	"dates": cliFlag{name: "dates", shortHand: "d",
		desc: "CSV of snapshot dates formatted YYYY-MM-DD. Each date expands the \n" +
			"URL template and the file name patterns"},
	"dir": cliFlag{name: "dir", shortHand: "i",
		desc: "Local directory holding raw and processed snapshot files \n" +
			"(created by the fetch step if missing)"},
	"url-template": cliFlag{name: "url-template", shortHand: "u",
		desc: "HTTP(S) URL of the source snapshots, where ${date} is replaced \n" +
			"by each snapshot date"},
	"raw-pattern": cliFlag{name: "raw-pattern", shortHand: "r",
		desc: "File name pattern for raw downloads, where ${date} is replaced \n" +
			"by each snapshot date"},
	"processed-pattern": cliFlag{name: "processed-pattern", shortHand: "p",
		desc: "File name pattern for normalized files, where ${date} is replaced \n" +
			"by each snapshot date"},
	"table": cliFlag{name: "table", shortHand: "t",
		desc: "Target [<schema>.]<table> holding the listings"},
	"query": cliFlag{name: "query", shortHand: "q",
		desc: "SQL SELECT whose full result set is exported as CSV"},
	"s3-key": cliFlag{name: "s3-key", shortHand: "K",
		desc: "S3 object key for the exported CSV, where ${ds} is replaced \n" +
			"by the run date"},
	"run-date": cliFlag{name: "run-date", shortHand: "D",
		desc: "Run date formatted YYYY-MM-DD used to resolve ${ds} \n" +
			"(leave blank to use today)"},
	"output": cliFlag{name: "output", shortHand: "o",
		desc: "Specify \"yaml\" or \"json\" to print the pipeline plan instead \n" +
			"of executing it"},
	"log-level": cliFlag{name: "log-level", shortHand: "l",
		desc: "Log level: \"error | warn | info | debug\" where only step stats are \n" +
			"output at using \"warn\""},
	"stats": cliFlag{name: "stats", shortHand: "L",
		desc: "Number of seconds between dumping step statistics (use 0 to disable)"},
	"dry-run": cliFlag{name: "dry-run", shortHand: "d",
		desc: "Print the SQL query without executing it"},
	"print-header": cliFlag{name: "print-header", shortHand: "x",
		desc: "Print a header for SQL query results"},
	"connection-name": cliFlag{name: "connection-name", shortHand: "c",
		desc: "Connection name referred to by commands"},
	"dsn": cliFlag{name: "dsn", shortHand: "d",
		desc: "Postgres connect string to parse, of the form: \n" +
			"postgres://<user>:<pass>@<host>[:<port>]/<dbname>[?<opt1>=<value1>&...]"},
	"s3-dsn": cliFlag{name: "dsn", shortHand: "d",
		desc: "DSN of the form s3://<bucket name>/<prefix> (takes priority over individual flags)"},
	"s3-bucket": cliFlag{name: "s3-bucket", shortHand: "b",
		desc: "AWS S3 bucket name (set AWS environment variables for access)"},
	"s3-prefix": cliFlag{name: "s3-prefix", shortHand: "P",
		desc: "AWS S3 bucket prefix"},
	"s3-region": cliFlag{name: "s3-region", shortHand: "R",
		desc: "AWS S3 bucket region"},
	"force-connection": cliFlag{name: "force", shortHand: "f",
		desc: "Allow overwrite of existing connections"},
	"mock": cliFlag{name: "mock", shortHand: "m", desc: "mock switch for testing"},
}

// addFlag adds a flag to cobra.Command c, based on the type of targetVar (which must be a pointer).
// The name of the flag is looked up in map, cliFlags.
// When running in twelveFactorMode, the targetVar is populated using the value of environment variable for the supplied
// name, or if not set then the supplied default value is used.
// When NOT running in twelveFactorMode, the default value is fetched from config if it exists else the supplied
// defaultValue is applied.
// The flag is marked as required in Cobra based on the value of required.
// Supply a value for desc2 to append to the existing description found in map cliFlags.
// COMMENTARY:
// This function is using the value of twelveFactorMode to determine its mode of operation.
// While we could supply an interface to call methods on instead, that would complicate the call sites given that
// this is normally used from init() functions.
func (f *cliFlags) addFlag(c *cobra.Command, targetVar interface{}, name string, defaultValue string, required bool, desc2 string) {
	v := reflect.ValueOf(targetVar)
	if v.Kind() != reflect.Ptr {
		fmt.Println("error adding flag: targetVar must be a pointer")
		os.Exit(1)
	}
	sw := f.getCliFlag(name, defaultValue, config.Main.Get) // get the cliFlag details, with defaults taken from config or the supplied defaultValue
	desc := sw.desc + desc2                                 // create the full flag description for use below
	// Apply the flag.
	switch p := targetVar.(type) {
	case *string:
		if twelveFactorMode {
			*p = sw.val
		} else {
			c.Flags().StringVarP(p, sw.name, sw.shortHand, sw.val, desc)
			// Signal that the flag was set so defaults take effect.
			if sw.val != "" { // if there is a value via config or default...
				mustSetFlag(c.Flags(), sw.name, sw.val)
			}
		}
	case *bool:
		if twelveFactorMode {
			// Convert any string value into True.
			if sw.val != "" {
				*p = true
			} else {
				*p = false
			}
		} else {
			defaultBool := false
			if strings.ToLower(sw.val) == "true" {
				defaultBool = true
			}
			c.Flags().BoolVarP(p, sw.name, sw.shortHand, defaultBool, desc)
			// Signal that the flag was set so defaults take effect.
			if defaultBool {
				mustSetFlag(c.Flags(), sw.name, "true")
			} else {
				mustSetFlag(c.Flags(), sw.name, "false")
			}
		}
	case *int:
		defaultInt, err := strconv.Atoi(sw.val)
		if err != nil {
			fmt.Printf("the value for flag %q must be an integer: %v\n", sw.name, err)
			os.Exit(1)
		}
		if twelveFactorMode {
			*p = defaultInt
		} else {
			c.Flags().IntVarP(p, sw.name, sw.shortHand, defaultInt, desc)
			// Signal that the flag was set so defaults take effect.
			if sw.val != "" { // if there is a value via config or default...
				mustSetFlag(c.Flags(), sw.name, sw.val)
			}
		}
	default:
		panic("Error: unhandled CLI flag target value type")
	}
	// Optionally mark the flag as mandatory.
	if required && !twelveFactorMode { // if the flag is required...
		_ = c.MarkFlagRequired(sw.name)
	}
}

// getCliFlag fetches the value of name from the environment, when running in twelveFactorMode,
// else read the Main config file to find it.
// If a value cannot be found then use the supplied defaultValue in its place.
func (f *cliFlags) getCliFlag(name string, defaultValue string, fnGetConfig func(key string, out interface{}) error) cliFlag {
	s, ok := switches[name]
	if !ok {
		panic(fmt.Sprintf("unregistered CLI flag, %q", name))
	}
	if twelveFactorMode { // if we should read env vars...
		if err := helper.ReadValueFromEnv(flagNameToEnvVar(name), &s.val); err != nil { // if there's no value for the env var read into the switch val...
			// Apply the default.
			s.val = defaultValue
		}
	} else { // else check the config file or apply default...
		err := fnGetConfig(s.name, &s.val)
		if errors.As(err, &config.KeyNotFoundError{}) || s.val == "" { // if there was no key found...
			// Apply the default.
			s.val = defaultValue
		}
	}
	return s
}

// flagNameToEnvVar will form a sanitised environment variable name using constants.EnvVarPrefix.
func flagNameToEnvVar(name string) string {
	return constants.EnvVarPrefix + "_" + strings.ToUpper(strings.ReplaceAll(name, "-", "_"))
}

func mustSetFlag(f *pflag.FlagSet, name string, val string) {
	if err := f.Set(name, val); err != nil {
		fmt.Println(err)
		os.Exit(1)
	}
}

// getConnectionsArgsFunc returns a func that cobra uses to validate that we have 2 args.
// It saves arg[0] as the database connection and arg[1] as the bucket connection.
func getConnectionsArgsFunc(db *actions.ConnectionObject, bucket *actions.ConnectionObject, customErrMsg string) func(cmd *cobra.Command, args []string) error {
	return func(cmd *cobra.Command, args []string) error {
		if len(args) != 2 {
			if customErrMsg != "" {
				return errors.New(customErrMsg)
			} else {
				return errors.New("requires " + argsDefinitionTxt)
			}
		}
		*db = actions.ConnectionObject{ConnectionObject: args[0]}
		*bucket = actions.ConnectionObject{ConnectionObject: args[1]}
		return nil
	}
}

// getConnectionArgsFunc returns a func that cobra uses to validate that we have 1 arg.
// It saves arg[0] as the database connection.
func getConnectionArgsFunc(db *actions.ConnectionObject, customErrMsg string) func(cmd *cobra.Command, args []string) error {
	return func(cmd *cobra.Command, args []string) error {
		if len(args) != 1 {
			if customErrMsg != "" {
				return errors.New(customErrMsg)
			} else {
				return errors.New("requires " + dbArgsDefinitionTxt)
			}
		}
		*db = actions.ConnectionObject{ConnectionObject: args[0]}
		return nil
	}
}

// getQueryFromArgsFunc concatenates all args into a string.
// Returns an error if there are no args.
func getQueryFromArgsFunc(src *actions.ConnectionObject, query *string, customErrMsg string) func(cmd *cobra.Command, args []string) error {
	return func(cmd *cobra.Command, args []string) error {
		if len(args) < 2 { // if we are missing arguments...
			if customErrMsg != "" {
				return errors.New(customErrMsg)
			} else {
				return errors.New("please supply a connection and a SQL query")
			}
		}
		*src = actions.ConnectionObject{ConnectionObject: args[0]}
		// Build a new []string for the SQL; skip the connection in arg[0].
		q := make([]string, 0)
		for idx := 1; idx < len(args); idx++ { // for each piece of SQL...
			q = append(q, args[idx])
		}
		*query = strings.Join(q, " ")
		return nil
	}
}
