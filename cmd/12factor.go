package cmd

import (
	"fmt"
	"os"
	"strings"

	"github.com/joho/godotenv"
	"github.com/relloyd/airpipe/actions"
	"github.com/relloyd/airpipe/aws/s3"
	"github.com/relloyd/airpipe/config"
	c "github.com/relloyd/airpipe/constants"
	"github.com/relloyd/airpipe/helper"
	"github.com/relloyd/airpipe/logger"
	"github.com/relloyd/airpipe/rdbms/shared"
	"github.com/xo/dburl"
)

// init will be called first due to the lexical order in which these functions are executed.
// This ensures the value of twelveFactorMode is set such that other init() functions that configure
// Cobra can do the job of processing all environment variables that would contain equivalent of the CLI flag
// structures used by AirPipe's actions.
func init() {
	// Load optional .env values before the mode check below so a scheduler can
	// supply everything in one file.
	_ = godotenv.Load()
	setupTwelveFactorMode()
}

// setupTwelveFactorMode will enable or disable 12 factor mode based on environment variable.
func setupTwelveFactorMode() {
	mode := os.Getenv(envVarTwelveFactorMode)
	if mode != "" { // if variable for 12factor mode is set and we should read env vars to determine actions...
		twelveFactorMode = true
		if strings.ToLower(mode) == "lambda" {
			lambdaMode = true
		}
	} else { // else 12factor mode should be off...
		twelveFactorMode = false // explicitly turn off this mode since tests may have turned it on while others require it off.
	}
}

const (
	envVarTwelveFactorMode      = c.EnvVarPrefix + "_" + "12FACTOR_MODE"
	envVarCommand               = c.EnvVarPrefix + "_" + "COMMAND"
	envVarSubcommand            = c.EnvVarPrefix + "_" + "SUBCOMMAND"
	envVarDatabaseObject        = c.EnvVarPrefix + "_" + "DATABASE_OBJECT" // [<schema>.]<table> override
	envVarBucketObject          = c.EnvVarPrefix + "_" + "BUCKET_OBJECT"   // bucket prefix override
	envVarLogLevel              = c.EnvVarPrefix + "_" + "LOG_LEVEL"
	envVarStackDump             = c.EnvVarPrefix + "_" + "STACK_DUMP"
	defaultConnectionNameDb     = "DATABASE"
	defaultConnectionNameBucket = "BUCKET"
)

var (
	twelveFactorMode bool // true if os env var envVarTwelveFactorMode is set
	lambdaMode       bool // true if os env var envVarTwelveFactorMode is set to "lambda"
	twelveFactorVars = map[string]string{
		envVarCommand:    "",
		envVarSubcommand: "",
		// Database
		envVarDatabaseObject: "",
		helper.GetDsnEnvVarName(defaultConnectionNameDb):  "",
		helper.GetTypeEnvVarName(defaultConnectionNameDb): "",
		// Bucket
		envVarBucketObject: "",
		helper.GetDsnEnvVarName(defaultConnectionNameBucket):    "",
		helper.GetTypeEnvVarName(defaultConnectionNameBucket):   "",
		helper.GetRegionEnvVarName(defaultConnectionNameBucket): "",
		// Misc
		envVarLogLevel:  "",
		envVarStackDump: "",
	}
	twelveFactorVarsSensitive = map[string]string{ // used to flag some of the above variables as being sensitive.
		helper.GetDsnEnvVarName(defaultConnectionNameDb):     "",
		helper.GetDsnEnvVarName(defaultConnectionNameBucket): "",
	}
)

type twelveFactorAction struct {
	setupFunc  func(db string, bucket string)
	runnerFunc func() error
}

var twelveFactorActions = map[string]twelveFactorAction{
	c.ActionFuncsCommandFetch: {
		setupFunc:  func(db string, bucket string) {},
		runnerFunc: runFetch,
	},
	c.ActionFuncsCommandNormalize: {
		setupFunc:  func(db string, bucket string) {},
		runnerFunc: runNormalize,
	},
	c.ActionFuncsCommandTable + "-" + c.ActionFuncsSubCommandRecreate: {
		setupFunc: func(db string, bucket string) {
			tableRecreateCfg.SourceString.ConnectionObject = db
		},
		runnerFunc: runTableRecreate,
	},
	c.ActionFuncsCommandLoad: {
		setupFunc: func(db string, bucket string) {
			loadCfg.SourceString.ConnectionObject = db
		},
		runnerFunc: runLoad,
	},
	c.ActionFuncsCommandExport: {
		setupFunc: func(db string, bucket string) {
			exportCfg.SourceString.ConnectionObject = db
			exportCfg.TargetString.ConnectionObject = bucket
		},
		runnerFunc: runExport,
	},
	c.ActionFuncsCommandRun: {
		setupFunc: func(db string, bucket string) {
			runCfg.SourceString.ConnectionObject = db
			runCfg.TargetString.ConnectionObject = bucket
		},
		runnerFunc: runDailyPipeline,
	},
}

func getConnectionLoader() actions.ConnectionLoader {
	if twelveFactorMode {
		return &TwelveFactorConnections{}
	} else {
		return config.Connections
	}
}

func getConnectionGetterSetter() actions.ConnectionGetterSetter {
	if twelveFactorMode {
		fmt.Printf("Error: connections cannot be configured when %v is set (supply them using %v and %v instead)",
			envVarTwelveFactorMode,
			helper.GetDsnEnvVarName(defaultConnectionNameDb),
			helper.GetDsnEnvVarName(defaultConnectionNameBucket))
		os.Exit(1)
	}
	return config.Connections
}

func execute12FactorMode(acts map[string]twelveFactorAction) (err error) {
	logLevel := helper.ReadValueFromEnvWithDefault(envVarLogLevel, "warn") // fetch logLevel from env as this is not a persistent flag, given that we wanted different logging defaults per cobra action.
	stackDumpOnPanic = helper.ReadValueFromEnvWithDefault(envVarStackDump, "") != ""
	log := logger.NewLogger("airpipe", logLevel, stackDumpOnPanic)
	log.Info("AirPipe is running in 12 Factor mode...")
	// Save values for the required variables.
	for k := range twelveFactorVars { // for each env variable that we need...
		// Save it and log it.
		twelveFactorVars[k] = os.Getenv(k)
		_, sensitive := twelveFactorVarsSensitive[k]
		if !sensitive { // if the env variable does not contain sensitive values...
			// Log the value.
			log.Debug(k, "=", twelveFactorVars[k])
		} else { // else output obfuscated value...
			log.Debug(k, "=", "<obfuscated>")
		}
	}
	// Use command and subcommand to fetch the appropriate action.
	// Single-word commands have no subcommand so trim the separator.
	action := strings.TrimSuffix(fmt.Sprintf("%v-%v", twelveFactorVars[envVarCommand], twelveFactorVars[envVarSubcommand]), "-")
	a, ok := acts[action]
	if !ok {
		err = fmt.Errorf("invalid combination of command (%v) and subcommand (%v)", twelveFactorVars[envVarCommand], twelveFactorVars[envVarSubcommand])
		log.Error(err.Error())
		return
	}
	// Setup the connection strings to include the object, as Cobra would have with CLI args.
	a.setupFunc(
		fmt.Sprintf("%v.%v", defaultConnectionNameDb, twelveFactorVars[envVarDatabaseObject]),   // e.g. DATABASE.public.listings
		fmt.Sprintf("%v.%v", defaultConnectionNameBucket, twelveFactorVars[envVarBucketObject]), // e.g. BUCKET.airbnb-test
	)
	// Run the action.
	err = a.runnerFunc()
	if err != nil {
		log.Error("Error: ", err)
	}
	return err
}

type TwelveFactorConnections struct{} // implements interfaces in module, actions.

// getDefaultConnectionType maps the well-known twelve-factor connection names to
// the types they are expected to carry, so a scheduler only has to supply DSNs.
func getDefaultConnectionType(connectionName string) string {
	if connectionName == defaultConnectionNameBucket {
		return c.ConnectionTypeS3
	}
	return c.ConnectionTypePostgres
}

// LoadConnection reads the connection DSN and type from the environment and returns
// the shared.ConnectionDetails.
// This mimics functionality whereby connection details are loaded from the connections
// config file, but reads info from the environment instead.
func (t *TwelveFactorConnections) LoadConnection(connectionName string) (shared.ConnectionDetails, error) {
	kDsn := helper.GetDsnEnvVarName(connectionName)
	var vDsn string
	if err := helper.ReadValueFromEnv(kDsn, &vDsn); err != nil { // if we cannot find the DSN in the environment...
		return shared.ConnectionDetails{}, err
	}
	vType := helper.ReadValueFromEnvWithDefault(helper.GetTypeEnvVarName(connectionName), getDefaultConnectionType(connectionName))
	vType = strings.TrimSpace(strings.ToLower(vType)) // sanitise vType.
	m := make(map[string]string)                      // map for generic connection data.
	switch vType {
	case c.ConnectionTypePostgres, c.ConnectionTypeMockPostgres:
		if _, err := dburl.Parse(vDsn); err != nil { // if the DSN was invalid...
			return shared.ConnectionDetails{}, err
		}
		shared.DsnConnectionDetailsToMap(m, &shared.DsnConnectionDetails{Dsn: vDsn})
	case c.ConnectionTypeS3:
		kRegion := helper.GetRegionEnvVarName(connectionName)
		vRegion, err := helper.GetEnvVar(kRegion, true)
		if err != nil { // if we cannot find the bucket region in the environment...
			// TODO: log this correctly instead of fmt.
			fmt.Printf("bucket region not found in environment variable %v\n", kRegion)
		}
		cn, err := s3.ParseDSN(vDsn, vRegion)
		if err != nil { // if the DSN was invalid...
			return shared.ConnectionDetails{}, err
		}
		m = s3.AwsBucketToMap(m, cn)
	default:
		return shared.ConnectionDetails{}, fmt.Errorf("unsupported connection type %q for connection %v", vType, connectionName)
	}
	return shared.ConnectionDetails{
		Type:        vType,
		LogicalName: connectionName,
		Data:        m,
	}, nil
}
