package cmd

import (
	"fmt"

	"github.com/relloyd/airpipe/actions"
	"github.com/relloyd/airpipe/config"
	"github.com/relloyd/airpipe/constants"
	"github.com/relloyd/airpipe/rdbms/shared"
	"github.com/spf13/cobra"
)

var configConnAddDsnCfg = &actions.ConnectionConfig{}
var dsnConn = shared.DsnConnectionDetails{}

var configConnAddDsnCmd = &cobra.Command{
	Use:   "postgres",
	Short: "Add a Postgres connection",
	Long: fmt.Sprintf(`Add a Postgres database connection to the config store %q
by providing a DSN of the form:

postgres://<user>:<pass>@<host>[:<port>]/<dbname>[?<opt1>=<value1>&<opt2>=<value2>&...]
`,
		config.Connections.FullPath),
	RunE: func(cmd *cobra.Command, args []string) error {
		configConnAddDsnCfg.Type = constants.ConnectionTypePostgres // replaced below by the scheme parsed from the DSN.
		configConnAddDsnCfg.ConfigFile = getConnectionGetterSetter()
		configConnAddDsnCfg.ConnDetails = dsnConn
		cmd.SilenceUsage = true
		return actions.RunConnectionAdd(configConnAddDsnCfg)
	},
}

func init() {
	configConnAddCmd.AddCommand(configConnAddDsnCmd)
	configConnAddDsnCmd.Flags().SortFlags = false
	switches.addFlag(configConnAddDsnCmd, &configConnAddDsnCfg.LogicalName, "connection-name", "", true, "")
	switches.addFlag(configConnAddDsnCmd, &configConnAddDsnCfg.Force, "force-connection", "", false, "")
	switches.addFlag(configConnAddDsnCmd, &dsnConn.Dsn, "dsn", "", true, "")
}
