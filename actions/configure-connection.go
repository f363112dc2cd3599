package actions

import (
	"fmt"
	"strings"

	"github.com/pkg/errors"
	"github.com/relloyd/airpipe/config"
	"github.com/relloyd/airpipe/helper"
	"github.com/relloyd/airpipe/rdbms/shared"
)

type ConnectionConfig struct {
	ConfigFile  ConnectionGetterSetter
	LogicalName string
	Type        string
	ConnDetails ConnectionValidator // type in (DsnConnectionDetails, AwsS3Bucket)
	Force       bool
}

func RunConnectionAdd(cfg *ConnectionConfig) error {
	// Setup the basics ready to be persisted below.
	connection := shared.ConnectionDetails{
		LogicalName: cfg.LogicalName,
		Type:        cfg.Type,
		Data:        make(map[string]string),
	}
	if err := helper.ValidateStructIsPopulated(connection); err != nil { // if the basics were not supplied...
		return err
	}
	// Validate connection name.
	if strings.Index(cfg.LogicalName, ".") > 0 {
		return fmt.Errorf("connection name cannot contain period characters '.' as they're used to split data sources e.g. <connection>[.<object>]")
	}
	// Validate DSN and metadata based on connection type.
	var err error
	if err := cfg.ConnDetails.Parse(); err != nil {
		return errors.Wrap(err, "unable to create connection")
	}
	connection.Type, err = cfg.ConnDetails.GetScheme() // save the full connection type parsed from any DSN supplied.
	if err != nil {
		return err
	}
	if !IsSupportedConnectionType(connection.Type) { // if the scheme is not one we can act on...
		return fmt.Errorf("%v is an unsupported connection type, please use one of these: %v", connection.Type, GetSupportedConnectionTypes())
	}
	cfg.ConnDetails.GetMap(connection.Data)
	// Check for an existing saved connection.
	tmpConn := &shared.ConnectionDetails{}
	err = cfg.ConfigFile.Get(cfg.LogicalName, tmpConn)
	if err != nil { // if there is an error finding the connection...
		fileErr := config.FileNotFoundError{}
		keyErr := config.KeyNotFoundError{}
		if !errors.As(err, &fileErr) && !errors.As(err, &keyErr) { // if the error is not a first-time lookup...
			return err
		}
	} else if tmpConn.LogicalName != "" && !cfg.Force { // else if the connection exists, but we are not allowed to overwrite it...
		return fmt.Errorf("connection exists, use force to update the connection or remove it first")
	}
	// Set config (creates the file if missing).
	err = cfg.ConfigFile.Set(cfg.LogicalName, &connection)
	if err != nil {
		return fmt.Errorf("error writing connections config file after adding: %v", err)
	}
	fmt.Printf("Connection %q added\n", cfg.LogicalName)
	return nil
}

func RunConnectionRemove(cfg *ConnectionConfig) error {
	if err := helper.ValidateStructIsPopulated(cfg); err != nil { // if the basics were not supplied...
		return err
	}
	err := cfg.ConfigFile.Delete(cfg.LogicalName)
	if err != nil {
		return fmt.Errorf("unable to delete connection %q from config: %v", cfg.LogicalName, err)
	}
	fmt.Printf("Connection %q removed\n", cfg.LogicalName)
	return nil
}
