package rdbms

import (
	"fmt"

	"github.com/relloyd/airpipe/constants"
	"github.com/relloyd/airpipe/logger"
	"github.com/relloyd/airpipe/rdbms/shared"
)

// OpenDbConnection opens a database connection using the supplied ConnectionDetails struct in c.
func OpenDbConnection(log logger.Logger, c shared.ConnectionDetails) (db shared.Connector, err error) {
	log.Debug("opening connection type ", c.Type, " with logicalName ", c.LogicalName) // don't log password details in c.Data!
	switch c.Type {
	case constants.ConnectionTypePostgres:
		db, err = NewPostgresConnection(log, shared.GetDsnConnectionDetails(&c))
	case constants.ConnectionTypeMockPostgres:
		db, _ = shared.NewMockConnectionWithMockTx(log, constants.ConnectionTypePostgres)
	default: // else we have an unsupported database...
		err = fmt.Errorf("unsupported database type, %q", c.Type)
	}
	return
}
