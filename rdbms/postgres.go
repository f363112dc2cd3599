package rdbms

import (
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/relloyd/airpipe/constants"
	"github.com/relloyd/airpipe/logger"
	"github.com/relloyd/airpipe/rdbms/shared"
	"golang.org/x/net/context"
)

// NewPostgresConnection opens a database connection using the supplied DSN details.
// Queries run over the simple query protocol so result values arrive in the database's
// default text representation. A single session is pinned for the lifetime of the
// Connector so that session state, like advisory locks, survives across transactions.
func NewPostgresConnection(log logger.Logger, d *shared.DsnConnectionDetails) (shared.Connector, error) {
	cfg, err := pgx.ParseConfig(d.Dsn)
	if err != nil { // if the DSN could not be parsed...
		return nil, fmt.Errorf("error parsing DSN %q: %w", d.Dsn, err)
	}
	cfg.DefaultQueryExecMode = pgx.QueryExecModeSimpleProtocol
	log.Info("Opening database connection: ", d)
	ctx := context.Background()
	conn, err := pgx.ConnectConfig(ctx, cfg)
	if err != nil {
		return nil, err
	}
	// Test the connection.
	if err := conn.Ping(ctx); err != nil {
		return nil, err
	}
	log.Info("Successful connection to: ", d)
	return &shared.ApConnection{DbPgx: conn, DbType: constants.ConnectionTypePostgres}, nil
}
