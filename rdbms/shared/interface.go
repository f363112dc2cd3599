package shared

import (
	"context"
	"io"
)

// Connector abstracts all access to Go SQL functionality.
type Connector interface {
	// Go SQL entry points:
	Begin() (Transacter, error)
	Exec(query string, args ...interface{}) (Result, error)
	ExecContext(ctx context.Context, query string, args ...interface{}) (Result, error)
	Query(query string, args ...interface{}) (*ApRows, error)
	QueryContext(ctx context.Context, query string, args ...interface{}) (*ApRows, error)
	Close()
	// Airpipe functionality:
	GetType() string
}

// Transacter abstracts a database transaction.
// CopyFrom executes the supplied COPY ... FROM STDIN statement inside the transaction,
// streaming data from the supplied reader. It returns the number of rows loaded.
type Transacter interface {
	Exec(query string, args ...interface{}) (Result, error)
	ExecContext(ctx context.Context, query string, args ...interface{}) (Result, error)
	CopyFrom(ctx context.Context, r io.Reader, copySql string) (int64, error)
	Commit() error
	Rollback() error
}

type Result interface {
	RowsAffected() (int64, error)
}

type SqlResultHandler interface {
	HandleHeader(i []interface{}) error
	HandleRow(i []interface{}) error
}

type ConnectionGetter interface {
	LoadConnection(name string) (ConnectionDetails, error)
}
