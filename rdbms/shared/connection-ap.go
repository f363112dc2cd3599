package shared

import (
	"context"
	"io"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
)

// ApConnection is a wrapper around a pgx connection.
// A single session is held open so that session state, like advisory locks,
// survives across the transactions started via Begin().
type ApConnection struct {
	DbPgx  *pgx.Conn
	DbType string
}

// Connector:

func (c *ApConnection) Begin() (Transacter, error) {
	tx, err := c.DbPgx.Begin(context.Background())
	return &ApTx{txPgx: tx}, err
}

func (c *ApConnection) Exec(query string, args ...interface{}) (Result, error) {
	return c.ExecContext(context.Background(), query, args...)
}

func (c *ApConnection) ExecContext(ctx context.Context, query string, args ...interface{}) (Result, error) {
	tag, err := c.DbPgx.Exec(ctx, query, args...)
	return &ApResult{tag: tag}, err
}

func (c *ApConnection) Query(query string, args ...interface{}) (*ApRows, error) {
	return c.QueryContext(context.Background(), query, args...)
}

func (c *ApConnection) QueryContext(ctx context.Context, query string, args ...interface{}) (*ApRows, error) {
	r, err := c.DbPgx.Query(ctx, query, args...)
	return &ApRows{rowsPgx: r, usePgx: true}, err
}

func (c *ApConnection) Close() {
	_ = c.DbPgx.Close(context.Background())
}

func (c *ApConnection) GetType() string {
	return c.DbType
}

// Transacter:

type ApTx struct {
	txPgx pgx.Tx
}

func (t *ApTx) Exec(query string, args ...interface{}) (Result, error) {
	return t.ExecContext(context.Background(), query, args...)
}

func (t *ApTx) ExecContext(ctx context.Context, query string, args ...interface{}) (Result, error) {
	tag, err := t.txPgx.Exec(ctx, query, args...)
	return &ApResult{tag: tag}, err
}

// CopyFrom streams the contents of r into the database using the supplied COPY ... FROM STDIN statement.
// It returns the number of rows loaded.
func (t *ApTx) CopyFrom(ctx context.Context, r io.Reader, copySql string) (int64, error) {
	tag, err := t.txPgx.Conn().PgConn().CopyFrom(ctx, r, copySql)
	if err != nil {
		return 0, err
	}
	return tag.RowsAffected(), nil
}

func (t *ApTx) Commit() error {
	return t.txPgx.Commit(context.Background())
}

func (t *ApTx) Rollback() error {
	return t.txPgx.Rollback(context.Background())
}

// Rows:

// ApRows wraps either a real pgx result set or mock rows for testing.
type ApRows struct {
	rowsPgx  pgx.Rows
	rowsMock *MockRows
	usePgx   bool
}

func (r *ApRows) Close() error {
	if r.usePgx {
		r.rowsPgx.Close()
		return nil
	}
	return r.rowsMock.Close()
}

func (r *ApRows) Columns() ([]string, error) {
	if r.usePgx {
		fds := r.rowsPgx.FieldDescriptions()
		cols := make([]string, len(fds), len(fds))
		for i := range fds { // for each column in the result set...
			cols[i] = fds[i].Name
		}
		return cols, nil
	}
	return r.rowsMock.Columns()
}

func (r *ApRows) Err() error {
	if r.usePgx {
		return r.rowsPgx.Err()
	}
	return r.rowsMock.Err()
}

func (r *ApRows) Next() bool {
	if r.usePgx {
		return r.rowsPgx.Next()
	}
	return r.rowsMock.Next()
}

// Values returns the current row with each value in the database's default text
// representation i.e. exactly the bytes sent by the server for queries executed
// over the simple protocol. NULLs are returned as nil.
func (r *ApRows) Values() ([]interface{}, error) {
	if r.usePgx {
		raw := r.rowsPgx.RawValues()
		vals := make([]interface{}, len(raw), len(raw))
		for i := range raw { // for each value in the row...
			if raw[i] == nil {
				vals[i] = nil
			} else {
				vals[i] = string(raw[i])
			}
		}
		return vals, nil
	}
	return r.rowsMock.Values()
}

func (r *ApRows) Scan(dest ...interface{}) error {
	if r.usePgx {
		return r.rowsPgx.Scan(dest...)
	}
	return r.rowsMock.Scan(dest...)
}

// Result:

type ApResult struct {
	tag pgconn.CommandTag
}

func (r *ApResult) RowsAffected() (int64, error) {
	return r.tag.RowsAffected(), nil
}
