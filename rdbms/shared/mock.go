package shared

import (
	"context"
	"errors"
	"io"
	"io/ioutil"
	"strings"

	"github.com/relloyd/airpipe/logger"
)

const mockChanSqlBufferSize = 100

// MockConnection implements Connector and records all SQL executed against it.
// Each statement is also emitted on the channel returned by NewMockConnectionWithMockTx
// so tests can assert what was executed and in which order.
type MockConnection struct {
	Log       logger.Logger
	DbType    string
	ExecLog   []string           // all SQL statements seen by the connection and its transactions.
	Txs       []*MockTransaction // transactions handed out by Begin() in order.
	chanSql   chan string
	queryCols []string
	queryRows [][]interface{}
	execRows  int64
}

// NewMockConnectionWithMockTx returns a Connector that records SQL instead of executing it,
// plus the channel onto which each statement is written.
func NewMockConnectionWithMockTx(log logger.Logger, dbType string) (Connector, chan string) {
	chanSql := make(chan string, mockChanSqlBufferSize)
	return &MockConnection{Log: log, DbType: dbType, chanSql: chanSql}, chanSql
}

// SetQueryRows primes the connection to return the given header and rows for subsequent queries.
func (m *MockConnection) SetQueryRows(cols []string, rows [][]interface{}) {
	m.queryCols = cols
	m.queryRows = rows
}

// SetExecRowsAffected primes the rows-affected count returned by Exec and transaction Execs.
func (m *MockConnection) SetExecRowsAffected(n int64) {
	m.execRows = n
}

func (m *MockConnection) record(sql string) {
	m.ExecLog = append(m.ExecLog, sql)
	m.Log.Debug("mock connection received SQL: ", sql)
	select { // don't block if no one is reading the channel...
	case m.chanSql <- sql:
	default:
	}
}

// Connector:

func (m *MockConnection) Begin() (Transacter, error) {
	tx := &MockTransaction{conn: m}
	m.Txs = append(m.Txs, tx)
	return tx, nil
}

func (m *MockConnection) Exec(query string, args ...interface{}) (Result, error) {
	return m.ExecContext(context.Background(), query, args...)
}

func (m *MockConnection) ExecContext(ctx context.Context, query string, args ...interface{}) (Result, error) {
	m.record(query)
	return &MockResult{rows: m.execRows}, nil
}

func (m *MockConnection) Query(query string, args ...interface{}) (*ApRows, error) {
	return m.QueryContext(context.Background(), query, args...)
}

func (m *MockConnection) QueryContext(ctx context.Context, query string, args ...interface{}) (*ApRows, error) {
	m.record(query)
	return NewMockRows(m.queryCols, m.queryRows), nil
}

func (m *MockConnection) Close() {}

func (m *MockConnection) GetType() string {
	return m.DbType
}

// Transacter:

type MockTransaction struct {
	conn       *MockConnection
	Committed  int
	RolledBack int
	CopyData   []string // payloads streamed via CopyFrom in order.
}

func (t *MockTransaction) Exec(query string, args ...interface{}) (Result, error) {
	return t.ExecContext(context.Background(), query, args...)
}

func (t *MockTransaction) ExecContext(ctx context.Context, query string, args ...interface{}) (Result, error) {
	t.conn.record(query)
	return &MockResult{rows: t.conn.execRows}, nil
}

func (t *MockTransaction) CopyFrom(ctx context.Context, r io.Reader, copySql string) (int64, error) {
	t.conn.record(copySql)
	b, err := ioutil.ReadAll(r)
	if err != nil {
		return 0, err
	}
	t.CopyData = append(t.CopyData, string(b))
	// Count the rows loaded the same way the database would.
	rows := int64(strings.Count(string(b), "\n"))
	if rows > 0 && strings.Contains(strings.ToUpper(copySql), "HEADER") { // if the first line is a header...
		rows--
	}
	return rows, nil
}

func (t *MockTransaction) Commit() error {
	t.Committed++
	return nil
}

func (t *MockTransaction) Rollback() error {
	t.RolledBack++
	return nil
}

// Rows:

// MockRows supplies canned query results via the ApRows wrapper.
type MockRows struct {
	cols []string
	rows [][]interface{}
	idx  int
}

func NewMockRows(cols []string, rows [][]interface{}) *ApRows {
	return &ApRows{rowsMock: &MockRows{cols: cols, rows: rows, idx: -1}}
}

func (r *MockRows) Close() error {
	return nil
}

func (r *MockRows) Columns() ([]string, error) {
	return r.cols, nil
}

func (r *MockRows) Err() error {
	return nil
}

func (r *MockRows) Next() bool {
	r.idx++
	return r.idx < len(r.rows)
}

func (r *MockRows) Values() ([]interface{}, error) {
	return r.rows[r.idx], nil
}

func (r *MockRows) Scan(dest ...interface{}) error {
	row := r.rows[r.idx]
	for i := range dest { // for each scan target...
		p, ok := dest[i].(*interface{})
		if !ok {
			return errors.New("mock rows support scanning into *interface{} targets only")
		}
		*p = row[i]
	}
	return nil
}

// Result:

type MockResult struct {
	rows int64
}

func (r *MockResult) RowsAffected() (int64, error) {
	return r.rows, nil
}
