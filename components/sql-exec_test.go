package components

import (
	"testing"

	c "github.com/relloyd/airpipe/constants"
	"github.com/relloyd/airpipe/logger"
	"github.com/relloyd/airpipe/rdbms/shared"
	"golang.org/x/net/context"
)

func TestExecSql(t *testing.T) {
	log := logger.NewLogger("airpipe", "info", true)
	db, _ := shared.NewMockConnectionWithMockTx(log, c.ConnectionTypePostgres)
	mockDb := db.(*shared.MockConnection)
	cfg := &SqlExecConfig{
		Log:      log,
		Name:     "Test ExecSql",
		OutputDb: db,
		Sqltext: []string{
			"DROP TABLE IF EXISTS listings",
			"",
			"CREATE TABLE IF NOT EXISTS listings ( id BIGINT )"},
	}
	// Test 1 - statements execute in order; empty entries are skipped.
	if err := ExecSql(context.Background(), cfg); err != nil {
		t.Fatal(err)
	}
	if len(mockDb.ExecLog) != 2 {
		t.Fatalf("expected 2 statements executed; got %v", len(mockDb.ExecLog))
	}
	if mockDb.ExecLog[0] != "DROP TABLE IF EXISTS listings" {
		t.Fatalf("unexpected first statement: %v", mockDb.ExecLog[0])
	}
	if mockDb.ExecLog[1] != "CREATE TABLE IF NOT EXISTS listings ( id BIGINT )" {
		t.Fatalf("unexpected second statement: %v", mockDb.ExecLog[1])
	}
}
