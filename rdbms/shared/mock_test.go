package shared

import (
	"context"
	"strings"
	"testing"

	"github.com/relloyd/airpipe/logger"
)

func TestMockConnection(t *testing.T) {
	log := logger.NewLogger("airpipe", "info", true)
	db, chanSql := NewMockConnectionWithMockTx(log, "postgres")
	m := db.(*MockConnection)

	// Test 1 - Exec is recorded and emitted on the channel.
	if _, err := db.Exec("SELECT pg_advisory_lock(1)"); err != nil {
		t.Fatal(err)
	}
	got := <-chanSql
	if got != "SELECT pg_advisory_lock(1)" {
		t.Fatalf("expected lock SQL; got %q", got)
	}

	// Test 2 - transactions record their SQL on the parent connection.
	tx, err := db.Begin()
	if err != nil {
		t.Fatal(err)
	}
	if _, err := tx.Exec("DELETE FROM listings WHERE load_date = CURRENT_DATE"); err != nil {
		t.Fatal(err)
	}
	if err := tx.Commit(); err != nil {
		t.Fatal(err)
	}
	if len(m.Txs) != 1 {
		t.Fatalf("expected 1 transaction; got %v", len(m.Txs))
	}
	if m.Txs[0].Committed != 1 {
		t.Fatalf("expected 1 commit; got %v", m.Txs[0].Committed)
	}
	if len(m.ExecLog) != 2 {
		t.Fatalf("expected 2 statements in ExecLog; got %v", len(m.ExecLog))
	}

	// Test 3 - CopyFrom counts data rows excluding the CSV header.
	tx2, _ := db.Begin()
	data := "id,name\n1,a\n2,b\n"
	rows, err := tx2.CopyFrom(context.Background(), strings.NewReader(data),
		"COPY listings (id,name) FROM STDIN WITH (FORMAT CSV, HEADER TRUE)")
	if err != nil {
		t.Fatal(err)
	}
	if rows != 2 {
		t.Fatalf("expected 2 rows loaded; got %v", rows)
	}
	if tx2.(*MockTransaction).CopyData[0] != data {
		t.Fatalf("expected copy payload to be captured; got %q", tx2.(*MockTransaction).CopyData[0])
	}

	// Test 4 - primed query rows come back through the ApRows wrapper.
	m.SetQueryRows([]string{"a", "b"}, [][]interface{}{{"1", "x"}})
	r, err := db.Query("SELECT 1 AS a, 'x' AS b")
	if err != nil {
		t.Fatal(err)
	}
	cols, _ := r.Columns()
	if len(cols) != 2 || cols[0] != "a" {
		t.Fatalf("expected columns a,b; got %v", cols)
	}
	if !r.Next() {
		t.Fatal("expected a row")
	}
	vals, _ := r.Values()
	if vals[0] != "1" || vals[1] != "x" {
		t.Fatalf("expected values 1,x; got %v", vals)
	}
	if r.Next() {
		t.Fatal("expected no more rows")
	}
}
