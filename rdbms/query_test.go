package rdbms_test

import (
	"context"
	"testing"

	"github.com/relloyd/airpipe/logger"
	"github.com/relloyd/airpipe/rdbms"
	"github.com/relloyd/airpipe/rdbms/shared"
)

type captureResultHandler struct {
	header []interface{}
	rows   [][]interface{}
}

func (c *captureResultHandler) HandleHeader(i []interface{}) error {
	c.header = i
	return nil
}

func (c *captureResultHandler) HandleRow(i []interface{}) error {
	c.rows = append(c.rows, i)
	return nil
}

func TestSqlQuery(t *testing.T) {
	log := logger.NewLogger("airpipe", "info", true)
	db, _ := shared.NewMockConnectionWithMockTx(log, "postgres")
	m := db.(*shared.MockConnection)

	// Test 1 - header and rows arrive via the handler in order.
	m.SetQueryRows([]string{"a", "b"}, [][]interface{}{{"1", "x"}, {"2", "y"}})
	h := &captureResultHandler{}
	err := rdbms.SqlQuery(context.Background(), log, db, "SELECT 1 AS a, 'x' AS b", h)
	if err != nil {
		t.Fatal(err)
	}
	if len(h.header) != 2 || h.header[0] != "a" || h.header[1] != "b" {
		t.Fatalf("expected header a,b; got %v", h.header)
	}
	if len(h.rows) != 2 {
		t.Fatalf("expected 2 rows; got %v", len(h.rows))
	}
	if h.rows[0][0] != "1" || h.rows[1][1] != "y" {
		t.Fatalf("unexpected row values: %v", h.rows)
	}

	// Test 2 - zero rows still produces a header.
	m.SetQueryRows([]string{"a"}, nil)
	h = &captureResultHandler{}
	err = rdbms.SqlQuery(context.Background(), log, db, "SELECT 1 AS a WHERE 1 = 0", h)
	if err != nil {
		t.Fatal(err)
	}
	if len(h.header) != 1 {
		t.Fatalf("expected header with 1 column; got %v", h.header)
	}
	if len(h.rows) != 0 {
		t.Fatalf("expected no rows; got %v", len(h.rows))
	}
}
