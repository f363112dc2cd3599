package components

import (
	"io"
	"io/ioutil"
	"testing"

	c "github.com/relloyd/airpipe/constants"
	"github.com/relloyd/airpipe/logger"
	"github.com/relloyd/airpipe/rdbms/shared"
	"golang.org/x/net/context"
)

// fakeBufferPutter records uploads in place of a real S3 client.
type fakeBufferPutter struct {
	keys []string
	data map[string][]byte
}

func (f *fakeBufferPutter) BufferPut(key string, dataBuf io.ReadSeeker) error {
	b, err := ioutil.ReadAll(dataBuf)
	if err != nil {
		return err
	}
	if f.data == nil {
		f.data = map[string][]byte{}
	}
	f.keys = append(f.keys, key)
	f.data[key] = b
	return nil
}

func TestRunQueryToS3(t *testing.T) {
	log := logger.NewLogger("airpipe", "info", true)
	db, _ := shared.NewMockConnectionWithMockTx(log, c.ConnectionTypePostgres)
	mockDb := db.(*shared.MockConnection)
	putter := &fakeBufferPutter{}
	keyName := "airbnb-test/postgres_data_2025-11-07.csv"
	cfg := &QueryToS3Config{
		Log:        log,
		Name:       "Test QueryToS3",
		Db:         db,
		Sqltext:    "SELECT 1 AS a, 'x' AS b",
		BucketName: "aws-airbnb-s3bucket",
		Region:     "eu-west-2",
		KeyName:    keyName,
		S3Client:   putter,
	}
	// Test 1 - a one-row result uploads header plus row.
	mockDb.SetQueryRows([]string{"a", "b"}, [][]interface{}{{"1", "x"}})
	rows, err := RunQueryToS3(context.Background(), cfg)
	if err != nil {
		t.Fatal(err)
	}
	if rows != 1 {
		t.Fatalf("expected %v row uploaded; got %v", 1, rows)
	}
	if string(putter.data[keyName]) != "a,b\n1,x\n" {
		t.Fatalf("unexpected upload: %q", string(putter.data[keyName]))
	}
	// Test 2 - re-running the export is idempotent and replaces the object.
	rows, err = RunQueryToS3(context.Background(), cfg)
	if err != nil {
		t.Fatal(err)
	}
	if rows != 1 {
		t.Fatalf("expected %v row uploaded; got %v", 1, rows)
	}
	if len(putter.keys) != 2 || putter.keys[0] != keyName || putter.keys[1] != keyName {
		t.Fatalf("expected two uploads to the same key; got %v", putter.keys)
	}
	if string(putter.data[keyName]) != "a,b\n1,x\n" {
		t.Fatalf("unexpected upload after re-export: %q", string(putter.data[keyName]))
	}
	// Test 3 - zero result rows upload a header-only object.
	mockDb.SetQueryRows([]string{"a", "b"}, nil)
	rows, err = RunQueryToS3(context.Background(), cfg)
	if err != nil {
		t.Fatal(err)
	}
	if rows != 0 {
		t.Fatalf("expected %v rows uploaded; got %v", 0, rows)
	}
	if string(putter.data[keyName]) != "a,b\n" {
		t.Fatalf("expected header-only upload; got %q", string(putter.data[keyName]))
	}
	// Test 4 - values containing commas are quoted and NULLs become empty fields.
	mockDb.SetQueryRows([]string{"a", "b"}, [][]interface{}{{"1", "x,y"}, {"2", nil}})
	rows, err = RunQueryToS3(context.Background(), cfg)
	if err != nil {
		t.Fatal(err)
	}
	if rows != 2 {
		t.Fatalf("expected %v rows uploaded; got %v", 2, rows)
	}
	if string(putter.data[keyName]) != "a,b\n1,\"x,y\"\n2,\n" {
		t.Fatalf("unexpected upload: %q", string(putter.data[keyName]))
	}
}
