package components

import (
	"bytes"
	"encoding/csv"
	"fmt"
	"path"
	"strings"
	"sync/atomic"

	"github.com/relloyd/airpipe/aws/s3"
	h "github.com/relloyd/airpipe/helper"
	"github.com/relloyd/airpipe/logger"
	"github.com/relloyd/airpipe/rdbms"
	"github.com/relloyd/airpipe/rdbms/shared"
	"github.com/relloyd/airpipe/stats"
	"golang.org/x/net/context"
)

type QueryToS3Config struct {
	Log          logger.Logger
	Name         string
	Db           shared.Connector
	Sqltext      string
	BucketName   string // target bucket
	BucketPrefix string
	Region       string
	KeyName      string             // object key below the bucket prefix.
	S3Client     s3.BufferPutter    // optional client override used by tests.
	StepWatcher  *stats.StepWatcher // optional ptr to object that can gather step stats.
}

// RunQueryToS3 executes the query, materializes the full result set in memory as
// minimally-quoted LF-terminated CSV with the header row first, and uploads the
// buffer to the bucket key, replacing any existing object. Zero result rows still
// upload a header-only object. The number of rows uploaded always equals the
// number fetched; it is returned.
func RunQueryToS3(ctx context.Context, cfg *QueryToS3Config) (int64, error) {
	cfg.Log.Info(cfg.Name, " is running")
	rowCount := int64(0)
	if cfg.StepWatcher != nil { // if we have been given a stepWatcher struct that can watch our rowCount...
		cfg.StepWatcher.StartWatching(&rowCount)
		defer cfg.StepWatcher.StopWatching()
	}
	bucketName := strings.TrimPrefix(cfg.BucketName, "s3://")
	client := cfg.S3Client
	if client == nil {
		client = s3.NewBasicClient(bucketName, cfg.Region, cfg.BucketPrefix)
	}
	cfg.Log.Info(cfg.Name, " running Postgres query: ", cfg.Sqltext)
	w := newCsvResultWriter(cfg.Log, &rowCount)
	if err := rdbms.SqlQuery(ctx, cfg.Log, cfg.Db, cfg.Sqltext, w); err != nil {
		return 0, err
	}
	fetchedRows := atomic.AddInt64(&rowCount, 0)
	cfg.Log.Info(cfg.Name, " fetched ", fetchedRows, " rows from Postgres")
	r, err := w.reader()
	if err != nil {
		return 0, fmt.Errorf("error serializing result set to CSV: %v", err)
	}
	if err := client.BufferPut(cfg.KeyName, r); err != nil {
		return 0, fmt.Errorf("error uploading to S3 key %q: %v", cfg.KeyName, err)
	}
	cfg.Log.Info(cfg.Name, " uploaded ", fetchedRows, " rows to s3://",
		path.Join(bucketName, cfg.BucketPrefix, cfg.KeyName))
	cfg.Log.Info(cfg.Name, " complete")
	return fetchedRows, nil
}

// csvResultWriter accumulates a full result set in memory as CSV, header first,
// then one line per row. NULL values become empty fields.
type csvResultWriter struct {
	log      logger.Logger
	buf      bytes.Buffer
	csv      *csv.Writer
	rowCount *int64
}

func newCsvResultWriter(log logger.Logger, rowCount *int64) *csvResultWriter {
	w := &csvResultWriter{log: log, rowCount: rowCount}
	w.csv = csv.NewWriter(&w.buf)
	return w
}

func (w *csvResultWriter) HandleHeader(i []interface{}) error {
	if len(i) == 0 { // if the query produced no columns...
		return nil
	}
	return w.writeRecord(i)
}

func (w *csvResultWriter) HandleRow(i []interface{}) error {
	if err := w.writeRecord(i); err != nil {
		return err
	}
	atomic.AddInt64(w.rowCount, 1) // increment the row count bearing in mind someone else is reporting on its values.
	return nil
}

func (w *csvResultWriter) writeRecord(i []interface{}) error {
	record := make([]string, len(i))
	for idx := range i {
		record[idx] = h.GetStringFromInterfacePreserveTimeZone(w.log, i[idx])
	}
	return w.csv.Write(record)
}

// reader flushes the CSV writer and returns a ReadSeeker over the buffered bytes
// ready for upload.
func (w *csvResultWriter) reader() (*bytes.Reader, error) {
	w.csv.Flush()
	if err := w.csv.Error(); err != nil {
		return nil, err
	}
	return bytes.NewReader(w.buf.Bytes()), nil
}
