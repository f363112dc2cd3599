package components

import (
	"fmt"
	"os"
	"sync/atomic"

	h "github.com/relloyd/airpipe/helper"
	"github.com/relloyd/airpipe/logger"
	"github.com/relloyd/airpipe/rdbms/shared"
	s "github.com/relloyd/airpipe/stats"
	"golang.org/x/net/context"
)

type CopyIntoTableConfig struct {
	Log         logger.Logger
	Name        string
	OutputDb    shared.Connector
	TableName   string         // [<schema>.]<table> target of the COPY.
	Columns     []string       // COPY column list matching the normalized file column order.
	Files       []string       // normalized CSV files to load, in order.
	NullToken   string         // token the files use for NULL.
	StepWatcher *s.StepWatcher // optional ptr to object that can gather step stats.
}

// RunCopyIntoTable purges rows previously loaded today then streams each normalized
// file into the table via COPY. The purge commits on its own; the copies commit once
// after all files so a load lands all or nothing. A failed copy rolls the load
// transaction back and fails the step.
// Same-day runs against the same table are serialized with a Postgres advisory lock
// held on this connection's pinned session for the duration, so a second run waits,
// then purges the first run's rows before loading its own.
// It returns the total number of rows loaded.
func RunCopyIntoTable(ctx context.Context, cfg *CopyIntoTableConfig) (int64, error) {
	cfg.Log.Info(cfg.Name, " is running")
	rowCount := int64(0)
	if cfg.StepWatcher != nil { // if we have been given a stepWatcher struct that can watch our rowCount...
		cfg.StepWatcher.StartWatching(&rowCount)
		defer cfg.StepWatcher.StopWatching()
	}
	// The lock is session-scoped, not transaction-scoped, so it survives the
	// commits below and is released on every exit path.
	lockKey := AdvisoryLockKey("airpipe.load." + cfg.TableName)
	cfg.Log.Info(cfg.Name, " acquiring advisory lock ", lockKey, " for table ", cfg.TableName)
	if _, err := cfg.OutputDb.ExecContext(ctx, fmt.Sprintf("SELECT pg_advisory_lock(%d)", lockKey)); err != nil {
		return 0, fmt.Errorf("error acquiring advisory lock for table %v: %v", cfg.TableName, err)
	}
	defer func() {
		// Context-free exec so the unlock still runs after cancellation.
		if _, err := cfg.OutputDb.Exec(fmt.Sprintf("SELECT pg_advisory_unlock(%d)", lockKey)); err != nil {
			cfg.Log.Error(cfg.Name, " error releasing advisory lock ", lockKey, ": ", err)
		}
	}()
	// Purge rows already loaded today and commit before any COPY begins.
	if err := purgeLoadDate(ctx, cfg); err != nil {
		return 0, err
	}
	// Load all files in one transaction.
	tx, err := cfg.OutputDb.Begin()
	if err != nil {
		return 0, fmt.Errorf("error starting load transaction: %v", err)
	}
	copySql := fmt.Sprintf("COPY %v (%v) FROM STDIN WITH (FORMAT CSV, HEADER TRUE, NULL '%v')",
		cfg.TableName, h.StringsToCsv(cfg.Columns), cfg.NullToken)
	for _, fileName := range cfg.Files { // for each normalized file...
		rows, err := copyFile(ctx, cfg, tx, copySql, fileName)
		if err != nil {
			_ = tx.Rollback()
			return 0, err
		}
		atomic.AddInt64(&rowCount, rows)
	}
	if err := tx.Commit(); err != nil {
		return 0, fmt.Errorf("error committing load transaction: %v", err)
	}
	totalRows := atomic.AddInt64(&rowCount, 0)
	cfg.Log.Info(cfg.Name, " loaded ", totalRows, " rows into table ", cfg.TableName)
	cfg.Log.Info(cfg.Name, " complete")
	return totalRows, nil
}

// purgeLoadDate deletes the rows loaded into the table earlier today and commits,
// making a rerun on the same calendar day idempotent.
func purgeLoadDate(ctx context.Context, cfg *CopyIntoTableConfig) error {
	tx, err := cfg.OutputDb.Begin()
	if err != nil {
		return fmt.Errorf("error starting purge transaction: %v", err)
	}
	sqltext := fmt.Sprintf("DELETE FROM %v WHERE load_date = CURRENT_DATE", cfg.TableName)
	cfg.Log.Info(cfg.Name, " executing SQL: ", sqltext)
	res, err := tx.ExecContext(ctx, sqltext)
	if err != nil {
		_ = tx.Rollback()
		return fmt.Errorf("error executing SQL '%v': %v", sqltext, err)
	}
	rowsPurged, err := res.RowsAffected()
	if err != nil {
		_ = tx.Rollback()
		return fmt.Errorf("error checking number of rows affected after SQL '%v': %v", sqltext, err)
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("error committing purge transaction: %v", err)
	}
	cfg.Log.Info(cfg.Name, " purged ", rowsPurged, " rows for the current load date")
	return nil
}

func copyFile(ctx context.Context, cfg *CopyIntoTableConfig, tx shared.Transacter, copySql string, fileName string) (int64, error) {
	f, err := os.Open(fileName)
	if err != nil {
		return 0, fmt.Errorf("unable to open file %q: %v", fileName, err)
	}
	defer func() {
		_ = f.Close()
	}()
	cfg.Log.Info(cfg.Name, " copying file '", fileName, "' into table ", cfg.TableName)
	rows, err := tx.CopyFrom(ctx, f, copySql)
	if err != nil {
		return 0, fmt.Errorf("error copying file %q into table %v: %v", fileName, cfg.TableName, err)
	}
	return rows, nil
}
