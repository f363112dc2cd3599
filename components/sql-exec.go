package components

import (
	"fmt"
	"sync/atomic"

	"github.com/relloyd/airpipe/logger"
	"github.com/relloyd/airpipe/rdbms/shared"
	s "github.com/relloyd/airpipe/stats"
	"golang.org/x/net/context"
)

type SqlExecConfig struct {
	Log         logger.Logger
	Name        string
	OutputDb    shared.Connector
	Sqltext     []string       // statements executed in order on the same connection.
	StepWatcher *s.StepWatcher // optional ptr to object that can gather step stats.
}

// ExecSql executes each statement in order against the output database.
// The first failing statement aborts the remainder.
func ExecSql(ctx context.Context, cfg *SqlExecConfig) error {
	cfg.Log.Info(cfg.Name, " is running")
	rowCount := int64(0)
	if cfg.StepWatcher != nil { // if we have been given a stepWatcher struct that can watch our statement count...
		cfg.StepWatcher.StartWatching(&rowCount)
		defer cfg.StepWatcher.StopWatching()
	}
	for _, sqltext := range cfg.Sqltext { // for each statement...
		if sqltext == "" {
			cfg.Log.Info(cfg.Name, " received unexpected empty SQL - skipping")
			continue
		}
		cfg.Log.Info(cfg.Name, " executing SQL: ", sqltext)
		if _, err := cfg.OutputDb.ExecContext(ctx, sqltext); err != nil {
			return fmt.Errorf("error executing SQL '%v': %v", sqltext, err)
		}
		atomic.AddInt64(&rowCount, 1) // increment the statement count bearing in mind someone else is reporting on its values.
	}
	cfg.Log.Info(cfg.Name, " complete")
	return nil
}
