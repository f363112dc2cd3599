package actions

import (
	"encoding/csv"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/relloyd/airpipe/helper"
	"github.com/relloyd/airpipe/logger"
	"github.com/relloyd/airpipe/rdbms"
	"golang.org/x/net/context"
)

type QueryConfig struct {
	Connections      ConnectionLoader
	SourceString     ConnectionObject
	Query            string
	PrintHeader      bool
	DryRun           bool
	LogLevel         string
	StackDumpOnPanic bool
}

type sqlHandler struct {
	log         logger.Logger
	printHeader bool
}

func (s *sqlHandler) HandleHeader(i []interface{}) error {
	if s.printHeader {
		if err := s.writeRecord(i); err != nil {
			return fmt.Errorf("error outputting SQL header: %v", err)
		}
	}
	return nil
}

func (s *sqlHandler) HandleRow(i []interface{}) error {
	if err := s.writeRecord(i); err != nil {
		return fmt.Errorf("error outputting SQL row: %v", err)
	}
	return nil
}

func (s *sqlHandler) writeRecord(i []interface{}) error {
	record := make([]string, len(i))
	for idx := range i {
		record[idx] = helper.GetStringFromInterfacePreserveTimeZone(s.log, i[idx])
	}
	w := csv.NewWriter(os.Stdout)
	if err := w.Write(record); err != nil {
		return err
	}
	w.Flush()
	return w.Error()
}

func RunQuery(cfg *QueryConfig) error {
	var err error
	if cfg.DryRun {
		fmt.Println(cfg.Query)
		return nil
	}
	log := logger.NewLogger("airpipe", cfg.LogLevel, cfg.StackDumpOnPanic)
	// Connect to database.
	conn, err := cfg.Connections.LoadConnection(cfg.SourceString.GetConnectionName())
	if err != nil {
		return err
	}
	db, err := rdbms.OpenDbConnection(log, conn)
	if err != nil {
		return err
	}
	defer db.Close()
	// Create context.
	ctx, cancelFn := context.WithCancel(context.Background())
	h := sqlHandler{log: log, printHeader: cfg.PrintHeader}
	// Handle interrupts.
	chanQuit := make(chan os.Signal, 2)
	chanSql := make(chan struct{}, 1)
	signal.Notify(chanQuit, os.Interrupt, syscall.SIGTERM)
	// Start the SQL.
	go func() {
		err = rdbms.SqlQuery(ctx, log, db, cfg.Query, &h)
		chanSql <- struct{}{}
	}()
	// Wait for SQL or interrupt.
	select {
	case <-chanQuit: // if we were interrupted...
		fmt.Println("\nUser abort. Stopping SQL execution...")
		cancelFn() // cancel the SQL.
		select {
		case <-time.After(5 * time.Second): // timeout.
			fmt.Println("Timeout waiting for SQL to end - aborted")
		case <-chanSql: // sql ended.
		}
		return nil
	case <-chanSql: // SQL ended.
	}
	return err
}
