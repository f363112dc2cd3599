package rdbms

import (
	"fmt"

	"github.com/relloyd/airpipe/logger"
	"github.com/relloyd/airpipe/rdbms/shared"
	"golang.org/x/net/context"
)

// SqlQuery executes sqltext against db and feeds the result set to the supplied handler,
// header first, then one callback per row. Row values are in the database's default
// text representation with NULLs supplied as nil.
func SqlQuery(ctx context.Context, log logger.Logger, db shared.Connector, sqltext string, i shared.SqlResultHandler) error {
	var err error
	var rows *shared.ApRows
	rows, err = db.QueryContext(ctx, sqltext)
	if err != nil {
		return fmt.Errorf("error during database query using SQL: '%v': %w", sqltext, err)
	}
	defer func() {
		_ = rows.Close()
	}()
	// Build and send the header.
	log.Debug("fetching result set columns...")
	cols, err := rows.Columns()
	if err != nil {
		return err
	}
	lenCols := len(cols)
	header := make([]interface{}, lenCols, lenCols)
	for idx := range cols {
		header[idx] = cols[idx]
	}
	err = i.HandleHeader(header)
	if err != nil {
		return err
	}
	// Send the rows via callback interface.
	for rows.Next() {
		select { // quit if asked to, else continue...
		case <-ctx.Done():
			break
		default:
		}
		// Fetch the row.
		row, err := rows.Values()
		if err != nil {
			return fmt.Errorf("error fetching row values: %v", err)
		}
		// Send the row.
		err = i.HandleRow(row)
		if err != nil {
			return err
		}
	}
	return rows.Err()
}
