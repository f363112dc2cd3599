package tabledefinition

import (
	"fmt"
	"strings"

	"github.com/cevaris/ordered_map"
	"github.com/relloyd/airpipe/rdbms"
)

// TableColumn defines a single table column.
// Columns with a Default expression are populated by the database and are
// excluded from the COPY column list.
type TableColumn struct {
	ColName  string
	DataType string
	Default  string
}

// TableDefinition is an ordered set of column definitions for one table.
// The DDL and the COPY column list are rendered from the same ordered map so
// they can never disagree about column order.
type TableDefinition struct {
	cols *ordered_map.OrderedMap
}

// Listings is the destination table loaded from Inside Airbnb snapshot files.
// The last two columns are set by the database per load.
var Listings = NewTableDefinition(
	TableColumn{ColName: "id", DataType: "BIGINT"},
	TableColumn{ColName: "name", DataType: "TEXT"},
	TableColumn{ColName: "host_id", DataType: "INTEGER"},
	TableColumn{ColName: "host_name", DataType: "VARCHAR(255)"},
	TableColumn{ColName: "neighbourhood_group", DataType: "VARCHAR(255)"},
	TableColumn{ColName: "neighbourhood", DataType: "VARCHAR(255)"},
	TableColumn{ColName: "latitude", DataType: "DECIMAL(10, 7)"},
	TableColumn{ColName: "longitude", DataType: "DECIMAL(10, 7)"},
	TableColumn{ColName: "room_type", DataType: "VARCHAR(50)"},
	TableColumn{ColName: "price", DataType: "NUMERIC(10,2)"},
	TableColumn{ColName: "minimum_nights", DataType: "INTEGER"},
	TableColumn{ColName: "number_of_reviews", DataType: "INTEGER"},
	TableColumn{ColName: "last_review", DataType: "DATE"},
	TableColumn{ColName: "reviews_per_month", DataType: "NUMERIC(10, 2)"},
	TableColumn{ColName: "calculated_host_listings_count", DataType: "INTEGER"},
	TableColumn{ColName: "availability_365", DataType: "INTEGER"},
	TableColumn{ColName: "number_of_reviews_ltm", DataType: "INTEGER"},
	TableColumn{ColName: "license", DataType: "VARCHAR(255)"},
	TableColumn{ColName: "load_date", DataType: "DATE", Default: "CURRENT_DATE"},
	TableColumn{ColName: "processed_at", DataType: "TIMESTAMP", Default: "CURRENT_TIMESTAMP"},
)

func NewTableDefinition(cols ...TableColumn) *TableDefinition {
	t := &TableDefinition{cols: ordered_map.NewOrderedMap()}
	for _, col := range cols {
		t.cols.Set(col.ColName, col)
	}
	return t
}

// Columns returns the full ordered column list.
func (t *TableDefinition) Columns() []TableColumn {
	cols := make([]TableColumn, 0, t.cols.Len())
	iter := t.cols.IterFunc()
	for kv, ok := iter(); ok; kv, ok = iter() { // for each column definition...
		cols = append(cols, kv.Value.(TableColumn))
	}
	return cols
}

// CopyColumns returns the ordered names of the columns that are supplied by
// normalized CSV files i.e. those without a database default.
func (t *TableDefinition) CopyColumns() []string {
	cols := make([]string, 0, t.cols.Len())
	iter := t.cols.IterFunc()
	for kv, ok := iter(); ok; kv, ok = iter() { // for each column definition...
		col := kv.Value.(TableColumn)
		if col.Default == "" { // if the column is loaded rather than defaulted...
			cols = append(cols, col.ColName)
		}
	}
	return cols
}

// DropDDL generates the statement that drops the table if it exists.
func (t *TableDefinition) DropDDL(schemaTable rdbms.SchemaTable) string {
	return fmt.Sprintf("DROP TABLE IF EXISTS %v", schemaTable.String())
}

// CreateDDL generates the CREATE TABLE statement for the supplied
// [<schema>.]<table> combination using the ordered column definitions.
func (t *TableDefinition) CreateDDL(schemaTable rdbms.SchemaTable) string {
	var fields []string
	var deflt string
	iter := t.cols.IterFunc()
	for kv, ok := iter(); ok; kv, ok = iter() { // for each column definition...
		col := kv.Value.(TableColumn)
		if col.Default != "" { // if the database supplies this column...
			deflt = fmt.Sprintf(" DEFAULT %v", col.Default)
		} else {
			deflt = ""
		}
		fields = append(fields, fmt.Sprintf("%v %v%v", col.ColName, col.DataType, deflt))
	}
	return fmt.Sprintf("CREATE TABLE IF NOT EXISTS %v ( %v )", schemaTable.String(), strings.Join(fields, ", "))
}

// RecreateDDL generates the drop+create statement pair that resets the table.
// Recreation is unconditional so schema changes are applied by rerunning it.
func (t *TableDefinition) RecreateDDL(schemaTable rdbms.SchemaTable) []string {
	return []string{t.DropDDL(schemaTable), t.CreateDDL(schemaTable)}
}
