package rdbms

import (
	"regexp"
	"strings"
)

type SchemaTable struct {
	SchemaTable string `errorTxt:"[<schema>.]<object>" mandatory:"yes"`
}

func NewSchemaTable(schema string, table string) SchemaTable {
	if schema == "" {
		return SchemaTable{table}
	} else {
		return SchemaTable{schema + "." + table}
	}
}

func (st *SchemaTable) isQuotedTable() bool {
	re1 := regexp.MustCompile(`".+\..+"`)   // "random.table"
	re2 := regexp.MustCompile(`".+"\.".+"`) // "table"."schema"
	if re1.MatchString(st.SchemaTable) && !re2.MatchString(st.SchemaTable) {
		// if the schemaTable is a quoted "random.table" and not a regular "schema"."table"...
		return true
	} else {
		return false
	}
}

func (st *SchemaTable) GetTable() string {
	if st.isQuotedTable() {
		// if the schemaTable is a quoted "random.table" and not a regular "schema"."table"...
		return st.SchemaTable // return the "random.table"
	}
	// else we have a schema.table...
	sep := "."
	i := strings.Index(st.SchemaTable, sep)
	if i < 0 { // if we have just a table...
		return st.SchemaTable
	} // else we have schema.table...
	return st.SchemaTable[i+len(sep):] // return table
}

func (st *SchemaTable) GetSchema() string {
	if st.isQuotedTable() {
		// if the schemaTable is a quoted "random.table" and not a regular "schema"."table"...
		return ""
	}
	// else we have a schema.table...
	sep := "."
	i := strings.Index(st.SchemaTable, sep)
	if i < 0 { // if we have just a table...
		return ""
	} // else we have schema.table...
	return st.SchemaTable[:i] // return schema
}

func (st *SchemaTable) String() string {
	return st.SchemaTable
}
