// Package schema describes warehouse tables and generates their DDL.
//
// The warehouse follows a dim_*/fact_* naming convention: dimension and log
// tables carry the dim_ prefix, fact tables the fact_ prefix. Table
// descriptors double as documentation for downstream consumers.
package schema

import (
	"fmt"
	"strings"
)

type Schema struct {
	Name        string      `json:"name"`
	Description string      `json:"description,omitempty"`
	Tables      []TableInfo `json:"tables"`
}

type TableInfo struct {
	Name        string       `json:"name"`
	Description string       `json:"description,omitempty"`
	Columns     []ColumnInfo `json:"columns"`
	// Unique lists column groups covered by a UNIQUE constraint.
	Unique [][]string `json:"unique,omitempty"`
}

type ColumnInfo struct {
	Name        string `json:"name"`
	Type        string `json:"type"`
	Description string `json:"description,omitempty"`
	PrimaryKey  bool   `json:"primary_key,omitempty"`
	NotNull     bool   `json:"not_null,omitempty"`
}

// CreateSQL renders a CREATE TABLE IF NOT EXISTS statement for the table.
func (t TableInfo) CreateSQL() string {
	defs := make([]string, 0, len(t.Columns)+len(t.Unique))
	for _, col := range t.Columns {
		def := fmt.Sprintf("%s %s", col.Name, col.Type)
		if col.PrimaryKey {
			def += " PRIMARY KEY"
		} else if col.NotNull {
			def += " NOT NULL"
		}
		defs = append(defs, def)
	}
	for _, cols := range t.Unique {
		defs = append(defs, fmt.Sprintf("UNIQUE (%s)", strings.Join(cols, ", ")))
	}
	return fmt.Sprintf("CREATE TABLE IF NOT EXISTS %s (\n\t%s\n)", t.Name, strings.Join(defs, ",\n\t"))
}

// DropSQL renders a DROP TABLE IF EXISTS statement for the table.
func (t TableInfo) DropSQL() string {
	return fmt.Sprintf("DROP TABLE IF EXISTS %s", t.Name)
}

// ColumnNames returns the table's column names in declaration order.
func (t TableInfo) ColumnNames() []string {
	names := make([]string, 0, len(t.Columns))
	for _, col := range t.Columns {
		names = append(names, col.Name)
	}
	return names
}

// Table returns the named table descriptor, or false when the schema has no
// table with that name.
func (s *Schema) Table(name string) (TableInfo, bool) {
	for _, t := range s.Tables {
		if t.Name == name {
			return t, true
		}
	}
	return TableInfo{}, false
}

// FactTables returns the schema's fact_* tables in declaration order.
func (s *Schema) FactTables() []TableInfo {
	var tables []TableInfo
	for _, t := range s.Tables {
		if strings.HasPrefix(t.Name, "fact_") {
			tables = append(tables, t)
		}
	}
	return tables
}

// DimensionTables returns the schema's dim_* tables in declaration order.
func (s *Schema) DimensionTables() []TableInfo {
	var tables []TableInfo
	for _, t := range s.Tables {
		if strings.HasPrefix(t.Name, "dim_") {
			tables = append(tables, t)
		}
	}
	return tables
}
