// Package query provides SQL query construction with projection mapping
// from view property names to qualified column references.
package query

import (
	"fmt"
	"strings"
)

// ProjectionMap maps view property names to alias-qualified columns for a
// table, optionally extended with joins.
type ProjectionMap struct {
	schema  string
	table   string
	alias   string
	joins   []string
	columns map[string]string
	ordered []string
}

// NewProjectionMap creates a ProjectionMap for schema.table aliased as alias.
func NewProjectionMap(schema, table, alias string) *ProjectionMap {
	return &ProjectionMap{
		schema:  schema,
		table:   table,
		alias:   alias,
		columns: make(map[string]string),
	}
}

// Project maps a database column to a view property name.
func (p *ProjectionMap) Project(column, viewName string) *ProjectionMap {
	qualified := fmt.Sprintf("%s.%s", p.alias, column)
	p.columns[viewName] = qualified
	p.ordered = append(p.ordered, qualified)
	return p
}

// Join appends a join clause; subsequent Project calls still qualify columns
// with the base alias, so joined columns should be projected via ProjectAs.
func (p *ProjectionMap) Join(clause string) *ProjectionMap {
	p.joins = append(p.joins, clause)
	return p
}

// ProjectAs maps an explicitly qualified column expression to a view name.
func (p *ProjectionMap) ProjectAs(qualified, viewName string) *ProjectionMap {
	p.columns[viewName] = qualified
	p.ordered = append(p.ordered, qualified)
	return p
}

// Column resolves a view property name to its qualified column, returning
// the input unchanged when unmapped.
func (p *ProjectionMap) Column(viewName string) string {
	if col, ok := p.columns[viewName]; ok {
		return col
	}
	return viewName
}

// Columns returns the projected columns as a comma-separated list.
func (p *ProjectionMap) Columns() string {
	return strings.Join(p.ordered, ", ")
}

// From returns the FROM clause body: qualified table, alias, and any joins.
func (p *ProjectionMap) From() string {
	from := fmt.Sprintf("%s.%s %s", p.schema, p.table, p.alias)
	if len(p.joins) > 0 {
		from += " " + strings.Join(p.joins, " ")
	}
	return from
}
