// Copyright (c) 2026 Web Enterprise 24. All rights reserved.

// Package schema names the tables and columns of the users schema.
//
// Stores build their SQL from these definitions so that a column rename is a
// one-line change here plus a migration.
package schema

import "strings"

// List joins column names for a SELECT or INSERT column list.
func List(columns ...string) string {
	return strings.Join(columns, ", ")
}

// Prefixed qualifies every column with alias, e.g. "a.id, a.email".
func Prefixed(alias string, columns ...string) string {
	qualified := make([]string, len(columns))
	for i, column := range columns {
		qualified[i] = alias + "." + column
	}
	return strings.Join(qualified, ", ")
}
