// Package queryir is the query intermediate representation that sits between
// the SQL parser and the operator tree.
//
// The SQL front end (package querysql) lowers a parsed statement into a
// Select; the planner turns a Select into operators. Neither side sees the
// other's types:
//
//	[SQL text] → querysql → [queryir.Select] → planner → [engine.Relation]
//
// Expr and Target are sealed interfaces using the marker method pattern, so
// the evaluator and the planner can switch over them exhaustively.
//
// The IR covers exactly the supported fragment:
//   - Select(from, filter, targets): one table, optional WHERE, SELECT list
//   - Expr: Column, Literal, Binary (AND, OR, >)
//   - Target: Wildcard, ColumnTarget (source column with optional alias)
//
// Everything else is rejected while lowering, before any data is read.
package queryir
