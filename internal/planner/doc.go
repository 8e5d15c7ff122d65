// Package planner turns a lowered SELECT into an operator tree.
//
// Operators apply in the literal clause order, with no optimization:
//
//	SequentialScan(FROM) -> Selection(WHERE) -> Projection(SELECT list)
//
// Selection is omitted when there is no WHERE clause and Projection when the
// SELECT list is empty. A bare * still becomes a wildcard Projection.
package planner
