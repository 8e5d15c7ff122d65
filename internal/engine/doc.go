// Package engine implements relq's pull-based relational operators.
//
// Every operator is a Relation: it produces rows one at a time on demand and
// reports its column names. Operators nest, each owning exactly one child,
// with a SequentialScan at the leaf:
//
//	Projection
//	  └── Selection
//	        └── SequentialScan
//
// The consumer calls Next on the root. Each operator calls Next on its child
// as many times as it needs to produce one row (Projection exactly once,
// Selection until a row qualifies), down to the scan, which performs the
// only blocking read. No operator holds more than the in-flight row.
//
// Attributes are recomputed on every call. Selection and Projection resolve
// column names against their child's current attributes for every row, so a
// name is never bound to a position ahead of time.
//
// Errors returned from Next other than io.EOF are fatal for the query. The
// one degraded case is a malformed CSV record, which the scan logs and turns
// into end of relation.
package engine
