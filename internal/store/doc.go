// Package store records query runs in a SQLite database.
//
// Each run of the interpreter appends one row to the runs table: the
// statement, its hash, where tables were resolved, how the run ended and
// the digest of the CSV it wrote. The history backs `relq history` and
// `relq replay`, which re-executes a recorded statement and checks that the
// output digest is unchanged.
//
// # Ordering
//
// Runs are ordered by seq, an INTEGER assigned on insert. started_at is
// informational only and never used for ordering, so runs recorded within
// the same clock tick still list deterministically.
//
// # Database Configuration
//
//   - WAL mode: concurrent reads while a run is being recorded
//   - synchronous=NORMAL
//   - busy_timeout=5000ms
//   - schema versioned with PRAGMA user_version
package store
