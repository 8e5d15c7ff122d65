// Package harness runs relq query scenarios: small, self-contained tests
// that pair CSV tables with a statement and its expected result.
//
// # Scenario Format
//
// Scenarios are YAML files:
//
//	name: adults_only
//	description: "WHERE keeps rows whose age is over 18"
//	tables:
//	  people.csv: |
//	    name,age
//	    Alice,30
//	    Bob,15
//	sql: SELECT name FROM people.csv WHERE age > 18
//	expect:
//	  output: |
//	    name
//	    Alice
//	assertions:
//	  - type: row_count
//	    count: 1
//	  - type: contains_row
//	    row: [Alice]
//
// Tables are written to a fresh directory that the statement's table names
// resolve against. expect.output compares the CSV output byte for byte;
// expect.error names the QueryError code the run must fail with.
//
// # Assertion Types
//
//   - row_count: the result has exactly count rows
//   - columns: the header equals columns
//   - contains_row: some row equals row
//   - row_order: the listed rows appear in this relative order
//
// # Golden Files
//
// Snapshot renders a scenario run as text for golden comparison. Tests use
// RunWithGolden (goldie, testdata/golden); `relq test` keeps golden files in
// a golden/ directory next to the scenarios.
package harness
