// Package value provides the cell and row types that flow between relq operators.
//
// A cell is one of exactly three kinds: String, Boolean or Integer. There is
// no null and no floating point. Cells read from CSV are typed by Infer, which
// is lenient; operators that need a particular kind check it strictly and
// never coerce.
//
// This package imports nothing internal. Every other internal package may
// import it.
package value
