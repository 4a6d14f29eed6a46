// Package table parses raw uploaded bytes (CSV or Excel) into a generic
// rectangular table of named columns. The reader dispatches on filename
// extension and performs no schema validation; later stages decide which
// columns carry range-checked sensor readings.
package table
