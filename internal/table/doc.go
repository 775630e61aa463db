// Package table reads the experiment table: a delimited text file whose
// delimiter is sniffed from its first kilobyte and whose first record must be
// a header. Each data record becomes an experiment.Row.
package table
