// Package experiment defines the experiment row, the fixed record every other
// package works with once the table has been read.
package experiment
