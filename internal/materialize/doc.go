// Package materialize turns experiment rows into numbered, self-contained
// directories under an output root. Each directory receives the
// specification files sitting next to the row's entry file, a launcher
// script for the row's checker and a manifest naming the row.
package materialize
