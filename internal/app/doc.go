// Package app contains the core application logic. It defines the main App
// struct, its configuration, and the run that reads the experiment table and
// materializes every row, decoupled from the CLI entrypoint.
package app
