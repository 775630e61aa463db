// Package launcher writes run-one.sh, the script that runs one experiment's
// checker command from inside the experiment directory.
package launcher

import (
	"fmt"
	"os"
	"strings"
)

const (
	// ScriptName is the launcher's file name inside an experiment directory.
	ScriptName = "run-one.sh"
	// Mode is owner read/write/execute only.
	Mode os.FileMode = 0o700
)

// Preamble is everything the script runs before the checker command. The
// last line moves into the directory holding the script, so the command
// sees the copied specification files whatever the caller's directory is.
var Preamble = []string{
	"#!/bin/bash",
	"set -e",
	`D=$(dirname "$0") && D=$(cd "$D"; pwd) && cd "$D"`,
}

// Lines returns the script for command, one statement per line.
func Lines(command string) []string {
	lines := make([]string, 0, len(Preamble)+1)
	lines = append(lines, Preamble...)
	return append(lines, command)
}

// Render returns the script text with every line newline-terminated.
func Render(command string) string {
	return strings.Join(Lines(command), "\n") + "\n"
}

// Write creates the script at path and sets Mode on it regardless of umask.
func Write(path, command string) error {
	if err := os.WriteFile(path, []byte(Render(command)), Mode); err != nil {
		return fmt.Errorf("failed to write launcher %s: %w", path, err)
	}
	if err := os.Chmod(path, Mode); err != nil {
		return fmt.Errorf("failed to chmod launcher %s: %w", path, err)
	}
	return nil
}
