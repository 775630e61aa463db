package checker

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/kballard/go-shellquote"
	"github.com/specialistvlad/expgrid/internal/experiment"
)

// ErrUnknownTool is returned by ForTool for a tool identifier outside the
// supported set.
var ErrUnknownTool = errors.New("unknown tool")

// Job is everything a checker needs to build the command for one experiment.
type Job struct {
	// Dir is the experiment directory the launcher script runs in.
	Dir string
	// SourceDir is the root of the checker's source tree.
	SourceDir string
	// Entry is the base name of the specification the checker starts from.
	Entry string
	Row   experiment.Row
}

// Checker builds the shell command that runs one model checker on one
// experiment. The set of implementations is closed.
type Checker interface {
	// Name is the tool identifier that selects this checker in the table.
	Name() string
	// BuildCommand returns the command line for job. It may write auxiliary
	// files into job.Dir.
	BuildCommand(ctx context.Context, job Job) (string, error)

	sealed()
}

// ForTool returns the checker registered under tool.
func ForTool(tool string) (Checker, error) {
	switch tool {
	case ApalacheName:
		return Apalache{}, nil
	case TLCName:
		return TLC{}, nil
	default:
		return nil, fmt.Errorf("%w: %s", ErrUnknownTool, tool)
	}
}

// Names lists the supported tool identifiers.
func Names() []string {
	return []string{ApalacheName, TLCName}
}

// joinCommand joins the non-empty parts of a command with single spaces.
func joinCommand(parts ...string) string {
	out := parts[:0:0]
	for _, p := range parts {
		if p != "" {
			out = append(out, p)
		}
	}
	return strings.Join(out, " ")
}

// quote shell-quotes s when it holds characters the shell would interpret.
func quote(s string) string {
	return shellquote.Join(s)
}

// flag renders --key=value, or nothing for a blank value.
func flag(key, value string) string {
	if experiment.Blank(value) {
		return ""
	}
	return quote(fmt.Sprintf("--%s=%s", key, strings.TrimSpace(value)))
}
