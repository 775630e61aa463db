package checker

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/specialistvlad/expgrid/internal/ctxlog"
	"github.com/specialistvlad/expgrid/internal/experiment"
)

const (
	// TLCName selects TLC in the tool column.
	TLCName = "tlc"
	// ConfigFile is the TLC configuration written next to the launcher.
	ConfigFile = "MC.cfg"
)

// TLC runs the explicit-state checker from tla2tools.jar. TLC reads its
// init, next and invariant names from a configuration file rather than
// from flags.
type TLC struct{}

func (TLC) sealed() {}

// Name implements Checker.
func (TLC) Name() string { return TLCName }

// BuildCommand implements Checker. It writes MC.cfg into job.Dir first.
func (TLC) BuildCommand(ctx context.Context, job Job) (string, error) {
	cfgPath := filepath.Join(job.Dir, ConfigFile)
	if err := os.WriteFile(cfgPath, []byte(Config(job.Row)), 0o644); err != nil {
		return "", fmt.Errorf("failed to write %s: %w", cfgPath, err)
	}
	ctxlog.FromContext(ctx).Debug("Wrote TLC configuration.", "path", cfgPath)

	jar := filepath.Join(job.SourceDir, "3rdparty", "tla2tools.jar")
	return joinCommand(
		"java", "-cp", quote(jar), "tlc2.TLC",
		"-config", ConfigFile,
		strings.TrimSpace(job.Row.Args),
		quote(job.Entry),
	), nil
}

// Config renders the TLC configuration for row: a directive line followed
// by its value line for every non-blank field.
func Config(row experiment.Row) string {
	var b strings.Builder
	for _, d := range []struct{ directive, value string }{
		{"INIT", row.Init},
		{"NEXT", row.Next},
		{"INVARIANT", row.Inv},
	} {
		if experiment.Blank(d.value) {
			continue
		}
		fmt.Fprintf(&b, "%s\n%s\n", d.directive, strings.TrimSpace(d.value))
	}
	return b.String()
}
