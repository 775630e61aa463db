package checker

import (
	"context"
	"path/filepath"
	"strings"
)

// ApalacheName selects Apalache in the tool column.
const ApalacheName = "apalache"

// Apalache runs the symbolic model checker shipped in the source tree under
// bin/apalache-mc.
type Apalache struct{}

func (Apalache) sealed() {}

// Name implements Checker.
func (Apalache) Name() string { return ApalacheName }

// BuildCommand implements Checker. Blank fields produce no flag at all.
func (Apalache) BuildCommand(_ context.Context, job Job) (string, error) {
	row := job.Row
	return joinCommand(
		quote(filepath.Join(job.SourceDir, "bin", "apalache-mc")),
		"check",
		flag("init", row.Init),
		flag("next", row.Next),
		flag("inv", row.Inv),
		strings.TrimSpace(row.Args),
		quote(job.Entry),
	), nil
}
