package materialize

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strconv"

	"github.com/specialistvlad/expgrid/internal/checker"
	"github.com/specialistvlad/expgrid/internal/ctxlog"
	"github.com/specialistvlad/expgrid/internal/experiment"
	"github.com/specialistvlad/expgrid/internal/fsutil"
	"github.com/specialistvlad/expgrid/internal/launcher"
	"github.com/specialistvlad/expgrid/internal/manifest"
)

// Suffixes of the files copied from the entry's directory.
const (
	SpecSuffix   = ".tla"
	ConfigSuffix = ".cfg"
)

// Layout holds the absolute roots every experiment is resolved against.
type Layout struct {
	CheckerDir string // checker source tree
	SpecDir    string // root the table's filenames are relative to
	OutDir     string // parent of the numbered experiment directories
}

// Result describes one materialized experiment.
type Result struct {
	Dir     string
	Script  string
	Command string
	Files   []string // specification and configuration files in Dir, copied or generated
}

// Materializer lays out experiment directories under a Layout.
type Materializer struct {
	layout Layout
}

// New returns a Materializer for layout.
func New(layout Layout) *Materializer {
	return &Materializer{layout: layout}
}

// Dir returns the experiment directory of the row at index.
func (m *Materializer) Dir(index int) string {
	return filepath.Join(m.layout.OutDir, strconv.Itoa(index))
}

// All materializes rows in order and stops at the first failure. Directories
// of rows that completed before the failure are left in place.
func (m *Materializer) All(ctx context.Context, rows []experiment.Row) ([]*Result, error) {
	results := make([]*Result, 0, len(rows))
	for _, row := range rows {
		if err := ctx.Err(); err != nil {
			return results, fmt.Errorf("stopped before experiment %d: %w", row.Index, err)
		}
		res, err := m.Experiment(ctx, row)
		if err != nil {
			return results, err
		}
		results = append(results, res)
	}
	return results, nil
}

// Experiment creates the directory for row, copies the specification files
// next to its entry file, writes the launcher script and the manifest. The
// checker is resolved before anything touches the disk, so an unknown tool
// leaves no trace for this row.
func (m *Materializer) Experiment(ctx context.Context, row experiment.Row) (*Result, error) {
	ctx = ctxlog.With(ctx, "experiment", row.Index)
	logger := ctxlog.FromContext(ctx)

	chk, err := checker.ForTool(row.Tool)
	if err != nil {
		return nil, fmt.Errorf("experiment %d (line %d): %w", row.Index, row.Line, err)
	}

	dir := m.Dir(row.Index)
	logger.Info("Populating experiment directory.", "dir", dir, "tool", chk.Name())
	if err := os.MkdirAll(m.layout.OutDir, 0o755); err != nil {
		return nil, fmt.Errorf("failed to create output root: %w", err)
	}
	if err := os.Mkdir(dir, 0o755); err != nil {
		return nil, fmt.Errorf("failed to create experiment directory: %w", err)
	}

	entryPath := filepath.Join(m.layout.SpecDir, row.Filename)
	entryDir, entry := filepath.Split(entryPath)

	copied, err := fsutil.FindFilesBySuffix(entryDir, SpecSuffix, ConfigSuffix)
	if err != nil {
		return nil, fmt.Errorf("failed to list specification files in %s: %w", entryDir, err)
	}
	for _, name := range copied {
		if err := fsutil.CopyFile(filepath.Join(entryDir, name), filepath.Join(dir, name)); err != nil {
			return nil, fmt.Errorf("failed to copy %s: %w", name, err)
		}
		logger.Info("Copied specification file.", "file", name)
	}

	command, err := chk.BuildCommand(ctx, checker.Job{
		Dir:       dir,
		SourceDir: m.layout.CheckerDir,
		Entry:     entry,
		Row:       row,
	})
	if err != nil {
		return nil, fmt.Errorf("experiment %d: failed to build %s command: %w", row.Index, chk.Name(), err)
	}

	// The checker may have added its own configuration next to the copies.
	files, err := fsutil.FindFilesBySuffix(dir, SpecSuffix, ConfigSuffix)
	if err != nil {
		return nil, fmt.Errorf("failed to list experiment files in %s: %w", dir, err)
	}

	script := filepath.Join(dir, launcher.ScriptName)
	if err := launcher.Write(script, command); err != nil {
		return nil, err
	}
	logger.Info("Created launcher script.", "path", script)

	err = manifest.Write(filepath.Join(dir, manifest.FileName), manifest.Manifest{
		Index:    row.Index,
		Line:     row.Line,
		Tool:     row.Tool,
		Filename: row.Filename,
		Init:     row.Init,
		Next:     row.Next,
		Inv:      row.Inv,
		Args:     row.Args,
		Command:  command,
		Files:    files,
	})
	if err != nil {
		return nil, err
	}

	return &Result{Dir: dir, Script: script, Command: command, Files: files}, nil
}
