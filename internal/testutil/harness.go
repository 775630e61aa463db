// Package testutil holds fixtures shared by the package tests: a log buffer
// and helpers that lay out specification trees and experiment tables on disk.
package testutil

import (
	"bytes"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"
	"testing"

	"github.com/stretchr/testify/require"
)

// SafeBuffer is a thread-safe buffer for capturing log output in tests.
type SafeBuffer struct {
	b  bytes.Buffer
	mu sync.Mutex
}

// Write implements the io.Writer interface for SafeBuffer.
func (b *SafeBuffer) Write(p []byte) (int, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.b.Write(p)
}

// String implements the fmt.Stringer interface for SafeBuffer.
func (b *SafeBuffer) String() string {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.b.String()
}

// Workspace is a temporary tree with the four roots a run needs.
type Workspace struct {
	Root       string
	CheckerDir string
	SpecDir    string
	OutDir     string
}

// NewWorkspace creates the checker and spec roots under t.TempDir. OutDir is
// only named, not created, as a run creates it.
func NewWorkspace(t *testing.T) *Workspace {
	t.Helper()
	root := t.TempDir()
	ws := &Workspace{
		Root:       root,
		CheckerDir: filepath.Join(root, "apalache"),
		SpecDir:    filepath.Join(root, "specs"),
		OutDir:     filepath.Join(root, "out"),
	}
	require.NoError(t, os.MkdirAll(ws.CheckerDir, 0o755))
	require.NoError(t, os.MkdirAll(ws.SpecDir, 0o755))
	return ws
}

// WriteFiles writes files (relative path -> content) under root, creating
// intermediate directories.
func WriteFiles(t *testing.T, root string, files map[string]string) {
	t.Helper()
	for name, content := range files {
		path := filepath.Join(root, name)
		require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
		require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	}
}

// WriteTable writes an experiment table into the workspace root and returns
// its path.
func (ws *Workspace) WriteTable(t *testing.T, lines ...string) string {
	t.Helper()
	path := filepath.Join(ws.Root, "experiments.csv")
	require.NoError(t, os.WriteFile(path, []byte(strings.Join(lines, "\n")+"\n"), 0o644))
	return path
}

// ListDir returns the sorted entry names of dir, or nil when dir is missing.
func ListDir(t *testing.T, dir string) []string {
	t.Helper()
	entries, err := os.ReadDir(dir)
	if os.IsNotExist(err) {
		return nil
	}
	require.NoError(t, err)
	names := make([]string, 0, len(entries))
	for _, e := range entries {
		names = append(names, e.Name())
	}
	sort.Strings(names)
	return names
}

// PaxosSpec is a small specification tree used across tests: two modules and
// a config next to the entry, plus files that must not be copied.
var PaxosSpec = map[string]string{
	"paxos/Paxos.tla":      "---- MODULE Paxos ----\nEXTENDS Voting\n====\n",
	"paxos/Voting.tla":     "---- MODULE Voting ----\n====\n",
	"paxos/MC.cfg":         "INIT\nSourceInit\n",
	"paxos/README.md":      "not a spec\n",
	"paxos/Paxos.tla.bak":  "backup\n",
	"paxos/sub/Deep.tla":   "---- MODULE Deep ----\n====\n",
	"counter/Counter.tla":  "---- MODULE Counter ----\n====\n",
	"counter/Counter.json": "{}\n",
}
