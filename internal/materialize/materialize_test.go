package materialize

import (
	"context"
	"io/fs"
	"os"
	"path/filepath"
	"strconv"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/specialistvlad/expgrid/internal/checker"
	"github.com/specialistvlad/expgrid/internal/experiment"
	"github.com/specialistvlad/expgrid/internal/launcher"
	"github.com/specialistvlad/expgrid/internal/manifest"
	"github.com/specialistvlad/expgrid/internal/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setup(t *testing.T) (*testutil.Workspace, *Materializer) {
	t.Helper()
	ws := testutil.NewWorkspace(t)
	testutil.WriteFiles(t, ws.SpecDir, testutil.PaxosSpec)
	return ws, New(Layout{CheckerDir: ws.CheckerDir, SpecDir: ws.SpecDir, OutDir: ws.OutDir})
}

func rows(rs ...experiment.Row) []experiment.Row {
	for i := range rs {
		rs[i].Index = i
		rs[i].Line = i + 2
	}
	return rs
}

func TestAll_OneDirectoryPerRow(t *testing.T) {
	t.Parallel()
	ws, m := setup(t)

	input := rows(
		experiment.Row{Filename: "paxos/Paxos.tla", Tool: "apalache"},
		experiment.Row{Filename: "paxos/Paxos.tla", Tool: "tlc", Init: "Init", Next: "Next"},
		experiment.Row{Filename: "counter/Counter.tla", Tool: "apalache", Inv: "TypeOK"},
	)
	results, err := m.All(context.Background(), input)
	require.NoError(t, err)
	require.Len(t, results, 3)

	assert.Equal(t, []string{"0", "1", "2"}, testutil.ListDir(t, ws.OutDir))
	for i, res := range results {
		assert.Equal(t, filepath.Join(ws.OutDir, strconv.Itoa(i)), res.Dir)
		assert.FileExists(t, res.Script)
	}
}

func TestExperiment_CopiesOnlySpecificationFiles(t *testing.T) {
	t.Parallel()
	ws, m := setup(t)

	res, err := m.Experiment(context.Background(), rows(experiment.Row{Filename: "paxos/Paxos.tla", Tool: "apalache"})[0])
	require.NoError(t, err)

	assert.Equal(t, []string{"MC.cfg", "Paxos.tla", "Voting.tla"}, res.Files)
	assert.Equal(t,
		[]string{"MC.cfg", "Paxos.tla", "Voting.tla", manifest.FileName, launcher.ScriptName},
		testutil.ListDir(t, res.Dir),
	)
	for _, name := range res.Files {
		want, err := os.ReadFile(filepath.Join(ws.SpecDir, "paxos", name))
		require.NoError(t, err)
		got, err := os.ReadFile(filepath.Join(res.Dir, name))
		require.NoError(t, err)
		assert.Equal(t, want, got, "copy of %s differs", name)
	}
}

func TestExperiment_ApalacheWithoutOptionalFields(t *testing.T) {
	t.Parallel()
	ws, m := setup(t)

	res, err := m.Experiment(context.Background(), rows(experiment.Row{Filename: "paxos/Paxos.tla", Tool: "apalache"})[0])
	require.NoError(t, err)

	expectedCmd := filepath.Join(ws.CheckerDir, "bin", "apalache-mc") + " check Paxos.tla"
	assert.Equal(t, expectedCmd, res.Command)

	script, err := os.ReadFile(res.Script)
	require.NoError(t, err)
	assert.Equal(t, launcher.Render(expectedCmd), string(script))

	info, err := os.Stat(res.Script)
	require.NoError(t, err)
	assert.Equal(t, launcher.Mode, info.Mode().Perm())
}

func TestExperiment_TLCConfigReplacesCopiedOne(t *testing.T) {
	t.Parallel()
	_, m := setup(t)

	res, err := m.Experiment(context.Background(), rows(experiment.Row{
		Filename: "paxos/Paxos.tla", Tool: "tlc", Init: "Init", Next: "Next", Inv: "Consistency",
	})[0])
	require.NoError(t, err)

	cfg, err := os.ReadFile(filepath.Join(res.Dir, checker.ConfigFile))
	require.NoError(t, err)
	assert.Equal(t, "INIT\nInit\nNEXT\nNext\nINVARIANT\nConsistency\n", string(cfg))
}

func TestExperiment_WritesManifest(t *testing.T) {
	t.Parallel()
	_, m := setup(t)

	row := experiment.Row{Index: 4, Line: 7, Filename: "counter/Counter.tla", Tool: "apalache", Inv: "TypeOK", Args: "--length=5"}
	res, err := m.Experiment(context.Background(), row)
	require.NoError(t, err)

	got, err := manifest.Load(filepath.Join(res.Dir, manifest.FileName))
	require.NoError(t, err)
	expected := manifest.Manifest{
		Index: 4, Line: 7, Tool: "apalache", Filename: "counter/Counter.tla",
		Inv: "TypeOK", Args: "--length=5", Command: res.Command, Files: []string{"Counter.tla"},
	}
	if diff := cmp.Diff(expected, *got); diff != "" {
		t.Errorf("manifest mismatch (-want +got):\n%s", diff)
	}
}

func TestExperiment_ManifestListsGeneratedConfig(t *testing.T) {
	t.Parallel()
	_, m := setup(t)

	res, err := m.Experiment(context.Background(), rows(experiment.Row{
		Filename: "counter/Counter.tla", Tool: "tlc", Init: "Init", Next: "Next",
	})[0])
	require.NoError(t, err)

	expected := []string{"Counter.tla", checker.ConfigFile}
	assert.Equal(t, expected, res.Files)
	got, err := manifest.Load(filepath.Join(res.Dir, manifest.FileName))
	require.NoError(t, err)
	assert.Equal(t, expected, got.Files)
}

func TestExperiment_SkipsDanglingSymlink(t *testing.T) {
	t.Parallel()
	ws, m := setup(t)

	require.NoError(t, os.Symlink(
		filepath.Join(ws.Root, "gone.tla"),
		filepath.Join(ws.SpecDir, "paxos", "Stale.tla"),
	))

	res, err := m.Experiment(context.Background(), rows(experiment.Row{Filename: "paxos/Paxos.tla", Tool: "apalache"})[0])
	require.NoError(t, err)
	assert.Equal(t, []string{"MC.cfg", "Paxos.tla", "Voting.tla"}, res.Files)
	assert.NoFileExists(t, filepath.Join(res.Dir, "Stale.tla"))
}

func TestAll_UnknownToolStopsTheRun(t *testing.T) {
	t.Parallel()
	ws, m := setup(t)

	input := rows(
		experiment.Row{Filename: "paxos/Paxos.tla", Tool: "apalache"},
		experiment.Row{Filename: "paxos/Paxos.tla", Tool: "spin"},
		experiment.Row{Filename: "paxos/Paxos.tla", Tool: "tlc"},
	)
	results, err := m.All(context.Background(), input)
	require.ErrorIs(t, err, checker.ErrUnknownTool)
	assert.Contains(t, err.Error(), "spin")
	assert.Len(t, results, 1)

	assert.Equal(t, []string{"0"}, testutil.ListDir(t, ws.OutDir))
}

func TestExperiment_UnknownToolCreatesNothing(t *testing.T) {
	t.Parallel()
	ws, m := setup(t)

	_, err := m.Experiment(context.Background(), rows(experiment.Row{Filename: "paxos/Paxos.tla", Tool: "nusmv"})[0])
	require.ErrorIs(t, err, checker.ErrUnknownTool)
	assert.NoDirExists(t, ws.OutDir)
}

func TestExperiment_ExistingDirectoryIsAnError(t *testing.T) {
	t.Parallel()
	ws, m := setup(t)

	require.NoError(t, os.MkdirAll(filepath.Join(ws.OutDir, "0"), 0o755))
	_, err := m.Experiment(context.Background(), rows(experiment.Row{Filename: "paxos/Paxos.tla", Tool: "apalache"})[0])
	require.ErrorIs(t, err, fs.ErrExist)
}

func TestExperiment_MissingSpecDirectory(t *testing.T) {
	t.Parallel()
	_, m := setup(t)

	_, err := m.Experiment(context.Background(), rows(experiment.Row{Filename: "raft/Raft.tla", Tool: "apalache"})[0])
	require.ErrorIs(t, err, fs.ErrNotExist)
}

func TestAll_StopsWhenCancelled(t *testing.T) {
	t.Parallel()
	ws, m := setup(t)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	results, err := m.All(ctx, rows(experiment.Row{Filename: "paxos/Paxos.tla", Tool: "apalache"}))
	require.ErrorIs(t, err, context.Canceled)
	assert.Empty(t, results)
	assert.NoDirExists(t, ws.OutDir)
}
