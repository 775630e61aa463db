package main

import (
	"bytes"
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/specialistvlad/expgrid/internal/cli"
	"github.com/specialistvlad/expgrid/internal/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRun_ShouldExit(t *testing.T) {
	t.Parallel()

	// --- Arrange ---
	args := []string{"-h"}
	out := &bytes.Buffer{}

	// --- Act ---
	err := run(context.Background(), out, args)

	// --- Assert ---
	require.NoError(t, err, "run() should return a nil error when shouldExit is true")
	require.Contains(t, out.String(), "Usage:", "Expected help text to be printed to the output buffer")
}

func TestRun_ParseError(t *testing.T) {
	t.Parallel()

	out := &bytes.Buffer{}
	err := run(context.Background(), out, []string{"--this-is-not-a-valid-flag"})

	require.Error(t, err, "run() should return an error when argument parsing fails")
	require.Contains(t, err.Error(), "flag provided but not defined: -this-is-not-a-valid-flag")
	assert.Equal(t, 2, exitCode(out, err))
}

func TestRun_NoArgumentsIsUsageError(t *testing.T) {
	t.Parallel()

	out := &bytes.Buffer{}
	err := run(context.Background(), out, nil)

	require.Error(t, err)
	assert.Contains(t, out.String(), "Usage:")
	assert.Equal(t, 2, exitCode(out, err))
}

func TestRun_EndToEnd(t *testing.T) {
	t.Parallel()

	ws := testutil.NewWorkspace(t)
	testutil.WriteFiles(t, ws.SpecDir, testutil.PaxosSpec)
	tablePath := ws.WriteTable(t,
		"filename;tool;init;next;inv;args",
		"paxos/Paxos.tla;apalache;Init;Next;Inv;--length=4",
		"paxos/Paxos.tla;tlc;Init;Next;Inv;",
	)

	out := &bytes.Buffer{}
	err := run(context.Background(), out, []string{tablePath, ws.CheckerDir, ws.SpecDir, ws.OutDir})
	require.NoError(t, err)
	assert.Equal(t, 0, exitCode(out, err))

	assert.Equal(t, []string{"0", "1"}, testutil.ListDir(t, ws.OutDir))
	script, err := os.ReadFile(filepath.Join(ws.OutDir, "0", "run-one.sh"))
	require.NoError(t, err)
	assert.Contains(t, string(script), "check --init=Init --next=Next --inv=Inv --length=4 Paxos.tla\n")
}

func TestRun_FatalErrorsExitWithOne(t *testing.T) {
	t.Parallel()

	testCases := []struct {
		name        string
		table       []string // nil means the table file is not created
		expectedMsg string
		expectedDir []string
	}{
		{
			name:        "Missing table",
			expectedMsg: "does not exist",
		},
		{
			name:        "No header",
			table:       []string{"1,2,3", "4,5,6", "7,8,9"},
			expectedMsg: "does not have a header",
		},
		{
			name: "Unknown tool",
			table: []string{
				"filename,tool,init,next,inv,args",
				"paxos/Paxos.tla,apalache,Init,Next,Inv,",
				"paxos/Paxos.tla,spin,Init,Next,Inv,",
			},
			expectedMsg: "unknown tool: spin",
			expectedDir: []string{"0"},
		},
	}

	for _, tc := range testCases {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()

			ws := testutil.NewWorkspace(t)
			testutil.WriteFiles(t, ws.SpecDir, testutil.PaxosSpec)
			tablePath := filepath.Join(ws.Root, "missing.csv")
			if tc.table != nil {
				tablePath = ws.WriteTable(t, tc.table...)
			}

			out := &bytes.Buffer{}
			err := run(context.Background(), out, []string{tablePath, ws.CheckerDir, ws.SpecDir, ws.OutDir})
			require.Error(t, err)

			var exitErr *cli.ExitError
			assert.False(t, errors.As(err, &exitErr))
			assert.Equal(t, 1, exitCode(out, err))
			assert.Contains(t, out.String(), "Error: ")
			assert.Contains(t, out.String(), tc.expectedMsg)
			assert.Equal(t, tc.expectedDir, testutil.ListDir(t, ws.OutDir))
		})
	}
}
