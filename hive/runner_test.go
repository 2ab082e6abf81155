package hive

import (
	"context"
	"os"
	"path/filepath"
	"runtime"
	"testing"

	"github.com/balboard/balboard/model"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/require"
)

func writeFakeHive(t *testing.T, script string) string {
	t.Helper()
	if runtime.GOOS == "windows" {
		t.Skip("requires a POSIX shell")
	}
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "hive"), []byte("#!/bin/sh\n"+script), 0755))
	return dir
}

func TestRunnerRun(t *testing.T) {
	repo := writeFakeHive(t, `echo "args: $*"
echo line 2
echo line 3 >&2
exit 0
`)
	runner := NewRunner(zerolog.Nop(), repo, 2)

	inv := runner.Run(context.Background(), CommandOptions{Simulation: model.SimulationRLP})
	require.NoError(t, inv.Err)
	require.False(t, inv.Failed())
	require.Equal(t, 0, inv.ExitCode)
	require.Equal(t, []string{"--sim", "consume-rlp", "--docker.output"}, inv.Args)
	require.Equal(t, []string{"line 2", "line 3"}, inv.Output.Lines())
}

func TestRunnerRunFailure(t *testing.T) {
	repo := writeFakeHive(t, `echo "simulation failed"
exit 3
`)
	runner := NewRunner(zerolog.Nop(), repo, 10)

	inv := runner.Run(context.Background(), CommandOptions{Simulation: model.SimulationEngine})
	require.True(t, inv.Failed())
	require.Equal(t, 3, inv.ExitCode)
	require.Equal(t, "simulation failed\n", inv.Output.String())
}

func TestRunnerVerify(t *testing.T) {
	repo := writeFakeHive(t, `[ "$1" = "--cleanup" ] || exit 1
`)
	require.NoError(t, NewRunner(zerolog.Nop(), repo, 10).Verify(context.Background()))

	err := NewRunner(zerolog.Nop(), t.TempDir(), 10).Verify(context.Background())
	require.ErrorContains(t, err, "please install hive first")
}
