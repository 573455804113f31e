package cmd

import (
	"database/sql"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/spf13/cobra"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const goldenDir = "../testdata/golden"

func writeFile(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestRunSimulation_GoldenOutput(t *testing.T) {
	// GIVEN the fifo_small input with 2 frames and options OPFS
	want, err := os.ReadFile(filepath.Join(goldenDir, "fifo_small.out"))
	require.NoError(t, err)
	var out strings.Builder

	// WHEN the run completes
	err = runSimulation(&out, runParams{
		InputPath: filepath.Join(goldenDir, "fifo_small.in"),
		Algo:      "f",
		Frames:    2,
		Options:   "OPFS",
	})

	// THEN stdout matches the golden output exactly
	require.NoError(t, err)
	assert.Equal(t, string(want), out.String())
}

func TestRunSimulation_RandomFileDrivesVictim(t *testing.T) {
	// GIVEN a random file whose first value selects frame 1 of 2
	rfile := writeFile(t, "rfile", "3\n1\n0\n1\n")
	var out strings.Builder

	require.NoError(t, runSimulation(&out, runParams{
		InputPath: filepath.Join(goldenDir, "fifo_small.in"),
		RandPath:  rfile,
		Algo:      "r",
		Frames:    2,
		Options:   "O",
	}))

	// THEN the modified page 1 is evicted and written to swap
	assert.Contains(t, out.String(), "3: ==> w 3\n UNMAP 0:1\n OUT\n FIN\n MAP 1\n SEGPROT\n")
}

func TestRunSimulation_YAMLScenario(t *testing.T) {
	scenario := writeFile(t, "small.yaml", `
processes:
  - vmas:
      - {start: 0, end: 1}
instructions: ["c 0", "w 0", "r 1"]
`)
	var out strings.Builder

	require.NoError(t, runSimulation(&out, runParams{InputPath: scenario, Algo: "c", Frames: 4, Options: "S"}))

	// 2 maps + 2 zero fills + 1 context switch + 2 accesses
	assert.Equal(t, "PROC[0]: U=0 M=2 I=0 O=0 FI=0 FO=0 Z=2 SV=0 SP=0\nTOTALCOST 1 3 1223\n", out.String())
}

func TestRunSimulation_TraceDB(t *testing.T) {
	// GIVEN a trace database path
	db := filepath.Join(t.TempDir(), "trace.db")
	var out strings.Builder

	// WHEN two runs write into it
	for i := 0; i < 2; i++ {
		require.NoError(t, runSimulation(&out, runParams{
			InputPath: filepath.Join(goldenDir, "fifo_small.in"),
			Algo:      "fifo",
			Frames:    2,
			TraceDB:   db,
		}))
	}

	// THEN both runs and all 9 events of each are stored, and no output was selected
	conn, err := sql.Open("sqlite", db)
	require.NoError(t, err)
	defer func() { _ = conn.Close() }()
	var runs, faults int
	require.NoError(t, conn.QueryRow("select count(*) from runs").Scan(&runs))
	require.NoError(t, conn.QueryRow("select count(*) from faults where kind = 'SEGPROT'").Scan(&faults))
	assert.Equal(t, 2, runs)
	assert.Equal(t, 2, faults)
	require.NoError(t, conn.QueryRow("select count(*) from faults").Scan(&faults))
	assert.Equal(t, 18, faults)
	assert.Empty(t, out.String())
}

func TestRunSimulation_Errors(t *testing.T) {
	good := filepath.Join(goldenDir, "fifo_small.in")
	tests := []struct {
		name   string
		params runParams
	}{
		{"missing input", runParams{InputPath: "does-not-exist.in", Algo: "f", Frames: 2}},
		{"missing random file", runParams{InputPath: good, RandPath: "does-not-exist", Algo: "r", Frames: 2}},
		{"bad options", runParams{InputPath: good, Algo: "f", Frames: 2, Options: "Q"}},
		{"bad pager", runParams{InputPath: good, Algo: "lru", Frames: 2}},
		{"access before context", runParams{InputPath: writeFile(t, "bad.in", "1\n0\nr 0\n"), Algo: "f", Frames: 2}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var out strings.Builder
			assert.Error(t, runSimulation(&out, tt.params))
		})
	}
}

// newFlagCommand registers the run flags on a fresh command so Changed state is isolated.
func newFlagCommand() *cobra.Command {
	c := &cobra.Command{}
	c.Flags().String("algo", "n", "")
	c.Flags().Int("frames", 16, "")
	c.Flags().String("options", "", "")
	c.Flags().Int64("seed", 42, "")
	c.Flags().String("trace-db", "", "")
	return c
}

func TestApplyRunConfig_FileFillsUnsetFlags(t *testing.T) {
	// GIVEN a run config setting every key
	path := writeFile(t, "run.yaml", "algo: a\nframes: 8\noptions: OS\nseed: 7\ntrace_db: out.db\n")
	cfg, err := loadRunConfig(path)
	require.NoError(t, err)

	// WHEN --frames was given explicitly
	c := newFlagCommand()
	require.NoError(t, c.Flags().Set("frames", "32"))
	params := runParams{Algo: "n", Frames: 32, Seed: 42}
	applyRunConfig(c, cfg, &params)

	// THEN the flag wins and every other value comes from the file
	assert.Equal(t, runParams{Algo: "a", Frames: 32, Options: "OS", Seed: 7, TraceDB: "out.db"}, params)
}

func TestApplyRunConfig_PartialFile(t *testing.T) {
	cfg, err := loadRunConfig(writeFile(t, "run.yaml", "frames: 4\n"))
	require.NoError(t, err)

	params := runParams{Algo: "n", Frames: 16, Seed: 42}
	applyRunConfig(newFlagCommand(), cfg, &params)

	assert.Equal(t, runParams{Algo: "n", Frames: 4, Seed: 42}, params)
}

func TestLoadRunConfig_UnknownKeyRejected(t *testing.T) {
	_, err := loadRunConfig(writeFile(t, "run.yaml", "algo: c\nframe: 4\n"))
	assert.Error(t, err)
}

func TestLoadRunConfig_MissingFile(t *testing.T) {
	_, err := loadRunConfig(filepath.Join(t.TempDir(), "none.yaml"))
	assert.Error(t, err)
}

func TestRunCmd_FlagDefaults(t *testing.T) {
	assert.Equal(t, "n", runCmd.Flags().Lookup("algo").DefValue)
	assert.Equal(t, "16", runCmd.Flags().Lookup("frames").DefValue)
	assert.Equal(t, "error", runCmd.Flags().Lookup("log").DefValue)
	assert.NoError(t, runCmd.Args(runCmd, []string{"in"}))
	assert.NoError(t, runCmd.Args(runCmd, []string{"in", "rfile"}))
	assert.Error(t, runCmd.Args(runCmd, nil))
	assert.Error(t, runCmd.Args(runCmd, []string{"a", "b", "c"}))
}
