package external

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"robocup-tournament/logger"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// region ExecRunner tests

func TestExecRunner_AppendsOutput(t *testing.T) {
	dir := t.TempDir()
	out := filepath.Join(dir, "out.log")
	require.NoError(t, os.WriteFile(out, []byte("first\n"), 0o644))

	r := NewExecRunner()
	outcome := r.Run(context.Background(), Command{Name: "sh", Args: []string{"-c", "echo second"}, Stdout: out})

	assert.False(t, outcome.Failed())
	assert.NoError(t, outcome.Error())

	data, err := os.ReadFile(out)
	require.NoError(t, err)
	assert.Equal(t, "first\nsecond\n", string(data))
}

func TestExecRunner_SeparateStreams(t *testing.T) {
	dir := t.TempDir()
	out := filepath.Join(dir, "out.log")
	errLog := filepath.Join(dir, "err.log")

	outcome := NewExecRunner().Run(context.Background(), Command{
		Name:   "sh",
		Args:   []string{"-c", "echo good; echo bad >&2"},
		Stdout: out,
		Stderr: errLog,
	})
	require.False(t, outcome.Failed())

	data, err := os.ReadFile(out)
	require.NoError(t, err)
	assert.Equal(t, "good\n", string(data))

	data, err = os.ReadFile(errLog)
	require.NoError(t, err)
	assert.Equal(t, "bad\n", string(data))
}

func TestExecRunner_ExitCode(t *testing.T) {
	outcome := NewExecRunner().Run(context.Background(), Command{Name: "sh", Args: []string{"-c", "exit 3"}})

	assert.True(t, outcome.Failed())
	assert.Equal(t, 3, outcome.ExitCode)
	assert.Nil(t, outcome.Err)
	assert.Contains(t, outcome.Error().Error(), "exit status 3")
}

func TestExecRunner_WorkingDirectory(t *testing.T) {
	dir := t.TempDir()
	outcome := NewExecRunner().Run(context.Background(), Command{Name: "sh", Args: []string{"-c", "touch here"}, Dir: dir})
	require.False(t, outcome.Failed())

	_, err := os.Stat(filepath.Join(dir, "here"))
	assert.NoError(t, err)
}

func TestExecRunner_MissingProgram(t *testing.T) {
	outcome := NewExecRunner().Run(context.Background(), Command{Name: "definitely-not-a-real-program-xyz"})

	assert.True(t, outcome.Failed())
	assert.Error(t, outcome.Err)
}

func TestExecRunner_Cancelled(t *testing.T) {
	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()

	start := time.Now()
	outcome := NewExecRunner().Run(ctx, Command{Name: "sleep", Args: []string{"5"}})

	assert.True(t, outcome.Failed())
	assert.ErrorIs(t, outcome.Err, context.DeadlineExceeded)
	assert.Less(t, time.Since(start), 4*time.Second)
}

func TestExecRunner_UnwritableLog(t *testing.T) {
	outcome := NewExecRunner().Run(context.Background(), Command{
		Name:   "true",
		Stdout: filepath.Join(t.TempDir(), "missing", "out.log"),
	})
	assert.True(t, outcome.Failed())
}

// endregion

// region helper tests

func TestCommand_String(t *testing.T) {
	assert.Equal(t, "ssh host1 teams/a/kill", Command{Name: "ssh", Args: []string{"host1", "teams/a/kill"}}.String())
	assert.Equal(t, "gzip", Command{Name: "gzip"}.String())
}

func TestRemote_Command(t *testing.T) {
	cmd := NewRemote("").Command("host1", "teams/a/build teams/a")
	assert.Equal(t, "ssh", cmd.Name)
	assert.Equal(t, []string{"host1", "teams/a/build teams/a"}, cmd.Args)

	assert.Equal(t, "/usr/bin/ssh", NewRemote("/usr/bin/ssh").Command("h", "x").Name)
}

func TestOutcome_Log(t *testing.T) {
	// exercising both branches against the no-op logger must not panic
	Outcome{Command: "ok"}.Log(logger.NewNop())
	Outcome{Command: "bad", ExitCode: 1}.Log(logger.NewNop())
}

func TestMockRunner_RecordsCalls(t *testing.T) {
	m := NewMockRunner()
	m.Run(context.Background(), Command{Name: "ssh", Args: []string{"h1", "kill"}})
	m.Run(context.Background(), Command{Name: "gzip"})

	assert.Len(t, m.Calls(), 2)
	assert.Len(t, m.CallsTo("ssh"), 1)
}

// endregion
